package service

import (
	"context"
	"sync"

	"github.com/arbiterlabs/arbiter/internal/domain"
	"github.com/arbiterlabs/arbiter/internal/store"
	"github.com/google/uuid"
)

// stubHandle implements domain.AgentHandle with a fixed response.
type stubHandle struct {
	id         string
	label      domain.Label
	confidence float64
	err        error
}

func (s *stubHandle) ID() string { return s.id }

func (s *stubHandle) Predict(ctx context.Context, message string) (domain.Label, float64, error) {
	if s.err != nil {
		return "", 0, s.err
	}
	return s.label, s.confidence, nil
}

// mockAgentStore implements domain.AgentStore in memory.
type mockAgentStore struct {
	mu     sync.Mutex
	agents map[string]domain.Agent
}

func newMockAgentStore() *mockAgentStore {
	return &mockAgentStore{agents: make(map[string]domain.Agent)}
}

func (m *mockAgentStore) Upsert(ctx context.Context, a *domain.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents[a.ID] = *a
	return nil
}

func (m *mockAgentStore) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (m *mockAgentStore) List(ctx context.Context) ([]domain.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Agent
	for _, a := range m.agents {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAgentStore) UpdateReputation(ctx context.Context, a *domain.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.agents[a.ID]; !ok {
		return store.ErrNotFound
	}
	m.agents[a.ID] = *a
	return nil
}

// mockDecisionStore implements domain.DecisionStore in memory.
type mockDecisionStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*domain.VoteRecord
	results map[uuid.UUID]*domain.ConsensusResult
}

func newMockDecisionStore() *mockDecisionStore {
	return &mockDecisionStore{
		records: make(map[uuid.UUID]*domain.VoteRecord),
		results: make(map[uuid.UUID]*domain.ConsensusResult),
	}
}

func (m *mockDecisionStore) Create(ctx context.Context, rec *domain.VoteRecord, res *domain.ConsensusResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.DecisionID]; ok {
		return store.ErrConflict
	}
	m.records[rec.DecisionID] = rec
	m.results[rec.DecisionID] = res
	return nil
}

func (m *mockDecisionStore) GetByID(ctx context.Context, decisionID uuid.UUID) (*domain.VoteRecord, *domain.ConsensusResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[decisionID]
	if !ok {
		return nil, nil, store.ErrNotFound
	}
	return rec, m.results[decisionID], nil
}

// mockEventStore implements domain.EventStore in memory.
type mockEventStore struct {
	mu     sync.Mutex
	events map[uuid.UUID]*domain.WeightUpdateEvent
}

func newMockEventStore() *mockEventStore {
	return &mockEventStore{events: make(map[uuid.UUID]*domain.WeightUpdateEvent)}
}

func (m *mockEventStore) Create(ctx context.Context, ev *domain.WeightUpdateEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[ev.DecisionID]; ok {
		return store.ErrConflict
	}
	m.events[ev.DecisionID] = ev
	return nil
}

func (m *mockEventStore) GetByDecisionID(ctx context.Context, decisionID uuid.UUID) (*domain.WeightUpdateEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[decisionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return ev, nil
}
