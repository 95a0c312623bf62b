package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/arbiterlabs/arbiter/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnknownDecision = errors.New("unknown decision id")
	ErrUnknownLabel    = errors.New("label not in configured label set")
)

// decisionState tracks one decision through Pending → Resolved. event is nil
// while pending; setting it is the single conditional transition that makes
// feedback idempotent.
type decisionState struct {
	mu     sync.Mutex
	record *domain.VoteRecord
	result *domain.ConsensusResult
	event  *domain.WeightUpdateEvent
}

// Engine is the reputation-weighted voting core. Resolve runs the synchronous
// collect-and-vote path; SubmitFeedback runs the decoupled, idempotent
// reputation update path once ground truth arrives.
type Engine struct {
	collector *Collector
	resolver  *Resolver
	ledger    *Ledger
	handles   []domain.AgentHandle
	labels    *domain.LabelSet
	cfg       ReputationConfig
	logger    *zap.Logger

	mu        sync.RWMutex
	decisions map[uuid.UUID]*decisionState

	// Optional persistence collaborators. The core never blocks its own
	// correctness on them; failures are logged and the in-memory state stands.
	agentStore    domain.AgentStore
	decisionStore domain.DecisionStore
	eventStore    domain.EventStore
}

func NewEngine(handles []domain.AgentHandle, labels *domain.LabelSet, cfg ReputationConfig, logger *zap.Logger) *Engine {
	ledger := NewLedger(cfg, logger)
	for _, h := range handles {
		ledger.Register(h.ID(), h.ID())
	}
	return &Engine{
		collector: NewCollector(ledger, labels, logger),
		resolver:  NewResolver(labels),
		ledger:    ledger,
		handles:   handles,
		labels:    labels,
		cfg:       cfg,
		logger:    logger,
		decisions: make(map[uuid.UUID]*decisionState),
	}
}

// SetStores wires the persistence collaborators.
func (e *Engine) SetStores(as domain.AgentStore, ds domain.DecisionStore, es domain.EventStore) {
	e.agentStore = as
	e.decisionStore = ds
	e.eventStore = es
}

// Ledger exposes the live reputation store for read-side consumers.
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

// LoadPersisted seeds the ledger from the agents table. Call once at startup,
// before serving traffic.
func (e *Engine) LoadPersisted(ctx context.Context) error {
	if e.agentStore == nil {
		return nil
	}
	agents, err := e.agentStore.List(ctx)
	if err != nil {
		return err
	}
	registered := make(map[string]bool, len(e.handles))
	for _, h := range e.handles {
		registered[h.ID()] = true
	}
	for _, a := range agents {
		if registered[a.ID] {
			e.ledger.Seed(a)
		}
	}
	for _, h := range e.handles {
		if err := e.agentStore.Upsert(ctx, snapshotPtr(e.ledger, h.ID())); err != nil {
			e.logger.Warn("agent upsert failed", zap.String("agent_id", h.ID()), zap.Error(err))
		}
	}
	return nil
}

// Resolve classifies one message: collect votes from every available agent,
// derive the weighted consensus, and retain the vote record for later
// feedback. Safe for concurrent callers.
func (e *Engine) Resolve(ctx context.Context, message string) (*domain.ConsensusResult, *domain.VoteRecord, error) {
	decisionID := uuid.New()

	rec, err := e.collector.Collect(ctx, decisionID, message, e.handles)
	if err != nil {
		return nil, nil, err
	}

	res, err := e.resolver.Resolve(rec)
	if err != nil {
		return nil, nil, err
	}

	e.mu.Lock()
	e.decisions[decisionID] = &decisionState{record: rec, result: res}
	e.mu.Unlock()

	if e.decisionStore != nil {
		if err := e.decisionStore.Create(ctx, rec, res); err != nil {
			e.logger.Error("decision persistence failed",
				zap.String("decision_id", decisionID.String()),
				zap.Error(err))
		}
	}

	e.logger.Info("consensus resolved",
		zap.String("decision_id", decisionID.String()),
		zap.String("label", string(res.Label)),
		zap.Float64("confidence", res.Confidence),
		zap.Int("votes", len(rec.Votes)))

	return res, rec, nil
}

// SubmitFeedback applies ground truth to a past decision. The first call per
// decision id transitions it to Resolved and adjusts every voter's weight by
// the reward/penalty table; every later call replays the original event
// without touching any weight. Returns applied=false on replay.
func (e *Engine) SubmitFeedback(ctx context.Context, decisionID uuid.UUID, groundTruth domain.Label) (*domain.WeightUpdateEvent, bool, error) {
	if !e.labels.Contains(groundTruth) {
		return nil, false, ErrUnknownLabel
	}

	e.mu.RLock()
	st := e.decisions[decisionID]
	e.mu.RUnlock()
	if st == nil {
		return nil, false, ErrUnknownDecision
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.event != nil {
		return st.event, false, nil
	}

	consensusCorrect := st.result.Label == groundTruth
	ev := &domain.WeightUpdateEvent{
		DecisionID:       decisionID,
		GroundTruth:      groundTruth,
		ConsensusLabel:   st.result.Label,
		ConsensusCorrect: consensusCorrect,
		AppliedAt:        time.Now().UTC(),
	}

	for _, v := range st.record.Votes {
		correct := v.Label == groundTruth
		o := Outcome{
			Multiplier:       e.multiplier(correct, consensusCorrect),
			Correct:          correct,
			ConsensusCorrect: consensusCorrect,
		}
		delta, err := e.ledger.Apply(v.AgentID, o)
		if err != nil {
			e.logger.Error("weight update skipped",
				zap.String("decision_id", decisionID.String()),
				zap.String("agent_id", v.AgentID),
				zap.Error(err))
			continue
		}
		ev.Deltas = append(ev.Deltas, delta)
	}

	st.event = ev
	e.persistEvent(ctx, ev)

	e.logger.Info("feedback applied",
		zap.String("decision_id", decisionID.String()),
		zap.String("ground_truth", string(groundTruth)),
		zap.Bool("consensus_correct", consensusCorrect),
		zap.Int("agents", len(ev.Deltas)))

	return ev, true, nil
}

// Decision returns the retained record and result for a decision id.
func (e *Engine) Decision(decisionID uuid.UUID) (*domain.VoteRecord, *domain.ConsensusResult, bool) {
	e.mu.RLock()
	st := e.decisions[decisionID]
	e.mu.RUnlock()
	if st == nil {
		return nil, nil, false
	}
	return st.record, st.result, true
}

// multiplier picks the reward/penalty factor for one agent. The four cases
// compare the agent's vote against ground truth and the consensus against
// ground truth; agreement with the winner follows from those two.
func (e *Engine) multiplier(correct, consensusCorrect bool) float64 {
	switch {
	case correct && consensusCorrect:
		return e.cfg.RewardMajorityCorrect
	case correct && !consensusCorrect:
		return e.cfg.RewardMinorityCorrect
	case !correct && consensusCorrect:
		return e.cfg.PenaltyMinorityWrong
	default:
		return e.cfg.PenaltyMajorityWrong
	}
}

func (e *Engine) persistEvent(ctx context.Context, ev *domain.WeightUpdateEvent) {
	if e.eventStore != nil {
		if err := e.eventStore.Create(ctx, ev); err != nil {
			e.logger.Error("event persistence failed",
				zap.String("decision_id", ev.DecisionID.String()),
				zap.Error(err))
		}
	}
	if e.agentStore == nil {
		return
	}
	for _, d := range ev.Deltas {
		a, ok := e.ledger.Snapshot(d.AgentID)
		if !ok {
			continue
		}
		if err := e.agentStore.UpdateReputation(ctx, &a); err != nil {
			e.logger.Error("agent persistence failed",
				zap.String("agent_id", d.AgentID),
				zap.Error(err))
		}
	}
}

func snapshotPtr(l *Ledger, id string) *domain.Agent {
	a, _ := l.Snapshot(id)
	return &a
}
