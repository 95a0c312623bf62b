package service

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/arbiterlabs/arbiter/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultInitialWeight = 1.0
	DefaultWeightMin     = 0.1
	DefaultWeightMax     = 5.0

	// Multiplicative reward/penalty factors. The asymmetry is intentional:
	// dissenting correctly against a wrong consensus pays best, following a
	// wrong consensus costs most. Tunable via config, not load-bearing ratios.
	DefaultRewardMajorityCorrect = 1.05
	DefaultPenaltyMinorityWrong  = 0.90
	DefaultRewardMinorityCorrect = 1.15
	DefaultPenaltyMajorityWrong  = 0.85
)

var ErrUnknownAgent = errors.New("agent not registered in reputation ledger")

// ReputationConfig holds the weight bounds and the four reward/penalty
// multipliers. Supplied once at construction, immutable afterwards.
type ReputationConfig struct {
	InitialWeight         float64
	WeightMin             float64
	WeightMax             float64
	RewardMajorityCorrect float64
	PenaltyMinorityWrong  float64
	RewardMinorityCorrect float64
	PenaltyMajorityWrong  float64
}

func DefaultReputationConfig() ReputationConfig {
	return ReputationConfig{
		InitialWeight:         DefaultInitialWeight,
		WeightMin:             DefaultWeightMin,
		WeightMax:             DefaultWeightMax,
		RewardMajorityCorrect: DefaultRewardMajorityCorrect,
		PenaltyMinorityWrong:  DefaultPenaltyMinorityWrong,
		RewardMinorityCorrect: DefaultRewardMinorityCorrect,
		PenaltyMajorityWrong:  DefaultPenaltyMajorityWrong,
	}
}

// Outcome describes one agent's standing after ground truth is known, and the
// multiplier the reputation manager chose for it.
type Outcome struct {
	Multiplier       float64
	Correct          bool
	ConsensusCorrect bool
}

// Ledger is the live reputation store: per-agent weight plus lifetime
// accuracy counters. Reads take an atomic per-agent snapshot; Apply is the
// only mutation path and serializes read-modify-write per agent, so feedback
// for decisions touching disjoint agent sets proceeds in parallel.
type Ledger struct {
	cfg    ReputationConfig
	logger *zap.Logger

	mu      sync.RWMutex // guards the entries map, not the entries
	entries map[string]*ledgerEntry
}

type ledgerEntry struct {
	mu    sync.Mutex
	agent domain.Agent
}

func NewLedger(cfg ReputationConfig, logger *zap.Logger) *Ledger {
	return &Ledger{
		cfg:     cfg,
		logger:  logger,
		entries: make(map[string]*ledgerEntry),
	}
}

// Register adds an agent with the initial weight. Registering an existing
// agent is a no-op so pool construction stays idempotent.
func (l *Ledger) Register(id, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[id]; ok {
		return
	}
	now := time.Now().UTC()
	l.entries[id] = &ledgerEntry{agent: domain.Agent{
		ID:        id,
		Name:      name,
		Weight:    l.clamp(l.cfg.InitialWeight),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}}
}

// Seed overwrites an agent's state from persistence. Used once at startup,
// before any voting begins.
func (l *Ledger) Seed(a domain.Agent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a.Weight = l.clamp(a.Weight)
	l.entries[a.ID] = &ledgerEntry{agent: a}
}

// SnapshotWeight returns the agent's current weight as a single atomic read.
// This is what the vote collector freezes into weight_at_vote_time.
func (l *Ledger) SnapshotWeight(id string) (float64, bool) {
	e := l.entry(id)
	if e == nil {
		return 0, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.agent.Weight, true
}

// Snapshot returns a consistent copy of the agent's full reputation state.
func (l *Ledger) Snapshot(id string) (domain.Agent, bool) {
	e := l.entry(id)
	if e == nil {
		return domain.Agent{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.agent, true
}

// List returns snapshots of all agents, ordered by id.
func (l *Ledger) List() []domain.Agent {
	l.mu.RLock()
	ids := make([]string, 0, len(l.entries))
	for id := range l.entries {
		ids = append(ids, id)
	}
	l.mu.RUnlock()
	sort.Strings(ids)

	out := make([]domain.Agent, 0, len(ids))
	for _, id := range ids {
		if a, ok := l.Snapshot(id); ok {
			out = append(out, a)
		}
	}
	return out
}

// Apply multiplies the agent's weight by the outcome's factor, clamps the
// result into [WeightMin, WeightMax] and updates the lifetime counters, all
// under the agent's lock. Exactly one write per call.
func (l *Ledger) Apply(id string, o Outcome) (domain.WeightDelta, error) {
	e := l.entry(id)
	if e == nil {
		return domain.WeightDelta{}, ErrUnknownAgent
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	old := e.agent.Weight
	e.agent.Weight = l.clamp(old * o.Multiplier)
	e.agent.VoteCount++
	if o.Correct {
		e.agent.CorrectCount++
		if o.ConsensusCorrect {
			e.agent.MajorityCorrect++
		} else {
			e.agent.MinorityCorrect++
		}
	} else if !o.ConsensusCorrect {
		e.agent.BothWrong++
	}
	e.agent.UpdatedAt = time.Now().UTC()

	l.logger.Debug("weight updated",
		zap.String("agent_id", id),
		zap.Float64("multiplier", o.Multiplier),
		zap.Float64("old_weight", old),
		zap.Float64("new_weight", e.agent.Weight))

	return domain.WeightDelta{
		AgentID:    id,
		Multiplier: o.Multiplier,
		OldWeight:  old,
		NewWeight:  e.agent.Weight,
		Correct:    o.Correct,
	}, nil
}

func (l *Ledger) entry(id string) *ledgerEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries[id]
}

func (l *Ledger) clamp(w float64) float64 {
	if w < l.cfg.WeightMin {
		return l.cfg.WeightMin
	}
	if w > l.cfg.WeightMax {
		return l.cfg.WeightMax
	}
	return w
}
