package domain

import (
	"context"

	"github.com/google/uuid"
)

// AgentHandle is the capability contract the voting core requires from one
// classifier: produce a label and a confidence for a given input. The handle
// is owned by the classifier pool; the core only calls it.
type AgentHandle interface {
	ID() string
	Predict(ctx context.Context, message string) (Label, float64, error)
}

// AgentStore persists agent reputation rows for durability across restarts.
// The live reputation state lives in memory; this store is written through
// after feedback and flushed periodically by the snapshotter.
type AgentStore interface {
	Upsert(ctx context.Context, a *Agent) error
	GetByID(ctx context.Context, id string) (*Agent, error)
	List(ctx context.Context) ([]Agent, error)
	UpdateReputation(ctx context.Context, a *Agent) error
}

// DecisionStore persists vote records and their consensus results so ground
// truth arriving much later can still be audited.
type DecisionStore interface {
	Create(ctx context.Context, rec *VoteRecord, res *ConsensusResult) error
	GetByID(ctx context.Context, decisionID uuid.UUID) (*VoteRecord, *ConsensusResult, error)
}

// EventStore persists applied weight update events.
type EventStore interface {
	Create(ctx context.Context, ev *WeightUpdateEvent) error
	GetByDecisionID(ctx context.Context, decisionID uuid.UUID) (*WeightUpdateEvent, error)
}
