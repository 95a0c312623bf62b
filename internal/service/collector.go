package service

import (
	"context"
	"errors"
	"time"

	"github.com/arbiterlabs/arbiter/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNoAvailableAgents = errors.New("no available agents produced a vote")

// Collector queries every active agent handle with the same input and
// assembles an immutable VoteRecord. Each vote carries the agent's reputation
// weight frozen at collection time.
type Collector struct {
	ledger *Ledger
	labels *domain.LabelSet
	logger *zap.Logger
}

func NewCollector(ledger *Ledger, labels *domain.LabelSet, logger *zap.Logger) *Collector {
	return &Collector{ledger: ledger, labels: labels, logger: logger}
}

// Collect gathers one vote per responsive agent. A handle that errors, returns
// a label outside the configured set, or is not registered contributes no vote
// at all — it is never counted as a zero-confidence vote, which would silently
// bias the aggregate. With zero votes the whole collection fails.
func (c *Collector) Collect(ctx context.Context, decisionID uuid.UUID, message string, handles []domain.AgentHandle) (*domain.VoteRecord, error) {
	rec := &domain.VoteRecord{
		DecisionID: decisionID,
		CreatedAt:  time.Now().UTC(),
	}

	for _, h := range handles {
		label, confidence, err := h.Predict(ctx, message)
		if err != nil {
			c.logger.Warn("agent skipped: predict failed",
				zap.String("agent_id", h.ID()),
				zap.Error(err))
			continue
		}
		if !c.labels.Contains(label) {
			c.logger.Warn("agent skipped: unrecognized label",
				zap.String("agent_id", h.ID()),
				zap.String("label", string(label)))
			continue
		}
		weight, ok := c.ledger.SnapshotWeight(h.ID())
		if !ok {
			c.logger.Warn("agent skipped: not registered in ledger",
				zap.String("agent_id", h.ID()))
			continue
		}
		rec.Votes = append(rec.Votes, domain.Vote{
			AgentID:      h.ID(),
			Label:        label,
			Confidence:   clampConfidence(confidence),
			WeightAtVote: weight,
		})
	}

	if len(rec.Votes) == 0 {
		return nil, ErrNoAvailableAgents
	}
	return rec, nil
}
