package domain

import (
	"github.com/google/uuid"
)

// ConsensusResult is the aggregated decision derived from one VoteRecord.
// Majority holds the agents that voted for the winning label, Minority the
// rest — partition by agreement with the winner, not by raw vote count.
type ConsensusResult struct {
	DecisionID uuid.UUID         `json:"decision_id"`
	Label      Label             `json:"label"`
	Confidence float64           `json:"confidence"`
	Scores     map[Label]float64 `json:"scores"`
	Majority   []string          `json:"majority"`
	Minority   []string          `json:"minority"`
}
