package domain

import (
	"time"

	"github.com/google/uuid"
)

// WeightDelta records one agent's reputation change within a feedback event.
type WeightDelta struct {
	AgentID    string  `json:"agent_id"`
	Multiplier float64 `json:"multiplier"`
	OldWeight  float64 `json:"old_weight"`
	NewWeight  float64 `json:"new_weight"`
	Correct    bool    `json:"correct"`
}

// WeightUpdateEvent is the record of applying ground truth to one decision.
// At most one event is ever applied per decision id; replayed feedback
// returns the original event unchanged.
type WeightUpdateEvent struct {
	DecisionID       uuid.UUID     `json:"decision_id"`
	GroundTruth      Label         `json:"ground_truth"`
	ConsensusLabel   Label         `json:"consensus_label"`
	ConsensusCorrect bool          `json:"consensus_correct"`
	Deltas           []WeightDelta `json:"deltas"`
	AppliedAt        time.Time     `json:"applied_at"`
}
