package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one agent's output for one prediction instance. WeightAtVote is a
// snapshot of the agent's reputation weight taken when the vote was collected;
// later reputation changes never alter it.
type Vote struct {
	AgentID      string  `json:"agent_id"`
	Label        Label   `json:"label"`
	Confidence   float64 `json:"confidence"`
	WeightAtVote float64 `json:"weight_at_vote"`
}

// VoteRecord is the ordered set of votes collected for one prediction
// instance. Immutable once assembled; it is the unit persisted and later fed
// back into the reputation manager.
type VoteRecord struct {
	DecisionID uuid.UUID `json:"decision_id"`
	Votes      []Vote    `json:"votes"`
	CreatedAt  time.Time `json:"created_at"`
}
