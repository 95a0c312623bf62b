package domain

import (
	"time"
)

// Agent is one classifier participating in consensus voting. The ID is the
// stable external identity of the classifier (e.g. "naive_bayes"); the weight
// is its current reputation multiplier, mutated only by the reputation ledger.
type Agent struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Weight          float64   `json:"weight"`
	VoteCount       int64     `json:"vote_count"`
	CorrectCount    int64     `json:"correct_count"`
	MinorityCorrect int64     `json:"minority_correct"`
	MajorityCorrect int64     `json:"majority_correct"`
	BothWrong       int64     `json:"both_wrong"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Accuracy is the lifetime fraction of resolved votes that matched ground
// truth. Zero until the agent has received any feedback.
func (a *Agent) Accuracy() float64 {
	if a.VoteCount == 0 {
		return 0
	}
	return float64(a.CorrectCount) / float64(a.VoteCount)
}
