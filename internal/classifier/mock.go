package classifier

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/arbiterlabs/arbiter/internal/domain"
)

// spamMarkers are phrases the mock treats as spam signal. Crude on purpose:
// the mock exists to exercise the voting path, not to classify well.
var spamMarkers = []string{
	"free", "winner", "prize", "claim", "urgent", "click", "offer",
	"cash", "credit", "loan", "congratulations", "guaranteed",
}

// MockAgent is a deterministic keyword classifier. Two mocks with different
// ids disagree near the decision boundary because each id perturbs the score,
// which gives tests and local runs genuine split votes.
type MockAgent struct {
	id string

	// Overrides for tests. When FixedLabel is non-empty the heuristic is
	// bypassed entirely.
	FixedLabel      domain.Label
	FixedConfidence float64
	Err             error
}

func NewMockAgent(id string) *MockAgent {
	return &MockAgent{id: id}
}

func (a *MockAgent) ID() string {
	return a.id
}

func (a *MockAgent) Predict(ctx context.Context, message string) (domain.Label, float64, error) {
	if a.Err != nil {
		return "", 0, a.Err
	}
	if a.FixedLabel != "" {
		return a.FixedLabel, a.FixedConfidence, nil
	}

	lower := strings.ToLower(message)
	hits := 0
	for _, marker := range spamMarkers {
		if strings.Contains(lower, marker) {
			hits++
		}
	}

	score := float64(hits) / 3.0
	score += float64(a.seed()%10) / 100.0 // per-agent perturbation, stable across calls
	if score > 1 {
		score = 1
	}

	if score >= 0.5 {
		return domain.LabelSpam, 0.5 + score/2, nil
	}
	return domain.LabelHam, 1 - score/2, nil
}

func (a *MockAgent) seed() uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(a.id))
	return h.Sum32()
}
