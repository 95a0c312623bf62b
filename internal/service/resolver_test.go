package service

import (
	"math"
	"reflect"
	"testing"

	"github.com/arbiterlabs/arbiter/internal/domain"
	"github.com/google/uuid"
)

func newTestResolver() *Resolver {
	return NewResolver(domain.DefaultLabelSet())
}

func record(votes ...domain.Vote) *domain.VoteRecord {
	return &domain.VoteRecord{DecisionID: uuid.New(), Votes: votes}
}

func TestResolver_WeightedWinner(t *testing.T) {
	r := newTestResolver()

	rec := record(
		domain.Vote{AgentID: "a", Label: domain.LabelSpam, Confidence: 0.95, WeightAtVote: 1.0},
		domain.Vote{AgentID: "b", Label: domain.LabelSpam, Confidence: 0.92, WeightAtVote: 1.0},
		domain.Vote{AgentID: "c", Label: domain.LabelHam, Confidence: 0.89, WeightAtVote: 1.0},
	)

	res, err := r.Resolve(rec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Label != domain.LabelSpam {
		t.Fatalf("expected spam winner, got %s", res.Label)
	}

	want := (0.95 + 0.92) / (0.95 + 0.92 + 0.89)
	if math.Abs(res.Confidence-want) > 1e-9 {
		t.Fatalf("expected confidence %.6f, got %.6f", want, res.Confidence)
	}
	if !reflect.DeepEqual(res.Majority, []string{"a", "b"}) {
		t.Fatalf("unexpected majority partition: %v", res.Majority)
	}
	if !reflect.DeepEqual(res.Minority, []string{"c"}) {
		t.Fatalf("unexpected minority partition: %v", res.Minority)
	}
}

func TestResolver_HighWeightMinorityWins(t *testing.T) {
	r := newTestResolver()

	// One trusted dissenter outweighs two low-reputation agents.
	rec := record(
		domain.Vote{AgentID: "a", Label: domain.LabelHam, Confidence: 0.9, WeightAtVote: 0.2},
		domain.Vote{AgentID: "b", Label: domain.LabelHam, Confidence: 0.9, WeightAtVote: 0.2},
		domain.Vote{AgentID: "c", Label: domain.LabelSpam, Confidence: 0.9, WeightAtVote: 4.0},
	)

	res, err := r.Resolve(rec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Label != domain.LabelSpam {
		t.Fatalf("expected the heavy agent's label to win, got %s", res.Label)
	}
	if !reflect.DeepEqual(res.Majority, []string{"c"}) {
		t.Fatalf("majority must follow the winning label, got %v", res.Majority)
	}
}

func TestResolver_ScoreConservation(t *testing.T) {
	r := newTestResolver()

	rec := record(
		domain.Vote{AgentID: "a", Label: domain.LabelSpam, Confidence: 0.7, WeightAtVote: 1.3},
		domain.Vote{AgentID: "b", Label: domain.LabelHam, Confidence: 0.4, WeightAtVote: 2.1},
		domain.Vote{AgentID: "c", Label: domain.LabelSpam, Confidence: 0.55, WeightAtVote: 0.4},
		domain.Vote{AgentID: "d", Label: domain.LabelHam, Confidence: 0.99, WeightAtVote: 4.9},
	)

	res, err := r.Resolve(rec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var scoreSum, voteSum float64
	for _, s := range res.Scores {
		scoreSum += s
	}
	for _, v := range rec.Votes {
		voteSum += v.WeightAtVote * v.Confidence
	}
	if math.Abs(scoreSum-voteSum) > 1e-9 {
		t.Fatalf("score conservation violated: scores sum %.9f, votes sum %.9f", scoreSum, voteSum)
	}
}

func TestResolver_TieBreakRawVoteCount(t *testing.T) {
	r := newTestResolver()

	// Equal weighted scores (1.0 each side) but ham has more raw votes.
	rec := record(
		domain.Vote{AgentID: "a", Label: domain.LabelSpam, Confidence: 1.0, WeightAtVote: 1.0},
		domain.Vote{AgentID: "b", Label: domain.LabelHam, Confidence: 0.5, WeightAtVote: 1.0},
		domain.Vote{AgentID: "c", Label: domain.LabelHam, Confidence: 0.5, WeightAtVote: 1.0},
	)

	res, err := r.Resolve(rec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Label != domain.LabelHam {
		t.Fatalf("expected raw vote count tie-break to pick ham, got %s", res.Label)
	}
}

func TestResolver_TieBreakRawConfidenceSum(t *testing.T) {
	r := newTestResolver()

	// Equal scores and equal raw counts; ham has the larger raw confidence
	// because its weight is lower.
	rec := record(
		domain.Vote{AgentID: "a", Label: domain.LabelSpam, Confidence: 0.5, WeightAtVote: 1.0},
		domain.Vote{AgentID: "b", Label: domain.LabelHam, Confidence: 1.0, WeightAtVote: 0.5},
	)

	res, err := r.Resolve(rec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Label != domain.LabelHam {
		t.Fatalf("expected raw confidence tie-break to pick ham, got %s", res.Label)
	}
}

func TestResolver_TieBreakCanonicalOrder(t *testing.T) {
	r := newTestResolver()

	// Identical on all three levels; spam precedes ham in canonical order.
	rec := record(
		domain.Vote{AgentID: "a", Label: domain.LabelSpam, Confidence: 0.8, WeightAtVote: 1.0},
		domain.Vote{AgentID: "b", Label: domain.LabelHam, Confidence: 0.8, WeightAtVote: 1.0},
	)

	res, err := r.Resolve(rec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Label != domain.LabelSpam {
		t.Fatalf("expected canonical order tie-break to pick spam, got %s", res.Label)
	}

	// Flip the canonical order: the same record must now resolve to ham.
	flipped, _ := domain.NewLabelSet(domain.LabelHam, domain.LabelSpam)
	res2, err := NewResolver(flipped).Resolve(rec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res2.Label != domain.LabelHam {
		t.Fatalf("expected flipped canonical order to pick ham, got %s", res2.Label)
	}
}

func TestResolver_ClampsOutOfRangeConfidence(t *testing.T) {
	r := newTestResolver()

	rec := record(
		domain.Vote{AgentID: "a", Label: domain.LabelSpam, Confidence: 1.7, WeightAtVote: 1.0},
		domain.Vote{AgentID: "b", Label: domain.LabelHam, Confidence: -0.4, WeightAtVote: 1.0},
	)

	res, err := r.Resolve(rec)
	if err != nil {
		t.Fatalf("expected clamping, not an error, got %v", err)
	}
	if res.Scores[domain.LabelSpam] != 1.0 {
		t.Fatalf("expected spam score clamped to 1.0, got %f", res.Scores[domain.LabelSpam])
	}
	if res.Scores[domain.LabelHam] != 0.0 {
		t.Fatalf("expected ham score clamped to 0.0, got %f", res.Scores[domain.LabelHam])
	}
}

func TestResolver_EmptyRecord(t *testing.T) {
	r := newTestResolver()

	if _, err := r.Resolve(record()); err != ErrEmptyVoteRecord {
		t.Fatalf("expected ErrEmptyVoteRecord, got %v", err)
	}
	if _, err := r.Resolve(nil); err != ErrEmptyVoteRecord {
		t.Fatalf("expected ErrEmptyVoteRecord for nil record, got %v", err)
	}
}

func TestResolver_Deterministic(t *testing.T) {
	r := newTestResolver()

	rec := record(
		domain.Vote{AgentID: "a", Label: domain.LabelSpam, Confidence: 0.61, WeightAtVote: 1.7},
		domain.Vote{AgentID: "b", Label: domain.LabelHam, Confidence: 0.62, WeightAtVote: 1.4},
		domain.Vote{AgentID: "c", Label: domain.LabelSpam, Confidence: 0.33, WeightAtVote: 0.6},
	)

	first, err := r.Resolve(rec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := r.Resolve(rec)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("resolution %d differed from the first", i)
		}
	}
}

func TestResolver_SplitVoteLowersConfidence(t *testing.T) {
	r := newTestResolver()

	split := record(
		domain.Vote{AgentID: "a", Label: domain.LabelSpam, Confidence: 0.99, WeightAtVote: 1.0},
		domain.Vote{AgentID: "b", Label: domain.LabelHam, Confidence: 0.95, WeightAtVote: 1.0},
	)

	res, err := r.Resolve(split)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Confidence > 0.55 {
		t.Fatalf("split vote should yield low aggregate confidence, got %f", res.Confidence)
	}
}

func TestResolver_ZeroConfidenceVotes(t *testing.T) {
	r := newTestResolver()

	rec := record(
		domain.Vote{AgentID: "a", Label: domain.LabelSpam, Confidence: 0, WeightAtVote: 1.0},
		domain.Vote{AgentID: "b", Label: domain.LabelHam, Confidence: 0, WeightAtVote: 1.0},
	)

	res, err := r.Resolve(rec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Confidence != 0 {
		t.Fatalf("expected zero aggregate confidence when total score is zero, got %f", res.Confidence)
	}
}
