package service

import (
	"errors"
	"math"
	"sort"

	"github.com/arbiterlabs/arbiter/internal/domain"
)

var ErrEmptyVoteRecord = errors.New("vote record has no votes")

// Resolver maps a VoteRecord to a ConsensusResult. It is a pure function over
// its inputs: no stored state, no reads of live reputation weights.
type Resolver struct {
	labels *domain.LabelSet
}

func NewResolver(labels *domain.LabelSet) *Resolver {
	return &Resolver{labels: labels}
}

// labelTally accumulates per-label totals used for scoring and tie-breaking.
type labelTally struct {
	label    domain.Label
	score    float64 // Σ weight_at_vote × confidence
	count    int     // raw vote count
	rawConf  float64 // Σ unweighted confidence
}

// Resolve computes the weighted consensus for one vote record.
//
// Winner selection is argmax of score with a deterministic three-level
// tie-break: higher raw vote count, then higher raw confidence sum, then the
// earlier label in canonical order. Aggregate confidence is the winner's share
// of the total weighted score, so it drops when votes are split even if the
// individual confidences are high.
func (r *Resolver) Resolve(rec *domain.VoteRecord) (*domain.ConsensusResult, error) {
	if rec == nil || len(rec.Votes) == 0 {
		return nil, ErrEmptyVoteRecord
	}

	tallies := make(map[domain.Label]*labelTally)
	for _, v := range rec.Votes {
		conf := clampConfidence(v.Confidence)
		t, ok := tallies[v.Label]
		if !ok {
			t = &labelTally{label: v.Label}
			tallies[v.Label] = t
		}
		t.score += v.WeightAtVote * conf
		t.count++
		t.rawConf += conf
	}

	// Canonical iteration order keeps the final tie-break reproducible.
	ordered := make([]*labelTally, 0, len(tallies))
	for _, t := range tallies {
		ordered = append(ordered, t)
	}
	sort.Slice(ordered, func(i, j int) bool {
		ri, rj := r.labels.Rank(ordered[i].label), r.labels.Rank(ordered[j].label)
		if ri != rj {
			return ri < rj
		}
		return ordered[i].label < ordered[j].label
	})

	winner := ordered[0]
	var total float64
	for _, t := range ordered {
		total += t.score
	}
	for _, t := range ordered[1:] {
		if beats(t, winner) {
			winner = t
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = winner.score / total
	}

	scores := make(map[domain.Label]float64, len(ordered))
	for _, t := range ordered {
		scores[t.label] = t.score
	}

	res := &domain.ConsensusResult{
		DecisionID: rec.DecisionID,
		Label:      winner.label,
		Confidence: confidence,
		Scores:     scores,
	}
	for _, v := range rec.Votes {
		if v.Label == winner.label {
			res.Majority = append(res.Majority, v.AgentID)
		} else {
			res.Minority = append(res.Minority, v.AgentID)
		}
	}
	return res, nil
}

// beats reports whether candidate strictly outranks the current winner under
// the score / vote count / raw confidence ordering. Exact equality on every
// level keeps the earlier canonical label.
func beats(candidate, current *labelTally) bool {
	if candidate.score != current.score {
		return candidate.score > current.score
	}
	if candidate.count != current.count {
		return candidate.count > current.count
	}
	return candidate.rawConf > current.rawConf
}

// clampConfidence forces classifier output into [0, 1]. Classifiers are
// untrusted; out-of-range confidence degrades to the nearest bound instead of
// failing the whole resolution.
func clampConfidence(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
