package domain

import (
	"fmt"
	"strings"
)

// Label is one class in the closed classification label set.
type Label string

const (
	LabelSpam Label = "spam"
	LabelHam  Label = "ham"
)

// LabelSet is the fixed set of labels votes may carry. The declaration order
// is the canonical tie-break order: earlier labels win the final tie-break.
type LabelSet struct {
	order []Label
	rank  map[Label]int
}

func NewLabelSet(labels ...Label) (*LabelSet, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("label set must contain at least one label")
	}
	s := &LabelSet{rank: make(map[Label]int, len(labels))}
	for _, l := range labels {
		if l == "" {
			return nil, fmt.Errorf("label set contains an empty label")
		}
		if _, dup := s.rank[l]; dup {
			return nil, fmt.Errorf("duplicate label %q in label set", l)
		}
		s.rank[l] = len(s.order)
		s.order = append(s.order, l)
	}
	return s, nil
}

// ParseLabelSet builds a LabelSet from a comma-separated list, e.g. "spam,ham".
func ParseLabelSet(csv string) (*LabelSet, error) {
	var labels []Label
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			labels = append(labels, Label(part))
		}
	}
	return NewLabelSet(labels...)
}

func DefaultLabelSet() *LabelSet {
	s, _ := NewLabelSet(LabelSpam, LabelHam)
	return s
}

func (s *LabelSet) Contains(l Label) bool {
	_, ok := s.rank[l]
	return ok
}

// Rank returns the canonical position of l. Unknown labels rank after every
// known label so they can never win a tie-break.
func (s *LabelSet) Rank(l Label) int {
	if r, ok := s.rank[l]; ok {
		return r
	}
	return len(s.order)
}

// Labels returns the labels in canonical order.
func (s *LabelSet) Labels() []Label {
	out := make([]Label, len(s.order))
	copy(out, s.order)
	return out
}
