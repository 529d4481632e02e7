// Package fitscore scores a named entity against a weighted criteria set,
// producing a 0-100 composite score and a per-criterion breakdown.
package fitscore

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Weight bookkeeping constants.
const (
	weightTotal = 100 // criteria weights must sum to exactly this
	maxScore    = 100
)

// Recommendation bands. Banding is a pure function of the overall score and
// is defined only here.
const (
	HighPriority   = "High Priority"
	MediumPriority = "Medium Priority"
	LowPriority    = "Low Priority"

	highPriorityFloor   = 80
	mediumPriorityFloor = 60
)

// Criterion is one weighted rubric row.
type Criterion struct {
	Name        string
	Weight      float64
	Description string
}

// CriteriaSet is the weighted rubric used to score an entity.
type CriteriaSet struct {
	Name     string
	Criteria []Criterion
}

// Validate checks that weights are non-negative and sum to exactly 100.
func (s CriteriaSet) Validate() error {
	var sum float64
	for _, c := range s.Criteria {
		if c.Weight < 0 {
			return fmt.Errorf("%w: %q has negative weight %v in set %q", ErrInvalidCriteria, c.Name, c.Weight, s.Name)
		}
		sum += c.Weight
	}
	if sum != weightTotal {
		return fmt.Errorf("%w: weights in set %q sum to %v, must sum to %d", ErrInvalidCriteria, s.Name, sum, weightTotal)
	}
	return nil
}

// CriterionScore is one row of a score breakdown.
type CriterionScore struct {
	Criterion string
	Score     float64
	Weight    float64
}

// Breakdown is the result of scoring one entity against a CriteriaSet.
type Breakdown struct {
	Entity         string
	Overall        int
	Recommendation string
	Criteria       []CriterionScore
}

// Scorer computes fit scores using a pluggable per-criterion strategy.
type Scorer struct {
	strategy Strategy
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithStrategy injects the per-criterion evaluation strategy.
func WithStrategy(strategy Strategy) Option {
	return func(s *Scorer) {
		if strategy != nil {
			s.strategy = strategy
		}
	}
}

// NewScorer creates a scorer. The default strategy is the deterministic
// rule-based one; deployments inject their own via WithStrategy.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		strategy: NewRuleBasedStrategy(nil, defaultCriterionScore),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score evaluates entityName against the criteria set. The entity name must
// be non-empty after trimming and the set's weights must sum to 100.
func (s *Scorer) Score(ctx context.Context, entityName string, set CriteriaSet) (Breakdown, error) {
	entity := strings.TrimSpace(entityName)
	if entity == "" {
		return Breakdown{}, ErrEmptyEntity
	}
	if err := set.Validate(); err != nil {
		return Breakdown{}, err
	}

	rows := make([]CriterionScore, 0, len(set.Criteria))
	var weighted float64
	for _, c := range set.Criteria {
		score, err := s.strategy.Evaluate(ctx, entity, c)
		if err != nil {
			return Breakdown{}, fmt.Errorf("criterion %q: %w", c.Name, err)
		}
		score = clamp(score)
		rows = append(rows, CriterionScore{Criterion: c.Name, Score: score, Weight: c.Weight})
		weighted += score * c.Weight
	}

	overall := roundHalfUp(weighted / weightTotal)
	return Breakdown{
		Entity:         entity,
		Overall:        overall,
		Recommendation: Recommendation(overall),
		Criteria:       rows,
	}, nil
}

// Recommendation maps an overall score to its priority band.
func Recommendation(overall int) string {
	switch {
	case overall >= highPriorityFloor:
		return HighPriority
	case overall >= mediumPriorityFloor:
		return MediumPriority
	default:
		return LowPriority
	}
}

// roundHalfUp rounds to the nearest integer with ties going up.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(maxScore, v))
}
