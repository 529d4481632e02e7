package fitscore

import (
	"context"
	"fmt"
	"math/rand"
)

// Default strategy configuration constants.
const (
	defaultCriterionScore = 50
	defaultStubSeed       = 42
	stubScoreMin          = 60
	stubScoreSpan         = 40 // stub scores fall in [min, min+span)
)

// Strategy computes a per-criterion score in [0,100] for an entity.
// Implementations may consult rules, manual input, or an external service.
type Strategy interface {
	Evaluate(ctx context.Context, entity string, criterion Criterion) (float64, error)
}

// ManualStrategy returns scores supplied by a human evaluator, keyed by
// criterion name. A missing criterion is an error, never a fabricated value.
type ManualStrategy struct {
	scores map[string]float64
}

// NewManualStrategy creates a strategy over explicit per-criterion scores.
func NewManualStrategy(scores map[string]float64) *ManualStrategy {
	copied := make(map[string]float64, len(scores))
	for name, score := range scores {
		copied[name] = score
	}
	return &ManualStrategy{scores: copied}
}

// Evaluate returns the manual score for the criterion.
func (m *ManualStrategy) Evaluate(_ context.Context, _ string, criterion Criterion) (float64, error) {
	score, ok := m.scores[criterion.Name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNoScore, criterion.Name)
	}
	return score, nil
}

// RuleBasedStrategy scores deterministically from a per-criterion baseline
// table, falling back to a default for unknown criteria.
type RuleBasedStrategy struct {
	baselines    map[string]float64
	defaultScore float64
}

// NewRuleBasedStrategy creates a deterministic strategy. baselines may be nil.
func NewRuleBasedStrategy(baselines map[string]float64, defaultScore float64) *RuleBasedStrategy {
	copied := make(map[string]float64, len(baselines))
	for name, score := range baselines {
		if score >= 0 {
			copied[name] = score
		}
	}
	return &RuleBasedStrategy{baselines: copied, defaultScore: defaultScore}
}

// Evaluate returns the baseline for the criterion, or the default.
func (r *RuleBasedStrategy) Evaluate(_ context.Context, _ string, criterion Criterion) (float64, error) {
	if score, ok := r.baselines[criterion.Name]; ok {
		return score, nil
	}
	return r.defaultScore, nil
}

// StubStrategy reproduces the reference placeholder: a seeded random score
// per criterion. It exists for demos and parity testing only; production
// deployments inject a real evaluator.
type StubStrategy struct {
	rng *rand.Rand
}

// NewStubStrategy creates the randomized placeholder with a fixed seed so
// test runs are reproducible.
func NewStubStrategy(seed int64) *StubStrategy {
	if seed == 0 {
		seed = defaultStubSeed
	}
	return &StubStrategy{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic seed for reproducible scoring
	}
}

// Evaluate returns a pseudo-random score in [60,100).
func (s *StubStrategy) Evaluate(_ context.Context, _ string, _ Criterion) (float64, error) {
	return stubScoreMin + s.rng.Float64()*stubScoreSpan, nil
}
