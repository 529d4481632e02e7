// Package ledger accumulates award events into per-customer competency
// profiles and derives named tiers from cumulative points.
//
// Mutation goes exclusively through Apply. Events are idempotent by id:
// applying the same id twice returns ErrDuplicateEvent and changes nothing.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/revgate/revgate/internal/domain/dedupe"
	"github.com/revgate/revgate/internal/domain/model"
)

// Scale constants.
const (
	// defaultPointDivisor converts activity points into the 0-100
	// competency scale. Unlock thresholds depend on this exact value.
	defaultPointDivisor = 10
	maxCategoryScore    = 100
)

// tierThreshold maps a minimum total-points floor to a tier name.
type tierThreshold struct {
	floor float64
	name  string
}

// tiers is the fixed ascending threshold table. The tier is the highest
// floor not exceeding totalPoints.
var tiers = []tierThreshold{
	{0, "Customer Intelligence Foundation"},
	{1000, "Value Communication Developing"},
	{2500, "Sales Strategy Proficient"},
	{5000, "Revenue Development Advanced"},
	{10000, "Market Execution Expert"},
	{20000, "Revenue Intelligence Master"},
}

// Profile is the per-customer running competency state. Category scores are
// on the 0-100 scale and only ever grow, except through Reset.
type Profile struct {
	CustomerID         string
	CustomerAnalysis   float64
	ValueCommunication float64
	SalesExecution     float64
	TotalPoints        float64
	Tier               string
}

// CategoryScore returns the score for one competency category.
func (p Profile) CategoryScore(cat model.Category) float64 {
	switch cat {
	case model.CategoryCustomerAnalysis:
		return p.CustomerAnalysis
	case model.CategoryValueCommunication:
		return p.ValueCommunication
	case model.CategorySalesExecution:
		return p.SalesExecution
	default:
		return 0
	}
}

// Ledger owns the live competency profiles for all customers in-process.
type Ledger struct {
	mu       sync.Mutex
	profiles map[string]*Profile
	applied  dedupe.Deduper
	divisor  float64
}

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithPointDivisor overrides the points-to-score divisor.
func WithPointDivisor(divisor float64) Option {
	return func(l *Ledger) {
		if divisor > 0 {
			l.divisor = divisor
		}
	}
}

// WithAppliedSet injects the idempotency set recording applied event ids.
func WithAppliedSet(d dedupe.Deduper) Option {
	return func(l *Ledger) {
		if d != nil {
			l.applied = d
		}
	}
}

// NewLedger creates a ledger. The default applied set is unbounded.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		profiles: make(map[string]*Profile),
		applied:  dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0)),
		divisor:  defaultPointDivisor,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Apply validates and applies one award event, returning the updated profile
// snapshot. Events for the same customer are serialized; total points never
// decrease and category scores clamp at 100.
func (l *Ledger) Apply(ctx context.Context, event model.AwardEvent) (Profile, error) {
	switch {
	case event.EventID == "":
		return Profile{}, fmt.Errorf("%w: missing event id", ErrInvalidAward)
	case event.CustomerID == "":
		return Profile{}, fmt.Errorf("%w: missing customer id", ErrInvalidAward)
	case event.Points <= 0:
		return Profile{}, fmt.Errorf("%w: points must be positive, got %v", ErrInvalidAward, event.Points)
	case !event.Category.Valid():
		return Profile{}, fmt.Errorf("%w: unknown category %q", ErrInvalidAward, event.Category)
	}

	if l.applied.SeenAndRecord(ctx, event.EventID) {
		return Profile{}, fmt.Errorf("%w: %s", ErrDuplicateEvent, event.EventID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.profiles[event.CustomerID]
	if !ok {
		p = &Profile{CustomerID: event.CustomerID}
		l.profiles[event.CustomerID] = p
	}

	p.TotalPoints += event.Points
	gain := event.Points / l.divisor
	switch event.Category {
	case model.CategoryCustomerAnalysis:
		p.CustomerAnalysis = clampScore(p.CustomerAnalysis + gain)
	case model.CategoryValueCommunication:
		p.ValueCommunication = clampScore(p.ValueCommunication + gain)
	case model.CategorySalesExecution:
		p.SalesExecution = clampScore(p.SalesExecution + gain)
	}
	p.Tier = Tier(p.TotalPoints)

	return *p, nil
}

// Applied reports whether an event id has already been applied.
func (l *Ledger) Applied(ctx context.Context, eventID string) bool {
	return l.applied.Seen(ctx, eventID)
}

// Profile returns the current snapshot for a customer.
func (l *Ledger) Profile(customerID string) (Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.profiles[customerID]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, customerID)
	}
	return *p, nil
}

// Seed installs a persisted profile snapshot, used at first session load.
// Seeding never lowers an existing in-memory profile.
func (l *Ledger) Seed(profile Profile) {
	l.mu.Lock()
	defer l.mu.Unlock()
	existing, ok := l.profiles[profile.CustomerID]
	if ok && existing.TotalPoints >= profile.TotalPoints {
		return
	}
	profile.Tier = Tier(profile.TotalPoints)
	copied := profile
	l.profiles[profile.CustomerID] = &copied
}

// Reset discards a customer's profile. This is the only path by which
// scores go down.
func (l *Ledger) Reset(customerID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.profiles, customerID)
}

// Snapshot returns a copy of every tracked profile, used by the periodic
// auto-save pass.
func (l *Ledger) Snapshot() []Profile {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Profile, 0, len(l.profiles))
	for _, p := range l.profiles {
		out = append(out, *p)
	}
	return out
}

// Count returns the number of profiles tracked.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.profiles)
}

// Tier derives the named tier for a running point total.
func Tier(totalPoints float64) string {
	name := tiers[0].name
	for _, t := range tiers {
		if totalPoints >= t.floor {
			name = t.name
		}
	}
	return name
}

func clampScore(v float64) float64 {
	if v > maxCategoryScore {
		return maxCategoryScore
	}
	return v
}
