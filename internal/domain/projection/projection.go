// Package projection computes cost-of-inaction figures and month-by-month
// comparison timelines from user-supplied business parameters.
//
// Project is a pure function: identical inputs yield identical outputs, with
// no clock or random dependency. All named factors of the canonical formulas
// live in the Constants and Defaults tables so they cannot drift.
package projection

import (
	"fmt"
	"math"
)

const monthsPerYear = 12

// Constants names every fixed factor of the canonical formulas.
type Constants struct {
	// InefficiencyRate is the share of revenue lost to process inefficiency.
	InefficiencyRate float64
	// OrganicGrowthFactor is the fraction of target growth assumed to occur
	// even without intervention.
	OrganicGrowthFactor float64
	// CycleCostFactor prices each sales-cycle day beyond the baseline, per
	// dollar of average deal size.
	CycleCostFactor float64
	// BaselineCycleDays is the cycle length treated as cost-free.
	BaselineCycleDays float64
	// TimelineCap caps the number of monthly timeline points.
	TimelineCap int
}

// DefaultConstants returns the reference factor table.
func DefaultConstants() Constants {
	return Constants{
		InefficiencyRate:    0.15,
		OrganicGrowthFactor: 0.3,
		CycleCostFactor:     0.02,
		BaselineCycleDays:   60,
		TimelineCap:         12,
	}
}

// Defaults supplies fallback values for omitted assumption fields.
type Defaults struct {
	TargetGrowthRate float64
	SalesCycleDays   float64
	ConversionRate   float64
	ChurnRate        float64
	HorizonMonths    int
}

// DefaultAssumptions returns the documented fallback table.
func DefaultAssumptions() Defaults {
	return Defaults{
		TargetGrowthRate: 0.20,
		SalesCycleDays:   90,
		ConversionRate:   0.15,
		ChurnRate:        0.05,
		HorizonMonths:    12,
	}
}

// Assumptions are the user-supplied business parameters. Zero-valued optional
// fields fall back to the Defaults table; Revenue and AverageDealSize are
// required and must be positive.
type Assumptions struct {
	Revenue          float64
	TargetGrowthRate float64
	AverageDealSize  float64
	SalesCycleDays   float64
	ConversionRate   float64
	ChurnRate        float64
	HorizonMonths    int
}

// MonthPoint is one timeline sample comparing revenue trajectories.
type MonthPoint struct {
	Month         int
	WithAction    float64
	WithoutAction float64
	Gap           float64
}

// Categories is the cost breakdown. All four sub-amounts are always
// reported, zeros included; their sum equals TotalCostOfInaction.
type Categories struct {
	MissedGrowthRevenue float64
	InefficiencyLoss    float64
	ChurnImpact         float64
	ExtendedCycleCost   float64
}

// Projection is the output for one set of assumptions. Resolved echoes the
// assumptions after default substitution.
type Projection struct {
	TotalCostOfInaction float64
	MonthlyImpact       float64
	Timeline            []MonthPoint
	Breakdown           Categories
	Resolved            Assumptions
}

// Projector computes projections using its constants and defaults tables.
type Projector struct {
	constants Constants
	defaults  Defaults
}

// Option applies a configuration option to the Projector.
type Option func(*Projector)

// WithConstants overrides the formula factor table.
func WithConstants(c Constants) Option {
	return func(p *Projector) {
		if c.TimelineCap > 0 {
			p.constants = c
		}
	}
}

// WithDefaults overrides the fallback table for omitted assumptions.
func WithDefaults(d Defaults) Option {
	return func(p *Projector) {
		if d.HorizonMonths > 0 {
			p.defaults = d
		}
	}
}

// NewProjector creates a projector with the reference tables.
func NewProjector(opts ...Option) *Projector {
	p := &Projector{
		constants: DefaultConstants(),
		defaults:  DefaultAssumptions(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Project validates the assumptions and computes the cost of inaction.
func (p *Projector) Project(a Assumptions) (Projection, error) {
	if a.Revenue <= 0 {
		return Projection{}, fmt.Errorf("%w: revenue must be positive", ErrInsufficientData)
	}
	if a.AverageDealSize <= 0 {
		return Projection{}, fmt.Errorf("%w: average deal size must be positive", ErrInsufficientData)
	}

	resolved := p.resolve(a)
	horizon := float64(resolved.HorizonMonths)

	monthlyRevenue := resolved.Revenue / monthsPerYear

	// Triangular (arithmetic-series) accrual of compounding missed growth.
	missedGrowth := (monthlyRevenue * resolved.TargetGrowthRate / monthsPerYear) * horizon * (horizon + 1) / 2
	inefficiency := resolved.Revenue * p.constants.InefficiencyRate
	churn := resolved.Revenue * resolved.ChurnRate
	extendedCycle := math.Max(0, (resolved.SalesCycleDays-p.constants.BaselineCycleDays)*resolved.AverageDealSize*p.constants.CycleCostFactor)

	total := missedGrowth + inefficiency + churn + extendedCycle

	return Projection{
		TotalCostOfInaction: total,
		MonthlyImpact:       total / horizon,
		Timeline:            p.timeline(monthlyRevenue, resolved.TargetGrowthRate, resolved.HorizonMonths),
		Breakdown: Categories{
			MissedGrowthRevenue: missedGrowth,
			InefficiencyLoss:    inefficiency,
			ChurnImpact:         churn,
			ExtendedCycleCost:   extendedCycle,
		},
		Resolved: resolved,
	}, nil
}

// resolve substitutes documented defaults for omitted optional fields.
func (p *Projector) resolve(a Assumptions) Assumptions {
	if a.TargetGrowthRate == 0 {
		a.TargetGrowthRate = p.defaults.TargetGrowthRate
	}
	if a.SalesCycleDays == 0 {
		a.SalesCycleDays = p.defaults.SalesCycleDays
	}
	if a.ConversionRate == 0 {
		a.ConversionRate = p.defaults.ConversionRate
	}
	if a.ChurnRate == 0 {
		a.ChurnRate = p.defaults.ChurnRate
	}
	if a.HorizonMonths < 1 {
		a.HorizonMonths = p.defaults.HorizonMonths
	}
	return a
}

// timeline samples months 1..min(horizon, cap). The without-action curve
// grows at the organic fraction of the target rate.
func (p *Projector) timeline(monthlyRevenue, growthRate float64, horizon int) []MonthPoint {
	months := horizon
	if months > p.constants.TimelineCap {
		months = p.constants.TimelineCap
	}
	points := make([]MonthPoint, 0, months)
	for m := 1; m <= months; m++ {
		exp := float64(m) / monthsPerYear
		with := monthlyRevenue * math.Pow(1+growthRate, exp)
		without := monthlyRevenue * math.Pow(1+growthRate*p.constants.OrganicGrowthFactor, exp)
		points = append(points, MonthPoint{
			Month:         m,
			WithAction:    with,
			WithoutAction: without,
			Gap:           with - without,
		})
	}
	return points
}
