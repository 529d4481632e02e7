// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - All numeric engine constants live here in one table so a deployment can
//   never drift from the canonical formulas by scattering literals.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SaveQueueSize bounds the in-memory auto-save queue.
	SaveQueueSize int `koanf:"save_queue_size"`

	// WorkerCount sets the number of persistence workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the applied-award idempotency cache. Zero or
	// negative means unbounded.
	DedupeSize int `koanf:"dedupe_size"`

	// AutosaveIntervalSec is the period of the background profile save timer.
	AutosaveIntervalSec int `koanf:"autosave_interval_sec"`

	// SessionRefreshIntervalSec is the period of the session metadata
	// refresh timer. The refresh touches session metadata only and never
	// re-triggers scoring or awards.
	SessionRefreshIntervalSec int `koanf:"session_refresh_interval_sec"`

	// Engine constants table. Every named factor from the canonical
	// cost-of-inaction and competency formulas.

	// InefficiencyRate is the share of revenue lost to process inefficiency.
	InefficiencyRate float64 `koanf:"inefficiency_rate"`

	// OrganicGrowthFactor is the fraction of target growth assumed to
	// occur even without intervention.
	OrganicGrowthFactor float64 `koanf:"organic_growth_factor"`

	// CycleCostFactor prices each day of sales cycle beyond the baseline,
	// per dollar of average deal size.
	CycleCostFactor float64 `koanf:"cycle_cost_factor"`

	// BaselineCycleDays is the sales-cycle length treated as cost-free.
	BaselineCycleDays float64 `koanf:"baseline_cycle_days"`

	// TimelineCap caps the number of monthly timeline points returned.
	TimelineCap int `koanf:"timeline_cap"`

	// PointDivisor converts activity points into 0-100 competency scale.
	PointDivisor float64 `koanf:"point_divisor"`

	// ScoreAwardPoints is granted on the first fit score per session entity.
	ScoreAwardPoints float64 `koanf:"score_award_points"`

	// ProjectionAwardPoints is granted on the first projection per session.
	ProjectionAwardPoints float64 `koanf:"projection_award_points"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                  "info",
		Addr:                      ":9080",
		SaveQueueSize:             10_000,
		WorkerCount:               runtime.NumCPU(),
		DedupeSize:                500_000,
		AutosaveIntervalSec:       30,
		SessionRefreshIntervalSec: 300,
		InefficiencyRate:          0.15,
		OrganicGrowthFactor:       0.3,
		CycleCostFactor:           0.02,
		BaselineCycleDays:         60,
		TimelineCap:               12,
		PointDivisor:              10,
		ScoreAwardPoints:          50,
		ProjectionAwardPoints:     75,
	}
}
