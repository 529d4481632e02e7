package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if REVGATE_CONFIG is set
//  3. env (prefix REVGATE_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("REVGATE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: REVGATE_ADDR, REVGATE_WORKER_COUNT, ...
	// Map env keys like REVGATE_SAVE_QUEUE_SIZE -> save_queue_size.
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("REVGATE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "revgate_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TimelineCap < 1:
		return fmt.Errorf("%w: timeline_cap must be at least 1", ErrInvalidConfig)
	case c.PointDivisor <= 0:
		return fmt.Errorf("%w: point_divisor must be positive", ErrInvalidConfig)
	case c.InefficiencyRate < 0 || c.InefficiencyRate > 1:
		return fmt.Errorf("%w: inefficiency_rate must be in [0,1]", ErrInvalidConfig)
	case c.OrganicGrowthFactor < 0 || c.OrganicGrowthFactor > 1:
		return fmt.Errorf("%w: organic_growth_factor must be in [0,1]", ErrInvalidConfig)
	case c.ScoreAwardPoints <= 0 || c.ProjectionAwardPoints <= 0:
		return fmt.Errorf("%w: award points must be positive", ErrInvalidConfig)
	}
	return nil
}
