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
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if PROPCAST_CONFIG is set
//  3. env (prefix PROPCAST_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("PROPCAST_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PROPCAST_DATA_DIR, PROPCAST_TOP_PROPS, ...
	// Map env keys like PROPCAST_TOP_PROPS -> top_props (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("PROPCAST_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "propcast_")
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

// validate rejects configurations no pipeline run could honor.
func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if c.TopProps <= 0 {
		return fmt.Errorf("%w: top_props must be positive", ErrInvalidConfig)
	}
	if c.TopPropsPerGame <= 0 {
		return fmt.Errorf("%w: top_props_per_game must be positive", ErrInvalidConfig)
	}
	if c.ProjectionWorkers <= 0 {
		return fmt.Errorf("%w: projection_workers must be positive", ErrInvalidConfig)
	}
	if c.LeagueAvgKRate <= 0 || c.LeagueAvgKRate >= 1 {
		return fmt.Errorf("%w: league_avg_k_rate must be a decimal rate in (0,1)", ErrInvalidConfig)
	}
	if c.LeagueAvgBBRate <= 0 || c.LeagueAvgBBRate >= 1 {
		return fmt.Errorf("%w: league_avg_bb_rate must be a decimal rate in (0,1)", ErrInvalidConfig)
	}
	if c.PitcherAdjWeight < 0 {
		return fmt.Errorf("%w: pitcher_adj_weight must not be negative", ErrInvalidConfig)
	}
	return nil
}
