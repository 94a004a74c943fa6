// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Lookup tables (team aliases, name columns) live here, not as
//   module-level constants, so they can be swapped per environment.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataDir is the root directory of all pipeline artifacts.
	DataDir string `koanf:"data_dir"`

	// MetricsAddr optionally serves Prometheus metrics while a run is
	// in flight, e.g. ":9091". Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`

	// TopProps bounds the sitewide best-prop list.
	TopProps int `koanf:"top_props"`

	// TopPropsPerGame bounds each per-game best-prop list.
	TopPropsPerGame int `koanf:"top_props_per_game"`

	// ProjectionWorkers bounds concurrent per-stat-type projection.
	ProjectionWorkers int `koanf:"projection_workers"`

	// LeagueAvgKRate and LeagueAvgBBRate anchor the opposing-pitcher
	// quality multiplier (decimal rates).
	LeagueAvgKRate  float64 `koanf:"league_avg_k_rate"`
	LeagueAvgBBRate float64 `koanf:"league_avg_bb_rate"`

	// PitcherAdjWeight scales how strongly the opposing starter's
	// rates move a projection away from neutral.
	PitcherAdjWeight float64 `koanf:"pitcher_adj_weight"`

	// TeamAliases maps raw team codes from exports to display names.
	// Unknown codes pass through unchanged.
	TeamAliases map[string]string `koanf:"team_aliases"`

	// NameColumns maps a stat-export source label to the header of its
	// name column, so schema differences are configured, not guessed.
	NameColumns map[string]string `koanf:"name_columns"`
}

// New creates a Config with defaults.
func New() *Config {
	c := &Config{
		LogLevel:          "info",
		DataDir:           "data",
		MetricsAddr:       "",
		TopProps:          3,
		TopPropsPerGame:   3,
		ProjectionWorkers: runtime.NumCPU(),
		LeagueAvgKRate:    0.220,
		LeagueAvgBBRate:   0.082,
		PitcherAdjWeight:  0.75,
		TeamAliases:       map[string]string{},
		NameColumns: map[string]string{
			"batters":  "last_name, first_name",
			"pitchers": "last_name, first_name",
		},
	}
	return c
}
