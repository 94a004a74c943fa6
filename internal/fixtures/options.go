package fixtures

import "github.com/okian/propcast/pkg/logger"

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed fixes the random seed; the same seed always produces the
// same artifacts.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithTeams sets the team names to generate; they are paired into
// games in order.
func WithTeams(teams []string) Option {
	return func(g *Generator) {
		if len(teams) > 0 {
			g.teams = teams
		}
	}
}

// WithBattersPerTeam sets the roster depth of each generated team.
func WithBattersPerTeam(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.battersPerTeam = n
		}
	}
}

// WithDate sets the schedule date.
func WithDate(date string) Option {
	return func(g *Generator) {
		if date != "" {
			g.date = date
		}
	}
}

// WithLogger sets a custom logger for the generator.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}
