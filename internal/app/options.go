package pipeline

import (
	"github.com/okian/propcast/internal/config"
	"github.com/okian/propcast/pkg/logger"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithTopProps bounds the sitewide best-prop list.
func WithTopProps(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.topProps = n
		}
	}
}

// WithTopPropsPerGame bounds each per-game best-prop list.
func WithTopPropsPerGame(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.topPropsPerGame = n
		}
	}
}

// WithWorkers bounds concurrent per-stat-type projection.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithTeamAliases maps raw team codes from exports to display names.
func WithTeamAliases(aliases map[string]string) Option {
	return func(p *Pipeline) {
		if aliases != nil {
			p.teamAliases = aliases
		}
	}
}

// WithNameColumns maps a stat-export source label to the header of its
// name column.
func WithNameColumns(cols map[string]string) Option {
	return func(p *Pipeline) {
		if cols != nil {
			p.nameColumns = cols
		}
	}
}

// WithLeagueRates sets the league-average strikeout and walk rates
// anchoring the opposing-pitcher adjustment.
func WithLeagueRates(kRate, bbRate float64) Option {
	return func(p *Pipeline) {
		if kRate > 0 {
			p.leagueKRate = kRate
		}
		if bbRate > 0 {
			p.leagueBBRate = bbRate
		}
	}
}

// WithPitcherAdjWeight scales the opposing-pitcher adjustment.
func WithPitcherAdjWeight(w float64) Option {
	return func(p *Pipeline) {
		if w >= 0 {
			p.pitcherAdjWeight = w
		}
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// FromConfig expands process configuration into pipeline options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithTopProps(cfg.TopProps),
		WithTopPropsPerGame(cfg.TopPropsPerGame),
		WithWorkers(cfg.ProjectionWorkers),
		WithTeamAliases(cfg.TeamAliases),
		WithNameColumns(cfg.NameColumns),
		WithLeagueRates(cfg.LeagueAvgKRate, cfg.LeagueAvgBBRate),
		WithPitcherAdjWeight(cfg.PitcherAdjWeight),
	}
}
