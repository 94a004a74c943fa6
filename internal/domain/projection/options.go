package projection

import (
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/pkg/logger"
)

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of stat cohorts scored concurrently.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithLeagueRates anchors the opposing-pitcher adjustment to the given
// league-average strikeout and walk rates (decimal space).
func WithLeagueRates(kRate, bbRate float64) Option {
	return func(e *Engine) {
		if kRate > 0 {
			e.cfg.LeagueKRate = kRate
		}
		if bbRate > 0 {
			e.cfg.LeagueBBRate = bbRate
		}
	}
}

// WithPitcherAdjWeight scales how strongly the opposing starter's
// rates pull the projection away from league average.
func WithPitcherAdjWeight(w float64) Option {
	return func(e *Engine) {
		if w >= 0 {
			e.cfg.PitcherAdjWeight = w
		}
	}
}

// WithFormulas replaces the default formula set entirely.
func WithFormulas(formulas map[model.StatType]Formula) Option {
	return func(e *Engine) {
		e.formulas = formulas
	}
}

// WithLogger overrides the engine's logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}
