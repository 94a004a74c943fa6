package matchup

import "github.com/okian/propcast/pkg/logger"

// Option applies a configuration option to the Merger.
type Option func(*Merger)

// WithFallback sets the season-level fallback index, keyed by
// canonical name then field.
func WithFallback(fb map[string]map[string]float64) Option {
	return func(m *Merger) {
		if fb != nil {
			m.fallback = fb
		}
	}
}

// WithPitcherRates sets the opposing-starter rate index, keyed by
// canonical name.
func WithPitcherRates(rates map[string]PitcherRates) Option {
	return func(m *Merger) {
		if rates != nil {
			m.pitchers = rates
		}
	}
}

// WithFields overrides the numeric rate columns carried into merged
// rows and eligible for fallback substitution.
func WithFields(fields []string) Option {
	return func(m *Merger) {
		if len(fields) > 0 {
			m.fields = append([]string(nil), fields...)
		}
	}
}

// WithLogger sets a custom logger for the merger.
func WithLogger(l logger.Logger) Option {
	return func(m *Merger) {
		if l != nil {
			m.log = l
		}
	}
}
