package dedupe

import "github.com/okian/propcast/pkg/logger"

// Option applies a configuration option to the Deduper.
type Option func(*Deduper)

// WithTeamAliases sets the team-code standardization map.
func WithTeamAliases(aliases map[string]string) Option {
	return func(d *Deduper) {
		// Copy to avoid external modifications.
		d.aliases = make(map[string]string, len(aliases))
		for code, name := range aliases {
			if code != "" && name != "" {
				d.aliases[code] = name
			}
		}
	}
}

// WithLogger sets a custom logger for the deduper.
func WithLogger(l logger.Logger) Option {
	return func(d *Deduper) {
		if l != nil {
			d.log = l
		}
	}
}
