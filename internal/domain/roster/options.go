package roster

import "github.com/okian/propcast/pkg/logger"

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithRawDir sets the directory (relative to the store root) scanned
// for raw roster exports.
func WithRawDir(dir string) Option {
	return func(b *Builder) {
		if dir != "" {
			b.rawDir = dir
		}
	}
}

// WithBatterNameColumn overrides the name column of batter files.
func WithBatterNameColumn(col string) Option {
	return func(b *Builder) {
		if col != "" {
			b.batterNameColumn = col
		}
	}
}

// WithPitcherNameColumn overrides the name column of pitcher files.
func WithPitcherNameColumn(col string) Option {
	return func(b *Builder) {
		if col != "" {
			b.pitcherNameColumn = col
		}
	}
}

// WithLogger sets a custom logger for the builder.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}
