// Package dedupe removes duplicate (name, team, role) tuples from
// tagged stat exports and standardizes team codes.
package dedupe

import (
	"context"

	"github.com/okian/propcast/internal/adapters/tabular"
	"github.com/okian/propcast/internal/domain/roster"
	"github.com/okian/propcast/pkg/logger"
	"github.com/okian/propcast/pkg/metrics"
)

// Deduper collapses exact identity repeats in tagged exports.
type Deduper struct {
	// aliases maps raw team codes to display names. Unknown codes pass
	// through unchanged so a stale alias table cannot blank out teams.
	aliases map[string]string
	log     logger.Logger
}

// New creates a Deduper with configuration options.
func New(opts ...Option) *Deduper {
	d := &Deduper{
		aliases: map[string]string{},
		log:     logger.Get().Named("dedupe"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Clean standardizes team names, then collapses rows sharing an exact
// (name, team, role) triple, keeping the first occurrence in original
// file order. Cleaning is idempotent: Clean(Clean(t)) == Clean(t).
// Returns the cleaned table and the number of rows removed.
func (d *Deduper) Clean(ctx context.Context, t *tabular.Table, nameCol string) (*tabular.Table, int, error) {
	if err := t.Require(nameCol, roster.ColTeam, roster.ColType); err != nil {
		return nil, 0, err
	}

	out := tabular.New(t.Columns()...)
	seen := make(map[string]struct{}, t.Len())
	for i := 0; i < t.Len(); i++ {
		team := t.Get(i, roster.ColTeam)
		if mapped, ok := d.aliases[team]; ok {
			team = mapped
			_ = t.Set(i, roster.ColTeam, team)
		}

		key := t.Get(i, nameCol) + "|" + team + "|" + t.Get(i, roster.ColType)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.CopyRow(t, i)
	}

	removed := t.Len() - out.Len()
	metrics.RecordDuplicates(removed)
	d.log.Info(ctx, "export deduplicated",
		logger.Int("before", t.Len()),
		logger.Int("after", out.Len()),
		logger.Int("removed", removed))
	return out, removed, nil
}
