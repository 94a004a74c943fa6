// Package tagging normalizes the name column of raw stat exports and
// joins the rows against the canonical roster to attach team and role.
package tagging

import (
	"context"

	"github.com/okian/propcast/internal/adapters/tabular"
	"github.com/okian/propcast/internal/domain/identity"
	"github.com/okian/propcast/pkg/logger"
	"github.com/okian/propcast/pkg/metrics"
)

// NormalizeNames rewrites the name column of t in place with canonical
// "Last, First" keys. Every input row survives: a name that cannot be
// normalized is blanked so the row is flagged invalid downstream while
// row counts stay auditable. Returns the number of flagged rows.
//
// Fails with tabular.ErrSchema when nameCol is absent, since guessing a
// different column would mask data-quality problems.
func NormalizeNames(ctx context.Context, t *tabular.Table, nameCol string, log logger.Logger) (int, error) {
	if err := t.Require(nameCol); err != nil {
		return 0, err
	}

	flagged := 0
	for i := 0; i < t.Len(); i++ {
		name, err := identity.Normalize(t.Get(i, nameCol))
		if err != nil {
			flagged++
			metrics.RecordMalformedName()
			log.Debug(ctx, "stat row with malformed name flagged",
				logger.Int("row", i+1), logger.Error(err))
			name = ""
		}
		// Set cannot fail: the column was just required.
		_ = t.Set(i, nameCol, name)
	}
	if flagged > 0 {
		log.Warn(ctx, "stat rows flagged with invalid identity", logger.Int("rows", flagged))
	}
	return flagged, nil
}
