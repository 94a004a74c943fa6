package tagging

import (
	"context"
	"fmt"

	"github.com/okian/propcast/internal/adapters/tabular"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/roster"
	"github.com/okian/propcast/pkg/logger"
	"github.com/okian/propcast/pkg/metrics"
)

// Tagger joins normalized stat rows against the canonical roster.
// The join key is (canonical name, role); team is the OUTPUT of the
// join, never a filter, because exports do not reliably know a
// player's team in advance. Matching is exact string equality only.
type Tagger struct {
	// role -> canonical name -> team. First roster entry wins, which
	// is stable because the roster is sorted by (team, role, name).
	lookup map[model.Role]map[string]string
	log    logger.Logger
}

// Option applies a configuration option to the Tagger.
type Option func(*Tagger)

// WithLogger sets a custom logger for the tagger.
func WithLogger(l logger.Logger) Option {
	return func(tg *Tagger) {
		if l != nil {
			tg.log = l
		}
	}
}

// New builds a Tagger from the canonical roster.
func New(ids []model.PlayerIdentity, opts ...Option) *Tagger {
	tg := &Tagger{
		lookup: map[model.Role]map[string]string{
			model.RoleBatter:  make(map[string]string),
			model.RolePitcher: make(map[string]string),
		},
		log: logger.Get().Named("tagging"),
	}
	for _, id := range ids {
		byName := tg.lookup[id.Role]
		if byName == nil {
			continue
		}
		if _, ok := byName[id.Name]; !ok {
			byName[id.Name] = id.Team
		}
	}
	for _, opt := range opts {
		opt(tg)
	}
	return tg
}

// Outcome carries the join result for one export.
type Outcome struct {
	// Tagged holds every matched row with team and type attached.
	Tagged *tabular.Table
	// Unmatched is the side-channel of names with no roster entry, so
	// data-quality problems stay diagnosable instead of vanishing.
	Unmatched *tabular.Table
	Total     int
	Matched   int
}

// UnmatchedCount returns the number of rows excluded from Tagged.
func (o *Outcome) UnmatchedCount() int { return o.Total - o.Matched }

// Tag joins a normalized export against the roster for one role.
// Matched rows gain team and type columns; unmatched rows (including
// ones flagged with a blank identity) are counted and routed to the
// unmatched side channel, never silently invented.
func (tg *Tagger) Tag(ctx context.Context, t *tabular.Table, nameCol string, role model.Role) (*Outcome, error) {
	if err := t.Require(nameCol); err != nil {
		return nil, err
	}
	byName, ok := tg.lookup[role]
	if !ok {
		return nil, fmt.Errorf("tag %q: unknown role", role)
	}

	tagged := tabular.New(append(t.Columns(), roster.ColTeam, roster.ColType)...)
	unmatched := tabular.New(nameCol)

	out := &Outcome{Tagged: tagged, Unmatched: unmatched, Total: t.Len()}
	for i := 0; i < t.Len(); i++ {
		name := t.Get(i, nameCol)
		team, found := byName[name]
		if name == "" || !found {
			unmatched.AppendMap(map[string]string{nameCol: name})
			continue
		}
		tagged.CopyRow(t, i)
		// The row just appended is the last one.
		_ = tagged.Set(tagged.Len()-1, roster.ColTeam, team)
		_ = tagged.Set(tagged.Len()-1, roster.ColType, string(role))
		out.Matched++
	}

	metrics.RecordMatched(string(role), out.Matched)
	metrics.RecordUnmatched(string(role), out.UnmatchedCount())
	tg.log.Info(ctx, "export tagged",
		logger.String("role", string(role)),
		logger.Int("total", out.Total),
		logger.Int("matched", out.Matched),
		logger.Int("unmatched", out.UnmatchedCount()))
	return out, nil
}

// Summary renders the plain-text match totals artifact.
func Summary(batters, pitchers *Outcome) string {
	return fmt.Sprintf(
		"Total Batters: %d\nMatched Batters: %d\nUnmatched Batters: %d\n\n"+
			"Total Pitchers: %d\nMatched Pitchers: %d\nUnmatched Pitchers: %d\n",
		batters.Total, batters.Matched, batters.UnmatchedCount(),
		pitchers.Total, pitchers.Matched, pitchers.UnmatchedCount(),
	)
}
