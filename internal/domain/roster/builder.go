// Package roster builds the canonical player roster from raw per-team
// exports. The roster is the single source of truth every stat row is
// matched against.
package roster

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/okian/propcast/internal/adapters/tabular"
	"github.com/okian/propcast/internal/domain/identity"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/pkg/logger"
	"github.com/okian/propcast/pkg/metrics"
)

// Default input conventions, matching the upstream export naming.
const (
	defaultRawDir            = "raw"
	defaultBatterNameColumn  = "name"
	defaultPitcherNameColumn = "last_name, first_name"

	batterFilePrefix  = "batters_"
	pitcherFilePrefix = "pitchers_"
)

// Canonical roster artifact columns.
const (
	ColName = "name"
	ColTeam = "team"
	ColType = "type"
)

// Reader lists and loads raw roster exports.
type Reader interface {
	Glob(ctx context.Context, pattern string) ([]string, error)
	Read(ctx context.Context, rel string) (*tabular.Table, error)
}

// Builder assembles a deduplicated canonical roster from raw files.
type Builder struct {
	reader            Reader
	rawDir            string
	batterNameColumn  string
	pitcherNameColumn string
	log               logger.Logger
}

// New creates a Builder over reader with configuration options.
func New(reader Reader, opts ...Option) *Builder {
	b := &Builder{
		reader:            reader,
		rawDir:            defaultRawDir,
		batterNameColumn:  defaultBatterNameColumn,
		pitcherNameColumn: defaultPitcherNameColumn,
		log:               logger.Get().Named("roster"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build reads every matching raw roster file, normalizes names, and
// returns the canonical roster sorted by (team, role, name) with exact
// (name, team, role) repeats collapsed.
//
// A malformed file is logged and skipped; a run with no input files at
// all fails with ErrNoInputs.
func (b *Builder) Build(ctx context.Context) ([]model.PlayerIdentity, error) {
	batterFiles, err := b.reader.Glob(ctx, path.Join(b.rawDir, batterFilePrefix+"*.csv"))
	if err != nil {
		return nil, err
	}
	pitcherFiles, err := b.reader.Glob(ctx, path.Join(b.rawDir, pitcherFilePrefix+"*.csv"))
	if err != nil {
		return nil, err
	}
	if len(batterFiles)+len(pitcherFiles) == 0 {
		return nil, fmt.Errorf("%w: no %s*/%s* files under %s", ErrNoInputs, batterFilePrefix, pitcherFilePrefix, b.rawDir)
	}

	var all []model.PlayerIdentity
	for _, f := range batterFiles {
		all = append(all, b.readFile(ctx, f, model.RoleBatter, batterFilePrefix, b.batterNameColumn)...)
	}
	for _, f := range pitcherFiles {
		all = append(all, b.readFile(ctx, f, model.RolePitcher, pitcherFilePrefix, b.pitcherNameColumn)...)
	}

	deduped := dedupe(all)
	sort.Slice(deduped, func(i, j int) bool {
		a, z := deduped[i], deduped[j]
		if a.Team != z.Team {
			return a.Team < z.Team
		}
		if a.Role != z.Role {
			return a.Role < z.Role
		}
		return a.Name < z.Name
	})

	b.log.Info(ctx, "roster built",
		logger.Int("files", len(batterFiles)+len(pitcherFiles)),
		logger.Int("raw_rows", len(all)),
		logger.Int("players", len(deduped)))
	return deduped, nil
}

// readFile loads one per-team export. Failures are soft: the file is
// skipped and the rest of the build continues.
func (b *Builder) readFile(ctx context.Context, rel string, role model.Role, prefix, nameCol string) []model.PlayerIdentity {
	team := teamFromFilename(rel, prefix)
	if team == "" {
		b.log.Warn(ctx, "roster file with no team suffix skipped", logger.String("file", rel))
		return nil
	}

	t, err := b.reader.Read(ctx, rel)
	if err != nil {
		b.log.Warn(ctx, "unreadable roster file skipped", logger.String("file", rel), logger.Error(err))
		return nil
	}
	if err := t.Require(nameCol); err != nil {
		b.log.Warn(ctx, "roster file without name column skipped", logger.String("file", rel), logger.Error(err))
		return nil
	}
	out := make([]model.PlayerIdentity, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		name, err := identity.Normalize(t.Get(i, nameCol))
		if err != nil {
			metrics.RecordMalformedName()
			b.log.Debug(ctx, "roster row with malformed name skipped",
				logger.String("file", rel), logger.Int("row", i+1), logger.Error(err))
			continue
		}
		out = append(out, model.PlayerIdentity{Name: name, Team: team, Role: role})
	}
	return out
}

// dedupe collapses exact (name, team, role) repeats, keeping the first.
func dedupe(ids []model.PlayerIdentity) []model.PlayerIdentity {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		k := id.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, id)
	}
	return out
}

// teamFromFilename extracts the team token from "batters_<Team>.csv".
func teamFromFilename(rel, prefix string) string {
	base := path.Base(rel)
	base = strings.TrimSuffix(base, ".csv")
	if !strings.HasPrefix(base, prefix) {
		return ""
	}
	return strings.TrimPrefix(base, prefix)
}

// ToTable renders the canonical roster as its artifact schema.
func ToTable(ids []model.PlayerIdentity) *tabular.Table {
	t := tabular.New(ColName, ColTeam, ColType)
	for _, id := range ids {
		t.AppendMap(map[string]string{
			ColName: id.Name,
			ColTeam: id.Team,
			ColType: string(id.Role),
		})
	}
	return t
}

// FromTable parses a canonical roster artifact back into identities.
// Rows with an unknown role are rejected: the roster is pipeline-owned
// and must never carry invented values.
func FromTable(t *tabular.Table) ([]model.PlayerIdentity, error) {
	if err := t.Require(ColName, ColTeam, ColType); err != nil {
		return nil, err
	}
	out := make([]model.PlayerIdentity, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		role := model.Role(t.Get(i, ColType))
		if !role.Valid() {
			return nil, fmt.Errorf("%w: row %d has role %q", ErrCorruptRoster, i+1, t.Get(i, ColType))
		}
		out = append(out, model.PlayerIdentity{
			Name: t.Get(i, ColName),
			Team: t.Get(i, ColTeam),
			Role: role,
		})
	}
	return out, nil
}
