// Package pipeline orchestrates one full projection run: roster build,
// stat normalization, identity tagging, deduplication, game-context
// merge, projection, and best-prop selection, in that order.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/propcast/internal/adapters/tabular"
	"github.com/okian/propcast/internal/domain/dedupe"
	"github.com/okian/propcast/internal/domain/matchup"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/projection"
	bestprops "github.com/okian/propcast/internal/domain/props"
	"github.com/okian/propcast/internal/domain/roster"
	"github.com/okian/propcast/internal/domain/tagging"
	"github.com/okian/propcast/pkg/logger"
	"github.com/okian/propcast/pkg/metrics"
)

// Source labels for the two stat-export streams.
const (
	SourceBatters  = "batters"
	SourcePitchers = "pitchers"
)

// Relative artifact paths under the store root. Inputs are provided by
// the caller; everything else is written by the run.
const (
	statsBattersFile  = "stats/batters.csv"  // input
	statsPitchersFile = "stats/pitchers.csv" // input
	scheduleFile      = "schedule.csv"       // input
	fallbackFile      = "master/season_fallback.csv" // input, optional

	masterFile       = "master/player_team_master.csv"
	totalsFile       = "output/player_totals.txt"
	projectionsFile  = "projections/props.csv"
	bestPropsFile    = "output/best_props.csv"
	runSummaryFile   = "output/run_summary.txt"
	defaultNameCol   = "last_name, first_name"
)

func normalizedFile(source string) string { return "normalized/" + source + ".csv" }
func taggedFile(source string) string     { return "tagged/" + source + ".csv" }
func unmatchedFile(source string) string  { return "output/unmatched_" + source + ".csv" }
func cleanedFile(source string) string    { return "cleaned/" + source + ".csv" }
func mergedFile(source string) string     { return "merged/" + source + ".csv" }
func bestPropsGameFile(gameID string) string {
	return "output/best_props_" + gameID + ".csv"
}

// Pipeline runs the batch projection sequence over a tabular store.
// Stages run strictly in order; a structural failure aborts the run and
// leaves already-written artifacts in place for inspection.
type Pipeline struct {
	store *tabular.Store

	topProps         int
	topPropsPerGame  int
	workers          int
	leagueKRate      float64
	leagueBBRate     float64
	pitcherAdjWeight float64
	teamAliases      map[string]string
	nameColumns      map[string]string

	log logger.Logger
}

// New constructs a Pipeline over the given store with default
// configuration.
func New(store *tabular.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:            store,
		topProps:         3,
		topPropsPerGame:  3,
		workers:          runtime.NumCPU(),
		leagueKRate:      0.220,
		leagueBBRate:     0.082,
		pitcherAdjWeight: 0.75,
		teamAliases:      map[string]string{},
		nameColumns:      map[string]string{},
		log:              logger.Get().Named("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// nameColumn returns the configured name-column header for a stat
// source.
func (p *Pipeline) nameColumn(source string) string {
	if col, ok := p.nameColumns[source]; ok && col != "" {
		return col
	}
	return defaultNameCol
}

// runState carries intermediates between stages of a single run.
type runState struct {
	roster     []model.PlayerIdentity
	normalized map[string]*tabular.Table
	outcomes   map[string]*tagging.Outcome
	cleaned    map[string]*tabular.Table
	merged     *tabular.Table
	props      []model.ProjectedProp
	best       []model.ProjectedProp
}

// Run executes the full stage sequence once and writes the run summary.
// The returned error is the first structural failure, already annotated
// with its stage.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.NewString()
	started := time.Now()
	sum := &summary{runID: runID, started: started}

	p.log.Info(ctx, "run started", logger.String("run_id", runID))

	st := &runState{
		normalized: map[string]*tabular.Table{},
		outcomes:   map[string]*tagging.Outcome{},
		cleaned:    map[string]*tabular.Table{},
	}
	err := p.run(ctx, st, sum)
	sum.finish(err)

	// The summary is an audit artifact: write it for failed runs too.
	if werr := p.store.WriteText(ctx, runSummaryFile, sum.render()); werr != nil {
		p.log.Warn(ctx, "run summary not written", logger.Error(werr))
	}

	if err != nil {
		metrics.RecordRunFailed()
		p.log.Error(ctx, "run failed",
			logger.String("run_id", runID), logger.Error(err))
		return err
	}
	metrics.RecordRunCompleted()
	p.log.Info(ctx, "run completed",
		logger.String("run_id", runID),
		logger.Int("best_props", len(st.best)),
		logger.Duration("elapsed", time.Since(started)))
	return nil
}

func (p *Pipeline) run(ctx context.Context, st *runState, sum *summary) error {
	stages := []struct {
		name string
		fn   func(context.Context, *runState, *summary) error
	}{
		{"roster", p.buildRoster},
		{"normalize", p.normalizeStats},
		{"tag", p.tagStats},
		{"dedupe", p.dedupeStats},
		{"merge", p.mergeContext},
		{"project", p.projectProps},
		{"select", p.selectProps},
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		err := s.fn(ctx, st, sum)
		elapsed := time.Since(start)
		metrics.RecordStageDuration(s.name, elapsed.Seconds())
		sum.stageDone(s.name, elapsed, err)
		if err != nil {
			metrics.RecordStageError(s.name)
			return fmt.Errorf("stage %s: %w", s.name, err)
		}
		p.log.Info(ctx, "stage completed",
			logger.String("stage", s.name),
			logger.Duration("elapsed", elapsed))
	}
	return nil
}

func (p *Pipeline) buildRoster(ctx context.Context, st *runState, sum *summary) error {
	b := roster.New(p.store, roster.WithLogger(p.log.Named("roster")))
	ids, err := b.Build(ctx)
	if err != nil {
		return err
	}
	if err := p.store.Write(ctx, masterFile, roster.ToTable(ids)); err != nil {
		return err
	}
	st.roster = ids
	sum.countf("roster players", len(ids))
	return nil
}

func (p *Pipeline) normalizeStats(ctx context.Context, st *runState, sum *summary) error {
	for _, in := range []struct {
		source string
		rel    string
	}{
		{SourceBatters, statsBattersFile},
		{SourcePitchers, statsPitchersFile},
	} {
		source, rel := in.source, in.rel
		t, err := p.store.Read(ctx, rel)
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}
		flagged, err := tagging.NormalizeNames(ctx, t, p.nameColumn(source), p.log.Named("normalize"))
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}
		if err := p.store.Write(ctx, normalizedFile(source), t); err != nil {
			return err
		}
		st.normalized[source] = t
		sum.countf(source+" rows normalized", t.Len())
		sum.countf(source+" malformed names", flagged)
	}
	return nil
}

func (p *Pipeline) tagStats(ctx context.Context, st *runState, sum *summary) error {
	tg := tagging.New(st.roster, tagging.WithLogger(p.log.Named("tag")))
	for _, in := range []struct {
		source string
		role   model.Role
	}{
		{SourceBatters, model.RoleBatter},
		{SourcePitchers, model.RolePitcher},
	} {
		source, role := in.source, in.role
		out, err := tg.Tag(ctx, st.normalized[source], p.nameColumn(source), role)
		if err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
		if err := p.store.Write(ctx, taggedFile(source), out.Tagged); err != nil {
			return err
		}
		if err := p.store.Write(ctx, unmatchedFile(source), out.Unmatched); err != nil {
			return err
		}
		st.outcomes[source] = out
		sum.countf(source+" matched", out.Matched)
		sum.countf(source+" unmatched", out.UnmatchedCount())
	}
	return p.store.WriteText(ctx, totalsFile,
		tagging.Summary(st.outcomes[SourceBatters], st.outcomes[SourcePitchers]))
}

func (p *Pipeline) dedupeStats(ctx context.Context, st *runState, sum *summary) error {
	d := dedupe.New(
		dedupe.WithTeamAliases(p.teamAliases),
		dedupe.WithLogger(p.log.Named("dedupe")),
	)
	for _, source := range []string{SourceBatters, SourcePitchers} {
		cleaned, removed, err := d.Clean(ctx, st.outcomes[source].Tagged, p.nameColumn(source))
		if err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
		if err := p.store.Write(ctx, cleanedFile(source), cleaned); err != nil {
			return err
		}
		st.cleaned[source] = cleaned
		sum.countf(source+" duplicates removed", removed)
	}
	return nil
}

func (p *Pipeline) mergeContext(ctx context.Context, st *runState, sum *summary) error {
	schedT, err := p.store.Read(ctx, scheduleFile)
	if err != nil {
		return fmt.Errorf("%s: %w", scheduleFile, err)
	}
	games, err := matchup.ScheduleFromTable(schedT)
	if err != nil {
		return fmt.Errorf("%s: %w", scheduleFile, err)
	}

	opts := []matchup.Option{matchup.WithLogger(p.log.Named("merge"))}

	rates, err := matchup.PitcherRatesFromTable(st.cleaned[SourcePitchers], p.nameColumn(SourcePitchers))
	if err != nil {
		return err
	}
	opts = append(opts, matchup.WithPitcherRates(rates))

	// Season fallback is best-effort: its absence is not a failure.
	if p.store.Exists(fallbackFile) {
		fbT, err := p.store.Read(ctx, fallbackFile)
		if err != nil {
			return fmt.Errorf("%s: %w", fallbackFile, err)
		}
		fb, err := matchup.FallbackFromTable(fbT, roster.ColName, []string{
			matchup.ColPA, matchup.ColBBPercent, matchup.ColKPercent,
			matchup.ColHitsPerAB, matchup.ColHRPerAB,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", fallbackFile, err)
		}
		opts = append(opts, matchup.WithFallback(fb))
	}

	m := matchup.New(games, opts...)
	merged, rep, err := m.Merge(ctx, st.cleaned[SourceBatters], p.nameColumn(SourceBatters))
	if err != nil {
		return err
	}
	if err := p.store.Write(ctx, mergedFile(SourceBatters), merged); err != nil {
		return err
	}
	st.merged = merged
	sum.countf("games scheduled", len(games))
	sum.countf("batters merged", rep.Merged)
	sum.countf("batters without game", rep.Excluded)
	sum.countf("fallback substitutions", rep.Fallbacks)
	return nil
}

func (p *Pipeline) projectProps(ctx context.Context, st *runState, sum *summary) error {
	e := projection.New(
		projection.WithWorkers(p.workers),
		projection.WithLeagueRates(p.leagueKRate, p.leagueBBRate),
		projection.WithPitcherAdjWeight(p.pitcherAdjWeight),
		projection.WithLogger(p.log.Named("project")),
	)
	projected, err := e.Project(ctx, st.merged, p.nameColumn(SourceBatters))
	if err != nil {
		return err
	}
	if err := p.store.Write(ctx, projectionsFile, bestprops.ToTable(projected)); err != nil {
		return err
	}
	st.props = projected
	sum.countf("props projected", len(projected))
	return nil
}

func (p *Pipeline) selectProps(ctx context.Context, st *runState, sum *summary) error {
	st.best = bestprops.SelectBest(st.props, p.topProps)
	if err := p.store.Write(ctx, bestPropsFile, bestprops.ToTable(st.best)); err != nil {
		return err
	}

	perGame := bestprops.SelectBestPerGame(st.props, p.topPropsPerGame)
	gameIDs := make([]string, 0, len(perGame))
	for id := range perGame {
		gameIDs = append(gameIDs, id)
	}
	sort.Strings(gameIDs)
	for _, id := range gameIDs {
		if err := p.store.Write(ctx, bestPropsGameFile(id), bestprops.ToTable(perGame[id])); err != nil {
			return err
		}
	}
	sum.countf("best props", len(st.best))
	sum.countf("games with props", len(perGame))
	return nil
}

// summary accumulates the plain-text run report.
type summary struct {
	runID   string
	started time.Time
	lines   []string
	failure error
	elapsed time.Duration
}

func (s *summary) countf(label string, n int) {
	s.lines = append(s.lines, fmt.Sprintf("%s: %d", label, n))
}

func (s *summary) stageDone(name string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "failed: " + err.Error()
	}
	s.lines = append(s.lines, fmt.Sprintf("stage %s: %s (%s)", name, status, elapsed.Round(time.Millisecond)))
}

func (s *summary) finish(err error) {
	s.failure = err
	s.elapsed = time.Since(s.started)
}

func (s *summary) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run_id: %s\n", s.runID)
	fmt.Fprintf(&b, "started: %s\n", s.started.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "elapsed: %s\n", s.elapsed.Round(time.Millisecond))
	if s.failure != nil {
		fmt.Fprintf(&b, "result: failed (%v)\n", s.failure)
	} else {
		b.WriteString("result: completed\n")
	}
	for _, line := range s.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
