// Package projection turns merged batter rows into scored prop
// candidates: projected values per stat type, cohort z-scores, and
// over probabilities.
package projection

import (
	"context"
	"math"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/okian/propcast/internal/adapters/tabular"
	"github.com/okian/propcast/internal/domain/matchup"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/roster"
	"github.com/okian/propcast/pkg/logger"
	"github.com/okian/propcast/pkg/metrics"
)

// Engine projects props for a merged batter table. Each stat type is
// scored against its own cohort, so z-scores compare a player only to
// other players with a projection for the same stat.
type Engine struct {
	formulas map[model.StatType]Formula
	cfg      FormulaConfig
	workers  int
	log      logger.Logger
}

// New creates an Engine with default formulas and configuration
// options.
func New(opts ...Option) *Engine {
	e := &Engine{
		cfg:     DefaultFormulaConfig(),
		workers: runtime.NumCPU(),
		log:     logger.Get().Named("projection"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.formulas == nil {
		e.formulas = DefaultFormulas(e.cfg)
	}
	if e.workers < 1 {
		e.workers = 1
	}
	return e
}

// Project scores every (player, stat type) pair the formulas can
// produce a value for. Players missing a required rate are skipped for
// that stat only. Results are ordered by (stat type, player key,
// game id) so repeated runs over the same artifact are byte-identical.
func (e *Engine) Project(ctx context.Context, merged *tabular.Table, nameCol string) ([]model.ProjectedProp, error) {
	if err := merged.Require(nameCol, roster.ColTeam, matchup.ColGameID); err != nil {
		return nil, err
	}

	inputs := e.collect(merged, nameCol)

	stats := make([]model.StatType, 0, len(e.formulas))
	for st := range e.formulas {
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i] < stats[j] })

	var (
		mu    sync.Mutex
		props []model.ProjectedProp
		wg    sync.WaitGroup
		sem   = make(chan struct{}, e.workers)
	)
	for _, st := range stats {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(st model.StatType) {
			defer wg.Done()
			defer func() { <-sem }()
			scored := e.scoreStat(ctx, st, inputs)
			mu.Lock()
			props = append(props, scored...)
			mu.Unlock()
		}(st)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(props, func(i, j int) bool {
		if props[i].StatType != props[j].StatType {
			return props[i].StatType < props[j].StatType
		}
		if props[i].Player.Key() != props[j].Player.Key() {
			return props[i].Player.Key() < props[j].Player.Key()
		}
		return props[i].GameID < props[j].GameID
	})

	e.log.Info(ctx, "props projected",
		logger.Int("players", len(inputs)),
		logger.Int("props", len(props)))
	return props, nil
}

// scoreStat runs one formula over every input, then scores the
// resulting cohort.
func (e *Engine) scoreStat(ctx context.Context, st model.StatType, inputs []Input) []model.ProjectedProp {
	f := e.formulas[st]

	var (
		cohort []Input
		values []float64
	)
	for _, in := range inputs {
		v, ok := f(in)
		if !ok {
			continue
		}
		cohort = append(cohort, in)
		values = append(values, v)
	}
	metrics.UpdateCohortSize(string(st), len(cohort))
	if len(cohort) == 0 {
		e.log.Debug(ctx, "empty cohort", logger.String("stat_type", string(st)))
		return nil
	}

	zs := ZScores(values)
	props := make([]model.ProjectedProp, 0, len(cohort))
	for i, in := range cohort {
		props = append(props, model.ProjectedProp{
			Player:      in.Player,
			GameID:      in.GameID,
			StatType:    st,
			Line:        displayLine(values[i]),
			Projected:   values[i],
			ZScore:      zs[i],
			Probability: Probability(zs[i]),
		})
	}
	metrics.RecordPropsProjected(string(st), len(props))
	return props
}

// collect parses merged rows into formula inputs. Rate cells that are
// empty or unparseable are simply absent from the map; the formulas
// decide per stat whether that disqualifies the player.
func (e *Engine) collect(t *tabular.Table, nameCol string) []Input {
	inputs := make([]Input, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		name := t.Get(i, nameCol)
		if name == "" {
			continue
		}
		in := Input{
			Player: model.PlayerIdentity{
				Name: name,
				Team: t.Get(i, roster.ColTeam),
				Role: model.Role(t.Get(i, roster.ColType)),
			},
			GameID: t.Get(i, matchup.ColGameID),
			Rates:  map[string]float64{},
		}
		for _, f := range []string{
			matchup.ColPA, matchup.ColBBPercent, matchup.ColKPercent,
			matchup.ColHitsPerAB, matchup.ColHRPerAB,
		} {
			if v, ok := t.Float(i, f); ok {
				in.Rates[f] = v
			}
		}
		if v, ok := t.Float(i, matchup.ColParkFactor); ok {
			in.Context.ParkFactor = v
		}
		if v, ok := t.Float(i, matchup.ColTemperature); ok {
			in.Context.Temperature = v
		}
		if v, ok := t.Float(i, matchup.ColWindSpeed); ok {
			in.Context.WindSpeed = v
		}
		if b, err := strconv.ParseBool(t.Get(i, matchup.ColIsDome)); err == nil {
			in.Context.Dome = b
		}
		if v, ok := t.Float(i, matchup.ColOppKPercent); ok {
			in.Context.OppKPercent = v
			in.Context.HasOppKPercent = true
		}
		if v, ok := t.Float(i, matchup.ColOppBBPercent); ok {
			in.Context.OppBBPercent = v
			in.Context.HasOppBBPercent = true
		}
		inputs = append(inputs, in)
	}
	return inputs
}

// displayLine rounds a projection to the nearest half for display,
// matching the half-point lines books quote.
func displayLine(v float64) float64 {
	return math.Round(v*2) / 2
}
