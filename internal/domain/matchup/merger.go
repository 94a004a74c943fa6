package matchup

import (
	"context"
	"strconv"

	"github.com/okian/propcast/internal/adapters/tabular"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/roster"
	"github.com/okian/propcast/pkg/logger"
	"github.com/okian/propcast/pkg/metrics"
)

// Rate columns the projection engine consumes from merged rows.
const (
	ColPA        = "pa"
	ColBBPercent = "bb_percent"
	ColKPercent  = "k_percent"
	ColHitsPerAB = "hits_per_ab"
	ColHRPerAB   = "hr_per_ab"
)

// Opponent-context columns attached by the merger.
const (
	ColOppTeam      = "opp_team"
	ColOppPitcher   = "opp_pitcher"
	ColOppKPercent  = "opp_k_percent"
	ColOppBBPercent = "opp_bb_percent"
)

// PitcherRates carries the opposing starter's plate-discipline rates.
type PitcherRates struct {
	KPercent  float64
	BBPercent float64
}

// Merger partitions cleaned batter stats into per-game buckets and
// attaches opponent and park/weather context for projection.
type Merger struct {
	byTeam   map[string]model.GameContext
	fallback map[string]map[string]float64
	pitchers map[string]PitcherRates
	fields   []string
	log      logger.Logger
}

// New creates a Merger for the day's games with configuration options.
func New(games []model.GameContext, opts ...Option) *Merger {
	m := &Merger{
		byTeam:   make(map[string]model.GameContext, len(games)*2),
		fallback: map[string]map[string]float64{},
		pitchers: map[string]PitcherRates{},
		fields:   []string{ColPA, ColBBPercent, ColKPercent, ColHitsPerAB, ColHRPerAB},
		log:      logger.Get().Named("matchup"),
	}
	for _, g := range games {
		// First scheduled game wins for doubleheaders.
		if _, ok := m.byTeam[g.HomeTeam]; !ok {
			m.byTeam[g.HomeTeam] = g
		}
		if _, ok := m.byTeam[g.AwayTeam]; !ok {
			m.byTeam[g.AwayTeam] = g
		}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Report summarizes one merge pass.
type Report struct {
	Merged    int
	Excluded  int // players on no scheduled team
	Fallbacks int // numeric fields substituted from the fallback table
}

// Merge joins each cleaned batter row with its game context. Players
// whose team plays no scheduled game are excluded entirely: no game
// context means no projection. Numeric fields that are missing or zero
// on the live row are substituted from the fallback table; fields
// absent there too stay empty and the stat is skipped downstream.
func (m *Merger) Merge(ctx context.Context, batters *tabular.Table, nameCol string) (*tabular.Table, *Report, error) {
	if err := batters.Require(nameCol, roster.ColTeam, roster.ColType); err != nil {
		return nil, nil, err
	}

	cols := []string{
		nameCol, roster.ColTeam, roster.ColType,
		ColGameID, ColDate, ColOppTeam, ColOppPitcher,
		ColParkFactor, ColTemperature, ColWindSpeed, ColIsDome,
		ColOppKPercent, ColOppBBPercent,
	}
	cols = append(cols, m.fields...)
	out := tabular.New(cols...)

	rep := &Report{}
	for i := 0; i < batters.Len(); i++ {
		name := batters.Get(i, nameCol)
		team := batters.Get(i, roster.ColTeam)

		game, ok := m.byTeam[team]
		if !ok {
			rep.Excluded++
			metrics.RecordPlayerWithoutGame()
			m.log.Debug(ctx, "player without scheduled game excluded",
				logger.String("player", name), logger.String("team", team))
			continue
		}
		oppTeam, starter, _ := game.Opponent(team)

		row := map[string]string{
			nameCol:        name,
			roster.ColTeam: team,
			roster.ColType: batters.Get(i, roster.ColType),
			ColGameID:      game.GameID,
			ColDate:        game.Date,
			ColOppTeam:     oppTeam,
			ColOppPitcher:  starter,
			ColParkFactor:  formatFloat(game.ParkFactor),
			ColTemperature: formatFloat(game.Temperature),
			ColWindSpeed:   formatFloat(game.WindSpeed),
			ColIsDome:      strconv.FormatBool(game.Dome),
		}

		for _, f := range m.fields {
			row[f] = m.resolveField(batters, i, f, name, rep)
		}

		if rates, ok := m.pitchers[starter]; ok && starter != "" {
			row[ColOppKPercent] = formatFloat(rates.KPercent)
			row[ColOppBBPercent] = formatFloat(rates.BBPercent)
		}

		out.AppendMap(row)
		rep.Merged++
	}

	m.log.Info(ctx, "batters merged with game context",
		logger.Int("merged", rep.Merged),
		logger.Int("excluded", rep.Excluded),
		logger.Int("fallbacks", rep.Fallbacks))
	return out, rep, nil
}

// resolveField returns the live value for field f, or the fallback
// value keyed by the same canonical identity, or "" when neither side
// has a usable value.
func (m *Merger) resolveField(t *tabular.Table, i int, f, name string, rep *Report) string {
	if v, ok := t.Float(i, f); ok && v != 0 {
		return formatFloat(v)
	}
	if fb, ok := m.fallback[name]; ok {
		if v, ok := fb[f]; ok {
			rep.Fallbacks++
			metrics.RecordFallback()
			return formatFloat(v)
		}
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FallbackFromTable indexes a season-level fallback artifact by
// canonical name. Only the given numeric fields are retained; cells
// that do not parse are simply absent from the index.
func FallbackFromTable(t *tabular.Table, nameCol string, fields []string) (map[string]map[string]float64, error) {
	if err := t.Require(nameCol); err != nil {
		return nil, err
	}
	out := make(map[string]map[string]float64, t.Len())
	for i := 0; i < t.Len(); i++ {
		name := t.Get(i, nameCol)
		if name == "" {
			continue
		}
		for _, f := range fields {
			v, ok := t.Float(i, f)
			if !ok {
				continue
			}
			if out[name] == nil {
				out[name] = make(map[string]float64, len(fields))
			}
			out[name][f] = v
		}
	}
	return out, nil
}

// PitcherRatesFromTable indexes cleaned pitcher stats by canonical
// name for opposing-starter context.
func PitcherRatesFromTable(t *tabular.Table, nameCol string) (map[string]PitcherRates, error) {
	if err := t.Require(nameCol); err != nil {
		return nil, err
	}
	out := make(map[string]PitcherRates, t.Len())
	for i := 0; i < t.Len(); i++ {
		name := t.Get(i, nameCol)
		if name == "" {
			continue
		}
		if _, ok := out[name]; ok {
			continue // first row wins
		}
		var r PitcherRates
		if v, ok := t.Float(i, ColKPercent); ok {
			r.KPercent = v
		}
		if v, ok := t.Float(i, ColBBPercent); ok {
			r.BBPercent = v
		}
		out[name] = r
	}
	return out, nil
}
