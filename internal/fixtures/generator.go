// Package fixtures generates a deterministic, self-consistent input
// set (rosters, stat exports, schedule, fallback table) so a full
// pipeline run works out of the box.
package fixtures

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/okian/propcast/internal/adapters/tabular"
	"github.com/okian/propcast/internal/domain/identity"
	"github.com/okian/propcast/internal/domain/matchup"
	"github.com/okian/propcast/pkg/logger"
)

// Name pools deliberately include diacritics, punctuation, and mixed
// casing so the generated exports exercise normalization the way messy
// upstream files do.
var (
	firstNames = []string{
		"Aaron", "José", "Juan", "Ronald", "Vladimir", "Mookie",
		"Freddie", "Luis", "Yordan", "Adolis", "Bobby", "Gunnar",
		"Corbin", "Julio", "Marcell", "Rafael",
	}
	lastNames = []string{
		"Peña", "Núñez", "O'Neill", "Acuña", "Suárez", "Judge",
		"Betts", "Alvarez", "García", "Witt", "Henderson", "Carroll",
		"Rodríguez", "Ozuna", "Devers", "Realmuto",
	}
)

const (
	statNameColumn = "last_name, first_name"

	paMin, paRange     = 3.8, 1.2
	bbMin, bbRange     = 0.04, 0.12
	kMin, kRange       = 0.12, 0.20
	hitsMin, hitsRange = 0.20, 0.14
	hrMin, hrRange     = 0.01, 0.07
	parkMin, parkRange = 0.92, 0.18
	tempMin, tempRange = 58.0, 38.0
	windMax            = 18.0

	domeOdds      = 0.2 // fraction of games played indoors
	percentOdds   = 0.3 // fraction of rates emitted in percent space
	missingHROdds = 0.2 // fraction of live rows missing hr_per_ab
	strayOdds     = 0.1 // fraction of extra rows with no roster match
)

type player struct {
	raw       string // as written in the export
	canonical string
	team      string
}

// Generator writes one complete input set into a tabular store.
type Generator struct {
	store          *tabular.Store
	seed           int64
	teams          []string
	battersPerTeam int
	date           string
	log            logger.Logger
}

// New creates a Generator over store with configuration options.
func New(store *tabular.Store, opts ...Option) *Generator {
	g := &Generator{
		store:          store,
		seed:           1,
		teams:          []string{"Yankees", "Astros", "Dodgers", "Mets"},
		battersPerTeam: 9,
		date:           "2026-08-29",
		log:            logger.Get().Named("fixtures"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate writes rosters, stat exports, a schedule pairing the teams
// in order, and a season fallback table. The same seed always produces
// byte-identical artifacts.
func (g *Generator) Generate(ctx context.Context) error {
	if len(g.teams) < 2 {
		return ErrTooFewTeams
	}

	rng := rand.New(rand.NewSource(g.seed))

	batters, pitchers, err := g.writeRosters(ctx, rng)
	if err != nil {
		return err
	}
	if err := g.writeSchedule(ctx, rng, pitchers); err != nil {
		return err
	}
	if err := g.writeBatterStats(ctx, rng, batters); err != nil {
		return err
	}
	if err := g.writePitcherStats(ctx, rng, pitchers); err != nil {
		return err
	}
	if err := g.writeFallback(ctx, rng, batters); err != nil {
		return err
	}

	g.log.Info(ctx, "fixtures generated",
		logger.Int("teams", len(g.teams)),
		logger.Int("batters", len(batters)),
		logger.Int("pitchers", len(pitchers)))
	return nil
}

func (g *Generator) writeRosters(ctx context.Context, rng *rand.Rand) (batters, pitchers []player, err error) {
	seen := map[string]bool{}
	for _, team := range g.teams {
		roster := tabular.New("name")
		for i := 0; i < g.battersPerTeam; i++ {
			p, ok := g.newPlayer(rng, team, seen)
			if !ok {
				continue
			}
			if err := roster.Append([]string{p.raw}); err != nil {
				return nil, nil, err
			}
			batters = append(batters, p)
		}
		if err := g.store.Write(ctx, "raw/batters_"+team+".csv", roster); err != nil {
			return nil, nil, err
		}

		staff := tabular.New(statNameColumn)
		p, ok := g.newPlayer(rng, team, seen)
		if !ok {
			return nil, nil, fmt.Errorf("fixtures: name pool exhausted for %s", team)
		}
		// Pitcher exports always use comma order.
		p.raw = p.canonical
		if err := staff.Append([]string{p.raw}); err != nil {
			return nil, nil, err
		}
		pitchers = append(pitchers, p)
		if err := g.store.Write(ctx, "raw/pitchers_"+team+".csv", staff); err != nil {
			return nil, nil, err
		}
	}
	return batters, pitchers, nil
}

// newPlayer draws a fresh identity, retrying a few times to keep the
// roster free of accidental duplicates.
func (g *Generator) newPlayer(rng *rand.Rand, team string, seen map[string]bool) (player, bool) {
	for attempt := 0; attempt < 20; attempt++ {
		raw := g.rawName(rng)
		canonical, err := identity.Normalize(raw)
		if err != nil {
			continue
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		return player{raw: raw, canonical: canonical, team: team}, true
	}
	return player{}, false
}

// rawName emits a name in one of the messy upstream forms: natural
// order, comma order, or all lowercase.
func (g *Generator) rawName(rng *rand.Rand) string {
	first := firstNames[rng.Intn(len(firstNames))]
	last := lastNames[rng.Intn(len(lastNames))]
	switch rng.Intn(3) {
	case 0:
		return first + " " + last
	case 1:
		return last + ", " + first
	default:
		return strings.ToLower(last + ", " + first)
	}
}

func (g *Generator) writeSchedule(ctx context.Context, rng *rand.Rand, pitchers []player) error {
	t := tabular.New(
		matchup.ColGameID, matchup.ColDate,
		matchup.ColHomeTeam, matchup.ColAwayTeam,
		matchup.ColPitcherHome, matchup.ColPitcherAway,
		matchup.ColParkFactor, matchup.ColTemperature,
		matchup.ColWindSpeed, matchup.ColIsDome,
	)
	starters := map[string]string{}
	for _, p := range pitchers {
		starters[p.team] = p.canonical
	}
	for i := 0; i+1 < len(g.teams); i += 2 {
		home, away := g.teams[i], g.teams[i+1]
		dome := rng.Float64() < domeOdds
		t.AppendMap(map[string]string{
			matchup.ColGameID:      fmt.Sprintf("%s-g%d", g.date, i/2+1),
			matchup.ColDate:        g.date,
			matchup.ColHomeTeam:    home,
			matchup.ColAwayTeam:    away,
			matchup.ColPitcherHome: starters[home],
			matchup.ColPitcherAway: starters[away],
			matchup.ColParkFactor:  formatRate(parkMin + rng.Float64()*parkRange),
			matchup.ColTemperature: formatRate(tempMin + rng.Float64()*tempRange),
			matchup.ColWindSpeed:   formatRate(rng.Float64() * windMax),
			matchup.ColIsDome:      strconv.FormatBool(dome),
		})
	}
	return g.store.Write(ctx, "schedule.csv", t)
}

func statColumns() []string {
	return []string{
		statNameColumn, matchup.ColPA, matchup.ColBBPercent,
		matchup.ColKPercent, matchup.ColHitsPerAB, matchup.ColHRPerAB,
	}
}

func (g *Generator) writeBatterStats(ctx context.Context, rng *rand.Rand, batters []player) error {
	t := tabular.New(statColumns()...)
	for _, p := range batters {
		hr := formatRate(g.rate(rng, hrMin, hrRange))
		if rng.Float64() < missingHROdds {
			hr = "" // backfilled from the fallback table downstream
		}
		t.AppendMap(map[string]string{
			statNameColumn:       p.raw,
			matchup.ColPA:        formatRate(paMin + rng.Float64()*paRange),
			matchup.ColBBPercent: formatRate(g.rate(rng, bbMin, bbRange)),
			matchup.ColKPercent:  formatRate(g.rate(rng, kMin, kRange)),
			matchup.ColHitsPerAB: formatRate(g.rate(rng, hitsMin, hitsRange)),
			matchup.ColHRPerAB:   hr,
		})
		if rng.Float64() < strayOdds {
			t.AppendMap(map[string]string{
				statNameColumn:       "Callup, Fresh",
				matchup.ColPA:        formatRate(paMin),
				matchup.ColBBPercent: formatRate(bbMin),
				matchup.ColKPercent:  formatRate(kMin),
				matchup.ColHitsPerAB: formatRate(hitsMin),
				matchup.ColHRPerAB:   formatRate(hrMin),
			})
		}
	}
	return g.store.Write(ctx, "stats/batters.csv", t)
}

func (g *Generator) writePitcherStats(ctx context.Context, rng *rand.Rand, pitchers []player) error {
	t := tabular.New(statColumns()...)
	for _, p := range pitchers {
		t.AppendMap(map[string]string{
			statNameColumn:       p.raw,
			matchup.ColBBPercent: formatRate(g.rate(rng, bbMin, bbRange)),
			matchup.ColKPercent:  formatRate(g.rate(rng, kMin, kRange)),
		})
	}
	return g.store.Write(ctx, "stats/pitchers.csv", t)
}

func (g *Generator) writeFallback(ctx context.Context, rng *rand.Rand, batters []player) error {
	// The fallback table is keyed by canonical name under the roster
	// column convention, not the export's header.
	t := tabular.New("name", matchup.ColPA, matchup.ColBBPercent,
		matchup.ColKPercent, matchup.ColHitsPerAB, matchup.ColHRPerAB)
	for _, p := range batters {
		t.AppendMap(map[string]string{
			"name":               p.canonical,
			matchup.ColPA:        formatRate(paMin + rng.Float64()*paRange),
			matchup.ColBBPercent: formatRate(g.rate(rng, bbMin, bbRange)),
			matchup.ColKPercent:  formatRate(g.rate(rng, kMin, kRange)),
			matchup.ColHitsPerAB: formatRate(g.rate(rng, hitsMin, hitsRange)),
			matchup.ColHRPerAB:   formatRate(g.rate(rng, hrMin, hrRange)),
		})
	}
	return g.store.Write(ctx, "master/season_fallback.csv", t)
}

// rate draws a decimal rate, sometimes emitted in percent space to
// exercise downstream normalization.
func (g *Generator) rate(rng *rand.Rand, min, span float64) float64 {
	v := min + rng.Float64()*span
	if rng.Float64() < percentOdds {
		return v * 100
	}
	return v
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
