// Command gen-fixtures writes a deterministic sample input set into a
// data directory so a pipeline run works without real exports.
package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/okian/propcast/internal/adapters/tabular"
	"github.com/okian/propcast/internal/fixtures"
	"github.com/okian/propcast/pkg/logger"
)

const (
	defaultDataDir = "data"
	defaultSeed    = 1
	defaultBatters = 9
	defaultTeams   = "Yankees,Astros,Dodgers,Mets"
	defaultDate    = "2026-08-29"
)

func main() {
	var (
		dataDir = flag.String("data", defaultDataDir, "Data directory to write fixtures into")
		seed    = flag.Int64("seed", defaultSeed, "Random seed; same seed, same artifacts")
		batters = flag.Int("batters", defaultBatters, "Batters per team")
		teams   = flag.String("teams", defaultTeams, "Comma-separated team names, paired into games in order")
		date    = flag.String("date", defaultDate, "Schedule date (YYYY-MM-DD)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx := context.Background()
	store := tabular.NewStore(*dataDir)
	g := fixtures.New(store,
		fixtures.WithSeed(*seed),
		fixtures.WithBattersPerTeam(*batters),
		fixtures.WithTeams(strings.Split(*teams, ",")),
		fixtures.WithDate(*date),
	)
	if err := g.Generate(ctx); err != nil {
		logger.Get().Error(ctx, "fixture generation failed", logger.Error(err))
		os.Exit(1)
	}
}
