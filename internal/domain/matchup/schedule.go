// Package matchup merges cleaned batter stats with the day's schedule:
// home/away partitioning, opposing-starter context, and best-effort
// backfill of missing rates from the season fallback table.
package matchup

import (
	"strings"

	"github.com/okian/propcast/internal/adapters/tabular"
	"github.com/okian/propcast/internal/domain/identity"
	"github.com/okian/propcast/internal/domain/model"
)

// Schedule artifact columns.
const (
	ColGameID      = "game_id"
	ColDate        = "date"
	ColHomeTeam    = "home_team"
	ColAwayTeam    = "away_team"
	ColPitcherHome = "pitcher_home"
	ColPitcherAway = "pitcher_away"
	ColParkFactor  = "park_factor"
	ColTemperature = "temperature"
	ColWindSpeed   = "wind_speed"
	ColIsDome      = "is_dome"
)

// neutralParkFactor applies when the schedule carries no park data.
const neutralParkFactor = 1.0

// ScheduleFromTable parses the day's schedule artifact into game
// contexts. Park and weather columns are optional; the structural
// game/team/pitcher columns are not. Starter names are normalized so
// they join against pitcher stats; a malformed starter leaves the
// field empty rather than failing the schedule.
func ScheduleFromTable(t *tabular.Table) ([]model.GameContext, error) {
	if err := t.Require(ColGameID, ColDate, ColHomeTeam, ColAwayTeam, ColPitcherHome, ColPitcherAway); err != nil {
		return nil, err
	}

	games := make([]model.GameContext, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		g := model.GameContext{
			GameID:      t.Get(i, ColGameID),
			Date:        t.Get(i, ColDate),
			HomeTeam:    t.Get(i, ColHomeTeam),
			AwayTeam:    t.Get(i, ColAwayTeam),
			HomeStarter: normalizeStarter(t.Get(i, ColPitcherHome)),
			AwayStarter: normalizeStarter(t.Get(i, ColPitcherAway)),
			ParkFactor:  neutralParkFactor,
		}
		if v, ok := t.Float(i, ColParkFactor); ok && v > 0 {
			g.ParkFactor = v
		}
		if v, ok := t.Float(i, ColTemperature); ok {
			g.Temperature = v
		}
		if v, ok := t.Float(i, ColWindSpeed); ok {
			g.WindSpeed = v
		}
		g.Dome = parseBool(t.Get(i, ColIsDome))
		games = append(games, g)
	}
	return games, nil
}

func normalizeStarter(raw string) string {
	name, err := identity.Normalize(raw)
	if err != nil {
		return ""
	}
	return name
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}
