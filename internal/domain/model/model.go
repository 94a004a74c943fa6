// Package model contains domain models passed between pipeline stages.
package model

// Role classifies a player on a roster.
type Role string

// Roster roles.
const (
	RoleBatter  Role = "batter"
	RolePitcher Role = "pitcher"
)

// Valid reports whether r is one of the known roster roles.
func (r Role) Valid() bool {
	return r == RoleBatter || r == RolePitcher
}

// PlayerIdentity is one canonical roster entry.
// Unique per (Name, Team, Role) within a roster build.
type PlayerIdentity struct {
	Name string // canonical "Last, First" key
	Team string
	Role Role
}

// Key returns the identity triple as a single comparable string.
func (p PlayerIdentity) Key() string {
	return p.Name + "|" + p.Team + "|" + string(p.Role)
}

// GameContext describes one scheduled game for the run's date.
// Weather and park fields ride along for projection multipliers.
type GameContext struct {
	GameID      string
	Date        string
	HomeTeam    string
	AwayTeam    string
	HomeStarter string // canonical name of the home starting pitcher
	AwayStarter string // canonical name of the away starting pitcher
	ParkFactor  float64
	Temperature float64
	WindSpeed   float64
	Dome        bool
}

// Opponent returns the opposing team and its starter for team, and
// whether team plays in this game at all.
func (g GameContext) Opponent(team string) (opp string, starter string, ok bool) {
	switch team {
	case g.HomeTeam:
		return g.AwayTeam, g.AwayStarter, true
	case g.AwayTeam:
		return g.HomeTeam, g.HomeStarter, true
	default:
		return "", "", false
	}
}

// StatType identifies one projectable prop category.
type StatType string

// Projectable stat types for batter props.
const (
	StatHits       StatType = "hits"
	StatTotalBases StatType = "total_bases"
	StatWalks      StatType = "walks"
	StatHomeRuns   StatType = "home_runs"
)

// ProjectedProp is one scored (player, stat_type) candidate.
type ProjectedProp struct {
	Player      PlayerIdentity
	GameID      string
	StatType    StatType
	Line        float64 // projected value, rounded for display
	Projected   float64 // raw projected value used for tie-breaking
	ZScore      float64 // relative to the current run's cohort for StatType
	Probability int     // standard-normal CDF of ZScore, 0..100
}
