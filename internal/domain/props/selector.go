// Package props selects the best prop candidates out of a scored run.
package props

import (
	"sort"
	"strconv"

	"github.com/okian/propcast/internal/adapters/tabular"
	"github.com/okian/propcast/internal/domain/model"
)

// Output artifact columns for selected props.
const (
	ColPlayer      = "player"
	ColTeam        = "team"
	ColGameID      = "game_id"
	ColStatType    = "stat_type"
	ColLine        = "line"
	ColProjected   = "projected"
	ColZScore      = "z_score"
	ColProbability = "probability"
)

// rank orders candidates best-first: probability, then raw projection,
// then player name so equal candidates break deterministically.
func rank(props []model.ProjectedProp) []model.ProjectedProp {
	out := make([]model.ProjectedProp, len(props))
	copy(out, props)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		if out[i].Projected != out[j].Projected {
			return out[i].Projected > out[j].Projected
		}
		if out[i].Player.Name != out[j].Player.Name {
			return out[i].Player.Name < out[j].Player.Name
		}
		return out[i].StatType < out[j].StatType
	})
	return out
}

// SelectBest returns up to n props, best first, with at most one prop
// per player. A player with several strong stats contributes only
// their single best one, so the slate spreads across players.
func SelectBest(props []model.ProjectedProp, n int) []model.ProjectedProp {
	if n <= 0 {
		return nil
	}
	seen := make(map[string]struct{}, n)
	var out []model.ProjectedProp
	for _, p := range rank(props) {
		key := p.Player.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
		if len(out) == n {
			break
		}
	}
	return out
}

// SelectBestPerGame applies SelectBest within each game and returns
// the slates keyed by game id.
func SelectBestPerGame(props []model.ProjectedProp, n int) map[string][]model.ProjectedProp {
	byGame := map[string][]model.ProjectedProp{}
	for _, p := range props {
		byGame[p.GameID] = append(byGame[p.GameID], p)
	}
	out := make(map[string][]model.ProjectedProp, len(byGame))
	for id, game := range byGame {
		if picked := SelectBest(game, n); len(picked) > 0 {
			out[id] = picked
		}
	}
	return out
}

// ToTable renders selected props as an output artifact.
func ToTable(props []model.ProjectedProp) *tabular.Table {
	t := tabular.New(
		ColPlayer, ColTeam, ColGameID, ColStatType,
		ColLine, ColProjected, ColZScore, ColProbability,
	)
	for _, p := range props {
		t.AppendMap(map[string]string{
			ColPlayer:      p.Player.Name,
			ColTeam:        p.Player.Team,
			ColGameID:      p.GameID,
			ColStatType:    string(p.StatType),
			ColLine:        strconv.FormatFloat(p.Line, 'f', 1, 64),
			ColProjected:   strconv.FormatFloat(p.Projected, 'f', 4, 64),
			ColZScore:      strconv.FormatFloat(p.ZScore, 'f', 4, 64),
			ColProbability: strconv.Itoa(p.Probability),
		})
	}
	return t
}
