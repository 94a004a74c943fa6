package projection

import (
	"context"
	"strconv"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/propcast/internal/adapters/tabular"
	"github.com/okian/propcast/internal/domain/matchup"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/roster"
	"github.com/okian/propcast/pkg/logger"
)

// mergedFixture builds a merged-artifact table with n batters whose
// plate appearances count 1..n, so a pass-through formula produces the
// cohort {1, 2, ..., n}.
func mergedFixture(n int) *tabular.Table {
	t := tabular.New(
		roster.ColName, roster.ColTeam, roster.ColType,
		matchup.ColGameID, matchup.ColPA,
	)
	for i := 1; i <= n; i++ {
		t.AppendMap(map[string]string{
			roster.ColName:    "Player, " + strconv.Itoa(i),
			roster.ColTeam:    "Yankees",
			roster.ColType:    string(model.RoleBatter),
			matchup.ColGameID: "g1",
			matchup.ColPA:     strconv.Itoa(i),
		})
	}
	return t
}

func passThroughPA(in Input) (float64, bool) {
	v, ok := in.Rates[matchup.ColPA]
	return v, ok
}

func TestEngineProject(t *testing.T) {
	logger.Init()
	ctx := context.Background()

	Convey("Given a projection engine with a pass-through formula", t, func() {
		e := New(
			WithWorkers(2),
			WithFormulas(map[model.StatType]Formula{model.StatHits: passThroughPA}),
		)

		Convey("When projecting a five-player cohort", func() {
			props, err := e.Project(ctx, mergedFixture(5), roster.ColName)
			So(err, ShouldBeNil)
			So(len(props), ShouldEqual, 5)

			byName := map[string]model.ProjectedProp{}
			for _, p := range props {
				byName[p.Player.Name] = p
			}

			Convey("Then the largest value has the highest z-score and probability", func() {
				top := byName["Player, 5"]
				for name, p := range byName {
					if name == "Player, 5" {
						continue
					}
					So(top.ZScore, ShouldBeGreaterThan, p.ZScore)
					So(top.Probability, ShouldBeGreaterThanOrEqualTo, p.Probability)
				}
			})

			Convey("Then the median value scores a coin flip", func() {
				So(byName["Player, 3"].ZScore, ShouldAlmostEqual, 0, 1e-9)
				So(byName["Player, 3"].Probability, ShouldEqual, 50)
			})

			Convey("Then lines round to the nearest half point", func() {
				So(byName["Player, 3"].Line, ShouldAlmostEqual, 3.0)
				So(byName["Player, 3"].Projected, ShouldAlmostEqual, 3.0)
			})

			Convey("Then game context rides along", func() {
				So(byName["Player, 1"].GameID, ShouldEqual, "g1")
				So(byName["Player, 1"].Player.Team, ShouldEqual, "Yankees")
				So(byName["Player, 1"].StatType, ShouldEqual, model.StatHits)
			})
		})

		Convey("When the same table is projected twice", func() {
			a, err := e.Project(ctx, mergedFixture(5), roster.ColName)
			So(err, ShouldBeNil)
			b, err := e.Project(ctx, mergedFixture(5), roster.ColName)
			So(err, ShouldBeNil)

			Convey("Then the results are identical, order included", func() {
				So(b, ShouldResemble, a)
			})
		})

		Convey("When a player misses the required rate", func() {
			tab := mergedFixture(3)
			tab.AppendMap(map[string]string{
				roster.ColName:    "Missing, Rates",
				roster.ColTeam:    "Yankees",
				roster.ColType:    string(model.RoleBatter),
				matchup.ColGameID: "g1",
			})
			props, err := e.Project(ctx, tab, roster.ColName)
			So(err, ShouldBeNil)

			Convey("Then that player is absent from the stat's cohort", func() {
				So(len(props), ShouldEqual, 3)
				for _, p := range props {
					So(p.Player.Name, ShouldNotEqual, "Missing, Rates")
				}
			})
		})

		Convey("When the merged table is empty", func() {
			props, err := e.Project(ctx, mergedFixture(0), roster.ColName)
			So(err, ShouldBeNil)
			So(props, ShouldBeEmpty)
		})

		Convey("When a required column is missing", func() {
			bad := tabular.New(roster.ColName, roster.ColTeam)
			_, err := e.Project(ctx, bad, roster.ColName)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given the default engine over realistic merged rows", t, func() {
		e := New(WithWorkers(4))

		tab := tabular.New(
			roster.ColName, roster.ColTeam, roster.ColType, matchup.ColGameID,
			matchup.ColPA, matchup.ColBBPercent, matchup.ColKPercent,
			matchup.ColHitsPerAB, matchup.ColHRPerAB,
			matchup.ColOppKPercent, matchup.ColOppBBPercent,
		)
		for i, tc := range []struct {
			name       string
			pa, bb, k  string
			hits, hr   string
			oppK, oppB string
		}{
			{"Judge, Aaron", "4.6", "0.15", "0.24", "0.31", "0.09", "0.21", "0.07"},
			{"Altuve, Jose", "4.3", "0.07", "0.13", "0.30", "0.03", "0.26", "0.09"},
			{"Carroll, Corbin", "4.4", "0.09", "0.19", "0.27", "0.05", "", ""},
		} {
			tab.AppendMap(map[string]string{
				roster.ColName:        tc.name,
				roster.ColTeam:        "T" + strconv.Itoa(i),
				roster.ColType:        string(model.RoleBatter),
				matchup.ColGameID:     "g" + strconv.Itoa(i),
				matchup.ColPA:         tc.pa,
				matchup.ColBBPercent:  tc.bb,
				matchup.ColKPercent:   tc.k,
				matchup.ColHitsPerAB:  tc.hits,
				matchup.ColHRPerAB:    tc.hr,
				matchup.ColOppKPercent: tc.oppK,
				matchup.ColOppBBPercent: tc.oppB,
			})
		}

		Convey("When projecting all stat types", func() {
			props, err := e.Project(ctx, tab, roster.ColName)
			So(err, ShouldBeNil)

			Convey("Then every player scores every stat", func() {
				So(len(props), ShouldEqual, 3*4)
				perStat := map[model.StatType]int{}
				for _, p := range props {
					perStat[p.StatType]++
					So(p.Projected, ShouldBeGreaterThan, 0)
					So(p.Probability, ShouldBeBetweenOrEqual, 0, 100)
				}
				So(perStat[model.StatHits], ShouldEqual, 3)
				So(perStat[model.StatTotalBases], ShouldEqual, 3)
				So(perStat[model.StatWalks], ShouldEqual, 3)
				So(perStat[model.StatHomeRuns], ShouldEqual, 3)
			})

			Convey("Then props come back grouped by stat type in order", func() {
				var last model.StatType
				for _, p := range props {
					So(string(p.StatType), ShouldBeGreaterThanOrEqualTo, string(last))
					last = p.StatType
				}
			})
		})
	})
}
