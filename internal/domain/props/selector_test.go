package props

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/pkg/logger"
)

func prop(name, team, game string, st model.StatType, projected float64, probability int) model.ProjectedProp {
	return model.ProjectedProp{
		Player:      model.PlayerIdentity{Name: name, Team: team, Role: model.RoleBatter},
		GameID:      game,
		StatType:    st,
		Line:        projected,
		Projected:   projected,
		Probability: probability,
	}
}

func TestSelectBest(t *testing.T) {
	logger.Init()

	Convey("Given a pool of scored props", t, func() {
		pool := []model.ProjectedProp{
			prop("Judge, Aaron", "Yankees", "g1", model.StatHits, 1.8, 72),
			prop("Judge, Aaron", "Yankees", "g1", model.StatTotalBases, 3.1, 68),
			prop("Altuve, Jose", "Astros", "g2", model.StatHits, 1.5, 68),
			prop("Carroll, Corbin", "Diamondbacks", "g2", model.StatWalks, 0.7, 61),
			prop("Soto, Juan", "Mets", "g1", model.StatWalks, 0.9, 68),
		}

		Convey("When selecting the top three", func() {
			best := SelectBest(pool, 3)

			Convey("Then they come back best-first with one prop per player", func() {
				So(len(best), ShouldEqual, 3)
				So(best[0].Player.Name, ShouldEqual, "Judge, Aaron")
				So(best[0].StatType, ShouldEqual, model.StatHits)
				for i := 1; i < len(best); i++ {
					So(best[i].Probability, ShouldBeLessThanOrEqualTo, best[i-1].Probability)
					So(best[i].Player.Name, ShouldNotEqual, best[0].Player.Name)
				}
			})

			Convey("Then equal probabilities break on raw projection", func() {
				// Judge's TB (68, 3.1) loses to his hits pick; among
				// the remaining 68s Altuve's 1.5 beats Soto's 0.9.
				So(best[1].Player.Name, ShouldEqual, "Altuve, Jose")
				So(best[2].Player.Name, ShouldEqual, "Soto, Juan")
			})
		})

		Convey("When asking for more props than players", func() {
			best := SelectBest(pool, 10)
			So(len(best), ShouldEqual, 4) // one per distinct player
		})

		Convey("When asking for zero props", func() {
			So(SelectBest(pool, 0), ShouldBeEmpty)
		})

		Convey("When the pool is empty", func() {
			So(SelectBest(nil, 3), ShouldBeEmpty)
		})

		Convey("When probabilities and projections tie", func() {
			tied := []model.ProjectedProp{
				prop("Bravo, B", "T1", "g1", model.StatHits, 1.5, 60),
				prop("Alpha, A", "T2", "g1", model.StatHits, 1.5, 60),
			}
			best := SelectBest(tied, 2)

			Convey("Then names break the tie deterministically", func() {
				So(best[0].Player.Name, ShouldEqual, "Alpha, A")
				So(best[1].Player.Name, ShouldEqual, "Bravo, B")
			})
		})
	})
}

func TestSelectBestPerGame(t *testing.T) {
	logger.Init()

	Convey("Given props spread across two games", t, func() {
		pool := []model.ProjectedProp{
			prop("Judge, Aaron", "Yankees", "g1", model.StatHits, 1.8, 72),
			prop("Soto, Juan", "Mets", "g1", model.StatWalks, 0.9, 66),
			prop("Altuve, Jose", "Astros", "g2", model.StatHits, 1.5, 68),
		}

		Convey("When selecting per game", func() {
			slates := SelectBestPerGame(pool, 2)

			Convey("Then each game gets its own best-first slate", func() {
				So(len(slates), ShouldEqual, 2)
				So(len(slates["g1"]), ShouldEqual, 2)
				So(slates["g1"][0].Player.Name, ShouldEqual, "Judge, Aaron")
				So(len(slates["g2"]), ShouldEqual, 1)
			})
		})

		Convey("When no props exist", func() {
			So(SelectBestPerGame(nil, 2), ShouldBeEmpty)
		})
	})
}

func TestToTable(t *testing.T) {
	logger.Init()

	Convey("Given selected props", t, func() {
		table := ToTable([]model.ProjectedProp{
			prop("Judge, Aaron", "Yankees", "g1", model.StatHits, 1.8, 72),
		})

		Convey("Then the artifact carries every scoring column", func() {
			So(table.Len(), ShouldEqual, 1)
			So(table.Get(0, ColPlayer), ShouldEqual, "Judge, Aaron")
			So(table.Get(0, ColStatType), ShouldEqual, "hits")
			So(table.Get(0, ColLine), ShouldEqual, "1.8")
			So(table.Get(0, ColProbability), ShouldEqual, "72")
		})
	})
}
