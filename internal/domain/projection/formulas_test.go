package projection

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/propcast/internal/domain/matchup"
	"github.com/okian/propcast/pkg/logger"
)

func batterInput(rates map[string]float64) Input {
	return Input{Rates: rates}
}

func TestNormalizeRate(t *testing.T) {
	logger.Init()

	Convey("Given rate normalization", t, func() {
		Convey("Percent-space values are scaled to decimal", func() {
			So(NormalizeRate(22), ShouldAlmostEqual, 0.22)
			So(NormalizeRate(8.2), ShouldAlmostEqual, 0.082)
		})

		Convey("Decimal-space values pass through", func() {
			So(NormalizeRate(0.22), ShouldAlmostEqual, 0.22)
			So(NormalizeRate(1), ShouldAlmostEqual, 1)
		})
	})
}

func TestDefaultFormulas(t *testing.T) {
	logger.Init()
	cfg := DefaultFormulaConfig()

	Convey("Given the default batter formulas", t, func() {
		formulas := DefaultFormulas(cfg)
		full := map[string]float64{
			matchup.ColPA:        4.2,
			matchup.ColBBPercent: 0.08,
			matchup.ColKPercent:  0.22,
			matchup.ColHitsPerAB: 0.28,
			matchup.ColHRPerAB:   0.05,
		}

		Convey("Hits are at-bats times hit rate", func() {
			v, ok := formulas["hits"](batterInput(full))
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 4.2*(1-0.08)*0.28, 1e-9)
		})

		Convey("Percent-space and decimal-space inputs project identically", func() {
			pct := map[string]float64{
				matchup.ColPA:        4.2,
				matchup.ColBBPercent: 8,
				matchup.ColKPercent:  22,
				matchup.ColHitsPerAB: 28,
				matchup.ColHRPerAB:   5,
			}
			dec, ok := formulas["hits"](batterInput(full))
			So(ok, ShouldBeTrue)
			got, ok := formulas["hits"](batterInput(pct))
			So(ok, ShouldBeTrue)
			So(got, ShouldAlmostEqual, dec, 1e-9)
		})

		Convey("Out-of-range rates are clipped before use", func() {
			wild := map[string]float64{
				matchup.ColPA:        4.2,
				matchup.ColBBPercent: 0.5, // clips to 0.20
				matchup.ColHitsPerAB: 0.9, // clips to 0.40
			}
			v, ok := formulas["hits"](batterInput(wild))
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 4.2*(1-maxBBRate)*maxHitsPerAB, 1e-9)
		})

		Convey("Walks use plate appearances and walk rate", func() {
			v, ok := formulas["walks"](batterInput(full))
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 4.2*0.08, 1e-9)
		})

		Convey("Walks prefer the opposing starter's walk rate", func() {
			in := batterInput(full)
			in.Context.OppBBPercent = 0.12
			in.Context.HasOppBBPercent = true
			v, ok := formulas["walks"](in)
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 4.2*0.12, 1e-9)
		})

		Convey("Total bases exceed hits when home runs are in the mix", func() {
			hits, _ := formulas["hits"](batterInput(full))
			tb, ok := formulas["total_bases"](batterInput(full))
			So(ok, ShouldBeTrue)
			So(tb, ShouldBeGreaterThan, hits)
		})

		Convey("A missing plate-appearance rate disqualifies the player", func() {
			_, ok := formulas["hits"](batterInput(map[string]float64{
				matchup.ColHitsPerAB: 0.28,
			}))
			So(ok, ShouldBeFalse)
		})

		Convey("A high-strikeout opposing starter suppresses hits", func() {
			base, _ := formulas["hits"](batterInput(full))
			in := batterInput(full)
			in.Context.OppKPercent = 0.35
			in.Context.HasOppKPercent = true
			tough, ok := formulas["hits"](in)
			So(ok, ShouldBeTrue)
			So(tough, ShouldBeLessThan, base)
		})

		Convey("A hitter-friendly park inflates hits", func() {
			base, _ := formulas["hits"](batterInput(full))
			in := batterInput(full)
			in.Context.ParkFactor = 1.1
			v, _ := formulas["hits"](in)
			So(v, ShouldAlmostEqual, base*1.1, 1e-9)
		})

		Convey("Dome games ignore temperature", func() {
			in := batterInput(full)
			in.Context.Dome = true
			in.Context.Temperature = 95
			v, _ := formulas["hits"](in)
			base, _ := formulas["hits"](batterInput(full))
			So(v, ShouldAlmostEqual, base, 1e-9)
		})

		Convey("Hot open-air games inflate hits", func() {
			in := batterInput(full)
			in.Context.Temperature = 95
			v, _ := formulas["hits"](in)
			base, _ := formulas["hits"](batterInput(full))
			So(v, ShouldBeGreaterThan, base)
		})
	})
}
