package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/propcast/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfigDefaults(t *testing.T) {
	Convey("Given a default config", t, func() {
		cfg := config.New()

		Convey("Then it carries sane pipeline defaults", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.DataDir, ShouldEqual, "data")
			So(cfg.MetricsAddr, ShouldEqual, "")
			So(cfg.TopProps, ShouldEqual, 3)
			So(cfg.TopPropsPerGame, ShouldEqual, 3)
			So(cfg.ProjectionWorkers, ShouldEqual, runtime.NumCPU())
			So(cfg.PitcherAdjWeight, ShouldAlmostEqual, 0.75)
		})

		Convey("Then lookup tables exist and are empty or minimal", func() {
			So(cfg.TeamAliases, ShouldNotBeNil)
			So(cfg.TeamAliases, ShouldBeEmpty)
			So(cfg.NameColumns["batters"], ShouldEqual, "last_name, first_name")
		})
	})
}
