package roster_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/propcast/internal/adapters/tabular"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/roster"
	"github.com/okian/propcast/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuilder(t *testing.T) {
	err := logger.Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()

	write := func(dir, name, content string) {
		if err := os.MkdirAll(filepath.Join(dir, "raw"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "raw", name), []byte(content), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	Convey("Given raw per-team roster exports", t, func() {
		dir := t.TempDir()
		store := tabular.NewStore(dir)

		Convey("When building from batter and pitcher files", func() {
			write(dir, "batters_Yankees.csv", "name,pos\nAaron Judge,RF\n\"Peña, Roberto\",SS\nAaron Judge,RF\n")
			write(dir, "pitchers_Yankees.csv", "\"last_name, first_name\",throws\n\"Cole, Gerrit\",R\n")
			write(dir, "batters_Mets.csv", "name\nFrancisco Lindor\n")

			b := roster.New(store)
			ids, err := b.Build(ctx)

			Convey("Then the roster is deduplicated and sorted by team, role, name", func() {
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, []model.PlayerIdentity{
					{Name: "Lindor, Francisco", Team: "Mets", Role: model.RoleBatter},
					{Name: "Judge, Aaron", Team: "Yankees", Role: model.RoleBatter},
					{Name: "Pena, Roberto", Team: "Yankees", Role: model.RoleBatter},
					{Name: "Cole, Gerrit", Team: "Yankees", Role: model.RolePitcher},
				})
			})
		})

		Convey("When one file is missing its name column", func() {
			write(dir, "batters_Yankees.csv", "player\nAaron Judge\n")
			write(dir, "batters_Mets.csv", "name\nFrancisco Lindor\n")

			b := roster.New(store)
			ids, err := b.Build(ctx)

			Convey("Then the malformed file is skipped, not fatal", func() {
				So(err, ShouldBeNil)
				So(len(ids), ShouldEqual, 1)
				So(ids[0].Team, ShouldEqual, "Mets")
			})
		})

		Convey("When a row has a malformed name", func() {
			write(dir, "batters_Mets.csv", "name\nFrancisco Lindor\n42\n")

			b := roster.New(store)
			ids, err := b.Build(ctx)

			Convey("Then the row is skipped and the rest survive", func() {
				So(err, ShouldBeNil)
				So(len(ids), ShouldEqual, 1)
			})
		})

		Convey("When no input files exist", func() {
			b := roster.New(store)
			_, err := b.Build(ctx)

			Convey("Then the build fails", func() {
				So(errors.Is(err, roster.ErrNoInputs), ShouldBeTrue)
			})
		})

		Convey("When rendering and re-reading the roster artifact", func() {
			ids := []model.PlayerIdentity{
				{Name: "Judge, Aaron", Team: "Yankees", Role: model.RoleBatter},
				{Name: "Cole, Gerrit", Team: "Yankees", Role: model.RolePitcher},
			}
			tbl := roster.ToTable(ids)
			back, err := roster.FromTable(tbl)

			Convey("Then the round trip preserves every identity", func() {
				So(err, ShouldBeNil)
				So(back, ShouldResemble, ids)
			})
		})

		Convey("When a roster artifact carries an unknown role", func() {
			tbl := tabular.New(roster.ColName, roster.ColTeam, roster.ColType)
			tbl.AppendMap(map[string]string{
				roster.ColName: "Judge, Aaron",
				roster.ColTeam: "Yankees",
				roster.ColType: "coach",
			})
			_, err := roster.FromTable(tbl)

			Convey("Then parsing fails rather than inventing a role", func() {
				So(errors.Is(err, roster.ErrCorruptRoster), ShouldBeTrue)
			})
		})
	})
}
