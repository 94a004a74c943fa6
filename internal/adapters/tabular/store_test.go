package tabular

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/propcast/pkg/logger"
)

func TestStore(t *testing.T) {
	logger.Init()
	ctx := context.Background()

	Convey("Given a store rooted at a temp dir", t, func() {
		store := NewStore(t.TempDir())

		Convey("When writing and reading a table", func() {
			tab := New("name", "team")
			So(tab.Append([]string{"Peña, Roberto", "Astros"}), ShouldBeNil)
			So(store.Write(ctx, "tagged/batters.csv", tab), ShouldBeNil)

			got, err := store.Read(ctx, "tagged/batters.csv")
			So(err, ShouldBeNil)

			Convey("Then the round trip preserves header, rows, and quoting", func() {
				So(got.Columns(), ShouldResemble, []string{"name", "team"})
				So(got.Len(), ShouldEqual, 1)
				So(got.Get(0, "name"), ShouldEqual, "Peña, Roberto")
			})

			Convey("Then a rewrite replaces the file whole", func() {
				So(store.Write(ctx, "tagged/batters.csv", New("name", "team")), ShouldBeNil)
				got, err := store.Read(ctx, "tagged/batters.csv")
				So(err, ShouldBeNil)
				So(got.Len(), ShouldEqual, 0)
			})

			Convey("Then no temp files are left behind", func() {
				entries, err := os.ReadDir(filepath.Join(store.Root(), "tagged"))
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
			})
		})

		Convey("When reading a missing artifact", func() {
			_, err := store.Read(ctx, "nope.csv")
			So(errors.Is(err, ErrMissingFile), ShouldBeTrue)
		})

		Convey("When reading a zero-byte file", func() {
			So(os.WriteFile(store.Path("empty.csv"), nil, 0o644), ShouldBeNil)
			_, err := store.Read(ctx, "empty.csv")
			So(errors.Is(err, ErrEmptyInput), ShouldBeTrue)
		})

		Convey("When reading a header-only file", func() {
			So(store.WriteText(ctx, "header.csv", "name,team\n"), ShouldBeNil)
			got, err := store.Read(ctx, "header.csv")
			So(err, ShouldBeNil)
			So(got.Len(), ShouldEqual, 0)
			So(got.Has("team"), ShouldBeTrue)
		})

		Convey("When a row is narrower than the header", func() {
			So(store.WriteText(ctx, "ragged.csv", "name,team\nsolo\n"), ShouldBeNil)
			_, err := store.Read(ctx, "ragged.csv")
			So(errors.Is(err, ErrRowWidth), ShouldBeTrue)
		})

		Convey("When globbing artifacts", func() {
			for _, rel := range []string{"raw/batters_NYY.csv", "raw/batters_HOU.csv", "raw/pitchers_NYY.csv"} {
				So(store.Write(ctx, rel, New("name")), ShouldBeNil)
			}
			rels, err := store.Glob(ctx, "raw/batters_*.csv")
			So(err, ShouldBeNil)
			So(len(rels), ShouldEqual, 2)
			for _, rel := range rels {
				So(store.Exists(rel), ShouldBeTrue)
			}
		})

		Convey("When writing a text artifact", func() {
			So(store.WriteText(ctx, "output/player_totals.txt", "Total Batters: 3\n"), ShouldBeNil)
			raw, err := os.ReadFile(store.Path("output/player_totals.txt"))
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, "Total Batters: 3\n")
		})
	})
}
