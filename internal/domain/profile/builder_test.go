package profile_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/radar/internal/domain/catalog"
	"github.com/okian/radar/internal/domain/model"
	"github.com/okian/radar/internal/domain/profile"
	"github.com/okian/radar/internal/domain/scoring"
)

func TestBuilder_Build(t *testing.T) {
	Convey("Given a builder over the default catalog", t, func() {
		cat := catalog.Default()
		b := profile.NewBuilder(cat)

		Convey("When a learner has a single raw row", func() {
			p := b.Build("milan", "Milan", []model.CompetenceScore{
				{CompetenceKey: catalog.Mathematics, RawScore: 6, RawMax: 10},
			})

			Convey("Then the row is normalized and every other axis is zero", func() {
				So(p.Scores, ShouldHaveLength, cat.Len())
				s, ok := p.Score(catalog.Mathematics)
				So(ok, ShouldBeTrue)
				So(s.Value, ShouldEqual, 6.00)
				So(s.Progress, ShouldEqual, 60)
				So(s.Level, ShouldEqual, scoring.LevelAdvanced)

				c, _ := p.Score(catalog.Concentration)
				So(c.Value, ShouldEqual, 0)
				So(c.RawMax, ShouldEqual, 0)
				So(c.Level, ShouldEqual, scoring.LevelBeginner)
			})

			Convey("And identity fields are kept", func() {
				So(p.ID, ShouldEqual, "milan")
				So(p.Name, ShouldEqual, "Milan")
				So(profile.DefaultPalette(), ShouldContain, p.Color)
			})
		})

		Convey("When raw rows arrive in any order", func() {
			rows := []model.CompetenceScore{
				{CompetenceKey: catalog.Mathematics, RawScore: 3, RawMax: 10},
				{CompetenceKey: "astronomie", RawScore: 9, RawMax: 10},
				{CompetenceKey: catalog.Concentration, RawScore: 9, RawMax: 10},
				{CompetenceKey: catalog.Programming, RawScore: 14, RawMax: 20},
			}
			reversed := []model.CompetenceScore{rows[3], rows[2], rows[1], rows[0]}

			a := b.Build("aylon", "Aylon", rows)
			r := b.Build("aylon", "Aylon", reversed)

			Convey("Then scores follow catalog order", func() {
				keys := make([]string, len(a.Scores))
				for i, s := range a.Scores {
					keys[i] = s.CompetenceKey
				}
				So(keys, ShouldResemble, cat.Keys())
				So(cmp.Diff(a, r), ShouldBeEmpty)
			})

			Convey("Then unknown competences are ignored", func() {
				_, ok := a.Score("astronomie")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the same input is built twice", func() {
			rows := []model.CompetenceScore{
				{CompetenceKey: catalog.Creativity, RawScore: 2, RawMax: 3},
				{CompetenceKey: catalog.Communication, RawScore: 1, RawMax: 3},
			}
			first, _ := json.Marshal(b.Build("sophie", "Sophie", rows))
			second, _ := json.Marshal(b.Build("sophie", "Sophie", rows))

			Convey("Then the profiles are byte-identical", func() {
				So(string(first), ShouldEqual, string(second))
			})
		})

		Convey("When a key is duplicated", func() {
			p := b.Build("x", "X", []model.CompetenceScore{
				{CompetenceKey: catalog.Mathematics, RawScore: 2, RawMax: 10},
				{CompetenceKey: catalog.Mathematics, RawScore: 8, RawMax: 10},
			})

			Convey("Then the last row wins", func() {
				s, _ := p.Score(catalog.Mathematics)
				So(s.Value, ShouldEqual, 8)
			})
		})

		Convey("When there is no data at all", func() {
			p := b.Build("empty", "Empty", nil)

			Convey("Then a zero-filled profile is returned", func() {
				So(p.Scores, ShouldHaveLength, cat.Len())
				for _, s := range p.Scores {
					So(s.Value, ShouldEqual, 0)
				}
			})
		})
	})
}

func TestBuilder_Options(t *testing.T) {
	Convey("Given builder options", t, func() {
		cat := catalog.Default()

		Convey("When the target scale is 100", func() {
			b := profile.NewBuilder(cat, profile.WithTargetMax(100))
			p := b.Build("l", "L", []model.CompetenceScore{{CompetenceKey: catalog.Mathematics, RawScore: 1, RawMax: 3}})
			s, _ := p.Score(catalog.Mathematics)
			So(s.Value, ShouldEqual, 33.33)
			So(b.TargetMax(), ShouldEqual, 100)
		})

		Convey("When invalid options are passed", func() {
			b := profile.NewBuilder(cat, profile.WithTargetMax(-1), profile.WithPalette(nil))
			So(b.TargetMax(), ShouldEqual, scoring.DefaultTargetMax)
			So(profile.DefaultPalette(), ShouldContain, b.ColorFor("anyone"))
		})
	})
}

func TestColorFor(t *testing.T) {
	Convey("Given learner colors", t, func() {
		palette := profile.DefaultPalette()

		Convey("Then a color depends only on the id", func() {
			ids := []string{"milan", "aylon", "sophie", "lea", "noah", "ines"}
			first := make(map[string]string, len(ids))
			for _, id := range ids {
				first[id] = profile.ColorFor(id, palette)
			}
			for i := len(ids) - 1; i >= 0; i-- {
				So(profile.ColorFor(ids[i], palette), ShouldEqual, first[ids[i]])
			}
		})

		Convey("Then single and comparison builders agree", func() {
			single := profile.NewBuilder(catalog.Default())
			compare := profile.NewBuilder(catalog.Default(), profile.WithPalette(palette))
			So(single.ColorFor("milan"), ShouldEqual, compare.ColorFor("milan"))
		})

		Convey("Then an empty palette falls back", func() {
			So(profile.ColorFor("milan", nil), ShouldEqual, profile.FallbackColor)
		})
	})
}
