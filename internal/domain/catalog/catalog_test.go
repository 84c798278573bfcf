package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/radar/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultCatalog(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		c := catalog.Default()

		Convey("Then it keeps definition order as axis order", func() {
			So(c.Keys(), ShouldResemble, []string{
				catalog.Concentration, catalog.GeneralKnowledge, catalog.Creativity, catalog.CriticalThinking,
				catalog.ProblemSolving, catalog.Communication, catalog.Programming, catalog.Mathematics,
			})
			So(c.Len(), ShouldEqual, 8)
		})

		Convey("Then children come from the forward map", func() {
			So(c.ChildrenOf(catalog.Concentration), ShouldResemble, []string{catalog.ProblemSolving, catalog.Mathematics})
			So(c.ChildrenOf(catalog.Mathematics), ShouldBeEmpty)
		})

		Convey("Then parents are derived in catalog order", func() {
			So(c.ParentsOf(catalog.Mathematics), ShouldResemble, []string{catalog.Concentration, catalog.CriticalThinking})
			So(c.ParentsOf(catalog.Programming), ShouldResemble, []string{catalog.GeneralKnowledge, catalog.Creativity})
			So(c.ParentsOf(catalog.Concentration), ShouldBeEmpty)
		})

		Convey("Then every declared relation appears in the inverse map", func() {
			for cause, effects := range c.Relations() {
				for _, effect := range effects {
					So(c.ParentsOf(effect), ShouldContain, cause)
				}
			}
			for _, comp := range c.Competences() {
				for _, parent := range c.ParentsOf(comp.Key) {
					So(c.ChildrenOf(parent), ShouldContain, comp.Key)
				}
			}
		})

		Convey("Then unknown keys degrade to empty lookups", func() {
			So(c.ParentsOf("astronomie"), ShouldNotBeNil)
			So(c.ParentsOf("astronomie"), ShouldBeEmpty)
			So(c.ChildrenOf("astronomie"), ShouldBeEmpty)
			_, ok := c.Lookup("astronomie")
			So(ok, ShouldBeFalse)
		})

		Convey("Then returned slices do not alias catalog state", func() {
			kids := c.ChildrenOf(catalog.Concentration)
			kids[0] = "mutated"
			So(c.ChildrenOf(catalog.Concentration)[0], ShouldEqual, catalog.ProblemSolving)

			comps := c.Competences()
			comps[0].Label = "mutated"
			got, _ := c.Lookup(catalog.Concentration)
			So(got.Label, ShouldEqual, "Concentration")
		})

		Convey("Then Get reports unknown keys as errors", func() {
			comp, err := c.Get(catalog.Mathematics)
			So(err, ShouldBeNil)
			So(comp.Kind, ShouldEqual, catalog.KindEffect)

			_, err = c.Get("astronomie")
			So(errors.Is(err, catalog.ErrUnknown), ShouldBeTrue)
		})
	})
}

func TestNewValidation(t *testing.T) {
	Convey("Given catalog definitions", t, func() {
		defs := []catalog.Competence{
			{Key: "focus", Kind: catalog.KindCause},
			{Key: "reading", Kind: catalog.KindEffect},
		}

		Convey("When relations are consistent", func() {
			c, err := catalog.New(defs, catalog.Relations{"focus": {"reading", "reading"}})
			So(err, ShouldBeNil)

			Convey("Then duplicate targets collapse and labels default to keys", func() {
				So(c.ChildrenOf("focus"), ShouldResemble, []string{"reading"})
				comp, _ := c.Lookup("reading")
				So(comp.Label, ShouldEqual, "reading")
			})
		})

		Convey("When validation fails", func() {
			cases := []struct {
				defs []catalog.Competence
				rel  catalog.Relations
			}{
				{nil, nil}, // empty
				{[]catalog.Competence{{Key: " ", Kind: catalog.KindCause}}, nil},
				{append(defs, catalog.Competence{Key: "focus", Kind: catalog.KindCause}), nil},
				{[]catalog.Competence{{Key: "x", Kind: "both"}}, nil},
				{defs, catalog.Relations{"memory": {"reading"}}},  // unknown source
				{defs, catalog.Relations{"focus": {"writing"}}},   // unknown target
				{defs, catalog.Relations{"reading": {"reading"}}}, // effect as source
				{defs, catalog.Relations{"focus": {"focus"}}},     // cause as target
			}
			for _, tc := range cases {
				_, err := catalog.New(tc.defs, tc.rel)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
			}
		})
	})
}

func TestCatalogFiles(t *testing.T) {
	Convey("Given a YAML catalog", t, func() {
		data := []byte(`
competences:
  - {key: focus, label: Focus, kind: cause}
  - {key: reading, label: Reading, kind: effect}
relations:
  focus: [reading]
`)

		Convey("When parsed", func() {
			c, err := catalog.Parse(data)
			So(err, ShouldBeNil)
			So(c.Keys(), ShouldResemble, []string{"focus", "reading"})
			So(c.ParentsOf("reading"), ShouldResemble, []string{"focus"})
		})

		Convey("When malformed", func() {
			_, err := catalog.Parse([]byte("competences: [oops"))
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When the default catalog round-trips through a file", func() {
			out, err := catalog.Marshal(catalog.Default())
			So(err, ShouldBeNil)
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			So(os.WriteFile(path, out, 0o600), ShouldBeNil)

			c, err := catalog.LoadFile(path)
			So(err, ShouldBeNil)
			So(c.Keys(), ShouldResemble, catalog.Default().Keys())
			So(c.ParentsOf(catalog.Mathematics), ShouldResemble, catalog.Default().ParentsOf(catalog.Mathematics))
		})

		Convey("When the shipped French catalog is loaded", func() {
			c, err := catalog.LoadFile(filepath.Join("..", "..", "..", "configs", "catalog.fr.yaml"))
			So(err, ShouldBeNil)
			comp, ok := c.Lookup(catalog.Mathematics)
			So(ok, ShouldBeTrue)
			So(comp.Label, ShouldEqual, "Mathématiques")
			So(c.Keys(), ShouldResemble, catalog.Default().Keys())
		})

		Convey("When the file is missing", func() {
			_, err := catalog.LoadFile("/does/not/exist.yaml")
			So(err, ShouldNotBeNil)
		})
	})
}
