package export_test

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/okian/radar/internal/adapters/export"
	"github.com/okian/radar/internal/domain/aggregate"
	"github.com/okian/radar/internal/domain/catalog"
	"github.com/okian/radar/internal/domain/model"
	"github.com/okian/radar/internal/domain/profile"
)

func TestWriteWorkbook(t *testing.T) {
	Convey("Given two learner profiles", t, func() {
		cat := catalog.Default()
		b := profile.NewBuilder(cat)
		profiles := []model.Profile{
			b.Build("a", "Aylon", []model.CompetenceScore{{CompetenceKey: catalog.Mathematics, RawScore: 90, RawMax: 100}}),
			b.Build("m", "Milan", []model.CompetenceScore{{CompetenceKey: catalog.Mathematics, RawScore: 60, RawMax: 100}}),
		}
		summary := aggregate.Summarize(profiles)

		Convey("When a workbook is written", func() {
			var buf bytes.Buffer
			So(export.WriteWorkbook(&buf, cat, profiles, summary), ShouldBeNil)

			f, err := excelize.OpenReader(&buf)
			So(err, ShouldBeNil)
			defer func() { _ = f.Close() }()

			Convey("Then it has the radar and summary sheets", func() {
				So(f.GetSheetList(), ShouldResemble, []string{export.SheetRadar, export.SheetSummary})
			})

			Convey("Then the radar sheet has one row per axis", func() {
				rows, err := f.GetRows(export.SheetRadar)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, cat.Len()+1)
				So(rows[0], ShouldResemble, []string{"Competence", "Kind", "Aylon", "Milan"})
				last := rows[len(rows)-1]
				So(last, ShouldResemble, []string{"Mathematics", "effect", "9", "6"})
			})

			Convey("Then the summary sheet ends with the overall totals", func() {
				rows, err := f.GetRows(export.SheetSummary)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 4)
				So(rows[3], ShouldResemble, []string{"All", "150", "200", "75", "Expert"})
			})
		})

		Convey("When there is nothing to export", func() {
			var buf bytes.Buffer
			err := export.WriteWorkbook(&buf, cat, []model.Profile{}, model.Summary{Level: "Beginner"})

			Convey("Then an empty but valid workbook is produced", func() {
				So(err, ShouldBeNil)
				f, err := excelize.OpenReader(&buf)
				So(err, ShouldBeNil)
				rows, _ := f.GetRows(export.SheetSummary)
				So(rows[len(rows)-1][0], ShouldEqual, "All")
			})
		})
	})
}
