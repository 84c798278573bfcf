// Package export renders radar data as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/okian/radar/internal/domain/aggregate"
	"github.com/okian/radar/internal/domain/catalog"
	"github.com/okian/radar/internal/domain/model"
	"github.com/okian/radar/pkg/metrics"
)

// Sheet names.
const (
	SheetRadar   = "Radar"
	SheetSummary = "Summary"
)

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteWorkbook writes an xlsx file with one Radar sheet (axes by learners,
// normalized values) and one Summary sheet (raw totals per learner and
// overall) to w.
func WriteWorkbook(w io.Writer, cat *catalog.Catalog, profiles []model.Profile, summary model.Summary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetRadar); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRadar(f, cat, profiles); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(f, profiles, summary); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	metrics.RecordExport()
	return nil
}

func writeRadar(f *excelize.File, cat *catalog.Catalog, profiles []model.Profile) error {
	header := []interface{}{"Competence", "Kind"}
	for _, p := range profiles {
		header = append(header, p.Name)
	}
	if err := f.SetSheetRow(SheetRadar, "A1", &header); err != nil {
		return fmt.Errorf("radar header: %w", err)
	}

	for i, row := range aggregate.Radar(cat, profiles) {
		line := []interface{}{row.Label, string(row.Kind)}
		for _, p := range profiles {
			line = append(line, row.Values[p.ID])
		}
		if err := setRow(f, SheetRadar, i+2, line); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, profiles []model.Profile, summary model.Summary) error {
	header := []interface{}{"Learner", "Total", "Max", "Percentage", "Level"}
	if err := f.SetSheetRow(SheetSummary, "A1", &header); err != nil {
		return fmt.Errorf("summary header: %w", err)
	}

	for i, p := range profiles {
		s := aggregate.Summarize([]model.Profile{p})
		line := []interface{}{p.Name, s.TotalScore, s.MaxTotalScore, s.Percentage, string(s.Level)}
		if err := setRow(f, SheetSummary, i+2, line); err != nil {
			return err
		}
	}

	total := []interface{}{"All", summary.TotalScore, summary.MaxTotalScore, summary.Percentage, string(summary.Level)}
	return setRow(f, SheetSummary, len(profiles)+2, total)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}
