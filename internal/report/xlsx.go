package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet    = "Summary"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	summaryHeader = []interface{}{"Period", "Members", "Attended", "Cancelled", "Not responded", "Total", "Rate %"}
	detailHeader  = []interface{}{"Member", "Team", "Attended", "Cancelled", "Not responded", "Total", "Rate %"}
)

// WriteXLSX writes a workbook with a Summary sheet and one detail sheet per period.
func WriteXLSX(w io.Writer, a *Attendance) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := f.SetCellValue(SummarySheet, "A1", a.Title()); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "A1", bold); err != nil {
		return err
	}
	if err := writeRow(f, SummarySheet, 3, summaryHeader, bold); err != nil {
		return err
	}

	row := 4
	for _, p := range a.Periods {
		t := p.Totals()
		values := []interface{}{p.Label, len(p.Rows), t.Attended, t.Cancelled, t.NotResponded, t.Total(), t.Rate()}
		if err := writeRow(f, SummarySheet, row, values, 0); err != nil {
			return err
		}
		row++
	}
	t := a.Totals()
	if err := writeRow(f, SummarySheet, row, []interface{}{"Total", "", t.Attended, t.Cancelled, t.NotResponded, t.Total(), t.Rate()}, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "A", "G", 16); err != nil {
		return err
	}

	for _, p := range a.Periods {
		if err := writePeriodSheet(f, p, bold); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writePeriodSheet(f *excelize.File, p Period, bold int) error {
	if _, err := f.NewSheet(p.Label); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", p.Label, err)
	}
	if err := writeRow(f, p.Label, 1, detailHeader, bold); err != nil {
		return err
	}

	row := 2
	for _, r := range p.Rows {
		values := []interface{}{r.MemberName, r.TeamName, r.Attended, r.Cancelled, r.NotResponded, r.Total(), r.Rate()}
		if err := writeRow(f, p.Label, row, values, 0); err != nil {
			return err
		}
		row++
	}

	t := p.Totals()
	if err := writeRow(f, p.Label, row, []interface{}{"Total", "", t.Attended, t.Cancelled, t.NotResponded, t.Total(), t.Rate()}, bold); err != nil {
		return err
	}

	if err := f.SetColWidth(p.Label, "A", "B", 28); err != nil {
		return err
	}
	return f.SetColWidth(p.Label, "C", "G", 14)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	if style == 0 {
		return nil
	}

	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}
