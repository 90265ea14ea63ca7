package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const ContentTypePDF = "application/pdf"

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Member", 50, "L"},
	{"Team", 40, "L"},
	{"Attended", 20, "R"},
	{"Cancelled", 20, "R"},
	{"No reply", 20, "R"},
	{"Total", 15, "R"},
	{"Rate %", 15, "R"},
}

// WritePDF writes the report as a PDF with one table per period.
func WritePDF(w io.Writer, a *Attendance) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(a.Title(), true)
	pdf.SetCreationDate(a.GeneratedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(a.Title()), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+a.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")

	t := a.Totals()
	pdf.CellFormat(0, 6, fmt.Sprintf("Attended %d of %d (%.1f%%)", t.Attended, t.Total(), t.Rate()), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(a.Periods) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 8, "No trainings in this period.", "", 1, "L", false, 0, "")
	}

	for _, p := range a.Periods {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, p.Label, "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, r := range p.Rows {
			writePDFRow(pdf, tr, r, false)
		}
		pdf.SetFont("Helvetica", "B", 9)
		writePDFRow(pdf, tr, p.Totals(), true)
		pdf.Ln(6)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func writePDFRow(pdf *fpdf.Fpdf, tr func(string) string, r Row, fill bool) {
	values := []string{
		tr(r.MemberName),
		tr(r.TeamName),
		fmt.Sprintf("%d", r.Attended),
		fmt.Sprintf("%d", r.Cancelled),
		fmt.Sprintf("%d", r.NotResponded),
		fmt.Sprintf("%d", r.Total()),
		fmt.Sprintf("%.1f", r.Rate()),
	}
	for i, c := range pdfColumns {
		pdf.CellFormat(c.width, 6, values[i], "1", 0, c.align, fill, 0, "")
	}
	pdf.Ln(-1)
}
