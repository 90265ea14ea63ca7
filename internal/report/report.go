package report

import (
	"fmt"
	"math"
	"time"
)

// Row is one member's attendance in a period.
type Row struct {
	MemberID     uint64
	MemberName   string
	TeamName     string
	Attended     int64
	Cancelled    int64
	NotResponded int64
}

// Total is the number of trainings the member was invited to.
func (r Row) Total() int64 {
	return r.Attended + r.Cancelled + r.NotResponded
}

// Rate is the attended share in percent, rounded to one decimal.
func (r Row) Rate() float64 {
	return Rate(r.Attended, r.Total())
}

// Rate returns attended/total in percent rounded to one decimal, 0 when total is 0.
func Rate(attended, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(attended)/float64(total)*1000) / 10
}

// Period groups the rows of one calendar month.
type Period struct {
	Label string
	Start time.Time
	End   time.Time
	Rows  []Row
}

// Totals sums every row of the period.
func (p Period) Totals() Row {
	total := Row{MemberName: "Total"}
	for _, r := range p.Rows {
		total.Attended += r.Attended
		total.Cancelled += r.Cancelled
		total.NotResponded += r.NotResponded
	}
	return total
}

// Attendance is a training attendance report for a month or a year.
type Attendance struct {
	Year int
	// Month is 0 for a whole-year report.
	Month       int
	TeamName    string
	GeneratedAt time.Time
	Periods     []Period
}

// PeriodLabel is "2025-03" for a month and "2025" for a year.
func (a *Attendance) PeriodLabel() string {
	if a.Month > 0 {
		return fmt.Sprintf("%04d-%02d", a.Year, a.Month)
	}
	return fmt.Sprintf("%04d", a.Year)
}

// Title is the heading used in documents.
func (a *Attendance) Title() string {
	title := "Training attendance " + a.PeriodLabel()
	if a.TeamName != "" {
		title += " - " + a.TeamName
	}
	return title
}

// Filename returns the download name for the given extension.
func (a *Attendance) Filename(ext string) string {
	return fmt.Sprintf("attendance-%s.%s", a.PeriodLabel(), ext)
}

// Totals sums every period.
func (a *Attendance) Totals() Row {
	total := Row{MemberName: "Total"}
	for _, p := range a.Periods {
		t := p.Totals()
		total.Attended += t.Attended
		total.Cancelled += t.Cancelled
		total.NotResponded += t.NotResponded
	}
	return total
}

// PeriodLabel formats a month period label.
func PeriodLabel(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
