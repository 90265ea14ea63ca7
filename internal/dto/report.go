package dto

import (
	"time"

	"github.com/yukikurage/club-backoffice/internal/report"
)

// AttendanceRowDTO is one member's bucketed attendance
type AttendanceRowDTO struct {
	MemberID     uint64  `json:"member_id,omitempty"`
	MemberName   string  `json:"member_name"`
	TeamName     string  `json:"team_name,omitempty"`
	Attended     int64   `json:"attended"`
	Cancelled    int64   `json:"cancelled"`
	NotResponded int64   `json:"not_responded"`
	Total        int64   `json:"total"`
	Rate         float64 `json:"rate"`
}

// AttendancePeriodDTO is one month of a report
type AttendancePeriodDTO struct {
	Period string             `json:"period"`
	Rows   []AttendanceRowDTO `json:"rows"`
	Totals AttendanceRowDTO   `json:"totals"`
}

// AttendanceReportDTO is the JSON form of an attendance report
type AttendanceReportDTO struct {
	Year        int                   `json:"year"`
	Month       int                   `json:"month,omitempty"`
	Team        string                `json:"team,omitempty"`
	GeneratedAt time.Time             `json:"generated_at"`
	Periods     []AttendancePeriodDTO `json:"periods"`
	Totals      AttendanceRowDTO      `json:"totals"`
}

func toAttendanceRowDTO(r report.Row) AttendanceRowDTO {
	return AttendanceRowDTO{
		MemberID:     r.MemberID,
		MemberName:   r.MemberName,
		TeamName:     r.TeamName,
		Attended:     r.Attended,
		Cancelled:    r.Cancelled,
		NotResponded: r.NotResponded,
		Total:        r.Total(),
		Rate:         r.Rate(),
	}
}

// ToAttendanceReportDTO converts a report
func ToAttendanceReportDTO(a *report.Attendance) AttendanceReportDTO {
	periods := make([]AttendancePeriodDTO, len(a.Periods))
	for i, p := range a.Periods {
		rows := make([]AttendanceRowDTO, len(p.Rows))
		for j, r := range p.Rows {
			rows[j] = toAttendanceRowDTO(r)
		}
		periods[i] = AttendancePeriodDTO{
			Period: p.Label,
			Rows:   rows,
			Totals: toAttendanceRowDTO(p.Totals()),
		}
	}

	return AttendanceReportDTO{
		Year:        a.Year,
		Month:       a.Month,
		Team:        a.TeamName,
		GeneratedAt: a.GeneratedAt,
		Periods:     periods,
		Totals:      toAttendanceRowDTO(a.Totals()),
	}
}
