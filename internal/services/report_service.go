package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/club-backoffice/internal/constants"
	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/report"
	"github.com/yukikurage/club-backoffice/internal/repository"
	"github.com/yukikurage/club-backoffice/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidReportYear  = errors.New("year must be between 2000 and 2100")
	ErrInvalidReportMonth = errors.New("month must be between 1 and 12")
)

// ReportService builds attendance reports.
type ReportService struct {
	reportRepo repository.ReportRepository
	teamRepo   repository.TeamRepository
	access     *AccessService
	now        func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo repository.ReportRepository, teamRepo repository.TeamRepository, access *AccessService) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		teamRepo:   teamRepo,
		access:     access,
		now:        time.Now,
	}
}

// AttendanceReportInput selects the report period. Month 0 covers the whole year.
type AttendanceReportInput struct {
	Year   int
	Month  int
	TeamID *uint64
}

// AttendanceReport aggregates training attendance per member. A month report
// has exactly one period; a year report has one period per month with data.
func (s *ReportService) AttendanceReport(actor Actor, input AttendanceReportInput) (*report.Attendance, error) {
	if input.Year < constants.MinReportYear || input.Year > constants.MaxReportYear {
		return nil, ErrInvalidReportYear
	}
	if input.Month < 0 || input.Month > 12 {
		return nil, ErrInvalidReportMonth
	}

	teamIDs, teamName, err := s.reportTeams(actor, input.TeamID)
	if err != nil {
		return nil, err
	}

	result := &report.Attendance{
		Year:        input.Year,
		Month:       input.Month,
		TeamName:    teamName,
		GeneratedAt: s.now(),
		Periods:     []report.Period{},
	}

	months := []time.Month{time.Month(input.Month)}
	if input.Month == 0 {
		months = months[:0]
		for m := time.January; m <= time.December; m++ {
			months = append(months, m)
		}
	}

	for _, month := range months {
		start, end := utils.MonthRange(input.Year, month)
		rows, err := s.reportRepo.TrainingAttendanceTotals(start, end, teamIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate attendance: %w", err)
		}
		if len(rows) == 0 && input.Month == 0 {
			continue
		}

		period := report.Period{
			Label: report.PeriodLabel(input.Year, month),
			Start: start,
			End:   end,
			Rows:  make([]report.Row, len(rows)),
		}
		for i, r := range rows {
			period.Rows[i] = report.Row{
				MemberID:     r.MemberID,
				MemberName:   r.MemberName,
				TeamName:     r.TeamName,
				Attended:     r.Attended,
				Cancelled:    r.Cancelled,
				NotResponded: r.NotResponded,
			}
		}
		result.Periods = append(result.Periods, period)
	}

	return result, nil
}

// reportTeams returns nil for every team. Coaches are limited to their teams,
// and their scope is checked before the team is looked up.
func (s *ReportService) reportTeams(actor Actor, teamID *uint64) ([]uint64, string, error) {
	switch {
	case actor.Role.CanManage():
		if teamID == nil {
			return nil, "", nil
		}
	case actor.Role == models.RoleCoach:
		coached, err := s.teamRepo.ListCoachedTeamIDs(actor.UserID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load coached teams: %w", err)
		}
		if teamID == nil {
			return nonNil(coached), "", nil
		}
		if !containsID(coached, *teamID) {
			return nil, "", ErrForbidden
		}
	default:
		return nil, "", ErrForbidden
	}

	team, err := s.teamRepo.FindByID(*teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTeamNotFound
		}
		return nil, "", fmt.Errorf("failed to find team: %w", err)
	}
	return []uint64{team.ID}, team.Name, nil
}
