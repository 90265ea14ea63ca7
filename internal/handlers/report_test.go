package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yukikurage/club-backoffice/internal/dto"
	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/report"
)

type reportFixture struct {
	env   apiTestEnv
	team  *models.Team
	other *models.Team
}

// setupReportFixture records two trainings in March and one in May 2025.
func setupReportFixture(t *testing.T) reportFixture {
	t.Helper()

	env := setupAPITestEnv(t)
	env.createUser(t, "Manager", "manager@club.test", models.RoleManager)
	coach := env.createUser(t, "Coach Carla", "carla@club.test", models.RoleCoach)
	env.createUser(t, "Paula", "paula@club.test", models.RoleParent)
	team := env.createTeam(t, "U12")
	other := env.createTeam(t, "U14")
	require.NoError(t, env.db.Omit("Team", "User").Create(&models.TeamCoach{TeamID: team.ID, UserID: coach.ID, IsPrimary: true}).Error)

	anna := env.createMember(t, "Anna", &team.ID, "")
	ben := env.createMember(t, "Ben", &team.ID, "")
	cem := env.createMember(t, "Cem", &other.ID, "")

	addTraining := func(teamID uint64, date time.Time, statuses map[uint64]models.AttendanceStatus) {
		training := &models.Training{TeamID: teamID, Date: date, StartTime: "17:00", EndTime: "18:30", CreatedByID: coach.ID}
		require.NoError(t, env.db.Omit("Team", "Attendance").Create(training).Error)
		for memberID, status := range statuses {
			row := &models.TrainingAttendance{TrainingID: training.ID, MemberID: memberID}
			row.Status = status
			if status == models.AttendanceDeclined {
				row.DeclineReason = "sick"
			}
			require.NoError(t, env.db.Omit("Member").Create(row).Error)
		}
	}

	march := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)
	addTraining(team.ID, march, map[uint64]models.AttendanceStatus{
		anna.ID: models.AttendanceAccepted,
		ben.ID:  models.AttendanceDeclined,
	})
	addTraining(team.ID, march.AddDate(0, 0, 7), map[uint64]models.AttendanceStatus{
		anna.ID: models.AttendanceAccepted,
		ben.ID:  models.AttendancePending,
	})
	addTraining(other.ID, time.Date(2025, time.May, 6, 0, 0, 0, 0, time.UTC), map[uint64]models.AttendanceStatus{
		cem.ID: models.AttendanceAccepted,
	})

	return reportFixture{env: env, team: team, other: other}
}

func TestReportHandler_MonthReport(t *testing.T) {
	f := setupReportFixture(t)
	cookies := f.env.login(t, "manager@club.test")

	w := f.env.request(t, http.MethodGet, "/api/reports/attendance?year=2025&month=3", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result dto.AttendanceReportDTO
	decode(t, w, &result)
	require.Len(t, result.Periods, 1)

	period := result.Periods[0]
	require.Equal(t, "2025-03", period.Period)
	require.Len(t, period.Rows, 2)
	require.Equal(t, "Anna", period.Rows[0].MemberName)
	require.Equal(t, int64(2), period.Rows[0].Attended)
	require.Equal(t, 100.0, period.Rows[0].Rate)
	require.Equal(t, "Ben", period.Rows[1].MemberName)
	require.Equal(t, int64(1), period.Rows[1].Cancelled)
	require.Equal(t, int64(1), period.Rows[1].NotResponded)
	require.Equal(t, 0.0, period.Rows[1].Rate)
	require.Equal(t, int64(4), period.Totals.Total)
	require.Equal(t, 50.0, period.Totals.Rate)
}

func TestReportHandler_YearReportSkipsEmptyMonths(t *testing.T) {
	f := setupReportFixture(t)
	cookies := f.env.login(t, "manager@club.test")

	w := f.env.request(t, http.MethodGet, "/api/reports/attendance?year=2025", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result dto.AttendanceReportDTO
	decode(t, w, &result)
	require.Len(t, result.Periods, 2)
	require.Equal(t, "2025-03", result.Periods[0].Period)
	require.Equal(t, "2025-05", result.Periods[1].Period)
	require.Equal(t, int64(5), result.Totals.Total)

	w = f.env.request(t, http.MethodGet, "/api/reports/attendance?year=2025&month=4", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &result)
	require.Len(t, result.Periods, 1, "a month report always has its period")
	require.Empty(t, result.Periods[0].Rows)
}

func TestReportHandler_CoachScope(t *testing.T) {
	f := setupReportFixture(t)
	cookies := f.env.login(t, "carla@club.test")

	w := f.env.request(t, http.MethodGet, "/api/reports/attendance?year=2025", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result dto.AttendanceReportDTO
	decode(t, w, &result)
	require.Len(t, result.Periods, 1, "only the coached team is reported")

	w = f.env.request(t, http.MethodGet, fmt.Sprintf("/api/reports/attendance?year=2025&team_id=%d", f.other.ID), nil, cookies)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = f.env.request(t, http.MethodGet, "/api/reports/attendance?year=2025&team_id=9999", nil, cookies)
	require.Equal(t, http.StatusForbidden, w.Code, "an unknown team looks like any other foreign team")

	w = f.env.request(t, http.MethodGet, "/api/reports/attendance?year=2025", nil, f.env.login(t, "paula@club.test"))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = f.env.request(t, http.MethodGet, "/api/reports/attendance?year=2025&team_id=9999", nil, f.env.login(t, "manager@club.test"))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandler_Validation(t *testing.T) {
	f := setupReportFixture(t)
	cookies := f.env.login(t, "manager@club.test")

	for _, query := range []string{"", "year=1999", "year=2025&month=13", "year=2025&month=0", "year=2025&format=csv"} {
		w := f.env.request(t, http.MethodGet, "/api/reports/attendance?"+query, nil, cookies)
		require.Equal(t, http.StatusBadRequest, w.Code, query)
	}

	w := f.env.request(t, http.MethodGet, "/api/reports/attendance?year=1999&format=csv", nil, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	require.Contains(t, env.Error, "Unsupported format", "the format is checked before anything else")
}

func TestReportHandler_Downloads(t *testing.T) {
	f := setupReportFixture(t)
	cookies := f.env.login(t, "manager@club.test")

	w := f.env.request(t, http.MethodGet, "/api/reports/attendance?year=2025&month=3&format=xlsx", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, report.ContentTypeXLSX, w.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="attendance-2025-03.xlsx"`, w.Header().Get("Content-Disposition"))

	workbook, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer workbook.Close()
	require.Contains(t, workbook.GetSheetList(), report.SummarySheet)
	require.Contains(t, workbook.GetSheetList(), "2025-03")

	w = f.env.request(t, http.MethodGet, "/api/reports/attendance?year=2025&format=pdf", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, report.ContentTypePDF, w.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="attendance-2025.pdf"`, w.Header().Get("Content-Disposition"))
	require.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}
