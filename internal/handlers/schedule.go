package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/services"
)

// scheduleRequest is shared by trainings and events. Absent fields stay unchanged.
type scheduleRequest struct {
	TeamID      *uint64 `json:"team_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Location    *string `json:"location"`
	Notes       *string `json:"notes"`
}

func (r scheduleRequest) toInput(c *gin.Context) (services.ScheduleInput, bool) {
	date, ok := parseDateField(c, r.Date)
	if !ok {
		return services.ScheduleInput{}, false
	}

	return services.ScheduleInput{
		TeamID:      r.TeamID,
		Title:       r.Title,
		Description: r.Description,
		Date:        date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Location:    r.Location,
		Notes:       r.Notes,
	}, true
}

type attendanceRequest struct {
	Status models.AttendanceStatus `json:"status" binding:"required"`
	Reason string                  `json:"reason"`
}

func (r attendanceRequest) toInput() services.AttendanceInput {
	return services.AttendanceInput{Status: r.Status, Reason: r.Reason}
}
