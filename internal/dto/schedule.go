package dto

import (
	"time"

	"github.com/yukikurage/club-backoffice/internal/models"
)

// AttendanceDTO represents one member's answer
type AttendanceDTO struct {
	MemberID      uint64                  `json:"member_id"`
	MemberName    string                  `json:"member_name,omitempty"`
	Status        models.AttendanceStatus `json:"status"`
	DeclineReason string                  `json:"decline_reason,omitempty"`
	RespondedByID *uint64                 `json:"responded_by_id"`
	RespondedAt   *time.Time              `json:"responded_at"`
}

// TrainingDTO represents a training in API responses
type TrainingDTO struct {
	ID          uint64          `json:"id"`
	TeamID      uint64          `json:"team_id"`
	TeamName    string          `json:"team_name,omitempty"`
	Date        string          `json:"date"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Location    string          `json:"location"`
	Notes       string          `json:"notes"`
	CreatedByID uint64          `json:"created_by_id"`
	Attendance  []AttendanceDTO `json:"attendance,omitempty"`
}

// EventDTO represents an event in API responses
type EventDTO struct {
	ID          uint64          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	TeamID      *uint64         `json:"team_id"`
	TeamName    string          `json:"team_name,omitempty"`
	ClubWide    bool            `json:"club_wide"`
	Date        string          `json:"date"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Location    string          `json:"location"`
	CreatedByID uint64          `json:"created_by_id"`
	Attendance  []AttendanceDTO `json:"attendance,omitempty"`
}

func toAttendanceDTO(memberID uint64, member models.Member, fields models.AttendanceFields) AttendanceDTO {
	return AttendanceDTO{
		MemberID:      memberID,
		MemberName:    member.Name,
		Status:        fields.Status,
		DeclineReason: fields.DeclineReason,
		RespondedByID: fields.RespondedByID,
		RespondedAt:   fields.RespondedAt,
	}
}

// ToTrainingAttendanceDTO converts a training attendance row
func ToTrainingAttendanceDTO(a models.TrainingAttendance) AttendanceDTO {
	return toAttendanceDTO(a.MemberID, a.Member, a.AttendanceFields)
}

// ToEventAttendanceDTO converts an event attendance row
func ToEventAttendanceDTO(a models.EventAttendance) AttendanceDTO {
	return toAttendanceDTO(a.MemberID, a.Member, a.AttendanceFields)
}

// ToTrainingDTO converts a Training model to TrainingDTO
func ToTrainingDTO(training models.Training) TrainingDTO {
	dto := TrainingDTO{
		ID:          training.ID,
		TeamID:      training.TeamID,
		TeamName:    training.Team.Name,
		Date:        formatDate(training.Date),
		StartTime:   training.StartTime,
		EndTime:     training.EndTime,
		Location:    training.Location,
		Notes:       training.Notes,
		CreatedByID: training.CreatedByID,
	}

	if training.Attendance != nil {
		dto.Attendance = make([]AttendanceDTO, len(training.Attendance))
		for i, a := range training.Attendance {
			dto.Attendance[i] = ToTrainingAttendanceDTO(a)
		}
	}
	return dto
}

// ToTrainingDTOs converts a slice of trainings
func ToTrainingDTOs(trainings []models.Training) []TrainingDTO {
	result := make([]TrainingDTO, len(trainings))
	for i, t := range trainings {
		result[i] = ToTrainingDTO(t)
	}
	return result
}

// ToEventDTO converts an Event model to EventDTO
func ToEventDTO(event models.Event) EventDTO {
	dto := EventDTO{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		TeamID:      event.TeamID,
		ClubWide:    event.TeamID == nil,
		Date:        formatDate(event.Date),
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		Location:    event.Location,
		CreatedByID: event.CreatedByID,
	}

	if event.Team != nil {
		dto.TeamName = event.Team.Name
	}

	if event.Attendance != nil {
		dto.Attendance = make([]AttendanceDTO, len(event.Attendance))
		for i, a := range event.Attendance {
			dto.Attendance[i] = ToEventAttendanceDTO(a)
		}
	}
	return dto
}

// ToEventDTOs converts a slice of events
func ToEventDTOs(events []models.Event) []EventDTO {
	result := make([]EventDTO, len(events))
	for i, e := range events {
		result[i] = ToEventDTO(e)
	}
	return result
}
