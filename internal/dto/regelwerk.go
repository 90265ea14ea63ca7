package dto

import (
	"time"

	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/services"
)

// RegelwerkDTO represents a rule document in API responses
type RegelwerkDTO struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	Version     int       `json:"version"`
	CreatedByID uint64    `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RegelwerkAssignmentDTO represents an assignment of a document to a coach
type RegelwerkAssignmentDTO struct {
	ID          uint64          `json:"id"`
	RegelwerkID uint64          `json:"regelwerk_id"`
	CoachUserID uint64          `json:"coach_user_id"`
	Coach       *UserSummaryDTO `json:"coach,omitempty"`
	TeamID      uint64          `json:"team_id"`
	TeamName    string          `json:"team_name,omitempty"`
	AssignedAt  time.Time       `json:"assigned_at"`
	ReadAt      *time.Time      `json:"read_at"`
	IsRead      bool            `json:"is_read"`
}

// RegelwerkDetailDTO is a document with rendered content and assignments
type RegelwerkDetailDTO struct {
	RegelwerkDTO
	ContentHTML string                   `json:"content_html"`
	Assignments []RegelwerkAssignmentDTO `json:"assignments"`
}

// AssignedRegelwerkDTO is a coach's view of one assignment
type AssignedRegelwerkDTO struct {
	RegelwerkAssignmentDTO
	Regelwerk RegelwerkDTO `json:"regelwerk"`
}

// ToRegelwerkDTO converts a Regelwerk model, leaving out the content
func ToRegelwerkDTO(regelwerk models.Regelwerk) RegelwerkDTO {
	return RegelwerkDTO{
		ID:          regelwerk.ID,
		Title:       regelwerk.Title,
		Description: regelwerk.Description,
		Version:     regelwerk.Version,
		CreatedByID: regelwerk.CreatedByID,
		CreatedAt:   regelwerk.CreatedAt,
		UpdatedAt:   regelwerk.UpdatedAt,
	}
}

// ToRegelwerkDTOs converts a slice of documents
func ToRegelwerkDTOs(regelwerke []models.Regelwerk) []RegelwerkDTO {
	result := make([]RegelwerkDTO, len(regelwerke))
	for i, r := range regelwerke {
		result[i] = ToRegelwerkDTO(r)
	}
	return result
}

// ToRegelwerkAssignmentDTO converts an assignment
func ToRegelwerkAssignmentDTO(a models.RegelwerkAssignment) RegelwerkAssignmentDTO {
	dto := RegelwerkAssignmentDTO{
		ID:          a.ID,
		RegelwerkID: a.RegelwerkID,
		CoachUserID: a.CoachUserID,
		TeamID:      a.TeamID,
		TeamName:    a.Team.Name,
		AssignedAt:  a.AssignedAt,
		ReadAt:      a.ReadAt,
		IsRead:      a.ReadAt != nil,
	}

	// Include coach if preloaded
	if a.Coach.ID != 0 {
		coach := ToUserSummaryDTO(a.Coach)
		dto.Coach = &coach
	}
	return dto
}

// ToRegelwerkDetailDTO converts a rendered document view
func ToRegelwerkDetailDTO(view services.RegelwerkView) RegelwerkDetailDTO {
	detail := RegelwerkDetailDTO{
		RegelwerkDTO: ToRegelwerkDTO(view.Regelwerk),
		ContentHTML:  view.ContentHTML,
		Assignments:  make([]RegelwerkAssignmentDTO, len(view.Assignments)),
	}
	detail.Content = view.Regelwerk.Content
	for i, a := range view.Assignments {
		detail.Assignments[i] = ToRegelwerkAssignmentDTO(a)
	}
	return detail
}

// ToAssignedRegelwerkDTOs converts a coach's assignments
func ToAssignedRegelwerkDTOs(assignments []models.RegelwerkAssignment) []AssignedRegelwerkDTO {
	result := make([]AssignedRegelwerkDTO, len(assignments))
	for i, a := range assignments {
		result[i] = AssignedRegelwerkDTO{
			RegelwerkAssignmentDTO: ToRegelwerkAssignmentDTO(a),
			Regelwerk:              ToRegelwerkDTO(a.Regelwerk),
		}
	}
	return result
}
