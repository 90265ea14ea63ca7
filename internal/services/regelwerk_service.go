package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/repository"
	"github.com/yukikurage/club-backoffice/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrRegelwerkNotFound  = errors.New("regelwerk not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrCoachNotOnTeam     = errors.New("user does not coach this team")
	ErrTitleRequired      = errors.New("title is required")
)

// RegelwerkInput holds the writable document fields. Nil pointers are left
// unchanged on update.
type RegelwerkInput struct {
	Title       *string
	Description *string
	Content     *string
}

// RegelwerkView is a document with its rendered content and the assignments
// visible to the caller.
type RegelwerkView struct {
	Regelwerk   models.Regelwerk
	ContentHTML string
	Assignments []models.RegelwerkAssignment
}

// RegelwerkService handles rule documents and their assignment to coaches.
type RegelwerkService struct {
	regelwerkRepo repository.RegelwerkRepository
	teamRepo      repository.TeamRepository
	now           func() time.Time
}

// NewRegelwerkService creates a new RegelwerkService.
func NewRegelwerkService(regelwerkRepo repository.RegelwerkRepository, teamRepo repository.TeamRepository) *RegelwerkService {
	return &RegelwerkService{
		regelwerkRepo: regelwerkRepo,
		teamRepo:      teamRepo,
		now:           time.Now,
	}
}

// ListRegelwerke returns every document.
func (s *RegelwerkService) ListRegelwerke() ([]models.Regelwerk, error) {
	regelwerke, err := s.regelwerkRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list regelwerke: %w", err)
	}
	return regelwerke, nil
}

// ListAssigned returns a coach's assignments with their documents.
func (s *RegelwerkService) ListAssigned(actor Actor) ([]models.RegelwerkAssignment, error) {
	assignments, err := s.regelwerkRepo.ListAssignmentsForCoach(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// GetRegelwerk returns a document with rendered HTML. Coaches only see
// documents assigned to them and only their own assignments.
func (s *RegelwerkService) GetRegelwerk(actor Actor, id uint64) (*RegelwerkView, error) {
	if actor.Role.CanManage() {
		regelwerk, err := s.find(id, "Assignments.Coach", "Assignments.Team")
		if err != nil {
			return nil, err
		}
		assignments := regelwerk.Assignments
		regelwerk.Assignments = nil
		return s.view(regelwerk, assignments)
	}

	regelwerk, err := s.find(id)
	if err != nil {
		return nil, err
	}
	all, err := s.regelwerkRepo.ListAssignmentsForCoach(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	mine := []models.RegelwerkAssignment{}
	for _, a := range all {
		if a.RegelwerkID == regelwerk.ID {
			mine = append(mine, a)
		}
	}
	if len(mine) == 0 {
		return nil, ErrRegelwerkNotFound
	}
	return s.view(regelwerk, mine)
}

// CreateRegelwerk stores a new document at version 1.
func (s *RegelwerkService) CreateRegelwerk(actor Actor, input RegelwerkInput) (*models.Regelwerk, error) {
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return nil, ErrTitleRequired
	}

	regelwerk := &models.Regelwerk{
		Title:       strings.TrimSpace(*input.Title),
		Version:     1,
		CreatedByID: actor.UserID,
	}
	if input.Description != nil {
		regelwerk.Description = *input.Description
	}
	if input.Content != nil {
		regelwerk.Content = *input.Content
	}

	if err := s.regelwerkRepo.Create(regelwerk); err != nil {
		return nil, fmt.Errorf("failed to create regelwerk: %w", err)
	}
	return regelwerk, nil
}

// UpdateRegelwerk saves changes. New content starts a new version that every
// assigned coach has to read again.
func (s *RegelwerkService) UpdateRegelwerk(id uint64, input RegelwerkInput) (*models.Regelwerk, error) {
	regelwerk, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		regelwerk.Title = title
	}
	if input.Description != nil {
		regelwerk.Description = *input.Description
	}

	newVersion := false
	if input.Content != nil && *input.Content != regelwerk.Content {
		regelwerk.Content = *input.Content
		regelwerk.Version++
		newVersion = true
	}

	if err := s.regelwerkRepo.Update(regelwerk, newVersion); err != nil {
		return nil, fmt.Errorf("failed to update regelwerk: %w", err)
	}
	return regelwerk, nil
}

// DeleteRegelwerk removes a document and its assignments.
func (s *RegelwerkService) DeleteRegelwerk(id uint64) error {
	if _, err := s.find(id); err != nil {
		return err
	}
	if err := s.regelwerkRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete regelwerk: %w", err)
	}
	return nil
}

// Assign hands a document to a coach for one of their teams. Assigning the
// same pair twice returns the existing assignment with created=false.
func (s *RegelwerkService) Assign(regelwerkID, coachUserID, teamID uint64) (*models.RegelwerkAssignment, bool, error) {
	if _, err := s.find(regelwerkID); err != nil {
		return nil, false, err
	}

	isCoach, err := s.teamRepo.IsCoach(teamID, coachUserID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to verify coach: %w", err)
	}
	if !isCoach {
		return nil, false, ErrCoachNotOnTeam
	}

	assignment := &models.RegelwerkAssignment{
		RegelwerkID: regelwerkID,
		CoachUserID: coachUserID,
		TeamID:      teamID,
		AssignedAt:  s.now(),
	}
	created, err := s.regelwerkRepo.AddAssignment(assignment)
	if err != nil {
		return nil, false, fmt.Errorf("failed to assign regelwerk: %w", err)
	}
	return assignment, created, nil
}

// Unassign removes one assignment of a document.
func (s *RegelwerkService) Unassign(regelwerkID, assignmentID uint64) error {
	rows, err := s.regelwerkRepo.DeleteAssignment(regelwerkID, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if rows == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

// MarkRead records that the coach has read the current version.
func (s *RegelwerkService) MarkRead(actor Actor, regelwerkID uint64) error {
	rows, err := s.regelwerkRepo.MarkRead(regelwerkID, actor.UserID, s.now())
	if err != nil {
		return fmt.Errorf("failed to mark regelwerk read: %w", err)
	}
	if rows == 0 {
		return ErrRegelwerkNotFound
	}
	return nil
}

func (s *RegelwerkService) view(regelwerk *models.Regelwerk, assignments []models.RegelwerkAssignment) (*RegelwerkView, error) {
	html, err := utils.RenderMarkdown(regelwerk.Content)
	if err != nil {
		return nil, err
	}
	if assignments == nil {
		assignments = []models.RegelwerkAssignment{}
	}
	return &RegelwerkView{
		Regelwerk:   *regelwerk,
		ContentHTML: html,
		Assignments: assignments,
	}, nil
}

func (s *RegelwerkService) find(id uint64, preload ...string) (*models.Regelwerk, error) {
	regelwerk, err := s.regelwerkRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegelwerkNotFound
		}
		return nil, fmt.Errorf("failed to find regelwerk: %w", err)
	}
	return regelwerk, nil
}
