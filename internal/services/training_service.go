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
	ErrTrainingNotFound   = errors.New("training not found")
	ErrAttendanceNotFound = errors.New("attendance not found")
)

// ScheduleInput holds the writable fields shared by trainings and events.
// Nil pointers are left unchanged on update.
type ScheduleInput struct {
	TeamID      *uint64
	Title       *string
	Description *string
	Date        *time.Time
	StartTime   *string
	EndTime     *string
	Location    *string
	Notes       *string
}

// AttendanceInput is one attendance answer.
type AttendanceInput struct {
	Status models.AttendanceStatus
	Reason string
}

// TrainingService handles training sessions and their attendance.
type TrainingService struct {
	trainingRepo repository.TrainingRepository
	memberRepo   repository.MemberRepository
	teamRepo     repository.TeamRepository
	access       *AccessService
	now          func() time.Time
}

// NewTrainingService creates a new TrainingService.
func NewTrainingService(trainingRepo repository.TrainingRepository, memberRepo repository.MemberRepository, teamRepo repository.TeamRepository, access *AccessService) *TrainingService {
	return &TrainingService{
		trainingRepo: trainingRepo,
		memberRepo:   memberRepo,
		teamRepo:     teamRepo,
		access:       access,
		now:          time.Now,
	}
}

// ListTrainings returns trainings of the teams the actor may see.
func (s *TrainingService) ListTrainings(actor Actor, teamID *uint64, from, to *time.Time) ([]models.Training, error) {
	all, teamIDs, err := s.access.TeamScope(actor)
	if err != nil {
		return nil, err
	}

	filter := repository.ScheduleFilter{AllTeams: all, TeamIDs: teamIDs, From: from, To: to}
	if teamID != nil {
		if !all && !containsID(teamIDs, *teamID) {
			return []models.Training{}, nil
		}
		filter.AllTeams = false
		filter.TeamIDs = []uint64{*teamID}
	}

	trainings, err := s.trainingRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list trainings: %w", err)
	}
	return trainings, nil
}

// GetTraining returns a training with the attendance rows the actor may see.
func (s *TrainingService) GetTraining(actor Actor, id uint64) (*models.Training, error) {
	training, err := s.findVisible(actor, id)
	if err != nil {
		return nil, err
	}

	memberIDs, err := s.visibleMemberIDs(actor, training.TeamID)
	if err != nil {
		return nil, err
	}
	rows, err := s.trainingRepo.ListAttendance(training.ID, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	training.Attendance = rows
	return training, nil
}

// CreateTraining schedules a training and opens a pending attendance row for
// every current member of the team.
func (s *TrainingService) CreateTraining(actor Actor, input ScheduleInput) (*models.Training, error) {
	if input.TeamID == nil || input.Date == nil || input.StartTime == nil || input.EndTime == nil {
		return nil, fmt.Errorf("%w: team_id, date, start_time and end_time are required", ErrInvalidInput)
	}
	if _, err := s.teamRepo.FindByID(*input.TeamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	if err := s.requireTeamManager(actor, *input.TeamID); err != nil {
		return nil, err
	}

	training := &models.Training{TeamID: *input.TeamID, CreatedByID: actor.UserID}
	if err := applyTraining(training, input); err != nil {
		return nil, err
	}

	memberIDs, err := s.memberRepo.ListIDsByTeam(input.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	if err := s.trainingRepo.Create(training, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to create training: %w", err)
	}

	return s.GetTraining(actor, training.ID)
}

// UpdateTraining changes the time, place or notes of a training.
func (s *TrainingService) UpdateTraining(actor Actor, id uint64, input ScheduleInput) (*models.Training, error) {
	training, err := s.findTraining(id)
	if err != nil {
		return nil, err
	}
	if err := s.requireTeamManager(actor, training.TeamID); err != nil {
		return nil, err
	}

	if err := applyTraining(training, input); err != nil {
		return nil, err
	}
	if err := s.trainingRepo.Update(training); err != nil {
		return nil, fmt.Errorf("failed to update training: %w", err)
	}
	return s.GetTraining(actor, training.ID)
}

// DeleteTraining removes a training and its attendance.
func (s *TrainingService) DeleteTraining(actor Actor, id uint64) error {
	training, err := s.findTraining(id)
	if err != nil {
		return err
	}
	if err := s.requireTeamManager(actor, training.TeamID); err != nil {
		return err
	}
	if err := s.trainingRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete training: %w", err)
	}
	return nil
}

// RespondAttendance records the answer of one member.
func (s *TrainingService) RespondAttendance(actor Actor, trainingID, memberID uint64, input AttendanceInput) (*models.TrainingAttendance, error) {
	training, err := s.findVisible(actor, trainingID)
	if err != nil {
		return nil, err
	}

	attendance, err := s.trainingRepo.FindAttendance(training.ID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to find attendance: %w", err)
	}

	teamID := training.TeamID
	ok, err := s.access.CanRespondFor(actor, &attendance.Member, &teamID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	if err := attendance.Respond(input.Status, input.Reason, actor.UserID, s.now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.trainingRepo.SaveAttendance(attendance); err != nil {
		return nil, fmt.Errorf("failed to save attendance: %w", err)
	}
	return attendance, nil
}

func (s *TrainingService) findVisible(actor Actor, id uint64) (*models.Training, error) {
	training, err := s.findTraining(id, "Team")
	if err != nil {
		return nil, err
	}
	ok, err := s.access.CanSeeTeam(actor, training.TeamID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTrainingNotFound
	}
	return training, nil
}

func (s *TrainingService) findTraining(id uint64, preload ...string) (*models.Training, error) {
	training, err := s.trainingRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, fmt.Errorf("failed to find training: %w", err)
	}
	return training, nil
}

func (s *TrainingService) requireTeamManager(actor Actor, teamID uint64) error {
	ok, err := s.access.CanManageTeam(actor, teamID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// visibleMemberIDs returns nil when the actor sees the whole team.
func (s *TrainingService) visibleMemberIDs(actor Actor, teamID uint64) ([]uint64, error) {
	ok, err := s.access.CanManageTeam(actor, teamID)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}
	return s.access.ScopedMemberIDs(actor)
}

func applyTraining(training *models.Training, input ScheduleInput) error {
	if input.Date != nil {
		training.Date = *input.Date
	}
	if input.StartTime != nil {
		training.StartTime = strings.TrimSpace(*input.StartTime)
	}
	if input.EndTime != nil {
		training.EndTime = strings.TrimSpace(*input.EndTime)
	}
	if input.Location != nil {
		training.Location = strings.TrimSpace(*input.Location)
	}
	if input.Notes != nil {
		training.Notes = *input.Notes
	}
	training.Team = models.Team{}

	if err := utils.ValidateTimeRange(training.StartTime, training.EndTime); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
