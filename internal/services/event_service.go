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

var ErrEventNotFound = errors.New("event not found")

// EventService handles club and team events and their attendance.
type EventService struct {
	eventRepo  repository.EventRepository
	memberRepo repository.MemberRepository
	teamRepo   repository.TeamRepository
	access     *AccessService
	now        func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repository.EventRepository, memberRepo repository.MemberRepository, teamRepo repository.TeamRepository, access *AccessService) *EventService {
	return &EventService{
		eventRepo:  eventRepo,
		memberRepo: memberRepo,
		teamRepo:   teamRepo,
		access:     access,
		now:        time.Now,
	}
}

// ListEvents returns club-wide events and events of the actor's teams.
func (s *EventService) ListEvents(actor Actor, teamID *uint64, from, to *time.Time) ([]models.Event, error) {
	all, teamIDs, err := s.access.TeamScope(actor)
	if err != nil {
		return nil, err
	}

	filter := repository.ScheduleFilter{
		AllTeams:        all,
		TeamIDs:         teamIDs,
		IncludeClubWide: true,
		From:            from,
		To:              to,
	}
	if teamID != nil {
		if !all && !containsID(teamIDs, *teamID) {
			return []models.Event{}, nil
		}
		filter.AllTeams = false
		filter.TeamIDs = []uint64{*teamID}
		filter.IncludeClubWide = false
	}

	events, err := s.eventRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetEvent returns an event with the attendance rows the actor may see.
func (s *EventService) GetEvent(actor Actor, id uint64) (*models.Event, error) {
	event, err := s.findVisible(actor, id)
	if err != nil {
		return nil, err
	}

	memberIDs, err := s.visibleMemberIDs(actor, event.TeamID)
	if err != nil {
		return nil, err
	}
	rows, err := s.eventRepo.ListAttendance(event.ID, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	event.Attendance = rows
	return event, nil
}

// CreateEvent schedules an event. A team event opens attendance for the team's
// members, a club-wide event for every member.
func (s *EventService) CreateEvent(actor Actor, input ScheduleInput) (*models.Event, error) {
	if input.Title == nil || input.Date == nil || input.StartTime == nil || input.EndTime == nil {
		return nil, fmt.Errorf("%w: title, date, start_time and end_time are required", ErrInvalidInput)
	}
	if input.TeamID != nil {
		if _, err := s.teamRepo.FindByID(*input.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to find team: %w", err)
		}
	}
	if err := s.requireManager(actor, input.TeamID); err != nil {
		return nil, err
	}

	event := &models.Event{TeamID: input.TeamID, CreatedByID: actor.UserID}
	if err := applyEvent(event, input); err != nil {
		return nil, err
	}

	memberIDs, err := s.memberRepo.ListIDsByTeam(input.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if err := s.eventRepo.Create(event, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return s.GetEvent(actor, event.ID)
}

// UpdateEvent changes an event's details. The team is fixed at creation.
func (s *EventService) UpdateEvent(actor Actor, id uint64, input ScheduleInput) (*models.Event, error) {
	event, err := s.findEvent(id)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(actor, event.TeamID); err != nil {
		return nil, err
	}

	if err := applyEvent(event, input); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return s.GetEvent(actor, event.ID)
}

// DeleteEvent removes an event and its attendance.
func (s *EventService) DeleteEvent(actor Actor, id uint64) error {
	event, err := s.findEvent(id)
	if err != nil {
		return err
	}
	if err := s.requireManager(actor, event.TeamID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// RespondAttendance records the answer of one member.
func (s *EventService) RespondAttendance(actor Actor, eventID, memberID uint64, input AttendanceInput) (*models.EventAttendance, error) {
	event, err := s.findVisible(actor, eventID)
	if err != nil {
		return nil, err
	}

	attendance, err := s.eventRepo.FindAttendance(event.ID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to find attendance: %w", err)
	}

	ok, err := s.access.CanRespondFor(actor, &attendance.Member, event.TeamID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	if err := attendance.Respond(input.Status, input.Reason, actor.UserID, s.now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.eventRepo.SaveAttendance(attendance); err != nil {
		return nil, fmt.Errorf("failed to save attendance: %w", err)
	}
	return attendance, nil
}

func (s *EventService) findVisible(actor Actor, id uint64) (*models.Event, error) {
	event, err := s.findEvent(id, "Team")
	if err != nil {
		return nil, err
	}
	if event.TeamID == nil {
		return event, nil
	}

	ok, err := s.access.CanSeeTeam(actor, *event.TeamID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func (s *EventService) findEvent(id uint64, preload ...string) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// requireManager lets managers change any event and coaches only their
// teams' events.
func (s *EventService) requireManager(actor Actor, teamID *uint64) error {
	if actor.Role.CanManage() {
		return nil
	}
	if teamID == nil {
		return ErrForbidden
	}
	ok, err := s.access.CanManageTeam(actor, *teamID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *EventService) visibleMemberIDs(actor Actor, teamID *uint64) ([]uint64, error) {
	if actor.Role.CanManage() {
		return nil, nil
	}
	if teamID != nil {
		ok, err := s.access.CanManageTeam(actor, *teamID)
		if err != nil {
			return nil, err
		}
		if ok {
			return nil, nil
		}
	}
	return s.access.ScopedMemberIDs(actor)
}

func applyEvent(event *models.Event, input ScheduleInput) error {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		event.Title = title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.StartTime != nil {
		event.StartTime = strings.TrimSpace(*input.StartTime)
	}
	if input.EndTime != nil {
		event.EndTime = strings.TrimSpace(*input.EndTime)
	}
	if input.Location != nil {
		event.Location = strings.TrimSpace(*input.Location)
	}
	event.Team = nil

	if err := utils.ValidateTimeRange(event.StartTime, event.EndTime); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
