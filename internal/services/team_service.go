package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTeamNameTaken        = errors.New("team name already exists")
	ErrInvalidCoach         = errors.New("user is not a coach")
	ErrMultiplePrimaryCoach = errors.New("only one coach can be primary")
)

// TeamService handles teams and their coaches.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
	access   *AccessService
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository, access *AccessService) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		access:   access,
	}
}

// TeamInput holds the writable team fields.
type TeamInput struct {
	Name  *string
	Level *string
}

// CoachInput assigns one coach to a team.
type CoachInput struct {
	UserID    uint64
	IsPrimary bool
}

// ListTeams returns the teams the actor may see.
func (s *TeamService) ListTeams(actor Actor) ([]models.Team, error) {
	all, teamIDs, err := s.access.TeamScope(actor)
	if err != nil {
		return nil, err
	}
	if all {
		teamIDs = nil
	}

	teams, err := s.teamRepo.List(teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// GetTeam returns a team with coaches and members if the actor may see it.
func (s *TeamService) GetTeam(actor Actor, id uint64) (*models.Team, error) {
	ok, err := s.access.CanSeeTeam(actor, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTeamNotFound
	}

	team, err := s.findTeam(id, "Coaches.User", "Members")
	if err != nil {
		return nil, err
	}

	sortCoaches(team.Coaches)
	sort.SliceStable(team.Members, func(i, j int) bool {
		return team.Members[i].Name < team.Members[j].Name
	})
	return team, nil
}

// CreateTeam creates a team.
func (s *TeamService) CreateTeam(input TeamInput) (*models.Team, error) {
	if input.Name == nil {
		return nil, ErrNameRequired
	}

	team := &models.Team{}
	if err := s.apply(team, input); err != nil {
		return nil, err
	}
	if err := s.teamRepo.Create(team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

// UpdateTeam renames a team or changes its level.
func (s *TeamService) UpdateTeam(id uint64, input TeamInput) (*models.Team, error) {
	team, err := s.findTeam(id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(team, input); err != nil {
		return nil, err
	}
	if err := s.teamRepo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return team, nil
}

// DeleteTeam removes a team with its schedule. Members stay on the roster
// without a team.
func (s *TeamService) DeleteTeam(id uint64) error {
	if _, err := s.findTeam(id); err != nil {
		return err
	}
	if err := s.teamRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// SetCoaches replaces the coaches of a team. When no coach is flagged primary
// the first one becomes primary. The primary coach's name is copied onto the
// team.
func (s *TeamService) SetCoaches(teamID uint64, inputs []CoachInput) (*models.Team, error) {
	if _, err := s.findTeam(teamID); err != nil {
		return nil, err
	}

	coaches := make([]models.TeamCoach, 0, len(inputs))
	seen := make(map[uint64]struct{}, len(inputs))
	primaryIndex := -1
	for _, in := range inputs {
		if _, dup := seen[in.UserID]; dup {
			continue
		}
		seen[in.UserID] = struct{}{}

		if in.IsPrimary {
			if primaryIndex >= 0 {
				return nil, ErrMultiplePrimaryCoach
			}
			primaryIndex = len(coaches)
		}
		coaches = append(coaches, models.TeamCoach{UserID: in.UserID, IsPrimary: in.IsPrimary})
	}

	ids := make([]uint64, len(coaches))
	for i, c := range coaches {
		ids[i] = c.UserID
	}
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load coaches: %w", err)
	}
	byID := make(map[uint64]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: user %d not found", ErrInvalidCoach, id)
		}
		if u.Role != models.RoleCoach {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCoach, u.Name)
		}
	}

	coachName := ""
	if len(coaches) > 0 {
		if primaryIndex < 0 {
			primaryIndex = 0
			coaches[0].IsPrimary = true
		}
		coachName = byID[coaches[primaryIndex].UserID].Name
	}

	// Creation order decides who is promoted when the primary coach is removed.
	now := time.Now()
	for i := range coaches {
		coaches[i].CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
	}

	if err := s.teamRepo.ReplaceCoaches(teamID, coaches, coachName); err != nil {
		return nil, fmt.Errorf("failed to set coaches: %w", err)
	}

	team, err := s.findTeam(teamID, "Coaches.User")
	if err != nil {
		return nil, err
	}
	sortCoaches(team.Coaches)
	return team, nil
}

func (s *TeamService) apply(team *models.Team, input TeamInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return ErrNameRequired
		}
		existing, err := s.teamRepo.FindByName(name)
		if err == nil && existing.ID != team.ID {
			return ErrTeamNameTaken
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check team name: %w", err)
		}
		team.Name = name
	}
	if input.Level != nil {
		team.Level = strings.TrimSpace(*input.Level)
	}
	return nil
}

func (s *TeamService) findTeam(id uint64, preload ...string) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// sortCoaches puts the primary coach first, then by assignment order.
func sortCoaches(coaches []models.TeamCoach) {
	sort.SliceStable(coaches, func(i, j int) bool {
		if coaches[i].IsPrimary != coaches[j].IsPrimary {
			return coaches[i].IsPrimary
		}
		return coaches[i].CreatedAt.Before(coaches[j].CreatedAt)
	})
}
