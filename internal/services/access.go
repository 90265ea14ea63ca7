package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/repository"
)

var (
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrInvalidInput = errors.New("invalid input")
)

// Actor is the authenticated user a service call runs on behalf of.
type Actor struct {
	UserID   uint64
	Role     models.Role
	MemberID *uint64
	Email    string
}

// ActorFromUser builds an Actor from a loaded user row.
func ActorFromUser(user *models.User) Actor {
	return Actor{
		UserID:   user.ID,
		Role:     user.Role,
		MemberID: user.MemberID,
		Email:    user.Email,
	}
}

// AccessService resolves which teams and members an actor may see or act on.
type AccessService struct {
	teamRepo   repository.TeamRepository
	memberRepo repository.MemberRepository
	children   *ParentChildService
}

// NewAccessService creates a new AccessService.
func NewAccessService(teamRepo repository.TeamRepository, memberRepo repository.MemberRepository, children *ParentChildService) *AccessService {
	return &AccessService{
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
		children:   children,
	}
}

// TeamScope returns all=true for managers, otherwise the visible team IDs.
// The returned slice is never nil when all is false.
func (s *AccessService) TeamScope(actor Actor) (bool, []uint64, error) {
	switch actor.Role {
	case models.RoleAdmin, models.RoleManager:
		return true, nil, nil
	case models.RoleCoach:
		ids, err := s.teamRepo.ListCoachedTeamIDs(actor.UserID)
		if err != nil {
			return false, nil, fmt.Errorf("failed to load coached teams: %w", err)
		}
		return false, nonNil(ids), nil
	case models.RoleParent:
		childIDs, err := s.children.ChildMemberIDs(actor.UserID)
		if err != nil {
			return false, nil, err
		}
		return s.teamsOfMembers(childIDs)
	case models.RoleMember:
		if actor.MemberID == nil {
			return false, []uint64{}, nil
		}
		return s.teamsOfMembers([]uint64{*actor.MemberID})
	}
	return false, []uint64{}, nil
}

// MemberScope returns the members an actor may read.
func (s *AccessService) MemberScope(actor Actor) (repository.MemberScope, error) {
	switch actor.Role {
	case models.RoleAdmin, models.RoleManager:
		return repository.MemberScope{All: true}, nil
	case models.RoleCoach:
		_, teamIDs, err := s.TeamScope(actor)
		if err != nil {
			return repository.MemberScope{}, err
		}
		return repository.MemberScope{TeamIDs: teamIDs}, nil
	case models.RoleParent:
		childIDs, err := s.children.ChildMemberIDs(actor.UserID)
		if err != nil {
			return repository.MemberScope{}, err
		}
		return repository.MemberScope{MemberIDs: childIDs}, nil
	case models.RoleMember:
		if actor.MemberID == nil {
			return repository.MemberScope{}, nil
		}
		return repository.MemberScope{MemberIDs: []uint64{*actor.MemberID}}, nil
	}
	return repository.MemberScope{}, nil
}

// CanSeeTeam reports whether teamID is inside the actor's team scope.
func (s *AccessService) CanSeeTeam(actor Actor, teamID uint64) (bool, error) {
	all, teamIDs, err := s.TeamScope(actor)
	if err != nil {
		return false, err
	}
	return all || containsID(teamIDs, teamID), nil
}

// CanSeeMember reports whether the member is inside the actor's member scope.
func (s *AccessService) CanSeeMember(actor Actor, member *models.Member) (bool, error) {
	scope, err := s.MemberScope(actor)
	if err != nil {
		return false, err
	}
	return memberInScope(scope, member), nil
}

// CanManageTeam reports whether the actor may change a team's schedule.
func (s *AccessService) CanManageTeam(actor Actor, teamID uint64) (bool, error) {
	if actor.Role.CanManage() {
		return true, nil
	}
	if actor.Role != models.RoleCoach {
		return false, nil
	}
	ok, err := s.teamRepo.IsCoach(teamID, actor.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to verify coach: %w", err)
	}
	return ok, nil
}

// CanRespondFor reports whether the actor may answer attendance for member on
// a date belonging to teamID (nil for club-wide events).
func (s *AccessService) CanRespondFor(actor Actor, member *models.Member, teamID *uint64) (bool, error) {
	switch actor.Role {
	case models.RoleAdmin, models.RoleManager:
		return true, nil
	case models.RoleCoach:
		if teamID != nil {
			return s.CanManageTeam(actor, *teamID)
		}
		if member.TeamID == nil {
			return false, nil
		}
		return s.CanManageTeam(actor, *member.TeamID)
	case models.RoleParent:
		childIDs, err := s.children.ChildMemberIDs(actor.UserID)
		if err != nil {
			return false, err
		}
		return containsID(childIDs, member.ID), nil
	case models.RoleMember:
		return actor.MemberID != nil && *actor.MemberID == member.ID, nil
	}
	return false, nil
}

func (s *AccessService) teamsOfMembers(memberIDs []uint64) (bool, []uint64, error) {
	members, err := s.memberRepo.FindByIDs(memberIDs)
	if err != nil {
		return false, nil, fmt.Errorf("failed to load members: %w", err)
	}

	teamIDs := []uint64{}
	for _, m := range members {
		if m.TeamID != nil && !containsID(teamIDs, *m.TeamID) {
			teamIDs = append(teamIDs, *m.TeamID)
		}
	}
	return false, teamIDs, nil
}

func memberInScope(scope repository.MemberScope, member *models.Member) bool {
	if scope.All {
		return true
	}
	if member.TeamID != nil && containsID(scope.TeamIDs, *member.TeamID) {
		return true
	}
	return containsID(scope.MemberIDs, member.ID)
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func nonNil(ids []uint64) []uint64 {
	if ids == nil {
		return []uint64{}
	}
	return ids
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

// ScopedMemberIDs lists the members a non-managing actor answers for. Coaches
// get the members of their teams.
func (s *AccessService) ScopedMemberIDs(actor Actor) ([]uint64, error) {
	scope, err := s.MemberScope(actor)
	if err != nil {
		return nil, err
	}
	if scope.All {
		return nil, nil
	}

	ids := append([]uint64{}, scope.MemberIDs...)
	for _, teamID := range scope.TeamIDs {
		teamID := teamID
		memberIDs, err := s.memberRepo.ListIDsByTeam(&teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to list team members: %w", err)
		}
		ids = append(ids, memberIDs...)
	}
	return uniqueUint64(ids), nil
}
