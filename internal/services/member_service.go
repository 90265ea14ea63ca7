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
	ErrMemberNotFound = errors.New("member not found")
	ErrTeamNotFound   = errors.New("team not found")
)

// MemberService handles the member roster.
type MemberService struct {
	memberRepo repository.MemberRepository
	teamRepo   repository.TeamRepository
	access     *AccessService
}

// NewMemberService creates a new MemberService.
func NewMemberService(memberRepo repository.MemberRepository, teamRepo repository.TeamRepository, access *AccessService) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		teamRepo:   teamRepo,
		access:     access,
	}
}

// MemberInput holds the writable member fields. Nil pointers are left unchanged
// on update.
type MemberInput struct {
	Name        *string
	BirthDate   *time.Time
	ClearBirth  bool
	TeamID      *uint64
	ClearTeam   bool
	ParentName  *string
	ParentEmail *string
	ParentPhone *string
}

// ListMembers returns the members the actor may see.
func (s *MemberService) ListMembers(actor Actor, teamID *uint64, search string, params utils.PaginationParams) ([]models.Member, int64, error) {
	scope, err := s.access.MemberScope(actor)
	if err != nil {
		return nil, 0, err
	}

	members, total, err := s.memberRepo.List(repository.MemberFilter{
		Scope:      scope,
		TeamID:     teamID,
		Search:     strings.TrimSpace(search),
		Pagination: params,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	return members, total, nil
}

// GetMember returns a member if the actor may see it.
func (s *MemberService) GetMember(actor Actor, id uint64) (*models.Member, error) {
	member, err := s.findMember(id, "Team")
	if err != nil {
		return nil, err
	}

	ok, err := s.access.CanSeeMember(actor, member)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// CreateMember adds a member to the roster.
func (s *MemberService) CreateMember(input MemberInput) (*models.Member, error) {
	if input.Name == nil {
		return nil, ErrNameRequired
	}

	member := &models.Member{}
	if err := s.apply(member, input); err != nil {
		return nil, err
	}

	if err := s.memberRepo.Create(member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return s.findMember(member.ID, "Team")
}

// UpdateMember changes a member's fields.
func (s *MemberService) UpdateMember(id uint64, input MemberInput) (*models.Member, error) {
	member, err := s.findMember(id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(member, input); err != nil {
		return nil, err
	}

	if err := s.memberRepo.Update(member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return s.findMember(member.ID, "Team")
}

// DeleteMember removes a member with its attendance and parent links.
func (s *MemberService) DeleteMember(id uint64) error {
	if _, err := s.findMember(id); err != nil {
		return err
	}
	if err := s.memberRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

func (s *MemberService) apply(member *models.Member, input MemberInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return ErrNameRequired
		}
		member.Name = name
	}

	if input.ClearBirth {
		member.BirthDate = nil
	} else if input.BirthDate != nil {
		member.BirthDate = input.BirthDate
	}

	if input.ClearTeam {
		member.TeamID = nil
	} else if input.TeamID != nil {
		if _, err := s.teamRepo.FindByID(*input.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to find team: %w", err)
		}
		member.TeamID = input.TeamID
	}
	member.Team = nil

	if input.ParentName != nil {
		member.ParentName = strings.TrimSpace(*input.ParentName)
	}
	if input.ParentEmail != nil {
		member.ParentEmail = normalizeEmail(*input.ParentEmail)
	}
	if input.ParentPhone != nil {
		member.ParentPhone = strings.TrimSpace(*input.ParentPhone)
	}
	return nil
}

func (s *MemberService) findMember(id uint64, preload ...string) (*models.Member, error) {
	member, err := s.memberRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return member, nil
}
