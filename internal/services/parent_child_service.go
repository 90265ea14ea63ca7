package services

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotParent    = errors.New("user does not have the parent role")
	ErrLinkExists   = errors.New("parent and child are already linked")
	ErrLinkNotFound = errors.New("link not found")
)

// ChildSource tells how a child was found for a parent.
type ChildSource string

const (
	ChildSourceLinked ChildSource = "linked"
	ChildSourceEmail  ChildSource = "email"
	ChildSourceBoth   ChildSource = "linked+email"
)

// Child is a member reachable from a parent account.
type Child struct {
	Member models.Member
	Source ChildSource
}

// OrphanReport lists reconciliation gaps between parents and members.
type OrphanReport struct {
	Unmatched  []models.Member
	Unlinked   []models.Member
	StaleLinks []models.ParentChild
}

// ParentChildService reconciles parent accounts with the members they
// are responsible for.
type ParentChildService struct {
	linkRepo   repository.ParentChildRepository
	userRepo   repository.UserRepository
	memberRepo repository.MemberRepository
}

// NewParentChildService creates a new ParentChildService.
func NewParentChildService(linkRepo repository.ParentChildRepository, userRepo repository.UserRepository, memberRepo repository.MemberRepository) *ParentChildService {
	return &ParentChildService{
		linkRepo:   linkRepo,
		userRepo:   userRepo,
		memberRepo: memberRepo,
	}
}

// ListChildren returns the union of explicitly linked members and members
// whose parent email matches the parent's account email.
func (s *ParentChildService) ListChildren(parentUserID uint64) ([]Child, error) {
	parent, err := s.findParent(parentUserID)
	if err != nil {
		return nil, err
	}

	linked, err := s.linkRepo.ListLinkedMembers(parent.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked members: %w", err)
	}
	byEmail, err := s.linkRepo.ListMembersByParentEmail(parent.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list members by email: %w", err)
	}

	index := make(map[uint64]int)
	children := make([]Child, 0, len(linked)+len(byEmail))
	for _, m := range linked {
		index[m.ID] = len(children)
		children = append(children, Child{Member: m, Source: ChildSourceLinked})
	}
	for _, m := range byEmail {
		if i, ok := index[m.ID]; ok {
			children[i].Source = ChildSourceBoth
			continue
		}
		index[m.ID] = len(children)
		children = append(children, Child{Member: m, Source: ChildSourceEmail})
	}

	sort.SliceStable(children, func(i, j int) bool {
		if children[i].Member.Name != children[j].Member.Name {
			return children[i].Member.Name < children[j].Member.Name
		}
		return children[i].Member.ID < children[j].Member.ID
	})

	return children, nil
}

// ListChildrenFor checks that actor may see parentUserID's children first.
func (s *ParentChildService) ListChildrenFor(actor Actor, parentUserID uint64) ([]Child, error) {
	if !actor.Role.CanManage() && actor.UserID != parentUserID {
		return nil, ErrForbidden
	}
	return s.ListChildren(parentUserID)
}

// ChildMemberIDs returns the IDs of every child of a parent. Users without the
// parent role have no children.
func (s *ParentChildService) ChildMemberIDs(parentUserID uint64) ([]uint64, error) {
	children, err := s.ListChildren(parentUserID)
	if err != nil {
		if errors.Is(err, ErrNotParent) || errors.Is(err, ErrUserNotFound) {
			return []uint64{}, nil
		}
		return nil, err
	}

	ids := make([]uint64, len(children))
	for i, c := range children {
		ids[i] = c.Member.ID
	}
	return ids, nil
}

// Link creates an explicit link between a parent and a member.
func (s *ParentChildService) Link(parentUserID, memberID uint64) (*models.ParentChild, error) {
	parent, err := s.findParent(parentUserID)
	if err != nil {
		return nil, err
	}

	member, err := s.memberRepo.FindByID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	if _, err := s.linkRepo.FindPair(parent.ID, member.ID); err == nil {
		return nil, ErrLinkExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check link: %w", err)
	}

	link := &models.ParentChild{
		ParentUserID:  parent.ID,
		ChildMemberID: member.ID,
	}
	if err := s.linkRepo.Create(link); err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	link.Parent = *parent
	link.Child = *member
	return link, nil
}

// Unlink removes an explicit link. Email matches are not affected.
func (s *ParentChildService) Unlink(parentUserID, memberID uint64) error {
	rows, err := s.linkRepo.Delete(parentUserID, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if rows == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// SyncByEmail materializes every email match as an explicit link and returns
// how many links were added. Running it twice adds nothing the second time.
func (s *ParentChildService) SyncByEmail() (int64, error) {
	pairs, err := s.linkRepo.FindMissingEmailPairs()
	if err != nil {
		return 0, fmt.Errorf("failed to find email matches: %w", err)
	}

	added, err := s.linkRepo.InsertIgnoringDuplicates(pairs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert links: %w", err)
	}

	log.Printf("Parent sync: %d candidate pairs, %d links added", len(pairs), added)
	return added, nil
}

// FindOrphans reports members that no parent can reach and links that point
// at users who are no longer parents.
func (s *ParentChildService) FindOrphans() (*OrphanReport, error) {
	unmatched, err := s.linkRepo.ListUnmatchedMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to list unmatched members: %w", err)
	}
	unlinked, err := s.linkRepo.ListUnlinkedMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to list unlinked members: %w", err)
	}
	stale, err := s.linkRepo.ListStaleLinks()
	if err != nil {
		return nil, fmt.Errorf("failed to list stale links: %w", err)
	}

	return &OrphanReport{
		Unmatched:  unmatched,
		Unlinked:   unlinked,
		StaleLinks: stale,
	}, nil
}

func (s *ParentChildService) findParent(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.Role != models.RoleParent {
		return nil, ErrNotParent
	}
	return user, nil
}
