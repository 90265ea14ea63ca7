package repository

import (
	"strings"
	"time"

	"github.com/yukikurage/club-backoffice/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormParentChildRepository is a GORM implementation of ParentChildRepository
type GormParentChildRepository struct {
	db *gorm.DB
}

// NewParentChildRepository creates a new ParentChildRepository
func NewParentChildRepository(db *gorm.DB) ParentChildRepository {
	return &GormParentChildRepository{db: db}
}

const (
	parentEmailMatch = "LOWER(users.email) = LOWER(TRIM(members.parent_email))"
	hasParentEmail   = "members.parent_email IS NOT NULL AND TRIM(members.parent_email) <> ''"
	noLinkForMember  = "NOT EXISTS (SELECT 1 FROM parent_children pc WHERE pc.child_member_id = members.id)"
)

// Create creates a new link
func (r *GormParentChildRepository) Create(link *models.ParentChild) error {
	return r.db.Omit("Parent", "Child").Create(link).Error
}

// FindPair finds the link between a parent and a member
func (r *GormParentChildRepository) FindPair(parentUserID, childMemberID uint64) (*models.ParentChild, error) {
	var link models.ParentChild
	if err := r.db.Where("parent_user_id = ? AND child_member_id = ?", parentUserID, childMemberID).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// Delete removes the link between a parent and a member
func (r *GormParentChildRepository) Delete(parentUserID, childMemberID uint64) (int64, error) {
	result := r.db.Where("parent_user_id = ? AND child_member_id = ?", parentUserID, childMemberID).
		Delete(&models.ParentChild{})
	return result.RowsAffected, result.Error
}

// ListLinkedMembers returns members linked to a parent through the join table
func (r *GormParentChildRepository) ListLinkedMembers(parentUserID uint64) ([]models.Member, error) {
	var members []models.Member
	if err := r.db.Preload("Team").
		Joins("JOIN parent_children ON parent_children.child_member_id = members.id").
		Where("parent_children.parent_user_id = ?", parentUserID).
		Order("members.name ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembersByParentEmail returns members whose stored parent email equals email
func (r *GormParentChildRepository) ListMembersByParentEmail(email string) ([]models.Member, error) {
	var members []models.Member
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return members, nil
	}

	if err := r.db.Preload("Team").
		Where("LOWER(TRIM(members.parent_email)) = ?", email).
		Order("members.name ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

type parentChildPair struct {
	ParentUserID  uint64
	ChildMemberID uint64
}

// FindMissingEmailPairs returns email-matched pairs that lack a link row
func (r *GormParentChildRepository) FindMissingEmailPairs() ([]models.ParentChild, error) {
	var pairs []parentChildPair
	err := r.db.Table("members").
		Select("users.id AS parent_user_id, members.id AS child_member_id").
		Joins("JOIN users ON "+parentEmailMatch).
		Where("users.role = ?", models.RoleParent).
		Where(hasParentEmail).
		Where("NOT EXISTS (SELECT 1 FROM parent_children pc WHERE pc.parent_user_id = users.id AND pc.child_member_id = members.id)").
		Order("members.id ASC").Order("users.id ASC").
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}

	links := make([]models.ParentChild, len(pairs))
	for i, p := range pairs {
		links[i] = models.ParentChild{ParentUserID: p.ParentUserID, ChildMemberID: p.ChildMemberID}
	}
	return links, nil
}

// InsertIgnoringDuplicates inserts links with ON CONFLICT DO NOTHING
func (r *GormParentChildRepository) InsertIgnoringDuplicates(links []models.ParentChild) (int64, error) {
	if len(links) == 0 {
		return 0, nil
	}

	now := time.Now()
	for i := range links {
		if links[i].CreatedAt.IsZero() {
			links[i].CreatedAt = now
		}
	}

	result := r.db.Omit("Parent", "Child").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links)
	return result.RowsAffected, result.Error
}

// ListUnmatchedMembers returns members whose parent email has no parent account
func (r *GormParentChildRepository) ListUnmatchedMembers() ([]models.Member, error) {
	var members []models.Member
	if err := r.db.Preload("Team").
		Where(hasParentEmail).
		Where("NOT EXISTS (SELECT 1 FROM users WHERE "+parentEmailMatch+" AND users.role = ?)", models.RoleParent).
		Where(noLinkForMember).
		Order("members.name ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListUnlinkedMembers returns members without any parent information
func (r *GormParentChildRepository) ListUnlinkedMembers() ([]models.Member, error) {
	var members []models.Member
	if err := r.db.Preload("Team").
		Where("(members.parent_email IS NULL OR TRIM(members.parent_email) = '')").
		Where(noLinkForMember).
		Order("members.name ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListStaleLinks returns links whose user is no longer a parent
func (r *GormParentChildRepository) ListStaleLinks() ([]models.ParentChild, error) {
	var links []models.ParentChild
	if err := r.db.Preload("Parent").Preload("Child").
		Joins("JOIN users ON users.id = parent_children.parent_user_id").
		Where("users.role <> ?", models.RoleParent).
		Order("parent_children.id ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
