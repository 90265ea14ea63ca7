package repository

import (
	"strings"

	"github.com/yukikurage/club-backoffice/internal/database"
	"github.com/yukikurage/club-backoffice/internal/models"
	"gorm.io/gorm"
)

// GormMemberRepository is a GORM implementation of MemberRepository
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &GormMemberRepository{db: db}
}

// Create creates a new member
func (r *GormMemberRepository) Create(member *models.Member) error {
	return r.db.Create(member).Error
}

// FindByID finds a member by ID with optional preloading
func (r *GormMemberRepository) FindByID(id uint64, preload ...string) (*models.Member, error) {
	var member models.Member
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByIDs returns the existing members among ids
func (r *GormMemberRepository) FindByIDs(ids []uint64) ([]models.Member, error) {
	var members []models.Member
	if len(ids) == 0 {
		return members, nil
	}
	if err := r.db.Where("id IN ?", ids).Order("name ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// List retrieves members visible within the filter's scope
func (r *GormMemberRepository) List(filter MemberFilter) ([]models.Member, int64, error) {
	var members []models.Member
	if filter.Scope.Empty() {
		return []models.Member{}, 0, nil
	}

	query := applyMemberScope(r.db.Model(&models.Member{}), filter.Scope)
	if filter.TeamID != nil {
		query = query.Where("members.team_id = ?", *filter.TeamID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(members.name) LIKE ? OR LOWER(members.parent_email) LIKE ?)", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("members.name ASC").Order("members.id ASC").
		Scopes(database.Paginate(filter.Pagination))

	if err := listQuery.Preload("Team").Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// Update updates a member
func (r *GormMemberRepository) Update(member *models.Member) error {
	return r.db.Omit("Team").Save(member).Error
}

// Delete removes a member together with attendance rows and parent links
func (r *GormMemberRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&models.TrainingAttendance{}).Error; err != nil {
			return err
		}

		if err := tx.Where("member_id = ?", id).Delete(&models.EventAttendance{}).Error; err != nil {
			return err
		}

		if err := tx.Where("child_member_id = ?", id).Delete(&models.ParentChild{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("member_id = ?", id).Update("member_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Member{}, id).Error
	})
}

// ListIDsByTeam returns the member IDs of a team, or all member IDs for nil
func (r *GormMemberRepository) ListIDsByTeam(teamID *uint64) ([]uint64, error) {
	var ids []uint64
	query := r.db.Model(&models.Member{})
	if teamID != nil {
		query = query.Where("team_id = ?", *teamID)
	}
	if err := query.Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func applyMemberScope(query *gorm.DB, scope MemberScope) *gorm.DB {
	if scope.All {
		return query
	}

	switch {
	case len(scope.TeamIDs) > 0 && len(scope.MemberIDs) > 0:
		return query.Where("(members.team_id IN ? OR members.id IN ?)", scope.TeamIDs, scope.MemberIDs)
	case len(scope.TeamIDs) > 0:
		return query.Where("members.team_id IN ?", scope.TeamIDs)
	default:
		return query.Where("members.id IN ?", scope.MemberIDs)
	}
}
