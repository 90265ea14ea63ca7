package repository

import (
	"errors"
	"strings"

	"github.com/yukikurage/club-backoffice/internal/database"
	"github.com/yukikurage/club-backoffice/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs returns the existing users among ids
func (r *GormUserRepository) FindByIDs(ids []uint64) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// List retrieves users with filtering and pagination
func (r *GormUserRepository) List(filter UserFilter) ([]models.User, int64, error) {
	var users []models.User

	query := r.db.Model(&models.User{})
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("name ASC").Order("id ASC").
		Scopes(database.Paginate(filter.Pagination))

	if err := listQuery.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Omit("Member").Save(user).Error
}

// CountByRole counts users holding role
func (r *GormUserRepository) CountByRole(role models.Role) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// DeleteWithDependents removes the user and everything that points at it in
// a single transaction.
func (r *GormUserRepository) DeleteWithDependents(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_user_id = ?", id).Delete(&models.ParentChild{}).Error; err != nil {
			return err
		}

		var primaryTeamIDs []uint64
		if err := tx.Model(&models.TeamCoach{}).
			Where("user_id = ? AND is_primary = ?", id, true).
			Pluck("team_id", &primaryTeamIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.TeamCoach{}).Error; err != nil {
			return err
		}

		for _, teamID := range primaryTeamIDs {
			if err := promoteNextCoach(tx, teamID); err != nil {
				return err
			}
		}

		if err := tx.Where("sender_id = ? OR recipient_id = ?", id, id).Delete(&models.Message{}).Error; err != nil {
			return err
		}

		if err := tx.Where("coach_user_id = ?", id).Delete(&models.RegelwerkAssignment{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.TrainingAttendance{}).
			Where("responded_by_id = ?", id).
			Update("responded_by_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.EventAttendance{}).
			Where("responded_by_id = ?", id).
			Update("responded_by_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// promoteNextCoach makes the longest-serving remaining coach primary and
// mirrors the name onto the team, or clears the mirror when none is left.
func promoteNextCoach(tx *gorm.DB, teamID uint64) error {
	var next models.TeamCoach
	err := tx.Preload("User").
		Where("team_id = ?", teamID).
		Order("created_at ASC").Order("user_id ASC").
		First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Model(&models.Team{}).Where("id = ?", teamID).Update("coach", "").Error
	}
	if err != nil {
		return err
	}

	if err := tx.Model(&models.TeamCoach{}).
		Where("team_id = ? AND user_id = ?", teamID, next.UserID).
		Update("is_primary", true).Error; err != nil {
		return err
	}

	return tx.Model(&models.Team{}).Where("id = ?", teamID).Update("coach", next.User.Name).Error
}
