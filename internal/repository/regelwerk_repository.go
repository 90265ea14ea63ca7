package repository

import (
	"time"

	"github.com/yukikurage/club-backoffice/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRegelwerkRepository is a GORM implementation of RegelwerkRepository
type GormRegelwerkRepository struct {
	db *gorm.DB
}

// NewRegelwerkRepository creates a new RegelwerkRepository
func NewRegelwerkRepository(db *gorm.DB) RegelwerkRepository {
	return &GormRegelwerkRepository{db: db}
}

func (r *GormRegelwerkRepository) Create(regelwerk *models.Regelwerk) error {
	return r.db.Omit("Assignments").Create(regelwerk).Error
}

func (r *GormRegelwerkRepository) FindByID(id uint64, preload ...string) (*models.Regelwerk, error) {
	var regelwerk models.Regelwerk
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&regelwerk, id).Error; err != nil {
		return nil, err
	}
	return &regelwerk, nil
}

func (r *GormRegelwerkRepository) List() ([]models.Regelwerk, error) {
	var regelwerke []models.Regelwerk
	if err := r.db.Order("title ASC").Find(&regelwerke).Error; err != nil {
		return nil, err
	}
	return regelwerke, nil
}

// Update saves the document and, for a new version, resets read state
func (r *GormRegelwerkRepository) Update(regelwerk *models.Regelwerk, resetReads bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Assignments").Save(regelwerk).Error; err != nil {
			return err
		}

		if !resetReads {
			return nil
		}

		return tx.Model(&models.RegelwerkAssignment{}).
			Where("regelwerk_id = ?", regelwerk.ID).
			Update("read_at", nil).Error
	})
}

func (r *GormRegelwerkRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("regelwerk_id = ?", id).Delete(&models.RegelwerkAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Regelwerk{}, id).Error
	})
}

// AddAssignment inserts the assignment unless the same one already exists
func (r *GormRegelwerkRepository) AddAssignment(assignment *models.RegelwerkAssignment) (bool, error) {
	result := r.db.Omit("Regelwerk", "Coach", "Team").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(assignment)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// Load the existing row so callers see its ID.
	err := r.db.Where("regelwerk_id = ? AND coach_user_id = ? AND team_id = ?",
		assignment.RegelwerkID, assignment.CoachUserID, assignment.TeamID).
		First(assignment).Error
	return false, err
}

func (r *GormRegelwerkRepository) DeleteAssignment(regelwerkID, assignmentID uint64) (int64, error) {
	result := r.db.Where("id = ? AND regelwerk_id = ?", assignmentID, regelwerkID).
		Delete(&models.RegelwerkAssignment{})
	return result.RowsAffected, result.Error
}

// ListAssignmentsForCoach returns a coach's assignments with document and team
func (r *GormRegelwerkRepository) ListAssignmentsForCoach(coachUserID uint64) ([]models.RegelwerkAssignment, error) {
	var assignments []models.RegelwerkAssignment
	if err := r.db.Preload("Regelwerk").Preload("Team").
		Where("coach_user_id = ?", coachUserID).
		Order("assigned_at DESC").Order("id DESC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// MarkRead marks every assignment of the document for the coach as read
func (r *GormRegelwerkRepository) MarkRead(regelwerkID, coachUserID uint64, at time.Time) (int64, error) {
	result := r.db.Model(&models.RegelwerkAssignment{}).
		Where("regelwerk_id = ? AND coach_user_id = ?", regelwerkID, coachUserID).
		Update("read_at", at)
	return result.RowsAffected, result.Error
}
