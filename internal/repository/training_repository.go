package repository

import (
	"github.com/yukikurage/club-backoffice/internal/models"
	"gorm.io/gorm"
)

// GormTrainingRepository is a GORM implementation of TrainingRepository
type GormTrainingRepository struct {
	db *gorm.DB
}

// NewTrainingRepository creates a new TrainingRepository
func NewTrainingRepository(db *gorm.DB) TrainingRepository {
	return &GormTrainingRepository{db: db}
}

// Create stores the training and seeds pending attendance in one transaction
func (r *GormTrainingRepository) Create(training *models.Training, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Team", "Attendance").Create(training).Error; err != nil {
			return err
		}

		if len(memberIDs) == 0 {
			return nil
		}

		rows := make([]models.TrainingAttendance, len(memberIDs))
		for i, memberID := range memberIDs {
			rows[i] = models.TrainingAttendance{
				TrainingID:       training.ID,
				MemberID:         memberID,
				AttendanceFields: models.AttendanceFields{Status: models.AttendancePending},
			}
		}
		return tx.Omit("Member").Create(&rows).Error
	})
}

// FindByID finds a training by ID with optional preloading
func (r *GormTrainingRepository) FindByID(id uint64, preload ...string) (*models.Training, error) {
	var training models.Training
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&training, id).Error; err != nil {
		return nil, err
	}
	return &training, nil
}

// List retrieves trainings matching the filter, ordered by date
func (r *GormTrainingRepository) List(filter ScheduleFilter) ([]models.Training, error) {
	var trainings []models.Training
	if !filter.AllTeams && len(filter.TeamIDs) == 0 {
		return trainings, nil
	}

	query := r.db.Model(&models.Training{})
	if !filter.AllTeams {
		query = query.Where("team_id IN ?", filter.TeamIDs)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	if err := query.Preload("Team").
		Order("date ASC").Order("start_time ASC").
		Find(&trainings).Error; err != nil {
		return nil, err
	}
	return trainings, nil
}

// Update updates a training
func (r *GormTrainingRepository) Update(training *models.Training) error {
	return r.db.Omit("Team", "Attendance").Save(training).Error
}

// Delete removes a training and its attendance
func (r *GormTrainingRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("training_id = ?", id).Delete(&models.TrainingAttendance{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Training{}, id).Error
	})
}

// FindAttendance finds a member's attendance row for a training
func (r *GormTrainingRepository) FindAttendance(trainingID, memberID uint64) (*models.TrainingAttendance, error) {
	var attendance models.TrainingAttendance
	if err := r.db.Preload("Member").
		Where("training_id = ? AND member_id = ?", trainingID, memberID).
		First(&attendance).Error; err != nil {
		return nil, err
	}
	return &attendance, nil
}

// SaveAttendance persists an attendance row
func (r *GormTrainingRepository) SaveAttendance(attendance *models.TrainingAttendance) error {
	return r.db.Omit("Member").Save(attendance).Error
}

// ListAttendance returns attendance rows of a training
func (r *GormTrainingRepository) ListAttendance(trainingID uint64, memberIDs []uint64) ([]models.TrainingAttendance, error) {
	var rows []models.TrainingAttendance
	if memberIDs != nil && len(memberIDs) == 0 {
		return rows, nil
	}

	query := r.db.Preload("Member").
		Joins("JOIN members ON members.id = training_attendances.member_id").
		Where("training_attendances.training_id = ?", trainingID)
	if memberIDs != nil {
		query = query.Where("training_attendances.member_id IN ?", memberIDs)
	}

	if err := query.Order("members.name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
