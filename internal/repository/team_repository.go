package repository

import (
	"github.com/yukikurage/club-backoffice/internal/models"
	"gorm.io/gorm"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a new team
func (r *GormTeamRepository) Create(team *models.Team) error {
	return r.db.Create(team).Error
}

// FindByID finds a team by ID with optional preloading
func (r *GormTeamRepository) FindByID(id uint64, preload ...string) (*models.Team, error) {
	var team models.Team
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByName finds a team by its unique name
func (r *GormTeamRepository) FindByName(name string) (*models.Team, error) {
	var team models.Team
	if err := r.db.Where("name = ?", name).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// List returns all teams, or only ids when given
func (r *GormTeamRepository) List(ids []uint64) ([]models.Team, error) {
	var teams []models.Team
	if ids != nil && len(ids) == 0 {
		return teams, nil
	}

	query := r.db.Order("name ASC")
	if ids != nil {
		query = query.Where("id IN ?", ids)
	}
	if err := query.Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// Update updates a team
func (r *GormTeamRepository) Update(team *models.Team) error {
	return r.db.Omit("Coaches", "Members").Save(team).Error
}

// Delete removes a team and its dependent rows in a transaction
func (r *GormTeamRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		trainingIDs := tx.Model(&models.Training{}).Select("id").Where("team_id = ?", id)
		if err := tx.Where("training_id IN (?)", trainingIDs).Delete(&models.TrainingAttendance{}).Error; err != nil {
			return err
		}

		if err := tx.Where("team_id = ?", id).Delete(&models.Training{}).Error; err != nil {
			return err
		}

		eventIDs := tx.Model(&models.Event{}).Select("id").Where("team_id = ?", id)
		if err := tx.Where("event_id IN (?)", eventIDs).Delete(&models.EventAttendance{}).Error; err != nil {
			return err
		}

		if err := tx.Where("team_id = ?", id).Delete(&models.Event{}).Error; err != nil {
			return err
		}

		if err := tx.Where("team_id = ?", id).Delete(&models.TeamCoach{}).Error; err != nil {
			return err
		}

		if err := tx.Where("team_id = ?", id).Delete(&models.RegelwerkAssignment{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Member{}).Where("team_id = ?", id).Update("team_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Team{}, id).Error
	})
}

// ReplaceCoaches replaces a team's coach assignments atomically
func (r *GormTeamRepository) ReplaceCoaches(teamID uint64, coaches []models.TeamCoach, coachName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&models.TeamCoach{}).Error; err != nil {
			return err
		}

		if len(coaches) > 0 {
			for i := range coaches {
				coaches[i].TeamID = teamID
			}
			if err := tx.Omit("Team", "User").Create(&coaches).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Team{}).Where("id = ?", teamID).Update("coach", coachName).Error
	})
}

// ListCoachedTeamIDs returns the IDs of teams a user coaches
func (r *GormTeamRepository) ListCoachedTeamIDs(userID uint64) ([]uint64, error) {
	teamIDs := []uint64{}
	if err := r.db.Model(&models.TeamCoach{}).
		Where("user_id = ?", userID).
		Order("team_id ASC").
		Pluck("team_id", &teamIDs).Error; err != nil {
		return nil, err
	}
	return teamIDs, nil
}

// IsCoach reports whether a user coaches a team
func (r *GormTeamRepository) IsCoach(teamID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.TeamCoach{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}
