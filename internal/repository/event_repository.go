package repository

import (
	"github.com/yukikurage/club-backoffice/internal/models"
	"gorm.io/gorm"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create stores the event and seeds pending attendance in one transaction
func (r *GormEventRepository) Create(event *models.Event, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Team", "Attendance").Create(event).Error; err != nil {
			return err
		}

		if len(memberIDs) == 0 {
			return nil
		}

		rows := make([]models.EventAttendance, len(memberIDs))
		for i, memberID := range memberIDs {
			rows[i] = models.EventAttendance{
				EventID:          event.ID,
				MemberID:         memberID,
				AttendanceFields: models.AttendanceFields{Status: models.AttendancePending},
			}
		}
		return tx.Omit("Member").Create(&rows).Error
	})
}

// FindByID finds an event by ID with optional preloading
func (r *GormEventRepository) FindByID(id uint64, preload ...string) (*models.Event, error) {
	var event models.Event
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// List retrieves events matching the filter, ordered by date
func (r *GormEventRepository) List(filter ScheduleFilter) ([]models.Event, error) {
	var events []models.Event
	if !filter.AllTeams && len(filter.TeamIDs) == 0 && !filter.IncludeClubWide {
		return events, nil
	}

	query := r.db.Model(&models.Event{})
	if !filter.AllTeams {
		switch {
		case len(filter.TeamIDs) > 0 && filter.IncludeClubWide:
			query = query.Where("(team_id IN ? OR team_id IS NULL)", filter.TeamIDs)
		case len(filter.TeamIDs) > 0:
			query = query.Where("team_id IN ?", filter.TeamIDs)
		default:
			query = query.Where("team_id IS NULL")
		}
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	if err := query.Preload("Team").
		Order("date ASC").Order("start_time ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Update updates an event
func (r *GormEventRepository) Update(event *models.Event) error {
	return r.db.Omit("Team", "Attendance").Save(event).Error
}

// Delete removes an event and its attendance
func (r *GormEventRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventAttendance{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Event{}, id).Error
	})
}

// FindAttendance finds a member's attendance row for an event
func (r *GormEventRepository) FindAttendance(eventID, memberID uint64) (*models.EventAttendance, error) {
	var attendance models.EventAttendance
	if err := r.db.Preload("Member").
		Where("event_id = ? AND member_id = ?", eventID, memberID).
		First(&attendance).Error; err != nil {
		return nil, err
	}
	return &attendance, nil
}

// SaveAttendance persists an attendance row
func (r *GormEventRepository) SaveAttendance(attendance *models.EventAttendance) error {
	return r.db.Omit("Member").Save(attendance).Error
}

// ListAttendance returns attendance rows of an event
func (r *GormEventRepository) ListAttendance(eventID uint64, memberIDs []uint64) ([]models.EventAttendance, error) {
	var rows []models.EventAttendance
	if memberIDs != nil && len(memberIDs) == 0 {
		return rows, nil
	}

	query := r.db.Preload("Member").
		Joins("JOIN members ON members.id = event_attendances.member_id").
		Where("event_attendances.event_id = ?", eventID)
	if memberIDs != nil {
		query = query.Where("event_attendances.member_id IN ?", memberIDs)
	}

	if err := query.Order("members.name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
