package repository

import (
	"time"

	"github.com/yukikurage/club-backoffice/internal/models"
	"gorm.io/gorm"
)

// GormReportRepository is a GORM implementation of ReportRepository
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

// TrainingAttendanceTotals buckets attendance statuses per member and team
// with a single aggregate query.
func (r *GormReportRepository) TrainingAttendanceTotals(from, to time.Time, teamIDs []uint64) ([]MemberAttendanceRow, error) {
	rows := []MemberAttendanceRow{}
	if teamIDs != nil && len(teamIDs) == 0 {
		return rows, nil
	}

	query := r.db.Table("training_attendances AS ta").
		Select(`m.id AS member_id,
			m.name AS member_name,
			COALESCE(t.name, '') AS team_name,
			SUM(CASE WHEN ta.status = ? THEN 1 ELSE 0 END) AS attended,
			SUM(CASE WHEN ta.status = ? THEN 1 ELSE 0 END) AS cancelled,
			SUM(CASE WHEN ta.status = ? THEN 1 ELSE 0 END) AS not_responded`,
			models.AttendanceAccepted, models.AttendanceDeclined, models.AttendancePending).
		Joins("JOIN trainings tr ON tr.id = ta.training_id").
		Joins("JOIN members m ON m.id = ta.member_id").
		Joins("LEFT JOIN teams t ON t.id = tr.team_id").
		Where("tr.date >= ? AND tr.date < ?", from, to)
	if teamIDs != nil {
		query = query.Where("tr.team_id IN ?", teamIDs)
	}

	err := query.Group("m.id, m.name, t.name").
		Order("team_name ASC").Order("member_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
