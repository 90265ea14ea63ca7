package models

import "time"

type Training struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	TeamID      uint64    `gorm:"not null;index" json:"team_id"`
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`
	StartTime   string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string    `gorm:"type:varchar(5);not null" json:"end_time"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedByID uint64    `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Team       Team                 `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Attendance []TrainingAttendance `gorm:"foreignKey:TrainingID" json:"attendance,omitempty"`
}

// Event is a club date. A nil TeamID makes it club-wide.
type Event struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	TeamID      *uint64   `gorm:"index" json:"team_id"`
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`
	StartTime   string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string    `gorm:"type:varchar(5);not null" json:"end_time"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	CreatedByID uint64    `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Team       *Team             `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Attendance []EventAttendance `gorm:"foreignKey:EventID" json:"attendance,omitempty"`
}
