package models

import "time"

// Regelwerk is a versioned rule document handed out to coaches.
type Regelwerk struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Version     int       `gorm:"not null;default:1" json:"version"`
	CreatedByID uint64    `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Assignments []RegelwerkAssignment `gorm:"foreignKey:RegelwerkID" json:"assignments,omitempty"`
}

func (Regelwerk) TableName() string {
	return "regelwerke"
}

type RegelwerkAssignment struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	RegelwerkID uint64     `gorm:"not null;uniqueIndex:idx_regelwerk_assignment" json:"regelwerk_id"`
	CoachUserID uint64     `gorm:"not null;uniqueIndex:idx_regelwerk_assignment;index" json:"coach_user_id"`
	TeamID      uint64     `gorm:"not null;uniqueIndex:idx_regelwerk_assignment" json:"team_id"`
	AssignedAt  time.Time  `json:"assigned_at"`
	ReadAt      *time.Time `json:"read_at"`

	// Relations
	Regelwerk Regelwerk `gorm:"foreignKey:RegelwerkID" json:"-"`
	Coach     User      `gorm:"foreignKey:CoachUserID" json:"coach,omitempty"`
	Team      Team      `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

func (RegelwerkAssignment) TableName() string {
	return "regelwerk_assignments"
}
