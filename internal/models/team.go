package models

import "time"

type Team struct {
	ID    uint64 `gorm:"primarykey" json:"id"`
	Name  string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Level string `gorm:"type:varchar(100)" json:"level"`
	// Coach mirrors the primary coach's name for older clients.
	Coach     string    `gorm:"type:varchar(255)" json:"coach"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Coaches []TeamCoach `gorm:"foreignKey:TeamID" json:"coaches,omitempty"`
	Members []Member    `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

type TeamCoach struct {
	TeamID    uint64    `gorm:"primarykey" json:"team_id"`
	UserID    uint64    `gorm:"primarykey;index" json:"user_id"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Team Team `gorm:"foreignKey:TeamID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
