package models

import "time"

type Member struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null;index" json:"name"`
	BirthDate   *time.Time `gorm:"type:date" json:"birth_date"`
	TeamID      *uint64    `gorm:"index" json:"team_id"`
	ParentName  string     `gorm:"type:varchar(255)" json:"parent_name"`
	ParentEmail string     `gorm:"type:varchar(255);index" json:"parent_email"`
	ParentPhone string     `gorm:"type:varchar(50)" json:"parent_phone"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Team *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}
