package models

import "time"

// Message is an internal mail. Each side deletes independently.
type Message struct {
	ID                 uint64     `gorm:"primarykey" json:"id"`
	SenderID           uint64     `gorm:"not null;index" json:"sender_id"`
	RecipientID        uint64     `gorm:"not null;index" json:"recipient_id"`
	Subject            string     `gorm:"type:varchar(255);not null" json:"subject"`
	Body               string     `gorm:"type:text;not null" json:"body"`
	IsRead             bool       `gorm:"not null;default:false" json:"is_read"`
	IsStarred          bool       `gorm:"not null;default:false" json:"is_starred"`
	ReadAt             *time.Time `json:"read_at"`
	DeletedBySender    bool       `gorm:"not null;default:false" json:"-"`
	DeletedByRecipient bool       `gorm:"not null;default:false" json:"-"`
	CreatedAt          time.Time  `json:"created_at"`

	// Relations
	Sender    User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}
