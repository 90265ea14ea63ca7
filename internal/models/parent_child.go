package models

import "time"

// ParentChild links a parent user to a member. A pair exists at most once.
type ParentChild struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	ParentUserID  uint64    `gorm:"not null;uniqueIndex:idx_parent_child_pair" json:"parent_user_id"`
	ChildMemberID uint64    `gorm:"not null;uniqueIndex:idx_parent_child_pair;index" json:"child_member_id"`
	CreatedAt     time.Time `json:"created_at"`

	// Relations
	Parent User   `gorm:"foreignKey:ParentUserID" json:"parent,omitempty"`
	Child  Member `gorm:"foreignKey:ChildMemberID" json:"child,omitempty"`
}

func (ParentChild) TableName() string {
	return "parent_children"
}
