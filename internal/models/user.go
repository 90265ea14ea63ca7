package models

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCoach   Role = "coach"
	RoleParent  Role = "parent"
	RoleMember  Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCoach, RoleParent, RoleMember:
		return true
	}
	return false
}

// CanManage reports whether the role may administer club data.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleManager
}

// IsStaff reports whether the role belongs to club staff.
func (r Role) IsStaff() bool {
	return r.CanManage() || r == RoleCoach
}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	MemberID     *uint64   `gorm:"index" json:"member_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}
