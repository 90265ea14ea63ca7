package models

import (
	"errors"
	"strings"
	"time"
)

type AttendanceStatus string

const (
	AttendancePending  AttendanceStatus = "pending"
	AttendanceAccepted AttendanceStatus = "accepted"
	AttendanceDeclined AttendanceStatus = "declined"
)

var (
	ErrInvalidAttendanceStatus = errors.New("status must be one of pending, accepted, declined")
	ErrDeclineReasonRequired   = errors.New("a reason is required when declining")
)

// Valid reports whether s is one of the three attendance states.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePending, AttendanceAccepted, AttendanceDeclined:
		return true
	}
	return false
}

// AttendanceFields is shared by training and event attendance rows.
type AttendanceFields struct {
	Status        AttendanceStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DeclineReason string           `gorm:"type:text" json:"decline_reason"`
	RespondedByID *uint64          `json:"responded_by_id"`
	RespondedAt   *time.Time       `json:"responded_at"`
}

// Respond moves the row to status. Declining needs a reason; the reason is
// dropped for every other status.
func (a *AttendanceFields) Respond(status AttendanceStatus, reason string, responderID uint64, at time.Time) error {
	if !status.Valid() {
		return ErrInvalidAttendanceStatus
	}

	reason = strings.TrimSpace(reason)
	if status == AttendanceDeclined && reason == "" {
		return ErrDeclineReasonRequired
	}
	if status != AttendanceDeclined {
		reason = ""
	}

	a.Status = status
	a.DeclineReason = reason
	if status == AttendancePending {
		a.RespondedByID = nil
		a.RespondedAt = nil
		return nil
	}

	a.RespondedByID = &responderID
	a.RespondedAt = &at
	return nil
}

type TrainingAttendance struct {
	TrainingID uint64 `gorm:"primarykey" json:"training_id"`
	MemberID   uint64 `gorm:"primarykey;index" json:"member_id"`
	AttendanceFields
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Member Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

type EventAttendance struct {
	EventID  uint64 `gorm:"primarykey" json:"event_id"`
	MemberID uint64 `gorm:"primarykey;index" json:"member_id"`
	AttendanceFields
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Member Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}
