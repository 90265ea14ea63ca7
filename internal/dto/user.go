package dto

import (
	"time"

	"github.com/yukikurage/club-backoffice/internal/constants"
	"github.com/yukikurage/club-backoffice/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	MemberID  *uint64     `json:"member_id"`
	CreatedAt time.Time   `json:"created_at"`
}

// UserSummaryDTO is the directory view of a user
type UserSummaryDTO struct {
	ID   uint64      `json:"id"`
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

// CreatedUserDTO is returned once after creating a user
type CreatedUserDTO struct {
	User              UserDTO `json:"user"`
	TemporaryPassword string  `json:"temporary_password,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		MemberID:  user.MemberID,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	result := make([]UserDTO, len(users))
	for i, u := range users {
		result[i] = ToUserDTO(u)
	}
	return result
}

// ToUserSummaryDTO converts a User model to UserSummaryDTO
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:   user.ID,
		Name: user.Name,
		Role: user.Role,
	}
}

// ToUserSummaryDTOs converts a slice of users
func ToUserSummaryDTOs(users []models.User) []UserSummaryDTO {
	result := make([]UserSummaryDTO, len(users))
	for i, u := range users {
		result[i] = ToUserSummaryDTO(u)
	}
	return result
}

func formatDate(t time.Time) string {
	return t.Format(constants.DateLayout)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}
