package dto

import (
	"time"

	"github.com/yukikurage/club-backoffice/internal/models"
)

// MessageDTO represents a message in API responses
type MessageDTO struct {
	ID        uint64         `json:"id"`
	Sender    UserSummaryDTO `json:"sender"`
	Recipient UserSummaryDTO `json:"recipient"`
	Subject   string         `json:"subject"`
	Body      string         `json:"body"`
	IsRead    bool           `json:"is_read"`
	IsStarred bool           `json:"is_starred"`
	ReadAt    *time.Time     `json:"read_at"`
	CreatedAt time.Time      `json:"created_at"`
}

// ToMessageDTO converts a Message model to MessageDTO
func ToMessageDTO(message models.Message) MessageDTO {
	return MessageDTO{
		ID:        message.ID,
		Sender:    ToUserSummaryDTO(message.Sender),
		Recipient: ToUserSummaryDTO(message.Recipient),
		Subject:   message.Subject,
		Body:      message.Body,
		IsRead:    message.IsRead,
		IsStarred: message.IsStarred,
		ReadAt:    message.ReadAt,
		CreatedAt: message.CreatedAt,
	}
}

// ToMessageDTOs converts a slice of messages
func ToMessageDTOs(messages []models.Message) []MessageDTO {
	result := make([]MessageDTO, len(messages))
	for i, m := range messages {
		result[i] = ToMessageDTO(m)
	}
	return result
}
