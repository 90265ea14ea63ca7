package repository

import (
	"github.com/yukikurage/club-backoffice/internal/database"
	"github.com/yukikurage/club-backoffice/internal/models"
	"gorm.io/gorm"
)

// GormMessageRepository is a GORM implementation of MessageRepository
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db: db}
}

// CreateBatch stores one row per recipient
func (r *GormMessageRepository) CreateBatch(messages []models.Message) error {
	if len(messages) == 0 {
		return nil
	}
	return r.db.Omit("Sender", "Recipient").Create(&messages).Error
}

// FindByID finds a message with sender and recipient loaded
func (r *GormMessageRepository) FindByID(id uint64) (*models.Message, error) {
	var message models.Message
	if err := r.db.Preload("Sender").Preload("Recipient").First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// List retrieves a mailbox folder with pagination
func (r *GormMessageRepository) List(filter MessageFilter) ([]models.Message, int64, error) {
	var messages []models.Message

	query := r.db.Model(&models.Message{})
	switch filter.Folder {
	case FolderSent:
		query = query.Where("sender_id = ? AND deleted_by_sender = ?", filter.UserID, false)
	case FolderStarred:
		query = query.Where("recipient_id = ? AND deleted_by_recipient = ? AND is_starred = ?", filter.UserID, false, true)
	default:
		query = query.Where("recipient_id = ? AND deleted_by_recipient = ?", filter.UserID, false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").Order("id DESC").
		Scopes(database.Paginate(filter.Pagination))

	if err := listQuery.Preload("Sender").Preload("Recipient").Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// CountUnread counts unread inbox messages
func (r *GormMessageRepository) CountUnread(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("recipient_id = ? AND deleted_by_recipient = ? AND is_read = ?", userID, false, false).
		Count(&count).Error
	return count, err
}

// Update updates a message
func (r *GormMessageRepository) Update(message *models.Message) error {
	return r.db.Omit("Sender", "Recipient").Save(message).Error
}

// Delete removes a message
func (r *GormMessageRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Message{}, id).Error
}
