package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/notify"
	"github.com/yukikurage/club-backoffice/internal/repository"
	"github.com/yukikurage/club-backoffice/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrMessageNotFound      = errors.New("message not found")
	ErrRecipientsRequired   = errors.New("at least one recipient is required")
	ErrRecipientNotFound    = errors.New("recipient not found")
	ErrRecipientNotAllowed  = errors.New("parents and members can only message club staff")
	ErrSubjectBodyRequired  = errors.New("subject and body are required")
	ErrInvalidMessageFolder = errors.New("folder must be one of inbox, sent, starred")
)

// defaultNotifyBudget bounds all notification mail of one send together.
const defaultNotifyBudget = 10 * time.Second

// SendMessageInput holds a message addressed to one or more users.
type SendMessageInput struct {
	RecipientIDs []uint64
	Subject      string
	Body         string
}

// MessageFlags holds the recipient's mailbox flags. Nil leaves a flag unchanged.
type MessageFlags struct {
	IsRead    *bool
	IsStarred *bool
}

// MessageService handles internal messaging.
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	notifier    notify.Notifier
	appBaseURL  string
	now         func() time.Time

	notifyBudget time.Duration
}

// NewMessageService creates a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, notifier notify.Notifier, appBaseURL string) *MessageService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		appBaseURL:  strings.TrimRight(appBaseURL, "/"),
		now:         time.Now,

		notifyBudget: defaultNotifyBudget,
	}
}

// ListMessages returns one folder of the actor's mailbox.
func (s *MessageService) ListMessages(actor Actor, folder repository.MessageFolder, params utils.PaginationParams) ([]models.Message, int64, error) {
	switch folder {
	case "":
		folder = repository.FolderInbox
	case repository.FolderInbox, repository.FolderSent, repository.FolderStarred:
	default:
		return nil, 0, ErrInvalidMessageFolder
	}

	messages, total, err := s.messageRepo.List(repository.MessageFilter{
		UserID:     actor.UserID,
		Folder:     folder,
		Pagination: params,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, total, nil
}

// UnreadCount returns how many inbox messages the actor has not read.
func (s *MessageService) UnreadCount(actor Actor) (int64, error) {
	count, err := s.messageRepo.CountUnread(actor.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// GetMessage returns a message the actor sent or received. Opening it as the
// recipient marks it read.
func (s *MessageService) GetMessage(actor Actor, id uint64) (*models.Message, error) {
	message, err := s.findOwned(actor, id)
	if err != nil {
		return nil, err
	}

	if message.RecipientID == actor.UserID && !message.IsRead {
		now := s.now()
		message.IsRead = true
		message.ReadAt = &now
		if err := s.messageRepo.Update(message); err != nil {
			return nil, fmt.Errorf("failed to mark message read: %w", err)
		}
	}
	return message, nil
}

// SendMessage stores one copy per recipient and emails each recipient.
// Email failures are logged and do not fail the send.
func (s *MessageService) SendMessage(ctx context.Context, actor Actor, input SendMessageInput) ([]models.Message, error) {
	subject := strings.TrimSpace(input.Subject)
	body := strings.TrimSpace(input.Body)
	if subject == "" || body == "" {
		return nil, ErrSubjectBodyRequired
	}

	ids := uniqueUint64(input.RecipientIDs)
	if len(ids) == 0 {
		return nil, ErrRecipientsRequired
	}

	recipients, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipients: %w", err)
	}
	if len(recipients) != len(ids) {
		return nil, ErrRecipientNotFound
	}
	if !actor.Role.IsStaff() {
		for _, r := range recipients {
			if !r.Role.IsStaff() {
				return nil, ErrRecipientNotAllowed
			}
		}
	}

	sender, err := s.userRepo.FindByID(actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load sender: %w", err)
	}

	byID := make(map[uint64]models.User, len(recipients))
	for _, r := range recipients {
		byID[r.ID] = r
	}

	messages := make([]models.Message, len(ids))
	for i, id := range ids {
		messages[i] = models.Message{
			SenderID:    sender.ID,
			RecipientID: id,
			Subject:     subject,
			Body:        body,
		}
	}
	if err := s.messageRepo.CreateBatch(messages); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	notifyCtx, cancel := context.WithTimeout(ctx, s.notifyBudget)
	defer cancel()
	for i := range messages {
		messages[i].Sender = *sender
		messages[i].Recipient = byID[messages[i].RecipientID]
		s.notifyRecipient(notifyCtx, &messages[i])
	}
	return messages, nil
}

// UpdateFlags changes read or starred state. Only the recipient may do this.
func (s *MessageService) UpdateFlags(actor Actor, id uint64, flags MessageFlags) (*models.Message, error) {
	message, err := s.findOwned(actor, id)
	if err != nil {
		return nil, err
	}
	if message.RecipientID != actor.UserID {
		return nil, ErrForbidden
	}

	if flags.IsRead != nil {
		message.IsRead = *flags.IsRead
		if message.IsRead {
			now := s.now()
			message.ReadAt = &now
		} else {
			message.ReadAt = nil
		}
	}
	if flags.IsStarred != nil {
		message.IsStarred = *flags.IsStarred
	}

	if err := s.messageRepo.Update(message); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	return message, nil
}

// DeleteMessage hides a message from the actor's side. The row is removed
// once both sides have deleted it.
func (s *MessageService) DeleteMessage(actor Actor, id uint64) error {
	message, err := s.findOwned(actor, id)
	if err != nil {
		return err
	}

	if message.SenderID == actor.UserID {
		message.DeletedBySender = true
	}
	if message.RecipientID == actor.UserID {
		message.DeletedByRecipient = true
	}

	if message.DeletedBySender && message.DeletedByRecipient {
		if err := s.messageRepo.Delete(message.ID); err != nil {
			return fmt.Errorf("failed to delete message: %w", err)
		}
		return nil
	}

	if err := s.messageRepo.Update(message); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// findOwned loads a message that is still visible to the actor.
func (s *MessageService) findOwned(actor Actor, id uint64) (*models.Message, error) {
	message, err := s.messageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to find message: %w", err)
	}

	isSender := message.SenderID == actor.UserID && !message.DeletedBySender
	isRecipient := message.RecipientID == actor.UserID && !message.DeletedByRecipient
	if !isSender && !isRecipient {
		return nil, ErrMessageNotFound
	}
	return message, nil
}

func (s *MessageService) notifyRecipient(ctx context.Context, message *models.Message) {
	if message.Recipient.Email == "" {
		return
	}

	link := fmt.Sprintf("%s/messages/%d", s.appBaseURL, message.ID)
	email := notify.Email{
		To:      message.Recipient.Email,
		ToName:  message.Recipient.Name,
		Subject: fmt.Sprintf("New message from %s: %s", message.Sender.Name, message.Subject),
		TextBody: fmt.Sprintf("Hi %s,\n\n%s sent you a message:\n\n%s\n\nRead it here: %s\n",
			message.Recipient.Name, message.Sender.Name, message.Body, link),
	}

	if err := s.notifier.Send(ctx, email); err != nil {
		log.Printf("Failed to notify user %d about message %d: %v", message.RecipientID, message.ID, err)
	}
}
