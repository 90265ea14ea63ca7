package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/dto"
	apierrors "github.com/yukikurage/club-backoffice/internal/errors"
	"github.com/yukikurage/club-backoffice/internal/middleware"
	"github.com/yukikurage/club-backoffice/internal/repository"
	"github.com/yukikurage/club-backoffice/internal/services"
	"github.com/yukikurage/club-backoffice/internal/utils"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// ListMessages returns one mailbox folder of the current user
func (h *MessageHandler) ListMessages(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	folder := repository.MessageFolder(c.DefaultQuery("folder", string(repository.FolderInbox)))
	messages, total, err := h.messageService.ListMessages(actor, folder, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondList(c, dto.ToMessageDTOs(messages), params, total)
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	count, err := h.messageService.UnreadCount(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"unread": count,
	})
}

// GetMessage returns a message and marks it read for the recipient
func (h *MessageHandler) GetMessage(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	message, err := h.messageService.GetMessage(actor, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToMessageDTO(*message))
}

// SendMessage delivers a message to every listed recipient
func (h *MessageHandler) SendMessage(c *gin.Context) {
	type SendMessageRequest struct {
		RecipientIDs []uint64 `json:"recipient_ids" binding:"required,min=1"`
		Subject      string   `json:"subject" binding:"required"`
		Body         string   `json:"body" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	messages, err := h.messageService.SendMessage(c.Request.Context(), actor, services.SendMessageInput{
		RecipientIDs: req.RecipientIDs,
		Subject:      req.Subject,
		Body:         req.Body,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToMessageDTOs(messages))
}

// UpdateMessage changes the recipient's read and starred flags
func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	type UpdateMessageRequest struct {
		IsRead    *bool `json:"is_read"`
		IsStarred *bool `json:"is_starred"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.messageService.UpdateFlags(actor, middleware.GetIDParam(c, "id"), services.MessageFlags{
		IsRead:    req.IsRead,
		IsStarred: req.IsStarred,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToMessageDTO(*message))
}

func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.messageService.DeleteMessage(actor, middleware.GetIDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Message deleted",
	})
}
