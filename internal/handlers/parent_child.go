package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/dto"
	apierrors "github.com/yukikurage/club-backoffice/internal/errors"
	"github.com/yukikurage/club-backoffice/internal/middleware"
	"github.com/yukikurage/club-backoffice/internal/services"
)

type ParentChildHandler struct {
	parentChildService *services.ParentChildService
}

func NewParentChildHandler(parentChildService *services.ParentChildService) *ParentChildHandler {
	return &ParentChildHandler{
		parentChildService: parentChildService,
	}
}

// ListChildren returns the children of the parent in the path
func (h *ParentChildHandler) ListChildren(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	children, err := h.parentChildService.ListChildrenFor(actor, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToChildDTOs(children))
}

// MyChildren returns the children of the logged-in parent
func (h *ParentChildHandler) MyChildren(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	children, err := h.parentChildService.ListChildrenFor(actor, actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToChildDTOs(children))
}

// Link creates an explicit parent/child link
func (h *ParentChildHandler) Link(c *gin.Context) {
	type LinkRequest struct {
		ParentUserID  uint64 `json:"parent_user_id" binding:"required"`
		ChildMemberID uint64 `json:"child_member_id" binding:"required"`
	}

	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	link, err := h.parentChildService.Link(req.ParentUserID, req.ChildMemberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToParentChildDTO(*link))
}

// Unlink removes an explicit parent/child link
func (h *ParentChildHandler) Unlink(c *gin.Context) {
	err := h.parentChildService.Unlink(middleware.GetIDParam(c, "parentId"), middleware.GetIDParam(c, "memberId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Link removed",
	})
}

// Sync turns every parent email match into an explicit link
func (h *ParentChildHandler) Sync(c *gin.Context) {
	added, err := h.parentChildService.SyncByEmail()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"added": added,
	})
}

// Orphans lists members without a reachable parent and stale links
func (h *ParentChildHandler) Orphans(c *gin.Context) {
	report, err := h.parentChildService.FindOrphans()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToOrphansDTO(*report))
}
