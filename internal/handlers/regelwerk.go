package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/dto"
	apierrors "github.com/yukikurage/club-backoffice/internal/errors"
	"github.com/yukikurage/club-backoffice/internal/middleware"
	"github.com/yukikurage/club-backoffice/internal/services"
)

type RegelwerkHandler struct {
	regelwerkService *services.RegelwerkService
}

func NewRegelwerkHandler(regelwerkService *services.RegelwerkService) *RegelwerkHandler {
	return &RegelwerkHandler{
		regelwerkService: regelwerkService,
	}
}

type regelwerkRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

func (r regelwerkRequest) toInput() services.RegelwerkInput {
	return services.RegelwerkInput{Title: r.Title, Description: r.Description, Content: r.Content}
}

// ListRegelwerke returns all documents for managers and the assignments of a coach
func (h *RegelwerkHandler) ListRegelwerke(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if actor.Role.CanManage() {
		regelwerke, err := h.regelwerkService.ListRegelwerke()
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, dto.ToRegelwerkDTOs(regelwerke))
		return
	}

	assignments, err := h.regelwerkService.ListAssigned(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.ToAssignedRegelwerkDTOs(assignments))
}

func (h *RegelwerkHandler) GetRegelwerk(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	view, err := h.regelwerkService.GetRegelwerk(actor, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToRegelwerkDetailDTO(*view))
}

func (h *RegelwerkHandler) CreateRegelwerk(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req regelwerkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	regelwerk, err := h.regelwerkService.CreateRegelwerk(actor, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToRegelwerkDTO(*regelwerk))
}

func (h *RegelwerkHandler) UpdateRegelwerk(c *gin.Context) {
	var req regelwerkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	regelwerk, err := h.regelwerkService.UpdateRegelwerk(middleware.GetIDParam(c, "id"), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToRegelwerkDTO(*regelwerk))
}

func (h *RegelwerkHandler) DeleteRegelwerk(c *gin.Context) {
	if err := h.regelwerkService.DeleteRegelwerk(middleware.GetIDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Regelwerk deleted",
	})
}

// Assign hands a document to a coach for one of their teams
func (h *RegelwerkHandler) Assign(c *gin.Context) {
	type AssignRequest struct {
		CoachUserID uint64 `json:"coach_user_id" binding:"required"`
		TeamID      uint64 `json:"team_id" binding:"required"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assignment, created, err := h.regelwerkService.Assign(middleware.GetIDParam(c, "id"), req.CoachUserID, req.TeamID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondData(c, status, dto.ToRegelwerkAssignmentDTO(*assignment))
}

func (h *RegelwerkHandler) Unassign(c *gin.Context) {
	err := h.regelwerkService.Unassign(middleware.GetIDParam(c, "id"), middleware.GetIDParam(c, "assignmentId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Assignment removed",
	})
}

// MarkRead records that the current coach has read the document
func (h *RegelwerkHandler) MarkRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.regelwerkService.MarkRead(actor, middleware.GetIDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Marked as read",
	})
}
