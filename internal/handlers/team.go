package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/dto"
	apierrors "github.com/yukikurage/club-backoffice/internal/errors"
	"github.com/yukikurage/club-backoffice/internal/middleware"
	"github.com/yukikurage/club-backoffice/internal/services"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

type teamRequest struct {
	Name  *string `json:"name"`
	Level *string `json:"level"`
}

// ListTeams returns the teams visible to the current user
func (h *TeamHandler) ListTeams(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	teams, err := h.teamService.ListTeams(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTeamDTOs(teams))
}

// GetTeam returns a team with its coaches and members
func (h *TeamHandler) GetTeam(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(actor, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTeamDTO(*team))
}

func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(services.TeamInput{Name: req.Name, Level: req.Level})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToTeamDTO(*team))
}

func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.UpdateTeam(middleware.GetIDParam(c, "id"), services.TeamInput{Name: req.Name, Level: req.Level})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTeamDTO(*team))
}

func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	if err := h.teamService.DeleteTeam(middleware.GetIDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Team deleted",
	})
}

// SetCoaches replaces the coach list of a team
func (h *TeamHandler) SetCoaches(c *gin.Context) {
	type CoachRequest struct {
		UserID    uint64 `json:"user_id" binding:"required"`
		IsPrimary bool   `json:"is_primary"`
	}
	type SetCoachesRequest struct {
		Coaches []CoachRequest `json:"coaches" binding:"dive"`
	}

	var req SetCoachesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	inputs := make([]services.CoachInput, len(req.Coaches))
	for i, coach := range req.Coaches {
		inputs[i] = services.CoachInput{UserID: coach.UserID, IsPrimary: coach.IsPrimary}
	}

	team, err := h.teamService.SetCoaches(middleware.GetIDParam(c, "id"), inputs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTeamDTO(*team))
}
