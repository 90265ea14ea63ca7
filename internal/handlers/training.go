package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/dto"
	apierrors "github.com/yukikurage/club-backoffice/internal/errors"
	"github.com/yukikurage/club-backoffice/internal/middleware"
	"github.com/yukikurage/club-backoffice/internal/services"
)

type TrainingHandler struct {
	trainingService *services.TrainingService
}

func NewTrainingHandler(trainingService *services.TrainingService) *TrainingHandler {
	return &TrainingHandler{
		trainingService: trainingService,
	}
}

// ListTrainings returns trainings of the teams visible to the current user
// Can filter by team_id, from and to
func (h *TrainingHandler) ListTrainings(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	teamID, ok := queryID(c, "team_id")
	if !ok {
		return
	}
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}

	trainings, err := h.trainingService.ListTrainings(actor, teamID, from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTrainingDTOs(trainings))
}

func (h *TrainingHandler) GetTraining(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	training, err := h.trainingService.GetTraining(actor, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTrainingDTO(*training))
}

func (h *TrainingHandler) CreateTraining(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	training, err := h.trainingService.CreateTraining(actor, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToTrainingDTO(*training))
}

func (h *TrainingHandler) UpdateTraining(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	training, err := h.trainingService.UpdateTraining(actor, middleware.GetIDParam(c, "id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTrainingDTO(*training))
}

func (h *TrainingHandler) DeleteTraining(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.trainingService.DeleteTraining(actor, middleware.GetIDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Training deleted",
	})
}

// RespondAttendance records a member's answer for a training
func (h *TrainingHandler) RespondAttendance(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	attendance, err := h.trainingService.RespondAttendance(actor,
		middleware.GetIDParam(c, "id"), middleware.GetIDParam(c, "memberId"), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTrainingAttendanceDTO(*attendance))
}
