package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/dto"
	apierrors "github.com/yukikurage/club-backoffice/internal/errors"
	"github.com/yukikurage/club-backoffice/internal/middleware"
	"github.com/yukikurage/club-backoffice/internal/services"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// ListEvents returns club-wide events and events of the teams visible to the current user
// Can filter by team_id, from and to
func (h *EventHandler) ListEvents(c *gin.Context) {
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

	events, err := h.eventService.ListEvents(actor, teamID, from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToEventDTOs(events))
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	event, err := h.eventService.GetEvent(actor, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToEventDTO(*event))
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
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

	event, err := h.eventService.CreateEvent(actor, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToEventDTO(*event))
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
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

	event, err := h.eventService.UpdateEvent(actor, middleware.GetIDParam(c, "id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToEventDTO(*event))
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(actor, middleware.GetIDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Event deleted",
	})
}

// RespondAttendance records a member's answer for an event
func (h *EventHandler) RespondAttendance(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	attendance, err := h.eventService.RespondAttendance(actor,
		middleware.GetIDParam(c, "id"), middleware.GetIDParam(c, "memberId"), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToEventAttendanceDTO(*attendance))
}
