package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/dto"
	apierrors "github.com/yukikurage/club-backoffice/internal/errors"
	"github.com/yukikurage/club-backoffice/internal/middleware"
	"github.com/yukikurage/club-backoffice/internal/services"
	"github.com/yukikurage/club-backoffice/internal/utils"
)

type MemberHandler struct {
	memberService *services.MemberService
}

func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// memberRequest is shared by create and update. Absent fields stay unchanged.
type memberRequest struct {
	Name        *string `json:"name"`
	BirthDate   *string `json:"birth_date"`
	ClearBirth  bool    `json:"clear_birth_date"`
	TeamID      *uint64 `json:"team_id"`
	ClearTeam   bool    `json:"clear_team"`
	ParentName  *string `json:"parent_name"`
	ParentEmail *string `json:"parent_email" binding:"omitempty,email"`
	ParentPhone *string `json:"parent_phone"`
}

func (r memberRequest) toInput(c *gin.Context) (services.MemberInput, bool) {
	birth, ok := parseDateField(c, r.BirthDate)
	if !ok {
		return services.MemberInput{}, false
	}

	return services.MemberInput{
		Name:        r.Name,
		BirthDate:   birth,
		ClearBirth:  r.ClearBirth,
		TeamID:      r.TeamID,
		ClearTeam:   r.ClearTeam,
		ParentName:  r.ParentName,
		ParentEmail: r.ParentEmail,
		ParentPhone: r.ParentPhone,
	}, true
}

// ListMembers returns the members visible to the current user
func (h *MemberHandler) ListMembers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	teamID, ok := queryID(c, "team_id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	members, total, err := h.memberService.ListMembers(actor, teamID, c.Query("search"), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondList(c, dto.ToMemberDTOs(members), params, total)
}

func (h *MemberHandler) GetMember(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	member, err := h.memberService.GetMember(actor, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToMemberDTO(*member))
}

func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	member, err := h.memberService.CreateMember(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToMemberDTO(*member))
}

func (h *MemberHandler) UpdateMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	member, err := h.memberService.UpdateMember(middleware.GetIDParam(c, "id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToMemberDTO(*member))
}

func (h *MemberHandler) DeleteMember(c *gin.Context) {
	if err := h.memberService.DeleteMember(middleware.GetIDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Member deleted",
	})
}
