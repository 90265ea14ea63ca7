package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/dto"
	apierrors "github.com/yukikurage/club-backoffice/internal/errors"
	"github.com/yukikurage/club-backoffice/internal/middleware"
	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/services"
	"github.com/yukikurage/club-backoffice/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns accounts, optionally filtered by role
func (h *UserHandler) ListUsers(c *gin.Context) {
	role, ok := queryRole(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.userService.ListUsers(role, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondList(c, dto.ToUserDTOs(users), params, total)
}

// Directory lists every user with name and role, for picking recipients
func (h *UserHandler) Directory(c *gin.Context) {
	role, ok := queryRole(c)
	if !ok {
		return
	}

	users, err := h.userService.Directory(role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToUserSummaryDTOs(users))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(middleware.GetIDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToUserDTO(*user))
}

// CreateUser creates an account. Without a password a temporary one is
// returned once in the response.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Name     string      `json:"name" binding:"required"`
		Email    string      `json:"email" binding:"required,email"`
		Password string      `json:"password"`
		Role     models.Role `json:"role" binding:"required"`
		MemberID *uint64     `json:"member_id"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, temporary, err := h.userService.CreateUser(services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		MemberID: req.MemberID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.CreatedUserDTO{
		User:              dto.ToUserDTO(*user),
		TemporaryPassword: temporary,
	})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	type UpdateUserRequest struct {
		Name        *string      `json:"name"`
		Email       *string      `json:"email" binding:"omitempty,email"`
		Password    *string      `json:"password"`
		Role        *models.Role `json:"role"`
		MemberID    *uint64      `json:"member_id"`
		ClearMember bool         `json:"clear_member"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(middleware.GetIDParam(c, "id"), services.UpdateUserInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		MemberID:    req.MemberID,
		ClearMember: req.ClearMember,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToUserDTO(*user))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(actor.UserID, middleware.GetIDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "User deleted",
	})
}

func queryRole(c *gin.Context) (*models.Role, bool) {
	raw := c.Query("role")
	if raw == "" {
		return nil, true
	}
	role := models.Role(raw)
	if !role.Valid() {
		apierrors.BadRequest(c, services.ErrInvalidRole.Error())
		return nil, false
	}
	return &role, true
}
