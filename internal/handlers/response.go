package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/constants"
	apierrors "github.com/yukikurage/club-backoffice/internal/errors"
	"github.com/yukikurage/club-backoffice/internal/middleware"
	"github.com/yukikurage/club-backoffice/internal/services"
	"github.com/yukikurage/club-backoffice/internal/utils"
)

// respondData writes the success envelope.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondList writes a paginated success envelope.
func respondList(c *gin.Context, data interface{}, params utils.PaginationParams, total int64) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": params.Response(total),
	})
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())

	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrRecipientNotAllowed):
		apierrors.Forbidden(c, err.Error())

	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrCannotDeleteSelf),
		errors.Is(err, services.ErrLinkedMemberMissing),
		errors.Is(err, services.ErrNotParent),
		errors.Is(err, services.ErrInvalidCoach),
		errors.Is(err, services.ErrMultiplePrimaryCoach),
		errors.Is(err, services.ErrCoachNotOnTeam),
		errors.Is(err, services.ErrRecipientsRequired),
		errors.Is(err, services.ErrRecipientNotFound),
		errors.Is(err, services.ErrSubjectBodyRequired),
		errors.Is(err, services.ErrInvalidMessageFolder),
		errors.Is(err, services.ErrInvalidReportYear),
		errors.Is(err, services.ErrInvalidReportMonth):
		apierrors.BadRequest(c, err.Error())

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrTrainingNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrAttendanceNotFound),
		errors.Is(err, services.ErrMessageNotFound),
		errors.Is(err, services.ErrRegelwerkNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrLinkNotFound):
		apierrors.NotFound(c, err.Error())

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrLastAdmin),
		errors.Is(err, services.ErrTeamNameTaken),
		errors.Is(err, services.ErrLinkExists):
		apierrors.Conflict(c, err.Error())

	default:
		log.Printf("[%s] %s %s failed: %v", middleware.GetRequestID(c), c.Request.Method, c.FullPath(), err)
		apierrors.InternalError(c, "Internal server error")
	}
}

// currentActor returns the actor set by RequireAuth, aborting with 401 when missing.
func currentActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return services.Actor{}, false
	}
	return actor, true
}

// queryID parses an optional numeric query parameter.
func queryID(c *gin.Context, name string) (*uint64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, name string) (*time.Time, bool) {
	date, err := utils.ParseOptionalDate(c.Query(name))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return nil, false
	}
	return date, true
}

// parseDateField parses an optional YYYY-MM-DD body field.
func parseDateField(c *gin.Context, value *string) (*time.Time, bool) {
	if value == nil {
		return nil, true
	}
	date, err := utils.ParseDate(*value)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return nil, false
	}
	return &date, true
}
