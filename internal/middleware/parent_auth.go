package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/club-backoffice/internal/errors"
)

// RequireSelfOrManager lets admins and managers through, and any other user
// only when the path parameter is their own user ID.
func RequireSelfOrManager(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		if user.Role.CanManage() {
			c.Next()
			return
		}

		if GetIDParam(c, param) != user.ID {
			apierrors.Forbidden(c, "")
			return
		}
		c.Next()
	}
}
