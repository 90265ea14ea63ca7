package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/club-backoffice/internal/errors"
)

const paramKeyPrefix = "param:"

// RequireIDParams parses numeric path parameters and stores them in context.
// A malformed ID is rejected with 400 before the handler runs.
func RequireIDParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			id, err := strconv.ParseUint(c.Param(name), 10, 64)
			if err != nil || id == 0 {
				apierrors.BadRequest(c, "Invalid "+name)
				return
			}
			c.Set(paramKeyPrefix+name, id)
		}
		c.Next()
	}
}

// GetIDParam retrieves a path ID parsed by RequireIDParams
func GetIDParam(c *gin.Context, name string) uint64 {
	value, exists := c.Get(paramKeyPrefix + name)
	if !exists {
		return 0
	}
	id, _ := value.(uint64)
	return id
}
