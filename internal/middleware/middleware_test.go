package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/club-backoffice/internal/constants"
	"github.com/yukikurage/club-backoffice/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireIDParams(t *testing.T) {
	r := gin.New()
	r.GET("/teams/:id/members/:memberId", RequireIDParams("id", "memberId"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":        GetIDParam(c, "id"),
			"member_id": GetIDParam(c, "memberId"),
		})
	})

	tests := []struct {
		path   string
		status int
	}{
		{"/teams/3/members/9", http.StatusOK},
		{"/teams/abc/members/9", http.StatusBadRequest},
		{"/teams/3/members/0", http.StatusBadRequest},
		{"/teams/-1/members/9", http.StatusBadRequest},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		require.Equal(t, tt.status, w.Code, tt.path)
	}
}

func TestRequireRole(t *testing.T) {
	withUser := func(role models.Role) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(constants.ContextKeyUser, &models.User{ID: 1, Role: role})
			c.Next()
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	r := gin.New()
	r.GET("/coach", withUser(models.RoleCoach), RequireRole(models.RoleAdmin, models.RoleManager), ok)
	r.GET("/manager", withUser(models.RoleManager), RequireRole(models.RoleAdmin, models.RoleManager), ok)
	r.GET("/anonymous", RequireRole(models.RoleAdmin), ok)

	for path, status := range map[string]int{
		"/coach":     http.StatusForbidden,
		"/manager":   http.StatusNoContent,
		"/anonymous": http.StatusUnauthorized,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, status, w.Code, path)
	}
}

func TestRequireSelfOrManager(t *testing.T) {
	withUser := func(id uint64, role models.Role) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(constants.ContextKeyUser, &models.User{ID: id, Role: role})
			c.Next()
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	r := gin.New()
	r.GET("/parent/:id", withUser(5, models.RoleParent), RequireIDParams("id"), RequireSelfOrManager("id"), ok)
	r.GET("/manager/:id", withUser(1, models.RoleManager), RequireIDParams("id"), RequireSelfOrManager("id"), ok)

	for path, status := range map[string]int{
		"/parent/5":  http.StatusNoContent,
		"/parent/6":  http.StatusForbidden,
		"/manager/6": http.StatusNoContent,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, status, w.Code, path)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, w.Body.String())
	require.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))

	const incoming = "0b6f6d2e-6a53-4c8e-9d55-3b1c2f7a9e10"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, incoming, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "not a uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.NotEqual(t, "not a uuid", w.Body.String())
}
