package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/middleware"
	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/repository"
)

// Handlers bundles every resource handler served under /api.
type Handlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Member      *MemberHandler
	Team        *TeamHandler
	ParentChild *ParentChildHandler
	Training    *TrainingHandler
	Event       *EventHandler
	Message     *MessageHandler
	Regelwerk   *RegelwerkHandler
	Report      *ReportHandler
}

// RegisterRoutes mounts the health check and the API with its role guards.
func RegisterRoutes(r *gin.Engine, h Handlers, userRepo repository.UserRepository) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Club Backoffice API is running",
		})
	})

	managers := middleware.RequireRole(models.RoleAdmin, models.RoleManager)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleCoach)
	admins := middleware.RequireRole(models.RoleAdmin)
	withID := middleware.RequireIDParams("id")
	respondFor := middleware.RequireIDParams("id", "memberId")

	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", middleware.RequireAuth(userRepo), h.Auth.GetCurrentUser)
			auth.PATCH("/password", middleware.RequireAuth(userRepo), h.Auth.ChangePassword)
		}

		protected := api.Group("")
		protected.Use(middleware.RequireAuth(userRepo))

		users := protected.Group("/users")
		{
			users.GET("/directory", h.User.Directory)
			users.GET("", managers, h.User.ListUsers)
			users.GET("/:id", managers, withID, h.User.GetUser)
			users.POST("", admins, h.User.CreateUser)
			users.PATCH("/:id", admins, withID, h.User.UpdateUser)
			users.DELETE("/:id", admins, withID, h.User.DeleteUser)
		}

		members := protected.Group("/members")
		{
			members.GET("", h.Member.ListMembers)
			members.GET("/:id", withID, h.Member.GetMember)
			members.POST("", managers, h.Member.CreateMember)
			members.PATCH("/:id", managers, withID, h.Member.UpdateMember)
			members.DELETE("/:id", managers, withID, h.Member.DeleteMember)
		}

		teams := protected.Group("/teams")
		{
			teams.GET("", h.Team.ListTeams)
			teams.GET("/:id", withID, h.Team.GetTeam)
			teams.POST("", managers, h.Team.CreateTeam)
			teams.PATCH("/:id", managers, withID, h.Team.UpdateTeam)
			teams.DELETE("/:id", managers, withID, h.Team.DeleteTeam)
			teams.PUT("/:id/coaches", managers, withID, h.Team.SetCoaches)
		}

		// Parent/child reconciliation
		protected.GET("/parents/:id/children", withID, middleware.RequireSelfOrManager("id"), h.ParentChild.ListChildren)
		protected.GET("/me/children", h.ParentChild.MyChildren)
		links := protected.Group("/parent-children")
		links.Use(managers)
		{
			links.POST("", h.ParentChild.Link)
			links.POST("/sync", h.ParentChild.Sync)
			links.GET("/orphans", h.ParentChild.Orphans)
			links.DELETE("/:parentId/:memberId", middleware.RequireIDParams("parentId", "memberId"), h.ParentChild.Unlink)
		}

		trainings := protected.Group("/trainings")
		{
			trainings.GET("", h.Training.ListTrainings)
			trainings.GET("/:id", withID, h.Training.GetTraining)
			trainings.POST("", staff, h.Training.CreateTraining)
			trainings.PATCH("/:id", staff, withID, h.Training.UpdateTraining)
			trainings.DELETE("/:id", staff, withID, h.Training.DeleteTraining)
			trainings.PATCH("/:id/attendance/:memberId", respondFor, h.Training.RespondAttendance)
		}

		events := protected.Group("/events")
		{
			events.GET("", h.Event.ListEvents)
			events.GET("/:id", withID, h.Event.GetEvent)
			events.POST("", staff, h.Event.CreateEvent)
			events.PATCH("/:id", staff, withID, h.Event.UpdateEvent)
			events.DELETE("/:id", staff, withID, h.Event.DeleteEvent)
			events.PATCH("/:id/attendance/:memberId", respondFor, h.Event.RespondAttendance)
		}

		messages := protected.Group("/messages")
		{
			messages.GET("", h.Message.ListMessages)
			messages.GET("/unread-count", h.Message.UnreadCount)
			messages.GET("/:id", withID, h.Message.GetMessage)
			messages.POST("", h.Message.SendMessage)
			messages.PATCH("/:id", withID, h.Message.UpdateMessage)
			messages.DELETE("/:id", withID, h.Message.DeleteMessage)
		}

		regelwerke := protected.Group("/regelwerke")
		{
			regelwerke.GET("", staff, h.Regelwerk.ListRegelwerke)
			regelwerke.GET("/:id", staff, withID, h.Regelwerk.GetRegelwerk)
			regelwerke.POST("", managers, h.Regelwerk.CreateRegelwerk)
			regelwerke.PATCH("/:id", managers, withID, h.Regelwerk.UpdateRegelwerk)
			regelwerke.DELETE("/:id", managers, withID, h.Regelwerk.DeleteRegelwerk)
			regelwerke.POST("/:id/assignments", managers, withID, h.Regelwerk.Assign)
			regelwerke.DELETE("/:id/assignments/:assignmentId", managers, middleware.RequireIDParams("id", "assignmentId"), h.Regelwerk.Unassign)
			regelwerke.POST("/:id/read", middleware.RequireRole(models.RoleCoach), withID, h.Regelwerk.MarkRead)
		}

		protected.GET("/reports/attendance", staff, h.Report.AttendanceReport)
	}
}
