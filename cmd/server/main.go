package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/config"
	"github.com/yukikurage/club-backoffice/internal/constants"
	"github.com/yukikurage/club-backoffice/internal/database"
	"github.com/yukikurage/club-backoffice/internal/handlers"
	"github.com/yukikurage/club-backoffice/internal/middleware"
	"github.com/yukikurage/club-backoffice/internal/notify"
	"github.com/yukikurage/club-backoffice/internal/repository"
	"github.com/yukikurage/club-backoffice/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	linkRepo := repository.NewParentChildRepository(db)
	trainingRepo := repository.NewTrainingRepository(db)
	eventRepo := repository.NewEventRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	regelwerkRepo := repository.NewRegelwerkRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Bootstrap the first admin
	authService := services.NewAuthService(userRepo)
	if cfg.BootstrapAdminEmail != "" && cfg.BootstrapAdminPassword != "" {
		created, err := authService.EnsureAdmin(cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword, cfg.BootstrapAdminName)
		if err != nil {
			log.Fatalf("Failed to bootstrap admin: %v", err)
		}
		if created {
			log.Printf("Bootstrap admin %s created", cfg.BootstrapAdminEmail)
		}
	}

	notifier, err := notify.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to configure mail notifications: %v", err)
	}

	// Services
	parentChildService := services.NewParentChildService(linkRepo, userRepo, memberRepo)
	accessService := services.NewAccessService(teamRepo, memberRepo, parentChildService)
	userService := services.NewUserService(userRepo, memberRepo)
	memberService := services.NewMemberService(memberRepo, teamRepo, accessService)
	teamService := services.NewTeamService(teamRepo, userRepo, accessService)
	trainingService := services.NewTrainingService(trainingRepo, memberRepo, teamRepo, accessService)
	eventService := services.NewEventService(eventRepo, memberRepo, teamRepo, accessService)
	messageService := services.NewMessageService(messageRepo, userRepo, notifier, cfg.AppBaseURL)
	regelwerkService := services.NewRegelwerkService(regelwerkRepo, teamRepo)
	reportService := services.NewReportService(reportRepo, teamRepo, accessService)

	// Initialize handlers
	h := handlers.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		User:        handlers.NewUserHandler(userService),
		Member:      handlers.NewMemberHandler(memberService),
		Team:        handlers.NewTeamHandler(teamService),
		ParentChild: handlers.NewParentChildHandler(parentChildService),
		Training:    handlers.NewTrainingHandler(trainingService),
		Event:       handlers.NewEventHandler(eventService),
		Message:     handlers.NewMessageHandler(messageService),
		Regelwerk:   handlers.NewRegelwerkHandler(regelwerkService),
		Report:      handlers.NewReportHandler(reportService),
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())
	r.Use(sessions.Sessions(constants.SessionCookieName, newSessionStore(cfg)))
	handlers.RegisterRoutes(r, h, userRepo)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newSessionStore uses Redis when REDIS_HOST is set and signed cookies otherwise.
func newSessionStore(cfg *config.Config) sessions.Store {
	var store sessions.Store
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			cfg.RedisPassword,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			log.Fatalf("Failed to create Redis store: %v", err)
		}
		store = rs
	} else {
		log.Println("REDIS_HOST not set, using cookie sessions")
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
