package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/club-backoffice/internal/constants"
	"github.com/yukikurage/club-backoffice/internal/database"
	"github.com/yukikurage/club-backoffice/internal/middleware"
	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/notify"
	"github.com/yukikurage/club-backoffice/internal/repository"
	"github.com/yukikurage/club-backoffice/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "supersecret"

type apiTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	userService *services.UserService
	authService *services.AuthService
}

func setupAPITestEnv(t *testing.T) apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models...))
	require.NoError(t, database.MigrateDatabase(db))
	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	teamRepo := repository.NewTeamRepository(db)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, memberRepo)
	parentChildService := services.NewParentChildService(repository.NewParentChildRepository(db), userRepo, memberRepo)
	accessService := services.NewAccessService(teamRepo, memberRepo, parentChildService)
	memberService := services.NewMemberService(memberRepo, teamRepo, accessService)
	teamService := services.NewTeamService(teamRepo, userRepo, accessService)
	trainingService := services.NewTrainingService(repository.NewTrainingRepository(db), memberRepo, teamRepo, accessService)
	eventService := services.NewEventService(repository.NewEventRepository(db), memberRepo, teamRepo, accessService)
	messageService := services.NewMessageService(repository.NewMessageRepository(db), userRepo, notify.Nop{}, "http://club.test")
	regelwerkService := services.NewRegelwerkService(repository.NewRegelwerkRepository(db), teamRepo)
	reportService := services.NewReportService(repository.NewReportRepository(db), teamRepo, accessService)

	r := gin.New()
	r.Use(middleware.RequestID())
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	RegisterRoutes(r, Handlers{
		Auth:        NewAuthHandler(authService),
		User:        NewUserHandler(userService),
		Member:      NewMemberHandler(memberService),
		Team:        NewTeamHandler(teamService),
		ParentChild: NewParentChildHandler(parentChildService),
		Training:    NewTrainingHandler(trainingService),
		Event:       NewEventHandler(eventService),
		Message:     NewMessageHandler(messageService),
		Regelwerk:   NewRegelwerkHandler(regelwerkService),
		Report:      NewReportHandler(reportService),
	}, userRepo)

	return apiTestEnv{
		db:          db,
		router:      r,
		userService: userService,
		authService: authService,
	}
}

func (env apiTestEnv) createUser(t *testing.T, name, email string, role models.Role) *models.User {
	t.Helper()

	user, _, err := env.userService.CreateUser(services.CreateUserInput{
		Name:     name,
		Email:    email,
		Password: testPassword,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func (env apiTestEnv) createTeam(t *testing.T, name string) *models.Team {
	t.Helper()

	team := &models.Team{Name: name}
	require.NoError(t, env.db.Create(team).Error)
	return team
}

func (env apiTestEnv) createMember(t *testing.T, name string, teamID *uint64, parentEmail string) *models.Member {
	t.Helper()

	member := &models.Member{Name: name, TeamID: teamID, ParentEmail: parentEmail}
	require.NoError(t, env.db.Create(member).Error)
	return member
}

// login signs in through the API and returns the session cookies.
func (env apiTestEnv) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()

	w := env.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": testPassword,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
	return cookies
}

func (env apiTestEnv) request(t *testing.T, method, path string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

// decode unwraps the response envelope into out.
func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.True(t, env.Success, w.Body.String())
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}
