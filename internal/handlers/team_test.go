package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/club-backoffice/internal/dto"
	"github.com/yukikurage/club-backoffice/internal/models"
)

func TestTeamHandler_CreateAndRename(t *testing.T) {
	env := setupAPITestEnv(t)
	env.createUser(t, "Manager", "manager@club.test", models.RoleManager)
	cookies := env.login(t, "manager@club.test")

	w := env.request(t, http.MethodPost, "/api/teams", map[string]string{"name": "U12", "level": "Kreisliga"}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var u12 dto.TeamDTO
	decode(t, w, &u12)
	assert.Equal(t, "Kreisliga", u12.Level)

	w = env.request(t, http.MethodPost, "/api/teams", map[string]string{"name": " U12 "}, cookies)
	require.Equal(t, http.StatusConflict, w.Code, "team names are unique")

	w = env.request(t, http.MethodPost, "/api/teams", map[string]string{"name": "  "}, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/api/teams", map[string]string{"name": "U14"}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)
	var u14 dto.TeamDTO
	decode(t, w, &u14)

	path := fmt.Sprintf("/api/teams/%d", u14.ID)
	w = env.request(t, http.MethodPatch, path, map[string]string{"name": "U12"}, cookies)
	require.Equal(t, http.StatusConflict, w.Code)

	w = env.request(t, http.MethodPatch, path, map[string]string{"name": "U15"}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var renamed dto.TeamDTO
	decode(t, w, &renamed)
	assert.Equal(t, "U15", renamed.Name)

	w = env.request(t, http.MethodPatch, fmt.Sprintf("/api/teams/%d", u12.ID), map[string]string{"name": "U12", "level": "Bezirksliga"}, cookies)
	require.Equal(t, http.StatusOK, w.Code, "keeping its own name is not a conflict")
}

func TestTeamHandler_GetTeamScope(t *testing.T) {
	env := setupAPITestEnv(t)
	coach := env.createUser(t, "Coach Carla", "carla@club.test", models.RoleCoach)
	u12 := env.createTeam(t, "U12")
	u14 := env.createTeam(t, "U14")
	require.NoError(t, env.db.Omit("Team", "User").Create(&models.TeamCoach{TeamID: u12.ID, UserID: coach.ID, IsPrimary: true}).Error)
	env.createMember(t, "Anna", &u12.ID, "")
	cookies := env.login(t, "carla@club.test")

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/teams/%d", u12.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var team dto.TeamDTO
	decode(t, w, &team)
	require.Len(t, team.Coaches, 1)
	assert.Equal(t, coach.ID, team.Coaches[0].User.ID)
	require.Len(t, team.Members, 1)
	assert.Equal(t, "Anna", team.Members[0].Name)

	var teams []dto.TeamDTO
	w = env.request(t, http.MethodGet, "/api/teams", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &teams)
	require.Len(t, teams, 1)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/teams/%d", u14.ID), nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("/api/teams/%d", u12.ID), nil, cookies)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTeamHandler_DeleteDetachesMembers(t *testing.T) {
	env := setupAPITestEnv(t)
	manager := env.createUser(t, "Manager", "manager@club.test", models.RoleManager)
	team := env.createTeam(t, "U12")
	anna := env.createMember(t, "Anna", &team.ID, "")

	training := &models.Training{TeamID: team.ID, Date: time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC), StartTime: "17:00", EndTime: "18:00", CreatedByID: manager.ID}
	require.NoError(t, env.db.Omit("Team", "Attendance").Create(training).Error)

	cookies := env.login(t, "manager@club.test")
	path := fmt.Sprintf("/api/teams/%d", team.ID)
	w := env.request(t, http.MethodDelete, path, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var member models.Member
	require.NoError(t, env.db.First(&member, anna.ID).Error)
	assert.Nil(t, member.TeamID, "members stay on the roster without a team")

	var count int64
	require.NoError(t, env.db.Model(&models.Training{}).Count(&count).Error)
	assert.Zero(t, count)

	w = env.request(t, http.MethodGet, path, nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = env.request(t, http.MethodDelete, path, nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}
