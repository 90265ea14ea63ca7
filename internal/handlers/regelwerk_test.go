package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/club-backoffice/internal/dto"
	"github.com/yukikurage/club-backoffice/internal/models"
)

func TestRegelwerkHandler_AssignReadAndNewVersion(t *testing.T) {
	env := setupAPITestEnv(t)
	env.createUser(t, "Manager", "manager@club.test", models.RoleManager)
	coach := env.createUser(t, "Coach Carla", "carla@club.test", models.RoleCoach)
	team := env.createTeam(t, "U12")
	other := env.createTeam(t, "U14")
	require.NoError(t, env.db.Omit("Team", "User").Create(&models.TeamCoach{TeamID: team.ID, UserID: coach.ID, IsPrimary: true}).Error)

	managerCookies := env.login(t, "manager@club.test")
	w := env.request(t, http.MethodPost, "/api/regelwerke", map[string]string{
		"title":   "Hallenordnung",
		"content": "# Rules\n\n<script>alert(1)</script>",
	}, managerCookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.RegelwerkDTO
	decode(t, w, &created)
	require.Equal(t, 1, created.Version)

	assignPath := fmt.Sprintf("/api/regelwerke/%d/assignments", created.ID)
	w = env.request(t, http.MethodPost, assignPath, map[string]uint64{"coach_user_id": coach.ID, "team_id": other.ID}, managerCookies)
	require.Equal(t, http.StatusBadRequest, w.Code, "coach must coach the team")

	w = env.request(t, http.MethodPost, assignPath, map[string]uint64{"coach_user_id": coach.ID, "team_id": team.ID}, managerCookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first dto.RegelwerkAssignmentDTO
	decode(t, w, &first)

	w = env.request(t, http.MethodPost, assignPath, map[string]uint64{"coach_user_id": coach.ID, "team_id": team.ID}, managerCookies)
	require.Equal(t, http.StatusOK, w.Code, "duplicate assignment is ignored")
	var again dto.RegelwerkAssignmentDTO
	decode(t, w, &again)
	require.Equal(t, first.ID, again.ID)

	coachCookies := env.login(t, "carla@club.test")
	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/regelwerke/%d", created.ID), nil, coachCookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var detail dto.RegelwerkDetailDTO
	decode(t, w, &detail)
	require.Contains(t, detail.ContentHTML, "<h1>Rules</h1>")
	require.NotContains(t, detail.ContentHTML, "<script>")

	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/regelwerke/%d/read", created.ID), nil, coachCookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var assigned []dto.AssignedRegelwerkDTO
	w = env.request(t, http.MethodGet, "/api/regelwerke", nil, coachCookies)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &assigned)
	require.Len(t, assigned, 1)
	require.True(t, assigned[0].IsRead)

	w = env.request(t, http.MethodPatch, fmt.Sprintf("/api/regelwerke/%d", created.ID), map[string]string{
		"content": "# Rules v2",
	}, managerCookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated dto.RegelwerkDTO
	decode(t, w, &updated)
	require.Equal(t, 2, updated.Version)

	w = env.request(t, http.MethodGet, "/api/regelwerke", nil, coachCookies)
	decode(t, w, &assigned)
	require.False(t, assigned[0].IsRead, "new content must be read again")
}

func TestRegelwerkHandler_UnassignedCoachCannotOpen(t *testing.T) {
	env := setupAPITestEnv(t)
	env.createUser(t, "Manager", "manager@club.test", models.RoleManager)
	env.createUser(t, "Coach Carla", "carla@club.test", models.RoleCoach)
	env.createUser(t, "Paula", "paula@club.test", models.RoleParent)

	w := env.request(t, http.MethodPost, "/api/regelwerke", map[string]string{"title": "Kodex"}, env.login(t, "manager@club.test"))
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.RegelwerkDTO
	decode(t, w, &created)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/regelwerke/%d", created.ID), nil, env.login(t, "carla@club.test"))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodGet, "/api/regelwerke", nil, env.login(t, "paula@club.test"))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegelwerkHandler_UnassignAndDelete(t *testing.T) {
	env := setupAPITestEnv(t)
	env.createUser(t, "Manager", "manager@club.test", models.RoleManager)
	coach := env.createUser(t, "Coach Carla", "carla@club.test", models.RoleCoach)
	team := env.createTeam(t, "U12")
	require.NoError(t, env.db.Omit("Team", "User").Create(&models.TeamCoach{TeamID: team.ID, UserID: coach.ID, IsPrimary: true}).Error)
	cookies := env.login(t, "manager@club.test")

	w := env.request(t, http.MethodPost, "/api/regelwerke", map[string]string{"title": "Kodex", "content": "Be kind."}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.RegelwerkDTO
	decode(t, w, &created)

	w = env.request(t, http.MethodPost, "/api/regelwerke", map[string]string{"title": "Hallenordnung"}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)
	var other dto.RegelwerkDTO
	decode(t, w, &other)

	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/regelwerke/%d/assignments", created.ID),
		map[string]uint64{"coach_user_id": coach.ID, "team_id": team.ID}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var assignment dto.RegelwerkAssignmentDTO
	decode(t, w, &assignment)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("/api/regelwerke/%d/assignments/%d", other.ID, assignment.ID), nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code, "the assignment belongs to another document")

	path := fmt.Sprintf("/api/regelwerke/%d/assignments/%d", created.ID, assignment.ID)
	w = env.request(t, http.MethodDelete, path, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = env.request(t, http.MethodDelete, path, nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/regelwerke/%d", created.ID), nil, env.login(t, "carla@club.test"))
	require.Equal(t, http.StatusNotFound, w.Code, "unassigned documents are hidden from the coach")

	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/regelwerke/%d/assignments", created.ID),
		map[string]uint64{"coach_user_id": coach.ID, "team_id": team.ID}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	docPath := fmt.Sprintf("/api/regelwerke/%d", created.ID)
	w = env.request(t, http.MethodDelete, docPath, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	require.NoError(t, env.db.Model(&models.RegelwerkAssignment{}).Count(&count).Error)
	require.Zero(t, count, "assignments go with the document")

	w = env.request(t, http.MethodGet, docPath, nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = env.request(t, http.MethodDelete, docPath, nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}
