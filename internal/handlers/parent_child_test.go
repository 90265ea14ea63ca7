package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/club-backoffice/internal/dto"
	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/services"
)

func TestParentChildHandler_ListChildrenMergesSources(t *testing.T) {
	env := setupAPITestEnv(t)
	env.createUser(t, "Manager", "manager@club.test", models.RoleManager)
	parent := env.createUser(t, "Paula", "paula@club.test", models.RoleParent)
	team := env.createTeam(t, "U10")

	linked := env.createMember(t, "Anna", &team.ID, "")
	both := env.createMember(t, "Ben", &team.ID, " Paula@Club.test ")
	byEmail := env.createMember(t, "Clara", nil, "paula@club.test")
	env.createMember(t, "Dora", &team.ID, "")

	cookies := env.login(t, "manager@club.test")
	for _, memberID := range []uint64{linked.ID, both.ID} {
		w := env.request(t, http.MethodPost, "/api/parent-children", map[string]uint64{
			"parent_user_id":  parent.ID,
			"child_member_id": memberID,
		}, cookies)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/parents/%d/children", parent.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var children []dto.ChildDTO
	decode(t, w, &children)
	require.Len(t, children, 3, "a member without parent email or link never appears")

	require.Equal(t, linked.ID, children[0].ID)
	require.Equal(t, services.ChildSourceLinked, children[0].Source)
	require.Equal(t, both.ID, children[1].ID)
	require.Equal(t, services.ChildSourceBoth, children[1].Source)
	require.Equal(t, byEmail.ID, children[2].ID)
	require.Equal(t, services.ChildSourceEmail, children[2].Source)
}

func TestParentChildHandler_LinkValidation(t *testing.T) {
	env := setupAPITestEnv(t)
	env.createUser(t, "Manager", "manager@club.test", models.RoleManager)
	parent := env.createUser(t, "Paula", "paula@club.test", models.RoleParent)
	coach := env.createUser(t, "Carla", "carla@club.test", models.RoleCoach)
	member := env.createMember(t, "Anna", nil, "")
	cookies := env.login(t, "manager@club.test")

	link := func(parentID, memberID uint64) int {
		return env.request(t, http.MethodPost, "/api/parent-children", map[string]uint64{
			"parent_user_id":  parentID,
			"child_member_id": memberID,
		}, cookies).Code
	}

	require.Equal(t, http.StatusBadRequest, link(coach.ID, member.ID), "only parents can be linked")
	require.Equal(t, http.StatusNotFound, link(parent.ID, member.ID+100))
	require.Equal(t, http.StatusCreated, link(parent.ID, member.ID))
	require.Equal(t, http.StatusConflict, link(parent.ID, member.ID))
}

func TestParentChildHandler_SyncIsIdempotent(t *testing.T) {
	env := setupAPITestEnv(t)
	env.createUser(t, "Manager", "manager@club.test", models.RoleManager)
	env.createUser(t, "Paula", "paula@club.test", models.RoleParent)
	env.createUser(t, "Coach Carla", "carla@club.test", models.RoleCoach)
	env.createMember(t, "Anna", nil, "PAULA@club.test")
	env.createMember(t, "Ben", nil, "paula@club.test")
	env.createMember(t, "Cem", nil, "carla@club.test")
	cookies := env.login(t, "manager@club.test")

	var result struct {
		Added int64 `json:"added"`
	}

	w := env.request(t, http.MethodPost, "/api/parent-children/sync", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &result)
	require.Equal(t, int64(2), result.Added, "only users with the parent role are matched")

	w = env.request(t, http.MethodPost, "/api/parent-children/sync", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &result)
	require.Zero(t, result.Added)
}

func TestParentChildHandler_Orphans(t *testing.T) {
	env := setupAPITestEnv(t)
	env.createUser(t, "Manager", "manager@club.test", models.RoleManager)
	former := env.createUser(t, "Former Parent", "former@club.test", models.RoleParent)
	unmatched := env.createMember(t, "Anna", nil, "nobody@club.test")
	unlinked := env.createMember(t, "Ben", nil, "")
	linked := env.createMember(t, "Clara", nil, "")

	require.NoError(t, env.db.Omit("Parent", "Child").Create(&models.ParentChild{ParentUserID: former.ID, ChildMemberID: linked.ID}).Error)
	require.NoError(t, env.db.Model(former).Update("role", models.RoleMember).Error)

	cookies := env.login(t, "manager@club.test")
	w := env.request(t, http.MethodGet, "/api/parent-children/orphans", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var orphans dto.OrphansDTO
	decode(t, w, &orphans)
	require.Len(t, orphans.Unmatched, 1)
	require.Equal(t, unmatched.ID, orphans.Unmatched[0].ID)
	require.Len(t, orphans.Unlinked, 1)
	require.Equal(t, unlinked.ID, orphans.Unlinked[0].ID)
	require.Len(t, orphans.StaleLinks, 1)
	require.Equal(t, former.ID, orphans.StaleLinks[0].ParentUserID)
}

func TestParentChildHandler_ParentSeesOnlyOwnChildren(t *testing.T) {
	env := setupAPITestEnv(t)
	parent := env.createUser(t, "Paula", "paula@club.test", models.RoleParent)
	other := env.createUser(t, "Otto", "otto@club.test", models.RoleParent)
	env.createMember(t, "Anna", nil, "paula@club.test")
	cookies := env.login(t, "paula@club.test")

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/parents/%d/children", other.ID), nil, cookies)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/parents/%d/children", parent.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/me/children", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var children []dto.ChildDTO
	decode(t, w, &children)
	require.Len(t, children, 1)
	require.Equal(t, "Anna", children[0].Name)
}

func TestParentChildHandler_Unlink(t *testing.T) {
	env := setupAPITestEnv(t)
	env.createUser(t, "Manager", "manager@club.test", models.RoleManager)
	parent := env.createUser(t, "Paula", "paula@club.test", models.RoleParent)
	anna := env.createMember(t, "Anna", nil, "")
	cookies := env.login(t, "manager@club.test")

	w := env.request(t, http.MethodPost, "/api/parent-children", map[string]uint64{
		"parent_user_id":  parent.ID,
		"child_member_id": anna.ID,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	path := fmt.Sprintf("/api/parent-children/%d/%d", parent.ID, anna.ID)
	w = env.request(t, http.MethodDelete, path, nil, env.login(t, "paula@club.test"))
	require.Equal(t, http.StatusForbidden, w.Code, "parents cannot edit links")

	w = env.request(t, http.MethodDelete, path, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/parents/%d/children", parent.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var children []dto.ChildDTO
	decode(t, w, &children)
	require.Empty(t, children)

	w = env.request(t, http.MethodDelete, path, nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodDelete, "/api/parent-children/abc/1", nil, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
