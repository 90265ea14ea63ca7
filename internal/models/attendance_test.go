package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAttendanceFields_Respond(t *testing.T) {
	at := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	var a AttendanceFields

	require.ErrorIs(t, a.Respond("maybe", "", 1, at), ErrInvalidAttendanceStatus)
	require.ErrorIs(t, a.Respond(AttendanceDeclined, "   ", 1, at), ErrDeclineReasonRequired)

	require.NoError(t, a.Respond(AttendanceDeclined, " injured ", 7, at))
	require.Equal(t, AttendanceDeclined, a.Status)
	require.Equal(t, "injured", a.DeclineReason)
	require.Equal(t, uint64(7), *a.RespondedByID)
	require.Equal(t, at, *a.RespondedAt)

	require.NoError(t, a.Respond(AttendanceAccepted, "ignored", 8, at))
	require.Empty(t, a.DeclineReason)
	require.Equal(t, uint64(8), *a.RespondedByID)

	require.NoError(t, a.Respond(AttendancePending, "", 8, at))
	require.Nil(t, a.RespondedByID)
	require.Nil(t, a.RespondedAt)
}

func TestRole(t *testing.T) {
	require.True(t, RoleCoach.Valid())
	require.False(t, Role("captain").Valid())
	require.True(t, RoleManager.CanManage())
	require.False(t, RoleCoach.CanManage())
	require.True(t, RoleCoach.IsStaff())
	require.False(t, RoleParent.IsStaff())
}
