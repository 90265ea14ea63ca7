package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/club-backoffice/internal/database"
	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/notify"
	"github.com/yukikurage/club-backoffice/internal/repository"
	"github.com/yukikurage/club-backoffice/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models...))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Omit("Member").Create(user).Error)
	return user
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Email
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, email notify.Email) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, email)
	return n.err
}

func TestMessageService_SendNotifiesEachRecipient(t *testing.T) {
	db := setupTestDB(t)
	sender := createUser(t, db, "Paula", "paula@club.test", models.RoleParent)
	coach := createUser(t, db, "Carla", "carla@club.test", models.RoleCoach)
	manager := createUser(t, db, "Max", "max@club.test", models.RoleManager)

	notifier := &recordingNotifier{}
	svc := NewMessageService(repository.NewMessageRepository(db), repository.NewUserRepository(db), notifier, "https://club.test/")

	messages, err := svc.SendMessage(context.Background(), ActorFromUser(sender), SendMessageInput{
		RecipientIDs: []uint64{coach.ID, manager.ID},
		Subject:      "Training",
		Body:         "See you Tuesday",
	})
	require.NoError(t, err)
	require.Len(t, messages, 2)

	require.Len(t, notifier.sent, 2)
	require.Equal(t, "carla@club.test", notifier.sent[0].To)
	require.Contains(t, notifier.sent[0].Subject, "Paula")
	require.Contains(t, notifier.sent[0].TextBody, "https://club.test/messages/")
}

func TestMessageService_NotificationFailureDoesNotFailSend(t *testing.T) {
	db := setupTestDB(t)
	sender := createUser(t, db, "Carla", "carla@club.test", models.RoleCoach)
	recipient := createUser(t, db, "Paula", "paula@club.test", models.RoleParent)

	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc := NewMessageService(repository.NewMessageRepository(db), repository.NewUserRepository(db), notifier, "")

	messages, err := svc.SendMessage(context.Background(), ActorFromUser(sender), SendMessageInput{
		RecipientIDs: []uint64{recipient.ID},
		Subject:      "Kit",
		Body:         "Please bring the new kit.",
	})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, notifier.sent, 1)
}

type blockingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *blockingNotifier) Send(ctx context.Context, _ notify.Email) error {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func TestMessageService_StalledNotifierSharesOneBudget(t *testing.T) {
	db := setupTestDB(t)
	sender := createUser(t, db, "Carla", "carla@club.test", models.RoleCoach)
	var recipients []uint64
	for _, name := range []string{"anna", "ben", "cem", "dora"} {
		recipients = append(recipients, createUser(t, db, name, name+"@club.test", models.RoleParent).ID)
	}

	notifier := &blockingNotifier{}
	svc := NewMessageService(repository.NewMessageRepository(db), repository.NewUserRepository(db), notifier, "")
	svc.notifyBudget = 50 * time.Millisecond

	started := time.Now()
	messages, err := svc.SendMessage(context.Background(), ActorFromUser(sender), SendMessageInput{
		RecipientIDs: recipients,
		Subject:      "Kit",
		Body:         "Please bring the new kit.",
	})
	require.NoError(t, err)
	require.Len(t, messages, 4)
	require.Less(t, time.Since(started), time.Second, "recipients must not each wait for the relay")
	require.Equal(t, 4, notifier.calls)
}

func TestMessageService_UnknownRecipient(t *testing.T) {
	db := setupTestDB(t)
	sender := createUser(t, db, "Carla", "carla@club.test", models.RoleCoach)
	svc := NewMessageService(repository.NewMessageRepository(db), repository.NewUserRepository(db), nil, "")

	_, err := svc.SendMessage(context.Background(), ActorFromUser(sender), SendMessageInput{
		RecipientIDs: []uint64{sender.ID + 40},
		Subject:      "Hello",
		Body:         "Anyone?",
	})
	require.ErrorIs(t, err, ErrRecipientNotFound)
}

func TestTeamService_SetCoaches(t *testing.T) {
	db := setupTestDB(t)
	first := createUser(t, db, "Carla", "carla@club.test", models.RoleCoach)
	second := createUser(t, db, "Chris", "chris@club.test", models.RoleCoach)
	parent := createUser(t, db, "Paula", "paula@club.test", models.RoleParent)
	team := &models.Team{Name: "U12"}
	require.NoError(t, db.Create(team).Error)

	teamRepo := repository.NewTeamRepository(db)
	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	children := NewParentChildService(repository.NewParentChildRepository(db), userRepo, memberRepo)
	svc := NewTeamService(teamRepo, userRepo, NewAccessService(teamRepo, memberRepo, children))

	_, err := svc.SetCoaches(team.ID, []CoachInput{{UserID: first.ID, IsPrimary: true}, {UserID: second.ID, IsPrimary: true}})
	require.ErrorIs(t, err, ErrMultiplePrimaryCoach)

	_, err = svc.SetCoaches(team.ID, []CoachInput{{UserID: parent.ID}})
	require.ErrorIs(t, err, ErrInvalidCoach)

	updated, err := svc.SetCoaches(team.ID, []CoachInput{{UserID: first.ID}, {UserID: second.ID}})
	require.NoError(t, err)
	require.Equal(t, "Carla", updated.Coach, "the first coach becomes primary")
	require.Len(t, updated.Coaches, 2)
	require.True(t, updated.Coaches[0].IsPrimary)

	updated, err = svc.SetCoaches(team.ID, []CoachInput{{UserID: first.ID}, {UserID: second.ID, IsPrimary: true}})
	require.NoError(t, err)
	require.Equal(t, "Chris", updated.Coach)

	updated, err = svc.SetCoaches(team.ID, nil)
	require.NoError(t, err)
	require.Empty(t, updated.Coach)
	require.Empty(t, updated.Coaches)
}

func TestAccessService_TeamScope(t *testing.T) {
	db := setupTestDB(t)
	coach := createUser(t, db, "Carla", "carla@club.test", models.RoleCoach)
	parent := createUser(t, db, "Paula", "paula@club.test", models.RoleParent)
	u12 := &models.Team{Name: "U12"}
	u14 := &models.Team{Name: "U14"}
	require.NoError(t, db.Create(u12).Error)
	require.NoError(t, db.Create(u14).Error)
	require.NoError(t, db.Omit("Team", "User").Create(&models.TeamCoach{TeamID: u12.ID, UserID: coach.ID}).Error)
	require.NoError(t, db.Create(&models.Member{Name: "Anna", TeamID: &u14.ID, ParentEmail: "PAULA@club.test"}).Error)

	memberUser := createUser(t, db, "Mo", "mo@club.test", models.RoleMember)
	require.NotNil(t, memberUser)

	teamRepo := repository.NewTeamRepository(db)
	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	children := NewParentChildService(repository.NewParentChildRepository(db), userRepo, memberRepo)
	access := NewAccessService(teamRepo, memberRepo, children)

	all, ids, err := access.TeamScope(Actor{UserID: 1, Role: models.RoleManager})
	require.NoError(t, err)
	require.True(t, all)
	require.Nil(t, ids)

	all, ids, err = access.TeamScope(ActorFromUser(coach))
	require.NoError(t, err)
	require.False(t, all)
	require.Equal(t, []uint64{u12.ID}, ids)

	all, ids, err = access.TeamScope(ActorFromUser(parent))
	require.NoError(t, err)
	require.False(t, all)
	require.Equal(t, []uint64{u14.ID}, ids)

	_, ids, err = access.TeamScope(ActorFromUser(memberUser))
	require.NoError(t, err)
	require.Empty(t, ids, "a member account without a linked member sees nothing")
	require.NotNil(t, ids)
}

func TestEventService_ClubWideEventsNeedManager(t *testing.T) {
	db := setupTestDB(t)
	coach := createUser(t, db, "Carla", "carla@club.test", models.RoleCoach)
	manager := createUser(t, db, "Max", "max@club.test", models.RoleManager)
	require.NoError(t, db.Create(&models.Member{Name: "Anna"}).Error)
	require.NoError(t, db.Create(&models.Member{Name: "Ben"}).Error)

	teamRepo := repository.NewTeamRepository(db)
	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	children := NewParentChildService(repository.NewParentChildRepository(db), userRepo, memberRepo)
	svc := NewEventService(repository.NewEventRepository(db), memberRepo, teamRepo, NewAccessService(teamRepo, memberRepo, children))

	title, start, end := "Summer party", "15:00", "20:00"
	date := mustDate(t, "2025-07-12")
	input := ScheduleInput{Title: &title, Date: &date, StartTime: &start, EndTime: &end}

	_, err := svc.CreateEvent(ActorFromUser(coach), input)
	require.ErrorIs(t, err, ErrForbidden)

	event, err := svc.CreateEvent(ActorFromUser(manager), input)
	require.NoError(t, err)
	require.Nil(t, event.TeamID)
	require.Len(t, event.Attendance, 2, "club-wide events invite every member")
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()

	date, err := utils.ParseDate(value)
	require.NoError(t, err)
	return date
}
