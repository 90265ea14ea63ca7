package repository

import (
	"time"

	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email, case-insensitively
	FindByEmail(email string) (*models.User, error)

	// FindByIDs returns the users among ids that exist
	FindByIDs(ids []uint64) ([]models.User, error)

	// List retrieves users with filtering and pagination
	List(filter UserFilter) ([]models.User, int64, error)

	// Update updates a user
	Update(user *models.User) error

	// CountByRole counts users holding role
	CountByRole(role models.Role) (int64, error)

	// DeleteWithDependents removes a user and every row referencing it
	DeleteWithDependents(id uint64) error
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role       *models.Role
	Pagination utils.PaginationParams
}

// MemberScope restricts member queries to what an actor may see.
// All overrides the other fields; otherwise a member matches when it is in
// one of TeamIDs or listed in MemberIDs.
type MemberScope struct {
	All       bool
	TeamIDs   []uint64
	MemberIDs []uint64
}

// Empty reports whether the scope can never match a member
func (s MemberScope) Empty() bool {
	return !s.All && len(s.TeamIDs) == 0 && len(s.MemberIDs) == 0
}

// MemberFilter holds filtering options for listing members
type MemberFilter struct {
	Scope      MemberScope
	TeamID     *uint64
	Search     string
	Pagination utils.PaginationParams
}

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	Create(member *models.Member) error
	FindByID(id uint64, preload ...string) (*models.Member, error)
	FindByIDs(ids []uint64) ([]models.Member, error)
	List(filter MemberFilter) ([]models.Member, int64, error)
	Update(member *models.Member) error

	// Delete removes a member with its attendance rows and parent links
	Delete(id uint64) error

	// ListIDsByTeam returns member IDs of a team, or of every member when teamID is nil
	ListIDsByTeam(teamID *uint64) ([]uint64, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	Create(team *models.Team) error
	FindByID(id uint64, preload ...string) (*models.Team, error)
	FindByName(name string) (*models.Team, error)

	// List returns all teams when ids is nil, otherwise only the listed ones
	List(ids []uint64) ([]models.Team, error)
	Update(team *models.Team) error

	// Delete removes a team with its schedule, coaches and assignments and
	// detaches its members
	Delete(id uint64) error

	// ReplaceCoaches swaps the coach set and mirrors coachName onto teams.coach
	ReplaceCoaches(teamID uint64, coaches []models.TeamCoach, coachName string) error

	// ListCoachedTeamIDs returns the teams a user coaches
	ListCoachedTeamIDs(userID uint64) ([]uint64, error)

	// IsCoach reports whether a user coaches a team
	IsCoach(teamID, userID uint64) (bool, error)
}

// ParentChildRepository defines the interface for parent/child link data access
type ParentChildRepository interface {
	Create(link *models.ParentChild) error
	FindPair(parentUserID, childMemberID uint64) (*models.ParentChild, error)
	Delete(parentUserID, childMemberID uint64) (int64, error)

	// ListLinkedMembers returns members directly linked to a parent
	ListLinkedMembers(parentUserID uint64) ([]models.Member, error)

	// ListMembersByParentEmail returns members whose parent_email matches email
	ListMembersByParentEmail(email string) ([]models.Member, error)

	// FindMissingEmailPairs returns (parent, member) pairs matched by email
	// that have no link row yet
	FindMissingEmailPairs() ([]models.ParentChild, error)

	// InsertIgnoringDuplicates inserts links, skipping pairs that already
	// exist, and returns how many rows were added
	InsertIgnoringDuplicates(links []models.ParentChild) (int64, error)

	// ListUnmatchedMembers returns members with a parent_email that matches
	// no parent user and no link
	ListUnmatchedMembers() ([]models.Member, error)

	// ListUnlinkedMembers returns members with neither parent_email nor link
	ListUnlinkedMembers() ([]models.Member, error)

	// ListStaleLinks returns links whose user no longer has the parent role
	ListStaleLinks() ([]models.ParentChild, error)
}

// ScheduleFilter holds filtering options for trainings and events
type ScheduleFilter struct {
	AllTeams bool
	TeamIDs  []uint64
	// IncludeClubWide adds events without a team. Ignored for trainings.
	IncludeClubWide bool
	From            *time.Time
	To              *time.Time
}

// TrainingRepository defines the interface for training data access
type TrainingRepository interface {
	// Create stores a training and a pending attendance row per member
	Create(training *models.Training, memberIDs []uint64) error
	FindByID(id uint64, preload ...string) (*models.Training, error)
	List(filter ScheduleFilter) ([]models.Training, error)
	Update(training *models.Training) error
	Delete(id uint64) error

	FindAttendance(trainingID, memberID uint64) (*models.TrainingAttendance, error)
	SaveAttendance(attendance *models.TrainingAttendance) error

	// ListAttendance returns attendance for a training; nil memberIDs means all
	ListAttendance(trainingID uint64, memberIDs []uint64) ([]models.TrainingAttendance, error)
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create stores an event and a pending attendance row per member
	Create(event *models.Event, memberIDs []uint64) error
	FindByID(id uint64, preload ...string) (*models.Event, error)
	List(filter ScheduleFilter) ([]models.Event, error)
	Update(event *models.Event) error
	Delete(id uint64) error

	FindAttendance(eventID, memberID uint64) (*models.EventAttendance, error)
	SaveAttendance(attendance *models.EventAttendance) error

	// ListAttendance returns attendance for an event; nil memberIDs means all
	ListAttendance(eventID uint64, memberIDs []uint64) ([]models.EventAttendance, error)
}

// MessageFolder selects a mailbox view
type MessageFolder string

const (
	FolderInbox   MessageFolder = "inbox"
	FolderSent    MessageFolder = "sent"
	FolderStarred MessageFolder = "starred"
)

// MessageFilter holds filtering options for listing messages
type MessageFilter struct {
	UserID     uint64
	Folder     MessageFolder
	Pagination utils.PaginationParams
}

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	CreateBatch(messages []models.Message) error
	FindByID(id uint64) (*models.Message, error)
	List(filter MessageFilter) ([]models.Message, int64, error)
	CountUnread(userID uint64) (int64, error)
	Update(message *models.Message) error
	Delete(id uint64) error
}

// RegelwerkRepository defines the interface for rule document data access
type RegelwerkRepository interface {
	Create(regelwerk *models.Regelwerk) error
	FindByID(id uint64, preload ...string) (*models.Regelwerk, error)
	List() ([]models.Regelwerk, error)

	// Update saves the document; resetReads marks every assignment unread
	Update(regelwerk *models.Regelwerk, resetReads bool) error
	Delete(id uint64) error

	// AddAssignment inserts an assignment and reports whether it was new.
	// An existing duplicate is loaded into assignment instead.
	AddAssignment(assignment *models.RegelwerkAssignment) (bool, error)
	DeleteAssignment(regelwerkID, assignmentID uint64) (int64, error)
	ListAssignmentsForCoach(coachUserID uint64) ([]models.RegelwerkAssignment, error)
	MarkRead(regelwerkID, coachUserID uint64, at time.Time) (int64, error)
}

// MemberAttendanceRow is one member's bucketed attendance in a period
type MemberAttendanceRow struct {
	MemberID     uint64
	MemberName   string
	TeamName     string
	Attended     int64
	Cancelled    int64
	NotResponded int64
}

// ReportRepository defines the interface for report aggregation
type ReportRepository interface {
	// TrainingAttendanceTotals aggregates attendance of trainings dated in
	// [from, to). A nil teamIDs covers all teams.
	TrainingAttendanceTotals(from, to time.Time, teamIDs []uint64) ([]MemberAttendanceRow, error)
}
