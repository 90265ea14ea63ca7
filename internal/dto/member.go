package dto

import (
	"time"

	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/services"
)

// MemberDTO represents a member in API responses
type MemberDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	BirthDate   *string   `json:"birth_date"`
	TeamID      *uint64   `json:"team_id"`
	TeamName    string    `json:"team_name,omitempty"`
	ParentName  string    `json:"parent_name"`
	ParentEmail string    `json:"parent_email"`
	ParentPhone string    `json:"parent_phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ChildDTO is a member reachable from a parent, with how it was found
type ChildDTO struct {
	MemberDTO
	Source services.ChildSource `json:"source"`
}

// ParentChildDTO represents an explicit parent/child link
type ParentChildDTO struct {
	ID            uint64          `json:"id"`
	ParentUserID  uint64          `json:"parent_user_id"`
	ChildMemberID uint64          `json:"child_member_id"`
	CreatedAt     time.Time       `json:"created_at"`
	Parent        *UserSummaryDTO `json:"parent,omitempty"`
	Child         *MemberDTO      `json:"child,omitempty"`
}

// OrphansDTO lists reconciliation gaps
type OrphansDTO struct {
	Unmatched  []MemberDTO      `json:"unmatched"`
	Unlinked   []MemberDTO      `json:"unlinked"`
	StaleLinks []ParentChildDTO `json:"stale_links"`
}

// ToMemberDTO converts a Member model to MemberDTO
func ToMemberDTO(member models.Member) MemberDTO {
	dto := MemberDTO{
		ID:          member.ID,
		Name:        member.Name,
		BirthDate:   formatOptionalDate(member.BirthDate),
		TeamID:      member.TeamID,
		ParentName:  member.ParentName,
		ParentEmail: member.ParentEmail,
		ParentPhone: member.ParentPhone,
		CreatedAt:   member.CreatedAt,
		UpdatedAt:   member.UpdatedAt,
	}

	// Include team name if preloaded
	if member.Team != nil {
		dto.TeamName = member.Team.Name
	}
	return dto
}

// ToMemberDTOs converts a slice of members
func ToMemberDTOs(members []models.Member) []MemberDTO {
	result := make([]MemberDTO, len(members))
	for i, m := range members {
		result[i] = ToMemberDTO(m)
	}
	return result
}

// ToChildDTOs converts children of a parent
func ToChildDTOs(children []services.Child) []ChildDTO {
	result := make([]ChildDTO, len(children))
	for i, c := range children {
		result[i] = ChildDTO{
			MemberDTO: ToMemberDTO(c.Member),
			Source:    c.Source,
		}
	}
	return result
}

// ToParentChildDTO converts a ParentChild model to ParentChildDTO
func ToParentChildDTO(link models.ParentChild) ParentChildDTO {
	dto := ParentChildDTO{
		ID:            link.ID,
		ParentUserID:  link.ParentUserID,
		ChildMemberID: link.ChildMemberID,
		CreatedAt:     link.CreatedAt,
	}

	if link.Parent.ID != 0 {
		parent := ToUserSummaryDTO(link.Parent)
		dto.Parent = &parent
	}
	if link.Child.ID != 0 {
		child := ToMemberDTO(link.Child)
		dto.Child = &child
	}
	return dto
}

// ToOrphansDTO converts an orphan report
func ToOrphansDTO(report services.OrphanReport) OrphansDTO {
	stale := make([]ParentChildDTO, len(report.StaleLinks))
	for i, link := range report.StaleLinks {
		stale[i] = ToParentChildDTO(link)
	}

	return OrphansDTO{
		Unmatched:  ToMemberDTOs(report.Unmatched),
		Unlinked:   ToMemberDTOs(report.Unlinked),
		StaleLinks: stale,
	}
}
