package dto

import (
	"time"

	"github.com/yukikurage/club-backoffice/internal/models"
)

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID        uint64         `json:"id"`
	Name      string         `json:"name"`
	Level     string         `json:"level"`
	Coach     string         `json:"coach"`
	CreatedAt time.Time      `json:"created_at"`
	Coaches   []TeamCoachDTO `json:"coaches,omitempty"`
	Members   []MemberDTO    `json:"members,omitempty"`
}

// TeamCoachDTO represents a coach of a team
type TeamCoachDTO struct {
	User      UserSummaryDTO `json:"user"`
	IsPrimary bool           `json:"is_primary"`
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	dto := TeamDTO{
		ID:        team.ID,
		Name:      team.Name,
		Level:     team.Level,
		Coach:     team.Coach,
		CreatedAt: team.CreatedAt,
	}

	// Include coaches if preloaded
	if len(team.Coaches) > 0 {
		dto.Coaches = make([]TeamCoachDTO, len(team.Coaches))
		for i, c := range team.Coaches {
			dto.Coaches[i] = TeamCoachDTO{
				User:      ToUserSummaryDTO(c.User),
				IsPrimary: c.IsPrimary,
			}
		}
	}

	// Include members if preloaded
	if len(team.Members) > 0 {
		dto.Members = ToMemberDTOs(team.Members)
	}
	return dto
}

// ToTeamDTOs converts a slice of teams
func ToTeamDTOs(teams []models.Team) []TeamDTO {
	result := make([]TeamDTO, len(teams))
	for i, t := range teams {
		result[i] = ToTeamDTO(t)
	}
	return result
}
