package model

type Team struct {
	ID             string        `json:"id"`
	OrganizationID string        `json:"organization_id" validate:"required"`
	Name           string        `json:"team_name" validate:"required"`
	Sport          string        `json:"sport"`
	Season         string        `json:"season"`
	Members        []*TeamMember `json:"members,omitempty"`
}

type TeamMember struct {
	AthleteID string `json:"athlete_id" validate:"required"`
	FullName  string `json:"full_name"`
	IsActive  bool   `json:"is_active"`
}
