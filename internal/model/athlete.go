package model

// CompetitiveLevel runs 1 (elite) to 5 (beginner).
const (
	CompetitiveLevelMin     = 1
	CompetitiveLevelDefault = 3
	CompetitiveLevelMax     = 5
)

type Athlete struct {
	ID               string `json:"id"`
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name" validate:"required"`
	BirthYear        int    `json:"birth_year"`
	GraduationYear   int    `json:"graduation_year"`
	Gender           string `json:"gender"`
	Email            string `json:"email"`
	Sport            string `json:"sport"`
	School           string `json:"school"`
	CompetitiveLevel int    `json:"competitive_level"`
	IsActive         bool   `json:"is_active"`
	OrganizationID   string `json:"organization_id"`
}

type AthletePatch struct {
	ID               string
	FirstName        *string
	LastName         *string
	Email            *string
	Sport            *string
	School           *string
	CompetitiveLevel *int
	IsActive         *bool
}
