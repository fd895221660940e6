package csvimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rosterMapping = Mapping{
	"firstName":        FieldFirstName,
	"lastName":         FieldLastName,
	"birthYear":        FieldBirthYear,
	"graduationYear":   FieldGraduationYear,
	"gender":           FieldGender,
	"emails":           FieldEmail,
	"sports":           FieldSport,
	"school":           FieldSchool,
	"teamName":         FieldTeamName,
	"competitiveLevel": FieldCompetitiveLevel,
}

func TestParseRoster(t *testing.T) {
	csvData := `firstName,lastName,birthYear,graduationYear,gender,emails,sports,school,teamName,competitiveLevel
Mia,Martinez,2008,2026,Female,mia@school.edu;mia@email.com,Soccer,Westlake HS,Westlake Varsity,2
Ethan,Johnson,2007,2025,Male,ethan@email.com,Soccer,Bowie HS,Bowie JV,
`

	res, err := ParseRoster(strings.NewReader(csvData), rosterMapping)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Empty(t, res.Errors)

	mia := res.Rows[0]
	assert.Equal(t, "Mia", mia.Athlete.FirstName)
	assert.Equal(t, "Martinez", mia.Athlete.LastName)
	assert.Equal(t, 2008, mia.Athlete.BirthYear)
	assert.Equal(t, 2026, mia.Athlete.GraduationYear)
	assert.Equal(t, "mia@school.edu", mia.Athlete.Email, "first address of the list")
	assert.Equal(t, "Soccer", mia.Athlete.Sport)
	assert.Equal(t, "Westlake Varsity", mia.TeamName)
	assert.Equal(t, 2, mia.Athlete.CompetitiveLevel)
	assert.True(t, mia.Athlete.IsActive)

	// Empty competitive level falls back to the default.
	assert.Equal(t, 3, res.Rows[1].Athlete.CompetitiveLevel)
}

func TestParseRoster_RowErrors(t *testing.T) {
	csvData := `firstName,lastName,birthYear,competitiveLevel
Mia,Martinez,not-a-year,2
,Johnson,2007,3
Ethan,Johnson,2007,9
Ava,Garcia,2006,1
`

	m := Mapping{
		"firstName":        FieldFirstName,
		"lastName":         FieldLastName,
		"birthYear":        FieldBirthYear,
		"competitiveLevel": FieldCompetitiveLevel,
	}

	res, err := ParseRoster(strings.NewReader(csvData), m)
	require.NoError(t, err)

	// Only the clean row survives; each bad row reports its field.
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Ava", res.Rows[0].Athlete.FirstName)

	require.Len(t, res.Errors, 3)
	assert.Equal(t, RowError{Row: 1, Field: FieldBirthYear, Message: `invalid birth year "not-a-year"`}, res.Errors[0])
	assert.Equal(t, 2, res.Errors[1].Row)
	assert.Equal(t, FieldFirstName, res.Errors[1].Field)
	assert.Equal(t, 3, res.Errors[2].Row)
	assert.Equal(t, FieldCompetitiveLevel, res.Errors[2].Field)
}

func TestParseRoster_InvalidMapping(t *testing.T) {
	_, err := ParseRoster(strings.NewReader("a,b\n"), Mapping{"a": "nonsense"})
	require.Error(t, err)

	var me MappingError
	assert.ErrorAs(t, err, &me)
}

func TestParseRoster_UnmappedColumnsIgnored(t *testing.T) {
	csvData := `firstName,lastName,favoriteColor
Mia,Martinez,teal
`
	m := Mapping{"firstName": FieldFirstName, "lastName": FieldLastName}

	res, err := ParseRoster(strings.NewReader(csvData), m)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Empty(t, res.Errors)
}
