package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/johnahull/AthleteMetrics-sub012/internal/model"
)

// Roster import fields. Names follow the canonical roster CSV headers.
const (
	FieldFirstName        = "firstName"
	FieldLastName         = "lastName"
	FieldBirthYear        = "birthYear"
	FieldGraduationYear   = "graduationYear"
	FieldGender           = "gender"
	FieldEmail            = "emails"
	FieldSport            = "sports"
	FieldSchool           = "school"
	FieldTeamName         = "teamName"
	FieldCompetitiveLevel = "competitiveLevel"
)

var rosterFields = map[string]bool{
	FieldFirstName:        true,
	FieldLastName:         true,
	FieldBirthYear:        true,
	FieldGraduationYear:   true,
	FieldGender:           true,
	FieldEmail:            true,
	FieldSport:            true,
	FieldSchool:           true,
	FieldTeamName:         true,
	FieldCompetitiveLevel: true,
}

var rosterRequired = []string{FieldFirstName, FieldLastName}

// ValidateRosterMapping checks a column mapping for the roster schema.
func ValidateRosterMapping(m Mapping) []MappingError {
	return validateMapping(m, rosterFields, rosterRequired)
}

// RosterRow is one parsed roster line. TeamName is carried separately so
// the service can attach the athlete to a team. Row is the source data row
// number, matching RowError numbering even when earlier rows were skipped.
type RosterRow struct {
	Row      int
	Athlete  *model.Athlete
	TeamName string
}

// RosterResult separates rows that parsed cleanly from per-row errors.
type RosterResult struct {
	Rows   []RosterRow
	Errors []RowError
}

// ParseRoster reads a roster CSV. The first record is the header; data
// rows with errors are reported and skipped, the rest are returned.
func ParseRoster(r io.Reader, m Mapping) (*RosterResult, error) {
	if errs := ValidateRosterMapping(m); len(errs) > 0 {
		return nil, errs[0]
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	// Column index -> import field, via the supplied mapping.
	fieldAt := make(map[int]string, len(header))
	for i, h := range header {
		if field, ok := m[strings.TrimSpace(h)]; ok {
			fieldAt[i] = field
		}
	}

	res := &RosterResult{}
	rowNo := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNo++
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: rowNo, Field: "", Message: err.Error()})
			continue
		}

		row, errs := parseRosterRecord(rowNo, record, fieldAt)
		if len(errs) > 0 {
			res.Errors = append(res.Errors, errs...)
			continue
		}
		res.Rows = append(res.Rows, row)
	}

	return res, nil
}

func parseRosterRecord(rowNo int, record []string, fieldAt map[int]string) (RosterRow, []RowError) {
	a := &model.Athlete{
		CompetitiveLevel: model.CompetitiveLevelDefault,
		IsActive:         true,
	}
	row := RosterRow{Row: rowNo, Athlete: a}

	var errs []RowError
	fail := func(field, msg string) {
		errs = append(errs, RowError{Row: rowNo, Field: field, Message: msg})
	}

	for i, raw := range record {
		field, ok := fieldAt[i]
		if !ok {
			continue
		}
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}

		switch field {
		case FieldFirstName:
			a.FirstName = value
		case FieldLastName:
			a.LastName = value
		case FieldBirthYear:
			y, err := strconv.Atoi(value)
			if err != nil || y < 1950 || y > 2100 {
				fail(field, fmt.Sprintf("invalid birth year %q", value))
				continue
			}
			a.BirthYear = y
		case FieldGraduationYear:
			y, err := strconv.Atoi(value)
			if err != nil || y < 1950 || y > 2100 {
				fail(field, fmt.Sprintf("invalid graduation year %q", value))
				continue
			}
			a.GraduationYear = y
		case FieldGender:
			a.Gender = value
		case FieldEmail:
			// The roster format allows semicolon-separated lists; the
			// first address becomes the contact email.
			a.Email = strings.TrimSpace(strings.Split(value, ";")[0])
		case FieldSport:
			a.Sport = strings.TrimSpace(strings.Split(value, ";")[0])
		case FieldSchool:
			a.School = value
		case FieldTeamName:
			row.TeamName = value
		case FieldCompetitiveLevel:
			lvl, err := strconv.Atoi(value)
			if err != nil || lvl < model.CompetitiveLevelMin || lvl > model.CompetitiveLevelMax {
				fail(field, fmt.Sprintf("competitive level must be %d-%d, got %q",
					model.CompetitiveLevelMin, model.CompetitiveLevelMax, value))
				continue
			}
			a.CompetitiveLevel = lvl
		}
	}

	if a.FirstName == "" {
		fail(FieldFirstName, "missing first name")
	}
	if a.LastName == "" {
		fail(FieldLastName, "missing last name")
	}

	return row, errs
}
