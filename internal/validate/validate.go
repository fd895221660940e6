// Package validate holds the field validators shared by handlers and
// importers. Each validator returns a descriptive error suitable for a
// field-level form response.
package validate

import (
	"regexp"
	"strconv"
	"unicode"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrUUID     = errors.New("must be a valid UUID")
	ErrUsername = errors.New("must be 3-30 characters, start with a letter, and use only lowercase letters, digits, '_', '.', '-'")
	ErrPassword = errors.New("must be 8-72 characters with at least one uppercase letter, one lowercase letter, and one digit")
	ErrSeason   = errors.New("must look like \"2024\", \"2024-25\", or \"Fall 2024\"")
)

// UUID accepts canonical RFC 4122 form only.
func UUID(s string) error {
	if _, err := uuid.Parse(s); err != nil || len(s) != 36 {
		return ErrUUID
	}
	return nil
}

var usernameRe = regexp.MustCompile(`^[a-z][a-z0-9_.-]{2,29}$`)

func Username(s string) error {
	if !usernameRe.MatchString(s) {
		return ErrUsername
	}
	return nil
}

// Password length is capped at 72 to stay within bcrypt's input limit.
func Password(s string) error {
	if len(s) < 8 || len(s) > 72 {
		return ErrPassword
	}

	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrPassword
	}
	return nil
}

var (
	seasonYearRe  = regexp.MustCompile(`^\d{4}$`)
	seasonSpanRe  = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	seasonNamedRe = regexp.MustCompile(`^(Spring|Summer|Fall|Winter) (\d{4})$`)
)

// Season accepts a plain year, a cross-year span like "2024-25" where the
// second part is the following year, or a named term like "Fall 2024".
// Years must be in a sane range for stored results.
func Season(s string) error {
	switch {
	case seasonYearRe.MatchString(s):
		return seasonYearInRange(s)
	case seasonSpanRe.MatchString(s):
		m := seasonSpanRe.FindStringSubmatch(s)
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if err := seasonYearInRange(m[1]); err != nil {
			return err
		}
		if (start+1)%100 != end {
			return ErrSeason
		}
		return nil
	case seasonNamedRe.MatchString(s):
		return seasonYearInRange(seasonNamedRe.FindStringSubmatch(s)[2])
	default:
		return ErrSeason
	}
}

func seasonYearInRange(year string) error {
	y, _ := strconv.Atoi(year)
	if y < 1990 || y > 2100 {
		return ErrSeason
	}
	return nil
}
