// Package csvimport parses roster and measurement CSV uploads. The caller
// supplies a header-to-field mapping (built in the client's column-mapping
// step); parsing reports per-row, per-field errors and never fails the
// whole file for one bad row.
package csvimport

import (
	"fmt"
	"sort"
)

// Mapping maps a CSV header name to a known import field.
type Mapping map[string]string

// MappingError describes one problem with a supplied column mapping.
type MappingError struct {
	Header  string `json:"header,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e MappingError) Error() string {
	return e.Message
}

// validateMapping checks a mapping against a field schema: every required
// field must be mapped, no field may be mapped twice, and unknown fields
// are rejected. Errors are sorted for stable output.
func validateMapping(m Mapping, known map[string]bool, required []string) []MappingError {
	var errs []MappingError

	seen := make(map[string]string, len(m))
	for header, field := range m {
		if !known[field] {
			errs = append(errs, MappingError{
				Header:  header,
				Field:   field,
				Message: fmt.Sprintf("unknown field %q for column %q", field, header),
			})
			continue
		}
		if prev, dup := seen[field]; dup {
			errs = append(errs, MappingError{
				Header:  header,
				Field:   field,
				Message: fmt.Sprintf("field %q mapped from both %q and %q", field, prev, header),
			})
			continue
		}
		seen[field] = header
	}

	for _, field := range required {
		if _, ok := seen[field]; !ok {
			errs = append(errs, MappingError{
				Field:   field,
				Message: fmt.Sprintf("required field %q is not mapped", field),
			})
		}
	}

	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Field != errs[j].Field {
			return errs[i].Field < errs[j].Field
		}
		return errs[i].Header < errs[j].Header
	})

	return errs
}

// RowError is a parse or validation failure for one field of one data row.
// Row is 1-based counting data rows (the header row is row 0).
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d, field %s: %s", e.Row, e.Field, e.Message)
}
