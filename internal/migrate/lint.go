// Package migrate lints SQL migrations for patterns that destroy data or
// lock large tables. It is a guardrail, not a parser: findings are advisory
// and matched line by line.
package migrate

import (
	"bufio"
	"regexp"
	"strings"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one flagged statement.
type Finding struct {
	Line     int      `json:"line"`
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
}

type rule struct {
	name     string
	severity Severity
	pattern  *regexp.Regexp
	message  string
}

var rules = []rule{
	{
		name:     "drop-table",
		severity: SeverityError,
		pattern:  regexp.MustCompile(`(?i)\bDROP\s+TABLE\b`),
		message:  "DROP TABLE destroys data; rename and drop in a later release instead",
	},
	{
		name:     "drop-column",
		severity: SeverityError,
		pattern:  regexp.MustCompile(`(?i)\bALTER\s+TABLE\b.*\bDROP\s+COLUMN\b`),
		message:  "DROP COLUMN destroys data; deprecate the column first",
	},
	{
		name:     "truncate",
		severity: SeverityError,
		pattern:  regexp.MustCompile(`(?i)\bTRUNCATE\b`),
		message:  "TRUNCATE destroys data",
	},
	{
		name:     "delete-without-where",
		severity: SeverityError,
		pattern:  regexp.MustCompile(`(?i)\bDELETE\s+FROM\s+\S+\s*;`),
		message:  "DELETE without WHERE removes every row",
	},
	{
		name:     "alter-column-type",
		severity: SeverityWarning,
		pattern:  regexp.MustCompile(`(?i)\bALTER\s+COLUMN\b.*\bTYPE\b`),
		message:  "changing a column type rewrites the table and takes an exclusive lock",
	},
	{
		name:     "not-null-without-default",
		severity: SeverityWarning,
		pattern:  regexp.MustCompile(`(?i)\bADD\s+COLUMN\b(?:[^;]*)\bNOT\s+NULL\b`),
		message:  "NOT NULL on a new column fails on existing rows unless a DEFAULT is given",
	},
}

var defaultPattern = regexp.MustCompile(`(?i)\bDEFAULT\b`)

// Lint scans migration SQL and returns findings in line order.
func Lint(sql string) []Finding {
	var findings []Finding

	scanner := bufio.NewScanner(strings.NewReader(sql))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if trimmed := strings.TrimSpace(line); trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}

		for _, r := range rules {
			if !r.pattern.MatchString(line) {
				continue
			}
			// ADD COLUMN ... NOT NULL DEFAULT ... is safe.
			if r.name == "not-null-without-default" && defaultPattern.MatchString(line) {
				continue
			}
			findings = append(findings, Finding{
				Line:     lineNo,
				Severity: r.severity,
				Rule:     r.name,
				Message:  r.message,
			})
		}
	}

	return findings
}

// HasErrors reports whether any finding is severity error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
