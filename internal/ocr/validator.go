package ocr

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/johnahull/AthleteMetrics-sub012/internal/metric"
)

// MinConfidence is the default extraction confidence below which all
// candidates are rejected outright.
const MinConfidence = 0.55

// Row is a validated candidate: either accepted with a resolved metric
// and split name, or rejected with a reason.
type Row struct {
	Candidate Candidate   `json:"candidate"`
	FirstName string      `json:"first_name,omitempty"`
	LastName  string      `json:"last_name,omitempty"`
	Metric    metric.Spec `json:"metric,omitempty"`
	Accepted  bool        `json:"accepted"`
	Reason    string      `json:"reason,omitempty"`
}

// Validator applies the acceptance rules to parsed candidates.
type Validator struct {
	minConfidence float64
}

func NewValidator() *Validator {
	return &Validator{minConfidence: MinConfidence}
}

func (v *Validator) WithMinConfidence(c float64) *Validator {
	v.minConfidence = c
	return v
}

var nameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z' -]*$`)

// Validate checks every candidate against the metric registry, value
// plausibility ranges, and name sanity heuristics. confidence is the
// extraction-level confidence from the engine.
func (v *Validator) Validate(candidates []Candidate, confidence float64) []Row {
	rows := make([]Row, 0, len(candidates))

	for _, c := range candidates {
		rows = append(rows, v.validateOne(c, confidence))
	}
	return rows
}

func (v *Validator) validateOne(c Candidate, confidence float64) Row {
	row := Row{Candidate: c}

	if confidence > 0 && confidence < v.minConfidence {
		row.Reason = fmt.Sprintf("extraction confidence %.2f below threshold %.2f", confidence, v.minConfidence)
		return row
	}

	spec, ok := metric.Resolve(c.MetricLabel)
	if !ok {
		row.Reason = fmt.Sprintf("unknown metric label %q", c.MetricLabel)
		return row
	}
	row.Metric = spec

	if !spec.InRange(c.Value) {
		row.Reason = fmt.Sprintf("value %g outside plausible range [%g, %g] for %s",
			c.Value, spec.Min, spec.Max, spec.ID)
		return row
	}

	first, last, err := splitName(c.Name)
	if err != nil {
		row.Reason = err.Error()
		return row
	}
	row.FirstName = first
	row.LastName = last

	row.Accepted = true
	return row
}

// splitName applies the name sanity heuristics: plausible characters
// only, 2-60 characters overall, and at least a first and a last part.
func splitName(name string) (first, last string, err error) {
	if len(name) < 2 || len(name) > 60 {
		return "", "", fmt.Errorf("name %q has implausible length", name)
	}
	if !nameRe.MatchString(name) {
		return "", "", fmt.Errorf("name %q contains implausible characters", name)
	}

	parts := strings.Fields(name)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("name %q is missing a first or last name", name)
	}

	// Multi-part surnames keep everything after the first token.
	return parts[0], strings.Join(parts[1:], " "), nil
}
