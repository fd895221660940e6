package ocr

import (
	"testing"

	"github.com/johnahull/AthleteMetrics-sub012/internal/metric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_AcceptsPlausibleRows(t *testing.T) {
	candidates := []Candidate{
		{Name: "Mia Martinez", MetricLabel: "VERT", Value: 23.5},
		{Name: "Ethan de la Cruz", MetricLabel: "FLY10", Value: 1.22},
	}

	rows := NewValidator().Validate(candidates, 0.91)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].Accepted)
	assert.Equal(t, "Mia", rows[0].FirstName)
	assert.Equal(t, "Martinez", rows[0].LastName)
	assert.Equal(t, metric.VerticalJump, rows[0].Metric.ID)

	// Multi-part surnames stay together.
	assert.True(t, rows[1].Accepted)
	assert.Equal(t, "Ethan", rows[1].FirstName)
	assert.Equal(t, "de la Cruz", rows[1].LastName)
}

func TestValidator_RangeChecks(t *testing.T) {
	tests := []struct {
		name      string
		candidate Candidate
		accepted  bool
		reason    string
	}{
		{
			name:      "fly time at range floor",
			candidate: Candidate{Name: "Mia Martinez", MetricLabel: "FLY10", Value: 1.00},
			accepted:  true,
		},
		{
			name:      "fly time too fast to be real",
			candidate: Candidate{Name: "Mia Martinez", MetricLabel: "FLY10", Value: 0.12},
			reason:    "outside plausible range",
		},
		{
			name:      "vertical jump misread as sprint time",
			candidate: Candidate{Name: "Mia Martinez", MetricLabel: "FLY10", Value: 23.5},
			reason:    "outside plausible range",
		},
		{
			name:      "unknown metric",
			candidate: Candidate{Name: "Mia Martinez", MetricLabel: "BENCH", Value: 100},
			reason:    "unknown metric label",
		},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := v.validateOne(tt.candidate, 0.9)
			assert.Equal(t, tt.accepted, row.Accepted)
			if !tt.accepted {
				assert.Contains(t, row.Reason, tt.reason)
			}
		})
	}
}

func TestValidator_NameHeuristics(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		ok     bool
	}{
		{"Mia Martinez", "", true},
		{"Ava O'Brien", "", true},
		{"Jean-Luc Picard", "", true},
		{"Mia", "missing a first or last name", false},
		{"M1a Martinez", "implausible characters", false},
		{"Mia Mart|nez", "implausible characters", false},
		{"A", "implausible length", false},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := v.validateOne(Candidate{Name: tt.name, MetricLabel: "RSI", Value: 2.4}, 0.9)
			assert.Equal(t, tt.ok, row.Accepted)
			if !tt.ok {
				assert.Contains(t, row.Reason, tt.reason)
			}
		})
	}
}

func TestValidator_ConfidenceThreshold(t *testing.T) {
	c := Candidate{Name: "Mia Martinez", MetricLabel: "VERT", Value: 23.5}

	v := NewValidator()
	assert.False(t, v.validateOne(c, 0.30).Accepted)
	assert.Contains(t, v.validateOne(c, 0.30).Reason, "below threshold")
	assert.True(t, v.validateOne(c, 0.56).Accepted)

	// Unknown confidence (engine could not report) does not reject.
	assert.True(t, v.validateOne(c, 0).Accepted)

	relaxed := NewValidator().WithMinConfidence(0.2)
	assert.True(t, relaxed.validateOne(c, 0.30).Accepted)
}
