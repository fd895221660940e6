package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUID(t *testing.T) {
	assert.NoError(t, UUID("2b9e7f3a-4c1d-4e8f-9a6b-1c2d3e4f5a6b"))
	assert.Error(t, UUID("not-a-uuid"))
	assert.Error(t, UUID(""))
	// uuid.Parse accepts braced and URN forms; only canonical is allowed here.
	assert.Error(t, UUID("{2b9e7f3a-4c1d-4e8f-9a6b-1c2d3e4f5a6b}"))
}

func TestUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"simple", "coach_dan", true},
		{"with digits", "athlete42", true},
		{"dots and dashes", "j.hull-2", true},
		{"min length", "abc", true},
		{"max length", "a" + strings.Repeat("b", 29), true},
		{"too short", "ab", false},
		{"too long", "a" + strings.Repeat("b", 30), false},
		{"starts with digit", "1coach", false},
		{"uppercase", "Coach", false},
		{"spaces", "coach dan", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Username(tt.input)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUsername)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"valid", "Tr4ckstar", true},
		{"min length", "Aa1aaaaa", true},
		{"too short", "Aa1aaaa", false},
		{"too long", "Aa1" + strings.Repeat("a", 70), false},
		{"no upper", "tr4ckstar", false},
		{"no lower", "TR4CKSTAR", false},
		{"no digit", "Trackstar", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Password(tt.input)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrPassword)
			}
		})
	}
}

func TestSeason(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"2024", true},
		{"2024-25", true},
		{"1999-00", true},
		{"Fall 2024", true},
		{"Spring 2025", true},
		{"2024-26", false}, // span must be consecutive years
		{"24-25", false},
		{"fall 2024", false},
		{"Autumn 2024", false},
		{"1850", false},
		{"2200", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := Season(tt.input)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrSeason)
			}
		})
	}
}
