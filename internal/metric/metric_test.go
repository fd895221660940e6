package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		label string
		want  string
		ok    bool
	}{
		{"FLY10_TIME", Fly10Time, true},
		{"fly 10", Fly10Time, true},
		{"Vertical Jump", VerticalJump, true},
		{"  vj  ", VerticalJump, true},
		{"5-0-5", Agility505, true},
		{"t test", TTest, true},
		{"BENCH_PRESS", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			spec, ok := Resolve(tt.label)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, spec.ID)
			}
		})
	}
}

func TestSpec_InRange(t *testing.T) {
	fly, _ := Lookup(Fly10Time)
	assert.True(t, fly.InRange(1.22))
	assert.True(t, fly.InRange(1.00))
	assert.True(t, fly.InRange(1.70))
	assert.False(t, fly.InRange(0.99))
	assert.False(t, fly.InRange(1.71))

	vert, _ := Lookup(VerticalJump)
	assert.True(t, vert.InRange(23.5))
	assert.False(t, vert.InRange(40))
}

func TestSpec_Better(t *testing.T) {
	fly, _ := Lookup(Fly10Time)
	assert.True(t, fly.Better(1.10, 1.20), "lower sprint time is better")

	vert, _ := Lookup(VerticalJump)
	assert.True(t, vert.Better(28, 24), "higher jump is better")
	assert.False(t, vert.Better(24, 28))
}
