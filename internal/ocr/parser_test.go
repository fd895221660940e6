package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseText_TypicalSheet(t *testing.T) {
	text := `Spring Testing Day — March 15

Mia Martinez  VERT  23.5in
Ethan Johnson | FLY10: 1.22s
Garcia, Ava - 5-0-5 - 2.61 s

Coach: D. Hull`

	candidates := ParseText(text)
	require.Len(t, candidates, 3)

	assert.Equal(t, "Mia Martinez", candidates[0].Name)
	assert.Equal(t, "VERT", candidates[0].MetricLabel)
	assert.InDelta(t, 23.5, candidates[0].Value, 1e-9)
	assert.Equal(t, "in", candidates[0].Unit)

	assert.Equal(t, "Ethan Johnson", candidates[1].Name)
	assert.Equal(t, "FLY10", candidates[1].MetricLabel)
	assert.InDelta(t, 1.22, candidates[1].Value, 1e-9)
	assert.Equal(t, "s", candidates[1].Unit)

	// "Last, First" order is normalized.
	assert.Equal(t, "Ava Garcia", candidates[2].Name)
	assert.Equal(t, "5-0-5", candidates[2].MetricLabel)
	assert.InDelta(t, 2.61, candidates[2].Value, 1e-9)
}

func TestParseText_CommaDecimal(t *testing.T) {
	candidates := ParseText("Noah Lopez RSI 2,4")
	require.Len(t, candidates, 1)
	assert.InDelta(t, 2.4, candidates[0].Value, 1e-9)
}

func TestParseText_SkipsNoise(t *testing.T) {
	text := `ATHLETE RESULTS
date 2024-03-15
Mia Martinez
just some words
1.22
`
	// A date line ends in a number but has no metric label; a bare name
	// has no value; both are skipped.
	assert.Empty(t, ParseText(text))
}

func TestParseText_NoGluedLabel(t *testing.T) {
	// "...NOVERT 23.5" must not parse as metric VERT.
	assert.Empty(t, ParseText("Milanovert 23.5"))
}

func TestParseText_EmDashSeparator(t *testing.T) {
	// An em dash is a valid separator even with no surrounding spaces.
	candidates := ParseText("Mia Martinez—VERT 23.5")
	require.Len(t, candidates, 1)
	assert.Equal(t, "Mia Martinez", candidates[0].Name)
	assert.Equal(t, "VERT", candidates[0].MetricLabel)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Mia Martinez", normalizeName("  Martinez ,  Mia "))
	assert.Equal(t, "Mia Martinez", normalizeName("Mia   Martinez"))
}
