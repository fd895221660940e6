package csvimport

import (
	"strings"
	"testing"
	"time"

	"github.com/johnahull/AthleteMetrics-sub012/internal/metric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var measurementMapping = Mapping{
	"First": FieldFirstName,
	"Last":  FieldLastName,
	"Test":  FieldMetric,
	"Score": FieldValue,
	"Date":  FieldRecordedAt,
}

func TestParseMeasurements(t *testing.T) {
	csvData := `First,Last,Test,Score,Date
Mia,Martinez,FLY10_TIME,1.22,2024-03-15
Ethan,Johnson,Vertical Jump,23.5,03/15/2024
`

	res, err := ParseMeasurements(strings.NewReader(csvData), measurementMapping)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Rows, 2)

	assert.Equal(t, metric.Fly10Time, res.Rows[0].Metric.ID)
	assert.InDelta(t, 1.22, res.Rows[0].Value, 1e-9)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), res.Rows[0].RecordedAt)

	// Metric aliases and US date format both resolve.
	assert.Equal(t, metric.VerticalJump, res.Rows[1].Metric.ID)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), res.Rows[1].RecordedAt)
}

func TestParseMeasurements_RowErrors(t *testing.T) {
	csvData := `First,Last,Test,Score,Date
Mia,Martinez,BENCH_PRESS,100,2024-03-15
Ethan,Johnson,FLY10_TIME,9.99,2024-03-15
Ava,Garcia,FLY10_TIME,fast,2024-03-15
Noah,Lopez,FLY10_TIME,1.22,someday
`

	res, err := ParseMeasurements(strings.NewReader(csvData), measurementMapping)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	require.Len(t, res.Errors, 4)

	assert.Contains(t, res.Errors[0].Message, `unknown metric "BENCH_PRESS"`)
	assert.Contains(t, res.Errors[1].Message, "out of plausible range")
	assert.Equal(t, FieldValue, res.Errors[1].Field)
	assert.Contains(t, res.Errors[2].Message, `invalid value "fast"`)
	assert.Contains(t, res.Errors[3].Message, `unrecognized date "someday"`)
}

func TestParseMeasurements_MissingFields(t *testing.T) {
	csvData := `First,Last,Test,Score,Date
Mia,,FLY10_TIME,1.22,2024-03-15
`

	res, err := ParseMeasurements(strings.NewReader(csvData), measurementMapping)
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, FieldLastName, res.Errors[0].Field)
}
