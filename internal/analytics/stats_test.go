package analytics

import (
	"testing"
	"time"

	"github.com/johnahull/AthleteMetrics-sub012/internal/metric"
	"github.com/stretchr/testify/assert"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestSummarize_Empty(t *testing.T) {
	spec, _ := metric.Lookup(metric.Fly10Time)
	s := Summarize(spec, nil)
	assert.Equal(t, 0, s.Count)
	assert.Equal(t, metric.Fly10Time, s.Metric)
}

func TestSummarize_BestIsDirectionAware(t *testing.T) {
	points := []Point{
		{Value: 1.30, At: day(0)},
		{Value: 1.18, At: day(7)},
		{Value: 1.25, At: day(14)},
	}

	fly, _ := metric.Lookup(metric.Fly10Time)
	assert.InDelta(t, 1.18, Summarize(fly, points).Best, 1e-9, "sprint best is the minimum")

	jumps := []Point{
		{Value: 22.0, At: day(0)},
		{Value: 25.5, At: day(7)},
		{Value: 24.0, At: day(14)},
	}
	vert, _ := metric.Lookup(metric.VerticalJump)
	assert.InDelta(t, 25.5, Summarize(vert, jumps).Best, 1e-9, "jump best is the maximum")
}

func TestSummarize_Moments(t *testing.T) {
	vert, _ := metric.Lookup(metric.VerticalJump)
	points := []Point{
		{Value: 20, At: day(0)},
		{Value: 22, At: day(1)},
		{Value: 24, At: day(2)},
		{Value: 26, At: day(3)},
	}

	s := Summarize(vert, points)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 23.0, s.Mean, 1e-9)
	assert.InDelta(t, 2.581988897, s.StdDev, 1e-6)
	assert.InDelta(t, 21.5, s.P25, 1e-9)
	assert.InDelta(t, 23.0, s.P50, 1e-9)
	assert.InDelta(t, 24.5, s.P75, 1e-9)
}

func TestSummarize_Trend(t *testing.T) {
	vert, _ := metric.Lookup(metric.VerticalJump)

	// Perfectly linear: +0.5 in/day.
	points := []Point{
		{Value: 20.0, At: day(0)},
		{Value: 20.5, At: day(1)},
		{Value: 21.0, At: day(2)},
	}
	assert.InDelta(t, 0.5, Summarize(vert, points).TrendPerDay, 1e-9)

	// Same-day points have no trend.
	flat := []Point{
		{Value: 20.0, At: day(0)},
		{Value: 24.0, At: day(0)},
	}
	assert.Equal(t, 0.0, Summarize(vert, flat).TrendPerDay)
}

func TestPercentile_SingleValue(t *testing.T) {
	assert.Equal(t, 5.0, percentile([]float64{5}, 0.75))
}
