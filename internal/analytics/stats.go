// Package analytics computes the statistical summaries behind the
// dashboard endpoints.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/johnahull/AthleteMetrics-sub012/internal/metric"
)

// Point is one measurement value at a point in time.
type Point struct {
	Value float64
	At    time.Time
}

// Summary is the per-metric aggregate for one athlete (or one team).
type Summary struct {
	Metric      string  `json:"metric"`
	Count       int     `json:"count"`
	Best        float64 `json:"best"`
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
	P25         float64 `json:"p25"`
	P50         float64 `json:"p50"`
	P75         float64 `json:"p75"`
	TrendPerDay float64 `json:"trend_per_day"`
}

// Summarize aggregates points for one metric. Returns the zero Summary
// (Count 0) for an empty input.
func Summarize(spec metric.Spec, points []Point) Summary {
	s := Summary{Metric: spec.ID, Count: len(points)}
	if len(points) == 0 {
		return s
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	sort.Float64s(values)

	s.Best = values[len(values)-1]
	if spec.Direction == metric.LowerIsBetter {
		s.Best = values[0]
	}

	s.Mean = mean(values)
	s.StdDev = stdDev(values, s.Mean)
	s.P25 = percentile(values, 0.25)
	s.P50 = percentile(values, 0.50)
	s.P75 = percentile(values, 0.75)
	s.TrendPerDay = trendPerDay(points)

	return s
}

func mean(sorted []float64) float64 {
	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted))
}

func stdDev(sorted []float64, mean float64) float64 {
	if len(sorted) < 2 {
		return 0
	}
	ss := 0.0
	for _, v := range sorted {
		d := v - mean
		ss += d * d
	}
	// Sample standard deviation.
	return math.Sqrt(ss / float64(len(sorted)-1))
}

// percentile uses linear interpolation between closest ranks.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// trendPerDay fits value = a + b*days by least squares and returns b.
// Zero when all points share a timestamp.
func trendPerDay(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	t0 := points[0].At
	var sx, sy, sxx, sxy float64
	for _, p := range points {
		x := p.At.Sub(t0).Hours() / 24
		sx += x
		sy += p.Value
		sxx += x * x
		sxy += x * p.Value
	}

	n := float64(len(points))
	denom := n*sxx - sx*sx
	if denom == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / denom
}
