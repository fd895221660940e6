package service

import (
	"context"
	"fmt"

	"github.com/johnahull/AthleteMetrics-sub012/internal/analytics"
	"github.com/johnahull/AthleteMetrics-sub012/internal/chart"
	"github.com/johnahull/AthleteMetrics-sub012/internal/metric"
	"github.com/johnahull/AthleteMetrics-sub012/internal/model"
	"github.com/johnahull/AthleteMetrics-sub012/internal/repository"
	"github.com/johnahull/AthleteMetrics-sub012/pkg/logger"
	"go.uber.org/zap"
)

// Chart canvas constants. Clients render the returned geometry as-is.
const (
	chartWidth   = 800.0
	chartHeight  = 300.0
	chartPadding = 40.0
	labelHeight  = 14.0
	labelCharW   = 7.0
)

type AnalyticsService struct {
	measurements repository.MeasurementRepository
}

func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{}
}

func (a *AnalyticsService) WithMeasurementRepo(r repository.MeasurementRepository) *AnalyticsService {
	a.measurements = r
	return a
}

// AthleteSummary aggregates one athlete's history per metric.
func (a *AnalyticsService) AthleteSummary(ctx context.Context, filter *model.MeasurementFilter) ([]analytics.Summary, *Error) {
	summaries, err := a.summarize(ctx, filter)
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// TeamSummary aggregates over all members of a team per metric.
func (a *AnalyticsService) TeamSummary(ctx context.Context, teamID string) ([]analytics.Summary, *Error) {
	return a.summarize(ctx, &model.MeasurementFilter{TeamID: teamID})
}

func (a *AnalyticsService) summarize(ctx context.Context, filter *model.MeasurementFilter) ([]analytics.Summary, *Error) {
	if filter.Metric != "" {
		spec, ok := metric.Resolve(filter.Metric)
		if !ok {
			return nil, NewFieldError(ErrorCodeUnknownMetric, "metric", fmt.Sprintf("unknown metric %q", filter.Metric))
		}
		filter.Metric = spec.ID
	}

	repoMeas, err := a.measurements.List(ctx, &repository.MeasurementFilter{
		AthleteID: filter.AthleteID,
		TeamID:    filter.TeamID,
		Metric:    filter.Metric,
		From:      filter.From,
		To:        filter.To,
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to list measurements for summary", zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to load measurements")
	}

	byMetric := make(map[string][]analytics.Point)
	for _, m := range repoMeas {
		byMetric[m.Metric] = append(byMetric[m.Metric], analytics.Point{Value: m.Value, At: m.RecordedAt})
	}

	summaries := make([]analytics.Summary, 0, len(byMetric))
	for _, spec := range metric.All() {
		points, ok := byMetric[spec.ID]
		if !ok {
			continue
		}
		summaries = append(summaries, analytics.Summarize(spec, points))
	}
	return summaries, nil
}

// ChartPoint is one plotted measurement in canvas coordinates.
type ChartPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
}

// ChartData is a rendered progression chart: plotted points plus
// collision-free label placements.
type ChartData struct {
	Metric string            `json:"metric"`
	Width  float64           `json:"width"`
	Height float64           `json:"height"`
	Points []ChartPoint      `json:"points"`
	Labels []chart.Placement `json:"labels"`
}

// ProgressionChart plots one athlete's history for one metric and lays
// out value labels so none overlap.
func (a *AnalyticsService) ProgressionChart(ctx context.Context, athleteID, metricLabel string) (*ChartData, *Error) {
	spec, ok := metric.Resolve(metricLabel)
	if !ok {
		return nil, NewFieldError(ErrorCodeUnknownMetric, "metric", fmt.Sprintf("unknown metric %q", metricLabel))
	}

	repoMeas, err := a.measurements.List(ctx, &repository.MeasurementFilter{
		AthleteID: athleteID,
		Metric:    spec.ID,
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to list measurements for chart", zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to load measurements")
	}

	data := &ChartData{
		Metric: spec.ID,
		Width:  chartWidth,
		Height: chartHeight,
		Points: make([]ChartPoint, 0, len(repoMeas)),
	}
	if len(repoMeas) == 0 {
		return data, nil
	}

	// X spans the date range; Y spans the metric's plausible range so
	// charts of the same metric are comparable across athletes.
	t0 := repoMeas[0].RecordedAt
	span := repoMeas[len(repoMeas)-1].RecordedAt.Sub(t0).Hours()
	labels := make([]chart.Label, 0, len(repoMeas))

	for _, m := range repoMeas {
		x := chartPadding
		if span > 0 {
			x += (chartWidth - 2*chartPadding) * m.RecordedAt.Sub(t0).Hours() / span
		}
		y := chartHeight - chartPadding -
			(chartHeight-2*chartPadding)*(m.Value-spec.Min)/(spec.Max-spec.Min)

		data.Points = append(data.Points, ChartPoint{X: x, Y: y, Value: m.Value})

		text := fmt.Sprintf("%.2f%s", m.Value, spec.Unit)
		labels = append(labels, chart.Label{
			Text:    text,
			AnchorX: x,
			AnchorY: y,
			W:       float64(len(text)) * labelCharW,
			H:       labelHeight,
		})
	}

	data.Labels = chart.NewResolver(32, 2).Place(labels)
	return data, nil
}
