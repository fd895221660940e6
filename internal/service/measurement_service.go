package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/johnahull/AthleteMetrics-sub012/internal/db"
	"github.com/johnahull/AthleteMetrics-sub012/internal/metric"
	"github.com/johnahull/AthleteMetrics-sub012/internal/model"
	"github.com/johnahull/AthleteMetrics-sub012/internal/repository"
	"github.com/johnahull/AthleteMetrics-sub012/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type MeasurementService struct {
	tx db.Transactor

	measurements repository.MeasurementRepository
	athletes     repository.AthleteRepository
}

func NewMeasurementService(tx db.Transactor) *MeasurementService {
	return &MeasurementService{tx: tx}
}

func (m *MeasurementService) WithMeasurementRepo(r repository.MeasurementRepository) *MeasurementService {
	m.measurements = r
	return m
}

func (m *MeasurementService) WithAthleteRepo(r repository.AthleteRepository) *MeasurementService {
	m.athletes = r
	return m
}

// RecordMeasurement validates against the metric registry and stores one
// measurement. Inactive athletes cannot receive new results.
func (m *MeasurementService) RecordMeasurement(ctx context.Context, meas *model.Measurement) (*model.Measurement, *Error) {
	l := logger.FromContext(ctx)

	spec, ok := metric.Resolve(meas.Metric)
	if !ok {
		return nil, NewFieldError(ErrorCodeUnknownMetric, "metric", fmt.Sprintf("unknown metric %q", meas.Metric))
	}
	if !spec.InRange(meas.Value) {
		return nil, NewFieldError(ErrorCodeValueOutOfRange, "value",
			fmt.Sprintf("value %g outside plausible range [%g, %g] for %s", meas.Value, spec.Min, spec.Max, spec.ID))
	}

	meas.Metric = spec.ID
	meas.Unit = spec.Unit
	if meas.ID == "" {
		meas.ID = uuid.NewString()
	}
	if meas.Source == "" {
		meas.Source = model.SourceManual
	}

	err := m.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		athlete, err := m.athletes.Get(txCtx, meas.AthleteID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "athlete not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get athlete")
		}

		if !athlete.IsActive {
			return NewServiceError(ErrorCodeAthleteInactive, "cannot record measurements for an inactive athlete")
		}

		if err := m.measurements.Create(txCtx, &repository.Measurement{
			ID:         meas.ID,
			AthleteID:  meas.AthleteID,
			Metric:     meas.Metric,
			Value:      meas.Value,
			Unit:       meas.Unit,
			RecordedAt: meas.RecordedAt,
			Source:     meas.Source,
		}); err != nil {
			l.Error("failed to create measurement",
				zap.String("athlete_id", meas.AthleteID),
				zap.String("metric", meas.Metric),
				zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to create measurement")
		}
		return nil
	})

	var res *Error
	if errors.As(err, &res) {
		return nil, res
	}
	return meas, nil
}

func (m *MeasurementService) ListMeasurements(ctx context.Context, filter *model.MeasurementFilter) ([]*model.Measurement, *Error) {
	if filter.Metric != "" {
		spec, ok := metric.Resolve(filter.Metric)
		if !ok {
			return nil, NewFieldError(ErrorCodeUnknownMetric, "metric", fmt.Sprintf("unknown metric %q", filter.Metric))
		}
		filter.Metric = spec.ID
	}

	repoMeas, err := m.measurements.List(ctx, &repository.MeasurementFilter{
		AthleteID: filter.AthleteID,
		TeamID:    filter.TeamID,
		Metric:    filter.Metric,
		From:      filter.From,
		To:        filter.To,
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to list measurements", zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list measurements")
	}

	out := make([]*model.Measurement, 0, len(repoMeas))
	for _, rm := range repoMeas {
		out = append(out, measurementFromRepo(rm))
	}
	return out, nil
}

func (m *MeasurementService) PatchMeasurement(ctx context.Context, patch *model.MeasurementPatch) (*model.Measurement, *Error) {
	if patch.Value == nil && patch.RecordedAt == nil {
		return nil, NewServiceError(ErrorCodeInvalidBody, "no fields to update")
	}

	err := m.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := m.measurements.Get(txCtx, patch.ID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "measurement not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get measurement")
		}

		if patch.Value != nil {
			spec, _ := metric.Lookup(existing.Metric)
			if !spec.InRange(*patch.Value) {
				return NewFieldError(ErrorCodeValueOutOfRange, "value",
					fmt.Sprintf("value %g outside plausible range [%g, %g] for %s", *patch.Value, spec.Min, spec.Max, spec.ID))
			}
		}

		if _, err := m.measurements.Patch(txCtx, &repository.MeasurementPatch{
			ID:         patch.ID,
			Value:      patch.Value,
			RecordedAt: patch.RecordedAt,
		}); err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to update measurement")
		}
		return nil
	})

	var res *Error
	if errors.As(err, &res) {
		return nil, res
	}

	updated, err2 := m.measurements.Get(ctx, patch.ID)
	if err2 != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to reload measurement")
	}
	return measurementFromRepo(updated), nil
}

func (m *MeasurementService) DeleteMeasurement(ctx context.Context, id string) *Error {
	err := m.measurements.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NewServiceError(ErrorCodeNotFound, "measurement not found")
	}
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete measurement", zap.String("measurement_id", id), zap.Error(err))
		return NewServiceError(ErrorCodeUnspecified, "failed to delete measurement")
	}
	return nil
}

func measurementFromRepo(r *repository.Measurement) *model.Measurement {
	return &model.Measurement{
		ID:         r.ID,
		AthleteID:  r.AthleteID,
		Metric:     r.Metric,
		Value:      r.Value,
		Unit:       r.Unit,
		RecordedAt: r.RecordedAt,
		Source:     r.Source,
	}
}
