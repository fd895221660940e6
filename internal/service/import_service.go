package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/johnahull/AthleteMetrics-sub012/internal/csvimport"
	"github.com/johnahull/AthleteMetrics-sub012/internal/db"
	"github.com/johnahull/AthleteMetrics-sub012/internal/model"
	"github.com/johnahull/AthleteMetrics-sub012/internal/ocr"
	"github.com/johnahull/AthleteMetrics-sub012/internal/repository"
	"github.com/johnahull/AthleteMetrics-sub012/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ImportReport summarizes a CSV import: imported row count plus per-row
// errors for everything that was skipped.
type ImportReport struct {
	Imported int                  `json:"imported"`
	Skipped  int                  `json:"skipped"`
	Errors   []csvimport.RowError `json:"errors,omitempty"`
}

// OCRReport carries the full per-candidate decisions so the client can
// show a review screen before anything silently disappears.
type OCRReport struct {
	Imported   int       `json:"imported"`
	Confidence float64   `json:"confidence"`
	Rows       []ocr.Row `json:"rows"`
}

type ImportService struct {
	tx db.Transactor

	athletes     repository.AthleteRepository
	teams        repository.TeamRepository
	measurements repository.MeasurementRepository

	engine    ocr.Engine
	validator *ocr.Validator
}

func NewImportService(tx db.Transactor) *ImportService {
	return &ImportService{
		tx:        tx,
		validator: ocr.NewValidator(),
	}
}

func (s *ImportService) WithAthleteRepo(r repository.AthleteRepository) *ImportService {
	s.athletes = r
	return s
}

func (s *ImportService) WithTeamRepo(r repository.TeamRepository) *ImportService {
	s.teams = r
	return s
}

func (s *ImportService) WithMeasurementRepo(r repository.MeasurementRepository) *ImportService {
	s.measurements = r
	return s
}

func (s *ImportService) WithOCREngine(e ocr.Engine) *ImportService {
	s.engine = e
	return s
}

func (s *ImportService) WithOCRValidator(v *ocr.Validator) *ImportService {
	s.validator = v
	return s
}

// ImportRoster parses a roster CSV and upserts the athletes. Rows naming
// a team are attached to it when a team with that name exists in the
// organization. Import is not all-or-nothing: bad rows are reported, good
// rows land.
func (s *ImportService) ImportRoster(ctx context.Context, orgID string, r io.Reader, mapping csvimport.Mapping) (*ImportReport, *Error) {
	l := logger.FromContext(ctx)

	parsed, err := csvimport.ParseRoster(r, mapping)
	if err != nil {
		return nil, NewServiceError(ErrorCodeInvalidBody, err.Error())
	}

	report := &ImportReport{Errors: parsed.Errors}

	teamByName, svcErr := s.teamIndex(ctx, orgID)
	if svcErr != nil {
		return nil, svcErr
	}

	for _, row := range parsed.Rows {
		row := row
		err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			a := row.Athlete
			a.OrganizationID = orgID

			// Re-imports update in place instead of duplicating.
			existing, err := s.athletes.FindByName(txCtx, orgID, a.FirstName, a.LastName)
			switch {
			case err == nil:
				a.ID = existing.ID
			case errors.Is(err, repository.ErrNotFound):
				a.ID = uuid.NewString()
			default:
				return err
			}

			if err := s.athletes.Upsert(txCtx, &repository.Athlete{
				ID:               a.ID,
				FirstName:        a.FirstName,
				LastName:         a.LastName,
				BirthYear:        a.BirthYear,
				GraduationYear:   a.GraduationYear,
				Gender:           a.Gender,
				Email:            a.Email,
				Sport:            a.Sport,
				School:           a.School,
				CompetitiveLevel: a.CompetitiveLevel,
				IsActive:         a.IsActive,
				OrganizationID:   a.OrganizationID,
			}); err != nil {
				return err
			}

			if row.TeamName != "" {
				team, ok := teamByName[row.TeamName]
				if !ok {
					return rowFault{
						field: csvimport.FieldTeamName,
						msg:   fmt.Sprintf("no team named %q in organization", row.TeamName),
					}
				}
				if err := s.teams.AddMember(txCtx, team.ID, a.ID); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			l.Warn("roster row import failed", zap.Int("row", row.Row), zap.Error(err))
			report.Errors = append(report.Errors, rowErrorFrom(row.Row, err))
			continue
		}
		report.Imported++
	}

	report.Skipped = len(report.Errors)
	return report, nil
}

// ImportMeasurements parses a measurement CSV and records each row
// against the athlete it names.
func (s *ImportService) ImportMeasurements(ctx context.Context, orgID string, r io.Reader, mapping csvimport.Mapping) (*ImportReport, *Error) {
	parsed, err := csvimport.ParseMeasurements(r, mapping)
	if err != nil {
		return nil, NewServiceError(ErrorCodeInvalidBody, err.Error())
	}

	report := &ImportReport{Errors: parsed.Errors}

	for _, row := range parsed.Rows {
		if err := s.recordForName(ctx, orgID, row.FirstName, row.LastName,
			row.Metric.ID, row.Metric.Unit, row.Value, row.RecordedAt, model.SourceCSV); err != nil {
			report.Errors = append(report.Errors, rowErrorFrom(row.Row, err))
			continue
		}
		report.Imported++
	}

	report.Skipped = len(report.Errors)
	return report, nil
}

// ImportPhoto runs the OCR pipeline on an uploaded image: preprocess,
// extract, parse, validate, and record every accepted row.
func (s *ImportService) ImportPhoto(ctx context.Context, orgID string, imageData []byte, recordedAt time.Time) (*OCRReport, *Error) {
	l := logger.FromContext(ctx)

	prepared, err := ocr.Preprocess(imageData)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnsupportedMedia, err.Error())
	}

	extracted, err := s.engine.ExtractText(ctx, prepared)
	if err != nil {
		l.Error("ocr extraction failed", zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "text extraction failed")
	}

	candidates := ocr.ParseText(extracted.Text)
	rows := s.validator.Validate(candidates, extracted.Confidence)

	report := &OCRReport{Confidence: extracted.Confidence, Rows: rows}

	for i := range rows {
		row := &rows[i]
		if !row.Accepted {
			continue
		}

		err := s.recordForName(ctx, orgID, row.FirstName, row.LastName,
			row.Metric.ID, row.Metric.Unit, row.Candidate.Value, recordedAt, model.SourceOCR)
		if err != nil {
			row.Accepted = false
			row.Reason = err.Error()
			continue
		}
		report.Imported++
	}
	report.Rows = rows

	return report, nil
}

func (s *ImportService) recordForName(ctx context.Context, orgID, firstName, lastName, metricID, unit string, value float64, at time.Time, source string) error {
	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		athlete, err := s.athletes.FindByName(txCtx, orgID, firstName, lastName)
		if errors.Is(err, repository.ErrNotFound) {
			return rowFault{
				field: csvimport.FieldFirstName,
				msg:   fmt.Sprintf("no athlete named %q %q in organization", firstName, lastName),
			}
		}
		if err != nil {
			return err
		}
		if !athlete.IsActive {
			return rowFault{
				field: csvimport.FieldFirstName,
				msg:   fmt.Sprintf("athlete %s %s is inactive", firstName, lastName),
			}
		}

		return s.measurements.Create(txCtx, &repository.Measurement{
			ID:         uuid.NewString(),
			AthleteID:  athlete.ID,
			Metric:     metricID,
			Value:      value,
			Unit:       unit,
			RecordedAt: at,
			Source:     source,
		})
	})
}

// rowFault ties a row-level import failure to the CSV field it concerns,
// so reports point at the right column and not a guessed one.
type rowFault struct {
	field string
	msg   string
}

func (f rowFault) Error() string {
	return f.msg
}

func rowErrorFrom(rowNo int, err error) csvimport.RowError {
	re := csvimport.RowError{Row: rowNo, Message: err.Error()}
	var f rowFault
	if errors.As(err, &f) {
		re.Field = f.field
	}
	return re
}

func (s *ImportService) teamIndex(ctx context.Context, orgID string) (map[string]*repository.Team, *Error) {
	teams, err := s.teams.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list teams")
	}
	byName := make(map[string]*repository.Team, len(teams))
	for _, t := range teams {
		byName[t.Name] = t
	}
	return byName, nil
}
