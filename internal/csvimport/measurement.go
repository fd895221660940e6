package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/johnahull/AthleteMetrics-sub012/internal/metric"
)

// Measurement import fields.
const (
	FieldMetric     = "metric"
	FieldValue      = "value"
	FieldRecordedAt = "recordedAt"
)

var measurementFields = map[string]bool{
	FieldFirstName:  true,
	FieldLastName:   true,
	FieldMetric:     true,
	FieldValue:      true,
	FieldRecordedAt: true,
}

var measurementRequired = []string{FieldFirstName, FieldLastName, FieldMetric, FieldValue, FieldRecordedAt}

// ValidateMeasurementMapping checks a column mapping for the measurement schema.
func ValidateMeasurementMapping(m Mapping) []MappingError {
	return validateMapping(m, measurementFields, measurementRequired)
}

// MeasurementRow is one parsed measurement line, keyed by athlete name.
// Row is the source data row number, matching RowError numbering even when
// earlier rows were skipped.
type MeasurementRow struct {
	Row        int
	FirstName  string
	LastName   string
	Metric     metric.Spec
	Value      float64
	RecordedAt time.Time
}

type MeasurementResult struct {
	Rows   []MeasurementRow
	Errors []RowError
}

var dateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseMeasurements reads a measurement CSV. Rows with unknown metrics or
// out-of-range values are reported and skipped.
func ParseMeasurements(r io.Reader, m Mapping) (*MeasurementResult, error) {
	if errs := ValidateMeasurementMapping(m); len(errs) > 0 {
		return nil, errs[0]
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	fieldAt := make(map[int]string, len(header))
	for i, h := range header {
		if field, ok := m[strings.TrimSpace(h)]; ok {
			fieldAt[i] = field
		}
	}

	res := &MeasurementResult{}
	rowNo := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNo++
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: rowNo, Field: "", Message: err.Error()})
			continue
		}

		row, errs := parseMeasurementRecord(rowNo, record, fieldAt)
		if len(errs) > 0 {
			res.Errors = append(res.Errors, errs...)
			continue
		}
		res.Rows = append(res.Rows, row)
	}

	return res, nil
}

func parseMeasurementRecord(rowNo int, record []string, fieldAt map[int]string) (MeasurementRow, []RowError) {
	row := MeasurementRow{Row: rowNo}
	var rawValue string
	var haveValue bool

	var errs []RowError
	fail := func(field, msg string) {
		errs = append(errs, RowError{Row: rowNo, Field: field, Message: msg})
	}

	for i, raw := range record {
		field, ok := fieldAt[i]
		if !ok {
			continue
		}
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}

		switch field {
		case FieldFirstName:
			row.FirstName = value
		case FieldLastName:
			row.LastName = value
		case FieldMetric:
			spec, ok := metric.Resolve(value)
			if !ok {
				fail(field, fmt.Sprintf("unknown metric %q", value))
				continue
			}
			row.Metric = spec
		case FieldValue:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				fail(field, fmt.Sprintf("invalid value %q", value))
				continue
			}
			row.Value = v
			rawValue = value
			haveValue = true
		case FieldRecordedAt:
			t, err := parseDate(value)
			if err != nil {
				fail(field, err.Error())
				continue
			}
			row.RecordedAt = t
		}
	}

	if row.FirstName == "" {
		fail(FieldFirstName, "missing first name")
	}
	if row.LastName == "" {
		fail(FieldLastName, "missing last name")
	}
	if row.Metric.ID == "" && !hasError(errs, FieldMetric) {
		fail(FieldMetric, "missing metric")
	}
	if !haveValue && !hasError(errs, FieldValue) {
		fail(FieldValue, "missing value")
	}
	if row.RecordedAt.IsZero() && !hasError(errs, FieldRecordedAt) {
		fail(FieldRecordedAt, "missing date")
	}

	// Range check only once the row is otherwise sound.
	if len(errs) == 0 && !row.Metric.InRange(row.Value) {
		fail(FieldValue, fmt.Sprintf("%s out of plausible range [%g, %g] for %s",
			rawValue, row.Metric.Min, row.Metric.Max, row.Metric.ID))
	}

	return row, errs
}

func hasError(errs []RowError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}
