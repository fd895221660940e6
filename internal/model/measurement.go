package model

import "time"

type Measurement struct {
	ID         string    `json:"id"`
	AthleteID  string    `json:"athlete_id" validate:"required"`
	Metric     string    `json:"metric" validate:"required"`
	Value      float64   `json:"value" validate:"required"`
	Unit       string    `json:"unit"`
	RecordedAt time.Time `json:"recorded_at" validate:"required"`
	Source     string    `json:"source"`
}

// Measurement sources.
const (
	SourceManual = "manual"
	SourceCSV    = "csv"
	SourceOCR    = "ocr"
)

type MeasurementPatch struct {
	ID         string
	Value      *float64
	RecordedAt *time.Time
}

type MeasurementFilter struct {
	AthleteID string
	TeamID    string
	Metric    string
	From      *time.Time
	To        *time.Time
}
