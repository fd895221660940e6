// Package ocr turns photographed result sheets into measurement
// candidates: a Tesseract-backed engine extracts text, a line parser pulls
// (name, metric, value) triples out of it, and a validator decides which
// candidates are trustworthy enough to import.
package ocr

import "context"

// Result is the raw output of one text extraction.
type Result struct {
	// Text is all recognized text with original line structure.
	Text string
	// Confidence is the mean word confidence, 0.0 to 1.0. Zero when the
	// engine cannot report confidence.
	Confidence float64
}

// Engine is the OCR backend. The gosseract implementation needs Tesseract
// installed; tests substitute a canned engine.
type Engine interface {
	ExtractText(ctx context.Context, imageData []byte) (*Result, error)
	Close() error
}
