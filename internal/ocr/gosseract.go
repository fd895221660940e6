package ocr

import (
	"context"

	"github.com/otiai10/gosseract/v2"
	"github.com/pkg/errors"
)

type tesseractEngine struct {
	language string
}

// NewTesseractEngine returns an Engine backed by the system Tesseract
// installation via gosseract. Language is a Tesseract code ("eng" by
// default); the matching language data must be installed.
func NewTesseractEngine(language string) Engine {
	if language == "" {
		language = "eng"
	}
	return &tesseractEngine{language: language}
}

func (t *tesseractEngine) ExtractText(ctx context.Context, imageData []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// gosseract clients are not safe for concurrent use; one per call.
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return nil, errors.Wrap(err, "failed to set OCR language")
	}
	if err := client.SetImageFromBytes(imageData); err != nil {
		return nil, errors.Wrap(err, "failed to load image")
	}

	text, err := client.Text()
	if err != nil {
		return nil, errors.Wrap(err, "text extraction failed")
	}

	res := &Result{Text: text}

	// Word boxes give us a mean confidence; if Tesseract cannot produce
	// them the text alone is still returned.
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err == nil && len(boxes) > 0 {
		sum := 0.0
		for _, b := range boxes {
			sum += b.Confidence
		}
		res.Confidence = sum / float64(len(boxes)) / 100.0
	}

	return res, nil
}

func (t *tesseractEngine) Close() error {
	return nil
}
