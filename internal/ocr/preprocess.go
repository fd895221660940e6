package ocr

import (
	"bytes"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// minWidth is the width below which scans are upscaled before OCR;
// Tesseract accuracy drops sharply on small text.
const minWidth = 1200

// Preprocess normalizes an uploaded photo for OCR: decode (JPEG or PNG),
// grayscale, sharpen, and upscale small images. Returns PNG bytes.
func Preprocess(imageData []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}

	img = imaging.Grayscale(img)
	img = imaging.Sharpen(img, 0.5)

	if img.Bounds().Dx() < minWidth {
		img = imaging.Resize(img, minWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "failed to encode image")
	}
	return buf.Bytes(), nil
}
