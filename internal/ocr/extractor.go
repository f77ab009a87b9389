// Package ocr provides the text-from-image capability as an interface with a
// Tesseract-backed implementation and a no-op fallback selected at
// construction time.
package ocr

import "context"

// UnavailableText is the sentinel returned when no OCR engine is configured.
const UnavailableText = "[OCR UNAVAILABLE - INSTALL REQUIRED DEPENDENCIES]"

// Extractor extracts plain text from a scanned page image.
type Extractor interface {
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// Unavailable is the fallback extractor used when OCR is disabled. It returns
// the sentinel text so downstream stages still see a page entry per image.
type Unavailable struct{}

func (Unavailable) ExtractText(context.Context, string) (string, error) {
	return UnavailableText, nil
}

// Select picks the extractor implementation for a run.
func Select(enabled bool, languages []string) Extractor {
	if !enabled {
		return Unavailable{}
	}
	return NewTesseract(languages)
}
