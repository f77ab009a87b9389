package ocr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestUnavailableReturnsSentinel(t *testing.T) {
	text, err := Unavailable{}.ExtractText(context.Background(), "whatever.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != UnavailableText {
		t.Errorf("expected sentinel text, got %q", text)
	}
}

func TestSelectDisabled(t *testing.T) {
	if _, ok := Select(false, nil).(Unavailable); !ok {
		t.Error("expected Unavailable extractor when OCR is disabled")
	}
	if _, ok := Select(true, []string{"eng"}).(*Tesseract); !ok {
		t.Error("expected Tesseract extractor when OCR is enabled")
	}
}

func TestPreprocessConvertsToGrayscalePNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{R: uint8(60 * x), G: 128, B: uint8(60 * y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	out := Preprocess(buf.Bytes())

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("preprocessed output not decodable: %v", err)
	}
	if format != "png" {
		t.Errorf("expected png output, got %q", format)
	}
	if _, ok := img.(*image.Gray); !ok {
		t.Errorf("expected grayscale image, got %T", img)
	}
	if img.Bounds() != src.Bounds() {
		t.Errorf("bounds changed: %v", img.Bounds())
	}
}

func TestPreprocessPassesThroughUndecodableInput(t *testing.T) {
	junk := []byte("not an image at all")
	out := Preprocess(junk)
	if !bytes.Equal(out, junk) {
		t.Error("expected undecodable input to pass through unchanged")
	}
}
