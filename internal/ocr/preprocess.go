package ocr

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Preprocess converts an image to grayscale PNG for the OCR engine. JPEG,
// PNG, TIFF, and BMP inputs are supported; anything that fails to decode is
// passed through unchanged and left for the engine to reject.
func Preprocess(data []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return data
	}
	return buf.Bytes()
}
