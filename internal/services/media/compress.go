package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Compress decodes an image, scales it down to maxWidth when wider and
// re-encodes it as JPEG. Images at or below maxWidth are still re-encoded so
// every stored object carries the same format and quality.
func Compress(data []byte, maxWidth, quality int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrValidation
	}
	if maxWidth <= 0 {
		maxWidth = 800
	}
	if quality <= 0 || quality > 100 {
		quality = 70
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, ErrValidation
	}

	if width > maxWidth {
		scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, height*maxWidth/width))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		src = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}
