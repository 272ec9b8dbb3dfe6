package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned when no registered decoder recognizes the data.
var ErrUnsupported = errors.New("unsupported or unrecognized image data")

// Config reads only the header of data and returns its dimensions, color
// model and format name ("jpeg", "png", "webp", ...).
func Config(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return image.Config{}, "", ErrUnsupported
		}
		return image.Config{}, "", fmt.Errorf("read image header: %w", err)
	}
	return cfg, format, nil
}

// Decode decodes the full pixel buffer. EXIF orientation is not applied:
// the orientation tag travels with the metadata blob instead.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupported
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Resize scales img to w x h with a Lanczos filter. Sizes below one pixel
// are raised to one.
func Resize(img image.Image, w, h int) image.Image {
	return imaging.Resize(img, max(w, 1), max(h, 1), imaging.Lanczos)
}
