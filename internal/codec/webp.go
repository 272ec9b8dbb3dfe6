package codec

import (
	"bytes"
	"fmt"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	kwebp "github.com/kolesa-team/go-webp/webp"
	"go.uber.org/zap"
)

// Fixed encoder tuning, matching the original converter's WebP settings.
const (
	MethodBest = 6 // Slowest, smallest output.
	KMin       = 3
	KMax       = 5
)

// EncodeParams is the per-attempt parameter set handed to an Encoder.
type EncodeParams struct {
	Quality      int // 0-100
	AlphaQuality int // 0-100
	Method       int // 0-6 effort; MethodBest for the search loop
	Lossless     bool
	MinimizeSize bool
	KMin, KMax   int // Keyframe partition search bounds.

	// Metadata is a raw EXIF (TIFF-structured) blob; empty means none.
	Metadata []byte
}

// Encoder turns a pixel buffer into encoded bytes.
type Encoder interface {
	Encode(img image.Image, p EncodeParams) ([]byte, error)
	// Extension is the output file extension including the dot.
	Extension() string
}

// WebPEncoder encodes WebP through libwebp (github.com/kolesa-team/go-webp)
// and attaches EXIF with github.com/chai2010/webp. Quality, AlphaQuality,
// Method and Lossless reach the encoder. MinimizeSize and KMin/KMax only
// affect animated WebP in libwebp; they are carried but have no effect on
// still images.
type WebPEncoder struct {
	Log *zap.Logger
}

// NewWebPEncoder returns an encoder that logs metadata attach problems to log.
func NewWebPEncoder(log *zap.Logger) *WebPEncoder {
	return &WebPEncoder{Log: log}
}

func (e *WebPEncoder) Extension() string { return ".webp" }

// Encode writes img as WebP and embeds p.Metadata as the EXIF chunk. An
// attach failure is logged and the untagged bitstream is returned: the
// pipeline's reattach pass gets a second chance at it.
func (e *WebPEncoder) Encode(img image.Image, p EncodeParams) ([]byte, error) {
	opts, err := encoderOptions(p)
	if err != nil {
		return nil, err
	}
	// libwebp imports packed RGBA rows; decoded JPEGs arrive as YCbCr.
	if _, ok := img.(*image.NRGBA); !ok {
		img = imaging.Clone(img)
	}
	var buf bytes.Buffer
	if err := kwebp.Encode(&buf, img, opts); err != nil {
		return nil, fmt.Errorf("webp encode q=%d: %w", p.Quality, err)
	}
	if len(p.Metadata) == 0 {
		return buf.Bytes(), nil
	}

	out, err := webp.SetMetadata(buf.Bytes(), p.Metadata, "EXIF")
	if err != nil {
		e.logger().Warn("EXIF not embedded in encode attempt",
			zap.Int("quality", p.Quality),
			zap.Error(err),
		)
		return buf.Bytes(), nil
	}
	return out, nil
}

// encoderOptions maps p onto libwebp's config, starting from the default
// preset.
func encoderOptions(p EncodeParams) (*encoder.Options, error) {
	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(p.Quality))
	if err != nil {
		return nil, fmt.Errorf("webp options q=%d: %w", p.Quality, err)
	}
	opts.Lossless = p.Lossless
	opts.AlphaQuality = p.AlphaQuality
	opts.Method = p.Method
	return opts, nil
}

func (e *WebPEncoder) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// EXIF returns the EXIF chunk of a WebP file, or nil when it has none.
func EXIF(data []byte) []byte {
	meta, err := webp.GetMetadata(data, "EXIF")
	if err != nil || len(meta) == 0 {
		return nil
	}
	return meta
}

// SetEXIF returns a copy of the WebP file data with its EXIF chunk replaced.
func SetEXIF(data, exif []byte) ([]byte, error) {
	out, err := webp.SetMetadata(data, exif, "EXIF")
	if err != nil {
		return nil, fmt.Errorf("set webp EXIF chunk: %w", err)
	}
	return out, nil
}
