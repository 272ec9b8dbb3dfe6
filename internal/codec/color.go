package codec

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ColorMode is the coarse pixel layout of a decoded image.
type ColorMode int

const (
	ModeColor      ColorMode = iota // Opaque RGB-like (including YCbCr).
	ModeColorAlpha                  // RGB with an alpha channel.
	ModePalette                     // Palette-indexed.
	ModeOther                       // Grayscale, CMYK and anything else.
)

func (m ColorMode) String() string {
	switch m {
	case ModeColor:
		return "RGB"
	case ModeColorAlpha:
		return "RGBA"
	case ModePalette:
		return "P"
	default:
		return "other"
	}
}

// ModeOf classifies a decoded image by its concrete type.
func ModeOf(img image.Image) ColorMode {
	switch img.(type) {
	case *image.Paletted:
		return ModePalette
	case *image.NRGBA, *image.RGBA, *image.NRGBA64, *image.RGBA64, *image.NYCbCrA:
		return ModeColorAlpha
	case *image.YCbCr:
		return ModeColor
	default:
		return ModeOther
	}
}

// ModeOfModel classifies a color model as reported by image.DecodeConfig.
func ModeOfModel(m color.Model) ColorMode {
	if _, ok := m.(color.Palette); ok {
		return ModePalette
	}
	switch m {
	case color.NRGBAModel, color.RGBAModel, color.NRGBA64Model, color.RGBA64Model, color.NYCbCrAModel:
		return ModeColorAlpha
	case color.YCbCrModel:
		return ModeColor
	default:
		return ModeOther
	}
}

// Normalize converts img into a mode the encoder handles directly:
// palette images gain an alpha channel, other non-alpha modes become
// opaque RGB, and RGB/RGBA images pass through unchanged.
func Normalize(img image.Image) (image.Image, ColorMode) {
	switch mode := ModeOf(img); mode {
	case ModePalette:
		return imaging.Clone(img), ModeColorAlpha
	case ModeOther:
		return toOpaque(img), ModeColor
	default:
		return img, mode
	}
}

// toOpaque copies img into an RGBA buffer with every pixel fully opaque.
func toOpaque(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
