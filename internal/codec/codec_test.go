package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"go.uber.org/zap/zaptest"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), 128, 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

func TestModeOf(t *testing.T) {
	rect := image.Rect(0, 0, 2, 2)
	tests := []struct {
		name string
		img  image.Image
		want ColorMode
	}{
		{"paletted", image.NewPaletted(rect, color.Palette{color.Black, color.White}), ModePalette},
		{"nrgba", image.NewNRGBA(rect), ModeColorAlpha},
		{"rgba", image.NewRGBA(rect), ModeColorAlpha},
		{"ycbcr", image.NewYCbCr(rect, image.YCbCrSubsampleRatio420), ModeColor},
		{"gray", image.NewGray(rect), ModeOther},
		{"cmyk", image.NewCMYK(rect), ModeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModeOf(tt.img); got != tt.want {
				t.Errorf("ModeOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModeOfModel(t *testing.T) {
	if got := ModeOfModel(color.Palette{color.Black}); got != ModePalette {
		t.Errorf("palette model = %v, want P", got)
	}
	if got := ModeOfModel(color.NRGBAModel); got != ModeColorAlpha {
		t.Errorf("NRGBA model = %v, want RGBA", got)
	}
	if got := ModeOfModel(color.YCbCrModel); got != ModeColor {
		t.Errorf("YCbCr model = %v, want RGB", got)
	}
	if got := ModeOfModel(color.GrayModel); got != ModeOther {
		t.Errorf("Gray model = %v, want other", got)
	}
}

func TestNormalize(t *testing.T) {
	rect := image.Rect(0, 0, 4, 4)

	pal := image.NewPaletted(rect, color.Palette{color.Transparent, color.White})
	out, mode := Normalize(pal)
	if mode != ModeColorAlpha {
		t.Errorf("palette normalized to %v, want RGBA", mode)
	}
	if _, ok := out.(*image.NRGBA); !ok {
		t.Errorf("palette normalized to %T, want *image.NRGBA", out)
	}
	if _, _, _, a := out.At(0, 0).RGBA(); a != 0 {
		t.Errorf("transparent palette entry lost alpha: a=%d", a)
	}

	gray := image.NewGray(rect)
	out, mode = Normalize(gray)
	if mode != ModeColor {
		t.Errorf("gray normalized to %v, want RGB", mode)
	}
	if _, _, _, a := out.At(1, 1).RGBA(); a != 0xffff {
		t.Errorf("gray normalized pixel alpha = %d, want opaque", a)
	}

	rgba := image.NewNRGBA(rect)
	out, mode = Normalize(rgba)
	if out != image.Image(rgba) || mode != ModeColorAlpha {
		t.Error("RGBA image should pass through unchanged")
	}
}

func TestConfigAndDecode(t *testing.T) {
	data := encodeJPEG(t, gradient(40, 30))

	cfg, format, err := Config(data)
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if format != "jpeg" || cfg.Width != 40 || cfg.Height != 30 {
		t.Errorf("Config = %s %dx%d, want jpeg 40x30", format, cfg.Width, cfg.Height)
	}

	img, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("decoded %dx%d, want 40x30", b.Dx(), b.Dy())
	}
}

func TestDecode_PNGAndGIF(t *testing.T) {
	var pngBuf, gifBuf bytes.Buffer
	if err := png.Encode(&pngBuf, gradient(8, 8)); err != nil {
		t.Fatal(err)
	}
	if err := gif.Encode(&gifBuf, gradient(8, 8), nil); err != nil {
		t.Fatal(err)
	}
	for name, data := range map[string][]byte{"png": pngBuf.Bytes(), "gif": gifBuf.Bytes()} {
		if _, err := Decode(data); err != nil {
			t.Errorf("%s: Decode: %v", name, err)
		}
	}
}

func TestDecode_Garbage(t *testing.T) {
	if _, err := Decode([]byte("definitely not an image")); err == nil {
		t.Error("Decode should fail on garbage")
	}
	if _, _, err := Config([]byte("nope")); err == nil {
		t.Error("Config should fail on garbage")
	}
}

func TestResize(t *testing.T) {
	out := Resize(gradient(100, 50), 60, 30)
	if b := out.Bounds(); b.Dx() != 60 || b.Dy() != 30 {
		t.Errorf("Resize = %dx%d, want 60x30", b.Dx(), b.Dy())
	}
	out = Resize(gradient(4, 4), 0, 0)
	if b := out.Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("Resize to zero = %dx%d, want 1x1", b.Dx(), b.Dy())
	}
}

func TestWebPEncoder_RoundTrip(t *testing.T) {
	enc := NewWebPEncoder(zaptest.NewLogger(t))
	if enc.Extension() != ".webp" {
		t.Errorf("Extension = %q", enc.Extension())
	}

	hi, err := enc.Encode(gradient(64, 48), EncodeParams{Quality: 90, AlphaQuality: 85, Method: MethodBest})
	if err != nil {
		t.Fatalf("Encode q90: %v", err)
	}
	lo, err := enc.Encode(gradient(64, 48), EncodeParams{Quality: 10, AlphaQuality: 60, Method: MethodBest})
	if err != nil {
		t.Fatalf("Encode q10: %v", err)
	}
	if len(lo) > len(hi) {
		t.Errorf("q10 output (%d B) larger than q90 output (%d B)", len(lo), len(hi))
	}

	cfg, format, err := Config(hi)
	if err != nil {
		t.Fatalf("Config of encoded webp: %v", err)
	}
	if format != "webp" || cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("encoded = %s %dx%d, want webp 64x48", format, cfg.Width, cfg.Height)
	}
	if EXIF(hi) != nil {
		t.Error("EXIF chunk present without metadata")
	}
}

func TestWebPEncoder_AlphaQuality(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 4), uint8(y * 4), 90, uint8((x*y + x*7) % 256)})
		}
	}
	enc := NewWebPEncoder(zaptest.NewLogger(t))

	coarse, err := enc.Encode(img, EncodeParams{Quality: 50, AlphaQuality: 0, Method: MethodBest})
	if err != nil {
		t.Fatalf("Encode alpha 0: %v", err)
	}
	fine, err := enc.Encode(img, EncodeParams{Quality: 50, AlphaQuality: 100, Method: MethodBest})
	if err != nil {
		t.Fatalf("Encode alpha 100: %v", err)
	}
	if bytes.Equal(coarse, fine) {
		t.Fatal("alpha quality 0 and 100 produced identical output")
	}
	if len(coarse) >= len(fine) {
		t.Errorf("alpha 0 output (%d B) not smaller than alpha 100 output (%d B)", len(coarse), len(fine))
	}
}

func TestWebPEncoder_YCbCrInput(t *testing.T) {
	src, err := Decode(encodeJPEG(t, gradient(40, 30)))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*image.YCbCr); !ok {
		t.Fatalf("decoded JPEG is %T, want *image.YCbCr", src)
	}
	out, err := NewWebPEncoder(nil).Encode(src, EncodeParams{Quality: 70, AlphaQuality: 65, Method: MethodBest})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if cfg, format, err := Config(out); err != nil || format != "webp" || cfg.Width != 40 {
		t.Errorf("Config = %+v %q %v", cfg, format, err)
	}
}
