package probe

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/backmassage/webpdrop/internal/codec"
	"github.com/backmassage/webpdrop/internal/metadata/metadatatest"
)

func TestFromBytes_JPEGWithEXIF(t *testing.T) {
	gps := metadatatest.SampleGPS
	data, err := metadatatest.JPEG(64, 48, metadatatest.EXIF("Canon", "EOS R5", &gps))
	if err != nil {
		t.Fatal(err)
	}

	src, err := FromBytes("/drop/IMG_0001.jpg", data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if src.Name != "IMG_0001.jpg" || src.Format != "jpeg" || src.Dimensions() != "64x48" {
		t.Errorf("src = %+v", src)
	}
	if src.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", src.Size, len(data))
	}
	if src.Mode != codec.ModeColor {
		t.Errorf("Mode = %v, want RGB", src.Mode)
	}
	if !src.HasMetadata() || src.MetadataErr != nil {
		t.Errorf("metadata = %d bytes, err %v", len(src.Metadata), src.MetadataErr)
	}
}

func TestFromBytes_PaletteAndAlpha(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		want codec.ColorMode
	}{
		{"palette", image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.White}), codec.ModePalette},
		{"nrgba", image.NewNRGBA(image.Rect(0, 0, 4, 4)), codec.ModeColorAlpha},
		{"gray", image.NewGray(image.Rect(0, 0, 4, 4)), codec.ModeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := png.Encode(&buf, tt.img); err != nil {
				t.Fatal(err)
			}
			src, err := FromBytes("x.png", buf.Bytes())
			if err != nil {
				t.Fatal(err)
			}
			if src.Mode != tt.want {
				t.Errorf("Mode = %v, want %v", src.Mode, tt.want)
			}
			if src.HasMetadata() {
				t.Error("plain PNG should have no metadata")
			}
		})
	}
}

func TestFromBytes_Garbage(t *testing.T) {
	_, err := FromBytes("bad.jpg", []byte("definitely not an image"))
	if !errors.Is(err, codec.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestFromBytes_BrokenEXIFIsNotFatal(t *testing.T) {
	data, err := metadatatest.JPEG(8, 8, []byte("II*\x00\xff\xff\xff\xff"))
	if err != nil {
		t.Fatal(err)
	}
	src, err := FromBytes("broken.jpg", data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if src.MetadataErr == nil || src.HasMetadata() {
		t.Errorf("want MetadataErr and no blob, got err=%v blob=%d", src.MetadataErr, len(src.Metadata))
	}
}
