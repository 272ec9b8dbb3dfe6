// Package metadata carries a source image's EXIF block through the
// compression search and into the written WebP file.
//
// The blob travels as raw TIFF-structured bytes (the payload of a JPEG APP1
// "Exif" segment without its header). It is extracted once per job, handed
// to every encode attempt, and forced into the final file once more after
// it is written, then verified tag by tag.
package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/backmassage/webpdrop/internal/codec"
	"github.com/backmassage/webpdrop/internal/naming"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Blob is a raw EXIF block. The zero value means "no metadata".
type Blob []byte

// Empty reports whether the blob holds no metadata.
func (b Blob) Empty() bool { return len(b) == 0 }

// exifHeader prefixes the TIFF block inside JPEG APP1 segments and, for
// some writers, WebP and PNG chunks too.
var exifHeader = []byte("Exif\x00\x00")

// jpegScanLimit bounds the marker search in JPEG sources; APP1 must precede
// the image data and sits well inside the first segments.
const jpegScanLimit = 256 << 10

// ErrNoVerify is returned by Reattach when the chunk was written but the
// read-back tags do not match the source blob.
var ErrNoVerify = errors.New("metadata: reattached EXIF does not match source")

// Extract returns the EXIF blob of an encoded image. format is the name
// reported by image.DecodeConfig ("jpeg", "png", "webp", ...). A source
// without EXIF yields an empty blob and a nil error; a present but
// unreadable block is an error.
func Extract(data []byte, format string) (Blob, error) {
	var raw []byte
	switch format {
	case "jpeg":
		head := data
		if len(head) > jpegScanLimit {
			head = head[:jpegScanLimit]
		}
		if !bytes.Contains(head, exifHeader) {
			return nil, nil
		}
		x, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("parse jpeg EXIF: %w", err)
		}
		return Blob(x.Raw), nil
	case "webp":
		raw = codec.EXIF(data)
	case "png":
		raw = pngEXIF(data)
	default:
		// TIFF sources are themselves TIFF structures; their tags describe the
		// pixel layout and are not carried over. Other formats have no EXIF.
		return nil, nil
	}
	if len(raw) == 0 {
		return nil, nil
	}

	raw = bytes.TrimPrefix(raw, exifHeader)
	if _, err := decode(raw); err != nil {
		return nil, fmt.Errorf("parse %s EXIF: %w", format, err)
	}
	return Blob(raw), nil
}

// decode parses a JPEG or bare TIFF EXIF stream. Non-critical errors (an
// unreadable maker note or sub-IFD) still yield a usable result.
func decode(data []byte) (*exif.Exif, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, err
	}
	return x, nil
}

// Reattach forces blob into the WebP file at outputPath and verifies it by
// reading the chunk back. It reports whether the metadata is present and
// matches afterwards. An empty blob is a no-op returning (false, nil).
// The file is rewritten atomically; on error the previous file is intact.
func Reattach(outputPath string, blob Blob) (bool, error) {
	if blob.Empty() {
		return false, nil
	}

	x, err := decode(blob)
	if err != nil {
		return false, fmt.Errorf("reparse EXIF: %w", err)
	}
	data, err := os.ReadFile(outputPath)
	if err != nil {
		return false, fmt.Errorf("read output: %w", err)
	}
	tagged, err := codec.SetEXIF(data, x.Raw)
	if err != nil {
		return false, err
	}
	if err := naming.WriteFileAtomic(outputPath, tagged); err != nil {
		return false, fmt.Errorf("rewrite output: %w", err)
	}

	written, err := os.ReadFile(outputPath)
	if err != nil {
		return false, fmt.Errorf("read back output: %w", err)
	}
	got := codec.EXIF(written)
	if len(got) == 0 {
		return false, ErrNoVerify
	}
	missing, err := Missing(blob, Blob(bytes.TrimPrefix(got, exifHeader)))
	if err != nil {
		return false, fmt.Errorf("verify EXIF: %w", err)
	}
	if len(missing) > 0 {
		return false, fmt.Errorf("%w: %v", ErrNoVerify, missing)
	}
	return true, nil
}

// Tags walks the blob into a map of EXIF field name to printed value.
// IFD pointer tags are skipped: their offsets legitimately change when a
// block is re-serialized.
func Tags(blob Blob) (map[string]string, error) {
	x, err := decode(blob)
	if err != nil {
		return nil, err
	}
	w := tagWalker{}
	if err := x.Walk(w); err != nil {
		return nil, err
	}
	return w, nil
}

type tagWalker map[string]string

func (w tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if isPointer(name) {
		return nil
	}
	w[string(name)] = tag.String()
	return nil
}

func isPointer(name exif.FieldName) bool {
	switch name {
	case exif.ExifIFDPointer, exif.GPSInfoIFDPointer, exif.InteroperabilityIFDPointer,
		exif.ThumbJPEGInterchangeFormat, exif.ThumbJPEGInterchangeFormatLength:
		return true
	}
	return false
}

// Missing returns, sorted, the tags of src that are absent from out or
// carry a different value.
func Missing(src, out Blob) ([]string, error) {
	want, err := Tags(src)
	if err != nil {
		return nil, fmt.Errorf("source tags: %w", err)
	}
	have, err := Tags(out)
	if err != nil {
		return nil, fmt.Errorf("output tags: %w", err)
	}
	var missing []string
	for name, v := range want {
		if have[name] != v {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing, nil
}

// LatLong returns the GPS position stored in blob, if any.
func LatLong(blob Blob) (lat, long float64, ok bool) {
	x, err := decode(blob)
	if err != nil {
		return 0, 0, false
	}
	lat, long, err = x.LatLong()
	if err != nil {
		return 0, 0, false
	}
	return lat, long, true
}
