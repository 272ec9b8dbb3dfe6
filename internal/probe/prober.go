package probe

import (
	"fmt"
	"path/filepath"

	"github.com/backmassage/webpdrop/internal/codec"
	"github.com/backmassage/webpdrop/internal/metadata"
)

// FromBytes describes the encoded image data read from path. Only the
// header is parsed; an unrecognized or truncated header is an error. A
// broken EXIF block is not: it is recorded in MetadataErr.
func FromBytes(path string, data []byte) (*SourceImage, error) {
	cfg, format, err := codec.Config(data)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", filepath.Base(path), err)
	}

	src := &SourceImage{
		Path:   path,
		Name:   filepath.Base(path),
		Size:   int64(len(data)),
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
		Mode:   codec.ModeOfModel(cfg.ColorModel),
	}
	src.Metadata, src.MetadataErr = metadata.Extract(data, format)
	return src, nil
}
