package probe

import (
	"fmt"

	"github.com/backmassage/webpdrop/internal/codec"
	"github.com/backmassage/webpdrop/internal/metadata"
)

// SourceImage describes one input file as found on disk.
type SourceImage struct {
	Path   string
	Name   string // Base name.
	Size   int64  // Bytes on disk.
	Width  int
	Height int
	Format string          // Decoder name: "jpeg", "png", "webp", ...
	Mode   codec.ColorMode // From the header's color model.

	// Metadata is the EXIF blob; empty when the source carries none.
	Metadata metadata.Blob

	// MetadataErr is set when an EXIF block was present but unreadable.
	// The image is still converted, without metadata.
	MetadataErr error
}

// HasMetadata reports whether an EXIF blob was extracted.
func (s *SourceImage) HasMetadata() bool { return !s.Metadata.Empty() }

// Dimensions returns "WxH".
func (s *SourceImage) Dimensions() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
