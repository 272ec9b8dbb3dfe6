package metadata

import (
	"bytes"
	"encoding/binary"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// pngEXIF returns the payload of the first eXIf chunk, or nil. Chunks are
// walked without CRC checks; the pixel decoder has already validated the
// stream.
func pngEXIF(data []byte) []byte {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil
	}
	p := data[len(pngSignature):]
	for len(p) >= 12 {
		n := binary.BigEndian.Uint32(p[:4])
		typ := string(p[4:8])
		if uint64(n)+12 > uint64(len(p)) {
			return nil
		}
		switch typ {
		case "eXIf":
			return p[8 : 8+n]
		case "IEND":
			return nil
		}
		p = p[12+n:]
	}
	return nil
}
