// Package metadatatest builds small EXIF blobs and tagged JPEGs for tests.
package metadatatest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
)

// TIFF field types used by the builder.
const (
	typeByte     = 1
	typeASCII    = 2
	typeLong     = 4
	typeRational = 5
)

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

// GPS is a position in degrees/minutes/seconds with hemisphere refs.
type GPS struct {
	LatRef string // "N" or "S"
	Lat    [3][2]uint32
	LonRef string // "E" or "W"
	Lon    [3][2]uint32
}

// SampleGPS is 35°40'12.34"N 139°45'56.78"E.
var SampleGPS = GPS{
	LatRef: "N", Lat: [3][2]uint32{{35, 1}, {40, 1}, {1234, 100}},
	LonRef: "E", Lon: [3][2]uint32{{139, 1}, {45, 1}, {5678, 100}},
}

// EXIF returns a little-endian TIFF-structured EXIF blob with Make, Model
// and, when gps is non-nil, a GPS IFD.
func EXIF(maker, model string, gps *GPS) []byte {
	ifd0 := []entry{
		ascii(0x010f, maker),
		ascii(0x0110, model),
	}
	var gpsIFD []entry
	if gps != nil {
		gpsIFD = []entry{
			{tag: 0x0000, typ: typeByte, count: 4, data: []byte{2, 2, 0, 0}},
			ascii(0x0001, gps.LatRef),
			rationals(0x0002, gps.Lat),
			ascii(0x0003, gps.LonRef),
			rationals(0x0004, gps.Lon),
		}
		// Placeholder; patched once the IFD0 size is known.
		ifd0 = append(ifd0, entry{tag: 0x8825, typ: typeLong, count: 1, data: make4(0)})
	}

	const headerSize = 8
	if gps != nil {
		gpsOffset := uint32(headerSize + ifdSize(ifd0))
		ifd0[len(ifd0)-1].data = make4(gpsOffset)
	}

	var buf bytes.Buffer
	buf.WriteString("II*\x00")
	binary.Write(&buf, binary.LittleEndian, uint32(headerSize))
	buf.Write(encodeIFD(headerSize, ifd0))
	if gps != nil {
		buf.Write(encodeIFD(buf.Len(), gpsIFD))
	}
	return buf.Bytes()
}

// JPEG returns a w x h gradient JPEG. When exif is non-empty it is stored
// in an APP1 segment right after SOI.
func JPEG(w, h int, exif []byte) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), 90, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	if len(exif) == 0 {
		return buf.Bytes(), nil
	}

	data := buf.Bytes()
	var out bytes.Buffer
	out.Write(data[:2]) // SOI
	out.Write([]byte{0xff, 0xe1})
	binary.Write(&out, binary.BigEndian, uint16(2+6+len(exif)))
	out.WriteString("Exif\x00\x00")
	out.Write(exif)
	out.Write(data[2:])
	return out.Bytes(), nil
}

func ascii(tag uint16, s string) entry {
	b := append([]byte(s), 0)
	return entry{tag: tag, typ: typeASCII, count: uint32(len(b)), data: b}
}

func rationals(tag uint16, v [3][2]uint32) entry {
	var b bytes.Buffer
	for _, r := range v {
		binary.Write(&b, binary.LittleEndian, r[0])
		binary.Write(&b, binary.LittleEndian, r[1])
	}
	return entry{tag: tag, typ: typeRational, count: 3, data: b.Bytes()}
}

func make4(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func ifdSize(entries []entry) int {
	n := 2 + 12*len(entries) + 4
	for _, e := range entries {
		if len(e.data) > 4 {
			n += len(e.data) + len(e.data)%2
		}
	}
	return n
}

// encodeIFD lays out entries (sorted by tag) followed by their out-of-line
// values, assuming the IFD starts at offset off in the TIFF stream.
func encodeIFD(off int, entries []entry) []byte {
	var head, tail bytes.Buffer
	dataOff := off + 2 + 12*len(entries) + 4

	binary.Write(&head, binary.LittleEndian, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&head, binary.LittleEndian, e.tag)
		binary.Write(&head, binary.LittleEndian, e.typ)
		binary.Write(&head, binary.LittleEndian, e.count)
		if len(e.data) <= 4 {
			v := make([]byte, 4)
			copy(v, e.data)
			head.Write(v)
			continue
		}
		binary.Write(&head, binary.LittleEndian, uint32(dataOff+tail.Len()))
		tail.Write(e.data)
		if len(e.data)%2 == 1 {
			tail.WriteByte(0)
		}
	}
	binary.Write(&head, binary.LittleEndian, uint32(0)) // no next IFD
	head.Write(tail.Bytes())
	return head.Bytes()
}
