// Package codec wraps the pixel codecs behind small types: decoding any
// registered raster format, classifying and normalizing color modes,
// Lanczos resizing, and the lossy WebP encoder with EXIF attachment.
//
// Decoding goes through github.com/disintegration/imaging, which pulls in
// the stdlib JPEG/PNG/GIF decoders and BMP/TIFF from golang.org/x/image.
// WebP input is registered here. Encoding uses github.com/chai2010/webp.
package codec
