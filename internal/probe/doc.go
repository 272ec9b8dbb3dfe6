// Package probe reads a source image's header and metadata into a
// SourceImage without decoding the pixels. The result is built once per
// job and read-only afterwards.
package probe
