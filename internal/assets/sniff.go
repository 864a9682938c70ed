// Package assets handles decoding, type-sniffing and storage of user-supplied
// binary assets (mod banners, source icons).
package assets

import "bytes"

// FileKind identifies a supported asset file type.
type FileKind int

const (
	KindUnknown FileKind = iota
	KindPNG
	KindJPEG
	KindGIF
	KindWEBP
)

// Ext returns the storage file extension for the kind, or "" for KindUnknown.
func (k FileKind) Ext() string {
	switch k {
	case KindPNG:
		return "png"
	case KindJPEG:
		return "jpeg"
	case KindGIF:
		return "gif"
	case KindWEBP:
		return "webp"
	default:
		return ""
	}
}

func (k FileKind) String() string {
	if k == KindUnknown {
		return "unknown"
	}
	return k.Ext()
}

var signatures = []struct {
	kind   FileKind
	offset int
	magic  []byte
}{
	{KindPNG, 0, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{KindJPEG, 0, []byte{0xFF, 0xD8, 0xFF}},
	{KindGIF, 0, []byte("GIF87a")},
	{KindGIF, 0, []byte("GIF89a")},
	// RIFF container; bytes 8-11 name the WEBP form.
	{KindWEBP, 8, []byte("WEBP")},
}

// Sniff classifies a decoded payload by its leading bytes. An unmatched
// prefix is a normal outcome, reported as KindUnknown.
func Sniff(data []byte) FileKind {
	for _, sig := range signatures {
		if len(data) < sig.offset+len(sig.magic) {
			continue
		}
		if !bytes.Equal(data[sig.offset:sig.offset+len(sig.magic)], sig.magic) {
			continue
		}
		if sig.kind == KindWEBP && !bytes.HasPrefix(data, []byte("RIFF")) {
			continue
		}
		return sig.kind
	}
	return KindUnknown
}
