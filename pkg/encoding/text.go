// Package encoding provides text encoding utilities for map files.
package encoding

import (
	"bytes"
	"fmt"

	textenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding identifies how a text file was stored on disk.
type Encoding int

// Supported on-disk encodings.
const (
	UTF8    Encoding = iota // plain UTF-8, no byte order mark
	UTF8BOM                 // UTF-8 with a leading byte order mark
	UTF16LE                 // UTF-16 little-endian with byte order mark
	UTF16BE                 // UTF-16 big-endian with byte order mark
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// String returns the encoding name.
func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "UTF-8"
	case UTF8BOM:
		return "UTF-8 BOM"
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	default:
		return fmt.Sprintf("Unknown(%d)", int(e))
	}
}

// Detect inspects the byte order mark at the start of data.
func Detect(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return UTF8BOM
	case bytes.HasPrefix(data, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return UTF16BE
	default:
		return UTF8
	}
}

// DecodeText converts raw file bytes to UTF-8 without a byte order mark.
// Plain UTF-8 input is returned as-is.
func DecodeText(data []byte) ([]byte, Encoding, error) {
	enc := Detect(data)
	if enc == UTF8 {
		return data, enc, nil
	}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	text, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return nil, enc, fmt.Errorf("decoding %s text: %w", enc, err)
	}
	return text, enc, nil
}

// EncodeText converts UTF-8 text back to the given on-disk encoding.
func EncodeText(text []byte, enc Encoding) ([]byte, error) {
	var codec textenc.Encoding
	switch enc {
	case UTF8:
		return text, nil
	case UTF8BOM:
		out := make([]byte, 0, len(bomUTF8)+len(text))
		out = append(out, bomUTF8...)
		return append(out, text...), nil
	case UTF16LE:
		codec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case UTF16BE:
		codec = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	default:
		return nil, fmt.Errorf("unsupported text encoding %s", enc)
	}

	out, _, err := transform.Bytes(codec.NewEncoder(), text)
	if err != nil {
		return nil, fmt.Errorf("encoding %s text: %w", enc, err)
	}
	return out, nil
}
