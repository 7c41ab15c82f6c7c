package encoding

import (
	"bytes"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Encoding
	}{
		{"plain", []byte("meta:\n"), UTF8},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "meta:"...), UTF8BOM},
		{"utf16le", []byte{0xFF, 0xFE, 'm', 0}, UTF16LE},
		{"utf16be", []byte{0xFE, 0xFF, 0, 'm'}, UTF16BE},
		{"empty", nil, UTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.data); got != tt.want {
				t.Errorf("Detect() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecodeText_PlainIsUntouched(t *testing.T) {
	data := []byte("meta:\n  format: 7\n")
	text, enc, err := DecodeText(data)
	if err != nil {
		t.Fatalf("DecodeText failed: %v", err)
	}
	if enc != UTF8 {
		t.Errorf("expected UTF-8, got %s", enc)
	}
	if !bytes.Equal(text, data) {
		t.Errorf("plain text changed: %q", text)
	}
}

func TestDecodeText_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, "tilemap: {}\n"...)
	text, enc, err := DecodeText(data)
	if err != nil {
		t.Fatalf("DecodeText failed: %v", err)
	}
	if enc != UTF8BOM {
		t.Errorf("expected UTF-8 BOM, got %s", enc)
	}
	if string(text) != "tilemap: {}\n" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestEncodeText_RoundTrip(t *testing.T) {
	text := []byte("tilemap:\n  0: Space\n")

	for _, enc := range []Encoding{UTF8, UTF8BOM, UTF16LE, UTF16BE} {
		t.Run(enc.String(), func(t *testing.T) {
			raw, err := EncodeText(text, enc)
			if err != nil {
				t.Fatalf("EncodeText failed: %v", err)
			}
			if got := Detect(raw); got != enc {
				t.Errorf("encoded data detected as %s", got)
			}

			back, gotEnc, err := DecodeText(raw)
			if err != nil {
				t.Fatalf("DecodeText failed: %v", err)
			}
			if gotEnc != enc {
				t.Errorf("round trip encoding = %s, want %s", gotEnc, enc)
			}
			if !bytes.Equal(back, text) {
				t.Errorf("round trip text = %q, want %q", back, text)
			}
		})
	}
}

func TestEncodeText_Unknown(t *testing.T) {
	if _, err := EncodeText([]byte("x"), Encoding(42)); err == nil {
		t.Error("expected error for unknown encoding")
	}
}
