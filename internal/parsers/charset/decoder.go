package charset

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1250 Encoding = "windows-1250"
	EncodingWindows1251 Encoding = "windows-1251"
	EncodingISO88592    Encoding = "iso-8859-2"
	EncodingKOI8R       Encoding = "koi8-r"
)

var declarationRe = regexp.MustCompile(`<\?xml[^?]*encoding=["']([^"']+)["'][^?]*\?>`)

// Normalize maps encoding aliases to a supported Encoding
func Normalize(name string) Encoding {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf8", "utf-8":
		return EncodingUTF8
	case "windows-1250", "cp1250":
		return EncodingWindows1250
	case "windows-1251", "cp1251":
		return EncodingWindows1251
	case "iso-8859-2", "latin2":
		return EncodingISO88592
	case "koi8-r", "koi8r":
		return EncodingKOI8R
	default:
		return Encoding(strings.ToLower(name))
	}
}

// FromDeclaration extracts the encoding named in an XML declaration, or "" if absent
func FromDeclaration(content []byte) Encoding {
	head := content[:min(200, len(content))]
	if match := declarationRe.FindSubmatch(head); len(match) > 1 {
		return Normalize(string(match[1]))
	}
	return ""
}

// DetectEncoding detects the encoding of a byte buffer
func DetectEncoding(data []byte) Encoding {
	if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		return EncodingUTF8
	}
	if enc := FromDeclaration(data); enc != "" {
		return enc
	}
	if utf8.Valid(data) {
		return EncodingUTF8
	}
	// Invalid UTF-8 without a declaration: Cyrillic feeds are the common case
	return EncodingWindows1251
}

// Decode converts a byte buffer from the specified encoding to a UTF-8 string.
// Content that is already valid UTF-8 is returned unchanged regardless of enc.
func Decode(data []byte, enc Encoding) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data), nil
	}

	cm := charmapFor(enc)
	if cm == nil {
		return "", fmt.Errorf("unsupported encoding: %s", enc)
	}

	reader := transform.NewReader(bytes.NewReader(data), cm.NewDecoder())
	result, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", enc, err)
	}
	return string(result), nil
}

// ToUTF8Reader wraps a reader with a decoder to convert to UTF-8
func ToUTF8Reader(r io.Reader, enc Encoding) io.Reader {
	cm := charmapFor(enc)
	if cm == nil {
		return r
	}
	return transform.NewReader(r, cm.NewDecoder())
}

func charmapFor(enc Encoding) encoding.Encoding {
	switch Normalize(string(enc)) {
	case EncodingWindows1250:
		return charmap.Windows1250
	case EncodingWindows1251:
		return charmap.Windows1251
	case EncodingISO88592:
		return charmap.ISO8859_2
	case EncodingKOI8R:
		return charmap.KOI8R
	default:
		return nil
	}
}
