package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected Encoding
	}{
		{"UTF-8 BOM", []byte{0xEF, 0xBB, 0xBF, '<', 'a', '/', '>'}, EncodingUTF8},
		{"declaration", []byte(`<?xml version="1.0" encoding="windows-1251"?><a/>`), EncodingWindows1251},
		{"declaration alias", []byte(`<?xml version="1.0" encoding="CP1250"?><a/>`), EncodingWindows1250},
		{"plain UTF-8", []byte("<a>Привіт</a>"), EncodingUTF8},
		{"invalid UTF-8 defaults to 1251", []byte{'<', 'a', '>', 0xCF, 0xF0, '<', '/', 'a', '>'}, EncodingWindows1251},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectEncoding(tt.content))
		})
	}
}

func TestDecodeWindows1251(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String("Товар")
	require.NoError(t, err)

	decoded, err := Decode([]byte(encoded), EncodingWindows1251)
	require.NoError(t, err)
	assert.Equal(t, "Товар", decoded)
}

func TestDecodeKeepsValidUTF8(t *testing.T) {
	decoded, err := Decode([]byte("Čokolada"), EncodingWindows1250)
	require.NoError(t, err)
	assert.Equal(t, "Čokolada", decoded)
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode([]byte{0xFF, 0xFE, 0x00}, Encoding("ebcdic"))
	assert.Error(t, err)
}
