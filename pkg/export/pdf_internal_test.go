package export

import (
	"bytes"
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inkjournal/pkg/core"
)

// utf16BE is how gofpdf writes text set in a UTF-8 font.
func utf16BE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 2*len(units))
	for i, u := range units {
		binary.BigEndian.PutUint16(out[2*i:], u)
	}
	return out
}

func TestPDF_KeepsNonLatinText(t *testing.T) {
	n := core.Note{
		ID: "ru",
		Strokes: []core.Stroke{
			{Points: []core.Point{{X: 0, Y: 0, Timestamp: 1}, {X: 10, Y: 10, Timestamp: 2}}},
		},
		RecognizedText: "Привет мир",
		Timestamp:      1,
	}

	pdf, err := render(n, DefaultOptions())
	require.NoError(t, err)
	pdf.SetCompression(false)

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))

	assert.True(t, bytes.Contains(buf.Bytes(), utf16BE("Привет мир")), "recognized text must be written verbatim")
	assert.Contains(t, buf.String(), "/FontFile2", "text font must be embedded")
	assert.NotContains(t, buf.String(), "/BaseFont /Helvetica")
}
