package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/aretw0/inkjournal/pkg/core"
)

// Page layout in points on an A4 (595x842) page.
const (
	inkBoxX      = 50
	inkBoxY      = 130
	inkBoxWidth  = 500
	inkBoxHeight = 600
	textX        = 40
	inkLineWidth = 3
	textSize     = 14
	// textFont is Go Regular, embedded as a UTF-8 subset so recognized
	// text in any script it covers (Latin, Greek, Cyrillic) survives export.
	textFont = "goregular"
)

// PDF writes a single A4 page with the recognized text, the timestamp and
// the strokes scaled into the ink box.
//
// Bounds are taken from the stored points; smoothing, when enabled, only
// changes what is drawn.
func PDF(n core.Note, w io.Writer, opts Options) error {
	pdf, err := render(n, opts)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// render lays out the page without writing it.
func render(n core.Note, opts Options) (*gofpdf.Fpdf, error) {
	bounds, ok := StrokeBounds(n.Strokes)
	if !ok {
		return nil, core.ErrNothingToExport
	}
	fit := NewFit(bounds, inkBoxWidth, inkBoxHeight, inkBoxX, inkBoxY)

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle("Note "+n.ID, true)
	pdf.SetCreator("inkjournal", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(textFont, "", goregular.TTF)
	pdf.AddPage()

	pdf.SetFont(textFont, "", textSize)
	pdf.SetTextColor(64, 64, 64)
	pdf.Text(textX, 40, "Recognized text:")
	pdf.Text(textX, 60, n.RecognizedText)
	pdf.Text(textX, 90, "Timestamp: "+FormatTimestamp(n.Timestamp, opts.location()))

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(inkLineWidth)
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	for _, s := range opts.strokes(n) {
		for i := 1; i < len(s.Points); i++ {
			x1, y1 := fit.Apply(s.Points[i-1])
			x2, y2 := fit.Apply(s.Points[i])
			pdf.Line(x1, y1, x2, y2)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to lay out pdf: %w", err)
	}
	return pdf, nil
}
