package export

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"

	"github.com/aretw0/inkjournal/pkg/core"
)

// Default preview canvas, matching the capture surface.
const (
	PreviewWidth  = 1080
	PreviewHeight = 1920
	previewLine   = 4
)

// PreviewOptions controls PNG rendering.
type PreviewOptions struct {
	Options
	Width, Height int
	// FitToCanvas scales the drawing to fill the canvas instead of using
	// the captured coordinates as is.
	FitToCanvas bool
}

// DefaultPreviewOptions renders at capture size without re-smoothing.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{Width: PreviewWidth, Height: PreviewHeight}
}

// Preview renders the strokes as black 4px lines on white and writes a PNG.
func Preview(n core.Note, w io.Writer, opts PreviewOptions) error {
	bounds, ok := StrokeBounds(n.Strokes)
	if !ok {
		return core.ErrNothingToExport
	}
	if opts.Width <= 0 {
		opts.Width = PreviewWidth
	}
	if opts.Height <= 0 {
		opts.Height = PreviewHeight
	}

	project := func(p core.Point) (float64, float64) { return float64(p.X), float64(p.Y) }
	if opts.FitToCanvas {
		const margin = 40
		fit := NewFit(bounds, float64(opts.Width-2*margin), float64(opts.Height-2*margin), margin, margin)
		project = fit.Apply
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	defer dc.Close()

	dc.ClearWithColor(gg.White)
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(previewLine)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for _, s := range opts.strokes(n) {
		if len(s.Points) < 2 {
			continue
		}
		x, y := project(s.Points[0])
		dc.MoveTo(x, y)
		for _, p := range s.Points[1:] {
			x, y = project(p)
			dc.LineTo(x, y)
		}
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("failed to draw stroke: %w", err)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
