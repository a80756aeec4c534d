// Package export renders notes as a one-page PDF document or a PNG preview.
//
// Both renderers refuse notes without any points with core.ErrNothingToExport
// and write nothing in that case.
package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/ink"
)

// Options controls rendering.
type Options struct {
	// Smooth re-applies stroke smoothing before drawing.
	Smooth bool
	// Window is the smoothing window. Zero means ink.DefaultWindow.
	Window int
	// Location formats timestamps. Nil means time.Local.
	Location *time.Location
}

// DefaultOptions smooths with the default window in local time.
func DefaultOptions() Options {
	return Options{Smooth: true, Window: ink.DefaultWindow}
}

func (o Options) location() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.Local
}

func (o Options) strokes(n core.Note) []core.Stroke {
	if !o.Smooth {
		return n.Strokes
	}
	w := o.Window
	if w <= 0 {
		w = ink.DefaultWindow
	}
	return ink.SmoothStrokes(n.Strokes, w)
}

// FileName returns Note_yyyyMMdd_HHmmss.pdf for the note's timestamp.
func FileName(n core.Note, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return "Note_" + time.UnixMilli(n.Timestamp).In(loc).Format("20060102_150405") + ".pdf"
}

// FormatTimestamp renders a note timestamp as "02 Jan 2006, 03:04 PM".
func FormatTimestamp(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format("02 Jan 2006, 03:04 PM")
}

// ExportFile writes the PDF of n into dir and returns the file path.
// The file appears atomically; nothing is created for an empty note.
func ExportFile(n core.Note, dir string, opts Options) (string, error) {
	if n.IsEmpty() {
		return "", core.ErrNothingToExport
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(n, opts.location()))
	tmp, err := os.CreateTemp(dir, ".export-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := PDF(n, tmp, opts); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move export to %s: %w", path, err)
	}
	return path, nil
}

// Bounds is the bounding box of a set of points.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width and Height are clamped to at least 1 so scaling never divides by zero.
func (b Bounds) Width() float64  { return math.Max(b.MaxX-b.MinX, 1) }
func (b Bounds) Height() float64 { return math.Max(b.MaxY-b.MinY, 1) }

// StrokeBounds returns the bounds of all points and false when there are none.
func StrokeBounds(strokes []core.Stroke) (Bounds, bool) {
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	found := false
	for _, s := range strokes {
		for _, p := range s.Points {
			x, y := float64(p.X), float64(p.Y)
			b.MinX = math.Min(b.MinX, x)
			b.MinY = math.Min(b.MinY, y)
			b.MaxX = math.Max(b.MaxX, x)
			b.MaxY = math.Max(b.MaxY, y)
			found = true
		}
	}
	return b, found
}

// Fit maps points inside b uniformly into a box of the given size whose top
// left corner is at (offX, offY).
type Fit struct {
	bounds     Bounds
	scale      float64
	offX, offY float64
}

// NewFit computes the uniform scale min(boxW/width, boxH/height).
func NewFit(b Bounds, boxW, boxH, offX, offY float64) Fit {
	return Fit{
		bounds: b,
		scale:  math.Min(boxW/b.Width(), boxH/b.Height()),
		offX:   offX,
		offY:   offY,
	}
}

// Scale returns the uniform scale factor.
func (f Fit) Scale() float64 { return f.scale }

// Apply maps a point into page coordinates.
func (f Fit) Apply(p core.Point) (float64, float64) {
	return (float64(p.X)-f.bounds.MinX)*f.scale + f.offX,
		(float64(p.Y)-f.bounds.MinY)*f.scale + f.offY
}
