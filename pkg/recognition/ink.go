// Package recognition converts strokes to recognizer input and turns a
// recognition engine into the core.TextRecognizer used when saving notes.
package recognition

import "github.com/aretw0/inkjournal/pkg/core"

// InkPoint is a sample in the recognizer's native ink format.
type InkPoint struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	T int64   `json:"t"`
}

// InkStroke is an ordered run of ink points.
type InkStroke struct {
	Points []InkPoint `json:"points"`
}

// Ink is the recognizer's view of a whole drawing.
type Ink struct {
	Strokes []InkStroke `json:"strokes"`
}

// ToInk converts strokes to Ink. Order and values are preserved exactly;
// empty strokes are kept.
func ToInk(strokes []core.Stroke) Ink {
	ink := Ink{Strokes: make([]InkStroke, len(strokes))}
	for i, s := range strokes {
		pts := make([]InkPoint, len(s.Points))
		for j, p := range s.Points {
			pts[j] = InkPoint{X: p.X, Y: p.Y, T: p.Timestamp}
		}
		ink.Strokes[i] = InkStroke{Points: pts}
	}
	return ink
}

// PointCount returns the number of points across all strokes.
func (ink Ink) PointCount() int {
	n := 0
	for _, s := range ink.Strokes {
		n += len(s.Points)
	}
	return n
}

// BatchInput is the column-oriented request body accepted by cloud
// handwriting services.
type BatchInput struct {
	Configuration *Configuration `json:"configuration,omitempty"`
	ContentType   string         `json:"contentType"`
	StrokeGroups  []StrokeGroup  `json:"strokeGroups"`
	Width         int32          `json:"width,omitempty"`
	Height        int32          `json:"height,omitempty"`
}

// Configuration carries recognition options.
type Configuration struct {
	Lang string `json:"lang,omitempty"`
}

// StrokeGroup is a group of strokes recognized together.
type StrokeGroup struct {
	Strokes []BatchStroke `json:"strokes"`
}

// BatchStroke holds one stroke as parallel coordinate columns.
type BatchStroke struct {
	X []float32 `json:"x"`
	Y []float32 `json:"y"`
	T []int64   `json:"t,omitempty"`
}

// Batch converts the ink to a single-group text batch request.
func (ink Ink) Batch(width, height int, lang string) BatchInput {
	group := StrokeGroup{Strokes: make([]BatchStroke, 0, len(ink.Strokes))}
	for _, s := range ink.Strokes {
		bs := BatchStroke{
			X: make([]float32, len(s.Points)),
			Y: make([]float32, len(s.Points)),
			T: make([]int64, len(s.Points)),
		}
		for i, p := range s.Points {
			bs.X[i], bs.Y[i], bs.T[i] = p.X, p.Y, p.T
		}
		group.Strokes = append(group.Strokes, bs)
	}

	in := BatchInput{
		ContentType:  "Text",
		StrokeGroups: []StrokeGroup{group},
		Width:        int32(width),
		Height:       int32(height),
	}
	if lang != "" {
		in.Configuration = &Configuration{Lang: lang}
	}
	return in
}
