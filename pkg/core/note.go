package core

import (
	"strings"

	"github.com/google/uuid"
)

// Point is a single sampled touch position.
// Timestamp is in milliseconds and only meaningful relative to the other
// points of the same stroke.
type Point struct {
	X         float32 `json:"x" yaml:"x"`
	Y         float32 `json:"y" yaml:"y"`
	Timestamp int64   `json:"timestamp" yaml:"timestamp"`
}

// Stroke is one continuous pointer-down to pointer-up gesture.
// Strokes are treated as values: smoothing or editing produces a new Stroke.
type Stroke struct {
	Points []Point `json:"points" yaml:"points"`
}

// Note is the central entity of the domain.
// It is agnostic to the storage format; the fs adapter persists it as one
// record per ID.
type Note struct {
	ID             string   `json:"id" yaml:"id"`
	Strokes        []Stroke `json:"strokes" yaml:"strokes"`
	RecognizedText string   `json:"recognizedText" yaml:"recognizedText"`
	Timestamp      int64    `json:"timestamp" yaml:"timestamp"`
}

// Summary is the lightweight view of a note used for listing and search.
type Summary struct {
	ID             string `json:"id"`
	RecognizedText string `json:"recognizedText"`
	Timestamp      int64  `json:"timestamp"`
	StrokeCount    int    `json:"strokeCount"`
	PointCount     int    `json:"pointCount"`
}

// NewNoteID returns a fresh random identifier for a note.
func NewNoteID() string {
	return uuid.NewString()
}

// PointCount returns the total number of points across all strokes.
func (n Note) PointCount() int {
	total := 0
	for _, s := range n.Strokes {
		total += len(s.Points)
	}
	return total
}

// IsEmpty reports whether the note has nothing drawable.
func (n Note) IsEmpty() bool {
	return n.PointCount() == 0
}

// Equal reports whether two notes hold the same data. Nil and empty stroke
// or point slices are equal, as they are indistinguishable once stored.
func (n Note) Equal(o Note) bool {
	if n.ID != o.ID || n.RecognizedText != o.RecognizedText || n.Timestamp != o.Timestamp {
		return false
	}
	if len(n.Strokes) != len(o.Strokes) {
		return false
	}
	for i := range n.Strokes {
		a, b := n.Strokes[i].Points, o.Strokes[i].Points
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// Summary builds the listing view of the note.
func (n Note) Summary() Summary {
	return Summary{
		ID:             n.ID,
		RecognizedText: n.RecognizedText,
		Timestamp:      n.Timestamp,
		StrokeCount:    len(n.Strokes),
		PointCount:     n.PointCount(),
	}
}

// Matches reports whether the recognized text contains query, ignoring case.
// An empty query matches every note.
func (s Summary) Matches(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.RecognizedText), strings.ToLower(query))
}

// CloneStrokes returns a deep copy so callers can hand out strokes without
// sharing backing arrays.
func CloneStrokes(strokes []Stroke) []Stroke {
	out := make([]Stroke, len(strokes))
	for i, s := range strokes {
		pts := make([]Point, len(s.Points))
		copy(pts, s.Points)
		out[i] = Stroke{Points: pts}
	}
	return out
}

// ValidateID rejects identifiers that cannot be used as a storage key.
func ValidateID(id string) error {
	if id == "" {
		return ErrInvalidID
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") || strings.HasPrefix(id, ".") {
		return ErrInvalidID
	}
	return nil
}
