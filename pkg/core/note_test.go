package core

import (
	"errors"
	"testing"
)

func TestNote_Summary(t *testing.T) {
	n := Note{
		ID: "n1",
		Strokes: []Stroke{
			{Points: []Point{{X: 1}, {X: 2}}},
			{},
			{Points: []Point{{X: 3}}},
		},
		RecognizedText: "Ünïcode",
		Timestamp:      42,
	}

	s := n.Summary()
	if s.StrokeCount != 3 || s.PointCount != 3 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if !s.Matches("ÜNÏ") {
		t.Error("expected case-insensitive match on non-ASCII text")
	}
	if s.Matches("missing") {
		t.Error("unexpected match")
	}
	if n.IsEmpty() {
		t.Error("note with points reported empty")
	}
	if !(Note{Strokes: []Stroke{{}}}).IsEmpty() {
		t.Error("note with only empty strokes should be empty")
	}
}

func TestCloneStrokes(t *testing.T) {
	orig := []Stroke{{Points: []Point{{X: 1, Y: 1, Timestamp: 1}}}}
	cp := CloneStrokes(orig)
	cp[0].Points[0].X = 99

	if orig[0].Points[0].X != 1 {
		t.Error("CloneStrokes shares backing arrays")
	}
}

func TestValidateID(t *testing.T) {
	for _, id := range []string{NewNoteID(), "plain", "1700000000"} {
		if err := ValidateID(id); err != nil {
			t.Errorf("ValidateID(%q) = %v", id, err)
		}
	}
	for _, id := range []string{"", "..", "x/y", ".inkjournal"} {
		if err := ValidateID(id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("ValidateID(%q) = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestNote_Equal(t *testing.T) {
	base := Note{ID: "a", Timestamp: 1, Strokes: []Stroke{{Points: []Point{{X: 1, Y: 2, Timestamp: 3}}}}}

	if !base.Equal(Note{ID: "a", Timestamp: 1, Strokes: CloneStrokes(base.Strokes)}) {
		t.Error("copies should be equal")
	}
	if !(Note{ID: "a"}).Equal(Note{ID: "a", Strokes: []Stroke{}}) {
		t.Error("nil and empty strokes should be equal")
	}
	if !(Note{ID: "a", Strokes: []Stroke{{}}}).Equal(Note{ID: "a", Strokes: []Stroke{{Points: []Point{}}}}) {
		t.Error("nil and empty points should be equal")
	}

	moved := Note{ID: "a", Timestamp: 1, Strokes: []Stroke{{Points: []Point{{X: 1, Y: 2, Timestamp: 4}}}}}
	if base.Equal(moved) {
		t.Error("different points should not be equal")
	}
	if base.Equal(Note{ID: "a", Timestamp: 1, RecognizedText: "x", Strokes: base.Strokes}) {
		t.Error("different text should not be equal")
	}
	if base.Equal(Note{ID: "a", Timestamp: 1}) {
		t.Error("different stroke count should not be equal")
	}
}
