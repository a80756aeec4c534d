package ink

import (
	"context"
	"fmt"

	"github.com/aretw0/inkjournal/pkg/core"
)

// Saver persists the strokes of a session under a note ID.
// *core.Service satisfies it.
type Saver interface {
	SaveNote(ctx context.Context, id string, strokes []core.Stroke) (core.Note, error)
}

// Session is the working state of one note being drawn: the committed
// strokes plus undo and redo history. It is not safe for concurrent use.
type Session struct {
	id      string
	window  int
	strokes []core.Stroke
	undo    []core.Stroke
	redo    []core.Stroke
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithWindow sets the smoothing window applied by AddStroke.
// Values below 1 keep the default.
func WithWindow(size int) SessionOption {
	return func(s *Session) {
		if size > 0 {
			s.window = size
		}
	}
}

// WithID starts the session with a known note ID.
func WithID(id string) SessionOption {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// NewSession starts an empty session with a fresh note ID.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:     core.NewNoteID(),
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenSession resumes editing of an existing note. Its strokes are loaded
// as they are (no re-smoothing) and seed the undo history, and later saves
// reuse the note's ID.
func OpenSession(n core.Note, opts ...SessionOption) *Session {
	s := NewSession(append([]SessionOption{WithID(n.ID)}, opts...)...)
	s.strokes = core.CloneStrokes(n.Strokes)
	s.undo = core.CloneStrokes(n.Strokes)
	return s
}

// ID returns the note ID every save of this session uses.
func (s *Session) ID() string { return s.id }

// Window returns the smoothing window applied to new strokes.
func (s *Session) Window() int { return s.window }

// AddStroke smooths the captured points and appends them as a new stroke.
// It clears the redo history. Empty input is ignored.
func (s *Session) AddStroke(points []core.Point) {
	if len(points) == 0 {
		return
	}
	raw := make([]core.Point, len(points))
	copy(raw, points)

	stroke := core.Stroke{Points: Smooth(raw, s.window)}
	s.strokes = append(s.strokes, stroke)
	s.undo = append(s.undo, stroke)
	s.redo = s.redo[:0]
}

// Undo removes the most recent stroke. It reports whether anything changed.
func (s *Session) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, last)
	s.strokes = s.strokes[:len(s.strokes)-1]
	return true
}

// Redo restores the most recently undone stroke.
func (s *Session) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	last := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, last)
	s.strokes = append(s.strokes, last)
	return true
}

func (s *Session) CanUndo() bool { return len(s.undo) > 0 }
func (s *Session) CanRedo() bool { return len(s.redo) > 0 }

// Strokes returns a copy of the committed strokes in drawing order.
func (s *Session) Strokes() []core.Stroke {
	return core.CloneStrokes(s.strokes)
}

// Len returns the number of committed strokes.
func (s *Session) Len() int { return len(s.strokes) }

// Clear drops all strokes and history but keeps the note ID.
func (s *Session) Clear() {
	s.strokes = nil
	s.undo = nil
	s.redo = nil
}

// Reset clears the session and assigns a new note ID, starting a new note.
func (s *Session) Reset() {
	s.Clear()
	s.id = core.NewNoteID()
}

// Save persists the current strokes without touching the session.
func (s *Session) Save(ctx context.Context, saver Saver) (core.Note, error) {
	n, err := saver.SaveNote(ctx, s.id, s.Strokes())
	if err != nil {
		return core.Note{}, fmt.Errorf("save session %s: %w", s.id, err)
	}
	return n, nil
}

// SaveAndClear persists the current strokes and, only once the record is
// written, resets the session for a new note. On error the strokes are kept.
func (s *Session) SaveAndClear(ctx context.Context, saver Saver) (core.Note, error) {
	n, err := s.Save(ctx, saver)
	if err != nil {
		return core.Note{}, err
	}
	s.Reset()
	return n, nil
}
