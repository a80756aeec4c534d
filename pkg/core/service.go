package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"
)

const defaultEventBuffer = 100

// Service handles the business logic for notes.
type Service struct {
	repo            Repository
	recognizer      TextRecognizer
	logger          *slog.Logger
	now             func() time.Time
	eventBufferSize int

	mu sync.RWMutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRecognizer sets the handwriting recognizer used on save.
// Without one, notes are saved with empty recognized text.
func WithRecognizer(r TextRecognizer) ServiceOption {
	return func(s *Service) {
		s.recognizer = r
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp saved notes.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEventBuffer sets the size of the watch broker buffer. Zero keeps the default.
func WithEventBuffer(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:            repo,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:             time.Now,
		eventBufferSize: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository exposes the underlying storage adapter.
func (s *Service) Repository() Repository {
	return s.repo
}

// SaveNote recognizes the strokes and persists them as the note with the given ID.
// An empty ID allocates a new one. Recognition failures never block the save:
// the note is stored with empty recognized text instead.
func (s *Service) SaveNote(ctx context.Context, id string, strokes []Stroke) (Note, error) {
	if id == "" {
		id = NewNoteID()
	}
	if err := ValidateID(id); err != nil {
		return Note{}, fmt.Errorf("%w: %q", err, id)
	}
	if strokes == nil {
		strokes = []Stroke{}
	}

	text := s.recognize(ctx, strokes)
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}

	note := Note{
		ID:             id,
		Strokes:        strokes,
		RecognizedText: text,
		Timestamp:      s.now().UnixMilli(),
	}

	if err := s.repo.Save(ctx, note); err != nil {
		return Note{}, fmt.Errorf("failed to save note %s: %w", id, err)
	}
	s.logger.Debug("note saved", "id", id, "strokes", len(strokes), "text_len", len(text))
	return note, nil
}

func (s *Service) recognize(ctx context.Context, strokes []Stroke) string {
	if s.recognizer == nil || len(strokes) == 0 {
		return ""
	}
	text, err := s.recognizer.RecognizeText(ctx, strokes)
	if err != nil {
		if errors.Is(err, ErrRecognitionUnavailable) {
			s.logger.Warn("recognition unavailable, saving without text", "error", err)
		} else {
			s.logger.Error("recognition failed, saving without text", "error", err)
		}
		return ""
	}
	return text
}

// GetNote retrieves a note.
func (s *Service) GetNote(ctx context.Context, id string) (Note, error) {
	if err := ValidateID(id); err != nil {
		return Note{}, fmt.Errorf("%w: %q", err, id)
	}
	return s.repo.Get(ctx, id)
}

// ListNotes retrieves all readable notes, newest first.
func (s *Service) ListNotes(ctx context.Context) ([]Note, error) {
	notes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Timestamp != notes[j].Timestamp {
			return notes[i].Timestamp > notes[j].Timestamp
		}
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

// ListSummaries returns the listing view of all notes, newest first.
// Repositories implementing Summarizer answer without decoding strokes.
func (s *Service) ListSummaries(ctx context.Context) ([]Summary, error) {
	var summaries []Summary
	if sm, ok := s.repo.(Summarizer); ok {
		var err error
		summaries, err = sm.Summaries(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		notes, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		summaries = make([]Summary, 0, len(notes))
		for _, n := range notes {
			summaries = append(summaries, n.Summary())
		}
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Timestamp != summaries[j].Timestamp {
			return summaries[i].Timestamp > summaries[j].Timestamp
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

// SearchNotes returns the summaries whose recognized text contains query,
// ignoring case. An empty query returns everything.
func (s *Service) SearchNotes(ctx context.Context, query string) ([]Summary, error) {
	all, err := s.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]Summary, 0, len(all))
	for _, sum := range all {
		if sum.Matches(query) {
			matched = append(matched, sum)
		}
	}
	return matched, nil
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return fmt.Errorf("%w: %q", err, id)
	}
	return s.repo.Delete(ctx, id)
}

// Watch observes changes in the repository if supported.
// Events are relayed through a buffered broker so a slow consumer does not
// stall the underlying watcher.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	upstream, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	size := s.eventBufferSize
	s.mu.RUnlock()

	out := make(chan Event, size)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-upstream:
				if !ok {
					return
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
