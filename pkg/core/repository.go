package core

import "context"

// Repository defines the contract for storing and retrieving notes.
// Adhering to this interface keeps the core independent of the underlying
// storage mechanism.
type Repository interface {
	// Save persists a note as a whole, replacing any previous version.
	Save(ctx context.Context, n Note) error

	// Get retrieves a note by its ID.
	Get(ctx context.Context, id string) (Note, error)

	// List returns every readable note. Unreadable records are skipped.
	List(ctx context.Context) ([]Note, error)

	// Delete removes a note by its ID.
	Delete(ctx context.Context, id string) error

	// Initialize ensures the underlying storage is ready (directories, git init).
	Initialize(ctx context.Context) error
}

// Summarizer is implemented by repositories that can list notes without
// decoding every stroke.
type Summarizer interface {
	Summaries(ctx context.Context) ([]Summary, error)
}

// Watchable is implemented by repositories that can report external changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// TextRecognizer turns strokes into text. Implementations return
// ErrRecognitionUnavailable when the engine cannot be used.
type TextRecognizer interface {
	RecognizeText(ctx context.Context, strokes []Stroke) (string, error)
}
