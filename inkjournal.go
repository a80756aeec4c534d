package inkjournal

import (
	"log/slog"

	"github.com/aretw0/inkjournal/internal/platform"
	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/ink"
)

// --- Types ---

// Note is a public alias for the core note.
type Note = core.Note

// Stroke is a public alias for the core stroke.
type Stroke = core.Stroke

// Point is a public alias for the core point.
type Point = core.Point

// Session is a public alias for the editing session.
type Session = ink.Session

// --- Configuration ---

// Option defines a functional option for configuring a journal.
type Option = platform.Option

// WithAutoInit creates the journal directory if missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables git history.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithFormat selects the record format ("json" or "yaml").
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the journal directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly opens the journal without write access.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the dev-run sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRecognizer sets the handwriting recognizer used on save.
func WithRecognizer(r core.TextRecognizer) Option {
	return platform.WithRecognizer(r)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithSystemDir sets the hidden directory name (e.g. ".inkjournal").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer sets the size of the watch broker buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// --- Factory ---

// New opens a journal and returns its service.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// NewSession starts an editing session for a new note.
func NewSession(opts ...ink.SessionOption) *Session {
	return ink.NewSession(opts...)
}

// --- Safety & Utils ---

// ResolveJournalPath determines the actual path for the journal based on safety rules.
func ResolveJournalPath(userPath string, forceTemp bool) string {
	return platform.ResolveJournalPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindJournalRoot looks upwards for a journal root indicator.
func FindJournalRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
