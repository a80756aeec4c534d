package platform

import (
	"log/slog"

	"github.com/aretw0/inkjournal/pkg/core"
)

// options holds the internal configuration for the journal service.
type options struct {
	repository core.Repository
	recognizer core.TextRecognizer
	logger     *slog.Logger
	adapter    string
	config     map[string]interface{}
}

// Option defines a functional option for configuring a journal.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]interface{}),
	}
}

// WithAutoInit creates the journal directory (and git repository when
// versioning) if missing.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithVersioning enables or disables committing every change with git.
// When not set, versioning is on only if the journal already has a .git directory.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["versioning"] = enabled
	}
}

// WithFormat selects the record format for new writes ("json" or "yaml").
func WithFormat(format string) Option {
	return func(o *options) {
		o.config["format"] = format
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist ensures the journal directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLogger sets the logger for the service and the repository.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRecognizer sets the handwriting recognizer used when saving notes.
func WithRecognizer(r core.TextRecognizer) Option {
	return func(o *options) {
		o.recognizer = r
	}
}

// WithRepository injects a custom storage adapter (e.g. a mock).
// If provided, the default filesystem adapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name. Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithSystemDir sets the hidden directory name. Defaults to ".inkjournal".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithEventBuffer sets the size of the watch broker buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the
// Watch loop, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Save and Delete return core.ErrReadOnly.
// 2. Initialization (mkdir, git init) is skipped.
// 3. Index cache updates are not persisted.
// 4. The dev sandbox is bypassed (uses the real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`. By default (true) journals outside the temp directory are
// redirected into it.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}
