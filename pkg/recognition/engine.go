package recognition

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/inkjournal/pkg/core"
)

// Engine is a handwriting recognition backend.
type Engine interface {
	// IsReady reports whether Recognize can be called now.
	IsReady(ctx context.Context) bool
	// EnsureReady prepares the engine (e.g. downloads a model) and reports
	// whether it is ready. It is idempotent.
	EnsureReady(ctx context.Context) bool
	// Recognize returns candidate texts, best first. The list may be empty.
	Recognize(ctx context.Context, ink Ink) ([]string, error)
}

// Service adapts an Engine to core.TextRecognizer.
type Service struct {
	engine Engine
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wraps engine.
func NewService(engine Engine, opts ...Option) *Service {
	s := &Service{
		engine: engine,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecognizeText ensures the engine is ready, recognizes the strokes and
// returns the best candidate, or "" when there is none. Any engine problem
// is reported as core.ErrRecognitionUnavailable.
func (s *Service) RecognizeText(ctx context.Context, strokes []core.Stroke) (string, error) {
	if s.engine == nil {
		return "", fmt.Errorf("%w: no engine configured", core.ErrRecognitionUnavailable)
	}
	if !s.engine.EnsureReady(ctx) {
		return "", fmt.Errorf("%w: engine not ready", core.ErrRecognitionUnavailable)
	}

	ink := ToInk(strokes)
	candidates, err := s.engine.Recognize(ctx, ink)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrRecognitionUnavailable, err)
	}
	s.logger.Debug("recognized ink", "strokes", len(ink.Strokes), "points", ink.PointCount(), "candidates", len(candidates))

	if len(candidates) == 0 {
		return "", nil
	}
	return candidates[0], nil
}

var _ core.TextRecognizer = (*Service)(nil)
