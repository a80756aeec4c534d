// Package server exposes a journal over HTTP.
//
// Notes are served as JSON, exports as PDF and PNG, and changes to the
// journal are pushed to websocket clients on /events.
package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/export"
	"github.com/aretw0/inkjournal/pkg/ink"
)

// maxBodyBytes bounds note uploads.
const maxBodyBytes = 32 << 20

// Server routes HTTP requests to a journal service.
type Server struct {
	svc     *core.Service
	logger  *slog.Logger
	window  int
	export  export.Options
	preview export.PreviewOptions
	router  *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWindow sets the smoothing window applied to uploads that ask for it.
func WithWindow(window int) Option {
	return func(s *Server) {
		if window > 0 {
			s.window = window
		}
	}
}

// WithExportOptions sets the PDF rendering options.
func WithExportOptions(opts export.Options) Option {
	return func(s *Server) { s.export = opts }
}

// WithPreviewOptions sets the PNG rendering options.
func WithPreviewOptions(opts export.PreviewOptions) Option {
	return func(s *Server) { s.preview = opts }
}

// New creates a server for svc.
func New(svc *core.Service, opts ...Option) *Server {
	s := &Server{
		svc:     svc,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		window:  ink.DefaultWindow,
		export:  export.DefaultOptions(),
		preview: export.DefaultPreviewOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/debug/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)

	notes := r.PathPrefix("/notes").Subrouter()
	notes.HandleFunc("", s.handleList).Methods(http.MethodGet)
	notes.HandleFunc("", s.handleCreate).Methods(http.MethodPost)
	notes.HandleFunc("/{id}", s.handleGet).Methods(http.MethodGet)
	notes.HandleFunc("/{id}", s.handleUpdate).Methods(http.MethodPut)
	notes.HandleFunc("/{id}", s.handleDelete).Methods(http.MethodDelete)
	notes.HandleFunc("/{id}/export.pdf", s.handleExport).Methods(http.MethodGet)
	notes.HandleFunc("/{id}/preview.png", s.handlePreview).Methods(http.MethodGet)

	r.Use(s.logRequests)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(l) }()
	s.logger.Info("serving journal", "addr", l.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack hands the connection over to the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}
