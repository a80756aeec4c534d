package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/inkjournal/pkg/core"
)

const (
	// debounceWindow is the quiet period before a note event is emitted.
	// An atomic save lands as create, write and rename of the same record.
	debounceWindow = 50 * time.Millisecond
	// drainTimeout bounds how long shutdown waits on pending emits.
	drainTimeout = 5 * time.Second
)

// watchWorker is the supervised goroutine behind Repository.Watch. It turns
// fsnotify events on record files into debounced note events and stays
// silent while git holds .git/index.lock, catching up with a reconcile once
// the lock is released.
type watchWorker struct {
	*worker.BaseWorker
	repo      *Repository
	pattern   string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
	done      chan struct{}

	gitLocked bool // owned by the loop goroutine
}

func newWatchWorker(repo *Repository, pattern string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("note-watcher"),
		repo:       repo,
		pattern:    pattern,
		events:     events,
		debouncer:  newDebouncer(debounceWindow),
		done:       make(chan struct{}),
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if status := w.State().Status; status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("note watcher already started (status: %s)", status)
	}

	watcher, err := w.open()
	if err != nil {
		return err
	}
	w.watcher = watcher
	w.repo.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

// open watches the journal root and, for versioned journals, .git so the
// index lock is visible.
func (w *watchWorker) open() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.repo.Path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch journal %s: %w", w.repo.Path, err)
	}
	if w.repo.config.Versioning {
		gitDir := filepath.Join(w.repo.Path, ".git")
		if err := watcher.Add(gitDir); err != nil && !errors.Is(err, os.ErrNotExist) {
			w.repo.logger.Warn("git lock not watched, events may fire during git operations", "dir", gitDir, "error", err)
		}
	}
	return watcher, nil
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"pattern":           w.pattern,
		}
	})
}

// run owns the watcher until ctx ends. Pending emits are drained before done
// closes, since they may still be blocked handing events to Watch.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer close(w.done)
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()
	defer w.debouncer.stopAndWait(drainTimeout)
	defer w.recoverPanic(ctx, &err)

	return w.loop(ctx)
}

// recoverPanic turns a panic in the loop into an error so the supervisor
// restarts the worker. The stack is logged only at debug level.
func (w *watchWorker) recoverPanic(ctx context.Context, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = fmt.Errorf("note watcher panic: %v", r)
	attrs := []any{"error", *err}
	if w.repo.logger.Enabled(ctx, slog.LevelDebug) {
		attrs = append(attrs, "stack", string(debug.Stack()))
	}
	w.repo.logger.Error("note watcher panic", attrs...)
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return w.closed(ctx, "events")
			}
			w.handle(ctx, ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return w.closed(ctx, "errors")
			}
			w.repo.logger.Error("fsnotify error", "error", err)
			w.report(err)
		}
	}
}

// closed treats a channel closed outside of shutdown as a failure.
func (w *watchWorker) closed(ctx context.Context, channel string) error {
	if w.StopRequested || ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("watcher %s channel closed", channel)
}

func (w *watchWorker) handle(ctx context.Context, ev fsnotify.Event) {
	if isGitIndexLock(ev.Name) {
		w.trackGitLock(ctx, ev)
		return
	}
	if w.gitLocked {
		return
	}
	w.forward(ctx, ev)
}

func isGitIndexLock(path string) bool {
	return filepath.Base(path) == "index.lock" && filepath.Base(filepath.Dir(path)) == ".git"
}

// trackGitLock pauses on lock creation and reconciles on release, since the
// records git rewrote in between produced no events.
func (w *watchWorker) trackGitLock(ctx context.Context, ev fsnotify.Event) {
	switch {
	case ev.Has(fsnotify.Create):
		w.gitLocked = true
		w.repo.logger.Debug("git is writing, note events paused")
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.gitLocked = false
		w.repo.logger.Debug("git released the index, reconciling")
		w.catchUp(ctx)
	}
}

func (w *watchWorker) catchUp(ctx context.Context) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		missed, err := w.repo.Reconcile(ctx)
		if err != nil {
			w.repo.logger.Error("reconcile failed", "error", err)
			return err
		}
		for _, e := range missed {
			w.send(ctx, e, "reconcile")
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		w.repo.logger.Error("reconcile panic", "error", err)
		w.report(fmt.Errorf("reconcile panic: %w", err))
	}))
}

// forward maps a record event on disk to a note event.
func (w *watchWorker) forward(ctx context.Context, ev fsnotify.Event) {
	w.repo.logger.Debug("fs event", "name", ev.Name, "op", ev.Op.String())
	if w.repo.shouldIgnore(ev, w.pattern) {
		return
	}
	typ := w.repo.mapEventType(ev)
	if typ == "" {
		return
	}
	id, err := w.repo.resolveID(ev.Name)
	if err != nil {
		w.repo.logger.Debug("no note id for path", "path", ev.Name, "error", err)
		w.report(fmt.Errorf("failed to resolve note id for %s: %w", ev.Name, err))
		return
	}
	w.send(ctx, core.Event{Type: typ, ID: id, Timestamp: time.Now().Unix()}, "fs")
}

func (w *watchWorker) send(ctx context.Context, e core.Event, source string) {
	w.repo.logger.Debug("note event queued", "type", e.Type, "id", e.ID, "source", source)
	w.debouncer.add(e, func(e core.Event) {
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

// report hands asynchronous failures to the configured ErrorHandler.
func (w *watchWorker) report(err error) {
	if h := w.repo.config.ErrorHandler; h != nil {
		h(err)
	}
}
