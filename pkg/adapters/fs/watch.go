package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/inkjournal/pkg/core"
)

// Watch reports changes to note records whose ID matches pattern
// (doublestar syntax; empty matches everything). The returned channel is
// closed once ctx is cancelled and the watcher has shut down.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	// Prime the cache so Reconcile has a baseline to diff against.
	if _, err := r.Summaries(ctx); err != nil {
		return nil, err
	}

	events := make(chan core.Event)
	w := newWatchWorker(r, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	out := make(chan core.Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-w.done:
				return
			case e := <-events:
				select {
				case out <- e:
				case <-ctx.Done():
				}
			}
		}
	}()
	return out, nil
}

// Reconcile rescans the journal and returns the changes the index cache had
// not seen yet. The watcher uses it to catch up after git rewrote files.
func (r *Repository) Reconcile(ctx context.Context) ([]core.Event, error) {
	if err := r.cache.Load(); err != nil {
		return nil, err
	}
	before := r.cache.Snapshot()

	if _, err := r.Summaries(ctx); err != nil {
		return nil, err
	}
	after := r.cache.Snapshot()
	r.recordReconcile()

	now := time.Now().Unix()
	var events []core.Event
	for name, mtime := range after {
		prev, ok := before[name]
		switch {
		case !ok:
			events = append(events, core.Event{Type: core.EventCreate, ID: idFromName(name), Timestamp: now})
		case !prev.Equal(mtime):
			events = append(events, core.Event{Type: core.EventModify, ID: idFromName(name), Timestamp: now})
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			events = append(events, core.Event{Type: core.EventDelete, ID: idFromName(name), Timestamp: now})
		}
	}
	return events, nil
}

// shouldIgnore filters out system files, temp files and IDs outside pattern.
func (r *Repository) shouldIgnore(event fsnotify.Event, pattern string) bool {
	name := filepath.Base(event.Name)
	if !r.isRecordName(name) {
		return true
	}
	if filepath.Dir(event.Name) != filepath.Clean(r.Path) {
		return true
	}
	ok, err := doublestar.Match(pattern, idFromName(name))
	return err != nil || !ok
}

func (r *Repository) mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

// resolveID maps an absolute record path back to a note ID.
func (r *Repository) resolveID(path string) (string, error) {
	rel, err := filepath.Rel(r.Path, path)
	if err != nil {
		return "", err
	}
	if strings.Contains(filepath.ToSlash(rel), "/") {
		return "", fmt.Errorf("path %s is outside the journal", path)
	}
	id := idFromName(rel)
	if err := core.ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}
