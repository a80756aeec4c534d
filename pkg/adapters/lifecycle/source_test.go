package lifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inkjournal/pkg/adapters/lifecycle"
	"github.com/aretw0/inkjournal/pkg/core"
)

type chanWatcher struct {
	ch      chan core.Event
	err     error
	pattern string
}

func (w *chanWatcher) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	w.pattern = pattern
	if w.err != nil {
		return nil, w.err
	}
	return w.ch, nil
}

func TestSource_RelaysEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &chanWatcher{ch: make(chan core.Event, 1)}
	src := lifecycle.NewSource(w, "n-*")
	require.NoError(t, src.Start(ctx))
	assert.Equal(t, "n-*", w.pattern)

	w.ch <- core.Event{Type: core.EventCreate, ID: "n-1"}
	select {
	case e := <-src.Events():
		assert.Equal(t, "CREATE n-1", e.String())
	case <-time.After(2 * time.Second):
		t.Fatal("no event relayed")
	}

	close(w.ch)
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events not closed after upstream closed")
	}

	assert.Error(t, src.Start(ctx))
}

func TestSource_WatchError(t *testing.T) {
	src := lifecycle.NewSource(&chanWatcher{err: errors.New("unsupported")}, "")
	assert.Error(t, src.Start(context.Background()))

	_, ok := <-src.Events()
	assert.False(t, ok)
}
