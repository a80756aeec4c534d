// Package lifecycle exposes journal change events as a lifecycle.Source.
package lifecycle

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/inkjournal/pkg/core"
)

// Watcher is the part of the journal service a Source needs.
type Watcher interface {
	Watch(ctx context.Context, pattern string) (<-chan core.Event, error)
}

// Source subscribes to journal changes when started and relays them as
// lifecycle events. Events is closed when the subscription ends.
type Source struct {
	watcher Watcher
	pattern string
	out     chan lifecycle.Event
	once    sync.Once
}

// NewSource creates a source for the notes whose ID matches pattern.
func NewSource(w Watcher, pattern string) *Source {
	return &Source{
		watcher: w,
		pattern: pattern,
		out:     make(chan lifecycle.Event),
	}
}

func (s *Source) Events() <-chan lifecycle.Event {
	return s.out
}

// Start subscribes and returns once the subscription is in place. It may
// only be called once.
func (s *Source) Start(ctx context.Context) error {
	started := false
	var err error
	s.once.Do(func() {
		started = true
		var events <-chan core.Event
		events, err = s.watcher.Watch(ctx, s.pattern)
		if err != nil {
			close(s.out)
			return
		}
		lifecycle.Go(ctx, func(ctx context.Context) error {
			defer close(s.out)
			for {
				select {
				case <-ctx.Done():
					return nil
				case e, ok := <-events:
					if !ok {
						return nil
					}
					select {
					case s.out <- e:
					case <-ctx.Done():
						return nil
					}
				}
			}
		})
	})
	if !started {
		return errors.New("source already started")
	}
	return err
}

var _ lifecycle.Source = (*Source)(nil)
