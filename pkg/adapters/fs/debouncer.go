package fs

import (
	"sync"
	"time"

	"github.com/aretw0/inkjournal/pkg/core"
)

// debouncer coalesces bursts of events per note ID. An atomic save shows up
// as several filesystem events; only one is emitted after the quiet period.
type debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*pendingEvent
	stopped bool
	wg      sync.WaitGroup
}

type pendingEvent struct {
	event core.Event
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]*pendingEvent),
	}
}

// add schedules emit for the event, replacing a pending event of the same ID.
// A pending CREATE stays a CREATE when followed by a MODIFY.
func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if p, ok := d.pending[e.ID]; ok && p.timer.Stop() {
		if p.event.Type == core.EventCreate && e.Type == core.EventModify {
			e.Type = core.EventCreate
		}
		p.event = e
		p.timer.Reset(d.delay)
		return
	}

	p := &pendingEvent{event: e}
	d.pending[e.ID] = p
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		ev := p.event
		if d.pending[ev.ID] == p {
			delete(d.pending, ev.ID)
		}
		stopped := d.stopped
		d.mu.Unlock()

		if !stopped {
			emit(ev)
		}
	})
}

// stopAndWait rejects new events, cancels pending ones and waits for
// callbacks already running, up to timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for id, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, id)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
