package fs

import (
	"sync"
	"testing"
	"time"

	"github.com/aretw0/inkjournal/pkg/core"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	var mu sync.Mutex
	var got []core.Event
	emit := func(e core.Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	}

	d.add(core.Event{Type: core.EventCreate, ID: "a"}, emit)
	d.add(core.Event{Type: core.EventModify, ID: "a"}, emit)
	d.add(core.Event{Type: core.EventModify, ID: "b"}, emit)

	time.Sleep(100 * time.Millisecond)
	d.stopAndWait(time.Second)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d: %v", len(got), got)
	}
	for _, e := range got {
		if e.ID == "a" && e.Type != core.EventCreate {
			t.Errorf("create followed by modify should stay a create, got %s", e.Type)
		}
	}
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	d := newDebouncer(time.Hour)
	fired := false
	d.add(core.Event{Type: core.EventDelete, ID: "x"}, func(core.Event) { fired = true })

	d.stopAndWait(time.Second)
	d.add(core.Event{Type: core.EventDelete, ID: "y"}, func(core.Event) { fired = true })

	if fired {
		t.Error("no event should fire after stop")
	}
}
