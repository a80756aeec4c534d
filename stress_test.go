package inkjournal_test

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/inkjournal"
	"github.com/aretw0/inkjournal/pkg/core"
)

// TestConcurrency_ExternalVsInternal has another process scribble garbage
// records into the journal while notes are saved and watched. Nothing may
// panic, and listing must still succeed with the unreadable records skipped.
func TestConcurrency_ExternalVsInternal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	dir := t.TempDir()
	service, err := inkjournal.New(dir,
		inkjournal.WithAutoInit(true),
		inkjournal.WithVersioning(false),
		inkjournal.WithDevSafety(false),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			path := filepath.Join(dir, fmt.Sprintf("noise-%d.json", rand.Intn(10)))
			_ = os.WriteFile(path, []byte(fmt.Sprintf(`{"id": "noise", "strokes": [%d`, time.Now().UnixNano())), 0644)
			time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			id := fmt.Sprintf("data-%d", rand.Intn(10))
			strokes := []core.Stroke{{Points: []core.Point{{X: 1, Y: 2, Timestamp: time.Now().UnixMilli()}}}}
			// Errors are tolerated here; the check is that nothing breaks.
			_, _ = service.SaveNote(context.Background(), id, strokes)
			time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
		}
	}()

	stream, err := service.Watch(ctx, "*")
	require.NoError(t, err)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range stream {
		}
	}()

	wg.Wait()

	notes, err := service.ListNotes(context.Background())
	require.NoError(t, err)
	for _, n := range notes {
		require.NotEqual(t, "noise", n.ID)
	}
	t.Logf("Survived chaos with %d notes", len(notes))
}
