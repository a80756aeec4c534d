package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inkjournal/pkg/core"
)

func TestState_TracksRepository(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, core.Note{ID: "a", Strokes: []core.Stroke{}}))
	_, err := repo.Summaries(ctx)
	require.NoError(t, err)

	state, ok := repo.State().(RepositoryState)
	require.True(t, ok)
	assert.Equal(t, repo.Path, state.Path)
	assert.Equal(t, "json", state.Format)
	assert.Equal(t, 1, state.CacheSize)
	assert.False(t, state.WatcherActive)
	assert.Equal(t, "repository", repo.ComponentType())
}

func TestState_Tree(t *testing.T) {
	st := RepositoryState{Path: "/j", Format: "yaml", CacheSize: 3, WatcherActive: true, ReadOnly: true}
	root := st.tree()

	assert.Equal(t, "Journal", root.Name)
	require.Len(t, root.Children, 1)
	repo := root.Children[0]
	assert.Equal(t, "read-only", repo.Metadata["mode"])

	byName := map[string]stateNode{}
	for _, c := range repo.Children {
		byName[c.Name] = c
	}
	assert.Equal(t, "running", byName["Watcher"].Status)
	assert.Equal(t, "3", byName["Index"].Metadata["entries"])
	assert.Equal(t, "stopped", byName["Git"].Status)

	assert.NotEmpty(t, st.Diagram())
}
