package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inkjournal/pkg/adapters/fs"
	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/git"
)

// setupRepo creates an initialized repository in a temp directory.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "journal")
	cfg := fs.Config{
		Path:     path,
		AutoInit: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	repo := fs.NewRepository(cfg)
	require.NoError(t, repo.Initialize(context.Background()))
	return repo, path
}

func note(id string, ts int64, text string) core.Note {
	return core.Note{
		ID:             id,
		Strokes:        []core.Stroke{{Points: []core.Point{{X: 1, Y: 2, Timestamp: 3}}}},
		RecognizedText: text,
		Timestamp:      ts,
	}
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		_, path := setupRepo(t)
		assert.DirExists(t, path)
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{
			Path:      filepath.Join(t.TempDir(), "nope"),
			MustExist: true,
		})
		assert.Error(t, repo.Initialize(context.Background()))
	})

	t.Run("Rejects Unknown Format", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{Path: t.TempDir(), Format: "toml"})
		assert.Error(t, repo.Initialize(context.Background()))
	})

	t.Run("Removes Interrupted Writes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "journal")
		sys := filepath.Join(path, fs.DefaultSystemDir)
		require.NoError(t, os.MkdirAll(sys, 0755))
		for _, p := range []string{
			filepath.Join(path, fs.TempFilePrefix+"1"),
			filepath.Join(sys, fs.TempFilePrefix+"2"),
		} {
			require.NoError(t, os.WriteFile(p, []byte("partial"), 0644))
		}
		require.NoError(t, os.WriteFile(filepath.Join(path, "keep.json"), []byte("{}"), 0644))

		repo := fs.NewRepository(fs.Config{Path: path})
		require.NoError(t, repo.Initialize(context.Background()))

		assert.NoFileExists(t, filepath.Join(path, fs.TempFilePrefix+"1"))
		assert.NoFileExists(t, filepath.Join(sys, fs.TempFilePrefix+"2"))
		assert.FileExists(t, filepath.Join(path, "keep.json"))
	})

	t.Run("Read Only Leaves Temp Files", func(t *testing.T) {
		path := t.TempDir()
		tmp := filepath.Join(path, fs.TempFilePrefix+"1")
		require.NoError(t, os.WriteFile(tmp, []byte("partial"), 0644))

		repo := fs.NewRepository(fs.Config{Path: path, ReadOnly: true})
		require.NoError(t, repo.Initialize(context.Background()))
		assert.FileExists(t, tmp)
	})

	t.Run("Versioning Creates Git Repo", func(t *testing.T) {
		if !fs.IsGitInstalled() {
			t.Skip("git not installed")
		}
		_, path := setupRepo(t, func(c *fs.Config) { c.Versioning = true })

		assert.DirExists(t, filepath.Join(path, ".git"))
		ignore, err := os.ReadFile(filepath.Join(path, ".gitignore"))
		require.NoError(t, err)
		assert.Contains(t, string(ignore), ".inkjournal/")
	})
}

func TestSaveGetDelete(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	n := note("n1", 10, "hello")

	require.NoError(t, repo.Save(ctx, n))
	assert.FileExists(t, filepath.Join(path, "n1.json"))

	got, err := repo.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, n, got)

	// Saving again replaces the whole record.
	n2 := note("n1", 20, "world")
	n2.Strokes = []core.Stroke{}
	require.NoError(t, repo.Save(ctx, n2))
	got, err = repo.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, n2, got)

	require.NoError(t, repo.Delete(ctx, "n1"))
	_, err = repo.Get(ctx, "n1")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "n1"), core.ErrNotFound)
}

func TestGet_Unreadable(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(path, "bad.json"), []byte("{oops"), 0644))
	_, err := repo.Get(ctx, "bad")
	assert.ErrorIs(t, err, core.ErrRecordUnreadable)

	// A record whose content belongs to another note is not trusted.
	data, err := fs.Serialize(note("other", 1, ""))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(path, "mismatch.json"), data, 0644))
	_, err = repo.Get(ctx, "mismatch")
	assert.ErrorIs(t, err, core.ErrRecordUnreadable)
}

func TestList_SkipsUnreadable(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, note("a", 1, "first")))
	require.NoError(t, repo.Save(ctx, note("b", 2, "second")))
	require.NoError(t, os.WriteFile(filepath.Join(path, "corrupt.json"), []byte(`{"id": "corrupt", "strokes": [`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(path, "tail.json"),
		[]byte(`{"id": "tail", "strokes": [], "recognizedText": "", "timestamp": 3}GARBAGE`), 0644))
	// Non-record files are not notes at all.
	require.NoError(t, os.WriteFile(filepath.Join(path, "README.txt"), []byte("hi"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(path, fs.TempFilePrefix+"123"), []byte("partial"), 0644))

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "b", notes[0].ID, "newest first")
	assert.Equal(t, "a", notes[1].ID)

	state := repo.State().(fs.RepositoryState)
	assert.Equal(t, 2, state.SkippedRecords)
}

func TestList_MissingDirectoryIsEmpty(t *testing.T) {
	repo := fs.NewRepository(fs.Config{Path: filepath.Join(t.TempDir(), "missing")})

	notes, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestSummaries_UsesCache(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, note("a", 1, "alpha")))
	require.NoError(t, repo.Save(ctx, note("b", 2, "beta")))

	sums, err := repo.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, core.Summary{ID: "b", RecognizedText: "beta", Timestamp: 2, StrokeCount: 1, PointCount: 1}, sums[0])
	assert.FileExists(t, filepath.Join(path, ".inkjournal", "index.json"))

	// A fresh repository answers from the persisted index.
	again := fs.NewRepository(fs.Config{Path: path})
	sums, err = again.Summaries(ctx)
	require.NoError(t, err)
	assert.Len(t, sums, 2)
	assert.Equal(t, 2, again.State().(fs.RepositoryState).CacheSize)

	require.NoError(t, again.Delete(ctx, "a"))
	sums, err = again.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, "b", sums[0].ID)
}

func TestReadOnly(t *testing.T) {
	_, path := setupRepo(t)
	ro := fs.NewRepository(fs.Config{Path: path, ReadOnly: true})
	ctx := context.Background()

	require.NoError(t, ro.Initialize(ctx))
	assert.ErrorIs(t, ro.Save(ctx, note("x", 1, "")), core.ErrReadOnly)
	assert.ErrorIs(t, ro.Delete(ctx, "x"), core.ErrReadOnly)
}

func TestYAMLFormat(t *testing.T) {
	repo, path := setupRepo(t, func(c *fs.Config) { c.Format = fs.FormatYAML })
	ctx := context.Background()
	n := note("y1", 5, "yaml note")

	require.NoError(t, repo.Save(ctx, n))
	assert.FileExists(t, filepath.Join(path, "y1.yaml"))

	got, err := repo.Get(ctx, "y1")
	require.NoError(t, err)
	assert.Equal(t, n, got)

	// Switching back to JSON still reads the YAML record and replaces it on save.
	jsonRepo := fs.NewRepository(fs.Config{Path: path})
	got, err = jsonRepo.Get(ctx, "y1")
	require.NoError(t, err)
	assert.Equal(t, n, got)

	require.NoError(t, jsonRepo.Save(ctx, n))
	assert.FileExists(t, filepath.Join(path, "y1.json"))
	assert.NoFileExists(t, filepath.Join(path, "y1.yaml"))
}

func TestConfigFileIsNotANote(t *testing.T) {
	repo, path := setupRepo(t, func(c *fs.Config) { c.Format = fs.FormatYAML })
	ctx := context.Background()
	cfgPath := filepath.Join(path, fs.ConfigFileName)
	cfg := []byte("format: yaml\nrecognizer:\n  engine: none\n")
	require.NoError(t, os.WriteFile(cfgPath, cfg, 0644))

	require.NoError(t, repo.Save(ctx, note("a", 1, "first")))
	notes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, 0, repo.State().(fs.RepositoryState).SkippedRecords)

	summaries, err := repo.Summaries(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)

	// The config name cannot be claimed by a note.
	assert.ErrorIs(t, repo.Save(ctx, note("inkjournal", 2, "")), core.ErrInvalidID)
	_, err = repo.Get(ctx, "inkjournal")
	assert.ErrorIs(t, err, core.ErrNotFound)

	got, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, got, "config must be untouched")
}

func TestInvalidIDs(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Save(ctx, note("../escape", 1, "")), core.ErrInvalidID)
	_, err := repo.Get(ctx, "a/b")
	assert.ErrorIs(t, err, core.ErrInvalidID)
}

func TestVersioning_CommitsChanges(t *testing.T) {
	if !fs.IsGitInstalled() {
		t.Skip("git not installed")
	}
	repo, path := setupRepo(t, func(c *fs.Config) { c.Versioning = true })
	ctx := context.WithValue(context.Background(), core.ChangeReasonKey, "first draft")

	require.NoError(t, repo.Save(ctx, note("v1", 1, "")))
	require.NoError(t, repo.Save(context.Background(), note("v1", 2, "")))

	history, err := repo.History(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "update v1", history[0].Message)
	assert.Equal(t, "first draft", history[1].Message)

	client := git.NewClient(path, "", nil)
	status, err := client.Status()
	require.NoError(t, err)
	assert.Empty(t, status, "working tree should be clean")

	require.NoError(t, repo.Delete(context.Background(), "v1"))
	assert.NoFileExists(t, filepath.Join(path, "v1.json"))
}
