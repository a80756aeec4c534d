package platform_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/inkjournal/internal/platform"
	"github.com/aretw0/inkjournal/pkg/adapters/fs"
	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/git"
	"github.com/aretw0/inkjournal/pkg/recognition"
)

func setupService(t *testing.T, opts ...platform.Option) (*core.Service, string) {
	t.Helper()
	tmpDir := t.TempDir()

	baseOpts := []platform.Option{platform.WithAutoInit(true)}
	service, err := platform.New(tmpDir, append(baseOpts, opts...)...)
	if err != nil {
		t.Fatalf("Failed to init service: %v", err)
	}
	return service, tmpDir
}

var ink = []core.Stroke{
	{Points: []core.Point{{X: 1, Y: 1, Timestamp: 1}, {X: 2, Y: 2, Timestamp: 2}}},
}

func TestService_SaveReadBack(t *testing.T) {
	service, tmpDir := setupService(t,
		platform.WithRecognizer(recognition.NewService(recognition.Static{Candidates: []string{"hi"}})),
	)
	ctx := context.TODO()

	n, err := service.SaveNote(ctx, "", ink)
	if err != nil {
		t.Fatalf("SaveNote failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, n.ID+".json")); os.IsNotExist(err) {
		t.Errorf("record was not created for %s", n.ID)
	}

	got, err := service.GetNote(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetNote failed: %v", err)
	}
	if got.RecognizedText != "hi" || len(got.Strokes) != 1 {
		t.Errorf("unexpected note read back: %+v", got)
	}
}

func TestService_VersionedWriteCommit(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	service, tmpDir := setupService(t, platform.WithVersioning(true))
	ctx := context.TODO()

	if _, err := service.SaveNote(ctx, "versioned", ink); err != nil {
		t.Fatalf("SaveNote failed: %v", err)
	}
	if err := service.DeleteNote(ctx, "versioned"); err != nil {
		t.Fatalf("DeleteNote failed: %v", err)
	}

	status, err := git.NewClient(tmpDir, ".inkjournal.lock", nil).Status()
	if err != nil {
		t.Fatalf("Git Status failed: %v", err)
	}
	if status != "" {
		t.Errorf("Expected clean status, got:\n%s", status)
	}

	// Reopening without an explicit choice detects the git repository.
	repo, err := platform.Init(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if !repo.(*fs.Repository).State().(fs.RepositoryState).Versioning {
		t.Error("expected versioning to be auto-detected")
	}
}

func TestService_YAMLFormat(t *testing.T) {
	service, tmpDir := setupService(t, platform.WithFormat("yaml"))

	if _, err := service.SaveNote(context.TODO(), "y", ink); err != nil {
		t.Fatalf("SaveNote failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "y.yaml")); err != nil {
		t.Errorf("expected yaml record: %v", err)
	}
}

func TestService_MustExist(t *testing.T) {
	nonExistent := filepath.Join(t.TempDir(), "does-not-exist")

	if _, err := platform.New(nonExistent, platform.WithMustExist(true)); err == nil {
		t.Error("Expected New to fail with MustExist for non-existent path, but it succeeded")
	}
}

func TestService_ReadOnly(t *testing.T) {
	_, tmpDir := setupService(t)
	ro, err := platform.New(tmpDir, platform.WithReadOnly(true))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ro.SaveNote(context.TODO(), "x", ink); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestInit_InjectedRepository(t *testing.T) {
	injected := fs.NewRepository(fs.Config{Path: t.TempDir()})
	repo, err := platform.Init("ignored", platform.WithRepository(injected))
	if err != nil {
		t.Fatal(err)
	}
	if repo != injected {
		t.Error("injected repository not returned")
	}

	if _, err := platform.Init(t.TempDir(), platform.WithAdapter("s3")); err == nil {
		t.Error("expected unknown adapter error")
	}
}

func TestResolveJournalPath(t *testing.T) {
	if got := platform.ResolveJournalPath("notes", false); got != "notes" {
		t.Errorf("unexpected path without sandbox: %s", got)
	}

	inTemp := filepath.Join(os.TempDir(), "already-safe")
	if got := platform.ResolveJournalPath(inTemp, true); got != inTemp {
		t.Errorf("temp paths should be trusted, got %s", got)
	}

	got := platform.ResolveJournalPath("/home/user/journal", true)
	want := filepath.Join(os.TempDir(), "inkjournal-dev", "journal")
	if got != want {
		t.Errorf("ResolveJournalPath() = %s, want %s", got, want)
	}
}
