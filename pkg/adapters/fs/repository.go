package fs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/git"
)

// DefaultSystemDir holds the index cache and is never treated as a note.
const DefaultSystemDir = ".inkjournal"

// ConfigFileName is the journal configuration kept next to the records.
// It shares the .yaml extension but is never a note.
const ConfigFileName = "inkjournal.yaml"

// recordExts lists the readable record extensions in lookup order.
var recordExts = []string{".json", ".yaml", ".yml"}

// Repository implements core.Repository with one record file per note,
// optionally versioned with Git.
type Repository struct {
	Path        string
	git         *git.Client
	cache       *cache
	config      Config
	logger      *slog.Logger
	serializer  Serializer
	serializers map[string]Serializer
	formatErr   error

	mu            sync.RWMutex
	watcherActive bool
	lastReconcile *time.Time
	skipped       int
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	SystemDir    string // e.g. ".inkjournal"
	Format       string // "json" (default) or "yaml"
	AutoInit     bool
	MustExist    bool
	ReadOnly     bool
	Versioning   bool // commit every change with git
	Logger       *slog.Logger
	ErrorHandler func(error) // receives asynchronous watcher errors
}

// NewRepository creates a new filesystem-backed repository.
// An unsupported Format is reported by Initialize; until then records use JSON.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ser, err := SerializerFor(config.Format)
	if err != nil {
		ser = JSONSerializer{}
	}

	return &Repository{
		Path:        config.Path,
		git:         git.NewClient(config.Path, config.SystemDir+".lock", logger),
		config:      config,
		logger:      logger,
		cache:       newCache(config.Path, config.SystemDir),
		serializer:  ser,
		serializers: DefaultSerializers(),
		formatErr:   err,
	}
}

// Initialize performs the necessary setup for the repository (mkdir, git init).
func (r *Repository) Initialize(ctx context.Context) error {
	if r.formatErr != nil {
		return r.formatErr
	}

	// 1. Directory Initialization
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			if r.config.ReadOnly && !r.config.MustExist {
				return nil
			}
			return fmt.Errorf("journal path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("journal path is not a directory: %s", r.Path)
		}
	} else {
		if err := os.MkdirAll(r.Path, 0755); err != nil {
			return fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	if r.config.ReadOnly {
		return nil
	}
	r.sweepTemps()

	if !r.config.Versioning {
		return nil
	}

	// 2. Git Initialization
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !r.git.IsRepo() {
		if !r.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", r.Path)
		}
		if err := r.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := r.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}

	if mod && wasNewRepo {
		// Commit the .gitignore so the new history starts clean.
		if err := r.git.Add(".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		if err := r.git.Commit(fmt.Sprintf("chore: configure %s ignore", r.config.SystemDir)); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}
	return nil
}

// sweepTemps clears temp files left by writes that never reached their
// rename. Failures are logged; they do not block opening the journal.
func (r *Repository) sweepTemps() {
	for _, dir := range []string{r.Path, filepath.Join(r.Path, r.config.SystemDir)} {
		removed, err := removeStaleTemps(dir)
		if len(removed) > 0 {
			r.logger.Info("removed interrupted writes", "dir", dir, "files", removed)
		}
		if err != nil {
			r.logger.Warn("failed to remove interrupted writes", "dir", dir, "error", err)
		}
	}
}

// ensureIgnore makes git skip the system directory and the lock file.
func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	wanted := []string{r.config.SystemDir + "/", r.config.SystemDir + ".lock"}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, w := range wanted {
		if !present[w] {
			missing = append(missing, w)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	for _, m := range missing {
		if _, err := f.WriteString(m + "\n"); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Save writes the note as a whole, replacing any previous record.
//
// Workflow:
//  1. Validate the ID and serialize with the configured format.
//  2. Write atomically (temp file + rename), so a failure keeps the old record.
//  3. Drop records of the same note left in another format.
//  4. (If versioning) 'git add' and 'git commit' with the context change reason.
func (r *Repository) Save(ctx context.Context, n core.Note) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := core.ValidateID(n.ID); err != nil {
		return fmt.Errorf("%w: %q", err, n.ID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := r.serializer.Encode(n)
	if err != nil {
		return fmt.Errorf("failed to serialize note: %w", err)
	}

	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	filename := n.ID + r.serializer.Ext()
	if !r.isRecordName(filename) {
		return fmt.Errorf("%w: %q is reserved", core.ErrInvalidID, n.ID)
	}
	if err := WriteFileAtomic(filepath.Join(r.Path, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	var stale []string
	for _, name := range r.recordFiles(n.ID) {
		if name != filename {
			stale = append(stale, name)
		}
	}

	if !r.config.Versioning {
		for _, name := range stale {
			_ = os.Remove(filepath.Join(r.Path, name))
			r.cache.Delete(name)
		}
		return nil
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	for _, name := range stale {
		if err := r.git.Rm(name); err != nil {
			_ = os.Remove(filepath.Join(r.Path, name))
		}
		r.cache.Delete(name)
	}

	if err := r.git.Add(filename); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}
	if err := r.git.Commit(changeReason(ctx, "update "+n.ID)); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// Get retrieves a note. A missing record yields core.ErrNotFound; a record
// that cannot be decoded yields core.ErrRecordUnreadable.
func (r *Repository) Get(ctx context.Context, id string) (core.Note, error) {
	if err := core.ValidateID(id); err != nil {
		return core.Note{}, fmt.Errorf("%w: %q", err, id)
	}
	names := r.recordFiles(id)
	if len(names) == 0 {
		return core.Note{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return r.readRecord(names[0], id)
}

// List returns every readable note, newest first.
// Each record is decoded on its own; unreadable ones are skipped, logged at
// debug level and counted in State.
func (r *Repository) List(ctx context.Context) ([]core.Note, error) {
	names, err := r.scan()
	if err != nil {
		return nil, err
	}

	notes := make([]core.Note, 0, len(names))
	skipped := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.readRecord(name, idFromName(name))
		if err != nil {
			skipped++
			r.logger.Debug("skipping unreadable record", "file", name, "error", err)
			continue
		}
		notes = append(notes, n)
	}
	r.setSkipped(skipped)

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Timestamp != notes[j].Timestamp {
			return notes[i].Timestamp > notes[j].Timestamp
		}
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

// Summaries lists notes without decoding unchanged records.
//
// Workflow:
//  1. Load the index cache.
//  2. For each record: cache hit when the mtime matches, else decode and update.
//  3. Prune entries of vanished records and save the cache back to disk.
func (r *Repository) Summaries(ctx context.Context) ([]core.Summary, error) {
	if err := r.cache.Load(); err != nil {
		r.logger.Warn("index cache unavailable, rebuilding", "error", err)
	}

	names, err := r.scan()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(names))
	summaries := make([]core.Summary, 0, len(names))
	skipped := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(filepath.Join(r.Path, name))
		if err != nil {
			continue
		}
		mtime := info.ModTime()
		seen[name] = true

		if entry, hit := r.cache.Get(name, mtime); hit {
			summaries = append(summaries, entry.Summary)
			continue
		}

		n, err := r.readRecord(name, idFromName(name))
		if err != nil {
			skipped++
			r.logger.Debug("skipping unreadable record", "file", name, "error", err)
			continue
		}
		sum := n.Summary()
		r.cache.Set(name, &indexEntry{Summary: sum, LastModified: mtime})
		summaries = append(summaries, sum)
	}
	r.setSkipped(skipped)

	r.cache.Prune(seen)
	if !r.config.ReadOnly {
		if err := r.cache.Save(); err != nil {
			r.logger.Debug("failed to save index cache", "error", err)
		}
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Timestamp != summaries[j].Timestamp {
			return summaries[i].Timestamp > summaries[j].Timestamp
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

// Delete removes a note.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := core.ValidateID(id); err != nil {
		return fmt.Errorf("%w: %q", err, id)
	}
	names := r.recordFiles(id)
	if len(names) == 0 {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	if !r.config.Versioning {
		for _, name := range names {
			if err := os.Remove(filepath.Join(r.Path, name)); err != nil {
				return fmt.Errorf("failed to remove file: %w", err)
			}
			r.cache.Delete(name)
		}
		return nil
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.Rm(names...); err != nil {
		return fmt.Errorf("failed to git rm: %w", err)
	}
	for _, name := range names {
		r.cache.Delete(name)
	}
	if err := r.git.Commit(changeReason(ctx, "delete "+id)); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// History returns the commits that touched a note, newest first.
// It requires versioning.
func (r *Repository) History(ctx context.Context, id string) ([]git.Commit, error) {
	if !r.config.Versioning {
		return nil, fmt.Errorf("history requires versioning")
	}
	if err := core.ValidateID(id); err != nil {
		return nil, fmt.Errorf("%w: %q", err, id)
	}
	names := r.recordFiles(id)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return r.git.Log(names[0])
}

// IsGitInstalled checks if git is available in the system path.
func IsGitInstalled() bool {
	return git.IsInstalled()
}

// --- Helpers (Private) ---

// recordFiles returns the existing record files of id, configured format first.
func (r *Repository) recordFiles(id string) []string {
	exts := append([]string{r.serializer.Ext()}, recordExts...)
	seen := make(map[string]bool, len(exts))
	var names []string
	for _, ext := range exts {
		if seen[ext] {
			continue
		}
		seen[ext] = true
		name := id + ext
		if !r.isRecordName(name) {
			continue
		}
		if info, err := os.Stat(filepath.Join(r.Path, name)); err == nil && info.Mode().IsRegular() {
			names = append(names, name)
		}
	}
	return names
}

// scan lists the record file names in the journal directory.
// A missing directory is an empty journal.
func (r *Repository) scan() ([]string, error) {
	entries, err := os.ReadDir(r.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !r.isRecordName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (r *Repository) isRecordName(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, TempFilePrefix) || name == ConfigFileName {
		return false
	}
	_, ok := r.serializers[filepath.Ext(name)]
	return ok && idFromName(name) != ""
}

func (r *Repository) readRecord(name, wantID string) (core.Note, error) {
	ser, ok := r.serializers[filepath.Ext(name)]
	if !ok {
		return core.Note{}, fmt.Errorf("%w: unsupported extension %s", core.ErrRecordUnreadable, name)
	}

	f, err := os.Open(filepath.Join(r.Path, name))
	if err != nil {
		if os.IsNotExist(err) {
			return core.Note{}, fmt.Errorf("%w: %s", core.ErrNotFound, wantID)
		}
		return core.Note{}, err
	}
	defer f.Close()

	n, err := ser.Decode(f)
	if err != nil {
		return core.Note{}, fmt.Errorf("failed to parse note %s: %w", wantID, err)
	}
	if n.ID != wantID {
		return core.Note{}, fmt.Errorf("%w: record %s holds note %q", core.ErrRecordUnreadable, name, n.ID)
	}
	return n, nil
}

func (r *Repository) setSkipped(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped = n
}

func idFromName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func changeReason(ctx context.Context, fallback string) string {
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		return val
	}
	return fallback
}

var (
	_ core.Repository = (*Repository)(nil)
	_ core.Summarizer = (*Repository)(nil)
	_ core.Watchable  = (*Repository)(nil)
)
