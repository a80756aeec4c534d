package git

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultLockTimeout bounds how long Lock waits for a competing process.
const DefaultLockTimeout = 30 * time.Second

// ErrLockTimeout is returned when the lock file could not be acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for git lock")

// Client wraps git command execution with a file-based lock for process safety.
type Client struct {
	WorkDir     string
	Logger      *slog.Logger
	LockTimeout time.Duration
	lockPath    string
}

// Commit is one entry of a file's history.
type Commit struct {
	Hash    string
	When    time.Time
	Message string
}

// NewClient creates a new git client for the given working directory.
// lockName is the lock file created inside workDir (e.g. ".inkjournal.lock").
func NewClient(workDir, lockName string, logger *slog.Logger) *Client {
	if lockName == "" {
		lockName = ".inkjournal.lock"
	}
	return &Client{
		WorkDir:     workDir,
		Logger:      logger,
		LockTimeout: DefaultLockTimeout,
		lockPath:    lockName,
	}
}

// IsInstalled checks if git is available in the system path.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Lock acquires a file-based lock. It blocks until the lock is acquired or
// LockTimeout elapses.
func (c *Client) Lock() (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)
	deadline := time.Now().Add(c.LockTimeout)

	for {
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if os.IsExist(err) {
			if c.LockTimeout > 0 && time.Now().After(deadline) {
				return nil, fmt.Errorf("%w: %s", ErrLockTimeout, fullLockPath)
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}

		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
}

// Run executes a raw git command in the working directory.
// NOTE: It does NOT acquire the lock automatically. The caller must manage safety via Client.Lock().
func (c *Client) Run(args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// IsRepo reports whether WorkDir is inside a git work tree.
func (c *Client) IsRepo() bool {
	out, err := c.Run("rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Init initializes a new git repository. Re-running it is harmless.
func (c *Client) Init() error {
	_, err := c.Run("init")
	return err
}

// Add adds files to the stage.
func (c *Client) Add(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add"}, files...)
	_, err := c.Run(args...)
	return err
}

// Rm removes files from the working tree and from the index.
func (c *Client) Rm(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"rm", "-f"}, files...)
	_, err := c.Run(args...)
	return err
}

// Commit records changes to the repository. The identity is pinned so
// commits work on machines without a configured user.
func (c *Client) Commit(msg string) error {
	_, err := c.Run(
		"-c", "user.name=inkjournal",
		"-c", "user.email=inkjournal@localhost",
		"commit", "-m", msg,
	)
	return err
}

// Status returns the porcelain status of the repo.
func (c *Client) Status() (string, error) {
	return c.Run("status", "--porcelain")
}

// Log returns the commits touching file, newest first.
func (c *Client) Log(file string) ([]Commit, error) {
	out, err := c.Run("log", "--format=%H%x1f%ct%x1f%s", "--", file)
	if err != nil {
		return nil, err
	}
	return parseLog(out), nil
}

func parseLog(out string) []Commit {
	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, "\x1f", 3)
		if len(parts) != 3 {
			continue
		}
		var sec int64
		if _, err := fmt.Sscan(parts[1], &sec); err != nil {
			continue
		}
		commits = append(commits, Commit{
			Hash:    parts[0],
			When:    time.Unix(sec, 0),
			Message: parts[2],
		})
	}
	return commits
}
