package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun checks if the current process is running via `go run` or `go test`.
// It relies on the fact that these commands build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	tempDir := os.TempDir()
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(tempDir)) {
		return true
	}

	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}

	return false
}

// ResolveJournalPath determines the actual journal path based on safety rules.
// When forceTemp is set, paths outside the system temp directory are
// re-rooted under a namespaced temp directory so dev runs never touch real notes.
func ResolveJournalPath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	// Paths already inside the temp directory (e.g. t.TempDir()) are trusted.
	cleanUserPath := filepath.Clean(userPath)
	rel, err := filepath.Rel(os.TempDir(), cleanUserPath)
	if err == nil && !strings.HasPrefix(rel, "..") {
		return cleanUserPath
	}

	baseTemp := filepath.Join(os.TempDir(), "inkjournal-dev")
	subName := "default"
	if userPath != "" && userPath != "." && userPath != "./" {
		subName = filepath.Base(userPath)
		if subName == "." || subName == string(os.PathSeparator) {
			subName = "default"
		}
	}

	return filepath.Join(baseTemp, subName)
}
