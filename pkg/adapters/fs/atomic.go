package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TempFilePrefix marks in-flight writes. Files with this prefix are never
// records and are ignored by the scanner and the watcher.
const TempFilePrefix = "inkjournal-tmp-"

// WriteFileAtomic replaces filename with data. Readers see either the old
// content or the new one: the bytes go to a synced sibling temp file that is
// renamed over the target. On failure the temp file is removed and the
// target is untouched.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	// CreateTemp uses 0600; set the final mode before the content is visible.
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := errors.Join(tmp.Sync(), tmp.Close()); err != nil {
		return fmt.Errorf("failed to flush temp file: %w", err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(filename), err)
	}
	return nil
}

// removeStaleTemps deletes temp files a crashed writer left in dir and
// returns their names.
func removeStaleTemps(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var removed []string
	var errs []error
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasPrefix(e.Name(), TempFilePrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, e.Name())
	}
	return removed, errors.Join(errs...)
}
