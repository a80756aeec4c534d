package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the optional per-journal configuration file.
const ConfigFileName = "inkjournal.yaml"

// FindRoot looks upwards from startDir for a journal root.
// Indicators are: .inkjournal directory, .git directory, or inkjournal.yaml file.
// It returns the absolute path of the first directory holding one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ".inkjournal") || hasFile(dir, ".git") || hasFile(dir, ConfigFileName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
