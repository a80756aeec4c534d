package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/inkjournal/pkg/adapters/fs"
	"github.com/aretw0/inkjournal/pkg/core"
)

// Init opens (and, with auto-init, creates) a journal.
// The uri argument is adapter-specific (a directory for "fs").
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initRepository(uri, o)
}

func initRepository(uri string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	var err error

	switch o.adapter {
	case "fs":
		repo, err = initFS(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// initFS handles the initialization logic for the filesystem adapter.
func initFS(path string, o *options) (*fs.Repository, error) {
	autoInit, _ := o.config["auto_init"].(bool)
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	format, _ := o.config["format"].(string)
	systemDir, _ := o.config["system_dir"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))
	isReadOnly, _ := o.config["read_only"].(bool)

	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only access is inherently safe, so it skips the sandbox.
	bypassSafety := isReadOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolvedPath := ResolveJournalPath(path, useTemp)

	if IsDevRun() && o.logger != nil {
		if bypassSafety {
			if isReadOnly {
				o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolvedPath)
			} else {
				o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolvedPath)
			}
		} else {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolvedPath)
		}
	}

	// Without an explicit choice, an existing git repository turns versioning on.
	versioning, explicit := o.config["versioning"].(bool)
	if !explicit {
		if _, err := os.Stat(filepath.Join(resolvedPath, ".git")); err == nil {
			versioning = true
			if o.logger != nil {
				o.logger.Debug("auto-detected versioning", "reason", ".git present")
			}
		}
	}

	if o.logger != nil && useTemp && resolvedPath != filepath.Clean(path) {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolvedPath)
	}

	return fs.NewRepository(fs.Config{
		Path:         resolvedPath,
		SystemDir:    systemDir,
		Format:       format,
		AutoInit:     autoInit,
		MustExist:    mustExist || (!autoInit && !useTemp && !isReadOnly),
		ReadOnly:     isReadOnly,
		Versioning:   versioning,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	}), nil
}
