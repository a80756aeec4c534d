package core

import "errors"

// Common errors.
var (
	ErrReadOnly               = errors.New("repository is in read-only mode")
	ErrNotFound               = errors.New("note not found")
	ErrInvalidID              = errors.New("invalid note id")
	ErrRecordUnreadable       = errors.New("record unreadable")
	ErrRecognitionUnavailable = errors.New("recognition unavailable")
	ErrNothingToExport        = errors.New("nothing to export")
)
