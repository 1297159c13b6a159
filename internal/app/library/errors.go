package library

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Errors
var (
	ErrNotFound    = errors.New("video not found")
	ErrInvalidName = errors.New("video name must not be empty")
)

// DuplicateError reports an add rejected because a video with the same file
// name and size is already in the library.
type DuplicateError struct {
	FileName string
	Size     int64
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate video: %s (%d bytes)", e.FileName, e.Size)
}

// RejectedError reports an add rejected by an import filter other than the
// duplicate check.
type RejectedError struct {
	FileName string
	Code     string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("video %s rejected: %s", e.FileName, e.Code)
}

// PersistenceError reports a storage failure. The in-memory change that
// triggered it has been rolled back.
type PersistenceError struct {
	Op  string // "add", "rename" or "remove"
	ID  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s of %s: %v", e.Op, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
