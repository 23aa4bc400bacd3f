// ABOUTME: Error types for the tag store.
// ABOUTME: Sentinel values plus typed errors carrying path and tag context.

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrPathNotFound indicates the requested path has no record.
	ErrPathNotFound = errors.New("path not found")

	// ErrTagLimit indicates an operation would push a record past the
	// configured tag ceiling.
	ErrTagLimit = errors.New("tag limit exceeded")

	// ErrBackupNotFound indicates no snapshot exists with the given name.
	ErrBackupNotFound = errors.New("backup not found")
)

// StorageError wraps a failure to read or write the backing file. The
// in-memory state and the previous file contents are intact when one of
// these is returned.
type StorageError struct {
	Op   string // "load", "save", "backup", "restore"
	Path string // backing file involved
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ValidationError reports a record or tag that fails the store's rules.
type ValidationError struct {
	Path string // record involved, empty if not path-specific
	Tag  string // offending tag, empty if not tag-specific
	Err  error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Path != "" && e.Tag != "":
		return fmt.Sprintf("path %s: tag %q: %v", e.Path, e.Tag, e.Err)
	case e.Path != "":
		return fmt.Sprintf("path %s: %v", e.Path, e.Err)
	case e.Tag != "":
		return fmt.Sprintf("tag %q: %v", e.Tag, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }
