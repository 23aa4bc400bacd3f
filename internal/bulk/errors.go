// ABOUTME: Error types for bulk operations.
// ABOUTME: Aggregates per-path failures so one bad path never hides the rest.

package bulk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harper/tagman/internal/models"
)

// ErrNoTargets indicates a bulk operation had no paths to work on.
var ErrNoTargets = errors.New("no target paths")

// PathError is one path's failure within a batch.
type PathError struct {
	Path models.PathKey
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// BulkError collects every per-path failure of a batch. When one is
// returned, nothing was persisted.
type BulkError struct {
	Op       string
	Failures []PathError
}

func (e *BulkError) Error() string {
	msgs := make([]string, 0, 4)
	for i, f := range e.Failures {
		if i == 3 {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(e.Failures)-3))
			break
		}
		msgs = append(msgs, fmt.Sprintf("%s: %v", f.Path, f.Err))
	}
	return fmt.Sprintf("%s failed for %d paths: %s", e.Op, len(e.Failures), strings.Join(msgs, "; "))
}

// Unwrap exposes the underlying failures to errors.Is and errors.As.
func (e *BulkError) Unwrap() []error {
	out := make([]error, len(e.Failures))
	for i := range e.Failures {
		out[i] = &e.Failures[i]
	}
	return out
}
