// ABOUTME: PathKey canonicalization for record identity.
// ABOUTME: Two spellings of the same path canonicalize to the same key.

package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrEmptyPath indicates a path that is empty after trimming whitespace.
var ErrEmptyPath = errors.New("empty path")

// PathKey is the canonical absolute form of a filesystem path, used as the
// identity of a record. Relative input is resolved against the working
// directory, so "./a.txt" and "a.txt" canonicalize identically.
type PathKey string

// NewPathKey canonicalizes raw into a PathKey.
func NewPathKey(raw string) (PathKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyPath
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize %q: %w", raw, err)
	}
	return PathKey(abs), nil
}

func (p PathKey) String() string {
	return string(p)
}

// Base returns the final element of the path, for compact display.
func (p PathKey) Base() string {
	return filepath.Base(string(p))
}
