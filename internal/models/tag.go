// ABOUTME: Tag model for labeling filesystem paths.
// ABOUTME: Trims surrounding whitespace and rejects empty labels.

package models

import (
	"errors"
	"strings"
)

// ErrEmptyTag indicates a tag that is empty after trimming whitespace.
var ErrEmptyTag = errors.New("empty tag")

// Tag is a label attached to a path. Original casing is preserved in storage;
// comparison behavior is controlled by a Fold.
type Tag string

// NewTag normalizes raw into a Tag: surrounding whitespace is trimmed and
// labels that are empty after trimming are rejected.
func NewTag(raw string) (Tag, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrEmptyTag
	}
	return Tag(name), nil
}

func (t Tag) String() string {
	return string(t)
}

// Fold defines the active tag comparison policy. The zero value compares
// case-insensitively, matching the default configuration.
type Fold struct {
	CaseSensitive bool
}

// Key returns the comparison key for t under the fold policy.
func (f Fold) Key(t Tag) string {
	if f.CaseSensitive {
		return string(t)
	}
	return strings.ToLower(string(t))
}

// KeyString is Key for raw strings that have not been validated into Tags.
func (f Fold) KeyString(s string) string {
	if f.CaseSensitive {
		return s
	}
	return strings.ToLower(s)
}
