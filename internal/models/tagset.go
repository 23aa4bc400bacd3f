// ABOUTME: Ordered set of unique tags attached to one path.
// ABOUTME: Preserves insertion order for display; uniqueness follows the fold policy.

package models

import (
	"sort"
	"strings"
)

// TagSet holds the tags of a single record. Insertion order is preserved for
// display parity with the persisted document; set semantics (uniqueness,
// membership) are evaluated under the Fold passed to each method.
type TagSet struct {
	tags []Tag
}

// NewTagSet builds a set from tags, dropping duplicates under f while keeping
// the first occurrence's casing and position.
func NewTagSet(f Fold, tags ...Tag) *TagSet {
	s := &TagSet{}
	for _, t := range tags {
		s.Add(f, t)
	}
	return s
}

// Add inserts t and reports whether the set changed. Re-adding a tag that is
// already present under f is a no-op.
func (s *TagSet) Add(f Fold, t Tag) bool {
	if s.Contains(f, t) {
		return false
	}
	s.tags = append(s.tags, t)
	return true
}

// Remove deletes the tag matching t under f and reports whether the set
// changed. Removing an absent tag is a no-op.
func (s *TagSet) Remove(f Fold, t Tag) bool {
	key := f.Key(t)
	for i, have := range s.tags {
		if f.Key(have) == key {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps the member matching old for new, keeping its list position,
// and reports whether the set changed. When new is already a member the old
// tag is simply removed so the set stays duplicate-free.
func (s *TagSet) Replace(f Fold, old, new Tag) bool {
	oldKey := f.Key(old)
	idx := -1
	for i, have := range s.tags {
		if f.Key(have) == oldKey {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	newKey := f.Key(new)
	if oldKey == newKey {
		if s.tags[idx] == new {
			return false
		}
		s.tags[idx] = new // casing refresh
		return true
	}
	for _, have := range s.tags {
		if f.Key(have) == newKey {
			s.tags = append(s.tags[:idx], s.tags[idx+1:]...)
			return true
		}
	}
	s.tags[idx] = new
	return true
}

// Contains reports whether t is a member under f.
func (s *TagSet) Contains(f Fold, t Tag) bool {
	key := f.Key(t)
	for _, have := range s.tags {
		if f.Key(have) == key {
			return true
		}
	}
	return false
}

func (s *TagSet) Len() int {
	return len(s.tags)
}

func (s *TagSet) Empty() bool {
	return len(s.tags) == 0
}

// Tags returns the members in insertion order. The slice is a copy.
func (s *TagSet) Tags() []Tag {
	out := make([]Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

// Strings returns the members as plain strings in insertion order.
func (s *TagSet) Strings() []string {
	out := make([]string, len(s.tags))
	for i, t := range s.tags {
		out[i] = string(t)
	}
	return out
}

// Keys returns the comparison keys of all members under f, in insertion order.
func (s *TagSet) Keys(f Fold) []string {
	out := make([]string, len(s.tags))
	for i, t := range s.tags {
		out[i] = f.Key(t)
	}
	return out
}

// KeySet returns the members as a set of comparison keys under f.
func (s *TagSet) KeySet(f Fold) map[string]struct{} {
	out := make(map[string]struct{}, len(s.tags))
	for _, t := range s.tags {
		out[f.Key(t)] = struct{}{}
	}
	return out
}

// EqualityKey returns an order-independent identity for the set under f: two
// sets produce the same key exactly when they hold the same tags.
func (s *TagSet) EqualityKey(f Fold) string {
	keys := s.Keys(f)
	sort.Strings(keys)
	return strings.Join(keys, "\x00")
}

// Clone returns an independent copy of the set.
func (s *TagSet) Clone() *TagSet {
	return &TagSet{tags: s.Tags()}
}
