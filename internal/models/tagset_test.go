// ABOUTME: Tests for TagSet ordered-set semantics.
// ABOUTME: Covers idempotent add, fold-aware uniqueness, and equality keys.

package models

import (
	"reflect"
	"testing"
)

func TestTagSetAddIdempotent(t *testing.T) {
	f := Fold{}
	s := NewTagSet(f)

	if !s.Add(f, "python") {
		t.Fatal("first add should change the set")
	}
	if s.Add(f, "python") {
		t.Error("re-adding the same tag should be a no-op")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 tag, got %d", s.Len())
	}
}

func TestTagSetCaseFolding(t *testing.T) {
	insensitive := Fold{}
	s := NewTagSet(insensitive, "Python")

	if s.Add(insensitive, "PYTHON") {
		t.Error("case-insensitive fold should treat PYTHON as a duplicate of Python")
	}
	if got := s.Strings(); !reflect.DeepEqual(got, []string{"Python"}) {
		t.Errorf("original casing should be preserved, got %v", got)
	}

	sensitive := Fold{CaseSensitive: true}
	s2 := NewTagSet(sensitive, "Python")
	if !s2.Add(sensitive, "PYTHON") {
		t.Error("case-sensitive fold should keep PYTHON distinct from Python")
	}
}

func TestTagSetRemove(t *testing.T) {
	f := Fold{}
	s := NewTagSet(f, "python", "backend")

	if !s.Remove(f, "PYTHON") {
		t.Error("remove should match case-insensitively under the default fold")
	}
	if s.Remove(f, "missing") {
		t.Error("removing an absent tag should be a no-op")
	}
	if got := s.Strings(); !reflect.DeepEqual(got, []string{"backend"}) {
		t.Errorf("expected [backend], got %v", got)
	}
}

func TestTagSetInsertionOrder(t *testing.T) {
	f := Fold{}
	s := NewTagSet(f, "zebra", "alpha", "mango")

	if got := s.Strings(); !reflect.DeepEqual(got, []string{"zebra", "alpha", "mango"}) {
		t.Errorf("insertion order should be preserved, got %v", got)
	}
}

func TestTagSetEqualityKeyOrderIndependent(t *testing.T) {
	f := Fold{}
	a := NewTagSet(f, "x", "y")
	b := NewTagSet(f, "y", "x")
	c := NewTagSet(f, "z")

	if a.EqualityKey(f) != b.EqualityKey(f) {
		t.Error("sets with the same members in different order should share an equality key")
	}
	if a.EqualityKey(f) == c.EqualityKey(f) {
		t.Error("different sets should not share an equality key")
	}
}

func TestTagSetCloneIsIndependent(t *testing.T) {
	f := Fold{}
	s := NewTagSet(f, "python")
	clone := s.Clone()
	clone.Add(f, "backend")

	if s.Len() != 1 {
		t.Errorf("mutating a clone should not affect the original, got %v", s.Strings())
	}
}

func TestTagSetReplaceKeepsPosition(t *testing.T) {
	f := Fold{}
	s := NewTagSet(f, "one", "old", "three")

	if !s.Replace(f, "old", "new") {
		t.Fatal("Replace() = false for a present tag")
	}
	got := s.Strings()
	if len(got) != 3 || got[1] != "new" {
		t.Errorf("tags = %v, want new in the old position", got)
	}
}

func TestTagSetReplaceAbsentTag(t *testing.T) {
	f := Fold{}
	s := NewTagSet(f, "one")

	if s.Replace(f, "missing", "new") {
		t.Error("Replace() = true for an absent tag")
	}
	if s.Len() != 1 {
		t.Errorf("set changed: %v", s.Strings())
	}
}

func TestTagSetReplaceWithExistingMember(t *testing.T) {
	f := Fold{}
	s := NewTagSet(f, "old", "new", "other")

	if !s.Replace(f, "old", "new") {
		t.Fatal("Replace() = false")
	}
	got := s.Strings()
	if len(got) != 2 || got[0] != "new" || got[1] != "other" {
		t.Errorf("tags = %v, want [new other] with no duplicate", got)
	}
}

func TestTagSetReplaceCasingRefresh(t *testing.T) {
	f := Fold{}
	s := NewTagSet(f, "Work")

	if !s.Replace(f, "work", "work") {
		t.Fatal("Replace() = false for a casing change")
	}
	if got := s.Strings(); got[0] != "work" {
		t.Errorf("tags = %v, want refreshed casing", got)
	}
	if s.Replace(f, "work", "work") {
		t.Error("Replace() = true when nothing changes")
	}
}
