// ABOUTME: Persistent tag store backed by a single JSON document.
// ABOUTME: Maps absolute paths to tag sets with atomic, validated saves.

package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/harper/tagman/internal/models"
)

// Options configures a Store. The zero value disables the tag ceiling and
// uses case-insensitive tag comparison.
type Options struct {
	// MaxTagsPerPath caps the tags a single record may hold. Zero means
	// no limit.
	MaxTagsPerPath int

	// CaseSensitive selects exact-case tag comparison.
	CaseSensitive bool

	// BackupCount is how many snapshots to retain. Zero falls back to
	// DefaultBackupCount.
	BackupCount int
}

// DefaultBackupCount is the snapshot retention used when Options leaves
// BackupCount unset.
const DefaultBackupCount = 5

// Record pairs a path with its tags. Records returned by the store are
// copies; mutating them does not affect stored state.
type Record struct {
	Path models.PathKey
	Tags *models.TagSet
}

// Store holds the path-to-tags mapping for one backing file. It is not safe
// for concurrent use.
type Store struct {
	path    string
	opts    Options
	fold    models.Fold
	records map[models.PathKey]*models.TagSet
	order   []models.PathKey // document key order, append on first insert
}

// New returns an empty store bound to path without reading it. Open is the
// normal entry point; New exists for recovery flows, like restoring a
// snapshot over a file that no longer parses.
func New(path string, opts Options) *Store {
	return &Store{
		path:    path,
		opts:    opts,
		fold:    models.Fold{CaseSensitive: opts.CaseSensitive},
		records: make(map[models.PathKey]*models.TagSet),
	}
}

// Open reads the backing file at path, or starts empty if it does not exist.
// A file that exists but cannot be parsed is an error, never silently reset.
func Open(path string, opts Options) (*Store, error) {
	s := New(path, opts)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "load", Path: path, Err: err}
	}
	if err := s.decode(data); err != nil {
		return nil, &StorageError{Op: "load", Path: path, Err: err}
	}
	return s, nil
}

// FilePath returns the location of the backing file.
func (s *Store) FilePath() string { return s.path }

// Fold returns the tag comparison policy this store was opened with.
func (s *Store) Fold() models.Fold { return s.fold }

// Len returns the number of tagged paths.
func (s *Store) Len() int { return len(s.records) }

// Contains reports whether path has a record.
func (s *Store) Contains(path models.PathKey) bool {
	_, ok := s.records[path]
	return ok
}

// Paths returns every tagged path in document order.
func (s *Store) Paths() []models.PathKey {
	out := make([]models.PathKey, len(s.order))
	copy(out, s.order)
	return out
}

// TagsFor returns a copy of the tag set for path.
func (s *Store) TagsFor(path models.PathKey) (*models.TagSet, bool) {
	set, ok := s.records[path]
	if !ok {
		return nil, false
	}
	return set.Clone(), true
}

// Records returns a copy of every record in document order.
func (s *Store) Records() []Record {
	out := make([]Record, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, Record{Path: p, Tags: s.records[p].Clone()})
	}
	return out
}

// AddTags unions tags into the record for path, creating it if needed.
// Returns how many tags were newly added; re-adding existing tags is a
// no-op. The record is untouched when the result would exceed the tag
// ceiling.
func (s *Store) AddTags(path models.PathKey, tags []models.Tag) (int, error) {
	cur, exists := s.records[path]
	work := models.NewTagSet(s.fold)
	if exists {
		work = cur.Clone()
	}

	added := 0
	for _, t := range tags {
		if work.Add(s.fold, t) {
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}

	if limit := s.opts.MaxTagsPerPath; limit > 0 && work.Len() > limit {
		return 0, &ValidationError{
			Path: string(path),
			Err:  fmt.Errorf("%d tags, limit %d: %w", work.Len(), limit, ErrTagLimit),
		}
	}

	if !exists {
		s.order = append(s.order, path)
	}
	s.records[path] = work
	return added, nil
}

// RemoveTags removes tags from the record for path, returning how many were
// present. A record left with no tags is deleted entirely.
func (s *Store) RemoveTags(path models.PathKey, tags []models.Tag) (int, error) {
	set, ok := s.records[path]
	if !ok {
		return 0, ErrPathNotFound
	}

	removed := 0
	for _, t := range tags {
		if set.Remove(s.fold, t) {
			removed++
		}
	}
	if set.Empty() {
		s.deletePath(path)
	}
	return removed, nil
}

// Retag replaces old with new in the record for path, keeping the tag's
// list position. Reports whether the record changed.
func (s *Store) Retag(path models.PathKey, old, new models.Tag) (bool, error) {
	set, ok := s.records[path]
	if !ok {
		return false, ErrPathNotFound
	}
	return set.Replace(s.fold, old, new), nil
}

// RemovePath deletes the record for path, reporting whether one existed.
func (s *Store) RemovePath(path models.PathKey) bool {
	if _, ok := s.records[path]; !ok {
		return false
	}
	s.deletePath(path)
	return true
}

func (s *Store) deletePath(path models.PathKey) {
	delete(s.records, path)
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Clone returns an independent copy sharing the same backing file. Batch
// operations mutate a clone and adopt it only once everything succeeded.
func (s *Store) Clone() *Store {
	out := &Store{
		path:    s.path,
		opts:    s.opts,
		fold:    s.fold,
		records: make(map[models.PathKey]*models.TagSet, len(s.records)),
		order:   append([]models.PathKey(nil), s.order...),
	}
	for k, v := range s.records {
		out.records[k] = v.Clone()
	}
	return out
}

// Save validates every record and writes the document atomically. On any
// failure the previous file contents are left in place.
func (s *Store) Save() error {
	if err := s.validate(); err != nil {
		return err
	}

	data, err := s.encode()
	if err != nil {
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return &StorageError{Op: "save", Path: s.path, Err: err}
		}
	}
	if err := writeFileAtomic(s.path, data, 0o600); err != nil {
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func (s *Store) validate() error {
	for _, p := range s.order {
		set, ok := s.records[p]
		if !ok || set.Empty() {
			return &ValidationError{Path: string(p), Err: errors.New("record has no tags")}
		}
		for _, t := range set.Tags() {
			if _, err := models.NewTag(t.String()); err != nil {
				return &ValidationError{Path: string(p), Tag: t.String(), Err: err}
			}
		}
	}
	return nil
}

// encode renders the document with keys in insertion order.
func (s *Store) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(p))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.records[p].Strings())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// decode parses the document, preserving key order and rejecting anything
// that is not an object of string-array records.
func (s *Store) decode(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok || key == "" {
			return fmt.Errorf("invalid path key %v", keyTok)
		}

		var raw []string
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("record %s: %w", key, err)
		}

		set := models.NewTagSet(s.fold)
		for _, r := range raw {
			tag, err := models.NewTag(r)
			if err != nil {
				return fmt.Errorf("record %s: %w", key, err)
			}
			set.Add(s.fold, tag)
		}
		if set.Empty() {
			return fmt.Errorf("record %s: no tags", key)
		}

		path := models.PathKey(key)
		if _, exists := s.records[path]; !exists {
			s.order = append(s.order, path)
		}
		s.records[path] = set
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("trailing data after document")
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory, syncs
// it, then renames it over path so readers never observe a partial write.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tags-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	if d, err := os.Open(dir); err == nil {
		d.Sync()
		d.Close()
	}
	return nil
}
