// ABOUTME: Snapshot management for the tag store backing file.
// ABOUTME: Creates timestamped copies, prunes old ones, lists and restores.

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harper/tagman/internal/models"
)

const (
	backupPrefix = "tags-"
	backupSuffix = ".json"
)

// Backup describes one snapshot of the backing file.
type Backup struct {
	Name      string
	Path      string
	CreatedAt time.Time
	Size      int64
}

// BackupDir returns the directory snapshots are written to.
func (s *Store) BackupDir() string {
	return filepath.Join(filepath.Dir(s.path), "backups")
}

// Snapshot copies the current backing file into the backup directory and
// prunes the oldest snapshots beyond the retention count. Returns nil when
// there is no backing file to copy yet.
func (s *Store) Snapshot() (*Backup, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "backup", Path: s.path, Err: err}
	}

	dir := s.BackupDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, &StorageError{Op: "backup", Path: s.path, Err: err}
	}

	// Nanosecond precision keeps name order equal to creation order even
	// for snapshots taken within the same second.
	stamp := time.Now().UTC().Format("20060102T150405.000000000")
	name := fmt.Sprintf("%s%s-%s%s", backupPrefix, stamp, uuid.New().String()[:8], backupSuffix)
	dest := filepath.Join(dir, name)
	if err := writeFileAtomic(dest, data, 0o600); err != nil {
		return nil, &StorageError{Op: "backup", Path: dest, Err: err}
	}

	if err := s.pruneBackups(); err != nil {
		return nil, err
	}

	info, err := os.Stat(dest)
	if err != nil {
		return nil, &StorageError{Op: "backup", Path: dest, Err: err}
	}
	return &Backup{Name: name, Path: dest, CreatedAt: info.ModTime(), Size: info.Size()}, nil
}

// Backups lists snapshots newest first. A missing backup directory is not
// an error.
func (s *Store) Backups() ([]Backup, error) {
	entries, err := os.ReadDir(s.BackupDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "backup", Path: s.BackupDir(), Err: err}
	}

	var out []Backup
	for _, e := range entries {
		if e.IsDir() || !isBackupName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Backup{
			Name:      e.Name(),
			Path:      filepath.Join(s.BackupDir(), e.Name()),
			CreatedAt: info.ModTime(),
			Size:      info.Size(),
		})
	}

	// Names embed a UTC timestamp, so name order is creation order.
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

// Restore replaces the backing file and in-memory state with the named
// snapshot. The snapshot is parsed before anything is overwritten.
func (s *Store) Restore(name string) error {
	if name == "" || filepath.Base(name) != name || !isBackupName(name) {
		return ErrBackupNotFound
	}

	src := filepath.Join(s.BackupDir(), name)
	data, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		return ErrBackupNotFound
	}
	if err != nil {
		return &StorageError{Op: "restore", Path: src, Err: err}
	}

	scratch := &Store{
		path:    s.path,
		opts:    s.opts,
		fold:    s.fold,
		records: make(map[models.PathKey]*models.TagSet),
	}
	if err := scratch.decode(data); err != nil {
		return &StorageError{Op: "restore", Path: src, Err: err}
	}

	if err := writeFileAtomic(s.path, data, 0o600); err != nil {
		return &StorageError{Op: "restore", Path: s.path, Err: err}
	}
	s.records = scratch.records
	s.order = scratch.order
	return nil
}

func (s *Store) pruneBackups() error {
	keep := s.opts.BackupCount
	if keep <= 0 {
		keep = DefaultBackupCount
	}

	backups, err := s.Backups()
	if err != nil {
		return err
	}
	for i := keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return &StorageError{Op: "backup", Path: backups[i].Path, Err: err}
		}
	}
	return nil
}

func isBackupName(name string) bool {
	return strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix)
}
