// ABOUTME: Coordinator for multi-path tag operations.
// ABOUTME: Applies batches all-or-nothing with an optional pre-batch snapshot.

package bulk

import (
	"github.com/harper/tagman/internal/filter"
	"github.com/harper/tagman/internal/models"
	"github.com/harper/tagman/internal/store"
)

// Options configures a Coordinator.
type Options struct {
	// Backup takes a snapshot of the backing file before any batch that
	// will be persisted.
	Backup bool
}

// Coordinator runs batch operations against a store. Every batch is applied
// to a working copy first; the store and its file change only when the whole
// batch succeeded.
type Coordinator struct {
	store *store.Store
	opts  Options
}

// New returns a Coordinator over st.
func New(st *store.Store, opts Options) *Coordinator {
	return &Coordinator{store: st, opts: opts}
}

// Store returns the coordinator's current view of the data. After a
// successful batch it reflects the applied changes.
func (c *Coordinator) Store() *store.Store { return c.store }

// Report describes what a batch did, or would do under dry run.
type Report struct {
	Op       string
	DryRun   bool
	Examined int               // candidate paths considered
	Paths    []models.PathKey  // paths changed (or that would change)
	Changed  int               // individual tag or record changes
	Backup   *store.Backup     // snapshot taken, nil when none
	Saved    bool
}

// run applies fn to a working copy and persists the result. Failures from fn
// abort the batch with nothing written; a dry run stops after the report.
func (c *Coordinator) run(op string, dryRun bool, fn func(work *store.Store, r *Report) []PathError) (*Report, error) {
	work := c.store.Clone()
	report := &Report{Op: op, DryRun: dryRun}

	if failures := fn(work, report); len(failures) > 0 {
		return nil, &BulkError{Op: op, Failures: failures}
	}
	if dryRun || report.Changed == 0 {
		return report, nil
	}

	if c.opts.Backup {
		b, err := c.store.Snapshot()
		if err != nil {
			return nil, err
		}
		report.Backup = b
	}
	if err := work.Save(); err != nil {
		return nil, err
	}
	c.store = work
	report.Saved = true
	return report, nil
}

// AddTags unions tags into every target path. A path that would blow the tag
// ceiling fails the whole batch.
func (c *Coordinator) AddTags(paths []models.PathKey, tags []models.Tag, dryRun bool) (*Report, error) {
	if len(paths) == 0 {
		return nil, ErrNoTargets
	}

	return c.run("bulk add", dryRun, func(work *store.Store, r *Report) []PathError {
		var failures []PathError
		r.Examined = len(paths)
		for _, p := range paths {
			n, err := work.AddTags(p, tags)
			if err != nil {
				failures = append(failures, PathError{Path: p, Err: err})
				continue
			}
			if n > 0 {
				r.Paths = append(r.Paths, p)
				r.Changed += n
			}
		}
		return failures
	})
}

// RemoveByTag deletes every record carrying the tag.
func (c *Coordinator) RemoveByTag(tag models.Tag, dryRun bool) (*Report, error) {
	targets := c.pathsWithTag(tag)
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	return c.run("bulk remove", dryRun, func(work *store.Store, r *Report) []PathError {
		r.Examined = len(targets)
		for _, p := range targets {
			if work.RemovePath(p) {
				r.Paths = append(r.Paths, p)
				r.Changed++
			}
		}
		return nil
	})
}

// RemoveTag strips the tag from every record carrying it. Records left with
// no tags are deleted.
func (c *Coordinator) RemoveTag(tag models.Tag, dryRun bool) (*Report, error) {
	targets := c.pathsWithTag(tag)
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	return c.run("bulk untag", dryRun, func(work *store.Store, r *Report) []PathError {
		var failures []PathError
		r.Examined = len(targets)
		for _, p := range targets {
			n, err := work.RemoveTags(p, []models.Tag{tag})
			if err != nil {
				failures = append(failures, PathError{Path: p, Err: err})
				continue
			}
			if n > 0 {
				r.Paths = append(r.Paths, p)
				r.Changed += n
			}
		}
		return failures
	})
}

// Retag renames old to new across every record carrying old, keeping each
// tag's list position.
func (c *Coordinator) Retag(old, new models.Tag, dryRun bool) (*Report, error) {
	targets := c.pathsWithTag(old)
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	return c.run("bulk retag", dryRun, func(work *store.Store, r *Report) []PathError {
		var failures []PathError
		r.Examined = len(targets)
		for _, p := range targets {
			changed, err := work.Retag(p, old, new)
			if err != nil {
				failures = append(failures, PathError{Path: p, Err: err})
				continue
			}
			if changed {
				r.Paths = append(r.Paths, p)
				r.Changed++
			}
		}
		return failures
	})
}

// PruneOrphans removes every record whose path is gone from the filesystem.
// An empty store or one with no orphans is a no-op, not an error.
func (c *Coordinator) PruneOrphans(dryRun bool) (*Report, error) {
	return c.run("prune orphans", dryRun, func(work *store.Store, r *Report) []PathError {
		orphans := filter.New(work).Orphans()
		r.Examined = work.Len()
		for _, rec := range orphans {
			if work.RemovePath(rec.Path) {
				r.Paths = append(r.Paths, rec.Path)
				r.Changed++
			}
		}
		return nil
	})
}

func (c *Coordinator) pathsWithTag(tag models.Tag) []models.PathKey {
	fold := c.store.Fold()
	var out []models.PathKey
	for _, rec := range c.store.Records() {
		if rec.Tags.Contains(fold, tag) {
			out = append(out, rec.Path)
		}
	}
	return out
}
