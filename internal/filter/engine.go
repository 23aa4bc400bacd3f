// ABOUTME: Filter engine surfacing structural problems in the tag store.
// ABOUTME: Duplicates, orphans, similarity grouping, clusters, isolation.

package filter

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/harper/tagman/internal/models"
	"github.com/harper/tagman/internal/store"
)

// ErrInvalidThreshold indicates a similarity threshold outside [0, 1].
var ErrInvalidThreshold = errors.New("threshold out of range [0, 1]")

// Engine runs read-only analyses over a store.
type Engine struct {
	store *store.Store
	fold  models.Fold
}

// New returns an Engine reading from st.
func New(st *store.Store) *Engine {
	return &Engine{store: st, fold: st.Fold()}
}

// DuplicateGroup is a set of paths carrying identical tags. Tag order and
// casing do not distinguish sets.
type DuplicateGroup struct {
	Tags  []models.Tag // representative set, from the group's first record
	Paths []models.PathKey
}

// Duplicates returns groups of two or more paths whose tag sets are equal.
// Groups and their members follow document order.
func (e *Engine) Duplicates() []DuplicateGroup {
	groups := make(map[string]*DuplicateGroup)
	var keys []string
	for _, rec := range e.store.Records() {
		key := rec.Tags.EqualityKey(e.fold)
		g, ok := groups[key]
		if !ok {
			g = &DuplicateGroup{Tags: rec.Tags.Tags()}
			groups[key] = g
			keys = append(keys, key)
		}
		g.Paths = append(g.Paths, rec.Path)
	}

	var out []DuplicateGroup
	for _, k := range keys {
		if g := groups[k]; len(g.Paths) > 1 {
			out = append(out, *g)
		}
	}
	return out
}

// Orphans returns records whose path no longer exists on the filesystem.
// The check is a live stat per record, so the result reflects the filesystem
// at scan time; paths can appear or vanish immediately after.
func (e *Engine) Orphans() []store.Record {
	var out []store.Record
	for _, rec := range e.store.Records() {
		if _, err := os.Stat(string(rec.Path)); errors.Is(err, fs.ErrNotExist) {
			out = append(out, rec)
		}
	}
	return out
}

// TagSimilarity returns the Jaccard similarity of two tag sets under the
// fold policy: shared tags over all distinct tags. Two empty sets count as
// identical.
func TagSimilarity(fold models.Fold, a, b *models.TagSet) float64 {
	return jaccard(a.KeySet(fold), b.KeySet(fold))
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

// SimilarGroup is a set of paths connected by pairwise tag similarity.
type SimilarGroup struct {
	Paths  []models.PathKey
	Common []models.Tag // tags every member carries
}

// Similar returns groups of paths whose tag sets overlap at or above the
// threshold. Grouping is transitive: if A pairs with B and B with C, all
// three land in one group even when A and C pair below the threshold.
func (e *Engine) Similar(threshold float64) ([]SimilarGroup, error) {
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}

	recs := e.store.Records()
	keySets := make([]map[string]struct{}, len(recs))
	for i, rec := range recs {
		keySets[i] = rec.Tags.KeySet(e.fold)
	}

	parent := make([]int, len(recs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[rj] = ri
		}
	}

	for i := 0; i < len(recs); i++ {
		for j := i + 1; j < len(recs); j++ {
			if jaccard(keySets[i], keySets[j]) >= threshold {
				union(i, j)
			}
		}
	}

	members := make(map[int][]int)
	var roots []int
	for i := range recs {
		r := find(i)
		if _, ok := members[r]; !ok {
			roots = append(roots, r)
		}
		members[r] = append(members[r], i)
	}

	var out []SimilarGroup
	for _, r := range roots {
		idx := members[r]
		if len(idx) < 2 {
			continue
		}
		g := SimilarGroup{Common: commonTags(e.fold, recs, idx)}
		for _, i := range idx {
			g.Paths = append(g.Paths, recs[i].Path)
		}
		out = append(out, g)
	}
	return out, nil
}

// commonTags intersects the members' tag sets, keeping the first member's
// casing and order.
func commonTags(fold models.Fold, recs []store.Record, idx []int) []models.Tag {
	var out []models.Tag
	for _, t := range recs[idx[0]].Tags.Tags() {
		shared := true
		for _, i := range idx[1:] {
			if !recs[i].Tags.Contains(fold, t) {
				shared = false
				break
			}
		}
		if shared {
			out = append(out, t)
		}
	}
	return out
}

// SimilarFile is one match from SimilarTo.
type SimilarFile struct {
	Path   models.PathKey
	Score  float64
	Common []models.Tag // shared with the target
	Unique []models.Tag // carried by this path but not the target
}

// SimilarReport is the outcome of a target-based similarity scan.
type SimilarReport struct {
	Target     models.PathKey
	TargetTags []models.Tag
	Matches    []SimilarFile // best score first
}

// SimilarTo ranks every other path by tag similarity to the target. A target
// absent from the store is retried case-insensitively before failing with
// ErrPathNotFound.
func (e *Engine) SimilarTo(target models.PathKey, threshold float64) (*SimilarReport, error) {
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}

	resolved, targetTags, err := e.resolveTarget(target)
	if err != nil {
		return nil, err
	}

	report := &SimilarReport{Target: resolved, TargetTags: targetTags.Tags()}
	targetKeys := targetTags.KeySet(e.fold)

	for _, rec := range e.store.Records() {
		if rec.Path == resolved {
			continue
		}
		score := jaccard(targetKeys, rec.Tags.KeySet(e.fold))
		if score < threshold {
			continue
		}

		m := SimilarFile{Path: rec.Path, Score: score}
		for _, t := range rec.Tags.Tags() {
			if targetTags.Contains(e.fold, t) {
				m.Common = append(m.Common, t)
			} else {
				m.Unique = append(m.Unique, t)
			}
		}
		report.Matches = append(report.Matches, m)
	}

	sort.SliceStable(report.Matches, func(i, j int) bool {
		return report.Matches[i].Score > report.Matches[j].Score
	})
	return report, nil
}

func (e *Engine) resolveTarget(target models.PathKey) (models.PathKey, *models.TagSet, error) {
	if set, ok := e.store.TagsFor(target); ok {
		return target, set, nil
	}

	lower := strings.ToLower(string(target))
	for _, p := range e.store.Paths() {
		if strings.ToLower(string(p)) == lower {
			set, _ := e.store.TagsFor(p)
			return p, set, nil
		}
	}
	return "", nil, store.ErrPathNotFound
}

// Cluster is the set of paths carrying one tag.
type Cluster struct {
	Tag     models.Tag
	Paths   []models.PathKey
	Percent float64 // share of all records carrying the tag
}

// Clusters returns per-tag path groups with at least minSize members,
// largest first. Values of minSize below one are treated as one.
func (e *Engine) Clusters(minSize int) []Cluster {
	if minSize < 1 {
		minSize = 1
	}

	recs := e.store.Records()
	byTag := make(map[string]*Cluster)
	var keys []string
	for _, rec := range recs {
		for _, t := range rec.Tags.Tags() {
			key := e.fold.Key(t)
			c, ok := byTag[key]
			if !ok {
				c = &Cluster{Tag: t}
				byTag[key] = c
				keys = append(keys, key)
			}
			c.Paths = append(c.Paths, rec.Path)
		}
	}

	var out []Cluster
	for _, k := range keys {
		c := byTag[k]
		if len(c.Paths) < minSize {
			continue
		}
		c.Percent = float64(len(c.Paths)) / float64(len(recs)) * 100
		out = append(out, *c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Paths) != len(out[j].Paths) {
			return len(out[i].Paths) > len(out[j].Paths)
		}
		return e.fold.Key(out[i].Tag) < e.fold.Key(out[j].Tag)
	})
	return out
}

// IsolatedFile is a path whose tags barely overlap with the rest of the
// store.
type IsolatedFile struct {
	Path      models.PathKey
	Tags      []models.Tag
	MaxShared int // highest tag overlap with any other record
}

// Isolated returns paths sharing at most maxShared tags with every other
// path, in document order. Negative maxShared is treated as zero.
func (e *Engine) Isolated(maxShared int) []IsolatedFile {
	if maxShared < 0 {
		maxShared = 0
	}

	recs := e.store.Records()
	keySets := make([]map[string]struct{}, len(recs))
	for i, rec := range recs {
		keySets[i] = rec.Tags.KeySet(e.fold)
	}

	var out []IsolatedFile
	for i, rec := range recs {
		most := 0
		for j := range recs {
			if i == j {
				continue
			}
			shared := 0
			for k := range keySets[i] {
				if _, ok := keySets[j][k]; ok {
					shared++
				}
			}
			if shared > most {
				most = shared
			}
		}
		if most <= maxShared {
			out = append(out, IsolatedFile{Path: rec.Path, Tags: rec.Tags.Tags(), MaxShared: most})
		}
	}
	return out
}

func checkThreshold(t float64) error {
	if math.IsNaN(t) || t < 0 || t > 1 {
		return fmt.Errorf("%g: %w", t, ErrInvalidThreshold)
	}
	return nil
}
