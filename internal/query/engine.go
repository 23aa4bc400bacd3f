// ABOUTME: Read-only query engine over the tag store.
// ABOUTME: Exact and fuzzy tag search, path search, and tag listings.

package query

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/harper/tagman/internal/models"
	"github.com/harper/tagman/internal/store"
)

// ErrInvalidThreshold indicates a fuzzy threshold outside [0, 1].
var ErrInvalidThreshold = errors.New("threshold out of range [0, 1]")

// Options configures an Engine.
type Options struct {
	// DefaultFuzzyThreshold is the similarity cutoff used when the caller
	// has no explicit preference.
	DefaultFuzzyThreshold float64
}

// Engine answers queries against a store without ever mutating it.
type Engine struct {
	store *store.Store
	fold  models.Fold
	opts  Options
}

// New returns an Engine reading from st.
func New(st *store.Store, opts Options) *Engine {
	return &Engine{store: st, fold: st.Fold(), opts: opts}
}

// DefaultThreshold returns the configured fuzzy cutoff.
func (e *Engine) DefaultThreshold() float64 { return e.opts.DefaultFuzzyThreshold }

// ListAll returns every record. The result is a copy; callers may mutate it
// freely.
func (e *Engine) ListAll() []store.Record {
	return e.store.Records()
}

// SearchExact returns records carrying every query tag. A record with extra
// tags still matches. An empty query matches nothing.
func (e *Engine) SearchExact(tags []models.Tag) []store.Record {
	if len(tags) == 0 {
		return nil
	}

	var out []store.Record
	for _, rec := range e.store.Records() {
		if containsAll(e.fold, rec.Tags, tags) {
			out = append(out, rec)
		}
	}
	return out
}

func containsAll(fold models.Fold, set *models.TagSet, tags []models.Tag) bool {
	for _, t := range tags {
		if !set.Contains(fold, t) {
			return false
		}
	}
	return true
}

// FuzzyMatch is one fuzzy search hit. Score is the weakest per-query-tag
// similarity, so it reflects the hardest constraint the record cleared.
type FuzzyMatch struct {
	Record store.Record
	Score  float64
}

// SearchFuzzy returns records where every query tag has a stored tag at or
// above the similarity threshold. Results are ordered best score first.
func (e *Engine) SearchFuzzy(tags []models.Tag, threshold float64) ([]FuzzyMatch, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%g: %w", threshold, ErrInvalidThreshold)
	}
	if len(tags) == 0 {
		return nil, nil
	}

	var out []FuzzyMatch
	for _, rec := range e.store.Records() {
		score, ok := e.fuzzyScore(rec.Tags, tags, threshold)
		if ok {
			out = append(out, FuzzyMatch{Record: rec, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// fuzzyScore finds each query tag's best similarity among the record's tags.
// The record matches only if every query tag clears the threshold; the
// returned score is the weakest of those best similarities.
func (e *Engine) fuzzyScore(set *models.TagSet, tags []models.Tag, threshold float64) (float64, bool) {
	stored := set.Tags()
	score := 1.0
	for _, q := range tags {
		qKey := e.fold.Key(q)
		best := 0.0
		for _, s := range stored {
			if sim := levenshtein.Similarity(qKey, e.fold.Key(s), nil); sim > best {
				best = sim
			}
		}
		if best < threshold {
			return 0, false
		}
		if best < score {
			score = best
		}
	}
	return score, true
}

// SearchPath returns records whose path contains the substring.
func (e *Engine) SearchPath(substr string) []store.Record {
	if substr == "" {
		return nil
	}

	var out []store.Record
	for _, rec := range e.store.Records() {
		if strings.Contains(string(rec.Path), substr) {
			out = append(out, rec)
		}
	}
	return out
}

// TagCount is one distinct tag with the number of paths carrying it.
type TagCount struct {
	Tag   models.Tag
	Count int
}

// Tags returns every distinct tag with its usage count, sorted by name.
// Tags differing only in case (under case-insensitive comparison) are
// counted together and shown with their first-seen casing.
func (e *Engine) Tags() []TagCount {
	counts := make(map[string]*TagCount)
	var keys []string
	for _, rec := range e.store.Records() {
		for _, t := range rec.Tags.Tags() {
			key := e.fold.Key(t)
			tc, ok := counts[key]
			if !ok {
				tc = &TagCount{Tag: t}
				counts[key] = tc
				keys = append(keys, key)
			}
			tc.Count++
		}
	}

	out := make([]TagCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, *counts[k])
	}
	sort.Slice(out, func(i, j int) bool {
		return e.fold.Key(out[i].Tag) < e.fold.Key(out[j].Tag)
	})
	return out
}

// FilesByTag returns records carrying the single tag.
func (e *Engine) FilesByTag(tag models.Tag) []store.Record {
	return e.SearchExact([]models.Tag{tag})
}

// SearchTags returns the distinct tags whose name matches the regular
// expression. The match is case-insensitive unless the store compares tags
// case-sensitively.
func (e *Engine) SearchTags(pattern string) ([]TagCount, error) {
	expr := pattern
	if !e.fold.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	var out []TagCount
	for _, tc := range e.Tags() {
		if re.MatchString(tc.Tag.String()) {
			out = append(out, tc)
		}
	}
	return out, nil
}
