// ABOUTME: Aggregate statistics over the tag store.
// ABOUTME: Totals, averages, frequency rankings, and tag-count distribution.

package stats

import (
	"sort"

	"github.com/harper/tagman/internal/models"
	"github.com/harper/tagman/internal/store"
)

// DefaultTop is how many tags the frequency rankings hold unless the caller
// asks for a different cut.
const DefaultTop = 10

// TagFrequency is one tag with its usage count.
type TagFrequency struct {
	Tag   models.Tag
	Count int
}

// Summary is a point-in-time statistical view of the store.
type Summary struct {
	TotalPaths     int
	TotalTags      int // tag assignments, counting each record's tags
	UniqueTags     int
	AvgTagsPerPath float64
	MostCommon     []TagFrequency
	LeastCommon    []TagFrequency
	Distribution   map[int]int // tags-per-record -> number of records
}

// Summarize computes statistics for st. The frequency rankings are cut to
// top entries; top values below one fall back to DefaultTop.
func Summarize(st *store.Store, top int) *Summary {
	if top < 1 {
		top = DefaultTop
	}

	fold := st.Fold()
	sum := &Summary{Distribution: make(map[int]int)}

	counts := make(map[string]*TagFrequency)
	var keys []string
	for _, rec := range st.Records() {
		n := rec.Tags.Len()
		sum.TotalPaths++
		sum.TotalTags += n
		sum.Distribution[n]++

		for _, t := range rec.Tags.Tags() {
			key := fold.Key(t)
			tf, ok := counts[key]
			if !ok {
				tf = &TagFrequency{Tag: t}
				counts[key] = tf
				keys = append(keys, key)
			}
			tf.Count++
		}
	}

	sum.UniqueTags = len(keys)
	if sum.TotalPaths > 0 {
		sum.AvgTagsPerPath = float64(sum.TotalTags) / float64(sum.TotalPaths)
	}

	freqs := make([]TagFrequency, 0, len(keys))
	for _, k := range keys {
		freqs = append(freqs, *counts[k])
	}

	byName := func(i, j int) bool { return fold.Key(freqs[i].Tag) < fold.Key(freqs[j].Tag) }
	sort.SliceStable(freqs, byName)
	sort.SliceStable(freqs, func(i, j int) bool { return freqs[i].Count > freqs[j].Count })
	sum.MostCommon = cut(freqs, top)

	sort.SliceStable(freqs, byName)
	sort.SliceStable(freqs, func(i, j int) bool { return freqs[i].Count < freqs[j].Count })
	sum.LeastCommon = cut(freqs, top)

	return sum
}

func cut(freqs []TagFrequency, top int) []TagFrequency {
	if len(freqs) > top {
		freqs = freqs[:top]
	}
	out := make([]TagFrequency, len(freqs))
	copy(out, freqs)
	return out
}
