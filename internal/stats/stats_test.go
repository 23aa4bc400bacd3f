// ABOUTME: Tests for store statistics.
// ABOUTME: Covers totals, averages, rankings, and the distribution map.

package stats

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/harper/tagman/internal/models"
	"github.com/harper/tagman/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "tags.json"), store.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func add(t *testing.T, s *store.Store, path string, names ...string) {
	t.Helper()
	ts := make([]models.Tag, len(names))
	for i, n := range names {
		ts[i] = models.Tag(n)
	}
	if _, err := s.AddTags(models.PathKey(path), ts); err != nil {
		t.Fatal(err)
	}
}

func TestSummarize(t *testing.T) {
	s := newStore(t)
	add(t, s, "/project/main.py", "python", "backend", "api", "main")
	add(t, s, "/project/utils.py", "python", "backend", "utilities")
	add(t, s, "/project/test.py", "python", "testing", "unit-tests")
	add(t, s, "/frontend/app.js", "javascript", "frontend", "react")
	add(t, s, "/frontend/styles.css", "css", "frontend", "styling")
	add(t, s, "/docs/readme.md", "documentation")
	add(t, s, "/config/settings.json", "config", "json")

	sum := Summarize(s, 0)

	if sum.TotalPaths != 7 {
		t.Errorf("TotalPaths = %d, want 7", sum.TotalPaths)
	}
	if sum.TotalTags != 19 {
		t.Errorf("TotalTags = %d, want 19", sum.TotalTags)
	}
	if sum.UniqueTags != 15 {
		t.Errorf("UniqueTags = %d, want 15", sum.UniqueTags)
	}
	if math.Abs(sum.AvgTagsPerPath-19.0/7.0) > 1e-9 {
		t.Errorf("AvgTagsPerPath = %v, want %v", sum.AvgTagsPerPath, 19.0/7.0)
	}

	if len(sum.MostCommon) == 0 || sum.MostCommon[0].Tag != "python" || sum.MostCommon[0].Count != 3 {
		t.Errorf("MostCommon[0] = %+v, want python x3", sum.MostCommon)
	}
	seen := map[models.Tag]bool{}
	for _, tf := range sum.MostCommon {
		seen[tf.Tag] = true
	}
	if !seen["frontend"] || !seen["backend"] {
		t.Error("MostCommon should include the twice-used tags")
	}

	want := map[int]int{4: 1, 3: 4, 2: 1, 1: 1}
	for n, c := range want {
		if sum.Distribution[n] != c {
			t.Errorf("Distribution[%d] = %d, want %d", n, sum.Distribution[n], c)
		}
	}
}

func TestSummarizeEmptyStore(t *testing.T) {
	sum := Summarize(newStore(t), 0)

	if sum.TotalPaths != 0 || sum.TotalTags != 0 || sum.UniqueTags != 0 {
		t.Errorf("summary = %+v, want zeros", sum)
	}
	if sum.AvgTagsPerPath != 0 {
		t.Errorf("AvgTagsPerPath = %v, want 0", sum.AvgTagsPerPath)
	}
	if len(sum.MostCommon) != 0 || len(sum.LeastCommon) != 0 {
		t.Error("rankings should be empty")
	}
	if len(sum.Distribution) != 0 {
		t.Errorf("Distribution = %v, want empty", sum.Distribution)
	}
}

func TestSummarizeFoldsCase(t *testing.T) {
	s := newStore(t)
	add(t, s, "/a", "Python")
	add(t, s, "/b", "python")

	sum := Summarize(s, 0)
	if sum.UniqueTags != 1 {
		t.Errorf("UniqueTags = %d, want 1", sum.UniqueTags)
	}
	if sum.MostCommon[0].Count != 2 || sum.MostCommon[0].Tag != "Python" {
		t.Errorf("MostCommon[0] = %+v, want Python x2 with first-seen casing", sum.MostCommon[0])
	}
}

func TestSummarizeTopCut(t *testing.T) {
	s := newStore(t)
	add(t, s, "/a", "one", "two", "three", "four")

	sum := Summarize(s, 2)
	if len(sum.MostCommon) != 2 || len(sum.LeastCommon) != 2 {
		t.Errorf("rankings = %d/%d entries, want 2 each", len(sum.MostCommon), len(sum.LeastCommon))
	}
}

func TestSummarizeLeastCommonOrder(t *testing.T) {
	s := newStore(t)
	add(t, s, "/a", "rare", "common")
	add(t, s, "/b", "common")

	sum := Summarize(s, 0)
	if sum.LeastCommon[0].Tag != "rare" || sum.LeastCommon[0].Count != 1 {
		t.Errorf("LeastCommon[0] = %+v, want rare x1", sum.LeastCommon[0])
	}
}
