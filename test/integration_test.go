// ABOUTME: Integration tests for tm CLI commands.
// ABOUTME: Tests full workflows from add through bulk edits and restore.

package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var tmBin string

func TestMain(m *testing.M) {
	// Build tm binary
	cmd := exec.Command("go", "build", "-o", "bin/tm", "./cmd/tm")
	cmd.Dir = ".."
	if err := cmd.Run(); err != nil {
		panic(err)
	}

	wd, _ := os.Getwd()
	tmBin = filepath.Join(wd, "..", "bin", "tm")

	os.Exit(m.Run())
}

func TestAddListSearchRemove(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "tags.json")
	notes := writeFile(t, dir, "notes.txt")

	out, err := runTm(storePath, "add", notes, "work", "urgent")
	if err != nil {
		t.Fatalf("add failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Tagged notes.txt with 2 tag(s)") {
		t.Errorf("expected add confirmation: %s", out)
	}

	out, err = runTm(storePath, "list")
	if err != nil {
		t.Fatalf("list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "notes.txt") || !strings.Contains(out, "work, urgent") {
		t.Errorf("expected record in list: %s", out)
	}

	out, err = runTm(storePath, "search", "work")
	if err != nil {
		t.Fatalf("search failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "notes.txt") {
		t.Errorf("expected search hit: %s", out)
	}

	out, err = runTm(storePath, "rm", notes, "urgent")
	if err != nil {
		t.Fatalf("rm failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Removed 1 tag(s)") {
		t.Errorf("expected rm confirmation: %s", out)
	}

	out, _ = runTm(storePath, "search", "urgent")
	if strings.Contains(out, "notes.txt") {
		t.Errorf("did not expect removed tag to match: %s", out)
	}
}

func TestSearchModes(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "tags.json")
	report := writeFile(t, dir, "report.md")
	recipe := writeFile(t, dir, "recipe.md")

	mustRun(t, storePath, "add", report, "project", "Draft")
	mustRun(t, storePath, "add", recipe, "cooking")

	// Exact search requires every query tag, case-insensitively.
	out, _ := runTm(storePath, "search", "PROJECT", "draft")
	if !strings.Contains(out, "report.md") || strings.Contains(out, "recipe.md") {
		t.Errorf("exact search mismatch: %s", out)
	}

	// "projects" is within edit distance of "project".
	out, _ = runTm(storePath, "search", "--fuzzy", "projects")
	if !strings.Contains(out, "report.md") {
		t.Errorf("expected fuzzy hit: %s", out)
	}

	out, _ = runTm(storePath, "search", "--path", "recipe")
	if !strings.Contains(out, "recipe.md") || strings.Contains(out, "report.md") {
		t.Errorf("path search mismatch: %s", out)
	}
}

func TestTagsListing(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "tags.json")
	a := writeFile(t, dir, "a.txt")
	b := writeFile(t, dir, "b.txt")

	mustRun(t, storePath, "add", a, "go", "cli")
	mustRun(t, storePath, "add", b, "go")

	out := mustRun(t, storePath, "tags")
	if !strings.Contains(out, "go") || !strings.Contains(out, "(2)") {
		t.Errorf("expected counted tag list: %s", out)
	}

	out = mustRun(t, storePath, "tags", "--files", "cli")
	if !strings.Contains(out, "a.txt") || strings.Contains(out, "b.txt") {
		t.Errorf("expected only a.txt for cli: %s", out)
	}
}

func TestBulkWorkflow(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "tags.json")
	writeFile(t, dir, "one.md")
	writeFile(t, dir, "two.md")
	writeFile(t, dir, "other.txt")

	pattern := filepath.Join(dir, "*.md")
	out := mustRun(t, storePath, "bulk", "add", pattern, "inbox")
	if !strings.Contains(out, "Tagged 2 path(s)") {
		t.Errorf("expected two files tagged: %s", out)
	}
	if strings.Contains(out, "other.txt") {
		t.Errorf("did not expect non-matching file: %s", out)
	}

	// Dry run reports without writing.
	out = mustRun(t, storePath, "bulk", "retag", "--dry-run", "inbox", "queue")
	if !strings.Contains(out, "Would rename") {
		t.Errorf("expected dry-run notice: %s", out)
	}
	out = mustRun(t, storePath, "tags")
	if strings.Contains(out, "queue") {
		t.Errorf("dry run must not rename: %s", out)
	}

	out = mustRun(t, storePath, "bulk", "retag", "inbox", "queue")
	if !strings.Contains(out, `Renamed "inbox" to "queue" on 2 path(s)`) {
		t.Errorf("expected retag confirmation: %s", out)
	}

	out = mustRun(t, storePath, "bulk", "rm", "--force", "queue")
	if !strings.Contains(out, "Removed 2 record(s)") {
		t.Errorf("expected bulk remove: %s", out)
	}
	out = mustRun(t, storePath, "list")
	if !strings.Contains(out, "No tagged paths yet") {
		t.Errorf("expected empty store: %s", out)
	}
}

func TestFilterDupsAndClusters(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "tags.json")
	a := writeFile(t, dir, "a.go")
	b := writeFile(t, dir, "b.go")
	docs := writeFile(t, dir, "readme.md")

	mustRun(t, storePath, "add", a, "go", "cli")
	mustRun(t, storePath, "add", b, "cli", "go")
	mustRun(t, storePath, "add", docs, "docs")

	out := mustRun(t, storePath, "filter", "dups")
	if !strings.Contains(out, "2 paths share: go, cli") {
		t.Errorf("expected duplicate group: %s", out)
	}
	if strings.Contains(out, "readme.md") {
		t.Errorf("did not expect unique record in dups: %s", out)
	}

	out = mustRun(t, storePath, "filter", "clusters")
	if !strings.Contains(out, "go: 2 paths") {
		t.Errorf("expected go cluster: %s", out)
	}
	if strings.Contains(out, "docs:") {
		t.Errorf("did not expect single-member cluster: %s", out)
	}
}

func TestOrphanCleanup(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "tags.json")
	keep := writeFile(t, dir, "keep.txt")
	gone := writeFile(t, dir, "gone.txt")

	mustRun(t, storePath, "add", keep, "stable")
	mustRun(t, storePath, "add", gone, "fleeting")
	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, storePath, "filter", "orphans")
	if !strings.Contains(out, "gone.txt") || strings.Contains(out, "keep.txt") {
		t.Errorf("expected only the deleted path: %s", out)
	}

	out = mustRun(t, storePath, "rm", "--orphans")
	if !strings.Contains(out, "Removed 1 orphaned record(s)") {
		t.Errorf("expected orphan removal: %s", out)
	}

	out = mustRun(t, storePath, "list")
	if strings.Contains(out, "gone.txt") {
		t.Errorf("expected orphan gone from list: %s", out)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "tags.json")
	a := writeFile(t, dir, "a.txt")
	b := writeFile(t, dir, "b.txt")

	mustRun(t, storePath, "add", a, "go", "cli")
	mustRun(t, storePath, "add", b, "go")

	out := mustRun(t, storePath, "stats")
	for _, want := range []string{
		"Tagged paths: 2",
		"Tag assignments: 3",
		"Unique tags: 2",
		"Average tags per path: 1.5",
		"2 tag(s): 1 path(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in stats: %s", want, out)
		}
	}
}

func TestBackupAndRestore(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "tags.json")
	notes := writeFile(t, dir, "notes.txt")

	mustRun(t, storePath, "add", notes, "alpha")
	mustRun(t, storePath, "add", notes, "beta")

	out := mustRun(t, storePath, "storage", "backups")
	if !strings.Contains(out, "tags-") {
		t.Fatalf("expected a snapshot listed: %s", out)
	}
	name := strings.Fields(strings.Split(strings.TrimSpace(out), "\n")[0])[0]

	out = mustRun(t, storePath, "storage", "restore", "--force", name)
	if !strings.Contains(out, "Restored "+name) {
		t.Errorf("expected restore confirmation: %s", out)
	}

	// The snapshot predates the second add.
	out = mustRun(t, storePath, "list")
	if !strings.Contains(out, "alpha") || strings.Contains(out, "beta") {
		t.Errorf("expected pre-restore tags only: %s", out)
	}
}

func TestCorruptStoreRestore(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "tags.json")
	notes := writeFile(t, dir, "notes.txt")

	mustRun(t, storePath, "add", notes, "alpha")
	mustRun(t, storePath, "storage", "backup")

	if err := os.WriteFile(storePath, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if out, err := runTm(storePath, "list"); err == nil {
		t.Fatalf("expected list to fail on corrupt store: %s", out)
	}

	out := mustRun(t, storePath, "storage", "backups")
	name := strings.Fields(strings.Split(strings.TrimSpace(out), "\n")[0])[0]

	mustRun(t, storePath, "storage", "restore", "--force", name)
	out = mustRun(t, storePath, "list")
	if !strings.Contains(out, "notes.txt") {
		t.Errorf("expected restored record: %s", out)
	}
}

func runTm(storePath string, args ...string) (string, error) {
	allArgs := append([]string{"--store", storePath}, args...)
	cmd := exec.Command(tmBin, allArgs...) //nolint:gosec // Running our own test binary is expected in integration tests
	cmd.Env = append(os.Environ(), "TM_CONFIG="+filepath.Join(filepath.Dir(storePath), "config.yml"))
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func mustRun(t *testing.T, storePath string, args ...string) string {
	t.Helper()
	out, err := runTm(storePath, args...)
	if err != nil {
		t.Fatalf("tm %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
