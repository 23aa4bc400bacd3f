// ABOUTME: Tests for configuration loading and defaults.
// ABOUTME: Covers missing files, partial files, overrides, and parse errors.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("TM_CONFIG", filepath.Join(t.TempDir(), "nope.yml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	def := DefaultConfig()
	if cfg.Search.FuzzyThreshold != def.Search.FuzzyThreshold {
		t.Errorf("FuzzyThreshold = %v, want %v", cfg.Search.FuzzyThreshold, def.Search.FuzzyThreshold)
	}
	if cfg.Tags.MaxPerFile != def.Tags.MaxPerFile {
		t.Errorf("MaxPerFile = %d, want %d", cfg.Tags.MaxPerFile, def.Tags.MaxPerFile)
	}
	if !cfg.Backup.AutoBackup {
		t.Error("AutoBackup should default to true")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := "search:\n  fuzzy_threshold: 0.9\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TM_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Search.FuzzyThreshold != 0.9 {
		t.Errorf("FuzzyThreshold = %v, want 0.9", cfg.Search.FuzzyThreshold)
	}
	if cfg.Backup.Count != DefaultConfig().Backup.Count {
		t.Errorf("Count = %d, want default %d", cfg.Backup.Count, DefaultConfig().Backup.Count)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("search: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TM_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	t.Setenv("TM_CONFIG", path)

	cfg := DefaultConfig()
	cfg.Search.CaseSensitive = true
	cfg.Backup.Count = 9

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Search.CaseSensitive {
		t.Error("CaseSensitive not persisted")
	}
	if loaded.Backup.Count != 9 {
		t.Errorf("Count = %d, want 9", loaded.Backup.Count)
	}
}

func TestStorePathOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store = "/tmp/custom/tags.json"

	if got := cfg.StorePath(); got != "/tmp/custom/tags.json" {
		t.Errorf("StorePath() = %q, want override", got)
	}
}

func TestStorePathDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg := DefaultConfig()
	want := filepath.Join("/data", "tagman", "tags.json")
	if got := cfg.StorePath(); got != want {
		t.Errorf("StorePath() = %q, want %q", got, want)
	}
}
