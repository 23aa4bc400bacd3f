// ABOUTME: Configuration for the tagman CLI.
// ABOUTME: Handles XDG config paths, YAML loading, and typed option values.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds every option the tool consumes. Core packages never read this
// file themselves; commands load it once and hand the typed values down.
type Config struct {
	// Store overrides the backing file location when set.
	Store string `yaml:"store,omitempty"`

	Search SearchConfig `yaml:"search"`
	Tags   TagsConfig   `yaml:"tags"`
	Backup BackupConfig `yaml:"backup"`
}

// SearchConfig controls query behavior.
type SearchConfig struct {
	// FuzzyThreshold is the default similarity cutoff for fuzzy search, in [0,1].
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`

	// CaseSensitive selects exact-case tag comparison. Storage always keeps
	// the original casing either way.
	CaseSensitive bool `yaml:"case_sensitive"`
}

// TagsConfig controls record validation.
type TagsConfig struct {
	// MaxPerFile is the validation ceiling on tags per record.
	MaxPerFile int `yaml:"max_per_file"`
}

// BackupConfig controls snapshot creation and retention.
type BackupConfig struct {
	// AutoBackup is the master switch for snapshot creation.
	AutoBackup bool `yaml:"auto_backup"`

	// OnBulkOperations gates the pre-batch snapshot taken by bulk commands.
	OnBulkOperations bool `yaml:"on_bulk_operations"`

	// Count is how many snapshots to retain; the oldest is pruned first.
	Count int `yaml:"count"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			FuzzyThreshold: 0.7,
			CaseSensitive:  false,
		},
		Tags: TagsConfig{
			MaxPerFile: 64,
		},
		Backup: BackupConfig{
			AutoBackup:       true,
			OnBulkOperations: true,
			Count:            5,
		},
	}
}

// ConfigDir returns the configuration directory path.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tagman")
}

// ConfigPath returns the path to the config file. TM_CONFIG overrides the
// default location.
func ConfigPath() string {
	if p := os.Getenv("TM_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.yml")
}

// Load reads configuration from disk, returning defaults if no file exists.
// Keys absent from the file keep their default values.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigPath(), err)
	}

	return cfg, nil
}

// Save writes configuration to disk.
func Save(cfg *Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// StorePath resolves the backing file location: the config override when set,
// otherwise the XDG data directory.
func (c *Config) StorePath() string {
	if c.Store != "" {
		return c.Store
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "tagman", "tags.json")
}
