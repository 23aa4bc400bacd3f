// ABOUTME: Root command wiring for the tm CLI.
// ABOUTME: Loads configuration and opens the tag store for subcommands.

package main

import (
	"fmt"
	"os"

	"github.com/harper/tagman/internal/config"
	"github.com/harper/tagman/internal/models"
	"github.com/harper/tagman/internal/store"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	storePath string
)

var rootCmd = &cobra.Command{
	Use:   "tm",
	Short: "Tag files and directories from the command line",
	Long: `tm attaches tags to filesystem paths and keeps them in a single
JSON document. Search, filter, and batch-edit your tags without touching
the files themselves.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if storePath == "" {
			storePath = cfg.StorePath()
		}
		return nil
	},
}

func Execute() error {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	return rootCmd.Execute()
}

func storeOptions() store.Options {
	return store.Options{
		MaxTagsPerPath: cfg.Tags.MaxPerFile,
		CaseSensitive:  cfg.Search.CaseSensitive,
		BackupCount:    cfg.Backup.Count,
	}
}

func openStore() (*store.Store, error) {
	s, err := store.Open(storePath, storeOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open tag store: %w", err)
	}
	return s, nil
}

// snapshotIfEnabled backs up the store file before a write. Failures warn
// instead of blocking the operation.
func snapshotIfEnabled(s *store.Store) {
	if !cfg.Backup.AutoBackup {
		return
	}
	if _, err := s.Snapshot(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: backup failed: %v\n", err)
	}
}

func parseTags(args []string) ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(args))
	for _, a := range args {
		t, err := models.NewTag(a)
		if err != nil {
			return nil, fmt.Errorf("invalid tag %q: %w", a, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func resolvePath(raw string) (models.PathKey, error) {
	p, err := models.NewPathKey(raw)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", raw, err)
	}
	return p, nil
}

func tagStrings(tags []models.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

func pathStrings(paths []models.PathKey) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = string(p)
	}
	return out
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "tag store file (default from config)")
}
