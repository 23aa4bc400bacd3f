// ABOUTME: Bulk command applying one tag operation across many paths.
// ABOUTME: Batches run all-or-nothing against a working copy of the store.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/harper/tagman/internal/bulk"
	"github.com/harper/tagman/internal/models"
	"github.com/harper/tagman/internal/ui"
	"github.com/spf13/cobra"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Apply one tag operation across many paths",
	Long: `Bulk operations run against a working copy of the store: either the
whole batch lands, or nothing is written. Use --dry-run to preview.`,
}

var bulkAddCmd = &cobra.Command{
	Use:   "add <pattern> <tag>...",
	Short: "Tag every file matching a glob pattern",
	Long: `Expand the pattern (** matches across directories) and union the
tags into every matching file's record.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		tags, err := parseTags(args[1:])
		if err != nil {
			return err
		}
		paths, err := expandPattern(args[0])
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no files match %q", args[0])
		}

		c, err := openCoordinator()
		if err != nil {
			return err
		}
		report, err := c.AddTags(paths, tags, dryRun)
		if err != nil {
			return fmt.Errorf("bulk add failed: %w", err)
		}

		printBulkReport(report,
			fmt.Sprintf("Tagged %d path(s), %d tag addition(s)", len(report.Paths), report.Changed),
			fmt.Sprintf("Would tag %d path(s), %d tag addition(s)", len(report.Paths), report.Changed))
		return nil
	},
}

var bulkRmCmd = &cobra.Command{
	Use:   "rm <tag>",
	Short: "Remove every record carrying a tag",
	Long: `Delete every record carrying the tag. With --tag-only the records
stay and just lose the tag; records left with no tags are dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		tagOnly, _ := cmd.Flags().GetBool("tag-only")
		force, _ := cmd.Flags().GetBool("force")

		tag, err := models.NewTag(args[0])
		if err != nil {
			return fmt.Errorf("invalid tag %q: %w", args[0], err)
		}

		c, err := openCoordinator()
		if err != nil {
			return err
		}

		if !tagOnly && !force && !dryRun {
			fmt.Printf("Remove every record tagged %q? [y/N] ", tag)
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		var report *bulk.Report
		if tagOnly {
			report, err = c.RemoveTag(tag, dryRun)
		} else {
			report, err = c.RemoveByTag(tag, dryRun)
		}
		if errors.Is(err, bulk.ErrNoTargets) {
			return fmt.Errorf("no records carry tag %q", tag)
		}
		if err != nil {
			return fmt.Errorf("bulk remove failed: %w", err)
		}

		if tagOnly {
			printBulkReport(report,
				fmt.Sprintf("Stripped %q from %d path(s)", tag, len(report.Paths)),
				fmt.Sprintf("Would strip %q from %d path(s)", tag, len(report.Paths)))
			return nil
		}
		printBulkReport(report,
			fmt.Sprintf("Removed %d record(s)", len(report.Paths)),
			fmt.Sprintf("Would remove %d record(s)", len(report.Paths)))
		return nil
	},
}

var bulkRetagCmd = &cobra.Command{
	Use:   "retag <old> <new>",
	Short: "Rename a tag across every record carrying it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		oldTag, err := models.NewTag(args[0])
		if err != nil {
			return fmt.Errorf("invalid tag %q: %w", args[0], err)
		}
		newTag, err := models.NewTag(args[1])
		if err != nil {
			return fmt.Errorf("invalid tag %q: %w", args[1], err)
		}

		c, err := openCoordinator()
		if err != nil {
			return err
		}
		report, err := c.Retag(oldTag, newTag, dryRun)
		if errors.Is(err, bulk.ErrNoTargets) {
			return fmt.Errorf("no records carry tag %q", oldTag)
		}
		if err != nil {
			return fmt.Errorf("bulk retag failed: %w", err)
		}

		printBulkReport(report,
			fmt.Sprintf("Renamed %q to %q on %d path(s)", oldTag, newTag, len(report.Paths)),
			fmt.Sprintf("Would rename %q to %q on %d path(s)", oldTag, newTag, len(report.Paths)))
		return nil
	},
}

func openCoordinator() (*bulk.Coordinator, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	return bulk.New(s, bulk.Options{Backup: cfg.Backup.AutoBackup && cfg.Backup.OnBulkOperations}), nil
}

// expandPattern globs with ** support and keeps only regular files.
func expandPattern(pattern string) ([]models.PathKey, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}

	out := make([]models.PathKey, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		p, err := models.NewPathKey(m)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// printBulkReport lists affected paths and closes with a status line.
func printBulkReport(report *bulk.Report, did, would string) {
	if report.Changed == 0 {
		fmt.Println("Nothing to change.")
		return
	}
	for _, p := range report.Paths {
		fmt.Printf("  %s\n", p)
	}
	if report.DryRun {
		fmt.Println(ui.Hint(would + " (dry run, nothing written)"))
		return
	}
	if report.Backup != nil {
		fmt.Println(ui.Hint("Backed up to " + report.Backup.Name))
	}
	fmt.Println(ui.Success(did))
}

func init() {
	bulkCmd.PersistentFlags().Bool("dry-run", false, "preview the batch without writing")
	bulkRmCmd.Flags().Bool("tag-only", false, "strip the tag but keep the records")
	bulkRmCmd.Flags().BoolP("force", "f", false, "skip confirmation")

	bulkCmd.AddCommand(bulkAddCmd)
	bulkCmd.AddCommand(bulkRmCmd)
	bulkCmd.AddCommand(bulkRetagCmd)
	rootCmd.AddCommand(bulkCmd)
}
