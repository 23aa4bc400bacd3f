// ABOUTME: Remove command for untagging paths.
// ABOUTME: Drops single tags, whole records, or every orphaned record.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/harper/tagman/internal/store"
	"github.com/harper/tagman/internal/ui"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <path> [tag]...",
	Short: "Remove tags from a path",
	Long: `Remove the given tags from a path, or the whole record when no tags
are named. With --orphans, drop every record whose path is gone from the
filesystem instead.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		orphans, _ := cmd.Flags().GetBool("orphans")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		force, _ := cmd.Flags().GetBool("force")

		if orphans {
			if len(args) != 0 {
				return fmt.Errorf("--orphans takes no arguments")
			}
			return pruneOrphans(dryRun)
		}
		if len(args) == 0 {
			return fmt.Errorf("a path is required unless --orphans is set")
		}

		path, err := resolvePath(args[0])
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}

		if len(args) > 1 {
			tags, err := parseTags(args[1:])
			if err != nil {
				return err
			}
			removed, err := s.RemoveTags(path, tags)
			if err != nil {
				return fmt.Errorf("failed to remove tags: %w", err)
			}
			if removed == 0 {
				fmt.Printf("%s does not carry those tags\n", path.Base())
				return nil
			}

			snapshotIfEnabled(s)
			if err := s.Save(); err != nil {
				return fmt.Errorf("failed to save tag store: %w", err)
			}
			fmt.Println(ui.Success(fmt.Sprintf("Removed %d tag(s) from %s", removed, path.Base())))
			return nil
		}

		if !s.Contains(path) {
			return fmt.Errorf("%s: %w", path, store.ErrPathNotFound)
		}
		if !force {
			fmt.Printf("Remove all tags from %q? [y/N] ", path.Base())
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		s.RemovePath(path)
		snapshotIfEnabled(s)
		if err := s.Save(); err != nil {
			return fmt.Errorf("failed to save tag store: %w", err)
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed all tags from %s", path.Base())))
		return nil
	},
}

func pruneOrphans(dryRun bool) error {
	c, err := openCoordinator()
	if err != nil {
		return err
	}
	report, err := c.PruneOrphans(dryRun)
	if err != nil {
		return fmt.Errorf("failed to prune orphans: %w", err)
	}
	if report.Changed == 0 {
		fmt.Println("No orphaned records found.")
		return nil
	}

	for _, p := range report.Paths {
		fmt.Printf("  %s\n", p)
	}
	if dryRun {
		fmt.Println(ui.Hint(fmt.Sprintf("Would remove %d orphaned record(s) (dry run, nothing written)", report.Changed)))
		return nil
	}
	fmt.Println(ui.Success(fmt.Sprintf("Removed %d orphaned record(s)", report.Changed)))
	return nil
}

func init() {
	rmCmd.Flags().Bool("orphans", false, "remove records whose paths no longer exist")
	rmCmd.Flags().Bool("dry-run", false, "show what would be removed without writing")
	rmCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	rootCmd.AddCommand(rmCmd)
}
