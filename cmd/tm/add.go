// ABOUTME: Add command for tagging a path.
// ABOUTME: Requires the path to exist on the filesystem before tagging.

package main

import (
	"fmt"
	"os"

	"github.com/harper/tagman/internal/store"
	"github.com/harper/tagman/internal/ui"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <path> <tag>...",
	Short: "Tag a file or directory",
	Long:  `Attach one or more tags to a path. The path must exist; tags it already carries are skipped.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(args[0]); os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", args[0], store.ErrPathNotFound)
		}

		path, err := resolvePath(args[0])
		if err != nil {
			return err
		}
		tags, err := parseTags(args[1:])
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}

		added, err := s.AddTags(path, tags)
		if err != nil {
			return fmt.Errorf("failed to add tags: %w", err)
		}
		if added == 0 {
			fmt.Printf("%s already carries those tags\n", path.Base())
			return nil
		}

		snapshotIfEnabled(s)
		if err := s.Save(); err != nil {
			return fmt.Errorf("failed to save tag store: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Tagged %s with %d tag(s)", path.Base(), added)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
