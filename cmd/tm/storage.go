// ABOUTME: Storage command for inspecting the tag store file and snapshots.
// ABOUTME: Lists, creates, and restores backups of the backing document.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/harper/tagman/internal/store"
	"github.com/harper/tagman/internal/ui"
	"github.com/spf13/cobra"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Inspect the tag store file and its backups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := store.New(storePath, storeOptions())

		fmt.Println(ui.Label("Store", storePath))
		info, err := os.Stat(storePath)
		switch {
		case os.IsNotExist(err):
			fmt.Println(ui.Hint("Not created yet. The first 'tm add' writes it."))
		case err != nil:
			return fmt.Errorf("failed to stat tag store: %w", err)
		default:
			fmt.Println(ui.Label("Size", fmt.Sprintf("%d bytes", info.Size())))
			if loaded, err := store.Open(storePath, storeOptions()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: store is unreadable: %v\n", err)
			} else {
				fmt.Println(ui.Label("Records", fmt.Sprintf("%d", loaded.Len())))
			}
		}

		backups, err := s.Backups()
		if err != nil {
			return fmt.Errorf("failed to list backups: %w", err)
		}
		fmt.Println(ui.Label("Backups", fmt.Sprintf("%d in %s", len(backups), s.BackupDir())))
		return nil
	},
}

var storageBackupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List snapshots of the tag store, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := store.New(storePath, storeOptions())
		backups, err := s.Backups()
		if err != nil {
			return fmt.Errorf("failed to list backups: %w", err)
		}
		if len(backups) == 0 {
			fmt.Println("No backups yet.")
			return nil
		}

		for _, b := range backups {
			fmt.Printf("  %s  %s\n", b.Name,
				ui.Hint(fmt.Sprintf("%s, %d bytes", b.CreatedAt.Local().Format("2006-01-02 15:04:05"), b.Size)))
		}
		return nil
	},
}

var storageBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the tag store now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := store.New(storePath, storeOptions())
		b, err := s.Snapshot()
		if err != nil {
			return fmt.Errorf("failed to back up tag store: %w", err)
		}
		if b == nil {
			fmt.Println("Nothing to back up yet.")
			return nil
		}
		fmt.Println(ui.Success(fmt.Sprintf("Backed up to %s", b.Name)))
		return nil
	},
}

var storageRestoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Replace the tag store with a snapshot",
	Long: `Replace the backing file with the named snapshot. Works even when
the current file is corrupt. Run 'tm storage backup' first if you want the
current state recoverable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		name := args[0]

		s := store.New(storePath, storeOptions())
		if !force {
			fmt.Printf("Replace %s with snapshot %s? [y/N] ", storePath, name)
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := s.Restore(name); err != nil {
			if errors.Is(err, store.ErrBackupNotFound) {
				return fmt.Errorf("no backup named %q; run 'tm storage backups' to list them", name)
			}
			return fmt.Errorf("failed to restore backup: %w", err)
		}
		fmt.Println(ui.Success(fmt.Sprintf("Restored %s (%d record(s))", name, s.Len())))
		return nil
	},
}

func init() {
	storageRestoreCmd.Flags().BoolP("force", "f", false, "skip confirmation")

	storageCmd.AddCommand(storageBackupsCmd)
	storageCmd.AddCommand(storageBackupCmd)
	storageCmd.AddCommand(storageRestoreCmd)
	rootCmd.AddCommand(storageCmd)
}
