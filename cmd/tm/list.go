// ABOUTME: List command showing every tagged path.
// ABOUTME: Prints records in document order with their tags.

package main

import (
	"fmt"

	"github.com/harper/tagman/internal/query"
	"github.com/harper/tagman/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tagged paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		records := query.New(s, query.Options{}).ListAll()
		if len(records) == 0 {
			fmt.Println("No tagged paths yet. Use 'tm add <path> <tag>' to start.")
			return nil
		}

		for _, rec := range records {
			fmt.Print(ui.FormatRecordItem(string(rec.Path), rec.Tags.Strings()))
		}
		fmt.Printf("\n%d tagged path(s)\n", len(records))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
