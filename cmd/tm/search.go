// ABOUTME: Search command over tagged paths.
// ABOUTME: Exact tag match by default; fuzzy matching and path search opt in.

package main

import (
	"fmt"

	"github.com/harper/tagman/internal/query"
	"github.com/harper/tagman/internal/ui"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [tag]...",
	Short: "Search tagged paths",
	Long: `Find paths carrying every named tag. With --fuzzy, tags match
approximately so typos and variants still hit. With --path, search path
names by substring instead of tags.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fuzzy, _ := cmd.Flags().GetBool("fuzzy")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		pathQuery, _ := cmd.Flags().GetString("path")

		if pathQuery == "" && len(args) == 0 {
			return fmt.Errorf("name at least one tag, or use --path")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		engine := query.New(s, query.Options{DefaultFuzzyThreshold: cfg.Search.FuzzyThreshold})

		if pathQuery != "" {
			records := engine.SearchPath(pathQuery)
			if len(records) == 0 {
				fmt.Printf("No paths contain %q\n", pathQuery)
				return nil
			}
			for _, rec := range records {
				fmt.Print(ui.FormatRecordItem(string(rec.Path), rec.Tags.Strings()))
			}
			return nil
		}

		tags, err := parseTags(args)
		if err != nil {
			return err
		}

		if fuzzy {
			if !cmd.Flags().Changed("threshold") {
				threshold = engine.DefaultThreshold()
			}
			matches, err := engine.SearchFuzzy(tags, threshold)
			if err != nil {
				return fmt.Errorf("fuzzy search failed: %w", err)
			}
			if len(matches) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for _, m := range matches {
				fmt.Print(ui.FormatScoredItem(string(m.Record.Path), m.Record.Tags.Strings(), m.Score))
			}
			return nil
		}

		records := engine.SearchExact(tags)
		if len(records) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, rec := range records {
			fmt.Print(ui.FormatRecordItem(string(rec.Path), rec.Tags.Strings()))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().Bool("fuzzy", false, "match tags approximately")
	searchCmd.Flags().Float64("threshold", 0.7, "similarity cutoff for --fuzzy, between 0 and 1")
	searchCmd.Flags().StringP("path", "p", "", "search path names by substring")
	rootCmd.AddCommand(searchCmd)
}
