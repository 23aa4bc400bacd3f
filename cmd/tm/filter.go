// ABOUTME: Filter command surfacing structural problems in the tag store.
// ABOUTME: Subcommands for duplicates, orphans, similarity, clusters, isolation.

package main

import (
	"fmt"
	"strings"

	"github.com/harper/tagman/internal/filter"
	"github.com/harper/tagman/internal/ui"
	"github.com/spf13/cobra"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Analyze the tag store for duplicates, orphans, and similarity",
}

var filterDupsCmd = &cobra.Command{
	Use:   "dups",
	Short: "Find paths with identical tag sets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		groups := filter.New(s).Duplicates()
		if len(groups) == 0 {
			fmt.Println("No duplicate tag sets found.")
			return nil
		}

		for i, g := range groups {
			if i > 0 {
				fmt.Print(ui.Separator())
			}
			fmt.Print(ui.FormatGroupHeader(fmt.Sprintf("%d paths share: %s",
				len(g.Paths), strings.Join(tagStrings(g.Tags), ", "))))
			fmt.Print(ui.FormatPathList(pathStrings(g.Paths)))
		}
		return nil
	},
}

var filterOrphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Find records whose paths no longer exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		orphans := filter.New(s).Orphans()
		if len(orphans) == 0 {
			fmt.Println("No orphaned records found.")
			return nil
		}

		for _, rec := range orphans {
			fmt.Print(ui.FormatRecordItem(string(rec.Path), rec.Tags.Strings()))
		}
		fmt.Println(ui.Hint(fmt.Sprintf("%d orphaned record(s). Run 'tm rm --orphans' to clean up.", len(orphans))))
		return nil
	},
}

var filterSimilarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Find paths with overlapping tag sets",
	Long: `Group paths whose tags overlap at or above the threshold. With --to,
rank every other path by similarity to one target instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		target, _ := cmd.Flags().GetString("to")

		s, err := openStore()
		if err != nil {
			return err
		}
		engine := filter.New(s)

		if target != "" {
			path, err := resolvePath(target)
			if err != nil {
				return err
			}
			report, err := engine.SimilarTo(path, threshold)
			if err != nil {
				return fmt.Errorf("similarity scan failed: %w", err)
			}
			if len(report.Matches) == 0 {
				fmt.Printf("Nothing similar to %s at threshold %.2f\n", report.Target, threshold)
				return nil
			}

			fmt.Print(ui.FormatGroupHeader(fmt.Sprintf("Similar to %s [%s]",
				report.Target, strings.Join(tagStrings(report.TargetTags), ", "))))
			for _, m := range report.Matches {
				fmt.Print(ui.FormatScoredItem(string(m.Path), tagStrings(m.Common), m.Score))
				if len(m.Unique) > 0 {
					fmt.Printf("    %s\n", ui.Hint("also: "+strings.Join(tagStrings(m.Unique), ", ")))
				}
			}
			return nil
		}

		groups, err := engine.Similar(threshold)
		if err != nil {
			return fmt.Errorf("similarity scan failed: %w", err)
		}
		if len(groups) == 0 {
			fmt.Printf("No similar tag sets at threshold %.2f\n", threshold)
			return nil
		}

		for i, g := range groups {
			if i > 0 {
				fmt.Print(ui.Separator())
			}
			fmt.Print(ui.FormatGroupHeader(fmt.Sprintf("%d similar paths, sharing: %s",
				len(g.Paths), strings.Join(tagStrings(g.Common), ", "))))
			fmt.Print(ui.FormatPathList(pathStrings(g.Paths)))
		}
		return nil
	},
}

var filterClustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Group paths by shared tag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		minSize, _ := cmd.Flags().GetInt("min")

		s, err := openStore()
		if err != nil {
			return err
		}

		clusters := filter.New(s).Clusters(minSize)
		if len(clusters) == 0 {
			fmt.Printf("No tags span %d or more paths.\n", minSize)
			return nil
		}

		for i, c := range clusters {
			if i > 0 {
				fmt.Print(ui.Separator())
			}
			fmt.Print(ui.FormatGroupHeader(fmt.Sprintf("%s: %d paths (%.1f%%)",
				c.Tag, len(c.Paths), c.Percent)))
			fmt.Print(ui.FormatPathList(pathStrings(c.Paths)))
		}
		return nil
	},
}

var filterIsolatedCmd = &cobra.Command{
	Use:   "isolated",
	Short: "Find paths that barely share tags with the rest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		maxShared, _ := cmd.Flags().GetInt("max-shared")

		s, err := openStore()
		if err != nil {
			return err
		}

		isolated := filter.New(s).Isolated(maxShared)
		if len(isolated) == 0 {
			fmt.Printf("No isolated paths at max-shared %d.\n", maxShared)
			return nil
		}

		for _, f := range isolated {
			fmt.Print(ui.FormatRecordItem(string(f.Path), tagStrings(f.Tags)))
			fmt.Printf("    %s\n", ui.Hint(fmt.Sprintf("shares at most %d tag(s)", f.MaxShared)))
		}
		return nil
	},
}

func init() {
	filterSimilarCmd.Flags().Float64("threshold", 0.3, "similarity cutoff, between 0 and 1")
	filterSimilarCmd.Flags().String("to", "", "rank paths by similarity to this one")
	filterClustersCmd.Flags().Int("min", 2, "minimum paths per cluster")
	filterIsolatedCmd.Flags().Int("max-shared", 1, "highest tag overlap still counted as isolated")

	filterCmd.AddCommand(filterDupsCmd)
	filterCmd.AddCommand(filterOrphansCmd)
	filterCmd.AddCommand(filterSimilarCmd)
	filterCmd.AddCommand(filterClustersCmd)
	filterCmd.AddCommand(filterIsolatedCmd)
	rootCmd.AddCommand(filterCmd)
}
