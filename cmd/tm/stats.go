// ABOUTME: Stats command summarizing the tag store.
// ABOUTME: Totals, frequency rankings, and the tags-per-path distribution.

package main

import (
	"fmt"
	"sort"

	"github.com/harper/tagman/internal/stats"
	"github.com/harper/tagman/internal/ui"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show tag usage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")

		s, err := openStore()
		if err != nil {
			return err
		}
		if s.Len() == 0 {
			fmt.Println("No tagged paths yet. Use 'tm add <path> <tag>' to start.")
			return nil
		}

		sum := stats.Summarize(s, top)

		fmt.Println(ui.Label("Tagged paths", fmt.Sprintf("%d", sum.TotalPaths)))
		fmt.Println(ui.Label("Tag assignments", fmt.Sprintf("%d", sum.TotalTags)))
		fmt.Println(ui.Label("Unique tags", fmt.Sprintf("%d", sum.UniqueTags)))
		fmt.Println(ui.Label("Average tags per path", fmt.Sprintf("%.1f", sum.AvgTagsPerPath)))

		fmt.Println()
		fmt.Print(ui.FormatGroupHeader("Most common"))
		fmt.Print(ui.FormatTagList(toTagCounts(sum.MostCommon)))

		fmt.Println()
		fmt.Print(ui.FormatGroupHeader("Least common"))
		fmt.Print(ui.FormatTagList(toTagCounts(sum.LeastCommon)))

		fmt.Println()
		fmt.Print(ui.FormatGroupHeader("Distribution"))
		for _, n := range sortedCounts(sum.Distribution) {
			fmt.Printf("  %d tag(s): %d path(s)\n", n, sum.Distribution[n])
		}
		return nil
	},
}

func toTagCounts(freqs []stats.TagFrequency) []ui.TagCount {
	out := make([]ui.TagCount, len(freqs))
	for i, f := range freqs {
		out[i] = ui.TagCount{Name: string(f.Tag), Count: f.Count}
	}
	return out
}

func sortedCounts(dist map[int]int) []int {
	out := make([]int, 0, len(dist))
	for n := range dist {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func init() {
	statsCmd.Flags().Int("top", stats.DefaultTop, "entries per frequency ranking")
	rootCmd.AddCommand(statsCmd)
}
