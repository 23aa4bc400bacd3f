// ABOUTME: Tags command for listing and inspecting tags.
// ABOUTME: Shows usage counts, regexp filtering, and paths behind a tag.

package main

import (
	"fmt"

	"github.com/harper/tagman/internal/models"
	"github.com/harper/tagman/internal/query"
	"github.com/harper/tagman/internal/ui"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags [pattern]",
	Short: "List tags with usage counts",
	Long: `List every distinct tag with how many paths carry it. An optional
regular expression narrows the list. With --files, show the paths carrying
one exact tag instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filesTag, _ := cmd.Flags().GetString("files")

		s, err := openStore()
		if err != nil {
			return err
		}
		engine := query.New(s, query.Options{})

		if filesTag != "" {
			tag, err := models.NewTag(filesTag)
			if err != nil {
				return fmt.Errorf("invalid tag %q: %w", filesTag, err)
			}
			records := engine.FilesByTag(tag)
			if len(records) == 0 {
				fmt.Printf("No paths carry %q\n", filesTag)
				return nil
			}
			for _, rec := range records {
				fmt.Print(ui.FormatRecordItem(string(rec.Path), rec.Tags.Strings()))
			}
			return nil
		}

		var counts []query.TagCount
		if len(args) == 1 {
			counts, err = engine.SearchTags(args[0])
			if err != nil {
				return fmt.Errorf("failed to search tags: %w", err)
			}
		} else {
			counts = engine.Tags()
		}

		if len(counts) == 0 {
			fmt.Println("No tags found.")
			return nil
		}

		list := make([]ui.TagCount, len(counts))
		for i, tc := range counts {
			list[i] = ui.TagCount{Name: tc.Tag.String(), Count: tc.Count}
		}
		fmt.Print(ui.FormatTagList(list))
		return nil
	},
}

func init() {
	tagsCmd.Flags().String("files", "", "list the paths carrying this tag")
	rootCmd.AddCommand(tagsCmd)
}
