// ABOUTME: Terminal UI formatting for tagman output.
// ABOUTME: Uses fatih/color for styling records, tags, and status lines.

package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

type TagCount struct {
	Name  string
	Count int
}

// FormatRecordItem renders one tagged path with its tags underneath.
func FormatRecordItem(path string, tags []string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  %s\n", bold(path)))
	if len(tags) > 0 {
		sb.WriteString(fmt.Sprintf("    %s %s\n",
			faint("Tags:"),
			cyan(strings.Join(tags, ", "))))
	}

	return sb.String()
}

// FormatScoredItem renders one tagged path with a similarity score.
func FormatScoredItem(path string, tags []string, score float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  %s %s\n", bold(path), faint(fmt.Sprintf("(%.2f)", score))))
	if len(tags) > 0 {
		sb.WriteString(fmt.Sprintf("    %s %s\n",
			faint("Tags:"),
			cyan(strings.Join(tags, ", "))))
	}

	return sb.String()
}

func FormatTagList(tags []TagCount) string {
	var sb strings.Builder

	for _, t := range tags {
		sb.WriteString(fmt.Sprintf("  %s %s\n",
			cyan(t.Name),
			faint(fmt.Sprintf("(%d)", t.Count))))
	}

	return sb.String()
}

// FormatGroupHeader renders a bold section title for grouped results.
func FormatGroupHeader(title string) string {
	return fmt.Sprintf("%s\n", bold(title))
}

// FormatPathList renders paths indented under a group header.
func FormatPathList(paths []string) string {
	var sb strings.Builder

	for _, p := range paths {
		sb.WriteString(fmt.Sprintf("    %s\n", p))
	}

	return sb.String()
}

// Label renders a faint key with its value for info lines.
func Label(name, value string) string {
	return fmt.Sprintf("%s %s", faint(name+":"), value)
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

// Hint renders secondary guidance, like dry-run notices.
func Hint(msg string) string {
	return faint(msg)
}
