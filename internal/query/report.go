package query

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/chenkai036/aoc/internal/model"
)

func formatSize(n uint64) string {
	return fmt.Sprintf("%d (%s)", n, humanize.Bytes(n))
}

// GenerateReport renders result as plain text. The verbose report also
// lists the whole tree.
func GenerateReport(result model.Result, verbose bool) string {
	var b strings.Builder

	b.WriteString("Filesystem\n")
	fmt.Fprintf(&b, "  directories: %d\n", result.Directories)
	fmt.Fprintf(&b, "  files:       %d\n", result.Files)
	fmt.Fprintf(&b, "  used:        %s\n", formatSize(result.Used))
	fmt.Fprintf(&b, "  free:        %s of %s\n", formatSize(result.Free), humanize.Bytes(TotalSpace))
	if result.Needed > 0 {
		fmt.Fprintf(&b, "  to free:     %s\n", formatSize(result.Needed))
	}

	b.WriteString("\nAnswers\n")
	fmt.Fprintf(&b, "  part1 = %d  (directories of at most %s)\n", result.Answers.Part1, humanize.Comma(int64(SmallDirLimit)))
	if result.DeletePath != "" {
		fmt.Fprintf(&b, "  part2 = %d  (delete %s)\n", result.Answers.Part2, result.DeletePath)
	} else {
		fmt.Fprintf(&b, "  part2 = %d  (nothing to delete)\n", result.Answers.Part2)
	}

	if len(result.Conflicts) > 0 {
		b.WriteString("\nSize conflicts (first listing kept)\n")
		for _, c := range result.Conflicts {
			fmt.Fprintf(&b, "  %s %s: kept %d, ignored %d\n", model.IconConflict, c.Path, c.Kept, c.Ignored)
		}
	}

	if verbose && result.Root != nil {
		b.WriteString("\nTree\n")
		writeTree(&b, result.Root, result.DeletePath, 1)
	}
	return b.String()
}

// writeTree lists node and its children, one per line:
//
//	- / (dir, size=48381165)
//	  - a (dir, size=94853) •
//	    - f (file, size=29116)
func writeTree(b *strings.Builder, node *model.TreeNode, deletePath string, depth int) {
	indent := strings.Repeat("  ", depth)
	if node.IsDir {
		fmt.Fprintf(b, "%s- %s (dir, size=%d)", indent, node.Name, node.Size)
		if node.Small {
			b.WriteString(" " + model.IconSmall)
		}
		if node.Path == deletePath {
			b.WriteString(" " + model.IconDelete)
		}
		b.WriteString("\n")
	} else {
		fmt.Fprintf(b, "%s- %s (file, size=%d)\n", indent, node.Name, node.Size)
	}
	for _, child := range node.Children {
		writeTree(b, child, deletePath, depth+1)
	}
}
