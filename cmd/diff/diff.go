// Package diff provides the slidekit diff command for comparing decks.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/pptx"
	"github.com/klytics/slidekit/internal/output"
)

// NewCommand returns the diff command.
func NewCommand() *cobra.Command {
	var (
		contextLines int
		stats        bool
	)

	cmd := &cobra.Command{
		Use:   "diff <original.pptx> <revised.pptx>",
		Short: "Compare the text of two decks",
		Long: `Shows a colored unified diff of slide text between two .pptx files.
Each slide opens with a "## Slide N" marker so changes read in slide order.

Examples:
  slidekit diff original.pptx revised.pptx
  slidekit diff original.pptx revised.pptx --stats`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			originalPath := args[0]
			revisedPath := args[1]

			for _, p := range []string{originalPath, revisedPath} {
				if !strings.HasSuffix(strings.ToLower(p), ".pptx") {
					return errinfo.InvalidArgument("diff", "expected a .pptx file, got %q", p)
				}
			}

			result, err := pptx.DiffFiles(originalPath, revisedPath, contextLines)
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.PrintJSON("diff", result)
			}

			if stats {
				fmt.Fprintln(cmd.OutOrStdout(), result.Stats())
				return nil
			}

			printColoredDiff(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&contextLines, "context", "C", 3, "Number of context lines around each change")
	cmd.Flags().BoolVar(&stats, "stats", false, "Show only insertion/deletion counts")

	return cmd
}

func printColoredDiff(out io.Writer, result *pptx.DiffResult) {
	dim := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	origCount := result.Unchanged + result.Deletions
	revCount := result.Unchanged + result.Insertions

	red.Fprintf(out, "--- %s  (%d lines)\n", result.Original, origCount)
	green.Fprintf(out, "+++ %s  (%d lines)\n", result.Revised, revCount)

	for _, hunk := range result.Hunks {
		fmt.Fprintln(out)
		cyan.Fprintln(out, hunk.Header)
		for _, line := range hunk.Lines {
			switch line.Type {
			case "context":
				dim.Fprintf(out, "  %s\n", line.Content)
			case "delete":
				red.Fprintf(out, "- %s\n", line.Content)
			case "insert":
				green.Fprintf(out, "+ %s\n", line.Content)
			}
		}
	}

	fmt.Fprintf(out, "\n%s\n", result.Stats())
}
