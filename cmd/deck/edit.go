package deck

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/app"
	"github.com/klytics/slidekit/internal/editor"
	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/pptx"
)

func newReplaceCommand() *cobra.Command {
	var (
		find, repl string
		slide      int
		matchCase  bool
		out        string
	)

	cmd := &cobra.Command{
		Use:   "replace <file.pptx>",
		Short: "Find and replace text across a deck, keeping run formatting",
		Long: `Replaces text run by run in text frames and table cells. Matches that
span runs are not merged, so formatting is never moved between runs.

Examples:
  slidekit replace deck.pptx --find "Q3" --replace "Q4"
  slidekit replace deck.pptx --find acme --replace Contoso --slide 2 -o out.pptx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if find == "" {
				return errinfo.InvalidArgument("replace", "--find is required")
			}
			a, err := openDeck(cmd, "replace", args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Editor.FindAndReplace(slide, find, repl, matchCase)
			if err != nil {
				return err
			}
			if report.Matches > 0 {
				if _, err := saveDeck(a, out); err != nil {
					return err
				}
			}
			return emit(cmd, "replace", report, report.String())
		},
	}

	cmd.Flags().StringVar(&find, "find", "", "Text to find")
	cmd.Flags().StringVar(&repl, "replace", "", "Replacement text")
	cmd.Flags().IntVarP(&slide, "slide", "s", 0, "Limit to one slide (0 searches all)")
	cmd.Flags().BoolVar(&matchCase, "match-case", false, "Case-sensitive matching")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to this file instead of in place")
	return cmd
}

func newRewriteCommand() *cobra.Command {
	var (
		slide     int
		shapeID   int
		shapeName string
		text      string
		bullet    string
		out       string
	)

	cmd := &cobra.Command{
		Use:   "rewrite <file.pptx>",
		Short: "Replace a shape's text while keeping its paragraph formatting",
		Long: `Rewrites the text of one shape, one paragraph per line. Paragraph and run
formatting of the existing text is carried onto the new paragraphs.

Bullet types: ` + strings.Join(pptx.BulletNames(), ", ") + `

Examples:
  slidekit rewrite deck.pptx --slide 1 --shape-name "Title 1" --text "New title"
  slidekit rewrite deck.pptx --slide 2 --shape-id 3 --text "One\nTwo" --bullet number`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := editor.ShapeRef{ID: shapeID, Name: shapeName}
			if ref.IsZero() {
				return errinfo.InvalidArgument("rewrite", "either --shape-id or --shape-name is required")
			}
			a, err := openDeck(cmd, "rewrite", args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Editor.RewriteText(slide, ref, text, bullet); err != nil {
				return err
			}
			path, err := saveDeck(a, out)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Rewrote %s on slide %d %s", ref, slide, color.New(color.FgHiBlack).Sprintf("(%s)", path))
			return emit(cmd, "rewrite", map[string]interface{}{"slide": slide, "shape": ref.String(), "path": path}, msg)
		},
	}

	cmd.Flags().IntVarP(&slide, "slide", "s", 1, "Slide number (1-based)")
	cmd.Flags().IntVar(&shapeID, "shape-id", 0, "Shape ID (wins over --shape-name)")
	cmd.Flags().StringVar(&shapeName, "shape-name", "", "Shape name")
	cmd.Flags().StringVar(&text, "text", "", "New text; newlines or \\n separate paragraphs")
	cmd.Flags().StringVar(&bullet, "bullet", "", "Bullet type applied to every paragraph")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to this file instead of in place")
	return cmd
}

func newRepairCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repair <file.pptx> [file.pptx...]",
		Short: "Declare the SVG content type in saved decks",
		Long: `Adds the image/svg+xml default to [Content_Types].xml when a deck carries
SVG parts without it. Decks that already declare it are left untouched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range args {
				if err := checkExt("repair", p); err != nil {
					return err
				}
			}
			a, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var results []*editor.Repaired
			for _, p := range args {
				r, err := a.Editor.RepairContentTypes(p)
				if err != nil {
					return err
				}
				results = append(results, r)
			}
			if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
				return emit(cmd, "repair", results, "")
			}
			green := color.New(color.FgGreen).SprintFunc()
			for _, r := range results {
				mark := " "
				if r.Changed {
					mark = green("✓")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, r)
			}
			return nil
		},
	}
}
