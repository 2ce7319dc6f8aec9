package deck

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/formats/pptx"
	"github.com/klytics/slidekit/internal/output"
)

func newReadCommand() *cobra.Command {
	var (
		format  string
		noPager bool
	)

	cmd := &cobra.Command{
		Use:   "read <file.pptx>",
		Short: "Extract slide content from a PowerPoint file",
		Long:  "Reads a .pptx file and outputs slide titles, text and notes as text, JSON, or Markdown.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			filePath := args[0]
			if err := checkExt("read", filePath); err != nil {
				return err
			}
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			if jsonFlag {
				f = output.FormatJSON
			}

			pres, err := pptx.ReadFile(filePath)
			if err != nil {
				return err
			}

			switch f {
			case output.FormatJSON:
				return output.PrintJSON("read", pres)
			case output.FormatMarkdown:
				text := renderMarkdown(pres)
				if !noPager && output.ShouldPage(text, 40) {
					return output.Page(text)
				}
				return output.NewWriter(cmd.OutOrStdout(), f).Text(text).Err()
			}
			if !noPager && output.ShouldPage(pres.PlainText(), 40) {
				return output.Page(pres.PlainText())
			}
			return outputPPTXPretty(cmd.OutOrStdout(), pres)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or markdown")
	cmd.Flags().BoolVar(&noPager, "no-pager", false, "Never pipe long output through $PAGER")
	return cmd
}

func outputPPTXPretty(out io.Writer, pres *pptx.Presentation) error {
	heading := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)

	for _, slide := range pres.Slides {
		heading.Fprintf(out, "Slide %d", slide.Number)
		if slide.Title != "" {
			heading.Fprintf(out, ": %s", slide.Title)
		}
		heading.Fprintln(out)

		for _, text := range slide.TextContent {
			if text == slide.Title {
				continue
			}
			fmt.Fprintf(out, "  %s\n", strings.ReplaceAll(text, "\n", "\n  "))
		}

		if len(slide.Notes) > 0 {
			dim.Fprintln(out, "  Notes:")
			for _, note := range slide.Notes {
				dim.Fprintf(out, "    %s\n", note)
			}
		}
		fmt.Fprintln(out)
	}

	dim.Fprintf(out, "--- %d slides ---\n", len(pres.Slides))
	return nil
}

func renderMarkdown(pres *pptx.Presentation) string {
	var b strings.Builder
	w := output.NewWriter(&b, output.FormatMarkdown)
	if pres.Title != "" {
		w.Heading(1, pres.Title)
	}
	for _, slide := range pres.Slides {
		title := slide.Title
		if title == "" {
			title = "Untitled"
		}
		w.Heading(2, fmt.Sprintf("Slide %d: %s", slide.Number, title))
		for _, text := range slide.TextContent {
			if text != slide.Title {
				w.Item(text)
			}
		}
		if len(slide.Notes) > 0 {
			w.Blank().Quote(slide.Notes)
		}
		w.Blank()
	}
	return b.String()
}
