package deck

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/session"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.pptx>",
		Short: "Show slide count, size, layouts and a slide overview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openDeck(cmd, "info", args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			info, err := a.Editor.Session.Info()
			if err != nil {
				return err
			}
			if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
				return emit(cmd, "info", info, "")
			}
			printInfo(cmd, info)
			return nil
		},
	}
}

func printInfo(cmd *cobra.Command, info *session.Info) {
	out := cmd.OutOrStdout()
	heading := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)

	heading.Fprintln(out, info.Path)
	fmt.Fprintf(out, "  Slides:     %d\n", info.Slides)
	fmt.Fprintf(out, "  Size:       %.2f\" x %.2f\"\n", info.WidthIn, info.HeightIn)
	if len(info.Layouts) > 0 {
		fmt.Fprintln(out, "  Layouts:")
		for i, l := range info.Layouts {
			dim.Fprintf(out, "    %d: %s\n", i, l)
		}
	}
	if len(info.Overview) > 0 {
		fmt.Fprintln(out)
		for _, s := range info.Overview {
			title := s.Title
			if title == "" {
				title = dim.Sprint("(no title)")
			}
			fmt.Fprintf(out, "  %3d  %-50s %s\n", s.Number, title, dim.Sprintf("%d shapes", s.Shapes))
		}
	}
}
