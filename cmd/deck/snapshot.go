package deck

import (
	"github.com/spf13/cobra"
)

func newSnapshotCommand() *cobra.Command {
	var slide int

	cmd := &cobra.Command{
		Use:   "snapshot <file.pptx>",
		Short: "List the shapes on a slide with IDs, positions and text",
		Long: `Prints what an agent sees through get_slide_snapshot: every shape on the
slide with its ID, name, kind, box in inches and text preview.

Example:
  slidekit snapshot deck.pptx --slide 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openDeck(cmd, "snapshot", args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			snap, err := a.Editor.Snapshot(slide)
			if err != nil {
				return err
			}
			return emit(cmd, "snapshot", snap, snap.String())
		},
	}

	cmd.Flags().IntVarP(&slide, "slide", "s", 1, "Slide number (1-based)")
	return cmd
}
