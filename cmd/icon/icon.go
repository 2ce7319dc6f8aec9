// Package icon provides the "slidekit icon" commands.
package icon

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/app"
	"github.com/klytics/slidekit/internal/icons"
	"github.com/klytics/slidekit/internal/output"
	"github.com/klytics/slidekit/internal/tools"
)

// NewCommand returns the icon command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icon",
		Short: "Insert recolorable vector icons",
		Long: `Icons come from a Phosphor fill-variant directory (icons.dir in the config).
Each inserted icon carries the SVG plus a PNG fallback, and its colour stays
editable in PowerPoint via Graphics Format > Graphics Fill.`,
	}

	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newInsertCommand())
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the curated icon catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
				return output.PrintJSON("icon list", icons.Catalog())
			}
			fmt.Fprintln(cmd.OutOrStdout(), icons.CatalogText())
			return nil
		},
	}
}

func newInsertCommand() *cobra.Command {
	var (
		slide                int
		name, color          string
		left, top, size      float64
		replaceID            int
		replaceName, outPath string
	)

	cmd := &cobra.Command{
		Use:   "insert <file.pptx>",
		Short: "Insert an icon on a slide",
		Long: `Inserts a vector icon, optionally taking the place and box of an existing
shape.

Examples:
  slidekit icon insert deck.pptx --slide 2 --name check-circle --color "#0066CC"
  slidekit icon insert deck.pptx --slide 2 --name star --replace-name "Icon Placeholder"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.Registry.Run(cmd.Context(), tools.SurfaceCLI, "manage_presentation", tools.Args{"action": "open", "file_path": args[0]}); err != nil {
				return err
			}

			targs := tools.Args{"slide_number": slide, "icon_name": name}
			flags := cmd.Flags()
			if flags.Changed("left") {
				targs["left"] = left
			}
			if flags.Changed("top") {
				targs["top"] = top
			}
			if flags.Changed("size") {
				targs["size"] = size
			}
			if color != "" {
				targs["color"] = color
			}
			if replaceID > 0 {
				targs["replace_shape_id"] = replaceID
			}
			if replaceName != "" {
				targs["replace_shape_name"] = replaceName
			}
			msg, err := a.Registry.Run(cmd.Context(), tools.SurfaceCLI, "insert_icon", targs)
			if err != nil {
				return err
			}

			save := tools.Args{"action": "save"}
			if outPath != "" {
				save = tools.Args{"action": "save_as", "save_path": outPath}
			}
			if _, err := a.Registry.Run(cmd.Context(), tools.SurfaceCLI, "manage_presentation", save); err != nil {
				return err
			}

			if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
				return output.PrintJSON("icon insert", map[string]interface{}{"slide": slide, "icon": name, "path": a.Editor.Session.Path(), "message": msg})
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().IntVarP(&slide, "slide", "s", 1, "Slide number (1-based)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Icon name, e.g. check-circle")
	cmd.Flags().Float64Var(&left, "left", 1, "Left position in inches")
	cmd.Flags().Float64Var(&top, "top", 1, "Top position in inches")
	cmd.Flags().Float64Var(&size, "size", 1, "Icon size in inches")
	cmd.Flags().StringVar(&color, "color", "", "Icon colour as hex (default from icons.default_color)")
	cmd.Flags().IntVar(&replaceID, "replace-id", 0, "Replace the shape with this ID")
	cmd.Flags().StringVar(&replaceName, "replace-name", "", "Replace the shape with this name")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to this file instead of in place")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
