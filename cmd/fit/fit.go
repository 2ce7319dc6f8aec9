// Package fit provides the "slidekit fit" geometry calculator.
package fit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/app"
	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/output"
	"github.com/klytics/slidekit/internal/tools"
)

// NewCommand creates the "fit" command.
func NewCommand() *cobra.Command {
	var (
		natural string
		target  string
		mode    string
	)

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Compute how an image fits a box (fill, fit or stretch)",
		Long: `Computes where an image of a given pixel size lands inside a target box.

  fill     cover the box, cropping the overflow evenly on both sides
  fit      fit inside the box, centred, keeping the aspect ratio
  stretch  take the box as is

Examples:
  slidekit fit --natural 1600x900 --target 1,1,4,3
  slidekit fit --natural 1600x900 --target 0,0,4,3 --mode fit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := parseSize(natural)
			if err != nil {
				return err
			}
			box, err := parseBox(target)
			if err != nil {
				return err
			}
			a, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.Registry.Run(cmd.Context(), tools.SurfaceCLI, "fit_image", tools.Args{
				"natural_width":  w,
				"natural_height": h,
				"target_left":    box[0],
				"target_top":     box[1],
				"target_width":   box[2],
				"target_height":  box[3],
				"mode":           mode,
			})
			if err != nil {
				return err
			}

			var res map[string]interface{}
			if err := json.Unmarshal([]byte(out), &res); err != nil {
				return err
			}
			if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
				return output.PrintJSON("fit", res)
			}
			printPlacement(cmd, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&natural, "natural", "", "Image size in pixels, WIDTHxHEIGHT")
	cmd.Flags().StringVar(&target, "target", "", "Target box in inches, LEFT,TOP,WIDTH,HEIGHT")
	cmd.Flags().StringVarP(&mode, "mode", "m", "fill", "Fit mode: fill, fit or stretch")
	_ = cmd.MarkFlagRequired("natural")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func printPlacement(cmd *cobra.Command, res map[string]interface{}) {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	bold.Fprintf(out, "%v\n", res["mode"])
	fmt.Fprintf(out, "  left %.4f  top %.4f  width %.4f  height %.4f (inches)\n",
		res["left"], res["top"], res["width"], res["height"])
	if crop, ok := res["crop"].(map[string]interface{}); ok {
		fmt.Fprintf(out, "  crop left %.4f  right %.4f  top %.4f  bottom %.4f\n",
			crop["left"], crop["right"], crop["top"], crop["bottom"])
	}
}

func parseSize(s string) (float64, float64, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, errinfo.InvalidArgument("fit", "natural size must be WIDTHxHEIGHT, got %q", s)
	}
	w, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	h, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, errinfo.InvalidArgument("fit", "natural size must be WIDTHxHEIGHT, got %q", s)
	}
	return w, h, nil
}

func parseBox(s string) ([4]float64, error) {
	var box [4]float64
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return box, errinfo.InvalidArgument("fit", "target must be LEFT,TOP,WIDTH,HEIGHT, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return box, errinfo.InvalidArgument("fit", "target must be LEFT,TOP,WIDTH,HEIGHT, got %q", s)
		}
		box[i] = v
	}
	return box, nil
}
