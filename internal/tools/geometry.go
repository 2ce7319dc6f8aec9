package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/klytics/slidekit/internal/editor"
	"github.com/klytics/slidekit/internal/geometry"
)

// fitResult is the JSON answer of fit_image.
type fitResult struct {
	Mode   string        `json:"mode"`
	Left   float64       `json:"left"`
	Top    float64       `json:"top"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Crop   geometry.Crop `json:"crop"`
}

func registerGeometryTools(r *Registry, ed *editor.Editor) {
	r.Add(&Tool{
		Name: "fit_image",
		Description: "Compute where an image of a given pixel size lands in a target box and how it is cropped, " +
			"without touching the presentation. Returns JSON with the final box in inches and crop fractions.",
		Params: []Param{
			{Name: "natural_width", Type: Number, Required: true, Description: "Image width in pixels"},
			{Name: "natural_height", Type: Number, Required: true, Description: "Image height in pixels"},
			{Name: "target_left", Type: Number, Description: "Target left in inches (default 0)"},
			{Name: "target_top", Type: Number, Description: "Target top in inches (default 0)"},
			{Name: "target_width", Type: Number, Required: true, Description: "Target width in inches"},
			{Name: "target_height", Type: Number, Required: true, Description: "Target height in inches"},
			{Name: "mode", Type: String, Enum: []string{"fill", "fit", "stretch"}, Description: "Fit mode (default fill)"},
		},
		Run: func(_ context.Context, a Args) (string, error) {
			var natural geometry.Size
			var target geometry.Box
			var err error
			if natural.W, err = a.Float("natural_width"); err != nil {
				return "", err
			}
			if natural.H, err = a.Float("natural_height"); err != nil {
				return "", err
			}
			if target.X, err = a.OptFloat("target_left", 0); err != nil {
				return "", err
			}
			if target.Y, err = a.OptFloat("target_top", 0); err != nil {
				return "", err
			}
			if target.W, err = a.Float("target_width"); err != nil {
				return "", err
			}
			if target.H, err = a.Float("target_height"); err != nil {
				return "", err
			}
			mode := a.OptString("mode", "fill")
			p, err := ed.FitImage(natural, target, mode)
			if err != nil {
				return "", err
			}
			m, _ := geometry.ParseMode(mode)
			data, err := json.MarshalIndent(fitResult{
				Mode:   string(m),
				Left:   p.Box.X,
				Top:    p.Box.Y,
				Width:  p.Box.W,
				Height: p.Box.H,
				Crop:   p.Crop,
			}, "", "  ")
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
	})

	r.Add(&Tool{
		Name: "repair_content_types",
		Description: "Make sure a saved .pptx declares the SVG content type so PowerPoint opens vector icons. " +
			"Defaults to the open presentation's save path.",
		Params: []Param{
			{Name: "file_path", Type: String, Description: "Path of the .pptx to repair (default: current presentation)"},
		},
		Run: func(_ context.Context, a Args) (string, error) {
			return text(ed.RepairContentTypes(strings.TrimSpace(a.OptString("file_path", ""))))
		},
	})
}
