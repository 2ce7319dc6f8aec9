package tools

import (
	"context"

	"github.com/klytics/slidekit/internal/editor"
)

func registerPresentationTools(r *Registry, ed *editor.Editor) {
	r.Add(&Tool{
		Name:        "manage_presentation",
		Description: "Manage PowerPoint presentations: open, create, save, save_as, or close.",
		Params: []Param{
			{Name: "action", Type: String, Required: true, Enum: editor.PresentationActions,
				Description: "Action to perform: open, create, save, save_as or close"},
			{Name: "file_path", Type: String, Description: "Path for open/create operations (required for open)"},
			{Name: "save_path", Type: String, Description: "New path for save_as operation (required for save_as)"},
		},
		Run: func(_ context.Context, a Args) (string, error) {
			action, err := a.String("action")
			if err != nil {
				return "", err
			}
			return ed.ManagePresentation(action, a.OptString("file_path", ""), a.OptString("save_path", ""))
		},
	})

	r.Add(&Tool{
		Name:        "get_presentation_info",
		Description: "Get information about the currently open presentation: file path, slide count, dimensions and modification status.",
		Run: func(context.Context, Args) (string, error) {
			return ed.Info()
		},
	})

	r.Add(&Tool{
		Name:        "manage_slide",
		Description: "Manage slides: add, delete, duplicate, or move slides.",
		Params: []Param{
			{Name: "action", Type: String, Required: true, Enum: editor.SlideActions,
				Description: "Action to perform: add, delete, duplicate or move"},
			{Name: "slide_number", Type: Integer, Description: "The slide number to operate on (1-based). Required for delete, duplicate, move."},
			{Name: "target_position", Type: Integer, Description: "For move: where to move the slide. For add and duplicate: position to insert (defaults to end)."},
			{Name: "layout_index", Type: Integer, Description: "For add: the slide layout index to use (default 6 = blank slide)"},
		},
		Run: func(_ context.Context, a Args) (string, error) {
			var req editor.SlideRequest
			var err error
			if req.Action, err = a.String("action"); err != nil {
				return "", err
			}
			if req.SlideNumber, err = a.OptInt("slide_number", 0); err != nil {
				return "", err
			}
			if req.TargetPosition, err = a.OptInt("target_position", 0); err != nil {
				return "", err
			}
			if req.LayoutIndex, err = a.OptInt("layout_index", 6); err != nil {
				return "", err
			}
			return ed.ManageSlide(req)
		},
	})

	r.Add(&Tool{
		Name:        "get_slide_snapshot",
		Description: "Get detailed information about a slide including all shapes, their types, positions and content.",
		Params:      []Param{slideParam("The slide number to inspect (1-based)")},
		Run: func(_ context.Context, a Args) (string, error) {
			n, err := a.Int("slide_number")
			if err != nil {
				return "", err
			}
			snap, err := ed.Snapshot(n)
			if err != nil {
				return "", err
			}
			return snap.String(), nil
		},
	})
}
