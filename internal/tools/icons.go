package tools

import (
	"context"

	"github.com/klytics/slidekit/internal/editor"
)

func registerIconTools(r *Registry, ed *editor.Editor) {
	r.Add(&Tool{
		Name:        "list_icons",
		Description: "List the available Phosphor icons organized by category.",
		Run: func(context.Context, Args) (string, error) {
			return ed.ListIcons(), nil
		},
	})

	r.Add(&Tool{
		Name: "insert_icon",
		Description: "Insert a Phosphor icon into a slide as a recolorable vector graphic with a PNG fallback. " +
			"When replacing a shape the icon takes its position and the smaller of its width and height.",
		Params: params(
			[]Param{
				slideParam("Target slide number (1-based)"),
				{Name: "icon_name", Type: String, Required: true, Description: "Name of the icon, e.g. check-circle, user or star. Use list_icons to see them all."},
				{Name: "left", Type: Number, Description: "Left position in inches (default 1.0, or inherited from replaced shape)"},
				{Name: "top", Type: Number, Description: "Top position in inches (default 1.0, or inherited from replaced shape)"},
				{Name: "size", Type: Number, Description: "Icon size in inches, icons are square (default 1.0, or inherited from replaced shape)"},
				{Name: "color", Type: String, Description: "Icon color as hex code (default #333333). It stays recolorable via Graphics Fill."},
			},
			replaceParams("icon"),
		),
		Run: func(_ context.Context, a Args) (string, error) {
			n, err := a.Int("slide_number")
			if err != nil {
				return "", err
			}
			req := editor.IconRequest{Color: a.OptString("color", "")}
			if req.Name, err = a.String("icon_name"); err != nil {
				return "", err
			}
			if req.Left, err = a.FloatPtr("left"); err != nil {
				return "", err
			}
			if req.Top, err = a.FloatPtr("top"); err != nil {
				return "", err
			}
			if req.Size, err = a.FloatPtr("size"); err != nil {
				return "", err
			}
			if req.Replace, err = ref(a, "replace_shape_id", "replace_shape_name"); err != nil {
				return "", err
			}
			return text(ed.InsertIcon(n, req))
		},
	})
}
