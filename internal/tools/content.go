package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/klytics/slidekit/internal/editor"
	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/pptx"
	"github.com/klytics/slidekit/internal/formats/xlsx"
)

const bulletsHelp = "Bullet/list type: bullet, dash, arrow, check, square, circle, diamond, star, " +
	"number, number_paren, roman, roman_upper, letter, letter_upper, or none"

func registerContentTools(r *Registry, ed *editor.Editor) {
	r.Add(&Tool{
		Name:        "add_textbox",
		Description: "Add a textbox to a slide. Use \\n in text to create multiple lines or bullet points.",
		Params: params(
			[]Param{
				slideParam("Target slide number (1-based)"),
				{Name: "text", Type: String, Required: true, Description: "The text content to add"},
			},
			boxParams("Box", [4]string{"default 1.0", "default 1.0", "default 8.0", "default 1.0"}),
			[]Param{
				{Name: "font_name", Type: String, Description: "Font family name, e.g. Arial or Calibri"},
				{Name: "font_size", Type: Number, Description: "Font size in points"},
				{Name: "font_bold", Type: Boolean, Description: "Make text bold (default false)"},
				{Name: "font_italic", Type: Boolean, Description: "Make text italic (default false)"},
				{Name: "font_color", Type: String, Description: "Hex color code, e.g. #FF0000"},
				{Name: "alignment", Type: String, Enum: []string{"left", "center", "right", "justify"},
					Description: "Text alignment (default left)"},
				{Name: "bullets", Type: String, Enum: pptx.BulletNames(), Description: bulletsHelp},
			},
		),
		Run: func(_ context.Context, a Args) (string, error) {
			n, err := a.Int("slide_number")
			if err != nil {
				return "", err
			}
			req := editor.TextboxRequest{
				FontName:  a.OptString("font_name", ""),
				FontColor: a.OptString("font_color", ""),
				Alignment: a.OptString("alignment", "left"),
				Bullet:    a.OptString("bullets", ""),
			}
			if req.Text, err = a.String("text"); err != nil {
				return "", err
			}
			if req.Left, req.Top, req.Width, req.Height, err = box(a, 1, 1, 8, 1); err != nil {
				return "", err
			}
			if req.FontSize, err = a.OptFloat("font_size", 0); err != nil {
				return "", err
			}
			if req.Bold, err = a.Bool("font_bold", false); err != nil {
				return "", err
			}
			if req.Italic, err = a.Bool("font_italic", false); err != nil {
				return "", err
			}
			return text(ed.AddTextbox(n, req))
		},
	})

	r.Add(&Tool{
		Name: "add_image",
		Description: "Add an image to a slide, optionally in place of another shape. " +
			"With both width and height, fit_mode chooses fill (crop), fit (letterbox) or stretch.",
		Params: params(
			[]Param{
				slideParam("Target slide number (1-based)"),
				{Name: "image_path", Type: String, Required: true, Description: "Path to the image file (PNG, JPG, GIF, BMP, TIFF, WebP)"},
			},
			boxParams("Image", [4]string{"default 1.0, or inherited from replaced shape", "default 1.0, or inherited from replaced shape",
				"keeps aspect ratio if only one dimension is given", "keeps aspect ratio if only one dimension is given"}),
			[]Param{
				{Name: "fit_mode", Type: String, Enum: []string{"fill", "fit", "stretch"},
					Description: "How to fit the image when width and height are both set (default fill when replacing, stretch otherwise)"},
			},
			replaceParams("image"),
		),
		Run: func(_ context.Context, a Args) (string, error) {
			n, err := a.Int("slide_number")
			if err != nil {
				return "", err
			}
			req := editor.ImageRequest{FitMode: a.OptString("fit_mode", "")}
			if req.Path, err = a.String("image_path"); err != nil {
				return "", err
			}
			if req.Left, req.Top, req.Width, req.Height, err = boxPtrs(a); err != nil {
				return "", err
			}
			if req.Replace, err = ref(a, "replace_shape_id", "replace_shape_name"); err != nil {
				return "", err
			}
			return text(ed.AddImage(n, req))
		},
	})

	r.Add(&Tool{
		Name:        "add_shape",
		Description: "Add a shape to a slide.",
		Params: params(
			[]Param{
				slideParam("Target slide number (1-based)"),
				{Name: "shape_type", Type: String, Required: true, Enum: pptx.ShapeTypes(), Description: "Shape type"},
			},
			boxParams("Shape", [4]string{"default 1.0", "default 1.0", "default 2.0", "default 2.0"}),
			[]Param{
				{Name: "fill_color", Type: String, Description: "Fill color as hex code, e.g. #0066CC"},
				{Name: "line_color", Type: String, Description: "Line/border color as hex code"},
				{Name: "line_width", Type: Number, Description: "Line width in points"},
				{Name: "text", Type: String, Description: "Optional text to add inside the shape"},
			},
		),
		Run: func(_ context.Context, a Args) (string, error) {
			n, err := a.Int("slide_number")
			if err != nil {
				return "", err
			}
			req := editor.AutoShapeRequest{
				FillColor: a.OptString("fill_color", ""),
				LineColor: a.OptString("line_color", ""),
				Text:      a.OptString("text", ""),
			}
			if req.Type, err = a.String("shape_type"); err != nil {
				return "", err
			}
			if req.Left, req.Top, req.Width, req.Height, err = box(a, 1, 1, 2, 2); err != nil {
				return "", err
			}
			if req.LineWidth, err = a.OptFloat("line_width", 0); err != nil {
				return "", err
			}
			return text(ed.AddShape(n, req))
		},
	})

	r.Add(&Tool{
		Name: "add_table",
		Description: "Add a table to a slide, optionally in place of another shape whose position and size it inherits. " +
			"Explicit left, top, width or height override the inherited values.",
		Params: params(
			[]Param{
				slideParam("Target slide number (1-based)"),
				{Name: "rows", Type: Integer, Required: true, Description: "Number of rows"},
				{Name: "cols", Type: Integer, Required: true, Description: "Number of columns"},
				{Name: "data", Type: String, Description: `JSON 2D array of cell text, e.g. [["A","B"],["1","2"]]. The first row is typically the header.`},
			},
			boxParams("Table", [4]string{"default 1.0, or inherited from replaced shape", "default 2.0, or inherited from replaced shape",
				"default 8.0, or inherited from replaced shape", "default 3.0, or inherited from replaced shape"}),
			replaceParams("table"),
		),
		Run: func(_ context.Context, a Args) (string, error) {
			n, err := a.Int("slide_number")
			if err != nil {
				return "", err
			}
			var req editor.TableRequest
			if req.Rows, err = a.Int("rows"); err != nil {
				return "", err
			}
			if req.Cols, err = a.Int("cols"); err != nil {
				return "", err
			}
			if a.Has("data") {
				if req.Data, err = cells(a); err != nil {
					return "", err
				}
			}
			if req.Left, req.Top, req.Width, req.Height, err = boxPtrs(a); err != nil {
				return "", err
			}
			if req.Replace, err = ref(a, "replace_shape_id", "replace_shape_name"); err != nil {
				return "", err
			}
			return text(ed.AddTable(n, req))
		},
	})

	r.Add(&Tool{
		Name:        "add_chart",
		Description: "Add a chart to a slide. Its data is stored in an embedded workbook that PowerPoint can edit.",
		Params: params(
			[]Param{
				slideParam("Target slide number (1-based)"),
				{Name: "chart_type", Type: String, Required: true, Enum: pptx.ChartTypes, Description: "Chart type"},
				{Name: "categories", Type: String, Required: true, Description: `JSON array of category labels, e.g. ["Q1", "Q2", "Q3", "Q4"]`},
				{Name: "series_data", Type: String, Required: true,
					Description: `JSON object of series name to values, e.g. {"Sales": [100, 120, 140, 160], "Profit": [20, 25, 30, 35]}. Pie charts take a single series.`},
				{Name: "title", Type: String, Description: "Optional chart title"},
			},
			boxParams("Chart", [4]string{"default 1.0", "default 2.0", "default 8.0", "default 4.5"}),
		),
		Run: func(_ context.Context, a Args) (string, error) {
			n, err := a.Int("slide_number")
			if err != nil {
				return "", err
			}
			req := editor.ChartRequest{Title: a.OptString("title", "")}
			if req.Type, err = a.String("chart_type"); err != nil {
				return "", err
			}
			if req.Categories, err = categories(a); err != nil {
				return "", err
			}
			if req.Series, err = series(a); err != nil {
				return "", err
			}
			if req.Left, req.Top, req.Width, req.Height, err = box(a, 1, 2, 8, 4.5); err != nil {
				return "", err
			}
			return text(ed.AddChart(n, req))
		},
	})

	r.Add(&Tool{
		Name:        "get_chart_data",
		Description: "Get the categories and series behind a chart as CSV, read from its embedded workbook.",
		Params: []Param{
			slideParam("Target slide number (1-based)"),
			{Name: "shape_id", Type: Integer, Description: "ID of the chart (default: first chart on the slide)"},
			{Name: "shape_name", Type: String, Description: "Name of the chart (alternative to shape_id)"},
		},
		Run: func(_ context.Context, a Args) (string, error) {
			n, err := a.Int("slide_number")
			if err != nil {
				return "", err
			}
			sh, err := ref(a, "shape_id", "shape_name")
			if err != nil {
				return "", err
			}
			return ed.GetChartData(n, sh)
		},
	})
}

// box reads left, top, width and height with defaults.
func box(a Args, left, top, width, height float64) (l, t, w, h float64, err error) {
	if l, err = a.OptFloat("left", left); err != nil {
		return
	}
	if t, err = a.OptFloat("top", top); err != nil {
		return
	}
	if w, err = a.OptFloat("width", width); err != nil {
		return
	}
	h, err = a.OptFloat("height", height)
	return
}

// boxPtrs reads left, top, width and height, leaving absent ones nil.
func boxPtrs(a Args) (l, t, w, h *float64, err error) {
	if l, err = a.FloatPtr("left"); err != nil {
		return
	}
	if t, err = a.FloatPtr("top"); err != nil {
		return
	}
	if w, err = a.FloatPtr("width"); err != nil {
		return
	}
	h, err = a.FloatPtr("height")
	return
}

// cells decodes table data. Numbers and booleans become their text.
func cells(a Args) ([][]string, error) {
	var raw [][]any
	if err := a.JSON("data", &raw); err != nil {
		return nil, err
	}
	out := make([][]string, len(raw))
	for i, row := range raw {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = cellText(v)
		}
	}
	return out, nil
}

func cellText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	return fmt.Sprint(v)
}

func categories(a Args) ([]string, error) {
	var raw []any
	if err := a.JSON("categories", &raw); err != nil {
		return nil, err
	}
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = cellText(v)
	}
	return out, nil
}

// series decodes series_data. A JSON object keeps its key order; a list of
// {"name", "values"} objects is accepted too. Already-decoded maps have no
// order, so their series are sorted by name.
func series(a Args) ([]xlsx.Series, error) {
	const op = "add chart"
	switch v := a["series_data"].(type) {
	case map[string]any:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		var out []xlsx.Series
		for _, name := range names {
			vals, err := numbers(v[name])
			if err != nil {
				return nil, errinfo.InvalidArgument(op, "series '%s': %v", name, err)
			}
			out = append(out, xlsx.Series{Name: name, Values: vals})
		}
		return out, nil
	}

	data, err := a.Raw("series_data")
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var out []xlsx.Series
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, errinfo.InvalidArgument(op, "Invalid JSON format for series_data: %v", err)
		}
		return out, nil
	}
	var out []xlsx.Series
	err = orderedObject(data, func(name string, dec *json.Decoder) error {
		var vals []float64
		if err := dec.Decode(&vals); err != nil {
			return fmt.Errorf("series '%s': %w", name, err)
		}
		out = append(out, xlsx.Series{Name: name, Values: vals})
		return nil
	})
	if err != nil {
		return nil, errinfo.InvalidArgument(op, "Invalid JSON format for series_data: %v", err)
	}
	return out, nil
}

func numbers(v any) ([]float64, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("values must be a list of numbers")
	}
	out := make([]float64, len(list))
	for i, x := range list {
		f, err := Args{"v": x}.Float("v")
		if err != nil {
			return nil, fmt.Errorf("value %d is not a number", i+1)
		}
		out[i] = f
	}
	return out, nil
}
