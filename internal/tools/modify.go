package tools

import (
	"context"

	"github.com/klytics/slidekit/internal/editor"
	"github.com/klytics/slidekit/internal/formats/pptx"
)

func registerModifyTools(r *Registry, ed *editor.Editor) {
	r.Add(&Tool{
		Name: "modify_shape",
		Description: "Modify an existing shape's position, size, text, list format, colors, rotation or font. " +
			"Setting text keeps paragraph formatting (bullets, alignment, indentation) but resets run formatting; " +
			"prefer find_and_replace for styled text. Provide shape_id or shape_name; shape_id wins when both are given.",
		Params: params(
			[]Param{slideParam("Target slide number (1-based)")},
			shapeParams("modify"),
			[]Param{
				{Name: "left", Type: Number, Description: "New left position in inches"},
				{Name: "top", Type: Number, Description: "New top position in inches"},
				{Name: "width", Type: Number, Description: "New width in inches"},
				{Name: "height", Type: Number, Description: "New height in inches"},
				{Name: "text", Type: String, Description: "New text content (only for shapes with text frames)"},
				{Name: "bullets", Type: String, Enum: pptx.BulletNames(),
					Description: bulletsHelp + ". Applied to all paragraphs; omit to keep existing formatting."},
				{Name: "fill_color", Type: String, Description: "New fill color as hex code"},
				{Name: "line_color", Type: String, Description: "New line/border color as hex code"},
				{Name: "line_width", Type: Number, Description: "New line width in points"},
				{Name: "rotation", Type: Number, Description: "Rotation angle in degrees"},
				{Name: "font_name", Type: String, Description: "Font family for all text runs"},
				{Name: "font_size", Type: Number, Description: "Font size in points for all text runs"},
				{Name: "font_bold", Type: Boolean, Description: "Bold on or off for all text runs"},
				{Name: "font_italic", Type: Boolean, Description: "Italic on or off for all text runs"},
				{Name: "font_color", Type: String, Description: "Font color as hex code for all text runs"},
			},
		),
		Run: func(_ context.Context, a Args) (string, error) {
			n, err := a.Int("slide_number")
			if err != nil {
				return "", err
			}
			target, err := ref(a, "shape_id", "shape_name")
			if err != nil {
				return "", err
			}
			edit := editor.ShapeEdit{
				Bullet:    a.OptString("bullets", ""),
				FillColor: a.OptString("fill_color", ""),
				LineColor: a.OptString("line_color", ""),
				Font: pptx.FontSpec{
					Family: a.OptString("font_name", ""),
					Color:  a.OptString("font_color", ""),
				},
			}
			if edit.Left, edit.Top, edit.Width, edit.Height, err = boxPtrs(a); err != nil {
				return "", err
			}
			if a.Has("text") {
				s := a.OptString("text", "")
				edit.Text = &s
			}
			if edit.LineWidth, err = a.FloatPtr("line_width"); err != nil {
				return "", err
			}
			if edit.Rotation, err = a.FloatPtr("rotation"); err != nil {
				return "", err
			}
			if edit.Font.SizePt, err = a.OptFloat("font_size", 0); err != nil {
				return "", err
			}
			if edit.Font.Bold, err = a.BoolPtr("font_bold"); err != nil {
				return "", err
			}
			if edit.Font.Italic, err = a.BoolPtr("font_italic"); err != nil {
				return "", err
			}
			return text(ed.ModifyShape(n, target, edit))
		},
	})

	r.Add(&Tool{
		Name:        "delete_shape",
		Description: "Delete a shape from a slide. Provide shape_id or shape_name; shape_id wins when both are given.",
		Params:      params([]Param{slideParam("Target slide number (1-based)")}, shapeParams("delete")),
		Run: func(_ context.Context, a Args) (string, error) {
			n, err := a.Int("slide_number")
			if err != nil {
				return "", err
			}
			target, err := ref(a, "shape_id", "shape_name")
			if err != nil {
				return "", err
			}
			return ed.DeleteShape(n, target)
		},
	})

	r.Add(&Tool{
		Name: "find_and_replace",
		Description: "Find and replace text across the presentation or one slide. Works run by run, so font name, " +
			"size, color, bold and italic stay intact in text frames and table cells. Prefer this over modify_shape for styled templates.",
		Params: []Param{
			{Name: "find_text", Type: String, Required: true, Description: "Text to search for"},
			{Name: "replace_text", Type: String, Required: true, Description: "Text to replace with"},
			{Name: "slide_number", Type: Integer, Description: "Limit to one slide (1-based). Searches all slides when omitted."},
			{Name: "match_case", Type: Boolean, Description: "Whether to match case exactly (default false)"},
		},
		Run: func(_ context.Context, a Args) (string, error) {
			find, err := a.String("find_text")
			if err != nil {
				return "", err
			}
			repl, err := a.String("replace_text")
			if err != nil {
				return "", err
			}
			n, err := a.OptInt("slide_number", 0)
			if err != nil {
				return "", err
			}
			matchCase, err := a.Bool("match_case", false)
			if err != nil {
				return "", err
			}
			return text(ed.FindAndReplace(n, find, repl, matchCase))
		},
	})

	tableParams := []Param{
		{Name: "table_index", Type: Integer, Description: "1-based index of the table on the slide, ordered top-to-bottom then left-to-right (default 1)"},
		{Name: "shape_id", Type: Integer, Description: "ID of the table shape (alternative to table_index)"},
		{Name: "shape_name", Type: String, Description: "Name of the table shape (alternative to table_index)"},
	}

	r.Add(&Tool{
		Name:        "get_table_content",
		Description: "Get the content of a table as rows of cells. Newlines within cells are shown as \\n.",
		Params:      params([]Param{slideParam("Target slide number (1-based)")}, tableParams),
		Run: func(_ context.Context, a Args) (string, error) {
			n, err := a.Int("slide_number")
			if err != nil {
				return "", err
			}
			t, err := tableRef(a)
			if err != nil {
				return "", err
			}
			return ed.GetTableContent(n, t)
		},
	})

	r.Add(&Tool{
		Name: "modify_table_cell",
		Description: "Modify one table cell. The text of the cell's first run is replaced so its font properties survive; " +
			"additional paragraphs are removed. Use \\n for newlines within the cell.",
		Params: params(
			[]Param{
				slideParam("Target slide number (1-based)"),
				{Name: "row", Type: Integer, Required: true, Description: "1-based row number"},
				{Name: "column", Type: Integer, Required: true, Description: "1-based column number"},
				{Name: "text", Type: String, Required: true, Description: "New cell content"},
			},
			tableParams,
		),
		Run: func(_ context.Context, a Args) (string, error) {
			n, err := a.Int("slide_number")
			if err != nil {
				return "", err
			}
			row, err := a.Int("row")
			if err != nil {
				return "", err
			}
			col, err := a.Int("column")
			if err != nil {
				return "", err
			}
			s, err := a.String("text")
			if err != nil {
				return "", err
			}
			t, err := tableRef(a)
			if err != nil {
				return "", err
			}
			return ed.ModifyTableCell(n, t, row, col, s)
		},
	})
}

func tableRef(a Args) (editor.TableRef, error) {
	shape, err := ref(a, "shape_id", "shape_name")
	if err != nil {
		return editor.TableRef{}, err
	}
	idx, err := a.OptInt("table_index", 1)
	if err != nil {
		return editor.TableRef{}, err
	}
	return editor.TableRef{ShapeRef: shape, Index: idx}, nil
}
