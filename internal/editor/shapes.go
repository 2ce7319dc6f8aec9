package editor

import (
	"fmt"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/pptx"
	"github.com/klytics/slidekit/internal/formats/xlsx"
	"github.com/klytics/slidekit/internal/geometry"
)

// Added reports a new shape.
type Added struct {
	Slide   int    `json:"slide"`
	ShapeID int    `json:"shape_id"`
	Name    string `json:"name"`
	What    string `json:"what"`
}

func (a *Added) String() string {
	return fmt.Sprintf("Successfully added %s on slide %d\nShape ID: %d\nName: %s", a.What, a.Slide, a.ShapeID, a.Name)
}

// TextboxRequest describes a new text box. Position and size are inches.
type TextboxRequest struct {
	Text                     string
	Left, Top, Width, Height float64
	FontName                 string
	FontSize                 float64
	Bold, Italic             bool
	FontColor                string
	Alignment                string
	Bullet                   string
}

// AddTextbox adds a wrapping text box.
func (e *Editor) AddTextbox(slideNumber int, req TextboxRequest) (*Added, error) {
	const op = "add textbox"
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return nil, err
	}
	b, err := bullet(op, req.Bullet)
	if err != nil {
		return nil, err
	}
	fontColor, err := color(op, "font_color", req.FontColor)
	if err != nil {
		return nil, err
	}
	var align pptx.Alignment
	if req.Alignment != "" {
		if align, err = pptx.ParseAlignment(req.Alignment); err != nil {
			return nil, err
		}
	}
	if err := positive(op, req.Width, req.Height); err != nil {
		return nil, err
	}

	bold, italic := req.Bold, req.Italic
	sh, err := pptx.AddTextbox(s, rect(req.Left, req.Top, req.Width, req.Height), pptx.TextboxSpec{
		Text: pptx.DecodeEscapes(req.Text),
		Font: pptx.FontSpec{
			SizePt: req.FontSize,
			Bold:   &bold,
			Italic: &italic,
			Color:  fontColor,
			Family: req.FontName,
		},
		Align:  align,
		Bullet: b,
	})
	if err != nil {
		return nil, err
	}
	e.Session.Touch()
	e.Logger.Info("shape.added", "slide", slideNumber, "shape_id", sh.ID(), "kind", "textbox")
	return &Added{Slide: slideNumber, ShapeID: sh.ID(), Name: sh.Name(), What: "textbox"}, nil
}

// AutoShapeRequest describes a new preset shape. LineWidth is in points.
type AutoShapeRequest struct {
	Type                     string
	Left, Top, Width, Height float64
	FillColor, LineColor     string
	LineWidth                float64
	Text                     string
}

// AddShape adds a preset geometry such as a rectangle or an arrow.
func (e *Editor) AddShape(slideNumber int, req AutoShapeRequest) (*Added, error) {
	const op = "add shape"
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return nil, err
	}
	fill, err := color(op, "fill_color", req.FillColor)
	if err != nil {
		return nil, err
	}
	line, err := color(op, "line_color", req.LineColor)
	if err != nil {
		return nil, err
	}
	if req.LineWidth < 0 {
		return nil, errinfo.InvalidArgument(op, "line_width must not be negative")
	}

	sh, err := pptx.AddAutoShape(s, req.Type, rect(req.Left, req.Top, req.Width, req.Height))
	if err != nil {
		return nil, err
	}
	if fill != "" {
		sh.SetFillColor(fill)
	}
	if line != "" {
		sh.SetLineColor(line)
	}
	if req.LineWidth > 0 {
		sh.SetLineWidth(geometry.Points(req.LineWidth))
	}
	if req.Text != "" {
		pptx.SetPlainText(sh.TextFrame(), pptx.DecodeEscapes(req.Text))
	}
	e.Session.Touch()
	e.Logger.Info("shape.added", "slide", slideNumber, "shape_id", sh.ID(), "kind", req.Type)
	return &Added{Slide: slideNumber, ShapeID: sh.ID(), Name: sh.Name(), What: req.Type + " shape"}, nil
}

// TableRequest describes a new table. Nil position fields take the
// replaced shape's box, then the defaults 1, 2, 8 and 3 inches.
type TableRequest struct {
	Rows, Cols               int
	Data                     [][]string
	Left, Top, Width, Height *float64
	Replace                  ShapeRef
}

// AddTable adds a table, optionally in place of another shape.
func (e *Editor) AddTable(slideNumber int, req TableRequest) (*Added, error) {
	const op = "add table"
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return nil, err
	}
	if req.Rows < 1 || req.Cols < 1 {
		return nil, errinfo.InvalidArgument(op, "rows and cols must be at least 1")
	}
	left, top, width, height := 1.0, 2.0, 8.0, 3.0
	var target *pptx.Shape
	if !req.Replace.IsZero() {
		if target, err = shape(s, req.Replace); err != nil {
			return nil, err
		}
		left, top, width, height = inches(target.Geometry())
	}
	left, top = orDefault(req.Left, left), orDefault(req.Top, top)
	width, height = orDefault(req.Width, width), orDefault(req.Height, height)
	if err := positive(op, width, height); err != nil {
		return nil, err
	}

	data := make([][]string, len(req.Data))
	for i, row := range req.Data {
		data[i] = make([]string, len(row))
		for j, cell := range row {
			data[i][j] = pptx.DecodeEscapes(cell)
		}
	}
	if target != nil {
		s.RemoveShape(target)
	}
	sh, err := pptx.AddTable(s, req.Rows, req.Cols, rect(left, top, width, height), data)
	if err != nil {
		return nil, err
	}
	e.Session.Touch()
	e.Logger.Info("shape.added", "slide", slideNumber, "shape_id", sh.ID(), "kind", "table", "replaced", target != nil)
	return &Added{Slide: slideNumber, ShapeID: sh.ID(), Name: sh.Name(), What: fmt.Sprintf("%dx%d table", req.Rows, req.Cols)}, nil
}

// ChartRequest describes a new chart.
type ChartRequest struct {
	Type                     string
	Title                    string
	Categories               []string
	Series                   []xlsx.Series
	Left, Top, Width, Height float64
}

// AddChart adds a chart whose data lives in an embedded workbook.
func (e *Editor) AddChart(slideNumber int, req ChartRequest) (*Added, error) {
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return nil, err
	}
	typ := strings.ToLower(strings.TrimSpace(req.Type))
	sh, err := pptx.AddChart(s, pptx.ChartSpec{
		Type:  typ,
		Title: req.Title,
		Data:  xlsx.ChartData{Categories: req.Categories, Series: req.Series},
	}, rect(req.Left, req.Top, req.Width, req.Height))
	if err != nil {
		return nil, err
	}
	e.Session.Touch()
	e.Logger.Info("shape.added", "slide", slideNumber, "shape_id", sh.ID(), "kind", "chart", "chart_type", typ)
	return &Added{Slide: slideNumber, ShapeID: sh.ID(), Name: sh.Name(), What: typ + " chart"}, nil
}

// GetChartData renders the workbook behind a chart as CSV. A zero ref
// picks the first chart on the slide.
func (e *Editor) GetChartData(slideNumber int, ref ShapeRef) (string, error) {
	const op = "get chart data"
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return "", err
	}
	var sh *pptx.Shape
	if ref.IsZero() {
		for _, c := range s.Shapes() {
			if c.Kind() == pptx.KindChart {
				sh = c
				break
			}
		}
		if sh == nil {
			return "", errinfo.NotFound(op, "No charts found on slide %d", slideNumber)
		}
	} else if sh, err = shape(s, ref); err != nil {
		return "", err
	}
	if sh.Kind() != pptx.KindChart {
		return "", errinfo.InvalidArgument(op, "Shape with %s is not a chart", ref)
	}
	data, err := sh.ChartData()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Chart '%s' (ID: %d, %s)\n%s", sh.Name(), sh.ID(), sh.ChartType(), data.CSV()), nil
}

// ShapeEdit lists the changes ModifyShape makes. Nil and empty fields are
// left alone. Position and size are inches, LineWidth is points.
type ShapeEdit struct {
	Left, Top, Width, Height *float64
	Text                     *string
	Bullet                   string
	FillColor, LineColor     string
	LineWidth                *float64
	Rotation                 *float64
	Font                     pptx.FontSpec
}

// Modified reports the changes ModifyShape made.
type Modified struct {
	Slide   int      `json:"slide"`
	ShapeID int      `json:"shape_id"`
	Changes []string `json:"changes"`
}

func (m *Modified) String() string {
	if len(m.Changes) == 0 {
		return "No changes specified"
	}
	return fmt.Sprintf("Successfully modified shape %d on slide %d\nChanges: %s", m.ShapeID, m.Slide, strings.Join(m.Changes, ", "))
}

// ModifyShape changes a shape's box, text, list markers, colours, rotation
// or font. Text goes through RewriteText, so paragraph formatting survives.
func (e *Editor) ModifyShape(slideNumber int, ref ShapeRef, edit ShapeEdit) (*Modified, error) {
	const op = "modify shape"
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return nil, err
	}
	sh, err := shape(s, ref)
	if err != nil {
		return nil, err
	}
	b, err := bullet(op, edit.Bullet)
	if err != nil {
		return nil, err
	}
	fill, err := color(op, "fill_color", edit.FillColor)
	if err != nil {
		return nil, err
	}
	line, err := color(op, "line_color", edit.LineColor)
	if err != nil {
		return nil, err
	}
	font := edit.Font
	if font.Color, err = color(op, "font_color", font.Color); err != nil {
		return nil, err
	}
	if edit.LineWidth != nil && *edit.LineWidth <= 0 {
		return nil, errinfo.InvalidArgument(op, "line_width must be positive, got %g", *edit.LineWidth)
	}
	tf := sh.TextFrame()
	if tf == nil && (edit.Text != nil || b != nil || !font.IsZero()) {
		return nil, errinfo.InvalidArgument(op, "Shape %d does not support text", sh.ID())
	}
	box := sh.Geometry()
	left, top, width, height := inches(box)
	left, top = orDefault(edit.Left, left), orDefault(edit.Top, top)
	width, height = orDefault(edit.Width, width), orDefault(edit.Height, height)
	if edit.Width != nil || edit.Height != nil {
		if err := positive(op, width, height); err != nil {
			return nil, err
		}
	}

	res := &Modified{Slide: slideNumber, ShapeID: sh.ID()}
	if edit.Left != nil || edit.Top != nil || edit.Width != nil || edit.Height != nil {
		if edit.Left != nil {
			box.X = geometry.Inches(left)
			res.Changes = append(res.Changes, fmt.Sprintf("left=%g\"", left))
		}
		if edit.Top != nil {
			box.Y = geometry.Inches(top)
			res.Changes = append(res.Changes, fmt.Sprintf("top=%g\"", top))
		}
		if edit.Width != nil {
			box.CX = geometry.Inches(width)
			res.Changes = append(res.Changes, fmt.Sprintf("width=%g\"", width))
		}
		if edit.Height != nil {
			box.CY = geometry.Inches(height)
			res.Changes = append(res.Changes, fmt.Sprintf("height=%g\"", height))
		}
		sh.SetGeometry(box)
	}

	switch {
	case edit.Text != nil:
		pptx.RewriteText(tf, pptx.DecodeEscapes(*edit.Text), b)
		if b == nil {
			res.Changes = append(res.Changes, "text updated (formatting preserved)")
		} else {
			res.Changes = append(res.Changes, "text updated (bullets: "+edit.Bullet+")")
		}
	case b != nil:
		pptx.ApplyBulletAll(tf, *b)
		res.Changes = append(res.Changes, "bullets: "+edit.Bullet)
	}

	if !font.IsZero() {
		for _, p := range tf.Paragraphs() {
			for _, r := range p.Runs() {
				r.SetFont(font)
			}
		}
		res.Changes = append(res.Changes, "font updated")
	}
	if fill != "" {
		sh.SetFillColor(fill)
		res.Changes = append(res.Changes, "fill="+edit.FillColor)
	}
	if line != "" {
		sh.SetLineColor(line)
		res.Changes = append(res.Changes, "line="+edit.LineColor)
	}
	if edit.LineWidth != nil {
		sh.SetLineWidth(geometry.Points(*edit.LineWidth))
		res.Changes = append(res.Changes, fmt.Sprintf("line_width=%gpt", *edit.LineWidth))
	}
	if edit.Rotation != nil {
		sh.SetRotation(*edit.Rotation)
		res.Changes = append(res.Changes, fmt.Sprintf("rotation=%g°", *edit.Rotation))
	}

	if len(res.Changes) > 0 {
		e.Session.Touch()
		e.Logger.Info("shape.modified", "slide", slideNumber, "shape_id", sh.ID(), "changes", len(res.Changes))
	}
	return res, nil
}

// DeleteShape removes a shape and any relationship only it used.
func (e *Editor) DeleteShape(slideNumber int, ref ShapeRef) (string, error) {
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return "", err
	}
	sh, err := shape(s, ref)
	if err != nil {
		return "", err
	}
	id, name := sh.ID(), sh.Name()
	s.RemoveShape(sh)
	e.Session.Touch()
	e.Logger.Info("shape.deleted", "slide", slideNumber, "shape_id", id)
	return fmt.Sprintf("Successfully deleted shape (ID: %d, Name: '%s') from slide %d", id, name, slideNumber), nil
}
