package pptx

import (
	"fmt"
	"strings"

	"github.com/klytics/slidekit/internal/geometry"
)

// ShapeInfo is the read-only summary of one shape.
type ShapeInfo struct {
	Index           int     `json:"index"`
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Kind            Kind    `json:"kind"`
	Placeholder     string  `json:"placeholder,omitempty"`
	Left            float64 `json:"left"`
	Top             float64 `json:"top"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	Text            string  `json:"text,omitempty"`
	ListFormat      string  `json:"list_format,omitempty"`
	TableRows       int     `json:"table_rows,omitempty"`
	TableCols       int     `json:"table_cols,omitempty"`
	ChartType       string  `json:"chart_type,omitempty"`
	IconPlaceholder bool    `json:"icon_placeholder,omitempty"`
}

// SlideSnapshot describes a slide and its top-level shapes.
type SlideSnapshot struct {
	Number int         `json:"number"`
	Total  int         `json:"total"`
	Layout string      `json:"layout"`
	Shapes []ShapeInfo `json:"shapes"`
}

// LayoutName returns the name of the slide's layout.
func (s *Slide) LayoutName() string {
	layout := s.Layout()
	if layout == nil {
		return ""
	}
	doc, err := s.deck.doc(layout.Name)
	if err != nil {
		return ""
	}
	if cSld := doc.Root.Child(NSP, "cSld"); cSld != nil {
		return cSld.AttrOr("", "name", "")
	}
	return ""
}

// Snapshot inspects slide s.
func Snapshot(s *Slide) SlideSnapshot {
	snap := SlideSnapshot{
		Number: s.Number(),
		Total:  s.deck.SlideCount(),
		Layout: s.LayoutName(),
	}
	for i, sh := range s.Shapes() {
		g := sh.Geometry()
		info := ShapeInfo{
			Index:           i + 1,
			ID:              sh.ID(),
			Name:            sh.Name(),
			Kind:            sh.Kind(),
			Placeholder:     sh.PlaceholderType(),
			Left:            geometry.ToInches(g.X),
			Top:             geometry.ToInches(g.Y),
			Width:           geometry.ToInches(g.CX),
			Height:          geometry.ToInches(g.CY),
			ChartType:       sh.ChartType(),
			IconPlaceholder: IsIconPlaceholder(sh),
		}
		if tf := sh.TextFrame(); tf != nil {
			if text := tf.Text(); text != "" {
				info.Text = text
				info.ListFormat = SummarizeLists(tf)
			}
		}
		if tbl := sh.Table(); tbl != nil {
			info.TableRows, info.TableCols = tbl.Rows(), tbl.Cols()
		}
		snap.Shapes = append(snap.Shapes, info)
	}
	return snap
}

// maxIconInches bounds the side of a shape that may stand in for an icon.
const maxIconInches = 1.5

// IsIconPlaceholder reports whether sh looks like a slot reserved for an
// icon: no larger than 1.5in on either side, roughly square (the short side
// at least 80% of the long one) and not itself a picture, table, chart or
// group. Shapes holding text only qualify when the text mentions an icon.
func IsIconPlaceholder(sh *Shape) bool {
	switch sh.Kind() {
	case KindPicture, KindTable, KindChart, KindGroup, KindConnector, KindGraphic:
		return false
	}
	g := sh.Geometry()
	w, h := geometry.ToInches(g.CX), geometry.ToInches(g.CY)
	if w > maxIconInches || h > maxIconInches {
		return false
	}
	long, short := max(w, h), min(w, h)
	if long == 0 || short/long < 0.8 {
		return false
	}
	if tf := sh.TextFrame(); tf != nil {
		if text := strings.TrimSpace(tf.Text()); text != "" {
			return strings.Contains(strings.ToLower(text), "icon") || strings.Contains(strings.ToLower(sh.Name()), "icon")
		}
	}
	return true
}

// String renders the snapshot as the agent-facing text report.
func (snap SlideSnapshot) String() string {
	var b strings.Builder
	layout := snap.Layout
	if layout == "" {
		layout = "Unknown"
	}
	fmt.Fprintf(&b, "=== Slide %d of %d ===\n", snap.Number, snap.Total)
	fmt.Fprintf(&b, "Layout: %s\n", layout)
	fmt.Fprintf(&b, "Shape count: %d\n\n", len(snap.Shapes))
	b.WriteString("=== Shapes ===")
	for _, sh := range snap.Shapes {
		fmt.Fprintf(&b, "\n\n[Shape %d] ID: %d\n", sh.Index, sh.ID)
		fmt.Fprintf(&b, "  Name: %s\n", sh.Name)
		kind := string(sh.Kind)
		if sh.Placeholder != "" {
			kind += " (" + sh.Placeholder + ")"
		}
		fmt.Fprintf(&b, "  Type: %s\n", kind)
		fmt.Fprintf(&b, "  Position: (%.2f\", %.2f\")\n", sh.Left, sh.Top)
		fmt.Fprintf(&b, "  Size: %.2f\" x %.2f\"", sh.Width, sh.Height)
		if sh.Text != "" {
			fmt.Fprintf(&b, "\n  Text: \"%s\"", preview(sh.Text, 100))
			if sh.ListFormat != "" {
				fmt.Fprintf(&b, "\n  List format: %s", sh.ListFormat)
			}
		}
		if sh.TableRows > 0 {
			fmt.Fprintf(&b, "\n  Table: %d rows x %d columns", sh.TableRows, sh.TableCols)
		}
		if sh.ChartType != "" {
			fmt.Fprintf(&b, "\n  Chart: %s", sh.ChartType)
		}
		if sh.IconPlaceholder {
			fmt.Fprintf(&b, "\n  [Icon placeholder - replace with: insert_icon(slide_number=%d, icon_name=\"...\", replace_shape_id=%d)]", snap.Number, sh.ID)
		}
	}
	if len(snap.Shapes) == 0 {
		b.WriteString("\n  (No shapes on this slide)")
	}
	return b.String()
}

// preview truncates to n runes and shows newlines as \n.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		s = string(r[:n]) + "..."
	}
	return strings.ReplaceAll(s, "\n", `\n`)
}

// TableContent renders a table's cells as the agent-facing text report.
func TableContent(sh *Shape) string {
	tbl := sh.Table()
	if tbl == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Table '%s' (ID: %d)\n", sh.Name(), sh.ID())
	fmt.Fprintf(&b, "Dimensions: %d rows x %d columns\n", tbl.Rows(), tbl.Cols())
	for r, row := range tbl.Content() {
		cells := make([]string, len(row))
		for c, text := range row {
			cells[c] = strings.ReplaceAll(text, "\n", `\n`)
		}
		fmt.Fprintf(&b, "\nRow %d: %s", r+1, strings.Join(cells, " | "))
	}
	return b.String()
}
