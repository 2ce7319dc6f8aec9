package pptx

import (
	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/pptx/oxml"
)

// Table is an a:tbl inside a graphic frame.
type Table struct {
	el *oxml.Element
}

func (t *Table) rows() []*oxml.Element { return t.el.ChildrenNamed(NSA, "tr") }

// Rows returns the row count.
func (t *Table) Rows() int { return len(t.rows()) }

// Cols returns the column count from the grid.
func (t *Table) Cols() int {
	if grid := t.el.Child(NSA, "tblGrid"); grid != nil {
		return len(grid.ChildrenNamed(NSA, "gridCol"))
	}
	if rows := t.rows(); len(rows) > 0 {
		return len(rows[0].ChildrenNamed(NSA, "tc"))
	}
	return 0
}

// Cell returns the cell at row, col (0-based).
func (t *Table) Cell(row, col int) (*Cell, error) {
	rows := t.rows()
	if row < 0 || row >= len(rows) {
		return nil, errinfo.NotFound("table cell", "row %d out of range (0-%d)", row, len(rows)-1)
	}
	cells := rows[row].ChildrenNamed(NSA, "tc")
	if col < 0 || col >= len(cells) {
		return nil, errinfo.NotFound("table cell", "column %d out of range (0-%d)", col, len(cells)-1)
	}
	return &Cell{el: cells[col]}, nil
}

// Cells returns every cell in row-major order.
func (t *Table) Cells() []*Cell {
	var out []*Cell
	for _, tr := range t.rows() {
		for _, tc := range tr.ChildrenNamed(NSA, "tc") {
			out = append(out, &Cell{el: tc})
		}
	}
	return out
}

// Content returns the cell texts as a grid.
func (t *Table) Content() [][]string {
	var out [][]string
	for _, tr := range t.rows() {
		var row []string
		for _, tc := range tr.ChildrenNamed(NSA, "tc") {
			row = append(row, (&Cell{el: tc}).Text())
		}
		out = append(out, row)
	}
	return out
}

// Cell is an a:tc.
type Cell struct {
	el *oxml.Element
}

// body returns a:txBody, creating a minimal one before a:tcPr.
func (c *Cell) body() *oxml.Element {
	if b := c.el.Child(NSA, "txBody"); b != nil {
		return b
	}
	b := fragment(`<a:txBody><a:bodyPr/><a:lstStyle/></a:txBody>`)
	c.el.Insert(0, b)
	return b
}

func (c *Cell) Paragraphs() []*Paragraph {
	b := c.el.Child(NSA, "txBody")
	if b == nil {
		return nil
	}
	return paragraphsOf(b)
}

func (c *Cell) AddParagraph() *Paragraph { return addParagraph(c.body()) }

func (c *Cell) RemoveParagraph(p *Paragraph) { c.body().Remove(p.el) }

// Text joins paragraph texts with newlines.
func (c *Cell) Text() string { return joinParagraphs(c.Paragraphs()) }
