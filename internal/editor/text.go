package editor

import (
	"fmt"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/pptx"
)

// RewriteText replaces a shape's text, one paragraph per line, keeping the
// paragraph formatting already there. bulletName, when set, is applied to
// every paragraph; "none" removes markers. Literal \n sequences typed by
// agents count as line breaks.
func (e *Editor) RewriteText(slideNumber int, ref ShapeRef, text, bulletName string) error {
	const op = "rewrite text"
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return err
	}
	sh, err := shape(s, ref)
	if err != nil {
		return err
	}
	b, err := bullet(op, bulletName)
	if err != nil {
		return err
	}
	tf := sh.TextFrame()
	if tf == nil {
		return errinfo.InvalidArgument(op, "Shape %d does not support text", sh.ID())
	}
	pptx.RewriteText(tf, pptx.DecodeEscapes(text), b)
	e.Session.Touch()
	e.Logger.Info("text.rewritten", "slide", slideNumber, "shape_id", sh.ID(), "bullet", bulletName)
	return nil
}

// ReplaceReport is the outcome of FindAndReplace.
type ReplaceReport struct {
	Find      string   `json:"find"`
	Replace   string   `json:"replace"`
	Matches   int      `json:"matches"`
	Locations []string `json:"locations"`
}

// maxListedLocations caps the locations named in the report text.
const maxListedLocations = 20

func (r *ReplaceReport) String() string {
	if r.Matches == 0 {
		return fmt.Sprintf("No occurrences of '%s' found", r.Find)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Replaced '%s' with '%s' in %d location(s):", r.Find, r.Replace, r.Matches)
	for i, loc := range r.Locations {
		if i == maxListedLocations {
			b.WriteString("\n  ...")
			break
		}
		b.WriteString("\n  - " + loc)
	}
	return b.String()
}

// FindAndReplace substitutes text run by run. slideNumber 0 searches every
// slide.
func (e *Editor) FindAndReplace(slideNumber int, find, repl string, caseSensitive bool) (*ReplaceReport, error) {
	deck, err := e.Session.Deck()
	if err != nil {
		return nil, err
	}
	res, err := pptx.FindAndReplace(deck, slideNumber, find, repl, caseSensitive)
	if err != nil {
		return nil, err
	}
	if res.Matches > 0 {
		e.Session.Touch()
	}
	e.Logger.Info("text.replaced", "slide", slideNumber, "matches", res.Matches)
	return &ReplaceReport{Find: find, Replace: repl, Matches: res.Matches, Locations: res.Locations}, nil
}

// TableRef picks a table by shape reference, or by its 1-based position on
// the slide (top to bottom, then left to right) when the reference is zero.
type TableRef struct {
	ShapeRef
	Index int
}

func table(s *pptx.Slide, ref TableRef) (*pptx.Shape, error) {
	const op = "find table"
	if !ref.ShapeRef.IsZero() {
		sh, err := shape(s, ref.ShapeRef)
		if err != nil {
			return nil, err
		}
		if sh.Table() == nil {
			return nil, errinfo.InvalidArgument(op, "Shape with %s is not a table", ref.ShapeRef)
		}
		return sh, nil
	}
	tables := s.Tables()
	if len(tables) == 0 {
		return nil, errinfo.NotFound(op, "No tables found on slide %d", s.Number())
	}
	idx := ref.Index
	if idx == 0 {
		idx = 1
	}
	if idx < 1 || idx > len(tables) {
		return nil, errinfo.NotFound(op, "table_index %d is out of range (1-%d)", idx, len(tables))
	}
	return tables[idx-1], nil
}

// GetTableContent renders a table's cells.
func (e *Editor) GetTableContent(slideNumber int, ref TableRef) (string, error) {
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return "", err
	}
	sh, err := table(s, ref)
	if err != nil {
		return "", err
	}
	return pptx.TableContent(sh), nil
}

// ModifyTableCell rewrites one cell, row and column counted from 1. The
// cell's first run keeps its character formatting.
func (e *Editor) ModifyTableCell(slideNumber int, ref TableRef, row, column int, text string) (string, error) {
	const op = "modify table cell"
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return "", err
	}
	sh, err := table(s, ref)
	if err != nil {
		return "", err
	}
	tbl := sh.Table()
	if row < 1 || row > tbl.Rows() {
		return "", errinfo.NotFound(op, "row %d is out of range (1-%d)", row, tbl.Rows())
	}
	if column < 1 || column > tbl.Cols() {
		return "", errinfo.NotFound(op, "column %d is out of range (1-%d)", column, tbl.Cols())
	}
	cell, err := tbl.Cell(row-1, column-1)
	if err != nil {
		return "", err
	}
	pptx.RewriteCell(cell, pptx.DecodeEscapes(text))
	e.Session.Touch()
	e.Logger.Info("table.cell_modified", "slide", slideNumber, "shape_id", sh.ID(), "row", row, "column", column)
	return fmt.Sprintf("Successfully modified cell at row %d, column %d in table '%s'", row, column, sh.Name()), nil
}
