package pptx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/klytics/slidekit/internal/formats/pptx/oxml"
)

// Namespaces used in slide parts.
const (
	NSA    = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSP    = "http://schemas.openxmlformats.org/presentationml/2006/main"
	NSR    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSC    = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	NSASVG = "http://schemas.microsoft.com/office/drawing/2016/SVG/main"

	graphicTable = "http://schemas.openxmlformats.org/drawingml/2006/table"
	graphicChart = "http://schemas.openxmlformats.org/drawingml/2006/chart"

	// SVGExtURI keys the a:ext entry that carries the vector twin of a bitmap blip.
	SVGExtURI = "{96DAC541-7B7A-43D3-8B79-37D633B846F1}"
)

var nsContext = map[string]string{
	"a": NSA,
	"p": NSP,
	"r": NSR,
	"c": NSC,
}

// fragment parses a builder snippet against the slide namespaces. Callers
// escape every interpolated value with esc.
func fragment(format string, args ...any) *oxml.Element {
	return oxml.MustFragment(fmt.Sprintf(format, args...), nsContext)
}

func esc(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func newA(local string) *oxml.Element { return oxml.NewElement("a", NSA, local) }
func newP(local string) *oxml.Element { return oxml.NewElement("p", NSP, local) }

// insertBeforeAny inserts child before the first existing DrawingML child of
// parent named in successors, or appends it. Schema order in pPr, rPr and
// spPr is fixed, so new nodes must land in front of what follows them.
func insertBeforeAny(parent, child *oxml.Element, successors ...string) {
	for _, n := range parent.Elements() {
		if n.Space != NSA {
			continue
		}
		for _, s := range successors {
			if n.Local == s {
				parent.InsertBefore(child, n)
				return
			}
		}
	}
	parent.Append(child)
}

// removeAll deletes every DrawingML child of parent with one of the names.
func removeAll(parent *oxml.Element, locals ...string) int {
	n := 0
	for _, l := range locals {
		n += parent.RemoveChildren(NSA, l)
	}
	return n
}

func intAttr(el *oxml.Element, local string) (int64, bool) {
	if el == nil {
		return 0, false
	}
	v, ok := el.Attr("", local)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func setIntAttr(el *oxml.Element, local string, v int64) {
	el.SetAttr("", "", local, strconv.FormatInt(v, 10))
}

func boolAttr(el *oxml.Element, local string) bool {
	if el == nil {
		return false
	}
	v, _ := el.Attr("", local)
	return v == "1" || v == "true"
}
