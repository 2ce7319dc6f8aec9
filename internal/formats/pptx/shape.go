package pptx

import (
	"strconv"
	"strings"

	"github.com/klytics/slidekit/internal/formats/opc"
	"github.com/klytics/slidekit/internal/formats/pptx/oxml"
)

// Kind classifies a shape.
type Kind string

const (
	KindTextbox     Kind = "textbox"
	KindAutoShape   Kind = "autoshape"
	KindPlaceholder Kind = "placeholder"
	KindPicture     Kind = "picture"
	KindTable       Kind = "table"
	KindChart       Kind = "chart"
	KindGroup       Kind = "group"
	KindConnector   Kind = "connector"
	KindGraphic     Kind = "graphic"
)

// Rect is a position and size in EMU.
type Rect struct {
	X, Y, CX, CY int64
}

// Shape is one shape element on a slide.
type Shape struct {
	slide *Slide
	el    *oxml.Element
}

// Element returns the shape's XML element.
func (sh *Shape) Element() *oxml.Element { return sh.el }

// Slide returns the slide holding the shape.
func (sh *Shape) Slide() *Slide { return sh.slide }

func (sh *Shape) nvProps() *oxml.Element {
	for _, el := range sh.el.Elements() {
		if el.Space == NSP && strings.HasPrefix(el.Local, "nv") {
			return el
		}
	}
	return nil
}

func (sh *Shape) cNvPr() *oxml.Element {
	if nv := sh.nvProps(); nv != nil {
		return nv.Child(NSP, "cNvPr")
	}
	return nil
}

// ID returns the shape id, unique within the slide.
func (sh *Shape) ID() int {
	v, _ := intAttr(sh.cNvPr(), "id")
	return int(v)
}

// Name returns the display name.
func (sh *Shape) Name() string {
	if c := sh.cNvPr(); c != nil {
		return c.AttrOr("", "name", "")
	}
	return ""
}

// SetName changes the display name.
func (sh *Shape) SetName(name string) {
	if c := sh.cNvPr(); c != nil {
		c.SetAttr("", "", "name", name)
	}
}

func (sh *Shape) placeholder() *oxml.Element {
	nv := sh.nvProps()
	if nv == nil {
		return nil
	}
	if nvPr := nv.Child(NSP, "nvPr"); nvPr != nil {
		return nvPr.Child(NSP, "ph")
	}
	return nil
}

// PlaceholderType returns the ph type, "obj" when unset, or "" for shapes
// that are not placeholders.
func (sh *Shape) PlaceholderType() string {
	ph := sh.placeholder()
	if ph == nil {
		return ""
	}
	return ph.AttrOr("", "type", "obj")
}

func (sh *Shape) placeholderIdx() int64 {
	v, _ := intAttr(sh.placeholder(), "idx")
	return v
}

// Kind classifies the shape.
func (sh *Shape) Kind() Kind {
	switch sh.el.Local {
	case "pic":
		return KindPicture
	case "grpSp":
		return KindGroup
	case "cxnSp":
		return KindConnector
	case "graphicFrame":
		gd := sh.el.Find(NSA, "graphicData")
		if gd == nil {
			return KindGraphic
		}
		switch gd.AttrOr("", "uri", "") {
		case graphicTable:
			return KindTable
		case graphicChart:
			return KindChart
		}
		return KindGraphic
	}
	if sh.placeholder() != nil {
		return KindPlaceholder
	}
	if nv := sh.nvProps(); nv != nil {
		if boolAttr(nv.Child(NSP, "cNvSpPr"), "txBox") {
			return KindTextbox
		}
	}
	return KindAutoShape
}

// spPr returns the shape properties element, creating it after the
// non-visual properties when missing.
func (sh *Shape) spPr() *oxml.Element {
	local := "spPr"
	if sh.el.Local == "grpSp" {
		local = "grpSpPr"
	}
	if el := sh.el.Child(NSP, local); el != nil {
		return el
	}
	el := newP(local)
	if nv := sh.nvProps(); nv != nil {
		sh.el.InsertAfter(el, nv)
	} else {
		sh.el.Insert(0, el)
	}
	return el
}

func (sh *Shape) xfrm(create bool) *oxml.Element {
	if sh.el.Local == "graphicFrame" {
		x := sh.el.Child(NSP, "xfrm")
		if x == nil && create {
			x = newP("xfrm")
			sh.el.InsertAfter(x, sh.nvProps())
		}
		return x
	}
	local := "spPr"
	if sh.el.Local == "grpSp" {
		local = "grpSpPr"
	}
	pr := sh.el.Child(NSP, local)
	if pr == nil {
		if !create {
			return nil
		}
		pr = sh.spPr()
	}
	x := pr.Child(NSA, "xfrm")
	if x == nil && create {
		x = newA("xfrm")
		pr.Insert(0, x)
	}
	return x
}

func rectOf(x *oxml.Element) (Rect, bool) {
	if x == nil {
		return Rect{}, false
	}
	off, ext := x.Child(NSA, "off"), x.Child(NSA, "ext")
	if off == nil || ext == nil {
		return Rect{}, false
	}
	var r Rect
	r.X, _ = intAttr(off, "x")
	r.Y, _ = intAttr(off, "y")
	r.CX, _ = intAttr(ext, "cx")
	r.CY, _ = intAttr(ext, "cy")
	return r, true
}

// Geometry returns position and size in EMU. Placeholders without their own
// transform inherit it from the layout, then the master.
func (sh *Shape) Geometry() Rect {
	if r, ok := rectOf(sh.xfrm(false)); ok {
		return r
	}
	if r, ok := sh.inheritedGeometry(); ok {
		return r
	}
	return Rect{}
}

// HasOwnGeometry reports whether the shape carries its own transform.
func (sh *Shape) HasOwnGeometry() bool {
	_, ok := rectOf(sh.xfrm(false))
	return ok
}

func (sh *Shape) inheritedGeometry() (Rect, bool) {
	if sh.placeholder() == nil || sh.slide == nil {
		return Rect{}, false
	}
	deck := sh.slide.deck
	layout := sh.slide.Layout()
	if layout == nil {
		return Rect{}, false
	}
	chain := []*opc.Part{layout}
	if master := deck.pkg.PartByRelType(layout.Name, opc.RelTypeSlideMaster); master != nil {
		chain = append(chain, master)
	}
	for _, part := range chain {
		doc, err := deck.doc(part.Name)
		if err != nil {
			continue
		}
		if match := matchPlaceholder(doc.Root, sh); match != nil {
			if r, ok := rectOf(match.xfrm(false)); ok {
				return r, true
			}
		}
	}
	return Rect{}, false
}

// matchPlaceholder finds the placeholder in root that sh inherits from:
// same idx first, then same type.
func matchPlaceholder(root *oxml.Element, sh *Shape) *Shape {
	var byType *Shape
	idx, typ := sh.placeholderIdx(), sh.PlaceholderType()
	for _, sp := range root.FindAll(NSP, "sp") {
		cand := &Shape{el: sp}
		if cand.placeholder() == nil {
			continue
		}
		if idx > 0 && cand.placeholderIdx() == idx {
			return cand
		}
		if byType == nil && sameFamily(cand.PlaceholderType(), typ) {
			byType = cand
		}
	}
	return byType
}

func sameFamily(a, b string) bool {
	norm := func(t string) string {
		if t == "ctrTitle" {
			return "title"
		}
		if t == "obj" || t == "subTitle" {
			return "body"
		}
		return t
	}
	return norm(a) == norm(b)
}

// SetGeometry writes the transform.
func (sh *Shape) SetGeometry(r Rect) {
	x := sh.xfrm(true)
	off := x.Child(NSA, "off")
	if off == nil {
		off = newA("off")
		x.Insert(0, off)
	}
	ext := x.Child(NSA, "ext")
	if ext == nil {
		ext = newA("ext")
		x.InsertAfter(ext, off)
	}
	setIntAttr(off, "x", r.X)
	setIntAttr(off, "y", r.Y)
	setIntAttr(ext, "cx", r.CX)
	setIntAttr(ext, "cy", r.CY)
}

// Rotation returns the clockwise rotation in degrees.
func (sh *Shape) Rotation() float64 {
	v, _ := intAttr(sh.xfrm(false), "rot")
	return float64(v) / 60000
}

// SetRotation sets the clockwise rotation in degrees.
func (sh *Shape) SetRotation(deg float64) {
	if sh.xfrm(false) == nil {
		sh.SetGeometry(sh.Geometry())
	}
	x := sh.xfrm(true)
	if deg == 0 {
		x.RemoveAttr("", "rot")
		return
	}
	setIntAttr(x, "rot", int64(deg*60000))
}

// TextFrame returns the shape's text body, or nil for shapes without one.
func (sh *Shape) TextFrame() *TextFrame {
	if sh.el.Local != "sp" {
		return nil
	}
	body := sh.el.Child(NSP, "txBody")
	if body == nil {
		return nil
	}
	return &TextFrame{el: body}
}

// Table returns the table of a table frame, or nil.
func (sh *Shape) Table() *Table {
	if sh.el.Local != "graphicFrame" {
		return nil
	}
	tbl := sh.el.Find(NSA, "tbl")
	if tbl == nil {
		return nil
	}
	return &Table{el: tbl}
}

// Blip returns the primary image reference of a picture, or nil.
func (sh *Shape) Blip() *oxml.Element {
	var fill *oxml.Element
	switch sh.el.Local {
	case "pic":
		fill = sh.el.Child(NSP, "blipFill")
	case "sp":
		if pr := sh.el.Child(NSP, "spPr"); pr != nil {
			fill = pr.Child(NSA, "blipFill")
		}
	}
	if fill == nil {
		return nil
	}
	return fill.Child(NSA, "blip")
}

var chartTypeNames = map[string]string{
	"lineChart":     "line",
	"line3DChart":   "line",
	"pieChart":      "pie",
	"pie3DChart":    "pie",
	"doughnutChart": "doughnut",
	"areaChart":     "area",
	"area3DChart":   "area",
	"scatterChart":  "scatter",
	"radarChart":    "radar",
	"bubbleChart":   "bubble",
	"stockChart":    "stock",
}

// ChartType returns the plot type of a chart frame: bar, column, line, pie,
// area, scatter and so on, or the raw element name for anything else.
func (sh *Shape) ChartType() string {
	if sh.Kind() != KindChart || sh.slide == nil {
		return ""
	}
	ref := sh.el.Find(NSC, "chart")
	if ref == nil {
		return ""
	}
	rid, _ := ref.Attr(NSR, "id")
	part, err := sh.slide.deck.pkg.RelatedPart(sh.slide.part.Name, rid)
	if err != nil {
		return ""
	}
	doc, err := sh.slide.deck.doc(part.Name)
	if err != nil {
		return ""
	}
	plot := doc.Root.Find(NSC, "plotArea")
	if plot == nil {
		return ""
	}
	for _, el := range plot.Elements() {
		if !strings.HasSuffix(el.Local, "Chart") {
			continue
		}
		if el.Local == "barChart" || el.Local == "bar3DChart" {
			if dir := el.Child(NSC, "barDir"); dir != nil && dir.AttrOr("", "val", "") == "col" {
				return "column"
			}
			return "bar"
		}
		if name, ok := chartTypeNames[el.Local]; ok {
			return name
		}
		return el.Local
	}
	return ""
}

// relIDs lists every relationship id the shape's XML refers to.
func (sh *Shape) relIDs() []string {
	var ids []string
	var walk func(*oxml.Element)
	walk = func(el *oxml.Element) {
		for _, a := range el.Attrs {
			if a.Space == NSR {
				ids = append(ids, a.Value)
			}
		}
		for _, c := range el.Elements() {
			walk(c)
		}
	}
	walk(sh.el)
	return ids
}

var fillElements = []string{"noFill", "solidFill", "gradFill", "blipFill", "pattFill", "grpFill"}

func solidFill(hex string) *oxml.Element {
	return fragment(`<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, esc(hex))
}

// SetFillColor replaces the shape fill with a solid colour ("RRGGBB").
func (sh *Shape) SetFillColor(hex string) {
	pr := sh.spPr()
	removeAll(pr, fillElements...)
	insertBeforeAny(pr, solidFill(hex), "ln", "effectLst", "effectDag", "scene3d", "sp3d", "extLst")
}

func (sh *Shape) line() *oxml.Element {
	pr := sh.spPr()
	ln := pr.Child(NSA, "ln")
	if ln == nil {
		ln = newA("ln")
		insertBeforeAny(pr, ln, "effectLst", "effectDag", "scene3d", "sp3d", "extLst")
	}
	return ln
}

// SetLineColor sets a solid outline colour.
func (sh *Shape) SetLineColor(hex string) {
	ln := sh.line()
	removeAll(ln, "noFill", "solidFill", "gradFill", "pattFill")
	ln.Insert(0, solidFill(hex))
}

// SetLineWidth sets the outline width in EMU.
func (sh *Shape) SetLineWidth(emu int64) {
	setIntAttr(sh.line(), "w", emu)
}

// FillColor returns the solid fill colour, if the shape has one.
func (sh *Shape) FillColor() (string, bool) {
	pr := sh.el.Child(NSP, "spPr")
	if pr == nil {
		return "", false
	}
	if fill := pr.Child(NSA, "solidFill"); fill != nil {
		if clr := fill.Child(NSA, "srgbClr"); clr != nil {
			return clr.Attr("", "val")
		}
	}
	return "", false
}

// Crop fractions of the source image, as stored in a:srcRect.
type Crop struct {
	Left, Right, Top, Bottom float64
}

// SetCrop writes a:srcRect on a picture. A zero crop removes it.
func (sh *Shape) SetCrop(c Crop) {
	fill := sh.el.Child(NSP, "blipFill")
	if fill == nil {
		return
	}
	fill.RemoveChildren(NSA, "srcRect")
	if c == (Crop{}) {
		return
	}
	rect := newA("srcRect")
	for _, side := range []struct {
		name string
		v    float64
	}{{"l", c.Left}, {"t", c.Top}, {"r", c.Right}, {"b", c.Bottom}} {
		if side.v != 0 {
			rect.SetAttr("", "", side.name, strconv.Itoa(int(side.v*100000+0.5)))
		}
	}
	blip := fill.Child(NSA, "blip")
	if blip != nil {
		fill.InsertAfter(rect, blip)
	} else {
		fill.Insert(0, rect)
	}
}

// Crop returns the picture's crop fractions.
func (sh *Shape) Crop() Crop {
	fill := sh.el.Child(NSP, "blipFill")
	if fill == nil {
		return Crop{}
	}
	rect := fill.Child(NSA, "srcRect")
	if rect == nil {
		return Crop{}
	}
	frac := func(name string) float64 {
		v, _ := intAttr(rect, name)
		return float64(v) / 100000
	}
	return Crop{Left: frac("l"), Right: frac("r"), Top: frac("t"), Bottom: frac("b")}
}
