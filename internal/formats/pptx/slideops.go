package pptx

import (
	"fmt"
	"strconv"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/opc"
	"github.com/klytics/slidekit/internal/formats/pptx/oxml"
)

// DefaultLayout is the layout index used when none is given: Blank in the
// stock template.
const DefaultLayout = 6

const blankSlideXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="` + NSA + `" xmlns:r="` + NSR + `" xmlns:p="` + NSP + `"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr></p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`

var placeholderNames = map[string]string{
	"title":    "Title",
	"ctrTitle": "Title",
	"subTitle": "Subtitle",
	"body":     "Text Placeholder",
	"obj":      "Content Placeholder",
	"pic":      "Picture Placeholder",
	"chart":    "Chart Placeholder",
	"tbl":      "Table Placeholder",
	"clipArt":  "ClipArt Placeholder",
	"dgm":      "SmartArt Placeholder",
	"media":    "Media Placeholder",
}

var textPlaceholders = map[string]bool{"title": true, "ctrTitle": true, "subTitle": true, "body": true, "obj": true}

// ResolveLayout maps a requested layout index onto the deck's layouts. An
// index past the end falls back to DefaultLayout, or to the last layout
// when there are fewer.
func (d *Deck) ResolveLayout(index int) (*Layout, error) {
	layouts, err := d.Layouts()
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, errinfo.NotFound("layout", "presentation has no slide layouts")
	}
	if index < 0 {
		return nil, errinfo.InvalidArgument("layout", "layout_index %d must not be negative", index)
	}
	if index >= len(layouts) {
		index = DefaultLayout
		if index >= len(layouts) {
			index = len(layouts) - 1
		}
	}
	return layouts[index], nil
}

// AddSlide appends a slide on the given layout with the layout's
// placeholders, then moves it to position when 1 <= position <= count.
func (d *Deck) AddSlide(layoutIndex, position int) (*Slide, error) {
	layout, err := d.ResolveLayout(layoutIndex)
	if err != nil {
		return nil, err
	}
	s, err := d.newSlide(layout.Part, []byte(blankSlideXML))
	if err != nil {
		return nil, err
	}
	ldoc, err := d.doc(layout.Part.Name)
	if err != nil {
		return nil, err
	}
	if tree := ldoc.Root.Find(NSP, "spTree"); tree != nil {
		for _, src := range shapesIn(nil, tree) {
			if el := clonePlaceholder(src, s.NextShapeID()); el != nil {
				s.appendShape(el)
			}
		}
	}
	d.placeAt(s, position)
	return s, nil
}

func clonePlaceholder(src *Shape, id int) *oxml.Element {
	ph := src.placeholder()
	if ph == nil || src.el.Local != "sp" {
		return nil
	}
	typ := ph.AttrOr("", "type", "obj")
	switch typ {
	case "dt", "ftr", "sldNum", "hdr":
		return nil
	}
	attrs := ""
	if v, ok := ph.Attr("", "type"); ok {
		attrs += fmt.Sprintf(` type="%s"`, esc(v))
	}
	for _, name := range []string{"orient", "sz", "idx"} {
		if v, ok := ph.Attr("", name); ok && !(name == "idx" && v == "0") {
			attrs += fmt.Sprintf(` %s="%s"`, name, esc(v))
		}
	}
	base, ok := placeholderNames[typ]
	if !ok {
		base = "Placeholder"
	}
	body := ""
	if textPlaceholders[typ] {
		body = `<p:txBody><a:bodyPr/><a:lstStyle/><a:p/></p:txBody>`
	}
	return fragment(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s %d"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph%s/></p:nvPr></p:nvSpPr><p:spPr/>%s</p:sp>`,
		id, esc(base), id-1, attrs, body)
}

// newSlide stores data as a new slide part related to layout and appends it
// to the slide list.
func (d *Deck) newSlide(layout *opc.Part, data []byte) (*Slide, error) {
	name := d.pkg.NextPartName("/ppt/slides/slide%d.xml")
	part := d.pkg.AddPart(name, opc.CTSlide, data)
	d.pkg.AddRel(name, layout.Name, opc.RelTypeSlideLayout)
	rid := d.pkg.AddRel(d.presName, name, opc.RelTypeSlide)

	lst := d.slideIDList()
	next := int64(256)
	for _, el := range lst.ChildrenNamed(NSP, "sldId") {
		if v, ok := intAttr(el, "id"); ok && v >= next {
			next = v + 1
		}
	}
	sldID := newP("sldId")
	sldID.SetAttr("", "", "id", strconv.FormatInt(next, 10))
	sldID.SetAttr("r", NSR, "id", rid)
	lst.Append(sldID)
	return d.slideFor(part)
}

func (d *Deck) placeAt(s *Slide, position int) {
	count := d.SlideCount()
	if position >= 1 && position <= count {
		_ = d.MoveSlide(count, position)
	}
}

func (d *Deck) sldIDs() []*oxml.Element {
	lst := d.presentation().Child(NSP, "sldIdLst")
	if lst == nil {
		return nil
	}
	return lst.ChildrenNamed(NSP, "sldId")
}

// DeleteSlide removes slide n. Its part leaves the package at save time.
func (d *Deck) DeleteSlide(n int) error {
	ids := d.sldIDs()
	if n < 1 || n > len(ids) {
		return errinfo.NotFound("delete slide", "slide_number %d is out of range (1-%d)", n, len(ids))
	}
	el := ids[n-1]
	rid, _ := el.Attr(NSR, "id")
	el.Detach()
	d.pkg.DropRel(d.presName, rid)
	return nil
}

// MoveSlide moves the slide at from to position to, both 1-based.
func (d *Deck) MoveSlide(from, to int) error {
	ids := d.sldIDs()
	if from < 1 || from > len(ids) {
		return errinfo.NotFound("move slide", "slide_number %d is out of range (1-%d)", from, len(ids))
	}
	if to < 1 || to > len(ids) {
		return errinfo.InvalidArgument("move slide", "target_position %d is out of range (1-%d)", to, len(ids))
	}
	if from == to {
		return nil
	}
	el := ids[from-1]
	lst := el.Parent()
	el.Detach()
	rest := lst.ChildrenNamed(NSP, "sldId")
	if to-1 < len(rest) {
		lst.InsertBefore(el, rest[to-1])
	} else {
		lst.InsertAfter(el, rest[len(rest)-1])
	}
	return nil
}

// DuplicateSlide copies slide n to the end of the deck, or to position when
// it is in range. Media and layout relationships are shared with the
// source. Chart frames are dropped, since a chart part belongs to one slide;
// their names are returned.
func (d *Deck) DuplicateSlide(n, position int) (*Slide, []string, error) {
	src, err := d.Slide(n)
	if err != nil {
		return nil, nil, err
	}
	layout := src.Layout()
	if layout == nil {
		return nil, nil, errinfo.MalformedShape("duplicate slide", "slide %d has no layout", n)
	}
	d.flush()
	s, err := d.newSlide(layout, append([]byte(nil), src.part.Data...))
	if err != nil {
		return nil, nil, err
	}
	d.pkg.CopyRels(src.part.Name, s.part.Name)
	for _, rel := range append([]*opc.Relationship(nil), d.pkg.Rels(s.part.Name).All()...) {
		if rel.Type == opc.RelTypeNotesSlide {
			d.pkg.DropRel(s.part.Name, rel.ID)
		}
	}

	var skipped []string
	for _, sh := range s.AllShapes() {
		if sh.Kind() == KindChart {
			skipped = append(skipped, sh.Name())
			s.RemoveShape(sh)
		}
	}
	d.placeAt(s, position)
	return s, skipped, nil
}
