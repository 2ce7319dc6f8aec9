package pptx

import (
	"sort"
	"strconv"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/opc"
	"github.com/klytics/slidekit/internal/formats/pptx/oxml"
)

// Slide is one slide part of a deck.
type Slide struct {
	deck *Deck
	part *opc.Part
	doc  *oxml.Document
}

// PartName returns the slide's part name, e.g. /ppt/slides/slide3.xml.
func (s *Slide) PartName() string { return s.part.Name }

// Deck returns the deck the slide belongs to.
func (s *Slide) Deck() *Deck { return s.deck }

// Number returns the 1-based position of the slide, or 0 when it is no longer
// in the deck.
func (s *Slide) Number() int {
	for i, other := range s.deck.Slides() {
		if other == s {
			return i + 1
		}
	}
	return 0
}

func (s *Slide) spTree() *oxml.Element {
	root := s.doc.Root
	cSld := root.Child(NSP, "cSld")
	if cSld == nil {
		cSld = newP("cSld")
		root.Insert(0, cSld)
	}
	tree := cSld.Child(NSP, "spTree")
	if tree == nil {
		tree = fragment(`<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree>`)
		cSld.Append(tree)
	}
	return tree
}

var shapeElements = map[string]bool{
	"sp":           true,
	"pic":          true,
	"graphicFrame": true,
	"grpSp":        true,
	"cxnSp":        true,
}

func shapesIn(s *Slide, container *oxml.Element) []*Shape {
	var out []*Shape
	for _, el := range container.Elements() {
		if el.Space == NSP && shapeElements[el.Local] {
			out = append(out, &Shape{slide: s, el: el})
		}
	}
	return out
}

// Shapes returns the top-level shapes in z-order.
func (s *Slide) Shapes() []*Shape {
	return shapesIn(s, s.spTree())
}

// AllShapes returns every shape, descending into groups.
func (s *Slide) AllShapes() []*Shape {
	var out []*Shape
	var walk func([]*Shape)
	walk = func(shapes []*Shape) {
		for _, sh := range shapes {
			out = append(out, sh)
			if sh.Kind() == KindGroup {
				walk(shapesIn(s, sh.el))
			}
		}
	}
	walk(s.Shapes())
	return out
}

// ShapeByID finds a shape anywhere on the slide.
func (s *Slide) ShapeByID(id int) (*Shape, error) {
	for _, sh := range s.AllShapes() {
		if sh.ID() == id {
			return sh, nil
		}
	}
	return nil, errinfo.NotFound("shape", "shape with ID %d not found on slide %d", id, s.Number())
}

// ShapeByName finds the first shape with the given name.
func (s *Slide) ShapeByName(name string) (*Shape, error) {
	for _, sh := range s.AllShapes() {
		if sh.Name() == name {
			return sh, nil
		}
	}
	return nil, errinfo.NotFound("shape", "shape named %q not found on slide %d", name, s.Number())
}

// RemoveShape deletes a shape and the relationships only it used.
func (s *Slide) RemoveShape(sh *Shape) {
	ids := sh.relIDs()
	sh.el.Detach()
	s.dropUnusedRels(ids)
}

// dropUnusedRels removes the relationships among ids that no shape on the
// slide still refers to.
func (s *Slide) dropUnusedRels(ids []string) {
	if len(ids) == 0 {
		return
	}
	still := make(map[string]bool)
	for _, other := range s.AllShapes() {
		for _, id := range other.relIDs() {
			still[id] = true
		}
	}
	for _, id := range ids {
		if !still[id] {
			s.deck.pkg.DropRel(s.part.Name, id)
		}
	}
}

// NextShapeID returns one past the highest cNvPr id on the slide.
func (s *Slide) NextShapeID() int {
	max := 0
	for _, el := range s.doc.Root.FindAll(NSP, "cNvPr") {
		if v, ok := el.Attr("", "id"); ok {
			if n, err := strconv.Atoi(v); err == nil && n > max {
				max = n
			}
		}
	}
	return max + 1
}

func (s *Slide) appendShape(el *oxml.Element) *Shape {
	tree := s.spTree()
	// extLst, when present, must stay last
	if ext := tree.Child(NSP, "extLst"); ext != nil {
		tree.InsertBefore(el, ext)
	} else {
		tree.Append(el)
	}
	return &Shape{slide: s, el: el}
}

// Layout returns the slide's layout part.
func (s *Slide) Layout() *opc.Part {
	return s.deck.pkg.PartByRelType(s.part.Name, opc.RelTypeSlideLayout)
}

// Placeholders returns the placeholder shapes of the slide.
func (s *Slide) Placeholders() []*Shape {
	var out []*Shape
	for _, sh := range s.Shapes() {
		if sh.placeholder() != nil {
			out = append(out, sh)
		}
	}
	return out
}

// Title returns the text of the title placeholder.
func (s *Slide) Title() string {
	for _, sh := range s.Placeholders() {
		switch sh.PlaceholderType() {
		case "title", "ctrTitle":
			if tf := sh.TextFrame(); tf != nil {
				return strings.TrimSpace(tf.Text())
			}
		}
	}
	return ""
}

// Texts returns the non-empty paragraph texts of every shape, tables included.
func (s *Slide) Texts() []string {
	var out []string
	add := func(tf TextContainer) {
		for _, p := range tf.Paragraphs() {
			if t := strings.TrimSpace(p.Text()); t != "" {
				out = append(out, t)
			}
		}
	}
	for _, sh := range s.AllShapes() {
		if tf := sh.TextFrame(); tf != nil {
			add(tf)
		}
		if tbl := sh.Table(); tbl != nil {
			for _, c := range tbl.Cells() {
				add(c)
			}
		}
	}
	return out
}

// Notes returns the speaker notes text.
func (s *Slide) Notes() []string {
	part := s.deck.pkg.PartByRelType(s.part.Name, opc.RelTypeNotesSlide)
	if part == nil {
		return nil
	}
	doc, err := s.deck.doc(part.Name)
	if err != nil {
		return nil
	}
	var out []string
	for _, sp := range doc.Root.FindAll(NSP, "sp") {
		sh := &Shape{el: sp}
		if sh.PlaceholderType() != "body" {
			continue
		}
		if tf := sh.TextFrame(); tf != nil {
			for _, p := range tf.Paragraphs() {
				if t := strings.TrimSpace(p.Text()); t != "" {
					out = append(out, t)
				}
			}
		}
	}
	return out
}

// Tables returns the table shapes sorted top to bottom, then left to right.
func (s *Slide) Tables() []*Shape {
	var out []*Shape
	for _, sh := range s.AllShapes() {
		if sh.Kind() == KindTable {
			out = append(out, sh)
		}
	}
	sortByPosition(out)
	return out
}

func sortByPosition(shapes []*Shape) {
	sort.SliceStable(shapes, func(i, j int) bool {
		a, b := shapes[i].Geometry(), shapes[j].Geometry()
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}
