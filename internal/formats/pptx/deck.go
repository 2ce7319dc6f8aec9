// Package pptx edits PowerPoint decks: slides, shapes, text, tables, charts
// and pictures, on top of an OPC package and a namespace-preserving XML tree.
package pptx

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/opc"
	"github.com/klytics/slidekit/internal/formats/pptx/oxml"
)

// Deck is an open presentation.
type Deck struct {
	pkg      *opc.Package
	presName string
	docs     map[string]*oxml.Document
	slides   map[string]*Slide
}

// Open reads the deck at path.
func Open(path string) (*Deck, error) {
	pkg, err := opc.Open(path)
	if err != nil {
		return nil, err
	}
	return newDeck(pkg)
}

// OpenBytes reads a deck from memory.
func OpenBytes(data []byte) (*Deck, error) {
	pkg, err := opc.OpenBytes(data)
	if err != nil {
		return nil, err
	}
	return newDeck(pkg)
}

func newDeck(pkg *opc.Package) (*Deck, error) {
	pres := pkg.PartByRelType("/", opc.RelTypeOfficeDocument)
	if pres == nil {
		return nil, fmt.Errorf("invalid .pptx file — no presentation part found")
	}
	if !strings.Contains(pres.ContentType, "presentationml") {
		return nil, fmt.Errorf("invalid .pptx file — main part is %s", pres.ContentType)
	}
	d := &Deck{
		pkg:      pkg,
		presName: pres.Name,
		docs:     make(map[string]*oxml.Document),
		slides:   make(map[string]*Slide),
	}
	if _, err := d.doc(pres.Name); err != nil {
		return nil, err
	}
	return d, nil
}

// Package exposes the underlying OPC package.
func (d *Deck) Package() *opc.Package { return d.pkg }

func (d *Deck) doc(name string) (*oxml.Document, error) {
	if doc, ok := d.docs[name]; ok {
		return doc, nil
	}
	part := d.pkg.Part(name)
	if part == nil {
		return nil, errinfo.NotFound("load part", "part %s not found", name)
	}
	doc, err := oxml.Parse(part.Data)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", name, err)
	}
	d.docs[name] = doc
	return doc, nil
}

func (d *Deck) presentation() *oxml.Element {
	return d.docs[d.presName].Root
}

func (d *Deck) flush() {
	for name, doc := range d.docs {
		if part := d.pkg.Part(name); part != nil {
			part.Data = doc.Bytes()
		}
	}
}

// WriteTo saves the deck to w.
func (d *Deck) WriteTo(w io.Writer) (int64, error) {
	d.flush()
	var buf bytes.Buffer
	if err := d.pkg.Save(&buf); err != nil {
		return 0, err
	}
	d.forgetPruned()
	return buf.WriteTo(w)
}

// Bytes returns the saved deck.
func (d *Deck) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the deck to path.
func (d *Deck) Save(path string) error {
	d.flush()
	if err := d.pkg.SaveFile(path); err != nil {
		return err
	}
	d.forgetPruned()
	return nil
}

func (d *Deck) forgetPruned() {
	for name := range d.docs {
		if d.pkg.Part(name) == nil {
			delete(d.docs, name)
			delete(d.slides, name)
		}
	}
}

func (d *Deck) slideIDList() *oxml.Element {
	pres := d.presentation()
	lst := pres.Child(NSP, "sldIdLst")
	if lst == nil {
		lst = newP("sldIdLst")
		// sldIdLst follows sldMasterIdLst, notesMasterIdLst and handoutMasterIdLst
		var after *oxml.Element
		for _, name := range []string{"sldMasterIdLst", "notesMasterIdLst", "handoutMasterIdLst"} {
			if el := pres.Child(NSP, name); el != nil {
				after = el
			}
		}
		if after != nil {
			pres.InsertAfter(lst, after)
		} else {
			pres.Insert(0, lst)
		}
	}
	return lst
}

// Slides returns the slides in presentation order.
func (d *Deck) Slides() []*Slide {
	var out []*Slide
	lst := d.presentation().Child(NSP, "sldIdLst")
	if lst == nil {
		return nil
	}
	for _, sldID := range lst.ChildrenNamed(NSP, "sldId") {
		rid, _ := sldID.Attr(NSR, "id")
		part, err := d.pkg.RelatedPart(d.presName, rid)
		if err != nil {
			continue
		}
		s, err := d.slideFor(part)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (d *Deck) slideFor(part *opc.Part) (*Slide, error) {
	if s, ok := d.slides[part.Name]; ok {
		return s, nil
	}
	doc, err := d.doc(part.Name)
	if err != nil {
		return nil, err
	}
	s := &Slide{deck: d, part: part, doc: doc}
	d.slides[part.Name] = s
	return s, nil
}

// SlideCount returns the number of slides.
func (d *Deck) SlideCount() int {
	lst := d.presentation().Child(NSP, "sldIdLst")
	if lst == nil {
		return 0
	}
	return len(lst.ChildrenNamed(NSP, "sldId"))
}

// Slide returns slide n, counting from 1.
func (d *Deck) Slide(n int) (*Slide, error) {
	slides := d.Slides()
	if n < 1 || n > len(slides) {
		return nil, errinfo.NotFound("slide", "slide %d not found. Presentation has %d slides", n, len(slides))
	}
	return slides[n-1], nil
}

// SlideSize returns the slide width and height in EMU.
func (d *Deck) SlideSize() (int64, int64) {
	sz := d.presentation().Child(NSP, "sldSz")
	cx, _ := intAttr(sz, "cx")
	cy, _ := intAttr(sz, "cy")
	return cx, cy
}

// Layout is a slide layout of the first master.
type Layout struct {
	Index int
	Name  string
	Part  *opc.Part
}

func (d *Deck) master() (*opc.Part, error) {
	master := d.pkg.PartByRelType(d.presName, opc.RelTypeSlideMaster)
	if master == nil {
		return nil, fmt.Errorf("presentation has no slide master")
	}
	return master, nil
}

// Layouts lists the layouts of the first master in master order.
func (d *Deck) Layouts() ([]*Layout, error) {
	master, err := d.master()
	if err != nil {
		return nil, err
	}
	doc, err := d.doc(master.Name)
	if err != nil {
		return nil, err
	}
	var out []*Layout
	lst := doc.Root.Child(NSP, "sldLayoutIdLst")
	if lst == nil {
		return nil, nil
	}
	for _, id := range lst.ChildrenNamed(NSP, "sldLayoutId") {
		rid, _ := id.Attr(NSR, "id")
		part, err := d.pkg.RelatedPart(master.Name, rid)
		if err != nil {
			continue
		}
		ldoc, err := d.doc(part.Name)
		if err != nil {
			return nil, err
		}
		name := ""
		if cSld := ldoc.Root.Child(NSP, "cSld"); cSld != nil {
			name, _ = cSld.Attr("", "name")
		}
		out = append(out, &Layout{Index: len(out), Name: name, Part: part})
	}
	return out, nil
}

// Title returns the document title from the core properties, if any.
func (d *Deck) Title() string {
	core := d.pkg.PartByRelType("/", opc.RelTypeCoreProps)
	if core == nil {
		return ""
	}
	doc, err := d.doc(core.Name)
	if err != nil {
		return ""
	}
	for _, el := range doc.Root.Elements() {
		if el.Local == "title" {
			return el.Text()
		}
	}
	return ""
}
