package pptx

import (
	"strings"
	"testing"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/opc"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256"><circle cx="128" cy="128" r="96" fill="#FF0000"/></svg>`

func picture(t *testing.T, s *Slide) *Shape {
	t.Helper()
	sh, err := AddPicture(s, testPNG(t, 32, 32), Rect{X: inch, Y: inch, CX: inch, CY: inch})
	if err != nil {
		t.Fatalf("AddPicture: %v", err)
	}
	return sh
}

func attachedPart(t *testing.T, sh *Shape, rid string) *opc.Part {
	t.Helper()
	part, err := sh.Slide().Deck().Package().RelatedPart(sh.Slide().PartName(), rid)
	if err != nil {
		t.Fatalf("RelatedPart(%s): %v", rid, err)
	}
	return part
}

func TestAttachVectorAsset(t *testing.T) {
	d, s := newTestSlide(t)
	sh := picture(t, s)
	before := d.Package().Rels(s.PartName()).Len()
	blipRID, _ := sh.Blip().Attr(NSR, "embed")

	rid, err := AttachVectorAsset(sh, []byte(testSVG), opc.CTSVG)
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Package().Rels(s.PartName()).Len(); got != before+1 {
		t.Errorf("slide rels = %d, want %d", got, before+1)
	}
	part := attachedPart(t, sh, rid)
	if part.Name != "/ppt/media/image2.svg" || part.ContentType != opc.CTSVG {
		t.Errorf("part = %s (%s)", part.Name, part.ContentType)
	}

	back := reopen(t, d)
	s1, _ := back.Slide(1)
	pic := s1.Shapes()[0]
	got, ok := VectorAsset(pic)
	if !ok || got != rid {
		t.Fatalf("VectorAsset = %q, %v", got, ok)
	}
	if v, _ := pic.Blip().Attr(NSR, "embed"); v != blipRID {
		t.Errorf("bitmap reference changed to %s", v)
	}
	if p := attachedPart(t, pic, rid); string(p.Data) != testSVG {
		t.Error("svg bytes differ after reload")
	}
	ext := pic.Blip().Child(NSA, "extLst").Child(NSA, "ext")
	if ext.AttrOr("", "uri", "") != SVGExtURI {
		t.Errorf("ext uri = %q", ext.AttrOr("", "uri", ""))
	}
	if !strings.Contains(pic.Element().String(), "xmlns:asvg=") {
		t.Error("asvg namespace not declared")
	}
}

func TestAttachVectorAssetNeverReusesNumbers(t *testing.T) {
	d, s := newTestSlide(t)
	first := picture(t, s)
	second := picture(t, s)

	rid1, err := AttachVectorAsset(first, []byte(testSVG), opc.CTSVG)
	if err != nil {
		t.Fatal(err)
	}
	if got := attachedPart(t, first, rid1).Name; got != "/ppt/media/image3.svg" {
		t.Fatalf("first asset = %s", got)
	}

	// drop the first picture and its asset from the package
	s.RemoveShape(first)
	d.Package().Prune()

	rid2, err := AttachVectorAsset(second, []byte(testSVG), opc.CTSVG)
	if err != nil {
		t.Fatal(err)
	}
	if got := attachedPart(t, second, rid2).Name; got != "/ppt/media/image4.svg" {
		t.Errorf("second asset = %s, want image4.svg", got)
	}
}

func TestAttachVectorAssetNeedsBlip(t *testing.T) {
	d, s := newTestSlide(t)
	sh := textbox(t, s, "no image")
	partsBefore := len(d.Package().Parts())

	_, err := AttachVectorAsset(sh, []byte(testSVG), opc.CTSVG)
	if errinfo.KindOf(err) != errinfo.KindMalformedShape {
		t.Fatalf("err = %v, want MalformedShape", err)
	}
	if len(d.Package().Parts()) != partsBefore {
		t.Error("failed attach left a part behind")
	}
}

func TestAttachVectorAssetReplacesExtension(t *testing.T) {
	d, s := newTestSlide(t)
	sh := picture(t, s)
	rels := func(d *Deck) int { return d.Package().Rels(d.Slides()[0].PartName()).Len() }
	initial := reopen(t, d)
	before, parts := rels(initial), len(initial.Package().Parts())

	first, err := AttachVectorAsset(sh, []byte(testSVG), opc.CTSVG)
	if err != nil {
		t.Fatal(err)
	}
	rid, err := AttachVectorAsset(sh, []byte(testSVG), opc.CTSVG)
	if err != nil {
		t.Fatal(err)
	}
	exts := sh.Blip().Child(NSA, "extLst").ChildrenNamed(NSA, "ext")
	if len(exts) != 1 {
		t.Fatalf("ext entries = %d", len(exts))
	}
	if got, _ := VectorAsset(sh); got != rid {
		t.Errorf("VectorAsset = %s, want %s", got, rid)
	}
	if d.Package().Rels(s.PartName()).Get(first) != nil {
		t.Errorf("relationship %s of the replaced asset was kept", first)
	}

	saved := reopen(t, d)
	if got := rels(saved); got != before+1 {
		t.Errorf("slide relationships = %d, want %d", got, before+1)
	}
	if got := len(saved.Package().Parts()); got != parts+1 {
		t.Errorf("parts = %d, want %d", got, parts+1)
	}
}
