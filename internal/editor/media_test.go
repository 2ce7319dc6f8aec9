package editor

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/pptx"
	"github.com/klytics/slidekit/internal/geometry"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-4 }

func TestFitImage(t *testing.T) {
	e := New(nil, nil, nil)
	p, err := e.FitImage(geometry.Size{W: 1600, H: 900}, geometry.Box{W: 400, H: 300}, "fill")
	if err != nil {
		t.Fatal(err)
	}
	if !near(p.Crop.Left, 0.125) || !near(p.Crop.Right, 0.125) || p.Crop.Top != 0 {
		t.Errorf("crop = %+v", p.Crop)
	}
	if _, err := e.FitImage(geometry.Size{W: 0, H: 900}, geometry.Box{W: 400, H: 300}, "fit"); errinfo.KindOf(err) != errinfo.KindInvalidGeometry {
		t.Errorf("zero width: %v", err)
	}
	if _, err := e.FitImage(geometry.Size{W: 1, H: 1}, geometry.Box{W: 1, H: 1}, "zoom"); errinfo.KindOf(err) != errinfo.KindInvalidArgument {
		t.Errorf("bad mode: %v", err)
	}
}

func TestAddImageFill(t *testing.T) {
	e, _ := newTestEditor(t)
	path := writeImage(t, 1600, 900)
	added, err := e.AddImage(1, ImageRequest{Path: path, Left: ptr(1.0), Top: ptr(1.0), Width: ptr(4.0), Height: ptr(3.0), FitMode: "fill"})
	if err != nil {
		t.Fatal(err)
	}
	sh, _ := testSlide(t, e, 1).ShapeByID(added.ShapeID)
	c := sh.Crop()
	if !near(c.Left, 0.125) || !near(c.Right, 0.125) || c.Top != 0 || c.Bottom != 0 {
		t.Errorf("crop = %+v", c)
	}
	if g := sh.Geometry(); g.CX != geometry.Inches(4) || g.CY != geometry.Inches(3) {
		t.Errorf("box = %+v", g)
	}
	if !strings.Contains(added.String(), "Cropped: 12.5% left, 12.5% right") {
		t.Errorf("message:\n%s", added)
	}
}

func TestAddImageFitCenters(t *testing.T) {
	e, _ := newTestEditor(t)
	path := writeImage(t, 200, 100)
	added, err := e.AddImage(1, ImageRequest{Path: path, Left: ptr(0.0), Top: ptr(0.0), Width: ptr(4.0), Height: ptr(4.0), FitMode: "fit"})
	if err != nil {
		t.Fatal(err)
	}
	sh, _ := testSlide(t, e, 1).ShapeByID(added.ShapeID)
	g := sh.Geometry()
	if g.CX != geometry.Inches(4) || g.CY != geometry.Inches(2) || g.Y != geometry.Inches(1) {
		t.Errorf("box = %+v", g)
	}
	if (sh.Crop() != pptx.Crop{}) {
		t.Errorf("fit should not crop: %+v", sh.Crop())
	}
}

func TestAddImageReplaceDefaultsToFill(t *testing.T) {
	e, _ := newTestEditor(t)
	holder, err := e.AddShape(1, AutoShapeRequest{Type: "rectangle", Left: 1, Top: 1, Width: 3, Height: 3})
	if err != nil {
		t.Fatal(err)
	}
	added, err := e.AddImage(1, ImageRequest{Path: writeImage(t, 300, 100), Replace: ShapeRef{ID: holder.ShapeID}})
	if err != nil {
		t.Fatal(err)
	}
	if added.Mode != geometry.ModeFill {
		t.Errorf("mode = %q", added.Mode)
	}
	s := testSlide(t, e, 1)
	if len(s.Shapes()) != 1 {
		t.Errorf("slide has %d shapes, want the picture only", len(s.Shapes()))
	}
}

func TestAddImageMissingFileKeepsTarget(t *testing.T) {
	e, _ := newTestEditor(t)
	holder, err := e.AddShape(1, AutoShapeRequest{Type: "rectangle", Width: 1, Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.AddImage(1, ImageRequest{Path: filepath.Join(t.TempDir(), "nope.png"), Replace: ShapeRef{ID: holder.ShapeID}})
	if errinfo.KindOf(err) != errinfo.KindNotFound {
		t.Fatalf("err = %v", err)
	}
	if _, err := testSlide(t, e, 1).ShapeByID(holder.ShapeID); err != nil {
		t.Error("target removed although the image was missing")
	}
}

func TestInsertIconReplacesPlaceholder(t *testing.T) {
	e, raster := newTestEditor(t, "star")
	holder, err := e.AddShape(1, AutoShapeRequest{Type: "oval", Left: 2, Top: 3, Width: 0.8, Height: 0.6})
	if err != nil {
		t.Fatal(err)
	}
	added, err := e.InsertIcon(1, IconRequest{Name: "star", Replace: ShapeRef{ID: holder.ShapeID}})
	if err != nil {
		t.Fatal(err)
	}
	if raster.px != 96 || raster.color != "#333333" {
		t.Errorf("raster px=%d color=%s", raster.px, raster.color)
	}

	s := testSlide(t, e, 1)
	if _, err := s.ShapeByID(holder.ShapeID); err == nil {
		t.Error("placeholder still present")
	}
	sh, err := s.ShapeByID(added.ShapeID)
	if err != nil {
		t.Fatal(err)
	}
	want := pptx.Rect{X: geometry.Inches(2), Y: geometry.Inches(3), CX: geometry.Inches(0.6), CY: geometry.Inches(0.6)}
	if sh.Geometry() != want {
		t.Errorf("icon box = %+v, want %+v", sh.Geometry(), want)
	}
	if _, ok := pptx.VectorAsset(sh); !ok {
		t.Error("icon has no vector asset")
	}
	if strings.Contains(added.String(), "with color") {
		t.Errorf("default colour should not be reported:\n%s", added)
	}
}

func TestInsertIconScalesFallback(t *testing.T) {
	e, raster := newTestEditor(t, "star")
	added, err := e.InsertIcon(1, IconRequest{Name: "star", Size: ptr(2.0), Color: "#FF0000"})
	if err != nil {
		t.Fatal(err)
	}
	if raster.px != 192 {
		t.Errorf("raster px = %d, want 192", raster.px)
	}
	if !strings.Contains(added.String(), "with color #FF0000") {
		t.Errorf("message:\n%s", added)
	}
}

func TestInsertIconValidatesBeforeDeleting(t *testing.T) {
	e, raster := newTestEditor(t, "star")
	holder, err := e.AddShape(1, AutoShapeRequest{Type: "rectangle", Width: 1, Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		req  IconRequest
		kind errinfo.Kind
	}{
		{"missing icon", IconRequest{Name: "sttar", Replace: ShapeRef{ID: holder.ShapeID}}, errinfo.KindNotFound},
		{"bad colour", IconRequest{Name: "star", Color: "nope", Replace: ShapeRef{ID: holder.ShapeID}}, errinfo.KindInvalidArgument},
		{"missing target", IconRequest{Name: "star", Replace: ShapeRef{ID: 404}}, errinfo.KindNotFound},
		{"zero size", IconRequest{Name: "star", Size: ptr(0.0), Replace: ShapeRef{ID: holder.ShapeID}}, errinfo.KindInvalidGeometry},
	}
	for _, c := range cases {
		if _, err := e.InsertIcon(1, c.req); errinfo.KindOf(err) != c.kind {
			t.Errorf("%s: err = %v", c.name, err)
		}
	}
	s := testSlide(t, e, 1)
	if len(s.Shapes()) != 1 {
		t.Errorf("slide has %d shapes, want the untouched placeholder", len(s.Shapes()))
	}
	if raster.calls != 0 {
		t.Errorf("rasterized %d times for failed inserts", raster.calls)
	}
}

func TestInsertVectorIcon(t *testing.T) {
	e, _ := newTestEditor(t)
	id, err := e.InsertVectorIcon(1, VectorIcon{SVG: []byte(testIcon), Color: "#0066CC", Left: 1, Top: 1, Size: 1})
	if err != nil {
		t.Fatal(err)
	}
	sh, err := testSlide(t, e, 1).ShapeByID(id)
	if err != nil {
		t.Fatal(err)
	}
	rid, ok := pptx.VectorAsset(sh)
	if !ok {
		t.Fatal("no vector asset")
	}

	path := filepath.Join(t.TempDir(), "icon.pptx")
	if err := e.Session.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	back, err := pptx.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := back.Slide(1)
	sh, err = s.ShapeByID(id)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := pptx.VectorAsset(sh); got != rid {
		t.Errorf("vector rel after reload = %q, want %q", got, rid)
	}

	if _, err := e.InsertVectorIcon(1, VectorIcon{SVG: nil, Size: 1}); errinfo.KindOf(err) != errinfo.KindInvalidArgument {
		t.Errorf("empty svg: %v", err)
	}
}

func TestRepairContentTypes(t *testing.T) {
	e, _ := newTestEditor(t)
	if _, err := e.RepairContentTypes(""); errinfo.KindOf(err) != errinfo.KindInvalidArgument {
		t.Errorf("no path: %v", err)
	}
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := e.Session.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	res, err := e.RepairContentTypes("")
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed || res.Path != path {
		t.Errorf("repair = %+v", res)
	}
	if _, err := e.RepairContentTypes(filepath.Join(t.TempDir(), "none.pptx")); errinfo.KindOf(err) != errinfo.KindNotFound {
		t.Errorf("missing file: %v", err)
	}
}

func TestListIcons(t *testing.T) {
	e, _ := newTestEditor(t, "star", "user")
	out := e.ListIcons()
	if !strings.HasPrefix(out, "=== Phosphor Icons (Fill Variant) ===") || !strings.Contains(out, "2 icons installed") {
		t.Errorf("list:\n%s", out)
	}
}
