package editor

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/slidekit/internal/formats/pptx"
	"github.com/klytics/slidekit/internal/icons"
	"github.com/klytics/slidekit/internal/logging"
	"github.com/klytics/slidekit/internal/session"
)

const testIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256" fill="currentColor"><rect width="256" height="256" fill="none"/><circle cx="128" cy="128" r="96"/></svg>`

// fakeRaster records the requested size and returns a blank PNG of it.
type fakeRaster struct {
	px    int
	color string
	calls int
}

func (f *fakeRaster) Rasterize(svg []byte, color string, px int) ([]byte, error) {
	f.px, f.color = px, color
	f.calls++
	return encodePNG(px, px), nil
}

func encodePNG(w, h int) []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)))
	return buf.Bytes()
}

// newTestEditor returns an editor on a new deck with one blank slide and an
// icon store holding the named icons.
func newTestEditor(t *testing.T, iconNames ...string) (*Editor, *fakeRaster) {
	t.Helper()
	dir := t.TempDir()
	for _, n := range iconNames {
		if err := os.WriteFile(filepath.Join(dir, n+"-fill.svg"), []byte(testIcon), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	raster := &fakeRaster{}
	e := &Editor{
		Session: session.New(nil),
		Icons:   icons.NewStore(dir),
		Raster:  raster,
		Config:  DefaultSettings(),
		Logger:  logging.Nop(),
	}
	if err := e.Session.Create(""); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ManageSlide(SlideRequest{Action: "add", LayoutIndex: pptx.DefaultLayout}); err != nil {
		t.Fatal(err)
	}
	return e, raster
}

func testSlide(t *testing.T, e *Editor, n int) *pptx.Slide {
	t.Helper()
	deck, err := e.Session.Deck()
	if err != nil {
		t.Fatal(err)
	}
	s, err := deck.Slide(n)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func writeImage(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, encodePNG(w, h), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func ptr[T any](v T) *T { return &v }
