package icons

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klytics/slidekit/internal/errinfo"
)

const sample = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256" fill="currentColor"><rect width="256" height="256" fill="none"/><path d="M128,24A104,104,0,1,0,232,128,104.11,104.11,0,0,0,128,24Z" stroke="currentColor"/></svg>`

func newStore(t *testing.T, names ...string) *Store {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n+"-fill.svg"), []byte(sample), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return NewStore(dir)
}

func TestStoreLoad(t *testing.T) {
	s := newStore(t, "check-circle", "star")
	data, err := s.Load("check-circle")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != sample {
		t.Error("unexpected content")
	}
	if !s.Exists("star") || s.Exists("moon") || s.Exists("../star") {
		t.Error("Exists is wrong")
	}
	names, err := s.Names()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "check-circle" || names[1] != "star" {
		t.Errorf("names = %v", names)
	}
}

func TestStoreLoadMissingSuggests(t *testing.T) {
	s := newStore(t)
	_, err := s.Load("arrow")
	if errinfo.KindOf(err) != errinfo.KindNotFound {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "Similar icons: arrow-up") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestMakeRecolorable(t *testing.T) {
	out, err := MakeRecolorable([]byte(sample), "#0066CC")
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)
	if !strings.HasPrefix(got, `<svg fill="#0066cc" xmlns=`) {
		t.Errorf("root = %s", got[:40])
	}
	if strings.Contains(got, "currentColor") {
		t.Error("currentColor left behind")
	}
	if !strings.Contains(got, `fill="none"`) {
		t.Error(`fill="none" must be kept`)
	}
	if _, err := MakeRecolorable([]byte(sample), "teal"); err == nil {
		t.Error("expected colour error")
	}
}

func TestColorize(t *testing.T) {
	out, err := Colorize([]byte(sample), "FF0000")
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)
	if strings.Contains(got, "currentColor") || !strings.Contains(got, `stroke="#ff0000"`) {
		t.Errorf("colorized = %s", got)
	}
	if strings.Count(got, `<svg fill=`) != 0 {
		t.Error("root already had a fill; none should be added")
	}
}

func TestOKSVGRasterize(t *testing.T) {
	data, err := OKSVG{}.Rasterize([]byte(sample), "#333333", 96)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 96 {
		t.Errorf("bounds = %v", b)
	}
	if _, err := (OKSVG{}).Rasterize([]byte(sample), "#333333", 0); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestFallbackPixels(t *testing.T) {
	cases := []struct {
		size float64
		want int
	}{{0.5, 96}, {1, 96}, {2, 192}, {1.5, 144}}
	for _, c := range cases {
		if got := FallbackPixels(c.size, 96, 96); got != c.want {
			t.Errorf("FallbackPixels(%v) = %d, want %d", c.size, got, c.want)
		}
	}
}

func TestSimilar(t *testing.T) {
	got := Similar("CLOUD", 3)
	if len(got) != 3 || got[0] != "cloud" {
		t.Errorf("got %v", got)
	}
	if Similar("", 3) != nil {
		t.Error("empty name should match nothing")
	}
}
