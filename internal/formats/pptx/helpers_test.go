package pptx

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

const inch = 914400

func newTestDeck(t *testing.T) *Deck {
	t.Helper()
	d, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

// newTestSlide returns a deck with one blank slide.
func newTestSlide(t *testing.T) (*Deck, *Slide) {
	t.Helper()
	d := newTestDeck(t)
	s, err := d.AddSlide(DefaultLayout, 0)
	if err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	return d, s
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func reopen(t *testing.T, d *Deck) *Deck {
	t.Helper()
	data, err := d.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	out, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	return out
}

func textbox(t *testing.T, s *Slide, text string) *Shape {
	t.Helper()
	sh, err := AddTextbox(s, Rect{X: inch, Y: inch, CX: 4 * inch, CY: inch}, TextboxSpec{Text: text})
	if err != nil {
		t.Fatalf("AddTextbox: %v", err)
	}
	return sh
}
