package pptx

import (
	"fmt"
	"strings"
)

// SlideText is the extracted text of one slide.
type SlideText struct {
	Number      int      `json:"number"`
	Title       string   `json:"title,omitempty"`
	TextContent []string `json:"textContent"`
	Notes       []string `json:"notes,omitempty"`
}

// Presentation is the plain-text view of a deck.
type Presentation struct {
	Title  string      `json:"title,omitempty"`
	Slides []SlideText `json:"slides"`
}

// ReadFile opens a .pptx file and extracts its text.
func ReadFile(path string) (*Presentation, error) {
	d, err := Open(path)
	if err != nil {
		return nil, err
	}
	return Extract(d), nil
}

// Parse extracts the text of a .pptx held in memory.
func Parse(data []byte) (*Presentation, error) {
	d, err := OpenBytes(data)
	if err != nil {
		return nil, err
	}
	return Extract(d), nil
}

// Extract collects slide titles, texts and notes in presentation order.
func Extract(d *Deck) *Presentation {
	pres := &Presentation{Title: d.Title()}
	for i, s := range d.Slides() {
		pres.Slides = append(pres.Slides, SlideText{
			Number:      i + 1,
			Title:       s.Title(),
			TextContent: s.Texts(),
			Notes:       s.Notes(),
		})
	}
	return pres
}

// PlainText returns all slide content as plain text.
func (p *Presentation) PlainText() string {
	var b strings.Builder
	for _, slide := range p.Slides {
		fmt.Fprintf(&b, "--- Slide %d ---\n", slide.Number)
		if slide.Title != "" {
			fmt.Fprintf(&b, "%s\n\n", slide.Title)
		}
		for _, text := range slide.TextContent {
			if text == slide.Title {
				continue
			}
			fmt.Fprintf(&b, "%s\n", text)
		}
		if len(slide.Notes) > 0 {
			b.WriteString("\nNotes:\n")
			for _, n := range slide.Notes {
				fmt.Fprintf(&b, "%s\n", n)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
