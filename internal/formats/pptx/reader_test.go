package pptx

import (
	"strings"
	"testing"
)

func TestParseInvalidData(t *testing.T) {
	_, err := Parse([]byte("not a zip file"))
	if err == nil {
		t.Fatal("expected error for invalid data")
	}
}

func TestPlainTextSkipsRepeatedTitle(t *testing.T) {
	pres := &Presentation{
		Slides: []SlideText{
			{Number: 1, Title: "Agenda", TextContent: []string{"Agenda", "Budget", "Hiring"}},
			{Number: 2, TextContent: []string{"Untitled body"}, Notes: []string{"Speak slowly"}},
		},
	}
	want := "--- Slide 1 ---\nAgenda\n\nBudget\nHiring\n\n" +
		"--- Slide 2 ---\nUntitled body\n\nNotes:\nSpeak slowly\n\n"
	if got := pres.PlainText(); got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}
}

func TestExtractReadsNotesFreeDeck(t *testing.T) {
	d := newTestDeck(t)
	s, err := d.AddSlide(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, sh := range s.Placeholders() {
		switch sh.PlaceholderType() {
		case "ctrTitle":
			SetPlainText(sh.TextFrame(), "Launch Plan")
		case "subTitle":
			SetPlainText(sh.TextFrame(), "Q3 rollout")
		}
	}
	pres, err := Parse(mustBytes(t, d))
	if err != nil {
		t.Fatal(err)
	}
	if len(pres.Slides) != 1 || pres.Slides[0].Title != "Launch Plan" {
		t.Fatalf("slides = %+v", pres.Slides)
	}
	text := pres.PlainText()
	if !strings.Contains(text, "--- Slide 1 ---") || !strings.Contains(text, "Q3 rollout") {
		t.Errorf("plain text = %q", text)
	}
}

func mustBytes(t *testing.T, d *Deck) []byte {
	t.Helper()
	data, err := d.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	return data
}
