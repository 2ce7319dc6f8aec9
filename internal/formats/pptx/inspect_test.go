package pptx

import (
	"strconv"
	"strings"
	"testing"
)

func TestSnapshot(t *testing.T) {
	_, s := newTestSlide(t)
	tb := textbox(t, s, "one\ntwo")
	ApplyBulletAll(tb.TextFrame(), mustBullet(t, "number"))
	if _, err := AddTable(s, 2, 2, Rect{Y: 2 * inch, CX: 2 * inch, CY: inch}, nil); err != nil {
		t.Fatal(err)
	}
	icon, err := AddAutoShape(s, "oval", Rect{X: 5 * inch, CX: inch, CY: inch})
	if err != nil {
		t.Fatal(err)
	}

	snap := Snapshot(s)
	if snap.Number != 1 || snap.Total != 1 || snap.Layout != "Blank" {
		t.Errorf("header = %+v", snap)
	}
	if len(snap.Shapes) != 3 {
		t.Fatalf("shapes = %d", len(snap.Shapes))
	}
	text := snap.Shapes[0]
	if text.Kind != KindTextbox || text.Text != "one\ntwo" || text.ListFormat != "numbered (1. 2. 3.)" {
		t.Errorf("textbox info = %+v", text)
	}
	if text.Left != 1 || text.Width != 4 {
		t.Errorf("textbox box = %v,%v", text.Left, text.Width)
	}
	if snap.Shapes[1].TableRows != 2 || snap.Shapes[1].TableCols != 2 {
		t.Errorf("table info = %+v", snap.Shapes[1])
	}
	if !snap.Shapes[2].IconPlaceholder {
		t.Error("small empty oval should be an icon placeholder")
	}

	out := snap.String()
	for _, want := range []string{
		"=== Slide 1 of 1 ===",
		"Layout: Blank",
		`Text: "one\ntwo"`,
		"List format: numbered (1. 2. 3.)",
		"Table: 2 rows x 2 columns",
		"replace_shape_id=" + strconv.Itoa(icon.ID()),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("snapshot text missing %q:\n%s", want, out)
		}
	}
}


func TestIsIconPlaceholder(t *testing.T) {
	_, s := newTestSlide(t)
	cases := []struct {
		name string
		make func() *Shape
		want bool
	}{
		{"square autoshape", func() *Shape {
			sh, _ := AddAutoShape(s, "rectangle", Rect{CX: inch, CY: inch})
			return sh
		}, true},
		{"too large", func() *Shape {
			sh, _ := AddAutoShape(s, "rectangle", Rect{CX: 2 * inch, CY: 2 * inch})
			return sh
		}, false},
		{"not square", func() *Shape {
			sh, _ := AddAutoShape(s, "rectangle", Rect{CX: inch, CY: inch / 2})
			return sh
		}, false},
		{"text without icon", func() *Shape {
			sh, _ := AddAutoShape(s, "rectangle", Rect{CX: inch, CY: inch})
			SetPlainText(sh.TextFrame(), "Step 1")
			return sh
		}, false},
		{"icon text", func() *Shape {
			sh, _ := AddAutoShape(s, "rectangle", Rect{CX: inch, CY: inch})
			SetPlainText(sh.TextFrame(), "[icon]")
			return sh
		}, true},
		{"picture", func() *Shape {
			sh, _ := AddPicture(s, testPNG(t, 10, 10), Rect{CX: inch, CY: inch})
			return sh
		}, false},
	}
	for _, c := range cases {
		if got := IsIconPlaceholder(c.make()); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestTableContent(t *testing.T) {
	_, s := newTestSlide(t)
	sh, err := AddTable(s, 2, 2, Rect{CX: inch, CY: inch}, [][]string{{"Name", "Score"}, {"Ada", "line1\nline2"}})
	if err != nil {
		t.Fatal(err)
	}
	got := TableContent(sh)
	want := "Table '" + sh.Name() + "' (ID: " + strconv.Itoa(sh.ID()) + ")\nDimensions: 2 rows x 2 columns\n\nRow 1: Name | Score\nRow 2: Ada | line1\\nline2"
	if got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}
