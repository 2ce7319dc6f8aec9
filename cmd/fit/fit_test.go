package fit

import (
	"testing"
)

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("1600x900")
	if err != nil {
		t.Fatal(err)
	}
	if w != 1600 || h != 900 {
		t.Errorf("got %vx%v", w, h)
	}
	for _, bad := range []string{"", "1600", "axb", "1x2x3"} {
		if _, _, err := parseSize(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParseBox(t *testing.T) {
	box, err := parseBox("1, 1.5, 4, 3")
	if err != nil {
		t.Fatal(err)
	}
	if box != [4]float64{1, 1.5, 4, 3} {
		t.Errorf("got %v", box)
	}
	if _, err := parseBox("1,2,3"); err == nil {
		t.Error("expected error for three values")
	}
}
