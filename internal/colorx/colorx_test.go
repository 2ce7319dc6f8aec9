package colorx

import "testing"

func TestParse(t *testing.T) {
	cases := map[string]string{
		"#ff8800": "FF8800",
		"0066CC":  "0066CC",
		"#fff":    "FFFFFF",
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("Parse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "blue", "#12345", "#GGGGGG"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestCSS(t *testing.T) {
	got, err := CSS("#0066CC")
	if err != nil {
		t.Fatal(err)
	}
	if got != "#0066cc" {
		t.Errorf("got %q", got)
	}
}
