package session

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/opc"
)

func TestEmptySession(t *testing.T) {
	s := New(nil)
	if _, err := s.Deck(); errinfo.KindOf(err) != errinfo.KindNoPresentation {
		t.Errorf("Deck err = %v", err)
	}
	if err := s.Save(); errinfo.KindOf(err) != errinfo.KindNoPresentation {
		t.Errorf("Save err = %v", err)
	}
	if _, _, err := s.Close(); errinfo.KindOf(err) != errinfo.KindNoPresentation {
		t.Errorf("Close err = %v", err)
	}
}

func TestCreateSaveReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deck.pptx")
	s := New(nil)
	if err := s.Create(""); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(); errinfo.KindOf(err) != errinfo.KindInvalidArgument {
		t.Errorf("save without path err = %v", err)
	}
	deck, _ := s.Deck()
	if _, err := deck.AddSlide(0, 0); err != nil {
		t.Fatal(err)
	}
	if !s.Modified() {
		t.Error("new deck should be modified")
	}
	if err := s.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	if s.Modified() || s.Path() != path {
		t.Errorf("after save: modified=%v path=%q", s.Modified(), s.Path())
	}
	ok, err := opc.DeclaresDefault(path, "svg")
	if err != nil || !ok {
		t.Errorf("svg content type not declared: %v %v", ok, err)
	}

	other := New(nil)
	if err := other.Open(path); err != nil {
		t.Fatal(err)
	}
	info, err := other.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.Slides != 1 || len(info.Layouts) != 7 {
		t.Errorf("info = %+v", info)
	}
	text := info.String()
	if !strings.Contains(text, "Slide count: 1") || !strings.Contains(text, `13.33" x 7.50"`) {
		t.Errorf("info text:\n%s", text)
	}
}

func TestCloseReportsDiscardedChanges(t *testing.T) {
	s := New(nil)
	if err := s.Create("~/draft.pptx"); err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(s.Path(), "~") {
		t.Errorf("path not expanded: %s", s.Path())
	}
	label, modified, err := s.Close()
	if err != nil {
		t.Fatal(err)
	}
	if !modified || !strings.HasSuffix(label, "draft.pptx") {
		t.Errorf("close = %q, %v", label, modified)
	}
	if _, err := s.Deck(); err == nil {
		t.Error("deck still open after close")
	}
}

func TestOpenMissing(t *testing.T) {
	s := New(nil)
	err := s.Open(filepath.Join(t.TempDir(), "missing.pptx"))
	if errinfo.KindOf(err) != errinfo.KindNotFound {
		t.Errorf("err = %v", err)
	}
	if err := s.Open(" "); errinfo.KindOf(err) != errinfo.KindInvalidArgument {
		t.Errorf("blank path err = %v", err)
	}
}
