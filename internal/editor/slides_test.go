package editor

import (
	"strings"
	"testing"

	"github.com/klytics/slidekit/internal/errinfo"
)

func TestManageSlide(t *testing.T) {
	e, _ := newTestEditor(t)

	msg, err := e.ManageSlide(SlideRequest{Action: "add", LayoutIndex: 1, TargetPosition: 1})
	if err != nil {
		t.Fatal(err)
	}
	if msg != "Successfully added new slide at position 1\nTotal slides: 2" {
		t.Errorf("add message = %q", msg)
	}

	if msg, err = e.ManageSlide(SlideRequest{Action: "duplicate", SlideNumber: 1}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(msg, "Successfully duplicated slide 1 to position 3") {
		t.Errorf("duplicate message = %q", msg)
	}

	if msg, err = e.ManageSlide(SlideRequest{Action: "move", SlideNumber: 3, TargetPosition: 3}); err != nil {
		t.Fatal(err)
	}
	if msg != "Slide 3 is already at position 3" {
		t.Errorf("move message = %q", msg)
	}
	if _, err = e.ManageSlide(SlideRequest{Action: "move", SlideNumber: 3, TargetPosition: 2}); err != nil {
		t.Fatal(err)
	}

	if msg, err = e.ManageSlide(SlideRequest{Action: "delete", SlideNumber: 2}); err != nil {
		t.Fatal(err)
	}
	if msg != "Successfully deleted slide 2\nTotal slides: 2" {
		t.Errorf("delete message = %q", msg)
	}
}

func TestManageSlideErrors(t *testing.T) {
	e, _ := newTestEditor(t)
	cases := []struct {
		req  SlideRequest
		kind errinfo.Kind
	}{
		{SlideRequest{Action: "delete"}, errinfo.KindInvalidArgument},
		{SlideRequest{Action: "delete", SlideNumber: 5}, errinfo.KindNotFound},
		{SlideRequest{Action: "move", SlideNumber: 1}, errinfo.KindInvalidArgument},
		{SlideRequest{Action: "move", SlideNumber: 1, TargetPosition: 4}, errinfo.KindInvalidArgument},
		{SlideRequest{Action: "shuffle"}, errinfo.KindInvalidArgument},
	}
	for _, c := range cases {
		if _, err := e.ManageSlide(c.req); errinfo.KindOf(err) != c.kind {
			t.Errorf("%+v: err = %v, want %v", c.req, err, c.kind)
		}
	}
}

func TestSnapshot(t *testing.T) {
	e, _ := newTestEditor(t)
	if _, err := e.AddTextbox(1, TextboxRequest{Text: "Hello", Left: 1, Top: 1, Width: 4, Height: 1}); err != nil {
		t.Fatal(err)
	}
	snap, err := e.Snapshot(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Shapes) != 1 || snap.Shapes[0].Text != "Hello" {
		t.Errorf("snapshot = %+v", snap)
	}
	if _, err := e.Snapshot(2); errinfo.KindOf(err) != errinfo.KindNotFound {
		t.Errorf("snapshot of missing slide: %v", err)
	}
}
