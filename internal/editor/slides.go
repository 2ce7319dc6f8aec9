package editor

import (
	"fmt"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/pptx"
)

// SlideActions lists the actions ManageSlide accepts.
var SlideActions = []string{"add", "delete", "duplicate", "move"}

// SlideRequest carries the arguments of ManageSlide. Zero SlideNumber and
// TargetPosition mean unset.
type SlideRequest struct {
	Action         string
	SlideNumber    int
	TargetPosition int
	LayoutIndex    int
}

// ManageSlide adds, deletes, duplicates or moves a slide.
func (e *Editor) ManageSlide(req SlideRequest) (string, error) {
	const op = "manage slide"
	deck, err := e.Session.Deck()
	if err != nil {
		return "", err
	}
	action := strings.ToLower(strings.TrimSpace(req.Action))
	total := deck.SlideCount()

	needSlide := func() error {
		if req.SlideNumber == 0 {
			return errinfo.InvalidArgument(op, "slide_number is required for '%s' action", action)
		}
		if req.SlideNumber < 1 || req.SlideNumber > total {
			return errinfo.NotFound(op, "slide_number %d is out of range (1-%d)", req.SlideNumber, total)
		}
		return nil
	}

	switch action {
	case "add":
		s, err := deck.AddSlide(req.LayoutIndex, req.TargetPosition)
		if err != nil {
			return "", err
		}
		e.Session.Touch()
		e.Logger.Info("slide.added", "slide", s.Number(), "layout", s.LayoutName())
		return fmt.Sprintf("Successfully added new slide at position %d\nTotal slides: %d", s.Number(), deck.SlideCount()), nil

	case "delete":
		if err := needSlide(); err != nil {
			return "", err
		}
		if err := deck.DeleteSlide(req.SlideNumber); err != nil {
			return "", err
		}
		e.Session.Touch()
		e.Logger.Info("slide.deleted", "slide", req.SlideNumber)
		return fmt.Sprintf("Successfully deleted slide %d\nTotal slides: %d", req.SlideNumber, deck.SlideCount()), nil

	case "duplicate":
		if err := needSlide(); err != nil {
			return "", err
		}
		s, skipped, err := deck.DuplicateSlide(req.SlideNumber, req.TargetPosition)
		if err != nil {
			return "", err
		}
		e.Session.Touch()
		e.Logger.Info("slide.duplicated", "slide", req.SlideNumber, "position", s.Number(), "skipped", len(skipped))
		msg := fmt.Sprintf("Successfully duplicated slide %d to position %d\nTotal slides: %d", req.SlideNumber, s.Number(), deck.SlideCount())
		if len(skipped) > 0 {
			msg += "\nWarning: charts cannot be copied, skipped: " + strings.Join(skipped, ", ")
		}
		return msg, nil

	case "move":
		if err := needSlide(); err != nil {
			return "", err
		}
		if req.TargetPosition == 0 {
			return "", errinfo.InvalidArgument(op, "target_position is required for 'move' action")
		}
		if req.SlideNumber == req.TargetPosition {
			return fmt.Sprintf("Slide %d is already at position %d", req.SlideNumber, req.TargetPosition), nil
		}
		if err := deck.MoveSlide(req.SlideNumber, req.TargetPosition); err != nil {
			return "", err
		}
		e.Session.Touch()
		return fmt.Sprintf("Successfully moved slide from position %d to position %d", req.SlideNumber, req.TargetPosition), nil
	}
	return "", errinfo.InvalidArgument(op, "Unknown action '%s'. Valid actions: %s", action, strings.Join(SlideActions, ", "))
}

// Snapshot inspects one slide.
func (e *Editor) Snapshot(slideNumber int) (pptx.SlideSnapshot, error) {
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return pptx.SlideSnapshot{}, err
	}
	return pptx.Snapshot(s), nil
}
