package editor

import (
	"fmt"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
)

// PresentationActions lists the actions ManagePresentation accepts.
var PresentationActions = []string{"open", "create", "save", "save_as", "close"}

// ManagePresentation opens, creates, saves or closes the session's deck and
// returns the report for the agent.
func (e *Editor) ManagePresentation(action, filePath, savePath string) (string, error) {
	action = strings.ToLower(strings.TrimSpace(action))
	sess := e.Session
	switch action {
	case "open":
		if err := sess.Open(filePath); err != nil {
			return "", err
		}
		deck, _ := sess.Deck()
		return fmt.Sprintf("Successfully opened presentation: %s\nSlide count: %d", sess.Path(), deck.SlideCount()), nil

	case "create":
		if err := sess.Create(filePath); err != nil {
			return "", err
		}
		msg := "Successfully created new presentation"
		if sess.Path() != "" {
			return msg + "\nDefault save path: " + sess.Path(), nil
		}
		return msg + "\nNo save path set - use save_as to save", nil

	case "save":
		if err := sess.Save(); err != nil {
			return "", err
		}
		return "Successfully saved presentation to: " + sess.Path(), nil

	case "save_as":
		if err := sess.SaveAs(savePath); err != nil {
			return "", err
		}
		return "Successfully saved presentation to: " + sess.Path(), nil

	case "close":
		label, discarded, err := sess.Close()
		if err != nil {
			return "", err
		}
		msg := "Closed presentation: " + label
		if discarded {
			msg += "\nWarning: Unsaved changes were discarded"
		}
		return msg, nil
	}
	return "", errinfo.InvalidArgument("manage presentation", "Unknown action '%s'. Valid actions: %s", action, strings.Join(PresentationActions, ", "))
}

// Info reports on the open deck.
func (e *Editor) Info() (string, error) {
	info, err := e.Session.Info()
	if err != nil {
		return "", err
	}
	return info.String(), nil
}
