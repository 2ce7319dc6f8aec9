// Package deck provides the commands that read and edit a single .pptx file.
package deck

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/app"
	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/output"
)

// Commands returns the top-level deck commands.
func Commands() []*cobra.Command {
	return []*cobra.Command{
		newReadCommand(),
		newInfoCommand(),
		newSnapshotCommand(),
		newReplaceCommand(),
		newRewriteCommand(),
		newRepairCommand(),
	}
}

func checkExt(op, path string) error {
	if !strings.HasSuffix(strings.ToLower(path), ".pptx") {
		return errinfo.InvalidArgument(op, "expected a .pptx file, got %q", path)
	}
	return nil
}

// openDeck builds the runtime and opens path in its session.
func openDeck(cmd *cobra.Command, op, path string) (*app.App, error) {
	if err := checkExt(op, path); err != nil {
		return nil, err
	}
	a, err := app.FromCommand(cmd)
	if err != nil {
		return nil, err
	}
	if err := a.Editor.Session.Open(path); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// saveDeck writes the session back to path, or to out when set.
func saveDeck(a *app.App, out string) (string, error) {
	sess := a.Editor.Session
	if out != "" {
		if err := checkExt("save", out); err != nil {
			return "", err
		}
		if err := sess.SaveAs(out); err != nil {
			return "", err
		}
		return sess.Path(), nil
	}
	if err := sess.Save(); err != nil {
		return "", err
	}
	return sess.Path(), nil
}

// emit prints data as the JSON envelope under --json, or text otherwise.
func emit(cmd *cobra.Command, name string, data interface{}, text string) error {
	if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
		return output.PrintJSON(name, data)
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
