// Package shell provides the "slidekit shell" interactive REPL command.
package shell

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/app"
	shellpkg "github.com/klytics/slidekit/internal/shell"
	"github.com/klytics/slidekit/internal/tools"
)

// NewCommand creates the "shell" command.
func NewCommand() *cobra.Command {
	var (
		evalCmd string
		open    string
	)

	cmd := &cobra.Command{
		Use:   "shell [file.pptx]",
		Short: "Start an interactive slidekit shell",
		Long: `Start an interactive REPL over the deck tools with tab completion.

The open deck stays in memory between commands. Tools take key=value
arguments, the same names the MCP server exposes:

  slidekit> open deck.pptx
  slidekit [deck.pptx]> add_textbox slide_number=1 text="Hello"
  slidekit [deck.pptx*]> save`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			session := shellpkg.NewSession(a.Registry)
			if len(args) == 1 {
				open = args[0]
			}
			if open != "" {
				msg, err := a.Registry.Run(cmd.Context(), shellpkg.Surface, "manage_presentation", tools.Args{"action": "open", "file_path": open})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
			}
			if evalCmd != "" {
				output, err := session.Eval(cmd.Context(), evalCmd)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), output)
				return nil
			}
			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&evalCmd, "eval", "", "Run a single command and exit")
	cmd.Flags().StringVar(&open, "open", "", "Open this deck first")
	return cmd
}
