// Package serve provides the "slidekit serve" command, the MCP tool server.
package serve

import (
	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/cmd/version"
	"github.com/klytics/slidekit/internal/app"
	"github.com/klytics/slidekit/internal/tools"
)

// NewCommand creates the "serve" command.
func NewCommand() *cobra.Command {
	var open string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP tool server on stdio",
		Long: `Serves the deck tools over the Model Context Protocol on stdin/stdout.

Stdout carries the protocol, so logs go to stderr or to log.file. Tools listed
under tools.disabled in the config are not exposed.

Example client entry:
  {"command": "slidekit", "args": ["serve"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.CommandOptions(cmd)
			opts.Quiet = false
			a, err := app.New(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if open != "" {
				if err := a.Editor.Session.Open(open); err != nil {
					return err
				}
			}

			s := tools.NewServer(a.Registry, a.Config.Server.Name, version.Version)
			a.Logger.Info("server.started", "name", a.Config.Server.Name, "version", version.Version, "tools", len(a.Registry.Names()))
			err = tools.ServeStdio(s)
			a.Logger.Info("server.stopped", "err", err)
			return err
		},
	}

	cmd.Flags().StringVar(&open, "open", "", "Open this deck before serving")
	return cmd
}
