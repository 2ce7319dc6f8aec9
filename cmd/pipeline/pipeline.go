// Package pipeline provides CLI commands for running deck scripts.
package pipeline

import "github.com/spf13/cobra"

// NewCommand returns the pipeline subcommand group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run multi-step deck edits defined in YAML",
		Long: `Execute scripts of tool calls against one deck. Each step names a tool and
its arguments; ${{ steps.<id>.output }} passes one step's output to a later one.`,
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newValidateCommand())

	return cmd
}
