// Package cmd contains all CLI commands for the slidekit binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cmdaudit "github.com/klytics/slidekit/cmd/audit"
	"github.com/klytics/slidekit/cmd/completion"
	cmdconfig "github.com/klytics/slidekit/cmd/config"
	"github.com/klytics/slidekit/cmd/deck"
	"github.com/klytics/slidekit/cmd/diff"
	"github.com/klytics/slidekit/cmd/doctor"
	"github.com/klytics/slidekit/cmd/fit"
	"github.com/klytics/slidekit/cmd/icon"
	"github.com/klytics/slidekit/cmd/pipeline"
	"github.com/klytics/slidekit/cmd/serve"
	"github.com/klytics/slidekit/cmd/shell"
	"github.com/klytics/slidekit/cmd/version"
	cmdwatch "github.com/klytics/slidekit/cmd/watch"
	"github.com/klytics/slidekit/internal/config"
	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/output"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
	configFile string
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "slidekit",
		Short: "Edit PowerPoint decks from agents and the terminal",
		Long: `slidekit — PowerPoint decks for agents.

Builds and edits .pptx files while keeping their formatting: text rewrites that
preserve paragraph styles, run-level find and replace, image fitting, and
recolorable vector icons. Serves the same operations to agents over MCP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
				return
			}
			if cfg, err := config.LoadFile(configFile); err == nil && !cfg.Output.Color {
				color.NoColor = true
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.slidekit/config.yaml)")

	// Register subcommands
	rootCmd.AddCommand(serve.NewCommand())
	for _, c := range deck.Commands() {
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(icon.NewCommand())
	rootCmd.AddCommand(fit.NewCommand())
	rootCmd.AddCommand(diff.NewCommand())
	rootCmd.AddCommand(shell.NewCommand())
	rootCmd.AddCommand(pipeline.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdaudit.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}
	if jsonOutput {
		_ = output.PrintJSONError(cmd.CommandPath(), err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errinfo.Message(err))
	}
	os.Exit(output.ExitCode(err))
}
