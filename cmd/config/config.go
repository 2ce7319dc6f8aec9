// Package config provides the "slidekit config" commands.
package config

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/config"
	"github.com/klytics/slidekit/internal/output"
)

// NewCommand returns the config command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage slidekit configuration",
		Long: `View and modify slidekit settings in ~/.slidekit/config.yaml, or the file
given with --config. SLIDEKIT_* environment variables override the file,
e.g. SLIDEKIT_ICONS_DIR for icons.dir.`,
	}
	cmd.AddCommand(
		simple("init", "Write a config file holding the defaults", func(cmd *cobra.Command, _ []string) error {
			if err := config.Init(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.Path())
			return nil
		}),
		simple("show", "Show current configuration", func(cmd *cobra.Command, _ []string) error {
			if asJSON(cmd) {
				path, _ := cmd.Flags().GetString("config")
				cfg, err := config.LoadFile(path)
				if err != nil {
					return err
				}
				return output.PrintJSON("config show", cfg)
			}
			fmt.Fprint(cmd.OutOrStdout(), config.Show())
			return nil
		}),
		newSetCommand(),
		newGetCommand(),
		simple("reset", "Delete the config file and restore defaults", func(cmd *cobra.Command, _ []string) error {
			if err := config.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults")
			return nil
		}),
		simple("path", "Show the config file path", func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.Path())
			return nil
		}),
		simple("validate", "Check the configuration for problems", runValidate),
	)
	return cmd
}

// simple builds an argument-less subcommand that runs after the config
// named by --config is loaded.
func simple(use, short string, run func(*cobra.Command, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd); err != nil {
				return err
			}
			return run(cmd, args)
		},
	}
}

func load(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	_, err := config.LoadFile(path)
	return err
}

func asJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Sets a value and saves the config file. List values such as
tools.disabled take a comma-separated string.

Example:
  slidekit config set icons.dir ~/phosphor/assets/fill
  slidekit config set tools.disabled add_chart,add_table`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd); err != nil {
				return err
			}
			if err := config.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], config.Get(args[0]))
			return nil
		},
	}
}

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Get a configuration value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd); err != nil {
				return err
			}
			val := config.Get(args[0])
			if val == "" {
				val = "(not set)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], val)
			return nil
		},
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	issues := config.Validate()
	if asJSON(cmd) {
		if err := output.PrintJSON("config validate", issues); err != nil {
			return err
		}
	} else {
		printIssues(cmd.OutOrStdout(), issues)
	}
	if n := count(issues, "error"); n > 0 {
		return fmt.Errorf("%d config error(s)", n)
	}
	return nil
}

var severityColor = map[string]*color.Color{
	"error":   color.New(color.FgRed),
	"warning": color.New(color.FgYellow),
	"info":    color.New(color.FgGreen),
}

func printIssues(out io.Writer, issues []config.Issue) {
	errs, warns := count(issues, "error"), count(issues, "warning")
	if errs == 0 && warns == 0 {
		color.New(color.FgGreen).Fprintln(out, "Configuration is valid")
		return
	}
	fmt.Fprintf(out, "Config validation: %d errors, %d warnings\n\n", errs, warns)
	for _, issue := range issues {
		severityColor[issue.Severity].Fprintf(out, "  %-20s %s\n", issue.Key, issue.Message)
		if issue.Fix != "" {
			fmt.Fprintf(out, "  %-20s Fix: %s\n", "", issue.Fix)
		}
	}
}

func count(issues []config.Issue, severity string) int {
	n := 0
	for _, issue := range issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}
