// Package audit provides the "slidekit audit" commands for viewing the tool call log.
package audit

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	auditpkg "github.com/klytics/slidekit/internal/audit"
	"github.com/klytics/slidekit/internal/config"
	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/output"
)

// NewCommand creates the "audit" command with all subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "View and manage the tool call audit log",
		Long: `Every tool call from serve, shell, pipeline and the CLI is appended to the
audit log when audit.enabled is set in the config.`,
	}

	cmd.AddCommand(newLogCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

func auditLogPath(cmd *cobra.Command) (string, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFile(cfgPath)
	if err != nil {
		return "", err
	}
	return cfg.Audit.Path, nil
}

func newLogCmd() *cobra.Command {
	var (
		last   int
		tool   string
		since  string
		failed bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent audit log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := auditLogPath(cmd)
			if err != nil {
				return err
			}
			entries, err := auditpkg.ReadEntries(path)
			if err != nil {
				return err
			}

			var sinceTime, untilTime time.Time
			if since != "" {
				t, err := time.Parse("2006-01-02", since)
				if err != nil {
					return errinfo.InvalidArgument("audit log", "invalid --since date %q (use YYYY-MM-DD)", since)
				}
				sinceTime = t
			}

			filtered := auditpkg.FilterEntries(entries, sinceTime, untilTime, tool, failed)

			if last > 0 && len(filtered) > last {
				filtered = filtered[len(filtered)-last:]
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return output.PrintJSON("audit log", filtered)
			}

			out := cmd.OutOrStdout()
			if len(filtered) == 0 {
				fmt.Fprintln(out, "No audit log entries found.")
				return nil
			}

			fmt.Fprintf(out, "Audit Log — %d Entries\n", len(filtered))
			fmt.Fprintf(out, "File: %s\n\n", path)

			red := color.New(color.FgRed).SprintFunc()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "TIMESTAMP\tSURFACE\tTOOL\tDURATION\tRESULT\tARGS\n")
			for _, e := range filtered {
				ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
				result := "ok"
				if !e.OK {
					result = red(e.Code)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", ts, e.Surface, e.Tool, formatDuration(e.DurationMs), result, strings.Join(e.Keys(), ","))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&last, "last", 20, "Show last N entries")
	cmd.Flags().StringVar(&tool, "tool", "", "Filter by tool name")
	cmd.Flags().StringVar(&since, "since", "", "Filter entries since date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&failed, "failed", false, "Show only failed calls")
	return cmd
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := auditLogPath(cmd)
			if err != nil {
				return err
			}
			if err := auditpkg.Clear(path); err != nil {
				return err
			}
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return output.PrintJSON("audit clear", map[string]string{"cleared": path})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Audit log cleared: %s\n", path)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show audit log path and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := auditLogPath(cmd)
			if err != nil {
				return err
			}
			size := auditpkg.LogSize(path)
			entries, _ := auditpkg.ReadEntries(path)
			failed := len(auditpkg.FilterEntries(entries, time.Time{}, time.Time{}, "", true))

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return output.PrintJSON("audit status", map[string]interface{}{
					"path":    path,
					"size":    size,
					"entries": len(entries),
					"failed":  failed,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Audit log: %s\n", path)
			if size == 0 {
				fmt.Fprintln(out, "Size:      empty (no entries)")
			} else {
				fmt.Fprintf(out, "Size:      %s\n", formatSize(size))
			}
			fmt.Fprintf(out, "Entries:   %d (%d failed)\n", len(entries), failed)
			return nil
		},
	}
}

func formatDuration(ms int64) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	return fmt.Sprintf("%dms", ms)
}

func formatSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}
