// Package app wires config, logging, the editor and the tool registry into
// one runtime shared by the CLI commands and the MCP server.
package app

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/audit"
	"github.com/klytics/slidekit/internal/config"
	"github.com/klytics/slidekit/internal/editor"
	"github.com/klytics/slidekit/internal/logging"
	"github.com/klytics/slidekit/internal/session"
	"github.com/klytics/slidekit/internal/tools"
)

// Options selects how the runtime is built.
type Options struct {
	ConfigFile string
	Verbose    bool
	// LogJSON forces JSON log lines even on stderr.
	LogJSON bool
	// Quiet raises the stderr log level to warn so one-shot commands only
	// print their results. A log file still gets the configured level.
	Quiet bool
}

// App is the assembled runtime.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Editor   *editor.Editor
	Registry *tools.Registry
	Audit    *audit.Logger

	closeLog func() error
}

// New loads config and builds the runtime. Close releases the log file.
func New(opts Options) (*App, error) {
	cfg, err := config.LoadFile(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	switch {
	case opts.Verbose:
		level = "debug"
	case opts.Quiet && cfg.Log.File == "":
		level = "warn"
	}
	fl, err := logging.New(logging.Options{Level: level, File: cfg.Log.File, JSON: opts.LogJSON})
	if err != nil {
		return nil, err
	}
	log := fl.Logger

	ed := editor.New(session.New(log), cfg, log)
	auditLog := audit.NewLogger(cfg.Audit.Path, cfg.Audit.Enabled)
	reg := tools.NewRegistry(ed,
		tools.Disabled(cfg.Tools.Disabled...),
		tools.WithAudit(auditLog),
		tools.WithLogger(log),
	)
	log.Debug("app.ready", "tools", len(reg.Names()), "audit", cfg.Audit.Enabled, "log_file", fl.Path)

	return &App{
		Config:   cfg,
		Logger:   log,
		Editor:   ed,
		Registry: reg,
		Audit:    auditLog,
		closeLog: fl.Close,
	}, nil
}

// FromCommand builds a quiet runtime from the root persistent flags.
func FromCommand(cmd *cobra.Command) (*App, error) {
	return New(CommandOptions(cmd))
}

// CommandOptions reads --config and --verbose. Quiet is set; long-running
// commands clear it to keep their info logs.
func CommandOptions(cmd *cobra.Command) Options {
	cfgFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	return Options{ConfigFile: cfgFile, Verbose: verbose, Quiet: true}
}

// Close releases resources held by the runtime.
func (a *App) Close() error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}
