package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options configures New.
type Options struct {
	Level string
	File  string
	JSON  bool
}

// FileLogger pairs a logger with the closer of its backing file.
type FileLogger struct {
	Logger *slog.Logger
	Close  func() error
	Path   string
}

func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// ParseLevel maps a config string to a slog level. Unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger on stderr, or on opts.File when set. Stdout is never
// used because the MCP transport owns it.
func New(opts Options) (FileLogger, error) {
	level := ParseLevel(opts.Level)
	if opts.File == "" {
		return FileLogger{
			Logger: slog.New(newHandler(os.Stderr, level, opts.JSON)),
			Close:  func() error { return nil },
		}, nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return FileLogger{Logger: Nop(), Close: func() error { return nil }}, err
	}
	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return FileLogger{Logger: Nop(), Close: func() error { return nil }}, err
	}
	return FileLogger{
		Logger: slog.New(newHandler(file, level, true)),
		Close:  file.Close,
		Path:   opts.File,
	}, nil
}

func newHandler(w io.Writer, level slog.Level, json bool) slog.Handler {
	hopts := &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}
	if json {
		return slog.NewJSONHandler(w, hopts)
	}
	return slog.NewTextHandler(w, hopts)
}
