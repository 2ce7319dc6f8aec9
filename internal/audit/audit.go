// Package audit records one line per tool invocation.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp  time.Time         `json:"timestamp"`
	Machine    string            `json:"machine"`
	Surface    string            `json:"surface"`
	Tool       string            `json:"tool"`
	Document   string            `json:"document,omitempty"`
	Args       map[string]string `json:"args,omitempty"`
	OK         bool              `json:"ok"`
	Code       string            `json:"code,omitempty"`
	Error      string            `json:"error,omitempty"`
	DurationMs int64             `json:"duration_ms"`
}

// Logger appends entries to a JSONL file.
type Logger struct {
	FilePath string
	Enabled  bool
	machine  string
}

// NewLogger creates a Logger. A disabled logger writes nothing.
func NewLogger(filePath string, enabled bool) *Logger {
	host, _ := os.Hostname()
	return &Logger{FilePath: filePath, Enabled: enabled, machine: host}
}

// Log writes a single audit entry. Best-effort: failures never reach the
// tool call being audited.
func (l *Logger) Log(_ context.Context, entry Entry) error {
	if l == nil || !l.Enabled || l.FilePath == "" {
		return nil
	}
	if entry.Machine == "" {
		entry.Machine = l.machine
	}

	// Ensure parent directory exists
	dir := filepath.Dir(l.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil // best effort, a tool call never fails on its audit record
	}

	f, err := os.OpenFile(l.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return nil
	}
	data = append(data, '\n')
	_, _ = f.Write(data)
	return nil
}

// ReadEntries reads all audit entries from the log file.
func ReadEntries(filePath string) ([]Entry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue // skip malformed lines
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FilterEntries returns entries matching the given criteria.
func FilterEntries(entries []Entry, since, until time.Time, tool string, failedOnly bool) []Entry {
	var result []Entry
	for _, e := range entries {
		if !since.IsZero() && e.Timestamp.Before(since) {
			continue
		}
		if !until.IsZero() && e.Timestamp.After(until) {
			continue
		}
		if tool != "" && !strings.Contains(e.Tool, tool) {
			continue
		}
		if failedOnly && e.OK {
			continue
		}
		result = append(result, e)
	}
	return result
}

// LogSize returns the size of the audit log in bytes, or 0 if not found.
func LogSize(filePath string) int64 {
	info, err := os.Stat(filePath)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Clear truncates the audit log file. A missing file is already clear.
func Clear(filePath string) error {
	if err := os.Truncate(filePath, 0); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not clear audit log: %w", err)
	}
	return nil
}

// maxArgLen caps recorded argument values; slide text can be long.
const maxArgLen = 80

// SummarizeArgs renders tool arguments for the log, truncating long values.
func SummarizeArgs(args map[string]any) map[string]string {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]string, len(args))
	for k, v := range args {
		var s string
		switch val := v.(type) {
		case string:
			s = val
		default:
			data, err := json.Marshal(val)
			if err != nil {
				s = fmt.Sprint(val)
			} else {
				s = string(data)
			}
		}
		if r := []rune(s); len(r) > maxArgLen {
			s = string(r[:maxArgLen]) + "..."
		}
		out[k] = s
	}
	return out
}

// Keys returns the argument names of an entry, sorted.
func (e Entry) Keys() []string {
	keys := make([]string, 0, len(e.Args))
	for k := range e.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
