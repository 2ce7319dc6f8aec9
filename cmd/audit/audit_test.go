package audit

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	auditpkg "github.com/klytics/slidekit/internal/audit"
)

func runAudit(t *testing.T, cfgFile string, args ...string) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	root := &cobra.Command{Use: "slidekit", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().Bool("json", false, "")
	root.PersistentFlags().String("config", "", "")
	root.AddCommand(NewCommand())
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs(append(append([]string{"audit"}, args...), "--config", cfgFile))
	if err := root.Execute(); err != nil {
		t.Fatalf("audit %v: %v", args, err)
	}
	return buf.String()
}

func TestAuditLogAndClear(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "audit.jsonl")
	cfgFile := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("audit:\n  enabled: true\n  path: "+logPath+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := auditpkg.NewLogger(logPath, true)
	ctx := context.Background()
	_ = l.Log(ctx, auditpkg.Entry{Surface: "mcp", Tool: "add_textbox", OK: true, DurationMs: 3})
	_ = l.Log(ctx, auditpkg.Entry{Surface: "shell", Tool: "delete_shape", Code: "NOT_FOUND", DurationMs: 1})

	out := runAudit(t, cfgFile, "log", "--failed")
	if !strings.Contains(out, "delete_shape") || strings.Contains(out, "add_textbox") {
		t.Errorf("unexpected log output:\n%s", out)
	}

	out = runAudit(t, cfgFile, "status")
	if !strings.Contains(out, "Entries:   2 (1 failed)") {
		t.Errorf("unexpected status:\n%s", out)
	}

	runAudit(t, cfgFile, "clear")
	if auditpkg.LogSize(logPath) != 0 {
		t.Error("log not cleared")
	}
}

func TestFormatting(t *testing.T) {
	if got := formatDuration(1500); got != "1.5s" {
		t.Errorf("formatDuration = %q", got)
	}
	if got := formatDuration(42); got != "42ms" {
		t.Errorf("formatDuration = %q", got)
	}
	if got := formatSize(2048); got != "2.0 KB" {
		t.Errorf("formatSize = %q", got)
	}
}
