package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestNewAppliesConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	body := "tools:\n  disabled: [add_chart]\nicons:\n  default_color: \"#112233\"\naudit:\n  enabled: true\n  path: " + filepath.Join(dir, "audit.jsonl") + "\n"
	if err := os.WriteFile(cfgFile, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := New(Options{ConfigFile: cfgFile})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, ok := a.Registry.Get("add_chart"); ok {
		t.Error("add_chart should be disabled")
	}
	if _, ok := a.Registry.Get("add_textbox"); !ok {
		t.Error("add_textbox should be registered")
	}
	if a.Editor.Config.DefaultIconColor != "#112233" {
		t.Errorf("icon colour = %q", a.Editor.Config.DefaultIconColor)
	}
	if a.Editor.Session == nil {
		t.Error("editor has no session")
	}
}

func TestQuietRaisesStderrLevel(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())

	a, err := New(Options{Quiet: true})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if a.Logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("quiet runtime should not log info to stderr")
	}

	v, err := New(Options{Quiet: true, Verbose: true})
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	if !v.Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("--verbose should win over quiet")
	}
}
