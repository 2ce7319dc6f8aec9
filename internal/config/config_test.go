package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/klytics/slidekit/internal/errinfo"
)

func setupTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	viper.Reset()
	t.Setenv("HOME", dir)
	t.Cleanup(func() {
		viper.Reset()
	})
	return dir
}

func TestLoadDefaults(t *testing.T) {
	setupTestConfig(t)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Icons.DefaultColor != "#333333" {
		t.Errorf("default color = %q", cfg.Icons.DefaultColor)
	}
	if cfg.Raster.MinPx != 96 || cfg.Raster.PxPerInch != 96 {
		t.Errorf("raster = %+v", cfg.Raster)
	}
	if !strings.HasSuffix(cfg.Icons.Dir, filepath.Join(".slidekit", "icons", "phosphor")) {
		t.Errorf("icons dir = %q", cfg.Icons.Dir)
	}
	if cfg.Server.Name != "slidekit" {
		t.Errorf("server name = %q", cfg.Server.Name)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := setupTestConfig(t)
	path := filepath.Join(dir, "custom.yaml")
	body := "icons:\n  default_color: \"#FF0000\"\ntools:\n  disabled: [add_chart]\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SLIDEKIT_LOG_LEVEL", "debug")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Icons.DefaultColor != "#FF0000" {
		t.Errorf("color = %q", cfg.Icons.DefaultColor)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.ToolEnabled("add_chart") || !cfg.ToolEnabled("add_table") {
		t.Errorf("disabled = %v", cfg.Tools.Disabled)
	}
}

func TestSetAndGet(t *testing.T) {
	setupTestConfig(t)
	if err := Set("log.level", "debug"); err != nil {
		t.Fatal(err)
	}
	if got := Get("log.level"); got != "debug" {
		t.Errorf("Get(log.level) = %q", got)
	}
	if _, err := os.Stat(Path()); err != nil {
		t.Errorf("config not written: %v", err)
	}
}

func TestSetParsesTypes(t *testing.T) {
	setupTestConfig(t)
	if err := Set("tools.disabled", "add_chart, add_table,"); err != nil {
		t.Fatal(err)
	}
	if got := Get("tools.disabled"); got != "add_chart,add_table" {
		t.Errorf("Get(tools.disabled) = %q", got)
	}
	if err := Set("raster.min_px", "128"); err != nil {
		t.Fatal(err)
	}
	if viper.GetInt("raster.min_px") != 128 {
		t.Errorf("min_px = %v", viper.Get("raster.min_px"))
	}
	if err := Set("raster.min_px", "big"); errinfo.KindOf(err) != errinfo.KindInvalidArgument {
		t.Errorf("bad int: %v", err)
	}
	if err := Set("audit.enabled", "maybe"); errinfo.KindOf(err) != errinfo.KindInvalidArgument {
		t.Errorf("bad bool: %v", err)
	}
	if err := Set("icons.colour", "#fff"); errinfo.KindOf(err) != errinfo.KindInvalidArgument {
		t.Errorf("unknown key: %v", err)
	}
}

func TestSaveUsesLoadedFile(t *testing.T) {
	dir := setupTestConfig(t)
	path := filepath.Join(dir, "team.yaml")
	if err := os.WriteFile(path, []byte("server:\n  name: team\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Fatal(err)
	}
	if Path() != path {
		t.Fatalf("Path() = %q, want %q", Path(), path)
	}
	if err := Set("log.level", "warn"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "warn") || !strings.Contains(string(data), "team") {
		t.Errorf("saved file:\n%s", data)
	}
}

func TestInitAndReset(t *testing.T) {
	setupTestConfig(t)
	if err := Init(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(Path())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "px_per_inch") {
		t.Errorf("config file:\n%s", data)
	}

	viper.Set("raster.min_px", 10)
	if err := Reset(); err != nil {
		t.Fatal(err)
	}
	if viper.GetInt("raster.min_px") != 96 {
		t.Errorf("min_px = %d", viper.GetInt("raster.min_px"))
	}
	if _, err := os.Stat(Path()); !os.IsNotExist(err) {
		t.Error("config file should be removed")
	}
}

func TestValidate(t *testing.T) {
	dir := setupTestConfig(t)
	viper.Set("icons.dir", filepath.Join(dir, "missing"))
	viper.Set("raster.min_px", 0)
	viper.Set("raster.px_per_inch", 96)
	viper.Set("log.level", "loud")
	viper.Set("icons.default_color", "teal")

	severities := map[string]string{}
	for _, issue := range Validate() {
		severities[issue.Key] = issue.Severity
	}
	if severities["icons.dir"] != "warning" || severities["raster"] != "error" ||
		severities["log.level"] != "warning" || severities["icons.default_color"] != "error" {
		t.Errorf("issues = %v", severities)
	}
}

func TestShow(t *testing.T) {
	setupTestConfig(t)
	setDefaults()
	viper.Set("server.name", "deckbot")
	out := Show()
	if !strings.Contains(out, "server") || !strings.Contains(out, "deckbot") {
		t.Errorf("Show:\n%s", out)
	}
}

func TestPath(t *testing.T) {
	path := Path()
	if !strings.Contains(path, ".slidekit") || !strings.Contains(path, "config.yaml") {
		t.Errorf("unexpected path: %q", path)
	}
}
