package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/klytics/slidekit/internal/colorx"
	"github.com/klytics/slidekit/internal/errinfo"
)

// Issue is one finding of Validate.
type Issue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Validate checks the loaded values. Errors make tools fail; warnings only
// limit them.
func Validate() []Issue {
	var issues []Issue

	if dir := viper.GetString("icons.dir"); !isDir(dir) {
		issues = append(issues, Issue{
			Key:      "icons.dir",
			Severity: "warning",
			Message:  fmt.Sprintf("icon directory %s does not exist — insert_icon will fail", dir),
			Fix:      "slidekit config set icons.dir /path/to/phosphor/Fill",
		})
	} else {
		issues = append(issues, Issue{Key: "icons.dir", Severity: "info", Message: "icon directory found"})
	}

	if _, err := colorx.Parse(viper.GetString("icons.default_color")); err != nil {
		issues = append(issues, Issue{
			Key:      "icons.default_color",
			Severity: "error",
			Message:  err.Error(),
			Fix:      "slidekit config set icons.default_color '#333333'",
		})
	}

	if viper.GetInt("raster.min_px") <= 0 || viper.GetInt("raster.px_per_inch") <= 0 {
		issues = append(issues, Issue{
			Key:      "raster",
			Severity: "error",
			Message:  "raster.min_px and raster.px_per_inch must be positive",
			Fix:      "slidekit config set raster.min_px 96",
		})
	}

	switch strings.ToLower(viper.GetString("log.level")) {
	case "debug", "info", "warn", "warning", "error":
	default:
		issues = append(issues, Issue{
			Key:      "log.level",
			Severity: "warning",
			Message:  fmt.Sprintf("unknown log level %q, using info", viper.GetString("log.level")),
			Fix:      "slidekit config set log.level info",
		})
	}

	if viper.GetBool("audit.enabled") && viper.GetString("audit.path") == "" {
		issues = append(issues, Issue{
			Key:      "audit.path",
			Severity: "error",
			Message:  "audit is enabled but audit.path is empty",
			Fix:      "slidekit config set audit.enabled false",
		})
	}

	return issues
}

// Set parses value for key, stores it and saves the config file. Only known
// keys are accepted. List keys take a comma-separated string.
func Set(key, value string) error {
	const op = "config set"
	def, ok := defaults()[key]
	if !ok {
		return errinfo.InvalidArgument(op, "unknown key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	var v any
	switch def.(type) {
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errinfo.InvalidArgument(op, "%s expects true or false, got %q", key, value)
		}
		v = b
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errinfo.InvalidArgument(op, "%s expects an integer, got %q", key, value)
		}
		v = n
	case []string:
		list := []string{}
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				list = append(list, item)
			}
		}
		v = list
	default:
		v = value
	}
	viper.Set(key, v)
	return Save()
}

// Get returns a value as text. Lists are joined with commas.
func Get(key string) string {
	if list, ok := viper.Get(key).([]string); ok {
		return strings.Join(list, ",")
	}
	if list, ok := viper.Get(key).([]any); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ",")
	}
	return viper.GetString(key)
}

// Keys lists every known key in order.
func Keys() []string {
	keys := make([]string, 0, len(defaults()))
	for key := range defaults() {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Init fills unset keys with defaults and writes the file.
func Init() error {
	for key, value := range defaults() {
		if !viper.IsSet(key) {
			viper.Set(key, value)
		}
	}
	return Save()
}

// Reset deletes the config file and restores defaults in memory.
func Reset() error {
	if err := os.Remove(Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	for key, value := range defaults() {
		viper.Set(key, value)
	}
	return nil
}

// Save writes the current values to Path with owner-only permissions.
func Save() error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return os.Chmod(path, 0o600)
}

// Path returns the file in use: the one given to LoadFile, or
// ~/.slidekit/config.yaml.
func Path() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(configDir(), "config.yaml")
}

// Show renders the current values grouped by section.
func Show() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Config: %s\n", Path())
	section := ""
	for _, key := range Keys() {
		name, field, _ := strings.Cut(key, ".")
		if name != section {
			section = name
			sb.WriteString("\n" + name + "\n")
		}
		fmt.Fprintf(&sb, "  %-14s %s\n", field+":", Get(key))
	}
	return sb.String()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
