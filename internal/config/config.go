// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Icons struct {
		Dir          string `mapstructure:"dir"`
		DefaultColor string `mapstructure:"default_color"`
	} `mapstructure:"icons"`
	Raster struct {
		MinPx     int `mapstructure:"min_px"`
		PxPerInch int `mapstructure:"px_per_inch"`
	} `mapstructure:"raster"`
	Log struct {
		Level string `mapstructure:"level"`
		File  string `mapstructure:"file"`
	} `mapstructure:"log"`
	Audit struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"audit"`
	Server struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"server"`
	Tools struct {
		Disabled []string `mapstructure:"disabled"`
	} `mapstructure:"tools"`
	Output struct {
		Color bool `mapstructure:"color"`
	} `mapstructure:"output"`
}

// Load reads the configuration from ~/.slidekit/config.yaml and environment variables.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file; empty means the default location.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
	}

	setDefaults()

	// Environment variable overrides
	viper.SetEnvPrefix("SLIDEKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults() {
	for key, value := range defaults() {
		viper.SetDefault(key, value)
	}
}

func defaults() map[string]any {
	return map[string]any{
		"icons.dir":           filepath.Join(configDir(), "icons", "phosphor"),
		"icons.default_color": "#333333",
		"raster.min_px":       96,
		"raster.px_per_inch":  96,
		"log.level":           "info",
		"log.file":            "",
		"audit.enabled":       false,
		"audit.path":          filepath.Join(configDir(), "audit.jsonl"),
		"server.name":         "slidekit",
		"tools.disabled":      []string{},
		"output.color":        true,
	}
}

// ToolEnabled reports whether a tool may be exposed. An empty disabled
// list allows everything.
func (c *Config) ToolEnabled(name string) bool {
	for _, d := range c.Tools.Disabled {
		if d == name {
			return false
		}
	}
	return true
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".slidekit"
	}
	return filepath.Join(home, ".slidekit")
}
