// Package config holds the typed widget configuration: the allowed
// entity labels, the label color table, and the presentation options.
// Configuration loads from TOML and can be live-reloaded while the
// widget runs.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the widget configuration. All fields have working defaults;
// an absent config file means defaults.
type Config struct {
	// AllowedLabels are the labels a span may carry, in preference
	// order. The first entry is the default for newly created spans.
	AllowedLabels []string `toml:"allowed_labels"`

	// Colors maps labels to hex colors ("#rrggbb"). Lookup is
	// case-insensitive: labels are upper-cased before matching. Labels
	// without an entry get a generated palette color.
	Colors map[string]string `toml:"colors"`

	// DisableBoundaryControls hides the word-boundary arrow controls.
	// The underlying adjust operations stay available at the API level.
	DisableBoundaryControls bool `toml:"disable_boundary_controls"`

	// Theme selects the widget theme ("dark" or "light").
	Theme string `toml:"theme"`

	// LogLevel sets the minimum log level (debug, info, warn, error).
	LogLevel string `toml:"log_level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		AllowedLabels: nil,
		Colors:        map[string]string{},
		Theme:         "dark",
		LogLevel:      "info",
	}
}

// Load reads configuration from a TOML file, applying defaults for
// absent fields. A missing file is not an error: defaults are returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML configuration data over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the widget cannot use.
func (c *Config) Validate() error {
	switch c.Theme {
	case "", "dark", "light":
	default:
		return fmt.Errorf("config: unknown theme %q", c.Theme)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	seen := make(map[string]bool, len(c.AllowedLabels))
	for _, l := range c.AllowedLabels {
		if l == "" {
			return fmt.Errorf("config: empty label in allowed_labels")
		}
		if seen[l] {
			return fmt.Errorf("config: duplicate label %q in allowed_labels", l)
		}
		seen[l] = true
	}
	return nil
}

// ColorFor returns the configured color for a label, matching
// case-insensitively.
func (c *Config) ColorFor(label string) (string, bool) {
	want := strings.ToUpper(label)
	for k, v := range c.Colors {
		if strings.ToUpper(k) == want {
			return v, true
		}
	}
	return "", false
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.AllowedLabels = append([]string(nil), c.AllowedLabels...)
	out.Colors = make(map[string]string, len(c.Colors))
	for k, v := range c.Colors {
		out.Colors[k] = v
	}
	return &out
}
