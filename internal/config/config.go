// Package config handles configuration loading and validation for tdamcheck.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/csheth/tdamcheck/internal/compliance"
	"github.com/csheth/tdamcheck/internal/highlight"
	"github.com/csheth/tdamcheck/internal/meter"
)

// Config holds the application configuration.
type Config struct {
	Endpoint  string          `yaml:"endpoint"`
	FieldName string          `yaml:"field_name"`
	Timeout   time.Duration   `yaml:"timeout"`
	Progress  ProgressConfig  `yaml:"progress"`
	Picker    PickerConfig    `yaml:"picker"`
	Highlight HighlightConfig `yaml:"highlight"`
}

// ProgressConfig tunes the simulated upload progress bar.
type ProgressConfig struct {
	Interval time.Duration `yaml:"interval"`
	Ceiling  int           `yaml:"ceiling"`
}

// PickerConfig controls what the file picker lists. Include holds doublestar
// patterns matched against file names; an empty list shows every file.
type PickerConfig struct {
	StartDir   string   `yaml:"start_dir"`
	ShowHidden bool     `yaml:"show_hidden"`
	Include    []string `yaml:"include"`
}

// HighlightConfig controls how chunk highlights are coloured.
type HighlightConfig struct {
	DefaultColor string `yaml:"default_color"`
	FromAnchors  bool   `yaml:"from_anchors"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:  compliance.DefaultEndpoint,
		FieldName: compliance.DefaultFieldName,
		Timeout:   compliance.DefaultTimeout,
		Progress: ProgressConfig{
			Interval: meter.DefaultInterval,
			Ceiling:  meter.DefaultCeiling,
		},
		Picker: PickerConfig{
			StartDir: ".",
		},
		Highlight: HighlightConfig{
			DefaultColor: "yellow",
			FromAnchors:  true,
		},
	}
}

// DefaultPath returns the config location under the user's config dir.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "tdamcheck", "config.yaml")
}

// Load reads configuration from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Endpoint == "" {
		c.Endpoint = defaults.Endpoint
	}
	if c.FieldName == "" {
		c.FieldName = defaults.FieldName
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.Progress.Interval == 0 {
		c.Progress.Interval = defaults.Progress.Interval
	}
	if c.Progress.Ceiling == 0 {
		c.Progress.Ceiling = defaults.Progress.Ceiling
	}
	if c.Picker.StartDir == "" {
		c.Picker.StartDir = defaults.Picker.StartDir
	}
	if c.Highlight.DefaultColor == "" {
		c.Highlight.DefaultColor = defaults.Highlight.DefaultColor
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint %q must use http or https", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q has no host", c.Endpoint)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	if c.Progress.Interval < 0 {
		return fmt.Errorf("progress.interval cannot be negative")
	}
	if c.Progress.Ceiling < 1 || c.Progress.Ceiling > 100 {
		return fmt.Errorf("progress.ceiling must be between 1 and 100, got %d", c.Progress.Ceiling)
	}

	for _, pattern := range c.Picker.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("picker.include: invalid pattern %q", pattern)
		}
	}

	if _, ok := highlight.ResolveColor(c.Highlight.DefaultColor); !ok {
		return fmt.Errorf("highlight.default_color: unknown colour %q", c.Highlight.DefaultColor)
	}

	return nil
}

// Includes reports whether name passes the picker's include patterns.
func (p PickerConfig) Includes(name string) bool {
	if len(p.Include) == 0 {
		return true
	}
	base := filepath.Base(name)
	for _, pattern := range p.Include {
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
