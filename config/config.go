// Package config loads and writes the osa-vlist settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/pslog"

	"github.com/miosa/osa-vlist/style"
	"github.com/miosa/osa-vlist/vlist"
)

// ThemeAuto picks dark or light from the terminal background.
const ThemeAuto = "auto"

// Config is the on-disk configuration.
type Config struct {
	BufferSize          int        `mapstructure:"buffer_size" yaml:"buffer_size"`
	EstimatedItemHeight float64    `mapstructure:"estimated_item_height" yaml:"estimated_item_height"`
	StickEpsilon        float64    `mapstructure:"stick_epsilon" yaml:"stick_epsilon"`
	Gap                 int        `mapstructure:"gap" yaml:"gap"`
	Theme               string     `mapstructure:"theme" yaml:"theme"`
	Markdown            bool       `mapstructure:"markdown" yaml:"markdown"`
	LogLevel            string     `mapstructure:"log_level" yaml:"log_level"`
	Feed                FeedConfig `mapstructure:"feed" yaml:"feed"`
}

// FeedConfig drives the demo stream.
type FeedConfig struct {
	IntervalMS int    `mapstructure:"interval_ms" yaml:"interval_ms"`
	MaxItems   int    `mapstructure:"max_items" yaml:"max_items"`
	Seed       uint64 `mapstructure:"seed" yaml:"seed"`
}

// DefaultConfig returns the built-in settings. Item heights are in terminal
// lines; every feed entry renders at least one line plus the gap.
func DefaultConfig() Config {
	return Config{
		BufferSize:          vlist.DefaultBufferSize,
		EstimatedItemHeight: 2,
		StickEpsilon:        1,
		Gap:                 1,
		Theme:               ThemeAuto,
		Markdown:            false,
		LogLevel:            "info",
		Feed: FeedConfig{
			IntervalMS: 200,
			MaxItems:   10000,
		},
	}
}

// DefaultConfigPath returns ~/.osa/vlist.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home: %w", err)
	}
	return filepath.Join(home, ".osa", "vlist.yaml"), nil
}

// ListConfig converts the list settings into a windowing configuration.
func (c Config) ListConfig() vlist.Config {
	return vlist.Config{
		BufferSize:          c.BufferSize,
		EstimatedItemHeight: c.EstimatedItemHeight,
		StickEpsilon:        c.StickEpsilon,
	}
}

// Level maps log_level to a pslog level. "off" reports false.
func (c Config) Level() (pslog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "trace":
		return pslog.TraceLevel, true
	case "debug":
		return pslog.DebugLevel, true
	case "info", "":
		return pslog.InfoLevel, true
	case "error":
		return pslog.ErrorLevel, true
	default:
		return pslog.InfoLevel, false
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := c.ListConfig().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Gap < 0 {
		return fmt.Errorf("config: gap %d is negative", c.Gap)
	}
	if c.Theme != ThemeAuto {
		if _, ok := style.Themes[c.Theme]; !ok {
			return fmt.Errorf("config: unknown theme %q (want %s or one of %s)", c.Theme, ThemeAuto, strings.Join(style.ThemeNames, ", "))
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "trace", "debug", "info", "error", "off":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	if c.Feed.IntervalMS <= 0 {
		return fmt.Errorf("config: feed.interval_ms must be positive, got %d", c.Feed.IntervalMS)
	}
	if c.Feed.MaxItems < 0 {
		return fmt.Errorf("config: feed.max_items %d is negative", c.Feed.MaxItems)
	}
	return nil
}
