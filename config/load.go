package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. OSA_VLIST_FEED_INTERVAL_MS.
const EnvPrefix = "OSA_VLIST"

// Load reads configuration from path, or DefaultConfigPath when path is
// empty. A missing file yields the defaults; environment variables override
// both.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("buffer_size", cfg.BufferSize)
	v.SetDefault("estimated_item_height", cfg.EstimatedItemHeight)
	v.SetDefault("stick_epsilon", cfg.StickEpsilon)
	v.SetDefault("gap", cfg.Gap)
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("markdown", cfg.Markdown)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("feed.interval_ms", cfg.Feed.IntervalMS)
	v.SetDefault("feed.max_items", cfg.Feed.MaxItems)
	v.SetDefault("feed.seed", cfg.Feed.Seed)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path, or DefaultConfigPath when path is empty. An
// existing file is only replaced when overwrite is set.
func Save(path string, cfg Config, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config: %s already exists", path)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("config: create dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
