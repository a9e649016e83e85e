// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Data    DataConfig    `toml:"data"`
	Fetch   FetchConfig   `toml:"fetch"`
	Display DisplayConfig `toml:"display"`
}

// DataConfig maps where season documents come from.
type DataConfig struct {
	Stats  *string `toml:"stats"`
	Teams  *string `toml:"teams"`
	Season *string `toml:"season"`
	Source *string `toml:"source"`
}

// FetchConfig maps remote loading settings.
type FetchConfig struct {
	Retries      *int      `toml:"retries"`
	Backoff      *Duration `toml:"backoff"`
	Timeout      *Duration `toml:"timeout"`
	CacheTTL     *Duration `toml:"cache-ttl"`
	PollInterval *Duration `toml:"poll-interval"`
	Rate         *float64  `toml:"rate"`
}

// DisplayConfig maps output defaults.
type DisplayConfig struct {
	Sort  *string `toml:"sort"`
	Limit *int    `toml:"limit"`
	Color *bool   `toml:"color"`
}

// Duration decodes TOML strings such as "500ms" or "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
