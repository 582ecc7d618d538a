package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// ClientSettings holds user-facing client behavior settings.
// These are non-sensitive values that customize the client without touching
// environment configuration.
// Source: TOML settings file
type ClientSettings struct {
	Client ClientSection `toml:"client"`
	Cache  CacheSection  `toml:"cache"`
}

type ClientSection struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

type CacheSection struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	// Days of grid snapshots to keep; older days are pruned on startup.
	RetentionDays int `toml:"retention_days"`
}

const defaultRetentionDays = 30

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() *ClientSettings {
	return &ClientSettings{
		Cache: CacheSection{RetentionDays: defaultRetentionDays},
	}
}

// LoadSettings loads client settings from a TOML file. A missing file is not
// an error; defaults apply.
func LoadSettings(path string) (*ClientSettings, error) {
	cfg := DefaultSettings()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load client settings: %w", err)
	}
	if cfg.Cache.RetentionDays <= 0 {
		cfg.Cache.RetentionDays = defaultRetentionDays
	}
	return cfg, nil
}

// Timeout returns the configured request timeout, zero meaning "use the
// gateway default".
func (s *ClientSettings) Timeout() time.Duration {
	return time.Duration(s.Client.TimeoutSeconds) * time.Second
}
