package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.beeper-triage/config.toml.
type Config struct {
	Model    string `toml:"model"`
	Window   string `toml:"window"`
	BaseURL  string `toml:"base_url"`
	CacheTTL string `toml:"cache_ttl"`
	Editor   string `toml:"editor"`
}

// TTL parses CacheTTL, falling back when it is unset or not a positive
// duration. A nil receiver behaves like an empty config.
func (c *Config) TTL(fallback time.Duration) time.Duration {
	if c == nil || c.CacheTTL == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Load reads the config file at path. A missing file surfaces as an error
// satisfying errors.Is(err, fs.ErrNotExist).
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path, creating the parent directory as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}
