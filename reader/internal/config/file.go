// Package config handles reader configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level reader configuration.
type Config struct {
	Locale  string        `yaml:"locale"` // BCP-47, e.g. en-US, zh-CN
	Browser BrowserConfig `yaml:"browser"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Prefs   PrefsConfig   `yaml:"prefs"`
	Assets  AssetsConfig  `yaml:"assets"`
}

// BrowserConfig controls the Chrome instance that hosts surfaces.
type BrowserConfig struct {
	Remote            string        `yaml:"remote"` // DevTools URL; empty launches Chrome
	Headless          bool          `yaml:"headless"`
	Stealth           bool          `yaml:"stealth"` // evasions on webpage surfaces
	ChromePath        string        `yaml:"chrome_path"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
}

// FetchConfig controls full-content fetches.
type FetchConfig struct {
	UserAgent    string        `yaml:"user_agent"`
	MaxBytes     int64         `yaml:"max_bytes"`
	Timeout      time.Duration `yaml:"timeout"` // 0: no timeout
	BlockPrivate bool          `yaml:"block_private"`
}

// PrefsConfig locates the preference store.
type PrefsConfig struct {
	Path            string `yaml:"path"` // SQLite file; empty keeps prefs in memory
	DefaultFontSize int    `yaml:"default_font_size"`
}

// AssetsConfig controls the local template server.
type AssetsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Locale == "" {
		c.Locale = "en-US"
	}
	if c.Browser.NavigationTimeout <= 0 {
		c.Browser.NavigationTimeout = 30 * time.Second
	}
	if c.Fetch.MaxBytes <= 0 {
		c.Fetch.MaxBytes = 10 << 20
	}
	if c.Prefs.DefaultFontSize == 0 {
		c.Prefs.DefaultFontSize = 16
	}
	if c.Assets.Addr == "" {
		c.Assets.Addr = "127.0.0.1:0"
	}
}

func (c *Config) validate() error {
	if s := c.Prefs.DefaultFontSize; s < 12 || s > 20 {
		return fmt.Errorf("config: prefs.default_font_size %d out of range 12..20", s)
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("config: fetch.timeout must not be negative")
	}
	return nil
}
