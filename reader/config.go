package reader

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/feedview/fullcontent"
	"github.com/hazyhaar/feedview/prefs"
	"github.com/hazyhaar/feedview/reader/internal/config"
	"github.com/hazyhaar/feedview/safelink"
	"github.com/hazyhaar/feedview/surface"
)

// Config is the top-level reader configuration. Re-exported from internal.
type Config = config.Config

// BrowserConfig controls the Chrome instance that hosts surfaces.
type BrowserConfig = config.BrowserConfig

// FetchConfig controls full-content fetches.
type FetchConfig = config.FetchConfig

// PrefsConfig locates the preference store.
type PrefsConfig = config.PrefsConfig

// AssetsConfig controls the local template server.
type AssetsConfig = config.AssetsConfig

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return config.Default()
}

// NewFetcher builds the full-content fetcher described by cfg.Fetch.
func NewFetcher(cfg *Config, logger *slog.Logger) *fullcontent.Fetcher {
	fc := fullcontent.Config{
		Timeout:   cfg.Fetch.Timeout,
		MaxBytes:  cfg.Fetch.MaxBytes,
		UserAgent: cfg.Fetch.UserAgent,
		Logger:    logger,
	}
	if cfg.Fetch.BlockPrivate {
		fc.URLValidator = safelink.ValidateURL
	}
	return fullcontent.New(fc)
}

// SurfaceBrowserConfig maps cfg.Browser onto the Chrome-backed factory.
func SurfaceBrowserConfig(cfg *Config, logger *slog.Logger) surface.BrowserConfig {
	return surface.BrowserConfig{
		RemoteURL:         cfg.Browser.Remote,
		ChromePath:        cfg.Browser.ChromePath,
		Headless:          cfg.Browser.Headless,
		Stealth:           cfg.Browser.Stealth,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
		Logger:            logger,
	}
}

// OpenPrefs opens the preference store named by cfg.Prefs. Without a path
// preferences live in memory. The returned close function is never nil.
func OpenPrefs(ctx context.Context, cfg *Config, logger *slog.Logger) (prefs.Store, func() error, error) {
	if cfg.Prefs.Path == "" {
		return prefs.NewMemory(cfg.Prefs.DefaultFontSize), func() error { return nil }, nil
	}
	s, err := prefs.OpenSQLite(ctx, cfg.Prefs.Path, cfg.Prefs.DefaultFontSize, logger)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return s, s.Close, nil
}
