package surface

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/feedview/bridge"
	"github.com/hazyhaar/feedview/surface/internal/browser"
)

// BrowserConfig configures the Chrome-backed Factory.
type BrowserConfig struct {
	RemoteURL         string // external Chrome DevTools URL; empty launches one
	ChromePath        string
	Headless          bool
	Stealth           bool // apply stealth evasions to sandboxed webpages
	NavigationTimeout time.Duration
	Logger            *slog.Logger
}

// Browser is a Factory that opens each surface as a Chrome page. Signals
// from the pages go to router.
type Browser struct {
	mgr     *browser.Manager
	router  *bridge.Router
	stealth bool
	logger  *slog.Logger
}

// NewBrowser launches (or connects to) Chrome.
func NewBrowser(ctx context.Context, cfg BrowserConfig, router *bridge.Router) (*Browser, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	mgr := browser.NewManager(browser.Config{
		RemoteURL:         cfg.RemoteURL,
		ChromePath:        cfg.ChromePath,
		Headless:          cfg.Headless,
		NavigationTimeout: cfg.NavigationTimeout,
		Logger:            cfg.Logger,
	})
	if _, err := mgr.Start(ctx); err != nil {
		return nil, err
	}
	return &Browser{mgr: mgr, router: router, stealth: cfg.Stealth, logger: cfg.Logger}, nil
}

// Open implements Factory.
func (b *Browser) Open(ctx context.Context, spec Spec, l Listener) (Surface, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.Policy.Autoplay != browser.AutoplayPolicy {
		return nil, fmt.Errorf("surface: autoplay policy %q not supported", spec.Policy.Autoplay)
	}
	sandbox := spec.Partition == PartitionSandbox
	key, instance := spec.Key, spec.Instance
	var world string
	if spec.Policy.ContextIsolation {
		world = bridge.WorldName
	}

	p, err := browser.Open(ctx, b.mgr, browser.PageConfig{
		URL:     spec.URL,
		Sandbox: sandbox,
		Stealth: b.stealth && sandbox,
		Binding: bridge.BindingName,
		Script:  bridge.Script(instance),
		World:   world,
		OnBinding: func(payload string) {
			if err := b.router.DeliverFrom(instance, []byte(payload)); err != nil {
				b.logger.Debug("surface: bridge payload rejected", "key", key, "error", err)
			}
		},
		OnLoaded: func() { l.Loaded(key) },
		OnFailed: func(reason string) {
			if err := b.router.Send(bridge.LoadError(instance, key, reason)); err != nil {
				b.logger.Warn("surface: load error not routed", "key", key, "error", err)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Close shuts Chrome down.
func (b *Browser) Close() error {
	return b.mgr.Close()
}
