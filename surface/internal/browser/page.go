package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// PageConfig describes one surface page.
type PageConfig struct {
	URL string
	// Sandbox opens the page in its own browser context, disposed on Close.
	Sandbox bool
	// Stealth applies go-rod/stealth evasions to the page.
	Stealth bool

	// Binding is exposed to page scripts; Script runs in every new
	// document after the binding exists. With World set both live in that
	// isolated world and the page's own scripts can reach neither.
	Binding string
	Script  string
	World   string

	OnBinding func(payload string)
	OnLoaded  func()
	OnFailed  func(reason string)
}

// Page is a surface page.
type Page struct {
	page    *rod.Page
	sandbox *rod.Browser // non-nil for sandboxed pages
	cancel  context.CancelFunc
}

// Open creates a page, installs dialog suppression, the binding and the
// script, then navigates to cfg.URL. A navigation error (DNS, refused
// connection, ...) is reported through OnFailed and the page is kept so it
// can be reloaded.
func Open(ctx context.Context, mgr *Manager, cfg PageConfig) (*Page, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}
	log := mgr.cfg.Logger

	var sandbox *rod.Browser
	if cfg.Sandbox {
		inc, err := b.Incognito()
		if err != nil {
			return nil, fmt.Errorf("browser: create sandbox context: %w", err)
		}
		sandbox, b = inc, inc
	}

	var page *rod.Page
	var err error
	if cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		disposeSandbox(sandbox)
		return nil, fmt.Errorf("browser: create page: %w", err)
	}

	evCtx, cancel := context.WithCancel(context.Background())
	p := &Page{page: page, sandbox: sandbox, cancel: cancel}
	p.listen(evCtx, cfg)

	if cfg.Binding != "" {
		bind := proto.RuntimeAddBinding{Name: cfg.Binding, ExecutionContextName: cfg.World}
		if err := bind.Call(page); err != nil {
			p.Close()
			return nil, fmt.Errorf("browser: add binding: %w", err)
		}
	}
	if cfg.Script != "" {
		inject := proto.PageAddScriptToEvaluateOnNewDocument{Source: cfg.Script, WorldName: cfg.World}
		if _, err := inject.Call(page); err != nil {
			p.Close()
			return nil, fmt.Errorf("browser: inject script: %w", err)
		}
	}

	navCtx, navCancel := context.WithTimeout(ctx, mgr.cfg.NavigationTimeout)
	defer navCancel()

	err = page.Context(navCtx).Navigate(cfg.URL)
	var navErr *rod.NavigationError
	switch {
	case errors.As(err, &navErr):
		log.Info("browser: navigation failed", "url", cfg.URL, "reason", navErr.Reason)
		if cfg.OnFailed != nil {
			cfg.OnFailed(navErr.Reason)
		}
	case err != nil:
		p.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", cfg.URL, err)
	}
	return p, nil
}

// listen runs all page event handlers on one goroutine until ctx ends.
func (p *Page) listen(ctx context.Context, cfg PageConfig) {
	page := p.page
	docRequests := make(map[proto.NetworkRequestID]bool)

	wait := page.Context(ctx).EachEvent(
		func(e *proto.PageJavascriptDialogOpening) {
			_ = proto.PageHandleJavaScriptDialog{Accept: false}.Call(page)
		},
		func(e *proto.RuntimeBindingCalled) {
			if e.Name == cfg.Binding && cfg.OnBinding != nil {
				cfg.OnBinding(e.Payload)
			}
		},
		func(e *proto.NetworkRequestWillBeSent) {
			if e.Type == proto.NetworkResourceTypeDocument && e.FrameID == page.FrameID {
				docRequests[e.RequestID] = true
			}
		},
		func(e *proto.NetworkLoadingFailed) {
			if !docRequests[e.RequestID] {
				return
			}
			delete(docRequests, e.RequestID)
			if !e.Canceled && cfg.OnFailed != nil {
				cfg.OnFailed(e.ErrorText)
			}
		},
		func(e *proto.NetworkLoadingFinished) {
			delete(docRequests, e.RequestID)
		},
		func(e *proto.PageFrameStoppedLoading) {
			if e.FrameID == page.FrameID && cfg.OnLoaded != nil {
				cfg.OnLoaded()
			}
		},
	)
	go wait()
}

// Focus brings the page to front.
func (p *Page) Focus() error {
	_, err := p.page.Activate()
	return err
}

// Reload reloads the page in place.
func (p *Page) Reload() error {
	return p.page.Reload()
}

// Close stops event handling, closes the page and disposes its sandbox
// context.
func (p *Page) Close() error {
	p.cancel()
	err := p.page.Close()
	disposeSandbox(p.sandbox)
	return err
}

func disposeSandbox(b *rod.Browser) {
	if b != nil {
		_ = b.Close()
	}
}
