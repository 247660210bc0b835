// Package fullcontent retrieves an entry's source page and extracts the
// article body from it ("full content" mode).
//
// Fetch never returns a Go error: every failure collapses into
// Failed(ReasonParserFailure) and the cause is logged. Callers that need the
// cause use Extract directly.
package fullcontent

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/feedview/safelink"
	"golang.org/x/net/html/charset"
)

// Config configures the fetcher.
type Config struct {
	// Timeout for the whole request. 0 (default) means no timeout: the
	// request runs under the network stack's own rules.
	Timeout time.Duration
	// MaxBytes caps the response body. Default: 10MB.
	MaxBytes int64
	// UserAgent sent with requests.
	UserAgent string
	// URLValidator validates URLs before fetch and on every redirect.
	// Default: safelink.RequireHTTP. Use safelink.ValidateURL for SSRF
	// protection.
	URLValidator func(string) error
	// MinTextLen is the minimum amount of text a block needs to count as
	// article content. Default: 25.
	MinTextLen int

	Client *http.Client
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 << 20
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (compatible; feedview/1.0)"
	}
	if c.URLValidator == nil {
		c.URLValidator = safelink.RequireHTTP
	}
	if c.MinTextLen <= 0 {
		c.MinTextLen = 25
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Fetcher performs full-content fetches. Safe for concurrent use.
type Fetcher struct {
	client *http.Client
	cfg    Config
	ext    *extractor
}

// New creates a Fetcher. Redirect targets go through the URL validator.
func New(cfg Config) *Fetcher {
	cfg.defaults()
	validate := cfg.URLValidator

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if client.CheckRedirect == nil {
		c := *client
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects (%d)", len(via))
			}
			if err := validate(req.URL.String()); err != nil {
				return fmt.Errorf("redirect blocked: %w", err)
			}
			return nil
		}
		client = &c
	}

	return &Fetcher{
		client: client,
		cfg:    cfg,
		ext:    newExtractor(cfg.MinTextLen),
	}
}

// Fetch retrieves url and returns Succeeded(articleHTML) or
// Failed(ReasonParserFailure). No retry is attempted.
func (f *Fetcher) Fetch(ctx context.Context, url string) Result {
	start := time.Now()
	out, err := f.Extract(ctx, url)
	if err != nil {
		f.cfg.Logger.Warn("fullcontent: fetch failed",
			"url", url, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return Failed(ReasonParserFailure)
	}
	f.cfg.Logger.Debug("fullcontent: extracted",
		"url", url, "size", len(out), "duration_ms", time.Since(start).Milliseconds())
	return Succeeded(out)
}

// Extract GETs url, requires a 2xx response, decodes the body to UTF-8 and
// returns the sanitized article fragment.
func (f *Fetcher) Extract(ctx context.Context, url string) (string, error) {
	if err := f.cfg.URLValidator(url); err != nil {
		return "", fmt.Errorf("fullcontent: URL rejected: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("fullcontent: new request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fullcontent: http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fullcontent: http %d", resp.StatusCode)
	}

	body, err := safelink.LimitedReadAll(resp.Body, f.cfg.MaxBytes)
	if err != nil {
		return "", fmt.Errorf("fullcontent: read body: %w", err)
	}

	r, err := charset.NewReader(bytes.NewReader(body), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("fullcontent: decode: %w", err)
	}

	return f.ext.extract(r)
}
