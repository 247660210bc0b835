// Package assets serves the article template page that generated-content
// surfaces load. The server listens on loopback only.
package assets

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed static
var staticFS embed.FS

// Config configures the asset server.
type Config struct {
	// Addr to listen on. Default: "127.0.0.1:0" (random port).
	Addr    string
	Headers HeaderConfig
	Logger  *slog.Logger
}

func (c *Config) defaults() {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:0"
	}
	if c.Headers == (HeaderConfig{}) {
		c.Headers = DefaultHeaders()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Server serves the template page.
type Server struct {
	cfg Config

	mu   sync.Mutex
	srv  *http.Server
	base string
}

// New creates a Server. Call Start to listen.
func New(cfg Config) *Server {
	cfg.defaults()
	return &Server{cfg: cfg}
}

// Handler returns the HTTP handler: the template files under /article/ and
// a /healthz probe.
func (s *Server) Handler() http.Handler {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embedded tree is fixed at build time.
		panic(err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	r.Use(SecurityHeaders(s.cfg.Headers))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/article/*", http.StripPrefix("/article/", http.FileServerFS(static)))
	return r
}

// Start listens on the configured address and returns the base URL
// ("http://127.0.0.1:port/").
func (s *Server) Start(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return s.base, nil
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return "", fmt.Errorf("assets: listen %s: %w", s.cfg.Addr, err)
	}

	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.base = "http://" + ln.Addr().String() + "/"

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.cfg.Logger.Error("assets: serve", "error", err)
		}
	}()
	s.cfg.Logger.Info("assets: listening", "base", s.base)
	return s.base, nil
}

// BaseURL returns the base URL, empty before Start.
func (s *Server) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base
}

// Close shuts the server down.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
