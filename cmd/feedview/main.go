// Command feedview runs the article reader pane outside of a feed app.
//
// Usage:
//
//	feedview open --link https://example.com/post --target full
//	feedview fetch https://example.com/post
//	feedview dump --link https://example.com/post --mode full
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/hazyhaar/feedview/article"
	"github.com/hazyhaar/feedview/assets"
	"github.com/hazyhaar/feedview/bridge"
	"github.com/hazyhaar/feedview/fullcontent"
	"github.com/hazyhaar/feedview/loadmode"
	"github.com/hazyhaar/feedview/model"
	"github.com/hazyhaar/feedview/reader"
	"github.com/hazyhaar/feedview/surface"
)

var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config   string `help:"Path to feedview.yaml." type:"path" short:"c"`
	LogLevel string `help:"Log level." enum:"debug,info,warn,error" default:"info"`

	logger *slog.Logger    `kong:"-"`
	ctx    context.Context `kong:"-"`
}

func (g *Globals) load() (*reader.Config, error) {
	if g.Config == "" {
		return reader.DefaultConfig(), nil
	}
	return reader.LoadConfigFile(g.Config)
}

// CLI is the top-level command structure.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Open    OpenCmd          `cmd:"" help:"Open an entry in a Chrome-backed reader pane."`
	Fetch   FetchCmd         `cmd:"" help:"Extract the full content of a page and print it."`
	Dump    DumpCmd          `cmd:"" help:"Print an entry's payload as markdown."`
}

// EntryFlags describe the entry to show.
type EntryFlags struct {
	ID      string `help:"Entry id." default:"entry-1"`
	Link    string `help:"Entry link." required:""`
	Title   string `help:"Entry title."`
	Content string `help:"File with the stored HTML content." type:"existingfile"`
	Snippet string `help:"Stored HTML snippet."`
	Source  string `help:"Source name." default:"feedview"`
	Target  string `help:"Source open target: snippet, webpage or full." default:"snippet"`
}

func (f EntryFlags) entry() (*model.Entry, error) {
	target, err := model.ParseOpenTarget(f.Target)
	if err != nil {
		return nil, err
	}
	e := &model.Entry{
		ID:      f.ID,
		Title:   f.Title,
		Link:    f.Link,
		Snippet: f.Snippet,
		Date:    time.Now(),
		Source:  &model.Source{ID: "cli", Name: f.Source, OpenTarget: target},
	}
	if f.Content != "" {
		data, err := os.ReadFile(f.Content)
		if err != nil {
			return nil, err
		}
		e.Content = string(data)
	}
	return e, nil
}

// OpenCmd shows one entry until interrupted.
type OpenCmd struct {
	EntryFlags
	Locale string `help:"Override the configured locale."`
}

// Run executes the open command.
func (c *OpenCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	if c.Locale != "" {
		cfg.Locale = c.Locale
	}
	e, err := c.entry()
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	ctx, logger := g.ctx, g.logger

	srv := assets.New(assets.Config{Addr: cfg.Assets.Addr, Logger: logger})
	base, err := srv.Start(ctx)
	if err != nil {
		return err
	}
	defer srv.Close()

	store, closePrefs, err := reader.OpenPrefs(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closePrefs()

	router := bridge.NewRouter(logger)
	browser, err := surface.NewBrowser(ctx, reader.SurfaceBrowserConfig(cfg, logger), router)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer browser.Close()

	r, err := reader.New(ctx, cfg, reader.Deps{
		Factory:    browser,
		Router:     router,
		Prefs:      store,
		Host:       logHost{logger},
		List:       logHost{logger},
		AssetsBase: base,
	}, logger)
	if err != nil {
		return err
	}
	defer r.Close()

	r.SetEntry(e)
	logger.Info("feedview: reader open", "entry_id", e.ID, "instance", r.Instance(), "mode", r.State().Mode)

	<-ctx.Done()
	st := r.State()
	logger.Info("feedview: shutting down", "mode", st.Mode, "loaded", st.Loaded, "errored", st.Errored())
	return nil
}

// FetchCmd runs a full-content fetch.
type FetchCmd struct {
	URL string `arg:"" help:"Page to extract."`
}

// Run executes the fetch command.
func (c *FetchCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	out, err := reader.NewFetcher(cfg, g.logger).Extract(g.ctx, c.URL)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// DumpCmd resolves an entry's payload and prints it as markdown.
type DumpCmd struct {
	EntryFlags
	Mode string `help:"Mode to resolve." enum:"snippet,full" default:"snippet"`
}

// Run executes the dump command.
func (c *DumpCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	e, err := c.entry()
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}

	mode, fetch := loadmode.Snippet, fullcontent.Pending()
	if c.Mode == "full" {
		mode = loadmode.FullContent
		fetch = reader.NewFetcher(cfg, g.logger).Fetch(g.ctx, e.Link)
		if fetch.IsFailure() {
			return fmt.Errorf("dump: %s", fetch.Reason)
		}
	}

	payload, ok := article.Resolve(mode, e, fetch)
	if !ok {
		return fmt.Errorf("dump: nothing to render in %s mode", mode)
	}
	md, err := article.Markdown(payload, e.Link)
	if err != nil {
		return err
	}
	if e.Title != "" {
		fmt.Printf("# %s\n\n%s\n\n", e.Title, article.FormatDate(e.Date, cfg.Locale))
	}
	fmt.Println(md)
	return nil
}

// logHost logs host and list callbacks.
type logHost struct{ logger *slog.Logger }

func (h logHost) Dismiss()             { h.logger.Info("host: dismiss") }
func (h logHost) OffsetItem(delta int) { h.logger.Info("host: offset item", "delta", delta) }

func (h logHost) ToggleHasRead(e *model.Entry) {
	h.logger.Info("host: toggle read", "entry_id", e.ID)
}

func (h logHost) ToggleStarred(e *model.Entry) {
	h.logger.Info("host: toggle starred", "entry_id", e.ID)
}

func (h logHost) ToggleHidden(e *model.Entry) {
	h.logger.Info("host: toggle hidden", "entry_id", e.ID)
}

func (h logHost) TextMenu(pos bridge.Position, text, url string) {
	h.logger.Info("host: text menu", "x", pos.X, "y", pos.Y, "text", text, "url", url)
}

func (h logHost) ImageMenu(pos bridge.Position) {
	h.logger.Info("host: image menu", "x", pos.X, "y", pos.Y)
}

func (h logHost) DismissContextMenu() { h.logger.Info("host: dismiss context menu") }

func (h logHost) Shortcuts(e *model.Entry, ev bridge.KeyEvent) {
	h.logger.Info("host: shortcut", "entry_id", e.ID, "key", ev.Key, "ctrl", ev.Ctrl, "meta", ev.Meta)
}

func (h logHost) DispatchKeyDown(ev bridge.KeyEvent) {
	h.logger.Debug("host: key down", "key", ev.Key, "code", ev.Code)
}

func (h logHost) ScrollIntoView(entryID string) {
	h.logger.Debug("list: scroll into view", "entry_id", entryID)
}

func (h logHost) Refocus(entryID string) { h.logger.Debug("list: refocus", "entry_id", entryID) }

func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("feedview"),
		kong.Description("Feed reader article pane."),
		kong.Vars{"version": version},
	)

	cli.logger = newLogger(cli.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cli.ctx = ctx

	if err := kctx.Run(&cli.Globals); err != nil {
		cli.logger.Error("feedview: fatal", "error", err)
		stop()
		os.Exit(1)
	}
}
