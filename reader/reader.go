// Package reader is the article pane of a feed reader. A Reader shows one
// entry at a time in one of three modes (stored snippet, live webpage,
// extracted full content) inside an isolated rendering surface, and turns
// what happens inside that surface into commands for the host application.
//
// The Reader ties together the load-mode machine, the full-content fetcher,
// the surface controller and a bridge subscription. Every state change
// re-materializes the surface on a single worker goroutine.
package reader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/hazyhaar/feedview/article"
	"github.com/hazyhaar/feedview/bridge"
	"github.com/hazyhaar/feedview/loadmode"
	"github.com/hazyhaar/feedview/model"
	"github.com/hazyhaar/feedview/prefs"
	"github.com/hazyhaar/feedview/surface"
)

// ErrClosed is returned by operations on a closed Reader.
var ErrClosed = errors.New("reader: closed")

// Deps are the collaborators of a Reader.
type Deps struct {
	Factory surface.Factory // required
	Router  *bridge.Router  // required

	// Fetcher defaults to NewFetcher(cfg).
	Fetcher loadmode.Fetcher
	// Prefs defaults to an in-memory store at cfg.Prefs.DefaultFontSize.
	Prefs prefs.Store
	Host  Host
	List  surface.List

	// AssetsBase is the base URL the template page is served under, as
	// returned by assets.Server.Start.
	AssetsBase string

	// NewInstance generates the bridge instance tag. Default: "rdr_" + UUIDv7.
	NewInstance func() string
}

func newInstanceTag() string {
	return "rdr_" + uuid.Must(uuid.NewV7()).String()
}

// Reader displays one entry at a time.
type Reader struct {
	cfg      *Config
	deps     Deps
	logger   *slog.Logger
	instance string

	machine *loadmode.Machine
	ctrl    *surface.Controller
	sub     *bridge.Subscription

	ctx    context.Context
	cancel context.CancelFunc
	kick   chan struct{}
	wg     sync.WaitGroup

	mu         sync.Mutex
	entry      *model.Entry
	lastFailed string // surface spec (key and URL) whose Open failed
	closed     bool
}

// New creates a Reader with no entry and subscribes it to deps.Router.
func New(ctx context.Context, cfg *Config, deps Deps, logger *slog.Logger) (*Reader, error) {
	if deps.Factory == nil || deps.Router == nil {
		return nil, fmt.Errorf("reader: factory and router are required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Fetcher == nil {
		deps.Fetcher = NewFetcher(cfg, logger)
	}
	if deps.Prefs == nil {
		deps.Prefs = prefs.NewMemory(cfg.Prefs.DefaultFontSize)
	}
	if deps.Host == nil {
		deps.Host = nopHost{}
	}
	if deps.NewInstance == nil {
		deps.NewInstance = newInstanceTag
	}

	rctx, cancel := context.WithCancel(ctx)
	r := &Reader{
		cfg:      cfg,
		deps:     deps,
		logger:   logger,
		instance: deps.NewInstance(),
		ctx:      rctx,
		cancel:   cancel,
		kick:     make(chan struct{}, 1),
	}

	sub, err := deps.Router.Subscribe(r.instance, r)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("reader: %w", err)
	}
	r.sub = sub

	r.machine = loadmode.New(rctx, loadmode.Config{
		Fetcher:  deps.Fetcher,
		Logger:   logger,
		OnChange: func(loadmode.State) { r.schedule() },
	})

	opts := []surface.Option{surface.WithLogger(logger)}
	if deps.List != nil {
		opts = append(opts, surface.WithList(deps.List))
	}
	r.ctrl = surface.NewController(deps.Factory, surfaceEvents{r.machine}, opts...)

	r.wg.Add(1)
	go r.run()
	return r, nil
}

// Instance returns the bridge instance tag of the reader.
func (r *Reader) Instance() string { return r.instance }

// State returns a snapshot of the load-mode state.
func (r *Reader) State() loadmode.State { return r.machine.State() }

// Entry returns the displayed entry, nil when none.
func (r *Reader) Entry() *model.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entry
}

// SetEntry displays e. A different entry id re-seeds the mode from the
// entry's source; the same id only refreshes the entry data (flags, title)
// and keeps the current mode. nil clears the pane.
func (r *Reader) SetEntry(e *model.Entry) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	prev := r.entry
	r.entry = e
	r.mu.Unlock()

	if e != nil && (prev == nil || prev.ID != e.ID) {
		r.logger.Debug("reader: entry set", "entry_id", e.ID, "instance", r.instance)
		r.machine.OnEntryChanged(e)
		return
	}
	r.schedule()
}

// ToggleWebpage switches between the live webpage and the snippet.
func (r *Reader) ToggleWebpage() { r.machine.ToggleWebpage() }

// ToggleFullContent switches between extracted full content and the
// snippet.
func (r *Reader) ToggleFullContent() { r.machine.ToggleFullContent() }

// ToggleHasRead asks the host to flip the entry's read flag.
func (r *Reader) ToggleHasRead() {
	if e := r.Entry(); e != nil {
		r.deps.Host.ToggleHasRead(e)
	}
}

// ToggleStarred asks the host to flip the entry's starred flag.
func (r *Reader) ToggleStarred() {
	if e := r.Entry(); e != nil {
		r.deps.Host.ToggleStarred(e)
	}
}

// ToggleHidden asks the host to flip the entry's hidden flag.
func (r *Reader) ToggleHidden() {
	if e := r.Entry(); e != nil {
		r.deps.Host.ToggleHidden(e)
	}
}

// Reload reloads the live surface. Without one, a full-content entry is
// fetched again and any other mode retries opening its surface.
func (r *Reader) Reload() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.lastFailed = ""
	r.mu.Unlock()

	err := r.ctrl.Reload()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, surface.ErrNoSurface):
		if !r.machine.Refetch() {
			r.schedule()
		}
		return nil
	default:
		return err
	}
}

// SetFontSize stores size and re-renders generated content with it.
func (r *Reader) SetFontSize(size int) error {
	if err := r.deps.Prefs.SetFontSize(size); err != nil {
		return err
	}
	r.schedule()
	return nil
}

// FontSize returns the current font size preference.
func (r *Reader) FontSize() int { return r.deps.Prefs.FontSize() }

// FontSizeEditable reports whether the font size applies to what is
// shown: a live webpage keeps its own styles.
func (r *Reader) FontSizeEditable() bool { return !r.machine.State().Webpage() }

// Close tears the surface down, gives focus back to the entry list and
// stops every background task. It is safe to call more than once.
func (r *Reader) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	var entryID string
	if r.entry != nil {
		entryID = r.entry.ID
	}
	r.mu.Unlock()

	r.sub.Release()
	r.cancel()
	r.wg.Wait()
	r.machine.Close()
	r.ctrl.Unmount(entryID)
	r.logger.Debug("reader: closed", "instance", r.instance)
	return nil
}

// schedule asks the worker to re-materialize. Requests coalesce.
func (r *Reader) schedule() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

func (r *Reader) run() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.kick:
			r.sync()
		}
	}
}

// sync makes the surface match the current state.
func (r *Reader) sync() {
	st := r.machine.State()

	r.mu.Lock()
	e, closed, lastFailed := r.entry, r.closed, r.lastFailed
	r.mu.Unlock()
	if closed {
		return
	}
	if e == nil {
		r.ctrl.Clear()
		return
	}
	if e.ID != st.EntryID {
		// SetEntry is re-seeding the machine; its change notification
		// schedules another pass.
		return
	}

	spec, ok := r.spec(st, e)
	if !ok {
		r.ctrl.Clear()
		return
	}
	if spec.Key+" "+spec.URL == lastFailed {
		return
	}
	if len(spec.URL) > article.MaxURLLength {
		r.logger.Warn("reader: article not displayed", "entry_id", e.ID, "key", spec.Key,
			"url_bytes", len(spec.URL), "error", article.ErrTooLarge)
		r.ctrl.Clear()
		r.mu.Lock()
		r.lastFailed = spec.Key + " " + spec.URL
		r.mu.Unlock()
		r.machine.SurfaceFailed(spec.Key, article.ErrTooLarge.Error())
		return
	}

	if _, err := r.ctrl.Materialize(r.ctx, spec); err != nil {
		if r.ctx.Err() != nil {
			return
		}
		r.logger.Warn("reader: surface open failed", "entry_id", e.ID, "key", spec.Key, "error", err)
		r.mu.Lock()
		r.lastFailed = spec.Key + " " + spec.URL
		r.mu.Unlock()
		r.machine.SurfaceFailed(spec.Key, err.Error())
	}
}

// spec builds the surface for st. ok is false when nothing is to be shown.
func (r *Reader) spec(st loadmode.State, e *model.Entry) (surface.Spec, bool) {
	if !st.ShowSurface() {
		return surface.Spec{}, false
	}
	spec := surface.Spec{
		Key:       st.SurfaceKey(),
		EntryID:   e.ID,
		Partition: surface.PartitionFor(st.Webpage()),
		Policy:    surface.DefaultPolicy(),
		Instance:  r.instance,
	}
	if st.Webpage() {
		spec.URL = e.Link
		return spec, true
	}

	payload, ok := article.Resolve(st.Mode, e, st.Fetch)
	if !ok {
		return surface.Spec{}, false
	}
	target := article.NewTarget(e, payload, r.cfg.Locale, r.deps.Prefs.FontSize(), st.Full())
	spec.URL = target.URL(r.deps.AssetsBase)
	return spec, true
}

// surfaceEvents forwards surface lifecycle signals to the machine, which
// drops those for a surface key it no longer shows.
type surfaceEvents struct{ m *loadmode.Machine }

func (s surfaceEvents) Mounted(key string) { s.m.SurfaceMounted(key) }
func (s surfaceEvents) Loaded(key string)  { s.m.SurfaceLoaded(key) }
