package loadmode

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hazyhaar/feedview/fullcontent"
	"github.com/hazyhaar/feedview/model"
	"github.com/hazyhaar/feedview/safelink"
)

// Fetcher retrieves the full content of a link. *fullcontent.Fetcher
// satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) fullcontent.Result
}

// Config configures a Machine.
type Config struct {
	Fetcher Fetcher
	Logger  *slog.Logger
	// OnChange is called after every effective transition, outside the
	// machine lock. It may be called from the fetch goroutine.
	OnChange func(State)
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// ticket tags an in-flight fetch with the state it was issued for.
type ticket struct {
	entryID string
	gen     uint64
}

// Machine is the load-mode state machine of one reader.
type Machine struct {
	cfg Config

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	st          State
	gen         uint64
	fetchCancel context.CancelFunc
	closed      bool
}

// New creates a Machine with no entry. Fetches run under ctx.
func New(ctx context.Context, cfg Config) *Machine {
	cfg.defaults()
	mctx, cancel := context.WithCancel(ctx)
	return &Machine{cfg: cfg, ctx: mctx, cancel: cancel}
}

// State returns a snapshot.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st
}

// SurfaceKey returns the key of the surface the current state calls for.
func (m *Machine) SurfaceKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.SurfaceKey()
}

// OnEntryChanged re-seeds the machine for e from its source's open-target,
// whatever the previous entry's mode was. A webpage or full-content
// open-target on a non-HTTP(S) link seeds Snippet. Entering FullContent
// starts a fetch immediately.
func (m *Machine) OnEntryChanged(e *model.Entry) {
	if e == nil {
		return
	}
	mode := FromOpenTarget(e.OpenTarget())
	if mode != Snippet && !safelink.IsHTTP(e.Link) {
		mode = Snippet
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.st = State{EntryID: e.ID, Link: e.Link}
	t := m.enterLocked(mode)
	st := m.st
	m.mu.Unlock()

	m.cfg.Logger.Debug("loadmode: entry changed", "entry_id", e.ID, "mode", mode)
	m.launch(t, st.Link)
	m.notify(st)
}

// ToggleWebpage leaves Webpage for Snippet, or enters Webpage when the link
// is HTTP(S), superseding any in-flight fetch. It reports whether the state
// changed.
func (m *Machine) ToggleWebpage() bool {
	return m.toggle(Webpage)
}

// ToggleFullContent leaves FullContent for Snippet, or enters FullContent
// when the link is HTTP(S) and starts a fresh fetch. Nothing is cached
// across toggles. It reports whether the state changed.
func (m *Machine) ToggleFullContent() bool {
	return m.toggle(FullContent)
}

func (m *Machine) toggle(target Mode) bool {
	m.mu.Lock()
	if m.closed || m.st.EntryID == "" {
		m.mu.Unlock()
		return false
	}
	next := target
	if m.st.Mode == target {
		next = Snippet
	} else if !safelink.IsHTTP(m.st.Link) {
		id := m.st.EntryID
		m.mu.Unlock()
		m.cfg.Logger.Debug("loadmode: toggle ignored, link is not http(s)",
			"entry_id", id, "mode", target)
		return false
	}
	t := m.enterLocked(next)
	st := m.st
	m.mu.Unlock()

	m.launch(t, st.Link)
	m.notify(st)
	return true
}

// Refetch re-issues the full-content fetch for the current entry. It is the
// reload path when no surface exists; outside FullContent it does nothing.
func (m *Machine) Refetch() bool {
	m.mu.Lock()
	if m.closed || m.st.Mode != FullContent {
		m.mu.Unlock()
		return false
	}
	t := m.enterLocked(FullContent)
	st := m.st
	m.mu.Unlock()

	m.launch(t, st.Link)
	m.notify(st)
	return true
}

// SurfaceMounted records that the surface with key started (re)loading:
// loaded and error flags are cleared. Signals for another key are ignored.
func (m *Machine) SurfaceMounted(key string) {
	m.update(key, func(s *State) {
		s.Loaded = false
		s.Failure = nil
	})
}

// SurfaceLoaded records the surface's load-finished signal.
func (m *Machine) SurfaceLoaded(key string) {
	m.update(key, func(s *State) { s.Loaded = true })
}

// SurfaceFailed records the surface's load-error signal.
func (m *Machine) SurfaceFailed(key, reason string) {
	m.update(key, func(s *State) {
		s.Failure = &Failure{Kind: SurfaceLoadFailure, Reason: reason}
	})
}

func (m *Machine) update(key string, fn func(*State)) {
	m.mu.Lock()
	if m.closed || !m.st.ShowSurface() || key != m.st.SurfaceKey() {
		m.mu.Unlock()
		m.cfg.Logger.Debug("loadmode: surface signal for stale key dropped", "key", key)
		return
	}
	fn(&m.st)
	st := m.st
	m.mu.Unlock()
	m.notify(st)
}

// Wait blocks until every fetch goroutine has returned.
func (m *Machine) Wait() { m.wg.Wait() }

// Close supersedes any in-flight fetch, makes every later call a no-op and
// waits for fetch goroutines.
func (m *Machine) Close() {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		m.gen++
		if m.fetchCancel != nil {
			m.fetchCancel()
			m.fetchCancel = nil
		}
	}
	m.mu.Unlock()
	m.cancel()
	m.wg.Wait()
}

// enterLocked switches to mode, resets display flags and bumps the
// generation. It returns a ticket when a fetch must be started.
func (m *Machine) enterLocked(mode Mode) *ticket {
	m.gen++
	if m.fetchCancel != nil {
		m.fetchCancel()
		m.fetchCancel = nil
	}
	m.st.Mode = mode
	m.st.Fetch = fullcontent.Pending()
	m.st.Loaded = false
	m.st.Failure = nil
	m.st.Generation = m.gen
	if mode != FullContent {
		return nil
	}
	return &ticket{entryID: m.st.EntryID, gen: m.gen}
}

func (m *Machine) launch(t *ticket, link string) {
	if t == nil {
		return
	}
	if m.cfg.Fetcher == nil {
		m.apply(*t, fullcontent.Failed(fullcontent.ReasonParserFailure))
		return
	}

	fctx, cancel := context.WithCancel(m.ctx)
	m.mu.Lock()
	if m.gen != t.gen || m.closed {
		m.mu.Unlock()
		cancel()
		return
	}
	m.fetchCancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	m.cfg.Logger.Debug("loadmode: fetch started", "entry_id", t.entryID, "url", link, "generation", t.gen)
	go func() {
		defer m.wg.Done()
		defer cancel()
		res := m.cfg.Fetcher.Fetch(fctx, link)
		m.apply(*t, res)
	}()
}

// apply installs a fetch result if its ticket still matches.
func (m *Machine) apply(t ticket, res fullcontent.Result) {
	m.mu.Lock()
	if m.closed || t.gen != m.gen || t.entryID != m.st.EntryID || m.st.Mode != FullContent {
		m.mu.Unlock()
		m.cfg.Logger.Debug("loadmode: stale fetch result discarded",
			"entry_id", t.entryID, "generation", t.gen)
		return
	}
	m.fetchCancel = nil
	switch {
	case res.IsSuccess():
		m.st.Fetch = res
	default:
		reason := res.Reason
		if reason == "" {
			reason = fullcontent.ReasonParserFailure
		}
		m.st.Fetch = fullcontent.Failed(reason)
		m.st.Loaded = true
		m.st.Failure = &Failure{Kind: FetchFailure, Reason: reason}
	}
	st := m.st
	m.mu.Unlock()
	m.notify(st)
}

func (m *Machine) notify(st State) {
	if m.cfg.OnChange != nil {
		m.cfg.OnChange(st)
	}
}
