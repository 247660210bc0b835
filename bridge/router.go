package bridge

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrDuplicateInstance is returned by Subscribe when the tag is taken.
var ErrDuplicateInstance = errors.New("bridge: instance tag already subscribed")

// Router is the process-wide entry point for surface signals. Each reader
// subscribes under its own instance tag; signals are dispatched to the
// subscriber named in the signal and dropped when there is none.
type Router struct {
	mu     sync.RWMutex
	subs   map[string]Commands
	logger *slog.Logger
}

// NewRouter creates an empty Router.
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{subs: make(map[string]Commands), logger: logger}
}

// Subscribe routes signals tagged tag to c until the returned
// Subscription is released.
func (r *Router) Subscribe(tag string, c Commands) (*Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[tag]; ok {
		return nil, ErrDuplicateInstance
	}
	r.subs[tag] = c
	r.logger.Debug("bridge: subscribed", "instance", tag)
	return &Subscription{router: r, tag: tag}, nil
}

// DeliverFrom decodes raw as sent by a script inside a surface owned by
// instance. The instance tag is taken from the caller, never from the
// payload, and load errors are refused: only the host reports those.
func (r *Router) DeliverFrom(instance string, raw []byte) error {
	s, err := Decode(raw)
	if err != nil {
		r.logger.Warn("bridge: bad signal", "instance", instance, "error", err)
		return err
	}
	if s.Kind == KindLoadError {
		r.logger.Warn("bridge: surface sent a load error", "instance", instance)
		return ErrForbiddenKind
	}
	if s.Instance != instance {
		r.logger.Debug("bridge: signal instance rewritten", "claimed", s.Instance, "instance", instance)
		s.Instance = instance
	}
	return r.Send(s)
}

// Send dispatches a signal produced by the host. Signals for an instance
// with no subscriber are dropped.
func (r *Router) Send(s Signal) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.RLock()
	c, ok := r.subs[s.Instance]
	r.mu.RUnlock()
	if !ok {
		r.logger.Debug("bridge: signal for unknown instance dropped",
			"instance", s.Instance, "kind", s.Kind)
		return nil
	}
	// Commands may release subscriptions; no lock is held here.
	return Dispatch(s, c)
}

// Len returns the number of live subscriptions.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

func (r *Router) release(tag string) {
	r.mu.Lock()
	delete(r.subs, tag)
	r.mu.Unlock()
	r.logger.Debug("bridge: released", "instance", tag)
}

// Subscription is a reader's hold on its instance tag.
type Subscription struct {
	router *Router
	tag    string
	once   sync.Once
}

// Tag returns the instance tag.
func (s *Subscription) Tag() string { return s.tag }

// Release stops routing. Safe to call more than once.
func (s *Subscription) Release() {
	s.once.Do(func() { s.router.release(s.tag) })
}
