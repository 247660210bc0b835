package surface

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Option configures a Controller.
type Option func(*Controller)

// WithList sets the entry list to scroll and refocus.
func WithList(l List) Option {
	return func(c *Controller) { c.list = l }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller owns at most one surface at a time.
type Controller struct {
	factory  Factory
	listener Listener
	list     List
	logger   *slog.Logger

	mu   sync.Mutex
	cur  Surface
	spec Spec
}

// NewController creates a Controller that opens surfaces with f and
// reports their lifecycle to l.
func NewController(f Factory, l Listener, opts ...Option) *Controller {
	c := &Controller{factory: f, listener: l}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Materialize makes spec the live surface. When the current surface has the
// same key and URL nothing happens; otherwise the current surface is closed
// and a new one opened, focused and its entry scrolled into view. It
// reports whether a surface was created.
func (c *Controller) Materialize(ctx context.Context, spec Spec) (bool, error) {
	if err := spec.Validate(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur != nil && c.spec.Key == spec.Key && c.spec.URL == spec.URL && c.spec.Partition == spec.Partition {
		return false, nil
	}
	c.closeLocked()

	c.listener.Mounted(spec.Key)
	s, err := c.factory.Open(ctx, spec, c.listener)
	if err != nil {
		return false, fmt.Errorf("surface: open %s: %w", spec.Key, err)
	}
	c.cur, c.spec = s, spec

	if err := s.Focus(); err != nil {
		c.logger.Debug("surface: focus failed", "key", spec.Key, "error", err)
	}
	if c.list != nil {
		c.list.ScrollIntoView(spec.EntryID)
	}
	c.logger.Debug("surface: materialized", "key", spec.Key, "partition", spec.Partition)
	return true, nil
}

// Clear closes the current surface, if any.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

// Reload reloads the current surface in place.
func (c *Controller) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return ErrNoSurface
	}
	c.listener.Mounted(c.spec.Key)
	if err := c.cur.Reload(); err != nil {
		return fmt.Errorf("surface: reload %s: %w", c.spec.Key, err)
	}
	return nil
}

// Unmount closes the current surface and gives keyboard focus back to the
// entry's row in the list.
func (c *Controller) Unmount(entryID string) {
	c.mu.Lock()
	c.closeLocked()
	c.mu.Unlock()
	if c.list != nil && entryID != "" {
		c.list.Refocus(entryID)
	}
}

// Current returns the spec of the live surface.
func (c *Controller) Current() (Spec, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spec, c.cur != nil
}

func (c *Controller) closeLocked() {
	if c.cur == nil {
		return
	}
	if err := c.cur.Close(); err != nil {
		c.logger.Warn("surface: close failed", "key", c.spec.Key, "error", err)
	}
	c.logger.Debug("surface: closed", "key", c.spec.Key)
	c.cur, c.spec = nil, Spec{}
}
