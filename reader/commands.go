package reader

import "github.com/hazyhaar/feedview/bridge"

// The methods below complete bridge.Commands. ToggleWebpage,
// ToggleFullContent and ToggleHidden are the public operations.
var _ bridge.Commands = (*Reader)(nil)

func (r *Reader) Dismiss()             { r.deps.Host.Dismiss() }
func (r *Reader) OffsetItem(delta int) { r.deps.Host.OffsetItem(delta) }

func (r *Reader) TextMenu(pos bridge.Position, text, url string) {
	r.deps.Host.TextMenu(pos, text, url)
}

func (r *Reader) ImageMenu(pos bridge.Position) { r.deps.Host.ImageMenu(pos) }
func (r *Reader) DismissContextMenu()           { r.deps.Host.DismissContextMenu() }

// Shortcut runs the host's entry shortcuts for a key the bridge did not
// map. Without an entry the key is dropped.
func (r *Reader) Shortcut(ev bridge.KeyEvent) {
	if e := r.Entry(); e != nil {
		r.deps.Host.Shortcuts(e, ev)
	}
}

func (r *Reader) DispatchKeyDown(ev bridge.KeyEvent) { r.deps.Host.DispatchKeyDown(ev) }

// LoadError records a load failure of the surface with the given key. The
// machine ignores it unless that surface is the one expected.
func (r *Reader) LoadError(key, reason string) {
	r.logger.Debug("reader: surface load error", "instance", r.instance, "key", key, "reason", reason)
	r.machine.SurfaceFailed(key, reason)
}
