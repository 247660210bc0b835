package reader

import (
	"github.com/hazyhaar/feedview/bridge"
	"github.com/hazyhaar/feedview/model"
)

// Host is the application around the reader: the entry list, the menus
// and the global shortcut handler. Entry flags are owned by the host; the
// reader only asks for them to be toggled.
type Host interface {
	Dismiss()
	OffsetItem(delta int)

	ToggleHasRead(e *model.Entry)
	ToggleStarred(e *model.Entry)
	ToggleHidden(e *model.Entry)

	TextMenu(pos bridge.Position, text, url string)
	ImageMenu(pos bridge.Position)
	DismissContextMenu()

	// Shortcuts runs the app's per-entry shortcuts for a key the reader
	// did not handle itself.
	Shortcuts(e *model.Entry, ev bridge.KeyEvent)
	// DispatchKeyDown re-emits the key at the application root.
	DispatchKeyDown(ev bridge.KeyEvent)
}

type nopHost struct{}

func (nopHost) Dismiss()                                 {}
func (nopHost) OffsetItem(int)                           {}
func (nopHost) ToggleHasRead(*model.Entry)               {}
func (nopHost) ToggleStarred(*model.Entry)               {}
func (nopHost) ToggleHidden(*model.Entry)                {}
func (nopHost) TextMenu(bridge.Position, string, string) {}
func (nopHost) ImageMenu(bridge.Position)                {}
func (nopHost) DismissContextMenu()                      {}
func (nopHost) Shortcuts(*model.Entry, bridge.KeyEvent)  {}
func (nopHost) DispatchKeyDown(bridge.KeyEvent)          {}
