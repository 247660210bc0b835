package bridge

// Commands receives classified signals. The reader implements it.
type Commands interface {
	Dismiss()
	OffsetItem(delta int)
	ToggleWebpage()
	ToggleFullContent()
	ToggleHidden()

	TextMenu(pos Position, text, url string)
	ImageMenu(pos Position)
	DismissContextMenu()

	// Shortcut and DispatchKeyDown both receive every key that is not
	// handled here, in that order.
	Shortcut(ev KeyEvent)
	DispatchKeyDown(ev KeyEvent)

	LoadError(key, reason string)
}

// KeyEvent is a keydown event synthesized for the host from a KeyInput.
type KeyEvent struct {
	Type    string // always "keydown"
	Key     string
	Code    string
	Shift   bool
	Alt     bool
	Ctrl    bool
	Meta    bool
	Repeat  bool
	Bubbles bool
}

// Synthesize converts a surface key input into a host keydown event.
func Synthesize(in KeyInput) KeyEvent {
	return KeyEvent{
		Type:    "keydown",
		Key:     in.Key,
		Code:    in.Code,
		Shift:   in.Shift,
		Alt:     in.Alt,
		Ctrl:    in.Control,
		Meta:    in.Meta,
		Repeat:  in.IsAutoRepeat,
		Bubbles: true,
	}
}

// Dispatch classifies s and calls the matching command.
//
//	context-menu  no position      → DismissContextMenu
//	              text or link set → TextMenu
//	              otherwise        → ImageMenu
//	key-down      (type keyDown only)
//	              Escape           → Dismiss
//	              ArrowLeft/Right  → OffsetItem(-1/+1)
//	              l L              → ToggleWebpage
//	              w W              → ToggleFullContent
//	              h H              → ToggleHidden
//	              anything else    → Shortcut, then DispatchKeyDown
//	load-error                     → LoadError
func Dispatch(s Signal, c Commands) error {
	switch s.Kind {
	case KindContextMenu:
		switch {
		case s.Pos == nil:
			c.DismissContextMenu()
		case s.Text != "" || s.URL != "":
			c.TextMenu(*s.Pos, s.Text, s.URL)
		default:
			c.ImageMenu(*s.Pos)
		}
	case KindKeyDown:
		if s.Input == nil || s.Input.Type != InputKeyDown {
			return nil
		}
		dispatchKey(*s.Input, c)
	case KindLoadError:
		c.LoadError(s.Key, s.Reason)
	default:
		return ErrUnknownKind
	}
	return nil
}

func dispatchKey(in KeyInput, c Commands) {
	switch in.Key {
	case "Escape":
		c.Dismiss()
	case "ArrowLeft":
		c.OffsetItem(-1)
	case "ArrowRight":
		c.OffsetItem(1)
	case "l", "L":
		c.ToggleWebpage()
	case "w", "W":
		c.ToggleFullContent()
	case "h", "H":
		c.ToggleHidden()
	default:
		ev := Synthesize(in)
		c.Shortcut(ev)
		c.DispatchKeyDown(ev)
	}
}
