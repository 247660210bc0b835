// Package bridge carries input events out of an isolated rendering surface
// and turns them into reader commands.
//
// The surface has no call stack shared with the host: an injected script
// reports context-menu and key-down events as JSON signals through a binding
// in an isolated world, the host reports load errors, and a process-wide
// Router hands every signal to the reader instance whose tag it carries.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Version is the signal schema version.
const Version = 1

// BindingName is the page binding the in-surface script calls.
const BindingName = "__feedview_bridge"

// WorldName is the isolated world the binding and script live in. Page
// scripts run in the main world and cannot see either.
const WorldName = "feedview-bridge"

var (
	// ErrUnsupportedVersion is returned for signals with another schema version.
	ErrUnsupportedVersion = errors.New("bridge: unsupported signal version")
	// ErrUnknownKind is returned for signals of an unknown kind.
	ErrUnknownKind = errors.New("bridge: unknown signal kind")
	// ErrForbiddenKind is returned when a surface script sends a kind only
	// the host may produce.
	ErrForbiddenKind = errors.New("bridge: signal kind not accepted from a surface")
)

// Kind is the signal category.
type Kind string

const (
	KindContextMenu Kind = "context-menu"
	KindKeyDown     Kind = "key-down"
	KindLoadError   Kind = "load-error"
)

// Position is a point in surface coordinates.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// KeyInput describes a keyboard event as seen inside the surface.
type KeyInput struct {
	Type         string `json:"type"` // "keyDown", "keyUp", ...
	Key          string `json:"key"`
	Code         string `json:"code"`
	Shift        bool   `json:"shift"`
	Alt          bool   `json:"alt"`
	Control      bool   `json:"control"`
	Meta         bool   `json:"meta"`
	IsAutoRepeat bool   `json:"isAutoRepeat"`
}

// InputKeyDown is the KeyInput.Type acted upon.
const InputKeyDown = "keyDown"

// Signal is one message from a surface. Only the fields of its Kind are set.
type Signal struct {
	V        int    `json:"v"`
	Kind     Kind   `json:"kind"`
	Instance string `json:"instance"`

	// context-menu; a nil Pos means "dismiss any open menu".
	Pos  *Position `json:"pos,omitempty"`
	Text string    `json:"text,omitempty"`
	URL  string    `json:"url,omitempty"`

	// key-down
	Input *KeyInput `json:"input,omitempty"`

	// load-error; Key names the surface that failed.
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// ContextMenu builds a context-menu signal. pos nil means dismiss.
func ContextMenu(instance string, pos *Position, text, url string) Signal {
	return Signal{V: Version, Kind: KindContextMenu, Instance: instance, Pos: pos, Text: text, URL: url}
}

// KeyDown builds a key-down signal.
func KeyDown(instance string, in KeyInput) Signal {
	return Signal{V: Version, Kind: KindKeyDown, Instance: instance, Input: &in}
}

// LoadError builds a load-error signal for the surface with the given key.
func LoadError(instance, key, reason string) Signal {
	return Signal{V: Version, Kind: KindLoadError, Instance: instance, Key: key, Reason: reason}
}

// Decode parses and validates a raw signal.
func Decode(raw []byte) (Signal, error) {
	var s Signal
	if err := json.Unmarshal(raw, &s); err != nil {
		return Signal{}, fmt.Errorf("bridge: decode signal: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Signal{}, err
	}
	return s, nil
}

// Validate checks version and kind.
func (s Signal) Validate() error {
	if s.V != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.V)
	}
	switch s.Kind {
	case KindContextMenu, KindKeyDown, KindLoadError:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
}

// Encode returns the JSON form of s.
func (s Signal) Encode() ([]byte, error) {
	return json.Marshal(s)
}
