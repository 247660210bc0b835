// Package loadmode owns the reader's three-way display mode (snippet, live
// webpage, extracted full content) and the full-content fetch that goes with
// it.
//
// All mutations go through named transitions on Machine. Every transition
// that changes what the reader shows bumps a generation counter; fetches are
// tagged with (entry id, generation) and results carrying an outdated tag
// are dropped on arrival.
package loadmode

import (
	"github.com/hazyhaar/feedview/fullcontent"
	"github.com/hazyhaar/feedview/model"
)

// Mode is the representation currently displayed for an entry.
type Mode int

const (
	Snippet Mode = iota
	Webpage
	FullContent
)

func (m Mode) String() string {
	switch m {
	case Webpage:
		return "webpage"
	case FullContent:
		return "full_content"
	default:
		return "snippet"
	}
}

// FromOpenTarget maps a source's open-target to the initial mode.
func FromOpenTarget(t model.OpenTarget) Mode {
	switch t {
	case model.OpenWebpage:
		return Webpage
	case model.OpenFullContent:
		return FullContent
	default:
		return Snippet
	}
}

// FailureKind distinguishes the two recoverable failures a reader can show.
type FailureKind int

const (
	// FetchFailure: the full-content fetch failed (network, status,
	// extraction).
	FetchFailure FailureKind = iota + 1
	// SurfaceLoadFailure: the rendering surface failed to load its target.
	SurfaceLoadFailure
)

func (k FailureKind) String() string {
	switch k {
	case FetchFailure:
		return "fetch"
	case SurfaceLoadFailure:
		return "surface"
	default:
		return "none"
	}
}

// Failure is the error banner shown in place of (or over) the surface.
type Failure struct {
	Kind   FailureKind
	Reason string
}

// State is a snapshot of the machine. It is a value: callers may keep it.
type State struct {
	EntryID    string
	Link       string
	Mode       Mode
	Fetch      fullcontent.Result
	Loaded     bool
	Failure    *Failure
	Generation uint64
}

// Webpage reports whether the live page is displayed.
func (s State) Webpage() bool { return s.Mode == Webpage }

// Full reports whether extracted full content is displayed.
func (s State) Full() bool { return s.Mode == FullContent }

// SurfaceKey identifies the surface for this state: the entry id, suffixed
// with "_" in webpage mode so that switching in or out of it never reuses a
// surface.
func SurfaceKey(entryID string, mode Mode) string {
	if mode == Webpage {
		return entryID + "_"
	}
	return entryID
}

// SurfaceKey returns SurfaceKey(s.EntryID, s.Mode).
func (s State) SurfaceKey() string { return SurfaceKey(s.EntryID, s.Mode) }

// ShowSurface reports whether a surface should exist. In full-content mode
// nothing is rendered until the fetch has succeeded.
func (s State) ShowSurface() bool {
	if s.EntryID == "" {
		return false
	}
	return s.Mode != FullContent || s.Fetch.IsSuccess()
}

// Errored reports whether an error banner is shown.
func (s State) Errored() bool { return s.Failure != nil }
