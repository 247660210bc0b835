// Package model defines the feed entry and source types the reader pane
// displays. Entries and sources are owned by the surrounding application;
// the reader only reads them and asks the host to mutate flags.
package model

import (
	"fmt"
	"strings"
	"time"
)

// OpenTarget is a source-level default for how its entries are displayed.
// The numeric values match the persisted source table of the host app.
type OpenTarget int

const (
	OpenSnippet     OpenTarget = 0
	OpenWebpage     OpenTarget = 1
	OpenFullContent OpenTarget = 2
)

func (t OpenTarget) String() string {
	switch t {
	case OpenWebpage:
		return "webpage"
	case OpenFullContent:
		return "full"
	default:
		return "snippet"
	}
}

// ParseOpenTarget accepts "snippet", "webpage"/"web" and "full"/"fullcontent".
// The empty string maps to OpenSnippet.
func ParseOpenTarget(s string) (OpenTarget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "snippet", "local":
		return OpenSnippet, nil
	case "webpage", "web":
		return OpenWebpage, nil
	case "full", "fullcontent", "full_content", "full-content":
		return OpenFullContent, nil
	}
	return OpenSnippet, fmt.Errorf("model: unknown open target %q", s)
}

// Source is the feed an entry belongs to.
type Source struct {
	ID         string
	Name       string
	IconURL    string
	OpenTarget OpenTarget
}

// Entry is a single feed item.
type Entry struct {
	ID      string
	Title   string
	Link    string // may use a non-HTTP scheme (urn:, mailto:, ...)
	Content string // stored HTML, possibly empty
	Snippet string // short HTML summary
	Creator string
	Date    time.Time

	HasRead bool
	Starred bool
	Hidden  bool

	Source *Source
}

// Payload returns the stored HTML to show in snippet mode: the full stored
// content when present, otherwise the snippet.
func (e *Entry) Payload() string {
	if e.Content != "" {
		return e.Content
	}
	return e.Snippet
}

// OpenTarget returns the source's open target, or OpenSnippet when the
// entry has no source attached.
func (e *Entry) OpenTarget() OpenTarget {
	if e.Source == nil {
		return OpenSnippet
	}
	return e.Source.OpenTarget
}
