// Package article turns an entry into what a rendering surface loads: the
// HTML payload for the current mode and the template-page target that
// carries it, with the header and display preferences.
package article

import (
	"github.com/hazyhaar/feedview/fullcontent"
	"github.com/hazyhaar/feedview/loadmode"
	"github.com/hazyhaar/feedview/model"
)

// Resolve returns the HTML payload for mode. ok is false when nothing is to
// be rendered from generated content: in Webpage mode (the surface loads
// the link itself) and in FullContent mode until the fetch has succeeded.
func Resolve(mode loadmode.Mode, e *model.Entry, fetch fullcontent.Result) (html string, ok bool) {
	if e == nil {
		return "", false
	}
	switch mode {
	case loadmode.Snippet:
		return e.Payload(), true
	case loadmode.FullContent:
		if fetch.IsSuccess() {
			return fetch.HTML, true
		}
		return "", false
	default:
		return "", false
	}
}
