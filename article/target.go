package article

import (
	"bytes"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/feedview/model"
)

// TemplatePath is the template page, relative to the asset server root.
const TemplatePath = "article/article.html"

// MaxURLLength is the longest target URL Chrome will navigate to.
const MaxURLLength = 2 << 20

// ErrTooLarge reports a target whose URL exceeds MaxURLLength.
var ErrTooLarge = errors.New("article: content too large to display")

// FontSizes is the fixed set of selectable font sizes.
var FontSizes = []int{12, 13, 14, 15, 16, 17, 18, 19, 20}

// DefaultFontSize is used until a preference is stored.
const DefaultFontSize = 16

// ValidFontSize reports whether n is one of FontSizes.
func ValidFontSize(n int) bool {
	for _, s := range FontSizes {
		if s == n {
			return true
		}
	}
	return false
}

// Header renders the title block shown above the payload:
//
//	<p class="title">…</p><p class="date">…</p><article></article>
//
// The template page fills the empty <article> with the payload.
func Header(title string, date time.Time, locale string) string {
	var buf bytes.Buffer
	for _, n := range []*html.Node{
		textElement(atom.P, "title", title),
		textElement(atom.P, "date", FormatDate(date, locale)),
		{Type: html.ElementNode, DataAtom: atom.Article, Data: "article"},
	} {
		// Rendering a detached node into a buffer cannot fail.
		_ = html.Render(&buf, n)
	}
	return buf.String()
}

func textElement(a atom.Atom, class, text string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

// Target is everything the template page needs. The surface runs in its
// own script context, so all of it travels in the query string.
type Target struct {
	Content    string // HTML payload
	Header     string // see Header
	FontSize   int
	SourceLink string // entry link, for resolving relative URLs in Content
	Full       bool   // payload comes from a full-content fetch
}

// NewTarget assembles the target for entry e showing payload.
func NewTarget(e *model.Entry, payload, locale string, fontSize int, full bool) Target {
	return Target{
		Content:    payload,
		Header:     Header(e.Title, e.Date, locale),
		FontSize:   fontSize,
		SourceLink: e.Link,
		Full:       full,
	}
}

// URL returns the template page address under base, with the parameters
// a (content), h (header), s (font size), u (source link) and m (1 for
// full content, else 0) in that order. An empty base yields a relative
// reference.
func (t Target) URL(base string) string {
	m := "0"
	if t.Full {
		m = "1"
	}
	var b strings.Builder
	if base != "" {
		b.WriteString(strings.TrimSuffix(base, "/"))
		b.WriteByte('/')
	}
	b.WriteString(TemplatePath)
	b.WriteString("?a=")
	b.WriteString(escapeComponent(t.Content))
	b.WriteString("&h=")
	b.WriteString(escapeComponent(t.Header))
	b.WriteString("&s=")
	b.WriteString(strconv.Itoa(t.FontSize))
	b.WriteString("&u=")
	b.WriteString(escapeComponent(t.SourceLink))
	b.WriteString("&m=")
	b.WriteString(m)
	return b.String()
}

// escapeComponent percent-encodes s so that both URLSearchParams and
// decodeURIComponent on the page side restore it: spaces become %20, not +.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
