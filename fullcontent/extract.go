package fullcontent

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoContent is returned when no block of the page holds enough text.
var ErrNoContent = errors.New("fullcontent: no article content found")

// extractor picks the article subtree of a page and sanitizes it.
// Semantic landmarks (<article>, <main>, role=main) win; otherwise the
// subtree with the best text density is kept.
type extractor struct {
	minLen int
	policy *bluemonday.Policy
}

func newExtractor(minLen int) *extractor {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("loading").OnElements("img")
	p.AllowElements("figure", "figcaption", "picture", "source")
	p.AllowAttrs("srcset", "type", "media").OnElements("source")
	return &extractor{minLen: minLen, policy: p}
}

func (e *extractor) extract(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("fullcontent: parse: %w", err)
	}

	node := e.pick(doc)
	if node == nil {
		return "", ErrNoContent
	}

	raw := renderNode(node)
	clean := strings.TrimSpace(e.policy.Sanitize(raw))
	if clean == "" {
		return "", ErrNoContent
	}
	return clean, nil
}

func (e *extractor) pick(doc *html.Node) *html.Node {
	if n := e.bestLandmark(doc); n != nil {
		return n
	}
	body := findFirst(doc, atom.Body)
	if body == nil {
		body = doc
	}
	if n := e.densest(body); n != nil {
		return n
	}
	if len(collectText(body)) >= e.minLen {
		return body
	}
	return nil
}

// bestLandmark returns the landmark with the most text, checking <article>
// before <main> and role=main.
func (e *extractor) bestLandmark(doc *html.Node) *html.Node {
	groups := [][]*html.Node{
		findAll(doc, func(n *html.Node) bool { return n.DataAtom == atom.Article }),
		findAll(doc, func(n *html.Node) bool {
			return n.DataAtom == atom.Main || getAttr(n, "role") == "main"
		}),
	}
	for _, nodes := range groups {
		var best *html.Node
		bestLen := 0
		for _, n := range nodes {
			if isBoilerplate(n) {
				continue
			}
			l := len(contentText(n))
			if l >= e.minLen && l > bestLen {
				best, bestLen = n, l
			}
		}
		if best != nil {
			return best
		}
	}
	return nil
}

type candidate struct {
	node     *html.Node
	score    float64
	textLen  int
	linkDens float64
}

// densest scores content containers by text/markup ratio, text length and
// link density, and returns the best one.
func (e *extractor) densest(root *html.Node) *html.Node {
	var best *candidate

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type != html.ElementNode || isBoilerplate(n) {
			return
		}
		if isContentTag(n.DataAtom) {
			text := contentText(n)
			if len(text) >= e.minLen {
				markup := len(renderNode(n))
				if markup == 0 {
					markup = 1
				}
				c := candidate{
					node:     n,
					textLen:  len(text),
					linkDens: float64(len(collectLinkText(n))) / float64(len(text)),
				}
				if c.linkDens <= 0.5 {
					density := float64(c.textLen) / float64(markup)
					c.score = density * logScale(c.textLen) * (1 - c.linkDens)
					if best == nil || c.score > best.score {
						cc := c
						best = &cc
					}
				}
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(root)

	if best == nil {
		return nil
	}
	return best.node
}

func logScale(n int) float64 {
	if n <= 0 {
		return 0
	}
	scale := 1.0
	for v := n; v > 100; v /= 2 {
		scale++
	}
	return scale
}

func isContentTag(a atom.Atom) bool {
	switch a {
	case atom.Div, atom.Section, atom.Article, atom.Main, atom.Td, atom.Body:
		return true
	}
	return false
}

var boilerplateHints = []string{
	"comment", "sidebar", "footer", "navbar", "menu", "share", "social",
	"related", "advert", "promo", "cookie", "newsletter", "subscribe",
}

func isBoilerplate(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Nav, atom.Footer, atom.Header, atom.Aside, atom.Form,
		atom.Script, atom.Style, atom.Noscript, atom.Iframe:
		return true
	}
	switch getAttr(n, "role") {
	case "navigation", "banner", "contentinfo", "complementary":
		return true
	}
	marker := strings.ToLower(getAttr(n, "class") + " " + getAttr(n, "id"))
	if strings.TrimSpace(marker) == "" {
		return false
	}
	for _, h := range boilerplateHints {
		if strings.Contains(marker, h) {
			return true
		}
	}
	return false
}

// collectText returns the visible text of a subtree, whitespace-collapsed.
func collectText(n *html.Node) string {
	return gatherText(n, false)
}

// contentText is collectText minus boilerplate descendants (sidebars,
// navigation, comment blocks), used for scoring.
func contentText(n *html.Node) string {
	return gatherText(n, true)
}

func gatherText(root *html.Node, skipBoilerplate bool) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			t := strings.Join(strings.Fields(n.Data), " ")
			if t != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(t)
			}
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			}
			if skipBoilerplate && n != root && isBoilerplate(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return sb.String()
}

func collectLinkText(n *html.Node) string {
	var parts []string
	for _, a := range findAll(n, func(n *html.Node) bool { return n.DataAtom == atom.A }) {
		if t := collectText(a); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func findFirst(root *html.Node, a atom.Atom) *html.Node {
	nodes := findAll(root, func(n *html.Node) bool { return n.DataAtom == a })
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func renderNode(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
