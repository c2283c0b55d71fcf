// Package page holds an in-memory HTML document that the message loader
// renders into. It stands in for the browser DOM: elements are addressed by id
// and their content is replaced either as text or as parsed markup.
package page

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// Document is a parsed HTML page. It is safe for concurrent use.
type Document struct {
	mu   sync.RWMutex
	root *html.Node
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse for an in-memory page.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// SetText replaces the children of element id with a single text node.
// The text is escaped when the document is rendered.
func (d *Document) SetText(id, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	el := d.find(id)
	if el == nil {
		return fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	clearChildren(el)
	el.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return nil
}

// SetMarkup replaces the children of element id with markup parsed in the
// element's context. The markup is trusted as-is.
func (d *Document) SetMarkup(id, markup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	el := d.find(id)
	if el == nil {
		return fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), el)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	clearChildren(el)
	for _, n := range nodes {
		el.AppendChild(n)
	}
	return nil
}

// Text returns the concatenated text content of element id.
func (d *Document) Text(id string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	el := d.find(id)
	if el == nil {
		return "", fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	var sb strings.Builder
	collectText(el, &sb)
	return sb.String(), nil
}

// InnerHTML returns the serialized children of element id.
func (d *Document) InnerHTML(id string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	el := d.find(id)
	if el == nil {
		return "", fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	var buf bytes.Buffer
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Render writes the whole document to w.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return html.Render(w, d.root)
}

func (d *Document) find(id string) *html.Node {
	var walk func(n *html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Namespace == "" && a.Key == "id" && a.Val == id {
					return n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(d.root)
}

func clearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
