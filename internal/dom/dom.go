// Package dom is a minimal mutable HTML document built on golang.org/x/net/html.
//
// It implements the document contract of the splash dismissal runtime
// (lookup by id, inline style updates, element removal) so transformed pages
// can be mounted and dismissed without a browser.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page. Methods are safe for concurrent use.
type Document struct {
	mu   sync.Mutex
	root *html.Node
}

// Parse reads a full HTML document. Fragments are wrapped by the parser in
// the implied html/head/body elements.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// HasElement reports whether an element with the given id exists.
func (d *Document) HasElement(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.find(id) != nil
}

// Count returns how many elements carry the given id.
func (d *Document) Count(id string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	walk(d.root, func(node *html.Node) bool {
		if idOf(node) == id {
			n++
		}
		return true
	})
	return n
}

// ParentTag returns the tag name of the parent of the first element with
// the given id, or "" when there is no such element.
func (d *Document) ParentTag(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	node := d.find(id)
	if node == nil || node.Parent == nil || node.Parent.Type != html.ElementNode {
		return ""
	}
	return node.Parent.Data
}

// SetStyle sets one inline style property on the element with the given id.
// Reports false when the element does not exist.
func (d *Document) SetStyle(id, property, value string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	node := d.find(id)
	if node == nil {
		return false
	}
	decls := parseStyle(attr(node, "style"))
	decls = decls.set(property, value)
	setAttr(node, "style", decls.String())
	return true
}

// Style returns one inline style property of the element with the given id.
func (d *Document) Style(id, property string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	node := d.find(id)
	if node == nil {
		return "", false
	}
	return parseStyle(attr(node, "style")).get(property)
}

// RemoveElement detaches the first element with the given id from the tree.
// Reports false when the element does not exist.
func (d *Document) RemoveElement(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	node := d.find(id)
	if node == nil || node.Parent == nil {
		return false
	}
	node.Parent.RemoveChild(node)
	return true
}

// Scripts returns the text content of every inline <script> element.
func (d *Document) Scripts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	walk(d.root, func(node *html.Node) bool {
		if node.Type == html.ElementNode && node.DataAtom == atom.Script {
			var b strings.Builder
			for c := node.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					b.WriteString(c.Data)
				}
			}
			out = append(out, b.String())
			return false
		}
		return true
	})
	return out
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// String renders the document, returning "" on error.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// find returns the first element in document order with the given id.
func (d *Document) find(id string) *html.Node {
	var found *html.Node
	walk(d.root, func(node *html.Node) bool {
		if found != nil {
			return false
		}
		if idOf(node) == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// walk visits nodes depth-first. Returning false from fn skips the children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func idOf(n *html.Node) string {
	if n.Type != html.ElementNode {
		return ""
	}
	return attr(n, "id")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
