// Package markup builds the document trees produced by resume templates.
//
// Trees are plain golang.org/x/net/html nodes, so the same value can be
// serialized for the preview, the print page and a thumbnail. Builders skip
// nil children, which lets templates return nil for omitted sections.
package markup

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// A 是元素属性。序列化时按 key 排序，保证输出稳定。
type A map[string]string

// El creates an element with attributes and children. Nil children are skipped.
func El(tag string, attrs A, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if len(attrs) > 0 {
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			n.Attr = append(n.Attr, html.Attribute{Key: k, Val: attrs[k]})
		}
	}
	return Append(n, children...)
}

// Append adds non-nil children to n and returns n.
func Append(n *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		n.AppendChild(c)
	}
	return n
}

// Text creates a text node. Escaping happens at serialization time.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Div is El("div") with an optional class.
func Div(class string, children ...*html.Node) *html.Node {
	return El("div", classAttr(class), children...)
}

// Span is El("span") with an optional class.
func Span(class string, children ...*html.Node) *html.Node {
	return El("span", classAttr(class), children...)
}

// TextEl creates <tag class="class">text</tag>.
func TextEl(tag, class, text string) *html.Node {
	return El(tag, classAttr(class), Text(text))
}

// Link creates an anchor; href must already be normalized by the caller.
func Link(class, href, text string) *html.Node {
	attrs := classAttr(class)
	if attrs == nil {
		attrs = A{}
	}
	attrs["href"] = href
	return El("a", attrs, Text(text))
}

// List wraps items in <ul>, returning nil for an empty slice.
func List(class string, items []*html.Node) *html.Node {
	if len(items) == 0 {
		return nil
	}
	ul := El("ul", classAttr(class))
	for _, item := range items {
		Append(ul, El("li", nil, item))
	}
	return ul
}

// Style 创建 <style> 元素，内容按原样输出。
func Style(css string) *html.Node {
	return El("style", nil, Text(css))
}

// SetAttr sets (or replaces) attribute key on n.
func SetAttr(n *html.Node, key, val string) *html.Node {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return n
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	sort.SliceStable(n.Attr, func(i, j int) bool { return n.Attr[i].Key < n.Attr[j].Key })
	return n
}

// Render serializes n and its descendants.
func Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

// String renders n to a string. Serialization of an in-memory tree only
// fails on writer errors, which bytes.Buffer never returns.
func String(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// Styles joins CSS declarations, skipping empty ones.
func Styles(decls ...string) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		d = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(d), ";"))
		if d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, ";")
}

func classAttr(class string) A {
	if class == "" {
		return nil
	}
	return A{"class": class}
}
