package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// GetAttr returns the value of attribute key, or "".
func GetAttr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasClass reports whether n carries class in its class attribute.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(GetAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// FindAll walks the tree depth-first and collects element nodes matching pred.
func FindAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// ByClass returns every element carrying class.
func ByClass(root *html.Node, class string) []*html.Node {
	return FindAll(root, func(n *html.Node) bool { return HasClass(n, class) })
}

// ByAttr returns every element whose attribute key equals val.
func ByAttr(root *html.Node, key, val string) []*html.Node {
	return FindAll(root, func(n *html.Node) bool { return GetAttr(n, key) == val })
}

// TextContent concatenates all text below n, skipping <style> blocks.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && n.Data == "style" {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return b.String()
}
