package etl

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var wsRe = regexp.MustCompile(`\s+`)

// collapseWhitespace folds runs of whitespace into single spaces and trims.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// stripHTML extracts the text content of an HTML fragment and collapses
// whitespace. Plain text passes through untouched.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return collapseWhitespace(s)
	}

	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return collapseWhitespace(s)
	}

	var b strings.Builder
	collectText(root, &b)
	return collapseWhitespace(b.String())
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// nodeText returns the collapsed text content of a parsed node subtree.
func nodeText(n *html.Node) string {
	var b strings.Builder
	collectText(n, &b)
	return collapseWhitespace(b.String())
}

// findAll walks the subtree and collects nodes matching the predicate.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if match(node) {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// attrVal returns the value of the named attribute, or "".
func attrVal(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// hasClass reports whether the node's class attribute contains the class.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
