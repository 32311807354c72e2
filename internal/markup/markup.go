package markup

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

// Document is a parsed HTML fragment.
//
// Yandex Music fragment endpoints return partial HTML documents (one
// logical section per request: search results page, artist detail,
// album detail). Document wraps the parsed node tree and exposes
// class-based element queries, which is all the extraction code needs.
//
// Example usage:
//
//	doc, err := markup.Parse(body)
//	if err != nil {
//	    return err
//	}
//	for _, div := range doc.FindAll("div", "b-track") {
//	    onclick, _ := div.Attr("onclick")
//	    // ...
//	}
type Document struct {
	root *xhtml.Node
}

// Node is a single element within a Document.
type Node struct {
	n *xhtml.Node
}

// Parse parses an HTML fragment into a Document.
//
// The parser is tolerant: fragments without <html> or <body> wrappers
// are accepted, as are unclosed tags. A parse error here means the
// input is not HTML at all.
func Parse(data []byte) (*Document, error) {
	root, err := xhtml.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// FindAll returns every element with the given tag whose class attribute
// contains all class tokens of class, in document order.
//
// The class argument may itself hold several space-separated tokens;
// each must be present on the element. An empty class matches any
// element with the given tag.
func (d *Document) FindAll(tag, class string) []*Node {
	var nodes []*Node
	walk(d.root, func(n *xhtml.Node) {
		if matches(n, tag, class) {
			nodes = append(nodes, &Node{n: n})
		}
	})
	return nodes
}

// Find returns the first element matching tag and class, or nil.
func (d *Document) Find(tag, class string) *Node {
	return first(d.root, tag, class)
}

// FindAll returns matching descendant elements of the node, in document order.
func (nd *Node) FindAll(tag, class string) []*Node {
	var nodes []*Node
	for c := nd.n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(n *xhtml.Node) {
			if matches(n, tag, class) {
				nodes = append(nodes, &Node{n: n})
			}
		})
	}
	return nodes
}

// Find returns the first matching descendant element of the node, or nil.
func (nd *Node) Find(tag, class string) *Node {
	for c := nd.n.FirstChild; c != nil; c = c.NextSibling {
		if found := first(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

// Attr returns the value of the named attribute and whether it is present.
func (nd *Node) Attr(name string) (string, bool) {
	for _, a := range nd.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// Text returns the concatenated text content of the node and its
// descendants, with leading and trailing whitespace trimmed.
func (nd *Node) Text() string {
	var sb strings.Builder
	walk(nd.n, func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			sb.WriteString(n.Data)
		}
	})
	return strings.TrimSpace(sb.String())
}

var tagPattern = regexp.MustCompile(`<.*?>`)

// StripTags removes embedded tag markup from a text snippet and decodes
// HTML entities. Extracted titles can carry highlight markup like
// <b>query</b> around the matched search terms.
func StripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(s, "")))
}

// matches reports whether n is an element with the given tag carrying
// every class token of class.
func matches(n *xhtml.Node, tag, class string) bool {
	if n.Type != xhtml.ElementNode || n.Data != tag {
		return false
	}
	if class == "" {
		return true
	}
	var attr string
	for _, a := range n.Attr {
		if a.Key == "class" {
			attr = a.Val
			break
		}
	}
	have := strings.Fields(attr)
	for _, want := range strings.Fields(class) {
		found := false
		for _, tok := range have {
			if tok == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// walk visits n and its descendants in document order.
func walk(n *xhtml.Node, visit func(*xhtml.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func first(n *xhtml.Node, tag, class string) *Node {
	if matches(n, tag, class) {
		return &Node{n: n}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := first(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}
