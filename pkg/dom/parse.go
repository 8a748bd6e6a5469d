package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML parses raw HTML into a Node tree. Geometry is not present in
// static markup, so every Rect is zero; callers that need visibility
// ranking annotate rects afterwards. Script and style text is kept on
// the owning element's Text field.
func ParseHTML(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	root := convert(doc, nil)
	if root == nil {
		return nil, fmt.Errorf("document has no element root")
	}
	return root, nil
}

// ParseSnapshotHTML parses raw HTML and wraps it in a Snapshot for the
// given location and viewport. Used by tests and by snapshot-free
// resolution of fetched pages.
func ParseSnapshotHTML(r io.Reader, loc Location, vp Viewport) (*Snapshot, error) {
	root, err := ParseHTML(r)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Location: loc,
		Viewport: vp,
		Root:     root,
	}
	for _, script := range root.FindAll("script") {
		if script.Text != "" {
			snap.Scripts = append(snap.Scripts, script.Text)
		}
	}
	return snap, nil
}

func convert(n *html.Node, parent *Node) *Node {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				return convert(c, parent)
			}
		}
		return nil
	case html.ElementNode:
		node := &Node{
			Tag:    strings.ToLower(n.Data),
			Parent: parent,
		}
		if len(n.Attr) > 0 {
			node.Attrs = make(map[string]string, len(n.Attr))
			for _, attr := range n.Attr {
				node.Attrs[strings.ToLower(attr.Key)] = attr.Val
			}
		}
		var text strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.ElementNode:
				if child := convert(c, node); child != nil {
					node.Children = append(node.Children, child)
				}
			case html.TextNode:
				text.WriteString(c.Data)
			}
		}
		node.Text = strings.TrimSpace(text.String())
		return node
	default:
		return nil
	}
}
