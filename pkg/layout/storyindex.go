package layout

import (
	"strings"

	"igresolve/pkg/dom"
)

// progressRootFinders locate the strip of per-page progress indicators,
// tried in order. The first three match known markup variants by class
// or structure; the last is a generic fallback looking for a row of
// siblings where one carries an inline width or transform style.
var progressRootFinders = []func(*dom.Node) *dom.Node{
	func(el *dom.Node) *dom.Node {
		return el.FindFunc(func(n *dom.Node) bool {
			return hasClasses(n, "_acvz", "_acnc", "_acng")
		})
	},
	func(el *dom.Node) *dom.Node {
		header := el.FindFunc(func(n *dom.Node) bool {
			if n.Tag != "header" {
				return false
			}
			for _, a := range n.Ancestors() {
				if a.Tag == "section" {
					return true
				}
			}
			return false
		})
		if header == nil {
			return nil
		}
		return header.Find("div")
	},
	func(el *dom.Node) *dom.Node {
		return el.FindFunc(func(n *dom.Node) bool {
			return hasClasses(n, "x1ned7t2", "x78zum5")
		})
	},
	func(el *dom.Node) *dom.Node {
		return el.FindFunc(func(n *dom.Node) bool {
			if n.Tag != "div" || len(n.Children) < 2 {
				return false
			}
			for _, c := range n.Children {
				if hasStyledIndicator(c) {
					return true
				}
			}
			return false
		})
	},
}

// CurrentStoryIndex derives the active story page from progress-bar
// markup: the indicator whose inline width is not "100%" or that
// carries a transform is the one still advancing. Expired stories and
// missing indicators default to page 0.
func CurrentStoryIndex(el *dom.Node) int {
	if el == nil {
		return 0
	}

	var root *dom.Node
	for _, find := range progressRootFinders {
		if root = find(el); root != nil {
			break
		}
	}
	if root == nil {
		return 0
	}

	for i, child := range root.Children {
		divs := child.FindAll("div")
		if len(divs) == 0 {
			// Dot-style pagination marks the active entry with an
			// extra class instead of an inline style.
			if len(child.ClassList()) > 1 {
				return i
			}
			continue
		}

		if expiredStoryMarker(root) {
			return 0
		}

		for _, div := range divs {
			if indicatorActive(div) {
				return i
			}
		}
		if indicatorActive(child) {
			return i
		}
	}

	return 0
}

// indicatorActive reports whether a progress element's inline style
// marks it as the currently advancing page.
func indicatorActive(div *dom.Node) bool {
	width := div.Style("width")
	transform := div.Style("transform")
	if width != "" && width != "100%" {
		return true
	}
	return strings.TrimSpace(transform) != ""
}

// expiredStoryMarker detects the label shown next to the progress strip
// when a story has expired.
func expiredStoryMarker(root *dom.Node) bool {
	p := root.Parent
	if p == nil || len(p.Children) < 2 {
		return false
	}
	sibling := p.Children[1]
	if sibling == root {
		return false
	}
	return sibling.Find("span") != nil
}

func hasStyledIndicator(n *dom.Node) bool {
	if indicatorActive(n) {
		return true
	}
	for _, div := range n.FindAll("div") {
		if indicatorActive(div) {
			return true
		}
	}
	return false
}

func hasClasses(n *dom.Node, classes ...string) bool {
	have := n.ClassList()
	set := make(map[string]struct{}, len(have))
	for _, c := range have {
		set[c] = struct{}{}
	}
	for _, want := range classes {
		if _, ok := set[want]; !ok {
			return false
		}
	}
	return true
}
