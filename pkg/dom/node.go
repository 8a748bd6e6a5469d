package dom

import "strings"

// Rect is an element's bounding box in page coordinates, matching what
// getBoundingClientRect reports after adding the scroll offset.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the page-coordinate bottom edge of the rect.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Viewport describes the visible vertical window of the page at capture
// time.
type Viewport struct {
	ScrollY float64 `json:"scroll_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Node is a single element in a captured DOM snapshot. The tree is
// immutable once a scan starts; resolvers only read it.
type Node struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Rect     Rect              `json:"rect"`
	Hidden   bool              `json:"hidden,omitempty"`
	Children []*Node           `json:"children,omitempty"`

	Parent *Node `json:"-"`
}

// Attr returns the value of the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// HasAttr reports whether the named attribute is present, even if empty.
func (n *Node) HasAttr(name string) bool {
	if n == nil || n.Attrs == nil {
		return false
	}
	_, ok := n.Attrs[name]
	return ok
}

// ClassList returns the element's classes split on whitespace.
func (n *Node) ClassList() []string {
	class := n.Attr("class")
	if class == "" {
		return nil
	}
	return strings.Fields(class)
}

// Style returns the value of a property from the inline style attribute,
// or "" when the property is not set inline. Computed styles are not
// available in a snapshot; the layout heuristics only depend on inline
// width and transform values.
func (n *Node) Style(property string) string {
	style := n.Attr("style")
	if style == "" {
		return ""
	}
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), property) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Walk visits n and every descendant in document order, stopping early
// when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// FindAll returns every descendant element (excluding n itself) with the
// given tag, in document order.
func (n *Node) FindAll(tag string) []*Node {
	return n.FindAllFunc(func(d *Node) bool { return d.Tag == tag })
}

// Find returns the first descendant element with the given tag, or nil.
func (n *Node) Find(tag string) *Node {
	return n.FindFunc(func(d *Node) bool { return d.Tag == tag })
}

// FindAllFunc returns every descendant (excluding n itself) matching the
// predicate, in document order.
func (n *Node) FindAllFunc(match func(*Node) bool) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, child := range n.Children {
		child.Walk(func(d *Node) bool {
			if match(d) {
				out = append(out, d)
			}
			return true
		})
	}
	return out
}

// FindFunc returns the first descendant matching the predicate, or nil.
func (n *Node) FindFunc(match func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	var found *Node
	for _, child := range n.Children {
		child.Walk(func(d *Node) bool {
			if found != nil {
				return false
			}
			if match(d) {
				found = d
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return found
}

// Ancestors returns the parent chain from n's parent up to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// NthChild returns the i-th element child, or nil when out of range.
func (n *Node) NthChild(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// FirstChildChain descends through first children for the given number
// of steps, returning nil as soon as the chain breaks. It mirrors the
// ":first-child > :first-child" selector chains the page heuristics use.
func (n *Node) FirstChildChain(steps int) *Node {
	cur := n
	for i := 0; i < steps && cur != nil; i++ {
		cur = cur.NthChild(0)
	}
	return cur
}

// ChildChainDepth reports whether n sits at the end of a chain of
// ancestors all having the given tag, at least depth long. A depth of 2
// with tag "div" matches the "div > div > div" selector shape.
func (n *Node) ChildChainDepth(tag string, depth int) bool {
	cur := n
	for i := 0; i < depth; i++ {
		if cur == nil || cur.Parent == nil || cur.Parent.Tag != tag {
			return false
		}
		cur = cur.Parent
	}
	return true
}

// link fixes up Parent pointers after decoding a tree from JSON.
func (n *Node) link(parent *Node) {
	n.Parent = parent
	for _, child := range n.Children {
		child.link(n)
	}
}
