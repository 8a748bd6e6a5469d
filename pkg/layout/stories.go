package layout

import (
	"strings"

	"igresolve/pkg/dom"
)

// StoriesResolver handles the story and highlight viewer. The viewer
// renders queued and consumed panes next to the active one; the active
// pane is the widest, so the resolver selects by rendered width instead
// of fixed child positions.
type StoriesResolver struct{}

func (StoriesResolver) Name() string { return "stories" }

func (StoriesResolver) Resolve(snap *dom.Snapshot) (*Target, error) {
	wrapper := storyWrapper(snap.Root)
	if wrapper == nil {
		return nil, notFound()
	}

	pane := widestPane(wrapper)
	if pane == nil {
		pane = wrapper
	}

	return &Target{Node: pane, SelectedIndex: CurrentStoryIndex(wrapper)}, nil
}

// storyWrapper finds the story viewer root: the last section under the
// application mount point.
func storyWrapper(root *dom.Node) *dom.Node {
	mount := root.FindFunc(func(n *dom.Node) bool {
		return strings.HasPrefix(n.Attr("id"), "mount_")
	})
	if mount == nil {
		mount = root
	}

	sections := mount.FindAll("section")
	if len(sections) == 0 {
		return nil
	}
	return sections[len(sections)-1]
}

// widestPane returns the widest nested div pane under the wrapper.
// Hidden panes (queued stories the viewer keeps mounted off screen) are
// skipped.
func widestPane(wrapper *dom.Node) *dom.Node {
	candidates := wrapper.FindAllFunc(func(n *dom.Node) bool {
		if n.Tag != "div" || n.Hidden {
			return false
		}
		p := n.Parent
		return p != nil && p.Tag == "div" && p.Parent != nil && p.Parent.Tag == "div"
	})

	var widest *dom.Node
	for _, c := range candidates {
		if widest == nil || c.Rect.Width > widest.Rect.Width {
			widest = c
		}
	}
	return widest
}
