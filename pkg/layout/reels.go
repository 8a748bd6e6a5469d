package layout

import (
	"igresolve/pkg/dom"
	"igresolve/pkg/visibility"
)

// ReelsListingResolver handles the vertically scrolled reels feed:
// sibling containers under the main column, one per reel, ranked by
// visibility.
type ReelsListingResolver struct{}

func (ReelsListingResolver) Name() string { return "reels_listing" }

func (ReelsListingResolver) Resolve(snap *dom.Snapshot) (*Target, error) {
	candidates := snap.Root.FindAllFunc(func(n *dom.Node) bool {
		if n.Tag != "div" || len(n.Children) == 0 {
			return false
		}
		return underSectionMainColumn(n)
	})

	best, _ := visibility.MostVisible(candidates, snap.Viewport, true)
	if best == nil {
		return nil, notFound()
	}
	if best.Rect.Height < minCardHeight {
		return nil, notFound()
	}

	return &Target{Node: best, SelectedIndex: 0}, nil
}

// underSectionMainColumn matches div cells directly inside the
// section > main > div column.
func underSectionMainColumn(n *dom.Node) bool {
	p := n.Parent
	if p == nil || p.Tag != "div" {
		return false
	}
	gp := p.Parent
	if gp == nil || gp.Tag != "main" {
		return false
	}
	ggp := gp.Parent
	return ggp != nil && ggp.Tag == "section"
}
