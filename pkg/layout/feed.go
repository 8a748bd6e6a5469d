package layout

import (
	"igresolve/pkg/dom"
	"igresolve/pkg/visibility"
)

// FeedResolver picks the feed card the user is looking at: the most
// visible article that is tall enough to be real content.
type FeedResolver struct{}

func (FeedResolver) Name() string { return "feed" }

func (FeedResolver) Resolve(snap *dom.Snapshot) (*Target, error) {
	candidates := snap.Root.FindAll("article")

	best, _ := visibility.MostVisible(candidates, snap.Viewport, true)
	if best == nil {
		return nil, notFound()
	}
	// The winner is rejected, not replaced. A sliver winning the
	// ranking means the real content is not the focus of the page.
	if best.Rect.Height < minCardHeight {
		return nil, notFound()
	}

	return &Target{Node: best, SelectedIndex: activeCarouselIndex(best)}, nil
}
