// Package visibility scores how much of an element is on screen. Layout
// resolvers use the scores to pick the item the user is actually looking
// at when several candidates share the page.
package visibility

import (
	"math"

	"igresolve/pkg/dom"
)

// Score returns the visible percentage of r within the viewport as an
// integer in [0, 100]. An element entirely above or below the viewport
// scores 0. An element fully inside the viewport, or taller than the
// viewport but covering it completely, scores 100. Otherwise the score
// is the visible fraction of the element's own height, rounded.
func Score(r dom.Rect, vp dom.Viewport) int {
	// Rects are in page coordinates, so the viewport spans
	// [ScrollY, ScrollY+Height] rather than starting at zero.
	viewTop := vp.ScrollY
	viewBottom := vp.ScrollY + vp.Height

	if r.Bottom() <= viewTop || r.Top >= viewBottom {
		return 0
	}
	if r.Height <= 0 {
		return 0
	}
	if r.Top >= viewTop && r.Bottom() <= viewBottom {
		return 100
	}
	if r.Top <= viewTop && r.Bottom() >= viewBottom {
		return 100
	}

	visibleTop := math.Max(r.Top, viewTop)
	visibleBottom := math.Min(r.Bottom(), viewBottom)
	return int(math.Round((visibleBottom - visibleTop) / r.Height * 100))
}

// MostVisible returns the node with the highest score, along with that
// score. Ties keep the earliest node in document order. A nil result
// means the slice was empty or every candidate scored 0 with reject
// set.
func MostVisible(nodes []*dom.Node, vp dom.Viewport, rejectZero bool) (*dom.Node, int) {
	var best *dom.Node
	bestScore := -1
	for _, n := range nodes {
		s := Score(n.Rect, vp)
		if s > bestScore {
			best = n
			bestScore = s
		}
	}
	if best == nil {
		return nil, 0
	}
	if rejectZero && bestScore == 0 {
		return nil, 0
	}
	return best, bestScore
}
