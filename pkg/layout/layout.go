// Package layout locates the DOM node holding the media the user is
// currently looking at. Each page classification gets its own resolver;
// all of them are pure functions over an immutable snapshot.
package layout

import (
	"igresolve/pkg/dom"
	"igresolve/pkg/errors"
	"igresolve/pkg/pagecontext"
)

// minCardHeight rejects placeholder slivers and collapsed ad shells
// that would otherwise win the visibility ranking.
const minCardHeight = 40.0

// Target is a resolved layout position: the container node holding the
// media and, for carousels and story trays, which entry is active.
type Target struct {
	Node *dom.Node
	// SelectedIndex is the active slide or story page, 0 for single
	// media.
	SelectedIndex int
}

// Resolver finds the active media container for one page layout
type Resolver interface {
	Name() string
	Resolve(snap *dom.Snapshot) (*Target, error)
}

// ForClassification returns the resolver responsible for a page
// classification, or nil for Unknown.
func ForClassification(c pagecontext.Classification) Resolver {
	switch c {
	case pagecontext.Root:
		return FeedResolver{}
	case pagecontext.Post, pagecontext.Reel, pagecontext.Profile:
		return PostResolver{}
	case pagecontext.ReelsListing:
		return ReelsListingResolver{}
	case pagecontext.Stories, pagecontext.StoryHighlight:
		return StoriesResolver{}
	default:
		return nil
	}
}

func notFound() error {
	return errors.NoTargetFound()
}
