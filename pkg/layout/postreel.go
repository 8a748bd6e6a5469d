package layout

import (
	"igresolve/pkg/dom"
)

// PostResolver handles single post, reel and profile pages. An open
// modal dialog wins outright; otherwise the primary article in the main
// content column is the target. No visibility ranking is needed since
// only one container is relevant at a time.
type PostResolver struct{}

func (PostResolver) Name() string { return "post" }

func (PostResolver) Resolve(snap *dom.Snapshot) (*Target, error) {
	if target := modalArticle(snap.Root); target != nil {
		return &Target{Node: target, SelectedIndex: activeCarouselIndex(target)}, nil
	}

	if target := mainColumnContent(snap.Root); target != nil {
		return &Target{Node: target, SelectedIndex: activeCarouselIndex(target)}, nil
	}

	return nil, notFound()
}

// modalArticle returns the article inside an open dialog, if any
func modalArticle(root *dom.Node) *dom.Node {
	dialog := root.FindFunc(func(n *dom.Node) bool {
		return n.Attr("role") == "dialog"
	})
	if dialog == nil {
		return nil
	}
	if article := dialog.Find("article"); article != nil {
		return article
	}
	return nil
}

// mainColumnContent descends into the primary content column: the first
// child chain under the main element inside a section.
func mainColumnContent(root *dom.Node) *dom.Node {
	main := root.FindFunc(func(n *dom.Node) bool {
		if n.Tag != "main" {
			return false
		}
		for _, a := range n.Ancestors() {
			if a.Tag == "section" {
				return true
			}
		}
		return false
	})
	if main == nil {
		main = root.Find("main")
	}
	if main == nil {
		return nil
	}

	if article := main.Find("article"); article != nil {
		return article
	}
	return main.FirstChildChain(3)
}
