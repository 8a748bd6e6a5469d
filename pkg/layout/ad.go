package layout

import (
	"strings"

	"igresolve/pkg/dom"
)

// adChevronPath is the d attribute of the chevron icon rendered only
// inside sponsored feed posts.
const adChevronPath = "M21 17.502a.997.997 0 0 1-.707-.293L12 8.913l-8.293 8.296a1 1 0 1 1-1.414-1.414l9-9.004a1.03 1.03 0 0 1 1.414 0l9 9.004A1 1 0 0 1 21 17.502Z"

// adLabels are the sponsor labels used across the supported UI locales.
var adLabels = map[string]struct{}{
	"Sponsored":      {},
	"Anzeige":        {},
	"Publicidad":     {},
	"Publicité":      {},
	"Sponsorizzato":  {},
	"Patrocinado":    {},
	"Gesponsord":     {},
	"Sponsorlu":      {},
	"Реклама":        {},
	"広告":             {},
	"赞助内容":           {},
	"Sponsorowane":   {},
	"Sponsoroitu":    {},
	"Sponsrad":       {},
	"Sponsoreret":    {},
	"Iklan":          {},
	"ad":             {},
}

// IsAd reports whether a resolved container holds a sponsored post.
// Feed and modal posts are recognized by the sponsor chevron icon;
// story ads render no icon, so they are recognized by the sponsor label
// text near the author header instead.
func IsAd(container *dom.Node, isStory bool) bool {
	if container == nil {
		return false
	}

	if isStory {
		return hasAdLabel(container)
	}

	return container.FindFunc(func(n *dom.Node) bool {
		return n.Tag == "path" && n.Attr("d") == adChevronPath
	}) != nil
}

// hasAdLabel scans the header area of a story pane for a sponsor label
func hasAdLabel(container *dom.Node) bool {
	header := container.Find("header")
	scope := container
	if header != nil {
		scope = header
	}

	found := false
	scope.Walk(func(n *dom.Node) bool {
		if _, ok := adLabels[strings.TrimSpace(n.Text)]; ok {
			found = true
			return false
		}
		return true
	})
	return found
}
