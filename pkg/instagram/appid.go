package instagram

import (
	"regexp"

	"igresolve/pkg/dom"
)

var appIDPattern = regexp.MustCompile(`"X-IG-App-ID":"(\d+)"`)

// DiscoverAppID scans the page's inline scripts for the app id the web
// client embeds in its own request configuration. Returns "" when no
// script carries it.
func DiscoverAppID(snap *dom.Snapshot) string {
	if snap == nil {
		return ""
	}
	for _, script := range snap.Scripts {
		if match := appIDPattern.FindStringSubmatch(script); match != nil {
			return match[1]
		}
	}
	return ""
}
