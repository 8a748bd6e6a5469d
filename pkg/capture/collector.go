package capture

import (
	"strings"
	"sync"

	"github.com/chromedp/cdproto/network"

	"igresolve/pkg/logger"
)

// videoMIMETypes are response MIME types treated as playable media.
var videoMIMETypes = map[string]bool{
	"video/mp4":  true,
	"video/webm": true,
}

// mediaCollector records media URLs from browser network events. The
// page keeps loading while scans run, so access is synchronized.
type mediaCollector struct {
	mu     sync.Mutex
	seen   map[string]bool
	urls   []string
	logger logger.Logger
}

func newMediaCollector(log logger.Logger) *mediaCollector {
	if log == nil {
		log = logger.GetLogger()
	}
	return &mediaCollector{
		seen:   make(map[string]bool),
		logger: log,
	}
}

// Listen is an event handler for chromedp.ListenTarget. Requests are
// matched on URL shape, responses on the server-confirmed MIME type.
func (c *mediaCollector) Listen(ev any) {
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		if isMediaURL(e.Request.URL) {
			c.add(e.Request.URL)
		}
	case *network.EventResponseReceived:
		if videoMIMETypes[strings.ToLower(e.Response.MimeType)] || isMediaURL(e.Response.URL) {
			c.add(e.Response.URL)
		}
	}
}

func (c *mediaCollector) add(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen[u] {
		return
	}
	c.seen[u] = true
	c.urls = append(c.urls, u)
	c.logger.DebugWithFields("captured media URL", map[string]interface{}{
		"url":   u,
		"total": len(c.urls),
	})
}

// URLs returns captured URLs newest first, so correlation prefers the
// request the player issued most recently.
func (c *mediaCollector) URLs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.urls))
	for i := len(c.urls) - 1; i >= 0; i-- {
		out = append(out, c.urls[i])
	}
	return out
}

// isMediaURL matches direct media files by path extension. Query
// parameters are stripped so encoded URLs in tracking params don't
// match.
func isMediaURL(u string) bool {
	path, _, _ := strings.Cut(u, "?")
	return strings.HasSuffix(path, ".mp4") || strings.HasSuffix(path, ".webm")
}
