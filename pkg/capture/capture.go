// Package capture attaches to an already-running browser over the
// DevTools protocol and turns the current page into a dom.Snapshot.
// While attached it also records media URLs seen on the network, which
// is the only way to resolve blob-backed video players.
package capture

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"igresolve/pkg/config"
	"igresolve/pkg/dom"
	"igresolve/pkg/errors"
	"igresolve/pkg/logger"
)

// DashManifestAttr is the synthetic attribute the in-page serializer
// writes onto video elements whose player props carry a DASH manifest.
// It never occurs in real markup.
const DashManifestAttr = "data-igr-dash-manifest"

// Session is one attachment to a browser tab. It is not safe for
// concurrent use.
type Session struct {
	cfg         config.CaptureConfig
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	collector   *mediaCollector
	logger      logger.Logger
}

// Attach connects to the browser at cfg.DevtoolsURL and starts
// listening for network media traffic on the active tab.
func Attach(parent context.Context, cfg config.CaptureConfig, log logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(parent, cfg.DevtoolsURL)
	taskCtx, cancel := chromedp.NewContext(allocCtx)

	collector := newMediaCollector(log)
	chromedp.ListenTarget(taskCtx, collector.Listen)

	if err := chromedp.Run(taskCtx, network.Enable()); err != nil {
		cancel()
		allocCancel()
		return nil, errors.New(errors.ErrorTypeNetwork, "failed to attach to browser: "+err.Error())
	}

	log.DebugWithFields("attached to browser", map[string]interface{}{
		"devtools_url": cfg.DevtoolsURL,
	})

	return &Session{
		cfg:         cfg,
		ctx:         taskCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		collector:   collector,
		logger:      log,
	}, nil
}

// Navigate loads a URL in the attached tab and waits for the load
// event.
func (s *Session) Navigate(url string) error {
	if err := chromedp.Run(s.ctx, chromedp.Navigate(url)); err != nil {
		return errors.New(errors.ErrorTypeNetwork, "navigation failed: "+err.Error())
	}
	return nil
}

// Snapshot serializes the current page into a dom.Snapshot by running
// the serializer script inside the page. Geometry, inline-visibility
// flags and player manifests are resolved in the page, where computed
// styles and framework props are reachable.
func (s *Session) Snapshot() (*dom.Snapshot, error) {
	ctx := s.ctx
	if s.cfg.SnapshotTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SnapshotTimeout)
		defer cancel()
	}

	var raw string
	if err := chromedp.Run(ctx, chromedp.Evaluate(serializerJS, &raw)); err != nil {
		return nil, errors.New(errors.ErrorTypeParsing, "page serialization failed: "+err.Error())
	}

	snap, err := dom.DecodeSnapshot(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}

	s.logger.DebugWithFields("captured snapshot", map[string]interface{}{
		"href":    snap.Location.Href,
		"scripts": len(snap.Scripts),
	})
	return snap, nil
}

// State returns a media.StateReader view of this session. Captured
// URL reads grant the page a fixed grace period first, so a player
// that has only just mounted gets a chance to issue its request.
func (s *Session) State() *SessionState {
	return &SessionState{session: s}
}

// CapturedMediaURLs returns the media URLs observed so far, newest
// first.
func (s *Session) CapturedMediaURLs() []string {
	return s.collector.URLs()
}

// Close detaches from the browser. The browser itself stays running.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

// SessionState adapts a Session to the resolver's state interface.
// The zero value works for offline snapshots: manifests are still read
// from serialized attributes, and no network capture is available.
type SessionState struct {
	session *Session
	once    sync.Once
}

// DashManifest reads the manifest the serializer attached to the node.
func (st *SessionState) DashManifest(n *dom.Node) (string, bool) {
	manifest := n.Attr(DashManifestAttr)
	return manifest, manifest != ""
}

// CapturedMediaURLs waits the configured blob grace period once, then
// returns everything the network listener has seen.
func (st *SessionState) CapturedMediaURLs() []string {
	if st.session == nil {
		return nil
	}
	st.once.Do(func() {
		wait := st.session.cfg.BlobWait
		if wait <= 0 {
			return
		}
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-st.session.ctx.Done():
		}
	})
	return st.session.CapturedMediaURLs()
}
