package scanner

import (
	"fmt"

	"igresolve/pkg/assemble"
	"igresolve/pkg/config"
	"igresolve/pkg/dom"
	"igresolve/pkg/errors"
	"igresolve/pkg/instagram"
	"igresolve/pkg/layout"
	"igresolve/pkg/logger"
	"igresolve/pkg/media"
	"igresolve/pkg/pagecontext"
)

// Scanner runs one full resolution pass over a page snapshot: classify
// the URL, resolve the layout target, enrich it with API data and
// assemble the result set. Every failure is converted into a not-found
// result at this boundary; nothing panics or errors past Scan.
type Scanner struct {
	client    *instagram.Client
	mediaIDs  *instagram.MediaIDResolver
	media     *media.Resolver
	assembler *assemble.Assembler
	prefs     config.Preferences
	logger    logger.Logger
}

// New creates a scanner. client may be nil for offline snapshot scans;
// remote enrichment is skipped and only page-derived media is used.
func New(client *instagram.Client, resolver *media.Resolver, prefs config.Preferences, log logger.Logger) *Scanner {
	if log == nil {
		log = logger.GetLogger()
	}
	if resolver == nil {
		resolver = media.NewResolver(nil, nil, log)
	}
	s := &Scanner{
		client:    client,
		media:     resolver,
		assembler: assemble.New(prefs, log),
		prefs:     prefs,
		logger:    log,
	}
	if client != nil {
		s.mediaIDs = instagram.NewMediaIDResolver(client)
	}
	return s
}

// Scan resolves the media set for a snapshot. It never returns an
// error; failures come back as a result with Found false and a
// user-facing message.
func (s *Scanner) Scan(snap *dom.Snapshot) (set *assemble.ResolvedMediaSet) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorWithFields("scan panicked", map[string]interface{}{
				"panic": fmt.Sprintf("%v", r),
				"url":   snap.Location.Href,
			})
			set = &assemble.ResolvedMediaSet{Found: false, ErrorMessage: "nothing found"}
		}
	}()

	if snap == nil || snap.Root == nil {
		return &assemble.ResolvedMediaSet{Found: false, ErrorMessage: "nothing found"}
	}
	if !pagecontext.ValidHost(snap.Location.Hostname) {
		s.logger.WithField("hostname", snap.Location.Hostname).Debug("unrecognized host")
		return &assemble.ResolvedMediaSet{Found: false, ErrorMessage: "nothing found"}
	}

	classification := pagecontext.Classify(snap.Location.Path)
	resolver := layout.ForClassification(classification)
	if resolver == nil {
		s.logger.WithField("path", snap.Location.Path).Debug("no resolver for path")
		return &assemble.ResolvedMediaSet{Found: false, ErrorMessage: "nothing found"}
	}

	s.logger.DebugWithFields("scanning page", map[string]interface{}{
		"classification": classification.String(),
		"resolver":       resolver.Name(),
	})

	target, err := resolver.Resolve(snap)
	if err != nil {
		s.logger.WithError(err).Debug("layout resolution failed")
		return &assemble.ResolvedMediaSet{Found: false, ErrorMessage: "nothing found"}
	}

	isStory := classification == pagecontext.Stories || classification == pagecontext.StoryHighlight
	if layout.IsAd(target.Node, isStory) && !s.prefs.ShowAds {
		s.logger.Debug("sponsored content skipped")
		return &assemble.ResolvedMediaSet{Found: false, ErrorMessage: "nothing found"}
	}

	username := pagecontext.ExtractUsername(snap.Location.Href)
	postID := pagecontext.ExtractPostID(snap.Location.Path, target.Node)

	response := s.enrich(snap, classification, username, postID)

	var pageItem *media.Item
	if item, err := s.media.FromNode(target.Node); err == nil {
		pageItem = &item
	} else if response == nil {
		// No API data and no page media: the scan has nothing to
		// offer. A blob failure gets the dedicated message.
		s.logger.WithError(err).Debug("page media resolution failed")
		msg := "nothing found"
		if errors.IsType(err, errors.ErrorTypeBlobCorrelation) {
			msg = "cannot download this video"
		}
		return &assemble.ResolvedMediaSet{Found: false, ErrorMessage: msg}
	}

	return s.assembler.Assemble(assemble.Input{
		Target:   target,
		Response: response,
		PageItem: pageItem,
		Username: username,
		PostID:   postID,
		Path:     snap.Location.Path,
	})
}

// enrich performs the remote lookup matching the classification. A nil
// return means enrichment was unavailable: no client, no app id on the
// page, no resolvable media id, or a soft-failed request.
func (s *Scanner) enrich(snap *dom.Snapshot, classification pagecontext.Classification, username, postID string) *instagram.MediaInfoResponse {
	if s.client == nil {
		return nil
	}

	// The app id is a static page property: when no inline script
	// carries it, remote calls cannot succeed and are not attempted.
	if s.client.AppID() == "" {
		appID := instagram.DiscoverAppID(snap)
		if appID == "" {
			s.logger.Debug("app id not found on page, skipping remote lookups")
			return nil
		}
		s.client.SetAppID(appID)
	}

	switch classification {
	case pagecontext.Stories, pagecontext.StoryHighlight:
		mediaID := pagecontext.StoryMediaID(snap.Location.Href)
		if mediaID == "" && postID == "" {
			return nil
		}
		resp, err := s.client.FetchReelsMedia(mediaID, postID)
		if err != nil {
			s.logger.WithError(err).Warn("reels media lookup failed")
			return nil
		}
		return resp

	case pagecontext.Profile:
		return s.profileInfo(username)

	default:
		if s.mediaIDs == nil || postID == "" {
			return nil
		}
		mediaID := s.mediaIDs.Resolve(snap.Location.Href, postID)
		if mediaID == "" {
			return nil
		}
		resp, err := s.client.FetchMediaInfo(mediaID)
		if err != nil {
			s.logger.WithError(err).Warn("media info lookup failed")
			return nil
		}
		return resp
	}
}

// profileInfo resolves a username to its full user record, two hops:
// the web profile lookup yields the numeric id, the user info lookup
// yields the HD profile picture.
func (s *Scanner) profileInfo(username string) *instagram.MediaInfoResponse {
	if username == "" {
		return nil
	}
	profile, err := s.client.FetchWebProfile(username)
	if err != nil || profile == nil || profile.Data.User == nil || profile.Data.User.ID == "" {
		return nil
	}
	info, err := s.client.FetchUserInfo(profile.Data.User.ID)
	if err != nil {
		return nil
	}
	return info
}
