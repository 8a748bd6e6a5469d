// Package media turns a resolved layout target into concrete download
// URLs. It understands plain img/video sources, srcset candidate lists,
// DASH manifests and blob-backed players.
package media

import (
	"fmt"

	"igresolve/pkg/dom"
	"igresolve/pkg/errors"
	"igresolve/pkg/logger"
)

// Kind classifies a resolved media item
type Kind string

const (
	KindUndefined Kind = "undefined"
	KindImage     Kind = "image"
	KindVideo     Kind = "video"
	KindCarousel  Kind = "carousel"
	KindAd        Kind = "ad"
)

// Item is a single downloadable media entry
type Item struct {
	Kind Kind
	URL  string
	// Ext is the filename extension implied by the source, without dot
	Ext string
	// Poster is the preview image URL for videos, when present
	Poster string
	// Width and Height are the declared pixel size, 0 when unknown
	Width  int
	Height int
	// TakenAt is the capture unix timestamp, 0 for page-derived items
	TakenAt int64
	// Owner is the authoring username when the source record carries it
	Owner string
}

// StateReader exposes live page state the serialized DOM cannot carry:
// player props holding DASH manifests and the media URLs observed on
// the network while the page played.
type StateReader interface {
	// DashManifest returns the manifest XML attached to a video
	// player node, if any.
	DashManifest(n *dom.Node) (string, bool)
	// CapturedMediaURLs returns media URLs seen in network traffic,
	// newest first.
	CapturedMediaURLs() []string
}

// NoState is a StateReader for offline snapshots with no live page
type NoState struct{}

func (NoState) DashManifest(*dom.Node) (string, bool) { return "", false }
func (NoState) CapturedMediaURLs() []string           { return nil }

// Resolver extracts media URLs from layout target nodes
type Resolver struct {
	prober Prober
	state  StateReader
	logger logger.Logger
}

// NewResolver creates a resolver. prober may be nil to skip dimension
// probing, state may be nil when no live page is attached.
func NewResolver(prober Prober, state StateReader, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.GetLogger()
	}
	if state == nil {
		state = NoState{}
	}
	return &Resolver{
		prober: prober,
		state:  state,
		logger: log,
	}
}

// FromNode resolves the media inside a layout target node. Videos win
// over images when both are present, mirroring how the page itself
// layers a poster image under the player.
func (r *Resolver) FromNode(n *dom.Node) (Item, error) {
	if n == nil {
		return Item{Kind: KindUndefined}, errors.NoTargetFound()
	}

	if video := findVideo(n); video != nil {
		return r.resolveVideo(video)
	}

	if img := chooseImage(n); img != nil {
		url := r.BestImageURL(img)
		if url == "" {
			return Item{Kind: KindUndefined}, errors.New(errors.ErrorTypeUnsupportedMediaType,
				"image element carries no usable source")
		}
		return Item{Kind: KindImage, URL: url, Ext: "jpg"}, nil
	}

	return Item{Kind: KindUndefined}, errors.New(errors.ErrorTypeUnsupportedMediaType,
		"no img or video element under target")
}

// resolveVideo picks a downloadable URL for a video element. Direct
// sources are used as-is; blob-backed players fall back to the DASH
// manifest, then to network correlation.
func (r *Resolver) resolveVideo(video *dom.Node) (Item, error) {
	poster := video.Attr("poster")
	src := VideoSource(video)

	if src != "" && !IsBlobURL(src) {
		return Item{Kind: KindVideo, URL: src, Ext: "mp4", Poster: poster}, nil
	}

	if manifest, ok := r.state.DashManifest(video); ok {
		url, err := BestDashVideoURL(manifest)
		if err != nil {
			r.logger.WithError(err).Warn("dash manifest unusable, trying network correlation")
		} else {
			return Item{Kind: KindVideo, URL: url, Ext: "mp4", Poster: poster}, nil
		}
	}

	if url := CorrelateBlob(poster, r.state.CapturedMediaURLs()); url != "" {
		return Item{Kind: KindVideo, URL: url, Ext: "mp4", Poster: poster}, nil
	}

	if src == "" {
		return Item{Kind: KindUndefined}, errors.New(errors.ErrorTypeUnsupportedMediaType,
			"video element carries no source")
	}
	return Item{Kind: KindUndefined}, errors.New(errors.ErrorTypeBlobCorrelation,
		fmt.Sprintf("no origin found for blob source %s", src))
}

// findVideo returns the first video element under n, or n itself
func findVideo(n *dom.Node) *dom.Node {
	if n.Tag == "video" {
		return n
	}
	return n.Find("video")
}

// chooseImage picks the content image under n. Elements carrying a
// srcset are preferred since avatars and UI sprites rarely have one.
func chooseImage(n *dom.Node) *dom.Node {
	if img := n.FindFunc(func(c *dom.Node) bool {
		return c.Tag == "img" && c.Attr("srcset") != ""
	}); img != nil {
		return img
	}
	if n.Tag == "img" {
		return n
	}
	return n.Find("img")
}
