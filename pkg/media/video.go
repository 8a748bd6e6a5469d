package media

import (
	"net/url"
	"path"
	"strings"

	"igresolve/pkg/dom"
)

// VideoSource returns the playable URL of a video element, looking at
// the src attribute first and then at nested source children.
func VideoSource(video *dom.Node) string {
	if src := video.Attr("src"); src != "" {
		return src
	}
	for _, source := range video.FindAll("source") {
		if src := source.Attr("src"); src != "" {
			return src
		}
	}
	return ""
}

// IsBlobURL reports whether a source points at an in-memory media
// stream rather than a fetchable origin.
func IsBlobURL(src string) bool {
	return strings.HasPrefix(src, "blob:")
}

// CorrelateBlob matches a blob-backed video to the network URL it was
// assembled from. The poster image and the video segments share a stem
// in their trailing path segment; when no stem matches and exactly one
// video URL was captured, that URL is assumed to be it.
func CorrelateBlob(posterURL string, captured []string) string {
	stem := trailingStem(posterURL)

	var videoURLs []string
	for _, c := range captured {
		if !looksLikeVideoURL(c) {
			continue
		}
		if stem != "" && strings.Contains(c, stem) {
			return c
		}
		videoURLs = append(videoURLs, c)
	}

	if len(videoURLs) == 1 {
		return videoURLs[0]
	}
	return ""
}

// trailingStem extracts the last path segment of a URL without its
// extension
func trailingStem(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

func looksLikeVideoURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(u.Path, ".mp4") || strings.Contains(u.Path, ".mp4")
}
