// Package pagecontext resolves static facts about the current page:
// whether the host is recognized, which layout the URL path implies, and
// the identifiers (username, post id) embedded in the URL or markup.
package pagecontext

import (
	"regexp"
	"strings"

	"igresolve/pkg/dom"
)

// Classification is the layout variant implied by a URL path. It is
// derived purely from the path via ordered pattern matching; the first
// match wins and the value never changes within one navigation.
type Classification int

const (
	Unknown Classification = iota
	Root
	Profile
	Post
	Reel
	ReelsListing
	Stories
	StoryHighlight
)

var classificationNames = map[Classification]string{
	Unknown:        "unknown",
	Root:           "root",
	Profile:        "profile",
	Post:           "post",
	Reel:           "reel",
	ReelsListing:   "reels_listing",
	Stories:        "stories",
	StoryHighlight: "story_highlight",
}

func (c Classification) String() string {
	if name, ok := classificationNames[c]; ok {
		return name
	}
	return "unknown"
}

var (
	profilePattern  = regexp.MustCompile(`^/(\w[-\w.]+)/?$`)
	rootPattern     = regexp.MustCompile(`^/+$`)
	usernamePattern = regexp.MustCompile(`https://www\.instagram\.com/(stories/|reels/|p/)?([^/?]+)`)
	postHrefPattern = regexp.MustCompile(`^/p/([^/]+)/`)
	storyIDPattern  = regexp.MustCompile(`www\.instagram\.com/stories/[^/]+/(\d+)`)
)

// ValidHost reports whether the hostname belongs to the recognized site.
func ValidHost(hostname string) bool {
	return hostname == "www.instagram.com" || hostname == "instagram.com"
}

// Classify maps a URL path to its layout classification. The match order
// is significant: the story-highlight prefix shadows the generic stories
// prefix, and the reel prefixes shadow the single-segment profile
// pattern.
func Classify(path string) Classification {
	switch {
	case strings.HasPrefix(path, "/stories/highlights/"):
		return StoryHighlight
	case strings.HasPrefix(path, "/stories/"):
		return Stories
	case strings.HasPrefix(path, "/reel/"):
		return Reel
	case strings.HasPrefix(path, "/reels/"):
		return ReelsListing
	case profilePattern.MatchString(path):
		return Profile
	case rootPattern.MatchString(path):
		return Root
	case strings.HasPrefix(path, "/p/"):
		return Post
	default:
		return Unknown
	}
}

// ExtractUsername pulls the account name out of a page URL. The first
// path segment after an optional stories/reels/post prefix is the
// username; URLs outside the recognized host yield "".
func ExtractUsername(rawURL string) string {
	match := usernamePattern.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[2]
}

// ExtractPostID finds the post shortcode for the current page. Reel and
// stories paths carry it in a fixed segment; other layouts embed it only
// in anchor hrefs inside the content root.
func ExtractPostID(path string, root *dom.Node) string {
	segments := strings.Split(path, "/")

	segmentAt := func(i int) string {
		if i < len(segments) {
			return segments[i]
		}
		return ""
	}

	switch {
	case strings.HasPrefix(path, "/reel/"), strings.HasPrefix(path, "/reels/"):
		return segmentAt(2)
	case strings.HasPrefix(path, "/stories/"):
		return segmentAt(3)
	}

	if root == nil {
		return ""
	}
	for _, anchor := range root.FindAll("a") {
		href := anchor.Attr("href")
		if href == "" {
			continue
		}
		if match := postHrefPattern.FindStringSubmatch(href); match != nil {
			return match[1]
		}
	}
	return ""
}

// StoryMediaID extracts the numeric media id directly from a stories
// URL, when present. This avoids the remote post-page lookup entirely.
func StoryMediaID(rawURL string) string {
	match := storyIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[1]
}

// OwnerProfileURL resolves the profile link for the media owner. Reels
// pages link to the account's reels tab; everything else links to the
// plain profile.
func OwnerProfileURL(rootURL, path, username string) string {
	switch {
	case strings.HasPrefix(path, "/p/"), strings.HasPrefix(path, "/stories/"):
		return rootURL + "/" + username + "/"
	case strings.HasPrefix(path, "/reels/"):
		return rootURL + "/" + username + "/reels/"
	default:
		return rootURL + "/" + username
	}
}
