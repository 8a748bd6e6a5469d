package instagram

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// BaseURL is the web origin
	BaseURL = "https://www.instagram.com"

	// APIBaseURL is the private API origin used by the web client
	APIBaseURL = "https://i.instagram.com"

	// ReelsMediaEndpoint returns story and highlight trays by reel id
	ReelsMediaEndpoint = "/api/v1/feed/reels_media/"

	// MediaInfoEndpoint returns full media records by numeric media id
	MediaInfoEndpoint = "/api/v1/media/%s/info/"

	// UserInfoEndpoint returns a user record by numeric user id
	UserInfoEndpoint = "/api/v1/users/%s/info/"

	// WebProfileEndpoint returns a profile record by username
	WebProfileEndpoint = "/api/v1/users/web_profile_info/?username=%s"

	// postMetaSuffix turns a post page URL into a JSON document
	postMetaSuffix = "?__a=1&__d=dis"
)

// GetReelsMediaURL builds the tray lookup URL. Stories are addressed by
// their numeric media id; highlights have no media id and are addressed
// by a prefixed post id instead.
func GetReelsMediaURL(mediaID, postID string) string {
	reelID := mediaID
	if reelID == "" {
		reelID = "highlight%3A" + postID
	}
	return APIBaseURL + ReelsMediaEndpoint + "?reel_ids=" + reelID
}

// GetMediaInfoURL builds the media info URL for a numeric media id
func GetMediaInfoURL(mediaID string) string {
	return APIBaseURL + fmt.Sprintf(MediaInfoEndpoint, mediaID)
}

// GetUserInfoURL builds the user info URL for a numeric user id
func GetUserInfoURL(userID string) string {
	return APIBaseURL + fmt.Sprintf(UserInfoEndpoint, userID)
}

// GetWebProfileURL builds the profile lookup URL for a username
func GetWebProfileURL(username string) string {
	return APIBaseURL + fmt.Sprintf(WebProfileEndpoint, username)
}

// GetPostPageURL builds the canonical page URL for a post shortcode
func GetPostPageURL(postID string) string {
	return BaseURL + "/p/" + postID + "/"
}

// GetPostMetaURL builds the JSON variant of a post page URL
func GetPostMetaURL(postID string) string {
	return GetPostPageURL(postID) + postMetaSuffix
}

// IsValidUsername checks if a username is valid according to Instagram's rules
func IsValidUsername(username string) bool {
	if len(username) == 0 || len(username) > 30 {
		return false
	}

	validUsername := regexp.MustCompile(`^[a-zA-Z0-9._]+$`)
	if !validUsername.MatchString(username) {
		return false
	}

	if strings.HasPrefix(username, ".") || strings.HasSuffix(username, ".") {
		return false
	}

	if strings.Contains(username, "..") {
		return false
	}

	return true
}

// SanitizeUsername removes common URL parts if a full URL was provided
func SanitizeUsername(input string) string {
	username := strings.TrimSpace(input)

	username = strings.TrimPrefix(username, "https://")
	username = strings.TrimPrefix(username, "http://")
	username = strings.TrimPrefix(username, "www.")
	username = strings.TrimPrefix(username, "instagram.com/")

	if idx := strings.IndexAny(username, "/?"); idx != -1 {
		username = username[:idx]
	}

	username = strings.TrimPrefix(username, "@")

	return username
}
