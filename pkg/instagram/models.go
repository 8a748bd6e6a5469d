package instagram

// MediaInfoResponse is the envelope shared by the reels_media, media
// info and user info endpoints. Only one of the top-level collections
// is populated per endpoint.
type MediaInfoResponse struct {
	ReelsMedia []Reel    `json:"reels_media,omitempty"`
	Items      []Item    `json:"items,omitempty"`
	User       *UserInfo `json:"user,omitempty"`
	Status     string    `json:"status,omitempty"`
}

// Reel is a story or highlight tray holding one item per story frame
type Reel struct {
	ID    interface{} `json:"id,omitempty"`
	User  *UserInfo   `json:"user,omitempty"`
	Items []Item      `json:"items,omitempty"`
}

// Item is a single media record. Carousel posts nest their slides in
// CarouselMedia; some tray responses wrap the real record one level
// down in Items.
type Item struct {
	Pk             interface{}     `json:"pk,omitempty"`
	ID             string          `json:"id,omitempty"`
	Code           string          `json:"code,omitempty"`
	MediaType      int             `json:"media_type,omitempty"`
	TakenAt        int64           `json:"taken_at,omitempty"`
	User           *UserInfo       `json:"user,omitempty"`
	Items          []Item          `json:"items,omitempty"`
	CarouselMedia  []Item          `json:"carousel_media,omitempty"`
	VideoVersions  []VideoVersion  `json:"video_versions,omitempty"`
	ImageVersions2 *ImageVersions2 `json:"image_versions2,omitempty"`
}

// VideoVersion is one encoded rendition of a video
type VideoVersion struct {
	Type   int    `json:"type,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	URL    string `json:"url"`
}

// ImageVersions2 holds the image renditions, best first
type ImageVersions2 struct {
	Candidates []ImageCandidate `json:"candidates,omitempty"`
}

// ImageCandidate is one encoded rendition of an image
type ImageCandidate struct {
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	URL    string `json:"url"`
}

// UserInfo is the subset of a user record the resolver needs
type UserInfo struct {
	Pk               interface{}     `json:"pk,omitempty"`
	Username         string          `json:"username,omitempty"`
	FullName         string          `json:"full_name,omitempty"`
	IsPrivate        bool            `json:"is_private,omitempty"`
	HDProfilePicInfo *ImageCandidate `json:"hd_profile_pic_url_info,omitempty"`
	ProfilePicURL    string          `json:"profile_pic_url,omitempty"`
	RequiresToLogin  bool            `json:"require_login,omitempty"`
}

// WebProfileResponse is the envelope of the web_profile_info endpoint
type WebProfileResponse struct {
	Data struct {
		User *WebProfileUser `json:"user,omitempty"`
	} `json:"data"`
	Status string `json:"status,omitempty"`
}

// WebProfileUser carries the numeric id needed for user info lookups
type WebProfileUser struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
}

// ReelsItems returns the first story tray's items, nil when the
// response carries no tray. Safe on a nil receiver since soft-failed
// lookups hand callers a nil response.
func (r *MediaInfoResponse) ReelsItems() []Item {
	if r == nil || len(r.ReelsMedia) == 0 {
		return nil
	}
	return r.ReelsMedia[0].Items
}

// BestMediaURL returns the preferred download URL and extension for an
// item. Video renditions win over images; the first entry of either
// list is the highest quality one.
func (it *Item) BestMediaURL() (url, ext string) {
	record := it
	if len(it.Items) > 0 {
		record = &it.Items[0]
	}
	if len(record.VideoVersions) > 0 {
		return record.VideoVersions[0].URL, "mp4"
	}
	if record.ImageVersions2 != nil && len(record.ImageVersions2.Candidates) > 0 {
		return record.ImageVersions2.Candidates[0].URL, "jpg"
	}
	return "", ""
}

// Dimensions returns the pixel size of the preferred rendition, zero
// when the record does not declare one.
func (it *Item) Dimensions() (width, height int) {
	record := it
	if len(it.Items) > 0 {
		record = &it.Items[0]
	}
	if len(record.VideoVersions) > 0 {
		return record.VideoVersions[0].Width, record.VideoVersions[0].Height
	}
	if record.ImageVersions2 != nil && len(record.ImageVersions2.Candidates) > 0 {
		return record.ImageVersions2.Candidates[0].Width, record.ImageVersions2.Candidates[0].Height
	}
	return 0, 0
}

// IsVideo reports whether the item's preferred rendition is a video
func (it *Item) IsVideo() bool {
	record := it
	if len(it.Items) > 0 {
		record = &it.Items[0]
	}
	return len(record.VideoVersions) > 0
}
