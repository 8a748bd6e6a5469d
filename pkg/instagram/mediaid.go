package instagram

import (
	"regexp"
	"sync"
)

var (
	storyURLMediaIDPattern = regexp.MustCompile(`stories/[^/]+/(\d+)`)
	pageMediaIDPattern     = regexp.MustCompile(`instagram://media\?id=(\d+)|["' ]media_id["' ]:["' ](\d+)["' ]`)
	pkPattern              = regexp.MustCompile(`"pk":\s*"?(\d+)`)
)

// MediaIDResolver maps page URLs to numeric media ids. Lookups can cost
// up to two page fetches, so results are memoized per URL for the life
// of the resolver.
type MediaIDResolver struct {
	client *Client

	mu    sync.Mutex
	cache map[string]string
}

// NewMediaIDResolver creates a resolver backed by the given client
func NewMediaIDResolver(client *Client) *MediaIDResolver {
	return &MediaIDResolver{
		client: client,
		cache:  make(map[string]string),
	}
}

// Resolve returns the numeric media id for a page URL, or "" when none
// can be found. Stories URLs carry the id directly; post and reel pages
// embed it in markup, with the JSON page variant as a last resort.
func (r *MediaIDResolver) Resolve(pageURL, postID string) string {
	r.mu.Lock()
	if id, ok := r.cache[pageURL]; ok {
		r.mu.Unlock()
		return id
	}
	r.mu.Unlock()

	id := r.lookup(pageURL, postID)

	r.mu.Lock()
	r.cache[pageURL] = id
	r.mu.Unlock()

	return id
}

func (r *MediaIDResolver) lookup(pageURL, postID string) string {
	if match := storyURLMediaIDPattern.FindStringSubmatch(pageURL); match != nil {
		return match[1]
	}
	if postID == "" {
		return ""
	}

	// The post page HTML usually embeds the id in a deep link or an
	// inline media_id field.
	body, err := r.client.GetText(GetPostPageURL(postID))
	if err == nil {
		if match := pageMediaIDPattern.FindStringSubmatch(body); match != nil {
			if match[1] != "" {
				return match[1]
			}
			return match[2]
		}
	}

	// Logged-out page variants omit it; the JSON page variant still
	// carries the record's pk.
	body, err = r.client.GetText(GetPostMetaURL(postID))
	if err == nil {
		if match := pkPattern.FindStringSubmatch(body); match != nil {
			return match[1]
		}
	}

	return ""
}
