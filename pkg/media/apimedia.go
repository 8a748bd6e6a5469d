package media

import (
	"igresolve/pkg/instagram"
)

// ItemsFromResponse extracts the media records from an API response in
// precedence order: a story tray's items win, then a carousel's slides,
// then the plain item list, and finally a bare user record degrades to
// its profile picture.
func ItemsFromResponse(resp *instagram.MediaInfoResponse) []instagram.Item {
	if resp == nil {
		return nil
	}

	if len(resp.ReelsMedia) > 0 && len(resp.ReelsMedia[0].Items) > 0 {
		return resp.ReelsMedia[0].Items
	}

	if len(resp.Items) > 0 {
		if len(resp.Items[0].CarouselMedia) > 0 {
			return resp.Items[0].CarouselMedia
		}
		return resp.Items
	}

	if resp.User != nil && resp.User.HDProfilePicInfo != nil {
		return []instagram.Item{{
			User: resp.User,
			ImageVersions2: &instagram.ImageVersions2{
				Candidates: []instagram.ImageCandidate{*resp.User.HDProfilePicInfo},
			},
		}}
	}

	return nil
}

// ItemsToMedia converts API records to media items
func ItemsToMedia(items []instagram.Item) []Item {
	out := make([]Item, 0, len(items))
	for i := range items {
		url, ext := items[i].BestMediaURL()
		if url == "" {
			continue
		}
		kind := KindImage
		if items[i].IsVideo() {
			kind = KindVideo
		}
		item := Item{Kind: kind, URL: url, Ext: ext, TakenAt: items[i].TakenAt}
		item.Width, item.Height = items[i].Dimensions()
		if items[i].User != nil {
			item.Owner = items[i].User.Username
		}
		out = append(out, item)
	}
	return out
}

// OwnerOf returns the user record attached to an API response, looking
// in each collection the envelope can carry.
func OwnerOf(resp *instagram.MediaInfoResponse) *instagram.UserInfo {
	if resp == nil {
		return nil
	}
	if len(resp.ReelsMedia) > 0 && resp.ReelsMedia[0].User != nil {
		return resp.ReelsMedia[0].User
	}
	if len(resp.Items) > 0 && resp.Items[0].User != nil {
		return resp.Items[0].User
	}
	return resp.User
}
