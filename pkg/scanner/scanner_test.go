package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igresolve/pkg/config"
	"igresolve/pkg/dom"
	"igresolve/pkg/media"
)

func snapshotFor(t *testing.T, rawURL, html string) *dom.Snapshot {
	t.Helper()
	loc, err := dom.LocationFromURL(rawURL)
	require.NoError(t, err)
	snap, err := dom.ParseSnapshotHTML(strings.NewReader(html), loc, dom.Viewport{Height: 900, Width: 1200})
	require.NoError(t, err)
	return snap
}

const postPage = `<body>
	<section><main>
		<div><div><article>
			<a href="/p/CxYz123/liked_by/">likes</a>
			<img src="https://cdn.example/photo.jpg">
		</article></div></div>
	</main></section>
</body>`

func TestScanPostWithPlainImage(t *testing.T) {
	snap := snapshotFor(t, "https://www.instagram.com/p/CxYz123/", postPage)

	s := New(nil, nil, config.Preferences{}, nil)
	set := s.Scan(snap)

	require.True(t, set.Found)
	require.Len(t, set.Items, 1)
	assert.Equal(t, media.KindImage, set.Items[0].Kind)
	assert.Equal(t, "https://cdn.example/photo.jpg", set.Items[0].URL)
	assert.Equal(t, 0, set.SelectedIndex)
}

func TestScanIdempotent(t *testing.T) {
	snap := snapshotFor(t, "https://www.instagram.com/p/CxYz123/", postPage)

	s := New(nil, nil, config.Preferences{}, nil)
	first := s.Scan(snap)
	second := s.Scan(snap)

	// Filenames embed the current time for page-derived items, so they
	// are excluded from the comparison.
	assert.Equal(t, first.Found, second.Found)
	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, first.SelectedIndex, second.SelectedIndex)
	assert.Equal(t, first.OwnerUsername, second.OwnerUsername)
	assert.Equal(t, first.OwnerProfileURL, second.OwnerProfileURL)
}

func TestScanFeedSelectsVisibleArticle(t *testing.T) {
	snap := snapshotFor(t, "https://www.instagram.com/", `<main>
		<article><img src="https://cdn.example/a.jpg"></article>
		<article><img src="https://cdn.example/b.jpg"></article>
		<article><img src="https://cdn.example/c.jpg"></article>
	</main>`)

	articles := snap.Root.FindAll("article")
	articles[0].Rect = dom.Rect{Top: -800, Height: 850}
	articles[1].Rect = dom.Rect{Top: 100, Height: 700}
	articles[2].Rect = dom.Rect{Top: 850, Height: 850}

	s := New(nil, nil, config.Preferences{}, nil)
	set := s.Scan(snap)

	require.True(t, set.Found)
	require.Len(t, set.Items, 1)
	assert.Equal(t, "https://cdn.example/b.jpg", set.Items[0].URL)
}

func TestScanUnrecognizedHost(t *testing.T) {
	snap := snapshotFor(t, "https://example.com/p/CxYz123/", postPage)

	s := New(nil, nil, config.Preferences{}, nil)
	set := s.Scan(snap)

	assert.False(t, set.Found)
	assert.Empty(t, set.Items)
	assert.Equal(t, "nothing found", set.ErrorMessage)
}

func TestScanUnknownPath(t *testing.T) {
	snap := snapshotFor(t, "https://www.instagram.com/accounts/login/", `<main></main>`)

	s := New(nil, nil, config.Preferences{}, nil)
	set := s.Scan(snap)

	assert.False(t, set.Found)
}

func TestScanEmptyPage(t *testing.T) {
	snap := snapshotFor(t, "https://www.instagram.com/p/CxYz123/", `<div><span>loading</span></div>`)

	s := New(nil, nil, config.Preferences{}, nil)
	set := s.Scan(snap)

	assert.False(t, set.Found)
	assert.Equal(t, "nothing found", set.ErrorMessage)
}

func TestScanBlobVideoWithoutOrigin(t *testing.T) {
	snap := snapshotFor(t, "https://www.instagram.com/p/CxYz123/", `<body>
		<section><main><div><div><article>
			<video src="blob:https://www.instagram.com/abc"></video>
		</article></div></div></main></section>
	</body>`)

	s := New(nil, nil, config.Preferences{}, nil)
	set := s.Scan(snap)

	assert.False(t, set.Found)
	assert.Equal(t, "cannot download this video", set.ErrorMessage)
}

func TestScanSponsoredPostSkipped(t *testing.T) {
	adPage := `<body><section><main><div><div><article>
		<svg><path d="M21 17.502a.997.997 0 0 1-.707-.293L12 8.913l-8.293 8.296a1 1 0 1 1-1.414-1.414l9-9.004a1.03 1.03 0 0 1 1.414 0l9 9.004A1 1 0 0 1 21 17.502Z"></path></svg>
		<img src="https://cdn.example/ad.jpg">
	</article></div></div></main></section></body>`

	snap := snapshotFor(t, "https://www.instagram.com/p/CxYz123/", adPage)

	t.Run("ads hidden by default", func(t *testing.T) {
		s := New(nil, nil, config.Preferences{}, nil)
		set := s.Scan(snap)
		assert.False(t, set.Found)
	})

	t.Run("showAds resolves the ad media", func(t *testing.T) {
		s := New(nil, nil, config.Preferences{ShowAds: true}, nil)
		set := s.Scan(snap)
		require.True(t, set.Found)
		assert.Equal(t, "https://cdn.example/ad.jpg", set.Items[0].URL)
	})
}

func TestScanNilSnapshot(t *testing.T) {
	s := New(nil, nil, config.Preferences{}, nil)
	set := s.Scan(nil)
	assert.False(t, set.Found)
}

func TestScanFilenamesGenerated(t *testing.T) {
	snap := snapshotFor(t, "https://www.instagram.com/p/CxYz123/", postPage)

	s := New(nil, nil, config.Preferences{}, nil)
	set := s.Scan(snap)

	require.True(t, set.Found)
	require.Len(t, set.Filenames, 1)
	assert.True(t, strings.HasSuffix(set.Filenames[0], "_1.jpg"), set.Filenames[0])
}
