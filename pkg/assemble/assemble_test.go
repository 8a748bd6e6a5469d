package assemble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igresolve/pkg/config"
	"igresolve/pkg/instagram"
	"igresolve/pkg/layout"
	"igresolve/pkg/media"
)

func trayResponse(urls ...string) *instagram.MediaInfoResponse {
	items := make([]instagram.Item, 0, len(urls))
	for _, u := range urls {
		items = append(items, instagram.Item{
			TakenAt: 1709647620,
			ImageVersions2: &instagram.ImageVersions2{
				Candidates: []instagram.ImageCandidate{{URL: u}},
			},
		})
	}
	return &instagram.MediaInfoResponse{
		ReelsMedia: []instagram.Reel{{
			User:  &instagram.UserInfo{Username: "natgeo"},
			Items: items,
		}},
	}
}

func TestFormatFilename(t *testing.T) {
	takenAt := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)

	t.Run("default template", func(t *testing.T) {
		got := FormatFilename(config.DefaultFilenameTemplate, "jdoe", takenAt)
		assert.Equal(t, "jdoe__2024-03-05--14-07", got)
	})

	t.Run("whitespace collapses to hyphens", func(t *testing.T) {
		got := FormatFilename("{Username} story  {Year}", "jdoe", takenAt)
		assert.Equal(t, "jdoe-story-2024", got)
	})

	t.Run("illegal characters stripped", func(t *testing.T) {
		got := FormatFilename("{Username}?!*", "jd/oe", takenAt)
		assert.Equal(t, "jdoe", got)
	})
}

func TestFilenameFor(t *testing.T) {
	assert.Equal(t, "stem_1.jpg", FilenameFor("stem", 0, "jpg"))
	assert.Equal(t, "stem_3.mp4", FilenameFor("stem", 2, "mp4"))
	assert.Equal(t, "stem_1.jpg", FilenameFor("stem", 0, ""))
}

func TestAssembleFromAPIResponse(t *testing.T) {
	a := New(config.Preferences{}, nil)

	set := a.Assemble(Input{
		Target:   &layout.Target{SelectedIndex: 1},
		Response: trayResponse("https://cdn/s0.jpg", "https://cdn/s1.jpg", "https://cdn/s2.jpg"),
		Username: "natgeo",
		Path:     "/stories/natgeo/314159/",
	})

	require.True(t, set.Found)
	require.Len(t, set.Items, 3)
	assert.Equal(t, 1, set.SelectedIndex)
	assert.Equal(t, "natgeo", set.OwnerUsername)
	assert.Equal(t, "https://www.instagram.com/natgeo/", set.OwnerProfileURL)
	require.Len(t, set.Filenames, 3)
	assert.Equal(t, "natgeo__2024-03-05--14-07_2.jpg", set.Filenames[1])
}

func TestAssembleNoMultiStoriesTruncates(t *testing.T) {
	a := New(config.Preferences{NoMultiStories: true}, nil)

	set := a.Assemble(Input{
		Target:   &layout.Target{SelectedIndex: 2},
		Response: trayResponse("https://cdn/s0.jpg", "https://cdn/s1.jpg", "https://cdn/s2.jpg"),
		Username: "natgeo",
		Path:     "/stories/natgeo/314159/",
	})

	require.True(t, set.Found)
	require.Len(t, set.Items, 1)
	assert.Equal(t, 0, set.SelectedIndex)
	assert.Equal(t, "https://cdn/s2.jpg", set.Items[0].URL)
}

func TestAssemblePageItemFallback(t *testing.T) {
	a := New(config.Preferences{}, nil)

	set := a.Assemble(Input{
		Target:   &layout.Target{},
		PageItem: &media.Item{Kind: media.KindImage, URL: "https://cdn/page.jpg", Ext: "jpg"},
		Username: "natgeo",
		Path:     "/natgeo/",
	})

	require.True(t, set.Found)
	require.Len(t, set.Items, 1)
	assert.Equal(t, "https://cdn/page.jpg", set.Items[0].URL)
	assert.Equal(t, 0, set.SelectedIndex)
	assert.Equal(t, "natgeo", set.OwnerUsername)
	assert.Equal(t, "https://www.instagram.com/natgeo", set.OwnerProfileURL)
}

func TestAssembleNothingFound(t *testing.T) {
	a := New(config.Preferences{}, nil)

	set := a.Assemble(Input{Target: &layout.Target{}, Username: "natgeo", Path: "/natgeo/"})

	assert.False(t, set.Found)
	assert.Empty(t, set.Items)
	assert.NotEmpty(t, set.ErrorMessage)
}

func TestAssembleSelectedIndexClamped(t *testing.T) {
	a := New(config.Preferences{}, nil)

	set := a.Assemble(Input{
		Target:   &layout.Target{SelectedIndex: 9},
		Response: trayResponse("https://cdn/s0.jpg", "https://cdn/s1.jpg"),
		Username: "natgeo",
		Path:     "/stories/natgeo/1/",
	})

	require.True(t, set.Found)
	assert.Equal(t, 1, set.SelectedIndex)
	assert.GreaterOrEqual(t, set.SelectedIndex, 0)
	assert.Less(t, set.SelectedIndex, len(set.Items))
}

func TestAssembleShortcodeOwnerRefinement(t *testing.T) {
	a := New(config.Preferences{}, nil)

	resp := &instagram.MediaInfoResponse{
		Items: []instagram.Item{{
			TakenAt: 1709647620,
			User:    &instagram.UserInfo{Username: "realowner"},
			VideoVersions: []instagram.VideoVersion{{URL: "https://cdn/v.mp4"}},
		}},
	}

	set := a.Assemble(Input{
		Target:   &layout.Target{},
		Response: resp,
		Username: "CxYz123",
		PostID:   "CxYz123",
		Path:     "/reel/CxYz123/",
	})

	require.True(t, set.Found)
	assert.Equal(t, "realowner", set.OwnerUsername)
	assert.Equal(t, "https://www.instagram.com/realowner", set.OwnerProfileURL)
}
