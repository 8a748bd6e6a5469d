// Package assemble builds the final ResolvedMediaSet handed to the
// output layer: the ordered media items, the active index, the owner
// identity and a generated filename per item.
package assemble

import (
	"strings"
	"time"

	"igresolve/pkg/config"
	"igresolve/pkg/instagram"
	"igresolve/pkg/layout"
	"igresolve/pkg/logger"
	"igresolve/pkg/media"
	"igresolve/pkg/pagecontext"
)

// ResolvedMediaSet is the unit handed to the output layer. When Found
// is true and Items is non-empty, SelectedIndex is a valid position in
// Items; when Found is false, Items is empty.
type ResolvedMediaSet struct {
	Found           bool
	Items           []media.Item
	Filenames       []string
	SelectedIndex   int
	OwnerUsername   string
	OwnerProfileURL string
	ErrorMessage    string
}

// Input carries everything one assembly needs. All fields are
// read-only; the assembler never mutates shared state.
type Input struct {
	Target   *layout.Target
	Response *instagram.MediaInfoResponse
	// PageItem is the media resolved straight from the DOM, used when
	// no API record is available.
	PageItem *media.Item
	// Username is the page-derived account name, possibly a shortcode
	// when the URL carried no real username.
	Username string
	// PostID is the shortcode extracted from the URL, used to detect
	// shortcode-as-username cases.
	PostID string
	Path   string
}

// Assembler converts resolved layout and API data into result sets
type Assembler struct {
	prefs  config.Preferences
	logger logger.Logger
}

// New creates an assembler with the given preferences
func New(prefs config.Preferences, log logger.Logger) *Assembler {
	if log == nil {
		log = logger.GetLogger()
	}
	if prefs.FilenameTemplate == "" {
		prefs.FilenameTemplate = config.DefaultFilenameTemplate
	}
	return &Assembler{prefs: prefs, logger: log}
}

// Assemble builds the result set. API records win over the page-derived
// item; the page item is the fallback when every remote lookup
// soft-failed.
func (a *Assembler) Assemble(in Input) *ResolvedMediaSet {
	items := media.ItemsToMedia(media.ItemsFromResponse(in.Response))
	multiStory := len(in.Response.ReelsItems()) > 1

	if len(items) == 0 && in.PageItem != nil && in.PageItem.URL != "" {
		items = []media.Item{*in.PageItem}
	}
	if len(items) == 0 {
		return &ResolvedMediaSet{Found: false, ErrorMessage: "nothing found"}
	}

	selected := 0
	if in.Target != nil {
		selected = in.Target.SelectedIndex
	}
	if selected < 0 {
		selected = 0
	}
	if selected >= len(items) {
		selected = len(items) - 1
	}

	if a.prefs.NoMultiStories && multiStory {
		items = []media.Item{items[selected]}
		selected = 0
	}

	owner := a.resolveOwner(in)
	set := &ResolvedMediaSet{
		Found:           true,
		Items:           items,
		SelectedIndex:   selected,
		OwnerUsername:   owner,
		OwnerProfileURL: pagecontext.OwnerProfileURL(instagram.BaseURL, in.Path, owner),
	}

	set.Filenames = make([]string, len(items))
	for i, item := range items {
		takenAt := time.Now().UTC()
		if item.TakenAt > 0 {
			takenAt = time.Unix(item.TakenAt, 0).UTC()
		}
		stem := FormatFilename(a.prefs.FilenameTemplate, owner, takenAt)
		set.Filenames[i] = FilenameFor(stem, i, item.Ext)
	}

	return set
}

// resolveOwner refines the page-derived username with the API record.
// Post and reel URLs carry a shortcode where a username would be, so
// the record's own user field wins there; elsewhere the tray or item
// user is preferred and the page value is the fallback.
func (a *Assembler) resolveOwner(in Input) string {
	owner := in.Username

	shortcodeAsName := owner != "" && owner == in.PostID &&
		(strings.HasPrefix(in.Path, "/p/") || strings.HasPrefix(in.Path, "/reels/") || strings.HasPrefix(in.Path, "/reel/"))

	if user := media.OwnerOf(in.Response); user != nil && user.Username != "" {
		return user.Username
	}
	if shortcodeAsName {
		a.logger.WithField("username", owner).Debug("owner unresolved, page value is a shortcode")
	}
	return owner
}
