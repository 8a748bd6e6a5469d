package dom

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
)

// Location holds the navigation facts of the captured page.
type Location struct {
	Href     string `json:"href"`
	Hostname string `json:"hostname"`
	Path     string `json:"path"`
}

// LocationFromURL builds a Location from a raw URL string.
func LocationFromURL(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("failed to parse location URL: %w", err)
	}
	return Location{
		Href:     raw,
		Hostname: u.Hostname(),
		Path:     u.Path,
	}, nil
}

// Snapshot is one immutable capture of a page: the element tree with
// geometry, the viewport at capture time, the location, and the text of
// inline body scripts (needed for app-identifier discovery). Every scan
// operates on exactly one Snapshot and never mutates it.
type Snapshot struct {
	Location Location `json:"location"`
	Viewport Viewport `json:"viewport"`
	Root     *Node    `json:"root"`
	Scripts  []string `json:"scripts,omitempty"`
}

// DecodeSnapshot reads a JSON-serialized snapshot, as produced by the
// capture layer's in-page serializer, and restores parent links.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Root == nil {
		return nil, fmt.Errorf("snapshot has no root node")
	}
	snap.Root.link(nil)
	return &snap, nil
}
