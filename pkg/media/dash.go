package media

import (
	"encoding/xml"
	"sort"
	"strings"

	"igresolve/pkg/errors"
)

// Representation is one encoded rendition inside a DASH manifest
type Representation struct {
	MimeType     string `xml:"mimeType,attr"`
	Bandwidth    int    `xml:"bandwidth,attr"`
	QualityClass string `xml:"FBQualityClass,attr"`
	QualityLabel string `xml:"FBQualityLabel,attr"`
	BaseURL      string `xml:"BaseURL"`
}

type dashManifest struct {
	XMLName xml.Name `xml:"MPD"`
	Periods []struct {
		AdaptationSets []struct {
			Representations []Representation `xml:"Representation"`
		} `xml:"AdaptationSet"`
	} `xml:"Period"`
}

// BestDashVideoURL parses a DASH manifest and returns the BaseURL of
// the best video/mp4 rendition. "hd" quality class wins outright;
// within a class, higher bandwidth wins.
func BestDashVideoURL(manifestXML string) (string, error) {
	var manifest dashManifest
	if err := xml.Unmarshal([]byte(manifestXML), &manifest); err != nil {
		return "", errors.New(errors.ErrorTypeMalformedManifest, "manifest is not valid XML: "+err.Error())
	}

	var videos []Representation
	for _, period := range manifest.Periods {
		for _, set := range period.AdaptationSets {
			for _, rep := range set.Representations {
				if rep.MimeType == "video/mp4" && rep.BaseURL != "" {
					videos = append(videos, rep)
				}
			}
		}
	}
	if len(videos) == 0 {
		return "", errors.New(errors.ErrorTypeMalformedManifest, "manifest has no video representations")
	}

	sort.SliceStable(videos, func(i, j int) bool {
		iHD := videos[i].QualityClass == "hd"
		jHD := videos[j].QualityClass == "hd"
		if iHD != jHD {
			return iHD
		}
		return videos[i].Bandwidth > videos[j].Bandwidth
	})

	return strings.TrimSpace(videos[0].BaseURL), nil
}
