package media

import (
	"strconv"
	"strings"

	"igresolve/internal/prober"
	"igresolve/pkg/dom"
)

// Candidate is one srcset entry
type Candidate struct {
	URL   string
	Width int
}

// Prober measures the intrinsic dimensions of image candidates
type Prober interface {
	ProbeAll(jobs []prober.ProbeJob) []prober.ProbeResult
}

// ParseSrcset splits a srcset attribute into its candidates. Entries
// without a width descriptor get width 0. Malformed entries are
// dropped.
func ParseSrcset(srcset string) []Candidate {
	var out []Candidate
	for _, entry := range strings.Split(srcset, ",") {
		fields := strings.Fields(entry)
		if len(fields) == 0 {
			continue
		}
		c := Candidate{URL: fields[0]}
		if len(fields) > 1 {
			descriptor := fields[1]
			if strings.HasSuffix(descriptor, "w") {
				if w, err := strconv.Atoi(strings.TrimSuffix(descriptor, "w")); err == nil {
					c.Width = w
				}
			}
		}
		out = append(out, c)
	}
	return out
}

// BestImageURL picks the highest resolution source of an img element.
// Srcset candidates are probed for their true pixel area and the
// largest wins. The plain src attribute participates as a zero-area
// fallback, so it is chosen only when every candidate probe fails or
// no srcset exists.
func (r *Resolver) BestImageURL(img *dom.Node) string {
	src := img.Attr("src")
	candidates := ParseSrcset(img.Attr("srcset"))
	if len(candidates) == 0 || r.prober == nil {
		if len(candidates) > 0 {
			return widestDeclared(candidates, src)
		}
		return src
	}

	jobs := make([]prober.ProbeJob, 0, len(candidates))
	for _, c := range candidates {
		jobs = append(jobs, prober.ProbeJob{URL: c.URL, DeclaredWidth: c.Width})
	}

	bestURL := src
	bestArea := 0
	for _, result := range r.prober.ProbeAll(jobs) {
		if !result.Success {
			continue
		}
		if area := result.Area(); area > bestArea {
			bestArea = area
			bestURL = result.Job.URL
		}
	}
	return bestURL
}

// widestDeclared falls back to the declared width descriptors when no
// prober is available.
func widestDeclared(candidates []Candidate, src string) string {
	bestURL := src
	bestWidth := 0
	for _, c := range candidates {
		if c.Width > bestWidth {
			bestWidth = c.Width
			bestURL = c.URL
		}
	}
	if bestURL == "" && len(candidates) > 0 {
		bestURL = candidates[0].URL
	}
	return bestURL
}
