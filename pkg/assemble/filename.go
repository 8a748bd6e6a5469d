package assemble

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	illegalPattern    = regexp.MustCompile(`[^\w\-.]`)
)

// FormatFilename expands a filename template for one media item. The
// supported placeholders are {Username}, {Year}, {Month}, {Day},
// {Hour} and {Minute}; after substitution all whitespace collapses to
// hyphens and any character outside word/dot/hyphen is stripped. The
// numeric suffix and extension are appended separately by the caller.
func FormatFilename(template, username string, takenAt time.Time) string {
	replacer := strings.NewReplacer(
		"{Username}", username,
		"{Year}", fmt.Sprintf("%04d", takenAt.Year()),
		"{Month}", fmt.Sprintf("%02d", int(takenAt.Month())),
		"{Day}", fmt.Sprintf("%02d", takenAt.Day()),
		"{Hour}", fmt.Sprintf("%02d", takenAt.Hour()),
		"{Minute}", fmt.Sprintf("%02d", takenAt.Minute()),
	)
	name := replacer.Replace(template)
	name = whitespacePattern.ReplaceAllString(name, "-")
	return illegalPattern.ReplaceAllString(name, "")
}

// FilenameFor builds the complete filename of the item at the given
// position: the formatted stem, a 1-based position suffix and the
// extension.
func FilenameFor(stem string, index int, ext string) string {
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s_%d.%s", stem, index+1, ext)
}
