package scan

import (
	"path/filepath"
	"regexp"
	"strings"
)

// leading track-number prefix like "01 - ", "03.", "12_"
var trackPrefixRe = regexp.MustCompile(`^\d+\s*[-_.]\s*`)

// TitleFromFilename derives a display title from a file name when the tags
// carry none: the extension is dropped and a leading track-number prefix is
// stripped
func TitleFromFilename(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	title := strings.TrimSpace(trackPrefixRe.ReplaceAllString(base, ""))
	if title == "" {
		// the whole name was a number prefix, keep it as-is
		return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	return title
}
