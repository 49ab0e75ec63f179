package scan

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher checks slash-separated paths relative to the music root against a
// set of exclusion globs. `?` matches one non-separator character, `*` any
// run of non-separator characters and `**` crosses separators.
type Matcher struct {
	patterns []string
}

// NewMatcher validates the patterns up front so a bad glob fails the scan
// setup instead of silently excluding nothing
func NewMatcher(patterns []string) (*Matcher, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclusion pattern %q", p)
		}
	}
	return &Matcher{patterns: patterns}, nil
}

// Excluded reports whether the relative path matches any pattern. Folder
// pruning during the walk covers ancestor matches, so only the path itself
// is tested here.
func (m *Matcher) Excluded(relPath string) bool {
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
	}
	return false
}
