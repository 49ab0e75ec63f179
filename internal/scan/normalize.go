package scan

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/franz/musicdex/internal/meta"
)

// tag-name synonyms, in lookup order
var (
	trackNumberKeys = []string{"track", "tracknumber", "track_number", "tracknum", "trck"}
	discNumberKeys  = []string{"disc", "discnumber", "disc_number", "disk", "disknumber", "tpos"}
	yearKeys        = []string{"year", "date", "tyer", "originaldate"}
)

var isoYearRe = regexp.MustCompile(`^(\d{4})(?:$|[-/])`)

// TrackMeta is the normalized per-file metadata handed to the identity
// resolver. Nil pointer fields mean "unknown"; Disk always carries a value
// and defaults to 1.
type TrackMeta struct {
	Title       string
	Artist      *string
	AlbumArtist *string
	Album       *string
	Genre       string
	Number      *int
	Disk        int
	Year        *int
	Length      *int
	Bitrate     *int
	HasPicture  bool
}

// Normalize turns raw tag values into a TrackMeta, applying the fallback
// rules for missing tags. parentName is the containing folder's name and
// parentIsRoot tells whether that folder is the music root itself, in which
// case it never serves as an album-name fallback.
func Normalize(raw *meta.RawTags, fileName string, parentName string, parentIsRoot bool) *TrackMeta {
	tm := &TrackMeta{
		HasPicture: raw.Picture != nil,
		Disk:       1,
	}
	if raw.Length > 0 {
		length := raw.Length
		tm.Length = &length
	}
	if raw.Bitrate > 0 {
		bitrate := raw.Bitrate
		tm.Bitrate = &bitrate
	}

	artist := cleanTag(raw.Fields["artist"])
	albumArtist := cleanTag(raw.Fields["albumartist"])
	// an empty half of the pair inherits the other; both empty means unknown
	if artist == "" {
		artist = albumArtist
	}
	if albumArtist == "" {
		albumArtist = artist
	}
	if artist != "" {
		tm.Artist = &artist
	}
	if albumArtist != "" {
		tm.AlbumArtist = &albumArtist
	}

	tm.Title = cleanTag(raw.Fields["title"])
	if tm.Title == "" {
		tm.Title = TitleFromFilename(fileName)
	}

	album := cleanTag(raw.Fields["album"])
	if album == "" && !parentIsRoot {
		album = cleanTag(parentName)
	}
	if album != "" {
		tm.Album = &album
	}

	tm.Genre = cleanTag(raw.Fields["genre"])

	tm.Number = parseOrdinal(firstTag(raw.Fields, trackNumberKeys))
	if disk := parseOrdinal(firstTag(raw.Fields, discNumberKeys)); disk != nil {
		tm.Disk = *disk
	}
	tm.Year = parseYear(firstTag(raw.Fields, yearKeys))

	return tm
}

// cleanTag trims whitespace and applies Unicode canonical composition. Tags
// written by different taggers may encode the same text decomposed; without
// this, one file splits an artist in two.
func cleanTag(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func firstTag(fields map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := fields[k]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// parseOrdinal reduces a "N/M"-style value to N. Non-numeric and
// non-positive values yield nil.
func parseOrdinal(s string) *int {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

// parseYear accepts a bare 4-digit year or the leading YYYY of an ISO date
func parseYear(s string) *int {
	m := isoYearRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil
	}
	y, err := strconv.Atoi(m[1])
	if err != nil || y <= 0 {
		return nil
	}
	return &y
}
