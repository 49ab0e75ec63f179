// Package meta extracts raw metadata from audio files. The extractor is a
// black box to the rest of the system: it returns a string mapping plus an
// optional embedded picture, and it is safe to call on files of unsupported
// formats.
package meta

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// Picture is an embedded cover image
type Picture struct {
	Mime string
	Data []byte
}

// RawTags is the extraction result. Fields maps lower-cased tag names to
// values; a file without readable tags yields an empty (never nil) mapping.
// Length and Bitrate are zero when the source format does not expose them.
type RawTags struct {
	Fields  map[string]string
	Picture *Picture
	Length  int // seconds
	Bitrate int // bits per second
}

// Extractor reads raw tags from an open file
type Extractor interface {
	Extract(r io.ReadSeeker) (*RawTags, error)
}

// TagReader extracts tags with the dhowden/tag library
type TagReader struct{}

// NewTagReader creates a TagReader
func NewTagReader() *TagReader {
	return &TagReader{}
}

// Extract reads the tags of an audio file. An unrecognized or tagless format
// is not an error; it produces an empty mapping. Only I/O failures while
// reading propagate as errors.
func (e *TagReader) Extract(r io.ReadSeeker) (*RawTags, error) {
	raw := &RawTags{Fields: make(map[string]string)}

	m, err := tag.ReadFrom(r)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("failed to read tags: %w", err)
		}
		// unsupported format or no tags present
		return raw, nil
	}

	for key, value := range m.Raw() {
		lk := strings.ToLower(key)
		switch v := value.(type) {
		case string:
			raw.Fields[lk] = v
		case int:
			raw.Fields[lk] = strconv.Itoa(v)
		}
	}

	// the typed accessors understand format-specific frame names; let them
	// fill the canonical keys the raw map may spell differently
	setIfValue(raw.Fields, "title", m.Title())
	setIfValue(raw.Fields, "artist", m.Artist())
	setIfValue(raw.Fields, "albumartist", m.AlbumArtist())
	setIfValue(raw.Fields, "album", m.Album())
	setIfValue(raw.Fields, "genre", m.Genre())
	if year := m.Year(); year > 0 {
		setIfValue(raw.Fields, "year", strconv.Itoa(year))
	}
	if n, total := m.Track(); n > 0 {
		setIfValue(raw.Fields, "track", ordinalValue(n, total))
	}
	if n, total := m.Disc(); n > 0 {
		setIfValue(raw.Fields, "disc", ordinalValue(n, total))
	}

	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		raw.Picture = &Picture{Mime: pic.MIMEType, Data: pic.Data}
	}

	return raw, nil
}

func setIfValue(fields map[string]string, key string, value string) {
	if value != "" && fields[key] == "" {
		fields[key] = value
	}
}

func ordinalValue(n int, total int) string {
	if total > 0 {
		return fmt.Sprintf("%d/%d", n, total)
	}
	return strconv.Itoa(n)
}
