package scan

import (
	"testing"

	"github.com/franz/musicdex/internal/meta"
)

func TestParseOrdinal(t *testing.T) {
	tests := []struct {
		input string
		want  *int
	}{
		{"3/12", intPtr(3)},
		{"3", intPtr(3)},
		{" 7 / 10 ", intPtr(7)},
		{"0", nil},
		{"-2", nil},
		{"abc", nil},
		{"", nil},
		{"/5", nil},
	}

	for _, tt := range tests {
		got := parseOrdinal(tt.input)
		if !intPtrEqual(got, tt.want) {
			t.Errorf("parseOrdinal(%q) = %v, want %v", tt.input, fmtIntPtr(got), fmtIntPtr(tt.want))
		}
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		input string
		want  *int
	}{
		{"1994", intPtr(1994)},
		{"2004-03-15", intPtr(2004)},
		{"2004/03/15", intPtr(2004)},
		{"199", nil},
		{"15-03-2004", nil},
		{"abcd", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := parseYear(tt.input)
		if !intPtrEqual(got, tt.want) {
			t.Errorf("parseYear(%q) = %v, want %v", tt.input, fmtIntPtr(got), fmtIntPtr(tt.want))
		}
	}
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"01 - Song Name.mp3", "Song Name"},
		{"03.Another Song.flac", "Another Song"},
		{"12_Track.ogg", "Track"},
		{"Plain Title.m4a", "Plain Title"},
		{"7.mp3", "7"},
	}

	for _, tt := range tests {
		if got := TitleFromFilename(tt.input); got != tt.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeArtistFallback(t *testing.T) {
	tests := []struct {
		name            string
		artist          string
		albumArtist     string
		wantArtist      *string
		wantAlbumArtist *string
	}{
		{"both set", "A", "B", strPtr("A"), strPtr("B")},
		{"artist only", "A", "", strPtr("A"), strPtr("A")},
		{"album artist only", "", "B", strPtr("B"), strPtr("B")},
		{"both empty", "", "", nil, nil},
		{"whitespace only", "  ", "", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &meta.RawTags{Fields: map[string]string{
				"artist":      tt.artist,
				"albumartist": tt.albumArtist,
			}}
			tm := Normalize(raw, "x.mp3", "Folder", false)
			if !strPtrEqual(tm.Artist, tt.wantArtist) {
				t.Errorf("Artist = %v, want %v", fmtStrPtr(tm.Artist), fmtStrPtr(tt.wantArtist))
			}
			if !strPtrEqual(tm.AlbumArtist, tt.wantAlbumArtist) {
				t.Errorf("AlbumArtist = %v, want %v", fmtStrPtr(tm.AlbumArtist), fmtStrPtr(tt.wantAlbumArtist))
			}
		})
	}
}

func TestNormalizeAlbumFallback(t *testing.T) {
	raw := &meta.RawTags{Fields: map[string]string{}}

	tm := Normalize(raw, "x.mp3", "Some Album Folder", false)
	if tm.Album == nil || *tm.Album != "Some Album Folder" {
		t.Errorf("album = %v, want folder name", fmtStrPtr(tm.Album))
	}

	// the music root itself never names an album
	tm = Normalize(raw, "x.mp3", "Music", true)
	if tm.Album != nil {
		t.Errorf("album = %v, want nil for file directly in root", fmtStrPtr(tm.Album))
	}

	raw.Fields["album"] = "Tagged Album"
	tm = Normalize(raw, "x.mp3", "Some Album Folder", false)
	if tm.Album == nil || *tm.Album != "Tagged Album" {
		t.Errorf("album = %v, want tag value", fmtStrPtr(tm.Album))
	}
}

func TestNormalizeOrdinalsAndYear(t *testing.T) {
	raw := &meta.RawTags{Fields: map[string]string{
		"tracknumber": "4/11",
		"discnumber":  "2",
		"date":        "1987-06-01",
	}}
	tm := Normalize(raw, "x.mp3", "F", false)
	if tm.Number == nil || *tm.Number != 4 {
		t.Errorf("Number = %v, want 4", fmtIntPtr(tm.Number))
	}
	if tm.Disk != 2 {
		t.Errorf("Disk = %d, want 2", tm.Disk)
	}
	if tm.Year == nil || *tm.Year != 1987 {
		t.Errorf("Year = %v, want 1987", fmtIntPtr(tm.Year))
	}

	// disc defaults to 1
	tm = Normalize(&meta.RawTags{Fields: map[string]string{}}, "x.mp3", "F", false)
	if tm.Disk != 1 {
		t.Errorf("Disk = %d, want default 1", tm.Disk)
	}
}

func TestNormalizeUnicodeComposition(t *testing.T) {
	// "é" written decomposed (e + combining acute) must match the composed form
	raw := &meta.RawTags{Fields: map[string]string{"artist": "Béla"}}
	tm := Normalize(raw, "x.mp3", "F", false)
	if tm.Artist == nil || *tm.Artist != "Béla" {
		t.Errorf("Artist = %v, want composed form", fmtStrPtr(tm.Artist))
	}
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtIntPtr(p *int) interface{} {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func fmtStrPtr(p *string) interface{} {
	if p == nil {
		return "<nil>"
	}
	return *p
}
