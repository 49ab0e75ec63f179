package scan

import "testing"

func TestMatcherExcluded(t *testing.T) {
	m, err := NewMatcher([]string{"private/**", "*.tmp", "**/demo?.mp3"})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"private/song.mp3", true},
		{"private/deep/nested/song.mp3", true},
		{"scratch.tmp", true},
		{"music/scratch.tmp", false}, // * does not cross separators
		{"music/demo1.mp3", true},
		{"demo1.mp3", true},
		{"music/demo12.mp3", false}, // ? matches exactly one char
		{"music/song.mp3", false},
	}

	for _, tt := range tests {
		if got := m.Excluded(tt.path); got != tt.want {
			t.Errorf("Excluded(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestMatcherEmpty(t *testing.T) {
	m, err := NewMatcher(nil)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if m.Excluded("anything/at/all.mp3") {
		t.Error("empty matcher must exclude nothing")
	}
}

func TestMatcherInvalidPattern(t *testing.T) {
	if _, err := NewMatcher([]string{"[unclosed"}); err == nil {
		t.Error("expected an error for an invalid pattern")
	}
}
