package meta

import (
	"bytes"
	"testing"
)

func TestExtractUnsupportedFormat(t *testing.T) {
	// not a tag container at all; must come back as an empty mapping, not
	// an error
	raw, err := NewTagReader().Extract(bytes.NewReader([]byte("definitely not audio")))
	if err != nil {
		t.Fatalf("expected no error for an unrecognized format, got %v", err)
	}
	if raw == nil || raw.Fields == nil {
		t.Fatal("expected a non-nil result with an empty mapping")
	}
	if len(raw.Fields) != 0 {
		t.Errorf("expected no fields, got %v", raw.Fields)
	}
	if raw.Picture != nil {
		t.Error("expected no picture")
	}
}

func TestExtractEmptyInput(t *testing.T) {
	raw, err := NewTagReader().Extract(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("expected no error for empty input, got %v", err)
	}
	if len(raw.Fields) != 0 {
		t.Errorf("expected no fields, got %v", raw.Fields)
	}
}

func TestOrdinalValue(t *testing.T) {
	tests := []struct {
		n, total int
		want     string
	}{
		{3, 12, "3/12"},
		{3, 0, "3"},
		{1, 1, "1/1"},
	}
	for _, tt := range tests {
		if got := ordinalValue(tt.n, tt.total); got != tt.want {
			t.Errorf("ordinalValue(%d, %d) = %q, want %q", tt.n, tt.total, got, tt.want)
		}
	}
}
