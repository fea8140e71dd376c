package fs

import (
	"testing"
)

func TestNewIgnoreMatcher(t *testing.T) {
	t.Run("skips blank lines and comments", func(t *testing.T) {
		t.Parallel()
		m, err := NewIgnoreMatcher([]string{"", "  ", "# comment", "*.log"})
		if err != nil {
			t.Fatalf("NewIgnoreMatcher() error = %v", err)
		}
		want := len(DefaultIgnorePatterns) + 1
		if len(m.Patterns()) != want {
			t.Fatalf("expected %d patterns, got %d", want, len(m.Patterns()))
		}
		if got := m.Patterns()[want-1]; got != "*.log" {
			t.Errorf("expected *.log, got %s", got)
		}
	})

	t.Run("rejects bad pattern", func(t *testing.T) {
		t.Parallel()
		if _, err := NewIgnoreMatcher([]string{"[abc"}); err == nil {
			t.Error("expected error for unterminated class")
		}
	})
}

func TestIgnoreMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		base     string
		want     bool
	}{
		{
			name: "output directory is denylisted",
			base: "changed",
			want: true,
		},
		{
			name: "windows thumbnail cache",
			base: "Thumbs.db",
			want: true,
		},
		{
			name: "macOS sidecar",
			base: ".DS_Store",
			want: true,
		},
		{
			name: "ordinary photo is kept",
			base: "IMG_0001.jpg",
			want: false,
		},
		{
			name: "denylist is exact, not substring",
			base: "changed.jpg",
			want: false,
		},
		{
			name:     "extra glob matches",
			patterns: []string{"*.xmp"},
			base:     "IMG_0001.xmp",
			want:     true,
		},
		{
			name:     "extra glob does not match different extension",
			patterns: []string{"*.xmp"},
			base:     "IMG_0001.jpg",
			want:     false,
		},
		{
			name:     "character class",
			patterns: []string{"IMG_[0-9][0-9][0-9][0-9].tmp"},
			base:     "IMG_1234.tmp",
			want:     true,
		},
		{
			name:     "alternatives",
			patterns: []string{"*.{aae,xmp}"},
			base:     "IMG_0001.aae",
			want:     true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := NewIgnoreMatcher(tt.patterns)
			if err != nil {
				t.Fatalf("NewIgnoreMatcher() error = %v", err)
			}
			if got := m.Match(tt.base); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.base, got, tt.want)
			}
		})
	}
}
