package fs

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultIgnorePatterns are always applied regardless of config: the
// pipeline's own output directory and common OS sidecar files.
var DefaultIgnorePatterns = []string{"changed", "Thumbs.db", ".DS_Store", "desktop.ini"}

// IgnoreMatcher checks base names against a set of glob patterns.
type IgnoreMatcher struct {
	patterns []string
	globs    []glob.Glob
}

// NewIgnoreMatcher creates an IgnoreMatcher from the default patterns plus
// the given extra ones. Blank entries and entries starting with '#' are
// skipped. A pattern that does not compile is an error.
func NewIgnoreMatcher(extra []string) (*IgnoreMatcher, error) {
	m := &IgnoreMatcher{}
	for _, raw := range append(slices.Clone(DefaultIgnorePatterns), extra...) {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		g, err := glob.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling ignore pattern %q: %w", raw, err)
		}
		m.patterns = append(m.patterns, raw)
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// DefaultIgnoreMatcher matches only DefaultIgnorePatterns.
func DefaultIgnoreMatcher() *IgnoreMatcher {
	m, err := NewIgnoreMatcher(nil)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether the given base name should be ignored.
func (m *IgnoreMatcher) Match(name string) bool {
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Patterns returns the active patterns in the order they are tried.
func (m *IgnoreMatcher) Patterns() []string {
	return m.patterns
}
