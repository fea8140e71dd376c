package testutil

import (
	"io"

	"tsr-go/internal/tsr"
)

// StaticMetadataReader maps file content to a capture date. Files whose
// content has no entry carry no metadata.
type StaticMetadataReader struct {
	dates map[string]string
}

// NewStaticMetadataReader creates a reader with no entries.
func NewStaticMetadataReader() *StaticMetadataReader {
	return &StaticMetadataReader{dates: make(map[string]string)}
}

// Set makes content report raw as its capture date.
func (s *StaticMetadataReader) Set(content, raw string) {
	s.dates[content] = raw
}

func (s *StaticMetadataReader) CaptureTime(r io.Reader) (string, bool) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", false
	}
	raw, ok := s.dates[string(data)]
	return raw, ok
}

var _ tsr.MetadataReader = (*StaticMetadataReader)(nil)
