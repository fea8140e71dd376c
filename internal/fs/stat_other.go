//go:build !linux

package fs

import (
	"io/fs"

	"tsr-go/internal/tsr"
)

// ExtractStatData falls back to the modification time where the access time
// is not exposed in a portable way.
func (m *OSFilesystemManager) ExtractStatData(info fs.FileInfo) (*tsr.StatData, error) {
	return &tsr.StatData{Atime: info.ModTime()}, nil
}
