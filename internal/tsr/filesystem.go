package tsr

import (
	"io"
	"io/fs"
	"time"
)

// FilesystemManager provides an interface for filesystem operations.
// It abstracts file access to enable testing without touching the real filesystem.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object.
	// It resolves the path to an absolute path, stats it, and validates
	// it's a regular file or directory (not a symlink, device, etc.).
	Resolve(rawPath string) (*Path, error)

	// Open opens a file for reading.
	Open(path *Path) (io.ReadCloser, error)

	// Stat returns fresh file info for a path.
	// Unlike path.Info() which returns cached info from when the path was resolved,
	// this always fetches current info from the filesystem.
	Stat(path *Path) (fs.FileInfo, error)

	// ListFiles returns the regular files directly inside a directory, in
	// name order. Subdirectories are not descended into.
	ListFiles(dir *Path) ([]*Path, error)

	// IsIgnored reports whether a base name is on the scan denylist.
	IsIgnored(name string) bool

	// ExtractStatData extracts platform-specific stat data from a FileInfo.
	ExtractStatData(info fs.FileInfo) (*StatData, error)
}

// StatData holds the platform-specific stat fields the copy step carries over
// to the destination.
type StatData struct {
	Atime time.Time
}
