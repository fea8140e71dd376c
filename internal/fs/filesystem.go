package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"tsr-go/internal/tsr"
)

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
// It performs actual filesystem operations using the os package.
type OSFilesystemManager struct {
	ignore *IgnoreMatcher
}

// NewOSFilesystemManager creates a new filesystem manager that operates on the
// real filesystem. ignore is applied on top of the default denylist.
func NewOSFilesystemManager(ignore *IgnoreMatcher) *OSFilesystemManager {
	if ignore == nil {
		ignore = DefaultIgnoreMatcher()
	}
	return &OSFilesystemManager{ignore: ignore}
}

// Resolve validates a raw path and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*tsr.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	// Check for special file types we don't support
	mode := info.Mode()
	if mode&os.ModeDevice != 0 {
		return nil, fmt.Errorf("device files not supported: %s", absPath)
	}
	if mode&os.ModeNamedPipe != 0 {
		return nil, fmt.Errorf("named pipes not supported: %s", absPath)
	}
	if mode&os.ModeSocket != 0 {
		return nil, fmt.Errorf("sockets not supported: %s", absPath)
	}

	return tsr.NewPath(absPath, info.IsDir(), info), nil
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path *tsr.Path) (io.ReadCloser, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("cannot open directory as file: %s", path.String())
	}
	return os.Open(path.String())
}

// Stat returns fresh file info for a path.
func (m *OSFilesystemManager) Stat(path *tsr.Path) (fs.FileInfo, error) {
	return os.Stat(path.String())
}

// ListFiles returns the regular files directly inside dir, in name order.
// Symlinks to regular files are followed; everything else is skipped.
func (m *OSFilesystemManager) ListFiles(dir *tsr.Path) ([]*tsr.Path, error) {
	if !dir.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir.String())
	}

	entries, err := os.ReadDir(dir.String())
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var paths []*tsr.Path
	for _, entry := range entries {
		fullPath := filepath.Join(dir.String(), entry.Name())
		switch {
		case entry.Type().IsRegular():
		case entry.Type()&fs.ModeSymlink != 0:
		default:
			continue
		}
		info, err := os.Stat(fullPath)
		if err != nil {
			// dangling symlink or a file removed since ReadDir
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, tsr.NewPath(fullPath, false, info))
	}
	return paths, nil
}

// IsIgnored reports whether a base name is on the denylist.
func (m *OSFilesystemManager) IsIgnored(name string) bool {
	return m.ignore.Match(name)
}

// Compile-time check that OSFilesystemManager implements tsr.FilesystemManager interface
var _ tsr.FilesystemManager = (*OSFilesystemManager)(nil)
