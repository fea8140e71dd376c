package tsr

import (
	"io/fs"
	"path/filepath"
	"time"
)

// Path is an absolute path checked by FilesystemManager.Resolve, together
// with the stat result taken at that moment. The stat result is never
// refreshed; FilesystemManager.Stat gives current data.
type Path struct {
	abs   string
	isDir bool
	info  fs.FileInfo
}

// NewPath is for FilesystemManager implementations.
func NewPath(absPath string, isDir bool, info fs.FileInfo) *Path {
	return &Path{abs: absPath, isDir: isDir, info: info}
}

func (p *Path) String() string { return p.abs }

// Base is the file name used for ignore matching and filename dates.
func (p *Path) Base() string { return filepath.Base(p.abs) }

func (p *Path) IsDir() bool { return p.isDir }

// Dir returns the path itself for a directory and its parent otherwise.
func (p *Path) Dir() string {
	if p.isDir {
		return p.abs
	}
	return filepath.Dir(p.abs)
}

// Info returns the stat result cached at resolve time.
func (p *Path) Info() fs.FileInfo { return p.info }

// ModTime is shorthand for Info().ModTime().
func (p *Path) ModTime() time.Time { return p.info.ModTime() }
