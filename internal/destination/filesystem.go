package destination

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tsr-go/internal/tsr"
)

// FileSystemDestination writes renamed copies into a single directory.
type FileSystemDestination struct {
	dir string
}

// NewFileSystemDestination creates a destination rooted at dir. The
// directory is not created until Prepare is called.
func NewFileSystemDestination(dir string) *FileSystemDestination {
	return &FileSystemDestination{dir: dir}
}

// Prepare creates the destination directory if needed.
func (d *FileSystemDestination) Prepare() error {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	info, err := os.Stat(d.dir)
	if err != nil {
		return fmt.Errorf("destination not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("destination is not a directory: %s", d.dir)
	}
	return nil
}

// Put writes r to <dir>/<name>, replacing any existing file, then applies
// the source mode and times to the copy.
func (d *FileSystemDestination) Put(name string, r io.Reader, size int64, meta tsr.FileMeta) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid file name: %q", name)
	}
	destPath := filepath.Join(d.dir, name)

	if err := d.writeFile(destPath, r, size); err != nil {
		return err
	}

	if meta.Mode != 0 {
		if err := os.Chmod(destPath, meta.Mode); err != nil {
			return fmt.Errorf("setting mode: %w", err)
		}
	}
	if !meta.ModTime.IsZero() {
		atime := meta.Atime
		if atime.IsZero() {
			atime = meta.ModTime
		}
		if err := os.Chtimes(destPath, atime, meta.ModTime); err != nil {
			return fmt.Errorf("setting times: %w", err)
		}
	}
	return nil
}

// Location returns the destination directory.
func (d *FileSystemDestination) Location() string {
	return d.dir
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (d *FileSystemDestination) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	// Create temp file in the same directory to ensure atomic rename works
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemDestination implements tsr.Destination interface
var _ tsr.Destination = (*FileSystemDestination)(nil)
