package tsr

import (
	"io"
	"io/fs"
	"time"
)

// FileMeta is the source metadata carried over to a copied file.
type FileMeta struct {
	Mode    fs.FileMode
	ModTime time.Time
	Atime   time.Time
}

// Destination receives the renamed copies of a batch.
// All operations use io.Reader for streaming so large files are never
// loaded entirely into memory.
type Destination interface {
	// Prepare creates the destination if it does not exist yet.
	// Calling it on an existing destination is a no-op.
	Prepare() error

	// Put stores size bytes read from r under name, replacing any existing
	// entry, and applies meta to the stored copy.
	Put(name string, r io.Reader, size int64, meta FileMeta) error

	// Location describes where the copies end up (a directory for
	// filesystem destinations).
	Location() string
}
