package destination

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"tsr-go/internal/tsr"
)

// MemoryDestination keeps copies in memory. It is safe for concurrent use.
type MemoryDestination struct {
	location string
	prepared bool
	files    map[string][]byte
	meta     map[string]tsr.FileMeta
	mu       sync.RWMutex
}

// NewMemoryDestination creates an empty in-memory destination.
func NewMemoryDestination(location string) *MemoryDestination {
	return &MemoryDestination{
		location: location,
		files:    make(map[string][]byte),
		meta:     make(map[string]tsr.FileMeta),
	}
}

// Prepare marks the destination as created.
func (m *MemoryDestination) Prepare() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prepared = true
	return nil
}

// Put stores the content of r under name, replacing any existing entry.
func (m *MemoryDestination) Put(name string, r io.Reader, size int64, meta tsr.FileMeta) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.prepared {
		return fmt.Errorf("destination not prepared: %s", m.location)
	}
	m.files[name] = data
	m.meta[name] = meta
	return nil
}

// Location returns the label the destination was created with.
func (m *MemoryDestination) Location() string {
	return m.location
}

// Prepared reports whether Prepare has been called.
func (m *MemoryDestination) Prepared() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prepared
}

// Get returns the stored content for name.
func (m *MemoryDestination) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	return data, ok
}

// Meta returns the metadata stored with name.
func (m *MemoryDestination) Meta(name string) (tsr.FileMeta, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	meta, ok := m.meta[name]
	return meta, ok
}

// Names returns the stored names in sorted order.
func (m *MemoryDestination) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Compile-time check that MemoryDestination implements tsr.Destination interface
var _ tsr.Destination = (*MemoryDestination)(nil)
