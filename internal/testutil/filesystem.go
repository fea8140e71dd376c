package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	tsrfs "tsr-go/internal/fs"
	"tsr-go/internal/tsr"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
	// Stat data - set once when file is created
	Atime time.Time
}

// MockFilesystemManager is an in-memory filesystem for testing. Paths are
// absolute and use the host separator. Safe for concurrent use.
type MockFilesystemManager struct {
	mu        sync.Mutex
	files     map[string]*MockFile
	ignore    *tsrfs.IgnoreMatcher
	failOpen  map[string]error
	failList  map[string]error
	openCount map[string]int
}

// NewMockFilesystemManager creates a new mock filesystem that ignores the
// default denylist.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:     make(map[string]*MockFile),
		ignore:    tsrfs.DefaultIgnoreMatcher(),
		failOpen:  make(map[string]error),
		failList:  make(map[string]error),
		openCount: make(map[string]int),
	}
}

// DefaultModTime is the modification time of files added with AddFile.
var DefaultModTime = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

// AddFile adds a file to the mock filesystem, creating its parent
// directories.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.AddFileWithTime(path, content, DefaultModTime)
}

// AddFileWithTime adds a file with the given modification time.
func (m *MockFilesystemManager) AddFileWithTime(path string, content []byte, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addParentsLocked(filepath.Dir(path))
	m.files[path] = &MockFile{
		Content:     content,
		Permissions: 0644,
		ModTime:     modTime,
		Atime:       modTime,
	}
}

// AddDirectory adds a directory to the mock filesystem.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addParentsLocked(path)
}

func (m *MockFilesystemManager) addParentsLocked(dir string) {
	for {
		if _, ok := m.files[dir]; ok {
			return
		}
		m.files[dir] = &MockFile{
			Permissions: 0755 | fs.ModeDir,
			ModTime:     DefaultModTime,
			IsDirectory: true,
			Atime:       DefaultModTime,
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// Remove deletes a file, as if it vanished between scan and copy.
func (m *MockFilesystemManager) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
}

// FailOpen makes every Open of path return err.
func (m *MockFilesystemManager) FailOpen(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOpen[path] = err
}

// FailList makes ListFiles of dir return err.
func (m *MockFilesystemManager) FailList(dir string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failList[dir] = err
}

// SetIgnore replaces the denylist.
func (m *MockFilesystemManager) SetIgnore(ignore *tsrfs.IgnoreMatcher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ignore = ignore
}

// OpenCount reports how many times path has been opened.
func (m *MockFilesystemManager) OpenCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openCount[path]
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*tsr.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[absPath]
	if !ok {
		return nil, fmt.Errorf("stat path: %w", fs.ErrNotExist)
	}

	return tsr.NewPath(absPath, file.IsDirectory, newMockFileInfo(absPath, file)), nil
}

func (m *MockFilesystemManager) Open(path *tsr.Path) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failOpen[path.String()]; ok {
		return nil, err
	}
	file, ok := m.files[path.String()]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path.String())
	}
	if file.IsDirectory {
		return nil, fmt.Errorf("cannot open directory: %s", path.String())
	}
	m.openCount[path.String()]++
	return io.NopCloser(bytes.NewReader(file.Content)), nil
}

func (m *MockFilesystemManager) Stat(path *tsr.Path) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[path.String()]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path.String())
	}
	return newMockFileInfo(path.String(), file), nil
}

func (m *MockFilesystemManager) ListFiles(dir *tsr.Path) ([]*tsr.Path, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failList[dir.String()]; ok {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	if !dir.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir.String())
	}

	var names []string
	for p, f := range m.files {
		if f.IsDirectory || filepath.Dir(p) != dir.String() {
			continue
		}
		names = append(names, p)
	}
	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(filepath.Base(a), filepath.Base(b))
	})

	paths := make([]*tsr.Path, 0, len(names))
	for _, p := range names {
		paths = append(paths, tsr.NewPath(p, false, newMockFileInfo(p, m.files[p])))
	}
	return paths, nil
}

func (m *MockFilesystemManager) IsIgnored(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ignore.Match(name)
}

func (m *MockFilesystemManager) ExtractStatData(info fs.FileInfo) (*tsr.StatData, error) {
	// Get the MockFile from Sys() to return consistent stat data
	mockFile, ok := info.Sys().(*MockFile)
	if !ok {
		return nil, fmt.Errorf("cannot extract stat data: expected *MockFile, got %T", info.Sys())
	}
	return &tsr.StatData{Atime: mockFile.Atime}, nil
}

func newMockFileInfo(path string, file *MockFile) *mockFileInfo {
	return &mockFileInfo{
		name:     filepath.Base(path),
		size:     int64(len(file.Content)),
		mode:     file.Permissions,
		modTime:  file.ModTime,
		isDir:    file.IsDirectory,
		mockFile: file,
	}
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name     string
	size     int64
	mode     fs.FileMode
	modTime  time.Time
	isDir    bool
	mockFile *MockFile // reference to get stat data
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return m.mockFile }

// Compile-time check
var _ tsr.FilesystemManager = (*MockFilesystemManager)(nil)
