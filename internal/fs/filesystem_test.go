package fs

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestOSFilesystemManager_Resolve(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.jpg")
	writeFile(t, file, "data")
	m := NewOSFilesystemManager(nil)

	t.Run("file", func(t *testing.T) {
		p, err := m.Resolve(file)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if p.IsDir() {
			t.Error("expected file, got directory")
		}
		if p.String() != file {
			t.Errorf("String() = %q, want %q", p.String(), file)
		}
		if p.Base() != "a.jpg" {
			t.Errorf("Base() = %q, want a.jpg", p.Base())
		}
	})

	t.Run("directory", func(t *testing.T) {
		p, err := m.Resolve(dir)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !p.IsDir() {
			t.Error("expected directory")
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := m.Resolve(filepath.Join(dir, "nope")); err == nil {
			t.Error("expected error for missing path")
		}
	})
}

func TestOSFilesystemManager_ListFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.jpg"), "b")
	writeFile(t, filepath.Join(dir, "a.jpg"), "a")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "sub", "nested.jpg"), "n")
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "dangling")); err != nil {
		t.Fatal(err)
	}

	m := NewOSFilesystemManager(nil)
	root, err := m.Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	files, err := m.ListFiles(root)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	var names []string
	for _, f := range files {
		names = append(names, f.Base())
	}
	if len(names) != 2 || names[0] != "a.jpg" || names[1] != "b.jpg" {
		t.Errorf("ListFiles() = %v, want [a.jpg b.jpg]", names)
	}
}

func TestOSFilesystemManager_ListFilesOnFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.jpg")
	writeFile(t, file, "a")
	m := NewOSFilesystemManager(nil)
	p, err := m.Resolve(file)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ListFiles(p); err == nil {
		t.Error("expected error listing a file")
	}
}

func TestOSFilesystemManager_Open(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.jpg")
	writeFile(t, file, "hello")
	m := NewOSFilesystemManager(nil)

	p, err := m.Resolve(file)
	if err != nil {
		t.Fatal(err)
	}
	r, err := m.Open(p)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want hello", data)
	}

	d, err := m.Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Open(d); err == nil {
		t.Error("expected error opening a directory")
	}
}

func TestOSFilesystemManager_IsIgnored(t *testing.T) {
	ignore, err := NewIgnoreMatcher([]string{"*.xmp"})
	if err != nil {
		t.Fatal(err)
	}
	m := NewOSFilesystemManager(ignore)
	if !m.IsIgnored("changed") {
		t.Error("expected changed to be ignored")
	}
	if !m.IsIgnored("a.xmp") {
		t.Error("expected a.xmp to be ignored")
	}
	if m.IsIgnored("a.jpg") {
		t.Error("did not expect a.jpg to be ignored")
	}
}

func TestOSFilesystemManager_ExtractStatData(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.jpg")
	writeFile(t, file, "a")
	atime := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	mtime := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
	if err := os.Chtimes(file, atime, mtime); err != nil {
		t.Fatal(err)
	}

	m := NewOSFilesystemManager(nil)
	p, err := m.Resolve(file)
	if err != nil {
		t.Fatal(err)
	}
	stat, err := m.ExtractStatData(p.Info())
	if err != nil {
		t.Fatalf("ExtractStatData() error = %v", err)
	}
	if stat.Atime.IsZero() {
		t.Error("expected non-zero atime")
	}
}
