package destination

import (
	"strings"
	"testing"
	"time"

	"tsr-go/internal/tsr"
)

func TestMemoryDestination(t *testing.T) {
	t.Run("put requires prepare", func(t *testing.T) {
		m := NewMemoryDestination("mem")
		if err := m.Put("a.jpg", strings.NewReader("a"), 1, tsr.FileMeta{}); err == nil {
			t.Error("expected error before Prepare")
		}
	})

	t.Run("stores content and meta", func(t *testing.T) {
		m := NewMemoryDestination("mem")
		if err := m.Prepare(); err != nil {
			t.Fatal(err)
		}
		mtime := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
		if err := m.Put("b.jpg", strings.NewReader("bb"), 2, tsr.FileMeta{ModTime: mtime}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := m.Put("a.jpg", strings.NewReader("a"), 1, tsr.FileMeta{}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		data, ok := m.Get("b.jpg")
		if !ok || string(data) != "bb" {
			t.Errorf("Get(b.jpg) = %q, %v", data, ok)
		}
		meta, ok := m.Meta("b.jpg")
		if !ok || !meta.ModTime.Equal(mtime) {
			t.Errorf("Meta(b.jpg) = %+v, %v", meta, ok)
		}
		names := m.Names()
		if len(names) != 2 || names[0] != "a.jpg" || names[1] != "b.jpg" {
			t.Errorf("Names() = %v", names)
		}
	})

	t.Run("size mismatch", func(t *testing.T) {
		m := NewMemoryDestination("mem")
		if err := m.Prepare(); err != nil {
			t.Fatal(err)
		}
		if err := m.Put("a.jpg", strings.NewReader("abc"), 1, tsr.FileMeta{}); err == nil {
			t.Error("expected size mismatch error")
		}
		if _, ok := m.Get("a.jpg"); ok {
			t.Error("file stored despite size mismatch")
		}
	})
}
