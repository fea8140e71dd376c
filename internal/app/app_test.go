package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tsr-go/internal/config"
	"tsr-go/internal/tsr"
)

func newTestApp(t *testing.T, cfg *config.Config) *TSRApp {
	t.Helper()
	a, err := NewTSRApp(cfg, "run", []string{"test"}, Options{Console: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("NewTSRApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestTSRApp_RunOnDisk(t *testing.T) {
	root := t.TempDir()
	photos := filepath.Join(root, "photos")
	if err := os.MkdirAll(photos, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{
		"IMG_20230115_001.jpg": "a",
		"scan_202212.png":      "b",
		"Thumbs.db":            "c",
	} {
		if err := os.WriteFile(filepath.Join(photos, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	base := t.TempDir()
	cfg := config.NewConfig(base)
	cfg.LogDir = filepath.Join(base, "log")
	cfg.Database.Type = "sqlite"
	a := newTestApp(t, cfg)

	ctx := context.Background()
	s := a.NewSession()
	p, err := s.StartScan(ctx, []string{photos}, nil)
	if err != nil {
		t.Fatalf("StartScan() error = %v", err)
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("scan error = %v", err)
	}
	if n := len(s.Scan().Records); n != 2 {
		t.Fatalf("scan records = %d, want 2", n)
	}

	opts, err := a.RenameOptions()
	if err != nil {
		t.Fatalf("RenameOptions() error = %v", err)
	}
	if _, named, err := s.Rearrange(opts); err != nil || !named {
		t.Fatalf("Rearrange() = %v, %v", named, err)
	}

	p, err = s.StartExecute(ctx, nil)
	if err != nil {
		t.Fatalf("StartExecute() error = %v", err)
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if outcome := p.Outcome(); outcome.Completed != 2 {
		t.Errorf("Completed = %d, want 2", outcome.Completed)
	}
	if a.op.Status != "success" {
		t.Errorf("operation status = %q, want success", a.op.Status)
	}

	out := filepath.Join(photos, "changed")
	for _, name := range []string{"202212_A_0001.png", "20230115_A_0002.jpg"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(photos, "IMG_20230115_001.jpg")); err != nil {
		t.Errorf("source removed: %v", err)
	}

	batches, err := a.History(0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(batches) != 1 || batches[0].Status != tsr.BatchSuccess {
		t.Errorf("History() = %+v", batches)
	}

	if _, err := os.Stat(filepath.Join(cfg.LogDir, "tsr.log")); err != nil {
		t.Errorf("log file missing: %v", err)
	}

	// a rescan must not pick up the output directory
	rescan, err := a.Scan(ctx, []string{photos}, nil)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(rescan.Records) != 2 {
		t.Errorf("rescan records = %d, want 2", len(rescan.Records))
	}
}

func TestTSRApp_RenameOptionsBadSortMode(t *testing.T) {
	cfg := config.NewConfig(t.TempDir())
	cfg.Rename.SortMode = "size"
	a := newTestApp(t, cfg)

	if _, err := a.RenameOptions(); err == nil {
		t.Error("RenameOptions() error = nil, want error")
	}
}

func TestTSRApp_BadIgnorePattern(t *testing.T) {
	cfg := config.NewConfig(t.TempDir())
	cfg.Filesystem.Ignore = []string{"[unclosed"}

	if _, err := NewTSRApp(cfg, "run", nil, Options{Console: &bytes.Buffer{}}); err == nil {
		t.Error("NewTSRApp() error = nil, want error")
	}
}

func TestTSRApp_Session(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "20240301.jpg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := config.NewConfig(t.TempDir())
	cfg.Destination.Type = "memory"
	a := newTestApp(t, cfg)

	s := a.NewSession()
	p, err := s.StartScan(context.Background(), []string{root}, nil)
	if err != nil {
		t.Fatalf("StartScan() error = %v", err)
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("scan error = %v", err)
	}
	opts, _ := a.RenameOptions()
	if _, named, err := s.Rearrange(opts); err != nil || !named {
		t.Fatalf("Rearrange() = %v, %v", named, err)
	}
	p, err = s.StartExecute(context.Background(), nil)
	if err != nil {
		t.Fatalf("StartExecute() error = %v", err)
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if p.Outcome().Destination != filepath.Join(root, "changed") {
		t.Errorf("Destination = %q", p.Outcome().Destination)
	}
	if _, err := os.Stat(filepath.Join(root, "changed")); !os.IsNotExist(err) {
		t.Errorf("memory destination touched disk: %v", err)
	}
}

func TestTSRApp_SessionFailureMarksOperation(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.jpg", "changed"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	a := newTestApp(t, config.NewConfig(t.TempDir()))
	s := a.NewSession()

	// a cancelled scan is not a failure
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, err := s.StartScan(ctx, []string{root}, nil)
	if err != nil {
		t.Fatalf("StartScan() error = %v", err)
	}
	if err := p.Wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("scan error = %v, want context.Canceled", err)
	}
	if a.op.Status != "success" {
		t.Errorf("after cancel status = %q, want success", a.op.Status)
	}

	p, err = s.StartScan(context.Background(), []string{root}, nil)
	if err != nil {
		t.Fatalf("StartScan() error = %v", err)
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("scan error = %v", err)
	}
	opts, _ := a.RenameOptions()
	if _, named, err := s.Rearrange(opts); err != nil || !named {
		t.Fatalf("Rearrange() = %v, %v", named, err)
	}

	// the output directory path is taken by a regular file
	p, err = s.StartExecute(context.Background(), nil)
	if err != nil {
		t.Fatalf("StartExecute() error = %v", err)
	}
	if err := p.Wait(); err == nil {
		t.Fatal("execute error = nil, want destination error")
	}
	if a.op.Status != "error" {
		t.Errorf("operation status = %q, want error", a.op.Status)
	}
}
