package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tsr-go/internal/destination"
	"tsr-go/internal/testutil"
	"tsr-go/internal/tsr"
)

type sessionFixture struct {
	fsmgr   *testutil.MockFilesystemManager
	dest    *destination.MemoryDestination
	session *Session
}

func newSessionFixture(t *testing.T, files int) *sessionFixture {
	t.Helper()
	fsmgr := testutil.NewMockFilesystemManager()
	for i := 1; i <= files; i++ {
		fsmgr.AddFile(fmt.Sprintf("/photos/IMG_202301%02d.jpg", i), []byte(fmt.Sprintf("img-%d", i)))
	}
	svc := tsr.NewTSRService(fsmgr, nil, nil, tsr.NewNopLogger(), testutil.FixedClock(), testutil.NewSequenceIDGenerator("batch"))

	f := &sessionFixture{
		fsmgr: fsmgr,
		dest:  testutil.NewTestDestination(),
	}
	f.session = NewSession(svc, func(*tsr.ScanResult) (tsr.Destination, error) {
		return f.dest, nil
	})
	return f
}

func (f *sessionFixture) scan(t *testing.T) {
	t.Helper()
	p, err := f.session.StartScan(context.Background(), []string{"/photos"}, nil)
	if err != nil {
		t.Fatalf("StartScan() error = %v", err)
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("scan error = %v", err)
	}
}

var defaultOpts = tsr.RenameOptions{Prefix: "A", StartNumber: "0001", IncludeDate: true}

func TestSession_ScanRearrangeExecute(t *testing.T) {
	f := newSessionFixture(t, 3)
	f.scan(t)

	if got := len(f.session.Scan().Records); got != 3 {
		t.Fatalf("Scan() records = %d, want 3", got)
	}

	rows, named, err := f.session.Rearrange(defaultOpts)
	if err != nil || !named {
		t.Fatalf("Rearrange() = named %v, error %v", named, err)
	}
	if rows[0].OriginalName != "IMG_20230101.jpg" || rows[0].ComputedName != "20230101_A_0001.jpg" {
		t.Errorf("Rearrange()[0] = %+v", rows[0])
	}

	p, err := f.session.StartExecute(context.Background(), nil)
	if err != nil {
		t.Fatalf("StartExecute() error = %v", err)
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("execute error = %v", err)
	}
	outcome := p.Outcome()
	if outcome == nil || outcome.Completed != 3 {
		t.Fatalf("Outcome() = %+v, want 3 completed", outcome)
	}
	if _, ok := f.dest.Get("20230103_A_0003.jpg"); !ok {
		t.Error("20230103_A_0003.jpg not copied")
	}
}

func TestSession_RearrangeBeforeScan(t *testing.T) {
	f := newSessionFixture(t, 1)
	rows, named, err := f.session.Rearrange(defaultOpts)
	if err != nil || named || rows != nil {
		t.Errorf("Rearrange() = %v, %v, %v; want nil, false, nil", rows, named, err)
	}
}

func TestSession_RearrangeInvalidStart(t *testing.T) {
	f := newSessionFixture(t, 2)
	f.scan(t)

	if _, _, err := f.session.Rearrange(defaultOpts); err != nil {
		t.Fatalf("Rearrange() error = %v", err)
	}
	opts := defaultOpts
	opts.StartNumber = "abc"
	rows, named, err := f.session.Rearrange(opts)
	if err != nil {
		t.Fatalf("Rearrange() error = %v", err)
	}
	if named {
		t.Error("Rearrange() named = true, want false")
	}
	if rows[1].ComputedName != "20230102_A_0002.jpg" {
		t.Errorf("previous name not kept: %q", rows[1].ComputedName)
	}

	if _, err := f.session.StartExecute(context.Background(), nil); err == nil {
		t.Error("StartExecute() error = nil with unnamed records")
	}
}

func TestSession_ExecuteBeforeArrange(t *testing.T) {
	f := newSessionFixture(t, 1)
	if _, err := f.session.StartExecute(context.Background(), nil); !errors.Is(err, tsr.ErrNoRecords) {
		t.Errorf("StartExecute() error = %v, want ErrNoRecords", err)
	}

	f.scan(t)
	if _, err := f.session.StartExecute(context.Background(), nil); !errors.Is(err, tsr.ErrNoRecords) {
		t.Errorf("StartExecute() after scan error = %v, want ErrNoRecords", err)
	}
}

func TestSession_RescanDiscardsArrangement(t *testing.T) {
	f := newSessionFixture(t, 1)
	f.scan(t)
	if _, _, err := f.session.Rearrange(defaultOpts); err != nil {
		t.Fatalf("Rearrange() error = %v", err)
	}
	f.scan(t)
	if _, err := f.session.StartExecute(context.Background(), nil); !errors.Is(err, tsr.ErrNoRecords) {
		t.Errorf("StartExecute() error = %v, want ErrNoRecords after rescan", err)
	}
}

func TestSession_SinglePhase(t *testing.T) {
	f := newSessionFixture(t, 5)
	f.scan(t)
	if _, _, err := f.session.Rearrange(defaultOpts); err != nil {
		t.Fatalf("Rearrange() error = %v", err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	p, err := f.session.StartExecute(context.Background(), func(done, _ int) {
		if done == 1 {
			close(started)
			<-release
		}
	})
	if err != nil {
		t.Fatalf("StartExecute() error = %v", err)
	}
	<-started

	if _, err := f.session.StartScan(context.Background(), []string{"/photos"}, nil); !errors.Is(err, ErrPhaseActive) {
		t.Errorf("StartScan() error = %v, want ErrPhaseActive", err)
	}
	if _, _, err := f.session.Rearrange(defaultOpts); !errors.Is(err, ErrPhaseActive) {
		t.Errorf("Rearrange() error = %v, want ErrPhaseActive", err)
	}
	if p.Outcome() != nil {
		t.Error("Outcome() non-nil while running")
	}

	close(release)
	if err := p.Wait(); err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if _, _, err := f.session.Rearrange(defaultOpts); err != nil {
		t.Errorf("Rearrange() after phase error = %v", err)
	}
}

func TestSession_CancelExecute(t *testing.T) {
	f := newSessionFixture(t, 10)
	f.scan(t)
	if _, _, err := f.session.Rearrange(defaultOpts); err != nil {
		t.Fatalf("Rearrange() error = %v", err)
	}

	var p *Phase
	ready := make(chan struct{})
	p, err := f.session.StartExecute(context.Background(), func(done, _ int) {
		<-ready
		if done == 4 {
			p.Cancel()
		}
	})
	if err != nil {
		t.Fatalf("StartExecute() error = %v", err)
	}
	close(ready)

	if err := p.Wait(); err != nil {
		t.Fatalf("execute error = %v, want nil on cancel", err)
	}
	outcome := p.Outcome()
	if !outcome.Cancelled || outcome.Completed != 4 {
		t.Errorf("Outcome() = %+v, want cancelled after 4", outcome)
	}
	if got := len(f.dest.Names()); got != 4 {
		t.Errorf("destination holds %d files, want 4", got)
	}
}

func TestSession_CancelScan(t *testing.T) {
	f := newSessionFixture(t, 3)
	f.scan(t)

	var p *Phase
	ready := make(chan struct{})
	p, err := f.session.StartScan(context.Background(), []string{"/photos"}, func(done, _ int) {
		<-ready
		if done == 1 {
			p.Cancel()
		}
	})
	if err != nil {
		t.Fatalf("StartScan() error = %v", err)
	}
	close(ready)

	if err := p.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("scan error = %v, want context.Canceled", err)
	}
	if got := len(f.session.Scan().Records); got != 3 {
		t.Errorf("cancelled scan replaced records: %d", got)
	}
}
