package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tsr-go/internal/tsr"
)

// ErrPhaseActive is returned when a phase is started, or records are
// rearranged, while another phase of the same session is still running.
var ErrPhaseActive = errors.New("another phase is still running")

// DestinationFunc creates the destination for a scan's copies.
type DestinationFunc func(scan *tsr.ScanResult) (tsr.Destination, error)

// Phase is a handle on a background scan or copy.
type Phase struct {
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
	outcome *tsr.Outcome
}

// Cancel requests that the phase stop at the next file boundary.
func (p *Phase) Cancel() { p.cancel() }

// Done is closed when the phase has finished.
func (p *Phase) Done() <-chan struct{} { return p.done }

// Wait blocks until the phase has finished and returns its error.
func (p *Phase) Wait() error {
	<-p.done
	return p.err
}

// Outcome returns the result of a copy phase once it is done. It is nil for
// scan phases and while the phase is running.
func (p *Phase) Outcome() *tsr.Outcome {
	select {
	case <-p.done:
		return p.outcome
	default:
		return nil
	}
}

// Session holds the state a presentation layer works with: the records of
// the last scan and their current arrangement. Scans and copies run in the
// background; only one may run at a time.
type Session struct {
	service *tsr.TSRService
	newDest DestinationFunc
	onError func(error)

	mu       sync.Mutex
	active   *Phase
	scan     *tsr.ScanResult
	arranged []*tsr.FileRecord
	named    bool
}

// NewSession creates an empty Session.
func NewSession(service *tsr.TSRService, newDest DestinationFunc) *Session {
	return &Session{service: service, newDest: newDest}
}

// StartScan scans roots in the background. On success the scan replaces
// the session's records and any previous arrangement is discarded.
// onProgress is called from the background goroutine.
func (s *Session) StartScan(ctx context.Context, roots []string, onProgress tsr.Progress) (*Phase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return nil, ErrPhaseActive
	}
	return s.startLocked(ctx, func(ctx context.Context, p *Phase) error {
		result, err := s.service.Scan(ctx, roots, onProgress)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.scan = result
		s.arranged = nil
		s.named = false
		s.mu.Unlock()
		return nil
	}), nil
}

// Scan returns the last completed scan, or nil.
func (s *Session) Scan() *tsr.ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scan
}

// Rearrange sorts and names the scanned records with opts and returns the
// preview rows. named is false when opts.StartNumber is not a number, in
// which case the rows keep their previous names.
func (s *Session) Rearrange(opts tsr.RenameOptions) (rows []tsr.Preview, named bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return nil, false, ErrPhaseActive
	}
	if s.scan == nil {
		return nil, false, nil
	}
	s.arranged, s.named = s.service.Arrange(s.scan.Records, opts)
	return tsr.PreviewOf(s.arranged), s.named, nil
}

// StartExecute copies the current arrangement in the background. It fails
// if nothing has been scanned and named yet.
func (s *Session) StartExecute(ctx context.Context, onProgress tsr.Progress) (*Phase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return nil, ErrPhaseActive
	}
	if s.scan == nil || len(s.arranged) == 0 {
		return nil, tsr.ErrNoRecords
	}
	if !s.named {
		return nil, fmt.Errorf("records have no output names: start number is not a number")
	}

	dest, err := s.newDest(s.scan)
	if err != nil {
		return nil, fmt.Errorf("creating destination: %w", err)
	}

	records := s.arranged
	return s.startLocked(ctx, func(ctx context.Context, p *Phase) error {
		outcome, err := s.service.Execute(ctx, records, dest, onProgress)
		p.outcome = outcome
		return err
	}), nil
}

// startLocked runs fn on a new goroutine as the active phase. s.mu must be held.
func (s *Session) startLocked(ctx context.Context, fn func(context.Context, *Phase) error) *Phase {
	ctx, cancel := context.WithCancel(ctx)
	p := &Phase{cancel: cancel, done: make(chan struct{})}
	s.active = p

	go func() {
		defer cancel()
		err := fn(ctx, p)
		if err != nil && !errors.Is(err, context.Canceled) && s.onError != nil {
			s.onError(err)
		}

		s.mu.Lock()
		s.active = nil
		s.mu.Unlock()

		p.err = err
		close(p.done)
	}()
	return p
}
