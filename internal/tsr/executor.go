package tsr

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoRecords is returned when a batch is started with nothing to copy.
var ErrNoRecords = errors.New("no files to copy")

// CopyError identifies the record whose copy aborted a batch.
type CopyError struct {
	Name string // original name of the failing record
	Err  error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copying %s: %v", e.Name, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// Outcome summarizes a copy phase. A cancelled phase is not an error: the
// files copied before cancellation stay in place and Completed counts them.
type Outcome struct {
	BatchID     string
	Destination string
	Total       int
	Completed   int
	Bytes       int64
	Cancelled   bool
}

// Executor copies sequenced records into a destination.
type Executor struct {
	fsmgr  FilesystemManager
	logger Logger
}

// NewExecutor creates an Executor.
func NewExecutor(fsmgr FilesystemManager, logger Logger) *Executor {
	return &Executor{fsmgr: fsmgr, logger: logger}
}

// Execute copies every record, in order, to dest under its ComputedName.
// Sources are only read. ctx is checked before each file; once it is done
// the batch stops and the outcome is returned with Cancelled set and a nil
// error. The first failing copy aborts the batch with a *CopyError.
// onProgress may be nil.
//
// An empty batch is not an error condition for the user; it returns
// ErrNoRecords without preparing dest so callers can treat it as a no-op.
// Callers that want to stay quiet check len(records) before calling.
func (e *Executor) Execute(ctx context.Context, records []*FileRecord, dest Destination, onProgress Progress) (*Outcome, error) {
	outcome := &Outcome{Destination: dest.Location(), Total: len(records)}
	if len(records) == 0 {
		return outcome, ErrNoRecords
	}

	if err := dest.Prepare(); err != nil {
		return outcome, fmt.Errorf("creating destination %s: %w", dest.Location(), err)
	}

	for _, rec := range records {
		if ctx.Err() != nil {
			outcome.Cancelled = true
			e.logger.Warn("copy cancelled", "completed", outcome.Completed, "total", outcome.Total)
			return outcome, nil
		}

		size, err := e.copyOne(rec, dest)
		if err != nil {
			rec.Err = err
			e.logger.Error("copy failed", "path", rec.SourcePath, "name", rec.ComputedName, "error", err)
			return outcome, &CopyError{Name: rec.OriginalName, Err: err}
		}

		outcome.Completed++
		outcome.Bytes += size
		e.logger.Debug("file copied", "path", rec.SourcePath, "name", rec.ComputedName)

		if onProgress != nil {
			onProgress(outcome.Completed, outcome.Total)
		}
	}

	e.logger.Info("copy complete", "destination", outcome.Destination, "count", outcome.Completed)
	return outcome, nil
}

func (e *Executor) copyOne(rec *FileRecord, dest Destination) (int64, error) {
	if rec.ComputedName == "" {
		return 0, errors.New("no output name assigned")
	}

	// Re-resolve rather than trusting scan-time stat data: the file may
	// have changed or vanished since.
	path, err := e.fsmgr.Resolve(rec.SourcePath)
	if err != nil {
		return 0, err
	}
	if path.IsDir() {
		return 0, fmt.Errorf("source is a directory: %s", path.String())
	}
	info := path.Info()

	stat, err := e.fsmgr.ExtractStatData(info)
	if err != nil {
		return 0, fmt.Errorf("extracting stat data: %w", err)
	}

	r, err := e.fsmgr.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening source: %w", err)
	}
	defer r.Close()

	meta := FileMeta{
		Mode:    info.Mode().Perm(),
		ModTime: info.ModTime(),
		Atime:   stat.Atime,
	}
	if err := dest.Put(rec.ComputedName, r, info.Size(), meta); err != nil {
		return 0, err
	}
	return info.Size(), nil
}
