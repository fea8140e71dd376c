package tsr

import (
	"context"
	"errors"
	"fmt"
)

// TSRService is the orchestration layer that coordinates scanning, naming
// and copying for the CLI.
type TSRService struct {
	scanner  *Scanner
	executor *Executor
	journal  Journal
	logger   Logger
	clock    Clock
	idgen    IDGenerator
}

// NewTSRService creates a new TSRService with the provided dependencies.
// meta may be nil to disable embedded metadata. journal may be nil when no
// history is kept.
func NewTSRService(fsmgr FilesystemManager, meta MetadataReader, journal Journal, logger Logger, clock Clock, idgen IDGenerator) *TSRService {
	if journal == nil {
		journal = NopJournal{}
	}
	return &TSRService{
		scanner:  NewScanner(fsmgr, NewResolver(fsmgr, meta, logger), logger),
		executor: NewExecutor(fsmgr, logger),
		journal:  journal,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
	}
}

// Scan discovers and resolves the files under roots.
func (s *TSRService) Scan(ctx context.Context, roots []string, onProgress Progress) (*ScanResult, error) {
	return s.scanner.Scan(ctx, roots, onProgress)
}

// Arrange orders records and assigns their output names.
func (s *TSRService) Arrange(records []*FileRecord, opts RenameOptions) ([]*FileRecord, bool) {
	return Arrange(records, opts)
}

// Execute copies the arranged records into dest and records the batch in the
// journal, whatever its outcome. A journal failure is logged but does not
// change the result of the copy. An empty batch returns ErrNoRecords and is
// not journaled.
func (s *TSRService) Execute(ctx context.Context, records []*FileRecord, dest Destination, onProgress Progress) (*Outcome, error) {
	batch := &Batch{
		ID:        s.idgen.New(),
		StartedAt: s.clock.Now(),
	}
	s.logger.Info("batch started", "batch", batch.ID, "destination", dest.Location(), "total", len(records))

	outcome, err := s.executor.Execute(ctx, records, dest, onProgress)
	outcome.BatchID = batch.ID
	if errors.Is(err, ErrNoRecords) {
		return outcome, err
	}

	batch.FinishedAt = s.clock.Now()
	batch.Destination = outcome.Destination
	batch.Total = outcome.Total
	batch.Completed = outcome.Completed
	batch.Bytes = outcome.Bytes
	switch {
	case err != nil:
		batch.Status = BatchError
		batch.Error = err.Error()
	case outcome.Cancelled:
		batch.Status = BatchCancelled
	default:
		batch.Status = BatchSuccess
	}
	for i, rec := range records[:outcome.Completed] {
		batch.Items = append(batch.Items, BatchItem{
			Seq:          i + 1,
			SourcePath:   rec.SourcePath,
			ComputedName: rec.ComputedName,
		})
	}

	if jerr := s.journal.RecordBatch(batch); jerr != nil {
		s.logger.Error("recording batch failed", "batch", batch.ID, "error", jerr)
	}
	s.logger.Info("batch finished", "batch", batch.ID, "status", string(batch.Status), "completed", batch.Completed)
	return outcome, err
}

// History returns up to limit recorded batches, newest first.
func (s *TSRService) History(limit int) ([]*Batch, error) {
	batches, err := s.journal.ListBatches(limit)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	return batches, nil
}
