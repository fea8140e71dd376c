package tsr

import (
	"time"

	"github.com/google/uuid"
)

// BatchStatus is the terminal status of an executed batch.
type BatchStatus string

const (
	BatchSuccess   BatchStatus = "success"
	BatchCancelled BatchStatus = "cancelled"
	BatchError     BatchStatus = "error"
)

// Batch is the journal entry for one copy phase.
type Batch struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Destination string
	Status      BatchStatus
	Total       int
	Completed   int
	Bytes       int64
	Error       string
	Items       []BatchItem
}

// BatchItem records one file copied by a batch.
type BatchItem struct {
	Seq          int
	SourcePath   string
	ComputedName string
}

// Journal records executed batches. It is optional: NopJournal is used when
// no history is kept.
type Journal interface {
	// RecordBatch stores a finished batch together with its items.
	RecordBatch(batch *Batch) error

	// ListBatches returns the most recent batches, newest first, without items.
	ListBatches(limit int) ([]*Batch, error)

	// Close releases the journal's resources.
	Close() error
}

// NopJournal discards every batch.
type NopJournal struct{}

func (NopJournal) RecordBatch(*Batch) error          { return nil }
func (NopJournal) ListBatches(int) ([]*Batch, error) { return nil, nil }
func (NopJournal) Close() error                      { return nil }

var _ Journal = NopJournal{}

// Clock stamps batch start and finish times.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator names batches.
type IDGenerator interface {
	New() string
}

// UUIDGenerator names batches with random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.NewString() }
