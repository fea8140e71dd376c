package database

import (
	"context"
	"database/sql"
	"fmt"

	"tsr-go/internal/database/migrations"
	"tsr-go/internal/tsr"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements the Journal interface using SQLite.
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

// NewSQLiteJournal opens the journal at path, applying any pending
// migrations. path can be a file path or ":memory:" for in-memory database.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db, path: path}, nil
}

// NewSQLiteJournalFromDB wraps an existing database connection.
// The caller is responsible for ensuring the schema is in place.
func NewSQLiteJournalFromDB(db *sql.DB) *SQLiteJournal {
	return &SQLiteJournal{db: db}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The journal has a single writer. For :memory: this also keeps every
	// query on the one connection that holds the data.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// RecordBatch stores a batch and its items in one transaction. Times are
// stored in UTC so that they order correctly as text.
func (s *SQLiteJournal) RecordBatch(batch *tsr.Batch) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batches (id, started_at, finished_at, destination, status, total, completed, bytes, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		batch.ID, batch.StartedAt.UTC(), batch.FinishedAt.UTC(), batch.Destination, string(batch.Status),
		batch.Total, batch.Completed, batch.Bytes, batch.Error)
	if err != nil {
		return fmt.Errorf("inserting batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO batch_items (batch_id, seq, source_path, computed_name)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range batch.Items {
		if _, err := stmt.ExecContext(ctx, batch.ID, item.Seq, item.SourcePath, item.ComputedName); err != nil {
			return fmt.Errorf("inserting batch item %d: %w", item.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// ListBatches returns up to limit batches, newest first, without items.
// A limit of zero or less returns every batch.
func (s *SQLiteJournal) ListBatches(limit int) ([]*tsr.Batch, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT id, started_at, finished_at, destination, status, total, completed, bytes, error
		FROM batches
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	var batches []*tsr.Batch
	for rows.Next() {
		var b tsr.Batch
		var status string
		if err := rows.Scan(&b.ID, &b.StartedAt, &b.FinishedAt, &b.Destination, &status,
			&b.Total, &b.Completed, &b.Bytes, &b.Error); err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}
		b.Status = tsr.BatchStatus(status)
		batches = append(batches, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	return batches, nil
}

// BatchItems returns the items recorded for a batch in sequence order.
func (s *SQLiteJournal) BatchItems(batchID string) ([]tsr.BatchItem, error) {
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT seq, source_path, computed_name
		FROM batch_items
		WHERE batch_id = ?
		ORDER BY seq`, batchID)
	if err != nil {
		return nil, fmt.Errorf("listing batch items: %w", err)
	}
	defer rows.Close()

	var items []tsr.BatchItem
	for rows.Next() {
		var item tsr.BatchItem
		if err := rows.Scan(&item.Seq, &item.SourcePath, &item.ComputedName); err != nil {
			return nil, fmt.Errorf("scanning batch item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing batch items: %w", err)
	}
	return items, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteJournal) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteJournal) CheckMigrations() error {
	return migrations.Check(s.db)
}

// Close closes the database connection.
func (s *SQLiteJournal) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteJournal implements tsr.Journal interface
var _ tsr.Journal = (*SQLiteJournal)(nil)
