package database

import (
	"fmt"
	"os"
	"path/filepath"

	"tsr-go/internal/config"
	"tsr-go/internal/tsr"
)

// JournalFile is the journal's file name inside data_dir.
const JournalFile = "journal.db"

// NewJournalFromConfig creates a Journal implementation based on the database config type.
func NewJournalFromConfig(cfg config.DatabaseConfig) (tsr.Journal, error) {
	switch cfg.Type {
	case "", "none":
		return tsr.NopJournal{}, nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data_dir: %w", err)
		}
		return openJournal(filepath.Join(cfg.DataDir, JournalFile))
	case "memory":
		return openJournal(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

func openJournal(path string) (tsr.Journal, error) {
	j, err := NewSQLiteJournal(path)
	if err != nil {
		return nil, err
	}
	return j, nil
}
