package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"tsr-go/internal/config"
	"tsr-go/internal/database"
	"tsr-go/internal/destination"
	"tsr-go/internal/fs"
	"tsr-go/internal/metadata"
	"tsr-go/internal/tsr"
)

// Options control how the app reports to the user.
type Options struct {
	Console io.Writer // console log output, os.Stderr when nil
	Verbose bool
}

// TSRApp is the application layer between the CLI and TSRService.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and releases resources on Close.
type TSRApp struct {
	cfg     *config.Config
	journal tsr.Journal
	service *tsr.TSRService
	op      *Operation
	logger  tsr.Logger
	logFile *os.File
}

// NewTSRApp creates a fully wired TSRApp from the given config.
// command identifies the CLI command being run (e.g. "preview", "run").
// The caller must call Close when done.
func NewTSRApp(cfg *config.Config, command string, args []string, opts Options) (*TSRApp, error) {
	ignore, err := fs.NewIgnoreMatcher(append([]string{cfg.Filesystem.OutputDirName}, cfg.Filesystem.Ignore...))
	if err != nil {
		return nil, fmt.Errorf("creating ignore matcher: %w", err)
	}
	fsmgr := fs.NewOSFilesystemManager(ignore)

	journal, err := database.NewJournalFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}

	clock := tsr.RealClock{}
	op := NewOperation(command, args, clock.Now())

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	slogger, logFile, err := newLogger(cfg.LogDir, op.ID, console, opts.Verbose)
	if err != nil {
		journal.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	meta := metadata.NewEXIFReader(logger)
	svc := tsr.NewTSRService(fsmgr, meta, journal, logger, clock, tsr.UUIDGenerator{})

	logger.Debug("operation started", "command", op.Command, "args", op.Parameters)

	return &TSRApp{
		cfg:     cfg,
		journal: journal,
		service: svc,
		op:      op,
		logger:  logger,
		logFile: logFile,
	}, nil
}

// RenameOptions returns the naming options from config.
func (a *TSRApp) RenameOptions() (tsr.RenameOptions, error) {
	mode, err := tsr.ParseSortMode(a.cfg.Rename.SortMode)
	if err != nil {
		return tsr.RenameOptions{}, err
	}
	return tsr.RenameOptions{
		Prefix:      a.cfg.Rename.Prefix,
		StartNumber: a.cfg.Rename.StartNumber,
		IncludeDate: a.cfg.Rename.IncludeDate,
		SortMode:    mode,
	}, nil
}

// Scan discovers and resolves the files under the given raw paths.
func (a *TSRApp) Scan(ctx context.Context, roots []string, onProgress tsr.Progress) (*tsr.ScanResult, error) {
	result, err := a.service.Scan(ctx, roots, onProgress)
	if err != nil {
		a.op.Fail()
		return nil, err
	}
	return result, nil
}

// Arrange orders records and assigns their output names.
func (a *TSRApp) Arrange(records []*tsr.FileRecord, opts tsr.RenameOptions) ([]*tsr.FileRecord, bool) {
	return a.service.Arrange(records, opts)
}

// OutputDir returns where a scan's copies are written.
func (a *TSRApp) OutputDir(scan *tsr.ScanResult) string {
	return scan.OutputDir(a.cfg.Filesystem.OutputDirName)
}

// NewDestination creates the configured destination for a scan.
func (a *TSRApp) NewDestination(scan *tsr.ScanResult) (tsr.Destination, error) {
	dir := a.OutputDir(scan)
	if dir == "" {
		return nil, tsr.ErrNoRecords
	}
	return destination.NewDestinationFromConfig(a.cfg.Destination, dir)
}

// History returns the most recent batches.
func (a *TSRApp) History(limit int) ([]*tsr.Batch, error) {
	return a.service.History(limit)
}

// NewSession creates a Session backed by this app. A phase that fails, other
// than by being cancelled, marks the operation as failed.
func (a *TSRApp) NewSession() *Session {
	s := NewSession(a.service, a.NewDestination)
	s.onError = func(err error) {
		a.logger.Debug("phase failed", "command", a.op.Command, "error", err)
		a.op.Fail()
	}
	return s
}

// Close finalizes the operation and closes all resources.
func (a *TSRApp) Close() error {
	var firstErr error

	a.logger.Debug("operation finished", "command", a.op.Command, "status", a.op.Status)

	if err := a.journal.Close(); err != nil {
		firstErr = fmt.Errorf("closing journal: %w", err)
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}

	return firstErr
}
