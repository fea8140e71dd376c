package tsr

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// Progress receives (completed, total) after each file of a phase.
// It is called on the goroutine running the phase.
type Progress func(completed, total int)

// RootError reports a scan root that could not be read. Scanning continues
// with the remaining roots.
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("scanning %s: %v", e.Root, e.Err)
}

func (e *RootError) Unwrap() error { return e.Err }

// ScanResult holds the records of one scan in discovery order, the roots
// that resolved, and a warning for every root that did not.
type ScanResult struct {
	Records  []*FileRecord
	Roots    []*Path
	Warnings []*RootError
}

// Scanner enumerates candidate files and resolves their timestamps.
type Scanner struct {
	fsmgr    FilesystemManager
	resolver *Resolver
	logger   Logger
}

// NewScanner creates a Scanner.
func NewScanner(fsmgr FilesystemManager, resolver *Resolver, logger Logger) *Scanner {
	return &Scanner{fsmgr: fsmgr, resolver: resolver, logger: logger}
}

// Scan lists the immediate children of every directory root and takes file
// roots as they are, skipping denylisted names, then resolves each file.
// onProgress may be nil. The only error returned is ctx's.
func (s *Scanner) Scan(ctx context.Context, roots []string, onProgress Progress) (*ScanResult, error) {
	result := &ScanResult{}
	var files []*Path

	for _, raw := range roots {
		root, err := s.fsmgr.Resolve(raw)
		if err != nil {
			s.warn(result, raw, err)
			continue
		}
		result.Roots = append(result.Roots, root)

		if !root.IsDir() {
			if s.fsmgr.IsIgnored(root.Base()) {
				s.logger.Debug("file ignored", "path", root.String())
				continue
			}
			files = append(files, root)
			continue
		}

		children, err := s.fsmgr.ListFiles(root)
		if err != nil {
			s.warn(result, root.String(), err)
			continue
		}
		for _, child := range children {
			if s.fsmgr.IsIgnored(child.Base()) {
				s.logger.Debug("file ignored", "path", child.String())
				continue
			}
			files = append(files, child)
		}
	}

	total := len(files)
	result.Records = make([]*FileRecord, 0, total)
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sortKey, displayDate := s.resolver.Resolve(f)
		result.Records = append(result.Records, &FileRecord{
			SourcePath:   f.String(),
			OriginalName: f.Base(),
			DisplayDate:  displayDate,
			SortKey:      sortKey,
			ModTime:      f.ModTime(),
			Size:         f.Info().Size(),
		})

		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	s.logger.Info("scan complete", "roots", len(roots), "files", total, "warnings", len(result.Warnings))
	return result, nil
}

func (s *Scanner) warn(result *ScanResult, root string, err error) {
	s.logger.Warn("scan root skipped", "root", root, "error", err)
	result.Warnings = append(result.Warnings, &RootError{Root: root, Err: err})
}

// CommonParent returns the deepest directory containing every root. A
// directory root counts as its own parent; a file root contributes the
// directory it lives in. It returns "" for no roots.
func CommonParent(roots []*Path) string {
	if len(roots) == 0 {
		return ""
	}
	dirs := lo.Map(roots, func(p *Path, _ int) string { return p.Dir() })

	common := dirs[0]
	for _, d := range dirs[1:] {
		for !isWithin(d, common) {
			parent := filepath.Dir(common)
			if parent == common {
				break
			}
			common = parent
		}
	}
	return common
}

// OutputDir returns the output directory for a scan: dirName inside the
// common parent of the roots.
func (r *ScanResult) OutputDir(dirName string) string {
	parent := CommonParent(r.Roots)
	if parent == "" {
		return ""
	}
	return filepath.Join(parent, dirName)
}

func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
