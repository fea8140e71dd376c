package tsr

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// SortMode selects the ordering applied before sequence numbers are assigned.
type SortMode string

const (
	SortByDate SortMode = "date"
	SortByName SortMode = "name"
)

// ParseSortMode converts a user-supplied string into a SortMode.
// The empty string selects SortByDate.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByName:
		return SortByName, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q (want %q or %q)", s, SortByDate, SortByName)
	}
}

// RenameOptions are the user-configured naming settings. They are owned by
// the caller and re-read on every call to Arrange.
type RenameOptions struct {
	Prefix      string
	StartNumber string // numeric start value; its literal length is the zero-pad width
	IncludeDate bool
	SortMode    SortMode
}

// FileRecord is one discovered file.
//
// SourcePath and OriginalName are fixed at discovery. DisplayDate and SortKey
// are set once by the resolver. ComputedName is rewritten by every Arrange
// call. Err is only ever set by the executor to note the item that failed.
type FileRecord struct {
	SourcePath   string
	OriginalName string
	DisplayDate  string // YYYYMMDD, YYYYMM or empty
	SortKey      string
	ComputedName string

	ModTime time.Time
	Size    int64

	Err error
}

// Preview is one row of the rename preview shown to the user.
type Preview struct {
	OriginalName string
	ComputedName string
}

// PreviewOf returns the (original, computed) pairs of records in order.
func PreviewOf(records []*FileRecord) []Preview {
	return lo.Map(records, func(r *FileRecord, _ int) Preview {
		return Preview{OriginalName: r.OriginalName, ComputedName: r.ComputedName}
	})
}
