package tsr

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// nameSeparator joins the date, prefix and sequence parts of a name.
const nameSeparator = "_"

// reservedChars are stripped from the prefix before it goes into a name.
var reservedChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// SanitizePrefix trims surrounding whitespace and removes characters that
// are not allowed in file names.
func SanitizePrefix(prefix string) string {
	return reservedChars.ReplaceAllString(strings.TrimSpace(prefix), "")
}

// Arrange sorts a copy of records according to opts and assigns each record
// its ComputedName. The input slice is left in its original (discovery)
// order, so calling Arrange again with a different sort mode always breaks
// ties the same way.
//
// If opts.StartNumber is not an integer, the records are still sorted but
// their names are left as they were and named is false.
func Arrange(records []*FileRecord, opts RenameOptions) (arranged []*FileRecord, named bool) {
	arranged = slices.Clone(records)
	switch opts.SortMode {
	case SortByName:
		slices.SortStableFunc(arranged, func(a, b *FileRecord) int {
			return strings.Compare(a.OriginalName, b.OriginalName)
		})
	default:
		slices.SortStableFunc(arranged, func(a, b *FileRecord) int {
			return strings.Compare(a.SortKey, b.SortKey)
		})
	}

	start, width, ok := parseStartNumber(opts.StartNumber)
	if !ok {
		return arranged, false
	}

	prefix := SanitizePrefix(opts.Prefix)
	for i, rec := range arranged {
		date := ""
		if opts.IncludeDate {
			date = rec.DisplayDate
		}
		rec.ComputedName = composeName(date, prefix, formatSequence(start+i, width)) + Extension(rec.OriginalName)
	}
	return arranged, true
}

// SampleName renders the name a file dated today would get with opts and
// the start number as typed. It uses "0001" when no start number is set.
func SampleName(opts RenameOptions, today time.Time) string {
	date := ""
	if opts.IncludeDate {
		date = today.Format("20060102")
	}
	num := strings.TrimSpace(opts.StartNumber)
	if num == "" {
		num = "0001"
	}
	return composeName(date, SanitizePrefix(opts.Prefix), num) + ".jpg"
}

// ValidStartNumber reports whether s can seed a sequence.
func ValidStartNumber(s string) bool {
	_, _, ok := parseStartNumber(s)
	return ok
}

// Extension returns the extension of a base name including its leading dot,
// with case preserved. Leading dots do not start an extension, so ".bashrc"
// has none.
func Extension(name string) string {
	return filepath.Ext(strings.TrimLeft(name, "."))
}

func composeName(date, prefix, seq string) string {
	parts := make([]string, 0, 3)
	if date != "" {
		parts = append(parts, date)
	}
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, seq)
	return strings.Join(parts, nameSeparator)
}

func parseStartNumber(s string) (start, width int, ok bool) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, 0, false
	}
	return n, len(s), true
}

func formatSequence(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
