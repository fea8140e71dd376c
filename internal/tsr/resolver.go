package tsr

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MetadataReader extracts an embedded capture timestamp from file content.
type MetadataReader interface {
	// CaptureTime returns the raw text of the highest-priority date tag
	// carried by the content, or ok == false if there is none or the content
	// cannot be decoded.
	CaptureTime(r io.Reader) (raw string, ok bool)
}

// Resolution is the outcome of timestamp resolution for one file.
type Resolution struct {
	SortKey     string
	DisplayDate string
}

// resolveInput is everything the resolution stages look at. Gathering it is
// the only step that touches the filesystem; the stages themselves are pure.
type resolveInput struct {
	name     string
	metadata string
	hasMeta  bool
	modTime  time.Time
}

type resolveStage func(in resolveInput) (Resolution, bool)

// cascade is tried in order; the first stage that produces a result wins.
// fromModTime always succeeds, so resolution never comes back empty.
var cascade = []resolveStage{
	fromMetadata,
	fromDate8,
	fromDate6,
	fromModTime,
}

var (
	date8     = regexp.MustCompile(`[0-9]{8}`)
	date6     = regexp.MustCompile(`[0-9]{6}`)
	nonDigits = regexp.MustCompile(`[^0-9]`)
)

// Resolver assigns each file its sort key and display date.
type Resolver struct {
	fsmgr  FilesystemManager
	meta   MetadataReader
	logger Logger
}

// NewResolver creates a Resolver. meta may be nil, in which case the
// embedded metadata stage never matches.
func NewResolver(fsmgr FilesystemManager, meta MetadataReader, logger Logger) *Resolver {
	return &Resolver{fsmgr: fsmgr, meta: meta, logger: logger}
}

// Resolve returns the sort key and display date for path. It never fails:
// any error reading the file only disables the metadata stage.
func (r *Resolver) Resolve(path *Path) (sortKey, displayDate string) {
	in := resolveInput{
		name:    path.Base(),
		modTime: path.ModTime(),
	}
	in.metadata, in.hasMeta = r.readMetadata(path)

	for _, stage := range cascade {
		if res, ok := stage(in); ok {
			return res.SortKey, res.DisplayDate
		}
	}
	// unreachable: fromModTime always matches
	return ModTimeKey(in.modTime), ""
}

func (r *Resolver) readMetadata(path *Path) (string, bool) {
	if r.meta == nil {
		return "", false
	}
	f, err := r.fsmgr.Open(path)
	if err != nil {
		r.logger.Debug("metadata unreadable", "path", path.String(), "error", err)
		return "", false
	}
	defer f.Close()
	return r.meta.CaptureTime(f)
}

func fromMetadata(in resolveInput) (Resolution, bool) {
	if !in.hasMeta {
		return Resolution{}, false
	}
	raw := strings.TrimSpace(in.metadata)
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) < 8 || !isCalendarDate(digits[:8]) {
		return Resolution{}, false
	}
	return Resolution{SortKey: raw, DisplayDate: digits[:8]}, true
}

func fromDate8(in resolveInput) (Resolution, bool) {
	// Only the leftmost match is tried, even when it sits inside a longer run.
	run := date8.FindString(in.name)
	if run == "" || !isCalendarDate(run) {
		return Resolution{}, false
	}
	return Resolution{SortKey: run, DisplayDate: run}, true
}

func fromDate6(in resolveInput) (Resolution, bool) {
	run := date6.FindString(in.name)
	if run == "" {
		return Resolution{}, false
	}
	// YYYYMM: only the month is checked, any 4-digit year is taken as is.
	month, err := strconv.Atoi(run[4:])
	if err != nil || month < 1 || month > 12 {
		return Resolution{}, false
	}
	return Resolution{SortKey: run, DisplayDate: run}, true
}

func fromModTime(in resolveInput) (Resolution, bool) {
	return Resolution{SortKey: ModTimeKey(in.modTime)}, true
}

// ModTimeKey serializes a modification time as decimal seconds since the
// epoch, with a fractional part only when the time has one.
func ModTimeKey(t time.Time) string {
	sec, nsec := t.Unix(), t.Nanosecond()
	if nsec == 0 {
		return strconv.FormatInt(sec, 10)
	}
	if sec < 0 {
		return strconv.FormatFloat(float64(t.UnixNano())/1e9, 'f', -1, 64)
	}
	frac := strings.TrimRight(fmt.Sprintf("%09d", nsec), "0")
	return strconv.FormatInt(sec, 10) + "." + frac
}

func isCalendarDate(yyyymmdd string) bool {
	t, err := time.Parse("20060102", yyyymmdd)
	return err == nil && t.Year() >= 1
}
