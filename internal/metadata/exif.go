package metadata

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"

	"tsr-go/internal/tsr"
)

// sniffLen is how much content is read to detect the file type.
const sniffLen = 3072

// dateTags are tried in order; the first one present wins.
var dateTags = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

// decodable are the content types goexif can read.
var decodable = []string{"image/jpeg", "image/tiff"}

// EXIFReader reads capture dates from JPEG and TIFF content.
type EXIFReader struct {
	logger tsr.Logger
}

// NewEXIFReader creates an EXIFReader.
func NewEXIFReader(logger tsr.Logger) *EXIFReader {
	return &EXIFReader{logger: logger}
}

// CaptureTime returns the raw text of the first date tag present in r.
// Content that is not JPEG or TIFF is not decoded.
func (e *EXIFReader) CaptureTime(r io.Reader) (string, bool) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", false
	}
	header = header[:n]

	mtype := mimetype.Detect(header)
	if !isDecodable(mtype) {
		return "", false
	}

	x, err := exif.Decode(io.MultiReader(bytes.NewReader(header), r))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		e.logger.Debug("exif decode failed", "mime", mtype.String(), "error", err)
		return "", false
	}

	for _, name := range dateTags {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		val, err := tag.StringVal()
		if err != nil {
			continue
		}
		val = strings.TrimRight(val, "\x00")
		if strings.TrimSpace(val) == "" {
			continue
		}
		return val, true
	}
	return "", false
}

func isDecodable(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		for _, want := range decodable {
			if m.Is(want) {
				return true
			}
		}
	}
	return false
}

var _ tsr.MetadataReader = (*EXIFReader)(nil)
