package testutil

import (
	"bytes"
	"encoding/binary"
	"slices"
)

// EXIF tag IDs used by the builders below.
const (
	TagDateTime          uint16 = 0x0132
	TagExifIFDPointer    uint16 = 0x8769
	TagDateTimeOriginal  uint16 = 0x9003
	TagDateTimeDigitized uint16 = 0x9004
)

// TIFFWithTags returns a minimal little-endian TIFF stream whose first IFD
// holds the given ASCII tags.
func TIFFWithTags(tags map[uint16]string) []byte {
	return buildTIFF(tags, nil)
}

// TIFFWithExifIFD returns a TIFF stream whose first IFD holds ifd0 and
// points to an Exif sub-IFD holding sub.
func TIFFWithExifIFD(ifd0, sub map[uint16]string) []byte {
	return buildTIFF(ifd0, sub)
}

// JPEGWithTags wraps TIFFWithTags(tags) in a JPEG APP1 Exif segment.
func JPEGWithTags(tags map[uint16]string) []byte {
	payload := append([]byte("Exif\x00\x00"), TIFFWithTags(tags)...)

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1}) // SOI, APP1
	binary.Write(&buf, binary.BigEndian, uint16(len(payload)+2))
	buf.Write(payload)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

type ifdEntry struct {
	tag   uint16
	typ   uint16 // 2 = ASCII, 4 = LONG
	count uint32
	value []byte
}

func asciiEntries(tags map[uint16]string) []ifdEntry {
	ids := make([]uint16, 0, len(tags))
	for id := range tags {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	entries := make([]ifdEntry, 0, len(ids))
	for _, id := range ids {
		v := append([]byte(tags[id]), 0)
		entries = append(entries, ifdEntry{tag: id, typ: 2, count: uint32(len(v)), value: v})
	}
	return entries
}

func ifdSize(entries []ifdEntry) uint32 {
	size := uint32(2 + 12*len(entries) + 4)
	for _, e := range entries {
		if len(e.value) > 4 {
			size += uint32(len(e.value))
		}
	}
	return size
}

// writeIFD appends an IFD starting at offset, with out-of-line values
// placed right after the entry table.
func writeIFD(buf *bytes.Buffer, entries []ifdEntry, offset uint32) {
	le := binary.LittleEndian
	dataOff := offset + uint32(2+12*len(entries)+4)

	binary.Write(buf, le, uint16(len(entries)))
	var data []byte
	for _, e := range entries {
		binary.Write(buf, le, e.tag)
		binary.Write(buf, le, e.typ)
		binary.Write(buf, le, e.count)
		if len(e.value) > 4 {
			binary.Write(buf, le, dataOff+uint32(len(data)))
			data = append(data, e.value...)
			continue
		}
		inline := make([]byte, 4)
		copy(inline, e.value)
		buf.Write(inline)
	}
	binary.Write(buf, le, uint32(0)) // no next IFD
	buf.Write(data)
}

func buildTIFF(ifd0Tags, subTags map[uint16]string) []byte {
	const headerLen = 8
	ifd0 := asciiEntries(ifd0Tags)
	var sub []ifdEntry
	if subTags != nil {
		sub = asciiEntries(subTags)
		// value is patched once the IFD0 size is known
		ifd0 = append(ifd0, ifdEntry{tag: TagExifIFDPointer, typ: 4, count: 1, value: make([]byte, 4)})
		slices.SortFunc(ifd0, func(a, b ifdEntry) int { return int(a.tag) - int(b.tag) })
		subOff := headerLen + ifdSize(ifd0)
		for i := range ifd0 {
			if ifd0[i].tag == TagExifIFDPointer {
				binary.LittleEndian.PutUint32(ifd0[i].value, subOff)
			}
		}
	}

	var buf bytes.Buffer
	buf.Write([]byte{'I', 'I', 0x2A, 0x00})
	binary.Write(&buf, binary.LittleEndian, uint32(headerLen))
	writeIFD(&buf, ifd0, headerLen)
	if sub != nil {
		writeIFD(&buf, sub, headerLen+ifdSize(ifd0))
	}
	return buf.Bytes()
}
