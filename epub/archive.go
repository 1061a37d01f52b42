// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epub reads EPUB archives directly off an SD card without ever
// materializing the whole file: it walks the ZIP central directory once,
// keeps a fixed table of entries, and inflates resource bytes on demand,
// resuming an interrupted paragraph read by re-inflating from the entry's
// start and discarding up to the requested offset.
package epub

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Entry limits and buffer sizes, matching the panel/SD-card scale this
// reader targets rather than a general-purpose ZIP library's.
const (
	MaxEntries        = 512
	eocdMinBytes      = 22
	cdirHeaderBytes   = 46
	localHeaderBytes  = 30
	eocdSearchWindow  = 2048
	maxNameBytes      = 384
)

var (
	eocdSig  = [4]byte{0x50, 0x4B, 0x05, 0x06}
	cdirSig  = [4]byte{0x50, 0x4B, 0x01, 0x02}
	localSig = [4]byte{0x50, 0x4B, 0x03, 0x04}
)

// Entry is one ZIP central-directory record, trimmed to the fields a
// resumable EPUB reader needs.
type Entry struct {
	Name              string
	Compression       uint16
	CompressedSize    uint32
	UncompressedSize  uint32
	LocalHeaderOffset uint32
}

// ParseError tags a failure to a stage of EPUB parsing so callers can
// classify it (spec.md's error taxonomy).
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string { return "epub: " + e.Stage + ": " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// Archive holds a scanned central directory over a ReaderAt (an open SD
// file in production, a bytes.Reader in tests). The entry table is a fixed
// array: a central directory with more than MaxEntries records is
// truncated, matching the firmware's bounded-memory scan.
type Archive struct {
	r         io.ReaderAt
	size      int64
	entries   [MaxEntries]Entry
	count     int
	Truncated bool
}

// OpenArchive scans r's end-of-central-directory record and then its
// central directory, building the fixed entry table.
func OpenArchive(r io.ReaderAt, size int64) (*Archive, error) {
	a := &Archive{r: r, size: size}
	eocdOff, err := a.findEOCD()
	if err != nil {
		return nil, &ParseError{Stage: "eocd", Err: err}
	}

	var eocd [eocdMinBytes]byte
	if _, err := a.readAt(eocdOff, eocd[:]); err != nil {
		return nil, &ParseError{Stage: "eocd", Err: err}
	}
	cdirOffset := binary.LittleEndian.Uint32(eocd[16:20])
	totalEntries := binary.LittleEndian.Uint16(eocd[10:12])

	if err := a.scanCentralDirectory(int64(cdirOffset), int(totalEntries)); err != nil {
		return nil, &ParseError{Stage: "cdir", Err: err}
	}
	return a, nil
}

func (a *Archive) readAt(off int64, buf []byte) (int, error) {
	n, err := a.r.ReadAt(buf, off)
	if err != nil && err != io.EOF {
		return n, err
	}
	if n < len(buf) {
		return n, fmt.Errorf("short read at %d: got %d want %d", off, n, len(buf))
	}
	return n, nil
}

// findEOCD scans backward from the end of the file within a bounded
// window, since the comment field can push the signature away from the
// very last 22 bytes.
func (a *Archive) findEOCD() (int64, error) {
	window := int64(eocdSearchWindow)
	if window > a.size {
		window = a.size
	}
	start := a.size - window
	buf := make([]byte, window)
	if _, err := a.readAt(start, buf); err != nil {
		return 0, err
	}
	for i := len(buf) - eocdMinBytes; i >= 0; i-- {
		if buf[i] == eocdSig[0] && buf[i+1] == eocdSig[1] && buf[i+2] == eocdSig[2] && buf[i+3] == eocdSig[3] {
			return start + int64(i), nil
		}
	}
	return 0, fmt.Errorf("end-of-central-directory signature not found")
}

func (a *Archive) scanCentralDirectory(offset int64, totalEntries int) error {
	var hdr [cdirHeaderBytes]byte
	for i := 0; i < totalEntries; i++ {
		if _, err := a.readAt(offset, hdr[:]); err != nil {
			return err
		}
		if hdr[0] != cdirSig[0] || hdr[1] != cdirSig[1] || hdr[2] != cdirSig[2] || hdr[3] != cdirSig[3] {
			return fmt.Errorf("bad central directory signature at entry %d", i)
		}
		compression := binary.LittleEndian.Uint16(hdr[10:12])
		compressedSize := binary.LittleEndian.Uint32(hdr[20:24])
		uncompressedSize := binary.LittleEndian.Uint32(hdr[24:28])
		nameLen := int(binary.LittleEndian.Uint16(hdr[28:30]))
		extraLen := int(binary.LittleEndian.Uint16(hdr[30:32]))
		commentLen := int(binary.LittleEndian.Uint16(hdr[32:34]))
		localHeaderOffset := binary.LittleEndian.Uint32(hdr[42:46])

		nameBufLen := nameLen
		if nameBufLen > maxNameBytes {
			nameBufLen = maxNameBytes
		}
		nameBuf := make([]byte, nameBufLen)
		if nameBufLen > 0 {
			if _, err := a.readAt(offset+cdirHeaderBytes, nameBuf); err != nil {
				return err
			}
		}

		if a.count < MaxEntries {
			a.entries[a.count] = Entry{
				Name:              string(nameBuf),
				Compression:       compression,
				CompressedSize:    compressedSize,
				UncompressedSize:  uncompressedSize,
				LocalHeaderOffset: localHeaderOffset,
			}
			a.count++
		} else {
			a.Truncated = true
		}

		offset += int64(cdirHeaderBytes + nameLen + extraLen + commentLen)
	}
	return nil
}

// Entries returns the scanned entry table.
func (a *Archive) Entries() []Entry { return a.entries[:a.count] }

// ByName finds an entry by exact path match.
func (a *Archive) ByName(name string) (*Entry, bool) {
	for i := range a.entries[:a.count] {
		if a.entries[i].Name == name {
			return &a.entries[i], true
		}
	}
	return nil, false
}

// CoverEntry locates the archive entry at coverPath, as resolved by
// ParseOPF's CoverPath. It returns only the raw entry so a caller can
// inflate it with ReadChunk/ReadPrefix and hand the bytes to an external
// image decoder; no PNG/JPEG decoding happens in this package.
func (a *Archive) CoverEntry(coverPath string) (Entry, bool) {
	e, ok := a.ByName(coverPath)
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// dataOffset reads the entry's local header to find where file data
// actually starts, since the name/extra field lengths there can differ
// from the central directory's (rare, but the format allows it).
func (a *Archive) dataOffset(e *Entry) (int64, error) {
	var local [localHeaderBytes]byte
	if _, err := a.readAt(int64(e.LocalHeaderOffset), local[:]); err != nil {
		return 0, err
	}
	if local[0] != localSig[0] || local[1] != localSig[1] || local[2] != localSig[2] || local[3] != localSig[3] {
		return 0, fmt.Errorf("bad local file header signature")
	}
	nameLen := binary.LittleEndian.Uint16(local[26:28])
	extraLen := binary.LittleEndian.Uint16(local[28:30])
	return int64(e.LocalHeaderOffset) + localHeaderBytes + int64(nameLen) + int64(extraLen), nil
}
