// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epub

import (
	"io"

	"github.com/klauspost/compress/flate"
)

const (
	// CompressionStored is the ZIP "no compression" method.
	CompressionStored = 0
	// CompressionDeflate is the ZIP DEFLATE method, the only compressed
	// method an EPUB producer realistically uses.
	CompressionDeflate = 8
)

// ReadChunk fills out with resource bytes starting at startOffset within
// entry e, returning how many bytes it wrote and whether the read reached
// the end of the (uncompressed) resource. A deflated entry is always
// re-inflated from its start; resuming at a nonzero startOffset discards
// the leading bytes rather than seeking, since DEFLATE has no random
// access point mid-stream.
func (a *Archive) ReadChunk(e *Entry, startOffset uint32, out []byte) (n int, endOfResource bool, err error) {
	if len(out) == 0 || e.UncompressedSize == 0 {
		return 0, true, nil
	}
	if startOffset >= e.UncompressedSize {
		return 0, true, nil
	}
	switch e.Compression {
	case CompressionStored:
		return a.readStoredChunk(e, startOffset, out)
	case CompressionDeflate:
		return a.readDeflatedChunk(e, startOffset, out)
	default:
		return 0, false, &ParseError{Stage: "inflate", Err: errUnsupportedCompression(e.Compression)}
	}
}

type errUnsupportedCompression uint16

func (e errUnsupportedCompression) Error() string {
	return "unsupported compression method"
}

func (a *Archive) readStoredChunk(e *Entry, startOffset uint32, out []byte) (int, bool, error) {
	dataOff, err := a.dataOffset(e)
	if err != nil {
		return 0, true, err
	}
	remaining := e.UncompressedSize - startOffset
	readLen := len(out)
	if uint32(readLen) > remaining {
		readLen = int(remaining)
	}
	n, err := a.r.ReadAt(out[:readLen], dataOff+int64(startOffset))
	if err != nil && err != io.EOF {
		return n, true, err
	}
	end := startOffset+uint32(n) >= e.UncompressedSize
	return n, end, nil
}

func (a *Archive) readDeflatedChunk(e *Entry, startOffset uint32, out []byte) (int, bool, error) {
	if e.CompressedSize == 0 {
		return 0, true, nil
	}
	dataOff, err := a.dataOffset(e)
	if err != nil {
		return 0, true, err
	}

	section := io.NewSectionReader(a.r, dataOff, int64(e.CompressedSize))
	fr := flate.NewReader(section)
	defer fr.Close()

	if startOffset > 0 {
		if _, err := io.CopyN(io.Discard, fr, int64(startOffset)); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return 0, true, nil
			}
			return 0, false, err
		}
	}

	n, err := io.ReadFull(fr, out)
	switch err {
	case nil:
		return n, startOffset+uint32(n) >= e.UncompressedSize, nil
	case io.EOF, io.ErrUnexpectedEOF:
		return n, true, nil
	default:
		return n, false, err
	}
}

// ReadPrefix is the startOffset=0 convenience used when a resource is read
// for the first time.
func (a *Archive) ReadPrefix(e *Entry, out []byte) (int, bool, error) {
	return a.ReadChunk(e, 0, out)
}
