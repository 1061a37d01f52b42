// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epub

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
)

const (
	anchorScanChunkBytes    = 320
	anchorScanTailBytes     = maxPathBytes + 48
	anchorAttrSearchBackLen = 20
	maxPathBytes            = 192
)

// anchorScanner finds the byte offset of an `id="fragment"`-style anchor
// attribute inside a streamed (possibly chunked) XHTML document, without
// ever holding the whole document in memory: each feed call merges a small
// tail of the previous chunk with the new one so a match straddling a
// chunk boundary is still found.
type anchorScanner struct {
	fragment string
	tail     []byte
	consumed int
}

// newAnchorScanner normalizes fragment (percent-decoded, lowercased) for
// case-insensitive matching. It returns false if fragment is empty after
// trimming its leading '#'.
func newAnchorScanner(fragment string) (*anchorScanner, bool) {
	normalized, ok := decodeFragmentForMatch(fragment)
	if !ok {
		return nil, false
	}
	return &anchorScanner{fragment: normalized}, true
}

// feed scans one more chunk of document bytes and returns the absolute
// byte offset of the anchor if found.
func (s *anchorScanner) feed(chunk []byte) (int, bool) {
	if len(chunk) == 0 {
		return 0, false
	}

	merged := make([]byte, 0, len(s.tail)+len(chunk))
	merged = append(merged, s.tail...)
	for _, b := range chunk {
		merged = append(merged, toASCIILower(b))
	}

	fragLen := len(s.fragment)
	if len(merged) >= fragLen {
		maxStart := len(merged) - fragLen
		for idx := 0; idx <= maxStart; idx++ {
			if !bytes.EqualFold(merged[idx:idx+fragLen], []byte(s.fragment)) {
				continue
			}
			if !looksLikeAnchorAttribute(merged, idx, fragLen) {
				continue
			}
			anchorLocal := nearestTagStart(merged, idx)
			base := s.consumed - len(s.tail)
			if base < 0 {
				base = 0
			}
			return base + anchorLocal, true
		}
	}

	s.consumed += len(chunk)
	keep := anchorScanTailBytes
	if keep > len(merged) {
		keep = len(merged)
	}
	s.tail = append(s.tail[:0], merged[len(merged)-keep:]...)
	return 0, false
}

func decodeFragmentForMatch(fragment string) (string, bool) {
	source := trimHashAndSpace(fragment)
	if source == "" {
		return "", false
	}

	var out []byte
	b := []byte(source)
	for i := 0; i < len(b); {
		c := b[i]
		if c == '%' && i+2 < len(b) {
			hi, okHi := hexNibble(b[i+1])
			lo, okLo := hexNibble(b[i+2])
			if okHi && okLo {
				v := hi<<4 | lo
				ch := byte('?')
				if v < 0x80 {
					ch = toASCIILower(v)
				}
				out = append(out, ch)
				i += 3
				continue
			}
		}
		var ch byte
		switch {
		case c == '+':
			ch = ' '
		case c < 0x80:
			ch = toASCIILower(c)
		default:
			ch = '?'
		}
		out = append(out, ch)
		i++
	}
	if len(out) == 0 {
		return "", false
	}
	return string(out), true
}

func trimHashAndSpace(s string) string {
	for len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	return s
}

func hexNibble(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

func toASCIILower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 32
	}
	return b
}

// nearestTagStart rewinds from a match to the nearest preceding '<' within
// a 192-byte window, falling back to a fixed 24-byte rewind if none is
// found (the attribute is assumed to be close to its tag either way).
func nearestTagStart(haystack []byte, from int) int {
	start := from - 192
	if start < 0 {
		start = 0
	}
	for i := from - 1; i >= start; i-- {
		if haystack[i] == '<' {
			return i
		}
	}
	fallback := from - 24
	if fallback < 0 {
		fallback = 0
	}
	return fallback
}

// looksLikeAnchorAttribute confirms a raw text match is actually an
// attribute value: it must be quoted, and one of id=/xml:id=/name= must
// appear in the 20 bytes before the opening quote.
func looksLikeAnchorAttribute(haystack []byte, matchStart, fragmentLen int) bool {
	if fragmentLen == 0 {
		return false
	}
	if matchStart == 0 || matchStart+fragmentLen >= len(haystack) {
		return false
	}

	quote := haystack[matchStart-1]
	if quote != '"' && quote != '\'' {
		return false
	}
	if haystack[matchStart+fragmentLen] != quote {
		return false
	}

	attrStart := matchStart - anchorAttrSearchBackLen
	if attrStart < 0 {
		attrStart = 0
	}
	attr := haystack[attrStart:matchStart]
	return bytes.Contains(bytesLower(attr), []byte("id=")) ||
		bytes.Contains(bytesLower(attr), []byte("xml:id=")) ||
		bytes.Contains(bytesLower(attr), []byte("name="))
}

func bytesLower(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = toASCIILower(c)
	}
	return out
}

// FindFragmentOffset locates the byte offset of an id="fragment" anchor
// inside entry e, reading it in fixed-size chunks rather than loading the
// whole resource. fragment may include a leading '#'. It returns false if
// the fragment is empty or not found.
func (a *Archive) FindFragmentOffset(e *Entry, fragment string) (int, bool, error) {
	if trimHashAndSpace(fragment) == "" {
		return 0, false, nil
	}
	scanner, ok := newAnchorScanner(fragment)
	if !ok {
		return 0, false, nil
	}

	dataOff, err := a.dataOffset(e)
	if err != nil {
		return 0, false, err
	}

	var src io.ReadCloser
	switch e.Compression {
	case CompressionStored:
		src = io.NopCloser(io.NewSectionReader(a.r, dataOff, int64(e.UncompressedSize)))
	case CompressionDeflate:
		section := io.NewSectionReader(a.r, dataOff, int64(e.CompressedSize))
		src = flate.NewReader(section)
	default:
		return 0, false, nil
	}
	defer src.Close()

	chunk := make([]byte, anchorScanChunkBytes)
	for {
		n, rerr := src.Read(chunk)
		if n > 0 {
			if offset, found := scanner.feed(chunk[:n]); found {
				return offset, true, nil
			}
		}
		if rerr != nil {
			break
		}
	}
	return 0, false, nil
}
