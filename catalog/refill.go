// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package catalog

import (
	"strconv"
	"strings"

	"github.com/carlosgj94/rapid-reader/epub/sanitize"
)

// RefillSource is implemented by Source; it is the entry point the host
// loop uses to satisfy a pending refill outside the render path.
type RefillSource interface {
	SetCatalogTextChunkFromBytes(index uint16, data []byte, terminal bool, resourcePath string) error
	SetCatalogStreamChapterMetadata(index uint16, chapterIndex, chapterTotal uint16, label string) error
}

// SetCatalogStreamChapterMetadata seeds a slot's chapter position and
// navigation hint without touching its text, as bookdb does when it fast-loads
// a manifest entry straight into stream mode ahead of the first refill.
func (s *Source) SetCatalogStreamChapterMetadata(index uint16, chapterIndex, chapterTotal uint16, label string) error {
	idx := int(index)
	if idx < 0 || idx >= s.count {
		return ErrInvalidTextIndex
	}
	sl := &s.slots[idx]
	sl.streaming = true
	sl.chapterIndex = chapterIndex
	if chapterTotal == 0 {
		chapterTotal = 1
	}
	sl.chapterTotal = chapterTotal
	sl.setChapterLabel(label)
	return nil
}

// SetCatalogTextChunkFromBytes uploads the next sanitized chunk for the
// slot at index, as the host loop calls once it observes
// IsWaitingForRefill(). data is sanitized through the slot's persisted
// HTML parse state so chunk boundaries may split tags or entities. A
// successful upload clears the slot's refill flags and, if index is the
// selected book, resets the word cursor into the new window.
func (s *Source) SetCatalogTextChunkFromBytes(index uint16, data []byte, terminal bool, resourcePath string) error {
	idx := int(index)
	if idx < 0 || idx >= s.count {
		return ErrInvalidTextIndex
	}
	sl := &s.slots[idx]

	text, _, tailStart, hasTail := sanitize.Chunk(data, &sl.html, false)
	sl.setChunk(text)

	sl.tailLen = 0
	if hasTail && tailStart < len(data) {
		setFixed(sl.tail[:], &sl.tailLen, string(data[tailStart:]))
	}

	sl.streaming = true
	sl.terminal = terminal
	sl.streamEnd = terminal
	sl.refillRequested = false

	if resourcePath != "" && resourcePath != sl.pathStr() {
		sl.setPath(resourcePath)
		sl.setChapterLabel(updateChapterLabelFromResource(resourcePath))
	}

	if sl.seekTarget != noChapterSeekTarget && sl.seekTarget == sl.chapterIndex {
		sl.seekTarget = noChapterSeekTarget
	}

	if idx == s.selectedBook {
		s.waitingForRefill = false
		s.resetReadPointer()
	}
	return nil
}

// ChapterLabelFromResource derives the chapter label a stream-mode slot
// would get from resourcePath, the same heuristic SetCatalogTextChunkFromBytes
// applies internally. A scan building a fresh manifest entry calls this
// directly since there is no slot yet to derive the label from.
func ChapterLabelFromResource(resourcePath string) string {
	return updateChapterLabelFromResource(resourcePath)
}

// updateChapterLabelFromResource derives a chapter label from an EPUB
// resource path: a "-h-NN" suffix becomes "Chapter NN+1" and a purely
// numeric stem becomes "Chapter N"; a stem containing "chapter"/"capitulo"/"cap" followed by
// trailing digits likewise becomes "Chapter N"; otherwise the stem is
// title-cased. An empty result falls back to "Section".
func updateChapterLabelFromResource(resourcePath string) string {
	stem := resourcePath
	if i := strings.LastIndexByte(stem, '/'); i >= 0 {
		stem = stem[i+1:]
	}
	if i := strings.LastIndexByte(stem, '.'); i >= 0 {
		stem = stem[:i]
	}
	stem = strings.TrimSpace(stem)

	if n, ok := inferredChapterNumber(stem); ok {
		if n < 1 {
			n = 1
		}
		return "Chapter " + strconv.Itoa(n)
	}

	label, _ := titleCaseStem(stem, TitleBytes)
	if label == "" {
		return "Section"
	}
	return label
}

func inferredChapterNumber(stem string) (int, bool) {
	if stem == "" {
		return 0, false
	}

	if pos := strings.Index(strings.ToLower(stem), "-h-"); pos >= 0 {
		if n, ok := parseLeadingUint(stem[pos+3:]); ok {
			return n + 1, true
		}
	}

	if isAllASCIIDigits(stem) {
		if n, err := strconv.Atoi(stem); err == nil {
			return n, true
		}
	}

	lower := strings.ToLower(stem)
	if strings.Contains(lower, "chapter") || strings.Contains(lower, "capitulo") || strings.Contains(lower, "cap") {
		end := len(stem)
		for end > 0 && stem[end-1] >= '0' && stem[end-1] <= '9' {
			end--
		}
		if end < len(stem) {
			if n, err := strconv.Atoi(stem[end:]); err == nil {
				return n, true
			}
		}
	}

	return 0, false
}

func isAllASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseLeadingUint(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
