// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package catalog

import (
	"strconv"
	"strings"

	"github.com/carlosgj94/rapid-reader/epub/sanitize"
)

// ChapterCount returns the number of navigable chapters in the selected
// text. Stream-mode slots report the EPUB's spine-derived hint; static
// slots synthesize PARAGRAPHS_PER_CHAPTER-sized chapters.
func (s *Source) ChapterCount() uint16 {
	if s.selectedIsStreamMode() {
		return s.selectedStreamChapterTotalHint()
	}
	count := s.selectedParagraphCount()
	if count == 0 {
		return 1
	}
	chapters := (count + ParagraphsPerChapter - 1) / ParagraphsPerChapter
	if chapters > 0xFFFF {
		chapters = 0xFFFF
	}
	return uint16(chapters)
}

// ChapterAt returns coarse metadata for chapter index, or false if out of
// range.
func (s *Source) ChapterAt(index uint16) (ChapterInfo, bool) {
	if s.selectedIsStreamMode() {
		total := s.selectedStreamChapterTotalHint()
		if index >= total {
			return ChapterInfo{}, false
		}
		current := s.selectedStreamChapterIndex()
		if current >= total {
			current = total - 1
		}
		if index == current {
			count := s.selectedParagraphCount()
			if count < 1 {
				count = 1
			}
			if count > 0xFFFF {
				count = 0xFFFF
			}
			return ChapterInfo{
				Label:          s.selectedStreamChapterLabel(),
				StartParagraph: 0,
				ParagraphCount: uint16(count),
			}, true
		}
		return ChapterInfo{Label: "Chapter", StartParagraph: 0, ParagraphCount: 1}, true
	}

	total := s.selectedParagraphCount()
	if total == 0 {
		return ChapterInfo{Label: "Empty", StartParagraph: 0, ParagraphCount: 1}, true
	}

	chapterCount := (total + ParagraphsPerChapter - 1) / ParagraphsPerChapter
	idx := int(index)
	if idx >= chapterCount {
		return ChapterInfo{}, false
	}

	start := idx * ParagraphsPerChapter
	remaining := total - start
	count := remaining
	if count > ParagraphsPerChapter {
		count = ParagraphsPerChapter
	}
	label := "Chapter"
	if p, ok := s.selectedParagraphAt(start); ok {
		label = firstWordsExcerpt(p, chapterLabelWords)
	}

	return ChapterInfo{
		Label:          label,
		StartParagraph: uint16(start),
		ParagraphCount: uint16(count),
	}, true
}

// CurrentChapterIndex returns the currently active chapter for stream-mode
// slots. Static slots have no persisted chapter cursor and return false,
// matching the original's decision to derive position from paragraph_index
// on demand rather than track a redundant chapter cursor.
func (s *Source) CurrentChapterIndex() (uint16, bool) {
	if !s.selectedIsStreamMode() {
		return 0, false
	}
	total := s.selectedStreamChapterTotalHint()
	current := s.selectedStreamChapterIndex()
	if current >= total {
		current = total - 1
	}
	return current, true
}

// SeekChapter moves the selected stream-mode slot to chapterIndex, queuing
// a refill when it differs from the current chapter. Static slots are a
// no-op (false, nil) since their chapters are derived from paragraphs
// already resident in memory.
func (s *Source) SeekChapter(chapterIndex uint16) (bool, error) {
	if !s.selectedIsStreamMode() {
		return false, nil
	}
	sl := s.selectedSlot()
	if sl == nil {
		return false, ErrInvalidTextIndex
	}

	total := s.selectedStreamChapterTotalHint()
	if chapterIndex >= total {
		return false, ErrInvalidChapterIndex
	}

	current := sl.chapterIndex
	if current >= total {
		current = total - 1
	}

	if chapterIndex == current {
		s.waitingForRefill = false
		sl.refillRequested = false
		sl.seekTarget = noChapterSeekTarget
		s.resetReadPointer()
		return true, nil
	}

	sl.chapterIndex = chapterIndex
	sl.setChapterLabel("Chapter " + strconv.Itoa(int(chapterIndex)+1))
	sl.clearChunk()
	sl.html = sanitize.State{}
	sl.tailLen = 0
	sl.streamEnd = false
	sl.terminal = false
	sl.refillRequested = true
	sl.seekTarget = chapterIndex

	s.waitingForRefill = true
	s.paragraphIndex = 0
	s.paragraphCursor = 0
	s.paragraphWordIndex = 0
	s.paragraphWordTotal = 1
	return true, nil
}

// ChapterDataReady reports whether chapterIndex's paragraphs are resident
// and ready to read without blocking on a refill.
func (s *Source) ChapterDataReady(chapterIndex uint16) bool {
	if !s.selectedIsStreamMode() {
		return true
	}
	total := s.selectedStreamChapterTotalHint()
	if chapterIndex >= total {
		return false
	}
	current := s.selectedStreamChapterIndex()
	if current >= total {
		current = total - 1
	}
	if chapterIndex != current || s.waitingForRefill {
		return false
	}
	if s.selectedParagraphCount() > 0 {
		return true
	}
	sl := s.selectedSlot()
	return sl != nil && sl.terminal
}

// ParagraphPreview returns the raw text of paragraphIndex within the
// selected text, for navigation list previews.
func (s *Source) ParagraphPreview(paragraphIndex uint16) (string, bool) {
	return s.selectedParagraphAt(int(paragraphIndex))
}

// firstWordsExcerpt returns the leading maxWords words of text, trimmed of
// trailing whitespace.
func firstWordsExcerpt(text string, maxWords int) string {
	if text == "" || maxWords == 0 {
		return ""
	}
	words := 0
	end := 0
	inWord := false
	for i, r := range text {
		isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		if isSpace {
			if inWord {
				words++
				inWord = false
				if words >= maxWords {
					return text[:i]
				}
			}
		} else {
			inWord = true
		}
		end = i + len(string(r))
	}
	return strings.TrimRight(text[:end], " \t\n\r")
}
