// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package catalog

// Reset rewinds the selected text to its first paragraph and clears any
// pending refill wait.
func (s *Source) Reset() error {
	s.waitingForRefill = false
	s.resetReadPointer()
	return nil
}

// NextWord returns the next word token in left-to-right order, advancing
// past paragraph boundaries as needed. ok is false when the selected text
// is exhausted (static mode) or waiting on a refill (stream mode).
func (s *Source) NextWord() (Token, bool, error) {
	if s.selectedParagraphCount() == 0 {
		s.maybeRequestRefillOnEmpty()
		return Token{}, false, nil
	}

	for {
		paragraph, ok := s.selectedParagraphAt(s.paragraphIndex)
		if !ok {
			return Token{}, false, nil
		}

		if start, end, next, found := nextWordBounds(paragraph, s.paragraphCursor); found {
			s.paragraphCursor = next
			s.paragraphWordIndex++
			word := paragraph[start:end]
			return Token{
				Text:         word,
				EndsSentence: endsAny(word, ".!?"),
				EndsClause:   endsAny(word, ","),
			}, true, nil
		}

		if !s.advanceParagraph() {
			if s.selectedIsStreamMode() && !s.selectedSlot().terminal {
				s.waitingForRefill = true
				if sl := s.selectedSlot(); sl != nil {
					sl.refillRequested = true
					sl.clearChunk()
				}
				s.paragraphCursor = 0
				s.paragraphWordIndex = 0
				s.paragraphWordTotal = 1
			}
			return Token{}, false, nil
		}
	}
}

func (s *Source) maybeRequestRefillOnEmpty() {
	if !s.selectedIsStreamMode() {
		return
	}
	sl := s.selectedSlot()
	if sl == nil || sl.terminal {
		return
	}
	s.waitingForRefill = true
	sl.refillRequested = true
}

func endsAny(word string, suffixes string) bool {
	if word == "" {
		return false
	}
	last := word[len(word)-1]
	for i := 0; i < len(suffixes); i++ {
		if last == suffixes[i] {
			return true
		}
	}
	return false
}

// ParagraphProgress returns (word_index, word_total) within the current
// paragraph.
func (s *Source) ParagraphProgress() (wordIndex, wordTotal uint16) {
	total := s.paragraphWordTotal
	if total == 0 {
		total = 1
	}
	return s.paragraphWordIndex, total
}

// ParagraphIndex returns the current 1-based paragraph number, or 0 if
// the selected text has no paragraphs.
func (s *Source) ParagraphIndex() uint16 {
	if s.selectedParagraphCount() == 0 {
		return 0
	}
	return uint16(s.paragraphIndex + 1)
}

// ParagraphTotal returns the selected text's paragraph count.
func (s *Source) ParagraphTotal() uint16 {
	count := s.selectedParagraphCount()
	if count > 0xFFFF {
		count = 0xFFFF
	}
	return uint16(count)
}

// IsWaitingForRefill reports whether NextWord is blocked on a streaming
// refill.
func (s *Source) IsWaitingForRefill() bool { return s.waitingForRefill }

// SelectText switches the active title and resets its read position.
func (s *Source) SelectText(index uint16) error {
	idx := int(index)
	if idx < 0 || idx >= s.count {
		return ErrInvalidTextIndex
	}
	s.selectedBook = idx
	s.waitingForRefill = false
	if sl := s.selectedSlot(); sl != nil {
		sl.refillRequested = false
		sl.seekTarget = noChapterSeekTarget
	}
	s.resetReadPointer()
	return nil
}

// SelectedIndex returns the currently active title index.
func (s *Source) SelectedIndex() uint16 { return uint16(s.selectedBook) }

// SeekParagraph jumps to paragraph_index within the selected text.
func (s *Source) SeekParagraph(paragraphIndex uint16) error {
	total := s.selectedParagraphCount()
	if total == 0 {
		s.paragraphIndex = 0
		s.paragraphCursor = 0
		s.paragraphWordIndex = 0
		s.paragraphWordTotal = 1
		return nil
	}
	index := int(paragraphIndex)
	if index >= total {
		return ErrInvalidParagraphIndex
	}
	s.paragraphIndex = index
	s.paragraphCursor = 0
	s.paragraphWordIndex = 0
	s.paragraphWordTotal = s.computeCurrentWordTotal()
	s.waitingForRefill = false
	return nil
}
