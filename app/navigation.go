// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

import "github.com/carlosgj94/rapid-reader/render"

func (r *Reader) enterLibrary(cursor uint16, nowMs int64) {
	r.lastReadingPressMs = nil
	maxIndex := r.libraryItemCount()
	if maxIndex > 0 {
		maxIndex--
	}
	if cursor > maxIndex {
		cursor = maxIndex
	}
	r.ui = uiState{kind: uiLibrary, libraryCursor: cursor}
	r.startTransition(render.AnimationTransition, nowMs, animMenuMs)
	r.pendingRedraw = true
}

func (r *Reader) enterSettings(cursor SettingsRow, editing bool, nowMs int64) {
	r.ui = uiState{kind: uiSettings, settingsCursor: cursor, settingsEditing: editing}
	r.startTransition(render.AnimationTransition, nowMs, animMenuMs)
	r.pendingRedraw = true
}

func (r *Reader) enterCountdown(selectedBook uint16, nowMs int64) {
	r.lastReadingPressMs = nil
	r.pausedSinceMs = nil
	r.lastPauseAnimSlot = nil
	r.word.clear()
	r.paragraphWordIndex = 0
	r.paragraphWordTotal = 1
	r.lastEndsClause = false
	r.lastEndsSentence = false

	r.ui = uiState{
		kind:                uiCountdown,
		selectedBook:        selectedBook,
		countdownRemaining:  r.countdownSeconds,
		countdownNextStepMs: nowMs + 1000,
	}
	r.startTransition(render.AnimationPulse, nowMs, 900)
	r.pendingRedraw = true
}

func (r *Reader) enterReading(selectedBook uint16, nowMs int64) {
	r.lastReadingPressMs = nil
	r.pausedSinceMs = nil
	r.lastPauseAnimSlot = nil
	r.ui = uiState{
		kind:              uiReading,
		selectedBook:      selectedBook,
		readingPaused:     false,
		readingNextWordMs: nowMs,
	}
	r.startTransition(render.AnimationTransition, nowMs, animScreenMs)
	r.pendingRedraw = true
}

func (r *Reader) enterChapterNavigation(selectedBook, chapterCursor uint16, nowMs int64) {
	r.lastReadingPressMs = nil
	r.lastPauseAnimSlot = nil
	chapterTotal := r.content.ChapterCount()
	if chapterTotal == 0 {
		chapterTotal = 1
	}
	if chapterCursor >= chapterTotal {
		chapterCursor = chapterTotal - 1
	}
	r.ui = uiState{kind: uiNavigateChapter, selectedBook: selectedBook, chapterCursor: chapterCursor}
	r.startTransition(render.AnimationTransition, nowMs, animNavMs)
	r.pendingRedraw = true
}

func (r *Reader) enterParagraphNavigation(selectedBook, chapterIndex, paragraphCursor uint16, nowMs int64) {
	chapter, ok := r.content.ChapterAt(chapterIndex)
	if !ok {
		r.setStatus("NAVIGATION ERROR", "CHAPTER INVALID", nowMs)
		return
	}

	start := chapter.StartParagraph
	end := start
	if chapter.ParagraphCount > 0 {
		end = start + chapter.ParagraphCount - 1
	}
	if paragraphCursor < start {
		paragraphCursor = start
	}
	if paragraphCursor > end {
		paragraphCursor = end
	}

	r.ui = uiState{
		kind:            uiNavigateParagraph,
		selectedBook:    selectedBook,
		chapterIndex:    chapterIndex,
		paragraphCursor: paragraphCursor,
	}
	r.startTransition(render.AnimationTransition, nowMs, animNavMs)
	r.pendingRedraw = true
}

func (r *Reader) applyNavigationConfirm(selectedBook, targetParagraph uint16, nowMs int64) {
	if err := r.content.SeekParagraph(targetParagraph); err != nil {
		r.setStatus("NAVIGATION ERROR", "PARAGRAPH INVALID", nowMs)
		return
	}

	r.word.clear()
	r.paragraphWordIndex = 0
	r.paragraphWordTotal = 1
	r.lastEndsClause = false
	r.lastEndsSentence = false

	_, _ = r.advanceWord()

	r.ui = uiState{
		kind:              uiReading,
		selectedBook:      selectedBook,
		readingPaused:     true,
		readingNextWordMs: nowMs,
	}
	r.pausedSinceMs = &nowMs
	r.lastPauseAnimSlot = nil
	r.startTransition(render.AnimationTransition, nowMs, animNavMs)
	r.pendingRedraw = true
}

func (r *Reader) setStatus(line1, line2 string, nowMs int64) {
	r.lastReadingPressMs = nil
	r.ui = uiState{kind: uiStatus, statusLine1: line1, statusLine2: line2}
	r.startTransition(render.AnimationTransition, nowMs, animScreenMs)
	r.pendingRedraw = true
}

func (r *Reader) startTransition(kind render.AnimationKind, nowMs int64, durationMs int64) {
	r.transition = render.AnimationSpec{Kind: kind, StartMs: nowMs, DurationMs: durationMs}
	r.hasTransition = true
}

func (r *Reader) transitionFrame(nowMs int64) (render.AnimationFrame, bool) {
	if !r.hasTransition {
		return render.AnimationFrame{}, false
	}
	return r.transition.Frame(nowMs)
}

func (r *Reader) totalTitleCount() uint16 { return r.content.TitleCount() }

func (r *Reader) libraryItemCount() uint16 { return r.totalTitleCount() + 1 }

func (r *Reader) settingsItemIndex() uint16 { return r.totalTitleCount() }

// chapterForParagraph scans chapter boundaries to find which chapter
// contains paragraphIndex; used when the content source has no cheaper
// current_chapter_index of its own (the static-mode case).
func (r *Reader) chapterForParagraph(paragraphIndex uint16) uint16 {
	chapterCount := r.content.ChapterCount()
	if chapterCount == 0 {
		chapterCount = 1
	}
	for idx := uint16(0); idx < chapterCount; idx++ {
		chapter, ok := r.content.ChapterAt(idx)
		if !ok {
			continue
		}
		start := chapter.StartParagraph
		end := start
		if chapter.ParagraphCount > 0 {
			end = start + chapter.ParagraphCount - 1
		}
		if paragraphIndex >= start && paragraphIndex <= end {
			return idx
		}
	}
	return 0
}

// currentChapterIndex resolves to the content source's own chapter cursor
// when it reports one (stream mode); otherwise it is derived from the
// current paragraph position (static mode), per the Open Question
// resolution recorded in DESIGN.md.
func (r *Reader) currentChapterIndex() uint16 {
	if idx, ok := r.content.CurrentChapterIndex(); ok {
		total := r.content.ChapterCount()
		if total > 0 && idx >= total {
			idx = total - 1
		}
		return idx
	}

	currentParagraph := r.content.ParagraphIndex()
	if currentParagraph > 0 {
		currentParagraph--
	}
	return r.chapterForParagraph(currentParagraph)
}
