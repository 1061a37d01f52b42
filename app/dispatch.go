// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

// doublePressWindowMs bounds how long after a press a second press is
// read as the "go home" gesture rather than an unrelated later press.
const doublePressWindowMs = 600

func (r *Reader) dispatchEvent(event InputEvent, nowMs int64) {
	switch r.ui.kind {
	case uiLibrary:
		r.dispatchLibrary(event, nowMs)
	case uiSettings:
		r.dispatchSettings(event, nowMs)
	case uiReading:
		r.dispatchReading(event, nowMs)
	case uiNavigateChapter:
		r.dispatchNavigateChapter(event, nowMs)
	case uiNavigateParagraph:
		r.dispatchNavigateParagraph(event, nowMs)
	case uiStatus:
		if event == Press {
			r.enterLibrary(0, nowMs)
		}
	case uiCountdown:
		// Time-driven only; input is ignored until Reading begins.
	}
}

func (r *Reader) dispatchLibrary(event InputEvent, nowMs int64) {
	total := r.libraryItemCount()
	switch event {
	case RotateCW:
		r.ui.libraryCursor = rotateCW(r.ui.libraryCursor, total)
		r.pendingRedraw = true
	case RotateCCW:
		r.ui.libraryCursor = rotateCCW(r.ui.libraryCursor, total)
		r.pendingRedraw = true
	case Press:
		cursor := r.ui.libraryCursor
		if cursor == r.settingsItemIndex() {
			r.enterSettings(SettingsRowFont, false, nowMs)
			return
		}
		if err := r.content.SelectText(cursor); err != nil {
			r.setStatus("LIBRARY ERROR", "SELECT FAILED", nowMs)
			return
		}
		r.enterCountdown(cursor, nowMs)
	}
}

func (r *Reader) dispatchSettings(event InputEvent, nowMs int64) {
	st := r.ui
	switch event {
	case RotateCW, RotateCCW:
		clockwise := event == RotateCW
		if st.settingsEditing {
			r.rotateSetting(st.settingsCursor, clockwise)
		} else if clockwise {
			st.settingsCursor = (st.settingsCursor + 1) % settingsRowCount
		} else {
			st.settingsCursor = (st.settingsCursor - 1 + settingsRowCount) % settingsRowCount
		}
		r.ui = st
		r.pendingRedraw = true
	case Press:
		if st.settingsCursor == SettingsRowBack {
			r.enterLibrary(0, nowMs)
			return
		}
		st.settingsEditing = !st.settingsEditing
		r.ui = st
		r.pendingRedraw = true
	}
}

func (r *Reader) dispatchReading(event InputEvent, nowMs int64) {
	st := r.ui
	switch event {
	case Press:
		r.dispatchReadingPress(nowMs)
	case RotateCW, RotateCCW:
		if st.readingPaused {
			r.enterChapterNavigation(st.selectedBook, r.currentChapterIndex(), nowMs)
		}
	}
}

// dispatchReadingPress implements the pause/resume toggle and the
// double-press-to-Library gesture. A second Press observed at the exact
// same nowMs as the first is a same-tick input-queue burst, not a
// deliberate double press, so it is read as an ordinary toggle instead of
// the home gesture; otherwise a press within doublePressWindowMs of the
// last one exits to Library.
func (r *Reader) dispatchReadingPress(nowMs int64) {
	prev := r.lastReadingPressMs
	pressMs := nowMs
	r.lastReadingPressMs = &pressMs

	if prev != nil && *prev != nowMs && nowMs-*prev <= doublePressWindowMs {
		r.enterLibrary(r.ui.selectedBook, nowMs)
		return
	}
	r.toggleReadingPause(nowMs)
}

func (r *Reader) toggleReadingPause(nowMs int64) {
	st := r.ui
	st.readingPaused = !st.readingPaused
	r.ui = st
	if st.readingPaused {
		pausedMs := nowMs
		r.pausedSinceMs = &pausedMs
	} else {
		r.pausedSinceMs = nil
	}
	r.lastPauseAnimSlot = nil
	r.pendingRedraw = true
}

func (r *Reader) dispatchNavigateChapter(event InputEvent, nowMs int64) {
	st := r.ui
	total := r.content.ChapterCount()
	if total == 0 {
		total = 1
	}
	switch event {
	case RotateCW:
		if st.chapterCursor+1 < total {
			st.chapterCursor++
		}
		r.ui = st
		r.pendingRedraw = true
	case RotateCCW:
		if st.chapterCursor > 0 {
			st.chapterCursor--
		}
		r.ui = st
		r.pendingRedraw = true
	case Press:
		chapter, ok := r.content.ChapterAt(st.chapterCursor)
		start := uint16(0)
		if ok {
			start = chapter.StartParagraph
		}
		r.enterParagraphNavigation(st.selectedBook, st.chapterCursor, start, nowMs)
	}
}

func (r *Reader) dispatchNavigateParagraph(event InputEvent, nowMs int64) {
	st := r.ui
	chapter, ok := r.content.ChapterAt(st.chapterIndex)
	start, end := st.paragraphCursor, st.paragraphCursor
	if ok {
		start = chapter.StartParagraph
		end = start
		if chapter.ParagraphCount > 0 {
			end = start + chapter.ParagraphCount - 1
		}
	}
	switch event {
	case RotateCW:
		if st.paragraphCursor < end {
			st.paragraphCursor++
		}
		r.ui = st
		r.pendingRedraw = true
	case RotateCCW:
		if st.paragraphCursor > start {
			st.paragraphCursor--
		}
		r.ui = st
		r.pendingRedraw = true
	case Press:
		r.applyNavigationConfirm(st.selectedBook, st.paragraphCursor, nowMs)
	}
}

func rotateCW(current, total uint16) uint16 {
	if total == 0 {
		return 0
	}
	return (current + 1) % total
}

func rotateCCW(current, total uint16) uint16 {
	if total == 0 {
		return 0
	}
	if current == 0 {
		return total - 1
	}
	return current - 1
}
