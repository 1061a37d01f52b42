// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

import "github.com/carlosgj94/rapid-reader/render"

// CurrentSettings reports the reader's live Wpm and VisualStyle, the two
// fields a host loop tracks through settings.SyncState for debounced
// persistence.
func (r *Reader) CurrentSettings() (wpm uint16, style render.VisualStyle) {
	return r.config.Wpm, r.style
}

// ApplyPersistedSettings restores a Wpm/VisualStyle pair loaded from flash
// at boot, ahead of any screen being shown. A zero wpm is treated as "no
// saved value" and leaves the constructor default in place; a non-zero
// value is clamped to the reader's configured Min/MaxWpm.
func (r *Reader) ApplyPersistedSettings(wpm uint16, style render.VisualStyle) {
	if wpm != 0 {
		if wpm < r.config.MinWpm {
			wpm = r.config.MinWpm
		}
		if wpm > r.config.MaxWpm {
			wpm = r.config.MaxWpm
		}
		r.config.Wpm = wpm
	}
	r.style = style
}

// ExportResumeState reports the reader's current reading position so a
// host loop can persist it. ok is false outside the Reading screen, since
// Library/Settings/navigation positions are not resumable states.
func (r *Reader) ExportResumeState() (ResumeState, bool) {
	if r.ui.kind != uiReading {
		return ResumeState{}, false
	}

	chapterIndex := r.currentChapterIndex()
	paragraphInChapter := r.content.ParagraphIndex()
	if paragraphInChapter > 0 {
		paragraphInChapter--
	}
	if chapter, ok := r.content.ChapterAt(chapterIndex); ok && paragraphInChapter >= chapter.StartParagraph {
		paragraphInChapter -= chapter.StartParagraph
	}

	return ResumeState{
		SelectedBook:       r.ui.selectedBook,
		ChapterIndex:       chapterIndex,
		ParagraphInChapter: paragraphInChapter,
		WordIndex:          r.paragraphWordIndex,
	}, true
}
