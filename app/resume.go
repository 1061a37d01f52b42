// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

// ResumeState is a persisted reading position, as bookdb reconstructs it
// from progress.bin on boot.
type ResumeState struct {
	SelectedBook       uint16
	ChapterIndex       uint16
	ParagraphInChapter uint16
	WordIndex          uint16
}

// ImportResumeState drops the reader directly into Reading{paused:true} at
// state, skipping Library and Countdown. A later caller (bookdb replaying
// both its manifest and a stale in-RAM progress snapshot) can call this
// more than once; priority breaks the tie, and a state with a priority
// lower than one already applied is ignored. It returns false if the
// content source rejects the selection (unknown book, chapter or
// paragraph index).
func (r *Reader) ImportResumeState(state ResumeState, priority uint8) bool {
	if r.resumeApplied && priority < r.lastResumePriority {
		return false
	}
	if err := r.content.SelectText(state.SelectedBook); err != nil {
		return false
	}
	if _, err := r.content.SeekChapter(state.ChapterIndex); err != nil {
		return false
	}

	target := state.ParagraphInChapter
	if chapter, ok := r.content.ChapterAt(state.ChapterIndex); ok {
		target = chapter.StartParagraph + state.ParagraphInChapter
	}
	if err := r.content.SeekParagraph(target); err != nil {
		return false
	}

	r.word.clear()
	r.paragraphWordIndex = 0
	r.paragraphWordTotal = 1
	r.lastEndsSentence = false
	r.lastEndsClause = false
	for i := uint16(0); i < state.WordIndex; i++ {
		if _, err := r.advanceWord(); err != nil {
			break
		}
	}

	r.resumeApplied = true
	r.lastResumePriority = priority

	r.enterReading(state.SelectedBook, 0)
	r.ui.readingPaused = true
	pausedMs := int64(0)
	r.pausedSinceMs = &pausedMs
	return true
}
