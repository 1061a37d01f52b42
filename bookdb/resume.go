// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bookdb

import "github.com/carlosgj94/rapid-reader/app"

// MapProgressToResume picks which saved progress entry to resume from and
// translates it to an app.ResumeState: prefer the entry whose short name
// matches progress.LastOpenShortName case-insensitively, else fall back to
// the first entry. The match only counts if that short name is also present
// in states, the currently loaded stream list, since a stale progress file
// may reference a book no longer on the card.
func MapProgressToResume(states []StreamState, progress Progress) (app.ResumeState, bool) {
	if len(progress.Entries) == 0 {
		return app.ResumeState{}, false
	}

	entry := progress.Entries[0]
	if progress.LastOpenShortName != "" {
		for _, e := range progress.Entries {
			if equalFoldASCII(e.ShortName, progress.LastOpenShortName) {
				entry = e
				break
			}
		}
	}

	for i, state := range states {
		if !equalFoldASCII(state.ShortName, entry.ShortName) {
			continue
		}
		wordIndex := entry.WordIndex
		if wordIndex < 1 {
			wordIndex = 1
		}
		return app.ResumeState{
			SelectedBook:       uint16(i),
			ChapterIndex:       entry.ChapterIndex,
			ParagraphInChapter: entry.ParagraphInChapter,
			WordIndex:          wordIndex,
		}, true
	}
	return app.ResumeState{}, false
}

// LoadResumeFromDB loads progress.bin and maps it to a resume state against
// the currently loaded stream states. ok is false when there is no usable
// progress file or it names no book present in states.
func LoadResumeFromDB(storage Storage, states []StreamState) (app.ResumeState, bool, error) {
	progress, ok, err := LoadProgress(storage)
	if err != nil || !ok {
		return app.ResumeState{}, false, err
	}
	resume, ok := MapProgressToResume(states, progress)
	return resume, ok, nil
}

// SaveResumeToDB upserts resume into the progress file, keyed by the short
// name of the stream state resume.SelectedBook refers to. It reports false
// without writing if SelectedBook is out of range for states.
func SaveResumeToDB(storage Storage, resume app.ResumeState, states []StreamState) bool {
	idx := int(resume.SelectedBook)
	if idx < 0 || idx >= len(states) {
		return false
	}
	state := states[idx]

	if err := UpsertProgress(storage, state.ShortName, resume.ChapterIndex, resume.ParagraphInChapter, resume.WordIndex); err != nil {
		return false
	}
	return true
}

// FastLoad is the cold-boot fast path: it tries to seed content straight
// from the saved manifest and, if that succeeds, also resolves a resume
// state from the saved progress. ok is false whenever TryLoadCatalogFromDB
// falls through, telling the caller to run a full SD scan instead.
func FastLoad(storage Storage, content CatalogLoader) (states []StreamState, resume app.ResumeState, hasResume bool, ok bool, err error) {
	states, ok, err = TryLoadCatalogFromDB(storage, content)
	if err != nil || !ok {
		return nil, app.ResumeState{}, false, false, err
	}

	resume, hasResume, err = LoadResumeFromDB(storage, states)
	if err != nil {
		return states, app.ResumeState{}, false, true, nil
	}
	return states, resume, hasResume, true, nil
}
