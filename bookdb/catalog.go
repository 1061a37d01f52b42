// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bookdb

import (
	"github.com/carlosgj94/rapid-reader/catalog"
)

// StreamState is the in-memory counterpart to a ManifestEntry: which SD
// resource each catalog slot is currently streaming from, and how far into
// it. cmd/reader keeps one of these per slot to drive refills; bookdb only
// reads the fields it needs to save or match against progress.
type StreamState struct {
	ShortName     string
	TextResource  string
	NextOffset    uint32
	EndOfResource bool
	Ready         bool
}

// CatalogLoader is the subset of catalog.Source TryLoadCatalogFromDB seeds.
type CatalogLoader interface {
	SetCatalogEntriesFromIter(entries []catalog.CatalogEntry) catalog.LoadResult
	SetCatalogTextChunkFromBytes(index uint16, data []byte, terminal bool, resourcePath string) error
	SetCatalogStreamChapterMetadata(index uint16, chapterIndex, chapterTotal uint16, label string) error
}

// TryLoadCatalogFromDB loads the saved manifest and, if it is usable, seeds
// content with one stream-mode slot per entry plus a matching StreamState,
// so cmd/reader can start refilling immediately without an SD scan. ok is
// false when there is no manifest, it fails to decode, or any entry is
// missing its first resource (an empty first_resource means the entry was
// never filled in correctly, so the whole manifest is untrusted), and the
// caller should fall back to a fresh scan.
func TryLoadCatalogFromDB(storage Storage, content CatalogLoader) (states []StreamState, ok bool, err error) {
	manifest, found, err := LoadManifest(storage)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	for _, e := range manifest.Entries {
		if e.FirstResource == "" {
			return nil, false, nil
		}
	}

	entries := make([]catalog.CatalogEntry, len(manifest.Entries))
	for i, e := range manifest.Entries {
		entries[i] = catalog.CatalogEntry{Title: e.DisplayTitle, HasCover: e.HasCover}
	}
	load := content.SetCatalogEntriesFromIter(entries)
	if load.Loaded == 0 {
		return nil, false, nil
	}

	states = make([]StreamState, 0, load.Loaded)
	for i := uint16(0); i < load.Loaded; i++ {
		e := manifest.Entries[i]

		chapterTotal := e.ChapterTotal
		if chapterTotal == 0 {
			chapterTotal = 1
		}
		_ = content.SetCatalogTextChunkFromBytes(i, nil, false, e.FirstResource)
		_ = content.SetCatalogStreamChapterMetadata(i, 0, chapterTotal, e.FirstChapterLabel)

		states = append(states, StreamState{
			ShortName:    e.ShortName,
			TextResource: e.FirstResource,
			NextOffset:   e.FirstOffset,
			Ready:        e.FirstResource != "",
		})
	}

	return states, true, nil
}

// BuildBookDBFromRuntime captures the scanned titles and stream states into
// a manifest and saves it, so the next boot can skip the SD scan via
// TryLoadCatalogFromDB. Each entry always starts its next fast-load at
// chapter 0, offset 0 ("Section"); it records where in the book to *begin*
// streaming, not the reader's current position, which progress.bin tracks
// separately.
func BuildBookDBFromRuntime(storage Storage, content catalog.TextCatalog, states []StreamState) error {
	entries := make([]ManifestEntry, 0, len(states))
	for i, state := range states {
		title, ok := content.TitleAt(uint16(i))
		if !ok {
			title = "Untitled"
		}
		entries = append(entries, ManifestEntry{
			ShortName:         state.ShortName,
			DisplayTitle:      title,
			HasCover:          content.HasCoverAt(uint16(i)),
			ChapterTotal:      1,
			FirstResource:     state.TextResource,
			FirstOffset:       0,
			FirstChapterLabel: "Section",
		})
	}

	if len(entries) == 0 {
		return nil
	}
	return SaveManifest(storage, Manifest{Entries: entries})
}
