// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bookdb

import (
	"testing"

	"github.com/carlosgj94/rapid-reader/app"
	"github.com/carlosgj94/rapid-reader/catalog"
)

func TestManifestRoundTrips(t *testing.T) {
	want := Manifest{Entries: []ManifestEntry{
		{ShortName: "ALICE.EPU", DisplayTitle: "Alice in Wonderland", HasCover: true, ChapterTotal: 12, FirstResource: "OEBPS/ch01.xhtml", FirstOffset: 128, FirstChapterLabel: "Chapter 1"},
		{ShortName: "MOBY.EPU", DisplayTitle: "Moby Dick", ChapterTotal: 1, FirstResource: "OEBPS/text.xhtml", FirstChapterLabel: "Section"},
	}}

	got, ok, err := DecodeManifest(EncodeManifest(want))
	if err != nil {
		t.Fatalf("DecodeManifest: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if len(got.Entries) != len(want.Entries) {
		t.Fatalf("got %d entries, want %d", len(got.Entries), len(want.Entries))
	}
	for i := range want.Entries {
		if got.Entries[i] != want.Entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got.Entries[i], want.Entries[i])
		}
	}
}

func TestDecodeManifestDetectsCorruption(t *testing.T) {
	data := EncodeManifest(Manifest{Entries: []ManifestEntry{{ShortName: "A", DisplayTitle: "A", FirstResource: "r"}}})
	data[10] ^= 0xFF

	_, _, err := DecodeManifest(data)
	if err != ErrCorrupted {
		t.Fatalf("err = %v, want ErrCorrupted", err)
	}
}

func TestDecodeManifestRejectsUnknownMagic(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00, 1, 0, 0, 0}
	_, ok, err := DecodeManifest(data)
	if err != nil {
		t.Fatalf("DecodeManifest: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for an unrecognized magic")
	}
}

func TestProgressRoundTrips(t *testing.T) {
	want := Progress{
		LastOpenShortName: "ALICE.EPU",
		Entries: []ProgressEntry{
			{ShortName: "ALICE.EPU", ChapterIndex: 3, ParagraphInChapter: 2, WordIndex: 14},
			{ShortName: "MOBY.EPU", ChapterIndex: 0, ParagraphInChapter: 0, WordIndex: 1},
		},
	}

	got, ok, err := DecodeProgress(EncodeProgress(want))
	if err != nil {
		t.Fatalf("DecodeProgress: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if got.LastOpenShortName != want.LastOpenShortName {
		t.Errorf("LastOpenShortName = %q, want %q", got.LastOpenShortName, want.LastOpenShortName)
	}
	for i := range want.Entries {
		if got.Entries[i] != want.Entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got.Entries[i], want.Entries[i])
		}
	}
}

func TestSaveManifestThenLoadRoundTrips(t *testing.T) {
	storage := newFakeStorage()
	want := Manifest{Entries: []ManifestEntry{{ShortName: "A.EPU", DisplayTitle: "A", FirstResource: "r.xhtml"}}}

	if err := SaveManifest(storage, want); err != nil {
		t.Fatalf("SaveManifest: %v", err)
	}
	if _, ok := storage.files[ManifestFileName+".tmp"]; ok {
		t.Fatalf("temp file left behind after a successful save")
	}

	got, ok, err := LoadManifest(storage)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if !ok || len(got.Entries) != 1 || got.Entries[0] != want.Entries[0] {
		t.Fatalf("LoadManifest = %+v, %v, want %+v, true", got, ok, want)
	}
}

func TestSaveAtomicLeavesTargetUntouchedOnRenameFailure(t *testing.T) {
	storage := newFakeStorage()
	storage.files[ManifestFileName] = []byte("original")
	storage.failRenameTo = ManifestFileName

	err := SaveAtomic(storage, ManifestFileName, []byte("replacement"))
	if err == nil {
		t.Fatalf("expected an error from the simulated rename failure")
	}
	if string(storage.files[ManifestFileName]) != "original" {
		t.Fatalf("target file was modified despite the rename failing")
	}
}

func TestUpsertProgressReplacesExistingEntryCaseInsensitively(t *testing.T) {
	storage := newFakeStorage()
	if err := UpsertProgress(storage, "alice.epu", 1, 0, 5); err != nil {
		t.Fatalf("UpsertProgress: %v", err)
	}
	if err := UpsertProgress(storage, "ALICE.EPU", 2, 1, 9); err != nil {
		t.Fatalf("UpsertProgress: %v", err)
	}

	progress, ok, err := LoadProgress(storage)
	if err != nil || !ok {
		t.Fatalf("LoadProgress = %+v, %v, %v", progress, ok, err)
	}
	if len(progress.Entries) != 1 {
		t.Fatalf("expected the second upsert to replace, not append: got %d entries", len(progress.Entries))
	}
	if progress.Entries[0].ChapterIndex != 2 || progress.Entries[0].WordIndex != 9 {
		t.Fatalf("entry = %+v, want chapter 2 word 9", progress.Entries[0])
	}
	if progress.LastOpenShortName != "ALICE.EPU" {
		t.Fatalf("LastOpenShortName = %q, want ALICE.EPU", progress.LastOpenShortName)
	}
}

func TestMapProgressToResumePrefersLastOpenBook(t *testing.T) {
	states := []StreamState{{ShortName: "ALICE.EPU"}, {ShortName: "MOBY.EPU"}}
	progress := Progress{
		LastOpenShortName: "moby.epu",
		Entries: []ProgressEntry{
			{ShortName: "ALICE.EPU", ChapterIndex: 1, WordIndex: 3},
			{ShortName: "MOBY.EPU", ChapterIndex: 4, ParagraphInChapter: 1, WordIndex: 7},
		},
	}

	resume, ok := MapProgressToResume(states, progress)
	if !ok {
		t.Fatalf("expected ok=true")
	}
	want := app.ResumeState{SelectedBook: 1, ChapterIndex: 4, ParagraphInChapter: 1, WordIndex: 7}
	if resume != want {
		t.Fatalf("resume = %+v, want %+v", resume, want)
	}
}

func TestMapProgressToResumeFallsBackToFirstEntry(t *testing.T) {
	states := []StreamState{{ShortName: "MOBY.EPU"}}
	progress := Progress{Entries: []ProgressEntry{{ShortName: "MOBY.EPU", WordIndex: 0}}}

	resume, ok := MapProgressToResume(states, progress)
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if resume.WordIndex != 1 {
		t.Fatalf("WordIndex = %d, want 1 (a zero index is floored to 1)", resume.WordIndex)
	}
}

func TestMapProgressToResumeRejectsBookNotInStates(t *testing.T) {
	states := []StreamState{{ShortName: "ALICE.EPU"}}
	progress := Progress{Entries: []ProgressEntry{{ShortName: "UNKNOWN.EPU"}}}

	if _, ok := MapProgressToResume(states, progress); ok {
		t.Fatalf("expected ok=false when the progress entry names an unknown book")
	}
}

func TestMapProgressToResumeEmptyProgress(t *testing.T) {
	if _, ok := MapProgressToResume(nil, Progress{}); ok {
		t.Fatalf("expected ok=false for empty progress")
	}
}

func TestTryLoadCatalogFromDBRejectsManifestWithEmptyResource(t *testing.T) {
	storage := newFakeStorage()
	manifest := Manifest{Entries: []ManifestEntry{{ShortName: "A", DisplayTitle: "A", FirstResource: ""}}}
	if err := SaveManifest(storage, manifest); err != nil {
		t.Fatalf("SaveManifest: %v", err)
	}

	content := catalog.NewSource()
	_, ok, err := TryLoadCatalogFromDB(storage, content)
	if err != nil {
		t.Fatalf("TryLoadCatalogFromDB: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for a manifest with an empty first_resource")
	}
}

func TestTryLoadCatalogFromDBSeedsStreamSlots(t *testing.T) {
	storage := newFakeStorage()
	manifest := Manifest{Entries: []ManifestEntry{
		{ShortName: "ALICE.EPU", DisplayTitle: "Alice in Wonderland", HasCover: true, ChapterTotal: 5, FirstResource: "OEBPS/ch01.xhtml", FirstChapterLabel: "Chapter 1"},
	}}
	if err := SaveManifest(storage, manifest); err != nil {
		t.Fatalf("SaveManifest: %v", err)
	}

	content := catalog.NewSource()
	states, ok, err := TryLoadCatalogFromDB(storage, content)
	if err != nil || !ok {
		t.Fatalf("TryLoadCatalogFromDB = %v, %v", ok, err)
	}
	if len(states) != 1 || states[0].ShortName != "ALICE.EPU" {
		t.Fatalf("states = %+v", states)
	}
	if title, ok := content.TitleAt(0); !ok || title != "Alice in Wonderland" {
		t.Fatalf("TitleAt(0) = %q, %v", title, ok)
	}
	if !content.HasCoverAt(0) {
		t.Fatalf("expected HasCoverAt(0) = true")
	}
	if count := content.ChapterCount(); count != 5 {
		t.Fatalf("ChapterCount() = %d, want 5", count)
	}
}

func TestBuildBookDBFromRuntimeThenFastLoadRoundTrips(t *testing.T) {
	storage := newFakeStorage()
	content := catalog.NewSource()
	content.SetCatalogEntriesFromIter([]catalog.CatalogEntry{
		{Title: "Alice in Wonderland", HasCover: true},
	})
	if err := content.SetCatalogTextChunkFromBytes(0, []byte("Hello there.\n"), false, "OEBPS/ch01.xhtml"); err != nil {
		t.Fatalf("SetCatalogTextChunkFromBytes: %v", err)
	}

	states := []StreamState{{ShortName: "ALICE.EPU", TextResource: "OEBPS/ch01.xhtml", Ready: true}}
	if err := BuildBookDBFromRuntime(storage, content, states); err != nil {
		t.Fatalf("BuildBookDBFromRuntime: %v", err)
	}

	fresh := catalog.NewSource()
	loadedStates, resume, hasResume, ok, err := FastLoad(storage, fresh)
	if err != nil {
		t.Fatalf("FastLoad: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if hasResume {
		t.Fatalf("expected hasResume=false with no progress file saved yet")
	}
	if len(loadedStates) != 1 || loadedStates[0].ShortName != "ALICE.EPU" {
		t.Fatalf("loadedStates = %+v", loadedStates)
	}
	_ = resume

	if ok := SaveResumeToDB(storage, app.ResumeState{SelectedBook: 0, ChapterIndex: 0, ParagraphInChapter: 0, WordIndex: 2}, loadedStates); !ok {
		t.Fatalf("SaveResumeToDB returned false")
	}

	_, resume2, hasResume2, ok2, err := FastLoad(storage, catalog.NewSource())
	if err != nil || !ok2 {
		t.Fatalf("FastLoad after save = %v, %v", ok2, err)
	}
	if !hasResume2 {
		t.Fatalf("expected hasResume=true after SaveResumeToDB")
	}
	if resume2.SelectedBook != 0 || resume2.WordIndex != 2 {
		t.Fatalf("resume2 = %+v", resume2)
	}
}

func TestBuildBookDBFromRuntimeSkipsEmptyStates(t *testing.T) {
	storage := newFakeStorage()
	content := catalog.NewSource()
	if err := BuildBookDBFromRuntime(storage, content, nil); err != nil {
		t.Fatalf("BuildBookDBFromRuntime: %v", err)
	}
	if _, ok := storage.files[ManifestFileName]; ok {
		t.Fatalf("expected no manifest written for an empty state list")
	}
}
