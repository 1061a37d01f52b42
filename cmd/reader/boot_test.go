// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/carlosgj94/rapid-reader/app"
	"github.com/carlosgj94/rapid-reader/bookdb"
	"github.com/carlosgj94/rapid-reader/catalog"
	"github.com/carlosgj94/rapid-reader/loading"
	"github.com/carlosgj94/rapid-reader/render"
	"github.com/carlosgj94/rapid-reader/settings"
)

// memStorage is an in-memory bookdb.Storage, so boot tests never touch a
// real filesystem beyond the t.TempDir directories the BOOKS-scan cases use.
type memStorage struct {
	files map[string][]byte
}

func newMemStorage() *memStorage { return &memStorage{files: map[string][]byte{}} }

func (m *memStorage) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, bookdb.ErrNotExist
	}
	return data, nil
}

func (m *memStorage) WriteFile(path string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.files[path] = cp
	return nil
}

func (m *memStorage) Rename(oldPath, newPath string) error {
	data, ok := m.files[oldPath]
	if !ok {
		return bookdb.ErrNotExist
	}
	m.files[newPath] = data
	delete(m.files, oldPath)
	return nil
}

func noopReport(string, int) {}

func TestRunBootColdBootMissingDirectoryFallsBackWithNothingToLoad(t *testing.T) {
	storage := newMemStorage()
	boot := runBoot(loading.ColdBoot, filepath.Join(t.TempDir(), "does-not-exist"), storage, nil, noopReport)

	if boot.shelf != nil {
		t.Fatalf("shelf = %v, want nil after a failed scan", boot.shelf)
	}
	if boot.hasResume {
		t.Fatalf("hasResume = true, want false with an empty manifest")
	}
	if boot.hasPersisted {
		t.Fatalf("hasPersisted = true, want false with a nil settings store")
	}
}

func TestRunBootColdBootEmptyDirectoryFallsBack(t *testing.T) {
	dir := t.TempDir()
	storage := newMemStorage()
	boot := runBoot(loading.ColdBoot, dir, storage, nil, noopReport)

	if boot.shelf != nil {
		t.Fatalf("shelf = %v, want nil when the directory has no EPUBs", boot.shelf)
	}
	if boot.hasResume {
		t.Fatalf("hasResume = true, want false")
	}
}

func TestRunBootColdBootRejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	storage := newMemStorage()
	boot := runBoot(loading.ColdBoot, file, storage, nil, noopReport)
	if boot.shelf != nil {
		t.Fatalf("shelf = %v, want nil when booksDir is a file", boot.shelf)
	}
}

func TestRunBootWakeFromDeepSleepUsesCachedManifestWithoutScanning(t *testing.T) {
	storage := newMemStorage()
	content := catalog.NewSource()
	states := []bookdb.StreamState{{ShortName: "book-a", TextResource: "OEBPS/ch1.xhtml"}}
	if err := bookdb.BuildBookDBFromRuntime(storage, content, states); err != nil {
		t.Fatalf("BuildBookDBFromRuntime: %v", err)
	}
	resume := app.ResumeState{SelectedBook: 0, ChapterIndex: 0, ParagraphInChapter: 2, WordIndex: 5}
	if ok := bookdb.SaveResumeToDB(storage, resume, states); !ok {
		t.Fatalf("SaveResumeToDB: want ok")
	}

	boot := runBoot(loading.WakeFromDeepSleep, "unused-on-wake", storage, nil, noopReport)

	if boot.shelf != nil {
		t.Fatalf("shelf = %v, want nil: a wake never scans", boot.shelf)
	}
	if !boot.hasResume {
		t.Fatalf("hasResume = false, want true from the cached manifest+progress")
	}
	if boot.resume.ParagraphInChapter != 2 || boot.resume.WordIndex != 5 {
		t.Fatalf("resume = %+v, want ParagraphInChapter=2 WordIndex=5", boot.resume)
	}
	if len(boot.states) != 1 || boot.states[0].ShortName != "book-a" {
		t.Fatalf("states = %+v, want the cached manifest's single entry", boot.states)
	}
}

func TestRunBootLoadsPersistedSettingsWhenStoreHasOne(t *testing.T) {
	storage := newMemStorage()
	flash := newMemFlash()
	store, err := settings.New(flash, singlePartitionTable{size: settingsFlashSize})
	if err != nil {
		t.Fatalf("settings.New: %v", err)
	}
	want := settings.PersistedSettings{Wpm: 340, Style: render.VisualStyle{Family: render.FontPixel, Size: render.SizeLarge, Invert: true}}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	boot := runBoot(loading.WakeFromDeepSleep, "unused-on-wake", storage, store, noopReport)
	if !boot.hasPersisted {
		t.Fatalf("hasPersisted = false, want true")
	}
	if boot.persisted != want {
		t.Fatalf("persisted = %+v, want %+v", boot.persisted, want)
	}
}

// memFlash is an in-memory settings.FlashDevice, word-addressable over a
// byte slice, so settings.New/Store.Load/Save can run without fileFlash's
// real file I/O.
type memFlash struct {
	bytes [settingsFlashSize]byte
}

func newMemFlash() *memFlash {
	f := &memFlash{}
	for i := range f.bytes {
		f.bytes[i] = 0xFF
	}
	return f
}

func (f *memFlash) EraseSector(addr uint32) error {
	for i := uint32(0); i < 4096 && addr+i < settingsFlashSize; i++ {
		f.bytes[addr+i] = 0xFF
	}
	return nil
}

func (f *memFlash) ReadWord(addr uint32) (uint32, error) {
	b := f.bytes[addr : addr+4]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func (f *memFlash) WriteWord(addr uint32, word uint32) error {
	f.bytes[addr] = byte(word)
	f.bytes[addr+1] = byte(word >> 8)
	f.bytes[addr+2] = byte(word >> 16)
	f.bytes[addr+3] = byte(word >> 24)
	return nil
}
