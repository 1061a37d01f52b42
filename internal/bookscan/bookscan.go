// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bookscan is the cold-boot counterpart to bookdb.FastLoad: it
// walks the BOOKS directory on the mounted SD card, opens every EPUB it
// finds as an epub.Archive, and turns each one's spine into a sequence of
// catalog stream chapters. Where FastLoad replays a saved manifest, Shelf
// builds the equivalent state from scratch so cmd/reader can hand it
// straight to bookdb.BuildBookDBFromRuntime once the scan succeeds.
package bookscan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/carlosgj94/rapid-reader/bookdb"
	"github.com/carlosgj94/rapid-reader/catalog"
	"github.com/carlosgj94/rapid-reader/epub"
)

const (
	containerPath    = "META-INF/container.xml"
	metadataReadCap  = 64 * 1024
	refillChunkBytes = catalog.TextBytes
)

// book is one opened EPUB and its spine-derived streaming position. Unlike
// catalog.Source's own per-slot bookkeeping, chapterIndex/offset here track
// where bookscan itself last read from, so it can tell a chapter seek
// (content.CurrentChapterIndex() jumping) apart from an in-place
// continuation.
type book struct {
	file      *os.File
	archive   *epub.Archive
	shortName string
	spine     []epub.SpineItem

	chapterIndex int
	offset       uint32
}

// Shelf is a scanned BOOKS directory: one book per catalog slot, in scan
// order.
type Shelf struct {
	books []*book
}

// Len returns the number of books the scan kept.
func (s *Shelf) Len() int { return len(s.books) }

// Close releases every open book file. cmd/reader calls this before
// re-scanning or on shutdown.
func (s *Shelf) Close() {
	for _, b := range s.books {
		_ = b.file.Close()
	}
}

// ScanDir opens every *.epub file directly inside dir (case-insensitive,
// non-recursive, matching the BOOKS/ folder's flat layout) and returns a
// Shelf plus the catalog entries it seeds. A book that fails to parse is
// skipped rather than aborting the whole scan; only the directory itself
// being unreadable is a hard error, matching "BOOKS folder missing" being
// the sole scan-level fallback trigger.
func ScanDir(dir string) (*Shelf, []catalog.CatalogEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !strings.EqualFold(filepath.Ext(de.Name()), ".epub") {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)

	shelf := &Shelf{}
	entries := make([]catalog.CatalogEntry, 0, len(names))
	for _, name := range names {
		if len(entries) >= catalog.MaxTitles {
			break
		}
		b, entry, ok := openBook(filepath.Join(dir, name), name)
		if !ok {
			continue
		}
		shelf.books = append(shelf.books, b)
		entries = append(entries, entry)
	}
	return shelf, entries, nil
}

func openBook(path, shortName string) (*book, catalog.CatalogEntry, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, catalog.CatalogEntry{}, false
	}
	ok := false
	defer func() {
		if !ok {
			_ = f.Close()
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, catalog.CatalogEntry{}, false
	}
	archive, err := epub.OpenArchive(f, info.Size())
	if err != nil {
		return nil, catalog.CatalogEntry{}, false
	}

	containerEntry, found := archive.ByName(containerPath)
	if !found {
		return nil, catalog.CatalogEntry{}, false
	}
	containerData, err := readEntryFull(archive, containerEntry)
	if err != nil {
		return nil, catalog.CatalogEntry{}, false
	}
	root, found := epub.ParseContainer(containerData)
	if !found {
		return nil, catalog.CatalogEntry{}, false
	}

	opfEntry, found := archive.ByName(root.FullPath)
	if !found {
		return nil, catalog.CatalogEntry{}, false
	}
	opfData, err := readEntryFull(archive, opfEntry)
	if err != nil {
		return nil, catalog.CatalogEntry{}, false
	}

	opfDir := ""
	if i := strings.LastIndexByte(root.FullPath, '/'); i >= 0 {
		opfDir = root.FullPath[:i]
	}
	meta := epub.ParseOPF(opfData, opfDir)
	spine := epub.ParseSpine(opfData, opfDir)
	if len(spine) == 0 {
		return nil, catalog.CatalogEntry{}, false
	}

	title := meta.Title
	if title == "" {
		if derived, _ := catalog.TitleFromFileName(shortName); derived != "" {
			title = derived
		} else {
			title = shortName
		}
	}

	ok = true
	return &book{file: f, archive: archive, shortName: shortName, spine: spine},
		catalog.CatalogEntry{Title: title, HasCover: meta.HasCover},
		true
}

// readEntryFull reads an entry in full, up to metadataReadCap bytes. It is
// only used for the small XML metadata files (container.xml, the OPF
// document); book body text is always streamed through Refill instead.
func readEntryFull(a *epub.Archive, e *epub.Entry) ([]byte, error) {
	size := int(e.UncompressedSize)
	if size > metadataReadCap {
		size = metadataReadCap
	}
	buf := make([]byte, size)
	offset := 0
	for offset < size {
		n, end, err := a.ReadChunk(e, uint32(offset), buf[offset:])
		if err != nil {
			return nil, err
		}
		offset += n
		if end || n == 0 {
			break
		}
	}
	return buf[:offset], nil
}

// StreamStates returns the initial StreamState for every scanned book: its
// first spine resource at offset 0. It is meant to be called once, right
// after a successful scan, and handed to bookdb.BuildBookDBFromRuntime.
func (s *Shelf) StreamStates() []bookdb.StreamState {
	states := make([]bookdb.StreamState, len(s.books))
	for i, b := range s.books {
		states[i] = bookdb.StreamState{
			ShortName:    b.shortName,
			TextResource: b.spine[0].Path,
			NextOffset:   0,
			Ready:        true,
		}
	}
	return states
}

// SeedCatalog puts every scanned book's catalog slot into stream mode at
// its first chapter, ahead of Refill ever being called, the same way
// bookdb.TryLoadCatalogFromDB seeds a fast-loaded manifest.
func (s *Shelf) SeedCatalog(content catalog.RefillSource) error {
	for i, b := range s.books {
		resource := b.spine[0]
		if err := content.SetCatalogTextChunkFromBytes(uint16(i), nil, false, resource.Path); err != nil {
			return err
		}
		label := catalog.ChapterLabelFromResource(resource.Path)
		if err := content.SetCatalogStreamChapterMetadata(uint16(i), 0, uint16(len(b.spine)), label); err != nil {
			return err
		}
	}
	return nil
}

// RefillTarget is the catalog surface Refill drives: uploading the next
// chunk, plus reading back which chapter is currently selected so Refill
// can tell a chapter seek apart from an in-place continuation.
type RefillTarget interface {
	catalog.RefillSource
	CurrentChapterIndex() (uint16, bool)
}

// Refill satisfies one pending refill for the book at index: if
// content's current chapter differs from where this book last left off,
// it treats that as a seek and restarts at that chapter's first byte;
// otherwise it continues reading from its last offset. A chunk that
// reaches the end of the chapter's resource is uploaded with terminal set,
// so catalog stops requesting more until the next chapter is selected.
func (s *Shelf) Refill(content RefillTarget, index uint16) error {
	if int(index) >= len(s.books) {
		return fmt.Errorf("bookscan: index %d out of range", index)
	}
	b := s.books[index]

	if target, ok := content.CurrentChapterIndex(); ok && int(target) != b.chapterIndex {
		b.chapterIndex = int(target)
		b.offset = 0
	}
	if b.chapterIndex < 0 {
		b.chapterIndex = 0
	}
	if b.chapterIndex >= len(b.spine) {
		b.chapterIndex = len(b.spine) - 1
	}

	resource := b.spine[b.chapterIndex]
	entry, found := b.archive.ByName(resource.Path)
	if !found {
		return content.SetCatalogTextChunkFromBytes(index, nil, true, resource.Path)
	}

	buf := make([]byte, refillChunkBytes)
	n, end, err := b.archive.ReadChunk(entry, b.offset, buf)
	if err != nil {
		return err
	}
	b.offset += uint32(n)
	return content.SetCatalogTextChunkFromBytes(index, buf[:n], end, resource.Path)
}
