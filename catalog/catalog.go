// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package catalog is the reader's content source: a fixed-capacity table of
// per-book "slots", each either backed by a static fallback text or by a
// streaming window fed from the epub package. It implements the word,
// navigation and title interfaces app consumes, and owns the refill
// protocol app and cmd/reader use to keep a slot's streaming window full
// without blocking the render path.
package catalog

import (
	"errors"
	"strings"

	"github.com/carlosgj94/rapid-reader/epub/sanitize"
)

const (
	// MaxTitles is the catalog's slot capacity.
	MaxTitles = 16
	// TitleBytes bounds a display title or chapter label.
	TitleBytes = 48
	// TextBytes bounds a slot's current streaming text chunk.
	TextBytes = 480
	// PathBytes bounds a slot's current streaming resource path.
	PathBytes = 192
	// TailBytes bounds the sanitizer's cross-chunk continuation tail.
	TailBytes = 96

	// ParagraphsPerChapter groups static-mode paragraphs into synthetic
	// chapters for the navigation UI.
	ParagraphsPerChapter = 2

	chapterLabelWords = 6

	noChapterSeekTarget = 0xFFFF
)

// Token is one word emitted by NextWord.
type Token struct {
	Text         string
	EndsSentence bool
	EndsClause   bool
}

// ChapterInfo is coarse navigation metadata for one chapter.
type ChapterInfo struct {
	Label          string
	StartParagraph uint16
	ParagraphCount uint16
}

// CatalogEntry seeds one title when the SD scan (or a test) populates the
// catalog.
type CatalogEntry struct {
	Title    string
	HasCover bool
}

// LoadResult reports how many entries a catalog load kept.
type LoadResult struct {
	Loaded    uint16
	Truncated bool
}

// ErrInvalidTextIndex, ErrInvalidParagraphIndex and ErrInvalidChapterIndex
// are returned by the navigation operations that take caller-supplied
// indices.
var (
	ErrInvalidTextIndex      = errors.New("catalog: invalid text index")
	ErrInvalidParagraphIndex = errors.New("catalog: invalid paragraph index")
	ErrInvalidChapterIndex   = errors.New("catalog: invalid chapter index")
)

// WordSource is the minimal contract app needs to pull RSVP tokens.
type WordSource interface {
	Reset() error
	NextWord() (Token, bool, error)
	ParagraphProgress() (wordIndex, wordTotal uint16)
	ParagraphIndex() uint16
	ParagraphTotal() uint16
	IsWaitingForRefill() bool
}

// SelectableWordSource lets a caller switch which catalog title is active.
type SelectableWordSource interface {
	WordSource
	SelectText(index uint16) error
	SelectedIndex() uint16
}

// ParagraphNavigator lets a caller jump to a paragraph boundary.
type ParagraphNavigator interface {
	WordSource
	SeekParagraph(paragraphIndex uint16) error
}

// NavigationCatalog exposes chapter-level structure over the selected
// text.
type NavigationCatalog interface {
	WordSource
	ChapterCount() uint16
	ChapterAt(index uint16) (ChapterInfo, bool)
	CurrentChapterIndex() (uint16, bool)
	SeekChapter(chapterIndex uint16) (bool, error)
	ChapterDataReady(chapterIndex uint16) bool
	ParagraphPreview(paragraphIndex uint16) (string, bool)
}

// TextCatalog is the read-only list of available titles.
type TextCatalog interface {
	TitleCount() uint16
	TitleAt(index uint16) (string, bool)
	HasCoverAt(index uint16) bool
}

// slot holds one book's catalog entry. It is either in stream mode,
// backed by the epub package, or static, serving fallbackParagraphs; the
// streaming bool is the sole discriminator, matching the collapsed
// (non-parallel-array) Open Question resolution recorded in DESIGN.md.
type slot struct {
	title    [TitleBytes]byte
	titleLen int
	hasCover bool

	chunk    [TextBytes]byte
	chunkLen int

	streaming     bool
	streamEnd     bool
	terminal      bool
	chapterIndex  uint16
	chapterTotal  uint16
	chapterLabel  [TitleBytes]byte
	chapterLabLen int

	html sanitize.State
	tail [TailBytes]byte
	tailLen int

	refillRequested bool
	seekTarget      uint16

	path    [PathBytes]byte
	pathLen int
}

func (s *slot) setTitle(title string) bool {
	return setFixed(s.title[:], &s.titleLen, title)
}

func (s *slot) titleStr() string { return string(s.title[:s.titleLen]) }

func (s *slot) setChapterLabel(label string) bool {
	return setFixed(s.chapterLabel[:], &s.chapterLabLen, label)
}

func (s *slot) chapterLabelStr() string {
	if s.chapterLabLen == 0 {
		return "Section"
	}
	return string(s.chapterLabel[:s.chapterLabLen])
}

func (s *slot) setPath(path string) bool {
	return setFixed(s.path[:], &s.pathLen, path)
}

func (s *slot) pathStr() string { return string(s.path[:s.pathLen]) }

func (s *slot) setChunk(chunk string) bool {
	return setFixed(s.chunk[:], &s.chunkLen, chunk)
}

func (s *slot) chunkStr() string { return strings.TrimSpace(string(s.chunk[:s.chunkLen])) }

func (s *slot) clearChunk() { s.chunkLen = 0 }

func (s *slot) reset() {
	*s = slot{}
	s.streamEnd = true
	s.terminal = true
	s.chapterTotal = 1
	s.seekTarget = noChapterSeekTarget
}

// setFixed copies src into buf truncated to len(buf), reporting whether it
// truncated.
func setFixed(buf []byte, length *int, src string) bool {
	truncated := false
	if len(src) > len(buf) {
		src = src[:len(buf)]
		truncated = true
	}
	n := copy(buf, src)
	*length = n
	return truncated
}

// Source is the catalog's concrete implementation, backing all of
// WordSource, SelectableWordSource, ParagraphNavigator, NavigationCatalog
// and TextCatalog.
type Source struct {
	slots        [MaxTitles]slot
	count        int
	selectedBook int

	paragraphIndex     int
	paragraphCursor    int
	paragraphWordIndex uint16
	paragraphWordTotal uint16

	waitingForRefill bool

	fallback [MaxTitles][]string
}

// NewSource returns a catalog seeded with the built-in placeholder titles,
// matching what cmd/reader shows before an SD scan completes. Slot 0 is
// given its full static fallback text so the reader is usable with no SD
// card at all; the remaining default titles are placeholders awaiting a
// real SD scan.
func NewSource() *Source {
	s := &Source{}
	s.resetCatalogTitlesToDefaults()
	s.paragraphWordTotal = s.computeCurrentWordTotal()
	return s
}

func (s *Source) resetCatalogTitlesToDefaults() {
	s.clearCatalogState()
	for _, title := range []string{"Don Quijote", "Alice in Wonderland", "Moby Dick"} {
		s.pushCatalogTitleVerbatim(title, false)
	}
	s.fallback[0] = donQuijoteParagraphs
}

func (s *Source) clearCatalogState() {
	s.slots = [MaxTitles]slot{}
	s.count = 0
	s.waitingForRefill = false
	s.fallback = [MaxTitles][]string{}
}

// SetCatalogEntriesFromIter replaces the entire catalog with entries,
// as a cold-boot SD scan would. Titles are kept verbatim (already
// display-cased by the scan); entries beyond MaxTitles are dropped and
// reported via LoadResult.Truncated.
func (s *Source) SetCatalogEntriesFromIter(entries []CatalogEntry) LoadResult {
	s.clearCatalogState()
	truncated := false
	for _, e := range entries {
		if s.count >= MaxTitles {
			truncated = true
			break
		}
		if e.Title == "" {
			continue
		}
		if s.pushCatalogTitleVerbatim(e.Title, e.HasCover) {
			truncated = true
		}
	}
	return s.finalizeCatalogLoad(truncated)
}

// SetCatalogTitlesFromFileNames is the variant a cold-boot SD scan calls
// with raw SD short file names; each is title-cased the way
// push_catalog_title does in the original source (strip extension, fold
// separators to spaces, capitalize word starts).
func (s *Source) SetCatalogTitlesFromFileNames(fileNames []string) LoadResult {
	s.clearCatalogState()
	truncated := false
	for _, name := range fileNames {
		if s.count >= MaxTitles {
			truncated = true
			break
		}
		if name == "" {
			continue
		}
		if s.pushCatalogTitle(name, false) {
			truncated = true
		}
	}
	return s.finalizeCatalogLoad(truncated)
}

func (s *Source) finalizeCatalogLoad(truncated bool) LoadResult {
	if s.selectedBook >= s.count {
		s.selectedBook = 0
	}
	s.resetReadPointer()
	return LoadResult{Loaded: uint16(s.count), Truncated: truncated}
}

// TitleFromFileName derives a display title from a raw file name the same
// way a cold-boot SD scan titles an entry with no OPF metadata: strip the
// extension, fold '_'/'-' to spaces, and capitalize each word's first
// letter while lowercasing the rest.
func TitleFromFileName(name string) (string, bool) {
	stem := name
	if i := strings.LastIndex(stem, "."); i >= 0 {
		stem = stem[:i]
	}
	stem = strings.TrimSpace(stem)
	return titleCaseStem(stem, TitleBytes)
}

func (s *Source) pushCatalogTitleVerbatim(title string, hasCover bool) bool {
	truncated := setFixedRunes(TitleBytes, title)
	return s.pushCatalogEntry(clipRunes(title, TitleBytes), hasCover) || truncated
}

// pushCatalogTitle derives a display title from a raw file stem: strips
// the extension, folds '_'/'-' to spaces, and capitalizes the first
// letter of each word while lowercasing the rest.
func (s *Source) pushCatalogTitle(title string, hasCover bool) bool {
	label, truncated := TitleFromFileName(title)
	if label == "" {
		return s.pushCatalogTitleVerbatim(title, hasCover)
	}
	return s.pushCatalogEntry(label, hasCover) || truncated
}

func (s *Source) pushCatalogEntry(label string, hasCover bool) bool {
	if s.count >= MaxTitles {
		return true
	}
	sl := &s.slots[s.count]
	sl.reset()
	truncated := sl.setTitle(label)
	sl.hasCover = hasCover
	sl.setChapterLabel("Section")
	s.count++
	return truncated
}

// titleCaseStem implements the push_catalog_title heuristic: '_'/'-' fold
// to spaces, runs of spaces collapse, and each word's first letter is
// capitalized with the rest lowercased; non-letters pass through as-is.
func titleCaseStem(stem string, maxBytes int) (string, bool) {
	var b strings.Builder
	wordStart := true
	wroteAny := false
	truncated := false

	for _, r := range stem {
		c := r
		if c == '_' || c == '-' {
			c = ' '
		}
		if c == ' ' {
			if !wroteAny || wordStart {
				continue
			}
			if b.Len()+1 > maxBytes {
				truncated = true
				break
			}
			b.WriteByte(' ')
			wordStart = true
			continue
		}

		var out rune
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			if wordStart {
				out = toUpperASCII(c)
			} else {
				out = toLowerASCII(c)
			}
		default:
			out = c
		}
		if b.Len()+len(string(out)) > maxBytes {
			truncated = true
			break
		}
		b.WriteRune(out)
		wroteAny = true
		wordStart = false
	}
	return b.String(), truncated
}

func toUpperASCII(c rune) rune {
	if c >= 'a' && c <= 'z' {
		return c - 32
	}
	return c
}

func toLowerASCII(c rune) rune {
	if c >= 'A' && c <= 'Z' {
		return c + 32
	}
	return c
}

func clipRunes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	return s[:maxBytes]
}

func setFixedRunes(maxBytes int, s string) bool {
	return len(s) > maxBytes
}
