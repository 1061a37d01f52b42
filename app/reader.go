// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

import (
	"github.com/carlosgj94/rapid-reader/catalog"
	"github.com/carlosgj94/rapid-reader/render"
)

// Content is the catalog contract a Reader drives: word iteration, title
// listing, text selection, paragraph seeking and chapter navigation.
type Content interface {
	catalog.WordSource
	catalog.TextCatalog
	catalog.SelectableWordSource
	catalog.ParagraphNavigator
	catalog.NavigationCatalog
}

// uiKind tags which UiState variant is active.
type uiKind int

const (
	uiLibrary uiKind = iota
	uiSettings
	uiCountdown
	uiReading
	uiNavigateChapter
	uiNavigateParagraph
	uiStatus
)

// uiState is a tagged union mirroring the reader's five screens plus the
// two navigation overlays; only the fields for Kind are meaningful.
type uiState struct {
	kind uiKind

	libraryCursor uint16

	settingsCursor  SettingsRow
	settingsEditing bool

	selectedBook uint16

	countdownRemaining  uint8
	countdownNextStepMs int64

	readingPaused     bool
	readingNextWordMs int64

	chapterCursor uint16

	chapterIndex    uint16
	paragraphCursor uint16

	statusLine1 string
	statusLine2 string
}

type wordBuffer struct {
	bytes [wordBufferBytes]byte
	n     int
}

func (w *wordBuffer) clear() { w.n = 0 }

func (w *wordBuffer) isEmpty() bool { return w.n == 0 }

func (w *wordBuffer) set(word string) {
	w.n = copy(w.bytes[:], word)
	if w.n == 0 {
		w.bytes[0] = '?'
		w.n = 1
	}
}

func (w *wordBuffer) str() string {
	if w.n == 0 {
		return ""
	}
	return string(w.bytes[:w.n])
}

// Reader is the reader's complete state machine: one UiState, the
// currently staged word, the visual style, and the content/input
// collaborators it drives.
type Reader struct {
	content Content
	input   InputProvider
	config  ReaderConfig

	title            string
	countdownSeconds uint8

	ui uiState

	style render.VisualStyle

	word               wordBuffer
	paragraphWordIndex uint16
	paragraphWordTotal uint16
	lastEndsSentence   bool
	lastEndsClause     bool

	pendingRedraw      bool
	lastReadingPressMs *int64
	pausedSinceMs      *int64
	lastPauseAnimSlot  *int64

	transition    render.AnimationSpec
	hasTransition bool

	connectivity render.ConnectivitySnapshot

	resumeApplied      bool
	lastResumePriority uint8
}

// NewReader constructs a Reader starting on the Library screen.
func NewReader(content Content, input InputProvider, config ReaderConfig, title string, countdownSeconds uint8) *Reader {
	r := &Reader{
		content:          content,
		input:            input,
		config:           config,
		title:            title,
		countdownSeconds: countdownSeconds,
		style:            render.VisualStyle{Family: render.FontSerif, Size: render.SizeMedium, Invert: true},
	}
	r.paragraphWordTotal = 1
	r.ui = uiState{kind: uiLibrary}
	return r
}

// SetConnectivity updates the read-only Wi-Fi snapshot the header icon
// draws from. It never triggers a redraw by itself.
func (r *Reader) SetConnectivity(c render.ConnectivitySnapshot) {
	r.connectivity = c
}
