// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package render turns an immutable Screen snapshot produced by app into
// pixel state on a sharplcd.FrameBuffer. It holds no state of its own:
// every exported function takes the frame it mutates and the data it
// draws, and nothing it computes survives past the call that computes it.
package render

import "github.com/carlosgj94/rapid-reader/display/sharplcd"

// Kind tags which variant of the reader UI a Screen carries.
type Kind int

const (
	KindLibrary Kind = iota
	KindSettings
	KindCountdown
	KindReading
	KindNavigateChapter
	KindNavigateParagraph
	KindStatus
)

// FontFamily selects between the two body typefaces a reader can show RSVP
// words in.
type FontFamily int

const (
	FontSerif FontFamily = iota
	FontPixel
)

// FontSize scales body text; it does not affect the fixed 5x7 chrome font
// used for menus and headers.
type FontSize int

const (
	SizeSmall FontSize = iota
	SizeMedium
	SizeLarge
)

// VisualStyle is the subset of persisted settings that changes how a
// Screen is drawn, as opposed to what it contains.
type VisualStyle struct {
	Family FontFamily
	Size   FontSize
	Invert bool
}

// ConnectivitySnapshot is a read-only view of network state carried on
// Screen. It has no producer in this module, and Render draws nothing from
// it: the header shows no connectivity icon. IconConnected reports whether
// the snapshot counts as connected.
type ConnectivitySnapshot struct {
	State    int
	LinkUp   bool
	HasIPv4  bool
	PingOK   bool
	Revision int
}

// IconConnected reports whether the snapshot should draw as "connected":
// link up, an address assigned, and the last liveness check passing.
func (c ConnectivitySnapshot) IconConnected() bool {
	return c.LinkUp && c.HasIPv4 && c.PingOK
}

// AnimationKind distinguishes the handful of transition/pulse animations a
// Screen can be mid-way through.
type AnimationKind int

const (
	AnimationNone AnimationKind = iota
	AnimationTransition
	AnimationPulse
)

// AnimationSpec records when a transition started so a later tick can
// derive its progress without storing anything mutable.
type AnimationSpec struct {
	Kind       AnimationKind
	StartMs    int64
	DurationMs int64
}

// AnimationFrame is the progress of an AnimationSpec at a particular tick.
type AnimationFrame struct {
	Kind        AnimationKind
	ProgressPct int
}

// Frame computes the animation's progress at nowMs. ok is false once the
// animation has completed (progress would exceed 100) or the spec has no
// duration.
func (s AnimationSpec) Frame(nowMs int64) (frame AnimationFrame, ok bool) {
	if s.Kind == AnimationNone || s.DurationMs <= 0 {
		return AnimationFrame{}, false
	}
	elapsed := nowMs - s.StartMs
	if elapsed < 0 {
		elapsed = 0
	}
	pct := elapsed * 100 / s.DurationMs
	if pct > 100 {
		return AnimationFrame{}, false
	}
	return AnimationFrame{Kind: s.Kind, ProgressPct: int(pct)}, true
}

// MenuItemView is one row of a selectable list (library titles, navigation
// targets).
type MenuItemView struct {
	Label    string
	Selected bool
}

// SettingValueKind distinguishes how a SettingRowView's value should be
// drawn: as a label (FontFamily/FontSize/Back) or a number (WPM).
type SettingValueKind int

const (
	SettingValueLabel SettingValueKind = iota
	SettingValueBool
	SettingValueNumber
)

// SettingRowView is one row of the settings screen.
type SettingRowView struct {
	Label      string
	ValueKind  SettingValueKind
	ValueLabel string
	ValueBool  bool
	ValueNum   uint16
	Selected   bool
	Editing    bool
}

// LibraryView is the Library screen's content.
type LibraryView struct {
	Items  []MenuItemView
	Cursor int
}

// SettingsView is the Settings screen's content.
type SettingsView struct {
	Rows    []SettingRowView
	Cursor  int
	Editing bool
}

// CountdownView is the Countdown screen's content.
type CountdownView struct {
	BookTitle string
	Remaining uint8
}

// ReadingView is the Reading screen's content, including the paused
// overlay fields (used only when Paused is true).
type ReadingView struct {
	BookTitle      string
	ChapterLabel   string
	Word           string
	Paused         bool
	WordIndex      int
	WordTotal      int
	WPM            uint16
	ElapsedMs      uint32
	OrpAnchorPct   int
}

// NavigateView is the content shared by NavigateChapter and
// NavigateParagraph; Kind on the enclosing Screen disambiguates which.
type NavigateView struct {
	Items  []MenuItemView
	Cursor int
}

// StatusView is a two-line informational screen (errors, fallback
// notices).
type StatusView struct {
	Line1 string
	Line2 string
}

// Screen is the complete, immutable description of one frame of UI. app
// builds one per tick that needs a redraw; render never mutates it.
type Screen struct {
	Kind         Kind
	Title        string
	WPM          uint16
	Connectivity ConnectivitySnapshot
	Animation    AnimationFrame
	HasAnimation bool

	Library   LibraryView
	Settings  SettingsView
	Countdown CountdownView
	Reading   ReadingView
	Navigate  NavigateView
	Status    StatusView
}
