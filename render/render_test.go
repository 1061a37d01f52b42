// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"testing"

	"github.com/carlosgj94/rapid-reader/display/sharplcd"
)

func TestRenderEachKindDoesNotPanic(t *testing.T) {
	var fb sharplcd.FrameBuffer
	style := VisualStyle{Family: FontPixel, Size: SizeMedium}

	screens := []Screen{
		{Kind: KindLibrary, Title: "Readily", Library: LibraryView{
			Items:  []MenuItemView{{Label: "Don Quijote", Selected: true}, {Label: "Settings"}},
			Cursor: 0,
		}},
		{Kind: KindSettings, Settings: SettingsView{
			Rows: []SettingRowView{
				{Label: "WPM", ValueKind: SettingValueNumber, ValueNum: 230, Selected: true},
				{Label: "Invert", ValueKind: SettingValueBool, ValueBool: true},
			},
		}},
		{Kind: KindCountdown, Countdown: CountdownView{BookTitle: "Don Quijote", Remaining: 3}},
		{Kind: KindReading, Reading: ReadingView{
			BookTitle: "Don Quijote", ChapterLabel: "Chapter 1", Word: "windmills",
			WordIndex: 4, WordTotal: 10, OrpAnchorPct: 42,
		}},
		{Kind: KindNavigateChapter, Navigate: NavigateView{
			Items: []MenuItemView{{Label: "Chapter 1", Selected: true}, {Label: "Chapter 2"}},
		}},
		{Kind: KindStatus, Status: StatusView{Line1: "SD card error", Line2: "Using fallback"}},
	}

	for _, s := range screens {
		Render(&fb, s, style)
	}
}

func TestRSVPOrpCharIndex(t *testing.T) {
	cases := []struct {
		word string
		want int
	}{
		{"a", 0},
		{"cat", 1},
		{"windmills", 2},
		{"", 0},
		{"!!!", 1},
	}
	for _, c := range cases {
		if got := rsvpOrpCharIndex(c.word); got != c.want {
			t.Errorf("rsvpOrpCharIndex(%q) = %d, want %d", c.word, got, c.want)
		}
	}
}

func TestTextPixelWidth(t *testing.T) {
	if w := textPixelWidth("", 2); w != 0 {
		t.Errorf("empty text width = %d, want 0", w)
	}
	if w := textPixelWidth("A", 1); w != 5 {
		t.Errorf("single glyph width = %d, want 5", w)
	}
}

func TestDrawParagraphProgressNoPanicAtZeroTotal(t *testing.T) {
	var fb sharplcd.FrameBuffer
	drawParagraphProgress(&fb, 0, 0, true)
}
