// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"strconv"

	"github.com/carlosgj94/rapid-reader/display/sharplcd"
)

const (
	headerY        = 12
	headerTitleY   = 12
	headerScale    = 2
	listRowHeight  = 20
	listStartY     = 44
	statusLineGap  = 20
)

// Render draws screen onto fb using style, clearing the frame first. It is
// the sole entry point cmd/reader calls once per redraw tick.
func Render(fb *sharplcd.FrameBuffer, screen Screen, style VisualStyle) {
	on := true
	off := false
	if style.Invert {
		on, off = off, on
	}
	fb.Clear(off)

	switch screen.Kind {
	case KindLibrary:
		renderLibrary(fb, screen, on)
	case KindSettings:
		renderSettings(fb, screen, on)
	case KindCountdown:
		renderCountdown(fb, screen, on)
	case KindReading:
		renderReading(fb, screen, style, on)
	case KindNavigateChapter, KindNavigateParagraph:
		renderNavigate(fb, screen, on)
	case KindStatus:
		renderStatus(fb, screen, on)
	}
}

func renderHeader(fb *sharplcd.FrameBuffer, title string, right string, on bool) {
	drawText(fb, 12, headerTitleY, title, headerScale, on)
	rightW := textPixelWidth(right, headerScale)
	drawText(fb, sharplcd.Width-12-rightW, headerTitleY, right, headerScale, on)
	drawFilledRect(fb, 12, headerY+24, sharplcd.Width-24, 1, on)
}

func renderLibrary(fb *sharplcd.FrameBuffer, screen Screen, on bool) {
	renderHeader(fb, screen.Title, "Library", on)
	y := listStartY
	for _, item := range screen.Library.Items {
		prefix := "  "
		if item.Selected {
			prefix = "> "
		}
		drawText(fb, 12, y, prefix+item.Label, 2, on)
		y += listRowHeight
	}
}

func renderSettings(fb *sharplcd.FrameBuffer, screen Screen, on bool) {
	renderHeader(fb, "Settings", "", on)
	y := listStartY
	for _, row := range screen.Settings.Rows {
		prefix := "  "
		if row.Selected {
			prefix = "> "
		}
		drawText(fb, 12, y, prefix+row.Label, 2, on)

		value := row.ValueLabel
		switch row.ValueKind {
		case SettingValueBool:
			value = "Off"
			if row.ValueBool {
				value = "On"
			}
		case SettingValueNumber:
			value = strconv.Itoa(int(row.ValueNum))
		}
		if row.Selected && row.Editing {
			value = "[" + value + "]"
		}
		valueW := textPixelWidth(value, 2)
		drawText(fb, sharplcd.Width-12-valueW, y, value, 2, on)
		y += listRowHeight
	}
}

func renderCountdown(fb *sharplcd.FrameBuffer, screen Screen, on bool) {
	drawTextCentered(fb, 40, "GET READY", 2, on)
	drawTextCentered(fb, 80, screen.Countdown.BookTitle, 1, on)

	remaining := screen.Countdown.Remaining
	label := strconv.Itoa(int(remaining))
	if remaining == 0 {
		label = "GO"
	}
	drawTextCentered(fb, 120, label, 6, on)
}

func renderReading(fb *sharplcd.FrameBuffer, screen Screen, style VisualStyle, on bool) {
	rv := screen.Reading
	renderHeader(fb, rv.BookTitle, rv.ChapterLabel, on)

	wordY := sharplcd.Height/2 - 24
	serif := style.Family == FontSerif
	scale := chooseWordScale(rv.Word, sharplcd.Width-40, style.Size)
	orpAnchor := rv.OrpAnchorPct
	if orpAnchor <= 0 {
		orpAnchor = 42
	}
	drawRSVPWord(fb, wordY, rv.Word, scale, orpAnchor, serif, on)

	drawParagraphProgress(fb, rv.WordIndex, rv.WordTotal, on)

	if rv.Paused {
		renderPauseOverlay(fb, rv, on)
	}
}

func renderPauseOverlay(fb *sharplcd.FrameBuffer, rv ReadingView, on bool) {
	x, y := 16, 48
	w, h := sharplcd.Width-32, 100

	drawFilledRect(fb, x+1, y+1, w-2, h-2, !on)
	drawRect(fb, x, y, w, h, on)
	drawTextCentered(fb, y+6, "PAUSED", 2, !on)
	drawTextCentered(fb, y+30, rv.BookTitle, 1, on)
	drawTextCentered(fb, y+44, rv.ChapterLabel, 1, on)
	drawTextCentered(fb, y+66, "Press: resume", 1, on)
	drawTextCentered(fb, y+78, "Rotate: seek", 1, on)
}

func renderNavigate(fb *sharplcd.FrameBuffer, screen Screen, on bool) {
	title := "Chapters"
	if screen.Kind == KindNavigateParagraph {
		title = "Paragraphs"
	}
	renderHeader(fb, title, "", on)
	y := listStartY
	for _, item := range screen.Navigate.Items {
		prefix := "  "
		if item.Selected {
			prefix = "> "
		}
		drawText(fb, 12, y, prefix+item.Label, 2, on)
		y += listRowHeight
	}
}

func renderStatus(fb *sharplcd.FrameBuffer, screen Screen, on bool) {
	drawTextCentered(fb, sharplcd.Height/2-statusLineGap/2-10, screen.Status.Line1, 2, on)
	drawTextCentered(fb, sharplcd.Height/2+statusLineGap/2-10, screen.Status.Line2, 1, on)
}
