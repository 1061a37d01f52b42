// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package app is the reader's state machine: it turns logical input events
// and a monotonic clock into UI transitions and word advances, and renders
// nothing itself — each tick that needs a redraw is exposed as an immutable
// render.Screen via WithScreen.
package app

import "github.com/carlosgj94/rapid-reader/render"

const (
	// animMenuMs is the transition duration entering/leaving Library and
	// Settings.
	animMenuMs = 220
	// animScreenMs is the transition duration entering Reading or Status.
	animScreenMs = 260
	// animNavMs is the transition duration entering/confirming chapter and
	// paragraph navigation.
	animNavMs = 200
	// pauseAnimFrameMs is the redraw cadence of the paused-reading overlay.
	pauseAnimFrameMs = 500
	// wpmStep is how much a single CW/CCW step adjusts WPM by.
	wpmStep = 10
	// refillRetryMs is how soon tick_reading retries after AwaitingRefill.
	refillRetryMs = 40

	wordBufferBytes = 64
)

// ReaderConfig holds the reading-speed parameters a Reader is constructed
// with; Wpm is the only field Settings can change at runtime.
type ReaderConfig struct {
	Wpm          uint16
	MinWpm       uint16
	MaxWpm       uint16
	DotPauseMs   uint16
	CommaPauseMs uint16
}

// DefaultReaderConfig matches the defaults cmd/reader wires at startup.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Wpm:          230,
		MinWpm:       80,
		MaxWpm:       600,
		DotPauseMs:   240,
		CommaPauseMs: 240,
	}
}

// SettingsRow identifies one row of the Settings screen, in display order.
type SettingsRow int

const (
	SettingsRowFont SettingsRow = iota
	SettingsRowSize
	SettingsRowInvert
	SettingsRowWpm
	SettingsRowBack
	settingsRowCount
)

// TickResult is Tick's report of whether the caller should redraw.
type TickResult int

const (
	NoRender TickResult = iota
	RenderRequested
)

func fontFamilyLabel(f render.FontFamily) string {
	if f == render.FontPixel {
		return "Pixel"
	}
	return "Serif"
}

func fontSizeLabel(s render.FontSize) string {
	switch s {
	case render.SizeSmall:
		return "Small"
	case render.SizeLarge:
		return "Large"
	default:
		return "Medium"
	}
}
