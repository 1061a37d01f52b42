// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package glyph5x7 is a precomputed 5x7 pixel bitmap font used for short UI
// labels (titles, settings rows, status lines). Each glyph is 5 columns of
// 7 rows, column-major, bit 0 is the top row.
//
// The table follows the classic "glcdfont" 5x7 ASCII layout also used by
// golang.org/x/image/font/basicfont-style bitmap fonts.
package glyph5x7

// Glyph is one column-major 5x7 character bitmap.
type Glyph [5]byte

// Metrics describes how a glyph occupies horizontal space: left is the
// first non-empty column, width is the ink span, advance is the cursor
// step including inter-glyph spacing.
type Metrics struct {
	Left, Width, Advance int
}

// Lookup returns the glyph for c, falling back to an '!'-shaped replacement
// glyph for any rune outside the table.
func Lookup(c rune) Glyph {
	if g, ok := table[c]; ok {
		return g
	}
	return replacement
}

// MetricsFor computes Metrics for glyph g representing rune c.
func MetricsFor(c rune, g Glyph) Metrics {
	if c == ' ' {
		return Metrics{Left: 0, Width: 0, Advance: 3}
	}

	left, right := 5, 0
	any := false
	for col, bits := range g {
		if bits != 0 {
			any = true
			if col < left {
				left = col
			}
			if col > right {
				right = col
			}
		}
	}
	if !any {
		return Metrics{Left: 0, Width: 1, Advance: 2}
	}

	width := right - left + 1
	return Metrics{Left: left, Width: width, Advance: width + 1}
}

var replacement = Glyph{0x00, 0x00, 0x5F, 0x00, 0x00}

var table = map[rune]Glyph{
	'A': {0x7E, 0x11, 0x11, 0x11, 0x7E},
	'B': {0x7F, 0x49, 0x49, 0x49, 0x36},
	'C': {0x3E, 0x41, 0x41, 0x41, 0x22},
	'D': {0x7F, 0x41, 0x41, 0x22, 0x1C},
	'E': {0x7F, 0x49, 0x49, 0x49, 0x41},
	'F': {0x7F, 0x09, 0x09, 0x09, 0x01},
	'G': {0x3E, 0x41, 0x49, 0x49, 0x7A},
	'H': {0x7F, 0x08, 0x08, 0x08, 0x7F},
	'I': {0x00, 0x41, 0x7F, 0x41, 0x00},
	'J': {0x20, 0x40, 0x41, 0x3F, 0x01},
	'K': {0x7F, 0x08, 0x14, 0x22, 0x41},
	'L': {0x7F, 0x40, 0x40, 0x40, 0x40},
	'M': {0x7F, 0x02, 0x0C, 0x02, 0x7F},
	'N': {0x7F, 0x04, 0x08, 0x10, 0x7F},
	'O': {0x3E, 0x41, 0x41, 0x41, 0x3E},
	'P': {0x7F, 0x09, 0x09, 0x09, 0x06},
	'Q': {0x3E, 0x41, 0x51, 0x21, 0x5E},
	'R': {0x7F, 0x09, 0x19, 0x29, 0x46},
	'S': {0x46, 0x49, 0x49, 0x49, 0x31},
	'T': {0x01, 0x01, 0x7F, 0x01, 0x01},
	'U': {0x3F, 0x40, 0x40, 0x40, 0x3F},
	'V': {0x1F, 0x20, 0x40, 0x20, 0x1F},
	'W': {0x7F, 0x20, 0x18, 0x20, 0x7F},
	'X': {0x63, 0x14, 0x08, 0x14, 0x63},
	'Y': {0x03, 0x04, 0x78, 0x04, 0x03},
	'Z': {0x61, 0x51, 0x49, 0x45, 0x43},
	'a': {0x20, 0x54, 0x54, 0x54, 0x78},
	'b': {0x7F, 0x48, 0x44, 0x44, 0x38},
	'c': {0x38, 0x44, 0x44, 0x44, 0x20},
	'd': {0x38, 0x44, 0x44, 0x48, 0x7F},
	'e': {0x38, 0x54, 0x54, 0x54, 0x18},
	'f': {0x08, 0x7E, 0x09, 0x01, 0x02},
	'g': {0x08, 0x14, 0x54, 0x54, 0x3C},
	'h': {0x7F, 0x08, 0x04, 0x04, 0x78},
	'i': {0x00, 0x44, 0x7D, 0x40, 0x00},
	'j': {0x20, 0x40, 0x44, 0x3D, 0x00},
	'k': {0x7F, 0x10, 0x28, 0x44, 0x00},
	'l': {0x00, 0x41, 0x7F, 0x40, 0x00},
	'm': {0x7C, 0x04, 0x18, 0x04, 0x78},
	'n': {0x7C, 0x08, 0x04, 0x04, 0x78},
	'o': {0x38, 0x44, 0x44, 0x44, 0x38},
	'p': {0x7C, 0x14, 0x14, 0x14, 0x08},
	'q': {0x08, 0x14, 0x14, 0x18, 0x7C},
	'r': {0x7C, 0x08, 0x04, 0x04, 0x08},
	's': {0x48, 0x54, 0x54, 0x54, 0x20},
	't': {0x04, 0x3F, 0x44, 0x40, 0x20},
	'u': {0x3C, 0x40, 0x40, 0x20, 0x7C},
	'v': {0x1C, 0x20, 0x40, 0x20, 0x1C},
	'w': {0x3C, 0x40, 0x30, 0x40, 0x3C},
	'x': {0x44, 0x28, 0x10, 0x28, 0x44},
	'y': {0x0C, 0x50, 0x50, 0x50, 0x3C},
	'z': {0x44, 0x64, 0x54, 0x4C, 0x44},
	'0': {0x3E, 0x51, 0x49, 0x45, 0x3E},
	'1': {0x00, 0x42, 0x7F, 0x40, 0x00},
	'2': {0x42, 0x61, 0x51, 0x49, 0x46},
	'3': {0x21, 0x41, 0x45, 0x4B, 0x31},
	'4': {0x18, 0x14, 0x12, 0x7F, 0x10},
	'5': {0x27, 0x45, 0x45, 0x45, 0x39},
	'6': {0x3C, 0x4A, 0x49, 0x49, 0x30},
	'7': {0x01, 0x71, 0x09, 0x05, 0x03},
	'8': {0x36, 0x49, 0x49, 0x49, 0x36},
	'9': {0x06, 0x49, 0x49, 0x29, 0x1E},
	'.': {0x00, 0x60, 0x60, 0x00, 0x00},
	',': {0x00, 0x80, 0x60, 0x00, 0x00},
	';': {0x00, 0x80, 0x66, 0x00, 0x00},
	'/': {0x20, 0x10, 0x08, 0x04, 0x02},
	'<': {0x08, 0x14, 0x22, 0x41, 0x00},
	'>': {0x00, 0x41, 0x22, 0x14, 0x08},
	'[': {0x00, 0x7F, 0x41, 0x41, 0x00},
	']': {0x00, 0x41, 0x41, 0x7F, 0x00},
	'-': {0x08, 0x08, 0x08, 0x08, 0x08},
	':': {0x00, 0x36, 0x36, 0x00, 0x00},
	' ': {0x00, 0x00, 0x00, 0x00, 0x00},
}
