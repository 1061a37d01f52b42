// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bookfont holds the proportional serif font render uses to draw
// RSVP words when the serif font family is selected. Unlike glyph5x7 (a
// fixed 5x7 UI font), each glyph here is a tall raster with its own left
// bearing, width and advance.
//
// The checked-in table in zdata.go is a bootstrap built at package init by
// upscaling glyph5x7's bitmaps. cmd/genbookfont rasterizes a TTF with
// github.com/golang/freetype onto a github.com/fogleman/gg canvas; running
// `go generate` in this package with a font asset under assets/ replaces
// zdata.go with its output.
package bookfont

//go:generate go run ../../cmd/genbookfont -font ./assets/serif.ttf -size 43 -out zdata.go

// FontHeight is the fixed row count of every glyph raster.
const FontHeight = 43

// SerifGlyph is one rasterized character: a bitmap of FontHeight rows, each
// row a left-to-right run of set bits, plus the horizontal metrics needed
// to lay glyphs out in a line.
type SerifGlyph struct {
	Left    int8
	Width   uint8
	Advance uint8
	Rows    [FontHeight]uint64
}

// Glyph returns the raster for r, falling back to '?' for any rune the
// table does not cover (non-ASCII input, control characters).
func Glyph(r rune) *SerifGlyph {
	if g, ok := glyphs[r]; ok {
		return &g
	}
	if g, ok := glyphs['?']; ok {
		return &g
	}
	return &SerifGlyph{Width: 1, Advance: 2}
}
