// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"unicode"

	"github.com/carlosgj94/rapid-reader/display/sharplcd"
	"github.com/carlosgj94/rapid-reader/render/bookfont"
	"github.com/carlosgj94/rapid-reader/render/glyph5x7"
)

// setPixel draws one (possibly negative) point, silently dropping it if it
// falls outside the frame, the same convention sharplcd.FrameBuffer uses
// for its own out-of-range accesses.
func setPixel(fb *sharplcd.FrameBuffer, x, y int, on bool) {
	if x < 0 || y < 0 {
		return
	}
	fb.SetPixel(x, y, on)
}

// drawRect outlines a w x h rectangle with its top-left corner at (x, y).
func drawRect(fb *sharplcd.FrameBuffer, x, y, w, h int, on bool) {
	if w <= 0 || h <= 0 {
		return
	}
	for i := 0; i < w; i++ {
		setPixel(fb, x+i, y, on)
		setPixel(fb, x+i, y+h-1, on)
	}
	for i := 0; i < h; i++ {
		setPixel(fb, x, y+i, on)
		setPixel(fb, x+w-1, y+i, on)
	}
}

// drawFilledRect fills a w x h rectangle with its top-left corner at (x, y).
func drawFilledRect(fb *sharplcd.FrameBuffer, x, y, w, h int, on bool) {
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			setPixel(fb, x+col, y+row, on)
		}
	}
}

// normalizeGlyphChar maps a rune to the ASCII form the 5x7 and book fonts
// can render: printable ASCII passes through, any other whitespace becomes
// ' ', and everything else folds to '?'. Accented letters are not folded to
// their base letter.
func normalizeGlyphChar(c rune) rune {
	if c >= 0x20 && c <= 0x7e {
		return c
	}
	if unicode.IsSpace(c) {
		return ' '
	}
	return '?'
}

// drawGlyph5x7 draws one 5x7 glyph scaled by scale, top-left at (x, y).
func drawGlyph5x7(fb *sharplcd.FrameBuffer, x, y int, g glyph5x7.Glyph, scale int, on bool) {
	for col := 0; col < 5; col++ {
		bits := g[col]
		for row := 0; row < 7; row++ {
			if bits&(1<<uint(row)) == 0 {
				continue
			}
			drawFilledRect(fb, x+col*scale, y+row*scale, scale, scale, on)
		}
	}
}

// drawGlyph5x7Left is drawGlyph5x7 but x is the glyph's ink origin rather
// than its column-0 origin: used by RSVP layout, which positions glyphs by
// their trimmed bounding box, not their raw 5-column cell.
func drawGlyph5x7Left(fb *sharplcd.FrameBuffer, x, y int, g glyph5x7.Glyph, m glyph5x7.Metrics, scale int, on bool) {
	drawGlyph5x7(fb, x-m.Left*scale, y, g, scale, on)
}

// textPixelWidth is the width of text drawn with drawText at scale: six
// columns per glyph (5 ink + 1 gap), minus the final glyph's trailing gap.
func textPixelWidth(text string, scale int) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return n*6*scale - scale
}

// drawText draws text left-to-right starting at (x, y) using the fixed
// 5x7 chrome font.
func drawText(fb *sharplcd.FrameBuffer, x, y int, text string, scale int, on bool) {
	cursor := x
	for _, c := range text {
		g := glyph5x7.Lookup(normalizeGlyphChar(c))
		drawGlyph5x7(fb, cursor, y, g, scale, on)
		cursor += 6 * scale
	}
}

// drawTextCentered draws text horizontally centered on the frame at row y.
func drawTextCentered(fb *sharplcd.FrameBuffer, y int, text string, scale int, on bool) {
	w := textPixelWidth(text, scale)
	x := (sharplcd.Width - w) / 2
	drawText(fb, x, y, text, scale, on)
}

// rsvpWordPixelWidth is the width an RSVP-rendered word would occupy at
// scale, using each glyph's trimmed metrics rather than its fixed cell.
func rsvpWordPixelWidth(word string, scale int) int {
	totalCols := 0
	trailingGap := 0
	for _, c := range word {
		n := normalizeGlyphChar(c)
		g := glyph5x7.Lookup(n)
		m := glyph5x7.MetricsFor(n, g)
		totalCols += m.Advance
		trailingGap = m.Advance - m.Width
		if trailingGap < 0 {
			trailingGap = 0
		}
	}
	if totalCols == 0 {
		return 0
	}
	return (totalCols - trailingGap) * scale
}

// chooseWordScale picks the largest pixel-font scale from the candidates
// for size that keeps word within maxWidth, falling back to 1.
func chooseWordScale(word string, maxWidth int, size FontSize) int {
	var candidates []int
	switch size {
	case SizeSmall:
		candidates = []int{2, 1}
	case SizeMedium:
		candidates = []int{3, 2, 1}
	case SizeLarge:
		candidates = []int{5, 4, 3, 2, 1}
	default:
		candidates = []int{1}
	}
	for _, scale := range candidates {
		if rsvpWordPixelWidth(word, scale) <= maxWidth {
			return scale
		}
	}
	return 1
}

// isRSVPLetter reports whether c counts toward the ORP letter-count used
// to pick the anchor letter (letters and digits; punctuation doesn't).
func isRSVPLetter(c rune) bool {
	n := normalizeGlyphChar(c)
	return (n >= 'a' && n <= 'z') || (n >= 'A' && n <= 'Z') || (n >= '0' && n <= '9')
}

// rsvpOrpLetterIndex maps a word's letter count to the 0-based index (among
// letters, not all runes) of its optimal recognition point.
func rsvpOrpLetterIndex(letterCount int) int {
	switch {
	case letterCount <= 1:
		return 0
	case letterCount <= 5:
		return 1
	case letterCount <= 9:
		return 2
	case letterCount <= 13:
		return 3
	default:
		return 4
	}
}

// rsvpOrpCharIndex maps the ORP letter index back to a rune index into
// word, skipping non-letter runes. Words with no letters (pure
// punctuation) anchor at their visual midpoint instead.
func rsvpOrpCharIndex(word string) int {
	runes := []rune(word)
	totalChars := len(runes)
	if totalChars == 0 {
		return 0
	}

	letterChars := 0
	for _, c := range runes {
		if isRSVPLetter(c) {
			letterChars++
		}
	}
	if letterChars == 0 {
		return (totalChars - 1) / 2
	}

	target := rsvpOrpLetterIndex(letterChars)
	if target > letterChars-1 {
		target = letterChars - 1
	}
	current := 0
	for i, c := range runes {
		if isRSVPLetter(c) {
			if current == target {
				return i
			}
			current++
		}
	}
	return (totalChars - 1) / 2
}

// drawRSVPWord draws word at row y, anchored so its optimal-recognition
// letter sits at orpAnchorPercent of the frame's width — the core RSVP
// layout trick that lets a reader's eye stay fixed on one screen column
// while words of different lengths stream past it.
func drawRSVPWord(fb *sharplcd.FrameBuffer, y int, word string, scale, orpAnchorPercent int, serif bool, on bool) {
	runes := []rune(word)
	if len(runes) == 0 {
		return
	}
	if serif {
		drawRSVPWordBook(fb, y, word, scale, orpAnchorPercent, on)
		return
	}

	orpIdx := rsvpOrpCharIndex(word)

	colsBeforeOrp := 0
	orpWidthCols := 1
	cursorCols := 0
	type glyphM struct {
		g glyph5x7.Glyph
		m glyph5x7.Metrics
	}
	glyphs := make([]glyphM, len(runes))
	for i, c := range runes {
		n := normalizeGlyphChar(c)
		g := glyph5x7.Lookup(n)
		m := glyph5x7.MetricsFor(n, g)
		glyphs[i] = glyphM{g, m}
		if i == orpIdx {
			colsBeforeOrp = cursorCols
			orpWidthCols = m.Width
			if orpWidthCols < 1 {
				orpWidthCols = 1
			}
		}
		cursorCols += m.Advance
	}

	glyphWidth := orpWidthCols * scale
	orpAnchorX := (sharplcd.Width * orpAnchorPercent) / 100
	orpLeft := orpAnchorX - glyphWidth/2
	startX := orpLeft - colsBeforeOrp*scale

	drawCursorCols := 0
	for _, gm := range glyphs {
		x := startX + drawCursorCols*scale - gm.m.Left*scale
		drawGlyph5x7(fb, x, y, gm.g, scale, on)
		drawCursorCols += gm.m.Advance
	}

	underlineY := y + 7*scale + 1
	underlineH := scale / 2
	if underlineH < 1 {
		underlineH = 1
	}
	drawFilledRect(fb, orpLeft, underlineY, glyphWidth, underlineH, on)
}

// drawRSVPWordBook is drawRSVPWord's serif-font counterpart, using
// render/bookfont's proportional glyph table instead of the fixed 5x7
// font.
func drawRSVPWordBook(fb *sharplcd.FrameBuffer, y int, word string, scale, orpAnchorPercent int, on bool) {
	runes := []rune(word)
	orpIdx := rsvpOrpCharIndex(word)

	type glyphA struct {
		g       *bookfont.SerifGlyph
		advance int
	}
	glyphs := make([]glyphA, len(runes))
	colsBeforeOrp := 0
	orpWidthCols := 1
	cursorCols := 0
	for i, c := range runes {
		g := bookfont.Glyph(normalizeGlyphChar(c))
		advance := int(g.Advance)
		glyphs[i] = glyphA{g, advance}
		if i == orpIdx {
			colsBeforeOrp = cursorCols
			orpWidthCols = int(g.Width)
			if orpWidthCols < 1 {
				orpWidthCols = 1
			}
		}
		cursorCols += advance
	}

	glyphWidth := orpWidthCols * scale
	orpAnchorX := (sharplcd.Width * orpAnchorPercent) / 100
	orpLeft := orpAnchorX - glyphWidth/2
	startX := orpLeft - colsBeforeOrp*scale

	drawCursorCols := 0
	for _, ga := range glyphs {
		x := startX + drawCursorCols*scale + int(ga.g.Left)*scale
		drawBookGlyph(fb, x, y, ga.g, scale, on)
		drawCursorCols += ga.advance
	}

	underlineY := y + bookfont.FontHeight*scale + 1
	underlineH := scale / 2
	if underlineH < 1 {
		underlineH = 1
	}
	drawFilledRect(fb, orpLeft, underlineY, glyphWidth, underlineH, on)
}

// drawBookGlyph draws one proportional serif glyph scaled by scale,
// top-left at (x, y) in ink coordinates (Left bearing already applied by
// the caller).
func drawBookGlyph(fb *sharplcd.FrameBuffer, x, y int, g *bookfont.SerifGlyph, scale int, on bool) {
	for row := 0; row < bookfont.FontHeight; row++ {
		bits := g.Rows[row]
		if bits == 0 {
			continue
		}
		for col := 0; col < 64; col++ {
			if bits&(1<<uint(col)) == 0 {
				continue
			}
			drawFilledRect(fb, x+col*scale, y+row*scale, scale, scale, on)
		}
	}
}

// drawParagraphProgress draws the fixed progress bar shown during Reading:
// an outlined bar near the bottom of the frame, filled in proportion to
// current/total.
func drawParagraphProgress(fb *sharplcd.FrameBuffer, current, total int, on bool) {
	barX, barY := 12, sharplcd.Height-18
	barW, barH := sharplcd.Width-24, 10

	drawRect(fb, barX, barY, barW, barH, on)

	if total < 1 {
		total = 1
	}
	if current > total {
		current = total
	}
	fillW := ((barW - 2) * current) / total
	if fillW > 0 {
		drawFilledRect(fb, barX+1, barY+1, fillW, barH-2, on)
	}
}
