// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bookfont

import "github.com/carlosgj94/rapid-reader/render/glyph5x7"

// glyphs is a bootstrap table: nearest-neighbor upscaled from glyph5x7 so
// the package has real data before a font asset is added under
// render/bookfont/assets and `go generate` is run to produce a true
// rasterized table from cmd/genbookfont.
var glyphs = buildBootstrapTable()

func buildBootstrapTable() map[rune]SerifGlyph {
	const rowScale = FontHeight / 7 // 6
	const colScale = 4

	runes := make([]rune, 0, 96)
	for c := rune('A'); c <= 'Z'; c++ {
		runes = append(runes, c)
	}
	for c := rune('a'); c <= 'z'; c++ {
		runes = append(runes, c)
	}
	for c := rune('0'); c <= '9'; c++ {
		runes = append(runes, c)
	}
	for _, c := range []rune{'.', ',', ';', '/', '<', '>', '[', ']', '-', ':', ' ', '?'} {
		runes = append(runes, c)
	}

	out := make(map[rune]SerifGlyph, len(runes))
	for _, c := range runes {
		out[c] = upscaleGlyph(glyph5x7.Lookup(c), glyph5x7.MetricsFor(c, glyph5x7.Lookup(c)), rowScale, colScale)
	}
	return out
}

// upscaleGlyph replicates every source pixel into a rowScale x colScale
// block, turning a 5x7 bitmap into a FontHeight-tall raster with scaled
// horizontal metrics.
func upscaleGlyph(g glyph5x7.Glyph, m glyph5x7.Metrics, rowScale, colScale int) SerifGlyph {
	var sg SerifGlyph
	sg.Left = int8(m.Left * colScale)
	sg.Width = uint8(m.Width * colScale)
	sg.Advance = uint8(m.Advance * colScale)

	for srcRow := 0; srcRow < 7; srcRow++ {
		var rowBits uint64
		for col := 0; col < 5; col++ {
			if g[col]&(1<<uint(srcRow)) != 0 {
				for dc := 0; dc < colScale; dc++ {
					rowBits |= 1 << uint(col*colScale+dc)
				}
			}
		}
		for dr := 0; dr < rowScale; dr++ {
			dstRow := srcRow*rowScale + dr
			if dstRow < FontHeight {
				sg.Rows[dstRow] = rowBits
			}
		}
	}
	return sg
}
