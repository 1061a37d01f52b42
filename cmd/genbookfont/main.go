// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command genbookfont rasterizes a TTF into the render/bookfont package's
// SerifGlyph table and writes it as a Go source file. It is run offline via
// `go generate`, never at device runtime.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"log"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const fontHeight = 43

type serifGlyph struct {
	left, width, advance int
	rows                 [fontHeight]uint64
}

func main() {
	fontPath := flag.String("font", "", "path to a TTF file")
	size := flag.Float64("size", 36, "rasterization point size")
	out := flag.String("out", "zdata.go", "output Go source path")
	pkg := flag.String("pkg", "bookfont", "output package name")
	flag.Parse()

	if *fontPath == "" {
		log.Fatal("genbookfont: -font is required")
	}

	fontBytes, err := os.ReadFile(*fontPath)
	if err != nil {
		log.Fatalf("genbookfont: read font: %v", err)
	}
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		log.Fatalf("genbookfont: parse font: %v", err)
	}
	face := truetype.NewFace(parsed, &truetype.Options{Size: *size})

	glyphs := make(map[rune]serifGlyph)
	for c := rune(' '); c <= '~'; c++ {
		g, err := rasterize(face, c)
		if err != nil {
			log.Fatalf("genbookfont: rasterize %q: %v", c, err)
		}
		glyphs[c] = g
	}

	if err := writeTable(*out, *pkg, glyphs); err != nil {
		log.Fatalf("genbookfont: write: %v", err)
	}
}

// rasterize draws c alone on a canvas tall enough for descenders and folds
// the result into a fontHeight-row bitmap plus the metrics a line-layout
// pass needs: left bearing, ink width, and advance to the next glyph.
func rasterize(face font.Face, c rune) (serifGlyph, error) {
	const canvasW = 128
	dc := gg.NewContext(canvasW, fontHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(face)
	dc.SetRGB(0, 0, 0)

	s := string(c)
	tw, _ := dc.MeasureString(s)
	dc.DrawString(s, 0, float64(fontHeight-1))

	img := dc.Image()
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)

	var g serifGlyph
	left, right := canvasW, -1
	for y := 0; y < fontHeight && y < bounds.Dy(); y++ {
		var row uint64
		for x := 0; x < canvasW && x < bounds.Dx(); x++ {
			if gray.GrayAt(x, y).Y < 128 {
				row |= 1 << uint(x)
				if x < left {
					left = x
				}
				if x > right {
					right = x
				}
			}
		}
		g.rows[y] = row
	}

	if right < left {
		// Whitespace glyph: no ink, advance by measured width alone.
		g.left = 0
		g.width = 0
		g.advance = int(tw)
		return g, nil
	}
	g.left = left
	g.width = right - left + 1
	g.advance = int(tw)
	return g, nil
}

func writeTable(path, pkgName string, glyphs map[rune]serifGlyph) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "// Code generated by cmd/genbookfont. DO NOT EDIT.\n\n")
	fmt.Fprintf(w, "package %s\n\n", pkgName)
	fmt.Fprintf(w, "var glyphs = map[rune]SerifGlyph{\n")
	for c := rune(' '); c <= '~'; c++ {
		g, ok := glyphs[c]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "\t%q: {Left: %d, Width: %d, Advance: %d, Rows: [%d]uint64{",
			c, g.left, g.width, g.advance, fontHeight)
		for i, row := range g.rows {
			if i > 0 {
				w.WriteString(", ")
			}
			fmt.Fprintf(w, "0x%X", row)
		}
		w.WriteString("}},\n")
	}
	w.WriteString("}\n")
	return w.Flush()
}
