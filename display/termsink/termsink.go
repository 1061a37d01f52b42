// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termsink implements a terminal renderer for a sharplcd
// framebuffer, for developing the reader without panel hardware attached.
//
// Useful while you are waiting for your Sharp Memory LCD to come by mail.
package termsink

import (
	"bytes"
	"image/color"
	"io"
	"os"

	"github.com/maruel/ansi256"
	colorable "github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/carlosgj94/rapid-reader/display/sharplcd"
)

var (
	blackNRGBA = color.NRGBA{A: 255}
	whiteNRGBA = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Opts configures a Writer.
type Opts struct {
	// Palette picks the ANSI256 color pair used for on/off pixels.
	Palette *ansi256.Palette
	// Scale downsamples the 400x240 panel by this factor per terminal cell
	// on both axes, since a real terminal has far fewer rows than 240.
	Scale int

	_ struct{}
}

// DefaultOpts downsamples both axes by 4 and uses the default palette.
var DefaultOpts = Opts{Scale: 4}

// Writer renders sharplcd frames as two-tone blocks to an io.Writer,
// downgrading to plain ASCII when the destination is not a real terminal.
type Writer struct {
	w       io.Writer
	palette ansi256.Palette
	scale   int
	plain   bool
	buf     bytes.Buffer
}

// New returns a Writer that renders to stdout.
func New(opts *Opts) *Writer {
	if opts == nil {
		opts = &DefaultOpts
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}
	stdout := os.Stdout
	return &Writer{
		w:       colorable.NewColorable(stdout),
		palette: *p,
		scale:   scale,
		plain:   !isatty.IsTerminal(stdout.Fd()) && !isatty.IsCygwinTerminal(stdout.Fd()),
	}
}

func (w *Writer) String() string { return "termsink" }

// Halt resets terminal color state.
func (w *Writer) Halt() error {
	_, err := w.w.Write([]byte("\033[0m\n"))
	return err
}

// Draw renders fb to the terminal, one character cell per Scale x Scale
// block of panel pixels; a cell is considered "on" if any pixel within it
// is set.
func (w *Writer) Draw(fb *sharplcd.FrameBuffer) error {
	w.buf.Reset()
	w.buf.WriteString("\r\033[0m")

	for cellY := 0; cellY < sharplcd.Height; cellY += w.scale {
		for cellX := 0; cellX < sharplcd.Width; cellX += w.scale {
			on := w.cellOn(fb, cellX, cellY)
			w.writeCell(on)
		}
		w.buf.WriteString("\033[0m\n")
	}
	_, err := w.buf.WriteTo(w.w)
	return err
}

func (w *Writer) cellOn(fb *sharplcd.FrameBuffer, x0, y0 int) bool {
	for y := y0; y < y0+w.scale && y < sharplcd.Height; y++ {
		for x := x0; x < x0+w.scale && x < sharplcd.Width; x++ {
			if on, ok := fb.Pixel(x, y); ok && on {
				return true
			}
		}
	}
	return false
}

func (w *Writer) writeCell(on bool) {
	if w.plain {
		if on {
			w.buf.WriteByte('#')
		} else {
			w.buf.WriteByte(' ')
		}
		return
	}
	if on {
		w.buf.WriteString(w.palette.Block(blackNRGBA))
	} else {
		w.buf.WriteString(w.palette.Block(whiteNRGBA))
	}
}
