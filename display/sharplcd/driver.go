// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sharplcd

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/carlosgj94/rapid-reader/internal/seq"
)

// Timing constants from the LS027B7DH01 datasheet.
const (
	initSettle    = 60 * time.Microsecond
	vcomSetup     = 3 * time.Microsecond
	clearAllHold  = 220 * time.Microsecond
	flushFrameHold = 1 * time.Microsecond
)

// Opts configures a Dev. A zero MaxSpeed falls back to DefaultOpts.MaxSpeed;
// the panel geometry is fixed (Width x Height) and not configurable.
type Opts struct {
	// MaxSpeed is the SPI clock; the datasheet requires at least 1 MHz.
	MaxSpeed physic.Frequency
}

// DefaultOpts is a sensible default for the LS027B7DH01.
var DefaultOpts = Opts{MaxSpeed: 2 * physic.MegaHertz}

// Dev drives a Sharp Memory LCD panel. It exclusively owns the SPI bus and
// the DISP/EXTCOMIN/CS pins for the lifetime of the process.
type Dev struct {
	c        conn.Conn
	dispPin  gpio.PinOut
	extcomin gpio.PinOut
	csPin    gpio.PinOut
	vcom     bool
}

// New wires a Dev to an SPI port and the panel's three control pins. CS is
// active-high on this panel, the inverse of most SPI peripherals, so the
// caller's port must not also assert its own chip-select; csPin is driven
// directly by Dev.
func New(p spi.Port, dispPin, extcomin, csPin gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	speed := opts.MaxSpeed
	if speed == 0 {
		speed = DefaultOpts.MaxSpeed
	}
	c, err := p.Connect(speed, spi.Mode1, 8)
	if err != nil {
		return nil, fmt.Errorf("sharplcd: connect: %w", err)
	}
	return &Dev{c: c, dispPin: dispPin, extcomin: extcomin, csPin: csPin}, nil
}

// DriverError tags a failure by the component that produced it.
type DriverError struct {
	Origin string
	Err    error
}

func (e *DriverError) Error() string { return "sharplcd: " + e.Origin + ": " + e.Err.Error() }
func (e *DriverError) Unwrap() error { return e.Err }

// Initialize brings the panel out of reset: DISP high, EXTCOMIN low, CS
// low, then a settle delay.
func (d *Dev) Initialize() error {
	var h seq.Handler
	h.Out(d.dispPin, gpio.High, "DISP")
	h.Out(d.extcomin, gpio.Low, "EXTCOMIN")
	h.Out(d.csPin, gpio.Low, "CS")
	h.Sleep(initSettle)
	return wrapSeqErr(h.Err)
}

// ClearAll toggles VCOM and sends the all-clear command under one CS hold.
func (d *Dev) ClearAll() error {
	d.vcom = !d.vcom
	var h seq.Handler
	h.Out(d.csPin, gpio.High, "CS")
	h.Sleep(vcomSetup)

	pkt := BuildClearPacket(d.vcom)
	h.Tx(d.c, pkt[:], nil)

	h.Sleep(clearAllHold)
	h.Out(d.csPin, gpio.Low, "CS")
	return wrapSeqErr(h.Err)
}

// FlushFrame writes the entire framebuffer to the panel under one CS hold,
// toggling VCOM first.
func (d *Dev) FlushFrame(fb *FrameBuffer) error {
	d.vcom = !d.vcom
	var h seq.Handler
	h.Out(d.csPin, gpio.High, "CS")
	h.Sleep(vcomSetup)

	buf := make([]byte, FlushPacketSize())
	n := fb.BuildFlushPacket(buf, d.vcom)
	if n == 0 {
		return &DriverError{Origin: "protocol", Err: fmt.Errorf("failed to build flush packet")}
	}
	h.Tx(d.c, buf[:n], nil)

	h.Sleep(flushFrameHold)
	h.Out(d.csPin, gpio.Low, "CS")
	return wrapSeqErr(h.Err)
}

// Disable drives DISP low, turning off panel output before a power-down.
// It is the inverse of Initialize's DISP-high step.
func (d *Dev) Disable() error {
	if err := d.dispPin.Out(gpio.Low); err != nil {
		return &DriverError{Origin: "DISP", Err: err}
	}
	return nil
}

// ToggleExtcomin flips the EXTCOMIN line. The caller is responsible for
// scheduling this at roughly 1 Hz (spec.md's "a timer-scheduled call every
// 500 ms"); the driver does not run its own timer.
func (d *Dev) ToggleExtcomin(high bool) error {
	l := gpio.Low
	if high {
		l = gpio.High
	}
	if err := d.extcomin.Out(l); err != nil {
		return &DriverError{Origin: "extcomin", Err: err}
	}
	return nil
}

func wrapSeqErr(err error) error {
	if err == nil {
		return nil
	}
	var pinErr *seq.PinError
	if as, ok := err.(*seq.PinError); ok {
		pinErr = as
		return &DriverError{Origin: pinErr.Name, Err: pinErr.Err}
	}
	if _, ok := err.(*seq.BusError); ok {
		return &DriverError{Origin: "spi", Err: err}
	}
	return &DriverError{Origin: "unknown", Err: err}
}
