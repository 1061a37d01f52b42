// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package seq provides a sticky-error wrapper for sequencing many fallible
// pin and bus operations without a repetitive if err != nil after each one.
package seq

import (
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Handler runs a sequence of gpio/conn operations, stopping at the first
// error and ignoring every later Out/Tx call (Sleep still sleeps).
type Handler struct {
	Err error
}

// Out sets a pin level, tagging the error with name on failure.
func (h *Handler) Out(pin gpio.PinOut, l gpio.Level, name string) {
	if h.Err != nil {
		return
	}
	if err := pin.Out(l); err != nil {
		h.Err = &PinError{Name: name, Err: err}
	}
}

// Tx performs a bus transaction, tagging the error as a bus failure.
func (h *Handler) Tx(c conn.Conn, w, r []byte) {
	if h.Err != nil {
		return
	}
	if err := c.Tx(w, r); err != nil {
		h.Err = &BusError{Err: err}
	}
}

// Sleep pauses unconditionally; delays are not skipped on a prior error so
// that a caller reading h.Err afterward still sees consistent pin state.
func (h *Handler) Sleep(d time.Duration) {
	time.Sleep(d)
}

// PinError tags a gpio failure with the pin's logical name (DISP, EXTCOMIN,
// CS, ...).
type PinError struct {
	Name string
	Err  error
}

func (e *PinError) Error() string { return e.Name + ": " + e.Err.Error() }
func (e *PinError) Unwrap() error { return e.Err }

// BusError tags an SPI transaction failure.
type BusError struct {
	Err error
}

func (e *BusError) Error() string { return "spi: " + e.Err.Error() }
func (e *BusError) Unwrap() error { return e.Err }
