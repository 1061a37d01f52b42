// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package power puts the reader into a deterministic off state before a
// deep sleep that cmd/reader's host-specific shutdown hook carries out.
package power

import (
	"periph.io/x/conn/v3/gpio"
)

// display is the narrow surface EnterDeepSleep needs from *sharplcd.Dev.
type display interface {
	Disable() error
}

// csPin is the narrow surface EnterDeepSleep needs from the SD card's chip
// select line.
type csPin interface {
	Out(l gpio.Level) error
}

// Sleeper is the host hook that actually suspends the MCU once the display
// and SD bus are quiesced. The real implementation never returns; tests
// supply a fake that does, so EnterDeepSleep itself stays testable.
type Sleeper func() error

// EnterDeepSleep disables the display, deasserts the SD chip select, and
// calls sleep to hand off to the host's wake-on-pin-edge mechanism. It
// returns only if sleep returns, which the real hardware hook never does.
func EnterDeepSleep(disp display, sdCS csPin, sleep Sleeper) error {
	if err := disp.Disable(); err != nil {
		// Best-effort: still quiesce the SD bus and sleep even if the display
		// failed to reach a known state.
		_ = err
	}
	if err := sdCS.Out(gpio.High); err != nil {
		return err
	}
	return sleep()
}
