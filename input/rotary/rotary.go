// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rotary decodes a quadrature rotary encoder plus a push button
// into the reader's three logical input events: CW, CCW, Press.
package rotary

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// pin is the narrow surface Dev needs from a gpio input pin. Any
// periph.io/x/conn/v3/gpio.PinIn satisfies it structurally; tests supply a
// bare-bones fake instead of mocking the full gpio.PinIn interface.
type pin interface {
	In(pull gpio.Pull, edge gpio.Edge) error
	Read() bool
}

// Event is one of the reader's three logical input events.
type Event int

const (
	// NoEvent is returned by Poll when nothing happened this call.
	NoEvent Event = iota
	EventPress
	EventRotateCW
	EventRotateCCW
)

// quadratureTransitions maps (prev<<2)|curr to +1/-1/0 for a valid Gray
// code transition; indices that are not single-step transitions map to 0.
var quadratureTransitions = [16]int8{0, -1, 1, 0, 1, 0, 0, -1, -1, 0, 0, 1, 0, 1, -1, 0}

// Opts configures a Dev.
type Opts struct {
	DirectionInverted  bool
	ButtonActiveLow    bool
	ButtonDebouncePoll uint8
	TransitionsPerStep uint8
}

// DefaultOpts matches a standard EC11-style encoder with an active-low
// button.
var DefaultOpts = Opts{
	ButtonActiveLow:    true,
	ButtonDebouncePoll: 3,
	TransitionsPerStep: 4,
}

// Dev polls a CLK/DT/SW pin triple and emits logical events.
type Dev struct {
	clk, dt, sw pin
	opts        Opts

	prevAB           uint8
	transitionAccum  int8
	buttonRaw        bool
	buttonStable     bool
	buttonStableCnt  uint8
	pendingEvent     Event
	havePendingEvent bool
}

// New reads the initial pin levels and returns a ready Dev.
func New(clk, dt, sw pin, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := clk.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("rotary: clk: %w", err)
	}
	if err := dt.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("rotary: dt: %w", err)
	}
	if err := sw.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("rotary: sw: %w", err)
	}

	d := &Dev{clk: clk, dt: dt, sw: sw, opts: *opts}
	d.prevAB = abFromLevels(clk.Read(), dt.Read())
	pressed := buttonPressedFromLevel(sw.Read(), opts.ButtonActiveLow)
	d.buttonRaw = pressed
	d.buttonStable = pressed
	return d, nil
}

// Poll returns the next logical event, or NoEvent if none occurred. A
// button transition and a rotation transition observed on the same poll are
// coalesced: the button event returns first and the rotation is queued for
// the following Poll call, exactly as a real single-threaded poll loop
// would observe them one tick apart.
func (d *Dev) Poll() Event {
	if d.havePendingEvent {
		d.havePendingEvent = false
		return d.pendingEvent
	}

	button := d.pollButton()
	rotation := d.pollRotation()

	switch {
	case button != NoEvent && rotation != NoEvent:
		d.pendingEvent = rotation
		d.havePendingEvent = true
		return button
	case button != NoEvent:
		return button
	case rotation != NoEvent:
		return rotation
	default:
		return NoEvent
	}
}

func (d *Dev) pollButton() Event {
	pressed := buttonPressedFromLevel(d.sw.Read(), d.opts.ButtonActiveLow)

	if pressed == d.buttonRaw {
		if d.buttonStableCnt < 255 {
			d.buttonStableCnt++
		}
	} else {
		d.buttonRaw = pressed
		d.buttonStableCnt = 0
	}

	threshold := d.opts.ButtonDebouncePoll
	if threshold == 0 {
		threshold = 1
	}
	if d.buttonStableCnt >= threshold && d.buttonStable != d.buttonRaw {
		d.buttonStable = d.buttonRaw
		if d.buttonStable {
			return EventPress
		}
	}
	return NoEvent
}

func (d *Dev) pollRotation() Event {
	currAB := abFromLevels(d.clk.Read(), d.dt.Read())
	if currAB == d.prevAB {
		return NoEvent
	}

	idx := (d.prevAB << 2) | currAB
	d.prevAB = currAB
	d.transitionAccum += quadratureTransitions[idx]

	threshold := int8(d.opts.TransitionsPerStep)
	if threshold == 0 {
		threshold = 1
	}
	if d.transitionAccum >= threshold {
		d.transitionAccum = 0
		return d.rotationEvent(true)
	}
	if d.transitionAccum <= -threshold {
		d.transitionAccum = 0
		return d.rotationEvent(false)
	}
	return NoEvent
}

func (d *Dev) rotationEvent(positiveStep bool) Event {
	clockwise := positiveStep
	if d.opts.DirectionInverted {
		clockwise = !clockwise
	}
	if clockwise {
		return EventRotateCW
	}
	return EventRotateCCW
}

func abFromLevels(clkHigh, dtHigh bool) uint8 {
	var ab uint8
	if clkHigh {
		ab |= 1 << 1
	}
	if dtHigh {
		ab |= 1
	}
	return ab
}

func buttonPressedFromLevel(high, activeLow bool) bool {
	if activeLow {
		return !high
	}
	return high
}
