// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rotary

import (
	"testing"

	"periph.io/x/conn/v3/gpio"
)

type fakePin struct {
	level bool
}

func (f *fakePin) In(gpio.Pull, gpio.Edge) error { return nil }
func (f *fakePin) Read() bool                    { return f.level }

func TestButtonPressDebounced(t *testing.T) {
	clk := &fakePin{level: true}
	dt := &fakePin{level: true}
	sw := &fakePin{level: true} // active-low: released

	d, err := New(clk, dt, sw, nil)
	if err != nil {
		t.Fatal(err)
	}

	sw.level = false // pressed
	var got Event
	for i := 0; i < 5; i++ {
		if ev := d.Poll(); ev != NoEvent {
			got = ev
			break
		}
	}
	if got != EventPress {
		t.Fatalf("Poll() = %v, want EventPress after debounce", got)
	}
}

func TestRotationClockwise(t *testing.T) {
	clk := &fakePin{level: true}
	dt := &fakePin{level: true}
	sw := &fakePin{level: true}

	d, err := New(clk, dt, sw, &Opts{ButtonActiveLow: true, TransitionsPerStep: 4})
	if err != nil {
		t.Fatal(err)
	}

	// Drive a full clockwise quadrature cycle: 11 -> 01 -> 00 -> 10 -> 11.
	sequence := []struct{ clk, dt bool }{
		{false, true}, {false, false}, {true, false}, {true, true},
	}
	var last Event
	for _, step := range sequence {
		clk.level = step.clk
		dt.level = step.dt
		if ev := d.Poll(); ev != NoEvent {
			last = ev
		}
	}
	if last != EventRotateCW {
		t.Fatalf("last event = %v, want EventRotateCW", last)
	}
}
