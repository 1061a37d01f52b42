// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package loading

import (
	"errors"
	"testing"
)

func TestColdBootSequenceCompletes(t *testing.T) {
	c := New(ColdBoot)
	steps := 0
	for {
		done := c.Advance(nil)
		steps++
		if done {
			break
		}
		if steps > 20 {
			t.Fatal("coordinator never reached done")
		}
	}
	name, pct := c.Phase()
	if pct != 100 {
		t.Fatalf("Phase() after done = %q %d%%, want 100%%", name, pct)
	}
}

func TestWakeModeSkipsScan(t *testing.T) {
	c := New(WakeFromDeepSleep)
	name, _ := c.Phase()
	if name != PhaseLoadSettings.label() {
		t.Fatalf("wake-mode first phase = %q, want %q", name, PhaseLoadSettings.label())
	}
}

func TestAdvanceWithErrorFallsBack(t *testing.T) {
	c := New(ColdBoot)
	c.Advance(errors.New("sd mount failed"))
	if !c.FellBack() {
		t.Fatal("FellBack() = false after error")
	}
	if c.LastError() == nil {
		t.Fatal("LastError() = nil after error")
	}
	name, _ := c.Phase()
	if name != PhaseFallback.label() {
		t.Fatalf("phase after error = %q, want %q", name, PhaseFallback.label())
	}
}
