// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package loading coordinates the phased progress view shown while cmd/reader
// mounts the SD card, scans the book catalog, and loads settings, both on
// cold boot and when waking from deep sleep.
package loading

// Mode distinguishes the two entry paths into the coordinator: a full cold
// boot does every phase; a wake from deep sleep skips straight to
// restoring settings and resume state.
type Mode int

const (
	ColdBoot Mode = iota
	WakeFromDeepSleep
)

// Phase is one step of the loading sequence. Not every phase runs in every
// Mode: WakeFromDeepSleep starts at PhaseLoadSettings.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseProbeSD
	PhaseScanCatalog
	PhaseLoadSettings
	PhaseRestoreResume
	PhaseFallback
	PhaseFinalize
	phaseDone
)

func (p Phase) label() string {
	switch p {
	case PhaseInit:
		return "Preparing"
	case PhaseProbeSD:
		return "Probing SD Card"
	case PhaseScanCatalog:
		return "Scanning Library"
	case PhaseLoadSettings:
		return "Loading Settings"
	case PhaseRestoreResume:
		return "Restoring Position"
	case PhaseFallback:
		return "Using Fallback"
	case PhaseFinalize:
		return "Finalizing"
	default:
		return ""
	}
}

// coldBootPhases and wakePhases give each mode its own phase sequence; the
// coordinator advances through whichever list matches Mode.
var coldBootPhases = []Phase{PhaseInit, PhaseProbeSD, PhaseScanCatalog, PhaseLoadSettings, PhaseRestoreResume, PhaseFinalize}
var wakePhases = []Phase{PhaseLoadSettings, PhaseRestoreResume, PhaseFinalize}

// Coordinator tracks loading progress through a fixed phase sequence and
// exposes enough state for render to draw a progress view.
type Coordinator struct {
	mode      Mode
	sequence  []Phase
	cursor    int
	current   int
	total     int
	lastErr   error
	fellBack  bool
}

// New starts a coordinator for the given mode.
func New(mode Mode) *Coordinator {
	seq := coldBootPhases
	if mode == WakeFromDeepSleep {
		seq = wakePhases
	}
	return &Coordinator{mode: mode, sequence: seq}
}

// Phase reports the current phase's label and completion percent across
// the whole sequence (not just the current phase).
func (c *Coordinator) Phase() (name string, percent int) {
	if c.cursor >= len(c.sequence) {
		return PhaseFinalize.label(), 100
	}
	pct := (c.cursor * 100) / maxInt(len(c.sequence), 1)
	return c.sequence[c.cursor].label(), pct
}

// SetCounter reports a sub-progress count within the current phase (e.g.
// "book 3 of 12" during ScanCatalog), used by render for a numeric readout.
func (c *Coordinator) SetCounter(current, total int) {
	c.current, c.total = current, total
}

// Counter returns the last SetCounter values.
func (c *Coordinator) Counter() (current, total int) { return c.current, c.total }

// Advance moves to the next phase. A non-nil err short-circuits the
// remaining phases and switches into PhaseFallback; done is true once the
// sequence (or the fallback) has finished.
func (c *Coordinator) Advance(err error) (done bool) {
	if err != nil {
		c.lastErr = err
		c.fellBack = true
		c.sequence = []Phase{PhaseFallback, PhaseFinalize}
		c.cursor = 0
		return false
	}
	c.cursor++
	return c.cursor >= len(c.sequence)
}

// LastError returns the error that triggered a fallback, if any.
func (c *Coordinator) LastError() error { return c.lastErr }

// FellBack reports whether the coordinator fell back to a cached catalog
// after a phase error.
func (c *Coordinator) FellBack() bool { return c.fellBack }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
