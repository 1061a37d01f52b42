// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bufio"
	"os"
	"time"

	"github.com/carlosgj94/rapid-reader/app"
	"github.com/carlosgj94/rapid-reader/input/rotary"
)

// rotaryInput adapts a rotary.Dev to app.InputProvider and tracks the time
// of the last event it reported, which the main loop uses to decide when
// the reader has sat idle long enough to enter deep sleep.
type rotaryInput struct {
	dev          *rotary.Dev
	lastActivity time.Time
}

func newRotaryInput(dev *rotary.Dev) *rotaryInput {
	return &rotaryInput{dev: dev, lastActivity: time.Now()}
}

func (r *rotaryInput) PollEvent() (app.InputEvent, bool, error) {
	switch r.dev.Poll() {
	case rotary.EventRotateCW:
		r.lastActivity = time.Now()
		return app.RotateCW, true, nil
	case rotary.EventRotateCCW:
		r.lastActivity = time.Now()
		return app.RotateCCW, true, nil
	case rotary.EventPress:
		r.lastActivity = time.Now()
		return app.Press, true, nil
	default:
		return 0, false, nil
	}
}

func (r *rotaryInput) IdleSince() time.Duration { return time.Since(r.lastActivity) }

// keyboardInput is the -sim stand-in for rotary.Dev: it reads single-rune
// commands from stdin on a background goroutine ('a'/'d' rotate CCW/CW,
// space or enter presses) and reports them through a buffered channel so
// PollEvent never blocks the tick loop.
type keyboardInput struct {
	events       chan app.InputEvent
	lastActivity time.Time
}

func newKeyboardInput() *keyboardInput {
	k := &keyboardInput{events: make(chan app.InputEvent, 16), lastActivity: time.Now()}
	go k.readLoop()
	return k
}

func (k *keyboardInput) readLoop() {
	r := bufio.NewReader(os.Stdin)
	for {
		ch, _, err := r.ReadRune()
		if err != nil {
			return
		}
		switch ch {
		case 'a', 'A':
			k.events <- app.RotateCCW
		case 'd', 'D':
			k.events <- app.RotateCW
		case ' ', '\n', '\r':
			k.events <- app.Press
		}
	}
}

func (k *keyboardInput) PollEvent() (app.InputEvent, bool, error) {
	select {
	case ev := <-k.events:
		k.lastActivity = time.Now()
		return ev, true, nil
	default:
		return 0, false, nil
	}
}

func (k *keyboardInput) IdleSince() time.Duration { return time.Since(k.lastActivity) }
