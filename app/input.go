// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

// InputEvent is one logical action consumed by Tick.
type InputEvent int

const (
	RotateCW InputEvent = iota
	RotateCCW
	Press
)

// InputProvider is polled once at the top of every tick. ok is false when
// no event is pending.
type InputProvider interface {
	PollEvent() (event InputEvent, ok bool, err error)
}
