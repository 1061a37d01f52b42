// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

import "github.com/carlosgj94/rapid-reader/render"

type advanceWordResult int

const (
	advanceWordAdvanced advanceWordResult = iota
	advanceWordAwaitingRefill
	advanceWordEndOfText
)

// Tick drives one iteration of the state machine: it polls at most one
// input event, dispatches it against the current screen, then lets the
// active screen's own time-based policy run (countdown ticking down,
// reading advancing words, pause-overlay redraw cadence). It never
// allocates and never blocks.
func (r *Reader) Tick(nowMs int64) TickResult {
	if event, ok, _ := r.input.PollEvent(); ok {
		r.dispatchEvent(event, nowMs)
	}

	switch r.ui.kind {
	case uiCountdown:
		return r.tickCountdown(nowMs)
	case uiReading:
		return r.tickReading(nowMs)
	default:
		if r.pendingRedraw {
			r.pendingRedraw = false
			return RenderRequested
		}
		return NoRender
	}
}

func (r *Reader) tickCountdown(nowMs int64) TickResult {
	if r.pendingRedraw {
		r.pendingRedraw = false
		return RenderRequested
	}

	st := r.ui
	if st.kind != uiCountdown {
		return NoRender
	}
	if nowMs < st.countdownNextStepMs {
		return NoRender
	}

	if st.countdownRemaining > 1 {
		st.countdownRemaining--
		st.countdownNextStepMs += 1000
		r.ui = st
		r.startTransition(render.AnimationPulse, nowMs, 900)
		return RenderRequested
	}

	r.enterReading(st.selectedBook, nowMs)
	return r.tickReading(nowMs)
}

func (r *Reader) tickReading(nowMs int64) TickResult {
	st := r.ui
	if st.kind != uiReading {
		return NoRender
	}

	if st.readingPaused {
		slot := nowMs / pauseAnimFrameMs
		if r.pendingRedraw || r.lastPauseAnimSlot == nil || *r.lastPauseAnimSlot != slot {
			r.pendingRedraw = false
			r.lastPauseAnimSlot = &slot
			return RenderRequested
		}
		return NoRender
	}
	r.lastPauseAnimSlot = nil

	if r.pendingRedraw && !r.word.isEmpty() {
		r.pendingRedraw = false
		return RenderRequested
	}

	if r.word.isEmpty() || nowMs >= st.readingNextWordMs {
		result, err := r.advanceWord()
		switch {
		case err != nil:
			r.setStatus("CONTENT ERROR", "CHECK SOURCE", nowMs)
			r.pendingRedraw = false
			return RenderRequested
		case result == advanceWordAdvanced:
			st.readingNextWordMs = nowMs + int64(r.currentWordDelayMs())
			r.ui = st
			r.pendingRedraw = false
			return RenderRequested
		case result == advanceWordAwaitingRefill:
			st.readingNextWordMs = nowMs + refillRetryMs
			r.ui = st
			r.pendingRedraw = false
			return NoRender
		default: // advanceWordEndOfText
			r.enterLibrary(st.selectedBook, nowMs)
			r.pendingRedraw = false
			return RenderRequested
		}
	}

	return NoRender
}

func (r *Reader) advanceWord() (advanceWordResult, error) {
	token, ok, err := r.content.NextWord()
	if err != nil {
		return 0, err
	}
	if !ok {
		if r.content.IsWaitingForRefill() {
			return advanceWordAwaitingRefill, nil
		}
		return advanceWordEndOfText, nil
	}

	r.word.set(token.Text)
	r.lastEndsSentence = token.EndsSentence
	r.lastEndsClause = token.EndsClause

	index, total := r.content.ParagraphProgress()
	r.paragraphWordIndex = index
	if total == 0 {
		total = 1
	}
	r.paragraphWordTotal = total
	return advanceWordAdvanced, nil
}

func (r *Reader) currentWordDelayMs() uint32 {
	wpm := r.config.Wpm
	if wpm == 0 {
		wpm = 1
	}
	base := 60000 / uint32(wpm)

	var punctuation uint32
	switch {
	case r.lastEndsSentence:
		punctuation = uint32(r.config.DotPauseMs)
	case r.lastEndsClause:
		punctuation = uint32(r.config.CommaPauseMs)
	}
	return base + punctuation
}

func (r *Reader) rotateSetting(row SettingsRow, clockwise bool) {
	switch row {
	case SettingsRowFont:
		if r.style.Family == render.FontSerif {
			r.style.Family = render.FontPixel
		} else {
			r.style.Family = render.FontSerif
		}
	case SettingsRowSize:
		r.style.Size = rotateFontSize(r.style.Size, clockwise)
	case SettingsRowInvert:
		r.style.Invert = !r.style.Invert
	case SettingsRowWpm:
		r.adjustWpm(clockwise)
	case SettingsRowBack:
	}
}

func rotateFontSize(size render.FontSize, clockwise bool) render.FontSize {
	if clockwise {
		switch size {
		case render.SizeSmall:
			return render.SizeMedium
		case render.SizeMedium:
			return render.SizeLarge
		default:
			return render.SizeSmall
		}
	}
	switch size {
	case render.SizeSmall:
		return render.SizeLarge
	case render.SizeMedium:
		return render.SizeSmall
	default:
		return render.SizeMedium
	}
}

func (r *Reader) adjustWpm(increase bool) bool {
	next := r.config.Wpm
	if increase {
		next += wpmStep
		if next > r.config.MaxWpm {
			next = r.config.MaxWpm
		}
	} else {
		if next > wpmStep {
			next -= wpmStep
		} else {
			next = 0
		}
		if next < r.config.MinWpm {
			next = r.config.MinWpm
		}
	}
	if next != r.config.Wpm {
		r.config.Wpm = next
		return true
	}
	return false
}
