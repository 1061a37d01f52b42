// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command reader is the rapid-reader firmware's host loop: it scans a
// BOOKS/ directory of EPUBs (or falls back to a cached manifest), drives
// app.Reader from a rotary encoder (or, with -sim, a keyboard), and paints
// the result to a Sharp Memory LCD panel (or, with -sim, a terminal).
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/carlosgj94/rapid-reader/app"
	"github.com/carlosgj94/rapid-reader/bookdb"
	"github.com/carlosgj94/rapid-reader/display/sharplcd"
	"github.com/carlosgj94/rapid-reader/display/termsink"
	"github.com/carlosgj94/rapid-reader/input/rotary"
	"github.com/carlosgj94/rapid-reader/internal/power"
	"github.com/carlosgj94/rapid-reader/loading"
	"github.com/carlosgj94/rapid-reader/render"
	"github.com/carlosgj94/rapid-reader/settings"
)

const (
	extcominInterval  = 500 * time.Millisecond
	progressSaveMs    = int64(2000)
	idleSleepDuration = 3 * time.Minute
	settingsFlashSize = uint32(4096)
)

// hostInput is what both the real rotary encoder and the -sim keyboard
// stand-in give main: app.InputProvider plus how long it has sat idle,
// which drives the deep-sleep timeout.
type hostInput interface {
	app.InputProvider
	IdleSince() time.Duration
}

func main() {
	sim := flag.Bool("sim", false, "render to the terminal instead of a Sharp Memory LCD panel")
	wake := flag.Bool("wake", false, "boot as a wake from deep sleep instead of a cold boot")
	booksDir := flag.String("books-dir", "BOOKS", "directory of .epub files to scan")
	dataDir := flag.String("data-dir", "BOOKS/.readily", "directory for manifest.bin/progress.bin")
	flashFile := flag.String("flash-file", "settings.bin", "file standing in for the settings flash partition")
	spiBus := flag.String("spi-bus", "", "SPI bus name (spireg.Open argument; empty picks the first bus)")
	dispPinName := flag.String("disp-pin", "GPIO5", "panel DISP pin")
	extcominPinName := flag.String("extcomin-pin", "GPIO6", "panel EXTCOMIN pin")
	panelCSPinName := flag.String("panel-cs-pin", "GPIO7", "panel chip-select pin")
	sdCSPinName := flag.String("sd-cs-pin", "GPIO8", "SD card chip-select pin")
	clkPinName := flag.String("rotary-clk-pin", "GPIO9", "rotary encoder CLK pin")
	dtPinName := flag.String("rotary-dt-pin", "GPIO10", "rotary encoder DT pin")
	swPinName := flag.String("rotary-sw-pin", "GPIO11", "rotary encoder SW (button) pin")
	flag.Parse()

	storage, err := bookdb.NewDirStorage(*dataDir)
	if err != nil {
		log.Fatalf("reader: data dir: %v", err)
	}

	flash, err := openFileFlash(*flashFile, settingsFlashSize)
	var store *settings.Store
	if err != nil {
		log.Printf("reader: flash unavailable, settings will not persist: %v", err)
	} else {
		defer flash.Close()
		store, err = settings.New(flash, singlePartitionTable{size: settingsFlashSize})
		if err != nil {
			log.Printf("reader: settings partition unavailable: %v", err)
			store = nil
		}
	}

	drawFrame, disableDisplay, toggleExtcomin, sdCS, input, cleanup := setupHost(*sim, *spiBus,
		*dispPinName, *extcominPinName, *panelCSPinName, *sdCSPinName,
		*clkPinName, *dtPinName, *swPinName)
	defer cleanup()

	mode := loading.ColdBoot
	if *wake {
		mode = loading.WakeFromDeepSleep
	}

	reportProgress := func(phase string, percent int) {
		var fb sharplcd.FrameBuffer
		screen := render.Screen{
			Title:  "Rapid Reader",
			Kind:   render.KindStatus,
			Status: render.StatusView{Line1: phase, Line2: fmt.Sprintf("%d%%", percent)},
		}
		render.Render(&fb, screen, render.VisualStyle{Family: render.FontSerif, Size: render.SizeMedium, Invert: true})
		_ = drawFrame(&fb)
	}

	var storageIface bookdb.Storage = storage
	var settingsStoreIface settings.SettingsStore
	if store != nil {
		settingsStoreIface = store
	}
	boot := runBoot(mode, *booksDir, storageIface, settingsStoreIface, reportProgress)
	if boot.shelf != nil {
		defer boot.shelf.Close()
	}

	config := app.DefaultReaderConfig()
	reader := app.NewReader(boot.content, input, config, "Rapid Reader", 3)

	initialSettings := settings.PersistedSettings{}
	if boot.hasPersisted {
		reader.ApplyPersistedSettings(boot.persisted.Wpm, boot.persisted.Style)
		initialSettings = boot.persisted
	} else {
		wpm, style := reader.CurrentSettings()
		initialSettings = settings.PersistedSettings{Wpm: wpm, Style: style}
	}
	syncState := settings.NewSyncState(initialSettings)

	if boot.hasResume {
		reader.ImportResumeState(boot.resume, 1)
	}

	runLoop(reader, boot, storageIface, store, syncState, input, drawFrame, disableDisplay, toggleExtcomin, sdCS)
}

// setupHost wires the display/input collaborators for either the real
// Sharp Memory LCD + rotary encoder, or the -sim terminal + keyboard
// stand-ins, behind the same four function-shaped seams the main loop
// drives: draw a frame, disable the display, toggle EXTCOMIN (a no-op in
// sim mode, which has no panel to refresh), and the SD card's chip select
// for power.EnterDeepSleep.
func setupHost(sim bool, spiBus, dispPinName, extcominPinName, panelCSPinName, sdCSPinName, clkPinName, dtPinName, swPinName string) (
	drawFrame func(*sharplcd.FrameBuffer) error,
	disableDisplay func() error,
	toggleExtcomin func(bool) error,
	sdCS interface{ Out(gpio.Level) error },
	input hostInput,
	cleanup func(),
) {
	if sim {
		writer := termsink.New(nil)
		return func(fb *sharplcd.FrameBuffer) error { return writer.Draw(fb) },
			func() error { return writer.Halt() },
			func(bool) error { return nil },
			noopCSPin{},
			newKeyboardInput(),
			func() { _ = writer.Halt() }
	}

	if _, err := host.Init(); err != nil {
		log.Fatalf("reader: host init: %v", err)
	}
	bus, err := spireg.Open(spiBus)
	if err != nil {
		log.Fatalf("reader: spi open: %v", err)
	}

	dev, err := sharplcd.New(bus, gpioreg.ByName(dispPinName), gpioreg.ByName(extcominPinName), gpioreg.ByName(panelCSPinName), nil)
	if err != nil {
		log.Fatalf("reader: sharplcd: %v", err)
	}
	if err := dev.Initialize(); err != nil {
		log.Fatalf("reader: sharplcd init: %v", err)
	}

	rdev, err := rotary.New(gpioreg.ByName(clkPinName), gpioreg.ByName(dtPinName), gpioreg.ByName(swPinName), nil)
	if err != nil {
		log.Fatalf("reader: rotary: %v", err)
	}

	return func(fb *sharplcd.FrameBuffer) error { return dev.FlushFrame(fb) },
		dev.Disable,
		dev.ToggleExtcomin,
		gpioreg.ByName(sdCSPinName),
		newRotaryInput(rdev),
		func() { _ = bus.Close() }
}

type noopCSPin struct{}

func (noopCSPin) Out(gpio.Level) error { return nil }

// runLoop is the single-goroutine tick loop: poll+dispatch one input event
// per iteration via reader.Tick, redraw only when it asks for one, service
// at most one pending catalog refill per iteration, debounce settings
// saves, periodically snapshot reading progress, toggle EXTCOMIN at a
// steady cadence, and sleep the process when input has sat idle too long.
func runLoop(reader *app.Reader, boot *bootResult, storage bookdb.Storage, store *settings.Store, syncState *settings.SyncState,
	input hostInput, drawFrame func(*sharplcd.FrameBuffer) error, disableDisplay func() error, toggleExtcomin func(bool) error,
	sdCS interface{ Out(gpio.Level) error }) {

	start := time.Now()
	nowMs := func() int64 { return time.Since(start).Milliseconds() }

	lastExtcomin := time.Now()
	extcominHigh := false
	lastProgressSaveMs := int64(0)

	var settingsStore settings.SettingsStore
	if store != nil {
		settingsStore = store
	}

	for {
		now := nowMs()

		if reader.Tick(now) == app.RenderRequested {
			_, style := reader.CurrentSettings()
			reader.WithScreen(now, func(screen render.Screen) {
				var fb sharplcd.FrameBuffer
				render.Render(&fb, screen, style)
				if err := drawFrame(&fb); err != nil {
					log.Printf("reader: draw: %v", err)
				}
			})
		}

		serviceRefill(boot)

		wpm, style := reader.CurrentSettings()
		syncState.TrackCurrent(settings.PersistedSettings{Wpm: wpm, Style: style}, now)
		syncState.FlushIfDue(settingsStore, now)

		if now-lastProgressSaveMs >= progressSaveMs {
			lastProgressSaveMs = now
			if resume, ok := reader.ExportResumeState(); ok && boot.states != nil {
				bookdb.SaveResumeToDB(storage, resume, boot.states)
			}
		}

		if time.Since(lastExtcomin) >= extcominInterval {
			lastExtcomin = time.Now()
			extcominHigh = !extcominHigh
			if err := toggleExtcomin(extcominHigh); err != nil {
				log.Printf("reader: extcomin: %v", err)
			}
		}

		if input.IdleSince() >= idleSleepDuration {
			if err := power.EnterDeepSleep(disableDisplayer{disableDisplay}, sdCS, waitForWake(input)); err != nil {
				log.Printf("reader: deep sleep: %v", err)
			}
			lastExtcomin = time.Now()
		}

		time.Sleep(time.Millisecond)
	}
}

// serviceRefill satisfies at most one pending catalog refill per tick, the
// same way the render path never blocks on SD I/O: if the selected slot is
// waiting and this catalog came from a fresh scan (boot.shelf != nil), one
// chunk is read and uploaded. A catalog fast-loaded from a cached manifest
// has no open EPUB files behind it, so it cannot service refills and stays
// limited to whatever text the manifest already carried.
func serviceRefill(boot *bootResult) {
	if boot.shelf == nil || !boot.content.IsWaitingForRefill() {
		return
	}
	if err := boot.shelf.Refill(boot.content, boot.content.SelectedIndex()); err != nil {
		log.Printf("reader: refill: %v", err)
	}
}

// disableDisplayer adapts a bare func() error to power's narrow display
// interface.
type disableDisplayer struct{ fn func() error }

func (d disableDisplayer) Disable() error { return d.fn() }

// waitForWake emulates the real HAL's wake-on-pin-edge mechanism with a
// polling loop against the same input source the reader normally drives
// from, since this build has no MCU sleep state to suspend into. It
// returns (unlike the real hook, which never does) once an event arrives,
// letting the caller resume the tick loop as if the device had woken up.
func waitForWake(input hostInput) power.Sleeper {
	return func() error {
		for {
			if _, ok, _ := input.PollEvent(); ok {
				return nil
			}
			time.Sleep(50 * time.Millisecond)
		}
	}
}
