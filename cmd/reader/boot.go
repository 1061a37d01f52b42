// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/carlosgj94/rapid-reader/app"
	"github.com/carlosgj94/rapid-reader/bookdb"
	"github.com/carlosgj94/rapid-reader/catalog"
	"github.com/carlosgj94/rapid-reader/internal/bookscan"
	"github.com/carlosgj94/rapid-reader/loading"
	"github.com/carlosgj94/rapid-reader/settings"
)

// bootResult is everything main needs after the loading coordinator
// finishes: a seeded catalog, the Shelf servicing its refills (nil when
// the catalog came from a cached manifest rather than a fresh scan), the
// stream states bookdb needs to match a saved progress file, and whatever
// settings/resume state was recovered.
type bootResult struct {
	content *catalog.Source
	shelf   *bookscan.Shelf
	states  []bookdb.StreamState

	persisted    settings.PersistedSettings
	hasPersisted bool

	resume    app.ResumeState
	hasResume bool
}

// runBoot drives loading.Coordinator through mode's phase sequence,
// calling report after every phase so the caller can redraw a progress
// screen. A fresh SD scan (bookscan.ScanDir) is the primary way to build
// the catalog; a phase error anywhere in that path falls the coordinator
// back to bookdb.FastLoad's cached manifest, and WakeFromDeepSleep skips
// the scan entirely in favor of that same cached manifest, since waking
// up is not expected to re-discover the library from scratch.
func runBoot(mode loading.Mode, booksDir string, storage bookdb.Storage, store settings.SettingsStore, report func(phase string, percent int)) *bootResult {
	content := catalog.NewSource()
	coordinator := loading.New(mode)
	emit := func() {
		name, pct := coordinator.Phase()
		report(name, pct)
	}
	emit()

	var shelf *bookscan.Shelf
	var states []bookdb.StreamState

	if mode == loading.ColdBoot {
		shelf, states = coldBootScan(coordinator, emit, content, booksDir, storage)
	} else {
		coordinator.Advance(nil)
		emit()
	}

	var resume app.ResumeState
	hasResume := false

	if mode == loading.WakeFromDeepSleep || coordinator.FellBack() {
		if fbStates, fbResume, fbHasResume, ok, err := bookdb.FastLoad(storage, content); err == nil && ok {
			states = fbStates
			resume = fbResume
			hasResume = fbHasResume
		}
	}

	var persisted settings.PersistedSettings
	hasPersisted := false
	if store != nil {
		if p, ok, err := store.Load(); err == nil && ok {
			persisted = p
			hasPersisted = true
		}
	}
	coordinator.Advance(nil)
	emit()

	if !hasResume && states != nil {
		if r, ok, err := bookdb.LoadResumeFromDB(storage, states); err == nil && ok {
			resume = r
			hasResume = ok
		}
	}
	coordinator.Advance(nil)
	emit()

	coordinator.Advance(nil)
	emit()

	return &bootResult{
		content:      content,
		shelf:        shelf,
		states:       states,
		persisted:    persisted,
		hasPersisted: hasPersisted,
		resume:       resume,
		hasResume:    hasResume,
	}
}

// coldBootScan runs the PhaseProbeSD/PhaseScanCatalog pair of a cold boot:
// confirm booksDir is mountable, scan it, seed content from the result and
// persist a fresh manifest so the next boot can fast-load it. A failure at
// either step reports it to the coordinator (which switches to the
// fallback sequence) and returns a nil Shelf.
func coldBootScan(coordinator *loading.Coordinator, emit func(), content *catalog.Source, booksDir string, storage bookdb.Storage) (*bookscan.Shelf, []bookdb.StreamState) {
	info, err := os.Stat(booksDir)
	if err != nil {
		coordinator.Advance(fmt.Errorf("bookscan: BOOKS directory unavailable: %w", err))
		emit()
		return nil, nil
	}
	if !info.IsDir() {
		coordinator.Advance(fmt.Errorf("bookscan: %s is not a directory", booksDir))
		emit()
		return nil, nil
	}
	coordinator.Advance(nil)
	emit()

	shelf, entries, err := bookscan.ScanDir(booksDir)
	if err != nil {
		coordinator.Advance(fmt.Errorf("bookscan: scan failed: %w", err))
		emit()
		return nil, nil
	}
	if shelf.Len() == 0 {
		shelf.Close()
		coordinator.Advance(fmt.Errorf("bookscan: no EPUB files found in %s", booksDir))
		emit()
		return nil, nil
	}

	content.SetCatalogEntriesFromIter(entries)
	coordinator.SetCounter(shelf.Len(), shelf.Len())
	if err := shelf.SeedCatalog(content); err != nil {
		shelf.Close()
		coordinator.Advance(fmt.Errorf("bookscan: seeding catalog: %w", err))
		emit()
		return nil, nil
	}

	states := shelf.StreamStates()
	if err := bookdb.BuildBookDBFromRuntime(storage, content, states); err != nil {
		// The scan itself succeeded; failing to cache it only costs the next
		// boot its fast path, so this stays in-memory and keeps running.
		fmt.Fprintf(os.Stderr, "reader: saving manifest: %v\n", err)
	}

	coordinator.Advance(nil)
	emit()
	return shelf, states
}
