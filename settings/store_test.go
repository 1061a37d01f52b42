// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package settings

import (
	"errors"
	"testing"

	"github.com/carlosgj94/rapid-reader/render"
)

// fakeFlash is an in-memory FlashDevice backed by a byte slice, erased
// (0xFF) throughout at construction, matching real NOR flash's reset
// state.
type fakeFlash struct {
	bytes []byte
}

func newFakeFlash(size int) *fakeFlash {
	b := make([]byte, size)
	for i := range b {
		b[i] = 0xFF
	}
	return &fakeFlash{bytes: b}
}

func (f *fakeFlash) EraseSector(addr uint32) error {
	if addr%sectorSize != 0 {
		return ErrUnsupportedAddress
	}
	for i := uint32(0); i < sectorSize; i++ {
		f.bytes[addr+i] = 0xFF
	}
	return nil
}

func (f *fakeFlash) ReadWord(addr uint32) (uint32, error) {
	if addr%4 != 0 {
		return 0, ErrUnsupportedAddress
	}
	b := f.bytes[addr : addr+4]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func (f *fakeFlash) WriteWord(addr uint32, word uint32) error {
	if addr%4 != 0 {
		return ErrUnsupportedAddress
	}
	f.bytes[addr] = byte(word)
	f.bytes[addr+1] = byte(word >> 8)
	f.bytes[addr+2] = byte(word >> 16)
	f.bytes[addr+3] = byte(word >> 24)
	return nil
}

type fakePartitions struct {
	entries []PartitionEntry
	err     error
}

func (p *fakePartitions) ReadPartitionTable() ([]PartitionEntry, error) {
	return p.entries, p.err
}

func newTestStore(t *testing.T, entries []PartitionEntry) (*Store, *fakeFlash) {
	t.Helper()
	flash := newFakeFlash(4 * sectorSize)
	store, err := New(flash, &fakePartitions{entries: entries})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store, flash
}

func TestNewPrefersUndefinedOverNVS(t *testing.T) {
	entries := []PartitionEntry{
		{Offset: 0, Length: 2 * sectorSize, IsData: true, SubType: DataSubTypeNVS},
		{Offset: 2 * sectorSize, Length: sectorSize, IsData: true, SubType: DataSubTypeUndefined},
	}
	store, _ := newTestStore(t, entries)
	want := uint32(2*sectorSize) + sectorSize - sectorSize
	if store.sectorAddr != want {
		t.Fatalf("sectorAddr = %d, want %d", store.sectorAddr, want)
	}
}

func TestNewFallsBackToNVS(t *testing.T) {
	entries := []PartitionEntry{
		{Offset: 0, Length: sectorSize, ReadOnly: true, IsData: true, SubType: DataSubTypeUndefined},
		{Offset: sectorSize, Length: 2 * sectorSize, IsData: true, SubType: DataSubTypeNVS},
	}
	store, _ := newTestStore(t, entries)
	want := uint32(sectorSize) + 2*sectorSize - sectorSize
	if store.sectorAddr != want {
		t.Fatalf("sectorAddr = %d, want %d", store.sectorAddr, want)
	}
}

func TestNewRejectsMissingPartition(t *testing.T) {
	entries := []PartitionEntry{
		{Offset: 0, Length: sectorSize, IsData: false},
		{Offset: sectorSize, Length: sectorSize / 2, IsData: true, SubType: DataSubTypeNVS},
	}
	flash := newFakeFlash(4 * sectorSize)
	_, err := New(flash, &fakePartitions{entries: entries})
	if !errors.Is(err, ErrPartitionMissing) {
		t.Fatalf("err = %v, want ErrPartitionMissing", err)
	}
}

func TestLoadOnErasedSectorReturnsNotFound(t *testing.T) {
	store, _ := newTestStore(t, []PartitionEntry{
		{Offset: 0, Length: sectorSize, IsData: true, SubType: DataSubTypeUndefined},
	})

	_, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false on an erased sector")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store, _ := newTestStore(t, []PartitionEntry{
		{Offset: 0, Length: sectorSize, IsData: true, SubType: DataSubTypeUndefined},
	})

	want := PersistedSettings{
		Wpm: 340,
		Style: render.VisualStyle{
			Family: render.FontPixel,
			Size:   render.SizeLarge,
			Invert: true,
		},
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true after Save")
	}
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestLoadDetectsCorruptedChecksum(t *testing.T) {
	store, flash := newTestStore(t, []PartitionEntry{
		{Offset: 0, Length: sectorSize, IsData: true, SubType: DataSubTypeUndefined},
	})

	if err := store.Save(PersistedSettings{Wpm: 200}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Flip a byte inside the checksummed region without updating the
	// checksum, simulating a torn write.
	flash.bytes[store.sectorAddr+8] ^= 0xFF

	_, _, err := store.Load()
	if !errors.Is(err, ErrCorrupted) {
		t.Fatalf("err = %v, want ErrCorrupted", err)
	}
}

func TestLoadIgnoresUnrecognizedMagic(t *testing.T) {
	store, flash := newTestStore(t, []PartitionEntry{
		{Offset: 0, Length: sectorSize, IsData: true, SubType: DataSubTypeUndefined},
	})
	for i := uint32(0); i < recordLen; i++ {
		flash.bytes[store.sectorAddr+i] = 0x42
	}

	_, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for an unrecognized magic")
	}
}

func TestSyncStateDebouncesSaves(t *testing.T) {
	var saved []PersistedSettings
	store := fakeSaver(func(s PersistedSettings) error {
		saved = append(saved, s)
		return nil
	})

	initial := PersistedSettings{Wpm: 230}
	sync := NewSyncState(initial)

	sync.TrackCurrent(PersistedSettings{Wpm: 240}, 0)
	sync.FlushIfDue(store, 100)
	if len(saved) != 0 {
		t.Fatalf("expected no save before the debounce window elapses, got %d", len(saved))
	}

	sync.TrackCurrent(PersistedSettings{Wpm: 260}, 200)
	sync.FlushIfDue(store, 1600)
	if len(saved) != 0 {
		t.Fatalf("expected the debounce window to restart on a changed pending value")
	}

	sync.FlushIfDue(store, 1700)
	if len(saved) != 1 || saved[0].Wpm != 260 {
		t.Fatalf("expected exactly one save of the latest value, got %+v", saved)
	}
}

type fakeSaver func(PersistedSettings) error

func (f fakeSaver) Load() (PersistedSettings, bool, error) { return PersistedSettings{}, false, nil }
func (f fakeSaver) Save(s PersistedSettings) error         { return f(s) }
