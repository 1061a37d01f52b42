// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package settings

// SaveDebounceMs is how long a changed PersistedSettings must sit idle
// before SyncState.FlushIfDue writes it, so a rapid run of Settings-screen
// adjustments costs one flash erase/write instead of one per step.
const SaveDebounceMs int64 = 1500

// SyncState debounces writes to a SettingsStore: TrackCurrent records the
// latest value on every tick, and FlushIfDue commits it once it has been
// stable for SaveDebounceMs. With a nil store (no flash available)
// FlushIfDue accepts the pending value as saved without writing anywhere,
// so cmd/reader can run the same loop with or without a Store.
type SyncState struct {
	lastSaved PersistedSettings

	hasPending  bool
	pending     PersistedSettings
	changedAtMs int64
}

// NewSyncState seeds the tracker with the value already considered saved
// (typically whatever Store.Load returned, or the built-in default).
func NewSyncState(initial PersistedSettings) *SyncState {
	return &SyncState{lastSaved: initial}
}

// TrackCurrent records current as the latest observed settings value. A
// value that differs from what is already pending resets the debounce
// timer; a value that matches lastSaved clears any pending write.
func (s *SyncState) TrackCurrent(current PersistedSettings, nowMs int64) {
	if current == s.lastSaved {
		s.hasPending = false
		return
	}
	if !s.hasPending || s.pending != current {
		s.pending = current
		s.changedAtMs = nowMs
		s.hasPending = true
	}
}

// FlushIfDue writes the pending value through store once it has been
// stable for SaveDebounceMs. A failed write leaves the value pending so a
// later call retries; a nil store marks the value saved without writing.
func (s *SyncState) FlushIfDue(store SettingsStore, nowMs int64) {
	if !s.hasPending {
		return
	}
	if nowMs-s.changedAtMs < SaveDebounceMs {
		return
	}

	candidate := s.pending
	if store == nil {
		s.lastSaved = candidate
		s.hasPending = false
		return
	}

	if err := store.Save(candidate); err != nil {
		s.changedAtMs = nowMs
		return
	}
	s.lastSaved = candidate
	s.hasPending = false
}
