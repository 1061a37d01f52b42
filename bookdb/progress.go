// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bookdb

import "github.com/carlosgj94/rapid-reader/catalog"

// ProgressFileName is the progress file's path under the book database root.
const ProgressFileName = "progress.bin"

const (
	progressMagic   = 0x31475042 // "BPG1"
	progressVersion = 1
)

// ProgressEntry is one book's last-read position, keyed by the short file
// name rather than a catalog slot index so it survives the catalog being
// rebuilt in a different order.
type ProgressEntry struct {
	ShortName          string
	ChapterIndex       uint16
	ParagraphInChapter uint16
	WordIndex          uint16
}

// Progress is the full saved set of reading positions, plus the short name
// of whichever book was open most recently.
type Progress struct {
	LastOpenShortName string
	Entries           []ProgressEntry
}

// EncodeProgress serializes p the same way EncodeManifest does: a header,
// the entries, then a trailing checksum.
func EncodeProgress(p Progress) []byte {
	w := &byteWriter{}
	w.u32(progressMagic)
	w.u8(progressVersion)
	w.str(p.LastOpenShortName, catalog.TitleBytes)
	w.u8(uint8(len(p.Entries)))

	for _, e := range p.Entries {
		w.str(e.ShortName, catalog.TitleBytes)
		w.u16(e.ChapterIndex)
		w.u16(e.ParagraphInChapter)
		w.u16(e.WordIndex)
	}

	checksum := checksum32(w.buf)
	w.u32(checksum)
	return w.buf
}

// DecodeProgress parses a progress file written by EncodeProgress, with the
// same ok/err contract as DecodeManifest.
func DecodeProgress(data []byte) (p Progress, ok bool, err error) {
	if len(data) < 8 {
		return Progress{}, false, nil
	}
	r := &byteReader{buf: data}

	magic, _ := r.u32()
	if magic != progressMagic {
		return Progress{}, false, nil
	}
	version, _ := r.u8()
	if version != progressVersion {
		return Progress{}, false, nil
	}
	lastOpen, lastOpenErr := r.str()
	if lastOpenErr != nil {
		return Progress{}, false, nil
	}
	count, countErr := r.u8()
	if countErr != nil {
		return Progress{}, false, nil
	}

	body := data[:len(data)-4]
	expected := uint32(data[len(data)-4]) | uint32(data[len(data)-3])<<8 |
		uint32(data[len(data)-2])<<16 | uint32(data[len(data)-1])<<24
	if checksum32(body) != expected {
		return Progress{}, false, ErrCorrupted
	}

	entries := make([]ProgressEntry, 0, count)
	for i := uint8(0); i < count; i++ {
		var e ProgressEntry
		if e.ShortName, err = r.str(); err != nil {
			return Progress{}, false, ErrCorrupted
		}
		if e.ChapterIndex, err = r.u16(); err != nil {
			return Progress{}, false, ErrCorrupted
		}
		if e.ParagraphInChapter, err = r.u16(); err != nil {
			return Progress{}, false, ErrCorrupted
		}
		if e.WordIndex, err = r.u16(); err != nil {
			return Progress{}, false, ErrCorrupted
		}
		entries = append(entries, e)
	}

	return Progress{LastOpenShortName: lastOpen, Entries: entries}, true, nil
}

// LoadProgress reads and decodes the progress file. ok is false, with no
// error, when the file is absent or unrecognized.
func LoadProgress(storage Storage) (Progress, bool, error) {
	data, err := storage.ReadFile(ProgressFileName)
	if err == ErrNotExist {
		return Progress{}, false, nil
	}
	if err != nil {
		return Progress{}, false, err
	}
	return DecodeProgress(data)
}

// SaveProgress encodes p and replaces the progress file atomically.
func SaveProgress(storage Storage, p Progress) error {
	return SaveAtomic(storage, ProgressFileName, EncodeProgress(p))
}

// UpsertProgress loads the current progress file, replaces or appends the
// entry for shortName, sets it as the last-open book, and saves the result.
// It mirrors probe_and_upsert_book_db_progress's read-modify-write contract.
func UpsertProgress(storage Storage, shortName string, chapterIndex, paragraphInChapter, wordIndex uint16) error {
	progress, _, err := LoadProgress(storage)
	if err != nil {
		progress = Progress{}
	}

	updated := ProgressEntry{
		ShortName:          shortName,
		ChapterIndex:       chapterIndex,
		ParagraphInChapter: paragraphInChapter,
		WordIndex:          wordIndex,
	}

	found := false
	for i := range progress.Entries {
		if equalFoldASCII(progress.Entries[i].ShortName, shortName) {
			progress.Entries[i] = updated
			found = true
			break
		}
	}
	if !found {
		progress.Entries = append(progress.Entries, updated)
	}
	progress.LastOpenShortName = shortName

	return SaveProgress(storage, progress)
}

// equalFoldASCII is a case-insensitive ASCII string comparison, matching the
// original's eq_ignore_ascii_case (short names are 8.3 FAT names, always
// ASCII).
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 32
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 32
		}
		if ca != cb {
			return false
		}
	}
	return true
}
