// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bookdb

import (
	"github.com/carlosgj94/rapid-reader/catalog"
)

// ManifestFileName is the manifest's path under the book database root
// (BOOKS/.readily on the real SD card).
const ManifestFileName = "manifest.bin"

const (
	manifestMagic   = 0x314D4D42 // "BMM1"
	manifestVersion = 1
)

// ManifestEntry is one book's catalog seed plus its first streaming
// resumption point: the resource to open and the offset/chapter label to
// start from, letting TryLoadCatalogFromDB put a slot straight into stream
// mode without re-running the EPUB scan.
type ManifestEntry struct {
	ShortName         string
	DisplayTitle      string
	HasCover          bool
	ChapterTotal      uint16
	FirstResource     string
	FirstOffset       uint32
	FirstChapterLabel string
}

// Manifest is the full saved book list, at most catalog.MaxTitles entries
// (one per catalog slot).
type Manifest struct {
	Entries []ManifestEntry
}

// EncodeManifest serializes m as magic/version/count header, the entries in
// order, then a trailing FNV-1a checksum over everything before it.
func EncodeManifest(m Manifest) []byte {
	w := &byteWriter{}
	w.u32(manifestMagic)
	w.u8(manifestVersion)
	w.u8(uint8(len(m.Entries)))
	w.u16(0) // reserved

	for _, e := range m.Entries {
		w.str(e.ShortName, catalog.TitleBytes)
		w.str(e.DisplayTitle, catalog.TitleBytes)
		w.bool8(e.HasCover)
		w.u16(e.ChapterTotal)
		w.str(e.FirstResource, catalog.PathBytes)
		w.u32(e.FirstOffset)
		w.str(e.FirstChapterLabel, catalog.TitleBytes)
	}

	checksum := checksum32(w.buf)
	w.u32(checksum)
	return w.buf
}

// DecodeManifest parses a manifest file written by EncodeManifest. A
// recognized but corrupted record (checksum mismatch) reports ErrCorrupted;
// an unrecognized magic/version, or a file too short to hold one, reports ok
// = false with no error, matching bookdb's "missing or unreadable means fall
// back to a fresh SD scan" contract.
func DecodeManifest(data []byte) (m Manifest, ok bool, err error) {
	if len(data) < 8 {
		return Manifest{}, false, nil
	}
	r := &byteReader{buf: data}

	magic, _ := r.u32()
	if magic != manifestMagic {
		return Manifest{}, false, nil
	}
	version, _ := r.u8()
	if version != manifestVersion {
		return Manifest{}, false, nil
	}
	count, _ := r.u8()
	if _, err := r.u16(); err != nil {
		return Manifest{}, false, nil
	}

	body := data[:len(data)-4]
	expected := uint32(data[len(data)-4]) | uint32(data[len(data)-3])<<8 |
		uint32(data[len(data)-2])<<16 | uint32(data[len(data)-1])<<24
	if checksum32(body) != expected {
		return Manifest{}, false, ErrCorrupted
	}

	entries := make([]ManifestEntry, 0, count)
	for i := uint8(0); i < count; i++ {
		var e ManifestEntry
		if e.ShortName, err = r.str(); err != nil {
			return Manifest{}, false, ErrCorrupted
		}
		if e.DisplayTitle, err = r.str(); err != nil {
			return Manifest{}, false, ErrCorrupted
		}
		if e.HasCover, err = r.bool8(); err != nil {
			return Manifest{}, false, ErrCorrupted
		}
		if e.ChapterTotal, err = r.u16(); err != nil {
			return Manifest{}, false, ErrCorrupted
		}
		if e.FirstResource, err = r.str(); err != nil {
			return Manifest{}, false, ErrCorrupted
		}
		if e.FirstOffset, err = r.u32(); err != nil {
			return Manifest{}, false, ErrCorrupted
		}
		if e.FirstChapterLabel, err = r.str(); err != nil {
			return Manifest{}, false, ErrCorrupted
		}
		entries = append(entries, e)
	}

	return Manifest{Entries: entries}, true, nil
}

// LoadManifest reads and decodes the manifest file from storage. ok is
// false, with no error, when the file is absent or unrecognized.
func LoadManifest(storage Storage) (Manifest, bool, error) {
	data, err := storage.ReadFile(ManifestFileName)
	if err == ErrNotExist {
		return Manifest{}, false, nil
	}
	if err != nil {
		return Manifest{}, false, err
	}
	return DecodeManifest(data)
}

// SaveManifest encodes m and replaces the manifest file atomically.
func SaveManifest(storage Storage, m Manifest) error {
	return SaveAtomic(storage, ManifestFileName, EncodeManifest(m))
}
