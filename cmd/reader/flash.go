// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/carlosgj94/rapid-reader/settings"
)

// fileFlash is a settings.FlashDevice backed by a fixed-size file on disk,
// erased (0xFF) throughout at creation. The reader's target hardware talks
// to real NOR flash through a partition table that is itself device-specific
// and out of scope here, so this stands in as the one data partition New
// ever needs to find.
type fileFlash struct {
	f    *os.File
	size uint32
}

// openFileFlash opens path, creating and erasing a fresh size-byte file if
// it does not already exist.
func openFileFlash(path string, size uint32) (*fileFlash, error) {
	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	ff := &fileFlash{f: f, size: size}
	if os.IsNotExist(statErr) {
		if err := ff.eraseAll(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return ff, nil
}

func (f *fileFlash) eraseAll() error {
	buf := make([]byte, f.size)
	for i := range buf {
		buf[i] = 0xFF
	}
	_, err := f.f.WriteAt(buf, 0)
	return err
}

func (f *fileFlash) EraseSector(addr uint32) error {
	buf := make([]byte, 4096)
	for i := range buf {
		buf[i] = 0xFF
	}
	_, err := f.f.WriteAt(buf, int64(addr))
	return err
}

func (f *fileFlash) ReadWord(addr uint32) (uint32, error) {
	var buf [4]byte
	if _, err := f.f.ReadAt(buf[:], int64(addr)); err != nil {
		return 0, err
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, nil
}

func (f *fileFlash) WriteWord(addr uint32, word uint32) error {
	buf := [4]byte{byte(word), byte(word >> 8), byte(word >> 16), byte(word >> 24)}
	_, err := f.f.WriteAt(buf[:], int64(addr))
	return err
}

func (f *fileFlash) Close() error { return f.f.Close() }

// singlePartitionTable reports one read-write Data/Undefined partition
// spanning the whole flash file, the simplest table settings.New accepts.
type singlePartitionTable struct {
	size uint32
}

func (t singlePartitionTable) ReadPartitionTable() ([]settings.PartitionEntry, error) {
	return []settings.PartitionEntry{
		{Offset: 0, Length: t.size, IsData: true, SubType: settings.DataSubTypeUndefined},
	}, nil
}
