// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bookdb

import "errors"

var errRenameFailed = errors.New("bookdb: simulated rename failure")

// fakeStorage is an in-memory Storage for exercising the codec and
// atomic-replace logic without a real filesystem.
type fakeStorage struct {
	files        map[string][]byte
	failRenameTo string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (f *fakeStorage) ReadFile(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, ErrNotExist
	}
	return data, nil
}

func (f *fakeStorage) WriteFile(path string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	f.files[path] = cp
	return nil
}

func (f *fakeStorage) Rename(oldPath, newPath string) error {
	if newPath == f.failRenameTo {
		return errRenameFailed
	}
	data, ok := f.files[oldPath]
	if !ok {
		return ErrNotExist
	}
	delete(f.files, oldPath)
	f.files[newPath] = data
	return nil
}
