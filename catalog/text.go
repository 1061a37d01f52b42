// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package catalog

// TitleCount returns the number of titles currently in the catalog.
func (s *Source) TitleCount() uint16 { return uint16(s.count) }

// TitleAt returns the display title at index.
func (s *Source) TitleAt(index uint16) (string, bool) {
	idx := int(index)
	if idx < 0 || idx >= s.count {
		return "", false
	}
	return s.slots[idx].titleStr(), true
}

// HasCoverAt reports whether the title at index has cover art available.
func (s *Source) HasCoverAt(index uint16) bool {
	idx := int(index)
	if idx < 0 || idx >= s.count {
		return false
	}
	return s.slots[idx].hasCover
}
