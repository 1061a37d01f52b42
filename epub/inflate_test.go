// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epub

import "testing"

func TestReadChunkStoredAndDeflated(t *testing.T) {
	const text = "Chapter one begins here and continues for a while so the deflate stream has more than one block of real content to inflate back out again."
	r := buildTestZip(t, map[string]string{
		"stored.txt":   text,
		"deflated.txt": text,
	}, map[string]bool{"stored.txt": true})

	a, err := OpenArchive(r, int64(r.Len()))
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"stored.txt", "deflated.txt"} {
		e, ok := a.ByName(name)
		if !ok {
			t.Fatalf("%s not found", name)
		}
		out := make([]byte, len(text))
		n, end, err := a.ReadChunk(e, 0, out)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if string(out[:n]) != text {
			t.Fatalf("%s: got %q, want %q", name, out[:n], text)
		}
		if !end {
			t.Fatalf("%s: expected end of resource", name)
		}
	}
}

func TestReadChunkResumeMidStream(t *testing.T) {
	const text = "Resuming mid-stream must land on the same bytes a fresh read from zero would have produced, even though DEFLATE has no random access points."
	r := buildTestZip(t, map[string]string{"resume.txt": text}, nil)
	a, err := OpenArchive(r, int64(r.Len()))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := a.ByName("resume.txt")

	const resumeAt = 40
	out := make([]byte, len(text)-resumeAt)
	n, end, err := a.ReadChunk(e, resumeAt, out)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(out[:n]), text[resumeAt:]; got != want {
		t.Fatalf("resumed read = %q, want %q", got, want)
	}
	if !end {
		t.Fatal("expected end of resource")
	}
}

func TestReadChunkPastEndReturnsNoBytes(t *testing.T) {
	r := buildTestZip(t, map[string]string{"short.txt": "hi"}, map[string]bool{"short.txt": true})
	a, err := OpenArchive(r, int64(r.Len()))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := a.ByName("short.txt")
	out := make([]byte, 8)
	n, end, err := a.ReadChunk(e, 100, out)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || !end {
		t.Fatalf("ReadChunk past end = (%d, %v), want (0, true)", n, end)
	}
}
