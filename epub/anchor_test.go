// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epub

import "testing"

func TestFindFragmentOffsetStored(t *testing.T) {
	doc := `<html><body><p>intro</p><h2 id="ch2">Chapter Two</h2><p>text</p></body></html>`
	r := buildTestZip(t, map[string]string{"ch.xhtml": doc}, map[string]bool{"ch.xhtml": true})
	a, err := OpenArchive(r, int64(r.Len()))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := a.ByName("ch.xhtml")

	offset, found, err := a.FindFragmentOffset(e, "#ch2")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected anchor to be found")
	}
	want := "<h2 id=\"ch2\">"
	if string([]byte(doc)[offset:offset+len(want)]) != want {
		t.Fatalf("offset %d does not land on %q, got %q", offset, want, doc[offset:offset+len(want)])
	}
}

func TestFindFragmentOffsetDeflated(t *testing.T) {
	doc := `<html><body><p>` + repeatFiller(200) + `</p><section id="part-3">Part Three</section></body></html>`
	r := buildTestZip(t, map[string]string{"ch.xhtml": doc}, nil)
	a, err := OpenArchive(r, int64(r.Len()))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := a.ByName("ch.xhtml")

	offset, found, err := a.FindFragmentOffset(e, "part-3")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected anchor to be found")
	}
	want := `<section id="part-3">`
	if got := doc[offset : offset+len(want)]; got != want {
		t.Fatalf("offset %d does not land on %q, got %q", offset, want, got)
	}
}

func TestFindFragmentOffsetNotFound(t *testing.T) {
	doc := `<html><body><p>no anchors here</p></body></html>`
	r := buildTestZip(t, map[string]string{"ch.xhtml": doc}, map[string]bool{"ch.xhtml": true})
	a, err := OpenArchive(r, int64(r.Len()))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := a.ByName("ch.xhtml")

	_, found, err := a.FindFragmentOffset(e, "#missing")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected anchor not to be found")
	}
}

func TestDecodeFragmentForMatchPercentDecodes(t *testing.T) {
	got, ok := decodeFragmentForMatch("#Se%63tion%20One")
	if !ok {
		t.Fatal("decodeFragmentForMatch returned ok=false")
	}
	if got != "section one" {
		t.Fatalf("got %q, want %q", got, "section one")
	}
}

func repeatFiller(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + i%26)
	}
	return string(b)
}
