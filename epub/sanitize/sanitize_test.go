// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sanitize

import "testing"

// S5: sanitizing "<p>Hello &amp; <" first produces "Hello &" (trailing
// space trimmed) with a tail starting at the trailing '<'; concatenating the
// tail with "br/>world</p>" and resuming the same state produces "world"
// (the <br/> break is dropped at the start of a chunk's output).
func TestChunkResumesAcrossSplitTag(t *testing.T) {
	var st State
	st.BodySeen = true
	st.InBody = true

	first := []byte("<p>Hello &amp; <")
	text, truncated, tailStart, hasTail := Chunk(first, &st, false)
	if truncated {
		t.Fatal("unexpected truncation")
	}
	if !hasTail {
		t.Fatal("expected a tail")
	}
	if tailStart != len(first)-1 {
		t.Fatalf("tailStart = %d, want %d", tailStart, len(first)-1)
	}
	if text != "Hello &" {
		t.Fatalf("first chunk text = %q", text)
	}

	second := append([]byte{}, first[tailStart:]...)
	second = append(second, []byte("br/>world</p>")...)
	text2, truncated2, _, hasTail2 := Chunk(second, &st, false)
	if truncated2 || hasTail2 {
		t.Fatalf("unexpected truncation/tail on second chunk")
	}
	if text2 != "world" {
		t.Fatalf("resumed chunk text = %q", text2)
	}
}

func TestChunkDropsHeadAndScript(t *testing.T) {
	var st State
	doc := []byte(`<html><head><title>ignored</title></head><body><script>var x=1;</script><p>visible text</p></body></html>`)
	text, _, _, hasTail := Chunk(doc, &st, false)
	if hasTail {
		t.Fatal("unexpected tail")
	}
	if text != "visible text" {
		t.Fatalf("text = %q", text)
	}
}

func TestChunkCollapsesWhitespace(t *testing.T) {
	var st State
	st.BodySeen, st.InBody = true, true
	text, _, _, _ := Chunk([]byte("one   two\n\tthree"), &st, false)
	if text != "one two three" {
		t.Fatalf("text = %q", text)
	}
}

func TestChunkDecodesEntities(t *testing.T) {
	var st State
	st.BodySeen, st.InBody = true, true
	text, _, _, _ := Chunk([]byte("Tom &amp; Jerry &mdash; &#65; &#x42;"), &st, false)
	if text != `Tom & Jerry - A B` {
		t.Fatalf("text = %q", text)
	}
}

func TestChunkPlainTextIgnoresHeadBodyGate(t *testing.T) {
	var st State
	text, _, _, _ := Chunk([]byte("no markup here"), &st, true)
	if text != "no markup here" {
		t.Fatalf("text = %q", text)
	}
}

func TestDecodeHTMLEntityNumeric(t *testing.T) {
	if ch, ok := decodeHTMLEntity([]byte("#x41")); !ok || ch != 'A' {
		t.Fatalf("decodeHTMLEntity(#x41) = %q, %v", ch, ok)
	}
	if ch, ok := decodeHTMLEntity([]byte("nbsp")); !ok || ch != ' ' {
		t.Fatalf("decodeHTMLEntity(nbsp) = %q, %v", ch, ok)
	}
	if _, ok := decodeHTMLEntity([]byte("bogus")); ok {
		t.Fatal("expected unknown entity to fail")
	}
}

func TestDecodeNumericEntitySaturates(t *testing.T) {
	if _, ok := decodeNumericEntity([]byte("#99999999999999999999")); ok {
		t.Fatal("expected an absurdly large numeric entity to be rejected")
	}
}

func TestDecodeUTF8CharRejectsOverlong(t *testing.T) {
	// 0xC0 0x80 is an overlong encoding of NUL; C0/C1 are never valid leads.
	_, _, kind := decodeUTF8Char([]byte{0xC0, 0x80}, 0)
	if kind != utf8Invalid {
		t.Fatalf("kind = %v, want invalid", kind)
	}
}

func TestDecodeUTF8CharIncompleteAtBoundary(t *testing.T) {
	_, _, kind := decodeUTF8Char([]byte{0xE2, 0x82}, 0)
	if kind != utf8Incomplete {
		t.Fatalf("kind = %v, want incomplete", kind)
	}
}

func TestDecodeSingleByteFallbackCurlyQuotes(t *testing.T) {
	if decodeSingleByteFallback(0x93) != '"' {
		t.Fatal("expected left curly quote to fall back to straight quote")
	}
	if decodeSingleByteFallback(0xFF) != '?' {
		t.Fatal("expected an unmapped high byte to fall back to '?'")
	}
}

func TestTagInsertsParagraphBreak(t *testing.T) {
	if !tagInsertsParagraphBreak([]byte("p")) {
		t.Fatal("<p> should insert a paragraph break")
	}
	if !tagInsertsParagraphBreak([]byte("/div")) {
		t.Fatal("</div> should insert a paragraph break")
	}
	if tagInsertsParagraphBreak([]byte("span")) {
		t.Fatal("<span> should not insert a paragraph break")
	}
}

func TestApplyHTMLTagStateBodyLifecycle(t *testing.T) {
	var st State
	applyHTMLTagState([]byte("head"), &st)
	if !st.InHead {
		t.Fatal("expected InHead after <head>")
	}
	applyHTMLTagState([]byte("/head"), &st)
	if st.InHead {
		t.Fatal("expected !InHead after </head>")
	}
	applyHTMLTagState([]byte("body"), &st)
	if !st.BodySeen || !st.InBody {
		t.Fatal("expected BodySeen and InBody after <body>")
	}
	applyHTMLTagState([]byte("/body"), &st)
	if st.InBody {
		t.Fatal("expected !InBody after </body>")
	}
}
