// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package catalog

import "testing"

func newTestSource(paragraphs []string) *Source {
	s := &Source{}
	s.clearCatalogState()
	s.pushCatalogTitleVerbatim("Test", false)
	s.fallback[0] = paragraphs
	s.resetReadPointer()
	return s
}

func TestEmitsWordsAndProgress(t *testing.T) {
	s := newTestSource([]string{"uno dos", "tres"})

	first, ok, err := s.NextWord()
	if err != nil || !ok {
		t.Fatalf("NextWord() = %+v, %v, %v", first, ok, err)
	}
	if first.Text != "uno" {
		t.Errorf("first word = %q, want uno", first.Text)
	}
	if idx, total := s.ParagraphProgress(); idx != 1 || total != 2 {
		t.Errorf("progress after first = (%d,%d), want (1,2)", idx, total)
	}

	second, ok, err := s.NextWord()
	if err != nil || !ok {
		t.Fatalf("NextWord() = %+v, %v, %v", second, ok, err)
	}
	if second.Text != "dos" {
		t.Errorf("second word = %q, want dos", second.Text)
	}
	if idx, total := s.ParagraphProgress(); idx != 2 || total != 2 {
		t.Errorf("progress after second = (%d,%d), want (2,2)", idx, total)
	}

	third, ok, err := s.NextWord()
	if err != nil || !ok {
		t.Fatalf("NextWord() = %+v, %v, %v", third, ok, err)
	}
	if third.Text != "tres" {
		t.Errorf("third word = %q, want tres", third.Text)
	}
	if idx := s.ParagraphIndex(); idx != 2 {
		t.Errorf("ParagraphIndex() = %d, want 2", idx)
	}
}

func TestPunctuationFlagsAreSet(t *testing.T) {
	s := newTestSource([]string{"hola, mundo. bien?"})

	a, ok, err := s.NextWord()
	if err != nil || !ok {
		t.Fatalf("NextWord() = %+v, %v, %v", a, ok, err)
	}
	if !a.EndsClause || a.EndsSentence {
		t.Errorf("word %q = {clause:%v sentence:%v}, want {true false}", a.Text, a.EndsClause, a.EndsSentence)
	}

	b, ok, err := s.NextWord()
	if err != nil || !ok {
		t.Fatalf("NextWord() = %+v, %v, %v", b, ok, err)
	}
	if !b.EndsSentence {
		t.Errorf("word %q should end a sentence", b.Text)
	}

	c, ok, err := s.NextWord()
	if err != nil || !ok {
		t.Fatalf("NextWord() = %+v, %v, %v", c, ok, err)
	}
	if !c.EndsSentence {
		t.Errorf("word %q should end a sentence", c.Text)
	}
}

func TestNextWordExhaustedReturnsFalse(t *testing.T) {
	s := newTestSource([]string{"solo"})
	if _, ok, _ := s.NextWord(); !ok {
		t.Fatal("expected first word")
	}
	_, ok, err := s.NextWord()
	if ok || err != nil {
		t.Fatalf("NextWord() at end = ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}

func TestSeekParagraphOutOfRange(t *testing.T) {
	s := newTestSource([]string{"uno", "dos"})
	if err := s.SeekParagraph(5); err != ErrInvalidParagraphIndex {
		t.Errorf("SeekParagraph(5) = %v, want ErrInvalidParagraphIndex", err)
	}
	if err := s.SeekParagraph(1); err != nil {
		t.Errorf("SeekParagraph(1) = %v, want nil", err)
	}
	if idx := s.ParagraphIndex(); idx != 2 {
		t.Errorf("ParagraphIndex() = %d, want 2", idx)
	}
}

func TestChapterCountGroupsParagraphsInStaticMode(t *testing.T) {
	s := newTestSource([]string{"a", "b", "c"})
	if got := s.ChapterCount(); got != 2 {
		t.Errorf("ChapterCount() = %d, want 2", got)
	}
	info, ok := s.ChapterAt(0)
	if !ok || info.ParagraphCount != 2 {
		t.Errorf("ChapterAt(0) = %+v, %v, want ParagraphCount=2", info, ok)
	}
	if _, ok := s.ChapterAt(2); ok {
		t.Error("ChapterAt(2) should be out of range")
	}
}

func TestSelectTextResetsCursor(t *testing.T) {
	s := &Source{}
	s.clearCatalogState()
	s.pushCatalogTitleVerbatim("Book A", false)
	s.pushCatalogTitleVerbatim("Book B", false)
	s.fallback[0] = []string{"uno dos"}
	s.fallback[1] = []string{"tres cuatro cinco"}
	s.resetReadPointer()

	if _, _, err := s.NextWord(); err != nil {
		t.Fatal(err)
	}

	if err := s.SelectText(1); err != nil {
		t.Fatalf("SelectText(1) = %v", err)
	}
	if s.SelectedIndex() != 1 {
		t.Errorf("SelectedIndex() = %d, want 1", s.SelectedIndex())
	}
	word, ok, err := s.NextWord()
	if err != nil || !ok || word.Text != "tres" {
		t.Errorf("NextWord() after select = %+v, %v, %v, want tres", word, ok, err)
	}

	if err := s.SelectText(9); err != ErrInvalidTextIndex {
		t.Errorf("SelectText(9) = %v, want ErrInvalidTextIndex", err)
	}
}

func TestStreamingSlotRefillProtocol(t *testing.T) {
	s := &Source{}
	s.clearCatalogState()
	s.pushCatalogTitleVerbatim("Streamed", false)
	s.slots[0].streaming = true
	s.slots[0].terminal = false
	s.resetReadPointer()

	if _, ok, _ := s.NextWord(); ok {
		t.Fatal("NextWord() on an empty streaming slot should return no token")
	}
	if !s.IsWaitingForRefill() {
		t.Fatal("expected IsWaitingForRefill() after exhausting a non-terminal streaming slot")
	}

	if err := s.SetCatalogTextChunkFromBytes(0, []byte("<p>uno dos</p>"), false, "OEBPS/ch1.xhtml"); err != nil {
		t.Fatalf("SetCatalogTextChunkFromBytes() = %v", err)
	}
	if s.IsWaitingForRefill() {
		t.Fatal("expected refill to clear after a successful upload")
	}

	word, ok, err := s.NextWord()
	if err != nil || !ok || word.Text != "uno" {
		t.Fatalf("NextWord() after refill = %+v, %v, %v, want uno", word, ok, err)
	}
}

func TestUpdateChapterLabelFromResource(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"OEBPS/chapter03.xhtml", "Chapter 3"},
		{"OEBPS/007.xhtml", "Chapter 7"},
		{"OEBPS/part-h-5.xhtml", "Chapter 6"},
		{"OEBPS/introduction.xhtml", "Introduction"},
		{"OEBPS/.xhtml", "Section"},
	}
	for _, c := range cases {
		if got := updateChapterLabelFromResource(c.path); got != c.want {
			t.Errorf("updateChapterLabelFromResource(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestTitleCaseStem(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"the_great_gatsby", "The Great Gatsby"},
		{"moby-dick", "Moby Dick"},
		{"ALICE", "Alice"},
	}
	for _, c := range cases {
		got, _ := titleCaseStem(c.in, TitleBytes)
		if got != c.want {
			t.Errorf("titleCaseStem(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
