// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sanitize strips HTML/XHTML markup out of EPUB content documents,
// leaving normalized UTF-8 paragraph text. It never allocates a DOM: each
// chunk is scanned byte by byte and state (head/body/script/style) carries
// across chunk boundaries so a caller can feed it a stream in bounded
// pieces.
package sanitize

import "strings"

// State tracks parse position across chunk boundaries. The zero value is
// the state a document starts in: not yet inside <body>, not inside <head>.
type State struct {
	InHead   bool
	InBody   bool
	BodySeen bool
	InScript bool
	InStyle  bool
}

// shouldEmitText reports whether text at the current parse position should
// be kept. Content inside <script>/<style> is always dropped. Before a
// <body> has been seen, everything outside <head> is kept (handles
// fragments and malformed documents with no explicit body); once a <body>
// has been seen, only text inside it is kept.
func (s State) shouldEmitText(plainText bool) bool {
	if s.InScript || s.InStyle {
		return false
	}
	if plainText {
		return true
	}
	if s.BodySeen {
		return s.InBody
	}
	return !s.InHead
}

const maxEntityBytes = 16

// TextBudgetBytes is the maximum number of bytes Chunk will return in text.
// It matches the catalog's fixed per-chunk text slot size: a chunk that
// would exceed it is truncated, not grown, so callers with fixed-size
// catalog storage never need to re-buffer.
const TextBudgetBytes = 480

// Chunk scans data, appending sanitized text and returning the decoded
// text, whether output was truncated against TextBudgetBytes, and where to
// resume if the chunk ended mid-tag, mid-entity or mid-UTF-8 sequence.
func Chunk(data []byte, state *State, plainText bool) (text string, truncated bool, tailStart int, hasTail bool) {
	var out strings.Builder
	lastWasSpace := true
	cursor := 0

	fits := func() bool { return out.Len() < TextBudgetBytes }

scan:
	for cursor < len(data) {
		b := data[cursor]

		if b == '<' {
			tagEndRel := indexByte(data[cursor+1:], '>')
			if tagEndRel < 0 {
				tailStart, hasTail = cursor, true
				break
			}
			tagEnd := cursor + 1 + tagEndRel
			rawTag := data[cursor+1 : tagEnd]
			paragraphBreak := tagInsertsParagraphBreak(rawTag)
			applyHTMLTagState(rawTag, state)
			cursor = tagEnd + 1
			if state.shouldEmitText(plainText) {
				if paragraphBreak {
					pushParagraphBreak(&out, &lastWasSpace)
				} else {
					pushNormalizedChar(&out, ' ', &lastWasSpace, fits())
				}
			}
			if !fits() {
				truncated = true
				break
			}
			continue
		}

		if b == '&' {
			var entity [maxEntityBytes]byte
			entityLen := 0
			entityCursor := cursor + 1
			decoded, hasDecoded := rune(0), false
			incomplete := true

			for entityCursor < len(data) {
				eb := data[entityCursor]
				if eb == ';' {
					if d, ok := decodeHTMLEntity(entity[:entityLen]); ok {
						decoded, hasDecoded = d, true
					} else {
						decoded, hasDecoded = ' ', true
					}
					entityCursor++
					incomplete = false
					break
				}
				if isASCIIAlnum(eb) || eb == '#' || eb == 'x' || eb == 'X' {
					if entityLen < len(entity) {
						entity[entityLen] = eb
						entityLen++
						entityCursor++
						continue
					}
					incomplete = false
					break
				}
				incomplete = false
				break
			}

			if incomplete {
				tailStart, hasTail = cursor, true
				break
			}

			if state.shouldEmitText(plainText) {
				ch := ' '
				if hasDecoded {
					ch = decoded
				}
				pushNormalizedChar(&out, ch, &lastWasSpace, fits())
			}
			if hasDecoded {
				cursor = entityCursor
			} else {
				cursor++
			}
			if !fits() {
				truncated = true
				break
			}
			continue
		}

		if !state.shouldEmitText(plainText) {
			cursor++
			continue
		}

		switch b {
		case '\r', '\n', '\t', ' ':
			pushNormalizedChar(&out, ' ', &lastWasSpace, fits())
			cursor++
		default:
			if b < 0x20 || b == 0x7f {
				cursor++
				continue
			}
			switch ch, advance, kind := decodeUTF8Char(data, cursor); kind {
			case utf8Char:
				pushNormalizedChar(&out, ch, &lastWasSpace, fits())
				cursor += advance
			case utf8Incomplete:
				tailStart, hasTail = cursor, true
				break scan
			case utf8Invalid:
				pushNormalizedChar(&out, decodeSingleByteFallback(b), &lastWasSpace, fits())
				cursor++
			}
		}

		if !fits() {
			truncated = true
			break
		}
	}

	text = strings.TrimRight(out.String(), " \n")
	return text, truncated, tailStart, hasTail
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

func isASCIIAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func pushParagraphBreak(out *strings.Builder, lastWasSpace *bool) {
	s := strings.TrimRight(out.String(), " ")
	if s != out.String() {
		out.Reset()
		out.WriteString(s)
	}
	if out.Len() == 0 || strings.HasSuffix(out.String(), "\n") {
		*lastWasSpace = true
		return
	}
	out.WriteByte('\n')
	*lastWasSpace = true
}

func pushNormalizedChar(out *strings.Builder, ch rune, lastWasSpace *bool, fits bool) {
	if !fits {
		return
	}
	if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
		if out.Len() == 0 || *lastWasSpace {
			return
		}
		out.WriteByte(' ')
		*lastWasSpace = true
		return
	}
	out.WriteRune(ch)
	*lastWasSpace = false
}
