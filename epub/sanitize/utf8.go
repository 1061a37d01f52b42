// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sanitize

type utf8Kind int

const (
	utf8Char utf8Kind = iota
	utf8Incomplete
	utf8Invalid
)

// decodeUTF8Char decodes one UTF-8 sequence starting at data[cursor]. It is
// deliberately stricter than a permissive decoder: overlong encodings and
// lone surrogates are rejected as invalid rather than silently accepted,
// since this sanitizer also has to tolerate content mojibake from EPUBs
// that were saved with the wrong encoding.
func decodeUTF8Char(data []byte, cursor int) (rune, int, utf8Kind) {
	first := data[cursor]
	if first < 0x80 {
		return rune(first), 1, utf8Char
	}

	remaining := len(data) - cursor

	switch {
	case first >= 0xC2 && first <= 0xDF:
		if remaining < 2 {
			return 0, 0, utf8Incomplete
		}
		b1 := data[cursor+1]
		if !isContinuation(b1) {
			return 0, 0, utf8Invalid
		}
		return rune(first&0x1f)<<6 | rune(b1&0x3f), 2, utf8Char

	case first >= 0xE0 && first <= 0xEF:
		if remaining < 3 {
			return 0, 0, utf8Incomplete
		}
		b1, b2 := data[cursor+1], data[cursor+2]
		if !isContinuation(b1) || !isContinuation(b2) {
			return 0, 0, utf8Invalid
		}
		if (first == 0xE0 && b1 < 0xA0) || (first == 0xED && b1 >= 0xA0) {
			return 0, 0, utf8Invalid
		}
		return rune(first&0x0f)<<12 | rune(b1&0x3f)<<6 | rune(b2&0x3f), 3, utf8Char

	case first >= 0xF0 && first <= 0xF4:
		if remaining < 4 {
			return 0, 0, utf8Incomplete
		}
		b1, b2, b3 := data[cursor+1], data[cursor+2], data[cursor+3]
		if !isContinuation(b1) || !isContinuation(b2) || !isContinuation(b3) {
			return 0, 0, utf8Invalid
		}
		if (first == 0xF0 && b1 < 0x90) || (first == 0xF4 && b1 > 0x8F) {
			return 0, 0, utf8Invalid
		}
		return rune(first&0x07)<<18 | rune(b1&0x3f)<<12 | rune(b2&0x3f)<<6 | rune(b3&0x3f), 4, utf8Char

	default:
		return 0, 0, utf8Invalid
	}
}

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

// decodeSingleByteFallback maps the Latin-1/Windows-1252 bytes that turn up
// most often in mis-encoded EPUB content (curly quotes, en/em dashes, the
// accented Latin-1 letters) to a readable ASCII-adjacent character. Anything
// else below 0x80 passes through; anything unrecognized above it becomes
// '?' rather than silently dropped.
func decodeSingleByteFallback(b byte) rune {
	switch b {
	case 0x91, 0x92:
		return '\''
	case 0x93, 0x94:
		return '"'
	case 0x96, 0x97:
		return '-'
	case 0x85:
		return '.'
	case 0xA0:
		return ' '
	case 0xA1:
		return '¡'
	case 0xBF:
		return '¿'
	case 0xC0:
		return 'À'
	case 0xC1:
		return 'Á'
	case 0xC8:
		return 'È'
	case 0xC9:
		return 'É'
	case 0xCC:
		return 'Ì'
	case 0xCD:
		return 'Í'
	case 0xD1:
		return 'Ñ'
	case 0xD2:
		return 'Ò'
	case 0xD3:
		return 'Ó'
	case 0xD9:
		return 'Ù'
	case 0xDA:
		return 'Ú'
	case 0xDC:
		return 'Ü'
	case 0xE0:
		return 'à'
	case 0xE1:
		return 'á'
	case 0xE7:
		return 'ç'
	case 0xE8:
		return 'è'
	case 0xE9:
		return 'é'
	case 0xEC:
		return 'ì'
	case 0xED:
		return 'í'
	case 0xF1:
		return 'ñ'
	case 0xF2:
		return 'ò'
	case 0xF3:
		return 'ó'
	case 0xF9:
		return 'ù'
	case 0xFA:
		return 'ú'
	case 0xFC:
		return 'ü'
	default:
		if b < 0x80 {
			return rune(b)
		}
		return '?'
	}
}
