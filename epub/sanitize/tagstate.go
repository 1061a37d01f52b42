// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sanitize

import "bytes"

type tagInfo struct {
	localName    []byte
	isClosing    bool
	isSelfClosed bool
}

// parseTagInfo extracts the element name out of the raw bytes between '<'
// and '>' (neither delimiter included). Comments, doctypes and processing
// instructions are not elements and report ok=false.
func parseTagInfo(tag []byte) (tagInfo, bool) {
	tag = bytes.TrimSpace(tag)
	if len(tag) == 0 {
		return tagInfo{}, false
	}
	if bytes.HasPrefix(tag, []byte("!--")) || tag[0] == '!' || tag[0] == '?' {
		return tagInfo{}, false
	}

	isClosing := false
	nameStart := 0
	if tag[0] == '/' {
		isClosing = true
		nameStart = 1
	}
	rest := bytes.TrimSpace(tag[nameStart:])
	if len(rest) == 0 {
		return tagInfo{}, false
	}

	isSelfClosed := bytes.HasSuffix(rest, []byte("/"))
	nameEnd := 0
	for nameEnd < len(rest) && !isSpace(rest[nameEnd]) && rest[nameEnd] != '/' && rest[nameEnd] != '>' {
		nameEnd++
	}
	if nameEnd == 0 {
		return tagInfo{}, false
	}

	name := rest[:nameEnd]
	localName := name
	if idx := bytes.LastIndexByte(name, ':'); idx >= 0 {
		localName = name[idx+1:]
	}

	return tagInfo{localName: localName, isClosing: isClosing, isSelfClosed: isSelfClosed}, true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// applyHTMLTagState updates state in response to a tag just consumed from
// the input. Only the tags that gate text emission are tracked; everything
// else is left alone.
func applyHTMLTagState(tag []byte, state *State) {
	info, ok := parseTagInfo(tag)
	if !ok {
		return
	}

	switch {
	case eqFold(info.localName, "head"):
		state.InHead = !info.isClosing && !info.isSelfClosed

	case eqFold(info.localName, "body"):
		if info.isClosing {
			state.InBody = false
			return
		}
		state.BodySeen = true
		state.InHead = false
		state.InBody = !info.isSelfClosed

	case eqFold(info.localName, "script"):
		state.InScript = !info.isClosing && !info.isSelfClosed

	case eqFold(info.localName, "style"):
		state.InStyle = !info.isClosing && !info.isSelfClosed
	}
}

var blockLevelTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "aside": true,
	"header": true, "footer": true, "nav": true, "li": true, "ul": true,
	"ol": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "blockquote": true, "pre": true, "table": true, "tr": true,
	"br": true, "hr": true,
}

// tagInsertsParagraphBreak reports whether consuming tag should produce a
// paragraph break in the sanitized output rather than a plain space.
func tagInsertsParagraphBreak(tag []byte) bool {
	info, ok := parseTagInfo(tag)
	if !ok {
		return false
	}
	return blockLevelTags[toASCIILower(string(info.localName))]
}

func toASCIILower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
