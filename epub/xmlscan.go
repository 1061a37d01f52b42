// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epub

import (
	"bytes"
	"strings"
)

// This file holds small, deliberately non-general XML/OPF scanners: EPUB
// package documents are small and well-formed enough that a handful of
// byte-scan helpers cover every field this reader needs, without pulling
// in a full XML parser for documents under 8KB.

// findTagText returns the text content of the first <tagName ...>...</tagName>
// element, case-insensitively, with surrounding whitespace trimmed.
func findTagText(data []byte, tagName string) (string, bool) {
	open := []byte("<" + tagName)
	idx := bytes.Index(bytes.ToLower(data), bytes.ToLower(open))
	if idx < 0 {
		return "", false
	}
	rest := data[idx:]
	closeBracket := bytes.IndexByte(rest, '>')
	if closeBracket < 0 {
		return "", false
	}
	rest = rest[closeBracket+1:]
	closeTag := []byte("</" + tagName)
	end := bytes.Index(bytes.ToLower(rest), bytes.ToLower(closeTag))
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(stripTags(rest[:end])), true
}

// findAttrValue returns the value of attrName on the first element named
// tagName.
func findAttrValue(data []byte, tagName, attrName string) (string, bool) {
	open := []byte("<" + tagName)
	idx := bytes.Index(bytes.ToLower(data), bytes.ToLower(open))
	if idx < 0 {
		return "", false
	}
	rest := data[idx:]
	closeBracket := bytes.IndexByte(rest, '>')
	if closeBracket < 0 {
		return "", false
	}
	return extractAttr(rest[:closeBracket+1], attrName)
}

// findAttrValueWhere returns valueAttr on the first tagName element whose
// matchAttr equals matchValue.
func findAttrValueWhere(data []byte, tagName, matchAttr, matchValue, valueAttr string) (string, bool) {
	lower := bytes.ToLower(data)
	openLower := []byte("<" + strings.ToLower(tagName))
	offset := 0
	for {
		idx := bytes.Index(lower[offset:], openLower)
		if idx < 0 {
			return "", false
		}
		start := offset + idx
		closeBracket := bytes.IndexByte(data[start:], '>')
		if closeBracket < 0 {
			return "", false
		}
		tag := data[start : start+closeBracket+1]
		if v, ok := extractAttr(tag, matchAttr); ok && strings.EqualFold(v, matchValue) {
			return extractAttr(tag, valueAttr)
		}
		offset = start + closeBracket + 1
	}
}

// findMetaPropertyContent finds <meta property="propName">value</meta>
// (the EPUB3 metadata idiom) and returns its text content.
func findMetaPropertyContent(data []byte, propName string) (string, bool) {
	lower := bytes.ToLower(data)
	openLower := []byte("<meta")
	offset := 0
	for {
		idx := bytes.Index(lower[offset:], openLower)
		if idx < 0 {
			return "", false
		}
		start := offset + idx
		closeBracket := bytes.IndexByte(data[start:], '>')
		if closeBracket < 0 {
			return "", false
		}
		tag := data[start : start+closeBracket+1]
		if v, ok := extractAttr(tag, "property"); ok && strings.EqualFold(v, propName) {
			rest := data[start+closeBracket+1:]
			end := bytes.Index(bytes.ToLower(rest), []byte("</meta"))
			if end < 0 {
				return "", false
			}
			return strings.TrimSpace(string(rest[:end])), true
		}
		offset = start + closeBracket + 1
	}
}

// findManifestItemHref resolves a manifest <item id="id" href="..."/> by id.
func findManifestItemHref(data []byte, id string) (string, bool) {
	return findAttrValueWhere(data, "item", "id", id, "href")
}

func findManifestItemMediaType(data []byte, id string) string {
	v, _ := findAttrValueWhere(data, "item", "id", id, "media-type")
	return v
}

// findManifestItemHrefByProperty resolves <item properties="cover-image" href="..."/>.
func findManifestItemHrefByProperty(data []byte, property string) (string, bool) {
	lower := bytes.ToLower(data)
	openLower := []byte("<item")
	offset := 0
	for {
		idx := bytes.Index(lower[offset:], openLower)
		if idx < 0 {
			return "", false
		}
		start := offset + idx
		closeBracket := bytes.IndexByte(data[start:], '>')
		if closeBracket < 0 {
			return "", false
		}
		tag := data[start : start+closeBracket+1]
		if props, ok := extractAttr(tag, "properties"); ok {
			for _, p := range strings.Fields(props) {
				if strings.EqualFold(p, property) {
					return extractAttr(tag, "href")
				}
			}
		}
		offset = start + closeBracket + 1
	}
}

// extractAttr reads attrName="value" or attrName='value' out of a single
// tag's raw bytes (from '<' to the closing '>').
func extractAttr(tag []byte, attrName string) (string, bool) {
	lower := bytes.ToLower(tag)
	needle := []byte(strings.ToLower(attrName) + "=")
	idx := bytes.Index(lower, needle)
	for idx >= 0 {
		// Require a word boundary before the attribute name so "xml:id="
		// doesn't match a search for "id=".
		if idx == 0 || isNameBoundary(tag[idx-1]) {
			valStart := idx + len(needle)
			if valStart < len(tag) && (tag[valStart] == '"' || tag[valStart] == '\'') {
				quote := tag[valStart]
				end := bytes.IndexByte(tag[valStart+1:], quote)
				if end >= 0 {
					return string(tag[valStart+1 : valStart+1+end]), true
				}
			}
		}
		next := bytes.Index(lower[idx+1:], needle)
		if next < 0 {
			break
		}
		idx = idx + 1 + next
	}
	return "", false
}

func isNameBoundary(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '<'
}

// stripTags removes any <...> markup from a fragment, leaving plain text;
// used to pull a label out of a TOC entry's inner HTML.
func stripTags(data []byte) string {
	var out bytes.Buffer
	inTag := false
	for _, b := range data {
		switch {
		case b == '<':
			inTag = true
		case b == '>':
			inTag = false
		case !inTag:
			out.WriteByte(b)
		}
	}
	return out.String()
}
