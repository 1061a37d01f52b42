// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epub

import (
	"bytes"
	"path"
	"strings"
)

// ContainerRootfile is the single piece of META-INF/container.xml this
// reader cares about: the path to the package's OPF document.
type ContainerRootfile struct {
	FullPath string
}

// ParseContainer extracts the rootfile path from container.xml. EPUB
// allows multiple rootfiles (for different rendition media); this reader
// always takes the first, matching every reading system that targets a
// single default rendition.
func ParseContainer(data []byte) (ContainerRootfile, bool) {
	path, ok := findAttrValue(data, "rootfile", "full-path")
	if !ok {
		return ContainerRootfile{}, false
	}
	return ContainerRootfile{FullPath: path}, true
}

// OPFMetadata is the subset of package metadata the reader shows: title and
// an optional cover image reference.
type OPFMetadata struct {
	Title      string
	CoverPath  string
	CoverMedia string
	HasCover   bool
}

// ParseOPF extracts title and cover metadata from a package document.
// opfDir is the directory the OPF lives in within the archive, used to
// resolve the cover manifest item's relative href into an archive-rooted
// path.
func ParseOPF(data []byte, opfDir string) OPFMetadata {
	var meta OPFMetadata
	if title, ok := findTagText(data, "dc:title"); ok {
		meta.Title = title
	} else if title, ok := findTagText(data, "title"); ok {
		meta.Title = title
	}

	coverID, ok := findAttrValueWhere(data, "meta", "name", "cover", "content")
	if !ok {
		coverID, ok = findMetaPropertyContent(data, "cover")
	}
	if ok {
		if href, okHref := findManifestItemHref(data, coverID); okHref {
			meta.CoverPath = joinEPUBPath(opfDir, href)
			meta.CoverMedia = findManifestItemMediaType(data, coverID)
			meta.HasCover = true
		}
	}
	if !meta.HasCover {
		if href, okHref := findManifestItemHrefByProperty(data, "cover-image"); okHref {
			meta.CoverPath = joinEPUBPath(opfDir, href)
			meta.HasCover = true
		}
	}
	return meta
}

// TOCEntry is one navigation point: a chapter label and the resource
// (optionally with a #fragment) it resolves to.
type TOCEntry struct {
	Label    string
	Resource string
}

// ParseTOC extracts an ordered chapter list from an EPUB3 nav document
// (isNav true) or an EPUB2 NCX (isNav false). It parses only the one
// document it is given; choosing between a nav and an NCX is up to the caller.
func ParseTOC(data []byte, isNav bool) []TOCEntry {
	if isNav {
		return parseNavTOC(data)
	}
	return parseNCXTOC(data)
}

func parseNavTOC(data []byte) []TOCEntry {
	var entries []TOCEntry
	rest := data
	for {
		idx := bytes.Index(bytes.ToLower(rest), []byte("<a "))
		if idx < 0 {
			idx = bytes.Index(bytes.ToLower(rest), []byte("<a>"))
			if idx < 0 {
				break
			}
		}
		rest = rest[idx:]
		close := bytes.IndexByte(rest, '>')
		if close < 0 {
			break
		}
		tag := rest[:close+1]
		href, _ := extractAttr(tag, "href")
		bodyEnd := bytes.Index(bytes.ToLower(rest), []byte("</a>"))
		if bodyEnd < 0 {
			rest = rest[close+1:]
			continue
		}
		label := strings.TrimSpace(stripTags(rest[close+1 : bodyEnd]))
		rest = rest[bodyEnd+4:]
		if href != "" && label != "" {
			entries = append(entries, TOCEntry{Label: label, Resource: href})
		}
	}
	return entries
}

func parseNCXTOC(data []byte) []TOCEntry {
	var entries []TOCEntry
	rest := data
	for {
		idx := bytes.Index(bytes.ToLower(rest), []byte("<navpoint"))
		if idx < 0 {
			break
		}
		rest = rest[idx+len("<navpoint"):]
		text, okText := findTagText(rest, "text")
		content, okContent := findAttrValue(rest, "content", "src")
		if okText && okContent {
			entries = append(entries, TOCEntry{Label: text, Resource: content})
		}
	}
	return entries
}

// SpineItem is one ordered reading-order entry: an archive-rooted resource
// path and its declared media type.
type SpineItem struct {
	Path      string
	MediaType string
}

// ParseSpine extracts the manifest and ordered spine from a package
// document, resolving each spine <itemref idref="..."/> to the manifest
// item's href. itemrefs with linear="no" (supplementary content, not part
// of the default reading order) are skipped. opfDir resolves hrefs the
// same way ParseOPF does.
func ParseSpine(data []byte, opfDir string) []SpineItem {
	manifest := parseManifestItems(data)

	var spine []SpineItem
	rest := data
	consumed := 0
	for {
		idx := bytes.Index(bytes.ToLower(rest), []byte("<itemref"))
		if idx < 0 {
			break
		}
		rest = rest[idx:]
		consumed += idx
		close := bytes.IndexByte(rest, '>')
		if close < 0 {
			break
		}
		tag := rest[:close+1]
		rest = rest[close+1:]
		consumed += close + 1

		if linear, ok := extractAttr(tag, "linear"); ok && strings.EqualFold(linear, "no") {
			continue
		}
		idref, ok := extractAttr(tag, "idref")
		if !ok {
			continue
		}
		item, ok := manifest[idref]
		if !ok {
			continue
		}
		spine = append(spine, SpineItem{
			Path:      joinEPUBPath(opfDir, item.href),
			MediaType: item.mediaType,
		})
	}
	return spine
}

type manifestItem struct {
	href      string
	mediaType string
}

// parseManifestItems indexes every <item id="..." href="..." media-type="..."/>
// by id, a single pass instead of the O(n) re-scan findManifestItemHref
// does per lookup, since the spine walk needs every manifest item once.
func parseManifestItems(data []byte) map[string]manifestItem {
	items := make(map[string]manifestItem)
	lower := bytes.ToLower(data)
	offset := 0
	for {
		idx := bytes.Index(lower[offset:], []byte("<item"))
		if idx < 0 {
			break
		}
		start := offset + idx
		// Avoid matching "<itemref" here; require a tag-name boundary after "<item".
		if start+5 < len(data) {
			next := data[start+5]
			if next != ' ' && next != '\t' && next != '\n' && next != '\r' && next != '>' && next != '/' {
				offset = start + 5
				continue
			}
		}
		closeBracket := bytes.IndexByte(data[start:], '>')
		if closeBracket < 0 {
			break
		}
		tag := data[start : start+closeBracket+1]
		offset = start + closeBracket + 1

		id, ok := extractAttr(tag, "id")
		if !ok {
			continue
		}
		href, ok := extractAttr(tag, "href")
		if !ok {
			continue
		}
		mediaType, _ := extractAttr(tag, "media-type")
		items[id] = manifestItem{href: href, mediaType: mediaType}
	}
	return items
}

func joinEPUBPath(dir, href string) string {
	if dir == "" {
		return path.Clean(href)
	}
	return path.Clean(path.Join(dir, href))
}
