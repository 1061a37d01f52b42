// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

import "github.com/carlosgj94/rapid-reader/render"

// WithScreen builds an immutable render.Screen snapshot of the reader's
// current state at nowMs and hands it to fn. The snapshot is built fresh
// on every call; Reader keeps no Screen of its own.
func (r *Reader) WithScreen(nowMs int64, fn func(render.Screen)) {
	fn(r.buildScreen(nowMs))
}

func (r *Reader) buildScreen(nowMs int64) render.Screen {
	screen := render.Screen{
		Title:        r.title,
		WPM:          r.config.Wpm,
		Connectivity: r.connectivity,
	}
	if frame, ok := r.transitionFrame(nowMs); ok {
		screen.Animation = frame
		screen.HasAnimation = true
	}

	switch r.ui.kind {
	case uiLibrary:
		screen.Kind = render.KindLibrary
		screen.Library = r.buildLibraryView()
	case uiSettings:
		screen.Kind = render.KindSettings
		screen.Settings = r.buildSettingsView()
	case uiCountdown:
		screen.Kind = render.KindCountdown
		screen.Countdown = r.buildCountdownView()
	case uiReading:
		screen.Kind = render.KindReading
		screen.Reading = r.buildReadingView(nowMs)
	case uiNavigateChapter:
		screen.Kind = render.KindNavigateChapter
		screen.Navigate = r.buildChapterNavigateView()
	case uiNavigateParagraph:
		screen.Kind = render.KindNavigateParagraph
		screen.Navigate = r.buildParagraphNavigateView()
	case uiStatus:
		screen.Kind = render.KindStatus
		screen.Status = render.StatusView{Line1: r.ui.statusLine1, Line2: r.ui.statusLine2}
	}
	return screen
}

func (r *Reader) buildLibraryView() render.LibraryView {
	total := r.totalTitleCount()
	items := make([]render.MenuItemView, 0, total+1)
	for i := uint16(0); i < total; i++ {
		title, ok := r.content.TitleAt(i)
		if !ok {
			continue
		}
		items = append(items, render.MenuItemView{Label: title, Selected: i == r.ui.libraryCursor})
	}
	items = append(items, render.MenuItemView{Label: "Settings", Selected: r.ui.libraryCursor == r.settingsItemIndex()})
	return render.LibraryView{Items: items, Cursor: int(r.ui.libraryCursor)}
}

func (r *Reader) buildSettingsView() render.SettingsView {
	st := r.ui
	rows := []render.SettingRowView{
		{Label: "Font", ValueKind: render.SettingValueLabel, ValueLabel: fontFamilyLabel(r.style.Family)},
		{Label: "Size", ValueKind: render.SettingValueLabel, ValueLabel: fontSizeLabel(r.style.Size)},
		{Label: "Invert", ValueKind: render.SettingValueBool, ValueBool: r.style.Invert},
		{Label: "Speed", ValueKind: render.SettingValueNumber, ValueNum: r.config.Wpm},
		{Label: "Back", ValueKind: render.SettingValueLabel, ValueLabel: ""},
	}
	for i := range rows {
		rows[i].Selected = SettingsRow(i) == st.settingsCursor
		rows[i].Editing = rows[i].Selected && st.settingsEditing
	}
	return render.SettingsView{Rows: rows, Cursor: int(st.settingsCursor), Editing: st.settingsEditing}
}

func (r *Reader) buildCountdownView() render.CountdownView {
	title, _ := r.content.TitleAt(r.ui.selectedBook)
	return render.CountdownView{BookTitle: title, Remaining: r.ui.countdownRemaining}
}

func (r *Reader) buildReadingView(nowMs int64) render.ReadingView {
	title, _ := r.content.TitleAt(r.ui.selectedBook)
	chapterLabel := ""
	if chapter, ok := r.content.ChapterAt(r.currentChapterIndex()); ok {
		chapterLabel = chapter.Label
	}

	var elapsed uint32
	if r.pausedSinceMs != nil && nowMs > *r.pausedSinceMs {
		elapsed = uint32(nowMs - *r.pausedSinceMs)
	}

	return render.ReadingView{
		BookTitle:    title,
		ChapterLabel: chapterLabel,
		Word:         r.word.str(),
		Paused:       r.ui.readingPaused,
		WordIndex:    int(r.paragraphWordIndex),
		WordTotal:    int(r.paragraphWordTotal),
		WPM:          r.config.Wpm,
		ElapsedMs:    elapsed,
	}
}

func (r *Reader) buildChapterNavigateView() render.NavigateView {
	total := r.content.ChapterCount()
	items := make([]render.MenuItemView, 0, total)
	for i := uint16(0); i < total; i++ {
		chapter, ok := r.content.ChapterAt(i)
		label := "Chapter"
		if ok {
			label = chapter.Label
		}
		items = append(items, render.MenuItemView{Label: label, Selected: i == r.ui.chapterCursor})
	}
	return render.NavigateView{Items: items, Cursor: int(r.ui.chapterCursor)}
}

func (r *Reader) buildParagraphNavigateView() render.NavigateView {
	chapter, ok := r.content.ChapterAt(r.ui.chapterIndex)
	if !ok {
		return render.NavigateView{}
	}
	start := chapter.StartParagraph
	count := chapter.ParagraphCount
	if count == 0 {
		count = 1
	}
	items := make([]render.MenuItemView, 0, count)
	for i := uint16(0); i < count; i++ {
		idx := start + i
		preview, ok := r.content.ParagraphPreview(idx)
		if !ok {
			preview = "..."
		}
		items = append(items, render.MenuItemView{Label: preview, Selected: idx == r.ui.paragraphCursor})
	}
	return render.NavigateView{Items: items, Cursor: int(r.ui.paragraphCursor - start)}
}
