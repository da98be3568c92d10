// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/roomview/lib/timeline"
)

// rowLines renders row as terminal lines: an optional date separator,
// the row itself, the event source when expanded, and the read-marker
// rule when the row is the last read one.
func (model Model) rowLines(row int) []string {
	displayRow, ok := model.timeline.Row(row)
	if !ok {
		return nil
	}

	var lines []string
	newDay := row == 0
	if !newDay {
		if previous, ok := model.timeline.Row(row - 1); ok {
			newDay = !previous.Date.Equal(displayRow.Date)
		}
	}
	if newDay {
		lines = append(lines, model.renderRule(displayRow.Date.Format(model.dateFormat), model.theme.DateSeparator))
	}

	lines = append(lines, model.renderRow(displayRow, row == model.state.cursor))

	if model.showSource && row == model.state.cursor {
		style := lipgloss.NewStyle().Foreground(model.theme.FaintText)
		for _, line := range strings.Split(displayRow.Source, "\n") {
			lines = append(lines, ansi.Truncate(style.Render("  "+line), model.contentWidth(), "…"))
		}
	}

	if row == model.timeline.ReadMarkerIndex() && row < model.timeline.RowCount()-1 {
		lines = append(lines, model.renderRule("read up to here", model.theme.ReadMarker))
	}
	return lines
}

// renderRow renders the single line of a timeline row.
func (model Model) renderRow(row timeline.DisplayRow, selected bool) string {
	stamp := row.Time.Format(model.timeFormat)
	if !row.IsNewTimeGroup {
		stamp = strings.Repeat(" ", ansi.StringWidth(stamp))
	}
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	authorStyle := lipgloss.NewStyle().Foreground(model.theme.AuthorText).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	if row.Highlight {
		textStyle = textStyle.Foreground(DecorationColor(row.Decoration)).Bold(true)
	}

	content := displayContent(row)
	var body string
	switch row.EventType {
	case timeline.EventTypeEmote:
		body = textStyle.Render("* " + row.Author + " " + content)
	case timeline.EventTypeState:
		stateStyle := lipgloss.NewStyle().Foreground(model.theme.StateText).Italic(true)
		body = stateStyle.Render(row.Author + " " + content)
	case timeline.EventTypeOther:
		body = faint.Render(row.Author + " " + content)
	default:
		prefix := "  "
		if row.IsNewAuthorGroup || row.IsNewTimeGroup {
			prefix = authorStyle.Render(row.Author) + faint.Render(": ")
		}
		body = prefix + textStyle.Render(content)
	}

	line := faint.Render(stamp) + " " + body
	line = ansi.Truncate(line, model.contentWidth(), "…")
	if selected {
		padding := model.contentWidth() - ansi.StringWidth(line)
		if padding > 0 {
			line += strings.Repeat(" ", padding)
		}
		line = lipgloss.NewStyle().Background(model.theme.SelectedBackground).Render(line)
	}
	return line
}

// displayContent turns a row's content into one line of plain text.
func displayContent(row timeline.DisplayRow) string {
	content := row.Content
	switch {
	case row.ContentType == timeline.ContentTypeHTML:
		content = flattenHTML(content)
	case row.EventType == timeline.EventTypeImage:
		content = "[image " + row.ContentType + "] " + content
	case row.ContentKind == timeline.ContentKindFile, row.ContentKind == timeline.ContentKindVideo,
		row.ContentKind == timeline.ContentKindAudio, row.ContentKind == timeline.ContentKindLocation:
		content = "[" + row.ContentKind.String() + "] " + content
	}
	return singleLine(content)
}

// singleLine joins the non-blank lines of text with a return symbol.
func singleLine(text string) string {
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ↵ ")
}

// renderRule renders a full-width horizontal rule with a centred label.
func (model Model) renderRule(label string, color lipgloss.Color) string {
	label = " " + label + " "
	remaining := model.contentWidth() - ansi.StringWidth(label)
	if remaining < 2 {
		return lipgloss.NewStyle().Foreground(color).Render(ansi.Truncate(label, model.contentWidth(), "…"))
	}
	left := remaining / 2
	rule := strings.Repeat("─", left) + label + strings.Repeat("─", remaining-left)
	return lipgloss.NewStyle().Foreground(color).Render(rule)
}
