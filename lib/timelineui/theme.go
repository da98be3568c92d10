// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette of the timeline view. All colors use
// lipgloss ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Author names start a new author group.
	AuthorText lipgloss.Color

	// State events (membership, name, topic) are drawn faint and
	// italic.
	StateText lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color

	// Read-marker rule and unread indicator.
	ReadMarker lipgloss.Color

	// Date separators.
	DateSeparator lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Status-bar log records.
	WarnText  lipgloss.Color
	ErrorText lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	AuthorText: lipgloss.Color("75"),
	StateText:  lipgloss.Color("243"),

	SelectedBackground: lipgloss.Color("236"),

	ReadMarker:    lipgloss.Color("114"),
	DateSeparator: lipgloss.Color("141"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	WarnText:  lipgloss.Color("220"),
	ErrorText: lipgloss.Color("196"),
}

// namedColors maps the colour names accepted as highlight decorations
// to ANSI 256-color codes. Any other decoration is passed to lipgloss
// as-is, so "214" and "#ffaf00" work directly.
var namedColors = map[string]lipgloss.Color{
	"black":   lipgloss.Color("0"),
	"red":     lipgloss.Color("196"),
	"green":   lipgloss.Color("114"),
	"yellow":  lipgloss.Color("220"),
	"blue":    lipgloss.Color("75"),
	"magenta": lipgloss.Color("170"),
	"cyan":    lipgloss.Color("80"),
	"white":   lipgloss.Color("255"),
	"orange":  lipgloss.Color("214"),
}

// DecorationColor resolves a row decoration to a lipgloss color.
func DecorationColor(decoration string) lipgloss.Color {
	if color, ok := namedColors[decoration]; ok {
		return color
	}
	return lipgloss.Color(decoration)
}
