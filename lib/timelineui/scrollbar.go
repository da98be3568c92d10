// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderScrollbar returns one scrollbar cell per body line. The thumb
// covers the share of rows on screen, positioned by the first drawn
// row. When every row fits, the thumb spans the whole track.
func renderScrollbar(theme Theme, height, totalRows, visibleRows, firstRow int) []string {
	if height <= 0 {
		return nil
	}
	trackStyle := lipgloss.NewStyle().Foreground(theme.BorderColor)
	thumbStyle := lipgloss.NewStyle().Foreground(theme.HeaderForeground)

	thumbSize, thumbOffset := height, 0
	if totalRows > visibleRows && totalRows > 0 {
		thumbSize = max(height*visibleRows/totalRows, 1)
		scrollableRange := totalRows - visibleRows
		trackRange := height - thumbSize
		if trackRange > 0 {
			thumbOffset = firstRow * trackRange / scrollableRange
		}
		thumbOffset = min(thumbOffset, height-thumbSize)
	}

	cells := make([]string, height)
	for index := range cells {
		if index >= thumbOffset && index < thumbOffset+thumbSize {
			cells[index] = thumbStyle.Render("┃")
		} else {
			cells[index] = trackStyle.Render("│")
		}
	}
	return cells
}

// padLine right-pads line with spaces to width display cells.
func padLine(line string, width int) string {
	if gap := width - lipgloss.Width(line); gap > 0 {
		return line + strings.Repeat(" ", gap)
	}
	return line
}
