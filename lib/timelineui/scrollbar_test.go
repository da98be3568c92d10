// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"strings"
	"testing"
)

func thumbRange(cells []string) (first, last int) {
	first, last = -1, -1
	for index, cell := range cells {
		if strings.Contains(cell, "┃") {
			if first < 0 {
				first = index
			}
			last = index
		}
	}
	return first, last
}

func TestRenderScrollbar(t *testing.T) {
	tests := []struct {
		name                string
		height, total       int
		visible, first      int
		wantFirst, wantLast int
	}{
		{name: "everything fits", height: 10, total: 5, visible: 5, first: 0, wantFirst: 0, wantLast: 9},
		{name: "empty timeline", height: 4, total: 0, visible: 0, first: 0, wantFirst: 0, wantLast: 3},
		{name: "top of history", height: 10, total: 100, visible: 20, first: 0, wantFirst: 0, wantLast: 1},
		{name: "bottom of history", height: 10, total: 100, visible: 20, first: 80, wantFirst: 8, wantLast: 9},
		{name: "middle", height: 10, total: 100, visible: 50, first: 25, wantFirst: 2, wantLast: 6},
		{name: "thumb never vanishes", height: 5, total: 1000, visible: 1, first: 999, wantFirst: 4, wantLast: 4},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cells := renderScrollbar(DefaultTheme, test.height, test.total, test.visible, test.first)
			if len(cells) != test.height {
				t.Fatalf("got %d cells, want %d", len(cells), test.height)
			}
			first, last := thumbRange(cells)
			if first != test.wantFirst || last != test.wantLast {
				t.Errorf("thumb = [%d, %d], want [%d, %d]", first, last, test.wantFirst, test.wantLast)
			}
		})
	}
}

func TestPadLine(t *testing.T) {
	if got := padLine("ab", 5); got != "ab   " {
		t.Errorf("padLine = %q", got)
	}
	if got := padLine("abcdef", 3); got != "abcdef" {
		t.Errorf("padLine shortened the line: %q", got)
	}
}
