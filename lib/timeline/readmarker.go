// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import "github.com/bureau-foundation/roomview/lib/ref"

// ReadMarker tracks the row index of the room's read-marker event. The
// index is -1 while the marker event is not among the loaded rows.
// Create with NewReadMarker; the zero value points at row 0.
type ReadMarker struct {
	index int
}

// NewReadMarker returns a tracker with no known index.
func NewReadMarker() ReadMarker {
	return ReadMarker{index: -1}
}

// Index returns the current row index, or -1.
func (r *ReadMarker) Index() int { return r.index }

// Reset forgets the index. Used when the timeline is replaced.
func (r *ReadMarker) Reset() { r.index = -1 }

// Recompute looks for markerID among rows [max(Index, 0), count) and
// reports whether the index changed. idAt returns the event ID of a
// row.
//
// The scan never looks before the current index: the read marker is
// expected only to advance, and prepending history shifts the marked
// row forward. If the marker is not found the index is left unchanged.
// A marker that moves backward is therefore not followed until the
// tracker is Reset.
func (r *ReadMarker) Recompute(count int, idAt func(row int) ref.EventID, markerID ref.EventID) bool {
	if markerID.IsZero() {
		return false
	}
	for row := max(r.index, 0); row < count; row++ {
		if idAt(row) != markerID {
			continue
		}
		if row == r.index {
			return false
		}
		r.index = row
		return true
	}
	return false
}

// AwaitingMarkAsRead reports whether the user has been shown rows past
// the read marker, i.e. whether the marker should be advanced to
// lastShown.
func (r *ReadMarker) AwaitingMarkAsRead(lastShown int) bool {
	return r.index < lastShown
}
