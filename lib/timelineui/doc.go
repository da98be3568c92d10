// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package timelineui is a bubbletea terminal view over a
// [timeline.Model].
//
// The bubbletea program owns the presentation goroutine. Everything
// that mutates a room or the timeline model runs there: the sync loop
// hands its mutations to [Dispatcher], which wraps them in a message
// and sends them through the program. The view registers itself as a
// [timeline.Observer] so that cursor and scroll positions follow
// prepends, appends and resets without re-deriving them from the rows.
//
// Scrolling to the top of the timeline requests an older history page
// through [History]; the rows arrive later as dispatched room
// mutations. The last fully visible row is reported to the model as
// the last shown index, and the mark-read key moves the server read
// marker to it.
//
// [LogHandler] routes slog records at or above a level into the status
// bar, so warnings from the sync loop are visible without corrupting
// the alternate screen.
package timelineui
