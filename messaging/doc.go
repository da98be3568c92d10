// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging is the Matrix client-server transport behind a room
// timeline.
//
// [Client] holds the homeserver URL and HTTP transport and produces
// authenticated [DirectSession] values (password login or an existing
// access token kept in a secret.Buffer). The [Session] interface is the
// subset of the API the rest of roomview depends on: /sync, /messages,
// /members, read markers and alias resolution.
//
// [Room] is the per-room event store: an ordered, append/prepend
// capable list of events plus membership names and the m.fully_read
// marker. It announces every structural change to registered
// [RoomHandler] values in three steps: "about to append N" or "about to
// prepend N", then "added" once the events are stored. A sync that
// skipped events (a limited timeline) replaces the stored events
// instead, reported as a reset. Room is not safe
// for concurrent use; it is mutated only on the goroutine that renders
// the timeline.
//
// [Syncer] runs the /sync long-poll loop and history pagination on its
// own goroutine. It never touches a Room directly: every mutation is
// handed to the configured [Dispatcher], which runs it on the rendering
// goroutine (tea.Program.Send in the terminal UI, a direct call in
// tests).
//
// All API errors are returned as [*MatrixError] carrying the Matrix
// errcode and HTTP status. [IsMatrixError] tests for a specific code.
package messaging
