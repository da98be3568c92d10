// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package timeline projects a room's event history into an ordered,
// randomly indexable list of display rows.
//
// The package is built leaves first:
//
//   - [DecodeEvent] and [Classify] turn a wire event into the closed
//     [Payload] union and its [EventKind] / [ContentKind]. Unknown event
//     types, unknown msgtypes and undecodable content all degrade to
//     the "other" buckets; nothing here returns an error.
//   - [Projector] maps one [Message] (plus the row before it) to a
//     [DisplayRow]: author, rendered content and content type, the
//     membership and metadata sentences, highlight decoration, and the
//     time/author grouping flags.
//   - [ReadMarker] maps the room's m.fully_read event ID to a row index
//     with a forward-only scan.
//   - [Model] owns the []Message for the bound [Room], follows the
//     room's about-to/added notifications, and republishes them to
//     [Observer] values as row-range insertions.
//
// Data flow:
//
//	[messaging.Syncer] --Dispatcher--> [messaging.Room]
//	        | (RoomHandler: about-to-append/prepend, added, marker moved, reset)
//	    [Model] -- Projector --> DisplayRow
//	        | (Observer: reset, rows inserted, marker/last-shown index)
//	  [presentation]
//
// Model is not safe for concurrent use. It is driven from the same
// goroutine that mutates the bound room; switching rooms unsubscribes
// from the previous room before anything else happens, and callbacks
// carrying a superseded bind generation are dropped.
package timeline
