// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// EventType identifies a Matrix event type ("m.room.message",
// "m.room.member", ...). Constants live in lib/schema.
//
// EventType is a named string rather than a struct wrapper: event types
// are open-ended and need no validation. The type keeps an event type
// from being passed where a state key or msgtype is expected.
type EventType string

// String returns the event type string.
func (t EventType) String() string { return string(t) }
