// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the standard Matrix event types and content
// structures that a room timeline renders. Event type constants
// (EventType*) are Matrix "type" strings; Go structs define the JSON
// content.
//
// Key event types:
//
//   - [EventTypeRoomMessage] with [MessageContent] -- text, emote,
//     notice and media messages, discriminated by MsgType*
//   - [EventTypeRoomMember] with [MemberContent] -- membership changes
//   - [EventTypeRoomAliases], [EventTypeRoomCanonicalAlias],
//     [EventTypeRoomName], [EventTypeRoomTopic] -- room metadata
//   - [EventTypeFullyRead] with [FullyReadContent] -- the per-room read
//     marker delivered as room account data
package schema
