// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides strongly typed, immutable Matrix identifiers:
// room IDs (!opaque:server), user IDs (@localpart:server), room aliases
// (#localpart:server), event IDs ($opaque) and event types.
//
// Identifiers arrive from the homeserver as plain strings and are parsed
// into these types at the JSON boundary through encoding.TextUnmarshaler,
// so a malformed identifier fails the decode instead of travelling
// through the timeline as an unchecked string. The zero value of every
// type means "unset" and is reported by IsZero.
//
// This package depends on no other roomview packages.
package ref
