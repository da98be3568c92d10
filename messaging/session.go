// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"

	"github.com/bureau-foundation/roomview/lib/ref"
	"github.com/bureau-foundation/roomview/lib/schema"
)

// Session is the set of authenticated Matrix operations the timeline
// transport needs. *DirectSession is the production implementation;
// tests substitute fakes.
type Session interface {
	// UserID returns the fully-qualified Matrix user ID of the session.
	UserID() ref.UserID

	// Close releases any resources held by the session. Idempotent.
	Close() error

	// ResolveAlias resolves a room alias to a room ID.
	ResolveAlias(ctx context.Context, alias ref.RoomAlias) (ref.RoomID, error)

	// Sync performs an incremental sync with the homeserver.
	Sync(ctx context.Context, options SyncOptions) (*SyncResponse, error)

	// RoomMessages fetches paginated messages from a room.
	RoomMessages(ctx context.Context, roomID ref.RoomID, options RoomMessagesOptions) (*RoomMessagesResponse, error)

	// GetRoomMembers returns the members of a room.
	GetRoomMembers(ctx context.Context, roomID ref.RoomID) ([]RoomMember, error)

	// SetReadMarkers moves the room's read markers.
	SetReadMarkers(ctx context.Context, roomID ref.RoomID, request schema.ReadMarkersRequest) error
}

// Compile-time check: *DirectSession implements Session.
var _ Session = (*DirectSession)(nil)
