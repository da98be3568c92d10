// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "github.com/bureau-foundation/roomview/lib/ref"

// Matrix event type constants for the events a timeline displays.
const (
	// EventTypeRoomMessage is a timeline message. The msgtype field of
	// the content selects how the body is rendered.
	EventTypeRoomMessage ref.EventType = "m.room.message"

	// EventTypeRoomMember records a membership transition for the user
	// named by the state key.
	//
	// State key: the affected member's user ID
	EventTypeRoomMember ref.EventType = "m.room.member"

	// EventTypeRoomAliases lists the aliases a server publishes for the
	// room. Deprecated by the Matrix spec in favour of
	// m.room.canonical_alias alt_aliases but still present in older
	// room histories.
	//
	// State key: the server name
	EventTypeRoomAliases ref.EventType = "m.room.aliases"

	// EventTypeRoomCanonicalAlias names the room's main alias.
	//
	// State key: "" (singleton per room)
	EventTypeRoomCanonicalAlias ref.EventType = "m.room.canonical_alias"

	// EventTypeRoomName sets the room's display name.
	//
	// State key: "" (singleton per room)
	EventTypeRoomName ref.EventType = "m.room.name"

	// EventTypeRoomTopic sets the room's topic line.
	//
	// State key: "" (singleton per room)
	EventTypeRoomTopic ref.EventType = "m.room.topic"

	// EventTypeFullyRead is room account data holding the user's read
	// marker: the last event the user has fully read. Delivered in the
	// account_data section of a joined room in /sync and written with
	// POST /rooms/{roomId}/read_markers.
	EventTypeFullyRead ref.EventType = "m.fully_read"
)

// Matrix m.room.message msgtype constants.
const (
	MsgTypeText     = "m.text"
	MsgTypeEmote    = "m.emote"
	MsgTypeNotice   = "m.notice"
	MsgTypeImage    = "m.image"
	MsgTypeFile     = "m.file"
	MsgTypeLocation = "m.location"
	MsgTypeVideo    = "m.video"
	MsgTypeAudio    = "m.audio"
)

// FormatHTML is the only rich-text format defined by the Matrix spec.
// A message whose format equals FormatHTML carries an HTML rendering in
// formatted_body alongside the plain-text body.
const FormatHTML = "org.matrix.custom.html"

// Membership is the membership field of an m.room.member event.
type Membership string

const (
	MembershipJoin   Membership = "join"
	MembershipLeave  Membership = "leave"
	MembershipBan    Membership = "ban"
	MembershipInvite Membership = "invite"
	MembershipKnock  Membership = "knock"
)

// IsKnown reports whether the membership is one of the five values the
// Matrix spec defines.
func (m Membership) IsKnown() bool {
	switch m {
	case MembershipJoin, MembershipLeave, MembershipBan, MembershipInvite, MembershipKnock:
		return true
	}
	return false
}

// MessageContent is the content of an m.room.message event. Only the
// fields a timeline renders are decoded; anything else in the content
// is ignored.
type MessageContent struct {
	// MsgType discriminates the message kind (MsgType* constants).
	// Servers do not validate it; unknown values are rendered from Body.
	MsgType string `json:"msgtype"`

	// Body is the plain-text rendering. Every message carries one, even
	// media messages (where it is typically the file name).
	Body string `json:"body"`

	// Format and FormattedBody carry an optional rich rendering. Only
	// FormatHTML is meaningful.
	Format        string `json:"format,omitempty"`
	FormattedBody string `json:"formatted_body,omitempty"`

	// URL is the mxc:// content URI of media messages.
	URL string `json:"url,omitempty"`

	// Info describes media messages. Absent for text and for location
	// messages.
	Info *FileInfo `json:"info,omitempty"`

	// GeoURI is the geo: URI of an m.location message.
	GeoURI string `json:"geo_uri,omitempty"`
}

// HasHTML reports whether the message declares an HTML body.
func (content MessageContent) HasHTML() bool {
	return content.Format == FormatHTML && content.FormattedBody != ""
}

// FileInfo is the info object of media messages.
type FileInfo struct {
	MimeType string `json:"mimetype,omitempty"`
	Size     int64  `json:"size,omitempty"`

	// Width and Height are set for images and videos.
	Width  int `json:"w,omitempty"`
	Height int `json:"h,omitempty"`

	// Duration is the playback length in milliseconds for audio and
	// video.
	Duration int64 `json:"duration,omitempty"`
}

// MemberContent is the content of an m.room.member state event. The
// affected user is the event's state key, not a content field.
type MemberContent struct {
	Membership  Membership `json:"membership"`
	DisplayName string     `json:"displayname,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// AliasesContent is the content of an m.room.aliases state event.
type AliasesContent struct {
	Aliases []string `json:"aliases"`
}

// CanonicalAliasContent is the content of an m.room.canonical_alias
// state event.
type CanonicalAliasContent struct {
	Alias      string   `json:"alias,omitempty"`
	AltAliases []string `json:"alt_aliases,omitempty"`
}

// NameContent is the content of an m.room.name state event.
type NameContent struct {
	Name string `json:"name"`
}

// TopicContent is the content of an m.room.topic state event.
type TopicContent struct {
	Topic string `json:"topic"`
}

// FullyReadContent is the content of the m.fully_read account data
// event.
type FullyReadContent struct {
	EventID ref.EventID `json:"event_id"`
}

// ReadMarkersRequest is the body of POST /rooms/{roomId}/read_markers.
// FullyRead moves the m.fully_read marker; Read additionally sends a
// public read receipt for the same event.
type ReadMarkersRequest struct {
	FullyRead ref.EventID  `json:"m.fully_read"`
	Read      *ref.EventID `json:"m.read,omitempty"`
}
