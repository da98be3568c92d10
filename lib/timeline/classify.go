// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import "github.com/bureau-foundation/roomview/lib/schema"

// EventKind is the semantic kind of a timeline event.
type EventKind int

const (
	EventKindOther EventKind = iota
	EventKindMessage
	EventKindMembership
	EventKindAliases
	EventKindCanonicalAlias
	EventKindName
	EventKindTopic
)

func (k EventKind) String() string {
	switch k {
	case EventKindMessage:
		return "message"
	case EventKindMembership:
		return "membership"
	case EventKindAliases:
		return "aliases"
	case EventKindCanonicalAlias:
		return "canonical_alias"
	case EventKindName:
		return "name"
	case EventKindTopic:
		return "topic"
	default:
		return "other"
	}
}

// IsState reports whether events of this kind are room state changes
// (membership and room metadata).
func (k EventKind) IsState() bool {
	switch k {
	case EventKindMembership, EventKindAliases, EventKindCanonicalAlias, EventKindName, EventKindTopic:
		return true
	}
	return false
}

// ContentKind sub-classifies message events by msgtype. ContentKindNone
// is reported for every non-message event.
type ContentKind int

const (
	ContentKindNone ContentKind = iota
	ContentKindText
	ContentKindEmote
	ContentKindNotice
	ContentKindImage
	ContentKindFile
	ContentKindLocation
	ContentKindVideo
	ContentKindAudio
	// ContentKindOther is a message whose msgtype is not recognized.
	ContentKindOther
)

func (k ContentKind) String() string {
	switch k {
	case ContentKindNone:
		return "none"
	case ContentKindText:
		return "text"
	case ContentKindEmote:
		return "emote"
	case ContentKindNotice:
		return "notice"
	case ContentKindImage:
		return "image"
	case ContentKindFile:
		return "file"
	case ContentKindLocation:
		return "location"
	case ContentKindVideo:
		return "video"
	case ContentKindAudio:
		return "audio"
	default:
		return "other"
	}
}

// Classify returns the kind of event and, for messages, the content
// kind. Pure and total.
func Classify(event Event) (EventKind, ContentKind) {
	switch payload := event.Payload.(type) {
	case MessagePayload:
		return EventKindMessage, classifyMsgType(payload.MsgType)
	case MembershipPayload:
		return EventKindMembership, ContentKindNone
	case AliasesPayload:
		return EventKindAliases, ContentKindNone
	case CanonicalAliasPayload:
		return EventKindCanonicalAlias, ContentKindNone
	case NamePayload:
		return EventKindName, ContentKindNone
	case TopicPayload:
		return EventKindTopic, ContentKindNone
	default:
		return EventKindOther, ContentKindNone
	}
}

func classifyMsgType(msgType string) ContentKind {
	switch msgType {
	case schema.MsgTypeText:
		return ContentKindText
	case schema.MsgTypeEmote:
		return ContentKindEmote
	case schema.MsgTypeNotice:
		return ContentKindNotice
	case schema.MsgTypeImage:
		return ContentKindImage
	case schema.MsgTypeFile:
		return ContentKindFile
	case schema.MsgTypeLocation:
		return ContentKindLocation
	case schema.MsgTypeVideo:
		return ContentKindVideo
	case schema.MsgTypeAudio:
		return ContentKindAudio
	default:
		return ContentKindOther
	}
}
