// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"encoding/json"
	"time"

	"github.com/bureau-foundation/roomview/lib/ref"
	"github.com/bureau-foundation/roomview/lib/schema"
	"github.com/bureau-foundation/roomview/messaging"
)

// Event is a timeline event with its content decoded into exactly one
// Payload variant. Immutable once decoded.
type Event struct {
	ID        ref.EventID
	Sender    ref.UserID
	Timestamp time.Time
	Type      ref.EventType
	Payload   Payload

	// Source is the event as received, re-encoded as indented JSON.
	Source string
}

// Payload is the closed union of event contents the timeline knows how
// to display. The variants are MessagePayload, MembershipPayload,
// AliasesPayload, CanonicalAliasPayload, NamePayload, TopicPayload and
// OtherPayload; no other package can add one.
type Payload interface {
	isPayload()
}

// MessagePayload is the content of an m.room.message event.
type MessagePayload struct {
	schema.MessageContent
}

// MembershipUnknown is the Membership of a member event whose
// membership value is not one the Matrix spec defines.
const MembershipUnknown schema.Membership = ""

// MembershipPayload is the content of an m.room.member event together
// with the member it affects (the state key).
type MembershipPayload struct {
	Subject     ref.UserID
	Membership  schema.Membership
	DisplayName string
}

// AliasesPayload is the content of an m.room.aliases event.
type AliasesPayload struct {
	Aliases []string
}

// CanonicalAliasPayload is the content of an m.room.canonical_alias
// event.
type CanonicalAliasPayload struct {
	Alias string
}

// NamePayload is the content of an m.room.name event.
type NamePayload struct {
	Name string
}

// TopicPayload is the content of an m.room.topic event.
type TopicPayload struct {
	Topic string
}

// OtherPayload stands for any event the timeline does not interpret:
// unknown types, and known types whose content did not decode.
type OtherPayload struct{}

func (MessagePayload) isPayload()        {}
func (MembershipPayload) isPayload()     {}
func (AliasesPayload) isPayload()        {}
func (CanonicalAliasPayload) isPayload() {}
func (NamePayload) isPayload()           {}
func (TopicPayload) isPayload()          {}
func (OtherPayload) isPayload()          {}

// DecodeEvent decodes the content of a wire event into its Payload
// variant. It never fails: anything unrecognized becomes OtherPayload.
func DecodeEvent(raw messaging.Event) Event {
	return Event{
		ID:        raw.EventID,
		Sender:    raw.Sender,
		Timestamp: raw.Timestamp(),
		Type:      raw.Type,
		Payload:   decodePayload(raw),
		Source:    raw.Source(),
	}
}

func decodePayload(raw messaging.Event) Payload {
	switch raw.Type {
	case schema.EventTypeRoomMessage:
		var content schema.MessageContent
		if err := json.Unmarshal(raw.Content, &content); err != nil {
			return OtherPayload{}
		}
		return MessagePayload{MessageContent: content}

	case schema.EventTypeRoomMember:
		if raw.StateKey == nil {
			return OtherPayload{}
		}
		subject, err := ref.ParseUserID(*raw.StateKey)
		if err != nil {
			return OtherPayload{}
		}
		var content schema.MemberContent
		if err := json.Unmarshal(raw.Content, &content); err != nil {
			return OtherPayload{}
		}
		membership := content.Membership
		if !membership.IsKnown() {
			membership = MembershipUnknown
		}
		return MembershipPayload{
			Subject:     subject,
			Membership:  membership,
			DisplayName: content.DisplayName,
		}

	case schema.EventTypeRoomAliases:
		var content schema.AliasesContent
		if err := json.Unmarshal(raw.Content, &content); err != nil {
			return OtherPayload{}
		}
		return AliasesPayload{Aliases: content.Aliases}

	case schema.EventTypeRoomCanonicalAlias:
		var content schema.CanonicalAliasContent
		if err := json.Unmarshal(raw.Content, &content); err != nil {
			return OtherPayload{}
		}
		return CanonicalAliasPayload{Alias: content.Alias}

	case schema.EventTypeRoomName:
		var content schema.NameContent
		if err := json.Unmarshal(raw.Content, &content); err != nil {
			return OtherPayload{}
		}
		return NamePayload{Name: content.Name}

	case schema.EventTypeRoomTopic:
		var content schema.TopicContent
		if err := json.Unmarshal(raw.Content, &content); err != nil {
			return OtherPayload{}
		}
		return TopicPayload{Topic: content.Topic}
	}
	return OtherPayload{}
}
