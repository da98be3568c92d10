// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"net/url"
	"strings"
	"time"

	"github.com/bureau-foundation/roomview/lib/ref"
	"github.com/bureau-foundation/roomview/lib/schema"
)

// Content types reported in DisplayRow.ContentType.
const (
	ContentTypePlain   = "text/plain"
	ContentTypeHTML    = "text/html"
	ContentTypeUnknown = "unknown"

	// ContentTypeOctetStream is reported for images that do not
	// declare a MIME type.
	ContentTypeOctetStream = "application/octet-stream"
)

// UnknownEvent is the content of rows the projector cannot describe.
const UnknownEvent = "Unknown Event"

// Event type tags reported in DisplayRow.EventType.
const (
	EventTypeMessage = "message"
	EventTypeEmote   = "emote"
	EventTypeImage   = "image"
	EventTypeState   = "state"
	EventTypeOther   = "other"
)

// Projector defaults.
const (
	DefaultHighlightColor = "orange"
	DefaultMediaPrefix    = "image://mtx/"
)

// NameLookup resolves a user ID to the name currently shown for them in
// the room. *messaging.Room implements it.
type NameLookup interface {
	MemberName(userID ref.UserID) string
}

// ProjectorConfig holds the presentation settings the projector needs.
// Zero fields take the defaults.
type ProjectorConfig struct {
	// HighlightColor is reported as the decoration of highlighted rows.
	HighlightColor string

	// Location is the time zone used for dates and time grouping.
	// Defaults to time.Local.
	Location *time.Location

	// MediaPrefix is prepended to "host/path" of an image's mxc:// URL
	// to form the locator the presentation layer resolves.
	MediaPrefix string
}

// DisplayRow is everything a presentation layer needs to draw one
// timeline row.
type DisplayRow struct {
	Kind        EventKind
	ContentKind ContentKind

	// EventType is the coarse type tag: EventTypeMessage, EventTypeEmote,
	// EventTypeImage, EventTypeState or EventTypeOther.
	EventType string

	EventID ref.EventID
	Time    time.Time
	// Date is midnight of the event's calendar day.
	Date time.Time

	Author      string
	Content     string
	ContentType string

	Highlight bool
	// Decoration is the highlight colour, or "" for ordinary rows.
	Decoration string

	Source string

	// IsNewTimeGroup is set when the row starts a new hour:minute
	// bucket; IsNewAuthorGroup when its sender differs from the
	// previous row's.
	IsNewTimeGroup   bool
	IsNewAuthorGroup bool
}

// Projector computes DisplayRows.
type Projector struct {
	config ProjectorConfig
}

// NewProjector creates a Projector, filling defaults for zero fields.
func NewProjector(config ProjectorConfig) *Projector {
	if config.HighlightColor == "" {
		config.HighlightColor = DefaultHighlightColor
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.MediaPrefix == "" {
		config.MediaPrefix = DefaultMediaPrefix
	}
	return &Projector{config: config}
}

// Project computes the display row for message. previous is the row
// before it in the timeline, or nil for the first row. Author and
// subject names come from names at call time and may differ from the
// names in effect when the event was sent.
func (p *Projector) Project(message Message, previous *Message, names NameLookup) DisplayRow {
	event := message.Event
	kind, contentKind := Classify(event)
	local := event.Timestamp.In(p.config.Location)

	row := DisplayRow{
		Kind:        kind,
		ContentKind: contentKind,
		EventType:   eventTypeTag(kind, contentKind),
		EventID:     event.ID,
		Time:        local,
		Date:        time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.config.Location),
		Author:      names.MemberName(event.Sender),
		Highlight:   message.IsHighlight,
		Source:      event.Source,
	}
	if message.IsHighlight {
		row.Decoration = p.config.HighlightColor
	}
	row.Content, row.ContentType = p.content(event, contentKind, names)

	if previous == nil {
		row.IsNewTimeGroup = true
		row.IsNewAuthorGroup = true
	} else {
		previousLocal := previous.Event.Timestamp.In(p.config.Location)
		row.IsNewTimeGroup = local.Hour() != previousLocal.Hour() || local.Minute() != previousLocal.Minute()
		row.IsNewAuthorGroup = event.Sender != previous.Event.Sender
	}
	return row
}

func eventTypeTag(kind EventKind, contentKind ContentKind) string {
	switch {
	case kind == EventKindMessage && contentKind == ContentKindImage:
		return EventTypeImage
	case kind == EventKindMessage && contentKind == ContentKindEmote:
		return EventTypeEmote
	case kind == EventKindMessage:
		return EventTypeMessage
	case kind.IsState():
		return EventTypeState
	default:
		return EventTypeOther
	}
}

// content returns the rendered content and its content type.
func (p *Projector) content(event Event, contentKind ContentKind, names NameLookup) (string, string) {
	switch payload := event.Payload.(type) {
	case MessagePayload:
		return p.messageContent(payload, contentKind)
	case MembershipPayload:
		return membershipSentence(event.Sender, payload, names), ContentTypePlain
	case AliasesPayload:
		return "set aliases to: " + strings.Join(payload.Aliases, ", "), ContentTypePlain
	case CanonicalAliasPayload:
		return "set the room main alias to: " + payload.Alias, ContentTypePlain
	case NamePayload:
		return "set the room name to: " + payload.Name, ContentTypePlain
	case TopicPayload:
		return "set the topic to: " + payload.Topic, ContentTypePlain
	case OtherPayload:
		return UnknownEvent, ContentTypeUnknown
	}
	return UnknownEvent, ContentTypeUnknown
}

func (p *Projector) messageContent(payload MessagePayload, contentKind ContentKind) (string, string) {
	switch contentKind {
	case ContentKindText, ContentKindEmote, ContentKindNotice:
		if payload.HasHTML() {
			return payload.FormattedBody, ContentTypeHTML
		}
		return payload.Body, ContentTypePlain

	case ContentKindImage:
		return p.mediaLocator(payload.URL), declaredMimeType(payload.Info, ContentTypeOctetStream)

	case ContentKindFile, ContentKindLocation, ContentKindVideo, ContentKindAudio:
		// Only the textual description is projected; the media itself
		// is left to the presentation layer.
		return payload.Body, declaredMimeType(payload.Info, ContentTypeUnknown)

	default:
		return payload.Body, ContentTypeUnknown
	}
}

// mediaLocator rewrites mxc://host/path to MediaPrefix+host/path. A URL
// that does not parse yields the bare prefix.
func (p *Projector) mediaLocator(contentURL string) string {
	parsed, err := url.Parse(contentURL)
	if err != nil {
		return p.config.MediaPrefix
	}
	return p.config.MediaPrefix + parsed.Host + parsed.Path
}

func declaredMimeType(info *schema.FileInfo, fallback string) string {
	if info == nil || info.MimeType == "" {
		return fallback
	}
	return info.MimeType
}

// membershipSentence describes a membership change. sender performed
// it; payload.Subject is the member it affected.
func membershipSentence(sender ref.UserID, payload MembershipPayload, names NameLookup) string {
	subjectName := names.MemberName(payload.Subject)
	self := sender == payload.Subject

	switch payload.Membership {
	case schema.MembershipJoin:
		joinedName := payload.DisplayName
		if joinedName == "" {
			joinedName = subjectName
		}
		return joinedName + " (" + payload.Subject.String() + ") joined the room"
	case schema.MembershipLeave:
		if self {
			return "left the room"
		}
		return "doesn't want " + subjectName + " in the room anymore"
	case schema.MembershipBan:
		if self {
			return "self-banned from the room"
		}
		return "banned " + subjectName + " from the room"
	case schema.MembershipInvite:
		return "invited " + subjectName + " to the room"
	case schema.MembershipKnock:
		return "knocked"
	}
	return UnknownEvent
}
