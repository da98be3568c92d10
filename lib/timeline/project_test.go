// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"testing"
	"time"

	"github.com/bureau-foundation/roomview/lib/ref"
	"github.com/bureau-foundation/roomview/lib/schema"
	"github.com/bureau-foundation/roomview/messaging"
)

var testNames = staticNames{
	aliceID: "Alice",
	bobID:   "Bob",
	carolID: "Carol",
}

func projectOne(t *testing.T, projector *Projector, raw messaging.Event) DisplayRow {
	t.Helper()
	return projector.Project(Message{Event: DecodeEvent(raw)}, nil, testNames)
}

func TestProjectMessageContent(t *testing.T) {
	projector := NewProjector(ProjectorConfig{Location: time.UTC})

	tests := []struct {
		name            string
		content         schema.MessageContent
		wantContent     string
		wantContentType string
		wantEventType   string
	}{
		{
			name:            "plain text",
			content:         schema.MessageContent{MsgType: schema.MsgTypeText, Body: "hello"},
			wantContent:     "hello",
			wantContentType: ContentTypePlain,
			wantEventType:   EventTypeMessage,
		},
		{
			name: "html text",
			content: schema.MessageContent{
				MsgType:       schema.MsgTypeText,
				Body:          "hello *world*",
				Format:        schema.FormatHTML,
				FormattedBody: "hello <em>world</em>",
			},
			wantContent:     "hello <em>world</em>",
			wantContentType: ContentTypeHTML,
			wantEventType:   EventTypeMessage,
		},
		{
			name: "html format with empty formatted body",
			content: schema.MessageContent{
				MsgType: schema.MsgTypeNotice,
				Body:    "fallback",
				Format:  schema.FormatHTML,
			},
			wantContent:     "fallback",
			wantContentType: ContentTypePlain,
			wantEventType:   EventTypeMessage,
		},
		{
			name: "formatted body in unknown format",
			content: schema.MessageContent{
				MsgType:       schema.MsgTypeText,
				Body:          "plain",
				Format:        "org.example.markdown",
				FormattedBody: "**plain**",
			},
			wantContent:     "plain",
			wantContentType: ContentTypePlain,
			wantEventType:   EventTypeMessage,
		},
		{
			name: "html emote",
			content: schema.MessageContent{
				MsgType:       schema.MsgTypeEmote,
				Body:          "waves",
				Format:        schema.FormatHTML,
				FormattedBody: "<b>waves</b>",
			},
			wantContent:     "<b>waves</b>",
			wantContentType: ContentTypeHTML,
			wantEventType:   EventTypeEmote,
		},
		{
			name: "image",
			content: schema.MessageContent{
				MsgType: schema.MsgTypeImage,
				Body:    "cat.png",
				URL:     "mxc://media.test.local/AbCdEf",
				Info:    &schema.FileInfo{MimeType: "image/png", Width: 64, Height: 64},
			},
			wantContent:     "image://mtx/media.test.local/AbCdEf",
			wantContentType: "image/png",
			wantEventType:   EventTypeImage,
		},
		{
			name: "image without mimetype",
			content: schema.MessageContent{
				MsgType: schema.MsgTypeImage,
				Body:    "cat",
				URL:     "mxc://media.test.local/XyZ",
			},
			wantContent:     "image://mtx/media.test.local/XyZ",
			wantContentType: ContentTypeOctetStream,
			wantEventType:   EventTypeImage,
		},
		{
			name: "file with mimetype",
			content: schema.MessageContent{
				MsgType: schema.MsgTypeFile,
				Body:    "report.pdf",
				URL:     "mxc://media.test.local/report",
				Info:    &schema.FileInfo{MimeType: "application/pdf"},
			},
			wantContent:     "report.pdf",
			wantContentType: "application/pdf",
			wantEventType:   EventTypeMessage,
		},
		{
			name:            "location without info",
			content:         schema.MessageContent{MsgType: schema.MsgTypeLocation, Body: "Big Ben", GeoURI: "geo:51.5008,0.1247"},
			wantContent:     "Big Ben",
			wantContentType: ContentTypeUnknown,
			wantEventType:   EventTypeMessage,
		},
		{
			name:            "audio with empty info",
			content:         schema.MessageContent{MsgType: schema.MsgTypeAudio, Body: "voice.ogg", Info: &schema.FileInfo{}},
			wantContent:     "voice.ogg",
			wantContentType: ContentTypeUnknown,
			wantEventType:   EventTypeMessage,
		},
		{
			name:            "video",
			content:         schema.MessageContent{MsgType: schema.MsgTypeVideo, Body: "clip.mp4", Info: &schema.FileInfo{MimeType: "video/mp4"}},
			wantContent:     "clip.mp4",
			wantContentType: "video/mp4",
			wantEventType:   EventTypeMessage,
		},
		{
			name:            "unknown msgtype",
			content:         schema.MessageContent{MsgType: "org.example.poll", Body: "Lunch?"},
			wantContent:     "Lunch?",
			wantContentType: ContentTypeUnknown,
			wantEventType:   EventTypeMessage,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			row := projectOne(t, projector, wireMessage(t, "$m", bobID, testBase, test.content))
			if row.Content != test.wantContent {
				t.Errorf("Content = %q, want %q", row.Content, test.wantContent)
			}
			if row.ContentType != test.wantContentType {
				t.Errorf("ContentType = %q, want %q", row.ContentType, test.wantContentType)
			}
			if row.EventType != test.wantEventType {
				t.Errorf("EventType = %q, want %q", row.EventType, test.wantEventType)
			}
			if row.Author != "Bob" {
				t.Errorf("Author = %q, want Bob", row.Author)
			}
		})
	}
}

func TestProjectMembership(t *testing.T) {
	projector := NewProjector(ProjectorConfig{Location: time.UTC})

	member := func(sender, subject ref.UserID, membership schema.Membership, displayName string) messaging.Event {
		return wireState(t, "$s", schema.EventTypeRoomMember, sender, subject.String(),
			schema.MemberContent{Membership: membership, DisplayName: displayName})
	}

	tests := []struct {
		name  string
		event messaging.Event
		want  string
	}{
		{"join uses event display name", member(bobID, bobID, schema.MembershipJoin, "Bobby"),
			"Bobby (@bob:test.local) joined the room"},
		{"join falls back to lookup", member(bobID, bobID, schema.MembershipJoin, ""),
			"Bob (@bob:test.local) joined the room"},
		{"leave self", member(bobID, bobID, schema.MembershipLeave, ""), "left the room"},
		{"kick", member(aliceID, bobID, schema.MembershipLeave, ""), "doesn't want Bob in the room anymore"},
		{"ban other", member(aliceID, bobID, schema.MembershipBan, ""), "banned Bob from the room"},
		{"ban self", member(aliceID, aliceID, schema.MembershipBan, ""), "self-banned from the room"},
		{"invite", member(aliceID, carolID, schema.MembershipInvite, "Carol C"), "invited Carol to the room"},
		{"knock", member(carolID, carolID, schema.MembershipKnock, ""), "knocked"},
		{"unknown membership", wireState(t, "$s", schema.EventTypeRoomMember, bobID, "@bob:test.local",
			map[string]string{"membership": "teleported"}), UnknownEvent},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			row := projectOne(t, projector, test.event)
			if row.Content != test.want {
				t.Errorf("Content = %q, want %q", row.Content, test.want)
			}
			if row.EventType != EventTypeState {
				t.Errorf("EventType = %q, want %q", row.EventType, EventTypeState)
			}
			if row.ContentType != ContentTypePlain {
				t.Errorf("ContentType = %q, want %q", row.ContentType, ContentTypePlain)
			}
		})
	}
}

func TestProjectMetadata(t *testing.T) {
	projector := NewProjector(ProjectorConfig{Location: time.UTC})

	tests := []struct {
		name  string
		event messaging.Event
		want  string
	}{
		{"aliases", wireState(t, "$s", schema.EventTypeRoomAliases, bobID, "test.local",
			schema.AliasesContent{Aliases: []string{"#a:test.local", "#b:test.local"}}),
			"set aliases to: #a:test.local, #b:test.local"},
		{"canonical alias", wireState(t, "$s", schema.EventTypeRoomCanonicalAlias, bobID, "",
			schema.CanonicalAliasContent{Alias: "#main:test.local"}),
			"set the room main alias to: #main:test.local"},
		{"name", wireState(t, "$s", schema.EventTypeRoomName, bobID, "",
			schema.NameContent{Name: "General"}), "set the room name to: General"},
		{"topic", wireState(t, "$s", schema.EventTypeRoomTopic, bobID, "",
			schema.TopicContent{Topic: "Talk about anything"}), "set the topic to: Talk about anything"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			row := projectOne(t, projector, test.event)
			if row.Content != test.want {
				t.Errorf("Content = %q, want %q", row.Content, test.want)
			}
			if row.ContentType != ContentTypePlain || row.EventType != EventTypeState {
				t.Errorf("ContentType/EventType = %q/%q", row.ContentType, row.EventType)
			}
		})
	}
}

func TestProjectOtherEvent(t *testing.T) {
	projector := NewProjector(ProjectorConfig{Location: time.UTC})
	raw := messaging.Event{
		EventID:        ref.MustParseEventID("$x"),
		Type:           "m.room.encrypted",
		Sender:         bobID,
		OriginServerTS: testBase.UnixMilli(),
		Content:        []byte(`{}`),
	}
	row := projectOne(t, projector, raw)
	if row.Content != UnknownEvent || row.ContentType != ContentTypeUnknown || row.EventType != EventTypeOther {
		t.Errorf("row = %q/%q/%q", row.Content, row.ContentType, row.EventType)
	}
	if row.Author != "Bob" {
		t.Errorf("Author = %q", row.Author)
	}
}

func TestProjectHighlightDecoration(t *testing.T) {
	raw := wireText(t, "$m", bobID, testBase, "hi alice")

	t.Run("default colour", func(t *testing.T) {
		projector := NewProjector(ProjectorConfig{})
		row := projector.Project(Message{Event: DecodeEvent(raw), IsHighlight: true}, nil, testNames)
		if !row.Highlight || row.Decoration != DefaultHighlightColor {
			t.Errorf("Highlight/Decoration = %v/%q", row.Highlight, row.Decoration)
		}
	})

	t.Run("configured colour", func(t *testing.T) {
		projector := NewProjector(ProjectorConfig{HighlightColor: "#ff00ff"})
		row := projector.Project(Message{Event: DecodeEvent(raw), IsHighlight: true}, nil, testNames)
		if row.Decoration != "#ff00ff" {
			t.Errorf("Decoration = %q", row.Decoration)
		}
	})

	t.Run("not highlighted", func(t *testing.T) {
		projector := NewProjector(ProjectorConfig{})
		row := projector.Project(Message{Event: DecodeEvent(raw)}, nil, testNames)
		if row.Highlight || row.Decoration != "" {
			t.Errorf("Highlight/Decoration = %v/%q", row.Highlight, row.Decoration)
		}
	})
}

func TestProjectGrouping(t *testing.T) {
	projector := NewProjector(ProjectorConfig{Location: time.UTC})
	message := func(id string, sender ref.UserID, at time.Time) Message {
		return Message{Event: DecodeEvent(wireText(t, id, sender, at, "x"))}
	}

	first := message("$1", bobID, testBase)
	tests := []struct {
		name        string
		current     Message
		previous    *Message
		wantNewTime bool
		wantNewUser bool
	}{
		{"first row", first, nil, true, true},
		{"same minute same sender", message("$2", bobID, testBase.Add(30*time.Second)), &first, false, false},
		{"next minute", message("$2", bobID, testBase.Add(time.Minute)), &first, true, false},
		{"same minute next hour", message("$2", bobID, testBase.Add(time.Hour)), &first, true, false},
		{"same hour:minute next day", message("$2", bobID, testBase.Add(24*time.Hour)), &first, false, false},
		{"other sender", message("$2", aliceID, testBase.Add(10*time.Second)), &first, false, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			row := projector.Project(test.current, test.previous, testNames)
			if row.IsNewTimeGroup != test.wantNewTime {
				t.Errorf("IsNewTimeGroup = %v, want %v", row.IsNewTimeGroup, test.wantNewTime)
			}
			if row.IsNewAuthorGroup != test.wantNewUser {
				t.Errorf("IsNewAuthorGroup = %v, want %v", row.IsNewAuthorGroup, test.wantNewUser)
			}
		})
	}
}

func TestProjectTimeAndDateUseLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	projector := NewProjector(ProjectorConfig{Location: tokyo})

	// 20:30 UTC on March 14 is 05:30 on March 15 in JST.
	at := time.Date(2026, 3, 14, 20, 30, 0, 0, time.UTC)
	row := projectOne(t, projector, wireText(t, "$m", bobID, at, "x"))

	if row.Time.Location() != tokyo || row.Time.Hour() != 5 {
		t.Errorf("Time = %v, want 05:30 JST", row.Time)
	}
	wantDate := time.Date(2026, 3, 15, 0, 0, 0, 0, tokyo)
	if !row.Date.Equal(wantDate) {
		t.Errorf("Date = %v, want %v", row.Date, wantDate)
	}
	if row.EventID.String() != "$m" || row.Source == "" {
		t.Errorf("EventID/Source = %q/%q", row.EventID, row.Source)
	}
}

func TestProjectCustomMediaPrefix(t *testing.T) {
	projector := NewProjector(ProjectorConfig{MediaPrefix: "https://media.example/"})
	row := projectOne(t, projector, wireMessage(t, "$m", bobID, testBase, schema.MessageContent{
		MsgType: schema.MsgTypeImage,
		URL:     "mxc://server/id",
	}))
	if row.Content != "https://media.example/server/id" {
		t.Errorf("Content = %q", row.Content)
	}
}
