// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"encoding/json"
	"testing"
)

func TestParseEventID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		// Room version 4+ hash-based IDs.
		{"$abc123xyz", false},
		{"$VGhpcyBpcyBhIHRlc3Q", false},
		// Legacy format with server.
		{"$something:server.local", false},
		{"", true},
		{"!abc123", true},
		{"abc123", true},
		{"$", true},
	}

	for _, test := range tests {
		_, err := ParseEventID(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseEventID(%q): err=%v, wantErr=%v", test.input, err, test.wantErr)
		}
	}
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		input     string
		wantErr   bool
		localpart string
		server    string
	}{
		{input: "@alice:example.org", localpart: "alice", server: "example.org"},
		{input: "@bot/worker:matrix.local:8448", localpart: "bot/worker", server: "matrix.local:8448"},
		{input: "", wantErr: true},
		{input: "alice:example.org", wantErr: true},
		{input: "@alice", wantErr: true},
		{input: "@:example.org", wantErr: true},
		{input: "@alice:", wantErr: true},
	}

	for _, test := range tests {
		userID, err := ParseUserID(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseUserID(%q): err=%v, wantErr=%v", test.input, err, test.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if userID.Localpart() != test.localpart {
			t.Errorf("ParseUserID(%q).Localpart() = %q, want %q", test.input, userID.Localpart(), test.localpart)
		}
		if userID.Server() != test.server {
			t.Errorf("ParseUserID(%q).Server() = %q, want %q", test.input, userID.Server(), test.server)
		}
	}
}

func TestParseRoomIDAndAlias(t *testing.T) {
	if _, err := ParseRoomID("!abc:example.org"); err != nil {
		t.Errorf("ParseRoomID valid: %v", err)
	}
	for _, invalid := range []string{"", "#abc:example.org", "!abc", "!:example.org"} {
		if _, err := ParseRoomID(invalid); err == nil {
			t.Errorf("ParseRoomID(%q) succeeded, want error", invalid)
		}
	}
	if _, err := ParseRoomAlias("#general:example.org"); err != nil {
		t.Errorf("ParseRoomAlias valid: %v", err)
	}
	if _, err := ParseRoomAlias("!general:example.org"); err == nil {
		t.Error("ParseRoomAlias accepted a room ID")
	}
}

func TestJSONBoundary(t *testing.T) {
	type event struct {
		EventID EventID `json:"event_id"`
		Sender  UserID  `json:"sender"`
		RoomID  RoomID  `json:"room_id,omitempty"`
	}

	var decoded event
	if err := json.Unmarshal([]byte(`{"event_id":"$e1","sender":"@alice:example.org"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.EventID != MustParseEventID("$e1") {
		t.Errorf("EventID = %q", decoded.EventID)
	}
	if decoded.Sender != MustParseUserID("@alice:example.org") {
		t.Errorf("Sender = %q", decoded.Sender)
	}
	if !decoded.RoomID.IsZero() {
		t.Errorf("RoomID = %q, want zero", decoded.RoomID)
	}

	if err := json.Unmarshal([]byte(`{"event_id":"e1","sender":"@alice:example.org"}`), &decoded); err == nil {
		t.Error("Unmarshal accepted an event ID without '$'")
	}

	// Room IDs key the rooms.join map in /sync.
	var rooms map[RoomID]int
	if err := json.Unmarshal([]byte(`{"!a:example.org":1}`), &rooms); err != nil {
		t.Fatalf("Unmarshal map: %v", err)
	}
	if rooms[MustParseRoomID("!a:example.org")] != 1 {
		t.Errorf("map lookup failed: %v", rooms)
	}
}
