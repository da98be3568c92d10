// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/bureau-foundation/roomview/lib/ref"
	"github.com/bureau-foundation/roomview/lib/schema"
	"github.com/bureau-foundation/roomview/messaging"
)

var (
	testRoomID = ref.MustParseRoomID("!room:test.local")
	aliceID    = ref.MustParseUserID("@alice:test.local")
	bobID      = ref.MustParseUserID("@bob:test.local")
	carolID    = ref.MustParseUserID("@carol:test.local")
	testBase   = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
)

func mustJSON(t *testing.T, value any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

// wireMessage builds an m.room.message wire event.
func wireMessage(t *testing.T, id string, sender ref.UserID, at time.Time, content schema.MessageContent) messaging.Event {
	t.Helper()
	return messaging.Event{
		EventID:        ref.MustParseEventID(id),
		Type:           schema.EventTypeRoomMessage,
		Sender:         sender,
		OriginServerTS: at.UnixMilli(),
		Content:        mustJSON(t, content),
	}
}

func wireText(t *testing.T, id string, sender ref.UserID, at time.Time, body string) messaging.Event {
	t.Helper()
	return wireMessage(t, id, sender, at, schema.MessageContent{MsgType: schema.MsgTypeText, Body: body})
}

// wireState builds a state event with the given state key.
func wireState(t *testing.T, id string, eventType ref.EventType, sender ref.UserID, stateKey string, content any) messaging.Event {
	t.Helper()
	return messaging.Event{
		EventID:        ref.MustParseEventID(id),
		Type:           eventType,
		Sender:         sender,
		OriginServerTS: testBase.UnixMilli(),
		Content:        mustJSON(t, content),
		StateKey:       &stateKey,
	}
}

// textBatch builds count text events with IDs prefix0..prefixN-1, one
// minute apart, all from bob.
func textBatch(t *testing.T, prefix string, count int) []messaging.Event {
	t.Helper()
	events := make([]messaging.Event, count)
	for i := range events {
		events[i] = wireText(t, fmt.Sprintf("$%s%d", prefix, i), bobID, testBase.Add(time.Duration(i)*time.Minute), "hello")
	}
	return events
}

func newMessagingRoom() *messaging.Room {
	return messaging.NewRoom(testRoomID, aliceID, nil)
}

// staticNames is a NameLookup over a fixed map; unknown users resolve
// to their ID.
type staticNames map[ref.UserID]string

func (n staticNames) MemberName(userID ref.UserID) string {
	if name, ok := n[userID]; ok {
		return name
	}
	return userID.String()
}

// recorder is an Observer that records every notification as a string.
type recorder struct {
	calls []string
}

func (r *recorder) ModelAboutToBeReset() { r.calls = append(r.calls, "aboutToReset") }
func (r *recorder) ModelReset()          { r.calls = append(r.calls, "reset") }

func (r *recorder) RowsAboutToBeInserted(first, last int) {
	r.calls = append(r.calls, fmt.Sprintf("aboutToInsert(%d,%d)", first, last))
}

func (r *recorder) RowsInserted(first, last int) {
	r.calls = append(r.calls, fmt.Sprintf("inserted(%d,%d)", first, last))
}

func (r *recorder) ReadMarkerIndexChanged(index int) {
	r.calls = append(r.calls, fmt.Sprintf("marker(%d)", index))
}

func (r *recorder) LastShownIndexChanged(index int) {
	r.calls = append(r.calls, fmt.Sprintf("lastShown(%d)", index))
}

func (r *recorder) reset() { r.calls = nil }

func (r *recorder) count(prefix string) int {
	n := 0
	for _, call := range r.calls {
		if len(call) >= len(prefix) && call[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// scriptedRoom is a Room whose notifications are driven by the test.
// Unlike messaging.Room it keeps handlers after unsubscribe so tests
// can deliver notifications from a superseded binding.
type scriptedRoom struct {
	id          ref.RoomID
	events      []messaging.Event
	marker      ref.EventID
	handlers    []messaging.RoomHandler
	unsubscribe int
	markedRead  []ref.EventID
}

func (r *scriptedRoom) ID() ref.RoomID                      { return r.id }
func (r *scriptedRoom) Count() int                          { return len(r.events) }
func (r *scriptedRoom) At(i int) messaging.Event            { return r.events[i] }
func (r *scriptedRoom) ReadMarkerEventID() ref.EventID      { return r.marker }
func (r *scriptedRoom) MemberName(userID ref.UserID) string { return userID.String() }
func (r *scriptedRoom) LocalUserID() ref.UserID             { return aliceID }
func (r *scriptedRoom) LocalDisplayName() string            { return "" }

func (r *scriptedRoom) MarkMessagesAsRead(eventID ref.EventID) {
	r.markedRead = append(r.markedRead, eventID)
}

func (r *scriptedRoom) Subscribe(handler messaging.RoomHandler) func() {
	r.handlers = append(r.handlers, handler)
	return func() { r.unsubscribe++ }
}

// appendEvents announces, stores and commits events through every
// handler ever registered.
func (r *scriptedRoom) appendEvents(events []messaging.Event) {
	for _, handler := range r.handlers {
		handler.AboutToAppend(len(events))
	}
	r.events = append(r.events, events...)
	for _, handler := range r.handlers {
		handler.Added()
	}
}
