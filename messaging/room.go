// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/bureau-foundation/roomview/lib/ref"
	"github.com/bureau-foundation/roomview/lib/schema"
)

// RoomHandler receives structural notifications from a Room. Every
// insertion is announced with exactly one AboutToAppend or
// AboutToPrepend call followed by one Added call once the events are
// readable through Room.At.
type RoomHandler interface {
	// AboutToAppend announces that count events will be added after
	// the current last event.
	AboutToAppend(count int)

	// AboutToPrepend announces that count events will be added before
	// the current first event.
	AboutToPrepend(count int)

	// Added reports that the announced events are now in the room.
	Added()

	// ReadMarkerMoved reports that ReadMarkerEventID changed.
	ReadMarkerMoved()

	// Reset reports that the room discarded its events and holds a new
	// run of them. Never sent inside an insertion.
	Reset()
}

// member is the room's view of one m.room.member state.
type member struct {
	displayName string
	membership  schema.Membership
}

// subscription is a registered handler. Compared by pointer so the
// same handler can be registered twice and removed independently.
type subscription struct {
	handler RoomHandler
}

// Room is the local, ordered event store for one joined room. Events
// are kept oldest first. Room is not safe for concurrent use: the
// Syncer hands every mutation to its Dispatcher so that Room is only
// touched from one goroutine.
type Room struct {
	id        ref.RoomID
	localUser ref.UserID
	logger    *slog.Logger

	events []Event
	seen   map[ref.EventID]struct{}

	members map[ref.UserID]member
	// joinedNames counts joined members per display name, for
	// disambiguation in MemberName.
	joinedNames map[string]int

	readMarker ref.EventID
	name       string
	topic      string

	subscriptions []*subscription

	// requestReadMarker asks the homeserver to move the read marker.
	// Nil for rooms not attached to a Syncer.
	requestReadMarker func(ref.EventID)
}

// NewRoom creates an empty room store. localUser is the session's own
// user ID, used for highlight and "self" membership decisions. A nil
// logger uses slog.Default().
func NewRoom(id ref.RoomID, localUser ref.UserID, logger *slog.Logger) *Room {
	if logger == nil {
		logger = slog.Default()
	}
	return &Room{
		id:          id,
		localUser:   localUser,
		logger:      logger,
		seen:        make(map[ref.EventID]struct{}),
		members:     make(map[ref.UserID]member),
		joinedNames: make(map[string]int),
	}
}

// ID returns the room ID.
func (r *Room) ID() ref.RoomID { return r.id }

// Count returns the number of events in the store.
func (r *Room) Count() int { return len(r.events) }

// At returns the event at index i (0 is the oldest). Panics if i is out
// of range, like a slice index.
func (r *Room) At(i int) Event { return r.events[i] }

// Name returns the room name from m.room.name state, or "".
func (r *Room) Name() string { return r.name }

// Topic returns the room topic from m.room.topic state, or "".
func (r *Room) Topic() string { return r.topic }

// LocalUserID returns the session's user ID.
func (r *Room) LocalUserID() ref.UserID { return r.localUser }

// LocalDisplayName returns the local user's display name in this room,
// or "" when none is set.
func (r *Room) LocalDisplayName() string {
	return r.members[r.localUser].displayName
}

// ReadMarkerEventID returns the event ID of the m.fully_read marker, or
// the zero EventID when the room has none.
func (r *Room) ReadMarkerEventID() ref.EventID { return r.readMarker }

// MemberName returns the name to display for userID: the member's
// display name, suffixed with the user ID when another joined member
// shares it, or the bare user ID when the member has no display name.
func (r *Room) MemberName(userID ref.UserID) string {
	info, ok := r.members[userID]
	if !ok || info.displayName == "" {
		return userID.String()
	}
	if r.joinedNames[info.displayName] > 1 {
		return info.displayName + " (" + userID.String() + ")"
	}
	return info.displayName
}

// Subscribe registers handler for structural notifications and returns
// a function that removes it. The returned function is idempotent.
func (r *Room) Subscribe(handler RoomHandler) (unsubscribe func()) {
	entry := &subscription{handler: handler}
	r.subscriptions = append(r.subscriptions, entry)
	return func() {
		for i, existing := range r.subscriptions {
			if existing == entry {
				r.subscriptions = append(r.subscriptions[:i:i], r.subscriptions[i+1:]...)
				return
			}
		}
	}
}

// handlers returns a snapshot of the registered handlers so that a
// handler may unsubscribe (or subscribe) while being notified.
func (r *Room) handlers() []RoomHandler {
	snapshot := make([]RoomHandler, len(r.subscriptions))
	for i, entry := range r.subscriptions {
		snapshot[i] = entry.handler
	}
	return snapshot
}

// MarkMessagesAsRead asks the homeserver to move the read marker to
// eventID. The local marker does not move until the server echoes the
// new m.fully_read account data through sync.
func (r *Room) MarkMessagesAsRead(eventID ref.EventID) {
	if eventID.IsZero() || eventID == r.readMarker {
		return
	}
	if r.requestReadMarker == nil {
		r.logger.Debug("read marker request dropped: room has no transport",
			"room_id", r.id,
			"event_id", eventID,
		)
		return
	}
	r.requestReadMarker(eventID)
}

// AddLiveEvents appends new events after the current last event.
// Events already in the store are skipped. Member and metadata state
// carried by the events is applied before handlers are notified, so
// names resolve against the newest state.
func (r *Room) AddLiveEvents(events []Event) {
	fresh := r.filterSeen(events)
	if len(fresh) == 0 {
		return
	}
	for _, event := range fresh {
		r.applyStateEvent(event, true)
	}

	handlers := r.handlers()
	for _, handler := range handlers {
		handler.AboutToAppend(len(fresh))
	}
	r.events = append(r.events, fresh...)
	for _, handler := range handlers {
		handler.Added()
	}
}

// AddHistoricalEvents prepends a page of older events. chunk is in the
// order returned by /messages with dir=b: newest first. Events already
// in the store are skipped. Member state from history only fills in
// members the room does not know yet, taking the newest value the page
// carries.
func (r *Room) AddHistoricalEvents(chunk []Event) {
	fresh := r.filterSeen(chunk)
	if len(fresh) == 0 {
		return
	}
	// Newest first, so the first value taken for a key is the latest.
	for _, event := range fresh {
		r.applyStateEvent(event, false)
	}
	slices.Reverse(fresh)

	handlers := r.handlers()
	for _, handler := range handlers {
		handler.AboutToPrepend(len(fresh))
	}
	events := make([]Event, 0, len(fresh)+len(r.events))
	events = append(events, fresh...)
	r.events = append(events, r.events...)
	for _, handler := range handlers {
		handler.Added()
	}
}

// ResetTimeline replaces the stored events with events, oldest first.
// Used when a sync skipped events between the stored ones and the new
// batch. Handlers re-read the room after Reset.
func (r *Room) ResetTimeline(events []Event) {
	r.events = nil
	r.seen = make(map[ref.EventID]struct{})
	fresh := r.filterSeen(events)
	for _, event := range fresh {
		r.applyStateEvent(event, true)
	}
	r.events = fresh
	for _, handler := range r.handlers() {
		handler.Reset()
	}
}

// ApplyState applies room state events (the state section of a sync
// response) without adding them to the timeline.
func (r *Room) ApplyState(events []Event) {
	for _, event := range events {
		r.applyStateEvent(event, true)
	}
}

// applyHistoricalState applies the state section of a /messages page.
// Only state the room does not have yet is taken.
func (r *Room) applyHistoricalState(events []Event) {
	for _, event := range events {
		r.applyStateEvent(event, false)
	}
}

// ApplyMembers replaces the membership of each listed member, as
// returned by /members.
func (r *Room) ApplyMembers(members []RoomMember) {
	for _, entry := range members {
		r.setMember(entry.UserID, member{
			displayName: entry.DisplayName,
			membership:  schema.Membership(entry.Membership),
		})
	}
}

// ApplyAccountData applies room account data. Only m.fully_read is
// interpreted.
func (r *Room) ApplyAccountData(events []Event) {
	for _, event := range events {
		if event.Type != schema.EventTypeFullyRead {
			continue
		}
		var content schema.FullyReadContent
		if err := json.Unmarshal(event.Content, &content); err != nil {
			r.logger.Warn("ignoring malformed m.fully_read",
				"room_id", r.id,
				"error", err,
			)
			continue
		}
		r.SetReadMarker(content.EventID)
	}
}

// SetReadMarker moves the local read marker and notifies handlers when
// it changed.
func (r *Room) SetReadMarker(eventID ref.EventID) {
	if eventID == r.readMarker {
		return
	}
	r.readMarker = eventID
	for _, handler := range r.handlers() {
		handler.ReadMarkerMoved()
	}
}

// filterSeen drops events whose ID is already stored (or repeated
// within events) and records the rest as seen.
func (r *Room) filterSeen(events []Event) []Event {
	fresh := make([]Event, 0, len(events))
	for _, event := range events {
		if !event.EventID.IsZero() {
			if _, duplicate := r.seen[event.EventID]; duplicate {
				continue
			}
			r.seen[event.EventID] = struct{}{}
		}
		fresh = append(fresh, event)
	}
	return fresh
}

// applyStateEvent updates members, name and topic from a state event.
// When overwrite is false, only state the room does not have yet is
// taken (history walks backward in time).
func (r *Room) applyStateEvent(event Event, overwrite bool) {
	if event.StateKey == nil {
		return
	}
	switch event.Type {
	case schema.EventTypeRoomMember:
		userID, err := ref.ParseUserID(*event.StateKey)
		if err != nil {
			r.logger.Debug("ignoring member event with invalid state key",
				"room_id", r.id,
				"state_key", *event.StateKey,
			)
			return
		}
		if _, known := r.members[userID]; known && !overwrite {
			return
		}
		var content schema.MemberContent
		if err := json.Unmarshal(event.Content, &content); err != nil {
			return
		}
		r.setMember(userID, member{
			displayName: content.DisplayName,
			membership:  content.Membership,
		})
	case schema.EventTypeRoomName:
		if r.name != "" && !overwrite {
			return
		}
		var content schema.NameContent
		if err := json.Unmarshal(event.Content, &content); err == nil {
			r.name = content.Name
		}
	case schema.EventTypeRoomTopic:
		if r.topic != "" && !overwrite {
			return
		}
		var content schema.TopicContent
		if err := json.Unmarshal(event.Content, &content); err == nil {
			r.topic = content.Topic
		}
	}
}

// setMember records a member and keeps joinedNames in step.
func (r *Room) setMember(userID ref.UserID, next member) {
	if previous, ok := r.members[userID]; ok && previous.membership == schema.MembershipJoin && previous.displayName != "" {
		r.joinedNames[previous.displayName]--
		if r.joinedNames[previous.displayName] <= 0 {
			delete(r.joinedNames, previous.displayName)
		}
	}
	r.members[userID] = next
	if next.membership == schema.MembershipJoin && next.displayName != "" {
		r.joinedNames[next.displayName]++
	}
}
