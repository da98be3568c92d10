// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"log/slog"

	"github.com/bureau-foundation/roomview/lib/ref"
	"github.com/bureau-foundation/roomview/messaging"
)

// Room is the per-room event store the model binds to.
// *messaging.Room is the production implementation.
type Room interface {
	ID() ref.RoomID

	// Count and At expose the room's events, oldest first.
	Count() int
	At(index int) messaging.Event

	// ReadMarkerEventID is the server-reported m.fully_read event, or
	// the zero EventID.
	ReadMarkerEventID() ref.EventID

	MemberName(userID ref.UserID) string
	LocalUserID() ref.UserID
	LocalDisplayName() string

	// MarkMessagesAsRead asks the server to move the read marker. The
	// room reports the move later through ReadMarkerMoved.
	MarkMessagesAsRead(eventID ref.EventID)

	// Subscribe registers a handler and returns a function that
	// removes it.
	Subscribe(handler messaging.RoomHandler) (unsubscribe func())
}

var _ Room = (*messaging.Room)(nil)

// Observer receives the model's change notifications. Insertions are
// bracketed: RowsAboutToBeInserted is always followed by exactly one
// RowsInserted for the same range, and rows outside the range keep
// their data (though rows after a prepend are renumbered by the range
// length).
type Observer interface {
	ModelAboutToBeReset()
	ModelReset()
	RowsAboutToBeInserted(first, last int)
	RowsInserted(first, last int)
	ReadMarkerIndexChanged(index int)
	LastShownIndexChanged(index int)
}

// ModelConfig holds configuration for a Model.
type ModelConfig struct {
	Projector ProjectorConfig

	// HighlightKeywords are extra words that highlight a message.
	HighlightKeywords []string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// pendingInsert is an announced but not yet committed insertion.
type pendingInsert struct {
	prepend bool
	count   int
}

// Model is the timeline of the bound room. Not safe for concurrent
// use; see the package documentation.
type Model struct {
	projector   *Projector
	highlighter Highlighter
	logger      *slog.Logger

	observers []*observerEntry

	room        Room
	unsubscribe func()
	// generation increments on every SetRoom. Room callbacks carry the
	// generation they were registered under.
	generation uint64

	messages   []Message
	pending    *pendingInsert
	readMarker ReadMarker
	lastShown  int
}

type observerEntry struct {
	observer Observer
}

// NewModel creates an unbound Model.
func NewModel(config ModelConfig) *Model {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{
		projector:   NewProjector(config.Projector),
		highlighter: Highlighter{Keywords: config.HighlightKeywords},
		logger:      logger,
		readMarker:  NewReadMarker(),
		lastShown:   -1,
	}
}

// AddObserver registers observer and returns a function that removes
// it.
func (m *Model) AddObserver(observer Observer) (remove func()) {
	entry := &observerEntry{observer: observer}
	m.observers = append(m.observers, entry)
	return func() {
		for i, existing := range m.observers {
			if existing == entry {
				m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

func (m *Model) notify(fn func(Observer)) {
	snapshot := make([]Observer, len(m.observers))
	for i, entry := range m.observers {
		snapshot[i] = entry.observer
	}
	for _, observer := range snapshot {
		fn(observer)
	}
}

// Room returns the bound room, or nil.
func (m *Model) Room() Room { return m.room }

// SetRoom binds the model to room, replacing the timeline. A nil room
// unbinds. Binding the already bound room does nothing.
//
// Subscriptions to the previous room are removed before anything else
// happens. Events the new room already holds become the initial
// timeline, inside the reset notification.
func (m *Model) SetRoom(room Room) {
	if room == m.room {
		return
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.generation++

	m.notify(func(o Observer) { o.ModelAboutToBeReset() })
	previousMarker := m.readMarker.Index()
	m.room = room
	m.pending = nil
	m.messages = nil
	m.readMarker.Reset()
	m.lastShown = -1
	if room != nil {
		m.messages = m.loadMessages(0, room.Count())
		m.unsubscribe = room.Subscribe(&roomSubscriber{model: m, generation: m.generation})
		m.logger.Debug("timeline bound to room",
			"room_id", room.ID(),
			"events", len(m.messages),
		)
	}
	m.notify(func(o Observer) { o.ModelReset() })

	if previousMarker != -1 {
		m.notify(func(o Observer) { o.ReadMarkerIndexChanged(-1) })
	}
	m.notify(func(o Observer) { o.LastShownIndexChanged(-1) })
	m.updateReadMarker()
}

// loadMessages builds Messages for room events [first, first+count).
func (m *Model) loadMessages(first, count int) []Message {
	localUser := m.room.LocalUserID()
	localName := m.room.LocalDisplayName()
	messages := make([]Message, count)
	for i := range messages {
		event := DecodeEvent(m.room.At(first + i))
		messages[i] = Message{
			Event:       event,
			IsHighlight: m.highlighter.Matches(event, localUser, localName),
		}
	}
	return messages
}

// RowCount returns the number of rows; 0 when unbound.
func (m *Model) RowCount() int {
	if m.room == nil {
		return 0
	}
	return len(m.messages)
}

// Row returns the display row at index row. ok is false when the model
// is unbound or row is out of range.
func (m *Model) Row(row int) (DisplayRow, bool) {
	if m.room == nil || row < 0 || row >= len(m.messages) {
		return DisplayRow{}, false
	}
	var previous *Message
	if row > 0 {
		previous = &m.messages[row-1]
	}
	return m.projector.Project(m.messages[row], previous, m.room), true
}

// Data returns one field of the display row at index row, or nil when
// the model is unbound, row is out of range, or field is unknown.
func (m *Model) Data(row int, field Field) any {
	displayRow, ok := m.Row(row)
	if !ok {
		return nil
	}
	return displayRow.Value(field)
}

// ReadMarkerIndex returns the row of the read-marker event, or -1.
func (m *Model) ReadMarkerIndex() int { return m.readMarker.Index() }

// LastShownIndex returns the furthest row the presentation layer has
// reported as shown, or -1.
func (m *Model) LastShownIndex() int { return m.lastShown }

// SetLastShownIndex records the furthest row shown to the user.
// Values outside [-1, RowCount()) are ignored.
func (m *Model) SetLastShownIndex(index int) {
	if index < -1 || index >= m.RowCount() {
		m.logger.Debug("ignoring out-of-range last shown index",
			"index", index,
			"rows", m.RowCount(),
		)
		return
	}
	if index == m.lastShown {
		return
	}
	m.lastShown = index
	m.notify(func(o Observer) { o.LastShownIndexChanged(index) })
}

// AwaitingMarkAsRead reports whether rows past the read marker have
// been shown.
func (m *Model) AwaitingMarkAsRead() bool {
	return m.readMarker.AwaitingMarkAsRead(m.lastShown)
}

// MarkShownAsRead asks the room to move the read marker to the last
// shown row. The local read-marker index is unchanged until the room
// reports the move.
func (m *Model) MarkShownAsRead() {
	if m.room == nil || m.lastShown < 0 || m.lastShown >= len(m.messages) {
		return
	}
	m.room.MarkMessagesAsRead(m.messages[m.lastShown].Event.ID)
}

func (m *Model) updateReadMarker() {
	if m.room == nil {
		return
	}
	idAt := func(row int) ref.EventID { return m.messages[row].Event.ID }
	if m.readMarker.Recompute(len(m.messages), idAt, m.room.ReadMarkerEventID()) {
		index := m.readMarker.Index()
		m.notify(func(o Observer) { o.ReadMarkerIndexChanged(index) })
	}
}

func (m *Model) aboutToInsert(generation uint64, prepend bool, count int) {
	if !m.current(generation) {
		return
	}
	if count <= 0 || m.pending != nil {
		m.logger.Warn("ignoring out-of-order insert notification",
			"room_id", m.room.ID(),
			"count", count,
			"pending", m.pending != nil,
		)
		return
	}
	m.pending = &pendingInsert{prepend: prepend, count: count}
	first := len(m.messages)
	if prepend {
		first = 0
	}
	m.notify(func(o Observer) { o.RowsAboutToBeInserted(first, first+count-1) })
}

func (m *Model) added(generation uint64) {
	if !m.current(generation) {
		return
	}
	pending := m.pending
	if pending == nil {
		m.logger.Warn("ignoring added notification with nothing announced",
			"room_id", m.room.ID(),
		)
		return
	}
	m.pending = nil

	if m.room.Count() != len(m.messages)+pending.count {
		// The room's contents no longer match what was announced.
		// Close the bracket with a full reload.
		m.logger.Error("room size does not match announced insert; reloading timeline",
			"room_id", m.room.ID(),
			"rows", len(m.messages),
			"announced", pending.count,
			"room_count", m.room.Count(),
		)
		m.reload()
		return
	}

	var first int
	if pending.prepend {
		batch := m.loadMessages(0, pending.count)
		m.messages = append(batch, m.messages...)
		first = 0
	} else {
		first = len(m.messages)
		m.messages = append(m.messages, m.loadMessages(first, pending.count)...)
	}
	last := first + pending.count - 1
	m.notify(func(o Observer) { o.RowsInserted(first, last) })
	m.updateReadMarker()
}

// reload rebuilds the timeline from the bound room inside a reset
// notification, keeping the subscription.
func (m *Model) reload() {
	m.notify(func(o Observer) { o.ModelAboutToBeReset() })
	m.messages = m.loadMessages(0, m.room.Count())
	previousMarker := m.readMarker.Index()
	m.readMarker.Reset()
	m.lastShown = -1
	m.notify(func(o Observer) { o.ModelReset() })
	if previousMarker != -1 {
		m.notify(func(o Observer) { o.ReadMarkerIndexChanged(-1) })
	}
	m.notify(func(o Observer) { o.LastShownIndexChanged(-1) })
	m.updateReadMarker()
}

// roomReset rebuilds the timeline after the room replaced its events.
func (m *Model) roomReset(generation uint64) {
	if !m.current(generation) {
		return
	}
	if m.pending != nil {
		m.logger.Warn("room reset inside an announced insert",
			"room_id", m.room.ID(),
			"announced", m.pending.count,
		)
		m.pending = nil
	}
	m.reload()
}

func (m *Model) readMarkerMoved(generation uint64) {
	if !m.current(generation) {
		return
	}
	m.updateReadMarker()
}

// current reports whether a callback registered under generation still
// belongs to the bound room.
func (m *Model) current(generation uint64) bool {
	if m.room == nil || generation != m.generation {
		m.logger.Debug("dropping notification from superseded room binding",
			"generation", generation,
			"current", m.generation,
		)
		return false
	}
	return true
}

// roomSubscriber adapts room notifications to the model, tagged with
// the bind generation it was registered under.
type roomSubscriber struct {
	model      *Model
	generation uint64
}

func (s *roomSubscriber) AboutToAppend(count int) {
	s.model.aboutToInsert(s.generation, false, count)
}

func (s *roomSubscriber) AboutToPrepend(count int) {
	s.model.aboutToInsert(s.generation, true, count)
}

func (s *roomSubscriber) Added() {
	s.model.added(s.generation)
}

func (s *roomSubscriber) ReadMarkerMoved() {
	s.model.readMarkerMoved(s.generation)
}

func (s *roomSubscriber) Reset() {
	s.model.roomReset(s.generation)
}
