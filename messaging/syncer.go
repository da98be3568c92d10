// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bureau-foundation/roomview/lib/clock"
	"github.com/bureau-foundation/roomview/lib/ref"
	"github.com/bureau-foundation/roomview/lib/schema"
)

// Dispatcher runs fn on the goroutine that owns the rooms. In the
// terminal UI this is tea.Program.Send wrapping fn in a message; in
// tests it is usually a direct call.
type Dispatcher func(fn func())

// Syncer defaults.
const (
	DefaultTimelineLimit   = 50
	DefaultHistoryPageSize = 50
	DefaultPollTimeout     = 30 * time.Second
	DefaultErrorPause      = 5 * time.Second
	DefaultRequestTimeout  = 30 * time.Second
)

// SyncerConfig holds configuration for a Syncer.
type SyncerConfig struct {
	// Session is the authenticated Matrix session. Required.
	Session Session

	// Dispatch runs room mutations on the owning goroutine. Required.
	Dispatch Dispatcher

	// Clock paces the pause after a failed sync. Defaults to the real
	// clock.
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// TimelineLimit is the number of timeline events requested per room
	// in each sync.
	TimelineLimit int

	// HistoryPageSize is the number of events requested per
	// FetchHistory call.
	HistoryPageSize int

	// PollTimeout is the /sync long-poll duration after the initial
	// sync.
	PollTimeout time.Duration

	// ErrorPause is the wait between a failed sync and the next one.
	ErrorPause time.Duration

	// RequestTimeout bounds fire-and-forget requests (read markers).
	RequestTimeout time.Duration
}

// historyState is the backward pagination cursor of one room.
type historyState struct {
	token     string
	fetching  bool
	exhausted bool
	// resets counts timeline resets. A page fetched across a reset
	// belongs to the discarded events and is dropped.
	resets int
}

// Syncer drives /sync for a session and feeds the results into Room
// stores. Network I/O runs on the caller's goroutine (usually one
// started for Run); every Room mutation goes through Dispatch.
type Syncer struct {
	session  Session
	dispatch Dispatcher
	clock    clock.Clock
	logger   *slog.Logger
	config   SyncerConfig
	filter   string

	mu        sync.Mutex
	nextBatch string
	rooms     map[ref.RoomID]*Room
	history   map[ref.RoomID]*historyState

	// requests tracks in-flight read-marker requests.
	requests sync.WaitGroup
}

// NewSyncer creates a Syncer.
func NewSyncer(config SyncerConfig) (*Syncer, error) {
	if config.Session == nil {
		return nil, fmt.Errorf("messaging: SyncerConfig.Session is required")
	}
	if config.Dispatch == nil {
		return nil, fmt.Errorf("messaging: SyncerConfig.Dispatch is required")
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.TimelineLimit <= 0 {
		config.TimelineLimit = DefaultTimelineLimit
	}
	if config.HistoryPageSize <= 0 {
		config.HistoryPageSize = DefaultHistoryPageSize
	}
	if config.PollTimeout <= 0 {
		config.PollTimeout = DefaultPollTimeout
	}
	if config.ErrorPause <= 0 {
		config.ErrorPause = DefaultErrorPause
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}

	filter, err := buildSyncFilter(config.TimelineLimit)
	if err != nil {
		return nil, err
	}

	return &Syncer{
		session:  config.Session,
		dispatch: config.Dispatch,
		clock:    config.Clock,
		logger:   config.Logger,
		config:   config,
		filter:   filter,
		rooms:    make(map[ref.RoomID]*Room),
		history:  make(map[ref.RoomID]*historyState),
	}, nil
}

// buildSyncFilter returns the inline /sync filter: no presence, no
// global account data, only m.fully_read from room account data, and
// lazy-loaded members.
func buildSyncFilter(timelineLimit int) (string, error) {
	type eventFilter struct {
		Types []string `json:"types"`
	}
	type roomEventFilter struct {
		Limit           int  `json:"limit,omitempty"`
		LazyLoadMembers bool `json:"lazy_load_members"`
	}
	type roomFilter struct {
		Timeline    roomEventFilter `json:"timeline"`
		State       roomEventFilter `json:"state"`
		AccountData eventFilter     `json:"account_data"`
	}
	filter := struct {
		Presence    eventFilter `json:"presence"`
		AccountData eventFilter `json:"account_data"`
		Room        roomFilter  `json:"room"`
	}{
		// An empty type list excludes every event of the section.
		Presence:    eventFilter{Types: []string{}},
		AccountData: eventFilter{Types: []string{}},
		Room: roomFilter{
			Timeline:    roomEventFilter{Limit: timelineLimit, LazyLoadMembers: true},
			State:       roomEventFilter{LazyLoadMembers: true},
			AccountData: eventFilter{Types: []string{string(schema.EventTypeFullyRead)}},
		},
	}
	encoded, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("messaging: encoding sync filter: %w", err)
	}
	return string(encoded), nil
}

// Room returns the store for roomID, creating an empty one if the room
// has not been seen in a sync yet.
func (s *Syncer) Room(roomID ref.RoomID) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomLocked(roomID)
}

func (s *Syncer) roomLocked(roomID ref.RoomID) *Room {
	room, ok := s.rooms[roomID]
	if ok {
		return room
	}
	room = NewRoom(roomID, s.session.UserID(), s.logger)
	room.requestReadMarker = func(eventID ref.EventID) {
		s.requestReadMarker(roomID, eventID)
	}
	s.rooms[roomID] = room
	s.history[roomID] = &historyState{}
	return room
}

// Rooms returns the IDs of all known rooms, sorted.
func (s *Syncer) Rooms() []ref.RoomID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]ref.RoomID, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b ref.RoomID) int {
		return strings.Compare(a.String(), b.String())
	})
	return ids
}

// SyncOnce performs one /sync round trip and dispatches the results.
// The first call is an initial sync (no timeout); later calls
// long-poll for PollTimeout.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	s.mu.Lock()
	since := s.nextBatch
	s.mu.Unlock()

	options := SyncOptions{Since: since, Filter: s.filter}
	if since != "" {
		options.SetTimeout = true
		options.Timeout = int(s.config.PollTimeout.Milliseconds())
	}

	response, err := s.session.Sync(ctx, options)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.nextBatch = response.NextBatch
	type update struct {
		room   *Room
		joined JoinedRoom
		reset  bool
	}
	updates := make([]update, 0, len(response.Rooms.Join))
	for roomID, joined := range response.Rooms.Join {
		room := s.roomLocked(roomID)
		state := s.history[roomID]
		// A limited timeline after the initial sync leaves a gap behind
		// the stored events. History restarts from the new batch.
		reset := joined.Timeline.Limited && since != ""
		if reset {
			state.token = joined.Timeline.PrevBatch
			state.exhausted = false
			state.resets++
		} else if state.token == "" && !state.exhausted {
			state.token = joined.Timeline.PrevBatch
		}
		updates = append(updates, update{room: room, joined: joined, reset: reset})
	}
	s.mu.Unlock()

	for _, entry := range updates {
		room, joined := entry.room, entry.joined
		if entry.reset {
			s.logger.Info("sync timeline was limited; restarting the room timeline",
				"room_id", room.ID(),
				"events", len(joined.Timeline.Events),
			)
		}
		s.dispatch(func() {
			room.ApplyState(joined.State.Events)
			if entry.reset {
				room.ResetTimeline(joined.Timeline.Events)
			} else {
				room.AddLiveEvents(joined.Timeline.Events)
			}
			room.ApplyAccountData(joined.AccountData.Events)
		})
	}
	return nil
}

// Run syncs until ctx is cancelled. Failed syncs are logged, idle
// connections are dropped and the next attempt waits ErrorPause.
// Returns ctx.Err() on cancellation.
func (s *Syncer) Run(ctx context.Context) error {
	for {
		err := s.SyncOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			continue
		}

		s.logger.Warn("sync failed",
			"error", err,
			"retry_in", s.config.ErrorPause,
		)
		if closer, ok := s.session.(interface{ CloseIdleConnections() }); ok {
			closer.CloseIdleConnections()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(s.config.ErrorPause):
		}
	}
}

// FetchHistory requests one page of events older than the oldest the
// room holds and dispatches them as a prepend. It returns nil without
// a request when a fetch for the room is already running, when the
// start of the room has been reached, or before the room has been
// synced.
func (s *Syncer) FetchHistory(ctx context.Context, roomID ref.RoomID) error {
	s.mu.Lock()
	room := s.roomLocked(roomID)
	state := s.history[roomID]
	if state.fetching || state.exhausted || state.token == "" {
		s.mu.Unlock()
		return nil
	}
	state.fetching = true
	from := state.token
	resets := state.resets
	s.mu.Unlock()

	response, err := s.session.RoomMessages(ctx, roomID, RoomMessagesOptions{
		From:      from,
		Direction: "b",
		Limit:     s.config.HistoryPageSize,
	})

	s.mu.Lock()
	state.fetching = false
	stale := state.resets != resets
	if err == nil && !stale {
		state.token = response.End
		if response.End == "" || response.End == from || len(response.Chunk) == 0 {
			state.exhausted = true
		}
	}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("messaging: fetching history for %s: %w", roomID, err)
	}
	if stale {
		s.logger.Debug("dropping history page fetched before a timeline reset",
			"room_id", roomID,
		)
		return nil
	}

	s.dispatch(func() {
		room.applyHistoricalState(response.State)
		room.AddHistoricalEvents(response.Chunk)
	})
	return nil
}

// HistoryExhausted reports whether FetchHistory has reached the start
// of the room.
func (s *Syncer) HistoryExhausted(roomID ref.RoomID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.history[roomID]
	return ok && state.exhausted
}

// LoadMembers fetches the full member list of a room and dispatches it
// into the room's name table. Needed because the sync filter lazy-loads
// members.
func (s *Syncer) LoadMembers(ctx context.Context, roomID ref.RoomID) error {
	members, err := s.session.GetRoomMembers(ctx, roomID)
	if err != nil {
		return fmt.Errorf("messaging: loading members of %s: %w", roomID, err)
	}
	room := s.Room(roomID)
	s.dispatch(func() {
		room.ApplyMembers(members)
	})
	return nil
}

// requestReadMarker moves the server-side read marker in the
// background. Errors are logged; the local marker follows the server's
// m.fully_read echo.
func (s *Syncer) requestReadMarker(roomID ref.RoomID, eventID ref.EventID) {
	s.requests.Add(1)
	go func() {
		defer s.requests.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.config.RequestTimeout)
		defer cancel()

		err := s.session.SetReadMarkers(ctx, roomID, schema.ReadMarkersRequest{
			FullyRead: eventID,
			Read:      &eventID,
		})
		if err != nil {
			s.logger.Warn("setting read marker failed",
				"room_id", roomID,
				"event_id", eventID,
				"error", err,
			)
			return
		}
		s.logger.Debug("read marker requested",
			"room_id", roomID,
			"event_id", eventID,
		)
	}()
}

// Wait blocks until in-flight read-marker requests have finished.
func (s *Syncer) Wait() {
	s.requests.Wait()
}
