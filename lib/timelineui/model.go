// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/roomview/lib/ref"
	"github.com/bureau-foundation/roomview/lib/timeline"
)

// History loads older events of a room. *messaging.Syncer implements
// it. FetchHistory delivers the events through the dispatcher, not
// through its return value.
type History interface {
	FetchHistory(ctx context.Context, roomID ref.RoomID) error
	HistoryExhausted(roomID ref.RoomID) bool
}

// Config holds the settings of a Model.
type Config struct {
	// Timeline is the model to display. Required.
	Timeline *timeline.Model

	// History loads older events when the top is reached. Nil
	// disables back-pagination.
	History History

	// Keys and Theme default to DefaultKeyMap and DefaultTheme.
	Keys  *KeyMap
	Theme *Theme

	// TimeFormat and DateFormat are Go time layouts for row timestamps
	// and day separators.
	TimeFormat string
	DateFormat string

	// RequestTimeout bounds one history request. Default: 30s.
	RequestTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

const (
	defaultTimeFormat     = "15:04"
	defaultDateFormat     = "Monday, 2 January 2006"
	defaultRequestTimeout = 30 * time.Second
)

// historyResultMsg reports the end of a history request. rowsBefore is
// the row count when the request was issued.
type historyResultMsg struct {
	roomID     ref.RoomID
	rowsBefore int
	err        error
}

// viewState is the scroll state shared by every copy of the bubbletea
// Model. It observes the timeline so that positions follow inserts.
type viewState struct {
	timeline *timeline.Model

	// cursor is the selected row, or -1 when the timeline is empty.
	cursor int
	// top is the first row drawn.
	top int
	// follow keeps the cursor on the newest row as rows are appended.
	follow bool
}

func (state *viewState) ModelAboutToBeReset() {}

func (state *viewState) ModelReset() {
	state.cursor = state.timeline.RowCount() - 1
	state.top = 0
	state.follow = true
}

func (state *viewState) RowsAboutToBeInserted(first, last int) {}

func (state *viewState) RowsInserted(first, last int) {
	count := last - first + 1
	previous := state.timeline.RowCount() - count
	if first == 0 && previous > 0 {
		// Prepend: keep the same rows selected and on screen.
		state.cursor += count
		state.top += count
		return
	}
	if state.follow || state.cursor < 0 {
		state.cursor = state.timeline.RowCount() - 1
	}
}

func (state *viewState) ReadMarkerIndexChanged(index int) {}

func (state *viewState) LastShownIndexChanged(index int) {}

// Model is the bubbletea model of the timeline view.
type Model struct {
	timeline *timeline.Model
	history  History
	keys     KeyMap
	theme    Theme
	logger   *slog.Logger

	timeFormat     string
	dateFormat     string
	requestTimeout time.Duration

	state          *viewState
	removeObserver func()

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	fetching   bool
	showSource bool

	// Status-bar log record and the sequence number of its fade.
	status      string
	statusLevel slog.Level
	statusSeq   int
}

// NewModel creates the view and registers it as an observer of
// config.Timeline. Call Close when the program has exited.
func NewModel(config Config) (Model, error) {
	if config.Timeline == nil {
		return Model{}, errors.New("timelineui: Timeline is required")
	}
	model := Model{
		timeline:       config.Timeline,
		history:        config.History,
		keys:           DefaultKeyMap,
		theme:          DefaultTheme,
		timeFormat:     config.TimeFormat,
		dateFormat:     config.DateFormat,
		requestTimeout: config.RequestTimeout,
		logger:         config.Logger,
	}
	if model.logger == nil {
		model.logger = slog.Default()
	}
	if config.Keys != nil {
		model.keys = *config.Keys
	}
	if config.Theme != nil {
		model.theme = *config.Theme
	}
	if model.timeFormat == "" {
		model.timeFormat = defaultTimeFormat
	}
	if model.dateFormat == "" {
		model.dateFormat = defaultDateFormat
	}
	if model.requestTimeout <= 0 {
		model.requestTimeout = defaultRequestTimeout
	}

	model.state = &viewState{timeline: config.Timeline}
	model.state.ModelReset()
	model.removeObserver = config.Timeline.AddObserver(model.state)
	return model, nil
}

// Close stops observing the timeline.
func (model Model) Close() {
	model.removeObserver()
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return tea.SetWindowTitle("roomview: " + model.roomTitle())
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case dispatchMsg:
		message.fn()
		cmd := model.settle(true)
		return model, cmd

	case historyResultMsg:
		model.fetching = false
		if message.err != nil {
			model.logger.Warn("loading history failed", "room_id", message.roomID, "error", message.err)
			cmd := model.settle(false)
			return model, cmd
		}
		// Keep paging while the screen is not full and the last page
		// added rows.
		grew := model.timeline.RowCount() > message.rowsBefore
		cmd := model.settle(grew)
		return model, cmd

	case logRecordMsg:
		model.status = message.Summary
		model.statusLevel = message.Level
		model.statusSeq++
		seq := model.statusSeq
		return model, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{seq: seq}
		})

	case logRecordFadeMsg:
		if message.seq == model.statusSeq {
			model.status = ""
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		cmd := model.settle(true)
		return model, cmd

	case tea.KeyMsg:
		return model.handleKey(message)

	case tea.MouseMsg:
		switch message.Button {
		case tea.MouseButtonWheelUp:
			return model.moveCursor(-3)
		case tea.MouseButtonWheelDown:
			return model.moveCursor(3)
		}
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := max(model.bodyHeight()-1, 1)

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		return model.moveCursor(-1)

	case key.Matches(message, model.keys.Down):
		return model.moveCursor(1)

	case key.Matches(message, model.keys.PageUp):
		return model.moveCursor(-page)

	case key.Matches(message, model.keys.PageDown):
		return model.moveCursor(page)

	case key.Matches(message, model.keys.Home):
		return model.moveCursor(-model.timeline.RowCount())

	case key.Matches(message, model.keys.End):
		return model.moveCursor(model.timeline.RowCount())

	case key.Matches(message, model.keys.MarkRead):
		model.timeline.MarkShownAsRead()

	case key.Matches(message, model.keys.JumpMarker):
		if index := model.timeline.ReadMarkerIndex(); index >= 0 {
			model.state.cursor = index
			model.state.follow = index == model.timeline.RowCount()-1
			cmd := model.settle(false)
			return model, cmd
		}

	case key.Matches(message, model.keys.ToggleSource):
		model.showSource = !model.showSource
		cmd := model.settle(false)
		return model, cmd
	}
	return model, nil
}

// moveCursor moves the selection by delta rows, clamped to the
// timeline. Reaching the top row requests older history.
func (model Model) moveCursor(delta int) (tea.Model, tea.Cmd) {
	count := model.timeline.RowCount()
	if count == 0 {
		cmd := model.settle(false)
		return model, cmd
	}
	cursor := min(max(model.state.cursor+delta, 0), count-1)
	model.state.cursor = cursor
	model.state.follow = cursor == count-1

	model.settle(false)
	if cursor != 0 {
		return model, nil
	}
	cmd := model.requestHistory()
	if cmd != nil {
		model.fetching = true
	}
	return model, cmd
}

// settle brings the selection into view, reports the last fully
// visible row to the timeline, and, when fill is set and the rows do
// not fill the screen, requests older history. It must run after every
// change to the rows, the cursor or the terminal size.
func (model *Model) settle(fill bool) tea.Cmd {
	if !model.ready {
		return nil
	}
	model.scrollToCursor()
	first, last, filled := model.visibleRows()
	if last >= first {
		model.timeline.SetLastShownIndex(last)
	}
	if !fill || filled {
		return nil
	}
	cmd := model.requestHistory()
	if cmd != nil {
		model.fetching = true
	}
	return cmd
}

// requestHistory returns a command that fetches one page of older
// events, or nil when no request should be made.
func (model Model) requestHistory() tea.Cmd {
	room := model.timeline.Room()
	if model.history == nil || room == nil || model.fetching {
		return nil
	}
	roomID := room.ID()
	if model.history.HistoryExhausted(roomID) {
		return nil
	}
	history := model.history
	timeout := model.requestTimeout
	rowsBefore := model.timeline.RowCount()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := history.FetchHistory(ctx, roomID)
		return historyResultMsg{roomID: roomID, rowsBefore: rowsBefore, err: err}
	}
}

// bodyHeight is the number of lines available for rows: everything
// except the header and the status bar.
func (model Model) bodyHeight() int {
	return max(model.height-2, 1)
}

// contentWidth is the width left for rows beside the scrollbar.
func (model Model) contentWidth() int {
	return max(model.width-1, 1)
}

// scrollToCursor adjusts the first drawn row so that the cursor row is
// fully visible and, when the rows below it are short, the screen is
// filled from the bottom.
func (model Model) scrollToCursor() {
	state := model.state
	count := model.timeline.RowCount()
	if count == 0 || state.cursor < 0 {
		state.top = 0
		return
	}
	state.top = min(max(state.top, 0), count-1)
	if state.cursor < state.top {
		state.top = state.cursor
	}

	height := model.bodyHeight()
	used := 0
	for row := state.top; row <= state.cursor; row++ {
		used += len(model.rowLines(row))
	}
	for state.top < state.cursor && used > height {
		used -= len(model.rowLines(state.top))
		state.top++
	}

	// Pull earlier rows in while everything from top to the end fits.
	for row := state.cursor + 1; row < count && used <= height; row++ {
		used += len(model.rowLines(row))
	}
	for state.top > 0 {
		above := len(model.rowLines(state.top - 1))
		if used+above > height {
			break
		}
		used += above
		state.top--
	}
}

// visibleRows returns the first drawn row, the last fully drawn row,
// and whether the rows fill the body.
func (model Model) visibleRows() (first, last int, filled bool) {
	height := model.bodyHeight()
	count := model.timeline.RowCount()
	first = model.state.top
	last = first - 1
	used := 0
	for row := first; row < count; row++ {
		lines := len(model.rowLines(row))
		if used+lines > height {
			return first, last, true
		}
		used += lines
		last = row
	}
	return first, last, used >= height
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	sections := []string{model.renderHeader()}

	height := model.bodyHeight()
	var body []string
	if model.timeline.RowCount() == 0 {
		body = append(body, lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(model.emptyText()))
	}
	for row := model.state.top; row < model.timeline.RowCount() && len(body) < height; row++ {
		body = append(body, model.rowLines(row)...)
	}
	if len(body) > height {
		body = body[:height]
	}
	for len(body) < height {
		body = append(body, "")
	}
	first, last, _ := model.visibleRows()
	scrollbar := renderScrollbar(model.theme, height, model.timeline.RowCount(), max(last-first+1, 0), first)
	for index, line := range body {
		body[index] = padLine(line, model.contentWidth()) + scrollbar[index]
	}
	sections = append(sections, body...)
	sections = append(sections, model.renderStatus())
	return strings.Join(sections, "\n")
}

func (model Model) emptyText() string {
	if model.timeline.Room() == nil {
		return "No room selected."
	}
	if model.fetching {
		return "Loading history..."
	}
	return "No events yet."
}

// roomTitle is the room's name when it has one, else its ID.
func (model Model) roomTitle() string {
	room := model.timeline.Room()
	if room == nil {
		return "no room"
	}
	if named, ok := room.(interface{ Name() string }); ok && named.Name() != "" {
		return named.Name()
	}
	return room.ID().String()
}

func (model Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true).Render(model.roomTitle())
	if room, ok := model.timeline.Room().(interface{ Topic() string }); ok && room.Topic() != "" {
		title += lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(" · " + singleLine(room.Topic()))
	}
	return ansi.Truncate(title, model.width, "…")
}

func (model Model) renderStatus() string {
	if model.status != "" {
		color := model.theme.WarnText
		if model.statusLevel >= slog.LevelError {
			color = model.theme.ErrorText
		}
		return ansi.Truncate(lipgloss.NewStyle().Foreground(color).Render(model.status), model.width, "…")
	}

	var indicators []string
	if model.timeline.AwaitingMarkAsRead() {
		indicators = append(indicators, lipgloss.NewStyle().Foreground(model.theme.ReadMarker).Render("● unread"))
	}
	if model.fetching {
		indicators = append(indicators, "loading history…")
	} else if room := model.timeline.Room(); room != nil && model.history != nil &&
		model.state.top == 0 && model.history.HistoryExhausted(room.ID()) {
		indicators = append(indicators, "start of room")
	}

	bindings := []key.Binding{
		model.keys.Up, model.keys.Down, model.keys.Home, model.keys.End,
		model.keys.MarkRead, model.keys.JumpMarker, model.keys.ToggleSource, model.keys.Quit,
	}
	var help []string
	for _, binding := range bindings {
		help = append(help, binding.Help().Key+" "+binding.Help().Desc)
	}

	helpStyle := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	line := strings.Join(indicators, "  ")
	if line != "" {
		line += "  "
	}
	line += helpStyle.Render(strings.Join(help, " · "))
	return ansi.Truncate(line, model.width, "…")
}
