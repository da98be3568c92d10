// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/roomview/messaging"
)

// dispatchMsg carries a room mutation from the sync goroutine to the
// presentation goroutine.
type dispatchMsg struct {
	fn func()
}

// Sender is the part of *tea.Program a Dispatcher needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Dispatcher returns a messaging.Dispatcher that runs every function on
// program's goroutine, inside Model.Update. Pass it as
// SyncerConfig.Dispatch.
func Dispatcher(program Sender) messaging.Dispatcher {
	return func(fn func()) {
		program.Send(dispatchMsg{fn: fn})
	}
}
