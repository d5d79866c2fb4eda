// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sequence

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduler turns a delay and the message to deliver into a command.
type Scheduler func(d time.Duration, msg tea.Msg) tea.Cmd

// TickScheduler delivers msg once after d using tea.Tick.
func TickScheduler(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return msg
	})
}
