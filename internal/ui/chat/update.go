// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/steptrail/internal/feed"
	"github.com/jeranaias/steptrail/internal/logging"
	"github.com/jeranaias/steptrail/internal/ui/components"
	"github.com/jeranaias/steptrail/internal/ui/sequence"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages and updates the model accordingly.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dock.SetWidth(msg.Width)
		// A resize remounts the list; index replay restarts entrances.
		m.list.Remount(m.now())
		m.layout()

	case feed.FrameMsg:
		cmds = append(cmds, m.applyFrame(msg))

	case feed.DoneMsg:
		m.feedDone = true
		m.feedErr = msg.Err
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			logging.WithError(msg.Err).Warn("transcript feed stopped")
			m.setStatus("feed stopped: "+msg.Err.Error(), true)
		}

	case sequence.TimerMsg:
		if _, changed := m.list.Update(msg); changed {
			m.list.Refresh(m.now())
		}

	case AnimationTickMsg:
		if msg.Gen != m.tickGen {
			return m, nil
		}
		m.ticking = false
		m.list.Refresh(m.now())

	case ConnectionsLoadedMsg:
		if msg.Err != nil {
			logging.WithError(msg.Err).Warn("load connected apps")
		}
		m.dock.SetConnections(msg.Connections)
		m.list.RefreshBadges()
		m.layout()

	case StoreChangedMsg:
		logging.Debug("integration store changed; reloading")
		cmds = append(cmds, m.loadConnections(), m.waitForChange())

	case CopyCompleteMsg:
		if msg.Err != nil {
			m.setStatus("copy failed: "+msg.Err.Error(), true)
		} else {
			m.setStatus("copied step "+msg.StepID, false)
		}

	case components.AppClickMsg:
		logging.WithField("app", msg.Connection.Key()).Info("app selected")
	case components.AppSettingsMsg:
		logging.WithField("app", msg.Connection.Key()).Info("app settings requested")
	case components.AddAppMsg:
		logging.Info("connect app requested")

	case tea.MouseMsg:
		cmd, _ := m.list.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.startTicking())
	return m, tea.Batch(cmds...)
}

// applyFrame removes then upserts the frame's messages.
func (m *Model) applyFrame(msg feed.FrameMsg) tea.Cmd {
	now := m.now()
	for _, id := range msg.Remove {
		m.list.Remove(id)
	}
	cmds := make([]tea.Cmd, 0, len(msg.Messages))
	for _, cm := range msg.Messages {
		cmds = append(cmds, m.list.Upsert(cm, now))
	}
	m.frames++
	m.metrics.RecordFrame(msg.Skipped)
	m.list.Refresh(now)
	return tea.Batch(cmds...)
}

// layout sizes the list to the space left by the dock and status bar.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	reserved := lipgloss.Height(m.dock.View(m.now())) + 1
	m.list.SetSize(m.width, max(m.height-reserved, 1))
	m.list.Refresh(m.now())
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.dock.Focused() {
		if key.Matches(msg, m.keys.Apps) || msg.String() == "esc" {
			m.dock.SetFocused(false)
			m.layout()
			return m, nil
		}
		cmd := m.dock.Update(msg)
		m.layout()
		return m, cmd
	}

	now := m.now()
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keys.StepUp):
		m.list.MoveCursor(-1)
		m.list.Refresh(now)

	case key.Matches(msg, m.keys.StepDown):
		m.list.MoveCursor(1)
		m.list.Refresh(now)

	case key.Matches(msg, m.keys.Toggle):
		m.list.ToggleFocused()
		m.list.Refresh(now)

	case key.Matches(msg, m.keys.ToggleAll):
		m.list.ToggleAll()
		m.list.Refresh(now)

	case key.Matches(msg, m.keys.Copy):
		step, ok := m.list.FocusedStep()
		if !ok {
			m.setStatus("no step selected", true)
			return m, nil
		}
		return m, m.copyStep(step.ID, step.Content)

	case key.Matches(msg, m.keys.ScrollUp):
		m.list.ScrollUp(1)
	case key.Matches(msg, m.keys.ScrollDown):
		m.list.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.list.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.list.PageDown()
	case key.Matches(msg, m.keys.Home):
		m.list.GotoTop()
	case key.Matches(msg, m.keys.End):
		m.list.GotoBottom()

	case key.Matches(msg, m.keys.Replay):
		m.list.Remount(now)
		m.list.Refresh(now)

	case key.Matches(msg, m.keys.Apps):
		m.dock.SetFocused(true)
		m.setStatus(fmt.Sprintf("%d connected apps", m.dock.Len()), false)
		m.layout()
	}
	return m, nil
}
