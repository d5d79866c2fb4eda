// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/steptrail/internal/util"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the message list, the dock and the status bar.
// Layout: messages (viewport) + dock + status (1 line). The viewport height
// is set in layout() from the dock's measured height.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	now := m.now()
	return lipgloss.JoinVertical(lipgloss.Left,
		m.list.View(),
		m.dock.View(now),
		m.renderStatusBar(),
	)
}

// Snapshot renders every message and the dock at now, without the
// viewport. Used for one-shot output.
func (m Model) Snapshot(now time.Time, width int) string {
	m.dock.SetWidth(width)
	return m.list.Render(now, width) + "\n\n" + m.dock.View(now)
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatusBar() string {
	t := m.theme

	left := fmt.Sprintf("%d messages", m.list.Len())
	switch {
	case m.status != "":
		if m.statusErr {
			left += "  " + t.ErrorText.Render(m.status)
		} else {
			left += "  " + m.status
		}
	case m.feedDone:
		left += "  replay finished"
	case m.frames > 0:
		left += fmt.Sprintf("  frame %d", m.frames)
	}
	if !m.list.Following() {
		left += "  [scrolled]"
	}

	var hints []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, t.ShortcutKey.Render(h.Key)+" "+t.ShortcutDesc.Render(h.Desc))
	}
	right := strings.Join(hints, "  ")

	inner := max(m.width-t.StatusBar.GetHorizontalFrameSize(), 1)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	line := left + strings.Repeat(" ", max(gap, 1)) + right
	if gap < 1 {
		line = util.TruncateWidth(left, inner)
	}
	return t.StatusBar.Width(inner).Render(line)
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

func (m Model) renderHelp() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.StepsHeader.Render("Keyboard shortcuts"))
	b.WriteString("\n")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(t.ShortcutKey.Render(util.PadRight(h.Key, 12)))
			b.WriteString(t.ShortcutDesc.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(t.ShortcutDesc.Render("Dock: left/right select, enter open, s settings, a add, esc back"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
