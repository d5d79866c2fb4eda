// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jeranaias/steptrail/internal/integrations"
	"github.com/jeranaias/steptrail/internal/ui/styles"
	"github.com/jeranaias/steptrail/internal/util"
)

// Dock texts.
const (
	DockEmptyText  = "No apps connected"
	DockConnectCTA = "Connect App"
	DockTitle      = "Connected Apps"
	DockAddCTA     = "Add App"
)

// maxChipName is the widest app name drawn in a chip.
const maxChipName = 18

// =============================================================================
// DOCK MESSAGES
// =============================================================================

// AppClickMsg is sent when a connected app is activated.
type AppClickMsg struct {
	Connection integrations.Connection
}

// AppSettingsMsg is sent when a connected app's settings are requested.
type AppSettingsMsg struct {
	Connection integrations.Connection
}

// AddAppMsg is sent when the user asks to connect a new app.
type AddAppMsg struct{}

// DockKeyMap defines the dock's key bindings.
type DockKeyMap struct {
	Left     key.Binding
	Right    key.Binding
	Open     key.Binding
	Settings key.Binding
	Add      key.Binding
}

// DefaultDockKeyMap returns the default dock bindings.
func DefaultDockKeyMap() DockKeyMap {
	return DockKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "previous app"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next app"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "open app"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "app settings"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add app"),
		),
	}
}

// =============================================================================
// DOCK
// =============================================================================

// Dock is a horizontal bar of connected apps.
type Dock struct {
	theme   *styles.Theme
	keys    DockKeyMap
	conns   []integrations.Connection
	cursor  int
	focused bool
	width   int
}

// NewDock creates an empty dock.
func NewDock(theme *styles.Theme) *Dock {
	return &Dock{theme: theme, keys: DefaultDockKeyMap(), width: 80}
}

// SetConnections replaces the apps shown. Records without an integration
// are skipped.
func (d *Dock) SetConnections(conns []integrations.Connection) {
	d.conns = d.conns[:0]
	for _, c := range conns {
		if c.Integration != nil {
			d.conns = append(d.conns, c)
		}
	}
	if d.cursor >= len(d.conns) {
		d.cursor = max(len(d.conns)-1, 0)
	}
}

// Len returns the number of apps.
func (d *Dock) Len() int {
	return len(d.conns)
}

// SetWidth sets the render width.
func (d *Dock) SetWidth(width int) {
	d.width = width
}

// SetFocused gives the dock the keyboard.
func (d *Dock) SetFocused(focused bool) {
	d.focused = focused
}

// Focused reports whether the dock has the keyboard.
func (d *Dock) Focused() bool {
	return d.focused
}

// Update handles a key press while focused.
func (d *Dock) Update(msg tea.KeyMsg) tea.Cmd {
	if !d.focused {
		return nil
	}
	switch {
	case key.Matches(msg, d.keys.Left):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, d.keys.Right):
		if d.cursor < len(d.conns)-1 {
			d.cursor++
		}
	case key.Matches(msg, d.keys.Add):
		return emit(AddAppMsg{})
	case key.Matches(msg, d.keys.Open):
		if len(d.conns) == 0 {
			return emit(AddAppMsg{})
		}
		return emit(AppClickMsg{Connection: d.conns[d.cursor]})
	case key.Matches(msg, d.keys.Settings):
		if len(d.conns) > 0 {
			return emit(AppSettingsMsg{Connection: d.conns[d.cursor]})
		}
	}
	return nil
}

// View renders the dock at now.
func (d *Dock) View(now time.Time) string {
	t := d.theme
	inner := max(d.width-t.Dock.GetHorizontalFrameSize(), 10)

	if len(d.conns) == 0 {
		line := t.DockEmpty.Render(DockEmptyText) + "  " + t.DockAction.Render(DockConnectCTA)
		return t.Dock.Width(inner).Render(line)
	}

	count := fmt.Sprintf("%d apps", len(d.conns))
	if len(d.conns) == 1 {
		count = "1 app"
	}
	header := t.DockTitle.Render(DockTitle) + " " + t.DockCount.Render(count) +
		"  " + t.DockAction.Render(DockAddCTA)

	chips := make([]string, 0, len(d.conns))
	for i, c := range d.conns {
		chips = append(chips, d.chip(c, now, d.focused && i == d.cursor))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, chips...)
	if lipgloss.Width(row) > inner {
		row = wrapChips(chips, inner)
	}
	return t.Dock.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, header, row))
}

func (d *Dock) chip(c integrations.Connection, now time.Time, focused bool) string {
	t := d.theme
	in := c.Integration
	badge := Badge{Kind: BadgeLetter, Text: InitialLetter(in.Name), Name: in.Name}
	if isTextIcon(in.Icon) {
		badge = Badge{Kind: BadgeGlyph, Text: in.Icon, Name: in.Name}
	}

	name := util.TruncateWidth(in.Name, maxChipName)
	if name == "" {
		name = c.Key()
	}
	body := badge.Render(t, styles.RevealVisible) + " " + name
	if at := c.Connected(); !at.IsZero() {
		body += " " + t.DockTime.Render(humanize.RelTime(at, now, "ago", "from now"))
	}

	style := t.DockChip
	if focused {
		style = t.DockChipFocused
	}
	return style.Render(body)
}

// wrapChips lays chips out over as many lines as width requires.
func wrapChips(chips []string, width int) string {
	var (
		lines []string
		line  []string
		used  int
	)
	for _, c := range chips {
		w := lipgloss.Width(c)
		if used > 0 && used+w > width {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line, used = nil, 0
		}
		line = append(line, c)
		used += w
	}
	if len(line) > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}
	return strings.Join(lines, "\n")
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
