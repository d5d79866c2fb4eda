// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/steptrail/internal/model"
	"github.com/jeranaias/steptrail/internal/ui/sequence"
)

// =============================================================================
// MESSAGE LIST VIEW
// =============================================================================

// MessageListView renders the transcript in arrival order inside a
// scrollable viewport. It owns one MessageView per message ID.
type MessageListView struct {
	viewport   viewport.Model
	transcript *model.Transcript
	views      map[string]*MessageView
	bySeq      map[int64]string
	opts       MessageViewOptions

	width  int
	height int
	follow bool

	// focus is the ID of the message holding the step cursor.
	focus string
}

// NewMessageListView creates an empty list.
func NewMessageListView(opts MessageViewOptions) *MessageListView {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()
	return &MessageListView{
		viewport:   vp,
		transcript: model.NewTranscript(),
		views:      make(map[string]*MessageView),
		bySeq:      make(map[int64]string),
		opts:       opts.withDefaults(),
		width:      80,
		height:     20,
		follow:     true,
	}
}

// SetSize resizes the viewport.
func (l *MessageListView) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.viewport.Width = width
	l.viewport.Height = height
	l.opts.Theme.SetSize(width, height)
}

// Len returns the number of messages.
func (l *MessageListView) Len() int {
	return l.transcript.Len()
}

// Messages returns the messages in display order.
func (l *MessageListView) Messages() []model.ChatMessage {
	return l.transcript.Messages()
}

// MessageView returns the view of one message.
func (l *MessageListView) MessageView(id string) (*MessageView, bool) {
	v, ok := l.views[id]
	return v, ok
}

// Upsert adds msg or replaces the message with the same ID.
func (l *MessageListView) Upsert(msg model.ChatMessage, now time.Time) tea.Cmd {
	_, evicted := l.transcript.Upsert(msg)
	for _, id := range evicted {
		l.dispose(id)
	}

	if v, ok := l.views[msg.ID]; ok {
		return v.SetMessage(msg, now)
	}
	v, cmd := NewMessageView(msg, l.opts, now)
	l.views[msg.ID] = v
	l.bySeq[v.Sequencer().ID()] = msg.ID
	return cmd
}

// Remove drops a message and disposes its view.
func (l *MessageListView) Remove(id string) bool {
	if !l.transcript.Remove(id) {
		return false
	}
	l.dispose(id)
	return true
}

// Clear removes every message.
func (l *MessageListView) Clear() {
	for _, id := range l.transcript.Clear() {
		l.dispose(id)
	}
}

func (l *MessageListView) dispose(id string) {
	v, ok := l.views[id]
	if !ok {
		return
	}
	v.Dispose()
	delete(l.bySeq, v.Sequencer().ID())
	delete(l.views, id)
	if l.focus == id {
		l.focus = ""
	}
}

// Remount restarts entrance animations according to the replay mode.
func (l *MessageListView) Remount(now time.Time) {
	l.opts.Tracker.Remount(now)
}

// RefreshBadges re-resolves integration badges of every message.
func (l *MessageListView) RefreshBadges() {
	for _, v := range l.views {
		v.RefreshBadges()
	}
}

// Update routes timer messages to their sequencer and mouse messages to
// the viewport. It reports whether the content changed.
func (l *MessageListView) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case sequence.TimerMsg:
		id, ok := l.bySeq[msg.SequencerID]
		if !ok {
			return nil, false
		}
		return nil, l.views[id].Update(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		l.viewport, cmd = l.viewport.Update(msg)
		l.follow = l.viewport.AtBottom()
		return cmd, false
	}
	return nil, false
}

// Animating reports whether any message needs animation frames at now.
func (l *MessageListView) Animating(now time.Time) bool {
	for _, v := range l.views {
		if v.Animating(now) {
			return true
		}
	}
	return false
}

// Render draws every message at now without the viewport.
func (l *MessageListView) Render(now time.Time, width int) string {
	content, _ := l.render(now, width)
	return content
}

// render also returns the first line of the focused message.
func (l *MessageListView) render(now time.Time, width int) (string, int) {
	var (
		b         strings.Builder
		line      int
		focusLine = -1
	)
	for i, msg := range l.transcript.Messages() {
		v := l.views[msg.ID]
		if i > 0 {
			b.WriteString("\n\n")
			line += 2
		}
		if msg.ID == l.focus {
			focusLine = line
		}
		out := v.View(now, width)
		b.WriteString(out)
		line += strings.Count(out, "\n")
	}
	return b.String(), focusLine
}

// Refresh re-renders the viewport content at now. The view follows the
// bottom unless the user scrolled up.
func (l *MessageListView) Refresh(now time.Time) {
	content, focusLine := l.render(now, l.width)
	l.viewport.SetContent(content)

	switch {
	case focusLine >= 0 && !l.lineVisible(focusLine):
		l.viewport.SetYOffset(focusLine)
		l.follow = l.viewport.AtBottom()
	case l.follow:
		l.viewport.GotoBottom()
	}
}

func (l *MessageListView) lineVisible(line int) bool {
	return line >= l.viewport.YOffset && line < l.viewport.YOffset+l.viewport.Height
}

// View returns the viewport.
func (l *MessageListView) View() string {
	return l.viewport.View()
}

// =============================================================================
// SCROLLING
// =============================================================================

// ScrollUp scrolls up n lines and stops following the bottom.
func (l *MessageListView) ScrollUp(n int) {
	l.viewport.LineUp(n)
	l.follow = l.viewport.AtBottom()
}

// ScrollDown scrolls down n lines; reaching the bottom resumes following.
func (l *MessageListView) ScrollDown(n int) {
	l.viewport.LineDown(n)
	l.follow = l.viewport.AtBottom()
}

// PageUp scrolls one page up.
func (l *MessageListView) PageUp() {
	l.ScrollUp(max(l.viewport.Height-1, 1))
}

// PageDown scrolls one page down.
func (l *MessageListView) PageDown() {
	l.ScrollDown(max(l.viewport.Height-1, 1))
}

// GotoTop jumps to the first message.
func (l *MessageListView) GotoTop() {
	l.viewport.GotoTop()
	l.follow = l.viewport.AtBottom()
}

// GotoBottom jumps to the latest content and resumes following.
func (l *MessageListView) GotoBottom() {
	l.viewport.GotoBottom()
	l.follow = true
}

// Following reports whether new content scrolls into view.
func (l *MessageListView) Following() bool {
	return l.follow
}

// =============================================================================
// STEP CURSOR
// =============================================================================

// focusable lists the IDs of messages that have steps.
func (l *MessageListView) focusable() []string {
	var ids []string
	for _, msg := range l.transcript.Messages() {
		if l.views[msg.ID].Focusable() {
			ids = append(ids, msg.ID)
		}
	}
	return ids
}

// MoveCursor moves the step cursor by delta, crossing message boundaries.
// The first move focuses the last step of the latest message.
func (l *MessageListView) MoveCursor(delta int) {
	ids := l.focusable()
	if len(ids) == 0 {
		return
	}

	pos := indexOf(ids, l.focus)
	if pos < 0 {
		l.setFocus(ids[len(ids)-1])
		l.views[l.focus].CursorToEnd(true)
		return
	}
	if l.views[l.focus].MoveCursor(delta) {
		return
	}

	next := pos + delta
	if next < 0 || next >= len(ids) {
		return
	}
	l.setFocus(ids[next])
	l.views[l.focus].CursorToEnd(delta < 0)
}

func (l *MessageListView) setFocus(id string) {
	if v, ok := l.views[l.focus]; ok {
		v.SetFocused(false)
	}
	l.focus = id
	if v, ok := l.views[id]; ok {
		v.SetFocused(true)
	}
}

// Focused returns the message view holding the cursor.
func (l *MessageListView) Focused() (*MessageView, bool) {
	v, ok := l.views[l.focus]
	return v, ok
}

// FocusedStep returns the step under the cursor.
func (l *MessageListView) FocusedStep() (model.Step, bool) {
	if v, ok := l.Focused(); ok {
		return v.FocusedStep()
	}
	return model.Step{}, false
}

// ToggleFocused opens or closes the step under the cursor.
func (l *MessageListView) ToggleFocused() {
	if v, ok := l.Focused(); ok {
		v.ToggleFocused()
	}
}

// ToggleAll opens or closes every step of the focused message, or of the
// latest message with steps when nothing is focused.
func (l *MessageListView) ToggleAll() {
	if v, ok := l.Focused(); ok {
		v.ToggleAll()
		return
	}
	if ids := l.focusable(); len(ids) > 0 {
		l.views[ids[len(ids)-1]].ToggleAll()
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
