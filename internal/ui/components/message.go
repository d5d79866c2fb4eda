// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/steptrail/internal/markdown"
	"github.com/jeranaias/steptrail/internal/model"
	"github.com/jeranaias/steptrail/internal/ui/sequence"
	"github.com/jeranaias/steptrail/internal/ui/styles"
)

// =============================================================================
// MESSAGE VIEW
// =============================================================================

// MessageViewOptions holds the collaborators shared by every message view.
type MessageViewOptions struct {
	Theme    *styles.Theme
	Renderer markdown.ContentRenderer
	Icons    IconSource
	Tracker  *RevealTracker
	Stagger  time.Duration
	Sequence sequence.Options
}

func (o MessageViewOptions) withDefaults() MessageViewOptions {
	if o.Theme == nil {
		o.Theme = styles.NewTheme()
	}
	if o.Renderer == nil {
		o.Renderer = markdown.NewTerminalRenderer()
	}
	if o.Tracker == nil {
		o.Tracker = NewRevealTracker(ReplayIndex)
	}
	return o
}

// MessageView renders one chat message and owns its completion sequencer
// and step expansion state.
type MessageView struct {
	msg  model.ChatMessage
	opts MessageViewOptions
	seq  *sequence.Sequencer

	// expanded holds step IDs; it survives step replacement by ID.
	expanded map[string]bool
	badges   map[string]Badge
	cursor   int
	focused  bool
}

// NewMessageView creates a view for msg first seen at now. The returned
// command carries any completion timers.
func NewMessageView(msg model.ChatMessage, opts MessageViewOptions, now time.Time) (*MessageView, tea.Cmd) {
	opts = opts.withDefaults()
	v := &MessageView{
		opts:     opts,
		seq:      sequence.New(opts.Sequence),
		expanded: make(map[string]bool),
		badges:   make(map[string]Badge),
	}
	return v, v.SetMessage(msg, now)
}

// ID returns the message ID.
func (v *MessageView) ID() string {
	return v.msg.ID
}

// Message returns the message being shown.
func (v *MessageView) Message() model.ChatMessage {
	return v.msg
}

// Sequencer exposes the completion sequencer.
func (v *MessageView) Sequencer() *sequence.Sequencer {
	return v.seq
}

// SetMessage replaces the message with its latest version. Badges are
// resolved and new steps get their epoch here, not per frame.
func (v *MessageView) SetMessage(msg model.ChatMessage, now time.Time) tea.Cmd {
	v.msg = msg
	if msg.IsUser() {
		return nil
	}

	v.RefreshBadges()
	for _, st := range msg.Steps {
		v.opts.Tracker.Epoch(msg.ID, st.ID, now)
	}

	if n := len(msg.Steps); v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
	return v.seq.Observe(msg.IsLoading, msg.HasSteps())
}

// RefreshBadges re-resolves every step's integration badge. Call it when
// the integration store changes.
func (v *MessageView) RefreshBadges() {
	badges := make(map[string]Badge, len(v.msg.Steps))
	for _, st := range v.msg.Steps {
		badges[st.ID] = ResolveBadge(v.opts.Icons, st.IntegrationID)
	}
	v.badges = badges
}

// Update routes a sequencer timer message. It reports whether the view
// changed.
func (v *MessageView) Update(msg tea.Msg) bool {
	return v.seq.Update(msg)
}

// Directive returns the sequencer's current indicator.
func (v *MessageView) Directive() sequence.Directive {
	if v.msg.IsUser() {
		return sequence.DirectiveNone
	}
	return v.seq.Directive()
}

// Dispose cancels the message's completion timers.
func (v *MessageView) Dispose() {
	v.seq.Dispose()
	v.opts.Tracker.Forget(v.msg.ID)
}

// Animating reports whether the view needs animation frames at now.
func (v *MessageView) Animating(now time.Time) bool {
	if v.msg.IsUser() {
		return false
	}
	if v.seq.Phase() == sequence.PhaseLoading {
		return true
	}
	for i := range v.msg.Steps {
		sv := v.stepView(i, now)
		if !sv.Settled(now) || (sv.Visible(now) && ResolveStatusIcon(sv.Step.Status).Pulses()) {
			return true
		}
	}
	return false
}

// =============================================================================
// EXPANSION AND FOCUS
// =============================================================================

// SetFocused marks the view as holding the step cursor.
func (v *MessageView) SetFocused(focused bool) {
	v.focused = focused
}

// Focusable reports whether the view has steps to focus.
func (v *MessageView) Focusable() bool {
	return !v.msg.IsUser() && v.msg.HasSteps()
}

// MoveCursor moves the step cursor by delta. It reports false when the
// cursor would leave the step list, leaving the cursor unchanged.
func (v *MessageView) MoveCursor(delta int) bool {
	next := v.cursor + delta
	if next < 0 || next >= len(v.msg.Steps) {
		return false
	}
	v.cursor = next
	return true
}

// CursorToEnd puts the cursor on the first or last step.
func (v *MessageView) CursorToEnd(last bool) {
	if last && len(v.msg.Steps) > 0 {
		v.cursor = len(v.msg.Steps) - 1
		return
	}
	v.cursor = 0
}

// FocusedStep returns the step under the cursor.
func (v *MessageView) FocusedStep() (model.Step, bool) {
	if v.cursor < 0 || v.cursor >= len(v.msg.Steps) {
		return model.Step{}, false
	}
	return v.msg.Steps[v.cursor], true
}

// Toggle flips the expansion of a step.
func (v *MessageView) Toggle(stepID string) {
	if v.expanded[stepID] {
		delete(v.expanded, stepID)
		return
	}
	v.expanded[stepID] = true
}

// ToggleFocused flips the expansion of the step under the cursor.
func (v *MessageView) ToggleFocused() {
	if st, ok := v.FocusedStep(); ok {
		v.Toggle(st.ID)
	}
}

// ToggleAll expands every step, or collapses them all when every step is
// already expanded.
func (v *MessageView) ToggleAll() {
	all := len(v.msg.Steps) > 0
	for _, st := range v.msg.Steps {
		if !v.expanded[st.ID] {
			all = false
			break
		}
	}
	if all {
		clear(v.expanded)
		return
	}
	for _, st := range v.msg.Steps {
		v.expanded[st.ID] = true
	}
}

// IsExpanded reports whether a step's detail panel is open.
func (v *MessageView) IsExpanded(stepID string) bool {
	return v.expanded[stepID]
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the message at now.
func (v *MessageView) View(now time.Time, width int) string {
	if v.msg.IsUser() {
		return v.renderUser(width)
	}
	return v.renderAssistant(now, width)
}

// renderUser draws a right-aligned bubble with the content only.
func (v *MessageView) renderUser(width int) string {
	t := v.opts.Theme
	bubbleWidth := max(min(t.BubbleWidth(), width), 10)
	if t.Width == 0 {
		bubbleWidth = max(width*2/3, 10)
	}
	inner := bubbleWidth - t.UserBubble.GetHorizontalFrameSize()

	content := strings.TrimRight(v.opts.Renderer.RenderContent(v.msg.Content, inner), "\n")
	if lipgloss.Width(content) < inner {
		inner = lipgloss.Width(content)
	}
	bubble := t.UserBubble.Width(inner + t.UserBubble.GetHorizontalPadding()).Render(content)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
}

func (v *MessageView) renderAssistant(now time.Time, width int) string {
	t := v.opts.Theme
	inner := max(width-t.AssistantBlock.GetHorizontalFrameSize(), 10)

	var parts []string
	header := t.Sender.Render(v.msg.Sender.DisplayName())
	if !v.msg.Timestamp.IsZero() {
		header += " " + t.Timestamp.Render(v.msg.Timestamp.Format("15:04"))
	}
	parts = append(parts, header)

	if strings.TrimSpace(v.msg.Content) != "" {
		parts = append(parts, strings.TrimRight(v.opts.Renderer.RenderContent(v.msg.Content, inner), "\n"))
	}

	directive := v.seq.Directive()
	if directive == sequence.DirectiveFullPanelLoading {
		parts = append(parts, RenderFullPanelLoading(t, now, inner))
	} else if v.msg.HasSteps() {
		parts = append(parts, t.StepsHeader.Render(fmt.Sprintf("Execution Steps (%d)", len(v.msg.Steps))))
		for i := range v.msg.Steps {
			if row := v.stepView(i, now).View(now, inner); row != "" {
				parts = append(parts, row)
			}
		}
		switch directive {
		case sequence.DirectiveThreeDots:
			parts = append(parts, RenderThreeDots(t, now))
		case sequence.DirectiveCompletion:
			parts = append(parts, RenderCompletion(t, false))
		case sequence.DirectiveCompletionFading:
			parts = append(parts, RenderCompletion(t, true))
		}
	}

	return t.AssistantBlock.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (v *MessageView) stepView(i int, now time.Time) StepView {
	st := v.msg.Steps[i]
	return StepView{
		Step:     st,
		Index:    i,
		Epoch:    v.opts.Tracker.Epoch(v.msg.ID, st.ID, now),
		Stagger:  v.opts.Stagger,
		Badge:    v.badges[st.ID],
		Expanded: v.expanded[st.ID],
		Focused:  v.focused && i == v.cursor,
		Theme:    v.opts.Theme,
		Renderer: v.opts.Renderer,
	}
}
