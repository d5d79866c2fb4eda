// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sequence

import (
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultFadeAfter is how long the completion badge stays fully visible.
	DefaultFadeAfter = 2500 * time.Millisecond

	// DefaultHideAfter is when the completion badge disappears, measured from
	// the same instant as DefaultFadeAfter.
	DefaultHideAfter = 3000 * time.Millisecond
)

// lastID hands out sequencer IDs so timer messages can be routed.
var lastID int64

func nextID() int64 {
	return atomic.AddInt64(&lastID, 1)
}

// =============================================================================
// PHASE AND DIRECTIVE
// =============================================================================

// Phase is the lifecycle state of one assistant message.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseCompletionVisible
	PhaseCompletionFadingOut
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseCompletionVisible:
		return "completion-visible"
	case PhaseCompletionFadingOut:
		return "completion-fading-out"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Directive tells the message view which indicator to draw.
type Directive int

const (
	DirectiveNone Directive = iota
	DirectiveFullPanelLoading
	DirectiveThreeDots
	DirectiveCompletion
	DirectiveCompletionFading
)

// String returns the directive name.
func (d Directive) String() string {
	switch d {
	case DirectiveNone:
		return "none"
	case DirectiveFullPanelLoading:
		return "full-panel-loading"
	case DirectiveThreeDots:
		return "three-dots"
	case DirectiveCompletion:
		return "completion"
	case DirectiveCompletionFading:
		return "completion-fading"
	default:
		return fmt.Sprintf("directive(%d)", int(d))
	}
}

// =============================================================================
// TIMER MESSAGES
// =============================================================================

// TimerKind distinguishes the two completion timers.
type TimerKind int

const (
	TimerFade TimerKind = iota
	TimerHide
)

func (k TimerKind) String() string {
	if k == TimerFade {
		return "fade"
	}
	return "hide"
}

// TimerMsg is delivered when a completion timer fires.
type TimerMsg struct {
	SequencerID int64
	Gen         uint64
	Kind        TimerKind
}

// timerHandle identifies the one outstanding pair of completion timers.
type timerHandle struct {
	gen uint64
}

// =============================================================================
// SEQUENCER
// =============================================================================

// Options configures a Sequencer. Zero fields take defaults.
type Options struct {
	FadeAfter time.Duration
	HideAfter time.Duration
	Scheduler Scheduler

	// OnTransition is called after every phase change.
	OnTransition func(id int64, from, to Phase)
}

// Sequencer drives the completion lifecycle of one message.
type Sequencer struct {
	id        int64
	phase     Phase
	loading   bool
	hasSteps  bool
	gen       uint64
	pending   *timerHandle
	disposed  bool
	fadeAfter time.Duration
	hideAfter time.Duration
	schedule  Scheduler
	onChange  func(id int64, from, to Phase)
}

// New creates an idle sequencer.
func New(opts Options) *Sequencer {
	s := &Sequencer{
		id:        nextID(),
		fadeAfter: opts.FadeAfter,
		hideAfter: opts.HideAfter,
		schedule:  opts.Scheduler,
		onChange:  opts.OnTransition,
	}
	if s.fadeAfter <= 0 {
		s.fadeAfter = DefaultFadeAfter
	}
	if s.hideAfter <= 0 {
		s.hideAfter = DefaultHideAfter
	}
	// Hide must follow fade; keep the default gap otherwise.
	if s.hideAfter <= s.fadeAfter {
		s.hideAfter = s.fadeAfter + (DefaultHideAfter - DefaultFadeAfter)
	}
	if s.schedule == nil {
		s.schedule = TickScheduler
	}
	return s
}

// ID returns the sequencer ID carried by its timer messages.
func (s *Sequencer) ID() int64 {
	return s.id
}

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase {
	return s.phase
}

// Pending reports whether completion timers are outstanding.
func (s *Sequencer) Pending() bool {
	return s.pending != nil
}

// Directive returns the indicator the view should draw.
func (s *Sequencer) Directive() Directive {
	switch s.phase {
	case PhaseLoading:
		if s.hasSteps {
			return DirectiveThreeDots
		}
		return DirectiveFullPanelLoading
	case PhaseCompletionVisible:
		return DirectiveCompletion
	case PhaseCompletionFadingOut:
		return DirectiveCompletionFading
	default:
		return DirectiveNone
	}
}

// Observe feeds the latest loading flag and step presence of the message.
// Only edges of isLoading change the phase; repeated values are no-ops.
func (s *Sequencer) Observe(isLoading, hasSteps bool) tea.Cmd {
	if s.disposed {
		return nil
	}
	s.hasSteps = hasSteps
	was := s.loading
	s.loading = isLoading

	switch {
	case isLoading && !was:
		s.cancel()
		s.transition(PhaseLoading)
		return nil

	case !isLoading && was:
		if !hasSteps {
			s.cancel()
			s.transition(PhaseIdle)
			return nil
		}
		s.transition(PhaseCompletionVisible)
		return s.arm()
	}
	return nil
}

// Update consumes a timer message. It reports whether the message belonged
// to this sequencer and changed its phase.
func (s *Sequencer) Update(msg tea.Msg) bool {
	tm, ok := msg.(TimerMsg)
	if !ok || tm.SequencerID != s.id || s.disposed {
		return false
	}
	if s.pending == nil || tm.Gen != s.pending.gen {
		return false
	}

	switch tm.Kind {
	case TimerFade:
		if s.phase != PhaseCompletionVisible {
			return false
		}
		s.transition(PhaseCompletionFadingOut)
		return true
	case TimerHide:
		s.pending = nil
		if s.phase == PhaseIdle {
			return false
		}
		s.transition(PhaseIdle)
		return true
	}
	return false
}

// Dispose cancels outstanding timers. A disposed sequencer ignores all input.
func (s *Sequencer) Dispose() {
	s.cancel()
	s.disposed = true
}

// arm schedules the fade and hide timers from the current instant.
func (s *Sequencer) arm() tea.Cmd {
	s.cancel()
	s.gen++
	s.pending = &timerHandle{gen: s.gen}
	return tea.Batch(
		s.schedule(s.fadeAfter, TimerMsg{SequencerID: s.id, Gen: s.gen, Kind: TimerFade}),
		s.schedule(s.hideAfter, TimerMsg{SequencerID: s.id, Gen: s.gen, Kind: TimerHide}),
	)
}

// cancel invalidates any outstanding timers.
func (s *Sequencer) cancel() {
	if s.pending == nil {
		return
	}
	s.pending = nil
	s.gen++
}

func (s *Sequencer) transition(to Phase) {
	from := s.phase
	if from == to {
		return
	}
	s.phase = to
	if s.onChange != nil {
		s.onChange(s.id, from, to)
	}
}
