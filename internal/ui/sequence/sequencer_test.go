// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sequence

import (
	"sort"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SIMULATED CLOCK
// =============================================================================

type scheduled struct {
	at  time.Duration
	seq int
	msg tea.Msg
}

// fakeClock records scheduled timer messages and releases them as time
// advances.
type fakeClock struct {
	now     time.Duration
	queue   []scheduled
	counter int
}

func (c *fakeClock) Schedule(d time.Duration, msg tea.Msg) tea.Cmd {
	c.counter++
	c.queue = append(c.queue, scheduled{at: c.now + d, seq: c.counter, msg: msg})
	return nil
}

// AdvanceTo delivers every message due at or before t, in due order.
func (c *fakeClock) AdvanceTo(t time.Duration, s *Sequencer) {
	sort.SliceStable(c.queue, func(i, j int) bool {
		if c.queue[i].at == c.queue[j].at {
			return c.queue[i].seq < c.queue[j].seq
		}
		return c.queue[i].at < c.queue[j].at
	})
	for len(c.queue) > 0 && c.queue[0].at <= t {
		next := c.queue[0]
		c.queue = c.queue[1:]
		c.now = next.at
		s.Update(next.msg)
	}
	c.now = t
}

type transitionLog struct {
	entries []string
}

func (l *transitionLog) record(_ int64, from, to Phase) {
	l.entries = append(l.entries, from.String()+">"+to.String())
}

func newTestSequencer(clock *fakeClock, log *transitionLog) *Sequencer {
	opts := Options{Scheduler: clock.Schedule}
	if log != nil {
		opts.OnTransition = log.record
	}
	return New(opts)
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestSequencer_CompletionTimings(t *testing.T) {
	clock := &fakeClock{}
	s := newTestSequencer(clock, nil)

	s.Observe(true, true)
	require.Equal(t, PhaseLoading, s.Phase())
	assert.Equal(t, DirectiveThreeDots, s.Directive())

	s.Observe(false, true)
	assert.Equal(t, PhaseCompletionVisible, s.Phase())
	assert.Equal(t, DirectiveCompletion, s.Directive())
	assert.True(t, s.Pending())

	clock.AdvanceTo(2499*time.Millisecond, s)
	assert.Equal(t, PhaseCompletionVisible, s.Phase(), "still visible just before fade")

	clock.AdvanceTo(2500*time.Millisecond, s)
	assert.Equal(t, PhaseCompletionFadingOut, s.Phase())
	assert.Equal(t, DirectiveCompletionFading, s.Directive())

	clock.AdvanceTo(2999*time.Millisecond, s)
	assert.Equal(t, PhaseCompletionFadingOut, s.Phase())

	clock.AdvanceTo(3000*time.Millisecond, s)
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Equal(t, DirectiveNone, s.Directive())
	assert.False(t, s.Pending())
}

func TestSequencer_CancelledByReload(t *testing.T) {
	clock := &fakeClock{}
	log := &transitionLog{}
	s := newTestSequencer(clock, log)

	s.Observe(true, true)
	s.Observe(false, true)

	clock.AdvanceTo(1000*time.Millisecond, s)
	s.Observe(true, true)
	assert.Equal(t, PhaseLoading, s.Phase())
	assert.False(t, s.Pending())

	clock.AdvanceTo(10*time.Second, s)
	assert.Equal(t, PhaseLoading, s.Phase(), "stale timers must not move the phase")
	assert.Equal(t, []string{
		"idle>loading",
		"loading>completion-visible",
		"completion-visible>loading",
	}, log.entries)
}

func TestSequencer_CancelledDuringFade(t *testing.T) {
	clock := &fakeClock{}
	s := newTestSequencer(clock, nil)

	s.Observe(true, true)
	s.Observe(false, true)
	clock.AdvanceTo(2700*time.Millisecond, s)
	require.Equal(t, PhaseCompletionFadingOut, s.Phase())

	s.Observe(true, true)
	clock.AdvanceTo(3000*time.Millisecond, s)
	assert.Equal(t, PhaseLoading, s.Phase())
}

func TestSequencer_SecondCompletionRestartsTimers(t *testing.T) {
	clock := &fakeClock{}
	s := newTestSequencer(clock, nil)

	s.Observe(true, true)
	s.Observe(false, true)
	clock.AdvanceTo(1000*time.Millisecond, s)
	s.Observe(true, true)
	s.Observe(false, true)

	// First pair would fire at 2500/3000 and must be ignored.
	clock.AdvanceTo(3000*time.Millisecond, s)
	assert.Equal(t, PhaseCompletionVisible, s.Phase())

	clock.AdvanceTo(3500*time.Millisecond, s)
	assert.Equal(t, PhaseCompletionFadingOut, s.Phase())

	clock.AdvanceTo(4000*time.Millisecond, s)
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestSequencer_NoStepsGoesIdle(t *testing.T) {
	clock := &fakeClock{}
	s := newTestSequencer(clock, nil)

	s.Observe(true, false)
	assert.Equal(t, DirectiveFullPanelLoading, s.Directive())

	cmd := s.Observe(false, false)
	assert.Nil(t, cmd)
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Empty(t, clock.queue, "no timers without steps")
}

func TestSequencer_StepArrivalSwitchesLoader(t *testing.T) {
	s := New(Options{Scheduler: (&fakeClock{}).Schedule})
	s.Observe(true, false)
	assert.Equal(t, DirectiveFullPanelLoading, s.Directive())
	s.Observe(true, true)
	assert.Equal(t, DirectiveThreeDots, s.Directive())
	assert.Equal(t, PhaseLoading, s.Phase())
}

func TestSequencer_NonEdgesAreNoOps(t *testing.T) {
	tests := []struct {
		name    string
		updates [][2]bool
		want    Phase
	}{
		{"historical message stays idle", [][2]bool{{false, true}, {false, true}}, PhaseIdle},
		{"true to true stays loading", [][2]bool{{true, false}, {true, true}, {true, true}}, PhaseLoading},
		{"false to false after completion", [][2]bool{{true, true}, {false, true}, {false, true}}, PhaseCompletionVisible},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clock := &fakeClock{}
			s := newTestSequencer(clock, nil)
			for _, u := range tc.updates {
				s.Observe(u[0], u[1])
			}
			assert.Equal(t, tc.want, s.Phase())
		})
	}
}

func TestSequencer_AtMostOnePendingPair(t *testing.T) {
	clock := &fakeClock{}
	s := newTestSequencer(clock, nil)
	for i := 0; i < 5; i++ {
		s.Observe(true, true)
		s.Observe(false, true)
	}
	live := 0
	for _, q := range clock.queue {
		tm := q.msg.(TimerMsg)
		if s.pending != nil && tm.Gen == s.pending.gen {
			live++
		}
	}
	assert.Equal(t, 2, live)
}

func TestSequencer_IgnoresForeignMessages(t *testing.T) {
	clock := &fakeClock{}
	a := newTestSequencer(clock, nil)
	b := newTestSequencer(clock, nil)
	assert.NotEqual(t, a.ID(), b.ID())

	a.Observe(true, true)
	a.Observe(false, true)

	assert.False(t, b.Update(TimerMsg{SequencerID: a.ID(), Gen: 1, Kind: TimerFade}))
	assert.False(t, a.Update("not a timer"))
	assert.Equal(t, PhaseIdle, b.Phase())
}

func TestSequencer_Dispose(t *testing.T) {
	clock := &fakeClock{}
	s := newTestSequencer(clock, nil)
	s.Observe(true, true)
	s.Observe(false, true)

	s.Dispose()
	assert.False(t, s.Pending())
	clock.AdvanceTo(5*time.Second, s)
	assert.Equal(t, PhaseCompletionVisible, s.Phase())
	assert.Nil(t, s.Observe(true, true))
}

func TestSequencer_CustomTimings(t *testing.T) {
	clock := &fakeClock{}
	s := New(Options{FadeAfter: time.Second, HideAfter: 1500 * time.Millisecond, Scheduler: clock.Schedule})
	s.Observe(true, true)
	s.Observe(false, true)

	clock.AdvanceTo(time.Second, s)
	assert.Equal(t, PhaseCompletionFadingOut, s.Phase())
	clock.AdvanceTo(1500*time.Millisecond, s)
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestNew_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantFade time.Duration
		wantHide time.Duration
	}{
		{"zero", Options{}, DefaultFadeAfter, DefaultHideAfter},
		{"hide before fade", Options{FadeAfter: 4 * time.Second, HideAfter: time.Second}, 4 * time.Second, 4500 * time.Millisecond},
		{"fade only", Options{FadeAfter: 5 * time.Second}, 5 * time.Second, 5500 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(tc.opts)
			assert.Equal(t, tc.wantFade, s.fadeAfter)
			assert.Equal(t, tc.wantHide, s.hideAfter)
		})
	}
}

func TestTickScheduler_ReturnsCommand(t *testing.T) {
	cmd := TickScheduler(time.Millisecond, TimerMsg{SequencerID: 7})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, TimerMsg{SequencerID: 7}, msg)
}
