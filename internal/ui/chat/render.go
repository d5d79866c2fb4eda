// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/steptrail/internal/feed"
)

// snapshotHeight is the window height reported to a one-shot render. The
// snapshot bypasses the viewport, so it only needs to be large.
const snapshotHeight = 1000

// =============================================================================
// ONE-SHOT RENDER
// =============================================================================

// RenderAt replays transcript on a simulated clock and returns the screen
// as it looks at offset at. Frames and completion timers are applied in
// time order; a timer due at the same instant as a frame fires first.
// opts.Now, if set, supplies the replay's start time.
func RenderAt(transcript *feed.Transcript, at time.Duration, width int, opts Options) string {
	start := time.Now()
	if opts.Now != nil {
		start = opts.Now()
	}
	sim := &simulation{now: start}
	opts.Now = sim.Now
	opts.Scheduler = sim.Schedule
	opts.Changes = nil
	opts.Copy = func(string) error { return nil }

	m := New(opts)
	sim.drain(&m, m.Init())
	sim.deliver(&m, tea.WindowSizeMsg{Width: width, Height: snapshotHeight})

	end := start.Add(at)
	frames := transcript.Until(at)
	for {
		next, ok := sim.nextTimer()
		if ok && next.due.After(end) {
			ok = false
		}

		if len(frames) > 0 {
			due := start.Add(frames[0].At())
			if !ok || due.Before(next.due) {
				f := frames[0]
				frames = frames[1:]
				sim.now = due
				sim.deliver(&m, feed.FrameMsg{
					At:       f.At(),
					Messages: f.Messages,
					Remove:   f.Remove,
					Skipped:  f.Skipped,
				})
				continue
			}
		}
		if !ok {
			break
		}
		sim.pop()
		sim.now = next.due
		sim.deliver(&m, next.msg)
	}

	sim.now = end
	return m.Snapshot(end, width)
}

// =============================================================================
// SIMULATED CLOCK
// =============================================================================

type simTimer struct {
	due time.Time
	seq int
	msg tea.Msg
}

// simulation is a clock that only moves when told to, with a queue of
// scheduled messages standing in for tea.Tick.
type simulation struct {
	now    time.Time
	timers []simTimer
	seq    int
}

func (s *simulation) Now() time.Time {
	return s.now
}

// Schedule queues msg at now+d. Animation ticks are dropped: frames are
// derived from the clock, so a snapshot needs no redraw loop.
func (s *simulation) Schedule(d time.Duration, msg tea.Msg) tea.Cmd {
	if _, ok := msg.(AnimationTickMsg); ok {
		return nil
	}
	s.seq++
	s.timers = append(s.timers, simTimer{due: s.now.Add(d), seq: s.seq, msg: msg})
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due.Equal(s.timers[j].due) {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].due.Before(s.timers[j].due)
	})
	return nil
}

func (s *simulation) nextTimer() (simTimer, bool) {
	if len(s.timers) == 0 {
		return simTimer{}, false
	}
	return s.timers[0], true
}

func (s *simulation) pop() {
	s.timers = s.timers[1:]
}

func (s *simulation) deliver(m *Model, msg tea.Msg) {
	next, cmd := m.Update(msg)
	*m = next.(Model)
	s.drain(m, cmd)
}

// drain runs cmd synchronously and delivers what it produces.
func (s *simulation) drain(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			s.drain(m, c)
		}
	case tea.QuitMsg:
	default:
		s.deliver(m, msg)
	}
}
