// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/jeranaias/steptrail/internal/logging"
	"github.com/jeranaias/steptrail/internal/model"
)

// =============================================================================
// MESSAGES
// =============================================================================

// FrameMsg delivers one transcript frame to the program.
type FrameMsg struct {
	Index    int
	At       time.Duration
	Messages []model.ChatMessage
	Remove   []string
	Skipped  int
}

// DoneMsg is sent once after the last frame, or when replay stops early.
type DoneMsg struct {
	Err error
}

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// =============================================================================
// PLAYER
// =============================================================================

// Player replays a transcript on its frame offsets.
type Player struct {
	transcript *Transcript
	limiter    *rate.Limiter
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithRate caps delivery at maxRate frames per second. A rate of zero or
// less means unlimited.
func WithRate(maxRate float64, burst int) PlayerOption {
	return func(p *Player) {
		if maxRate <= 0 {
			p.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(maxRate), burst)
	}
}

// WithClock replaces the wall clock and sleep, for tests.
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) PlayerOption {
	return func(p *Player) {
		p.now = now
		p.sleep = sleep
	}
}

// NewPlayer creates a player for t.
func NewPlayer(t *Transcript, opts ...PlayerOption) *Player {
	p := &Player{
		transcript: t,
		limiter:    rate.NewLimiter(rate.Inf, 0),
		now:        time.Now,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run sends every frame to dst at its offset, then a DoneMsg. It returns
// early with the context's error if ctx is cancelled.
func (p *Player) Run(ctx context.Context, dst Sender) error {
	err := p.run(ctx, dst)
	dst.Send(DoneMsg{Err: err})
	return err
}

func (p *Player) run(ctx context.Context, dst Sender) error {
	start := p.now()
	for i, f := range p.transcript.Frames {
		if wait := f.At() - p.now().Sub(start); wait > 0 {
			if err := p.sleep(ctx, wait); err != nil {
				return err
			}
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}

		logging.WithFields(map[string]interface{}{
			"frame":    i,
			"at":       f.At(),
			"messages": len(f.Messages),
			"remove":   len(f.Remove),
		}).Debug("feed frame")

		dst.Send(FrameMsg{
			Index:    i,
			At:       f.At(),
			Messages: f.Messages,
			Remove:   f.Remove,
			Skipped:  f.Skipped,
		})
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
