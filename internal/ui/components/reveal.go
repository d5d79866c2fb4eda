// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"
)

// ReplayMode selects when step entrance animations restart.
type ReplayMode string

const (
	// ReplayIndex restarts every entrance animation on remount.
	ReplayIndex ReplayMode = "index"
	// ReplayIdentity animates each step ID once.
	ReplayIdentity ReplayMode = "identity"
)

// ParseReplayMode returns the mode named by s, defaulting to ReplayIndex.
func ParseReplayMode(s string) ReplayMode {
	if ReplayMode(strings.ToLower(strings.TrimSpace(s))) == ReplayIdentity {
		return ReplayIdentity
	}
	return ReplayIndex
}

// RevealTracker records the animation epoch of every step on screen.
//
// A step's epoch is the instant it was first seen. In index mode a remount
// moves every epoch to the remount instant; in identity mode epochs never
// move, so a remount does not replay anything.
type RevealTracker struct {
	mode  ReplayMode
	epoch map[string]time.Time
}

// NewRevealTracker creates an empty tracker.
func NewRevealTracker(mode ReplayMode) *RevealTracker {
	return &RevealTracker{mode: mode, epoch: make(map[string]time.Time)}
}

// Mode returns the replay mode.
func (r *RevealTracker) Mode() ReplayMode {
	return r.mode
}

// Epoch returns the epoch of a step, recording now if it is new.
func (r *RevealTracker) Epoch(messageID, stepID string, now time.Time) time.Time {
	key := revealKey(messageID, stepID)
	if t, ok := r.epoch[key]; ok {
		return t
	}
	r.epoch[key] = now
	return now
}

// Seen reports whether the step already has an epoch.
func (r *RevealTracker) Seen(messageID, stepID string) bool {
	_, ok := r.epoch[revealKey(messageID, stepID)]
	return ok
}

// Remount restarts animations according to the replay mode.
func (r *RevealTracker) Remount(now time.Time) {
	if r.mode != ReplayIndex {
		return
	}
	for k := range r.epoch {
		r.epoch[k] = now
	}
}

// Forget drops every epoch that belongs to messageID.
func (r *RevealTracker) Forget(messageID string) {
	prefix := messageID + "\x00"
	for k := range r.epoch {
		if strings.HasPrefix(k, prefix) {
			delete(r.epoch, k)
		}
	}
}

// Len returns the number of tracked steps.
func (r *RevealTracker) Len() int {
	return len(r.epoch)
}

func revealKey(messageID, stepID string) string {
	return messageID + "\x00" + stepID
}
