// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "time"

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// Frame returns the frame for tick n, wrapping around.
func (s SpinnerConfig) Frame(n int) string {
	if len(s.Frames) == 0 {
		return ""
	}
	if n < 0 {
		n = -n
	}
	return s.Frames[n%len(s.Frames)]
}

// LineSpinner - Full-panel loading spinner
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// DotsSpinner - Three-dot loader under the step list
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// PulseSpinner - Running-step pulse; odd frames are dimmed
var PulseSpinner = SpinnerConfig{
	Frames: []string{"on", "on", "on", "off", "off"},
	FPS:    5,
}

// PulseOn reports whether the pulse is lit at tick n.
func PulseOn(n int) bool {
	return PulseSpinner.Frame(n) == "on"
}

// =============================================================================
// TRANSITION EFFECTS
// =============================================================================

// EasingFunc is a function that maps progress (0-1) to output (0-1).
type EasingFunc func(t float64) float64

// EaseLinear - constant speed
func EaseLinear(t float64) float64 {
	return t
}

// EaseInQuad - accelerating from zero
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseOutQuad - decelerating to zero
func EaseOutQuad(t float64) float64 {
	return t * (2 - t)
}

// EaseInOutQuad - acceleration until halfway, then deceleration
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// EaseOutCubic - decelerating to zero (smoother)
func EaseOutCubic(t float64) float64 {
	t--
	return t*t*t + 1
}

// TransitionConfig defines a transition animation.
type TransitionConfig struct {
	Duration time.Duration
	Easing   EasingFunc
}

// Entrance transitions.
var (
	// TransitionSpring is used by status icons and badges.
	TransitionSpring = TransitionConfig{Duration: 300 * time.Millisecond, Easing: EaseOutCubic}
	// TransitionLabel is used by step labels.
	TransitionLabel = TransitionConfig{Duration: 400 * time.Millisecond, Easing: EaseOutQuad}
	// TransitionRow is used by whole step rows.
	TransitionRow = TransitionConfig{Duration: 600 * time.Millisecond, Easing: EaseInOutQuad}
)

// RevealStage is where an element is in its entrance transition.
type RevealStage int

const (
	RevealHidden RevealStage = iota
	RevealFading
	RevealVisible
)

func (s RevealStage) String() string {
	switch s {
	case RevealHidden:
		return "hidden"
	case RevealFading:
		return "fading"
	default:
		return "visible"
	}
}

// Progress returns the eased progress of a transition that has been running
// for elapsed. The result is clamped to [0, 1].
func (c TransitionConfig) Progress(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	if c.Duration <= 0 || elapsed >= c.Duration {
		return 1
	}
	p := float64(elapsed) / float64(c.Duration)
	if c.Easing != nil {
		p = c.Easing(p)
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Stage returns the reveal stage of an element that starts after delay,
// measured elapsed from its epoch.
func (c TransitionConfig) Stage(elapsed, delay time.Duration) RevealStage {
	switch {
	case elapsed < delay:
		return RevealHidden
	case elapsed < delay+c.Duration:
		return RevealFading
	default:
		return RevealVisible
	}
}
