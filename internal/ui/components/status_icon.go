// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/jeranaias/steptrail/internal/model"
	"github.com/jeranaias/steptrail/internal/ui/styles"
)

// =============================================================================
// STATUS ICON
// =============================================================================

// IconKind is the visual class of a step's status icon.
type IconKind int

const (
	IconNeutral IconKind = iota
	IconSuccess
	IconPending
	IconError
)

// ResolveStatusIcon maps a step status onto an icon. Unset and unknown
// statuses get the neutral icon.
func ResolveStatusIcon(status model.StepStatus) IconKind {
	switch status {
	case model.StepStatusCompleted:
		return IconSuccess
	case model.StepStatusRunning:
		return IconPending
	case model.StepStatusFailed:
		return IconError
	default:
		return IconNeutral
	}
}

// String returns the icon name.
func (k IconKind) String() string {
	switch k {
	case IconSuccess:
		return "success"
	case IconPending:
		return "pending"
	case IconError:
		return "error"
	default:
		return "neutral"
	}
}

// Glyph returns the ASCII glyph drawn for the icon.
func (k IconKind) Glyph() string {
	switch k {
	case IconSuccess:
		return styles.StatusIndicators.Success
	case IconPending:
		return styles.StatusIndicators.Pending
	case IconError:
		return styles.StatusIndicators.Error
	default:
		return styles.StatusIndicators.Neutral
	}
}

// Pulses reports whether the icon animates while shown.
func (k IconKind) Pulses() bool {
	return k == IconPending
}

// Render draws the icon at now. A pending icon alternates between its
// color and the dimmed color.
func (k IconKind) Render(theme *styles.Theme, now time.Time) string {
	glyph := k.Glyph()
	switch k {
	case IconSuccess:
		return theme.IconSuccess.Render(glyph)
	case IconError:
		return theme.IconError.Render(glyph)
	case IconPending:
		if styles.PulseOn(frameAt(now, styles.PulseSpinner)) {
			return theme.IconPending.Render(glyph)
		}
		return theme.IconFading.Render(glyph)
	default:
		return theme.IconNeutral.Render(glyph)
	}
}

// iconWidth is the widest glyph, so rows line up whatever their status.
var iconWidth = func() int {
	w := 0
	for _, k := range []IconKind{IconNeutral, IconSuccess, IconPending, IconError} {
		if n := len(k.Glyph()); n > w {
			w = n
		}
	}
	return w
}()

// frameAt returns the spinner frame index shown at now. Frames are derived
// from wall time so every view of one spinner agrees.
func frameAt(now time.Time, s styles.SpinnerConfig) int {
	d := s.Duration()
	if d <= 0 {
		return 0
	}
	return int(now.UnixNano() / int64(d))
}
