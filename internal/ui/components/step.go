// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/steptrail/internal/markdown"
	"github.com/jeranaias/steptrail/internal/model"
	"github.com/jeranaias/steptrail/internal/ui/styles"
	"github.com/jeranaias/steptrail/internal/util"
)

// Entrance timing. Offsets are measured from the step's base delay.
const (
	DefaultStepStagger = 100 * time.Millisecond

	IconOffset  = 100 * time.Millisecond
	BadgeOffset = 200 * time.Millisecond
	LabelOffset = 300 * time.Millisecond
)

// DefaultStepLabel is shown for steps with neither actions nor a title.
const DefaultStepLabel = "Processing..."

// Chevrons drawn at the end of a step row.
const (
	chevronCollapsed = ">"
	chevronExpanded  = "v"
)

var stepTitlePrefix = regexp.MustCompile(`^Step \d+:\s*`)

// settleSpan is how long after its base delay a step keeps animating.
var settleSpan = max(
	IconOffset+styles.TransitionSpring.Duration,
	BadgeOffset+styles.TransitionSpring.Duration,
	LabelOffset+styles.TransitionLabel.Duration,
	styles.TransitionRow.Duration,
)

// EntranceDelay is the base entrance delay of the step at index: its
// explicit AnimationDelay when set, else index * stagger.
func EntranceDelay(step model.Step, index int, stagger time.Duration) time.Duration {
	if step.AnimationDelay != nil {
		return max(*step.AnimationDelay, 0)
	}
	return time.Duration(index) * stagger
}

// StepLabel returns the primary label of a step: the first action's type,
// else the title without its "Step N:" prefix, else DefaultStepLabel.
func StepLabel(step model.Step) string {
	if t, ok := step.FirstActionType(); ok {
		return t
	}
	if step.Title != "" {
		return stepTitlePrefix.ReplaceAllString(step.Title, "")
	}
	return DefaultStepLabel
}

// =============================================================================
// STEP VIEW
// =============================================================================

// StepView renders one step row and, when expanded, its detail panel.
// It holds no state of its own; the owning MessageView fills it in for
// every frame.
type StepView struct {
	Step     model.Step
	Index    int
	Epoch    time.Time
	Stagger  time.Duration
	Badge    Badge
	Expanded bool
	Focused  bool

	Theme    *styles.Theme
	Renderer markdown.ContentRenderer
}

// Delay returns the base entrance delay.
func (v StepView) Delay() time.Duration {
	return EntranceDelay(v.Step, v.Index, v.Stagger)
}

// Visible reports whether the row has started to appear at now.
func (v StepView) Visible(now time.Time) bool {
	return now.Sub(v.Epoch) >= v.Delay()
}

// Settled reports whether every entrance transition has finished at now.
func (v StepView) Settled(now time.Time) bool {
	return now.Sub(v.Epoch) >= v.Delay()+settleSpan
}

// View renders the step at now. A step whose delay has not passed renders
// as the empty string.
func (v StepView) View(now time.Time, width int) string {
	elapsed := now.Sub(v.Epoch) - v.Delay()
	if elapsed < 0 {
		return ""
	}
	t := v.Theme

	rowStyle := t.StepRow
	if v.Focused {
		rowStyle = t.StepRowFocused
	}

	icon := v.renderIcon(now, styles.TransitionSpring.Stage(elapsed, IconOffset))
	badge := v.Badge.Render(t, styles.TransitionSpring.Stage(elapsed, BadgeOffset))

	chevron := chevronCollapsed
	if v.Expanded {
		chevron = chevronExpanded
	}
	if styles.TransitionRow.Stage(elapsed, 0) == styles.RevealFading {
		chevron = t.IconFading.Render(chevron)
	} else {
		chevron = t.Chevron.Render(chevron)
	}

	// icon, badge, label and chevron are separated by single spaces
	labelWidth := width - rowStyle.GetHorizontalFrameSize() - iconWidth - v.Badge.Width() - 1 - 3
	label := util.PadRight(util.TruncateWidth(StepLabel(v.Step), labelWidth), labelWidth)
	switch styles.TransitionLabel.Stage(elapsed, LabelOffset) {
	case styles.RevealHidden:
		label = util.Blank(label)
	case styles.RevealFading:
		label = t.StepLabelFading.Render(label)
	default:
		label = t.StepLabel.Bold(v.Focused).Render(label)
	}

	row := rowStyle.Render(icon + " " + badge + " " + label + " " + chevron)
	if !v.Expanded || strings.TrimSpace(v.Step.Content) == "" {
		return row
	}
	return lipgloss.JoinVertical(lipgloss.Left, row, v.detail(width))
}

func (v StepView) renderIcon(now time.Time, stage styles.RevealStage) string {
	kind := ResolveStatusIcon(v.Step.Status)
	glyph := util.PadRight(kind.Glyph(), iconWidth)
	switch stage {
	case styles.RevealHidden:
		return util.Blank(glyph)
	case styles.RevealFading:
		return v.Theme.IconFading.Render(glyph)
	}
	pad := strings.Repeat(" ", iconWidth-len(kind.Glyph()))
	return kind.Render(v.Theme, now) + pad
}

// detail renders the step content inside the bordered panel.
func (v StepView) detail(width int) string {
	panel := v.Theme.DetailPanel
	inner := max(width-panel.GetHorizontalFrameSize(), 10)

	content := v.Step.Content
	if v.Renderer != nil {
		content = v.Renderer.RenderContent(content, inner)
	}
	return panel.Width(inner + panel.GetHorizontalPadding()).Render(content)
}
