// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/steptrail/internal/ui/styles"
)

// Loader and completion texts.
const (
	LoadingTitle    = "Processing your request..."
	LoadingSubtitle = "This may take a few moments"
	DotsLabel       = "Processing..."
	CompletionLabel = "Done"
)

// =============================================================================
// LOADERS
// =============================================================================

// RenderFullPanelLoading draws the loader shown before the first step
// arrives.
func RenderFullPanelLoading(theme *styles.Theme, now time.Time, width int) string {
	spin := theme.Spinner.Render(styles.LineSpinner.Frame(frameAt(now, styles.LineSpinner)))
	body := lipgloss.JoinVertical(lipgloss.Center,
		spin,
		"",
		theme.LoadingTitle.Render(LoadingTitle),
		theme.LoadingSubtitle.Render(LoadingSubtitle),
	)

	panel := theme.LoadingPanel
	if inner := width - panel.GetHorizontalFrameSize(); inner > 0 && inner < lipgloss.Width(body) {
		panel = panel.Width(inner)
	}
	return panel.Render(body)
}

// RenderThreeDots draws the loader shown under a step list while more
// steps are expected.
func RenderThreeDots(theme *styles.Theme, now time.Time) string {
	dots := styles.DotsSpinner.Frame(frameAt(now, styles.DotsSpinner))
	return theme.Dots.Render(dots) + " " + theme.DotsText.Render(DotsLabel)
}

// =============================================================================
// COMPLETION BADGE
// =============================================================================

// RenderCompletion draws the completion badge. A fading badge is dimmed and
// moved up against the step list.
func RenderCompletion(theme *styles.Theme, fading bool) string {
	text := styles.StatusIndicators.Success + " " + CompletionLabel
	if fading {
		return theme.CompletionFading.Render(text)
	}
	return "\n" + theme.Completion.Render(text)
}
