// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by ApplyTheme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ApplyTheme pins lipgloss's background detection to mode. "auto" asks the
// terminal. Unknown modes behave like "auto".
func ApplyTheme(mode string) {
	switch strings.ToLower(mode) {
	case ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	case ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	default:
		lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
	}
}

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble     lipgloss.Style
	AssistantBlock lipgloss.Style
	Sender         lipgloss.Style
	Timestamp      lipgloss.Style

	// ==========================================================================
	// STEP STYLES
	// ==========================================================================

	StepsHeader     lipgloss.Style
	StepRow         lipgloss.Style
	StepRowFocused  lipgloss.Style
	StepLabel       lipgloss.Style
	StepLabelFading lipgloss.Style
	Chevron         lipgloss.Style
	DetailPanel     lipgloss.Style

	IconSuccess lipgloss.Style
	IconPending lipgloss.Style
	IconError   lipgloss.Style
	IconNeutral lipgloss.Style
	IconFading  lipgloss.Style

	BadgeDot    lipgloss.Style
	BadgeGlyph  lipgloss.Style
	BadgeLetter lipgloss.Style
	BadgeFading lipgloss.Style

	// ==========================================================================
	// LOADING AND COMPLETION STYLES
	// ==========================================================================

	LoadingPanel     lipgloss.Style
	LoadingTitle     lipgloss.Style
	LoadingSubtitle  lipgloss.Style
	Spinner          lipgloss.Style
	Dots             lipgloss.Style
	DotsText         lipgloss.Style
	Completion       lipgloss.Style
	CompletionFading lipgloss.Style

	// ==========================================================================
	// DOCK STYLES
	// ==========================================================================

	Dock            lipgloss.Style
	DockTitle       lipgloss.Style
	DockCount       lipgloss.Style
	DockChip        lipgloss.Style
	DockChipFocused lipgloss.Style
	DockTime        lipgloss.Style
	DockEmpty       lipgloss.Style
	DockAction      lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	ErrorText    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       lipgloss.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Padding(0, 1)

	t.AssistantBlock = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(AssistantBorder).
		PaddingLeft(1)

	t.Sender = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Steps
	t.StepsHeader = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true).
		MarginBottom(1)

	t.StepRow = lipgloss.NewStyle().
		PaddingLeft(1)

	t.StepRowFocused = lipgloss.NewStyle().
		PaddingLeft(1).
		Background(SurfaceBright)

	t.StepLabel = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.StepLabelFading = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Chevron = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.DetailPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1).
		MarginLeft(4)

	t.IconSuccess = lipgloss.NewStyle().Foreground(SuccessHighContrast).Bold(true)
	t.IconPending = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.IconError = lipgloss.NewStyle().Foreground(ErrorHighContrast).Bold(true)
	t.IconNeutral = lipgloss.NewStyle().Foreground(TextMuted)
	t.IconFading = lipgloss.NewStyle().Foreground(OverlayDim)

	t.BadgeDot = lipgloss.NewStyle().Foreground(TextMuted)
	t.BadgeGlyph = lipgloss.NewStyle().Foreground(TextPrimary)
	t.BadgeLetter = lipgloss.NewStyle().
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)
	t.BadgeFading = lipgloss.NewStyle().Foreground(OverlayDim)

	// Loading and completion
	t.LoadingPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 3).
		Align(lipgloss.Center)

	t.LoadingTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.LoadingSubtitle = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.Dots = lipgloss.NewStyle().
		Foreground(Purple)

	t.DotsText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Completion = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.CompletionFading = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Dock
	t.Dock = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.DockTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.DockCount = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 1)

	t.DockChip = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.DockChipFocused = t.DockChip.
		BorderForeground(Cyan)

	t.DockTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.DockEmpty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.DockAction = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(ErrorHighContrast)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)

// BubbleWidth is the widest a user bubble may be at the current size.
func (t *Theme) BubbleWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return max(t.Width-2, 10)
	case LayoutMedium:
		return t.Width * 3 / 4
	default:
		return t.Width * 2 / 3
	}
}
