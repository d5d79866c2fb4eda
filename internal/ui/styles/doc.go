// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for steptrail.

All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
ApplyTheme pins the detection when the user forces a theme.

# Color System (colors.go)

  - Purple, Cyan: accents for the assistant block, focus and links
  - Emerald, Amber, Rose: completed, running and failed steps
  - Surface and Overlay: layered backgrounds and borders
  - Text colors: primary, secondary, muted (also used for fading elements)

StatusIndicators are the ASCII glyphs drawn for step status. BadgeColor
picks a stable background for initial-letter badges.

# Animations (animations.go)

Spinner frame sets for the loaders and the running-step pulse, easing
functions, and the entrance transitions used by step rows:

	TransitionSpring  300ms  status icon, badge
	TransitionLabel   400ms  step label
	TransitionRow     600ms  whole row

TransitionConfig.Stage maps (elapsed, delay) onto hidden, fading or visible.

# Theme (theme.go)

Theme holds every lipgloss.Style used by the components. Create one with
NewTheme after ApplyTheme.
*/
package styles
