// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the views that make up the steptrail screen.

Components are plain structs rendered with Lip Gloss. Animated pieces
derive their frame from the time passed to View, so one shared tick in the
chat model drives all of them.

# Steps

StepView (step.go) - One step: status icon, integration badge, title and a
collapsible detail panel.
IconKind (status_icon.go) - Glyph for each step status. Unknown statuses
fall back to pending.
Badge (badge.go) - Integration badge resolved through an IconSource: a dot,
the integration's icon glyph or the first letter of its name.

# Messages

MessageView (message.go) - A user bubble or an assistant reply with its
step list, loading indicator and completion banner.
MessageListView (message_list.go) - Scrollable list of messages built on
the bubbles viewport. It owns step focus and expansion state.
RevealTracker (reveal.go) - Remembers which steps have already played their
entrance so re-renders do not replay them.

# Indicators

loading.go - Full-panel loading indicator, the three dots shown while steps
are still arriving and the completion banner.

# Dock

Dock (dock.go) - The connected apps strip. Emits AppClickMsg,
AppSettingsMsg and AddAppMsg.

# Usage

	list := components.NewMessageListView(components.MessageViewOptions{
		Theme: theme,
		Icons: lookup,
	})
	list.SetSize(width, height)
	cmd := list.Upsert(msg, time.Now())
	list.Refresh(time.Now())
	out := list.View()
*/
package components
