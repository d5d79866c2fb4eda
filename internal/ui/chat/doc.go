// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the root Bubble Tea model of steptrail.

The model shows the message list, the connected apps dock and a status bar.
Messages arrive as feed.FrameMsg values sent by a transcript Player; each
frame's removals are applied first, then its upserts.

# Key Components

## Model (model.go)

The Model struct owns the MessageListView and the Dock, the integration
store they read, and the shared animation tick loop. Options carries the
collaborators; OptionsFromConfig maps the [ui] config section onto it.

## Update Loop (update.go)

Handles feed frames, completion timers, animation ticks, store reloads and
keyboard input. The tick loop runs only while something animates and is
restarted by the next update that needs it.

## View Rendering (view.go)

Layout: messages (viewport) + dock + status bar (1 line). The viewport
height is derived from the dock's measured height.

## One-shot Rendering (render.go)

RenderAt replays a transcript on a simulated clock and returns the screen at
a chosen instant. Completion timers are queued rather than slept on, so the
output is deterministic.

# Usage

	m := chat.New(chat.OptionsFromConfig(cfg))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	go feed.NewPlayer(transcript).Run(ctx, p)
	_, err := p.Run()
*/
package chat
