// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed drives the renderer from recorded transcripts.
//
// A transcript is a list of frames. Each frame carries an offset in
// milliseconds, the messages to upsert at that instant and the IDs to
// remove. Transcripts are JSON or YAML:
//
//	frames:
//	  - at_ms: 0
//	    messages:
//	      - {id: a1, sender: assistant, isLoading: true}
//	  - at_ms: 1200
//	    messages:
//	      - id: a1
//	        sender: assistant
//	        isLoading: false
//	        steps: [{id: s1, title: "Step 1: Search", status: completed}]
//
// The Player replays frames on their offsets into a running program. It
// only communicates through Send, so updates stay serialised on the Bubble
// Tea loop.
package feed
