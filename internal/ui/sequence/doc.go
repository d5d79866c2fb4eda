// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sequence derives the loading and completion lifecycle of a single
// assistant message from its IsLoading flag.
//
// A Sequencer is fed every message update through Observe and every timer
// message through Update. It never reads the wall clock: timers are Bubble Tea
// commands built by a Scheduler, so tests can drive it on a simulated clock.
//
// # Lifecycle
//
//	Idle --loading--> Loading --done with steps--> CompletionVisible
//	                     |                               | T1 (2500ms)
//	                     |                               v
//	                     +--done, no steps--> Idle <-- CompletionFadingOut
//	                                                T2 (3000ms)
//
// Loading becoming true again at any point cancels the pending timers.
// Timer messages carry the sequencer ID and a generation; anything that does
// not match the live handle is dropped.
package sequence
