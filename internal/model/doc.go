// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the immutable message and step types that the renderer
// consumes. Messages are produced by an external collaborator and replaced
// wholesale on every update.
//
// # Key Types
//
//   - ChatMessage: One turn with sender, content, optional steps and a loading flag
//   - Step: One unit of assistant work with status, actions and an integration reference
//   - Action: Typed, opaque instruction; only Type is read
//   - Transcript: Ordered message list keyed by ID
//
// # Wire Format
//
// JSON field names follow the chat front end (isLoading, integration_uuid,
// animationDelay in milliseconds) so transcripts round-trip unchanged:
//
//	var msg model.ChatMessage
//	if err := json.Unmarshal(data, &msg); err != nil {
//	    return err
//	}
//	if err := msg.Validate(); err != nil {
//	    return err
//	}
package model
