// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

// MaxMessages is the maximum number of messages kept in a transcript.
// When exceeded, the oldest messages are evicted.
const MaxMessages = 1000

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the ordered list of messages supplied by the caller.
// Order is arrival order; an upsert of a known ID keeps its position.
type Transcript struct {
	order []string
	byID  map[string]ChatMessage
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{byID: make(map[string]ChatMessage)}
}

// Upsert replaces the message with the same ID or appends a new one.
// It returns true when the message was appended, and the IDs of any messages
// evicted to stay under MaxMessages.
func (t *Transcript) Upsert(msg ChatMessage) (created bool, evicted []string) {
	if _, ok := t.byID[msg.ID]; ok {
		t.byID[msg.ID] = msg.Clone()
		return false, nil
	}
	t.byID[msg.ID] = msg.Clone()
	t.order = append(t.order, msg.ID)

	for len(t.order) > MaxMessages {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.byID, oldest)
		evicted = append(evicted, oldest)
	}
	return true, evicted
}

// Remove deletes a message by ID and reports whether it existed.
func (t *Transcript) Remove(id string) bool {
	if _, ok := t.byID[id]; !ok {
		return false
	}
	delete(t.byID, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the message with the given ID.
func (t *Transcript) Get(id string) (ChatMessage, bool) {
	msg, ok := t.byID[id]
	return msg, ok
}

// Messages returns the messages in arrival order.
func (t *Transcript) Messages() []ChatMessage {
	out := make([]ChatMessage, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

// IDs returns the message IDs in arrival order.
func (t *Transcript) IDs() []string {
	return append([]string(nil), t.order...)
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.order)
}

// Clear removes all messages and returns the IDs that were dropped.
func (t *Transcript) Clear() []string {
	dropped := t.order
	t.order = nil
	t.byID = make(map[string]ChatMessage)
	return dropped
}
