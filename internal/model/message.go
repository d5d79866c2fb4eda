// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ACTION TYPE
// =============================================================================

// Action is a typed instruction attached to a step. Only Type is interpreted
// by the renderer; Data is passed through untouched for the external executor.
type Action struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// =============================================================================
// STEP TYPE
// =============================================================================

// Step is one discrete unit of assistant work.
type Step struct {
	// ID must be unique within its message and stable across updates.
	ID      string     `json:"id"`
	Title   string     `json:"title,omitempty"`
	Content string     `json:"content"`
	Status  StepStatus `json:"status,omitempty"`
	Actions []Action   `json:"actions,omitempty"`

	// IntegrationID references an entry in the integration-connections store.
	IntegrationID string `json:"integration_uuid,omitempty"`

	// AnimationDelay overrides the index-derived entrance delay when set.
	// On the wire it is an integer number of milliseconds.
	AnimationDelay *time.Duration `json:"-"`
}

// stepWire mirrors Step with the animation delay expressed in milliseconds.
type stepWire struct {
	ID               string     `json:"id"`
	Title            string     `json:"title,omitempty"`
	Content          string     `json:"content"`
	Status           StepStatus `json:"status,omitempty"`
	Actions          []Action   `json:"actions,omitempty"`
	IntegrationID    string     `json:"integration_uuid,omitempty"`
	AnimationDelayMs *int64     `json:"animationDelay,omitempty"`
}

// MarshalJSON encodes the step using the front-end field names.
func (s Step) MarshalJSON() ([]byte, error) {
	w := stepWire{
		ID:            s.ID,
		Title:         s.Title,
		Content:       s.Content,
		Status:        s.Status,
		Actions:       s.Actions,
		IntegrationID: s.IntegrationID,
	}
	if s.AnimationDelay != nil {
		ms := s.AnimationDelay.Milliseconds()
		w.AnimationDelayMs = &ms
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the step from the front-end field names.
func (s *Step) UnmarshalJSON(data []byte) error {
	var w stepWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Step{
		ID:            w.ID,
		Title:         w.Title,
		Content:       w.Content,
		Status:        ParseStepStatus(string(w.Status)),
		Actions:       w.Actions,
		IntegrationID: w.IntegrationID,
	}
	if w.AnimationDelayMs != nil {
		d := time.Duration(*w.AnimationDelayMs) * time.Millisecond
		s.AnimationDelay = &d
	}
	return nil
}

// WithAnimationDelay returns a copy of the step with an explicit entrance delay.
func (s Step) WithAnimationDelay(d time.Duration) Step {
	s.AnimationDelay = &d
	return s
}

// FirstActionType returns the type tag of the first action, if any.
func (s Step) FirstActionType() (string, bool) {
	if len(s.Actions) == 0 {
		return "", false
	}
	return s.Actions[0].Type, true
}

// =============================================================================
// CHAT MESSAGE TYPE
// =============================================================================

// ChatMessage is one turn in the conversation. Callers replace IsLoading and
// Steps wholesale on update; steps are never mutated in place.
type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Steps     []Step    `json:"steps,omitempty"`
	IsLoading bool      `json:"isLoading,omitempty"`
}

// NewUserMessage creates a user message with a generated ID.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{
		ID:        NewID(),
		Content:   content,
		Sender:    SenderUser,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message that starts out loading.
func NewAssistantMessage() ChatMessage {
	return ChatMessage{
		ID:        NewID(),
		Sender:    SenderAssistant,
		Timestamp: time.Now(),
		IsLoading: true,
	}
}

// NewID returns a fresh random identifier.
func NewID() string {
	return uuid.NewString()
}

// IsUser reports whether the message was sent by the user.
func (m ChatMessage) IsUser() bool {
	return m.Sender == SenderUser
}

// HasSteps reports whether the message carries at least one step.
func (m ChatMessage) HasSteps() bool {
	return len(m.Steps) > 0
}

// Clone returns a copy that shares no slices with the receiver.
func (m ChatMessage) Clone() ChatMessage {
	out := m
	if m.Steps != nil {
		out.Steps = make([]Step, len(m.Steps))
		for i, s := range m.Steps {
			if s.Actions != nil {
				s.Actions = append([]Action(nil), s.Actions...)
			}
			out.Steps[i] = s
		}
	}
	return out
}

// StepIndex returns the position of the step with the given ID, or -1.
func (m ChatMessage) StepIndex(id string) int {
	for i, s := range m.Steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Preview returns a truncated single-line preview of the content.
func (m ChatMessage) Preview(maxLen int) string {
	content := strings.ReplaceAll(m.Content, "\n", " ")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a structural problem with a message.
type ValidationError struct {
	MessageID string
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.MessageID == "" {
		return fmt.Sprintf("message: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("message %s: %s: %s", e.MessageID, e.Field, e.Reason)
}

// Validate checks the invariants the renderer relies on.
func (m ChatMessage) Validate() error {
	if m.ID == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if !m.Sender.Valid() {
		return &ValidationError{MessageID: m.ID, Field: "sender", Reason: fmt.Sprintf("unknown sender %q", m.Sender)}
	}
	seen := make(map[string]struct{}, len(m.Steps))
	for i, s := range m.Steps {
		if s.ID == "" {
			return &ValidationError{MessageID: m.ID, Field: fmt.Sprintf("steps[%d].id", i), Reason: "must not be empty"}
		}
		if _, dup := seen[s.ID]; dup {
			return &ValidationError{MessageID: m.ID, Field: fmt.Sprintf("steps[%d].id", i), Reason: fmt.Sprintf("duplicate step id %q", s.ID)}
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}
