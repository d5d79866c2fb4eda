// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import "strings"

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a chat message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// Valid reports whether the sender is one of the known values.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAssistant:
		return "Assistant"
	default:
		return string(s)
	}
}

// =============================================================================
// STEP STATUS TYPE
// =============================================================================

// StepStatus is the execution status of a single step.
// The zero value means the status was never set.
type StepStatus string

const (
	StepStatusUnset     StepStatus = ""
	StepStatusRunning   StepStatus = "running"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"

	// StepStatusUnknown is what any unrecognised wire value decodes to.
	StepStatusUnknown StepStatus = "unknown"
)

// ParseStepStatus normalises a wire value.
func ParseStepStatus(s string) StepStatus {
	switch st := StepStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StepStatusUnset, StepStatusRunning, StepStatusCompleted, StepStatusFailed:
		return st
	default:
		return StepStatusUnknown
	}
}

// Known reports whether the status is running, completed or failed.
func (s StepStatus) Known() bool {
	switch s {
	case StepStatusRunning, StepStatusCompleted, StepStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s StepStatus) String() string {
	if s == StepStatusUnset {
		return "unset"
	}
	return string(s)
}
