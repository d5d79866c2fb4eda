// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/steptrail/internal/integrations"
)

// =============================================================================
// ANIMATION MESSAGES
// =============================================================================

// AnimationTickMsg redraws running animations. One tick loop is shared by
// every message; ticks from an earlier loop carry an old Gen and are dropped.
type AnimationTickMsg struct {
	Gen uint64
}

// =============================================================================
// INTEGRATION STORE MESSAGES
// =============================================================================

// ConnectionsLoadedMsg carries a fresh read of the integration store.
type ConnectionsLoadedMsg struct {
	Connections []integrations.Connection
	Err         error
}

// StoreChangedMsg reports that the integration store changed on disk.
type StoreChangedMsg struct{}

// =============================================================================
// COPY MESSAGES
// =============================================================================

// CopyCompleteMsg confirms a copy operation.
type CopyCompleteMsg struct {
	StepID string
	Err    error
}
