// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across steptrail.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth: Cell-width aware truncation for terminal layout
//   - PadRight, Blank: Width-preserving padding
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	label := util.TruncateWidth(title, 40)
//	err := util.AtomicWriteFile(path, data, 0o600)
package util
