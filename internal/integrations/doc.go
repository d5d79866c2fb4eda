// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package integrations resolves integration references on steps to a
// display name and icon.
//
// Connections are read from a Store. The renderer only ever reads; writes
// exist for the import command and for tests. Several backends are provided:
//
//   - MemoryStore: in-process fake
//   - FileStore: JSON array on disk, optionally cached behind a Watcher
//   - SQLiteStore: key/value table holding the same JSON array
//   - PebbleStore: one JSON record per integration
//
// Lookup never fails loudly. Any store problem yields ("", false) and a
// log line, and the caller falls back to a letter badge.
package integrations
