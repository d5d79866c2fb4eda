// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the steptrail command tree.
//
// # Commands
//
//   - run: replay a transcript in the interactive TUI
//   - render: print a transcript as it looks at one instant
//   - lookup: resolve an integration reference
//   - connections list|import: inspect or seed the integration store
//   - config show|get|path: inspect the effective configuration
//   - version: print build information
//
// # Usage
//
//	os.Exit(cli.Execute(ctx, os.Args[1:]))
//
// Every command returns an error instead of exiting. Execute prints it once
// and maps it to an exit code with GetExitCode.
package cli
