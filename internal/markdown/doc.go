// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown converts step and message content into typed nodes and
// renders those nodes as escaped HTML or styled terminal text.
//
// Parsing is done by goldmark's CommonMark parser; its AST is mapped onto the
// small Node vocabulary defined here so renderers never see raw source.
//
// # Usage
//
//	nodes := markdown.Parse("**Done** with `build`")
//	html := markdown.RenderHTML(nodes)
//	term := markdown.NewTerminalRenderer().Render(nodes, 60)
//
// Every renderer escapes text. Content cannot inject markup or escape
// sequences of its own.
package markdown
