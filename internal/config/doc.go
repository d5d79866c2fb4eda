// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for steptrail.
//
// Configuration is TOML with sensible defaults, .env loading, environment
// variable overrides and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - UIConfig: Replay policy, animation timings, markdown renderer
//   - IntegrationsConfig: Integration-connections store backend
//   - Duration: time.Duration written as a string in TOML
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (STEPTRAIL_*), including those from .env
//   - --config path or ~/.steptrail/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	fade := cfg.UI.CompletionFadeAfter.Duration
package config
