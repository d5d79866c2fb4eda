// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry counts what the renderer does and optionally exposes
// the counters to Prometheus.
//
// # Key Types
//
//   - Metrics: counters for completion sequences, integration lookups and
//     transcript frames, plus an in-process Stats snapshot
//
// Metrics implements integrations.Recorder, and ObserveTransition plugs into
// sequence.Options.OnTransition. A nil *Metrics is a valid no-op.
//
// # Usage
//
//	m := telemetry.New()
//	lookup := integrations.NewLookup(store, integrations.WithRecorder(m))
//	opts := sequence.Options{OnTransition: m.ObserveTransition}
//	go m.Serve(ctx, ":9464")
//
// # Privacy
//
// Counters are local. Nothing is exported unless a metrics address is set.
package telemetry
