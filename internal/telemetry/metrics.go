// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jeranaias/steptrail/internal/integrations"
	"github.com/jeranaias/steptrail/internal/ui/sequence"
)

const namespace = "steptrail"

// Sequence events.
const (
	SequenceStarted   = "started"
	SequenceCancelled = "cancelled"
	SequenceFinished  = "finished"
)

// =============================================================================
// METRICS
// =============================================================================

// Stats is a point-in-time copy of the counters.
type Stats struct {
	StartTime time.Time

	SequencesStarted   int
	SequencesCancelled int
	SequencesFinished  int

	LookupHits   int
	LookupMisses int
	LookupErrors int

	FramesApplied   int
	MessagesSkipped int
}

// Metrics records renderer activity.
type Metrics struct {
	registry *prometheus.Registry

	sequences *prometheus.CounterVec
	lookups   *prometheus.CounterVec
	frames    prometheus.Counter
	skipped   prometheus.Counter

	mu    sync.RWMutex
	stats Stats
}

// New creates metrics registered on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sequences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_sequences_total",
			Help:      "Completion sequences by event (started, cancelled, finished).",
		}, []string{"event"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integration_lookups_total",
			Help:      "Integration lookups by outcome (hit, miss, error).",
		}, []string{"outcome"}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_frames_total",
			Help:      "Transcript frames applied.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_invalid_messages_total",
			Help:      "Transcript messages skipped because they failed validation.",
		}),
		stats: Stats{StartTime: time.Now()},
	}
	m.registry.MustRegister(m.sequences, m.lookups, m.frames, m.skipped)

	// Expose every label so dashboards see zeros before the first event.
	for _, ev := range []string{SequenceStarted, SequenceCancelled, SequenceFinished} {
		m.sequences.WithLabelValues(ev)
	}
	for _, o := range []string{integrations.OutcomeHit, integrations.OutcomeMiss, integrations.OutcomeError} {
		m.lookups.WithLabelValues(o)
	}
	return m
}

// Registry returns the registry holding the counters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordLookup counts one integration lookup.
func (m *Metrics) RecordLookup(outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	switch outcome {
	case integrations.OutcomeHit:
		m.stats.LookupHits++
	case integrations.OutcomeMiss:
		m.stats.LookupMisses++
	default:
		m.stats.LookupErrors++
	}
}

// ObserveTransition classifies a sequencer phase change. A sequence starts
// when its completion badge appears, finishes when it hides, and is
// cancelled when loading resumes before it hides.
func (m *Metrics) ObserveTransition(_ int64, from, to sequence.Phase) {
	if m == nil {
		return
	}
	var event string
	switch {
	case to == sequence.PhaseCompletionVisible:
		event = SequenceStarted
	case from == sequence.PhaseCompletionFadingOut && to == sequence.PhaseIdle:
		event = SequenceFinished
	case to == sequence.PhaseLoading &&
		(from == sequence.PhaseCompletionVisible || from == sequence.PhaseCompletionFadingOut):
		event = SequenceCancelled
	default:
		return
	}
	m.sequences.WithLabelValues(event).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	switch event {
	case SequenceStarted:
		m.stats.SequencesStarted++
	case SequenceFinished:
		m.stats.SequencesFinished++
	case SequenceCancelled:
		m.stats.SequencesCancelled++
	}
}

// RecordFrame counts one applied transcript frame and the messages it
// skipped.
func (m *Metrics) RecordFrame(skipped int) {
	if m == nil {
		return
	}
	m.frames.Inc()
	if skipped > 0 {
		m.skipped.Add(float64(skipped))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.FramesApplied++
	m.stats.MessagesSkipped += skipped
}

// Snapshot returns a copy of the counters.
func (m *Metrics) Snapshot() Stats {
	if m == nil {
		return Stats{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}
