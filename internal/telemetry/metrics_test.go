// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/steptrail/internal/integrations"
	"github.com/jeranaias/steptrail/internal/ui/sequence"
)

func TestRecordLookup(t *testing.T) {
	m := New()
	m.RecordLookup(integrations.OutcomeHit)
	m.RecordLookup(integrations.OutcomeHit)
	m.RecordLookup(integrations.OutcomeMiss)
	m.RecordLookup(integrations.OutcomeError)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.lookups.WithLabelValues(integrations.OutcomeHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues(integrations.OutcomeMiss)))

	s := m.Snapshot()
	assert.Equal(t, 2, s.LookupHits)
	assert.Equal(t, 1, s.LookupMisses)
	assert.Equal(t, 1, s.LookupErrors)
}

func TestObserveTransition(t *testing.T) {
	tests := []struct {
		name      string
		from, to  sequence.Phase
		started   int
		finished  int
		cancelled int
	}{
		{"completion shown", sequence.PhaseLoading, sequence.PhaseCompletionVisible, 1, 0, 0},
		{"hidden after fade", sequence.PhaseCompletionFadingOut, sequence.PhaseIdle, 0, 1, 0},
		{"loading resumes while visible", sequence.PhaseCompletionVisible, sequence.PhaseLoading, 0, 0, 1},
		{"loading resumes while fading", sequence.PhaseCompletionFadingOut, sequence.PhaseLoading, 0, 0, 1},
		{"plain loading", sequence.PhaseIdle, sequence.PhaseLoading, 0, 0, 0},
		{"no steps", sequence.PhaseLoading, sequence.PhaseIdle, 0, 0, 0},
		{"fade", sequence.PhaseCompletionVisible, sequence.PhaseCompletionFadingOut, 0, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := New()
			m.ObserveTransition(1, tc.from, tc.to)
			s := m.Snapshot()
			assert.Equal(t, tc.started, s.SequencesStarted)
			assert.Equal(t, tc.finished, s.SequencesFinished)
			assert.Equal(t, tc.cancelled, s.SequencesCancelled)
		})
	}
}

func TestSequencerDrivesMetrics(t *testing.T) {
	m := New()
	var pending []sequence.TimerMsg
	seq := sequence.New(sequence.Options{
		OnTransition: m.ObserveTransition,
		Scheduler: func(_ time.Duration, msg tea.Msg) tea.Cmd {
			pending = append(pending, msg.(sequence.TimerMsg))
			return nil
		},
	})

	seq.Observe(true, true)
	seq.Observe(false, true)
	seq.Observe(true, true)
	seq.Observe(false, true)
	for _, tm := range pending {
		seq.Update(tm)
	}

	s := m.Snapshot()
	assert.Equal(t, 2, s.SequencesStarted)
	assert.Equal(t, 1, s.SequencesCancelled)
	assert.Equal(t, 1, s.SequencesFinished)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sequences.WithLabelValues(SequenceStarted)))
}

func TestRecordFrame(t *testing.T) {
	m := New()
	m.RecordFrame(0)
	m.RecordFrame(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.frames))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.skipped))
	assert.Equal(t, 2, m.Snapshot().MessagesSkipped)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordLookup(integrations.OutcomeHit)
	m.ObserveTransition(1, sequence.PhaseLoading, sequence.PhaseCompletionVisible)
	m.RecordFrame(3)
	assert.Equal(t, Stats{}, m.Snapshot())
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.RecordLookup(integrations.OutcomeMiss)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `steptrail_integration_lookups_total{outcome="miss"} 1`)
	assert.Contains(t, string(body), `steptrail_completion_sequences_total{event="started"} 0`)
}
