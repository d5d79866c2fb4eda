// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package integrations

import (
	"context"
	"errors"
	"time"

	"github.com/jeranaias/steptrail/internal/logging"
)

// Lookup outcomes passed to a Recorder.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

// DefaultLookupTimeout bounds a single store read.
const DefaultLookupTimeout = 2 * time.Second

// Recorder receives one outcome per lookup.
type Recorder interface {
	RecordLookup(outcome string)
}

// =============================================================================
// LOOKUP
// =============================================================================

// Lookup resolves integration references against a Store.
type Lookup struct {
	store    Store
	timeout  time.Duration
	recorder Recorder
}

// LookupOption configures a Lookup.
type LookupOption func(*Lookup)

// WithTimeout bounds each store read.
func WithTimeout(d time.Duration) LookupOption {
	return func(l *Lookup) { l.timeout = d }
}

// WithRecorder reports lookup outcomes.
func WithRecorder(r Recorder) LookupOption {
	return func(l *Lookup) { l.recorder = r }
}

// NewLookup creates a lookup over store. A nil store makes every lookup a
// miss.
func NewLookup(store Store, opts ...LookupOption) *Lookup {
	l := &Lookup{store: store, timeout: DefaultLookupTimeout}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Icon returns the icon of the integration, if known and non-empty.
func (l *Lookup) Icon(id string) (string, bool) {
	in, ok := l.Resolve(id)
	if !ok || in.Icon == "" {
		return "", false
	}
	return in.Icon, true
}

// Name returns the display name of the integration, if known and non-empty.
func (l *Lookup) Name(id string) (string, bool) {
	in, ok := l.Resolve(id)
	if !ok || in.Name == "" {
		return "", false
	}
	return in.Name, true
}

// Resolve finds the integration whose uuid (then id) equals id. Store
// failures are logged and reported as not found.
func (l *Lookup) Resolve(id string) (Integration, bool) {
	if id == "" {
		return Integration{}, false
	}
	if l == nil || l.store == nil {
		l.record(OutcomeError)
		logging.WithField("integration", id).Debug("integration lookup without store")
		return Integration{}, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	conns, err := l.store.Connections(ctx)
	if err != nil {
		l.record(OutcomeError)
		entry := logging.WithError(err).WithField("integration", id)
		if errors.Is(err, ErrMalformedStore) {
			entry.Warn("integration store is malformed")
		} else {
			entry.Warn("integration store read failed")
		}
		return Integration{}, false
	}

	if in, ok := match(conns, id); ok {
		l.record(OutcomeHit)
		return in, true
	}
	l.record(OutcomeMiss)
	logging.WithField("integration", id).Debug("integration not connected")
	return Integration{}, false
}

// match scans by uuid first and numeric/string id second. Records without
// an integration are skipped.
func match(conns []Connection, id string) (Integration, bool) {
	for _, c := range conns {
		if c.Integration != nil && c.Integration.UUID == id {
			return *c.Integration, true
		}
	}
	for _, c := range conns {
		if c.Integration != nil && string(c.Integration.ID) == id {
			return *c.Integration, true
		}
	}
	return Integration{}, false
}

func (l *Lookup) record(outcome string) {
	if l != nil && l.recorder != nil {
		l.recorder.RecordLookup(outcome)
	}
}
