// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package integrations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrStoreUnavailable means the backing store could not be read.
	ErrStoreUnavailable = errors.New("integration store unavailable")

	// ErrMalformedStore means the store was read but could not be decoded.
	ErrMalformedStore = errors.New("integration store malformed")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown integration store backend")
)

// =============================================================================
// STORE INTERFACES
// =============================================================================

// Store is a read-only source of integration connections.
type Store interface {
	Connections(ctx context.Context) ([]Connection, error)
}

// WritableStore can replace its contents. Only the import command writes.
type WritableStore interface {
	Store
	Put(ctx context.Context, conns []Connection) error
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore keeps connections in memory. Err, when set, is returned from
// every read.
type MemoryStore struct {
	mu    sync.RWMutex
	conns []Connection
	Err   error
	reads int
}

// NewMemoryStore creates a store holding conns.
func NewMemoryStore(conns ...Connection) *MemoryStore {
	return &MemoryStore{conns: append([]Connection(nil), conns...)}
}

// Connections returns a copy of the stored connections.
func (m *MemoryStore) Connections(ctx context.Context) ([]Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]Connection(nil), m.conns...), nil
}

// Put replaces the stored connections.
func (m *MemoryStore) Put(ctx context.Context, conns []Connection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns = append([]Connection(nil), conns...)
	return nil
}

// Reads returns how many times Connections was called.
func (m *MemoryStore) Reads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads
}

// =============================================================================
// FACTORY
// =============================================================================

// Options selects and configures a backend.
type Options struct {
	// Backend is one of "file", "sqlite", "pebble" or "memory".
	Backend string
	Path    string

	// Watch caches file reads and invalidates them on change.
	Watch bool
}

// Open creates the configured store. The returned closer releases any
// handles; it is never nil.
func Open(opts Options) (WritableStore, io.Closer, error) {
	switch strings.ToLower(opts.Backend) {
	case "", "file":
		fs := NewFileStore(opts.Path)
		if !opts.Watch {
			return fs, nopCloser{}, nil
		}
		w, err := NewWatcher(fs)
		if err != nil {
			return nil, nil, err
		}
		return w, w, nil

	case "sqlite":
		s, err := OpenSQLiteStore(opts.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	case "pebble":
		p, err := OpenPebbleStore(opts.Path)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil

	case "memory":
		return NewMemoryStore(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
