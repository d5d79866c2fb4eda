// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble"
)

// pebblePrefix namespaces connection records.
var pebblePrefix = []byte("integration/")

// PebbleStore keeps one JSON connection record per key.
type PebbleStore struct {
	db *pebble.DB
}

// OpenPebbleStore opens (or creates) the database directory at path.
func OpenPebbleStore(path string) (*PebbleStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no path configured", ErrStoreUnavailable)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &PebbleStore{db: db}, nil
}

// Connections scans every record under the prefix in key order. One bad
// record fails the whole read.
func (p *PebbleStore) Connections(ctx context.Context) ([]Connection, error) {
	it, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: pebblePrefix,
		UpperBound: prefixEnd(pebblePrefix),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer it.Close()

	var conns []Connection
	for ok := it.First(); ok; ok = it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var c Connection
		if err := json.Unmarshal(it.Value(), &c); err != nil {
			return nil, fmt.Errorf("%w: key %s: %v", ErrMalformedStore, it.Key(), err)
		}
		conns = append(conns, c)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return conns, nil
}

// Put replaces all records with conns in one batch.
func (p *PebbleStore) Put(ctx context.Context, conns []Connection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	batch := p.db.NewBatch()
	defer batch.Close()

	if err := batch.DeleteRange(pebblePrefix, prefixEnd(pebblePrefix), nil); err != nil {
		return fmt.Errorf("clear connections: %w", err)
	}
	for i, c := range conns {
		key := c.Key()
		if key == "" {
			return fmt.Errorf("connection %d has no integration id", i)
		}
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode connection %s: %w", key, err)
		}
		if err := batch.Set(append(append([]byte(nil), pebblePrefix...), key...), data, nil); err != nil {
			return fmt.Errorf("store connection %s: %w", key, err)
		}
	}
	return batch.Commit(pebble.Sync)
}

// setRaw stores value verbatim under the record key for id.
func (p *PebbleStore) setRaw(id string, value []byte) error {
	return p.db.Set(append(append([]byte(nil), pebblePrefix...), id...), value, pebble.Sync)
}

// Close closes the database.
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
