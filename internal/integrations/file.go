// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package integrations

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jeranaias/steptrail/internal/util"
)

// FileStore reads a JSON array of connections from disk on every call.
// A missing file is an empty store.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

// Connections reads and decodes the file.
func (f *FileStore) Connections(ctx context.Context) ([]Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.path == "" {
		return nil, fmt.Errorf("%w: no path configured", ErrStoreUnavailable)
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return ParseConnections(data)
}

// Put atomically replaces the file contents.
func (f *FileStore) Put(ctx context.Context, conns []Connection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := EncodeConnections(conns)
	if err != nil {
		return fmt.Errorf("encode connections: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(f.path, data, 0o600, 0o700); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}
