// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package integrations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// FlexibleID accepts a JSON number or string.
type FlexibleID string

// UnmarshalJSON decodes either form.
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("integration id: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

// MarshalJSON writes canonical integers as numbers. Forms such as "007"
// or "+5" stay strings so the output is valid JSON.
func (id FlexibleID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// AuthStructure describes how credentials are attached to requests.
type AuthStructure struct {
	Name   string `json:"name"`
	Loc    string `json:"loc"`
	Format string `json:"format"`
}

// Integration is the catalogue entry for an external service.
type Integration struct {
	ID            FlexibleID     `json:"id"`
	UUID          string         `json:"uuid"`
	Name          string         `json:"name"`
	Icon          string         `json:"icon"`
	Description   string         `json:"description,omitempty"`
	Limit         int            `json:"limit,omitempty"`
	AuthStructure *AuthStructure `json:"auth_structure,omitempty"`
	Created       string         `json:"created,omitempty"`
}

// Connection is one connected integration as stored by the chat front end.
type Connection struct {
	Integration *Integration      `json:"integration"`
	Headers     map[string]string `json:"headers,omitempty"`
	APIBase     string            `json:"api_base,omitempty"`
	ConnectedAt string            `json:"connectedAt,omitempty"`
}

// Key returns the identifier a connection is stored under.
func (c Connection) Key() string {
	if c.Integration == nil {
		return ""
	}
	if c.Integration.UUID != "" {
		return c.Integration.UUID
	}
	return string(c.Integration.ID)
}

// Connected parses ConnectedAt. The zero time means unknown.
func (c Connection) Connected() time.Time {
	if c.ConnectedAt == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02"} {
		if t, err := time.Parse(layout, c.ConnectedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseConnections decodes the JSON array format. Empty input is an empty
// list.
func ParseConnections(data []byte) ([]Connection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var conns []Connection
	if err := json.Unmarshal(data, &conns); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStore, err)
	}
	return conns, nil
}

// EncodeConnections encodes connections in the JSON array format.
func EncodeConnections(conns []Connection) ([]byte, error) {
	if conns == nil {
		conns = []Connection{}
	}
	return json.MarshalIndent(conns, "", "  ")
}
