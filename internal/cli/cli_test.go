// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/steptrail/internal/config"
	"github.com/jeranaias/steptrail/internal/feed"
	"github.com/jeranaias/steptrail/internal/integrations"
	"github.com/jeranaias/steptrail/internal/ui/components"
)

// setupHome points the config directory at a temp dir.
func setupHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STEPTRAIL_HOME", dir)
	t.Cleanup(config.ResetGlobalForTesting)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const connectionsJSON = `[
  {"integration": {"id": 7, "uuid": "slack-uuid", "name": "Slack", "icon": "https://cdn.example.com/slack.png"},
   "connectedAt": "2024-01-01T00:00:00Z"},
  {"integration": {"id": "gh", "uuid": "github-uuid", "name": "GitHub", "icon": "🐙"}}
]`

const transcriptJSON = `[
  {"at_ms": 0, "messages": [{"id": "a1", "sender": "assistant", "isLoading": true}]},
  {"at_ms": 500, "messages": [{"id": "a1", "sender": "assistant", "isLoading": true,
    "steps": [{"id": "s1", "title": "Step 1: Search the web", "status": "completed", "integration_uuid": "slack-uuid"}]}]}
]`

// =============================================================================
// ROOT TESTS
// =============================================================================

func TestVersion(t *testing.T) {
	setupHome(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "steptrail "+Version)
}

func TestRootFlags_InvalidTheme(t *testing.T) {
	setupHome(t)
	_, err := execute(t, "--theme", "neon", "version")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
}

func TestRootFlags_ThemeOverride(t *testing.T) {
	setupHome(t)
	out, err := execute(t, "--theme", "dark", "config", "get", "ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestConfigCommands(t *testing.T) {
	dir := setupHome(t)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml")+"\n", out)

	out, err = execute(t, "config", "get", "ui.step_stagger")
	require.NoError(t, err)
	assert.Equal(t, "100ms\n", out)

	out, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[ui]")
	assert.Contains(t, out, `completion_fade_after = "2.5s"`)

	_, err = execute(t, "config", "get", "ui.nope")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestConfigFile(t *testing.T) {
	dir := setupHome(t)
	path := writeFile(t, dir, "custom.toml", "[ui]\nreplay = \"identity\"\n")

	out, err := execute(t, "--config", path, "config", "get", "ui.replay")
	require.NoError(t, err)
	assert.Equal(t, "identity\n", out)

	bad := writeFile(t, dir, "bad.toml", "[ui]\nbogus = 1\n")
	_, err = execute(t, "--config", bad, "version")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
}

// =============================================================================
// CONNECTIONS AND LOOKUP TESTS
// =============================================================================

func TestConnections_ImportListLookup(t *testing.T) {
	dir := setupHome(t)
	src := writeFile(t, dir, "conns.json", connectionsJSON)

	out, err := execute(t, "connections", "list")
	require.NoError(t, err)
	assert.Contains(t, out, components.DockEmptyText)

	out, err = execute(t, "connections", "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 connections")

	out, err = execute(t, "connections", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected Apps (2)")
	assert.Contains(t, out, "Slack")
	assert.Contains(t, out, "connected unknown")

	tests := []struct {
		name  string
		id    string
		want  []string
		found bool
	}{
		{"by uuid", "slack-uuid", []string{"Slack", "letter S"}, true},
		{"by numeric id", "7", []string{"Slack"}, true},
		{"glyph icon", "github-uuid", []string{"GitHub", "glyph 🐙"}, true},
		{"missing", "notion-uuid", []string{"not found"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "lookup", tt.id)
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			if tt.found {
				require.NoError(t, err)
				return
			}
			var nf *NotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, ExitNotFoundError, GetExitCode(err))
		})
	}

	out, err = execute(t, "lookup", "--json", "slack-uuid")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Slack"`)
	assert.Contains(t, out, `"id": 7`)
}

func TestConnections_ImportYAML(t *testing.T) {
	dir := setupHome(t)
	src := writeFile(t, dir, "conns.yaml", `
- integration:
    id: 3
    uuid: notion-uuid
    name: Notion
`)
	_, err := execute(t, "connections", "import", src)
	require.NoError(t, err)

	out, err := execute(t, "lookup", "notion-uuid")
	require.NoError(t, err)
	assert.Contains(t, out, "Notion")
}

func TestConnections_ImportMalformed(t *testing.T) {
	dir := setupHome(t)
	src := writeFile(t, dir, "conns.json", `{"not": "an array"}`)

	_, err := execute(t, "connections", "import", src)
	require.Error(t, err)
	assert.ErrorIs(t, err, integrations.ErrMalformedStore)
	assert.Equal(t, ExitStoreError, GetExitCode(err))
}

// =============================================================================
// RENDER TESTS
// =============================================================================

func TestRender(t *testing.T) {
	dir := setupHome(t)
	src := writeFile(t, dir, "session.json", transcriptJSON)

	out, err := execute(t, "render", src, "--at", "200", "--width", "100")
	require.NoError(t, err)
	assert.Contains(t, out, components.LoadingTitle)

	target := filepath.Join(dir, "frame.txt")
	_, err = execute(t, "render", src, "--at", "700ms", "--width", "100", "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Execution Steps (1)")
	assert.Contains(t, string(data), "Search the web")
}

func TestRender_Errors(t *testing.T) {
	dir := setupHome(t)
	src := writeFile(t, dir, "session.json", transcriptJSON)
	empty := writeFile(t, dir, "empty.json", `[]`)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"bad offset", []string{"render", src, "--at", "soon"}, ExitUsageError},
		{"negative offset", []string{"render", src, "--at", "-5"}, ExitUsageError},
		{"empty transcript", []string{"render", empty}, ExitInputError},
		{"missing transcript", []string{"render", filepath.Join(dir, "nope.json")}, ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, GetExitCode(err))
		})
	}
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"usage", &UsageError{Field: "--at", Value: "x", Reason: "bad"}, ExitUsageError},
		{"not found", &NotFoundError{Resource: "integration", ID: "x"}, ExitNotFoundError},
		{"config", &configError{errors.New("bad")}, ExitConfigError},
		{"validation", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}, ExitConfigError},
		{"store", integrations.ErrStoreUnavailable, ExitStoreError},
		{"transcript", feed.ErrEmptyTranscript, ExitInputError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, &NotFoundError{Resource: "integration", ID: "x"})
	assert.Contains(t, buf.String(), "[ERROR] integration not found: x")

	buf.Reset()
	DisplayError(&buf, nil)
	assert.Empty(t, buf.String())
}
