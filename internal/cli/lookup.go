// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// lookup.go - Integration lookup and connection store commands.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/steptrail/internal/integrations"
	"github.com/jeranaias/steptrail/internal/ui/components"
)

// =============================================================================
// LOOKUP
// =============================================================================

func newLookupCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lookup <integration-id>",
		Short: "Resolve an integration reference the way step badges do",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			store, closer, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer closer.Close()

			lookup := integrations.NewLookup(store)
			in, ok := lookup.Resolve(id)
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "not found")
				return &NotFoundError{Resource: "integration", ID: id}
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(in)
			}

			badge := components.ResolveBadge(lookup, id)
			fmt.Fprintln(out, RenderField("name", in.Name))
			fmt.Fprintln(out, RenderField("icon", orDash(in.Icon)))
			fmt.Fprintln(out, RenderField("uuid", orDash(in.UUID)))
			fmt.Fprintln(out, RenderField("id", orDash(string(in.ID))))
			fmt.Fprintln(out, RenderField("badge", badge.Kind.String()+" "+badge.Text))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the integration as JSON")
	return cmd
}

// =============================================================================
// CONNECTIONS
// =============================================================================

func newConnectionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connections",
		Short: "Inspect or seed the integration store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List connected apps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closer, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer closer.Close()

			conns, err := store.Connections(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(conns) == 0 {
				fmt.Fprintln(out, DimStyle.Render(components.DockEmptyText))
				return nil
			}
			fmt.Fprintln(out, TitleStyle.Render(fmt.Sprintf("%s (%d)", components.DockTitle, len(conns))))
			for _, c := range conns {
				name := c.Key()
				if c.Integration != nil && c.Integration.Name != "" {
					name = c.Integration.Name
				}
				when := "unknown"
				if at := c.Connected(); !at.IsZero() {
					when = humanize.Time(at)
				}
				fmt.Fprintln(out, RenderField(name, DimStyle.Render("connected "+when)))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Replace the store's connections with a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conns, err := readConnections(args[0])
			if err != nil {
				return err
			}
			store, closer, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer closer.Close()

			if err := store.Put(cmd.Context(), conns); err != nil {
				return fmt.Errorf("import connections: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(fmt.Sprintf("imported %d connections", len(conns))))
			return nil
		},
	})
	return cmd
}

func readConnections(path string) ([]integrations.Connection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read connections: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if data, err = yaml.YAMLToJSON(data); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	conns, err := integrations.ParseConnections(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return conns, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
