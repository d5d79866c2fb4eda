// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// run.go - The interactive TUI command.

package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/steptrail/internal/feed"
	"github.com/jeranaias/steptrail/internal/integrations"
	"github.com/jeranaias/steptrail/internal/logging"
	"github.com/jeranaias/steptrail/internal/telemetry"
	"github.com/jeranaias/steptrail/internal/ui/chat"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [transcript]",
		Short: "Replay a transcript in the interactive TUI",
		Long: `Start the TUI and replay a JSON or YAML transcript on its frame offsets.
Without a transcript the TUI starts empty.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var transcript *feed.Transcript
			if len(args) == 1 {
				t, err := feed.Load(args[0])
				if err != nil {
					return err
				}
				transcript = t
			}
			return a.runTUI(cmd.Context(), transcript)
		},
	}
}

func (a *app) runTUI(ctx context.Context, transcript *feed.Transcript) error {
	store, closer, err := a.openStore(true)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics := telemetry.New()
	if addr := a.cfg.Metrics.Addr; addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr); err != nil {
				logging.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	opts := chat.OptionsFromConfig(a.cfg)
	opts.Store = store
	opts.Metrics = metrics
	if w, ok := store.(*integrations.Watcher); ok {
		opts.Changes = w.Changes()
	}

	p := tea.NewProgram(chat.New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if transcript != nil {
		player := feed.NewPlayer(transcript, feed.WithRate(a.cfg.Feed.MaxRate, a.cfg.Feed.Burst))
		go func() {
			if err := player.Run(ctx, p); err != nil && !errors.Is(err, context.Canceled) {
				logging.WithError(err).Warn("transcript replay stopped")
			}
		}()
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run TUI: %w", err)
	}

	stats := metrics.Snapshot()
	logging.WithFields(map[string]interface{}{
		"frames":    stats.FramesApplied,
		"skipped":   stats.MessagesSkipped,
		"sequences": stats.SequencesFinished,
		"lookups":   stats.LookupHits + stats.LookupMisses,
	}).Info("session finished")
	return nil
}
