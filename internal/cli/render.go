// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// render.go - One-shot rendering of a transcript at a chosen instant.

package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/steptrail/internal/feed"
	"github.com/jeranaias/steptrail/internal/ui/chat"
	"github.com/jeranaias/steptrail/internal/util"
)

type renderFlags struct {
	at     string
	width  int
	output string
}

func newRenderCmd(a *app) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <transcript>",
		Short: "Render a transcript as it looks at one instant",
		Long: `Replay a transcript on a simulated clock and print the screen at --at.
Completion timers fire on the simulated clock, so the output is repeatable.
Without --at the instant is the last frame's offset.`,
		Example: `  steptrail render session.yaml --at 1500ms
  steptrail render session.json --at 4s --width 100 --output frame.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript, err := feed.Load(args[0])
			if err != nil {
				return err
			}

			at := transcript.Duration()
			if flags.at != "" {
				at, err = parseOffset(flags.at)
				if err != nil {
					return err
				}
			}

			width := flags.width
			if width <= 0 {
				width = GetTerminalWidth()
			}

			store, closer, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer closer.Close()

			opts := chat.OptionsFromConfig(a.cfg)
			opts.Store = store
			out := chat.RenderAt(transcript, at, width, opts) + "\n"

			if flags.output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if err := util.AtomicWriteFile(flags.output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", flags.output, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), SuccessStyle.Render("wrote "+flags.output))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.at, "at", "", "Offset to render, e.g. 1500ms or 2s (plain numbers are milliseconds)")
	cmd.Flags().IntVar(&flags.width, "width", 0, "Render width (default: terminal width)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

// parseOffset accepts a Go duration or a plain number of milliseconds.
func parseOffset(s string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return 0, &UsageError{Field: "--at", Value: s, Reason: "must not be negative"}
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &UsageError{Field: "--at", Value: s, Reason: "expected a duration like 1500ms"}
	}
	if d < 0 {
		return 0, &UsageError{Field: "--at", Value: s, Reason: "must not be negative"}
	}
	return d, nil
}
