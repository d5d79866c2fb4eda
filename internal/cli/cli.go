// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Root command, global flags and shared setup for steptrail.

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jeranaias/steptrail/internal/config"
	"github.com/jeranaias/steptrail/internal/integrations"
	"github.com/jeranaias/steptrail/internal/logging"
	"github.com/jeranaias/steptrail/internal/ui/styles"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	configPath  string
	logLevel    string
	metricsAddr string
	theme       string
}

// app is the state built by the root command before a subcommand runs.
type app struct {
	flags   rootFlags
	cfg     *config.Config
	logFile io.Closer
}

// NewRootCmd creates the steptrail command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "steptrail",
		Short: "steptrail - step-by-step assistant replies in the terminal",
		Long: `steptrail renders conversations whose assistant replies are ordered lists
of steps. Each step shows a status, an integration badge and a collapsible
detail panel, with loading and completion indicators around them.`,
		Example: `  steptrail run session.yaml
  steptrail render session.json --at 1500ms
  steptrail lookup 8f2c6a1e-slack`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.logFile != nil {
				return a.logFile.Close()
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "Path to config file (default: ~/.steptrail/config.toml)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&a.flags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")
	pf.StringVar(&a.flags.theme, "theme", "", "Color theme: auto, dark, light")

	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newRenderCmd(a))
	cmd.AddCommand(newLookupCmd(a))
	cmd.AddCommand(newConnectionsCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the command tree with args and returns the process exit
// code. Errors are written to stderr once.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		DisplayError(cmd.ErrOrStderr(), err)
	}
	return GetExitCode(err)
}

// setup loads .env and the config, applies flag overrides and starts
// logging. Logs go to the configured file since stdout belongs to the UI;
// stderr is the fallback.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return &configError{err}
	}

	var (
		cfg *config.Config
		err error
	)
	if a.flags.configPath != "" {
		cfg, err = config.LoadFromPath(a.flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return &configError{err}
	}

	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	if a.flags.metricsAddr != "" {
		cfg.Metrics.Addr = a.flags.metricsAddr
	}
	if a.flags.theme != "" {
		cfg.UI.Theme = a.flags.theme
	}
	if err := cfg.Validate(); err != nil {
		return &configError{fmt.Errorf("invalid flags: %w", err)}
	}
	a.cfg = cfg
	config.SetGlobal(cfg)

	closer, err := logging.InitFile(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		logging.Init(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
		logging.WithError(err).Warn("log file unavailable; logging to stderr")
	} else {
		a.logFile = closer
	}

	styles.ApplyTheme(cfg.UI.Theme)
	logging.WithField("command", cmd.Name()).Debug("steptrail starting")
	return nil
}

// openStore opens the configured integration store. watch only applies to
// the file backend.
func (a *app) openStore(watch bool) (integrations.WritableStore, io.Closer, error) {
	store, closer, err := integrations.Open(integrations.Options{
		Backend: a.cfg.Integrations.Backend,
		Path:    a.cfg.Integrations.Path,
		Watch:   watch && a.cfg.Integrations.Watch,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open integration store: %w", err)
	}
	return store, closer, nil
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "steptrail %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
			return nil
		},
	}
}
