// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/steptrail/internal/config"
	"github.com/jeranaias/steptrail/internal/integrations"
	"github.com/jeranaias/steptrail/internal/markdown"
	"github.com/jeranaias/steptrail/internal/telemetry"
	"github.com/jeranaias/steptrail/internal/ui/components"
	"github.com/jeranaias/steptrail/internal/ui/sequence"
	"github.com/jeranaias/steptrail/internal/ui/styles"
)

// DefaultFPS is the animation tick rate when none is configured.
const DefaultFPS = 20

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the chat model. Zero fields take defaults.
type Options struct {
	Theme    *styles.Theme
	Renderer markdown.ContentRenderer

	// Store backs integration badges and the dock. Changes, when set,
	// signals that the store should be read again.
	Store   integrations.Store
	Changes <-chan struct{}

	Metrics *telemetry.Metrics

	Replay    components.ReplayMode
	Stagger   time.Duration
	FadeAfter time.Duration
	HideAfter time.Duration
	FPS       int

	// Scheduler, Now and Copy are replaced in tests and one-shot renders.
	Scheduler sequence.Scheduler
	Now       func() time.Time
	Copy      func(text string) error
}

// OptionsFromConfig maps the [ui] section onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Renderer:  markdown.NewContentRenderer(cfg.UI.Markdown),
		Replay:    components.ParseReplayMode(cfg.UI.Replay),
		Stagger:   cfg.UI.StepStagger.Duration,
		FadeAfter: cfg.UI.CompletionFadeAfter.Duration,
		HideAfter: cfg.UI.CompletionHideAfter.Duration,
		FPS:       cfg.UI.AnimationFPS,
	}
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the root Bubble Tea model. It shows the message list, the
// connected apps dock and a status bar.
type Model struct {
	theme *styles.Theme
	keys  KeyMap

	list *components.MessageListView
	dock *components.Dock

	store   integrations.Store
	changes <-chan struct{}
	metrics *telemetry.Metrics

	schedule sequence.Scheduler
	now      func() time.Time
	copy     func(string) error
	frame    time.Duration

	// Dimensions
	width  int
	height int

	// Animation loop
	ticking bool
	tickGen uint64

	// Feed state
	frames   int
	feedDone bool
	feedErr  error

	// Status line
	status    string
	statusErr bool
	showHelp  bool
}

// New creates the root model.
func New(opts Options) Model {
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme()
	}
	if opts.Store == nil {
		opts.Store = integrations.NewMemoryStore()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = sequence.TickScheduler
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.Replay == "" {
		opts.Replay = components.ReplayIndex
	}

	var lookupOpts []integrations.LookupOption
	if opts.Metrics != nil {
		lookupOpts = append(lookupOpts, integrations.WithRecorder(opts.Metrics))
	}

	seqOpts := sequence.Options{
		FadeAfter: opts.FadeAfter,
		HideAfter: opts.HideAfter,
		Scheduler: opts.Scheduler,
	}
	if opts.Metrics != nil {
		seqOpts.OnTransition = opts.Metrics.ObserveTransition
	}

	list := components.NewMessageListView(components.MessageViewOptions{
		Theme:    opts.Theme,
		Renderer: opts.Renderer,
		Icons:    integrations.NewLookup(opts.Store, lookupOpts...),
		Tracker:  components.NewRevealTracker(opts.Replay),
		Stagger:  opts.Stagger,
		Sequence: seqOpts,
	})

	return Model{
		theme:    opts.Theme,
		keys:     DefaultKeyMap(),
		list:     list,
		dock:     components.NewDock(opts.Theme),
		store:    opts.Store,
		changes:  opts.Changes,
		metrics:  opts.Metrics,
		schedule: opts.Scheduler,
		now:      opts.Now,
		copy:     opts.Copy,
		frame:    time.Second / time.Duration(opts.FPS),
	}
}

// Init loads the integration store and starts watching it.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadConnections(), m.waitForChange())
}

// List returns the message list.
func (m Model) List() *components.MessageListView {
	return m.list
}

// Dock returns the connected apps dock.
func (m Model) Dock() *components.Dock {
	return m.dock
}

// FeedDone reports whether the transcript feed has finished.
func (m Model) FeedDone() bool {
	return m.feedDone
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) loadConnections() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), integrations.DefaultLookupTimeout)
		defer cancel()
		conns, err := store.Connections(ctx)
		return ConnectionsLoadedMsg{Connections: conns, Err: err}
	}
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return StoreChangedMsg{}
	}
}

func (m Model) copyStep(stepID, content string) tea.Cmd {
	copyFn := m.copy
	return func() tea.Msg {
		return CopyCompleteMsg{StepID: stepID, Err: copyFn(content)}
	}
}

// startTicking begins the shared animation loop if something is animating
// and no loop is running.
func (m *Model) startTicking() tea.Cmd {
	if m.ticking || !m.list.Animating(m.now()) {
		return nil
	}
	m.ticking = true
	m.tickGen++
	return m.schedule(m.frame, AnimationTickMsg{Gen: m.tickGen})
}
