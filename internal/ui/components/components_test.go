// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/steptrail/internal/integrations"
	"github.com/jeranaias/steptrail/internal/model"
	"github.com/jeranaias/steptrail/internal/ui/sequence"
	"github.com/jeranaias/steptrail/internal/ui/styles"
)

// epoch is a fixed instant used as "now" by view tests.
var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

// captureScheduler records scheduled timer messages instead of sleeping.
type captureScheduler struct {
	msgs []tea.Msg
}

func (c *captureScheduler) Schedule(_ time.Duration, msg tea.Msg) tea.Cmd {
	c.msgs = append(c.msgs, msg)
	return func() tea.Msg { return msg }
}

func (c *captureScheduler) kind(k sequence.TimerKind) sequence.TimerMsg {
	for i := len(c.msgs) - 1; i >= 0; i-- {
		if tm, ok := c.msgs[i].(sequence.TimerMsg); ok && tm.Kind == k {
			return tm
		}
	}
	return sequence.TimerMsg{}
}

func testIcons() IconSource {
	return integrations.NewLookup(integrations.NewMemoryStore(
		integrations.Connection{Integration: &integrations.Integration{
			ID: "1", UUID: "slack-uuid", Name: "slack", Icon: "https://cdn.example.com/slack.png",
		}},
		integrations.Connection{Integration: &integrations.Integration{
			ID: "2", UUID: "rocket-uuid", Name: "Rocket", Icon: "🚀",
		}},
		integrations.Connection{Integration: &integrations.Integration{
			ID: "3", UUID: "noicon-uuid", Name: "Notion",
		}},
	))
}

func testOptions(sched *captureScheduler) MessageViewOptions {
	opts := MessageViewOptions{
		Theme:   styles.NewTheme(),
		Icons:   testIcons(),
		Tracker: NewRevealTracker(ReplayIndex),
		Stagger: DefaultStepStagger,
	}
	if sched != nil {
		opts.Sequence.Scheduler = sched.Schedule
	}
	return opts
}

func assistant(id string, loading bool, steps ...model.Step) model.ChatMessage {
	return model.ChatMessage{
		ID:        id,
		Sender:    model.SenderAssistant,
		Timestamp: epoch,
		Steps:     steps,
		IsLoading: loading,
	}
}

func step(id, title string, status model.StepStatus) model.Step {
	return model.Step{ID: id, Title: title, Status: status}
}

// =============================================================================
// STATUS ICON TESTS
// =============================================================================

func TestResolveStatusIcon(t *testing.T) {
	tests := []struct {
		status model.StepStatus
		want   IconKind
		pulses bool
	}{
		{model.StepStatusCompleted, IconSuccess, false},
		{model.StepStatusRunning, IconPending, true},
		{model.StepStatusFailed, IconError, false},
		{model.StepStatusUnset, IconNeutral, false},
		{model.StepStatusUnknown, IconNeutral, false},
		{model.StepStatus("weird"), IconNeutral, false},
	}
	for _, tc := range tests {
		t.Run(tc.status.String(), func(t *testing.T) {
			got := ResolveStatusIcon(tc.status)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.pulses, got.Pulses())
			assert.NotEmpty(t, got.Glyph())
		})
	}
}

func TestIconGlyphs(t *testing.T) {
	assert.Equal(t, "[OK]", IconSuccess.Glyph())
	assert.Equal(t, "[X]", IconError.Glyph())
	assert.Equal(t, styles.StatusIndicators.Neutral, IconNeutral.Glyph())
	assert.Equal(t, 4, iconWidth)
}

func TestPendingIconRendersGlyphOnEveryFrame(t *testing.T) {
	theme := styles.NewTheme()
	for ms := 0; ms < 1000; ms += 100 {
		assert.Contains(t, IconPending.Render(theme, at(ms)), "[ ]")
	}
}

// =============================================================================
// BADGE TESTS
// =============================================================================

func TestResolveBadge(t *testing.T) {
	icons := testIcons()
	tests := []struct {
		name  string
		id    string
		kind  BadgeKind
		text  string
		title string
	}{
		{"no reference", "", BadgeDot, dotGlyph, ""},
		{"glyph icon", "rocket-uuid", BadgeGlyph, "🚀", "Rocket"},
		{"url icon falls back to letter", "slack-uuid", BadgeLetter, "S", "slack"},
		{"missing icon falls back to letter", "noicon-uuid", BadgeLetter, "N", "Notion"},
		{"numeric id", "2", BadgeGlyph, "🚀", "Rocket"},
		{"unknown reference", "nope", BadgeLetter, "?", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := ResolveBadge(icons, tc.id)
			assert.Equal(t, tc.kind, b.Kind)
			assert.Equal(t, tc.text, b.Text)
			assert.Equal(t, tc.title, b.Name)
		})
	}
}

func TestResolveBadgeStoreFailure(t *testing.T) {
	store := integrations.NewMemoryStore()
	store.Err = integrations.ErrMalformedStore
	b := ResolveBadge(integrations.NewLookup(store), "slack-uuid")
	assert.Equal(t, BadgeLetter, b.Kind)
	assert.Equal(t, "?", b.Text)

	b = ResolveBadge(nil, "slack-uuid")
	assert.Equal(t, "?", b.Text)
}

func TestInitialLetter(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"slack", "S"},
		{"  github", "G"},
		{"", "?"},
		{"   ", "?"},
		{"élan", "É"},
		{"ñandu", "Ñ"},
		{"日本", "日"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, InitialLetter(tc.in), "InitialLetter(%q)", tc.in)
	}
}

func TestBadgeRenderStages(t *testing.T) {
	theme := styles.NewTheme()
	b := Badge{Kind: BadgeLetter, Text: "S", Name: "slack"}
	assert.Equal(t, "   ", b.Render(theme, styles.RevealHidden))
	assert.Contains(t, b.Render(theme, styles.RevealFading), "S")
	assert.Contains(t, b.Render(theme, styles.RevealVisible), "S")
	assert.Equal(t, 3, b.Width())
}

// =============================================================================
// STEP VIEW TESTS
// =============================================================================

func TestEntranceDelay(t *testing.T) {
	explicit := 750 * time.Millisecond
	zero := time.Duration(0)
	negative := -time.Second

	tests := []struct {
		name  string
		step  model.Step
		index int
		want  time.Duration
	}{
		{"first step", model.Step{}, 0, 0},
		{"index times stagger", model.Step{}, 3, 300 * time.Millisecond},
		{"explicit delay", model.Step{AnimationDelay: &explicit}, 3, explicit},
		{"explicit zero is honoured", model.Step{AnimationDelay: &zero}, 5, 0},
		{"negative clamps to zero", model.Step{AnimationDelay: &negative}, 5, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EntranceDelay(tc.step, tc.index, DefaultStepStagger))
		})
	}
}

func TestStepLabel(t *testing.T) {
	tests := []struct {
		name string
		step model.Step
		want string
	}{
		{"action type wins", model.Step{Title: "Step 1: Search", Actions: []model.Action{{Type: "send_email"}}}, "send_email"},
		{"prefix stripped", model.Step{Title: "Step 12:   Fetch data"}, "Fetch data"},
		{"prefix only at start", model.Step{Title: "Then Step 1: go"}, "Then Step 1: go"},
		{"plain title", model.Step{Title: "Summarise"}, "Summarise"},
		{"default", model.Step{}, DefaultStepLabel},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StepLabel(tc.step))
		})
	}
}

func TestStepViewEntranceStagger(t *testing.T) {
	v := StepView{
		Step:    step("s1", "Step 1: Fetch data", model.StepStatusCompleted),
		Index:   0,
		Epoch:   epoch,
		Stagger: DefaultStepStagger,
		Badge:   Badge{Kind: BadgeDot, Text: dotGlyph},
		Theme:   styles.NewTheme(),
	}

	row := v.View(at(50), 80)
	assert.NotEmpty(t, row, "row is drawn from its delay")
	assert.NotContains(t, row, "[OK]", "icon waits for its offset")
	assert.NotContains(t, row, "Fetch data")

	assert.Contains(t, v.View(at(100), 80), "[OK]")
	assert.NotContains(t, v.View(at(299), 80), "Fetch data")
	assert.Contains(t, v.View(at(300), 80), "Fetch data")

	assert.False(t, v.Settled(at(699)))
	assert.True(t, v.Settled(at(700)))

	v.Index = 2
	assert.Empty(t, v.View(at(199), 80), "third step hidden before 200ms")
	assert.Contains(t, v.View(at(500), 80), "Fetch data")
}

func TestStepViewDetailPanel(t *testing.T) {
	v := StepView{
		Step:  model.Step{ID: "s1", Title: "Search", Content: "found **three** results"},
		Epoch: epoch,
		Badge: Badge{Kind: BadgeDot, Text: dotGlyph},
		Theme: styles.NewTheme(),
	}
	collapsed := v.View(at(2000), 80)
	assert.Contains(t, collapsed, chevronCollapsed)
	assert.NotContains(t, collapsed, "results")

	v.Expanded = true
	expanded := v.View(at(2000), 80)
	assert.Contains(t, expanded, chevronExpanded)
	assert.Contains(t, expanded, "results")
}

func TestStepViewTruncatesLabel(t *testing.T) {
	v := StepView{
		Step:  model.Step{ID: "s1", Title: "a very long title that will never fit in a narrow terminal row"},
		Epoch: epoch,
		Badge: Badge{Kind: BadgeDot, Text: dotGlyph},
		Theme: styles.NewTheme(),
	}
	row := v.View(at(2000), 40)
	assert.Contains(t, row, "...")
	assert.NotContains(t, row, "terminal row")
}

// =============================================================================
// REVEAL TRACKER TESTS
// =============================================================================

func TestParseReplayMode(t *testing.T) {
	assert.Equal(t, ReplayIdentity, ParseReplayMode(" Identity "))
	assert.Equal(t, ReplayIndex, ParseReplayMode("index"))
	assert.Equal(t, ReplayIndex, ParseReplayMode("bogus"))
}

func TestRevealTrackerIndexReplays(t *testing.T) {
	r := NewRevealTracker(ReplayIndex)
	assert.Equal(t, at(0), r.Epoch("m1", "s1", at(0)))
	assert.Equal(t, at(0), r.Epoch("m1", "s1", at(500)), "first sighting sticks")
	assert.Equal(t, at(400), r.Epoch("m1", "s2", at(400)))

	r.Remount(at(1000))
	assert.Equal(t, at(1000), r.Epoch("m1", "s1", at(2000)))
	assert.Equal(t, at(1000), r.Epoch("m1", "s2", at(2000)))
}

func TestRevealTrackerIdentityDoesNotReplay(t *testing.T) {
	r := NewRevealTracker(ReplayIdentity)
	r.Epoch("m1", "s1", at(0))
	r.Remount(at(1000))
	assert.Equal(t, at(0), r.Epoch("m1", "s1", at(2000)))
	assert.Equal(t, at(2000), r.Epoch("m1", "s2", at(2000)), "new ids still animate")
}

func TestRevealTrackerForget(t *testing.T) {
	r := NewRevealTracker(ReplayIndex)
	r.Epoch("m1", "s1", at(0))
	r.Epoch("m1", "s2", at(0))
	r.Epoch("m10", "s1", at(0))

	r.Forget("m1")
	assert.False(t, r.Seen("m1", "s1"))
	assert.True(t, r.Seen("m10", "s1"))
	assert.Equal(t, 1, r.Len())
}

// =============================================================================
// MESSAGE VIEW TESTS
// =============================================================================

func TestUserMessageRendersContentOnly(t *testing.T) {
	msg := model.NewUserMessage("hello **there**")
	msg.IsLoading = true
	msg.Steps = []model.Step{step("s1", "ignored", model.StepStatusRunning)}

	v, cmd := NewMessageView(msg, testOptions(nil), epoch)
	assert.Nil(t, cmd)

	out := v.View(at(5000), 80)
	assert.Contains(t, out, "there")
	assert.NotContains(t, out, LoadingTitle)
	assert.NotContains(t, out, DotsLabel)
	assert.NotContains(t, out, "Execution Steps")
	assert.Equal(t, sequence.DirectiveNone, v.Directive())
	assert.False(t, v.Animating(epoch))
}

func TestAssistantLoadingPanelThenThreeDots(t *testing.T) {
	v, _ := NewMessageView(assistant("m1", true), testOptions(nil), epoch)

	out := v.View(at(10), 80)
	assert.Contains(t, out, LoadingTitle)
	assert.Contains(t, out, LoadingSubtitle)
	assert.NotContains(t, out, DotsLabel)
	assert.Equal(t, sequence.DirectiveFullPanelLoading, v.Directive())

	v.SetMessage(assistant("m1", true, step("s1", "Step 1: Search", model.StepStatusRunning)), at(100))
	out = v.View(at(200), 80)
	assert.NotContains(t, out, LoadingTitle)
	assert.Contains(t, out, DotsLabel)
	assert.Contains(t, out, "Execution Steps (1)")
	assert.Equal(t, sequence.DirectiveThreeDots, v.Directive())
	assert.True(t, v.Animating(at(200)))
}

func TestAssistantCompletionLifecycle(t *testing.T) {
	sched := &captureScheduler{}
	steps := []model.Step{step("s1", "Search", model.StepStatusCompleted)}

	v, _ := NewMessageView(assistant("m1", true, steps...), testOptions(sched), epoch)
	cmd := v.SetMessage(assistant("m1", false, steps...), at(1000))
	require.NotNil(t, cmd)

	assert.Contains(t, v.View(at(1500), 80), CompletionLabel)
	assert.Equal(t, sequence.DirectiveCompletion, v.Directive())

	assert.True(t, v.Update(sched.kind(sequence.TimerFade)))
	assert.Equal(t, sequence.DirectiveCompletionFading, v.Directive())
	assert.Contains(t, v.View(at(3600), 80), CompletionLabel)

	assert.True(t, v.Update(sched.kind(sequence.TimerHide)))
	assert.Equal(t, sequence.DirectiveNone, v.Directive())
	assert.NotContains(t, v.View(at(4100), 80), CompletionLabel)
}

func TestHistoricalMessageStaysIdle(t *testing.T) {
	steps := []model.Step{step("s1", "Search", model.StepStatusCompleted)}
	v, cmd := NewMessageView(assistant("m1", false, steps...), testOptions(nil), epoch)
	assert.Nil(t, cmd)
	assert.Equal(t, sequence.DirectiveNone, v.Directive())
	assert.NotContains(t, v.View(at(5000), 80), CompletionLabel)
}

func TestExpansionSurvivesStepReplacement(t *testing.T) {
	v, _ := NewMessageView(assistant("m1", true,
		model.Step{ID: "s1", Title: "Search", Content: "first draft"},
	), testOptions(nil), epoch)

	v.Toggle("s1")
	require.True(t, v.IsExpanded("s1"))

	v.SetMessage(assistant("m1", true,
		model.Step{ID: "s1", Title: "Search", Content: "final answer"},
		model.Step{ID: "s2", Title: "Reply"},
	), at(100))

	assert.True(t, v.IsExpanded("s1"))
	assert.False(t, v.IsExpanded("s2"))
	out := v.View(at(5000), 80)
	assert.Contains(t, out, "final answer")
	assert.Contains(t, out, "Execution Steps (2)")
}

func TestToggleAllAndCursor(t *testing.T) {
	v, _ := NewMessageView(assistant("m1", false,
		step("s1", "One", model.StepStatusCompleted),
		step("s2", "Two", model.StepStatusCompleted),
	), testOptions(nil), epoch)

	v.ToggleAll()
	assert.True(t, v.IsExpanded("s1"))
	assert.True(t, v.IsExpanded("s2"))
	v.ToggleAll()
	assert.False(t, v.IsExpanded("s1"))

	assert.True(t, v.MoveCursor(1))
	assert.False(t, v.MoveCursor(1))
	st, ok := v.FocusedStep()
	require.True(t, ok)
	assert.Equal(t, "s2", st.ID)

	v.ToggleFocused()
	assert.True(t, v.IsExpanded("s2"))
}

func TestMessageViewResolvesIntegrationBadge(t *testing.T) {
	v, _ := NewMessageView(assistant("m1", false,
		model.Step{ID: "s1", Title: "Post", IntegrationID: "slack-uuid"},
	), testOptions(nil), epoch)
	assert.Contains(t, v.View(at(5000), 80), " S ")
}

// =============================================================================
// MESSAGE LIST TESTS
// =============================================================================

func TestMessageListUpsertOrderAndRemove(t *testing.T) {
	sched := &captureScheduler{}
	l := NewMessageListView(testOptions(sched))
	l.SetSize(80, 40)

	l.Upsert(model.ChatMessage{ID: "u1", Sender: model.SenderUser, Content: "question"}, epoch)
	l.Upsert(assistant("a1", true, step("s1", "Search", model.StepStatusRunning)), epoch)
	require.Equal(t, 2, l.Len())

	out := l.Render(at(5000), 80)
	assert.Less(t, indexOfText(out, "question"), indexOfText(out, "Execution Steps (1)"))

	l.Upsert(assistant("a1", false, step("s1", "Search", model.StepStatusCompleted)), at(1000))
	hide := sched.kind(sequence.TimerHide)

	assert.True(t, l.Remove("a1"))
	assert.False(t, l.Remove("a1"))
	_, changed := l.Update(hide)
	assert.False(t, changed, "removed message ignores its timers")
	assert.Equal(t, 1, l.Len())
}

func TestMessageListRoutesTimers(t *testing.T) {
	sched := &captureScheduler{}
	l := NewMessageListView(testOptions(sched))
	steps := []model.Step{step("s1", "Search", model.StepStatusCompleted)}

	l.Upsert(assistant("a1", true, steps...), epoch)
	l.Upsert(assistant("a1", false, steps...), at(500))

	_, changed := l.Update(sched.kind(sequence.TimerFade))
	assert.True(t, changed)
	v, ok := l.MessageView("a1")
	require.True(t, ok)
	assert.Equal(t, sequence.PhaseCompletionFadingOut, v.Sequencer().Phase())

	_, changed = l.Update(sequence.TimerMsg{SequencerID: -1})
	assert.False(t, changed)
}

func TestMessageListCursorCrossesMessages(t *testing.T) {
	l := NewMessageListView(testOptions(nil))
	l.Upsert(assistant("a1", false, step("s1", "One", ""), step("s2", "Two", "")), epoch)
	l.Upsert(model.ChatMessage{ID: "u1", Sender: model.SenderUser, Content: "next"}, epoch)
	l.Upsert(assistant("a2", false, step("s3", "Three", "")), epoch)

	l.MoveCursor(1)
	st, ok := l.FocusedStep()
	require.True(t, ok)
	assert.Equal(t, "s3", st.ID, "first move lands on the latest step")

	l.MoveCursor(-1)
	st, _ = l.FocusedStep()
	assert.Equal(t, "s2", st.ID)

	l.MoveCursor(-1)
	st, _ = l.FocusedStep()
	assert.Equal(t, "s1", st.ID)

	l.MoveCursor(-1)
	st, _ = l.FocusedStep()
	assert.Equal(t, "s1", st.ID, "cursor stops at the first step")

	l.ToggleFocused()
	v, _ := l.MessageView("a1")
	assert.True(t, v.IsExpanded("s1"))
}

func TestMessageListRemountReplaysAnimations(t *testing.T) {
	l := NewMessageListView(testOptions(nil))
	l.Upsert(assistant("a1", false, step("s1", "Fetch data", "")), epoch)
	require.Contains(t, l.Render(at(2000), 80), "Fetch data")

	l.Remount(at(3000))
	assert.NotContains(t, l.Render(at(3100), 80), "Fetch data")
	assert.Contains(t, l.Render(at(3400), 80), "Fetch data")
}

func TestMessageListClearDisposes(t *testing.T) {
	l := NewMessageListView(testOptions(nil))
	l.Upsert(assistant("a1", true), epoch)
	v, _ := l.MessageView("a1")
	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, v.Sequencer().Observe(false, true), "disposed sequencer ignores input")
}

func indexOfText(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

// =============================================================================
// DOCK TESTS
// =============================================================================

func dockConns() []integrations.Connection {
	return []integrations.Connection{
		{Integration: &integrations.Integration{UUID: "slack-uuid", Name: "Slack"}, ConnectedAt: "2025-02-26T12:00:00Z"},
		{Integration: &integrations.Integration{UUID: "gh-uuid", Name: "GitHub", Icon: "🐙"}},
		{Integration: nil},
	}
}

func TestDockEmptyState(t *testing.T) {
	d := NewDock(styles.NewTheme())
	out := d.View(epoch)
	assert.Contains(t, out, DockEmptyText)
	assert.Contains(t, out, DockConnectCTA)
}

func TestDockListsApps(t *testing.T) {
	d := NewDock(styles.NewTheme())
	d.SetWidth(100)
	d.SetConnections(dockConns())
	require.Equal(t, 2, d.Len())

	out := d.View(epoch)
	assert.Contains(t, out, DockTitle)
	assert.Contains(t, out, "2 apps")
	assert.Contains(t, out, "Slack")
	assert.Contains(t, out, "GitHub")
	assert.Contains(t, out, "3 days ago")
}

func TestDockKeys(t *testing.T) {
	d := NewDock(styles.NewTheme())
	d.SetConnections(dockConns())

	enter := tea.KeyMsg{Type: tea.KeyEnter}
	assert.Nil(t, d.Update(enter), "unfocused dock ignores keys")

	d.SetFocused(true)
	msg := d.Update(enter)()
	click, ok := msg.(AppClickMsg)
	require.True(t, ok)
	assert.Equal(t, "slack-uuid", click.Connection.Key())

	d.Update(tea.KeyMsg{Type: tea.KeyRight})
	settings, ok := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})().(AppSettingsMsg)
	require.True(t, ok)
	assert.Equal(t, "gh-uuid", settings.Connection.Key())

	_, ok = d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})().(AddAppMsg)
	assert.True(t, ok)

	d.SetConnections(nil)
	_, ok = d.Update(enter)().(AddAppMsg)
	assert.True(t, ok, "enter on the empty dock connects an app")
}
