package model

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/buildsel/internal/application/port"
	"github.com/bnema/buildsel/internal/application/state"
	"github.com/bnema/buildsel/internal/application/usecase"
	"github.com/bnema/buildsel/internal/cli/styles"
	"github.com/bnema/buildsel/internal/domain/entity"
	"github.com/bnema/buildsel/internal/domain/view"
	"github.com/bnema/buildsel/internal/infrastructure/api"
	"github.com/bnema/buildsel/internal/infrastructure/notify"
	"github.com/bnema/buildsel/internal/logging"
	"github.com/bnema/buildsel/internal/testutil"
)

type consoleHarness struct {
	clock   *clockwork.FakeClock
	server  *testutil.BuildServer
	console *state.Console
	toasts  *notify.Queue
	model   ConsoleModel
}

func newConsoleHarness(t *testing.T, pageSize int, builds ...entity.Build) *consoleHarness {
	t.Helper()

	ctx, cancel := context.WithCancel(logging.WithContext(context.Background(), logging.NewFromConfigValues("error", "console")))
	t.Cleanup(cancel)

	server := testutil.NewBuildServer(t, builds...)
	client, err := api.NewClient(server.URL)
	require.NoError(t, err)

	clock := clockwork.NewFakeClock()
	console := state.NewConsole(pageSize)
	toasts := notify.NewQueue(clock)
	refresh := usecase.NewRefreshBuildsUseCase(client, console, toasts, nil)
	poller := usecase.NewPoller(client, console, toasts, clock, nil, usecase.PollerConfig{
		Interval: 3 * time.Second,
		Timeout:  30 * time.Second,
	})
	dispatcher := usecase.NewDispatcher(client, console, toasts, poller, refresh, nil, clock, nil, usecase.DispatcherConfig{})

	m := NewConsoleModel(ctx, styles.NewTheme(true), ConsoleModelConfig{
		Console:    console,
		Toasts:     toasts,
		Refresh:    refresh,
		Dispatcher: dispatcher,
		Debouncer:  state.NewDebouncer(clock, 200*time.Millisecond),
		ServerURL:  server.URL,
	})

	return &consoleHarness{clock: clock, server: server, console: console, toasts: toasts, model: m}
}

func (h *consoleHarness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(ConsoleModel)
	return cmd
}

// run executes cmd and feeds its message back into the model.
func (h *consoleHarness) run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	h.send(msg)
	return msg
}

func (h *consoleHarness) load(t *testing.T) {
	t.Helper()
	msg := h.run(t, h.model.load())
	require.NoError(t, msg.(loadedMsg).err)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func consoleBuilds() []entity.Build {
	return []entity.Build{
		{BuildHash: hash('a'), Channel: "stable"},
		{BuildHash: hash('b'), Channel: "stable", IsPatched: true},
		{BuildHash: hash('c'), Channel: "beta", IsPatched: true, IsActive: true},
	}
}

func TestConsoleModel_LoadsAndRenders(t *testing.T) {
	h := newConsoleHarness(t, 2, consoleBuilds()...)
	assert.Contains(t, h.model.View(), LoadingMessage)

	h.load(t)
	out := h.model.View()

	assert.NotContains(t, out, LoadingMessage)
	assert.Contains(t, out, "aaaaaaaaaaaa...")
	assert.Contains(t, out, "bbbbbbbbbbbb...")
	require.Len(t, h.model.rows, 2, "third build is on page 2")
	assert.Equal(t, hash('a'), h.model.rows[0].Hash)
	assert.Equal(t, hash('b'), h.model.rows[1].Hash)
	assert.Contains(t, out, "cccccccccccccccc...", "banner names the active build")
	assert.Contains(t, out, state.LabelFetchCurrent)
	assert.Equal(t, []int{3, 2, 1}, h.model.counts)
}

func TestConsoleModel_EmptyState(t *testing.T) {
	h := newConsoleHarness(t, 50)
	h.load(t)

	out := h.model.View()
	assert.Contains(t, out, EmptyMessage)
	assert.Contains(t, out, NoActiveBuildMessage)
	assert.Nil(t, PageButtons(h.model.page))
}

func TestConsoleModel_LoadFailureKeepsSnapshot(t *testing.T) {
	h := newConsoleHarness(t, 50, consoleBuilds()...)
	h.load(t)

	h.server.Override(testutil.RouteList, testutil.Response{Status: 500, Body: "boom"})
	msg := h.run(t, h.send(runes("R")))
	require.Error(t, msg.(loadedMsg).err)

	assert.Len(t, h.console.Snapshot(), 3)
	toasts := h.toasts.Visible()
	require.NotEmpty(t, toasts)
	assert.True(t, toasts[0].Type.IsError())
	assert.Contains(t, h.model.View(), "Failed to load builds")
}

func TestConsoleModel_FilterAndPaging(t *testing.T) {
	h := newConsoleHarness(t, 2, consoleBuilds()...)
	h.load(t)

	h.send(runes("l"))
	h.send(consoleChangedMsg{})
	assert.Equal(t, 2, h.console.ViewState().Page)
	assert.Equal(t, 2, h.model.page.Number)

	h.send(runes("f"))
	h.send(consoleChangedMsg{})
	st := h.console.ViewState()
	assert.Equal(t, view.FilterPatched, st.Filter)
	assert.Equal(t, 1, st.Page, "changing the filter returns to page 1")
	assert.Equal(t, 1, h.model.tabs.Active)

	h.send(runes("f"))
	h.send(runes("f"))
	assert.Equal(t, view.FilterAll, h.console.ViewState().Filter)

	h.send(runes("9"))
	assert.Equal(t, 2, h.console.ViewState().Page, "page jumps are clamped")
}

func TestConsoleModel_SearchIsDebounced(t *testing.T) {
	h := newConsoleHarness(t, 50, consoleBuilds()...)
	h.load(t)

	h.send(runes("/"))
	require.True(t, h.model.searching)
	h.send(runes("B"))
	h.send(runes("B"))
	assert.Empty(t, h.console.ViewState().Search)

	h.clock.Advance(199 * time.Millisecond)
	assert.Empty(t, h.console.ViewState().Search)

	h.clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool {
		return h.console.ViewState().Search == "BB"
	}, time.Second, 5*time.Millisecond)

	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, h.model.searching)

	h.send(consoleChangedMsg{})
	require.Len(t, h.model.rows, 1)
	assert.Equal(t, hash('b'), h.model.rows[0].Hash)
	assert.Equal(t, []int{1, 1, 0}, h.model.counts)
}

func TestConsoleModel_DownloadSelectedRow(t *testing.T) {
	h := newConsoleHarness(t, 50, consoleBuilds()...)
	h.load(t)

	assert.Equal(t, 0, h.model.table.Cursor(), "first row is selected right after load")

	msg := h.run(t, h.send(runes("d")))
	require.NoError(t, msg.(actionDoneMsg).err)

	reqs := h.server.RequestsFor(testutil.RouteDownload)
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Body, hash('a'))
	assert.True(t, h.console.Control(state.DownloadControl(hash('a'))).Disabled)

	h.send(consoleChangedMsg{})
	assert.Contains(t, h.model.View(), state.LabelDownloading)
}

func TestConsoleModel_ActionNotAllowedWarns(t *testing.T) {
	h := newConsoleHarness(t, 50, consoleBuilds()...)
	h.load(t)

	h.send(runes("j"))
	b, ok := h.model.selected()
	require.True(t, ok)
	require.Equal(t, hash('b'), b.BuildHash, "patched build is selected")

	msg := h.run(t, h.send(runes("d")))
	require.ErrorIs(t, msg.(actionDoneMsg).err, usecase.ErrNotAllowed)

	assert.Empty(t, h.server.RequestsFor(testutil.RouteDownload))
	toasts := h.toasts.Visible()
	require.Len(t, toasts, 1)
	assert.Equal(t, port.NotificationWarning, toasts[0].Type)
}

func TestConsoleModel_SelectionSurvivesEmptyTable(t *testing.T) {
	h := newConsoleHarness(t, 50, consoleBuilds()...)
	h.load(t)

	h.console.SetSearch("zzz")
	h.send(consoleChangedMsg{})
	require.Empty(t, h.model.rows)
	_, ok := h.model.selected()
	assert.False(t, ok)

	h.console.SetSearch("")
	h.send(consoleChangedMsg{})
	require.Len(t, h.model.rows, 3)
	assert.Equal(t, 0, h.model.table.Cursor())

	b, ok := h.model.selected()
	require.True(t, ok)
	assert.Equal(t, hash('a'), b.BuildHash)
	assert.Contains(t, h.model.View(), hash('a'), "selected row detail shows the full hash")
}

func TestConsoleModel_FetchCurrentBusy(t *testing.T) {
	h := newConsoleHarness(t, 50, consoleBuilds()...)
	h.server.SetCurrent(hash('d'))
	h.load(t)

	msg := h.run(t, h.send(runes("F")))
	require.NoError(t, msg.(actionDoneMsg).err)

	h.send(consoleChangedMsg{})
	assert.True(t, h.model.fetchCtl.Disabled)
	assert.Contains(t, h.model.View(), state.LabelFetching)

	msg = h.run(t, h.send(runes("F")))
	require.ErrorIs(t, msg.(actionDoneMsg).err, usecase.ErrControlBusy)
	assert.Len(t, h.server.RequestsFor(testutil.RouteFetchCurrent), 1)
}

func TestConsoleModel_SchemeChange(t *testing.T) {
	h := newConsoleHarness(t, 50)
	require.True(t, h.model.theme.Dark)

	h.send(schemeChangedMsg{prefersDark: false})
	assert.False(t, h.model.theme.Dark)
}

func TestConsoleModel_Quit(t *testing.T) {
	h := newConsoleHarness(t, 50)

	cmd := h.send(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
