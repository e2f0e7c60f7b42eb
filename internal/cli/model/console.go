// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/buildsel/internal/application/port"
	"github.com/bnema/buildsel/internal/application/state"
	"github.com/bnema/buildsel/internal/application/usecase"
	"github.com/bnema/buildsel/internal/cli/styles"
	"github.com/bnema/buildsel/internal/domain/entity"
	"github.com/bnema/buildsel/internal/domain/view"
	"github.com/bnema/buildsel/internal/infrastructure/notify"
	"github.com/bnema/buildsel/internal/logging"
)

// ConsoleModelConfig holds the dependencies of the console model.
type ConsoleModelConfig struct {
	Console    *state.Console
	Toasts     *notify.Queue
	Refresh    *usecase.RefreshBuildsUseCase
	Dispatcher *usecase.Dispatcher
	Opener     port.ClientOpener
	Debouncer  *state.Debouncer
	Resolver   port.ColorSchemeResolver

	// ClientURL is opened with the open-client key. Empty disables it.
	ClientURL  string
	ServerURL  string
	DateFormat string
}

// Messages delivered to the console model.
type (
	consoleChangedMsg struct{}
	toastsChangedMsg  struct{}
	loadedMsg         struct{ err error }
	actionDoneMsg     struct {
		action string
		err    error
	}
	schemeChangedMsg struct{ prefersDark bool }
)

// Bridge forwards state, toast and color scheme changes into the program.
// Listeners can fire while Update runs, so every Send happens on its own goroutine.
// The returned function detaches the listeners it could detach.
func Bridge(p *tea.Program, cfg ConsoleModelConfig) func() {
	detach := []func(){
		cfg.Console.OnChange(func(state.Change) { go p.Send(consoleChangedMsg{}) }),
	}
	if cfg.Toasts != nil {
		cfg.Toasts.OnChange(func() { go p.Send(toastsChangedMsg{}) })
	}
	if cfg.Resolver != nil {
		detach = append(detach, cfg.Resolver.OnChange(func(pref port.ColorSchemePreference) {
			go p.Send(schemeChangedMsg{prefersDark: pref.PrefersDark})
		}))
	}
	return func() {
		for _, fn := range detach {
			fn()
		}
	}
}

// ConsoleModel is the Bubble Tea model of the build console.
type ConsoleModel struct {
	// UI components
	help       help.Model
	keys       styles.ConsoleKeyMap
	searchKeys styles.SearchKeyMap
	table      table.Model
	search     textinput.Model
	tabs       styles.TabsModel
	spinner    spinner.Model

	// State
	loading   bool
	searching bool
	page      view.Page
	rows      []RowView
	counts    []int
	banner    BannerView
	fetchCtl  state.Control
	width     int
	height    int

	// Dependencies
	ctx   context.Context
	cfg   ConsoleModelConfig
	theme *styles.Theme
}

// NewConsoleModel creates the console model.
func NewConsoleModel(ctx context.Context, theme *styles.Theme, cfg ConsoleModelConfig) ConsoleModel {
	if cfg.Debouncer == nil {
		cfg.Debouncer = state.NewDebouncer(nil, state.DefaultSearchDebounce)
	}

	m := ConsoleModel{
		help:       styles.NewStyledHelp(theme),
		keys:       styles.DefaultConsoleKeyMap(),
		searchKeys: styles.DefaultSearchKeyMap(),
		table:      styles.NewStyledTable(theme, styles.BuildTableColumns(), nil, 104, 12),
		search:     styles.NewSearchInput(theme),
		tabs:       styles.FilterTabs(theme),
		spinner:    styles.NewDefaultSpinner(theme),
		loading:    true,
		width:      100,
		height:     30,
		ctx:        logging.WithComponent(ctx, "console"),
		cfg:        cfg,
		theme:      theme,
	}
	m.sync()
	return m
}

// Init starts the spinner and the initial load.
func (m ConsoleModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m ConsoleModel) load() tea.Cmd {
	ctx, uc := m.ctx, m.cfg.Refresh
	return func() tea.Msg {
		return loadedMsg{err: uc.Execute(ctx, usecase.RefreshBuildsInput{ResetPage: true})}
	}
}

// Update handles messages.
func (m ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetWidth(msg.Width - 4)
		m.table.SetHeight(max(5, msg.Height-16))
		return m, nil

	case consoleChangedMsg:
		m.sync()
		return m, nil

	case toastsChangedMsg:
		return m, nil

	case schemeChangedMsg:
		m.setTheme(styles.NewTheme(msg.prefersDark))
		return m, nil

	case loadedMsg:
		m.loading = false
		m.sync()
		return m, nil

	case actionDoneMsg:
		m.handleActionDone(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// sync re-derives everything the view shows from the console state.
func (m *ConsoleModel) sync() {
	c := m.cfg.Console
	snapshot := c.Snapshot()
	st := c.ViewState()

	m.page = view.Derive(snapshot, st, c.PageSize())
	m.rows = ProjectRows(m.page, c.Controls(), m.cfg.DateFormat)
	m.banner = ProjectBanner(snapshot)
	m.fetchCtl = c.Control(state.ControlFetchCurrent)

	m.counts = make([]int, 0, 3)
	for _, f := range []view.StatusFilter{view.FilterAll, view.FilterPatched, view.FilterPending} {
		all := view.Derive(snapshot, view.State{Search: st.Search, Filter: f, Page: 1}, c.PageSize())
		m.counts = append(m.counts, len(all.Filtered))
	}
	m.tabs.SetActive(filterIndex(st.Filter))

	tableRows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		tableRows = append(tableRows, r.TableRow())
	}
	m.table.SetRows(tableRows)
	// An empty table leaves the cursor at -1; pull it back once rows return.
	if n := len(tableRows); n > 0 {
		if cursor := m.table.Cursor(); cursor < 0 || cursor >= n {
			m.table.SetCursor(min(max(cursor, 0), n-1))
		}
	}
}

func filterIndex(f view.StatusFilter) int {
	switch f {
	case view.FilterPatched:
		return 1
	case view.FilterPending:
		return 2
	default:
		return 0
	}
}

func (m *ConsoleModel) setTheme(theme *styles.Theme) {
	m.theme = theme
	m.tabs.SetTheme(theme)
	styles.ApplyTableTheme(&m.table, theme)

	showAll := m.help.ShowAll
	m.help = styles.NewStyledHelp(theme)
	m.help.ShowAll = showAll
	m.help.Width = m.width

	styles.ApplySpinnerTheme(&m.spinner, theme)
	styles.ApplyInputTheme(&m.search, theme)
}

func (m *ConsoleModel) handleActionDone(msg actionDoneMsg) {
	if msg.err == nil {
		return
	}
	log := logging.FromContext(m.ctx)
	switch {
	case errors.Is(msg.err, usecase.ErrControlBusy):
		log.Debug().Str("action", msg.action).Msg("action ignored, control busy")
	case errors.Is(msg.err, usecase.ErrNotAllowed) && m.cfg.Toasts != nil:
		m.cfg.Toasts.Show(m.ctx, msg.err.Error(), port.NotificationWarning, 0)
	default:
		// The dispatcher has already notified the operator.
		log.Debug().Err(msg.err).Str("action", msg.action).Msg("action failed")
	}
}

func (m ConsoleModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.searchKeys.Accept):
		m.searching = false
		m.search.Blur()
		m.applySearch()
		return m, nil
	case key.Matches(msg, m.searchKeys.Cancel):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applySearch()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.applySearch()
	}
	return m, cmd
}

// applySearch hands the current input to the debouncer; only the last edit of a burst lands.
func (m *ConsoleModel) applySearch() {
	query := strings.TrimSpace(m.search.Value())
	console := m.cfg.Console
	m.cfg.Debouncer.Trigger(func() { console.SetSearch(query) })
}

func (m ConsoleModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.cfg.Console

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cfg.Debouncer.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		m.table.MoveUp(1)

	case key.Matches(msg, m.keys.Down):
		m.table.MoveDown(1)

	case key.Matches(msg, m.keys.PrevPage):
		if m.page.Number > 1 {
			c.SetPage(m.page.Number - 1)
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.page.Number < m.page.TotalPages {
			c.SetPage(m.page.Number + 1)
		}

	case key.Matches(msg, m.keys.JumpPage):
		if n, err := strconv.Atoi(msg.String()); err == nil {
			c.SetPage(n)
		}

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Filter):
		c.SetFilter(c.ViewState().Filter.Next())

	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()

	case key.Matches(msg, m.keys.FetchCurrent):
		return m, m.fetchCurrent()

	case key.Matches(msg, m.keys.Download):
		return m, m.perform(entity.ActionDownload)

	case key.Matches(msg, m.keys.Activate):
		return m, m.perform(entity.ActionActivate)

	case key.Matches(msg, m.keys.Repatch):
		return m, m.perform(entity.ActionRepatch)

	case key.Matches(msg, m.keys.OpenClient):
		return m, m.openClient()
	}

	return m, nil
}

func (m ConsoleModel) selected() (entity.Build, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.page.Rows) {
		return entity.Build{}, false
	}
	return m.page.Rows[i], true
}

func (m ConsoleModel) perform(action entity.Action) tea.Cmd {
	b, ok := m.selected()
	if !ok {
		return nil
	}
	ctx, d := m.ctx, m.cfg.Dispatcher
	return func() tea.Msg {
		return actionDoneMsg{action: action.String(), err: d.Perform(ctx, b, action)}
	}
}

func (m ConsoleModel) fetchCurrent() tea.Cmd {
	ctx, d := m.ctx, m.cfg.Dispatcher
	return func() tea.Msg {
		_, err := d.FetchCurrent(ctx)
		return actionDoneMsg{action: "fetch_current", err: err}
	}
}

func (m ConsoleModel) openClient() tea.Cmd {
	if m.cfg.Opener == nil || m.cfg.ClientURL == "" {
		return nil
	}
	ctx, opener, url, toasts := m.ctx, m.cfg.Opener, m.cfg.ClientURL, m.cfg.Toasts
	return func() tea.Msg {
		err := opener.Open(ctx, url)
		if err != nil && toasts != nil {
			toasts.Show(ctx, fmt.Sprintf("Failed to open client: %v", err), port.NotificationError, 0)
		}
		return actionDoneMsg{action: "open", err: err}
	}
}

// View renders the console.
func (m ConsoleModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBanner())
	b.WriteString("\n\n")
	b.WriteString(m.tabs.ViewWithCounts(m.counts))
	b.WriteString("  ")
	b.WriteString(m.theme.ActionButton(m.fetchCtl.Label, m.fetchCtl.Disabled))
	b.WriteString("\n")
	b.WriteString(m.theme.InputBox(m.search.View(), m.searching))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString("  " + m.theme.RenderLoading(m.spinner, LoadingMessage))
		b.WriteString("\n")
	case m.page.Empty():
		b.WriteString(m.theme.BannerEmpty.Render(EmptyMessage))
		b.WriteString("\n")
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		if pages := m.renderPages(); pages != "" {
			b.WriteString(pages)
			b.WriteString("\n")
		}
		b.WriteString(m.renderSelected())
		b.WriteString("\n")
	}

	if toasts := m.renderToasts(); toasts != "" {
		b.WriteString("\n")
		b.WriteString(toasts)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m ConsoleModel) renderHeader() string {
	title := m.theme.Title.Render(styles.IconPackage + " buildsel")
	if m.cfg.ServerURL == "" {
		return title
	}
	return title + "  " + m.theme.Subtle.Render(styles.IconServer+" "+m.cfg.ServerURL)
}

func (m ConsoleModel) renderBanner() string {
	if !m.banner.Active {
		return m.theme.BannerEmpty.Render(m.banner.Text)
	}
	return m.theme.Banner.Render(styles.IconPlay + " " + m.banner.Text)
}

func (m ConsoleModel) renderPages() string {
	buttons := PageButtons(m.page)
	if buttons == nil {
		return ""
	}
	parts := make([]string, 0, len(buttons))
	for _, p := range buttons {
		style := m.theme.PageOther
		if p.Current {
			style = m.theme.PageCurrent
		}
		parts = append(parts, style.Render(strconv.Itoa(p.Number)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// renderSelected shows the full hash and styled controls of the highlighted row.
func (m ConsoleModel) renderSelected() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return ""
	}
	row := m.rows[i]

	buttons := make([]string, 0, len(row.Buttons))
	for _, btn := range row.Buttons {
		buttons = append(buttons, m.theme.ActionButton(btn.Label, btn.Disabled))
	}
	return fmt.Sprintf("%s %s  %s  %s",
		m.theme.Subtle.Render(styles.IconCursor),
		m.theme.Normal.Render(row.Hash),
		m.theme.BuildBadges(row.Badges),
		strings.Join(buttons, " "),
	)
}

func (m ConsoleModel) renderToasts() string {
	if m.cfg.Toasts == nil {
		return ""
	}
	toasts := m.cfg.Toasts.Visible()
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		lines = append(lines, m.theme.RenderToast(t.Message, t.Type, t.Phase == notify.PhaseFading))
	}
	return strings.Join(lines, "\n")
}

// Ensure ConsoleModel implements tea.Model.
var _ tea.Model = ConsoleModel{}
