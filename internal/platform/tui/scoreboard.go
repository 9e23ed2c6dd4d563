package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/retro-snake/internal/leaderboard"
	"github.com/vovakirdan/retro-snake/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show the tab sidebar
	sidebarWidth       = 20
	recentRunsLimit    = 50
)

type scoreTab int

const (
	tabLeaderboard scoreTab = iota
	tabRecent
	tabCount
)

func (t scoreTab) String() string {
	if t == tabRecent {
		return "Recent Runs"
	}
	return "Leaderboard"
}

// RunsMsg carries recent runs loaded from the local store.
type RunsMsg []storage.Run

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Refresh, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Refresh, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next view"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev view"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the leaderboard and the local run history.
type ScoreboardModel struct {
	board       *leaderboard.Board
	store       *storage.Store
	tab         scoreTab
	entries     []leaderboard.Entry
	source      leaderboard.Source
	runs        []storage.Run
	loading     bool
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewScoreboardModel creates a new scoreboard model. Either backend may be nil.
func NewScoreboardModel(board *leaderboard.Board, store *storage.Store, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		board:       board,
		store:       store,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
		loading:     board != nil,
	}
	if board != nil {
		m.entries = board.Entries()
		m.source = board.Source()
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

func (m *ScoreboardModel) columns() []table.Column {
	if m.tab == tabRecent {
		return []table.Column{
			{Title: "Name", Width: 14},
			{Title: "Score", Width: 7},
			{Title: "Len", Width: 5},
			{Title: "Time", Width: 7},
			{Title: "Date", Width: 14},
		}
	}
	nameWidth := 20
	if avail := m.tableWidth() - 20; avail > nameWidth {
		nameWidth = min(avail, 30)
	}
	return []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Name", Width: nameWidth},
		{Title: "Score", Width: 10},
	}
}

func (m *ScoreboardModel) tableWidth() int {
	w := m.width - 4 // Margins
	if m.showSidebar {
		w -= sidebarWidth + 3
	}
	return w
}

func (m *ScoreboardModel) createTable() table.Model {
	height := m.height - 8 // Header, help and margins
	if height < 3 {
		height = 10
	}
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *ScoreboardModel) updateTableRows() {
	var rows []table.Row
	switch m.tab {
	case tabRecent:
		rows = make([]table.Row, len(m.runs))
		for i, r := range m.runs {
			name := r.Name
			if name == "" {
				name = "-"
			}
			rows[i] = table.Row{
				name,
				fmt.Sprintf("%d", r.Score),
				fmt.Sprintf("%d", r.Length),
				r.Duration.Round(time.Second).String(),
				r.CreatedAt.Local().Format("Jan 02 15:04"),
			}
		}
	default:
		rows = make([]table.Row, len(m.entries))
		for i, e := range m.entries {
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				e.Name,
				fmt.Sprintf("%d", e.Score),
			}
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) switchTab(t scoreTab) tea.Cmd {
	m.tab = t
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	m.updateTableRows()
	return m.load()
}

// load fetches data for the current tab.
func (m *ScoreboardModel) load() tea.Cmd {
	if m.tab == tabRecent {
		return loadRunsCmd(m.store)
	}
	if m.board == nil {
		return nil
	}
	m.loading = true
	return refreshScoresCmd(m.board)
}

func loadRunsCmd(store *storage.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		runs, err := store.RecentRuns(recentRunsLimit)
		if err != nil {
			return RunsMsg(nil)
		}
		return RunsMsg(runs)
	}
}

// Init loads the leaderboard.
func (m ScoreboardModel) Init() tea.Cmd {
	return refreshScoresCmd(m.board)
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (ScoreboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case ScoresMsg:
		m.entries = msg.Entries
		m.source = msg.Source
		m.loading = false
		if m.tab == tabLeaderboard {
			m.updateTableRows()
		}
		return m, nil

	case RunsMsg:
		m.runs = msg
		if m.tab == tabRecent {
			m.updateTableRows()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		case key.Matches(msg, m.keys.NextTab):
			return m, m.switchTab((m.tab + 1) % tabCount)
		case key.Matches(msg, m.keys.PrevTab):
			return m, m.switchTab((m.tab + tabCount - 1) % tabCount)
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "HIGH SCORES"
	if m.tab == tabRecent {
		title = "RECENT RUNS"
	} else if m.source != leaderboard.SourceNone {
		title = fmt.Sprintf("HIGH SCORES - %s", m.source)
	}
	b.WriteString(titleStyle.MarginBottom(1).Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ScoreboardModel) renderWideLayout() string {
	var sidebar strings.Builder
	sidebar.WriteString("Views\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for t := range tabCount {
		cursor := "  "
		style := lipgloss.NewStyle()
		if t == m.tab {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + t.String()))
		sidebar.WriteString("\n")
	}

	side := panelStyle.Width(sidebarWidth).Render(sidebar.String())
	tbl := panelStyle.Render(m.renderTableContent())
	return lipgloss.JoinHorizontal(lipgloss.Top, side, "  ", tbl)
}

func (m ScoreboardModel) renderNarrowLayout() string {
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, 0, tabCount)
	for t := range tabCount {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, dimStyle.Render(" "+t.String()+" "))
		}
	}

	var b strings.Builder
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(panelStyle.Render(m.renderTableContent()), m.width))
	return b.String()
}

func (m ScoreboardModel) renderTableContent() string {
	empty := len(m.entries) == 0
	if m.tab == tabRecent {
		empty = len(m.runs) == 0
	}
	if !empty {
		return m.table.View()
	}

	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)
	if m.loading && m.tab == tabLeaderboard {
		return emptyStyle.Render("Loading scores...")
	}
	return emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// scoreboardProgram adapts ScoreboardModel to tea.Model for standalone use.
type scoreboardProgram struct {
	ScoreboardModel
}

func (p scoreboardProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := p.ScoreboardModel.Update(msg)
	p.ScoreboardModel = m
	if m.IsQuitting() || m.IsGoingBack() {
		return p, tea.Quit
	}
	return p, cmd
}

// RunScoreboard runs the scoreboard screen on its own.
func RunScoreboard(board *leaderboard.Board, store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		scoreboardProgram{NewScoreboardModel(board, store, width, height)},
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
