package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/retro-snake/internal/config"
	"github.com/vovakirdan/retro-snake/internal/core"
)

type screenKind int

const (
	screenMenu screenKind = iota
	screenGame
	screenScores
)

// SessionModel manages the full session flow: menu -> game or scores -> menu.
// It is the top-level model for both local play and SSH sessions.
type SessionModel struct {
	deps     *Deps
	config   core.RuntimeConfig
	username string
	seed     int64 // Fixed seed for the first game, 0 for random

	screen   screenKind
	menu     MenuModel
	game     *GameModel
	scores   ScoreboardModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps *Deps, cfg core.RuntimeConfig, username string, preset config.DifficultyPreset) SessionModel {
	return SessionModel{
		deps:     deps,
		config:   cfg,
		username: username,
		seed:     cfg.Seed,
		menu:     NewMenuModel(cfg, preset),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)

	switch m.menu.Choice() {
	case ChoiceQuit:
		m.quitting = true
		return m, tea.Quit

	case ChoicePlay:
		deps := *m.deps
		if preset := m.menu.Difficulty(); preset != "" {
			config.ApplySnakePreset(&deps.Config, preset)
		}

		cfg := m.config
		cfg.Seed = m.seed
		if cfg.Seed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		m.seed = 0 // Later rounds from the menu are random

		game := NewGameModel(&deps, cfg, m.username)
		m.game = &game
		m.screen = screenGame
		return m, m.game.Init()

	case ChoiceScores:
		m.scores = NewScoreboardModel(m.deps.Board, m.deps.Store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScores
		return m, m.scores.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	game, cmd := m.game.Update(msg)
	m.game = &game

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.scores, cmd = m.scores.Update(msg)

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	preset := m.menu.Difficulty()
	m.game = nil
	m.screen = screenMenu
	m.menu = NewMenuModel(m.config, preset)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// Stop releases the running game, if any.
func (m SessionModel) Stop() {
	if m.game != nil {
		m.game.Stop()
	}
}

// Run starts a local session on the current terminal and blocks until it ends.
// player prefills the leaderboard name prompt.
func Run(deps *Deps, cfg core.RuntimeConfig, player string, preset config.DifficultyPreset) error {
	p := tea.NewProgram(
		NewSessionModel(deps, cfg, player, preset),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if sm, ok := final.(SessionModel); ok {
		sm.Stop()
	}
	return err
}
