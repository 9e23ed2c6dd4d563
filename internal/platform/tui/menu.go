package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/retro-snake/internal/config"
	"github.com/vovakirdan/retro-snake/internal/core"
)

// MenuChoice is what the player picked from the main menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceScores
	ChoiceQuit
)

const (
	itemPlay = iota
	itemDifficulty
	itemScores
	itemQuit
	itemCount
)

// The empty preset keeps the configured speed.
var difficulties = []config.DifficultyPreset{
	"",
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	cursor     int
	difficulty int // Index into difficulties, 0 keeps the configured speed
	width      int
	height     int
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	choice     MenuChoice
}

// NewMenuModel creates a new menu model with the given starting preset.
func NewMenuModel(cfg core.RuntimeConfig, preset config.DifficultyPreset) MenuModel {
	idx := 0
	for i, d := range difficulties {
		if d == preset {
			idx = i
		}
	}
	return MenuModel{
		difficulty: idx,
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (MenuModel, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.choice = ChoiceQuit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < itemCount-1 {
			m.cursor++
		}
	case MenuActionLeft:
		if m.cursor == itemDifficulty {
			m.difficulty = (m.difficulty + len(difficulties) - 1) % len(difficulties)
		}
	case MenuActionRight:
		if m.cursor == itemDifficulty {
			m.difficulty = (m.difficulty + 1) % len(difficulties)
		}
	case MenuActionScoreboard:
		m.choice = ChoiceScores
	case MenuActionSelect:
		switch m.cursor {
		case itemPlay:
			m.choice = ChoicePlay
		case itemDifficulty:
			m.difficulty = (m.difficulty + 1) % len(difficulties)
		case itemScores:
			m.choice = ChoiceScores
		case itemQuit:
			m.choice = ChoiceQuit
		}
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("S N A K E"), m.width))
	b.WriteString("\n\n")

	items := []string{
		"Play",
		fmt.Sprintf("Difficulty: < %s >", difficultyLabel(m.Difficulty())),
		"High Scores",
		"Quit",
	}
	for i, item := range items {
		line := "  " + item
		if i == m.cursor {
			line = accentStyle.Render("> " + item)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Choice returns the selection, ChoiceNone while the menu is open.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

func difficultyLabel(p config.DifficultyPreset) string {
	if p == "" {
		return "config"
	}
	return string(p)
}

// Difficulty returns the selected preset, empty for the configured speed.
func (m MenuModel) Difficulty() config.DifficultyPreset {
	return difficulties[m.difficulty]
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
