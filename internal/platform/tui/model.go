package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/retro-snake/internal/config"
	"github.com/vovakirdan/retro-snake/internal/core"
	"github.com/vovakirdan/retro-snake/internal/games/snake"
	"github.com/vovakirdan/retro-snake/internal/leaderboard"
	"github.com/vovakirdan/retro-snake/internal/storage"
)

// Deps bundles the collaborators shared by every model of a session.
// Store and Board may be nil.
type Deps struct {
	Config config.SnakeConfig
	Store  *storage.Store
	Board  *leaderboard.Board
	Logger *log.Logger
	Source string // Recorded with each run: "tui" or "ssh"

	// Context bounds every game runner of the session. Nil means background.
	Context context.Context
}

func (d *Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.Default()
	}
	return d.Logger
}

type gamePhase int

const (
	phasePlaying gamePhase = iota
	phaseNaming            // Entering a name for the leaderboard
	phaseOver              // Showing results, waiting for restart
)

const sidePanelWidth = 26

// GameModel runs one snake game inside Bubble Tea.
type GameModel struct {
	deps   *Deps
	cfg    config.SnakeConfig
	seed   int64
	player string

	runner  *snake.Runner
	ctx     context.Context
	cancel  context.CancelFunc
	frames  frameSlot
	overCh  chan snake.RunSummary
	frame   snake.Frame
	hasDraw bool

	screen    *core.Screen
	keyMapper *KeyMapper
	help      help.Model
	name      textinput.Model

	phase   gamePhase
	summary snake.RunSummary
	scores  []leaderboard.Entry
	source  leaderboard.Source

	width      int
	height     int
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game model. seed 0 picks a time-based seed.
func NewGameModel(deps *Deps, cfg core.RuntimeConfig, player string) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	ti := textinput.New()
	ti.Placeholder = leaderboard.AnonymousName
	ti.CharLimit = 20
	ti.Width = sidePanelWidth - 6
	ti.Prompt = "> "

	h := help.New()
	h.ShowAll = false

	parent := deps.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	overCh := make(chan snake.RunSummary, 1)
	frames := newFrameSlot()

	game := snake.New(deps.Config, snake.WithSeed(cfg.Seed))
	runner := snake.NewRunner(game, frames,
		snake.WithLogger(deps.logger()),
		snake.WithGameOverHandler(func(s snake.RunSummary) {
			select {
			case overCh <- s:
			default:
			}
		}),
	)

	w, hgt := snake.MinScreenSize(deps.Config.Grid.Size)
	return GameModel{
		deps:      deps,
		cfg:       deps.Config,
		seed:      cfg.Seed,
		player:    player,
		runner:    runner,
		ctx:       ctx,
		cancel:    cancel,
		frames:    frames,
		overCh:    overCh,
		screen:    core.NewScreen(w, hgt),
		keyMapper: NewKeyMapper(),
		help:      h,
		name:      ti,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
	}
}

// Init starts the runner goroutine.
func (m GameModel) Init() tea.Cmd {
	go m.runner.Run(m.ctx) //nolint:errcheck // stopped through cancel

	return tea.Batch(
		waitForFrame(m.ctx, m.frames),
		waitForGameOver(m.ctx, m.overCh),
		refreshScoresCmd(m.deps.Board),
	)
}

// Stop shuts down the runner.
func (m GameModel) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (GameModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		m.frame = snake.Frame(msg)
		m.hasDraw = true
		return m, waitForFrame(m.ctx, m.frames)

	case GameOverMsg:
		return m.handleGameOver(snake.RunSummary(msg))

	case ScoresMsg:
		m.scores = msg.Entries
		m.source = msg.Source
		return m, nil

	case tea.KeyMsg:
		if m.phase == phaseNaming {
			return m.handleNameKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m GameModel) handleGameOver(sum snake.RunSummary) (GameModel, tea.Cmd) {
	m.summary = sum
	m.saveRun(sum, m.player)

	if sum.Score > 0 && m.deps.Board != nil {
		m.phase = phaseNaming
		m.name.SetValue(m.player)
		m.name.CursorEnd()
		return m, tea.Batch(m.name.Focus(), waitForGameOver(m.ctx, m.overCh))
	}
	m.phase = phaseOver
	return m, waitForGameOver(m.ctx, m.overCh)
}

func (m GameModel) saveRun(sum snake.RunSummary, name string) {
	if m.deps.Store == nil {
		return
	}
	_, err := m.deps.Store.SaveRun(storage.Run{
		Name:      name,
		Score:     sum.Score,
		Length:    sum.Length,
		Ticks:     sum.Ticks,
		FoodEaten: sum.FoodEaten,
		PowerUps:  sum.PowerUps,
		Duration:  sum.Duration,
		Seed:      sum.Seed,
		Source:    m.deps.Source,
	})
	if err != nil {
		m.deps.logger().Warn("cannot save run", "error", err)
	}
}

func (m GameModel) handleNameKey(msg tea.KeyMsg) (GameModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		m.Stop()
		return m, tea.Quit
	case "enter":
		name := leaderboard.NormalizeName(m.name.Value())
		m.name.Blur()
		m.phase = phaseOver
		return m, submitScoreCmd(m.deps.Board, name, m.summary.Score)
	case "esc":
		m.name.Blur()
		m.phase = phaseOver
		return m, nil
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m GameModel) handleKey(msg tea.KeyMsg) (GameModel, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		m.Stop()
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		if m.phase == phaseOver || m.frame.Paused {
			m.backToMenu = true
			m.Stop()
		}
		return m, nil
	case core.ActionRestart:
		m.phase = phasePlaying
		m.runner.Reset()
		return m, nil
	case core.ActionNone, core.ActionConfirm:
		return m, nil
	}

	if m.phase == phasePlaying {
		m.runner.Do(action)
	}
	return m, nil
}

// View renders the board with the side panel.
func (m GameModel) View() string {
	if m.quitting || !m.hasDraw {
		return ""
	}

	bw, bh := snake.MinScreenSize(m.cfg.Grid.Size)
	if m.width > 0 && (m.width < bw || m.height < bh) {
		m.screen.Resize(m.width, m.height)
		snake.DrawFrame(m.screen, m.frame)
		return RenderScreen(m.screen)
	}
	m.screen.Resize(bw, bh)
	snake.DrawFrame(m.screen, m.frame)

	board := RenderScreen(m.screen)
	side := m.sidePanel()

	var content string
	if m.width == 0 || m.width >= bw+sidePanelWidth+6 {
		content = lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", side)
	} else {
		content = board
	}
	content = lipgloss.JoinVertical(lipgloss.Left, content, dimStyle.Render(m.help.View(m.keyMapper.Keys())))

	if m.width == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m GameModel) sidePanel() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("S N A K E"))
	b.WriteString("\n\n")

	switch m.phase {
	case phaseNaming:
		b.WriteString(accentStyle.Render(fmt.Sprintf("Score: %d", m.summary.Score)))
		b.WriteString("\n\nEnter your name:\n")
		b.WriteString(m.name.View())
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter save  esc skip"))
		b.WriteString("\n\n")
	case phaseOver:
		b.WriteString(accentStyle.Render(fmt.Sprintf("Final score: %d", m.summary.Score)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("length %d  %s", m.summary.Length, m.summary.Duration.Round(time.Second))))
		b.WriteString("\n\n")
	}

	b.WriteString("High Scores")
	if m.source != leaderboard.SourceNone {
		b.WriteString(dimStyle.Render(" (" + string(m.source) + ")"))
	}
	b.WriteString("\n")
	if len(m.scores) == 0 {
		b.WriteString(dimStyle.Render("no scores yet"))
	}
	for i, e := range m.scores {
		name := e.Name
		if len([]rune(name)) > 14 {
			name = string([]rune(name)[:13]) + "."
		}
		fmt.Fprintf(&b, "%2d. %-14s %5d\n", i+1, name, e.Score)
	}

	return panelStyle.Width(sidePanelWidth).Render(strings.TrimRight(b.String(), "\n"))
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
