package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/retro-snake/internal/config"
	"github.com/vovakirdan/retro-snake/internal/core"
	"github.com/vovakirdan/retro-snake/internal/games/snake"
	"github.com/vovakirdan/retro-snake/internal/leaderboard"
	"github.com/vovakirdan/retro-snake/internal/storage"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{runeKey("s"), core.ActionDown, false},
		{runeKey("a"), core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{runeKey("p"), core.ActionPause, false},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionPause, false},
		{runeKey("r"), core.ActionRestart, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{runeKey("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runeKey("x"), core.ActionNone, false},
	}
	for _, tc := range tests {
		action, quit := km.MapKey(tc.msg)
		if action != tc.action || quit != tc.quit {
			t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tc.msg.String(), action, quit, tc.action, tc.quit)
		}
	}
}

func TestFrameSlotKeepsLatest(t *testing.T) {
	slot := newFrameSlot()
	for i := 1; i <= 5; i++ {
		slot.Render(snake.Frame{Score: i})
	}
	if got := (<-slot).Score; got != 5 {
		t.Errorf("got frame %d, want 5", got)
	}
	select {
	case f := <-slot:
		t.Errorf("unexpected extra frame %d", f.Score)
	default:
	}
}

func TestMenuChoices(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig(), config.DifficultyNormal)
	if m.Difficulty() != config.DifficultyNormal {
		t.Fatalf("difficulty = %s", m.Difficulty())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.Difficulty() != config.DifficultyHard {
		t.Errorf("right on difficulty: got %s, want hard", m.Difficulty())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.Difficulty() != "" {
		t.Errorf("difficulty should wrap to the configured speed, got %s", m.Difficulty())
	}
	if !strings.Contains(m.View(), "config") {
		t.Error("menu view should label the configured speed")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.Difficulty() != config.DifficultyEasy {
		t.Errorf("difficulty after config = %s, want easy", m.Difficulty())
	}
	if m.Choice() != ChoiceNone {
		t.Fatalf("choice = %v before selecting", m.Choice())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Choice() != ChoicePlay {
		t.Errorf("choice = %v, want play", m.Choice())
	}

	m = NewMenuModel(core.DefaultConfig(), config.DifficultyEasy)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.Choice() != ChoiceScores {
		t.Errorf("tab: choice = %v, want scores", m.Choice())
	}
	if !strings.Contains(m.View(), "easy") {
		t.Error("menu view should show the difficulty")
	}
}

func testDeps(t *testing.T) *Deps {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := log.New(io.Discard)
	return &Deps{
		Config: config.DefaultSnakeConfig(),
		Store:  store,
		Board:  leaderboard.NewBoard(nil, store, 10, logger),
		Logger: logger,
		Source: "tui",
	}
}

func TestGameOverPromptsForName(t *testing.T) {
	deps := testDeps(t)
	m := NewGameModel(deps, core.RuntimeConfig{Seed: 7}, "alice")
	defer m.Stop()

	m, _ = m.Update(GameOverMsg(snake.RunSummary{Score: 40, Length: 5, Seed: 7}))
	if m.phase != phaseNaming {
		t.Fatalf("phase = %v, want naming", m.phase)
	}
	if m.name.Value() != "alice" {
		t.Errorf("name prefill = %q, want alice", m.name.Value())
	}

	runs, err := deps.Store.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Score != 40 || runs[0].Source != "tui" {
		t.Fatalf("runs = %+v", runs)
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != phaseOver {
		t.Fatalf("phase = %v after enter, want over", m.phase)
	}
	if cmd == nil {
		t.Fatal("enter should submit the score")
	}
	msg, ok := cmd().(ScoresMsg)
	if !ok {
		t.Fatalf("submit returned %T", msg)
	}
	if len(msg.Entries) != 1 || msg.Entries[0] != (leaderboard.Entry{Name: "alice", Score: 40}) {
		t.Errorf("entries = %+v", msg.Entries)
	}
	if msg.Source != leaderboard.SourceLocal {
		t.Errorf("source = %q, want local", msg.Source)
	}
}

func TestGameOverWithZeroScoreSkipsPrompt(t *testing.T) {
	m := NewGameModel(testDeps(t), core.RuntimeConfig{Seed: 1}, "")
	defer m.Stop()

	m, _ = m.Update(GameOverMsg(snake.RunSummary{Score: 0}))
	if m.phase != phaseOver {
		t.Errorf("phase = %v, want over", m.phase)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("esc after game over should return to menu")
	}
}

func TestGameModelQuit(t *testing.T) {
	m := NewGameModel(testDeps(t), core.RuntimeConfig{Seed: 1}, "")
	m, cmd := m.Update(runeKey("q"))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
}

func TestGameViewDrawsFrame(t *testing.T) {
	deps := testDeps(t)
	m := NewGameModel(deps, core.RuntimeConfig{Seed: 3}, "")
	defer m.Stop()

	if m.View() != "" {
		t.Error("view before the first frame should be empty")
	}

	g := snake.New(deps.Config, snake.WithSeed(3))
	m, _ = m.Update(FrameMsg(g.Frame()))
	m, _ = m.Update(ScoresMsg{Entries: []leaderboard.Entry{{Name: "bob", Score: 12}}, Source: leaderboard.SourceLocal})

	view := m.View()
	for _, want := range []string{"Score: 0", "bob", "High Scores"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestScoreboardTabs(t *testing.T) {
	deps := testDeps(t)
	if _, err := deps.Store.SaveRun(storage.Run{Name: "eve", Score: 9, Source: "tui"}); err != nil {
		t.Fatal(err)
	}

	m := NewScoreboardModel(deps.Board, deps.Store, 100, 30)
	m, _ = m.Update(ScoresMsg{Entries: []leaderboard.Entry{{Name: "zed", Score: 99}}, Source: leaderboard.SourceLocal})
	if !strings.Contains(m.View(), "zed") {
		t.Error("leaderboard tab should list entries")
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != tabRecent {
		t.Fatalf("tab = %v, want recent", m.tab)
	}
	if cmd == nil {
		t.Fatal("switching to recent runs should load them")
	}
	m, _ = m.Update(cmd())
	if !strings.Contains(m.View(), "eve") {
		t.Error("recent tab should list runs")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.IsGoingBack() {
		t.Error("esc should go back")
	}
}

func TestSessionFlow(t *testing.T) {
	s := NewSessionModel(testDeps(t), core.RuntimeConfig{ScreenW: 100, ScreenH: 40, Seed: 5}, "", config.DifficultyHard)

	model, _ := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = model.(SessionModel)
	if s.screen != screenScores {
		t.Fatalf("screen = %v, want scores", s.screen)
	}

	model, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = model.(SessionModel)
	if s.screen != screenMenu {
		t.Fatalf("screen = %v, want menu", s.screen)
	}
	if s.menu.Difficulty() != config.DifficultyHard {
		t.Errorf("difficulty lost going back: %s", s.menu.Difficulty())
	}

	model, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = model.(SessionModel)
	defer s.Stop()
	if s.screen != screenGame || cmd == nil {
		t.Fatalf("enter should start a game, screen = %v", s.screen)
	}
	if s.game.cfg.Snake.InitialSpeed != config.SpeedForPreset(config.DifficultyHard) {
		t.Errorf("preset not applied: %v", s.game.cfg.Snake.InitialSpeed)
	}
	if s.game.seed != 5 {
		t.Errorf("first game seed = %d, want 5", s.game.seed)
	}
}

func TestSessionKeepsConfiguredSpeed(t *testing.T) {
	deps := testDeps(t)
	deps.Config.Snake.InitialSpeed = 100 * time.Millisecond

	s := NewSessionModel(deps, core.RuntimeConfig{ScreenW: 100, ScreenH: 40, Seed: 5}, "", "")
	if s.menu.Difficulty() != "" {
		t.Fatalf("menu preselected %q without a preset", s.menu.Difficulty())
	}

	model, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = model.(SessionModel)
	defer s.Stop()
	if s.screen != screenGame {
		t.Fatalf("screen = %v, want game", s.screen)
	}
	if got := s.game.cfg.Snake.InitialSpeed; got != 100*time.Millisecond {
		t.Errorf("initial speed = %v, want the configured 100ms", got)
	}
	if deps.Config.Snake.InitialSpeed != 100*time.Millisecond {
		t.Error("starting a game must not modify the shared config")
	}
}

func TestSessionAppliesChosenPreset(t *testing.T) {
	deps := testDeps(t)
	deps.Config.Snake.InitialSpeed = 100 * time.Millisecond

	s := NewSessionModel(deps, core.RuntimeConfig{ScreenW: 100, ScreenH: 40, Seed: 5}, "", "")
	for _, k := range []tea.KeyType{tea.KeyDown, tea.KeyRight, tea.KeyUp, tea.KeyEnter} {
		model, _ := s.Update(tea.KeyMsg{Type: k})
		s = model.(SessionModel)
	}
	defer s.Stop()

	if s.screen != screenGame {
		t.Fatalf("screen = %v, want game", s.screen)
	}
	if got, want := s.game.cfg.Snake.InitialSpeed, config.SpeedForPreset(config.DifficultyEasy); got != want {
		t.Errorf("initial speed = %v, want easy preset %v", got, want)
	}
}
