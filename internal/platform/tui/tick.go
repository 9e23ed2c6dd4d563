// Package tui provides the Bubble Tea front end for the snake game.
// It handles the terminal UI loop, input mapping, and leaderboard screens,
// both for local play and for SSH sessions served through Wish.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/retro-snake/internal/games/snake"
	"github.com/vovakirdan/retro-snake/internal/leaderboard"
)

// FrameMsg carries the latest frame pushed by the game runner.
type FrameMsg snake.Frame

// GameOverMsg is sent once when a round ends.
type GameOverMsg snake.RunSummary

// ScoresMsg carries a fresh copy of the leaderboard.
type ScoresMsg struct {
	Entries []leaderboard.Entry
	Source  leaderboard.Source
}

// frameSlot keeps only the newest frame so a slow terminal never blocks the runner.
type frameSlot chan snake.Frame

func newFrameSlot() frameSlot {
	return make(frameSlot, 1)
}

// Render implements snake.Renderer.
func (s frameSlot) Render(f snake.Frame) {
	for {
		select {
		case s <- f:
			return
		default:
		}
		select {
		case <-s:
		default:
		}
	}
}

// waitForFrame blocks until the runner publishes a frame.
func waitForFrame(ctx context.Context, s frameSlot) tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-s:
			return FrameMsg(f)
		case <-ctx.Done():
			return nil
		}
	}
}

// waitForGameOver blocks until the runner reports a finished round.
func waitForGameOver(ctx context.Context, ch <-chan snake.RunSummary) tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-ch:
			return GameOverMsg(s)
		case <-ctx.Done():
			return nil
		}
	}
}

// refreshScoresCmd reloads the leaderboard in the background.
func refreshScoresCmd(board *leaderboard.Board) tea.Cmd {
	if board == nil {
		return nil
	}
	return func() tea.Msg {
		entries := board.Refresh(context.Background())
		return ScoresMsg{Entries: entries, Source: board.Source()}
	}
}

// submitScoreCmd records a score and returns the refreshed leaderboard.
func submitScoreCmd(board *leaderboard.Board, name string, score int) tea.Cmd {
	if board == nil {
		return nil
	}
	return func() tea.Msg {
		entries := board.Add(context.Background(), name, score)
		return ScoresMsg{Entries: entries, Source: board.Source()}
	}
}
