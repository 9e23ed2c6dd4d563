package main

import (
	"io"
	"os"
	"os/user"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/retro-snake/internal/core"
	"github.com/vovakirdan/retro-snake/internal/platform/tui"
)

var flagPlayer string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start the game menu in this terminal.

Controls:
  Arrows/WASD - Steer
  P/Space     - Pause
  R           - Restart
  Esc         - Back to menu (paused or game over)
  Q/Ctrl+C    - Quit

With --verbose, debug logs go to ~/.snake/debug.log.

Examples:
  snake play
  snake play --difficulty easy
  snake play --seed 42 --name alice`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayer, "name", "", "Name prefilled on the leaderboard prompt (default: login name)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	// The alternate screen owns stdout, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if flagVerbose {
		if home, err := os.UserHomeDir(); err == nil {
			path := filepath.Join(home, ".snake", "debug.log")
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
				f, err := tea.LogToFile(path, "snake")
				if err == nil {
					defer f.Close()
					logOut = f
				}
			}
		}
	}
	logger := newLogger(logOut, "snake")

	a, err := newApp(logger)
	if err != nil {
		return err
	}
	defer a.Close()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	player := flagPlayer
	if player == "" {
		if u, err := user.Current(); err == nil {
			player = u.Username
		}
	}

	deps := &tui.Deps{
		Config: a.cfg,
		Store:  a.store,
		Board:  a.board,
		Logger: logger,
		Source: "tui",
	}
	cfg := core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    flagSeed,
	}
	return tui.Run(deps, cfg, player, a.preset)
}
