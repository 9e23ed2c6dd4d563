package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/retro-snake/internal/platform/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the browser play server",
	Long: `Serve the game to browsers over websockets.

Routes:
  /                 - Play page
  /ws?seed=N        - Websocket game session (seed optional)
  /api/highscores   - Leaderboard as JSON

Examples:
  snake web
  snake web --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address")
}

func runWeb(_ *cobra.Command, _ []string) error {
	logger := newLogger(os.Stderr, "snake-web")

	a, err := newApp(logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Open http://localhost%s to play\n", flagWebAddr)
	return web.NewServer(a.cfg, a.board, a.store, logger).ListenAndServe(ctx, flagWebAddr)
}
