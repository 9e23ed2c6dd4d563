// snake is a retro snake game for the terminal, SSH and the browser.
//
// Usage:
//
//	snake play              - Play in this terminal
//	snake serve             - Start SSH server for remote play
//	snake web               - Start the browser play server
//	snake scores            - Show the leaderboard
//	snake config            - Print the effective configuration
//
// Global flags:
//
//	--seed <value>        - Set RNG seed for reproducible spawns
//	--db <path>           - Set database path (default: ~/.snake/scores.db)
//	--config <path>       - Custom game config YAML
//	--difficulty <preset> - easy, normal or hard
//	--verbose             - Debug logging
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/retro-snake/internal/config"
	"github.com/vovakirdan/retro-snake/internal/leaderboard"
	"github.com/vovakirdan/retro-snake/internal/storage"
)

var (
	// Global flags
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagVerbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Retro Snake - the classic game with power-ups",
	Long: `Retro Snake is the classic snake game on a wrap-around board, with
decaying pickup values, timed power-ups and a shared leaderboard.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  web      - Start the browser play server
  scores   - View high scores
  config   - Print the effective configuration

Examples:
  snake play
  snake play --difficulty hard --seed 42
  snake serve --ssh :2222
  snake web --addr :8080
  snake scores --plain`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.snake/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// app holds what every command needs: config, storage and the leaderboard.
type app struct {
	cfg    config.SnakeConfig
	preset config.DifficultyPreset
	store  *storage.Store // nil when the database could not be opened
	board  *leaderboard.Board
	log    *log.Logger
}

func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig reads the YAML config, .env overrides and the difficulty flag.
func loadConfig() (config.SnakeConfig, config.DifficultyPreset, error) {
	cfg, err := config.LoadSnake(flagConfig)
	if err != nil {
		return cfg, "", err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, "", err
	}

	var preset config.DifficultyPreset // Empty keeps the configured speed
	if flagDifficulty != "" {
		preset = config.DifficultyPreset(flagDifficulty)
		if config.SpeedForPreset(preset) == 0 {
			return cfg, "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", flagDifficulty)
		}
		config.ApplySnakePreset(&cfg, preset)
	}
	return cfg, preset, nil
}

// newApp loads configuration and opens storage. A missing database or
// remote leaderboard degrades the app instead of failing it.
func newApp(logger *log.Logger) (*app, error) {
	cfg, preset, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, preset: preset, log: logger}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
	} else {
		a.store = store
	}

	var remote leaderboard.Remote
	client, err := leaderboard.NewTursoClient(cfg.Leaderboard)
	switch {
	case err == nil:
		remote = client
		logger.Debug("remote leaderboard enabled", "url", cfg.Leaderboard.URL)
	case errors.Is(err, leaderboard.ErrNotConfigured):
		logger.Debug("remote leaderboard not configured")
	default:
		logger.Warn("remote leaderboard disabled", "error", err)
	}

	var local leaderboard.Local
	if a.store != nil {
		local = a.store
	}
	a.board = leaderboard.NewBoard(remote, local, cfg.Leaderboard.Limit, logger)
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("closing scores database", "error", err)
		}
	}
}
