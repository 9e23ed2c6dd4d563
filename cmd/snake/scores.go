package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/retro-snake/internal/platform/tui"
)

var (
	flagPlain bool
	flagStats bool
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the leaderboard. The remote leaderboard is used when configured,
the local database otherwise.

In a terminal an interactive table is shown; use --plain for text output.

Examples:
  snake scores
  snake scores --plain
  snake scores --stats
  snake scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print scores as text")
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Print local play statistics")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all local high scores")
}

func runScores(_ *cobra.Command, _ []string) error {
	logger := newLogger(os.Stderr, "snake")

	a, err := newApp(logger)
	if err != nil {
		return err
	}
	defer a.Close()

	switch {
	case flagClear:
		if a.store == nil {
			return fmt.Errorf("no local database at %s", flagDBPath)
		}
		if err := a.store.ClearScores(); err != nil {
			return err
		}
		fmt.Println("Local high scores cleared.")
		return nil

	case flagStats:
		return printStats(a)
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if interactive && !flagPlain {
		width, height, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width, height = 80, 24
		}
		return tui.RunScoreboard(a.board, a.store, width, height)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	entries := a.board.Refresh(ctx)

	fmt.Printf("Retro Snake - High Scores (%s)\n\n", sourceLabel(string(a.board.Source())))
	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tSCORE")
	for i, e := range entries {
		fmt.Fprintf(w, "#%d\t%s\t%d\n", i+1, e.Name, e.Score)
	}
	return w.Flush()
}

func printStats(a *app) error {
	if a.store == nil {
		return fmt.Errorf("no local database at %s", flagDBPath)
	}
	st, err := a.store.GetStats()
	if err != nil {
		return err
	}

	fmt.Println("Retro Snake - Local Statistics")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Games played\t%d\n", st.GamesCount)
	fmt.Fprintf(w, "High score\t%d\n", st.HighScore)
	fmt.Fprintf(w, "Average score\t%.1f\n", st.AvgScore)
	fmt.Fprintf(w, "Total score\t%d\n", st.TotalScore)
	fmt.Fprintf(w, "Longest snake\t%d\n", st.LongestSnake)
	fmt.Fprintf(w, "Power-ups taken\t%d\n", st.TotalPowerUps)
	if !st.LastPlayed.IsZero() {
		fmt.Fprintf(w, "Last played\t%s\n", st.LastPlayed.Local().Format("Jan 02 2006 15:04"))
	}
	return w.Flush()
}

func sourceLabel(src string) string {
	if src == "" {
		return "no data"
	}
	return src
}
