package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spaceout/spacefit/internal/games/runner"
	"github.com/spaceout/spacefit/internal/platform/tui"
	"github.com/spaceout/spacefit/internal/registry"
	"github.com/spaceout/spacefit/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresTUI   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best runs",
	Long: `Display the best runs recorded on this machine.

Examples:
  spacefit scores
  spacefit scores --limit 25
  spacefit scores --tui
  spacefit scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse runs in an interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded runs")
}

func runScores(_ *cobra.Command, _ []string) {
	gameID := runner.GameID

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearRuns(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			store.Close()
			os.Exit(1)
		}
		fmt.Println("All runs deleted.")
		return
	}

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, gameID, title, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
			store.Close()
			os.Exit(1)
		}
		return
	}

	runs, err := store.TopRuns(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		store.Close()
		os.Exit(1)
	}

	fmt.Printf("Best Runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'spacefit play' to set the first score!")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-8s  %-8s  %s\n", "Rank", "Score", "Coins", "Tiles", "Time", "End", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-8s  %-8s  %s\n", "----", "-----", "-----", "-----", "----", "---", "----")

	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-6d  %-6d  %-8s  %-8s  %s\n",
			i+1, r.Score, r.Coins, r.Recycles,
			r.Duration.Round(time.Second), r.EndReason,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if stats, err := store.Stats(gameID); err == nil {
		fmt.Printf("Best: %d   Runs: %d   Avg: %.0f   Coins: %d\n",
			stats.HighScore, stats.Runs, stats.AvgScore, stats.TotalCoins)
	}
}
