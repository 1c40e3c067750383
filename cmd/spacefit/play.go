package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spaceout/spacefit/internal/core"
	"github.com/spaceout/spacefit/internal/games/runner"
	"github.com/spaceout/spacefit/internal/platform/tui"
	"github.com/spaceout/spacefit/internal/registry"
	"github.com/spaceout/spacefit/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagPoseSource string
	flagPoseURL    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play SpaceFit in this terminal",
	Long: `Start a run in this terminal.

Controls:
  Space/Enter  - Start the run
  Left/A       - Move one lane left
  Right/D      - Move one lane right
  P/Esc        - Pause
  R            - Restart (after game over)
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Start at base speed, speeds up to max
  normal - Start at 30% difficulty, speeds up to max
  hard   - Start at 70% difficulty, speeds up to max
  fixed  - No progression, stays at config's initial level

Pose sources:
  mock   - Cycle the built-in motion-capture frames (default)
  http   - Poll a landmarks endpoint (see 'spacefit pose-server')

Logs are discarded unless --log-file is set, so they do not draw over the game.

Examples:
  spacefit play
  spacefit play --difficulty easy
  spacefit play --config ./my-track.yaml
  spacefit play --pose-source http --pose-url http://localhost:8000/get_landmarks`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagPoseSource, "pose-source", "", "Pose source: mock or http (default from config)")
	playCmd.Flags().StringVar(&flagPoseURL, "pose-url", "", "Landmarks URL for the http pose source")
}

// configureRunner passes the play flags to the runner before it is created.
func configureRunner() {
	runner.SetConfigPath(flagConfig)
	runner.SetDifficultyPreset(flagDifficulty)
	runner.SetPoseSource(flagPoseSource, flagPoseURL)
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, closeLog := mustLogger("spacefit", io.Discard)
	defer closeLog()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	configureRunner()
	runner.SetLogger(logger)

	// An unusable track is fatal at startup.
	if _, err := runner.LoadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		closeLog()
		os.Exit(1)
	}

	game, err := registry.Create(runner.GameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		closeLog()
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(game, store, cfg, logger)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		closeLog()
		os.Exit(1)
	}
}
