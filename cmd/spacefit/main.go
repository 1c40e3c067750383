// spacefit is an endless runner for the terminal. An astronaut avatar,
// animated from mock motion-capture frames or a live pose feed, runs down a
// streamed track of tiles dodging walls and collecting coins.
//
// Usage:
//
//	spacefit play            - Play in this terminal
//	spacefit scores          - Show the best runs
//	spacefit serve           - Start SSH server for remote play
//	spacefit pose-server     - Serve synthetic pose landmarks over HTTP
//	spacefit simulate        - Run headless for a number of ticks
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed
//	--db <path>          - Set database path (default: ~/.spacefit/runs.db)
//	--log-file <path>    - Write logs to a file
//	--log-level <level>  - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/spaceout/spacefit/internal/games/runner"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "spacefit",
	Short: "SpaceFit - an endless runner in your terminal",
	Long: `SpaceFit is a terminal endless runner. Tiles stream toward the player,
walls end the run and coins add to the haul. The astronaut is animated
from mock motion-capture frames, or from a live pose landmark feed.

Available commands:
  play         - Play in this terminal
  scores       - View the best and most recent runs
  serve        - Start SSH server for remote play
  pose-server  - Serve synthetic landmarks for the live pose source
  simulate     - Run headless and print what happened

Examples:
  spacefit play
  spacefit play --difficulty hard
  spacefit pose-server --addr :8000 &
  spacefit play --pose-source http
  spacefit serve --ssh :2222
  spacefit simulate --ticks 3600 --autopilot`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.spacefit/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(poseServerCmd)
	rootCmd.AddCommand(simulateCmd)
}
