package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spaceout/spacefit/internal/games/runner"
	"github.com/spaceout/spacefit/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SpaceFit SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own run. Runs are stored in the server's
database, so all users share one leaderboard. The play flags --config,
--difficulty and --pose-source apply to every session.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.spacefit/host_key

Examples:
  spacefit serve                           # Listen on :23234 with auto-generated key
  spacefit serve --ssh :2222               # Listen on port 2222
  spacefit serve --host-key ./my_host_key  # Use specific host key
  spacefit serve --db ./runs.db            # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	serveCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	serveCmd.Flags().StringVar(&flagPoseSource, "pose-source", "", "Pose source: mock or http")
	serveCmd.Flags().StringVar(&flagPoseURL, "pose-url", "", "Landmarks URL for the http pose source")
}

func runServe(_ *cobra.Command, _ []string) {
	logger, closeLog := mustLogger("ssh", os.Stderr)
	defer closeLog()

	configureRunner()
	runner.SetLogger(logger.WithPrefix("runner"))

	if _, err := runner.LoadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		closeLog()
		os.Exit(1)
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		GameID:      runner.GameID,
		TickRate:    flagFPS,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Logger:      logger,
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		closeLog()
		os.Exit(1)
	}

	fmt.Printf("Starting SpaceFit SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}
