package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spaceout/spacefit/internal/posefeed"
)

var (
	flagPoseAddr     string
	flagPoseInterval time.Duration
	flagPoseJitter   float64
	flagPoseDropout  float64
)

var poseServerCmd = &cobra.Command{
	Use:   "pose-server",
	Short: "Serve synthetic pose landmarks over HTTP",
	Long: `Start an HTTP server that mimics a pose estimation backend.

The server cycles the three built-in poses and answers
GET /get_landmarks with 33 landmarks, or -1 when detection "fails"
(see --dropout). Point 'spacefit play --pose-source http' at it to
exercise the live pose path without a camera.

Routes:
  GET /get_landmarks  - {"landmarks": [[x, y, z], ...]} or {"landmarks": -1}
  GET /frame          - Index of the pose currently served
  GET /health         - Liveness probe

Examples:
  spacefit pose-server
  spacefit pose-server --addr :9000 --interval 2s
  spacefit pose-server --jitter 0.01 --dropout 0.1 --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPoseServer,
}

func init() {
	poseServerCmd.Flags().StringVar(&flagPoseAddr, "addr", ":8000", "HTTP listen address")
	poseServerCmd.Flags().DurationVar(&flagPoseInterval, "interval", 3700*time.Millisecond, "Time each pose is held")
	poseServerCmd.Flags().Float64Var(&flagPoseJitter, "jitter", 0, "Random noise added to every coordinate")
	poseServerCmd.Flags().Float64Var(&flagPoseDropout, "dropout", 0, "Probability of a failed detection (0-1)")
}

func runPoseServer(_ *cobra.Command, _ []string) {
	logger, closeLog := mustLogger("posefeed", os.Stderr)
	defer closeLog()

	opts := []posefeed.GeneratorOption{
		posefeed.WithInterval(flagPoseInterval),
		posefeed.WithJitter(flagPoseJitter),
		posefeed.WithDropout(flagPoseDropout),
	}
	if flagSeed != 0 {
		opts = append(opts, posefeed.WithSeed(flagSeed))
	}

	gen, err := posefeed.NewGenerator(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating generator: %v\n", err)
		closeLog()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving pose landmarks on %s\n", flagPoseAddr)
	fmt.Println("Press Ctrl+C to stop")

	if err := posefeed.NewServer(gen, logger).ListenAndServe(ctx, flagPoseAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		stop()
		closeLog()
		os.Exit(1)
	}
}
