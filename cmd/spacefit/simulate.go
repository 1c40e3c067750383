package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/spaceout/spacefit/internal/core"
	"github.com/spaceout/spacefit/internal/games/runner"
)

var (
	flagSimTicks     int
	flagSimAutopilot bool
	flagSimLookahead float64
	flagSimEvery     int
	flagSimRender    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the game headless and print what happened",
	Long: `Run the game without a terminal UI for a fixed number of ticks.

The run starts on the first tick. Without --autopilot the player stays in
the centre lane, so the run ends at the first wall there. A configuration
error is reported and the command exits non-zero.

Examples:
  spacefit simulate
  spacefit simulate --ticks 3600 --autopilot
  spacefit simulate --config ./my-track.yaml --every 60
  spacefit simulate --ticks 120 --render`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 600, "Number of ticks to simulate")
	simulateCmd.Flags().BoolVar(&flagSimAutopilot, "autopilot", false, "Steer around walls")
	simulateCmd.Flags().Float64Var(&flagSimLookahead, "lookahead", 6, "Autopilot look-ahead distance")
	simulateCmd.Flags().IntVar(&flagSimEvery, "every", 0, "Print a status line every N ticks (0 = off)")
	simulateCmd.Flags().BoolVar(&flagSimRender, "render", false, "Print the final frame")
	simulateCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	simulateCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	simulateCmd.Flags().StringVar(&flagPoseSource, "pose-source", "", "Pose source: mock or http")
	simulateCmd.Flags().StringVar(&flagPoseURL, "pose-url", "", "Landmarks URL for the http pose source")
}

// simOptions controls a headless run.
type simOptions struct {
	Ticks     int
	Autopilot bool
	Lookahead float64
	Every     int
	Render    bool
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger, closeLog := mustLogger("simulate", os.Stderr)

	configureRunner()
	runner.SetLogger(logger)

	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed

	game := runner.New()
	err := simulate(os.Stdout, game, cfg, simOptions{
		Ticks:     flagSimTicks,
		Autopilot: flagSimAutopilot,
		Lookahead: flagSimLookahead,
		Every:     flagSimEvery,
		Render:    flagSimRender,
	})
	game.Close()
	closeLog()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// simulate resets game and steps it headless, writing progress and a
// summary to out. A configuration problem is returned before any tick runs.
func simulate(out io.Writer, game *runner.Game, cfg core.RuntimeConfig, opts simOptions) error {
	game.Reset(cfg)
	if err := game.Err(); err != nil {
		return err
	}

	ticks := 0
	for ; ticks < opts.Ticks; ticks++ {
		in := core.NewInputFrame()
		if ticks == 0 {
			in.Set(core.ActionTap)
		}
		if opts.Autopilot {
			if a := game.Autopilot(opts.Lookahead); a != core.ActionNone {
				in.Set(a)
			}
		}

		res := game.Step(in)

		if opts.Every > 0 && (ticks+1)%opts.Every == 0 {
			fmt.Fprintf(out, "tick %5d  lane %+d  dist %8.2f  speed %5.2f  frame %d  coins %d\n",
				ticks+1, game.Lane(), game.Distance(), game.Track().MoveSpeed(),
				game.Driver().FrameIndex(), res.State.Coins)
		}
		if res.State.GameOver {
			ticks++
			break
		}
	}

	printSummary(out, game, ticks)

	if opts.Render {
		screen := core.NewScreen(cfg.ScreenW, cfg.ScreenH)
		game.Render(screen)
		fmt.Fprintln(out)
		fmt.Fprintln(out, screen.String())
	}
	return nil
}

func printSummary(out io.Writer, game *runner.Game, ticks int) {
	st := game.State()
	ev := game.Events()
	sum := game.Summary()

	outcome := "running"
	if st.GameOver {
		outcome = "crashed"
	}

	fmt.Fprintf(out, "Ticks:      %d (%s)\n", ticks, outcome)
	fmt.Fprintf(out, "Score:      %d\n", st.Score)
	fmt.Fprintf(out, "Distance:   %.2f\n", sum.Distance)
	fmt.Fprintf(out, "Coins:      %d\n", ev.Coins)
	fmt.Fprintf(out, "Recycles:   %d\n", ev.Recycles)
	fmt.Fprintf(out, "Pose swaps: %d (errors %d)\n", ev.PoseSwaps, ev.PoseErrors)
	fmt.Fprintf(out, "Frame:      %d, timer %.2fs\n", game.Driver().FrameIndex(), game.Driver().Timer())

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Tiles:")
	for _, t := range game.Track().Tiles() {
		fmt.Fprintf(out, "  #%-4d z=%8.2f  %s\n", t.ID, t.Z, t.Prefab.Name)
	}

	joints := game.Driver().Joints()
	names := make([]string, 0, len(joints))
	pos := make(map[string]core.Vec3, len(joints))
	for j, v := range joints {
		names = append(names, j.String())
		pos[j.String()] = v
	}
	sort.Strings(names)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Joints:")
	for _, n := range names {
		v := pos[n]
		fmt.Fprintf(out, "  %-14s (%6.2f, %6.2f, %6.2f)\n", n, v.X, v.Y, v.Z)
	}
}
