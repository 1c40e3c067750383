// Package runner implements SpaceFit, an endless runner on a streamed track
// of ground tiles. The astronaut avatar is driven by offset frames from a
// mock motion-capture source or a live landmark feed.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spaceout/spacefit/internal/collide"
	"github.com/spaceout/spacefit/internal/config"
	"github.com/spaceout/spacefit/internal/core"
	"github.com/spaceout/spacefit/internal/pose"
	"github.com/spaceout/spacefit/internal/registry"
	"github.com/spaceout/spacefit/internal/session"
	"github.com/spaceout/spacefit/internal/stream"
)

// GameID is the registry and run store identifier.
const GameID = "spacefit"

// playerForward is the Z of the player; the track moves, the player does not.
const playerForward = 0.0

// Counters accumulate step events over a run.
type Counters struct {
	Recycles   int
	Coins      int
	PoseSwaps  int
	PoseErrors int
}

// Game wires the session, the tile streamer and the pose driver.
type Game struct {
	runtime    core.RuntimeConfig
	cfg        config.RunnerConfig
	fixed      *config.RunnerConfig // Set by NewWithConfig; skips loading
	sess       *session.Session
	track      *stream.Streamer
	driver     *pose.Driver
	feed       *pose.HTTPSource
	stopFeed   context.CancelFunc
	difficulty *config.DifficultyManager
	logger     *log.Logger

	lane     int
	distance float64
	ticks    int
	counters Counters
	err      error // Startup problem that forced a fallback
}

var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	poseSource       string
	poseURL          string
	logger           = log.Default()
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset; unknown names keep the config default.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetPoseSource overrides the pose source and landmarks URL from the config.
// Empty values keep the configured ones.
func SetPoseSource(source, url string) {
	poseSource = source
	poseURL = url
}

// SetLogger sets the logger new games derive their component loggers from.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// New creates a game that loads its configuration on Reset.
func New() *Game {
	return &Game{}
}

// NewWithConfig creates a game with a fixed configuration.
func NewWithConfig(cfg config.RunnerConfig) *Game {
	return &Game{fixed: &cfg}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "SpaceFit Runner"
}

// Reset builds a fresh run. Configuration problems are logged and the
// defaults are used instead; Err reports them.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.Close()
	g.feed, g.stopFeed = nil, nil
	g.runtime = runtime
	g.logger = logger.WithPrefix("runner")
	g.err = nil
	g.cfg = g.loadConfig()

	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	g.sess = session.New()
	g.lane = 0
	g.distance = 0
	g.ticks = 0
	g.counters = Counters{}

	g.track = stream.New(stream.Config{
		MoveSpeed: g.cfg.Track.MoveSpeed,
		LaneWidth: g.cfg.Player.LaneWidth,
		Logger:    logger.WithPrefix("stream"),
	})
	if err := g.track.Initialize(prefabsFromConfig(g.cfg.Prefabs), g.cfg.Track.NumberOfTiles, g.cfg.Track.TileLength); err != nil {
		g.fail("track setup failed, using defaults", err)
		g.cfg = config.DefaultRunnerConfig()
		g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
		// The defaults always initialize.
		_ = g.track.Initialize(prefabsFromConfig(g.cfg.Prefabs), g.cfg.Track.NumberOfTiles, g.cfg.Track.TileLength)
	}

	g.driver = pose.NewDriver(g.poseSource(),
		pose.WithSwitchTime(g.cfg.Pose.SwitchTime),
		pose.WithProbeDistance(g.cfg.Pose.ProbeDistance),
		pose.WithLogger(logger.WithPrefix("pose")),
	)
	if err := g.driver.Initialize(pose.DefaultBase()); err != nil {
		g.fail("pose setup failed", err)
	}
}

func (g *Game) loadConfig() config.RunnerConfig {
	if g.fixed != nil {
		return *g.fixed
	}

	cfg, err := LoadConfig()
	if err != nil {
		g.fail("config load failed, using defaults", err)
		cfg = config.DefaultRunnerConfig()
		applyOverrides(&cfg)
	}
	return cfg
}

// LoadConfig loads the configuration New games use on Reset, with the
// difficulty preset and pose overrides applied. Unlike Reset it does not
// fall back to the defaults: an unusable track is reported as
// stream.ErrConfiguration.
func LoadConfig() (config.RunnerConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return config.RunnerConfig{}, fmt.Errorf("%w: %w", stream.ErrConfiguration, err)
		}
		return config.RunnerConfig{}, err
	}
	applyOverrides(&cfg)
	return cfg, nil
}

func applyOverrides(cfg *config.RunnerConfig) {
	config.ApplyPreset(cfg, difficultyPreset)
	if poseSource != "" {
		cfg.Pose.Source = poseSource
	}
	if poseURL != "" {
		cfg.Pose.URL = poseURL
	}
}

func (g *Game) fail(msg string, err error) {
	g.logger.Error(msg, "error", err)
	g.err = errors.Join(g.err, err)
}

// poseSource builds the configured source. A live feed is polled in the
// background until Close or the next Reset.
func (g *Game) poseSource() pose.Source {
	if g.cfg.Pose.Source != config.PoseSourceHTTP {
		return pose.NewMockSource()
	}

	g.feed = pose.NewHTTPSource(g.cfg.Pose.URL,
		pose.WithPollInterval(time.Duration(g.cfg.Pose.PollIntervalMS)*time.Millisecond),
		pose.WithScale(g.cfg.Pose.Scale),
		pose.WithHTTPLogger(logger.WithPrefix("posefeed")),
	)
	ctx, cancel := context.WithCancel(context.Background())
	g.stopFeed = cancel
	go g.feed.Run(ctx) //nolint:errcheck // Returns only the context error
	g.logger.Info("polling pose feed", "url", g.cfg.Pose.URL)
	return g.feed
}

// Close stops the live pose feed, if any. It may be called from another
// goroutine once the game is no longer stepped.
func (g *Game) Close() error {
	if g.stopFeed != nil {
		g.stopFeed()
	}
	return nil
}

// Step advances the run by one tick: input, pose, track, collision, score.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	var ev core.StepEvents
	if g.sess.Snapshot().Over {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionTap) && g.sess.Start() {
		g.logger.Info("run started")
	}
	if in.Has(core.ActionPause) {
		g.sess.TogglePause()
	}

	active := g.sess.Active()
	if active {
		maxLane := g.cfg.Player.MaxLane()
		if in.Has(core.ActionLeft) {
			g.lane = core.Clamp(g.lane-1, -maxLane, maxLane)
		}
		if in.Has(core.ActionRight) {
			g.lane = core.Clamp(g.lane+1, -maxLane, maxLane)
		}
	}

	dt := g.runtime.TickDelta()

	rep := g.driver.Step(dt, active)
	if rep.Switched {
		ev.PoseSwap = true
		g.counters.PoseSwaps++
	}
	if rep.Err != nil {
		ev.PoseError = true
		g.counters.PoseErrors++
	}

	if active {
		g.track.SetMoveSpeed(g.difficulty.Speed(g.cfg.Track.MoveSpeed, g.Score(), g.ticks))
	}
	if g.track.Step(dt, playerForward, active) {
		ev.Recycled = true
		g.counters.Recycles++
	}

	if active {
		g.ticks++
		g.distance += g.track.MoveSpeed() * dt

		swept := sweep{track: g.track, shift: g.track.MoveSpeed() * dt}
		switch g.driver.CheckCollision(swept, g.origin(), g.sess.State()) {
		case collide.KindWall:
			ev.Crashed = true
			g.sess.End()
			g.logger.Info("run over", "score", g.Score(), "coins", g.counters.Coins, "recycles", g.counters.Recycles)
		case collide.KindCoin:
			ev.Coin = true
			g.counters.Coins++
		}
	}

	return core.StepResult{State: g.State(), Events: ev}
}

// origin is the player's root on the current lane.
func (g *Game) origin() core.Vec3 {
	return core.V(float64(g.lane)*g.track.LaneWidth(), 0, playerForward)
}

// sweep probes the track over the distance it moved this tick as well as
// the probe reach, so a fast tick cannot carry a wall past the player.
// Features that were already behind the player before the move stay
// out of reach.
type sweep struct {
	track *stream.Streamer
	shift float64
}

func (s sweep) Probe(origin, dir core.Vec3, maxDist float64) (collide.Hit, bool) {
	return s.track.Probe(origin.Sub(dir.Normalize().Scale(s.shift)), dir, maxDist+s.shift)
}

func (s sweep) Collect(hit collide.Hit) bool {
	return s.track.Collect(hit)
}

// Score is the distance travelled in whole units.
func (g *Game) Score() int {
	return int(g.distance)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.sess == nil {
		return core.GameState{}
	}
	rs := g.sess.Snapshot()
	return core.GameState{
		Score:    g.Score(),
		Coins:    rs.Coins,
		Started:  rs.Started,
		GameOver: rs.Over,
		Paused:   rs.Paused,
	}
}

// Summary reports the run for persistence.
func (g *Game) Summary() core.RunSummary {
	return core.RunSummary{
		Distance: g.distance,
		Recycles: g.track.Recycles(),
		Duration: g.sess.Duration(),
	}
}

// Events returns the counters accumulated this run.
func (g *Game) Events() Counters { return g.counters }

// Err reports configuration problems hit by the last Reset.
func (g *Game) Err() error { return g.err }

// Lane returns the player's lane.
func (g *Game) Lane() int { return g.lane }

// Distance returns the distance travelled.
func (g *Game) Distance() float64 { return g.distance }

// Track exposes the tile streamer.
func (g *Game) Track() *stream.Streamer { return g.track }

// Driver exposes the pose driver.
func (g *Game) Driver() *pose.Driver { return g.driver }

// Config returns the configuration in use.
func (g *Game) Config() config.RunnerConfig { return g.cfg }

func prefabsFromConfig(in []config.PrefabConfig) []stream.Prefab {
	out := make([]stream.Prefab, 0, len(in))
	for _, p := range in {
		out = append(out, stream.Prefab{
			Name:  p.Name,
			Walls: placements(p.Walls),
			Coins: placements(p.Coins),
		})
	}
	return out
}

func placements(in []config.PlacementConfig) []stream.Placement {
	if len(in) == 0 {
		return nil
	}
	out := make([]stream.Placement, len(in))
	for i, p := range in {
		out[i] = stream.Placement{Lane: p.Lane, Offset: p.Offset}
	}
	return out
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}
