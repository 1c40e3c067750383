package core

import "time"

// RuntimeConfig is passed to a game on Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; 0 lets the platform pick one
}

// DefaultConfig returns a RuntimeConfig for an 80x24 terminal at 60 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// TickDelta returns the simulated time of one tick in seconds.
func (c RuntimeConfig) TickDelta() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// TickInterval returns the wall-clock interval between ticks.
func (c RuntimeConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState is the status a game reports to the platform after each tick.
type GameState struct {
	Score    int  // Distance travelled, in whole units
	Coins    int  // Coins collected this run
	Started  bool // Whether the run has been started by a tap
	GameOver bool // Whether the run has ended
	Paused   bool // Whether the run is paused
}

// StepEvents lists what happened during a single tick.
type StepEvents struct {
	Recycled  bool // A tile was recycled
	Coin      bool // A coin was collected
	Crashed   bool // The run ended on a wall this tick
	PoseSwap  bool // The active offset frame changed
	PoseError bool // The offset frame could not be applied
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State  GameState
	Events StepEvents
}

// RunSummary is reported by games that track more than a score, for
// persistence when a run ends.
type RunSummary struct {
	Distance float64
	Recycles int
	Duration time.Duration
}
