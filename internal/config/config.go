// Package config provides YAML-based configuration for the runner: track
// layout, tile prefabs, pose feed, player lanes and difficulty.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// RunnerConfig contains all configuration for a run.
type RunnerConfig struct {
	Track      TrackConfig      `yaml:"track"`
	Prefabs    []PrefabConfig   `yaml:"prefabs"`
	Pose       PoseConfig       `yaml:"pose"`
	Player     PlayerConfig     `yaml:"player"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TrackConfig defines the tile window.
type TrackConfig struct {
	TileLength    float64 `yaml:"tile_length"`
	NumberOfTiles int     `yaml:"number_of_tiles"`
	MoveSpeed     float64 `yaml:"move_speed"` // Units per second at difficulty level 0
}

// PrefabConfig is one tile variant.
type PrefabConfig struct {
	Name  string            `yaml:"name"`
	Walls []PlacementConfig `yaml:"walls"`
	Coins []PlacementConfig `yaml:"coins"`
}

// PlacementConfig positions a wall or coin on a tile.
type PlacementConfig struct {
	Lane   int     `yaml:"lane"`   // -1 left, 0 center, 1 right
	Offset float64 `yaml:"offset"` // Forward distance from the tile start
}

// PoseConfig defines where joint offsets come from.
type PoseConfig struct {
	SwitchTime     float64 `yaml:"switch_time"`    // Seconds per mock frame
	ProbeDistance  float64 `yaml:"probe_distance"` // Reach of the forward collision probe
	Source         string  `yaml:"source"`         // "mock" or "http"
	URL            string  `yaml:"url"`            // Landmarks endpoint for the http source
	PollIntervalMS int     `yaml:"poll_interval_ms"`
	Scale          float64 `yaml:"scale"` // Normalized image units to world units
}

// Pose source names.
const (
	PoseSourceMock = "mock"
	PoseSourceHTTP = "http"
)

// PlayerConfig defines the lanes the player can occupy.
type PlayerConfig struct {
	Lanes     int     `yaml:"lanes"` // Odd number of lanes centered on 0
	LaneWidth float64 `yaml:"lane_width"`
}

// MaxLane returns the highest lane index; lanes span [-MaxLane, MaxLane].
func (p PlayerConfig) MaxLane() int {
	if p.Lanes <= 1 {
		return 0
	}
	return (p.Lanes - 1) / 2
}

// DifficultyConfig defines how the scroll speed ramps up.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines what drives the difficulty level.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Added to the speed factor at max difficulty
}

// Validate checks the values the simulation cannot recover from.
func (c RunnerConfig) Validate() error {
	if len(c.Prefabs) == 0 {
		return fmt.Errorf("%w: at least one prefab is required", ErrInvalid)
	}
	if c.Track.NumberOfTiles <= 0 {
		return fmt.Errorf("%w: track.number_of_tiles must be positive", ErrInvalid)
	}
	if c.Track.TileLength <= 0 {
		return fmt.Errorf("%w: track.tile_length must be positive", ErrInvalid)
	}
	if c.Track.MoveSpeed < 0 {
		return fmt.Errorf("%w: track.move_speed must not be negative", ErrInvalid)
	}
	if c.Player.Lanes < 1 || c.Player.Lanes%2 == 0 {
		return fmt.Errorf("%w: player.lanes must be a positive odd number, got %d", ErrInvalid, c.Player.Lanes)
	}
	maxLane := c.Player.MaxLane()
	for _, p := range c.Prefabs {
		for _, pl := range append(append([]PlacementConfig(nil), p.Walls...), p.Coins...) {
			if pl.Lane < -maxLane || pl.Lane > maxLane {
				return fmt.Errorf("%w: prefab %q uses lane %d outside [-%d, %d]", ErrInvalid, p.Name, pl.Lane, maxLane, maxLane)
			}
			if pl.Offset < 0 || pl.Offset >= c.Track.TileLength {
				return fmt.Errorf("%w: prefab %q offset %g outside the tile", ErrInvalid, p.Name, pl.Offset)
			}
		}
	}
	switch c.Pose.Source {
	case PoseSourceMock:
	case PoseSourceHTTP:
		if c.Pose.URL == "" {
			return fmt.Errorf("%w: pose.url is required for the http source", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown pose.source %q", ErrInvalid, c.Pose.Source)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI value to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config for a difficulty preset. An empty preset
// keeps the file's values.
func ApplyPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}
