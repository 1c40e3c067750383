package config

import (
	_ "embed"
)

//go:embed defaults/spacefit.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the built-in configuration. It mirrors
// defaults/spacefit.yaml and is the base every loaded file is merged onto.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Track: TrackConfig{
			TileLength:    60,
			NumberOfTiles: 5,
			MoveSpeed:     10,
		},
		Prefabs: []PrefabConfig{
			{
				Name:  "launchpad",
				Coins: []PlacementConfig{{0, 20}, {0, 30}, {0, 40}},
			},
			{
				Name:  "left-barrier",
				Walls: []PlacementConfig{{-1, 30}},
				Coins: []PlacementConfig{{1, 25}, {1, 35}},
			},
			{
				Name:  "center-barrier",
				Walls: []PlacementConfig{{0, 30}},
				Coins: []PlacementConfig{{-1, 30}, {1, 30}},
			},
			{
				Name:  "gate",
				Walls: []PlacementConfig{{-1, 40}, {1, 40}},
				Coins: []PlacementConfig{{0, 35}, {0, 45}},
			},
			{
				Name:  "zigzag",
				Walls: []PlacementConfig{{1, 15}, {0, 45}},
				Coins: []PlacementConfig{{-1, 15}, {1, 45}},
			},
		},
		Pose: PoseConfig{
			SwitchTime:     3.7,
			ProbeDistance:  1,
			Source:         PoseSourceMock,
			URL:            "http://localhost:8000/get_landmarks",
			PollIntervalMS: 100,
			Scale:          2,
		},
		Player: PlayerConfig{
			Lanes:     3,
			LaneWidth: 2,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 5000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.5,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
