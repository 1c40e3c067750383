package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spaceout/spacefit/internal/config"
	"github.com/spaceout/spacefit/internal/core"
	"github.com/spaceout/spacefit/internal/games/runner"
	"github.com/spaceout/spacefit/internal/stream"
)

func TestSimulateRejectsEmptyPrefabs(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Prefabs = nil
	game := runner.NewWithConfig(cfg)
	t.Cleanup(func() { game.Close() })

	var out bytes.Buffer
	err := simulate(&out, game, core.DefaultConfig(), simOptions{Ticks: 60})
	if !errors.Is(err, stream.ErrConfiguration) {
		t.Fatalf("simulate() error = %v, expected ErrConfiguration", err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should run on a bad config, got output:\n%s", out.String())
	}
}

func TestSimulatePrintsSummary(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Prefabs = []config.PrefabConfig{{
		Name:  "gate",
		Walls: []config.PlacementConfig{{Lane: -1, Offset: 20}, {Lane: 0, Offset: 20}},
	}}
	game := runner.NewWithConfig(cfg)
	t.Cleanup(func() { game.Close() })

	var out bytes.Buffer
	err := simulate(&out, game, core.DefaultConfig(), simOptions{
		Ticks:     300,
		Autopilot: true,
		Lookahead: 6,
		Every:     100,
		Render:    true,
	})
	if err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"tick   100", "Ticks:      300 (running)", "Tiles:", "gate", "Joints:", "head"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if game.State().GameOver {
		t.Error("autopilot should keep the run alive through the gates")
	}
}
