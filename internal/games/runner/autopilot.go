package runner

import (
	"github.com/spaceout/spacefit/internal/collide"
	"github.com/spaceout/spacefit/internal/core"
)

// Autopilot picks a lane move that keeps the player clear of walls within
// lookahead units; walls already behind the player are ignored. It prefers
// staying put, then the left neighbour, then the right. ActionNone is
// returned when no move helps.
func (g *Game) Autopilot(lookahead float64) core.Action {
	if g.track == nil {
		return core.ActionNone
	}
	blocked := make(map[int]bool)
	for _, f := range g.track.Features() {
		if f.Kind() != collide.KindWall {
			continue
		}
		z := f.Position().Z
		if z >= playerForward && z <= playerForward+lookahead {
			blocked[f.Lane()] = true
		}
	}
	if !blocked[g.lane] {
		return core.ActionNone
	}

	maxLane := g.cfg.Player.MaxLane()
	if g.lane > -maxLane && !blocked[g.lane-1] {
		return core.ActionLeft
	}
	if g.lane < maxLane && !blocked[g.lane+1] {
		return core.ActionRight
	}
	return core.ActionNone
}
