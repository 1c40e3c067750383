package runner

import (
	"fmt"
	"math"

	"github.com/spaceout/spacefit/internal/collide"
	"github.com/spaceout/spacefit/internal/core"
	"github.com/spaceout/spacefit/internal/pose"
	"github.com/spaceout/spacefit/internal/stream"
)

// Visual characters for rendering
const (
	TrackChar  = '·'
	SeamChar   = '─'
	LaneChar   = '┊'
	WallChar   = '█'
	CoinChar   = 'o'
	PlayerChar = '▲'
	HeadChar   = '@'
	HandChar   = '*'
	JointChar  = '+'
	FootChar   = '▀'
	BoneChar   = '.'
)

const (
	laneCols  = 5   // Columns per lane
	rowDepth  = 1.0 // Track units per screen row
	panelW    = 22
	panelH    = 14
	bodyScale = 7.0 // Columns per world unit in the skeleton panel
)

// bones are drawn before joints so joints stay on top.
var bones = [][2]pose.Joint{
	{pose.Head, pose.LeftForearm},
	{pose.Head, pose.RightForearm},
	{pose.LeftForearm, pose.LeftHand},
	{pose.RightForearm, pose.RightHand},
	{pose.LeftLeg, pose.LeftFoot},
	{pose.RightLeg, pose.RightFoot},
}

// Render draws the track on the left, the astronaut on the right and the
// HUD on the top row.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.track == nil {
		return
	}

	trackX := 1
	g.drawTrack(dst, trackX)
	g.drawSkeleton(dst, trackX+g.trackWidth()+2, 2)
	g.drawHUD(dst)

	st := g.State()
	switch {
	case !st.Started:
		drawCenteredMessage(dst, "SPACEFIT", "Press SPACE to start")
	case st.GameOver:
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  Coins: %d  |  R to restart", st.Score, st.Coins))
	case st.Paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
}

func (g *Game) trackWidth() int {
	return g.cfg.Player.Lanes*laneCols + 2
}

func (g *Game) laneCol(x0, lane int) int {
	return x0 + 1 + (lane+g.cfg.Player.MaxLane())*laneCols
}

// drawTrack renders a top-down view with the player on the bottom row and
// the track ahead growing upward.
func (g *Game) drawTrack(dst *core.Screen, x0 int) {
	top, bottom := 1, dst.Height()-1
	if bottom <= top {
		return
	}
	w := g.trackWidth()

	for y := top; y <= bottom; y++ {
		dst.SetColor(x0, y, '│', core.ColorTrack)
		dst.SetColor(x0+w-1, y, '│', core.ColorTrack)
		for l := 1; l < g.cfg.Player.Lanes; l++ {
			dst.SetColor(x0+l*laneCols, y, LaneChar, core.ColorDim)
		}
		for l := -g.cfg.Player.MaxLane(); l <= g.cfg.Player.MaxLane(); l++ {
			dst.SetColor(g.laneCol(x0, l)+laneCols/2, y, TrackChar, core.ColorTrack)
		}
	}

	row := func(z float64) (int, bool) {
		y := bottom - int(math.Round((z-playerForward)/rowDepth))
		return y, y >= top && y <= bottom
	}

	for _, t := range g.track.Tiles() {
		if y, ok := row(t.Z); ok {
			dst.DrawHLine(x0+1, y, w-2, SeamChar, core.ColorTileEdge)
		}
	}

	for _, f := range g.track.Features() {
		y, ok := row(f.Position().Z)
		if !ok {
			continue
		}
		x := g.laneCol(x0, f.Lane())
		if f.Kind() == collide.KindWall {
			dst.DrawHLine(x, y, laneCols-1, WallChar, core.ColorWall)
		} else {
			dst.SetColor(x+laneCols/2, y, CoinChar, core.ColorCoin)
		}
	}

	dst.SetColor(g.laneCol(x0, g.lane)+laneCols/2, bottom, PlayerChar, core.ColorPlayer)
}

// drawSkeleton projects the live joints onto the X/Y plane inside a box.
func (g *Game) drawSkeleton(dst *core.Screen, x0, y0 int) {
	if g.driver == nil || x0+panelW > dst.Width() {
		return
	}
	h := min(panelH, dst.Height()-y0-1)
	if h < 6 {
		return
	}
	dst.DrawBox(x0, y0, panelW, h, core.ColorDim)
	dst.DrawText(x0+2, y0, " suit ", core.ColorDim)

	cx := x0 + panelW/2
	floor := y0 + h - 2
	rowsPerUnit := float64(h-3) / 3.0
	project := func(v core.Vec3) (int, int) {
		return cx + int(math.Round(v.X*bodyScale)), floor - int(math.Round(v.Y*rowsPerUnit))
	}
	inside := func(x, y int) bool {
		return x > x0 && x < x0+panelW-1 && y > y0 && y < y0+h-1
	}

	joints := g.driver.Joints()
	for _, b := range bones {
		ax, ay := project(joints[b[0]])
		bx, by := project(joints[b[1]])
		steps := max(abs(bx-ax), abs(by-ay))
		for i := 1; i < steps; i++ {
			x := ax + (bx-ax)*i/steps
			y := ay + (by-ay)*i/steps
			if inside(x, y) {
				dst.SetColor(x, y, BoneChar, core.ColorBone)
			}
		}
	}

	for _, j := range pose.Joints {
		x, y := project(joints[j])
		if !inside(x, y) {
			continue
		}
		dst.SetColor(x, y, jointRune(j), core.ColorSuit)
	}

	dst.DrawText(x0+2, y0+h-1, fmt.Sprintf(" frame %d ", g.driver.FrameIndex()), core.ColorDim)
}

func jointRune(j pose.Joint) rune {
	switch j {
	case pose.Head:
		return HeadChar
	case pose.LeftHand, pose.RightHand:
		return HandChar
	case pose.LeftFoot, pose.RightFoot:
		return FootChar
	default:
		return JointChar
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	st := g.State()
	left := fmt.Sprintf(" Score: %d  Coins: %d ", st.Score, st.Coins)
	dst.DrawText(1, 0, left, core.ColorHUD)

	right := fmt.Sprintf(" Spd: %.1f  Tiles: %d ", g.track.MoveSpeed(), g.counters.Recycles)
	if t := g.tileAt(playerForward); t != nil {
		right = " " + t.Prefab.Name + right
	}
	if g.feed != nil {
		right = " LIVE" + right
	}
	if x := dst.Width() - len([]rune(right)) - 1; x > len(left)+1 {
		dst.DrawText(x, 0, right, core.ColorHUD)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.DrawBox(boxX, boxY, boxW, boxH, core.ColorWarn)
	dst.DrawText(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, core.ColorWarn)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle, core.ColorHUD)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// tileAt returns the tile containing z, or nil.
func (g *Game) tileAt(z float64) *stream.Tile {
	for _, t := range g.track.Tiles() {
		if z >= t.Z && z < t.Z+g.track.TileLength() {
			return t
		}
	}
	return nil
}
