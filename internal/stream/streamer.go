// Package stream keeps a fixed window of ground tiles around the player and
// recycles the oldest tile once the player has passed it, producing an
// endless track in bounded memory.
package stream

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/spaceout/spacefit/internal/collide"
	"github.com/spaceout/spacefit/internal/core"
	"github.com/spaceout/spacefit/internal/seq"
)

// ErrConfiguration reports an unusable tile setup. It is fatal at startup.
var ErrConfiguration = errors.New("stream: invalid tile configuration")

// Placement positions a feature on a tile.
type Placement struct {
	Lane   int     // Lane index, 0 is the center lane
	Offset float64 // Forward offset from the tile origin
}

// Prefab is a tile variant: a named layout of walls and coins.
type Prefab struct {
	Name  string
	Walls []Placement
	Coins []Placement
}

// Tile is one active ground segment.
type Tile struct {
	ID     int
	Prefab Prefab
	Z      float64 // Forward position of the tile origin

	collected map[int]bool
}

// Collected reports whether coin i of the tile has been picked up.
func (t *Tile) Collected(i int) bool {
	return t.collected[i]
}

// Config holds the streamer tunables that do not change the window layout.
type Config struct {
	MoveSpeed float64     // Units per second the track scrolls toward the player
	LaneWidth float64     // Lateral distance between lane centers
	HitRadius float64     // Max lateral distance for a probe to hit a feature
	Logger    *log.Logger // Optional; defaults to the package logger
}

// Streamer owns the tile window.
type Streamer struct {
	cfg        Config
	moveSpeed  float64
	tileLength float64
	count      int
	tiles      []*Tile
	prefabs    *seq.Rotation[Prefab]
	nextID     int
	recycles   int
	logger     *log.Logger
}

// New creates an empty streamer. Call Initialize before stepping it.
func New(cfg Config) *Streamer {
	if cfg.LaneWidth <= 0 {
		cfg.LaneWidth = 1
	}
	if cfg.HitRadius <= 0 {
		cfg.HitRadius = cfg.LaneWidth / 2
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default().WithPrefix("stream")
	}
	return &Streamer{
		cfg:       cfg,
		moveSpeed: cfg.MoveSpeed,
		logger:    logger,
	}
}

// Initialize spawns numberOfTiles tiles at slots 0..n-1, cycling through
// prefabs in order. Any previous window is discarded.
func (s *Streamer) Initialize(prefabs []Prefab, numberOfTiles int, tileLength float64) error {
	if len(prefabs) == 0 {
		return fmt.Errorf("%w: prefab set is empty", ErrConfiguration)
	}
	if numberOfTiles <= 0 {
		return fmt.Errorf("%w: number of tiles must be positive, got %d", ErrConfiguration, numberOfTiles)
	}
	if tileLength <= 0 {
		return fmt.Errorf("%w: tile length must be positive, got %g", ErrConfiguration, tileLength)
	}

	rot, err := seq.New(prefabs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	s.prefabs = rot
	s.tileLength = tileLength
	s.count = numberOfTiles
	s.tiles = make([]*Tile, 0, numberOfTiles)
	s.nextID = 0
	s.recycles = 0

	for i := 0; i < numberOfTiles; i++ {
		s.spawn()
	}
	s.logger.Debug("track initialized", "tiles", numberOfTiles, "length", tileLength, "variants", len(prefabs))
	return nil
}

// spawn appends a tile at tileLength * len(window) using the next prefab.
func (s *Streamer) spawn() *Tile {
	t := &Tile{
		ID:     s.nextID,
		Prefab: s.prefabs.Next(),
		Z:      s.tileLength * float64(len(s.tiles)),
	}
	s.nextID++
	s.tiles = append(s.tiles, t)
	return t
}

// Step scrolls the track by moveSpeed*dt and recycles at most one tile.
// It does nothing when active is false. It reports whether a tile was recycled.
func (s *Streamer) Step(dt, playerForward float64, active bool) bool {
	if !active || len(s.tiles) == 0 {
		return false
	}

	shift := s.moveSpeed * dt
	for _, t := range s.tiles {
		t.Z -= shift
	}

	// A single check per step: a large dt can leave more than one tile
	// behind the threshold, only the head is recycled this step.
	head := s.tiles[0]
	if head.Z >= playerForward-s.tileLength {
		return false
	}

	s.tiles[0] = nil
	s.tiles = s.tiles[1:]
	t := s.spawn()
	s.recycles++
	s.logger.Debug("tile recycled", "dropped", head.ID, "spawned", t.ID, "variant", t.Prefab.Name, "z", t.Z)
	return true
}

// SetMoveSpeed changes the scroll speed.
func (s *Streamer) SetMoveSpeed(v float64) {
	s.moveSpeed = v
}

// MoveSpeed returns the current scroll speed.
func (s *Streamer) MoveSpeed() float64 { return s.moveSpeed }

// TileLength returns the configured tile length.
func (s *Streamer) TileLength() float64 { return s.tileLength }

// LaneWidth returns the lateral distance between lanes.
func (s *Streamer) LaneWidth() float64 { return s.cfg.LaneWidth }

// Len returns the number of active tiles.
func (s *Streamer) Len() int { return len(s.tiles) }

// Recycles returns how many tiles have been recycled since Initialize.
func (s *Streamer) Recycles() int { return s.recycles }

// Tiles returns the active tiles, oldest first. The slice must not be modified.
func (s *Streamer) Tiles() []*Tile { return s.tiles }

// Feature is a wall or coin placed on an active tile.
type Feature struct {
	kind  collide.Kind
	pos   core.Vec3
	tile  *Tile
	index int
}

// Kind implements collide.Collider.
func (f Feature) Kind() collide.Kind { return f.kind }

// Position implements collide.Collider.
func (f Feature) Position() core.Vec3 { return f.pos }

// Lane returns the lane the feature sits on.
func (f Feature) Lane() int {
	if f.kind == collide.KindCoin {
		return f.tile.Prefab.Coins[f.index].Lane
	}
	return f.tile.Prefab.Walls[f.index].Lane
}

// Features returns every wall and uncollected coin in world space.
func (s *Streamer) Features() []Feature {
	var out []Feature
	for _, t := range s.tiles {
		for i, p := range t.Prefab.Walls {
			out = append(out, Feature{kind: collide.KindWall, pos: s.place(t, p), tile: t, index: i})
		}
		for i, p := range t.Prefab.Coins {
			if t.collected[i] {
				continue
			}
			out = append(out, Feature{kind: collide.KindCoin, pos: s.place(t, p), tile: t, index: i})
		}
	}
	return out
}

func (s *Streamer) place(t *Tile, p Placement) core.Vec3 {
	return core.V(float64(p.Lane)*s.cfg.LaneWidth, 0, t.Z+p.Offset)
}

// Probe implements collide.Prober over the features of the active tiles.
// The nearest feature in front of origin along dir, within maxDist and
// HitRadius of the ray, is returned.
func (s *Streamer) Probe(origin, dir core.Vec3, maxDist float64) (collide.Hit, bool) {
	dir = dir.Normalize()
	var (
		best  collide.Hit
		found bool
	)
	for _, f := range s.Features() {
		rel := f.pos.Sub(origin)
		along := rel.Dot(dir)
		if along < 0 || along > maxDist {
			continue
		}
		if rel.Sub(dir.Scale(along)).Len() > s.cfg.HitRadius {
			continue
		}
		if !found || along < best.Distance {
			best = collide.Hit{Collider: f, Distance: along}
			found = true
		}
	}
	return best, found
}

// Collect marks the coin behind hit as picked up. Hits on anything but an
// active tile's coin are ignored.
func (s *Streamer) Collect(hit collide.Hit) bool {
	f, ok := hit.Collider.(Feature)
	if !ok || f.kind != collide.KindCoin || f.tile == nil {
		return false
	}
	if f.tile.collected == nil {
		f.tile.collected = make(map[int]bool)
	}
	if f.tile.collected[f.index] {
		return false
	}
	f.tile.collected[f.index] = true
	return true
}
