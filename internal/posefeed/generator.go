// Package posefeed serves synthetic pose landmarks over HTTP in the shape
// of a webcam pose landmarker: GET /get_landmarks returns 33 normalized
// [x, y, z] points, or -1 when detection fails.
package posefeed

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/spaceout/spacefit/internal/pose"
)

// Generator cycles the mock offset frames as landmark sets.
type Generator struct {
	mu       sync.Mutex
	rest     [][3]float64
	frames   []pose.OffsetFrame
	interval time.Duration
	scale    float64
	jitter   float64
	dropout  float64
	rng      *rand.Rand
	start    time.Time
	now      func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithInterval sets how long each frame is served.
func WithInterval(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		if d > 0 {
			g.interval = d
		}
	}
}

// WithScale sets world units per normalized image unit.
func WithScale(scale float64) GeneratorOption {
	return func(g *Generator) {
		if scale > 0 {
			g.scale = scale
		}
	}
}

// WithJitter adds uniform noise of up to amount to every coordinate.
func WithJitter(amount float64) GeneratorOption {
	return func(g *Generator) {
		g.jitter = amount
	}
}

// WithDropout makes a fraction p of requests report a failed detection.
func WithDropout(p float64) GeneratorOption {
	return func(g *Generator) {
		g.dropout = p
	}
}

// WithSeed seeds the noise and dropout generator.
func WithSeed(seed int64) GeneratorOption {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// NewGenerator builds a generator over the three mock frames.
func NewGenerator(opts ...GeneratorOption) (*Generator, error) {
	g := &Generator{
		interval: time.Duration(pose.DefaultSwitchTime * float64(time.Second)),
		scale:    2,
		rng:      rand.New(rand.NewSource(1)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	for i := 0; i < pose.DefaultFrameCount; i++ {
		f, err := pose.ParseFrame(pose.MockPayload(i))
		if err != nil {
			return nil, fmt.Errorf("posefeed: mock frame %d: %w", i, err)
		}
		g.frames = append(g.frames, f)
	}
	g.rest = g.restLandmarks()
	g.start = g.now()
	return g, nil
}

// restLandmarks places the default skeleton in image space: x grows right,
// y grows down, the feet near the bottom edge.
func (g *Generator) restLandmarks() [][3]float64 {
	pts := make([][3]float64, pose.LandmarkCount)
	for i := range pts {
		pts[i] = [3]float64{0.5, 0.5, 0}
	}
	for j, v := range pose.DefaultBase() {
		if idx, ok := pose.LandmarkIndex(j); ok {
			pts[idx] = [3]float64{0.5 + v.X/g.scale, 0.95 - v.Y/g.scale, v.Z / g.scale}
		}
	}
	return pts
}

// FrameIndex returns the mock frame served at t.
func (g *Generator) FrameIndex(t time.Time) int {
	elapsed := t.Sub(g.start)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed/g.interval) % len(g.frames)
}

// Landmarks returns the landmark set for the current frame. ok is false
// when the request simulates a failed detection.
func (g *Generator) Landmarks() (pts [][3]float64, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dropout > 0 && g.rng.Float64() < g.dropout {
		return nil, false
	}

	frame := g.frames[g.FrameIndex(g.now())]
	pts = make([][3]float64, len(g.rest))
	copy(pts, g.rest)
	for j, off := range frame {
		idx, found := pose.LandmarkIndex(j)
		if !found {
			continue
		}
		pts[idx][0] += off.X / g.scale
		pts[idx][1] -= off.Y / g.scale
		pts[idx][2] += off.Z / g.scale
	}

	if g.jitter > 0 {
		for i := range pts {
			for k := range pts[i] {
				pts[i][k] += (g.rng.Float64()*2 - 1) * g.jitter
			}
		}
	}
	return pts, true
}
