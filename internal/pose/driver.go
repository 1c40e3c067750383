package pose

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/spaceout/spacefit/internal/collide"
	"github.com/spaceout/spacefit/internal/core"
	"github.com/spaceout/spacefit/internal/session"
)

// Default tunables.
const (
	DefaultSwitchTime    = 3.7
	DefaultFrameCount    = 3
	DefaultProbeDistance = 1.0
)

// Cue is an animation trigger emitted by the driver.
type Cue string

const (
	CueNone Cue = ""
	CueDie  Cue = "Die"
)

// Collector is implemented by probers that can consume a coin hit so it is
// not reported again.
type Collector interface {
	Collect(hit collide.Hit) bool
}

// StepReport describes what a single Step did.
type StepReport struct {
	Switched bool  // The frame index advanced
	Applied  int   // Number of joints updated
	Err      error // Fetch or parse error; joints were left untouched
}

// Driver overlays offset frames on a base pose and runs the forward
// collision probe.
type Driver struct {
	src           Source
	switchTime    float64
	frameCount    int
	probeDistance float64
	logger        *log.Logger

	base        Pose
	live        Pose
	initialized bool
	timer       float64
	index       int
	cue         Cue
}

// Option configures a Driver.
type Option func(*Driver)

// WithSwitchTime sets the interval between offset frames.
func WithSwitchTime(seconds float64) Option {
	return func(d *Driver) {
		if seconds > 0 {
			d.switchTime = seconds
		}
	}
}

// WithFrameCount overrides the number of frames the index cycles through.
func WithFrameCount(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.frameCount = n
		}
	}
}

// WithProbeDistance sets the reach of the forward collision probe.
func WithProbeDistance(dist float64) Option {
	return func(d *Driver) {
		if dist > 0 {
			d.probeDistance = dist
		}
	}
}

// WithLogger sets the logger used for skipped frames and collisions.
func WithLogger(l *log.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDriver creates a driver reading offsets from src.
// The frame count defaults to the source's FrameCount when it has one.
func NewDriver(src Source, opts ...Option) *Driver {
	d := &Driver{
		src:           src,
		switchTime:    DefaultSwitchTime,
		frameCount:    DefaultFrameCount,
		probeDistance: DefaultProbeDistance,
		logger:        log.Default().WithPrefix("pose"),
	}
	if fc, ok := src.(FrameCounter); ok && fc.FrameCount() > 0 {
		d.frameCount = fc.FrameCount()
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Initialize captures the base pose. It must contain every joint and may be
// called only once; later changes to the rest skeleton are not picked up.
func (d *Driver) Initialize(base Pose) error {
	if d.initialized {
		return ErrAlreadyInitialized
	}
	for _, j := range Joints {
		if _, ok := base[j]; !ok {
			return fmt.Errorf("%w: %s", ErrIncompleteBase, j)
		}
	}
	d.base = base.Clone()
	d.live = base.Clone()
	d.initialized = true
	return nil
}

// Step advances the frame timer and applies the current offset frame.
// It does nothing when active is false.
func (d *Driver) Step(dt float64, active bool) StepReport {
	var rep StepReport
	if !active {
		return rep
	}
	if !d.initialized {
		rep.Err = ErrNotInitialized
		return rep
	}

	d.timer += dt
	if d.timer > d.switchTime {
		d.timer = 0
		d.index = (d.index + 1) % d.frameCount
		rep.Switched = true
	}

	frame, err := d.src.Frame(d.index)
	if err != nil {
		d.logger.Warn("skipping offset frame", "index", d.index, "error", err)
		rep.Err = err
		return rep
	}
	if frame == nil {
		rep.Err = fmt.Errorf("%w: source returned no frame", ErrMalformedFrame)
		d.logger.Warn("skipping offset frame", "index", d.index, "error", rep.Err)
		return rep
	}

	for j, off := range frame {
		base, ok := d.base[j]
		if !ok {
			continue
		}
		d.live[j] = base.Add(off)
		rep.Applied++
	}
	return rep
}

// CheckCollision probes forward from origin. A wall ends the run and emits
// CueDie; a coin is collected and counted. The check only runs while the
// run is active.
func (d *Driver) CheckCollision(p collide.Prober, origin core.Vec3, rs *session.RunState) collide.Kind {
	if p == nil || rs == nil || !rs.Active() {
		return collide.KindNone
	}
	hit, ok := p.Probe(origin, core.Forward, d.probeDistance)
	if !ok {
		return collide.KindNone
	}

	switch hit.Kind() {
	case collide.KindWall:
		rs.Over = true
		d.cue = CueDie
		d.logger.Info("hit wall", "distance", hit.Distance, "origin", origin)
	case collide.KindCoin:
		if c, ok := p.(Collector); ok && !c.Collect(hit) {
			return collide.KindNone
		}
		rs.Coins++
	}
	return hit.Kind()
}

// Joints returns a copy of the live joint positions.
func (d *Driver) Joints() Pose { return d.live.Clone() }

// Base returns a copy of the captured base pose.
func (d *Driver) Base() Pose { return d.base.Clone() }

// FrameIndex returns the index of the active offset frame.
func (d *Driver) FrameIndex() int { return d.index }

// Timer returns the time accumulated toward the next frame switch.
func (d *Driver) Timer() float64 { return d.timer }

// SwitchTime returns the frame interval.
func (d *Driver) SwitchTime() float64 { return d.switchTime }

// Cue returns the last animation cue.
func (d *Driver) Cue() Cue { return d.cue }
